// Package api exposes the training services over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/2beens/periodize/internal/events"
	"github.com/2beens/periodize/internal/middleware"
	"github.com/2beens/periodize/internal/telemetry/metrics"
	"github.com/2beens/periodize/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	volume     volumeService
	summaries  summaryCache
	planner    sessionPlanner
	programs   programService
	objectives objectiveService
	publisher  eventPublisher

	metricsManager *metrics.Manager
}

type HandlerParams struct {
	Volume         volumeService
	Summaries      summaryCache
	Planner        sessionPlanner
	Programs       programService
	Objectives     objectiveService
	Publisher      eventPublisher
	MetricsManager *metrics.Manager
}

func NewHandler(params HandlerParams) *Handler {
	publisher := params.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	metricsManager := params.MetricsManager
	if metricsManager == nil {
		metricsManager = metrics.NewTestManager()
	}
	return &Handler{
		volume:         params.Volume,
		summaries:      params.Summaries,
		planner:        params.Planner,
		programs:       params.Programs,
		objectives:     params.Objectives,
		publisher:      publisher,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers all routes on mainRouter. Write routes are rate limited
// when a limiter is given and allowedPerMin is positive.
func (h *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	mainRouter.HandleFunc("/health", h.handleHealth).Methods("GET").Name("health")

	// reads
	mainRouter.HandleFunc("/users/{user}/volume/summary", h.handleVolumeSummary).Methods("GET").Name("volume-summary")
	mainRouter.HandleFunc("/users/{user}/plan", h.handlePlanNextSession).Methods("GET").Name("plan")
	mainRouter.HandleFunc("/templates", h.handleListTemplates).Methods("GET").Name("templates")
	mainRouter.HandleFunc("/users/{user}/programs", h.handleListPrograms).Methods("GET").Name("list-programs")
	mainRouter.HandleFunc("/programs/{id}", h.handleGetProgramTree).Methods("GET").Name("program-tree")
	mainRouter.HandleFunc("/users/{user}/objectives", h.handleListObjectives).Methods("GET").Name("list-objectives")
	mainRouter.HandleFunc("/sessions/{id}/objectives", h.handleEffectiveObjectives).Methods("GET").Name("effective-objectives")

	writes := []struct {
		path    string
		method  string
		name    string
		handler http.HandlerFunc
	}{
		{"/users/{user}/volume", "POST", "log-volume", h.handleLogVolume},
		{"/users/{user}/landmarks/seed", "POST", "seed-landmarks", h.handleSeedLandmarks},
		{"/users/{user}/landmarks/{group}", "PUT", "set-landmarks", h.handleSetLandmarks},
		{"/users/{user}/programs/from-template", "POST", "instantiate-template", h.handleInstantiateTemplate},
		{"/users/{user}/programs", "POST", "create-program", h.handleCreateProgram},
		{"/programs/{id}", "DELETE", "delete-program", h.handleDeleteProgram},
		{"/programs/{id}/mesocycles", "POST", "add-mesocycle", h.handleAddMesocycle},
		{"/mesocycles/{id}/microcycles", "POST", "add-microcycle", h.handleAddMicrocycle},
		{"/microcycles/{id}/sessions", "POST", "add-session", h.handleAddSession},
		{"/users/{user}/objectives", "POST", "create-objective", h.handleCreateObjective},
		{"/objectives/{id}/associations", "POST", "associate-objective", h.handleAssociate},
		{"/objectives/{id}/associations/{type}/{entity}", "DELETE", "dissociate-objective", h.handleDissociate},
	}
	for _, route := range writes {
		var handler http.Handler = route.handler
		if rateLimiter != nil && allowedPerMin > 0 {
			handler = middleware.RateLimit(rateLimiter, route.name, allowedPerMin, h.metricsManager)(handler)
		}
		mainRouter.Handle(route.path, handler).Methods(route.method).Name(route.name)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "ok")
}

// publish is best effort: a failed event never fails the request that caused it.
func (h *Handler) publish(ctx context.Context, event events.Event) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.metricsManager.CounterEventsPublishFailed.Inc()
		log.Errorf("publish event [%s] for user [%s]: %s", event.Type, event.UserID, err)
	}
}
