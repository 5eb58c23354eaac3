package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/periodize/internal/events"
	"github.com/2beens/periodize/internal/telemetry/metrics"
	"github.com/2beens/periodize/internal/telemetry/tracing"
	"github.com/2beens/periodize/internal/training"
	"github.com/2beens/periodize/internal/training/planner"
	"github.com/2beens/periodize/internal/training/volume"
	"github.com/2beens/periodize/pkg"

	"github.com/gorilla/mux"
)

type logVolumeRequest struct {
	MuscleGroup string   `json:"muscleGroup"`
	Volume      *float64 `json:"volume"`
}

type seedRequest struct {
	TrainingLevel string `json:"trainingLevel"`
}

func (h *Handler) handleVolumeSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.volume.summary")
	defer span.End()

	summaries, err := h.summaries.Summary(ctx, mux.Vars(r)["user"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleLogVolume(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.volume.log")
	defer span.End()

	userID := mux.Vars(r)["user"]
	var req logVolumeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Volume == nil {
		writeError(w, r, ErrInvalidBody.WithField("volume"))
		return
	}

	mg := training.MuscleGroup(strings.ToLower(req.MuscleGroup))
	landmark, err := h.volume.UpsertCurrentVolume(ctx, userID, mg, *req.Volume)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.summaries.Invalidate(ctx, userID)
	h.metricsManager.CounterVolumeLogged.WithLabelValues(mg.String()).Inc()
	h.publish(ctx, events.New(events.VolumeLogged, userID, mg.String(), landmark))

	pkg.WriteJSON(w, http.StatusOK, volume.NewSummary(*landmark))
}

func (h *Handler) handleSeedLandmarks(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.volume.seed")
	defer span.End()

	userID := mux.Vars(r)["user"]
	var req seedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	level := training.TrainingLevel(strings.ToLower(strings.TrimSpace(req.TrainingLevel)))
	landmarks, err := h.volume.SeedDefaults(ctx, userID, level)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.summaries.Invalidate(ctx, userID)
	h.publish(ctx, events.New(events.LandmarksSeeded, userID, "", map[string]any{
		"trainingLevel": level,
		"muscleGroups":  len(landmarks),
	}))

	pkg.WriteJSON(w, http.StatusCreated, landmarks)
}

func (h *Handler) handleSetLandmarks(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.volume.landmarks.set")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["user"]
	mg := training.MuscleGroup(strings.ToLower(vars["group"]))

	var req volume.Landmarks
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	landmark, err := h.volume.SetLandmarks(ctx, userID, mg, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.summaries.Invalidate(ctx, userID)
	h.publish(ctx, events.New(events.LandmarksUpdated, userID, mg.String(), landmark))

	pkg.WriteJSON(w, http.StatusOK, volume.NewSummary(*landmark))
}

// handlePlanNextSession reads ?groups=chest,quads&ready=false. Readiness defaults to ready.
func (h *Handler) handlePlanNextSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.planner.next_session")
	defer span.End()

	userID := mux.Vars(r)["user"]
	query := r.URL.Query()

	readiness := planner.Readiness{ReadyToTrain: true}
	if readyParam := query.Get("ready"); readyParam != "" {
		ready, err := strconv.ParseBool(readyParam)
		if err != nil {
			writeError(w, r, ErrInvalidQuery.WithField("ready"))
			return
		}
		readiness.ReadyToTrain = ready
	}

	plan, err := h.planner.PlanNextSession(ctx, userID, training.ParseMuscleGroups(query.Get("groups")), readiness)
	if err != nil {
		outcome := metrics.PlanOutcomeError
		if errors.Is(err, planner.ErrNoLandmarksFound) {
			outcome = metrics.PlanOutcomeNoLandmarks
		}
		h.metricsManager.CounterSessionPlans.WithLabelValues(outcome).Inc()
		writeError(w, r, err)
		return
	}

	outcome := metrics.PlanOutcomeOK
	if plan.Fatigued {
		outcome = metrics.PlanOutcomeFatigued
	}
	h.metricsManager.CounterSessionPlans.WithLabelValues(outcome).Inc()

	pkg.WriteJSON(w, http.StatusOK, plan)
}
