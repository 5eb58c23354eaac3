package api

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/periodize/internal/events"
	"github.com/2beens/periodize/internal/telemetry/tracing"
	"github.com/2beens/periodize/internal/training/periodization"
	"github.com/2beens/periodize/pkg"

	"github.com/gorilla/mux"
)

type programService interface {
	CreateProgram(ctx context.Context, np periodization.NewProgram) (*periodization.Program, error)
	AddMesocycle(ctx context.Context, m periodization.Mesocycle) (*periodization.Mesocycle, error)
	AddMicrocycle(ctx context.Context, m periodization.Microcycle) (*periodization.Microcycle, error)
	AddSession(ctx context.Context, session periodization.Session) (*periodization.Session, error)
	DeleteProgram(ctx context.Context, id string) error
	GetProgram(ctx context.Context, id string) (*periodization.Program, error)
	ListPrograms(ctx context.Context, userID string) ([]periodization.Program, error)
	GetProgramTree(ctx context.Context, id string) (*periodization.ProgramTree, error)
	ListTemplates(ctx context.Context) ([]periodization.Template, error)
	InstantiateTemplate(ctx context.Context, templateID, userID, name string, startDate time.Time) (*periodization.ProgramTree, error)
}

// createProgramRequest takes the start date as a string so plain dates are accepted.
type createProgramRequest struct {
	periodization.NewProgram
	StartDate string `json:"startDate"`
}

type instantiateRequest struct {
	TemplateID string `json:"templateId"`
	Name       string `json:"name"`
	StartDate  string `json:"startDate"`
}

type microcycleRequest struct {
	periodization.Microcycle
	StartDate string `json:"startDate"`
}

type treeCounts struct {
	Mesocycles  int `json:"mesocycles"`
	Microcycles int `json:"microcycles"`
	Sessions    int `json:"sessions"`
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.periodization.templates")
	defer span.End()

	templates, err := h.programs.ListTemplates(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, templates)
}

func (h *Handler) handleInstantiateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.periodization.template.instantiate")
	defer span.End()

	userID := mux.Vars(r)["user"]
	var req instantiateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	startDate, err := parseDate("startDate", req.StartDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tree, err := h.programs.InstantiateTemplate(ctx, req.TemplateID, userID, req.Name, startDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	mesocycles, microcycles, sessions := tree.Counts()
	h.metricsManager.CounterProgramsCreated.WithLabelValues("template").Inc()
	h.publish(ctx, events.New(events.ProgramInstantiated, userID, tree.ID, map[string]any{
		"templateId": req.TemplateID,
		"counts":     treeCounts{mesocycles, microcycles, sessions},
	}))

	pkg.WriteJSON(w, http.StatusCreated, tree)
}

func (h *Handler) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.periodization.program.create")
	defer span.End()

	var req createProgramRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	startDate, err := parseDate("startDate", req.StartDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	np := req.NewProgram
	np.UserID = mux.Vars(r)["user"]
	np.StartDate = startDate

	program, err := h.programs.CreateProgram(ctx, np)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.metricsManager.CounterProgramsCreated.WithLabelValues("manual").Inc()
	h.publish(ctx, events.New(events.ProgramCreated, program.UserID, program.ID, program))

	pkg.WriteJSON(w, http.StatusCreated, program)
}

func (h *Handler) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.periodization.program.list")
	defer span.End()

	programs, err := h.programs.ListPrograms(ctx, mux.Vars(r)["user"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, programs)
}

func (h *Handler) handleGetProgramTree(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.periodization.program.tree")
	defer span.End()

	tree, err := h.programs.GetProgramTree(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, tree)
}

func (h *Handler) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.periodization.program.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	program, err := h.programs.GetProgram(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.programs.DeleteProgram(ctx, id); err != nil {
		writeError(w, r, err)
		return
	}
	h.publish(ctx, events.New(events.ProgramDeleted, program.UserID, id, nil))

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddMesocycle(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.periodization.mesocycle.add")
	defer span.End()

	var m periodization.Mesocycle
	if err := decodeJSON(r, &m); err != nil {
		writeError(w, r, err)
		return
	}
	m.ProgramID = mux.Vars(r)["id"]

	created, err := h.programs.AddMesocycle(ctx, m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleAddMicrocycle(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.periodization.microcycle.add")
	defer span.End()

	var req microcycleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m := req.Microcycle
	m.MesocycleID = mux.Vars(r)["id"]
	m.StartDate = nil
	if req.StartDate != "" {
		startDate, err := parseDate("startDate", req.StartDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		m.StartDate = &startDate
	}

	created, err := h.programs.AddMicrocycle(ctx, m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleAddSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.periodization.session.add")
	defer span.End()

	var session periodization.Session
	if err := decodeJSON(r, &session); err != nil {
		writeError(w, r, err)
		return
	}
	session.MicrocycleID = mux.Vars(r)["id"]

	created, err := h.programs.AddSession(ctx, session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.WriteJSON(w, http.StatusCreated, created)
}
