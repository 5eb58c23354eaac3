package api

import (
	"context"
	"net/http"

	"github.com/2beens/periodize/internal/events"
	"github.com/2beens/periodize/internal/telemetry/tracing"
	"github.com/2beens/periodize/internal/training/objectives"
	"github.com/2beens/periodize/pkg"

	"github.com/gorilla/mux"
)

type objectiveService interface {
	CreateObjective(ctx context.Context, no objectives.NewObjective) (*objectives.Objective, error)
	ListObjectives(ctx context.Context, userID string) ([]objectives.Objective, error)
	Associate(ctx context.Context, objectiveID string, entityType objectives.EntityType, entityID string) (*objectives.Objective, error)
	Dissociate(ctx context.Context, objectiveID string, entityType objectives.EntityType, entityID string) (*objectives.Objective, error)
	ResolveEffectiveObjectives(ctx context.Context, sessionID string) ([]objectives.Objective, error)
}

type associationRequest struct {
	EntityType objectives.EntityType `json:"entityType"`
	EntityID   string                `json:"entityId"`
}

func (h *Handler) handleCreateObjective(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.objectives.create")
	defer span.End()

	var no objectives.NewObjective
	if err := decodeJSON(r, &no); err != nil {
		writeError(w, r, err)
		return
	}
	no.UserID = mux.Vars(r)["user"]

	objective, err := h.objectives.CreateObjective(ctx, no)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.publish(ctx, events.New(events.ObjectiveCreated, objective.UserID, objective.ID, objective))

	pkg.WriteJSON(w, http.StatusCreated, objective)
}

func (h *Handler) handleListObjectives(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.objectives.list")
	defer span.End()

	list, err := h.objectives.ListObjectives(ctx, mux.Vars(r)["user"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleAssociate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.objectives.associate")
	defer span.End()

	objectiveID := mux.Vars(r)["id"]
	var req associationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	objective, err := h.objectives.Associate(ctx, objectiveID, req.EntityType, req.EntityID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.publish(ctx, events.New(events.ObjectiveAssociated, objective.UserID, objectiveID, objectives.EntityRef{
		Type: req.EntityType,
		ID:   req.EntityID,
	}))

	pkg.WriteJSON(w, http.StatusOK, objectives.Association{
		ObjectiveID: objectiveID,
		EntityType:  req.EntityType,
		EntityID:    req.EntityID,
	})
}

func (h *Handler) handleDissociate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.objectives.dissociate")
	defer span.End()

	vars := mux.Vars(r)
	entityType := objectives.EntityType(vars["type"])
	objective, err := h.objectives.Dissociate(ctx, vars["id"], entityType, vars["entity"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.publish(ctx, events.New(events.ObjectiveDissociated, objective.UserID, vars["id"], objectives.EntityRef{
		Type: entityType,
		ID:   vars["entity"],
	}))

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleEffectiveObjectives(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.objectives.effective")
	defer span.End()

	list, err := h.objectives.ResolveEffectiveObjectives(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, list)
}
