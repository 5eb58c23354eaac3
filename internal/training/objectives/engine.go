package objectives

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/periodize/internal/errs"
	"github.com/2beens/periodize/internal/telemetry/tracing"
	"github.com/2beens/periodize/internal/training/periodization"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrMissingUser        = errs.New(errs.KindValidation, "missing_user", "user id is empty")
	ErrMissingDescription = errs.New(errs.KindValidation, "missing_description", "objective description is empty")
	ErrUnknownEntityType  = errs.New(errs.KindValidation, "unknown_entity_type", "unknown entity type")
	ErrObjectiveNotFound  = errs.New(errs.KindNotFound, "objective_not_found", "objective not found")
	ErrEntityNotFound     = errs.New(errs.KindNotFound, "entity_not_found", "entity not found")
)

type objectivesRepo interface {
	AddObjective(ctx context.Context, o Objective) error
	GetObjective(ctx context.Context, id string) (*Objective, error)
	ListObjectives(ctx context.Context, userID string) ([]Objective, error)
	// AddAssociation keeps a single record per (objective, entity); adding it
	// again is not an error and leaves the original untouched.
	AddAssociation(ctx context.Context, a Association) error
	RemoveAssociation(ctx context.Context, objectiveID string, entityType EntityType, entityID string) error
	// ListAssociations returns the associations of one entity, oldest first.
	ListAssociations(ctx context.Context, entityType EntityType, entityID string) ([]Association, error)
}

type hierarchyReader interface {
	GetProgram(ctx context.Context, id string) (*periodization.Program, error)
	GetMesocycle(ctx context.Context, id string) (*periodization.Mesocycle, error)
	GetMicrocycle(ctx context.Context, id string) (*periodization.Microcycle, error)
	GetSession(ctx context.Context, id string) (*periodization.Session, error)
}

// parentResolver checks that the entity exists and returns its parent,
// or nil for the root of the hierarchy.
type parentResolver func(ctx context.Context, id string) (*EntityRef, error)

type Engine struct {
	repo      objectivesRepo
	hierarchy hierarchyReader
	resolvers map[EntityType]parentResolver
	newID     func() string
	now       func() time.Time
}

func NewEngine(repo objectivesRepo, hierarchy hierarchyReader) *Engine {
	return &Engine{
		repo:      repo,
		hierarchy: hierarchy,
		resolvers: newResolvers(hierarchy),
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

func newResolvers(h hierarchyReader) map[EntityType]parentResolver {
	return map[EntityType]parentResolver{
		EntityProgram: func(ctx context.Context, id string) (*EntityRef, error) {
			if _, err := h.GetProgram(ctx, id); err != nil {
				return nil, err
			}
			return nil, nil
		},
		EntityMesocycle: func(ctx context.Context, id string) (*EntityRef, error) {
			m, err := h.GetMesocycle(ctx, id)
			if err != nil {
				return nil, err
			}
			return &EntityRef{Type: EntityProgram, ID: m.ProgramID}, nil
		},
		EntityMicrocycle: func(ctx context.Context, id string) (*EntityRef, error) {
			m, err := h.GetMicrocycle(ctx, id)
			if err != nil {
				return nil, err
			}
			return &EntityRef{Type: EntityMesocycle, ID: m.MesocycleID}, nil
		},
		EntitySession: func(ctx context.Context, id string) (*EntityRef, error) {
			s, err := h.GetSession(ctx, id)
			if err != nil {
				return nil, err
			}
			return &EntityRef{Type: EntityMicrocycle, ID: s.MicrocycleID}, nil
		},
	}
}

// parent returns the parent of ref, translating missing hierarchy nodes to ErrEntityNotFound.
func (e *Engine) parent(ctx context.Context, ref EntityRef) (*EntityRef, error) {
	resolve, ok := e.resolvers[ref.Type]
	if !ok {
		return nil, ErrUnknownEntityType.WithField("entityType")
	}
	parent, err := resolve(ctx, ref.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrEntityNotFound.WithEntity(string(ref.Type), ref.ID)
		}
		return nil, fmt.Errorf("resolve %s %s: %w", ref.Type, ref.ID, err)
	}
	return parent, nil
}

type NewObjective struct {
	UserID      string  `json:"userId"`
	Description string  `json:"description"`
	Metric      string  `json:"metric"`
	TargetValue float64 `json:"targetValue"`
}

func (e *Engine) CreateObjective(ctx context.Context, no NewObjective) (_ *Objective, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.objectives.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user", no.UserID))

	if no.UserID == "" {
		return nil, ErrMissingUser
	}
	if strings.TrimSpace(no.Description) == "" {
		return nil, ErrMissingDescription.WithField("description")
	}

	o := Objective{
		ID:          e.newID(),
		UserID:      no.UserID,
		Description: no.Description,
		Metric:      no.Metric,
		TargetValue: no.TargetValue,
		CreatedAt:   e.now().UTC(),
	}
	if err := e.repo.AddObjective(ctx, o); err != nil {
		return nil, fmt.Errorf("add objective: %w", err)
	}
	return &o, nil
}

func (e *Engine) ListObjectives(ctx context.Context, userID string) ([]Objective, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	return e.repo.ListObjectives(ctx, userID)
}

// owner returns the user owning the program that ref belongs to.
func (e *Engine) owner(ctx context.Context, ref EntityRef) (string, error) {
	for {
		parent, err := e.parent(ctx, ref)
		if err != nil {
			return "", err
		}
		if parent == nil {
			break
		}
		ref = *parent
	}

	program, err := e.hierarchy.GetProgram(ctx, ref.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", ErrEntityNotFound.WithEntity(string(ref.Type), ref.ID)
		}
		return "", fmt.Errorf("get program %s: %w", ref.ID, err)
	}
	return program.UserID, nil
}

// Associate attaches an objective to a hierarchy node of the same user and
// returns the objective. Associating the same pair twice leaves a single
// association. A node of another user is reported as not found.
func (e *Engine) Associate(
	ctx context.Context,
	objectiveID string,
	entityType EntityType,
	entityID string,
) (_ *Objective, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.objectives.associate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("objective", objectiveID),
		attribute.String("entity_type", string(entityType)),
		attribute.String("entity", entityID),
	)

	if !entityType.IsValid() {
		return nil, ErrUnknownEntityType.WithField("entityType")
	}
	objective, err := e.repo.GetObjective(ctx, objectiveID)
	if err != nil {
		return nil, err
	}
	ownerID, err := e.owner(ctx, EntityRef{Type: entityType, ID: entityID})
	if err != nil {
		return nil, err
	}
	if ownerID != objective.UserID {
		return nil, ErrEntityNotFound.WithEntity(string(entityType), entityID)
	}

	if err := e.repo.AddAssociation(ctx, Association{
		ObjectiveID: objectiveID,
		EntityType:  entityType,
		EntityID:    entityID,
		CreatedAt:   e.now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("add association: %w", err)
	}
	return objective, nil
}

// Dissociate removes the association and returns the objective; removing an
// association that doesn't exist is a no-op.
func (e *Engine) Dissociate(
	ctx context.Context,
	objectiveID string,
	entityType EntityType,
	entityID string,
) (_ *Objective, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.objectives.dissociate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !entityType.IsValid() {
		return nil, ErrUnknownEntityType.WithField("entityType")
	}
	objective, err := e.repo.GetObjective(ctx, objectiveID)
	if err != nil {
		return nil, err
	}
	if err := e.repo.RemoveAssociation(ctx, objectiveID, entityType, entityID); err != nil {
		return nil, fmt.Errorf("remove association: %w", err)
	}
	return objective, nil
}

// ResolveEffectiveObjectives returns the objectives attached to the session and to
// each of its ancestors. Objectives closer to the session come first and each
// objective appears once.
func (e *Engine) ResolveEffectiveObjectives(ctx context.Context, sessionID string) (_ []Objective, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.objectives.resolve")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session", sessionID))

	effective := []Objective{}
	seen := map[string]bool{}
	ref := &EntityRef{Type: EntitySession, ID: sessionID}
	for ref != nil {
		parent, err := e.parent(ctx, *ref)
		if err != nil {
			return nil, err
		}

		associations, err := e.repo.ListAssociations(ctx, ref.Type, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("list associations of %s %s: %w", ref.Type, ref.ID, err)
		}
		for _, a := range associations {
			if seen[a.ObjectiveID] {
				continue
			}
			seen[a.ObjectiveID] = true

			o, err := e.repo.GetObjective(ctx, a.ObjectiveID)
			if err != nil {
				return nil, fmt.Errorf("get objective %s: %w", a.ObjectiveID, err)
			}
			effective = append(effective, *o)
		}

		ref = parent
	}

	span.SetAttributes(attribute.Int("objectives", len(effective)))
	return effective, nil
}
