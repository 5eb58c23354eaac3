package pgstore

import (
	"context"
	"errors"

	"github.com/2beens/periodize/internal/telemetry/tracing"
	"github.com/2beens/periodize/internal/training/objectives"
	"github.com/2beens/periodize/pkg"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

const objectiveColumns = `id, user_id, description, metric, target_value, created_at`

func scanObjective(row pgx.Row) (*objectives.Objective, error) {
	var o objectives.Objective
	if err := row.Scan(&o.ID, &o.UserID, &o.Description, &o.Metric, &o.TargetValue, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func scanAssociation(row pgx.Row) (*objectives.Association, error) {
	var a objectives.Association
	if err := row.Scan(&a.ObjectiveID, &a.EntityType, &a.EntityID, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) AddObjective(ctx context.Context, o objectives.Objective) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.objective.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("objective", o.ID))

	_, err = s.db.Exec(ctx,
		`INSERT INTO objective (`+objectiveColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.UserID, o.Description, o.Metric, o.TargetValue, o.CreatedAt,
	)
	return err
}

func (s *Store) GetObjective(ctx context.Context, id string) (*objectives.Objective, error) {
	o, err := scanObjective(s.db.QueryRow(ctx, `SELECT `+objectiveColumns+` FROM objective WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, objectives.ErrObjectiveNotFound.WithEntity("objective", id)
	}
	return o, err
}

func (s *Store) ListObjectives(ctx context.Context, userID string) ([]objectives.Objective, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+objectiveColumns+` FROM objective WHERE user_id = $1 ORDER BY created_at, id`, userID,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanObjective)
}

func (s *Store) AddAssociation(ctx context.Context, a objectives.Association) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.association.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("objective", a.ObjectiveID),
		attribute.String("entity", string(a.EntityType)+"/"+a.EntityID),
	)

	_, err = s.db.Exec(ctx, `
		INSERT INTO objective_association (objective_id, entity_type, entity_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (objective_id, entity_type, entity_id) DO NOTHING`,
		a.ObjectiveID, a.EntityType, a.EntityID, a.CreatedAt,
	)
	if pkg.IsForeignKeyViolationError(err) && pkg.ConstraintName(err) == constraintAssocObjective {
		return objectives.ErrObjectiveNotFound.WithEntity("objective", a.ObjectiveID)
	}
	return err
}

func (s *Store) RemoveAssociation(
	ctx context.Context,
	objectiveID string,
	entityType objectives.EntityType,
	entityID string,
) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM objective_association WHERE objective_id = $1 AND entity_type = $2 AND entity_id = $3`,
		objectiveID, entityType, entityID,
	)
	return err
}

func (s *Store) ListAssociations(
	ctx context.Context,
	entityType objectives.EntityType,
	entityID string,
) ([]objectives.Association, error) {
	rows, err := s.db.Query(ctx, `
		SELECT objective_id, entity_type, entity_id, created_at
		FROM objective_association
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY seq`,
		entityType, entityID,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAssociation)
}
