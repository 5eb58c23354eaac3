package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/periodize/internal/telemetry/tracing"
	"github.com/2beens/periodize/internal/training/objectives"
	"github.com/2beens/periodize/internal/training/periodization"
	"github.com/2beens/periodize/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
)

const (
	programColumns    = `id, user_id, name, periodization_type, start_date, goal, training_level, frequency, structure, created_at`
	mesocycleColumns  = `id, program_id, position, phase, length_in_weeks, target_volume_multiplier, target_intensity_pct`
	microcycleColumns = `id, mesocycle_id, week_number, is_deload, phase, start_date`
	sessionColumns    = `id, microcycle_id, day_of_week, target_intensity_pct, target_volume_multiplier, exercises`
)

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// mapHierarchyErr turns constraint violations into domain errors.
func mapHierarchyErr(err error, parentID string) error {
	if err == nil {
		return nil
	}
	switch pkg.ConstraintName(err) {
	case constraintMesocyclePosition:
		return periodization.ErrDuplicatePosition.WithEntity("program", parentID).WithField("position")
	case constraintMicrocycleWeek:
		return periodization.ErrDuplicateWeek.WithEntity("mesocycle", parentID).WithField("weekNumber")
	case constraintSessionDay:
		return periodization.ErrDuplicateDay.WithEntity("microcycle", parentID).WithField("dayOfWeek")
	case constraintMesocycleProgram:
		return periodization.ErrProgramNotFound.WithEntity("program", parentID)
	case constraintMicrocycleMeso:
		return periodization.ErrMesocycleNotFound.WithEntity("mesocycle", parentID)
	case constraintSessionMicro:
		return periodization.ErrMicrocycleNotFound.WithEntity("microcycle", parentID)
	}
	return err
}

func insertProgram(ctx context.Context, db execer, p periodization.Program) error {
	structure, err := json.Marshal(p.Structure)
	if err != nil {
		return fmt.Errorf("marshal structure: %w", err)
	}
	_, err = db.Exec(ctx,
		`INSERT INTO program (`+programColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.UserID, p.Name, p.PeriodizationType, p.StartDate, p.Goal, p.TrainingLevel, p.Frequency, structure, p.CreatedAt,
	)
	return err
}

func insertMesocycle(ctx context.Context, db execer, m periodization.Mesocycle) error {
	_, err := db.Exec(ctx,
		`INSERT INTO mesocycle (`+mesocycleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.ProgramID, m.Position, m.Phase, m.LengthInWeeks, m.TargetVolumeMultiplier, m.TargetIntensityPct,
	)
	return mapHierarchyErr(err, m.ProgramID)
}

func insertMicrocycle(ctx context.Context, db execer, m periodization.Microcycle) error {
	_, err := db.Exec(ctx,
		`INSERT INTO microcycle (`+microcycleColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.MesocycleID, m.WeekNumber, m.IsDeload, m.Phase, m.StartDate,
	)
	return mapHierarchyErr(err, m.MesocycleID)
}

func insertSession(ctx context.Context, db execer, s periodization.Session) error {
	exercises, err := json.Marshal(s.Exercises)
	if err != nil {
		return fmt.Errorf("marshal exercises: %w", err)
	}
	_, err = db.Exec(ctx,
		`INSERT INTO training_session (`+sessionColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.MicrocycleID, s.DayOfWeek, s.TargetIntensityPct, s.TargetVolumeMultiplier, exercises,
	)
	return mapHierarchyErr(err, s.MicrocycleID)
}

func scanProgram(row pgx.Row) (*periodization.Program, error) {
	var (
		p         periodization.Program
		structure []byte
	)
	if err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.PeriodizationType, &p.StartDate,
		&p.Goal, &p.TrainingLevel, &p.Frequency, &structure, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(structure, &p.Structure); err != nil {
		return nil, fmt.Errorf("unmarshal structure: %w", err)
	}
	return &p, nil
}

func scanMesocycle(row pgx.Row) (*periodization.Mesocycle, error) {
	var m periodization.Mesocycle
	if err := row.Scan(
		&m.ID, &m.ProgramID, &m.Position, &m.Phase,
		&m.LengthInWeeks, &m.TargetVolumeMultiplier, &m.TargetIntensityPct,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMicrocycle(row pgx.Row) (*periodization.Microcycle, error) {
	var m periodization.Microcycle
	if err := row.Scan(&m.ID, &m.MesocycleID, &m.WeekNumber, &m.IsDeload, &m.Phase, &m.StartDate); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanSession(row pgx.Row) (*periodization.Session, error) {
	var (
		s         periodization.Session
		exercises []byte
	)
	if err := row.Scan(
		&s.ID, &s.MicrocycleID, &s.DayOfWeek,
		&s.TargetIntensityPct, &s.TargetVolumeMultiplier, &exercises,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(exercises, &s.Exercises); err != nil {
		return nil, fmt.Errorf("unmarshal exercises: %w", err)
	}
	if s.Exercises == nil {
		s.Exercises = []periodization.PlannedExercise{}
	}
	return &s, nil
}

// collect scans every row with scan. The result is never nil.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) AddProgram(ctx context.Context, p periodization.Program) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.program.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program", p.ID))

	return insertProgram(ctx, s.db, p)
}

func (s *Store) GetProgram(ctx context.Context, id string) (_ *periodization.Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.program.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program", id))

	p, err := scanProgram(s.db.QueryRow(ctx, `SELECT `+programColumns+` FROM program WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, periodization.ErrProgramNotFound.WithEntity("program", id)
	}
	return p, err
}

func (s *Store) ListPrograms(ctx context.Context, userID string) (_ []periodization.Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.program.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user", userID))

	rows, err := s.db.Query(ctx,
		`SELECT `+programColumns+` FROM program WHERE user_id = $1 ORDER BY created_at, id`, userID,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProgram)
}

func (s *Store) AddMesocycle(ctx context.Context, m periodization.Mesocycle) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.mesocycle.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program", m.ProgramID))

	return insertMesocycle(ctx, s.db, m)
}

func (s *Store) GetMesocycle(ctx context.Context, id string) (*periodization.Mesocycle, error) {
	m, err := scanMesocycle(s.db.QueryRow(ctx, `SELECT `+mesocycleColumns+` FROM mesocycle WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, periodization.ErrMesocycleNotFound.WithEntity("mesocycle", id)
	}
	return m, err
}

func (s *Store) ListMesocycles(ctx context.Context, programID string) ([]periodization.Mesocycle, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+mesocycleColumns+` FROM mesocycle WHERE program_id = $1 ORDER BY position`, programID,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMesocycle)
}

func (s *Store) AddMicrocycle(ctx context.Context, m periodization.Microcycle) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.microcycle.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("mesocycle", m.MesocycleID))

	return insertMicrocycle(ctx, s.db, m)
}

func (s *Store) GetMicrocycle(ctx context.Context, id string) (*periodization.Microcycle, error) {
	m, err := scanMicrocycle(s.db.QueryRow(ctx, `SELECT `+microcycleColumns+` FROM microcycle WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, periodization.ErrMicrocycleNotFound.WithEntity("microcycle", id)
	}
	return m, err
}

func (s *Store) ListMicrocycles(ctx context.Context, mesocycleID string) ([]periodization.Microcycle, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+microcycleColumns+` FROM microcycle WHERE mesocycle_id = $1 ORDER BY week_number`, mesocycleID,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMicrocycle)
}

func (s *Store) AddSession(ctx context.Context, session periodization.Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.session.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("microcycle", session.MicrocycleID))

	return insertSession(ctx, s.db, session)
}

func (s *Store) GetSession(ctx context.Context, id string) (*periodization.Session, error) {
	session, err := scanSession(s.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM training_session WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, periodization.ErrSessionNotFound.WithEntity("session", id)
	}
	return session, err
}

func (s *Store) ListSessions(ctx context.Context, microcycleID string) ([]periodization.Session, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+sessionColumns+` FROM training_session WHERE microcycle_id = $1 ORDER BY day_of_week`, microcycleID,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSession)
}

func (s *Store) SaveProgramTree(ctx context.Context, tree periodization.ProgramTree) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.program.save_tree")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program", tree.ID))

	return s.inTx(ctx, func(tx pgx.Tx) error {
		if err := insertProgram(ctx, tx, tree.Program); err != nil {
			return err
		}
		for _, meso := range tree.Mesocycles {
			if err := insertMesocycle(ctx, tx, meso.Mesocycle); err != nil {
				return err
			}
			for _, micro := range meso.Microcycles {
				if err := insertMicrocycle(ctx, tx, micro.Microcycle); err != nil {
					return err
				}
				for _, session := range micro.Sessions {
					if err := insertSession(ctx, tx, session); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// DeleteProgram drops the associations of every node in the program first; the
// foreign keys cascade the rest once the program row goes.
func (s *Store) DeleteProgram(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.program.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program", id))

	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			WITH meso AS (SELECT id FROM mesocycle WHERE program_id = $1),
			     micro AS (SELECT id FROM microcycle WHERE mesocycle_id IN (SELECT id FROM meso)),
			     sess AS (SELECT id FROM training_session WHERE microcycle_id IN (SELECT id FROM micro))
			DELETE FROM objective_association
			WHERE (entity_type = $2 AND entity_id = $1)
			   OR (entity_type = $3 AND entity_id IN (SELECT id FROM meso))
			   OR (entity_type = $4 AND entity_id IN (SELECT id FROM micro))
			   OR (entity_type = $5 AND entity_id IN (SELECT id FROM sess))`,
			id,
			objectives.EntityProgram, objectives.EntityMesocycle,
			objectives.EntityMicrocycle, objectives.EntitySession,
		); err != nil {
			return fmt.Errorf("delete associations: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM program WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return periodization.ErrProgramNotFound.WithEntity("program", id)
		}
		return nil
	})
}
