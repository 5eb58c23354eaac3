package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/periodize/internal/telemetry/tracing"
	"github.com/2beens/periodize/internal/training"
	"github.com/2beens/periodize/internal/training/volume"
	"github.com/2beens/periodize/pkg"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

const landmarkColumns = `user_id, muscle_group, mev, mav, mrv, current_volume, updated_at`

func scanLandmark(row pgx.Row) (*volume.Landmark, error) {
	var l volume.Landmark
	if err := row.Scan(&l.UserID, &l.MuscleGroup, &l.MEV, &l.MAV, &l.MRV, &l.CurrentVolume, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) GetLandmarks(ctx context.Context, userID string) (_ []volume.Landmark, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.landmarks.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user", userID))

	rows, err := s.db.Query(ctx, `SELECT `+landmarkColumns+` FROM volume_landmark WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var landmarks []volume.Landmark
	for rows.Next() {
		l, err := scanLandmark(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		landmarks = append(landmarks, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return landmarks, nil
}

// SeedLandmarks takes a per-user advisory lock so two concurrent seeds can't both
// see an empty table.
func (s *Store) SeedLandmarks(ctx context.Context, userID string, landmarks []volume.Landmark) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.landmarks.seed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user", userID),
		attribute.Int("landmarks", len(landmarks)),
	)

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "volume_landmark:"+userID); err != nil {
			return fmt.Errorf("advisory lock: %w", err)
		}

		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM volume_landmark WHERE user_id = $1)`, userID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check seeded: %w", err)
		}
		if exists {
			return volume.ErrAlreadySeeded.WithEntity("user", userID)
		}

		batch := &pgx.Batch{}
		for _, l := range landmarks {
			batch.Queue(
				`INSERT INTO volume_landmark (`+landmarkColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				userID, l.MuscleGroup, l.MEV, l.MAV, l.MRV, l.CurrentVolume, l.UpdatedAt,
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if pkg.IsUniqueViolationError(err) {
		return volume.ErrAlreadySeeded.WithEntity("user", userID)
	}
	return err
}

func (s *Store) UpdateCurrentVolume(
	ctx context.Context,
	userID string,
	mg training.MuscleGroup,
	vol float64,
	at time.Time,
) (_ *volume.Landmark, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.landmarks.current_volume")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user", userID),
		attribute.String("muscle_group", mg.String()),
	)

	l, err := scanLandmark(s.db.QueryRow(ctx, `
		UPDATE volume_landmark SET current_volume = $3, updated_at = $4
		WHERE user_id = $1 AND muscle_group = $2
		RETURNING `+landmarkColumns,
		userID, mg, vol, at,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, volume.ErrLandmarkNotFound.WithEntity("landmark", userID+"/"+mg.String())
	}
	return l, err
}

func (s *Store) UpdateLandmarks(
	ctx context.Context,
	userID string,
	mg training.MuscleGroup,
	lm volume.Landmarks,
	at time.Time,
) (_ *volume.Landmark, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pgstore.landmarks.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user", userID),
		attribute.String("muscle_group", mg.String()),
	)

	l, err := scanLandmark(s.db.QueryRow(ctx, `
		UPDATE volume_landmark SET mev = $3, mav = $4, mrv = $5, updated_at = $6
		WHERE user_id = $1 AND muscle_group = $2
		RETURNING `+landmarkColumns,
		userID, mg, lm.MEV, lm.MAV, lm.MRV, at,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, volume.ErrLandmarkNotFound.WithEntity("landmark", userID+"/"+mg.String())
	}
	if pkg.IsCheckViolationError(err) {
		return nil, volume.ErrInvalidLandmarks.Wrap(err)
	}
	return l, err
}
