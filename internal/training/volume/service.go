package volume

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/2beens/periodize/internal/errs"
	"github.com/2beens/periodize/internal/telemetry/tracing"
	"github.com/2beens/periodize/internal/training"

	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrMissingUser        = errs.New(errs.KindValidation, "missing_user", "user id is empty")
	ErrInvalidMuscleGroup = errs.New(errs.KindValidation, "invalid_muscle_group", "invalid muscle group")
	ErrNegativeVolume     = errs.New(errs.KindValidation, "negative_volume", "volume must not be negative")
	ErrInvalidLevel       = errs.New(errs.KindValidation, "invalid_training_level", "invalid training level")
	ErrInvalidLandmarks   = errs.New(errs.KindValidation, "invalid_landmarks", "landmarks must satisfy 0 <= mev <= mav <= mrv")
	ErrAlreadySeeded      = errs.New(errs.KindConflict, "already_seeded", "landmarks already seeded for user")
	ErrLandmarkNotFound   = errs.New(errs.KindNotFound, "landmark_not_found", "landmark not found")
)

type landmarksRepo interface {
	GetLandmarks(ctx context.Context, userID string) ([]Landmark, error)
	// SeedLandmarks inserts all landmarks at once, or fails with ErrAlreadySeeded
	// if the user has any landmark.
	SeedLandmarks(ctx context.Context, userID string, landmarks []Landmark) error
	// UpdateCurrentVolume fails with ErrLandmarkNotFound if the landmark doesn't exist.
	UpdateCurrentVolume(ctx context.Context, userID string, mg training.MuscleGroup, volume float64, at time.Time) (*Landmark, error)
	UpdateLandmarks(ctx context.Context, userID string, mg training.MuscleGroup, l Landmarks, at time.Time) (*Landmark, error)
}

type Service struct {
	repo     landmarksRepo
	defaults LandmarkTable
	now      func() time.Time
}

func NewService(repo landmarksRepo, defaults LandmarkTable) *Service {
	return &Service{
		repo:     repo,
		defaults: defaults,
		now:      time.Now,
	}
}

func (s *Service) GetLandmarks(ctx context.Context, userID string) (_ map[training.MuscleGroup]Landmark, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.volume.landmarks.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user", userID))

	if userID == "" {
		return nil, ErrMissingUser
	}

	landmarks, err := s.repo.GetLandmarks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get landmarks: %w", err)
	}

	byGroup := make(map[training.MuscleGroup]Landmark, len(landmarks))
	for _, l := range landmarks {
		byGroup[l.MuscleGroup] = l
	}
	return byGroup, nil
}

// UpsertCurrentVolume sets the current weekly volume of a muscle group.
// MEV/MAV/MRV are left untouched; the latest value wins.
func (s *Service) UpsertCurrentVolume(
	ctx context.Context,
	userID string,
	mg training.MuscleGroup,
	volume float64,
) (_ *Landmark, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.volume.current.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user", userID),
		attribute.String("muscle_group", mg.String()),
		attribute.Float64("volume", volume),
	)

	if userID == "" {
		return nil, ErrMissingUser
	}
	if !mg.IsValid() {
		return nil, ErrInvalidMuscleGroup.WithField("muscleGroup")
	}
	if volume < 0 {
		return nil, ErrNegativeVolume.WithField("volume")
	}

	landmark, err := s.repo.UpdateCurrentVolume(ctx, userID, mg, volume, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("update current volume: %w", err)
	}
	return landmark, nil
}

// SeedDefaults creates the landmarks of a new user from the defaults of the given level.
// It never overwrites existing landmarks.
func (s *Service) SeedDefaults(ctx context.Context, userID string, level training.TrainingLevel) (_ []Landmark, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.volume.landmarks.seed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user", userID),
		attribute.String("level", level.String()),
	)

	if userID == "" {
		return nil, ErrMissingUser
	}
	groups, ok := s.defaults[level]
	if !level.IsValid() || !ok {
		return nil, ErrInvalidLevel.WithField("trainingLevel")
	}

	now := s.now().UTC()
	landmarks := make([]Landmark, 0, len(groups))
	for _, mg := range training.MuscleGroups() {
		l, ok := groups[mg]
		if !ok {
			continue
		}
		landmarks = append(landmarks, Landmark{
			UserID:      userID,
			MuscleGroup: mg,
			MEV:         l.MEV,
			MAV:         l.MAV,
			MRV:         l.MRV,
			UpdatedAt:   now,
		})
	}

	if err := s.repo.SeedLandmarks(ctx, userID, landmarks); err != nil {
		return nil, fmt.Errorf("seed landmarks: %w", err)
	}
	return landmarks, nil
}

// SetLandmarks is the explicit landmark edit; current volume is kept.
func (s *Service) SetLandmarks(
	ctx context.Context,
	userID string,
	mg training.MuscleGroup,
	l Landmarks,
) (_ *Landmark, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.volume.landmarks.set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user", userID),
		attribute.String("muscle_group", mg.String()),
	)

	if userID == "" {
		return nil, ErrMissingUser
	}
	if !mg.IsValid() {
		return nil, ErrInvalidMuscleGroup.WithField("muscleGroup")
	}
	if !l.Valid() {
		return nil, ErrInvalidLandmarks
	}

	landmark, err := s.repo.UpdateLandmarks(ctx, userID, mg, l, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("update landmarks: %w", err)
	}
	return landmark, nil
}

// Summary returns the volume summary of every seeded muscle group, in canonical order.
func (s *Service) Summary(ctx context.Context, userID string) (_ []Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.volume.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	landmarks, err := s.GetLandmarks(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(landmarks))
	for _, l := range landmarks {
		summaries = append(summaries, NewSummary(l))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].MuscleGroup.Order() < summaries[j].MuscleGroup.Order()
	})

	span.SetAttributes(attribute.Int("summaries", len(summaries)))
	return summaries, nil
}
