// Package planner picks the intensity and volume of the next session from the
// user's readiness and the volume status of the targeted muscle groups.
// It only reads landmarks and never changes them.
package planner

import (
	"context"
	"fmt"

	"github.com/2beens/periodize/internal/errs"
	"github.com/2beens/periodize/internal/telemetry/tracing"
	"github.com/2beens/periodize/internal/training"
	"github.com/2beens/periodize/internal/training/volume"

	"go.opentelemetry.io/otel/attribute"
)

const (
	FreshIntensityPct    = 85.0
	FatiguedIntensityPct = 70.0
)

var (
	ErrMissingUser        = errs.New(errs.KindValidation, "missing_user", "user id is empty")
	ErrNoMuscleGroups     = errs.New(errs.KindValidation, "no_muscle_groups", "no muscle groups targeted")
	ErrInvalidMuscleGroup = errs.New(errs.KindValidation, "invalid_muscle_group", "invalid muscle group")
	ErrNoLandmarksFound   = errs.New(errs.KindState, "no_landmarks_found", "no landmarks for targeted muscle group, seed defaults first")
)

type Readiness struct {
	ReadyToTrain bool `json:"readyToTrain"`
}

type GroupPlan struct {
	MuscleGroup      training.MuscleGroup `json:"muscleGroup"`
	CurrentVolume    float64              `json:"currentVolume"`
	Status           volume.Status        `json:"status"`
	Recommendation   string               `json:"recommendation"`
	VolumeMultiplier float64              `json:"volumeMultiplier"`
}

type SessionPlan struct {
	TargetIntensityPct float64     `json:"targetIntensityPct"`
	VolumeMultiplier   float64     `json:"volumeMultiplier"`
	Fatigued           bool        `json:"fatigued"`
	Groups             []GroupPlan `json:"groups"`
}

//go:generate mockgen -source=$GOFILE -destination=planner_mocks_test.go -package=planner_test

type landmarksReader interface {
	GetLandmarks(ctx context.Context, userID string) (map[training.MuscleGroup]volume.Landmark, error)
}

type Planner struct {
	landmarks landmarksReader
}

func New(landmarks landmarksReader) *Planner {
	return &Planner{landmarks: landmarks}
}

// VolumeMultiplier maps a muscle group status to a session volume multiplier.
// Exceeding MRV always cuts volume; fatigue cancels any push for more volume.
func VolumeMultiplier(status volume.Status, fatigued bool) float64 {
	switch status {
	case volume.StatusExceedingMRV:
		return 0.7
	case volume.StatusApproachingMRV:
		if fatigued {
			return 0.85
		}
		return 1.0
	case volume.StatusBelowMEV:
		if fatigued {
			return 1.0
		}
		return 1.15
	default:
		return 1.0
	}
}

func IntensityPct(readiness Readiness) float64 {
	if readiness.ReadyToTrain {
		return FreshIntensityPct
	}
	return FatiguedIntensityPct
}

// PlanNextSession computes the advisory plan for the given muscle groups. When groups
// disagree the lowest multiplier wins, so one group above MRV caps the whole session.
func (p *Planner) PlanNextSession(
	ctx context.Context,
	userID string,
	groups []training.MuscleGroup,
	readiness Readiness,
) (_ *SessionPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.planner.next_session")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user", userID),
		attribute.Int("groups", len(groups)),
		attribute.Bool("ready", readiness.ReadyToTrain),
	)

	if userID == "" {
		return nil, ErrMissingUser
	}
	targeted, err := dedupe(groups)
	if err != nil {
		return nil, err
	}

	landmarks, err := p.landmarks.GetLandmarks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get landmarks: %w", err)
	}

	fatigued := !readiness.ReadyToTrain
	plan := &SessionPlan{
		TargetIntensityPct: IntensityPct(readiness),
		Fatigued:           fatigued,
		Groups:             make([]GroupPlan, 0, len(targeted)),
	}
	for i, mg := range targeted {
		l, ok := landmarks[mg]
		if !ok {
			return nil, ErrNoLandmarksFound.WithEntity("muscle_group", mg.String())
		}

		status, rec := l.Classify()
		multiplier := VolumeMultiplier(status, fatigued)
		plan.Groups = append(plan.Groups, GroupPlan{
			MuscleGroup:      mg,
			CurrentVolume:    l.CurrentVolume,
			Status:           status,
			Recommendation:   rec,
			VolumeMultiplier: multiplier,
		})
		if i == 0 || multiplier < plan.VolumeMultiplier {
			plan.VolumeMultiplier = multiplier
		}
	}

	span.SetAttributes(attribute.Float64("volume_multiplier", plan.VolumeMultiplier))
	return plan, nil
}

func dedupe(groups []training.MuscleGroup) ([]training.MuscleGroup, error) {
	if len(groups) == 0 {
		return nil, ErrNoMuscleGroups.WithField("muscleGroups")
	}
	seen := make(map[training.MuscleGroup]bool, len(groups))
	out := make([]training.MuscleGroup, 0, len(groups))
	for _, mg := range groups {
		if !mg.IsValid() {
			return nil, ErrInvalidMuscleGroup.WithEntity("muscle_group", mg.String())
		}
		if seen[mg] {
			continue
		}
		seen[mg] = true
		out = append(out, mg)
	}
	return out, nil
}
