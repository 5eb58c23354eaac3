package api

import (
	"context"

	"github.com/2beens/periodize/internal/events"
	"github.com/2beens/periodize/internal/training"
	"github.com/2beens/periodize/internal/training/planner"
	"github.com/2beens/periodize/internal/training/volume"
)

//go:generate mockgen -source=$GOFILE -destination=services_mocks_test.go -package=api_test

type volumeService interface {
	UpsertCurrentVolume(ctx context.Context, userID string, mg training.MuscleGroup, vol float64) (*volume.Landmark, error)
	SeedDefaults(ctx context.Context, userID string, level training.TrainingLevel) ([]volume.Landmark, error)
	SetLandmarks(ctx context.Context, userID string, mg training.MuscleGroup, l volume.Landmarks) (*volume.Landmark, error)
}

// summaryCache serves volume summaries; Invalidate must follow every landmark write.
type summaryCache interface {
	Summary(ctx context.Context, userID string) ([]volume.Summary, error)
	Invalidate(ctx context.Context, userID string)
}

type sessionPlanner interface {
	PlanNextSession(
		ctx context.Context,
		userID string,
		groups []training.MuscleGroup,
		readiness planner.Readiness,
	) (*planner.SessionPlan, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
