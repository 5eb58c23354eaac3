package objectives

import (
	"time"
)

// EntityType names the hierarchy level an objective is attached to.
type EntityType string

const (
	EntityProgram    EntityType = "program"
	EntityMesocycle  EntityType = "mesocycle"
	EntityMicrocycle EntityType = "microcycle"
	EntitySession    EntityType = "session"
)

func (t EntityType) IsValid() bool {
	switch t {
	case EntityProgram, EntityMesocycle, EntityMicrocycle, EntitySession:
		return true
	}
	return false
}

type Objective struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Description string    `json:"description"`
	Metric      string    `json:"metric,omitempty"`
	TargetValue float64   `json:"targetValue"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Association struct {
	ObjectiveID string     `json:"objectiveId"`
	EntityType  EntityType `json:"entityType"`
	EntityID    string     `json:"entityId"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// EntityRef points at a single hierarchy node.
type EntityRef struct {
	Type EntityType `json:"type"`
	ID   string     `json:"id"`
}
