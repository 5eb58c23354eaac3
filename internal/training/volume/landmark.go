package volume

import (
	"time"

	"github.com/2beens/periodize/internal/training"
)

// Landmark holds the volume landmarks (weekly sets) of one muscle group for one user,
// together with the volume the user is currently doing.
// Invariant: 0 <= MEV <= MAV <= MRV.
type Landmark struct {
	UserID        string               `json:"userId"`
	MuscleGroup   training.MuscleGroup `json:"muscleGroup"`
	MEV           float64              `json:"mev"`
	MAV           float64              `json:"mav"`
	MRV           float64              `json:"mrv"`
	CurrentVolume float64              `json:"currentVolume"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func (l Landmark) Landmarks() Landmarks {
	return Landmarks{MEV: l.MEV, MAV: l.MAV, MRV: l.MRV}
}

func (l Landmark) Classify() (Status, string) {
	return Classify(l.CurrentVolume, l.MEV, l.MAV, l.MRV)
}

// Landmarks is the MEV/MAV/MRV triple without user specific state.
type Landmarks struct {
	MEV float64 `json:"mev" toml:"mev"`
	MAV float64 `json:"mav" toml:"mav"`
	MRV float64 `json:"mrv" toml:"mrv"`
}

func (l Landmarks) Valid() bool {
	return l.MEV >= 0 && l.MEV <= l.MAV && l.MAV <= l.MRV
}

// Summary is the read-only view of a landmark, computed on demand.
type Summary struct {
	MuscleGroup    training.MuscleGroup `json:"muscleGroup"`
	CurrentVolume  float64              `json:"currentVolume"`
	TargetVolume   float64              `json:"targetVolume"`
	MEV            float64              `json:"mev"`
	MAV            float64              `json:"mav"`
	MRV            float64              `json:"mrv"`
	Status         Status               `json:"status"`
	Recommendation string               `json:"recommendation"`
}

// NewSummary derives the summary of l. The target volume is the middle of the MEV..MAV band.
func NewSummary(l Landmark) Summary {
	status, recommendation := l.Classify()
	return Summary{
		MuscleGroup:    l.MuscleGroup,
		CurrentVolume:  l.CurrentVolume,
		TargetVolume:   (l.MEV + l.MAV) / 2,
		MEV:            l.MEV,
		MAV:            l.MAV,
		MRV:            l.MRV,
		Status:         status,
		Recommendation: recommendation,
	}
}
