package periodization

import (
	"time"

	"github.com/2beens/periodize/internal/training"
)

type PeriodizationType string

const (
	Linear     PeriodizationType = "linear"
	Undulating PeriodizationType = "undulating"
	Block      PeriodizationType = "block"
	Conjugate  PeriodizationType = "conjugate"
)

// Phase is descriptive metadata of a mesocycle or microcycle. Any value is accepted,
// the constants below are the ones templates use.
type Phase string

const (
	PhaseAccumulation    Phase = "accumulation"
	PhaseHypertrophy     Phase = "hypertrophy"
	PhaseTransmutation   Phase = "transmutation"
	PhaseIntensification Phase = "intensification"
	PhaseStrength        Phase = "strength"
	PhaseRealization     Phase = "realization"
	PhasePeaking         Phase = "peaking"
	PhaseDeload          Phase = "deload"
)

type Program struct {
	ID                string                 `json:"id"`
	UserID            string                 `json:"userId"`
	Name              string                 `json:"name"`
	PeriodizationType PeriodizationType      `json:"periodizationType"`
	StartDate         time.Time              `json:"startDate"`
	Goal              string                 `json:"goal"`
	TrainingLevel     training.TrainingLevel `json:"trainingLevel"`
	Frequency         int                    `json:"frequency"`
	Structure         Structure              `json:"structure"`
	CreatedAt         time.Time              `json:"createdAt"`
}

type Mesocycle struct {
	ID                     string  `json:"id"`
	ProgramID              string  `json:"programId"`
	Position               int     `json:"position"`
	Phase                  Phase   `json:"phase"`
	LengthInWeeks          int     `json:"lengthInWeeks"`
	TargetVolumeMultiplier float64 `json:"targetVolumeMultiplier"`
	TargetIntensityPct     float64 `json:"targetIntensityPct"`
}

type Microcycle struct {
	ID          string     `json:"id"`
	MesocycleID string     `json:"mesocycleId"`
	WeekNumber  int        `json:"weekNumber"`
	IsDeload    bool       `json:"isDeload"`
	Phase       Phase      `json:"phase,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
}

type Session struct {
	ID                     string            `json:"id"`
	MicrocycleID           string            `json:"microcycleId"`
	DayOfWeek              int               `json:"dayOfWeek"` // 0 = Sunday, as time.Weekday
	TargetIntensityPct     float64           `json:"targetIntensityPct"`
	TargetVolumeMultiplier float64           `json:"targetVolumeMultiplier"`
	Exercises              []PlannedExercise `json:"exercises"`
}

type PlannedExercise struct {
	Name        string               `json:"name"`
	MuscleGroup training.MuscleGroup `json:"muscleGroup"`
	Sets        int                  `json:"sets"`
	Reps        int                  `json:"reps"`
}

// ProgramTree is a program with all its descendants, each level ordered
// (mesocycles by position, microcycles by week, sessions by day).
type ProgramTree struct {
	Program
	Mesocycles []MesocycleTree `json:"mesocycles"`
}

type MesocycleTree struct {
	Mesocycle
	Microcycles []MicrocycleTree `json:"microcycles"`
}

type MicrocycleTree struct {
	Microcycle
	Sessions []Session `json:"sessions"`
}

// Counts returns the number of mesocycles, microcycles and sessions in the tree.
func (t ProgramTree) Counts() (mesocycles, microcycles, sessions int) {
	mesocycles = len(t.Mesocycles)
	for _, meso := range t.Mesocycles {
		microcycles += len(meso.Microcycles)
		for _, micro := range meso.Microcycles {
			sessions += len(micro.Sessions)
		}
	}
	return mesocycles, microcycles, sessions
}
