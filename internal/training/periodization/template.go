package periodization

import (
	"fmt"

	"github.com/2beens/periodize/internal/training"

	"go.uber.org/multierr"
)

type Template struct {
	ID                string                 `json:"id" toml:"id"`
	Name              string                 `json:"name" toml:"name"`
	PeriodizationType PeriodizationType      `json:"periodizationType" toml:"periodization_type"`
	TrainingLevel     training.TrainingLevel `json:"trainingLevel" toml:"training_level"`
	Goal              string                 `json:"goal" toml:"goal"`
	Structure         Structure              `json:"structure" toml:"structure"`
}

// Structure is the layout a template expands into. It is copied verbatim into
// every program instantiated from the template.
type Structure struct {
	Frequency    int               `json:"frequency" toml:"frequency"`
	Phases       []PhaseBlock      `json:"phases" toml:"phases"`
	Mesocycles   int               `json:"mesocycles,omitempty" toml:"mesocycles"`
	TrainingDays []int             `json:"trainingDays,omitempty" toml:"training_days"`
	Split        []SessionTemplate `json:"split,omitempty" toml:"split"`
}

type PhaseBlock struct {
	Phase  Phase `json:"phase" toml:"phase"`
	Weeks  int   `json:"weeks" toml:"weeks"`
	Deload bool  `json:"deload,omitempty" toml:"deload"`
}

type SessionTemplate struct {
	Focus     string            `json:"focus" toml:"focus"`
	Exercises []PlannedExercise `json:"exercises" toml:"exercises"`
}

// Validate reports every problem that prevents the structure from being expanded,
// wrapped in ErrIncompatibleStructure.
func (s Structure) Validate() error {
	var problems error
	if s.Frequency < 1 || s.Frequency > 7 {
		problems = multierr.Append(problems, fmt.Errorf("frequency %d outside 1-7", s.Frequency))
	}
	if s.Mesocycles < 0 {
		problems = multierr.Append(problems, fmt.Errorf("mesocycles %d is negative", s.Mesocycles))
	}
	if len(s.Phases) == 0 {
		problems = multierr.Append(problems, fmt.Errorf("phase list is empty"))
	}
	for i, p := range s.Phases {
		if p.Phase == "" {
			problems = multierr.Append(problems, fmt.Errorf("phases[%d]: phase is empty", i))
		}
		if p.Weeks <= 0 {
			problems = multierr.Append(problems, fmt.Errorf("phases[%d]: weeks %d not positive", i, p.Weeks))
		}
	}
	if len(s.TrainingDays) > 0 {
		if len(s.TrainingDays) != s.Frequency {
			problems = multierr.Append(problems, fmt.Errorf("%d training days for frequency %d", len(s.TrainingDays), s.Frequency))
		}
		seen := make(map[int]bool, len(s.TrainingDays))
		for _, d := range s.TrainingDays {
			if d < 0 || d > 6 {
				problems = multierr.Append(problems, fmt.Errorf("training day %d outside 0-6", d))
				continue
			}
			if seen[d] {
				problems = multierr.Append(problems, fmt.Errorf("training day %d repeated", d))
			}
			seen[d] = true
		}
	}
	for i, st := range s.Split {
		for j, ex := range st.Exercises {
			if !ex.MuscleGroup.IsValid() {
				problems = multierr.Append(problems, fmt.Errorf("split[%d].exercises[%d]: invalid muscle group %q", i, j, ex.MuscleGroup))
			}
		}
	}

	if problems != nil {
		return ErrIncompatibleStructure.Wrap(problems)
	}
	return nil
}

func (s Structure) mesocycleCount() int {
	if s.Mesocycles == 0 {
		return 1
	}
	return s.Mesocycles
}

func (s Structure) clone() Structure {
	c := s
	c.Phases = append([]PhaseBlock(nil), s.Phases...)
	c.TrainingDays = append([]int(nil), s.TrainingDays...)
	if s.Split != nil {
		c.Split = make([]SessionTemplate, len(s.Split))
		for i, st := range s.Split {
			c.Split[i] = SessionTemplate{
				Focus:     st.Focus,
				Exercises: append([]PlannedExercise(nil), st.Exercises...),
			}
		}
	}
	return c
}

// BuiltinTemplates returns the templates shipped with the service.
func BuiltinTemplates() []Template {
	return []Template{
		{
			ID:                "linear-beginner-3day",
			Name:              "Linear Beginner 3-Day",
			PeriodizationType: Linear,
			TrainingLevel:     training.Beginner,
			Goal:              "general strength",
			Structure: Structure{
				Frequency: 3,
				Phases: []PhaseBlock{
					{Phase: PhaseAccumulation, Weeks: 3},
					{Phase: PhaseIntensification, Weeks: 2},
					{Phase: PhaseDeload, Weeks: 1, Deload: true},
				},
				Split: []SessionTemplate{
					{
						Focus: "full body",
						Exercises: []PlannedExercise{
							{Name: "back squat", MuscleGroup: training.Quads, Sets: 3, Reps: 8},
							{Name: "bench press", MuscleGroup: training.Chest, Sets: 3, Reps: 8},
							{Name: "barbell row", MuscleGroup: training.UpperBack, Sets: 3, Reps: 8},
						},
					},
				},
			},
		},
		{
			ID:                "block-intermediate-4day",
			Name:              "Block Intermediate 4-Day",
			PeriodizationType: Block,
			TrainingLevel:     training.Intermediate,
			Goal:              "hypertrophy then strength",
			Structure: Structure{
				Frequency: 4,
				Phases: []PhaseBlock{
					{Phase: PhaseAccumulation, Weeks: 4},
					{Phase: PhaseIntensification, Weeks: 2},
				},
				Split: []SessionTemplate{
					{
						Focus: "upper",
						Exercises: []PlannedExercise{
							{Name: "bench press", MuscleGroup: training.Chest, Sets: 4, Reps: 8},
							{Name: "pull up", MuscleGroup: training.Lats, Sets: 4, Reps: 8},
							{Name: "lateral raise", MuscleGroup: training.SideDelts, Sets: 3, Reps: 15},
						},
					},
					{
						Focus: "lower",
						Exercises: []PlannedExercise{
							{Name: "back squat", MuscleGroup: training.Quads, Sets: 4, Reps: 6},
							{Name: "romanian deadlift", MuscleGroup: training.Hamstrings, Sets: 3, Reps: 8},
							{Name: "standing calf raise", MuscleGroup: training.Calves, Sets: 3, Reps: 12},
						},
					},
				},
			},
		},
		{
			ID:                "undulating-advanced-5day",
			Name:              "Undulating Advanced 5-Day",
			PeriodizationType: Undulating,
			TrainingLevel:     training.Advanced,
			Goal:              "strength and size",
			Structure: Structure{
				Frequency:    5,
				Mesocycles:   2,
				TrainingDays: []int{1, 2, 3, 5, 6},
				Phases: []PhaseBlock{
					{Phase: PhaseHypertrophy, Weeks: 2},
					{Phase: PhaseStrength, Weeks: 2},
					{Phase: PhaseDeload, Weeks: 1, Deload: true},
				},
				Split: []SessionTemplate{
					{
						Focus: "push",
						Exercises: []PlannedExercise{
							{Name: "bench press", MuscleGroup: training.Chest, Sets: 5, Reps: 5},
							{Name: "overhead press", MuscleGroup: training.FrontDelts, Sets: 4, Reps: 6},
							{Name: "triceps pushdown", MuscleGroup: training.Triceps, Sets: 3, Reps: 12},
						},
					},
					{
						Focus: "pull",
						Exercises: []PlannedExercise{
							{Name: "deadlift", MuscleGroup: training.LowerBack, Sets: 3, Reps: 5},
							{Name: "chin up", MuscleGroup: training.Lats, Sets: 4, Reps: 8},
							{Name: "hammer curl", MuscleGroup: training.Biceps, Sets: 3, Reps: 10},
						},
					},
					{
						Focus: "legs",
						Exercises: []PlannedExercise{
							{Name: "front squat", MuscleGroup: training.Quads, Sets: 4, Reps: 6},
							{Name: "hip thrust", MuscleGroup: training.Glutes, Sets: 3, Reps: 10},
							{Name: "leg curl", MuscleGroup: training.Hamstrings, Sets: 3, Reps: 12},
						},
					},
				},
			},
		},
	}
}
