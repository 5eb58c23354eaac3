package periodization_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/2beens/periodize/internal/errs"
	"github.com/2beens/periodize/internal/training"
	"github.com/2beens/periodize/internal/training/periodization"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

var testStart = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func testTemplate() periodization.Template {
	return periodization.Template{
		ID:                "tmpl",
		Name:              "Test Template",
		PeriodizationType: periodization.Block,
		TrainingLevel:     training.Intermediate,
		Goal:              "hypertrophy",
		Structure: periodization.Structure{
			Frequency: 4,
			Phases: []periodization.PhaseBlock{
				{Phase: periodization.PhaseAccumulation, Weeks: 4},
				{Phase: periodization.PhaseIntensification, Weeks: 2},
			},
		},
	}
}

func TestExpandTemplate_FourDaysTwoPhasesSixWeeks(t *testing.T) {
	tree, err := periodization.ExpandTemplate(testTemplate(), "user1", "my block", testStart, testStart, sequentialIDs())
	require.NoError(t, err)
	require.NotNil(t, tree)

	assert.Equal(t, "user1", tree.UserID)
	assert.Equal(t, "my block", tree.Name)
	assert.Equal(t, 4, tree.Frequency)
	assert.Equal(t, testTemplate().Structure, tree.Structure)

	require.Len(t, tree.Mesocycles, 1)
	meso := tree.Mesocycles[0]
	assert.Equal(t, 0, meso.Position)
	assert.Equal(t, 6, meso.LengthInWeeks)
	assert.Equal(t, periodization.PhaseAccumulation, meso.Phase)
	assert.Equal(t, tree.ID, meso.ProgramID)
	// (4*70 + 2*80) / 6
	assert.Equal(t, 73.33, meso.TargetIntensityPct)
	assert.Equal(t, 0.97, meso.TargetVolumeMultiplier)

	require.Len(t, meso.Microcycles, 6)
	for i, micro := range meso.Microcycles {
		assert.Equal(t, i+1, micro.WeekNumber)
		assert.Equal(t, meso.ID, micro.MesocycleID)
		assert.False(t, micro.IsDeload)
		require.NotNil(t, micro.StartDate)
		assert.Equal(t, testStart.AddDate(0, 0, 7*i), *micro.StartDate)

		require.Len(t, micro.Sessions, 4)
		days := map[int]bool{}
		for _, s := range micro.Sessions {
			days[s.DayOfWeek] = true
			assert.Equal(t, micro.ID, s.MicrocycleID)
		}
		assert.Len(t, days, 4)
	}
	assert.Equal(t, periodization.PhaseAccumulation, meso.Microcycles[3].Phase)
	assert.Equal(t, periodization.PhaseIntensification, meso.Microcycles[4].Phase)
	assert.Equal(t, 80.0, meso.Microcycles[4].Sessions[0].TargetIntensityPct)

	mesocycles, microcycles, sessions := tree.Counts()
	assert.Equal(t, 1, mesocycles)
	assert.Equal(t, 6, microcycles)
	assert.Equal(t, 24, sessions)
}

func TestExpandTemplate_Deterministic(t *testing.T) {
	first, err := periodization.ExpandTemplate(testTemplate(), "user1", "p", testStart, testStart, sequentialIDs())
	require.NoError(t, err)
	second, err := periodization.ExpandTemplate(testTemplate(), "user1", "p", testStart, testStart, sequentialIDs())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExpandTemplate_DeloadSplitAndDays(t *testing.T) {
	tmpl := testTemplate()
	tmpl.Structure = periodization.Structure{
		Frequency:    2,
		Mesocycles:   2,
		TrainingDays: []int{2, 6},
		Phases: []periodization.PhaseBlock{
			{Phase: periodization.PhaseHypertrophy, Weeks: 2},
			{Phase: periodization.PhaseDeload, Weeks: 1, Deload: true},
		},
		Split: []periodization.SessionTemplate{
			{Focus: "a", Exercises: []periodization.PlannedExercise{{Name: "squat", MuscleGroup: training.Quads, Sets: 3, Reps: 5}}},
			{Focus: "b", Exercises: []periodization.PlannedExercise{{Name: "bench", MuscleGroup: training.Chest, Sets: 3, Reps: 5}}},
			{Focus: "c", Exercises: []periodization.PlannedExercise{{Name: "row", MuscleGroup: training.UpperBack, Sets: 3, Reps: 5}}},
		},
	}

	tree, err := periodization.ExpandTemplate(tmpl, "user1", "p", testStart, testStart, sequentialIDs())
	require.NoError(t, err)
	require.Len(t, tree.Mesocycles, 2)

	second := tree.Mesocycles[1]
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, periodization.PhaseHypertrophy, second.Phase)
	require.Len(t, second.Microcycles, 3)
	assert.Equal(t, 1, second.Microcycles[0].WeekNumber)
	assert.Equal(t, testStart.AddDate(0, 0, 21), *second.Microcycles[0].StartDate)

	deload := second.Microcycles[2]
	assert.True(t, deload.IsDeload)
	assert.Equal(t, 60.0, deload.Sessions[0].TargetIntensityPct)
	assert.Equal(t, 0.5, deload.Sessions[0].TargetVolumeMultiplier)

	first := tree.Mesocycles[0].Microcycles[0]
	assert.Equal(t, 2, first.Sessions[0].DayOfWeek)
	assert.Equal(t, 6, first.Sessions[1].DayOfWeek)
	assert.Equal(t, "squat", first.Sessions[0].Exercises[0].Name)
	assert.Equal(t, "bench", first.Sessions[1].Exercises[0].Name)
	assert.Equal(t, "row", tree.Mesocycles[0].Microcycles[1].Sessions[0].Exercises[0].Name)
}

func TestExpandTemplate_IncompatibleStructure(t *testing.T) {
	tmpl := testTemplate()
	tmpl.Structure = periodization.Structure{
		Frequency:    9,
		TrainingDays: []int{1, 7},
	}

	tree, err := periodization.ExpandTemplate(tmpl, "user1", "p", testStart, testStart, sequentialIDs())
	require.Error(t, err)
	assert.Nil(t, tree)
	assert.True(t, errors.Is(err, periodization.ErrIncompatibleStructure))
	assert.True(t, errors.Is(err, errs.ErrValidation))
	assert.ErrorContains(t, err, "frequency 9 outside 1-7")
	assert.ErrorContains(t, err, "phase list is empty")
	assert.ErrorContains(t, err, "training day 7 outside 0-6")
}

func TestStructure_Validate(t *testing.T) {
	assert.NoError(t, testTemplate().Structure.Validate())

	s := testTemplate().Structure
	s.Phases[1].Weeks = 0
	assert.ErrorContains(t, s.Validate(), "phases[1]: weeks 0 not positive")

	s = testTemplate().Structure
	s.TrainingDays = []int{1, 1, 2, 3}
	assert.ErrorContains(t, s.Validate(), "training day 1 repeated")
}

func TestBuiltinTemplates_Expand(t *testing.T) {
	for _, tmpl := range periodization.BuiltinTemplates() {
		t.Run(tmpl.ID, func(t *testing.T) {
			require.NoError(t, tmpl.Structure.Validate())
			tree, err := periodization.ExpandTemplate(tmpl, "user1", tmpl.Name, testStart, testStart, sequentialIDs())
			require.NoError(t, err)
			_, _, sessions := tree.Counts()
			assert.Positive(t, sessions)
		})
	}
}
