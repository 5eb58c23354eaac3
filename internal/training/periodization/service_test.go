package periodization_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/2beens/periodize/internal/errs"
	"github.com/2beens/periodize/internal/store/memstore"
	"github.com/2beens/periodize/internal/training"
	"github.com/2beens/periodize/internal/training/periodization"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newService() *periodization.Service {
	catalog := periodization.NewCatalog(append(periodization.BuiltinTemplates(), testTemplate()))
	return periodization.NewService(memstore.New(), catalog)
}

func createProgram(t *testing.T, svc *periodization.Service) *periodization.Program {
	t.Helper()
	p, err := svc.CreateProgram(context.Background(), periodization.NewProgram{
		UserID:            "user1",
		Name:              "spring block",
		PeriodizationType: periodization.Block,
		StartDate:         testStart,
		TrainingLevel:     training.Intermediate,
		Frequency:         4,
	})
	require.NoError(t, err)
	return p
}

func TestService_CreateProgram(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	p := createProgram(t, svc)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := svc.GetProgram(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	programs, err := svc.ListPrograms(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, programs, 1)

	programs, err = svc.ListPrograms(ctx, "user2")
	require.NoError(t, err)
	assert.Empty(t, programs)
}

func TestService_CreateProgram_InvalidFrequency(t *testing.T) {
	svc := newService()

	for _, freq := range []int{0, -3, 8} {
		_, err := svc.CreateProgram(context.Background(), periodization.NewProgram{
			UserID:    "user1",
			Name:      "p",
			Frequency: freq,
		})
		assert.True(t, errors.Is(err, periodization.ErrInvalidFrequency))
		assert.True(t, errors.Is(err, errs.ErrValidation))
	}
}

func TestService_AddMesocycle_DuplicatePosition(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	p := createProgram(t, svc)

	first, err := svc.AddMesocycle(ctx, periodization.Mesocycle{
		ProgramID:     p.ID,
		Position:      0,
		Phase:         periodization.PhaseAccumulation,
		LengthInWeeks: 4,
	})
	require.NoError(t, err)

	_, err = svc.AddMesocycle(ctx, periodization.Mesocycle{
		ProgramID:     p.ID,
		Position:      0,
		Phase:         periodization.PhaseRealization,
		LengthInWeeks: 2,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, periodization.ErrDuplicatePosition))
	assert.True(t, errors.Is(err, errs.ErrConflict))

	got, err := svc.GetMesocycle(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	mesocycles, err := svc.GetProgramTree(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, mesocycles.Mesocycles, 1)
}

func TestService_AddMesocycle_ConcurrentSamePosition(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	p := createProgram(t, svc)

	var wg sync.WaitGroup
	errCh := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddMesocycle(ctx, periodization.Mesocycle{ProgramID: p.ID, Position: 1, LengthInWeeks: 3})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	ok := 0
	for err := range errCh {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, periodization.ErrDuplicatePosition))
	}
	assert.Equal(t, 1, ok)
}

func TestService_AddChildren_MissingParent(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.AddMesocycle(ctx, periodization.Mesocycle{ProgramID: "nope", LengthInWeeks: 1})
	assert.True(t, errors.Is(err, periodization.ErrProgramNotFound))

	_, err = svc.AddMicrocycle(ctx, periodization.Microcycle{MesocycleID: "nope", WeekNumber: 1})
	assert.True(t, errors.Is(err, periodization.ErrMesocycleNotFound))

	_, err = svc.AddSession(ctx, periodization.Session{MicrocycleID: "nope", DayOfWeek: 1})
	assert.True(t, errors.Is(err, periodization.ErrMicrocycleNotFound))
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestService_Hierarchy(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	p := createProgram(t, svc)

	meso, err := svc.AddMesocycle(ctx, periodization.Mesocycle{ProgramID: p.ID, Position: 0, LengthInWeeks: 2})
	require.NoError(t, err)

	micro2, err := svc.AddMicrocycle(ctx, periodization.Microcycle{MesocycleID: meso.ID, WeekNumber: 2, IsDeload: true})
	require.NoError(t, err)
	micro1, err := svc.AddMicrocycle(ctx, periodization.Microcycle{MesocycleID: meso.ID, WeekNumber: 1})
	require.NoError(t, err)

	_, err = svc.AddMicrocycle(ctx, periodization.Microcycle{MesocycleID: meso.ID, WeekNumber: 1})
	assert.True(t, errors.Is(err, periodization.ErrDuplicateWeek))
	_, err = svc.AddMicrocycle(ctx, periodization.Microcycle{MesocycleID: meso.ID, WeekNumber: 0})
	assert.True(t, errors.Is(err, periodization.ErrInvalidWeek))

	_, err = svc.AddSession(ctx, periodization.Session{MicrocycleID: micro1.ID, DayOfWeek: 4, TargetIntensityPct: 75})
	require.NoError(t, err)
	_, err = svc.AddSession(ctx, periodization.Session{
		MicrocycleID: micro1.ID,
		DayOfWeek:    1,
		Exercises: []periodization.PlannedExercise{
			{Name: "squat", MuscleGroup: training.Quads, Sets: 5, Reps: 5},
		},
	})
	require.NoError(t, err)

	_, err = svc.AddSession(ctx, periodization.Session{MicrocycleID: micro1.ID, DayOfWeek: 4})
	assert.True(t, errors.Is(err, periodization.ErrDuplicateDay))
	_, err = svc.AddSession(ctx, periodization.Session{MicrocycleID: micro1.ID, DayOfWeek: 7})
	assert.True(t, errors.Is(err, periodization.ErrInvalidDay))
	_, err = svc.AddSession(ctx, periodization.Session{
		MicrocycleID: micro1.ID,
		DayOfWeek:    5,
		Exercises:    []periodization.PlannedExercise{{Name: "neck curl", MuscleGroup: "neck"}},
	})
	assert.True(t, errors.Is(err, periodization.ErrInvalidExercise))

	tree, err := svc.GetProgramTree(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, tree.Mesocycles, 1)
	require.Len(t, tree.Mesocycles[0].Microcycles, 2)
	assert.Equal(t, micro1.ID, tree.Mesocycles[0].Microcycles[0].ID)
	assert.Equal(t, micro2.ID, tree.Mesocycles[0].Microcycles[1].ID)

	sessions := tree.Mesocycles[0].Microcycles[0].Sessions
	require.Len(t, sessions, 2)
	assert.Equal(t, 1, sessions[0].DayOfWeek)
	assert.Equal(t, 4, sessions[1].DayOfWeek)
	assert.Equal(t, "squat", sessions[0].Exercises[0].Name)
	assert.Empty(t, tree.Mesocycles[0].Microcycles[1].Sessions)
}

func TestService_DeleteProgram_Cascade(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	tree, err := svc.InstantiateTemplate(ctx, "tmpl", "user1", "", testStart)
	require.NoError(t, err)
	meso := tree.Mesocycles[0]
	micro := meso.Microcycles[0]
	session := micro.Sessions[0]

	other := createProgram(t, svc)

	require.NoError(t, svc.DeleteProgram(ctx, tree.ID))

	_, err = svc.GetProgram(ctx, tree.ID)
	assert.True(t, errors.Is(err, periodization.ErrProgramNotFound))
	_, err = svc.GetMesocycle(ctx, meso.ID)
	assert.True(t, errors.Is(err, periodization.ErrMesocycleNotFound))
	_, err = svc.GetMicrocycle(ctx, micro.ID)
	assert.True(t, errors.Is(err, periodization.ErrMicrocycleNotFound))
	_, err = svc.GetSession(ctx, session.ID)
	assert.True(t, errors.Is(err, periodization.ErrSessionNotFound))
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	_, err = svc.GetProgram(ctx, other.ID)
	assert.NoError(t, err)

	err = svc.DeleteProgram(ctx, tree.ID)
	assert.True(t, errors.Is(err, periodization.ErrProgramNotFound))
}

func TestService_InstantiateTemplate(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	tree, err := svc.InstantiateTemplate(ctx, "tmpl", "user1", "", testStart)
	require.NoError(t, err)
	assert.Equal(t, "Test Template", tree.Name)

	stored, err := svc.GetProgramTree(ctx, tree.ID)
	require.NoError(t, err)
	assert.Equal(t, tree, stored)

	_, _, sessions := stored.Counts()
	assert.Equal(t, 24, sessions)
}

func TestService_InstantiateTemplate_Errors(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.InstantiateTemplate(ctx, "missing", "user1", "p", testStart)
	assert.True(t, errors.Is(err, periodization.ErrTemplateNotFound))
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	_, err = svc.InstantiateTemplate(ctx, "tmpl", "", "p", testStart)
	assert.True(t, errors.Is(err, periodization.ErrMissingUser))

	broken := testTemplate()
	broken.ID = "broken"
	broken.Structure.Phases = nil
	svc = periodization.NewService(memstore.New(), periodization.NewCatalog([]periodization.Template{broken}))
	_, err = svc.InstantiateTemplate(ctx, "broken", "user1", "p", testStart)
	assert.True(t, errors.Is(err, periodization.ErrIncompatibleStructure))

	programs, err := svc.ListPrograms(ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, programs)
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := periodization.NewCatalog(periodization.BuiltinTemplates())

	templates, err := catalog.ListTemplates(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, templates)

	// callers get copies
	templates[0].Structure.Phases[0].Weeks = 99
	tmpl, err := catalog.GetTemplate(ctx, templates[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, 99, tmpl.Structure.Phases[0].Weeks)
}
