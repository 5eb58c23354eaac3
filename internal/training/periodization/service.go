package periodization

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/periodize/internal/errs"
	"github.com/2beens/periodize/internal/telemetry/tracing"
	"github.com/2beens/periodize/internal/training"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrMissingUser           = errs.New(errs.KindValidation, "missing_user", "user id is empty")
	ErrMissingName           = errs.New(errs.KindValidation, "missing_name", "name is empty")
	ErrMissingStartDate      = errs.New(errs.KindValidation, "missing_start_date", "start date is empty")
	ErrInvalidFrequency      = errs.New(errs.KindValidation, "invalid_frequency", "frequency must be within 1-7 sessions per week")
	ErrInvalidLevel          = errs.New(errs.KindValidation, "invalid_training_level", "invalid training level")
	ErrInvalidPosition       = errs.New(errs.KindValidation, "invalid_position", "position must not be negative")
	ErrInvalidLength         = errs.New(errs.KindValidation, "invalid_length", "length in weeks must be positive")
	ErrInvalidWeek           = errs.New(errs.KindValidation, "invalid_week", "week number must be positive")
	ErrInvalidDay            = errs.New(errs.KindValidation, "invalid_day", "day of week must be within 0-6")
	ErrInvalidExercise       = errs.New(errs.KindValidation, "invalid_exercise", "invalid planned exercise")
	ErrIncompatibleStructure = errs.New(errs.KindValidation, "incompatible_structure", "template structure cannot be expanded")

	ErrDuplicatePosition = errs.New(errs.KindConflict, "duplicate_position", "mesocycle position already taken")
	ErrDuplicateWeek     = errs.New(errs.KindConflict, "duplicate_week", "microcycle week number already taken")
	ErrDuplicateDay      = errs.New(errs.KindConflict, "duplicate_day", "session day already taken")

	ErrProgramNotFound    = errs.New(errs.KindNotFound, "program_not_found", "program not found")
	ErrMesocycleNotFound  = errs.New(errs.KindNotFound, "mesocycle_not_found", "mesocycle not found")
	ErrMicrocycleNotFound = errs.New(errs.KindNotFound, "microcycle_not_found", "microcycle not found")
	ErrSessionNotFound    = errs.New(errs.KindNotFound, "session_not_found", "session not found")
	ErrTemplateNotFound   = errs.New(errs.KindNotFound, "template_not_found", "template not found")
)

// Adds fail with the parent's not found error when the parent is missing, and with
// the matching duplicate error when the ordering key is taken. Both checks and the
// insert happen atomically.
type hierarchyRepo interface {
	AddProgram(ctx context.Context, p Program) error
	GetProgram(ctx context.Context, id string) (*Program, error)
	ListPrograms(ctx context.Context, userID string) ([]Program, error)
	AddMesocycle(ctx context.Context, m Mesocycle) error
	GetMesocycle(ctx context.Context, id string) (*Mesocycle, error)
	ListMesocycles(ctx context.Context, programID string) ([]Mesocycle, error)
	AddMicrocycle(ctx context.Context, m Microcycle) error
	GetMicrocycle(ctx context.Context, id string) (*Microcycle, error)
	ListMicrocycles(ctx context.Context, mesocycleID string) ([]Microcycle, error)
	AddSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	ListSessions(ctx context.Context, microcycleID string) ([]Session, error)
	// SaveProgramTree stores a program with all of its descendants, or nothing.
	SaveProgramTree(ctx context.Context, tree ProgramTree) error
	// DeleteProgram removes the program, its descendants and every objective
	// association pointing at them, or nothing.
	DeleteProgram(ctx context.Context, id string) error
}

type templateRepo interface {
	GetTemplate(ctx context.Context, id string) (*Template, error)
	ListTemplates(ctx context.Context) ([]Template, error)
}

type Service struct {
	repo      hierarchyRepo
	templates templateRepo
	newID     func() string
	now       func() time.Time
}

func NewService(repo hierarchyRepo, templates templateRepo) *Service {
	return &Service{
		repo:      repo,
		templates: templates,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

type NewProgram struct {
	UserID            string                 `json:"userId"`
	Name              string                 `json:"name"`
	PeriodizationType PeriodizationType      `json:"periodizationType"`
	StartDate         time.Time              `json:"startDate"`
	Goal              string                 `json:"goal"`
	TrainingLevel     training.TrainingLevel `json:"trainingLevel"`
	Frequency         int                    `json:"frequency"`
	Structure         Structure              `json:"structure"`
}

func (s *Service) CreateProgram(ctx context.Context, np NewProgram) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.periodization.program.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user", np.UserID))

	if np.UserID == "" {
		return nil, ErrMissingUser
	}
	if strings.TrimSpace(np.Name) == "" {
		return nil, ErrMissingName.WithField("name")
	}
	if np.Frequency < 1 || np.Frequency > 7 {
		return nil, ErrInvalidFrequency.WithField("frequency")
	}
	if np.TrainingLevel != "" && !np.TrainingLevel.IsValid() {
		return nil, ErrInvalidLevel.WithField("trainingLevel")
	}

	p := Program{
		ID:                s.newID(),
		UserID:            np.UserID,
		Name:              np.Name,
		PeriodizationType: np.PeriodizationType,
		StartDate:         np.StartDate,
		Goal:              np.Goal,
		TrainingLevel:     np.TrainingLevel,
		Frequency:         np.Frequency,
		Structure:         np.Structure.clone(),
		CreatedAt:         s.now().UTC(),
	}
	if err := s.repo.AddProgram(ctx, p); err != nil {
		return nil, fmt.Errorf("add program: %w", err)
	}
	return &p, nil
}

func (s *Service) AddMesocycle(ctx context.Context, m Mesocycle) (_ *Mesocycle, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.periodization.mesocycle.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("program", m.ProgramID),
		attribute.Int("position", m.Position),
	)

	if m.Position < 0 {
		return nil, ErrInvalidPosition.WithField("position")
	}
	if m.LengthInWeeks <= 0 {
		return nil, ErrInvalidLength.WithField("lengthInWeeks")
	}

	m.ID = s.newID()
	if err := s.repo.AddMesocycle(ctx, m); err != nil {
		return nil, fmt.Errorf("add mesocycle: %w", err)
	}
	return &m, nil
}

func (s *Service) AddMicrocycle(ctx context.Context, m Microcycle) (_ *Microcycle, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.periodization.microcycle.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("mesocycle", m.MesocycleID),
		attribute.Int("week", m.WeekNumber),
	)

	if m.WeekNumber < 1 {
		return nil, ErrInvalidWeek.WithField("weekNumber")
	}

	m.ID = s.newID()
	if err := s.repo.AddMicrocycle(ctx, m); err != nil {
		return nil, fmt.Errorf("add microcycle: %w", err)
	}
	return &m, nil
}

func (s *Service) AddSession(ctx context.Context, session Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.periodization.session.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("microcycle", session.MicrocycleID),
		attribute.Int("day", session.DayOfWeek),
	)

	if session.DayOfWeek < 0 || session.DayOfWeek > 6 {
		return nil, ErrInvalidDay.WithField("dayOfWeek")
	}
	for i, ex := range session.Exercises {
		if !ex.MuscleGroup.IsValid() || ex.Sets < 0 || ex.Reps < 0 {
			return nil, ErrInvalidExercise.WithField(fmt.Sprintf("exercises[%d]", i))
		}
	}
	if session.Exercises == nil {
		session.Exercises = []PlannedExercise{}
	}

	session.ID = s.newID()
	if err := s.repo.AddSession(ctx, session); err != nil {
		return nil, fmt.Errorf("add session: %w", err)
	}
	return &session, nil
}

func (s *Service) DeleteProgram(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.periodization.program.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program", id))

	if err := s.repo.DeleteProgram(ctx, id); err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	return nil
}

func (s *Service) GetProgram(ctx context.Context, id string) (*Program, error) {
	return s.repo.GetProgram(ctx, id)
}

func (s *Service) GetMesocycle(ctx context.Context, id string) (*Mesocycle, error) {
	return s.repo.GetMesocycle(ctx, id)
}

func (s *Service) GetMicrocycle(ctx context.Context, id string) (*Microcycle, error) {
	return s.repo.GetMicrocycle(ctx, id)
}

func (s *Service) GetSession(ctx context.Context, id string) (*Session, error) {
	return s.repo.GetSession(ctx, id)
}

func (s *Service) ListPrograms(ctx context.Context, userID string) (_ []Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.periodization.program.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user", userID))

	if userID == "" {
		return nil, ErrMissingUser
	}
	programs, err := s.repo.ListPrograms(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// GetProgramTree loads a program with every mesocycle, microcycle and session under it.
func (s *Service) GetProgramTree(ctx context.Context, id string) (_ *ProgramTree, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.periodization.program.tree")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program", id))

	program, err := s.repo.GetProgram(ctx, id)
	if err != nil {
		return nil, err
	}

	tree := &ProgramTree{Program: *program, Mesocycles: []MesocycleTree{}}
	mesocycles, err := s.repo.ListMesocycles(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list mesocycles: %w", err)
	}
	for _, meso := range mesocycles {
		mesoTree := MesocycleTree{Mesocycle: meso, Microcycles: []MicrocycleTree{}}
		microcycles, err := s.repo.ListMicrocycles(ctx, meso.ID)
		if err != nil {
			return nil, fmt.Errorf("list microcycles: %w", err)
		}
		for _, micro := range microcycles {
			sessions, err := s.repo.ListSessions(ctx, micro.ID)
			if err != nil {
				return nil, fmt.Errorf("list sessions: %w", err)
			}
			mesoTree.Microcycles = append(mesoTree.Microcycles, MicrocycleTree{
				Microcycle: micro,
				Sessions:   sessions,
			})
		}
		tree.Mesocycles = append(tree.Mesocycles, mesoTree)
	}

	return tree, nil
}

func (s *Service) ListTemplates(ctx context.Context) ([]Template, error) {
	return s.templates.ListTemplates(ctx)
}

// InstantiateTemplate expands the template into a new program for the user and
// stores the whole tree in one step. An empty name falls back to the template name.
func (s *Service) InstantiateTemplate(
	ctx context.Context,
	templateID, userID, name string,
	startDate time.Time,
) (_ *ProgramTree, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.periodization.template.instantiate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("template", templateID),
		attribute.String("user", userID),
	)

	if userID == "" {
		return nil, ErrMissingUser
	}
	if startDate.IsZero() {
		return nil, ErrMissingStartDate.WithField("startDate")
	}

	template, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = template.Name
	}

	tree, err := ExpandTemplate(*template, userID, name, startDate, s.now().UTC(), s.newID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveProgramTree(ctx, *tree); err != nil {
		return nil, fmt.Errorf("save program tree: %w", err)
	}

	meso, micro, sessions := tree.Counts()
	span.SetAttributes(
		attribute.Int("mesocycles", meso),
		attribute.Int("microcycles", micro),
		attribute.Int("sessions", sessions),
	)
	return tree, nil
}

// Catalog is an in-process template repository.
type Catalog struct {
	templates []Template
	byID      map[string]int
}

func NewCatalog(templates []Template) *Catalog {
	c := &Catalog{
		templates: templates,
		byID:      make(map[string]int, len(templates)),
	}
	for i, t := range templates {
		c.byID[t.ID] = i
	}
	return c
}

func (c *Catalog) GetTemplate(_ context.Context, id string) (*Template, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, ErrTemplateNotFound.WithEntity("template", id)
	}
	t := c.templates[i]
	t.Structure = t.Structure.clone()
	return &t, nil
}

func (c *Catalog) ListTemplates(_ context.Context) ([]Template, error) {
	out := make([]Template, len(c.templates))
	for i, t := range c.templates {
		t.Structure = t.Structure.clone()
		out[i] = t
	}
	return out, nil
}
