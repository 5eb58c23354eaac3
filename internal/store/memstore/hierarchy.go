package memstore

import (
	"context"
	"sort"

	"github.com/2beens/periodize/internal/training/objectives"
	"github.com/2beens/periodize/internal/training/periodization"
)

func (s *Store) AddProgram(_ context.Context, p periodization.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.programs[p.ID] = p
	return nil
}

func (s *Store) GetProgram(_ context.Context, id string) (*periodization.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.programs[id]
	if !ok {
		return nil, periodization.ErrProgramNotFound.WithEntity("program", id)
	}
	return &p, nil
}

func (s *Store) ListPrograms(_ context.Context, userID string) ([]periodization.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []periodization.Program{}
	for _, p := range s.programs {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) AddMesocycle(_ context.Context, m periodization.Mesocycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMesocycle(m); err != nil {
		return err
	}
	s.mesocycles[m.ID] = m
	return nil
}

func (s *Store) checkMesocycle(m periodization.Mesocycle) error {
	if _, ok := s.programs[m.ProgramID]; !ok {
		return periodization.ErrProgramNotFound.WithEntity("program", m.ProgramID)
	}
	for _, existing := range s.mesocycles {
		if existing.ProgramID == m.ProgramID && existing.Position == m.Position {
			return periodization.ErrDuplicatePosition.WithEntity("program", m.ProgramID).WithField("position")
		}
	}
	return nil
}

func (s *Store) GetMesocycle(_ context.Context, id string) (*periodization.Mesocycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.mesocycles[id]
	if !ok {
		return nil, periodization.ErrMesocycleNotFound.WithEntity("mesocycle", id)
	}
	return &m, nil
}

func (s *Store) ListMesocycles(_ context.Context, programID string) ([]periodization.Mesocycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []periodization.Mesocycle{}
	for _, m := range s.mesocycles {
		if m.ProgramID == programID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *Store) AddMicrocycle(_ context.Context, m periodization.Microcycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMicrocycle(m); err != nil {
		return err
	}
	s.microcycles[m.ID] = m
	return nil
}

func (s *Store) checkMicrocycle(m periodization.Microcycle) error {
	if _, ok := s.mesocycles[m.MesocycleID]; !ok {
		return periodization.ErrMesocycleNotFound.WithEntity("mesocycle", m.MesocycleID)
	}
	for _, existing := range s.microcycles {
		if existing.MesocycleID == m.MesocycleID && existing.WeekNumber == m.WeekNumber {
			return periodization.ErrDuplicateWeek.WithEntity("mesocycle", m.MesocycleID).WithField("weekNumber")
		}
	}
	return nil
}

func (s *Store) GetMicrocycle(_ context.Context, id string) (*periodization.Microcycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.microcycles[id]
	if !ok {
		return nil, periodization.ErrMicrocycleNotFound.WithEntity("microcycle", id)
	}
	return &m, nil
}

func (s *Store) ListMicrocycles(_ context.Context, mesocycleID string) ([]periodization.Microcycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []periodization.Microcycle{}
	for _, m := range s.microcycles {
		if m.MesocycleID == mesocycleID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekNumber < out[j].WeekNumber })
	return out, nil
}

func (s *Store) AddSession(_ context.Context, session periodization.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSession(session); err != nil {
		return err
	}
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (s *Store) checkSession(session periodization.Session) error {
	if _, ok := s.microcycles[session.MicrocycleID]; !ok {
		return periodization.ErrMicrocycleNotFound.WithEntity("microcycle", session.MicrocycleID)
	}
	for _, existing := range s.sessions {
		if existing.MicrocycleID == session.MicrocycleID && existing.DayOfWeek == session.DayOfWeek {
			return periodization.ErrDuplicateDay.WithEntity("microcycle", session.MicrocycleID).WithField("dayOfWeek")
		}
	}
	return nil
}

func (s *Store) GetSession(_ context.Context, id string) (*periodization.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, periodization.ErrSessionNotFound.WithEntity("session", id)
	}
	c := cloneSession(session)
	return &c, nil
}

func (s *Store) ListSessions(_ context.Context, microcycleID string) ([]periodization.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []periodization.Session{}
	for _, session := range s.sessions {
		if session.MicrocycleID == microcycleID {
			out = append(out, cloneSession(session))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

// SaveProgramTree checks the whole tree before writing any of it.
func (s *Store) SaveProgramTree(_ context.Context, tree periodization.ProgramTree) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// stage into a scratch store so sibling uniqueness inside the tree is checked too
	scratch := New()
	scratch.programs[tree.ID] = tree.Program
	for _, meso := range tree.Mesocycles {
		if err := scratch.checkMesocycle(meso.Mesocycle); err != nil {
			return err
		}
		scratch.mesocycles[meso.ID] = meso.Mesocycle
		for _, micro := range meso.Microcycles {
			if err := scratch.checkMicrocycle(micro.Microcycle); err != nil {
				return err
			}
			scratch.microcycles[micro.ID] = micro.Microcycle
			for _, session := range micro.Sessions {
				if err := scratch.checkSession(session); err != nil {
					return err
				}
				scratch.sessions[session.ID] = cloneSession(session)
			}
		}
	}

	s.programs[tree.ID] = tree.Program
	for id, m := range scratch.mesocycles {
		s.mesocycles[id] = m
	}
	for id, m := range scratch.microcycles {
		s.microcycles[id] = m
	}
	for id, session := range scratch.sessions {
		s.sessions[id] = session
	}
	return nil
}

// DeleteProgram removes the program, everything under it and the objective
// associations that point at any removed node.
func (s *Store) DeleteProgram(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.programs[id]; !ok {
		return periodization.ErrProgramNotFound.WithEntity("program", id)
	}

	removed := map[objectives.EntityRef]bool{
		{Type: objectives.EntityProgram, ID: id}: true,
	}
	for mesoID, meso := range s.mesocycles {
		if meso.ProgramID != id {
			continue
		}
		removed[objectives.EntityRef{Type: objectives.EntityMesocycle, ID: mesoID}] = true
		for microID, micro := range s.microcycles {
			if micro.MesocycleID != mesoID {
				continue
			}
			removed[objectives.EntityRef{Type: objectives.EntityMicrocycle, ID: microID}] = true
			for sessionID, session := range s.sessions {
				if session.MicrocycleID == microID {
					removed[objectives.EntityRef{Type: objectives.EntitySession, ID: sessionID}] = true
				}
			}
		}
	}

	for ref := range removed {
		switch ref.Type {
		case objectives.EntityProgram:
			delete(s.programs, ref.ID)
		case objectives.EntityMesocycle:
			delete(s.mesocycles, ref.ID)
		case objectives.EntityMicrocycle:
			delete(s.microcycles, ref.ID)
		case objectives.EntitySession:
			delete(s.sessions, ref.ID)
		}
	}
	for key := range s.associations {
		if removed[objectives.EntityRef{Type: key.entityType, ID: key.entityID}] {
			delete(s.associations, key)
			delete(s.assocSeq, key)
		}
	}
	return nil
}

func cloneSession(session periodization.Session) periodization.Session {
	session.Exercises = append([]periodization.PlannedExercise{}, session.Exercises...)
	return session
}
