package memstore

import (
	"context"
	"sort"

	"github.com/2beens/periodize/internal/training/objectives"
)

func (s *Store) AddObjective(_ context.Context, o objectives.Objective) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objectives[o.ID] = o
	return nil
}

func (s *Store) GetObjective(_ context.Context, id string) (*objectives.Objective, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objectives[id]
	if !ok {
		return nil, objectives.ErrObjectiveNotFound.WithEntity("objective", id)
	}
	return &o, nil
}

func (s *Store) ListObjectives(_ context.Context, userID string) ([]objectives.Objective, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []objectives.Objective{}
	for _, o := range s.objectives {
		if o.UserID == userID {
			out = append(out, o)
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

func (s *Store) AddAssociation(_ context.Context, a objectives.Association) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := associationKey{objectiveID: a.ObjectiveID, entityType: a.EntityType, entityID: a.EntityID}
	if _, ok := s.associations[key]; ok {
		return nil
	}
	s.associations[key] = a
	s.seq++
	s.assocSeq[key] = s.seq
	return nil
}

func (s *Store) RemoveAssociation(
	_ context.Context,
	objectiveID string,
	entityType objectives.EntityType,
	entityID string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := associationKey{objectiveID: objectiveID, entityType: entityType, entityID: entityID}
	delete(s.associations, key)
	delete(s.assocSeq, key)
	return nil
}

func (s *Store) ListAssociations(
	_ context.Context,
	entityType objectives.EntityType,
	entityID string,
) ([]objectives.Association, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []associationKey
	for key := range s.associations {
		if key.entityType == entityType && key.entityID == entityID {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return s.assocSeq[keys[i]] < s.assocSeq[keys[j]] })

	out := make([]objectives.Association, 0, len(keys))
	for _, key := range keys {
		out = append(out, s.associations[key])
	}
	return out, nil
}
