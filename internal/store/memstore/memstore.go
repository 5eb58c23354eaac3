// Package memstore is an in-memory implementation of every repository the
// training services need. All writes are serialised by a single RWMutex, which
// makes uniqueness checks, seeding and cascading deletes atomic.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/2beens/periodize/internal/training"
	"github.com/2beens/periodize/internal/training/objectives"
	"github.com/2beens/periodize/internal/training/periodization"
	"github.com/2beens/periodize/internal/training/volume"
)

type landmarkKey struct {
	userID      string
	muscleGroup training.MuscleGroup
}

type associationKey struct {
	objectiveID string
	entityType  objectives.EntityType
	entityID    string
}

type Store struct {
	mu sync.RWMutex

	landmarks map[landmarkKey]volume.Landmark

	programs    map[string]periodization.Program
	mesocycles  map[string]periodization.Mesocycle
	microcycles map[string]periodization.Microcycle
	sessions    map[string]periodization.Session

	objectives   map[string]objectives.Objective
	associations map[associationKey]objectives.Association
	// insertion order of associations, for stable listing
	assocSeq map[associationKey]int
	seq      int
}

func New() *Store {
	return &Store{
		landmarks:    map[landmarkKey]volume.Landmark{},
		programs:     map[string]periodization.Program{},
		mesocycles:   map[string]periodization.Mesocycle{},
		microcycles:  map[string]periodization.Microcycle{},
		sessions:     map[string]periodization.Session{},
		objectives:   map[string]objectives.Objective{},
		associations: map[associationKey]objectives.Association{},
		assocSeq:     map[associationKey]int{},
	}
}

// Ping is always healthy.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) GetLandmarks(_ context.Context, userID string) ([]volume.Landmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []volume.Landmark
	for k, l := range s.landmarks {
		if k.userID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MuscleGroup.Order() < out[j].MuscleGroup.Order()
	})
	return out, nil
}

func (s *Store) SeedLandmarks(_ context.Context, userID string, landmarks []volume.Landmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.landmarks {
		if k.userID == userID {
			return volume.ErrAlreadySeeded.WithEntity("user", userID)
		}
	}
	for _, l := range landmarks {
		s.landmarks[landmarkKey{userID: userID, muscleGroup: l.MuscleGroup}] = l
	}
	return nil
}

func (s *Store) UpdateCurrentVolume(
	_ context.Context,
	userID string,
	mg training.MuscleGroup,
	vol float64,
	at time.Time,
) (*volume.Landmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := landmarkKey{userID: userID, muscleGroup: mg}
	l, ok := s.landmarks[key]
	if !ok {
		return nil, volume.ErrLandmarkNotFound.WithEntity("landmark", userID+"/"+mg.String())
	}
	l.CurrentVolume = vol
	l.UpdatedAt = at
	s.landmarks[key] = l
	return &l, nil
}

func (s *Store) UpdateLandmarks(
	_ context.Context,
	userID string,
	mg training.MuscleGroup,
	lm volume.Landmarks,
	at time.Time,
) (*volume.Landmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := landmarkKey{userID: userID, muscleGroup: mg}
	l, ok := s.landmarks[key]
	if !ok {
		return nil, volume.ErrLandmarkNotFound.WithEntity("landmark", userID+"/"+mg.String())
	}
	l.MEV, l.MAV, l.MRV = lm.MEV, lm.MAV, lm.MRV
	l.UpdatedAt = at
	s.landmarks[key] = l
	return &l, nil
}
