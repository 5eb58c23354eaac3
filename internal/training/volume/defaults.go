package volume

import (
	"fmt"
	"math"

	"github.com/2beens/periodize/internal/training"
)

// LandmarkTable holds the default landmarks per training level and muscle group,
// used to seed new users.
type LandmarkTable map[training.TrainingLevel]map[training.MuscleGroup]Landmarks

// intermediate weekly set landmarks; the other levels are scaled from these
var intermediateLandmarks = map[training.MuscleGroup]Landmarks{
	training.Chest:      {MEV: 8, MAV: 16, MRV: 22},
	training.Lats:       {MEV: 10, MAV: 18, MRV: 25},
	training.UpperBack:  {MEV: 8, MAV: 16, MRV: 24},
	training.Traps:      {MEV: 4, MAV: 14, MRV: 26},
	training.FrontDelts: {MEV: 0, MAV: 8, MRV: 12},
	training.SideDelts:  {MEV: 8, MAV: 19, MRV: 26},
	training.RearDelts:  {MEV: 8, MAV: 18, MRV: 26},
	training.Biceps:     {MEV: 8, MAV: 17, MRV: 26},
	training.Triceps:    {MEV: 6, MAV: 12, MRV: 18},
	training.Forearms:   {MEV: 2, MAV: 14, MRV: 25},
	training.Abs:        {MEV: 4, MAV: 18, MRV: 25},
	training.Obliques:   {MEV: 0, MAV: 8, MRV: 16},
	training.LowerBack:  {MEV: 0, MAV: 6, MRV: 10},
	training.Glutes:     {MEV: 0, MAV: 8, MRV: 16},
	training.Quads:      {MEV: 8, MAV: 15, MRV: 20},
	training.Hamstrings: {MEV: 6, MAV: 12, MRV: 20},
	training.Adductors:  {MEV: 0, MAV: 8, MRV: 16},
	training.Calves:     {MEV: 8, MAV: 14, MRV: 20},
}

var levelScale = map[training.TrainingLevel]float64{
	training.Beginner:     0.7,
	training.Intermediate: 1.0,
	training.Advanced:     1.25,
}

// DefaultLandmarkTable returns a fresh copy of the built-in defaults.
func DefaultLandmarkTable() LandmarkTable {
	table := make(LandmarkTable, len(levelScale))
	for level, scale := range levelScale {
		groups := make(map[training.MuscleGroup]Landmarks, len(intermediateLandmarks))
		for mg, l := range intermediateLandmarks {
			groups[mg] = Landmarks{
				MEV: math.Round(l.MEV * scale),
				MAV: math.Round(l.MAV * scale),
				MRV: math.Round(l.MRV * scale),
			}
		}
		table[level] = groups
	}
	return table
}

// Validate checks that every level covers all muscle groups with valid landmarks.
func (t LandmarkTable) Validate() error {
	for _, level := range training.TrainingLevels() {
		groups, ok := t[level]
		if !ok {
			return fmt.Errorf("landmark table: missing level %s", level)
		}
		for _, mg := range training.MuscleGroups() {
			l, ok := groups[mg]
			if !ok {
				return fmt.Errorf("landmark table: level %s: missing muscle group %s", level, mg)
			}
			if !l.Valid() {
				return fmt.Errorf("landmark table: level %s, muscle group %s: invalid landmarks %+v", level, mg, l)
			}
		}
	}
	for level := range t {
		if !level.IsValid() {
			return fmt.Errorf("landmark table: unknown level %s", level)
		}
		for mg := range t[level] {
			if !mg.IsValid() {
				return fmt.Errorf("landmark table: level %s: unknown muscle group %s", level, mg)
			}
		}
	}
	return nil
}

// With returns a copy of t where the given level/muscle group is overridden.
func (t LandmarkTable) With(level training.TrainingLevel, mg training.MuscleGroup, l Landmarks) LandmarkTable {
	out := make(LandmarkTable, len(t))
	for lvl, groups := range t {
		cp := make(map[training.MuscleGroup]Landmarks, len(groups))
		for g, v := range groups {
			cp[g] = v
		}
		out[lvl] = cp
	}
	if out[level] == nil {
		out[level] = make(map[training.MuscleGroup]Landmarks)
	}
	out[level][mg] = l
	return out
}
