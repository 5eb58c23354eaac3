// Package training holds the vocabulary shared by the volume, periodization,
// objectives and planner packages.
package training

import (
	"fmt"
	"strings"
)

type MuscleGroup string

const (
	Chest      MuscleGroup = "chest"
	Lats       MuscleGroup = "lats"
	UpperBack  MuscleGroup = "upper_back"
	Traps      MuscleGroup = "traps"
	FrontDelts MuscleGroup = "front_delts"
	SideDelts  MuscleGroup = "side_delts"
	RearDelts  MuscleGroup = "rear_delts"
	Biceps     MuscleGroup = "biceps"
	Triceps    MuscleGroup = "triceps"
	Forearms   MuscleGroup = "forearms"
	Abs        MuscleGroup = "abs"
	Obliques   MuscleGroup = "obliques"
	LowerBack  MuscleGroup = "lower_back"
	Glutes     MuscleGroup = "glutes"
	Quads      MuscleGroup = "quads"
	Hamstrings MuscleGroup = "hamstrings"
	Adductors  MuscleGroup = "adductors"
	Calves     MuscleGroup = "calves"
)

// muscleGroups is the canonical order, used for summaries and defaults tables.
var muscleGroups = []MuscleGroup{
	Chest, Lats, UpperBack, Traps,
	FrontDelts, SideDelts, RearDelts,
	Biceps, Triceps, Forearms,
	Abs, Obliques, LowerBack,
	Glutes, Quads, Hamstrings, Adductors, Calves,
}

var muscleGroupIndex = func() map[MuscleGroup]int {
	idx := make(map[MuscleGroup]int, len(muscleGroups))
	for i, mg := range muscleGroups {
		idx[mg] = i
	}
	return idx
}()

// MuscleGroups returns all muscle groups in canonical order.
func MuscleGroups() []MuscleGroup {
	out := make([]MuscleGroup, len(muscleGroups))
	copy(out, muscleGroups)
	return out
}

func (mg MuscleGroup) String() string {
	return string(mg)
}

func (mg MuscleGroup) IsValid() bool {
	_, ok := muscleGroupIndex[mg]
	return ok
}

// Order is the position of mg in the canonical order, -1 for unknown groups.
func (mg MuscleGroup) Order() int {
	if i, ok := muscleGroupIndex[mg]; ok {
		return i
	}
	return -1
}

// ParseMuscleGroups splits a comma separated list, e.g. "chest, quads".
func ParseMuscleGroups(s string) []MuscleGroup {
	var groups []MuscleGroup
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		groups = append(groups, MuscleGroup(part))
	}
	return groups
}

type TrainingLevel string

const (
	Beginner     TrainingLevel = "beginner"
	Intermediate TrainingLevel = "intermediate"
	Advanced     TrainingLevel = "advanced"
)

func TrainingLevels() []TrainingLevel {
	return []TrainingLevel{Beginner, Intermediate, Advanced}
}

func (tl TrainingLevel) String() string {
	return string(tl)
}

func (tl TrainingLevel) IsValid() bool {
	switch tl {
	case Beginner, Intermediate, Advanced:
		return true
	default:
		return false
	}
}

func ParseTrainingLevel(s string) (TrainingLevel, error) {
	tl := TrainingLevel(strings.ToLower(strings.TrimSpace(s)))
	if !tl.IsValid() {
		return "", fmt.Errorf("unknown training level: %q", s)
	}
	return tl, nil
}
