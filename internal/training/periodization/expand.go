package periodization

import (
	"math"
	"time"
)

type phaseProfile struct {
	intensityPct     float64
	volumeMultiplier float64
}

var (
	defaultProfile = phaseProfile{intensityPct: 75, volumeMultiplier: 1.0}
	phaseProfiles  = map[Phase]phaseProfile{
		PhaseAccumulation:    {intensityPct: 70, volumeMultiplier: 1.0},
		PhaseHypertrophy:     {intensityPct: 67.5, volumeMultiplier: 1.1},
		PhaseTransmutation:   {intensityPct: 77.5, volumeMultiplier: 0.9},
		PhaseIntensification: {intensityPct: 80, volumeMultiplier: 0.9},
		PhaseStrength:        {intensityPct: 82.5, volumeMultiplier: 0.8},
		PhaseRealization:     {intensityPct: 90, volumeMultiplier: 0.7},
		PhasePeaking:         {intensityPct: 92.5, volumeMultiplier: 0.5},
		PhaseDeload:          {intensityPct: 60, volumeMultiplier: 0.5},
	}
)

// default training days per weekly frequency, 0 = Sunday
var dayLayouts = map[int][]int{
	1: {1},
	2: {1, 4},
	3: {1, 3, 5},
	4: {1, 2, 4, 5},
	5: {1, 2, 3, 5, 6},
	6: {1, 2, 3, 4, 5, 6},
	7: {0, 1, 2, 3, 4, 5, 6},
}

func profileFor(block PhaseBlock) phaseProfile {
	if block.Deload {
		return phaseProfiles[PhaseDeload]
	}
	if p, ok := phaseProfiles[block.Phase]; ok {
		return p
	}
	return defaultProfile
}

// ExpandTemplate turns a template into a complete program tree for the user.
// The result is deterministic for a given template, start date and id sequence.
func ExpandTemplate(
	t Template,
	userID, name string,
	startDate time.Time,
	createdAt time.Time,
	newID func() string,
) (*ProgramTree, error) {
	if err := t.Structure.Validate(); err != nil {
		return nil, err
	}

	structure := t.Structure.clone()
	days := structure.TrainingDays
	if len(days) == 0 {
		days = dayLayouts[structure.Frequency]
	}

	weeksPerMeso := 0
	for _, b := range structure.Phases {
		weeksPerMeso += b.Weeks
	}

	tree := &ProgramTree{
		Program: Program{
			ID:                newID(),
			UserID:            userID,
			Name:              name,
			PeriodizationType: t.PeriodizationType,
			StartDate:         startDate,
			Goal:              t.Goal,
			TrainingLevel:     t.TrainingLevel,
			Frequency:         structure.Frequency,
			Structure:         structure,
			CreatedAt:         createdAt,
		},
	}

	weekOffset := 0
	sessionIdx := 0
	for pos := 0; pos < structure.mesocycleCount(); pos++ {
		meso := MesocycleTree{
			Mesocycle: Mesocycle{
				ID:            newID(),
				ProgramID:     tree.ID,
				Position:      pos,
				Phase:         dominantPhase(structure.Phases),
				LengthInWeeks: weeksPerMeso,
			},
		}

		var intensitySum, volumeSum float64
		week := 1
		for _, block := range structure.Phases {
			profile := profileFor(block)
			for w := 0; w < block.Weeks; w++ {
				weekStart := startDate.AddDate(0, 0, 7*weekOffset)
				micro := MicrocycleTree{
					Microcycle: Microcycle{
						ID:          newID(),
						MesocycleID: meso.ID,
						WeekNumber:  week,
						IsDeload:    block.Deload,
						Phase:       block.Phase,
						StartDate:   &weekStart,
					},
					Sessions: make([]Session, 0, len(days)),
				}
				for _, day := range days {
					session := Session{
						ID:                     newID(),
						MicrocycleID:           micro.ID,
						DayOfWeek:              day,
						TargetIntensityPct:     profile.intensityPct,
						TargetVolumeMultiplier: profile.volumeMultiplier,
						Exercises:              []PlannedExercise{},
					}
					if len(structure.Split) > 0 {
						split := structure.Split[sessionIdx%len(structure.Split)]
						session.Exercises = append(session.Exercises, split.Exercises...)
					}
					micro.Sessions = append(micro.Sessions, session)
					sessionIdx++
				}
				meso.Microcycles = append(meso.Microcycles, micro)

				intensitySum += profile.intensityPct
				volumeSum += profile.volumeMultiplier
				week++
				weekOffset++
			}
		}

		meso.TargetIntensityPct = round2(intensitySum / float64(weeksPerMeso))
		meso.TargetVolumeMultiplier = round2(volumeSum / float64(weeksPerMeso))
		tree.Mesocycles = append(tree.Mesocycles, meso)
	}

	return tree, nil
}

// dominantPhase is the phase holding the most weeks; the first one listed wins ties.
// Deload blocks only count when nothing else is present.
func dominantPhase(blocks []PhaseBlock) Phase {
	weeks := map[Phase]int{}
	var order []Phase
	for _, b := range blocks {
		if b.Deload {
			continue
		}
		if _, seen := weeks[b.Phase]; !seen {
			order = append(order, b.Phase)
		}
		weeks[b.Phase] += b.Weeks
	}
	if len(order) == 0 {
		return blocks[0].Phase
	}

	best := order[0]
	for _, p := range order[1:] {
		if weeks[p] > weeks[best] {
			best = p
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
