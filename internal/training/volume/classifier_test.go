package volume_test

import (
	"testing"

	"github.com/2beens/periodize/internal/training/volume"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		want    volume.Status
		wantRec string
	}{
		{name: "zero", current: 0, want: volume.StatusBelowMEV, wantRec: volume.RecommendationBelowMEV},
		{name: "just below mev", current: 9.5, want: volume.StatusBelowMEV, wantRec: volume.RecommendationBelowMEV},
		{name: "mev is optimal", current: 10, want: volume.StatusOptimal, wantRec: volume.RecommendationOptimal},
		{name: "mav is optimal", current: 16, want: volume.StatusOptimal, wantRec: volume.RecommendationOptimal},
		{name: "between mav and mrv", current: 18, want: volume.StatusApproachingMRV, wantRec: volume.RecommendationApproachingMRV},
		{name: "mrv is approaching", current: 22, want: volume.StatusApproachingMRV, wantRec: volume.RecommendationApproachingMRV},
		{name: "above mrv", current: 22.5, want: volume.StatusExceedingMRV, wantRec: volume.RecommendationExceedingMRV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, rec := volume.Classify(tt.current, 10, 16, 22)
			assert.Equal(t, tt.want, status)
			assert.Equal(t, tt.wantRec, rec)
		})
	}
}

func TestClassify_DegenerateLandmark(t *testing.T) {
	status, _ := volume.Classify(11.9, 12, 12, 12)
	assert.Equal(t, volume.StatusBelowMEV, status)

	status, _ = volume.Classify(12, 12, 12, 12)
	assert.Equal(t, volume.StatusOptimal, status)

	status, _ = volume.Classify(12.1, 12, 12, 12)
	assert.Equal(t, volume.StatusExceedingMRV, status)
}

func TestClassify_MonotonicInCurrent(t *testing.T) {
	landmarks := []volume.Landmarks{
		{MEV: 0, MAV: 0, MRV: 0},
		{MEV: 0, MAV: 8, MRV: 12},
		{MEV: 5, MAV: 5, MRV: 10},
		{MEV: 5, MAV: 10, MRV: 10},
		{MEV: 8, MAV: 16, MRV: 22},
		{MEV: 10, MAV: 18, MRV: 25},
	}

	for _, l := range landmarks {
		require.True(t, l.Valid())
		prev := -1
		for current := 0.0; current <= 30; current += 0.5 {
			status, rec := volume.Classify(current, l.MEV, l.MAV, l.MRV)
			severity := status.Severity()
			require.GreaterOrEqual(t, severity, 0, "unknown status %q", status)
			require.NotEmpty(t, rec)
			assert.GreaterOrEqual(t, severity, prev, "landmarks %+v, current %v", l, current)
			prev = severity
		}
	}
}

func TestStatus_Severity(t *testing.T) {
	assert.Equal(t, 0, volume.StatusBelowMEV.Severity())
	assert.Equal(t, 1, volume.StatusOptimal.Severity())
	assert.Equal(t, 2, volume.StatusApproachingMRV.Severity())
	assert.Equal(t, 3, volume.StatusExceedingMRV.Severity())
	assert.Equal(t, -1, volume.Status("meh").Severity())
}

func TestNewSummary(t *testing.T) {
	s := volume.NewSummary(volume.Landmark{
		MuscleGroup:   "chest",
		MEV:           10,
		MAV:           16,
		MRV:           22,
		CurrentVolume: 18,
	})
	assert.Equal(t, 13.0, s.TargetVolume)
	assert.Equal(t, volume.StatusApproachingMRV, s.Status)
	assert.Equal(t, volume.RecommendationApproachingMRV, s.Recommendation)
	assert.Equal(t, 18.0, s.CurrentVolume)
}
