//go:build integration_test || all_tests

package test

import (
	"fmt"
	"net/http"

	"github.com/2beens/periodize/internal/training"
	"github.com/2beens/periodize/internal/training/objectives"
	"github.com/2beens/periodize/internal/training/periodization"
	"github.com/2beens/periodize/internal/training/planner"
	"github.com/2beens/periodize/internal/training/volume"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestVolumeLandmarks() {
	t := s.T()
	userID := gofakeit.UUID()

	// nothing seeded yet
	status := s.do("POST", fmt.Sprintf("/users/%s/volume", userID), map[string]any{
		"muscleGroup": "chest",
		"volume":      10,
	}, nil)
	require.Equal(t, http.StatusNotFound, status)

	status = s.do("POST", fmt.Sprintf("/users/%s/landmarks/seed", userID), map[string]any{
		"trainingLevel": "intermediate",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var chest volume.Summary
	status = s.do("PUT", fmt.Sprintf("/users/%s/landmarks/chest", userID), volume.Landmarks{MEV: 8, MAV: 12, MRV: 16}, &chest)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 10.0, chest.TargetVolume)

	// read the summary once so the cached copy has to be invalidated by the write below
	var summaries []volume.Summary
	require.Equal(t, http.StatusOK, s.do("GET", fmt.Sprintf("/users/%s/volume/summary", userID), nil, &summaries))
	require.Len(t, summaries, len(training.MuscleGroups()))

	status = s.do("POST", fmt.Sprintf("/users/%s/volume", userID), map[string]any{
		"muscleGroup": "chest",
		"volume":      18,
	}, nil)
	require.Equal(t, http.StatusOK, status)

	require.Equal(t, http.StatusOK, s.do("GET", fmt.Sprintf("/users/%s/volume/summary", userID), nil, &summaries))
	require.Equal(t, training.Chest, summaries[0].MuscleGroup)
	assert.Equal(t, 18.0, summaries[0].CurrentVolume)
	assert.Equal(t, volume.StatusExceedingMRV, summaries[0].Status)

	// landmarks out of order
	status = s.do("PUT", fmt.Sprintf("/users/%s/landmarks/chest", userID), volume.Landmarks{MEV: 12, MAV: 8, MRV: 16}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var plan planner.SessionPlan
	status = s.do("GET", fmt.Sprintf("/users/%s/plan?groups=chest,lats&ready=false", userID), nil, &plan)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, plan.Fatigued)
	assert.Len(t, plan.Groups, 2)
}

func (s *IntegrationTestSuite) TestPlanWithoutLandmarks() {
	status := s.do("GET", fmt.Sprintf("/users/%s/plan?groups=chest", gofakeit.UUID()), nil, nil)
	assert.Equal(s.T(), http.StatusUnprocessableEntity, status)
}

func (s *IntegrationTestSuite) TestTemplateProgramWithObjectives() {
	t := s.T()
	userID := gofakeit.UUID()

	var templates []periodization.Template
	require.Equal(t, http.StatusOK, s.do("GET", "/templates", nil, &templates))
	require.NotEmpty(t, templates)

	var tree periodization.ProgramTree
	status := s.do("POST", fmt.Sprintf("/users/%s/programs/from-template", userID), map[string]any{
		"templateId": "linear-beginner-3day",
		"name":       "first block",
		"startDate":  "2026-01-05",
	}, &tree)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, tree.Mesocycles)
	require.NotEmpty(t, tree.Mesocycles[0].Microcycles)
	require.NotEmpty(t, tree.Mesocycles[0].Microcycles[0].Sessions)
	session := tree.Mesocycles[0].Microcycles[0].Sessions[0]

	var stored periodization.ProgramTree
	require.Equal(t, http.StatusOK, s.do("GET", "/programs/"+tree.ID, nil, &stored))
	assert.Equal(t, tree.ID, stored.ID)
	assert.Len(t, stored.Mesocycles, len(tree.Mesocycles))

	var programs []periodization.Program
	require.Equal(t, http.StatusOK, s.do("GET", fmt.Sprintf("/users/%s/programs", userID), nil, &programs))
	require.Len(t, programs, 1)

	var programGoal, mesoGoal objectives.Objective
	require.Equal(t, http.StatusCreated, s.do("POST", fmt.Sprintf("/users/%s/objectives", userID), map[string]any{
		"description": "squat 1.5x bodyweight",
	}, &programGoal))
	require.Equal(t, http.StatusCreated, s.do("POST", fmt.Sprintf("/users/%s/objectives", userID), map[string]any{
		"description": "add 4 sets of back volume",
	}, &mesoGoal))

	require.Equal(t, http.StatusOK, s.do("POST", fmt.Sprintf("/objectives/%s/associations", programGoal.ID), map[string]any{
		"entityType": objectives.EntityProgram,
		"entityId":   tree.ID,
	}, nil))
	require.Equal(t, http.StatusOK, s.do("POST", fmt.Sprintf("/objectives/%s/associations", mesoGoal.ID), map[string]any{
		"entityType": objectives.EntityMesocycle,
		"entityId":   tree.Mesocycles[0].ID,
	}, nil))
	// associating twice is idempotent
	assert.Equal(t, http.StatusOK, s.do("POST", fmt.Sprintf("/objectives/%s/associations", mesoGoal.ID), map[string]any{
		"entityType": objectives.EntityMesocycle,
		"entityId":   tree.Mesocycles[0].ID,
	}, nil))

	var foreign objectives.Objective
	require.Equal(t, http.StatusCreated, s.do("POST", fmt.Sprintf("/users/%s/objectives", gofakeit.UUID()), map[string]any{
		"description": "someone else's goal",
	}, &foreign))
	assert.Equal(t, http.StatusNotFound, s.do("POST", fmt.Sprintf("/objectives/%s/associations", foreign.ID), map[string]any{
		"entityType": objectives.EntitySession,
		"entityId":   session.ID,
	}, nil))

	var effective []objectives.Objective
	require.Equal(t, http.StatusOK, s.do("GET", fmt.Sprintf("/sessions/%s/objectives", session.ID), nil, &effective))
	require.Len(t, effective, 2)

	require.Equal(t, http.StatusNoContent, s.do("DELETE", fmt.Sprintf(
		"/objectives/%s/associations/%s/%s", mesoGoal.ID, objectives.EntityMesocycle, tree.Mesocycles[0].ID,
	), nil, nil))
	require.Equal(t, http.StatusOK, s.do("GET", fmt.Sprintf("/sessions/%s/objectives", session.ID), nil, &effective))
	require.Len(t, effective, 1)
	assert.Equal(t, programGoal.ID, effective[0].ID)

	require.Equal(t, http.StatusNoContent, s.do("DELETE", "/programs/"+tree.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do("GET", "/programs/"+tree.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do("GET", fmt.Sprintf("/sessions/%s/objectives", session.ID), nil, nil))

	var remaining []objectives.Objective
	require.Equal(t, http.StatusOK, s.do("GET", fmt.Sprintf("/users/%s/objectives", userID), nil, &remaining))
	assert.Len(t, remaining, 2)
}
