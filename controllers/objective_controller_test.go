package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kendall-kelly/garage-jobs-api/controllers"
	"github.com/kendall-kelly/garage-jobs-api/models"
	"github.com/kendall-kelly/garage-jobs-api/tests/testutil"
)

func setupObjectiveRoutes(t *testing.T) *testEnv {
	env := newTestEnv(t)
	oc := controllers.NewObjectiveController(env.db, env.logger)
	env.router.GET("/api/objectives/:job_id", oc.ListObjectives)
	env.router.POST("/api/objectives", oc.CreateObjective)
	env.router.PUT("/api/objectives/:id", oc.UpdateObjective)
	return env
}

func TestCreateObjective(t *testing.T) {
	env := setupObjectiveRoutes(t)
	owner := testutil.CreateUser(t, env.db, "owner", models.RoleUser, "")
	job := testutil.CreateJob(t, env.db, "Ana", "Honda Civic", owner.ID)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
	}{
		{
			name:           "Create objective",
			requestBody:    map[string]interface{}{"job_id": job.ID, "description": "Replace brake pads"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing description",
			requestBody:    map[string]interface{}{"job_id": job.ID},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing job id",
			requestBody:    map[string]interface{}{"description": "Replace brake pads"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unknown job",
			requestBody:    map[string]interface{}{"job_id": 999, "description": "Replace brake pads"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.DoJSON(t, env.router, http.MethodPost, "/api/objectives", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}

	var objectives []models.Objective
	require.NoError(t, env.db.Find(&objectives).Error)
	require.Len(t, objectives, 1)
	assert.Equal(t, "Replace brake pads", objectives[0].Description)
	assert.False(t, objectives[0].IsCompleted)
}

func TestListObjectives(t *testing.T) {
	env := setupObjectiveRoutes(t)
	owner := testutil.CreateUser(t, env.db, "owner", models.RoleUser, "")
	job := testutil.CreateJob(t, env.db, "Ana", "Honda Civic", owner.ID)
	other := testutil.CreateJob(t, env.db, "Beto", "VW Golf", owner.ID)

	for _, objective := range []models.Objective{
		{JobID: job.ID, Description: "Drain oil"},
		{JobID: job.ID, Description: "Replace filter"},
		{JobID: other.ID, Description: "Check tyres"},
	} {
		require.NoError(t, env.db.Create(&objective).Error)
	}

	w := testutil.DoJSON(t, env.router, http.MethodGet, "/api/objectives/"+itoa(job.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var objectives []models.Objective
	testutil.DecodeJSON(t, w, &objectives)
	require.Len(t, objectives, 2)
	assert.Equal(t, "Drain oil", objectives[0].Description)
	assert.Equal(t, "Replace filter", objectives[1].Description)

	w = testutil.DoJSON(t, env.router, http.MethodGet, "/api/objectives/999", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestUpdateObjective(t *testing.T) {
	env := setupObjectiveRoutes(t)
	owner := testutil.CreateUser(t, env.db, "owner", models.RoleUser, "")
	job := testutil.CreateJob(t, env.db, "Ana", "Honda Civic", owner.ID)
	objective := models.Objective{JobID: job.ID, Description: "Drain oil"}
	require.NoError(t, env.db.Create(&objective).Error)
	path := "/api/objectives/" + itoa(objective.ID)

	t.Run("Complete objective", func(t *testing.T) {
		w := testutil.DoJSON(t, env.router, http.MethodPut, path, map[string]interface{}{"is_completed": true})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got models.Objective
		testutil.DecodeJSON(t, w, &got)
		assert.True(t, got.IsCompleted)
	})

	t.Run("Reopen objective", func(t *testing.T) {
		w := testutil.DoJSON(t, env.router, http.MethodPut, path, map[string]interface{}{"is_completed": false})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got models.Objective
		testutil.DecodeJSON(t, w, &got)
		assert.False(t, got.IsCompleted)
	})

	t.Run("Missing flag", func(t *testing.T) {
		w := testutil.DoJSON(t, env.router, http.MethodPut, path, map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Flag of the wrong type", func(t *testing.T) {
		w := testutil.DoJSON(t, env.router, http.MethodPut, path, map[string]interface{}{"is_completed": "yes"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown objective", func(t *testing.T) {
		w := testutil.DoJSON(t, env.router, http.MethodPut, "/api/objectives/999", map[string]interface{}{"is_completed": true})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
