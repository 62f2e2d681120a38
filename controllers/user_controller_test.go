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

func setupUserRoutes(t *testing.T) *testEnv {
	env := newTestEnv(t)
	uc := controllers.NewUserController(env.db, env.logger)
	env.router.POST("/api/register", uc.Register)
	env.router.POST("/api/login", uc.Login)
	env.router.PUT("/api/users/:id/push-token", uc.SavePushToken)
	env.router.GET("/api/users", uc.ListUsers)
	return env
}

func TestRegister(t *testing.T) {
	env := setupUserRoutes(t)
	testutil.CreateUser(t, env.db, "taken", models.RoleUser, "")

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Register with default role",
			requestBody: map[string]interface{}{
				"username": "juan",
				"password": "hunter2",
				"name":     "Juan Perez",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.NotZero(t, response["id"])
				assert.Equal(t, "juan", response["username"])
				assert.Equal(t, "Juan Perez", response["name"])
				assert.Equal(t, models.RoleUser, response["role"])
				assert.NotContains(t, response, "password")
			},
		},
		{
			name: "Register an admin",
			requestBody: map[string]interface{}{
				"username": "boss",
				"password": "hunter2",
				"role":     "admin",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.Equal(t, models.RoleAdmin, response["role"])
			},
		},
		{
			name: "Reject unknown role",
			requestBody: map[string]interface{}{
				"username": "ghost",
				"password": "hunter2",
				"role":     "superuser",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Reject missing password",
			requestBody: map[string]interface{}{
				"username": "nopass",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Reject duplicate username",
			requestBody: map[string]interface{}{
				"username": "taken",
				"password": "hunter2",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.DoJSON(t, env.router, http.MethodPost, "/api/register", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus >= http.StatusBadRequest {
				assert.NotEmpty(t, testutil.ErrorMessage(t, w))
				return
			}

			var response map[string]interface{}
			testutil.DecodeJSON(t, w, &response)
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	env := setupUserRoutes(t)
	user := testutil.CreateUser(t, env.db, "maria", models.RoleUser, "")
	email := "maria@example.com"
	require.NoError(t, env.db.Model(&user).Update("email", email).Error)

	t.Run("Valid credentials return the profile", func(t *testing.T) {
		w := testutil.DoJSON(t, env.router, http.MethodPost, "/api/login", map[string]interface{}{
			"username": "maria",
			"password": "secret",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var response map[string]map[string]interface{}
		testutil.DecodeJSON(t, w, &response)
		assert.Equal(t, float64(user.ID), response["user"]["id"])
		assert.Equal(t, "maria", response["user"]["username"])
		assert.NotContains(t, response["user"], "password")
	})

	t.Run("Email works as identifier", func(t *testing.T) {
		w := testutil.DoJSON(t, env.router, http.MethodPost, "/api/login", map[string]interface{}{
			"email":    email,
			"password": "secret",
		})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("Wrong password is rejected", func(t *testing.T) {
		w := testutil.DoJSON(t, env.router, http.MethodPost, "/api/login", map[string]interface{}{
			"username": "maria",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid credentials", testutil.ErrorMessage(t, w))
	})

	t.Run("Unknown user gets the same answer", func(t *testing.T) {
		w := testutil.DoJSON(t, env.router, http.MethodPost, "/api/login", map[string]interface{}{
			"username": "nobody",
			"password": "secret",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid credentials", testutil.ErrorMessage(t, w))
	})

	t.Run("Missing password is a bad request", func(t *testing.T) {
		w := testutil.DoJSON(t, env.router, http.MethodPost, "/api/login", map[string]interface{}{
			"username": "maria",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Login stores a new push token", func(t *testing.T) {
		w := testutil.DoJSON(t, env.router, http.MethodPost, "/api/login", map[string]interface{}{
			"username":   "maria",
			"password":   "secret",
			"push_token": "ExponentPushToken[phone]",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var stored models.User
		require.NoError(t, env.db.First(&stored, user.ID).Error)
		require.NotNil(t, stored.PushToken)
		assert.Equal(t, "ExponentPushToken[phone]", *stored.PushToken)
	})
}

func TestSavePushToken(t *testing.T) {
	env := setupUserRoutes(t)
	user := testutil.CreateUser(t, env.db, "pedro", models.RoleUser, "")

	w := testutil.DoJSON(t, env.router, http.MethodPut, "/api/users/"+itoa(user.ID)+"/push-token", map[string]interface{}{
		"push_token": "ExponentPushToken[new]",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.User
	require.NoError(t, env.db.First(&stored, user.ID).Error)
	require.NotNil(t, stored.PushToken)
	assert.Equal(t, "ExponentPushToken[new]", *stored.PushToken)

	w = testutil.DoJSON(t, env.router, http.MethodPut, "/api/users/999/push-token", map[string]interface{}{
		"push_token": "ExponentPushToken[new]",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.DoJSON(t, env.router, http.MethodPut, "/api/users/"+itoa(user.ID)+"/push-token", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUsers(t *testing.T) {
	env := setupUserRoutes(t)
	testutil.CreateUser(t, env.db, "admin", models.RoleAdmin, "")
	testutil.CreateUser(t, env.db, "mechanic", models.RoleUser, "")

	w := testutil.DoJSON(t, env.router, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []map[string]interface{}
	testutil.DecodeJSON(t, w, &all)
	assert.Len(t, all, 2)

	w = testutil.DoJSON(t, env.router, http.MethodGet, "/api/users?role=admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var admins []map[string]interface{}
	testutil.DecodeJSON(t, w, &admins)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin", admins[0]["username"])
}
