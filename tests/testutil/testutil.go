package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kendall-kelly/garage-jobs-api/models"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	t.Setenv("GO_ENV", "test")
	RequireTestEnvironment(t)
}

// NewTestDB opens a private in-memory SQLite database with every table migrated.
// The pool is pinned to one connection so that all queries see the same memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate test database")
	return db
}

// CreateUser inserts a user with the given role and optional push token
func CreateUser(t *testing.T, db *gorm.DB, username, role, pushToken string) models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Name:     username,
		Password: "secret",
		Role:     role,
	}
	if pushToken != "" {
		user.PushToken = &pushToken
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateJob inserts an open job owned by userID
func CreateJob(t *testing.T, db *gorm.DB, clientName, vehicle string, userID uint) models.Job {
	t.Helper()

	job := models.Job{
		ClientName:       clientName,
		Vehicle:          vehicle,
		IssueDescription: "Engine noise",
		UserID:           &userID,
	}
	require.NoError(t, db.Create(&job).Error)
	return job
}

// NewRouter returns a bare gin engine in test mode
func NewRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// DoJSON sends a request with an optional JSON body through handler and records the response
func DoJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// DecodeJSON unmarshals a recorded response body into out
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "Response should be valid JSON: %s", w.Body.String())
}

// ErrorMessage extracts the "error" field of a failed response
func ErrorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]interface{}
	DecodeJSON(t, w, &body)
	message, _ := body["error"].(string)
	return message
}
