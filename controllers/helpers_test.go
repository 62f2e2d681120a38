package controllers_test

import (
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kendall-kelly/garage-jobs-api/models"
	"github.com/kendall-kelly/garage-jobs-api/services"
	"github.com/kendall-kelly/garage-jobs-api/tests/testutil"
)

// testEnv bundles the collaborators every controller needs
type testEnv struct {
	db       *gorm.DB
	push     *services.MockPushService
	notifier *services.Notifier
	logger   *log.Logger
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	logger := log.New()
	logger.SetOutput(io.Discard)

	push := services.NewMockPushService()
	notifier := services.NewNotifier(db, push, logger, services.NotifierOptions{
		SendTimeout: time.Second,
		Concurrency: 2,
	})

	return &testEnv{
		db:       db,
		push:     push,
		notifier: notifier,
		logger:   logger,
		router:   testutil.NewRouter(),
	}
}

// notificationsFor returns the stored notifications of a user, oldest first
func (e *testEnv) notificationsFor(t *testing.T, userID uint) []models.Notification {
	t.Helper()

	var rows []models.Notification
	require.NoError(t, e.db.Where("user_id = ?", userID).Order("id").Find(&rows).Error)
	return rows
}

func (e *testEnv) countNotifications(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, e.db.Model(&models.Notification{}).Count(&count).Error)
	return count
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
