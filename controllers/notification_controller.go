package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kendall-kelly/garage-jobs-api/models"
	"github.com/kendall-kelly/garage-jobs-api/utils"
)

// NotificationController serves a user's in-app notifications
type NotificationController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

// NewNotificationController creates a notification controller
func NewNotificationController(db *gorm.DB, logger *log.Logger) *NotificationController {
	return &NotificationController{DB: db, Logger: logger}
}

// ListNotifications handles GET /api/notifications/:user_id - newest first
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	userID, ok := utils.ParseID(c, "user_id")
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "user not found")
		return
	}

	var notifications []models.Notification
	err := nc.DB.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		nc.Logger.WithError(err).WithField("user_id", userID).Error("failed to list notifications")
		utils.RespondError(c, http.StatusInternalServerError, "failed to fetch notifications")
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkAsRead handles PUT /api/notifications/:id/read
func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "notification not found")
		return
	}

	db := nc.DB.WithContext(c.Request.Context())

	var notification models.Notification
	if err := db.First(&notification, id).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondError(c, http.StatusNotFound, "notification not found")
			return
		}
		nc.Logger.WithError(err).WithField("notification_id", id).Error("failed to fetch notification")
		utils.RespondError(c, http.StatusInternalServerError, "failed to fetch notification")
		return
	}

	if !notification.IsRead {
		err := db.Model(&models.Notification{}).
			Where("id = ? AND is_read = ?", id, false).
			Update("is_read", true).Error
		if err != nil {
			nc.Logger.WithError(err).WithField("notification_id", id).Error("failed to mark notification as read")
			utils.RespondError(c, http.StatusInternalServerError, "failed to update notification")
			return
		}
		notification.IsRead = true
	}

	c.JSON(http.StatusOK, notification)
}
