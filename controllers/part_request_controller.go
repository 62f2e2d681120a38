package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kendall-kelly/garage-jobs-api/models"
	"github.com/kendall-kelly/garage-jobs-api/services"
	"github.com/kendall-kelly/garage-jobs-api/utils"
)

// CreatePartRequestRequest represents the request body for requesting a part
type CreatePartRequestRequest struct {
	JobID    *uint  `json:"job_id"`
	Vehicle  string `json:"car_brand_model"`
	UserID   uint   `json:"user_id" binding:"required"`
	PartName string `json:"part_name" binding:"required"`
	IsUrgent bool   `json:"is_urgent"`
}

// PartRequestController serves requests for spare parts
type PartRequestController struct {
	DB       *gorm.DB
	Notifier *services.Notifier
	Logger   *log.Logger
}

// NewPartRequestController creates a part request controller
func NewPartRequestController(db *gorm.DB, notifier *services.Notifier, logger *log.Logger) *PartRequestController {
	return &PartRequestController{DB: db, Notifier: notifier, Logger: logger}
}

// ListPartRequests handles GET /api/part_requests - newest first
func (prc *PartRequestController) ListPartRequests(c *gin.Context) {
	var requests []models.PartRequest
	err := prc.DB.WithContext(c.Request.Context()).
		Order("request_date DESC, id DESC").
		Find(&requests).Error
	if err != nil {
		prc.Logger.WithError(err).Error("failed to list part requests")
		utils.RespondError(c, http.StatusInternalServerError, "failed to fetch part requests")
		return
	}

	c.JSON(http.StatusOK, requests)
}

// CreatePartRequest handles POST /api/part_requests.
// The requested part is added to the inventory as unavailable in the same transaction.
func (prc *PartRequestController) CreatePartRequest(c *gin.Context) {
	var req CreatePartRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "user_id and part_name are required")
		return
	}

	ctx := c.Request.Context()
	db := prc.DB.WithContext(ctx)

	var requester models.User
	if err := db.First(&requester, req.UserID).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondError(c, http.StatusNotFound, "user not found")
			return
		}
		prc.Logger.WithError(err).WithField("user_id", req.UserID).Error("failed to look up requester")
		utils.RespondError(c, http.StatusInternalServerError, "failed to create part request")
		return
	}

	vehicle := req.Vehicle
	if req.JobID != nil {
		var job models.Job
		if err := db.First(&job, *req.JobID).Error; err != nil {
			if utils.IsNotFound(err) {
				utils.RespondError(c, http.StatusNotFound, "job not found")
				return
			}
			prc.Logger.WithError(err).WithField("job_id", *req.JobID).Error("failed to look up job")
			utils.RespondError(c, http.StatusInternalServerError, "failed to create part request")
			return
		}
		if vehicle == "" {
			vehicle = job.Vehicle
		}
	}

	request := models.PartRequest{
		JobID:       req.JobID,
		UserID:      req.UserID,
		PartName:    req.PartName,
		RequestDate: time.Now().UTC(),
		IsUrgent:    req.IsUrgent,
		Status:      models.PartRequestPending,
	}
	if vehicle != "" {
		request.Vehicle = &vehicle
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		part := models.Part{Name: req.PartName, IsAvailable: false}
		if err := tx.Create(&part).Error; err != nil {
			return errors.Wrap(err, "create part")
		}

		request.PartID = &part.ID
		return errors.Wrap(tx.Create(&request).Error, "create part request")
	})
	if err != nil {
		prc.Logger.WithError(err).WithField("part_name", req.PartName).Error("failed to create part request")
		utils.RespondError(c, http.StatusInternalServerError, "failed to create part request")
		return
	}

	prc.Logger.WithField("part_request_id", request.ID).WithField("part_id", *request.PartID).Info("part requested")

	message := fmt.Sprintf("%s requested the part '%s'", displayName(requester), request.PartName)
	if vehicle != "" {
		message += fmt.Sprintf(" for %s", vehicle)
	}
	if request.IsUrgent {
		message += " (urgent)"
	}
	prc.Notifier.NotifyAdmins(ctx, "New part requested", message, map[string]string{
		"part_request_id": fmt.Sprint(request.ID),
		"part_id":         fmt.Sprint(*request.PartID),
	})

	c.JSON(http.StatusCreated, request)
}

func displayName(u models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
