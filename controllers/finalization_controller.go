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

var errFinalizationNotFound = errors.New("finalization request not found")

// CreateFinalizationRequest represents the request body for asking to close a job
type CreateFinalizationRequest struct {
	JobID  uint `json:"job_id" binding:"required"`
	UserID uint `json:"user_id" binding:"required"`
}

// FinalizationController serves job finalization requests and their review
type FinalizationController struct {
	DB       *gorm.DB
	Notifier *services.Notifier
	Logger   *log.Logger
}

// NewFinalizationController creates a finalization controller
func NewFinalizationController(db *gorm.DB, notifier *services.Notifier, logger *log.Logger) *FinalizationController {
	return &FinalizationController{DB: db, Notifier: notifier, Logger: logger}
}

// ListRequests handles GET /api/job_finalization_requests - newest first, optionally by ?status=
func (fc *FinalizationController) ListRequests(c *gin.Context) {
	query := fc.DB.WithContext(c.Request.Context()).Order("request_date DESC, id DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.FinalizationRequest
	if err := query.Find(&requests).Error; err != nil {
		fc.Logger.WithError(err).Error("failed to list finalization requests")
		utils.RespondError(c, http.StatusInternalServerError, "failed to fetch finalization requests")
		return
	}

	c.JSON(http.StatusOK, requests)
}

// CreateRequest handles POST /api/job_finalization_requests
func (fc *FinalizationController) CreateRequest(c *gin.Context) {
	var req CreateFinalizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "job_id and user_id are required")
		return
	}

	ctx := c.Request.Context()
	db := fc.DB.WithContext(ctx)

	var job models.Job
	if err := db.First(&job, req.JobID).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondError(c, http.StatusNotFound, "job not found")
			return
		}
		fc.Logger.WithError(err).WithField("job_id", req.JobID).Error("failed to look up job")
		utils.RespondError(c, http.StatusInternalServerError, "failed to create finalization request")
		return
	}

	request := models.FinalizationRequest{
		JobID:       req.JobID,
		UserID:      req.UserID,
		RequestDate: time.Now().UTC(),
		IsApproved:  false,
		Status:      models.FinalizationPending,
	}
	if err := db.Create(&request).Error; err != nil {
		fc.Logger.WithError(err).WithField("job_id", req.JobID).Error("failed to create finalization request")
		utils.RespondError(c, http.StatusInternalServerError, "failed to create finalization request")
		return
	}

	fc.Notifier.NotifyAdmins(ctx,
		job.Title(),
		"A request to finalize this job is waiting for review",
		map[string]string{"job_id": fmt.Sprint(job.ID), "finalization_request_id": fmt.Sprint(request.ID)},
	)

	c.JSON(http.StatusCreated, request)
}

// ApproveRequest handles PUT /api/job_finalization_requests/:id/approve.
// The job and the request are updated together.
func (fc *FinalizationController) ApproveRequest(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "finalization request not found")
		return
	}

	ctx := c.Request.Context()

	var request models.FinalizationRequest
	var job models.Job
	err := fc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadFinalization(tx, id, &request); err != nil {
			return err
		}

		if err := tx.Model(&models.Job{}).Where("id = ?", request.JobID).Update("is_completed", true).Error; err != nil {
			return errors.Wrap(err, "complete job")
		}

		err := tx.Model(&request).Updates(map[string]interface{}{
			"is_approved": true,
			"status":      models.FinalizationApproved,
		}).Error
		if err != nil {
			return errors.Wrap(err, "approve finalization request")
		}

		// A missing job is not fatal; the notification falls back to the id
		if err := tx.First(&job, request.JobID).Error; err != nil && !utils.IsNotFound(err) {
			return errors.Wrap(err, "load job")
		}
		return nil
	})
	if err != nil {
		fc.respondTxError(c, id, err, "failed to approve finalization request")
		return
	}

	request.IsApproved = true
	request.Status = models.FinalizationApproved

	fc.Logger.WithField("finalization_request_id", id).WithField("job_id", request.JobID).Info("job finalization approved")

	fc.Notifier.NotifyUser(ctx, request.UserID,
		"Request approved",
		fmt.Sprintf("Your request to finalize %s was approved", jobLabel(job, request.JobID)),
		map[string]string{"job_id": fmt.Sprint(request.JobID), "finalization_request_id": fmt.Sprint(request.ID)},
	)

	c.JSON(http.StatusOK, request)
}

// RejectRequest handles PUT /api/job_finalization_requests/:id/reject.
// The request is kept with status rejected and the job is left as it was.
func (fc *FinalizationController) RejectRequest(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "finalization request not found")
		return
	}

	ctx := c.Request.Context()

	var request models.FinalizationRequest
	var job models.Job
	err := fc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadFinalization(tx, id, &request); err != nil {
			return err
		}

		err := tx.Model(&request).Updates(map[string]interface{}{
			"is_approved": false,
			"status":      models.FinalizationRejected,
		}).Error
		if err != nil {
			return errors.Wrap(err, "reject finalization request")
		}

		if err := tx.First(&job, request.JobID).Error; err != nil && !utils.IsNotFound(err) {
			return errors.Wrap(err, "load job")
		}
		return nil
	})
	if err != nil {
		fc.respondTxError(c, id, err, "failed to reject finalization request")
		return
	}

	request.IsApproved = false
	request.Status = models.FinalizationRejected

	fc.Logger.WithField("finalization_request_id", id).WithField("job_id", request.JobID).Info("job finalization rejected")

	fc.Notifier.NotifyUser(ctx, request.UserID,
		"Request rejected",
		fmt.Sprintf("Your request to finalize %s was rejected", jobLabel(job, request.JobID)),
		map[string]string{"job_id": fmt.Sprint(request.JobID), "finalization_request_id": fmt.Sprint(request.ID)},
	)

	c.JSON(http.StatusOK, request)
}

func (fc *FinalizationController) respondTxError(c *gin.Context, id uint, err error, message string) {
	if errors.Is(err, errFinalizationNotFound) {
		utils.RespondError(c, http.StatusNotFound, "finalization request not found")
		return
	}
	fc.Logger.WithError(err).WithField("finalization_request_id", id).Error(message)
	utils.RespondError(c, http.StatusInternalServerError, message)
}

func loadFinalization(tx *gorm.DB, id uint, request *models.FinalizationRequest) error {
	if err := tx.First(request, id).Error; err != nil {
		if utils.IsNotFound(err) {
			return errFinalizationNotFound
		}
		return errors.Wrap(err, "load finalization request")
	}
	return nil
}

func jobLabel(job models.Job, jobID uint) string {
	if job.ID == 0 {
		return fmt.Sprintf("job #%d", jobID)
	}
	return job.Title()
}
