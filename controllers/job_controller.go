package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kendall-kelly/garage-jobs-api/models"
	"github.com/kendall-kelly/garage-jobs-api/services"
	"github.com/kendall-kelly/garage-jobs-api/utils"
)

// CreateJobRequest represents the request body for creating a job
type CreateJobRequest struct {
	ClientName       string `json:"client_name" binding:"required"`
	Vehicle          string `json:"car_brand_model"`
	IssueDescription string `json:"issue_description"`
	UserID           *uint  `json:"user_id"`
	Progress         int    `json:"progress" binding:"gte=0,lte=100"`
}

// JobController serves repair jobs
type JobController struct {
	DB       *gorm.DB
	Notifier *services.Notifier
	Logger   *log.Logger
}

// NewJobController creates a job controller
func NewJobController(db *gorm.DB, notifier *services.Notifier, logger *log.Logger) *JobController {
	return &JobController{DB: db, Notifier: notifier, Logger: logger}
}

// ListJobs handles GET /api/jobs - lists jobs, optionally only those of ?user_id=
func (jc *JobController) ListJobs(c *gin.Context) {
	userID, ok := utils.ParseOptionalID(c, "user_id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "user_id must be a number")
		return
	}

	query := jc.DB.WithContext(c.Request.Context()).Order("id")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var jobs []models.Job
	if err := query.Find(&jobs).Error; err != nil {
		jc.Logger.WithError(err).Error("failed to list jobs")
		utils.RespondError(c, http.StatusInternalServerError, "failed to fetch jobs")
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// GetJob handles GET /api/jobs/:id
func (jc *JobController) GetJob(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "job not found")
		return
	}

	var job models.Job
	if err := jc.DB.WithContext(c.Request.Context()).First(&job, id).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondError(c, http.StatusNotFound, "job not found")
			return
		}
		jc.Logger.WithError(err).WithField("job_id", id).Error("failed to fetch job")
		utils.RespondError(c, http.StatusInternalServerError, "failed to fetch job")
		return
	}

	c.JSON(http.StatusOK, job)
}

// CreateJob handles POST /api/jobs - creates a job and tells the admins about it
func (jc *JobController) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "client_name is required and progress must be between 0 and 100")
		return
	}

	job := models.Job{
		ClientName:       req.ClientName,
		Vehicle:          req.Vehicle,
		IssueDescription: req.IssueDescription,
		Progress:         req.Progress,
		IsCompleted:      false,
		UserID:           req.UserID,
	}

	if err := jc.DB.WithContext(c.Request.Context()).Create(&job).Error; err != nil {
		jc.Logger.WithError(err).Error("failed to create job")
		utils.RespondError(c, http.StatusInternalServerError, "failed to create job")
		return
	}

	jc.Logger.WithField("job_id", job.ID).Info("job created")

	jc.Notifier.NotifyAdmins(c.Request.Context(),
		"New job created",
		fmt.Sprintf("A new job was created: %s", job.Title()),
		map[string]string{"job_id": fmt.Sprint(job.ID)},
	)

	c.JSON(http.StatusCreated, job)
}

// FinalizeJob handles PUT /api/jobs/:id/finalize - marks a job completed
func (jc *JobController) FinalizeJob(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "job not found")
		return
	}

	db := jc.DB.WithContext(c.Request.Context())

	result := db.Model(&models.Job{}).Where("id = ?", id).Update("is_completed", true)
	if result.Error != nil {
		jc.Logger.WithError(result.Error).WithField("job_id", id).Error("failed to finalize job")
		utils.RespondError(c, http.StatusInternalServerError, "failed to finalize job")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, "job not found")
		return
	}

	var job models.Job
	if err := db.First(&job, id).Error; err != nil {
		jc.Logger.WithError(err).WithField("job_id", id).Error("failed to reload finalized job")
		utils.RespondError(c, http.StatusInternalServerError, "failed to fetch job")
		return
	}

	c.JSON(http.StatusOK, job)
}
