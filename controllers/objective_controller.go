package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kendall-kelly/garage-jobs-api/models"
	"github.com/kendall-kelly/garage-jobs-api/utils"
)

// CreateObjectiveRequest represents the request body for adding an objective to a job
type CreateObjectiveRequest struct {
	JobID       uint   `json:"job_id" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// UpdateObjectiveRequest represents the request body for ticking an objective
type UpdateObjectiveRequest struct {
	IsCompleted *bool `json:"is_completed" binding:"required"`
}

// ObjectiveController serves job checklists
type ObjectiveController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

// NewObjectiveController creates an objective controller
func NewObjectiveController(db *gorm.DB, logger *log.Logger) *ObjectiveController {
	return &ObjectiveController{DB: db, Logger: logger}
}

// ListObjectives handles GET /api/objectives/:job_id
func (oc *ObjectiveController) ListObjectives(c *gin.Context) {
	jobID, ok := utils.ParseID(c, "job_id")
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "job not found")
		return
	}

	var objectives []models.Objective
	err := oc.DB.WithContext(c.Request.Context()).
		Where("job_id = ?", jobID).
		Order("id").
		Find(&objectives).Error
	if err != nil {
		oc.Logger.WithError(err).WithField("job_id", jobID).Error("failed to list objectives")
		utils.RespondError(c, http.StatusInternalServerError, "failed to fetch objectives")
		return
	}

	c.JSON(http.StatusOK, objectives)
}

// CreateObjective handles POST /api/objectives
func (oc *ObjectiveController) CreateObjective(c *gin.Context) {
	var req CreateObjectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "job_id and description are required")
		return
	}

	db := oc.DB.WithContext(c.Request.Context())

	// Objectives always hang off an existing job
	var job models.Job
	if err := db.Select("id").First(&job, req.JobID).Error; err != nil {
		if utils.IsNotFound(err) {
			utils.RespondError(c, http.StatusNotFound, "job not found")
			return
		}
		oc.Logger.WithError(err).WithField("job_id", req.JobID).Error("failed to look up job")
		utils.RespondError(c, http.StatusInternalServerError, "failed to create objective")
		return
	}

	objective := models.Objective{
		JobID:       req.JobID,
		Description: req.Description,
		IsCompleted: false,
	}
	if err := db.Create(&objective).Error; err != nil {
		oc.Logger.WithError(err).WithField("job_id", req.JobID).Error("failed to create objective")
		utils.RespondError(c, http.StatusInternalServerError, "failed to create objective")
		return
	}

	c.JSON(http.StatusCreated, objective)
}

// UpdateObjective handles PUT /api/objectives/:id - sets the completion flag
func (oc *ObjectiveController) UpdateObjective(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "objective not found")
		return
	}

	var req UpdateObjectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "is_completed must be a boolean")
		return
	}

	db := oc.DB.WithContext(c.Request.Context())

	result := db.Model(&models.Objective{}).Where("id = ?", id).Update("is_completed", *req.IsCompleted)
	if result.Error != nil {
		oc.Logger.WithError(result.Error).WithField("objective_id", id).Error("failed to update objective")
		utils.RespondError(c, http.StatusInternalServerError, "failed to update objective")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, "objective not found")
		return
	}

	var objective models.Objective
	if err := db.First(&objective, id).Error; err != nil {
		oc.Logger.WithError(err).WithField("objective_id", id).Error("failed to reload objective")
		utils.RespondError(c, http.StatusInternalServerError, "failed to fetch objective")
		return
	}

	c.JSON(http.StatusOK, objective)
}
