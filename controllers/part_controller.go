package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kendall-kelly/garage-jobs-api/models"
	"github.com/kendall-kelly/garage-jobs-api/services"
	"github.com/kendall-kelly/garage-jobs-api/utils"
)

var errPartNotFound = errors.New("part not found")

// CreatePartRequest represents the request body for stocking a part directly
type CreatePartRequest struct {
	Name        string `json:"name" binding:"required"`
	IsAvailable *bool  `json:"is_available"`
}

// UpdatePartRequest represents the request body for changing a part's availability
type UpdatePartRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// DeletePartResponse is returned after a part has been removed
type DeletePartResponse struct {
	Message         string `json:"message"`
	DeletedPartName string `json:"deleted_part_name"`
}

// PartController serves the parts inventory
type PartController struct {
	DB       *gorm.DB
	Notifier *services.Notifier
	Logger   *log.Logger
}

// NewPartController creates a part controller
func NewPartController(db *gorm.DB, notifier *services.Notifier, logger *log.Logger) *PartController {
	return &PartController{DB: db, Notifier: notifier, Logger: logger}
}

// ListParts handles GET /api/parts
func (pc *PartController) ListParts(c *gin.Context) {
	var parts []models.Part
	if err := pc.DB.WithContext(c.Request.Context()).Order("id").Find(&parts).Error; err != nil {
		pc.Logger.WithError(err).Error("failed to list parts")
		utils.RespondError(c, http.StatusInternalServerError, "failed to fetch parts")
		return
	}

	c.JSON(http.StatusOK, parts)
}

// CreatePart handles POST /api/parts - parts added this way are in stock unless stated otherwise
func (pc *PartController) CreatePart(c *gin.Context) {
	var req CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "name is required")
		return
	}

	part := models.Part{
		Name:        req.Name,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		part.IsAvailable = *req.IsAvailable
	}

	if err := pc.DB.WithContext(c.Request.Context()).Create(&part).Error; err != nil {
		pc.Logger.WithError(err).Error("failed to create part")
		utils.RespondError(c, http.StatusInternalServerError, "failed to create part")
		return
	}

	c.JSON(http.StatusCreated, part)
}

// UpdatePart handles PUT /api/parts/:id.
// When a part becomes available the latest pending request for it is fulfilled
// and its requester is notified.
func (pc *PartController) UpdatePart(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "part not found")
		return
	}

	var req UpdatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "is_available must be a boolean")
		return
	}

	ctx := c.Request.Context()
	logger := pc.Logger.WithField("part_id", id)

	var part models.Part
	var fulfilled *models.PartRequest

	err := pc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&part, id).Error; err != nil {
			if utils.IsNotFound(err) {
				return errPartNotFound
			}
			return errors.Wrap(err, "load part")
		}

		if !*req.IsAvailable {
			part.IsAvailable = false
			return errors.Wrap(tx.Model(&part).Update("is_available", false).Error, "mark part unavailable")
		}

		// Only the caller that flips the flag resolves a request
		result := tx.Model(&models.Part{}).
			Where("id = ? AND is_available = ?", id, false).
			Update("is_available", true)
		if result.Error != nil {
			return errors.Wrap(result.Error, "mark part available")
		}
		part.IsAvailable = true
		if result.RowsAffected != 1 {
			return nil
		}

		request, err := pendingRequestFor(tx, part)
		if err != nil || request == nil {
			return err
		}
		if err := tx.Model(request).Update("status", models.PartRequestFulfilled).Error; err != nil {
			return errors.Wrap(err, "fulfil part request")
		}
		fulfilled = request
		return nil
	})
	if err != nil {
		if errors.Is(err, errPartNotFound) {
			utils.RespondError(c, http.StatusNotFound, "part not found")
			return
		}
		logger.WithError(err).Error("failed to update part")
		utils.RespondError(c, http.StatusInternalServerError, "failed to update part")
		return
	}

	if fulfilled != nil {
		logger.WithField("part_request_id", fulfilled.ID).Info("part request fulfilled")
		pc.Notifier.NotifyUser(ctx, fulfilled.UserID,
			"Part available",
			fmt.Sprintf("The part '%s' you requested is now available", part.Name),
			map[string]string{"part_id": fmt.Sprint(part.ID), "part_request_id": fmt.Sprint(fulfilled.ID)},
		)
	}

	c.JSON(http.StatusOK, part)
}

// pendingRequestFor returns the most recent pending request for part, or nil.
// Requests created before parts were linked are matched by name.
func pendingRequestFor(tx *gorm.DB, part models.Part) (*models.PartRequest, error) {
	var requests []models.PartRequest
	err := tx.Where("part_id = ? AND status = ?", part.ID, models.PartRequestPending).
		Order("request_date DESC, id DESC").
		Limit(1).
		Find(&requests).Error
	if err != nil {
		return nil, errors.Wrap(err, "find linked part request")
	}
	if len(requests) == 0 {
		err = tx.Where("part_id IS NULL AND part_name = ? AND status = ?", part.Name, models.PartRequestPending).
			Order("request_date DESC, id DESC").
			Limit(1).
			Find(&requests).Error
		if err != nil {
			return nil, errors.Wrap(err, "find part request by name")
		}
	}
	if len(requests) == 0 {
		return nil, nil
	}
	return &requests[0], nil
}

// DeletePart handles DELETE /api/parts/:id
func (pc *PartController) DeletePart(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "part not found")
		return
	}

	ctx := c.Request.Context()

	var part models.Part
	err := pc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&part, id).Error; err != nil {
			if utils.IsNotFound(err) {
				return errPartNotFound
			}
			return errors.Wrap(err, "load part")
		}

		// Requests outlive the part they pointed to
		err := tx.Model(&models.PartRequest{}).
			Where("part_id = ?", id).
			Update("part_id", nil).Error
		if err != nil {
			return errors.Wrap(err, "unlink part requests")
		}

		return errors.Wrap(tx.Delete(&part).Error, "delete part")
	})
	if err != nil {
		if errors.Is(err, errPartNotFound) {
			utils.RespondError(c, http.StatusNotFound, "part not found")
			return
		}
		pc.Logger.WithError(err).WithField("part_id", id).Error("failed to delete part")
		utils.RespondError(c, http.StatusInternalServerError, "failed to delete part")
		return
	}

	pc.Logger.WithField("part_id", id).WithField("part_name", part.Name).Info("part deleted")

	pc.Notifier.NotifyAdmins(ctx,
		"Part deleted",
		fmt.Sprintf("The part '%s' was removed from the inventory", part.Name),
		map[string]string{"part_id": fmt.Sprint(part.ID)},
	)

	c.JSON(http.StatusOK, DeletePartResponse{
		Message:         "part deleted",
		DeletedPartName: part.Name,
	})
}
