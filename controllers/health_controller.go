package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kendall-kelly/garage-jobs-api/config"
)

// HealthController reports process and database liveness
type HealthController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

// NewHealthController creates a health controller
func NewHealthController(db *gorm.DB, logger *log.Logger) *HealthController {
	return &HealthController{DB: db, Logger: logger}
}

// Health handles GET /api/health
func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// DatabaseStatus handles GET /api/database/status
func (hc *HealthController) DatabaseStatus(c *gin.Context) {
	if err := config.PingDatabase(hc.DB); err != nil {
		hc.Logger.WithError(err).Warn("database ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": hc.DB.Dialector.Name(),
	})
}
