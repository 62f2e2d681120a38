package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kendall-kelly/garage-jobs-api/controllers"
	"github.com/kendall-kelly/garage-jobs-api/middleware"
	"github.com/kendall-kelly/garage-jobs-api/services"
	"github.com/kendall-kelly/garage-jobs-api/utils"
)

// Deps holds what the handlers are built from
type Deps struct {
	DB               *gorm.DB
	Notifier         *services.Notifier
	Logger           *log.Logger
	CORSAllowOrigins []string
}

// Setup builds the HTTP engine with every API route registered
func Setup(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(deps.Logger),
		middleware.RequestID(),
		middleware.RequestLogger(deps.Logger),
		cors.New(corsConfig(deps.CORSAllowOrigins)),
	)

	users := controllers.NewUserController(deps.DB, deps.Logger)
	jobs := controllers.NewJobController(deps.DB, deps.Notifier, deps.Logger)
	objectives := controllers.NewObjectiveController(deps.DB, deps.Logger)
	parts := controllers.NewPartController(deps.DB, deps.Notifier, deps.Logger)
	partRequests := controllers.NewPartRequestController(deps.DB, deps.Notifier, deps.Logger)
	notifications := controllers.NewNotificationController(deps.DB, deps.Logger)
	finalizations := controllers.NewFinalizationController(deps.DB, deps.Notifier, deps.Logger)
	health := controllers.NewHealthController(deps.DB, deps.Logger)

	api := router.Group("/api")
	{
		api.GET("/health", health.Health)
		api.GET("/database/status", health.DatabaseStatus)

		api.POST("/register", users.Register)
		api.POST("/login", users.Login)
		api.GET("/users", users.ListUsers)
		api.PUT("/users/:id/push-token", users.SavePushToken)

		api.GET("/jobs", jobs.ListJobs)
		api.POST("/jobs", jobs.CreateJob)
		api.GET("/jobs/:id", jobs.GetJob)
		api.PUT("/jobs/:id/finalize", jobs.FinalizeJob)

		api.GET("/objectives/:job_id", objectives.ListObjectives)
		api.POST("/objectives", objectives.CreateObjective)
		api.PUT("/objectives/:id", objectives.UpdateObjective)

		api.GET("/parts", parts.ListParts)
		api.POST("/parts", parts.CreatePart)
		api.PUT("/parts/:id", parts.UpdatePart)
		api.DELETE("/parts/:id", parts.DeletePart)

		api.GET("/part_requests", partRequests.ListPartRequests)
		api.POST("/part_requests", partRequests.CreatePartRequest)

		api.GET("/notifications/:user_id", notifications.ListNotifications)
		api.PUT("/notifications/:id/read", notifications.MarkAsRead)

		finalization := api.Group("/job_finalization_requests")
		{
			finalization.GET("", finalizations.ListRequests)
			finalization.POST("", finalizations.CreateRequest)
			finalization.PUT("/:id/approve", finalizations.ApproveRequest)
			finalization.PUT("/:id/reject", finalizations.RejectRequest)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		utils.RespondError(c, http.StatusNotFound, "route not found")
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
