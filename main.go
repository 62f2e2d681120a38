package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/kendall-kelly/garage-jobs-api/config"
	"github.com/kendall-kelly/garage-jobs-api/router"
	"github.com/kendall-kelly/garage-jobs-api/services"
	"github.com/kendall-kelly/garage-jobs-api/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	logger := utils.InitLogger(cfg.LogLevel, cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.WithField("env", cfg.GoEnv).Info("Starting Garage Jobs API server...")

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			logger.WithError(err).Error("Failed to close database")
		}
	}()

	if err := config.Migrate(db); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}
	logger.Info("Database migration completed successfully")

	push := services.NewExpoPushService(cfg.PushURL, cfg.PushTimeout)
	notifier := services.NewNotifier(db, push, logger, services.NotifierOptions{
		SendTimeout: cfg.PushTimeout,
		Concurrency: cfg.PushConcurrency,
	})

	engine := router.Setup(router.Deps{
		DB:               db,
		Notifier:         notifier,
		Logger:           logger,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		logger.WithError(err).Fatal("Failed to listen")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("Server is running on http://localhost%s", cfg.Addr())
	if err := serve(ctx, newServer(engine), listener, logger); err != nil {
		logger.WithError(err).Error("Server stopped with error")
	}

	// Let pending pushes finish before the pool closes
	notifier.Wait()
	logger.Info("Server stopped")
}

func newServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

// serve runs srv on listener until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, srv *http.Server, listener net.Listener, logger *log.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	return nil
}
