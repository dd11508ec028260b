// File: medagenda/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medagenda/config"
	"medagenda/database"
	appointmentRepo "medagenda/database/repository/appointment"
	"medagenda/handlers"
	"medagenda/middleware"
	"medagenda/routes"
	"medagenda/services/appointment"
	"medagenda/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RateLimitMiddleware())

	// Repository.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	if err := apptRepo.EnsureIndexes(); err != nil {
		logger.Warn("main: failed to ensure appointment indexes", zap.Error(err))
	}

	// Service.
	apptService := &appointment.DefaultAppointmentService{
		Repo:  apptRepo,
		Cache: utils.GetCacheClient(),
	}
	apptHandler := handlers.NewAppointmentHandler(apptService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		CreateAppointmentHandler:  apptHandler.CreateAppointmentHandler,
		ListAppointmentsHandler:   apptHandler.ListAppointmentsHandler,
		GetAppointmentByIDHandler: apptHandler.GetAppointmentByIDHandler,
		UpdateAppointmentHandler:  apptHandler.UpdateAppointmentHandler,
		DeleteAppointmentHandler:  apptHandler.DeleteAppointmentHandler,
		CheckConflictsHandler:     apptHandler.CheckConflictsHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "5000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
