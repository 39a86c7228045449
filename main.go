package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"novacuts/config"
	"novacuts/handlers"
	"novacuts/middleware"
	"novacuts/routes"
	"novacuts/services/booking"
	"novacuts/services/intent"
	"novacuts/services/reply"
	"novacuts/services/square"
	"novacuts/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: failed to load configuration: %v", err)
	}

	logger, err := utils.NewLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("main: failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	loc, err := cfg.Location()
	if err != nil {
		logger.Sugar().Fatalf("main: invalid booking timezone: %v", err)
	}

	squareClient, err := square.NewClient(square.Options{
		Environment: cfg.SquareEnv,
		AccessToken: cfg.SquareAccessToken,
		Version:     cfg.SquareVersion,
		Timeout:     cfg.SchedulerTimeout,
	}, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize square client: %v", err)
	}

	orchestrator := booking.NewOrchestrator(squareClient, booking.Settings{
		LocationID:         cfg.SquareLocationID,
		TeamMemberID:       cfg.SquareTeamMemberID,
		ServiceVariationID: cfg.SquareServiceVariationID,
		CallTimeout:        cfg.SchedulerTimeout,
	}, logger.Named("booking"))

	smsHandler := handlers.NewSMSHandler(
		intent.NewExtractor(),
		orchestrator,
		reply.Formatter{ServiceName: cfg.ServiceName},
		func() time.Time { return time.Now().In(loc) },
	)

	handlerBundle := &handlers.HandlerBundle{
		InboundSMSHandler: smsHandler.InboundSMSHandler,
		HealthHandler:     handlers.HealthHandler,
		MetricsHandler:    handlers.MetricsHandler(),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(utils.ErrorHandler(logger))

	routes.RegisterRoutes(router, handlerBundle, routes.WebhookOptions{
		TwilioAuthToken:   cfg.TwilioAuthToken,
		PublicBaseURL:     cfg.PublicBaseURL,
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
	})

	// Start the HTTP server.
	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s (square %s, timezone %s)...", srv.Addr, cfg.SquareEnv, loc)
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
