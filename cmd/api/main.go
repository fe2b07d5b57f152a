package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"stockstalk/internal/config"
	"stockstalk/internal/database"
	"stockstalk/internal/forecast"
	"stockstalk/internal/logger"
	"stockstalk/internal/marketdata"
	"stockstalk/internal/server"
	"stockstalk/internal/services"
	"stockstalk/internal/validator"
)

// @title           Stockstalk API
// @version         1.0
// @description     Stock tracking API: symbol search, detail refresh, price prediction and watchlists.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	db := dbManager.DB()
	gateway := marketdata.New(appConfig)
	predictor := forecast.NewPredictor(forecast.DefaultConfig())

	router := server.NewRouter(db, server.Services{
		Users:      services.NewUserService(db),
		Stocks:     services.NewStockService(db, gateway, predictor, appConfig.HistoryDays),
		Watchlists: services.NewWatchlistService(db),
		Audit:      services.NewAuditService(db),
	}, server.Options{
		CORSAllowedOrigins: appConfig.CORSAllowedOrigins,
		RequestLogging:     true,
		Swagger:            appConfig.Env != "production",
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      appConfig.RequestTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Starting stockstalk API",
			"port", appConfig.Port,
			"provider", gateway.Name(),
			"db_driver", appConfig.DBDriver,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-sigCh:
		log.Infow("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
