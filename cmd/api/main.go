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

	"budgettracker/internal/config"
	"budgettracker/internal/database"
	"budgettracker/internal/events"
	"budgettracker/internal/logger"
	"budgettracker/internal/repository"
	"budgettracker/internal/scheduler"
	"budgettracker/internal/server"
	"budgettracker/internal/services"
	"budgettracker/internal/validator"
)

// @title           Budget Tracker API
// @version         1.0
// @description     Budget tracker with categories, expenses and a recurrence engine that materializes recurring expenses.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const (
	shutdownTimeout = 15 * time.Second
	scanTimeout     = 10 * time.Minute
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return fmt.Errorf("failed to connect event publisher: %w", err)
	}
	defer publisher.Close()

	validator.Register()

	db := dbManager.DB()
	recurringService := services.NewRecurringExpenseService(
		repository.NewGormStore(db),
		services.WithPublisher(publisher),
	)

	router := server.NewRouter(cfg, server.Services{
		Users:      services.NewUserService(db),
		Categories: services.NewCategoryService(db),
		Expenses:   services.NewExpenseService(db),
		Recurring:  recurringService,
		Audit:      services.NewAuditService(db),
	})

	if cfg.RecurringSchedulerEnabled {
		sched, err := scheduler.New(cfg.RecurringSchedule, recurringService, scheduler.WithTimeout(scanTimeout))
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			sched.Stop(ctx)
		}()
	} else {
		log.Info("Recurring scheduler disabled")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting budget tracker API on port %s", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
