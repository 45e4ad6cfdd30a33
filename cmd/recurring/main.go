// Command recurring runs one recurring expense scan against the database and
// exits. It exits with status 2 when any schedule failed to materialize.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"budgettracker/internal/config"
	"budgettracker/internal/database"
	"budgettracker/internal/events"
	"budgettracker/internal/logger"
	"budgettracker/internal/repository"
	"budgettracker/internal/services"
)

const exitPartialFailure = 2

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	userID := flag.String("user", "", "only scan schedules of this user id")
	at := flag.String("at", "", "scan as of this RFC3339 time instead of now")
	flag.Parse()

	result, err := run(*userID, *at)
	if err != nil {
		logger.Get().Fatalf("Recurring scan error: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Get().Errorw("failed to write result", "error", err)
	}

	if result.HasFailures() {
		logger.Sync()
		os.Exit(exitPartialFailure)
	}
}

func run(userID, at string) (*services.BatchResult, error) {
	now := time.Now()
	if at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return nil, fmt.Errorf("invalid -at value: %w", err)
		}
		now = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("failed to connect event publisher: %w", err)
	}
	defer publisher.Close()

	svc := services.NewRecurringExpenseService(
		repository.NewGormStore(dbManager.DB()),
		services.WithPublisher(publisher),
	)

	ctx := context.Background()
	if userID != "" {
		return svc.RunScheduledScanForUser(ctx, userID, now)
	}
	return svc.RunScheduledScan(ctx, now)
}
