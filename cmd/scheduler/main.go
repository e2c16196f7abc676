package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fiskal/internal/config"
	"fiskal/internal/database"
	"fiskal/internal/logger"
	"fiskal/internal/services"
	"fiskal/internal/store"
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

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	db := dbManager.DB()
	dataPort := store.New(db)
	auditService := services.NewAuditService(db)
	recurringService := services.NewRecurringService(dataPort, auditService)

	opts := services.RunOptions{
		DryRun:         appConfig.SchedulerDryRun,
		MaxDaysOverdue: appConfig.RecurringMaxOverdueDays,
	}

	log.Infow("recurring scheduler configured",
		"interval", appConfig.SchedulerInterval,
		"dry_run", opts.DryRun,
		"max_days_overdue", opts.MaxDaysOverdue,
	)

	runBatch := func(now time.Time) {
		result, err := recurringService.RunDue(now, opts)
		if err != nil {
			log.Errorw("recurring batch failed", "error", err)
			return
		}
		log.Infow("recurring batch done",
			"processed", result.Summary.TotalProcessed,
			"succeeded", result.Summary.SuccessfulExecutions,
			"failed", result.Summary.FailedExecutions,
			"total_amount", result.Summary.TotalAmount,
		)
	}

	// Fire once on startup, then on every tick.
	runBatch(time.Now())

	ticker := time.NewTicker(appConfig.SchedulerInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case now := <-ticker.C:
			runBatch(now)
		case sig := <-quit:
			log.Infow("shutting down scheduler", "signal", sig.String())
			return nil
		}
	}
}
