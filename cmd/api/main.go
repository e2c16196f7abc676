package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"fiskal/internal/config"
	"fiskal/internal/database"
	"fiskal/internal/handlers"
	"fiskal/internal/logger"
	"fiskal/internal/middleware"
	"fiskal/internal/services"
	"fiskal/internal/store"
	"fiskal/internal/validator"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	dataPort := store.New(db)
	auditService := services.NewAuditService(db)
	accountService := services.NewAccountService(db)
	transactionService := services.NewTransactionService(db, accountService)
	budgetService := services.NewBudgetService(db, appConfig.Timezone)
	seriesService := services.NewSeriesService(db, accountService)
	periodService := services.NewPeriodService(dataPort, auditService, appConfig.Timezone)
	recurringService := services.NewRecurringService(dataPort, auditService)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	seriesHandler := handlers.NewSeriesHandler(seriesService, auditService)
	periodHandler := handlers.NewPeriodHandler(periodService, auditService)
	recurringHandler := handlers.NewRecurringHandler(recurringService, seriesService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group, identity required
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity())

	// Budget period lifecycle
	periods := v1.Group("/periods")
	periods.POST("/start", periodHandler.StartPeriod)
	periods.POST("/close", periodHandler.ClosePeriod)
	periods.GET("", periodHandler.ListPeriods)
	periods.GET("/active", periodHandler.GetActivePeriod)

	// Recurring execution engine
	recurring := v1.Group("/recurring")
	recurring.POST("/run", recurringHandler.Run)
	recurring.GET("/missed", recurringHandler.GetMissed)
	recurring.GET("/:id/reconciliation", recurringHandler.GetReconciliation)

	// Recurring series management
	series := v1.Group("/series")
	series.POST("", seriesHandler.CreateSeries)
	series.GET("", seriesHandler.GetSeries)
	series.GET("/:id", seriesHandler.GetSeriesByID)
	series.PUT("/:id", seriesHandler.UpdateSeries)
	series.DELETE("/:id", seriesHandler.DeactivateSeries)

	// Transaction routes
	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/transfer", transactionHandler.CreateTransfer)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes
	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/spend", budgetHandler.GetBudgetSpend)

	// Account routes
	accounts := v1.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)

	log.Infof("Starting Fiskal API server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
