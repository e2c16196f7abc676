package integration

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fiskal/internal/handlers"
	"fiskal/internal/logger"
	"fiskal/internal/middleware"
	"fiskal/internal/models"
	"fiskal/internal/services"
	"fiskal/internal/store"
	"fiskal/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Account{},
		&models.Transaction{},
		&models.Budget{},
		&models.BudgetPeriod{},
		&models.RecurringSeries{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	dataPort := store.New(db)
	auditService := services.NewAuditService(db)
	accountService := services.NewAccountService(db)
	transactionService := services.NewTransactionService(db, accountService)
	budgetService := services.NewBudgetService(db, time.UTC)
	seriesService := services.NewSeriesService(db, accountService)
	periodService := services.NewPeriodService(dataPort, auditService, time.UTC)
	recurringService := services.NewRecurringService(dataPort, auditService)

	// Handlers
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	seriesHandler := handlers.NewSeriesHandler(seriesService, auditService)
	periodHandler := handlers.NewPeriodHandler(periodService, auditService)
	recurringHandler := handlers.NewRecurringHandler(recurringService, seriesService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity())

	periods := v1.Group("/periods")
	periods.POST("/start", periodHandler.StartPeriod)
	periods.POST("/close", periodHandler.ClosePeriod)
	periods.GET("", periodHandler.ListPeriods)
	periods.GET("/active", periodHandler.GetActivePeriod)

	recurring := v1.Group("/recurring")
	recurring.POST("/run", recurringHandler.Run)
	recurring.GET("/missed", recurringHandler.GetMissed)
	recurring.GET("/:id/reconciliation", recurringHandler.GetReconciliation)

	series := v1.Group("/series")
	series.POST("", seriesHandler.CreateSeries)
	series.GET("", seriesHandler.GetSeries)
	series.GET("/:id", seriesHandler.GetSeriesByID)
	series.PUT("/:id", seriesHandler.UpdateSeries)
	series.DELETE("/:id", seriesHandler.DeactivateSeries)

	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/transfer", transactionHandler.CreateTransfer)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/spend", budgetHandler.GetBudgetSpend)

	accounts := v1.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router as the given user.
func (app *testApp) request(method, path, body, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.IdentityHeader, userID)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// seedUser creates a user row and returns its id. Identity is asserted
// by the gateway in production, so tests just mint a row directly.
func (app *testApp) seedUser(t *testing.T) string {
	t.Helper()

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", dbCounter.Add(1)),
		IsActive: true,
	}
	if err := app.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user.ID
}

// createAccount creates an account over the API and returns its id.
func (app *testApp) createAccount(t *testing.T, userID string) string {
	t.Helper()

	rec := app.request("POST", "/api/v1/accounts",
		`{"name":"Checking","currency":"USD","initial_balance":"1000"}`, userID)
	if rec.Code != 201 {
		t.Fatalf("create account failed: %d %s", rec.Code, rec.Body.String())
	}
	account := parseJSON(t, rec)["account"].(map[string]interface{})
	return account["id"].(string)
}
