package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fiskal/internal/aggregate"
	"fiskal/internal/models"
	"fiskal/internal/pagination"
)

// DataPort is the narrow storage interface the period lifecycle manager
// and the recurring execution engine operate through. The core never
// touches a concrete store; the host supplies an implementation and
// persists whatever the core hands back.
//
// Load methods return (nil, nil) when the entity does not exist; the
// services decide whether absence is an error.
type DataPort interface {
	LoadActiveSeries() ([]models.RecurringSeries, error)
	LoadSeriesByID(id string) (*models.RecurringSeries, error)
	LoadTransactionsByUser(userID string, from, to *time.Time) ([]models.Transaction, error)
	LoadTransactionsBySeries(seriesID string) ([]models.Transaction, error)
	LoadBudgetsByUser(userID string) ([]models.Budget, error)
	LoadActivePeriod(userID string) (*models.BudgetPeriod, error)
	LoadLatestClosedPeriod(userID string) (*models.BudgetPeriod, error)
	LoadPeriodsByUser(userID string) ([]models.BudgetPeriod, error)

	CreateTransaction(tx *models.Transaction) error
	CreatePeriod(period *models.BudgetPeriod) error
	UpdatePeriod(id string, patch map[string]interface{}) error
	UpdateSeries(id string, patch map[string]interface{}) error
}

// PeriodServicer defines the contract for the budget period lifecycle.
type PeriodServicer interface {
	StartPeriod(userID string, startDate time.Time) (*models.BudgetPeriod, error)
	ClosePeriod(userID string, endDate time.Time) (*models.BudgetPeriod, error)
	GetActivePeriod(userID string) (*models.BudgetPeriod, error)
	ListPeriods(userID string) ([]models.BudgetPeriod, error)
}

// DefaultMaxDaysOverdue bounds how far behind a series may be and still
// fire. Series older than this are silently skipped so a long outage
// cannot trigger a runaway backfill.
const DefaultMaxDaysOverdue = 7

// RunOptions controls a recurring execution batch.
type RunOptions struct {
	// DryRun simulates the batch: counters in the result move, nothing
	// is persisted.
	DryRun bool
	// MaxDaysOverdue overrides DefaultMaxDaysOverdue; zero means default.
	MaxDaysOverdue int
}

// FailureEntry records a single series that could not execute. Failures
// never abort the batch.
type FailureEntry struct {
	SeriesID   string `json:"series_id"`
	SeriesName string `json:"series_name"`
	Error      string `json:"error"`
}

// ExecutionSummary aggregates a recurring batch.
type ExecutionSummary struct {
	TotalProcessed       int             `json:"total_processed"`
	SuccessfulExecutions int             `json:"successful_executions"`
	FailedExecutions     int             `json:"failed_executions"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
}

// ExecutionResult is the outcome of one recurring batch. In dry-run mode
// Executed holds the would-be transactions without IDs.
type ExecutionResult struct {
	Executed []models.Transaction `json:"executed"`
	Failed   []FailureEntry       `json:"failed"`
	Summary  ExecutionSummary     `json:"summary"`
}

// ReconciliationReport compares a series' execution counter against the
// transactions actually persisted under its tag. It is always computed
// from the transaction log, never trusted from the counter alone.
type ReconciliationReport struct {
	SeriesID           string          `json:"series_id"`
	Description        string          `json:"description"`
	ExpectedExecutions int             `json:"expected_executions"`
	ActualExecutions   int             `json:"actual_executions"`
	MissedPayments     int             `json:"missed_payments"`
	ExpectedTotal      decimal.Decimal `json:"expected_total"`
	ActualTotal        decimal.Decimal `json:"actual_total"`
	SuccessRate        float64         `json:"success_rate"`
}

// MissedSeries pairs a series with its missed execution count.
type MissedSeries struct {
	Series      models.RecurringSeries `json:"series"`
	MissedCount int                    `json:"missed_count"`
}

// RecurringServicer defines the contract for the recurring execution engine.
type RecurringServicer interface {
	RunDue(now time.Time, opts RunOptions) (*ExecutionResult, error)
	GetReconciliation(seriesID string) (*ReconciliationReport, error)
	FindMissedExecutions() ([]MissedSeries, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID, name, description, currency string, initialBalance decimal.Decimal) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
	Category *string
	SeriesID *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID, accountID string, transactionType models.TransactionType, amount decimal.Decimal, category, description string, date time.Time) (*models.Transaction, error)
	CreateTransfer(userID, fromAccountID, toAccountID string, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BudgetSpend reports aggregated spend for one budget over a window.
type BudgetSpend struct {
	BudgetID string           `json:"budget_id"`
	Budgeted decimal.Decimal  `json:"budgeted"`
	Window   [2]time.Time     `json:"window"`
	Spend    aggregate.Result `json:"spend"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, groupID, description string, amount decimal.Decimal, budgetType models.BudgetType, categories []string) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID, description string, amount *decimal.Decimal, budgetType *models.BudgetType, categories []string) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetSpend(userID, budgetID string, start, end time.Time) (*BudgetSpend, error)
}

// SeriesServicer defines the contract for recurring series management.
// Series are created and edited by users; only the execution engine
// advances their counters.
type SeriesServicer interface {
	CreateSeries(userID, accountID, description string, amount decimal.Decimal, transactionType models.TransactionType, category string, frequency models.Frequency, dueDate time.Time) (*models.RecurringSeries, error)
	GetUserSeries(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringSeries], error)
	GetSeriesByID(userID, seriesID string) (*models.RecurringSeries, error)
	UpdateSeries(userID, seriesID, description string, amount *decimal.Decimal, dueDate *time.Time) (*models.RecurringSeries, error)
	DeactivateSeries(userID, seriesID string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
