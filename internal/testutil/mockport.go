package testutil

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fiskal/internal/models"
)

// MockPort is an in-memory data port for fault-injection tests. Every
// method can be overridden to fail; unset overrides fall through to the
// in-memory maps. It satisfies services.DataPort structurally.
type MockPort struct {
	Series       map[string]*models.RecurringSeries
	Transactions []models.Transaction
	Budgets      []models.Budget
	Periods      map[string]*models.BudgetPeriod

	// Error overrides. When set, the corresponding method fails.
	LoadActiveSeriesErr  error
	CreateTransactionErr error
	UpdateSeriesErr      error
	UpdatePeriodErr      error
	CreatePeriodErr      error

	// CreateTransactionHook runs before a transaction is stored; panics
	// propagate to exercise the engine's isolation.
	CreateTransactionHook func(tx *models.Transaction)

	nextID int
}

// NewMockPort creates an empty MockPort.
func NewMockPort() *MockPort {
	return &MockPort{
		Series:  make(map[string]*models.RecurringSeries),
		Periods: make(map[string]*models.BudgetPeriod),
	}
}

// AddSeries registers a series, assigning an id when missing.
func (m *MockPort) AddSeries(series *models.RecurringSeries) *models.RecurringSeries {
	if series.ID == "" {
		m.nextID++
		series.ID = fmt.Sprintf("series-%d", m.nextID)
	}
	m.Series[series.ID] = series
	return series
}

// AddPeriod registers a period, assigning an id when missing.
func (m *MockPort) AddPeriod(period *models.BudgetPeriod) *models.BudgetPeriod {
	if period.ID == "" {
		m.nextID++
		period.ID = fmt.Sprintf("period-%d", m.nextID)
	}
	m.Periods[period.ID] = period
	return period
}

func (m *MockPort) LoadActiveSeries() ([]models.RecurringSeries, error) {
	if m.LoadActiveSeriesErr != nil {
		return nil, m.LoadActiveSeriesErr
	}
	var out []models.RecurringSeries
	for _, s := range m.Series {
		out = append(out, *s)
	}
	return out, nil
}

func (m *MockPort) LoadSeriesByID(id string) (*models.RecurringSeries, error) {
	s, ok := m.Series[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (m *MockPort) LoadTransactionsByUser(userID string, from, to *time.Time) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range m.Transactions {
		if tx.UserID != userID {
			continue
		}
		if from != nil && tx.Date.Before(*from) {
			continue
		}
		if to != nil && tx.Date.After(*to) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (m *MockPort) LoadTransactionsBySeries(seriesID string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range m.Transactions {
		if tx.RecurringSeriesID != nil && *tx.RecurringSeriesID == seriesID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *MockPort) LoadBudgetsByUser(userID string) ([]models.Budget, error) {
	var out []models.Budget
	for _, b := range m.Budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MockPort) LoadActivePeriod(userID string) (*models.BudgetPeriod, error) {
	for _, p := range m.Periods {
		if p.UserID == userID && p.IsActive && p.EndDate == nil {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockPort) LoadLatestClosedPeriod(userID string) (*models.BudgetPeriod, error) {
	var latest *models.BudgetPeriod
	for _, p := range m.Periods {
		if p.UserID != userID || p.IsActive || p.EndDate == nil {
			continue
		}
		if latest == nil || p.EndDate.After(*latest.EndDate) {
			latest = p
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (m *MockPort) LoadPeriodsByUser(userID string) ([]models.BudgetPeriod, error) {
	var out []models.BudgetPeriod
	for _, p := range m.Periods {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *MockPort) CreateTransaction(tx *models.Transaction) error {
	if m.CreateTransactionErr != nil {
		return m.CreateTransactionErr
	}
	if m.CreateTransactionHook != nil {
		m.CreateTransactionHook(tx)
	}
	if tx.ID == "" {
		m.nextID++
		tx.ID = fmt.Sprintf("tx-%d", m.nextID)
	}
	m.Transactions = append(m.Transactions, *tx)
	return nil
}

func (m *MockPort) CreatePeriod(period *models.BudgetPeriod) error {
	if m.CreatePeriodErr != nil {
		return m.CreatePeriodErr
	}
	m.AddPeriod(period)
	return nil
}

func (m *MockPort) UpdatePeriod(id string, patch map[string]interface{}) error {
	if m.UpdatePeriodErr != nil {
		return m.UpdatePeriodErr
	}
	period, ok := m.Periods[id]
	if !ok {
		return fmt.Errorf("period %s not found", id)
	}
	applyPeriodPatch(period, patch)
	return nil
}

func (m *MockPort) UpdateSeries(id string, patch map[string]interface{}) error {
	if m.UpdateSeriesErr != nil {
		return m.UpdateSeriesErr
	}
	series, ok := m.Series[id]
	if !ok {
		return fmt.Errorf("series %s not found", id)
	}
	applySeriesPatch(series, patch)
	return nil
}

func applyPeriodPatch(period *models.BudgetPeriod, patch map[string]interface{}) {
	for key, value := range patch {
		switch key {
		case "is_active":
			period.IsActive = value.(bool)
		case "end_date":
			t := value.(time.Time)
			period.EndDate = &t
		case "total_spent":
			period.TotalSpent = value.(decimal.Decimal)
		case "total_saved":
			period.TotalSaved = value.(decimal.Decimal)
		}
	}
}

func applySeriesPatch(series *models.RecurringSeries, patch map[string]interface{}) {
	for key, value := range patch {
		switch key {
		case "total_executions":
			series.TotalExecutions = value.(int)
		case "due_date":
			series.DueDate = value.(time.Time)
		case "transaction_ids":
			series.TransactionIDs = value.(models.StringList)
		case "is_active":
			series.IsActive = value.(bool)
		}
	}
}
