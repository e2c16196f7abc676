package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fiskal/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Balance:  decimal.Zero,
		Currency: "USD",
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestTransaction creates a transaction with the given shape.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID string, txType models.TransactionType, amount, category string, date time.Time) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:    userID,
		AccountID: accountID,
		Type:      txType,
		Amount:    decimal.RequireFromString(amount),
		Category:  category,
		Date:      date,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestBudget creates a budget over the given categories.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, amount string, categories ...string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:      userID,
		Description: fmt.Sprintf("Test Budget %d", nextID()),
		Amount:      decimal.RequireFromString(amount),
		Type:        models.BudgetTypeMonthly,
		Categories:  models.StringList(categories),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestPeriod creates an active budget period starting at start.
func CreateTestPeriod(t *testing.T, db *gorm.DB, userID string, start time.Time) *models.BudgetPeriod {
	t.Helper()

	period := &models.BudgetPeriod{
		UserID:     userID,
		StartDate:  start,
		IsActive:   true,
		TotalSpent: decimal.Zero,
		TotalSaved: decimal.Zero,
	}
	if err := db.Create(period).Error; err != nil {
		t.Fatalf("failed to create test period: %v", err)
	}
	return period
}

// CreateTestSeries creates an active recurring series due at dueDate.
func CreateTestSeries(t *testing.T, db *gorm.DB, userID, accountID, amount string, frequency models.Frequency, dueDate time.Time) *models.RecurringSeries {
	t.Helper()

	series := &models.RecurringSeries{
		UserID:         userID,
		AccountID:      accountID,
		Description:    fmt.Sprintf("Test Series %d", nextID()),
		Amount:         decimal.RequireFromString(amount),
		Type:           models.TransactionTypeExpense,
		Category:       "subscriptions",
		Frequency:      frequency,
		DueDate:        dueDate,
		IsActive:       true,
		TransactionIDs: models.StringList{},
	}
	if err := db.Create(series).Error; err != nil {
		t.Fatalf("failed to create test series: %v", err)
	}
	return series
}
