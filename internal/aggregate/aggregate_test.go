package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fiskal/internal/models"
)

var (
	windowStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2025, 1, 31, 23, 59, 59, 999999999, time.UTC)
)

func tx(txType models.TransactionType, amount, category string, date time.Time) models.Transaction {
	return models.Transaction{
		Type:     txType,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     date,
	}
}

func TestSpend(t *testing.T) {
	mid := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	t.Run("empty_inputs", func(t *testing.T) {
		result := Spend(nil, nil, windowStart, windowEnd)
		if !result.TotalSpent.IsZero() {
			t.Errorf("expected zero total, got %s", result.TotalSpent)
		}
		if len(result.PerCategory) != 0 {
			t.Errorf("expected empty breakdown, got %v", result.PerCategory)
		}
	})

	t.Run("income_offsets_expense", func(t *testing.T) {
		// $100 expense and $20 refund, both groceries: net $80.
		transactions := []models.Transaction{
			tx(models.TransactionTypeExpense, "100", "groceries", mid),
			tx(models.TransactionTypeIncome, "20", "groceries", mid),
		}
		result := Spend(transactions, []string{"groceries"}, windowStart, windowEnd)
		if want := decimal.RequireFromString("80"); !result.TotalSpent.Equal(want) {
			t.Errorf("total = %s, want %s", result.TotalSpent, want)
		}
		if net := result.PerCategory["groceries"]; !net.Equal(decimal.RequireFromString("80")) {
			t.Errorf("groceries net = %s, want 80", net)
		}
	})

	t.Run("excludes_transfer_type", func(t *testing.T) {
		transactions := []models.Transaction{
			tx(models.TransactionTypeTransfer, "500", "groceries", mid),
			tx(models.TransactionTypeExpense, "50", "groceries", mid),
		}
		result := Spend(transactions, []string{"groceries"}, windowStart, windowEnd)
		if want := decimal.RequireFromString("50"); !result.TotalSpent.Equal(want) {
			t.Errorf("total = %s, want %s", result.TotalSpent, want)
		}
	})

	t.Run("excludes_transfer_category", func(t *testing.T) {
		transactions := []models.Transaction{
			tx(models.TransactionTypeExpense, "500", models.CategoryTransfer, mid),
		}
		result := Spend(transactions, []string{models.CategoryTransfer}, windowStart, windowEnd)
		if !result.TotalSpent.IsZero() {
			t.Errorf("transfer category must not count, got %s", result.TotalSpent)
		}
	})

	t.Run("excludes_to_account_marker", func(t *testing.T) {
		toAccount := "acct-2"
		moved := tx(models.TransactionTypeExpense, "500", "groceries", mid)
		moved.ToAccountID = &toAccount
		result := Spend([]models.Transaction{moved}, []string{"groceries"}, windowStart, windowEnd)
		if !result.TotalSpent.IsZero() {
			t.Errorf("to_account row must not count, got %s", result.TotalSpent)
		}
	})

	t.Run("excludes_other_categories", func(t *testing.T) {
		transactions := []models.Transaction{
			tx(models.TransactionTypeExpense, "40", "rent", mid),
			tx(models.TransactionTypeExpense, "60", "groceries", mid),
		}
		result := Spend(transactions, []string{"groceries"}, windowStart, windowEnd)
		if want := decimal.RequireFromString("60"); !result.TotalSpent.Equal(want) {
			t.Errorf("total = %s, want %s", result.TotalSpent, want)
		}
		if _, ok := result.PerCategory["rent"]; ok {
			t.Error("rent must not appear in the breakdown")
		}
	})

	t.Run("window_bounds_inclusive", func(t *testing.T) {
		transactions := []models.Transaction{
			tx(models.TransactionTypeExpense, "10", "groceries", windowStart),
			tx(models.TransactionTypeExpense, "20", "groceries", windowEnd),
			tx(models.TransactionTypeExpense, "99", "groceries", windowEnd.Add(time.Nanosecond)),
		}
		result := Spend(transactions, []string{"groceries"}, windowStart, windowEnd)
		if want := decimal.RequireFromString("30"); !result.TotalSpent.Equal(want) {
			t.Errorf("total = %s, want %s", result.TotalSpent, want)
		}
	})

	t.Run("rounds_once_on_total", func(t *testing.T) {
		transactions := []models.Transaction{
			tx(models.TransactionTypeExpense, "0.333", "a", mid),
			tx(models.TransactionTypeExpense, "0.333", "b", mid),
			tx(models.TransactionTypeExpense, "0.334", "c", mid),
		}
		result := Spend(transactions, []string{"a", "b", "c"}, windowStart, windowEnd)
		if want := decimal.RequireFromString("1.00"); !result.TotalSpent.Equal(want) {
			t.Errorf("total = %s, want %s", result.TotalSpent, want)
		}
	})

	t.Run("negative_net_allowed_per_category", func(t *testing.T) {
		// A refund larger than the spend leaves a negative category net.
		transactions := []models.Transaction{
			tx(models.TransactionTypeExpense, "10", "groceries", mid),
			tx(models.TransactionTypeIncome, "25", "groceries", mid),
		}
		result := Spend(transactions, []string{"groceries"}, windowStart, windowEnd)
		if want := decimal.RequireFromString("-15"); !result.TotalSpent.Equal(want) {
			t.Errorf("total = %s, want %s", result.TotalSpent, want)
		}
	})
}
