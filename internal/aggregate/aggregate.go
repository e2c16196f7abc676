// Package aggregate computes net budget spend over a transaction window.
//
// Spend is a pure function of its inputs: no storage access, no side
// effects, safe to call concurrently.
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"fiskal/internal/dates"
	"fiskal/internal/models"
	"fiskal/internal/money"
)

// Result holds net spend for a window: the rounded total and the
// per-category breakdown it was summed from.
type Result struct {
	TotalSpent  decimal.Decimal            `json:"total_spent"`
	PerCategory map[string]decimal.Decimal `json:"per_category"`
}

// Spend filters transactions to the inclusive [start, end] window and the
// given category set, excludes transfer-like rows, and nets expenses
// against incomes per category. Income tagged with a budget category
// offsets spend (refunds). The total is rounded half-up to two places
// once, after summing, so per-row rounding cannot accumulate drift.
//
// Empty inputs yield a zero total and an empty breakdown, not an error.
func Spend(transactions []models.Transaction, categories []string, start, end time.Time) Result {
	result := Result{
		TotalSpent:  decimal.Zero,
		PerCategory: make(map[string]decimal.Decimal),
	}

	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	for i := range transactions {
		tx := &transactions[i]
		if tx.IsTransferLike() {
			continue
		}
		if tx.Type != models.TransactionTypeExpense && tx.Type != models.TransactionTypeIncome {
			continue
		}
		if !wanted[tx.Category] {
			continue
		}
		if !dates.InRange(tx.Date, start, end) {
			continue
		}

		net := result.PerCategory[tx.Category]
		if tx.Type == models.TransactionTypeExpense {
			net = net.Add(tx.Amount)
		} else {
			net = net.Sub(tx.Amount)
		}
		result.PerCategory[tx.Category] = net
	}

	total := decimal.Zero
	for category, net := range result.PerCategory {
		total = total.Add(net)
		result.PerCategory[category] = money.Round2(net)
	}
	result.TotalSpent = money.Round2(total)

	return result
}
