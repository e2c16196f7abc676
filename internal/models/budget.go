package models

import "github.com/shopspring/decimal"

// BudgetType represents the target cadence of a budget envelope
type BudgetType string

const (
	BudgetTypeMonthly  BudgetType = "monthly"
	BudgetTypeAnnually BudgetType = "annually"
)

// Budget represents a spending envelope over a set of categories.
// Budgets are read-only inputs to period aggregation; the lifecycle
// manager never mutates them.
type Budget struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	GroupID     string          `gorm:"type:uuid" json:"group_id"`
	Description string          `gorm:"not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Type        BudgetType      `gorm:"not null" json:"type"`
	Categories  StringList      `gorm:"type:text;not null" json:"categories"`
}
