package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetPeriod represents one accounting window for one user's budgets.
// At most one period per user is open (IsActive true, EndDate nil) at a
// time. Totals are written only when the period is closed.
type BudgetPeriod struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;index" json:"user_id"`
	StartDate  time.Time       `gorm:"not null" json:"start_date"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	IsActive   bool            `gorm:"default:true;index" json:"is_active"`
	TotalSpent decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"total_spent"`
	TotalSaved decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"total_saved"`
}
