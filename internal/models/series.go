package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency represents how often a recurring series fires
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyYearly   Frequency = "yearly"
)

// RecurringSeries is a template that periodically materializes concrete
// transactions. DueDate only ever moves forward, one frequency interval
// per execution, and TotalExecutions matches len(TransactionIDs) after
// every successful fire.
type RecurringSeries struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID       string          `gorm:"type:uuid;not null" json:"account_id"`
	Description     string          `gorm:"not null" json:"description"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Type            TransactionType `gorm:"not null" json:"type"`
	Category        string          `gorm:"not null" json:"category"`
	Frequency       Frequency       `gorm:"not null" json:"frequency"`
	DueDate         time.Time       `gorm:"not null;index" json:"due_date"`
	IsActive        bool            `gorm:"default:true;index" json:"is_active"`
	TotalExecutions int             `gorm:"default:0" json:"total_executions"`
	TransactionIDs  StringList      `gorm:"type:text" json:"transaction_ids"`
}
