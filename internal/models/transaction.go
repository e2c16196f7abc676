package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// CategoryTransfer is the reserved category assigned to transfer legs.
// Transactions carrying it never count toward budget spend.
const CategoryTransfer = "transfer"

// Transaction represents a financial transaction in the system.
// Amount is always a non-negative magnitude; Type carries the direction.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID   string          `gorm:"type:uuid;not null" json:"account_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Category    string          `gorm:"not null" json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	// For transfers
	ToAccountID *string `gorm:"type:uuid" json:"to_account_id,omitempty"`

	// Set when the transaction was materialized from a recurring series;
	// the sole link used by reconciliation.
	RecurringSeriesID *string `gorm:"type:uuid;index" json:"recurring_series_id,omitempty"`

	// Relationships
	Account   Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	ToAccount *Account `gorm:"foreignKey:ToAccountID" json:"to_account,omitempty"`
}

// IsTransferLike reports whether the transaction moves money between the
// user's own accounts rather than representing real income or expense.
// Any one of the three markers is sufficient.
func (t *Transaction) IsTransferLike() bool {
	return t.Type == TransactionTypeTransfer ||
		t.Category == CategoryTransfer ||
		t.ToAccountID != nil
}
