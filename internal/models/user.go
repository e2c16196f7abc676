package models

// User represents the user model in the database. Authentication lives
// upstream; the API only needs the identity row for ownership checks.
type User struct {
	Base
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`

	Accounts     []Account         `gorm:"foreignKey:UserID" json:"accounts,omitempty"`
	Budgets      []Budget          `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
	Periods      []BudgetPeriod    `gorm:"foreignKey:UserID" json:"periods,omitempty"`
	Transactions []Transaction     `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Series       []RecurringSeries `gorm:"foreignKey:UserID" json:"series,omitempty"`
}
