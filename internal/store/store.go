// Package store implements the services.DataPort on GORM. It is the only
// place core code meets a concrete database; errors bubble up raw and the
// services wrap them as persistence failures.
package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fiskal/internal/models"
)

// Store is the GORM-backed data port.
type Store struct {
	db *gorm.DB
}

// New creates a Store over an open GORM handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// LoadActiveSeries returns every active recurring series across users.
func (s *Store) LoadActiveSeries() ([]models.RecurringSeries, error) {
	var series []models.RecurringSeries
	if err := s.db.Where("is_active = ?", true).Order("due_date ASC").Find(&series).Error; err != nil {
		return nil, err
	}
	return series, nil
}

// LoadSeriesByID returns a series or (nil, nil) when absent.
func (s *Store) LoadSeriesByID(id string) (*models.RecurringSeries, error) {
	var series models.RecurringSeries
	if err := s.db.Where("id = ?", id).First(&series).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &series, nil
}

// LoadTransactionsByUser returns a user's transactions, optionally
// restricted to an inclusive date range.
func (s *Store) LoadTransactionsByUser(userID string, from, to *time.Time) ([]models.Transaction, error) {
	q := s.db.Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}

	var transactions []models.Transaction
	if err := q.Order("date ASC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// LoadTransactionsBySeries returns all transactions tagged with the
// series id, the sole link reconciliation relies on.
func (s *Store) LoadTransactionsBySeries(seriesID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("recurring_series_id = ?", seriesID).Order("date ASC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// LoadBudgetsByUser returns all budgets for a user.
func (s *Store) LoadBudgetsByUser(userID string) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Where("user_id = ?", userID).Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

// LoadActivePeriod returns the user's open period or (nil, nil).
func (s *Store) LoadActivePeriod(userID string) (*models.BudgetPeriod, error) {
	var period models.BudgetPeriod
	err := s.db.Where("user_id = ? AND is_active = ? AND end_date IS NULL", userID, true).
		First(&period).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}

// LoadLatestClosedPeriod returns the most recently closed period for the
// user, or (nil, nil) when none has been closed yet.
func (s *Store) LoadLatestClosedPeriod(userID string) (*models.BudgetPeriod, error) {
	var period models.BudgetPeriod
	err := s.db.Where("user_id = ? AND is_active = ? AND end_date IS NOT NULL", userID, false).
		Order("end_date DESC").
		First(&period).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}

// LoadPeriodsByUser returns all periods for a user, newest first.
func (s *Store) LoadPeriodsByUser(userID string) ([]models.BudgetPeriod, error) {
	var periods []models.BudgetPeriod
	if err := s.db.Where("user_id = ?", userID).Order("start_date DESC").Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

// CreateTransaction persists a transaction; the UUIDv7 hook assigns the id.
func (s *Store) CreateTransaction(tx *models.Transaction) error {
	return s.db.Create(tx).Error
}

// CreatePeriod persists a new budget period.
func (s *Store) CreatePeriod(period *models.BudgetPeriod) error {
	return s.db.Create(period).Error
}

// UpdatePeriod applies a field patch to a period.
func (s *Store) UpdatePeriod(id string, patch map[string]interface{}) error {
	return s.db.Model(&models.BudgetPeriod{}).Where("id = ?", id).Updates(patch).Error
}

// UpdateSeries applies a field patch to a recurring series.
func (s *Store) UpdateSeries(id string, patch map[string]interface{}) error {
	return s.db.Model(&models.RecurringSeries{}).Where("id = ?", id).Updates(patch).Error
}
