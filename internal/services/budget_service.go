package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fiskal/internal/aggregate"
	"fiskal/internal/dates"
	apperrors "fiskal/internal/errors"
	"fiskal/internal/models"
	"fiskal/internal/pagination"
)

// budgetService handles budget-related business logic. Budgets feed
// period aggregation as read-only inputs; this service owns only their
// CRUD lifecycle.
type budgetService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, loc *time.Location) BudgetServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &budgetService{db: db, loc: loc}
}

func validateCategories(categories []string) error {
	if len(categories) == 0 {
		return apperrors.ErrEmptyCategorySet
	}
	for _, c := range categories {
		if c == models.CategoryTransfer {
			return apperrors.ErrReservedCategory
		}
		if c == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "empty category key")
		}
	}
	return nil
}

// CreateBudget creates a new spending envelope over a category set.
func (s *budgetService) CreateBudget(userID, groupID, description string, amount decimal.Decimal, budgetType models.BudgetType, categories []string) (*models.Budget, error) {
	if err := validateCategories(categories); err != nil {
		return nil, err
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}

	budget := &models.Budget{
		UserID:      userID,
		GroupID:     groupID,
		Description: description,
		Amount:      amount,
		Type:        budgetType,
		Categories:  models.StringList(categories),
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// GetUserBudgets returns a paginated list of the user's budgets.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's fields.
func (s *budgetService) UpdateBudget(userID, budgetID, description string, amount *decimal.Decimal, budgetType *models.BudgetType, categories []string) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if description != "" {
		updates["description"] = description
	}
	if amount != nil {
		if amount.IsNegative() || amount.IsZero() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
		}
		updates["amount"] = *amount
	}
	if budgetType != nil {
		updates["type"] = *budgetType
	}
	if categories != nil {
		if err := validateCategories(categories); err != nil {
			return nil, err
		}
		updates["categories"] = models.StringList(categories)
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetSpend aggregates spend for one budget over [start, end],
// normalized to whole days.
func (s *budgetService) GetBudgetSpend(userID, budgetID string, start, end time.Time) (*BudgetSpend, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	windowStart := dates.StartOfDay(start, s.loc)
	windowEnd := dates.EndOfDay(end, s.loc)
	if windowEnd.Before(windowStart) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidPeriodRange, "end precedes start")
	}

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date BETWEEN ? AND ?", userID, windowStart, windowEnd).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &BudgetSpend{
		BudgetID: budget.ID,
		Budgeted: budget.Amount,
		Window:   [2]time.Time{windowStart, windowEnd},
		Spend:    aggregate.Spend(transactions, budget.Categories, windowStart, windowEnd),
	}, nil
}
