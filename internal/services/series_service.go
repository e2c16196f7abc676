package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fiskal/internal/errors"
	"fiskal/internal/models"
	"fiskal/internal/pagination"
	"fiskal/internal/schedule"
)

// seriesService handles user-facing recurring series management. The
// execution engine alone mutates counters and due dates; this service
// never touches them on update.
type seriesService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewSeriesService creates a new SeriesServicer.
func NewSeriesService(db *gorm.DB, accountService AccountServicer) SeriesServicer {
	return &seriesService{db: db, accountService: accountService}
}

// CreateSeries creates a new recurring transaction template.
func (s *seriesService) CreateSeries(
	userID, accountID, description string,
	amount decimal.Decimal,
	transactionType models.TransactionType,
	category string,
	frequency models.Frequency,
	dueDate time.Time,
) (*models.RecurringSeries, error) {
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if category == "" || category == models.CategoryTransfer {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category")
	}
	// Reject unknown frequencies at the boundary rather than on first fire.
	if _, err := schedule.NextDue(dueDate, frequency); err != nil {
		return nil, err
	}

	if _, err := s.accountService.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}

	series := &models.RecurringSeries{
		UserID:          userID,
		AccountID:       accountID,
		Description:     description,
		Amount:          amount,
		Type:            transactionType,
		Category:        category,
		Frequency:       frequency,
		DueDate:         dueDate,
		IsActive:        true,
		TransactionIDs:  models.StringList{},
		TotalExecutions: 0,
	}
	if err := s.db.Create(series).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return series, nil
}

// GetUserSeries returns a paginated list of the user's recurring series.
func (s *seriesService) GetUserSeries(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringSeries], error) {
	page.Defaults()

	base := s.db.Model(&models.RecurringSeries{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var series []models.RecurringSeries
	if err := base.Scopes(pagination.Paginate(page)).Order("due_date ASC").Find(&series).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(series, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetSeriesByID returns a series by ID if it belongs to the user.
func (s *seriesService) GetSeriesByID(userID, seriesID string) (*models.RecurringSeries, error) {
	var series models.RecurringSeries
	if err := s.db.Where("id = ? AND user_id = ?", seriesID, userID).First(&series).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSeriesNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &series, nil
}

// UpdateSeries updates a series' editable fields. A due date may only be
// pushed forward; counters and the transaction log are off limits.
func (s *seriesService) UpdateSeries(userID, seriesID, description string, amount *decimal.Decimal, dueDate *time.Time) (*models.RecurringSeries, error) {
	series, err := s.GetSeriesByID(userID, seriesID)
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
	if dueDate != nil {
		if dueDate.Before(series.DueDate) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidPeriodRange, "due date may only move forward")
		}
		updates["due_date"] = *dueDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(series).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return series, nil
}

// DeactivateSeries stops a series from firing. It remains queryable for
// reconciliation.
func (s *seriesService) DeactivateSeries(userID, seriesID string) error {
	series, err := s.GetSeriesByID(userID, seriesID)
	if err != nil {
		return err
	}
	if !series.IsActive {
		return apperrors.ErrSeriesInactive
	}

	if err := s.db.Model(series).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
