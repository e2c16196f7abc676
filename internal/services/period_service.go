package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fiskal/internal/aggregate"
	"fiskal/internal/dates"
	apperrors "fiskal/internal/errors"
	"fiskal/internal/logger"
	"fiskal/internal/models"
	"fiskal/internal/money"
)

// periodService owns the per-user budget period state machine. There is
// never more than one open period per user; closing a period computes its
// totals and immediately chains the next one.
type periodService struct {
	port  DataPort
	audit AuditServicer
	loc   *time.Location
}

// NewPeriodService creates a new PeriodServicer. End-of-day normalization
// happens in loc.
func NewPeriodService(port DataPort, audit AuditServicer, loc *time.Location) PeriodServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &periodService{port: port, audit: audit, loc: loc}
}

// StartPeriod opens a new active period for the user beginning at the
// start of startDate's calendar day. Fails if an active period already
// exists or if startDate precedes the previous period's end.
func (s *periodService) StartPeriod(userID string, startDate time.Time) (*models.BudgetPeriod, error) {
	active, err := s.port.LoadActivePeriod(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	if active != nil {
		return nil, apperrors.ErrActivePeriodExists
	}

	start := dates.StartOfDay(startDate, s.loc)

	previous, err := s.port.LoadLatestClosedPeriod(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	if previous != nil && previous.EndDate != nil && start.Before(*previous.EndDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidPeriodRange,
			"Start date precedes the previous period's end")
	}

	period := &models.BudgetPeriod{
		UserID:     userID,
		StartDate:  start,
		IsActive:   true,
		TotalSpent: decimal.Zero,
		TotalSaved: decimal.Zero,
	}
	if err := s.port.CreatePeriod(period); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	return period, nil
}

// ClosePeriod closes the user's active period at end-of-day of endDate,
// computing total spend across the user's budgets and the savings floor,
// then chains the next period starting the following day.
//
// Replaying a close with the same end date on an already-closed period is
// a no-op that returns the stored result without re-aggregating. A
// failure to chain the next period does not roll the close back; it is
// logged and audited only.
func (s *periodService) ClosePeriod(userID string, endDate time.Time) (*models.BudgetPeriod, error) {
	end := dates.EndOfDay(endDate, s.loc)

	// Idempotent replay: the previous close already produced this result.
	previous, err := s.port.LoadLatestClosedPeriod(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	if previous != nil && previous.EndDate != nil && dates.SameDay(*previous.EndDate, end, s.loc) {
		return previous, nil
	}

	period, err := s.port.LoadActivePeriod(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	if period == nil {
		return nil, apperrors.ErrNoActivePeriod
	}
	if end.Before(period.StartDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidPeriodRange,
			"End date precedes the period's start")
	}

	totalSpent, totalBudgeted, err := s.computeTotals(userID, period.StartDate, end)
	if err != nil {
		return nil, err
	}
	totalSaved := money.FloorZero(money.Round2(totalBudgeted.Sub(totalSpent)))

	patch := map[string]interface{}{
		"is_active":   false,
		"end_date":    end,
		"total_spent": totalSpent,
		"total_saved": totalSaved,
	}
	if err := s.port.UpdatePeriod(period.ID, patch); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	period.IsActive = false
	period.EndDate = &end
	period.TotalSpent = totalSpent
	period.TotalSaved = totalSaved

	s.audit.Log(userID, "CLOSE_PERIOD", "budget_period", period.ID, "",
		map[string]interface{}{"end_date": end, "total_spent": totalSpent, "total_saved": totalSaved})

	// Chain the successor. Close is already committed; a chain failure is
	// surfaced through logs and the audit trail, never to the caller.
	nextStart := dates.StartOfNextDay(end, s.loc)
	if next, err := s.StartPeriod(userID, nextStart); err != nil {
		logger.Get().Warnw("failed to start next budget period after close",
			"user_id", userID,
			"closed_period_id", period.ID,
			"next_start", nextStart,
			"error", err,
		)
		s.audit.Log(userID, "PERIOD_CHAIN_FAILED", "budget_period", period.ID, "",
			map[string]interface{}{"next_start": nextStart, "error": err.Error()})
	} else {
		s.audit.Log(userID, "START_PERIOD", "budget_period", next.ID, "",
			map[string]interface{}{"start_date": next.StartDate, "chained_from": period.ID})
	}

	return period, nil
}

// computeTotals aggregates spend over [start, end] for each of the user's
// budgets and sums the budget targets alongside.
func (s *periodService) computeTotals(userID string, start, end time.Time) (spent, budgeted decimal.Decimal, err error) {
	budgets, err := s.port.LoadBudgetsByUser(userID)
	if err != nil {
		return decimal.Zero, decimal.Zero, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	transactions, err := s.port.LoadTransactionsByUser(userID, &start, &end)
	if err != nil {
		return decimal.Zero, decimal.Zero, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	spent = decimal.Zero
	budgeted = decimal.Zero
	for i := range budgets {
		result := aggregate.Spend(transactions, budgets[i].Categories, start, end)
		spent = spent.Add(result.TotalSpent)
		budgeted = budgeted.Add(budgets[i].Amount)
	}
	return money.Round2(spent), budgeted, nil
}

// GetActivePeriod returns the user's open period.
func (s *periodService) GetActivePeriod(userID string) (*models.BudgetPeriod, error) {
	period, err := s.port.LoadActivePeriod(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	if period == nil {
		return nil, apperrors.ErrNoActivePeriod
	}
	return period, nil
}

// ListPeriods returns the user's periods, newest first.
func (s *periodService) ListPeriods(userID string) ([]models.BudgetPeriod, error) {
	periods, err := s.port.LoadPeriodsByUser(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	return periods, nil
}
