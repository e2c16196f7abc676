package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fiskal/internal/dates"
	apperrors "fiskal/internal/errors"
	"fiskal/internal/logger"
	"fiskal/internal/models"
	"fiskal/internal/schedule"
)

// recurringService materializes due recurring series into transactions.
// Series are processed sequentially; each one is isolated so a failure or
// panic in one can never abort its siblings. Only a data port failure on
// the initial load aborts the batch.
type recurringService struct {
	port  DataPort
	audit AuditServicer
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(port DataPort, audit AuditServicer) RecurringServicer {
	return &recurringService{port: port, audit: audit}
}

// RunDue selects series due at now (or overdue within the configured
// window), fires each exactly once, advances due dates, and reports the
// batch outcome. Series overdue beyond the window are skipped silently:
// they are not failures, just too stale to backfill.
func (s *recurringService) RunDue(now time.Time, opts RunOptions) (*ExecutionResult, error) {
	maxOverdue := opts.MaxDaysOverdue
	if maxOverdue == 0 {
		maxOverdue = DefaultMaxDaysOverdue
	}

	series, err := s.port.LoadActiveSeries()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	result := &ExecutionResult{
		Executed: []models.Transaction{},
		Failed:   []FailureEntry{},
		Summary:  ExecutionSummary{TotalAmount: decimal.Zero},
	}

	for i := range series {
		daysUntil := dates.DaysUntil(now, series[i].DueDate)
		if daysUntil > 0 || daysUntil < -maxOverdue {
			continue
		}
		s.executeSeries(result, &series[i], now, opts)
	}

	logger.Get().Infow("recurring batch complete",
		"dry_run", opts.DryRun,
		"processed", result.Summary.TotalProcessed,
		"succeeded", result.Summary.SuccessfulExecutions,
		"failed", result.Summary.FailedExecutions,
		"total_amount", result.Summary.TotalAmount,
	)
	if !opts.DryRun && result.Summary.TotalProcessed > 0 {
		s.audit.Log("", "RUN_RECURRING", "recurring_series", "", "", map[string]interface{}{
			"processed": result.Summary.TotalProcessed,
			"succeeded": result.Summary.SuccessfulExecutions,
			"failed":    result.Summary.FailedExecutions,
		})
	}

	return result, nil
}

// executeSeries fires one due series, recovering panics into failure
// entries so the batch keeps going.
func (s *recurringService) executeSeries(result *ExecutionResult, series *models.RecurringSeries, now time.Time, opts RunOptions) {
	result.Summary.TotalProcessed++

	defer func() {
		if r := recover(); r != nil {
			logger.Get().Errorw("panic while executing recurring series",
				"series_id", series.ID, "panic", r)
			s.recordFailure(result, series, fmt.Sprintf("panic: %v", r))
		}
	}()

	if !series.IsActive {
		s.recordFailure(result, series, "inactive")
		return
	}

	nextDue, err := schedule.NextDue(series.DueDate, series.Frequency)
	if err != nil {
		s.recordFailure(result, series, err.Error())
		return
	}

	transaction := models.Transaction{
		UserID:            series.UserID,
		AccountID:         series.AccountID,
		Type:              series.Type,
		Amount:            series.Amount,
		Category:          series.Category,
		Description:       series.Description,
		Date:              now,
		RecurringSeriesID: &series.ID,
	}

	if !opts.DryRun {
		if err := s.port.CreateTransaction(&transaction); err != nil {
			s.recordFailure(result, series, err.Error())
			return
		}

		patch := map[string]interface{}{
			"total_executions": series.TotalExecutions + 1,
			"due_date":         nextDue,
			"transaction_ids":  append(series.TransactionIDs, transaction.ID),
		}
		if err := s.port.UpdateSeries(series.ID, patch); err != nil {
			// The transaction exists but the counter did not advance;
			// reconciliation will show the drift.
			s.recordFailure(result, series, err.Error())
			return
		}

		logger.Get().Infow("recurring series executed",
			"series_id", series.ID,
			"transaction_id", transaction.ID,
			"amount", series.Amount,
			"next_due", nextDue,
		)
	}

	result.Executed = append(result.Executed, transaction)
	result.Summary.SuccessfulExecutions++
	result.Summary.TotalAmount = result.Summary.TotalAmount.Add(series.Amount)
}

func (s *recurringService) recordFailure(result *ExecutionResult, series *models.RecurringSeries, reason string) {
	result.Failed = append(result.Failed, FailureEntry{
		SeriesID:   series.ID,
		SeriesName: series.Description,
		Error:      reason,
	})
	result.Summary.FailedExecutions++
}

// GetReconciliation compares a series' counter with the transactions
// actually persisted under its tag.
func (s *recurringService) GetReconciliation(seriesID string) (*ReconciliationReport, error) {
	series, err := s.port.LoadSeriesByID(seriesID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}
	if series == nil {
		return nil, apperrors.ErrSeriesNotFound
	}

	transactions, err := s.port.LoadTransactionsBySeries(seriesID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	actualTotal := decimal.Zero
	for i := range transactions {
		actualTotal = actualTotal.Add(transactions[i].Amount)
	}

	report := &ReconciliationReport{
		SeriesID:           series.ID,
		Description:        series.Description,
		ExpectedExecutions: series.TotalExecutions,
		ActualExecutions:   len(transactions),
		MissedPayments:     series.TotalExecutions - len(transactions),
		ExpectedTotal:      series.Amount.Mul(decimal.NewFromInt(int64(series.TotalExecutions))),
		ActualTotal:        actualTotal,
	}
	if series.TotalExecutions > 0 {
		report.SuccessRate = float64(len(transactions)) / float64(series.TotalExecutions) * 100
	}
	return report, nil
}

// FindMissedExecutions scans all active series and returns those whose
// counters ran ahead of their persisted transactions. An audit entry
// point, not part of the hot execution path.
func (s *recurringService) FindMissedExecutions() ([]MissedSeries, error) {
	series, err := s.port.LoadActiveSeries()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistence, err)
	}

	missed := []MissedSeries{}
	for i := range series {
		report, err := s.GetReconciliation(series[i].ID)
		if err != nil {
			return nil, err
		}
		if report.MissedPayments > 0 {
			missed = append(missed, MissedSeries{Series: series[i], MissedCount: report.MissedPayments})
		}
	}
	return missed, nil
}
