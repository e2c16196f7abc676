package services

import (
	"testing"

	"gorm.io/gorm"

	"fiskal/internal/models"
	"fiskal/internal/pagination"
	"fiskal/internal/testutil"
)

func newSeriesService(db *gorm.DB) SeriesServicer {
	return NewSeriesService(db, NewAccountService(db))
}

func TestCreateSeries(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSeriesService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		series, err := svc.CreateSeries(user.ID, account.ID, "Gym membership",
			dec("29.99"), models.TransactionTypeExpense, "fitness",
			models.FrequencyMonthly, date(2025, 7, 1))
		testutil.AssertNoError(t, err)

		if series.ID == "" {
			t.Fatal("expected series to receive an id")
		}
		if !series.IsActive {
			t.Error("expected new series active")
		}
		if series.TotalExecutions != 0 {
			t.Errorf("expected zero executions, got %d", series.TotalExecutions)
		}
		if len(series.TransactionIDs) != 0 {
			t.Errorf("expected empty transaction log, got %v", series.TransactionIDs)
		}
	})

	t.Run("rejects_unknown_frequency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSeriesService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := svc.CreateSeries(user.ID, account.ID, "", dec("10"),
			models.TransactionTypeExpense, "misc", models.Frequency("hourly"), date(2025, 7, 1))
		testutil.AssertAppError(t, err, "UNSUPPORTED_FREQUENCY")
	})

	t.Run("rejects_transfer_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSeriesService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := svc.CreateSeries(user.ID, account.ID, "", dec("10"),
			models.TransactionTypeTransfer, "misc", models.FrequencyWeekly, date(2025, 7, 1))
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("rejects_transfer_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSeriesService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)

		_, err := svc.CreateSeries(user.ID, account.ID, "", dec("10"),
			models.TransactionTypeExpense, models.CategoryTransfer, models.FrequencyWeekly, date(2025, 7, 1))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_foreign_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSeriesService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, owner.ID)

		_, err := svc.CreateSeries(intruder.ID, account.ID, "", dec("10"),
			models.TransactionTypeExpense, "misc", models.FrequencyWeekly, date(2025, 7, 1))
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestUpdateSeries(t *testing.T) {
	t.Run("due_date_moves_forward_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSeriesService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		series := testutil.CreateTestSeries(t, db, user.ID, account.ID, "10",
			models.FrequencyMonthly, date(2025, 7, 15))

		forward := date(2025, 8, 1)
		_, err := svc.UpdateSeries(user.ID, series.ID, "", nil, &forward)
		testutil.AssertNoError(t, err)

		backward := date(2025, 6, 1)
		_, err = svc.UpdateSeries(user.ID, series.ID, "", nil, &backward)
		testutil.AssertAppError(t, err, "INVALID_PERIOD_RANGE")
	})

	t.Run("counters_are_untouchable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newSeriesService(db)
		user := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, user.ID)
		series := testutil.CreateTestSeries(t, db, user.ID, account.ID, "10",
			models.FrequencyMonthly, date(2025, 7, 15))

		amount := dec("12.50")
		_, err := svc.UpdateSeries(user.ID, series.ID, "new name", &amount, nil)
		testutil.AssertNoError(t, err)

		var reloaded models.RecurringSeries
		if err := db.First(&reloaded, "id = ?", series.ID).Error; err != nil {
			t.Fatalf("failed to reload series: %v", err)
		}
		if reloaded.TotalExecutions != series.TotalExecutions {
			t.Error("expected execution counter unchanged by an edit")
		}
		testutil.AssertDecimalEqual(t, reloaded.Amount, "12.5")
	})
}

func TestDeactivateSeries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newSeriesService(db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID)
	series := testutil.CreateTestSeries(t, db, user.ID, account.ID, "10",
		models.FrequencyMonthly, date(2025, 7, 15))

	err := svc.DeactivateSeries(user.ID, series.ID)
	testutil.AssertNoError(t, err)

	reloaded, err := svc.GetSeriesByID(user.ID, series.ID)
	testutil.AssertNoError(t, err)
	if reloaded.IsActive {
		t.Error("expected series deactivated")
	}

	// A second deactivation is a conflict, not a silent no-op.
	err = svc.DeactivateSeries(user.ID, series.ID)
	testutil.AssertAppError(t, err, "SERIES_INACTIVE")
}

func TestGetUserSeries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newSeriesService(db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID)

	testutil.CreateTestSeries(t, db, user.ID, account.ID, "10", models.FrequencyMonthly, date(2025, 9, 1))
	testutil.CreateTestSeries(t, db, user.ID, account.ID, "20", models.FrequencyWeekly, date(2025, 8, 1))

	page, err := svc.GetUserSeries(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 2 {
		t.Fatalf("expected 2 series, got %d", page.TotalItems)
	}
	if !page.Data[0].DueDate.Before(page.Data[1].DueDate) {
		t.Error("expected series ordered by due date ascending")
	}
}
