package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fiskal/internal/errors"
	"fiskal/internal/models"
	"fiskal/internal/services"
)

// --- mock period service ---

type mockPeriodService struct {
	startPeriodFn     func(userID string, startDate time.Time) (*models.BudgetPeriod, error)
	closePeriodFn     func(userID string, endDate time.Time) (*models.BudgetPeriod, error)
	getActivePeriodFn func(userID string) (*models.BudgetPeriod, error)
	listPeriodsFn     func(userID string) ([]models.BudgetPeriod, error)
}

func (m *mockPeriodService) StartPeriod(userID string, startDate time.Time) (*models.BudgetPeriod, error) {
	if m.startPeriodFn != nil {
		return m.startPeriodFn(userID, startDate)
	}
	return &models.BudgetPeriod{}, nil
}

func (m *mockPeriodService) ClosePeriod(userID string, endDate time.Time) (*models.BudgetPeriod, error) {
	if m.closePeriodFn != nil {
		return m.closePeriodFn(userID, endDate)
	}
	return &models.BudgetPeriod{}, nil
}

func (m *mockPeriodService) GetActivePeriod(userID string) (*models.BudgetPeriod, error) {
	if m.getActivePeriodFn != nil {
		return m.getActivePeriodFn(userID)
	}
	return &models.BudgetPeriod{}, nil
}

func (m *mockPeriodService) ListPeriods(userID string) ([]models.BudgetPeriod, error) {
	if m.listPeriodsFn != nil {
		return m.listPeriodsFn(userID)
	}
	return []models.BudgetPeriod{}, nil
}

var _ services.PeriodServicer = (*mockPeriodService)(nil)

func setupPeriodRouter(handler *PeriodHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("user-1"))
	auth.POST("/periods/start", handler.StartPeriod)
	auth.POST("/periods/close", handler.ClosePeriod)
	auth.GET("/periods/active", handler.GetActivePeriod)
	auth.GET("/periods", handler.ListPeriods)
	return r
}

func TestPeriodHandler_StartPeriod(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockPeriodService{
			startPeriodFn: func(userID string, startDate time.Time) (*models.BudgetPeriod, error) {
				return &models.BudgetPeriod{
					Base:      models.Base{ID: "period-1"},
					UserID:    userID,
					StartDate: startDate,
					IsActive:  true,
				}, nil
			},
		}
		handler := NewPeriodHandler(svc, &mockAuditService{})
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "POST", "/periods/start", `{"start_date":"2025-01-01T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		period := result["period"].(map[string]interface{})
		if period["is_active"] != true {
			t.Errorf("expected active period, got %v", period["is_active"])
		}
	})

	t.Run("returns 400 on missing start date", func(t *testing.T) {
		handler := NewPeriodHandler(&mockPeriodService{}, &mockAuditService{})
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "POST", "/periods/start", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 on existing active period", func(t *testing.T) {
		svc := &mockPeriodService{
			startPeriodFn: func(string, time.Time) (*models.BudgetPeriod, error) {
				return nil, apperrors.ErrActivePeriodExists
			},
		}
		handler := NewPeriodHandler(svc, &mockAuditService{})
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "POST", "/periods/start", `{"start_date":"2025-01-01T00:00:00Z"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACTIVE_PERIOD_EXISTS")
	})
}

func TestPeriodHandler_ClosePeriod(t *testing.T) {
	t.Run("returns 200 with totals", func(t *testing.T) {
		end := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
		svc := &mockPeriodService{
			closePeriodFn: func(userID string, endDate time.Time) (*models.BudgetPeriod, error) {
				return &models.BudgetPeriod{
					Base:       models.Base{ID: "period-1"},
					UserID:     userID,
					EndDate:    &end,
					TotalSpent: decimal.RequireFromString("430"),
					TotalSaved: decimal.RequireFromString("70"),
				}, nil
			},
		}
		handler := NewPeriodHandler(svc, &mockAuditService{})
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "POST", "/periods/close", `{"end_date":"2025-01-31T00:00:00Z"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		period := result["period"].(map[string]interface{})
		if period["total_spent"] != "430" {
			t.Errorf("expected total_spent 430, got %v", period["total_spent"])
		}
	})

	t.Run("returns 404 without an active period", func(t *testing.T) {
		svc := &mockPeriodService{
			closePeriodFn: func(string, time.Time) (*models.BudgetPeriod, error) {
				return nil, apperrors.ErrNoActivePeriod
			},
		}
		handler := NewPeriodHandler(svc, &mockAuditService{})
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "POST", "/periods/close", `{"end_date":"2025-01-31T00:00:00Z"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_ACTIVE_PERIOD")
	})
}

func TestPeriodHandler_GetActivePeriod(t *testing.T) {
	t.Run("returns 404 when none open", func(t *testing.T) {
		svc := &mockPeriodService{
			getActivePeriodFn: func(string) (*models.BudgetPeriod, error) {
				return nil, apperrors.ErrNoActivePeriod
			},
		}
		handler := NewPeriodHandler(svc, &mockAuditService{})
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "GET", "/periods/active", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
