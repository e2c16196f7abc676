package integration

import (
	"net/http"
	"testing"
	"time"

	"fiskal/internal/models"
)

func TestRecurringExecutionFlow(t *testing.T) {
	app := setupApp(t)
	userID := app.seedUser(t)
	accountID := app.createAccount(t, userID)

	// A subscription due today.
	due := time.Now().UTC().Format(time.RFC3339)
	rec := app.request("POST", "/api/v1/series",
		`{"account_id":"`+accountID+`","description":"Streaming","amount":"15.99","type":"expense","category":"subscriptions","frequency":"monthly","due_date":"`+due+`"}`, userID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create series failed: %d %s", rec.Code, rec.Body.String())
	}
	series := parseJSON(t, rec)["series"].(map[string]interface{})
	seriesID := series["id"].(string)

	// Dry run first: report without side effects.
	rec = app.request("POST", "/api/v1/recurring/run", `{"dry_run":true}`, userID)
	if rec.Code != http.StatusOK {
		t.Fatalf("dry run failed: %d %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["successful_executions"].(float64) != 1 {
		t.Fatalf("expected 1 would-be execution, got %v", summary["successful_executions"])
	}

	var count int64
	if err := app.DB.Model(&models.Transaction{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no transactions after a dry run, got %d", count)
	}

	// Real run materializes the transaction and advances the series.
	rec = app.request("POST", "/api/v1/recurring/run", `{}`, userID)
	if rec.Code != http.StatusOK {
		t.Fatalf("run failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	executed := result["executed"].([]interface{})
	if len(executed) != 1 {
		t.Fatalf("expected 1 executed transaction, got %d", len(executed))
	}
	tx := executed[0].(map[string]interface{})
	if tx["recurring_series_id"] != seriesID {
		t.Errorf("expected transaction tagged with series id %s, got %v", seriesID, tx["recurring_series_id"])
	}

	// Rerunning the same day does nothing: the due date moved forward.
	rec = app.request("POST", "/api/v1/recurring/run", `{}`, userID)
	if rec.Code != http.StatusOK {
		t.Fatalf("second run failed: %d", rec.Code)
	}
	summary = parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["total_processed"].(float64) != 0 {
		t.Errorf("expected nothing due on the second run, got %v", summary["total_processed"])
	}

	// Reconciliation is clean: one expected, one persisted.
	rec = app.request("GET", "/api/v1/recurring/"+seriesID+"/reconciliation", "", userID)
	if rec.Code != http.StatusOK {
		t.Fatalf("reconciliation failed: %d %s", rec.Code, rec.Body.String())
	}
	report := parseJSON(t, rec)["reconciliation"].(map[string]interface{})
	if report["expected_executions"].(float64) != 1 || report["actual_executions"].(float64) != 1 {
		t.Errorf("expected 1/1 executions, got %v/%v",
			report["expected_executions"], report["actual_executions"])
	}
	if report["success_rate"].(float64) != 100 {
		t.Errorf("expected 100%% success rate, got %v", report["success_rate"])
	}

	// No missed executions anywhere.
	rec = app.request("GET", "/api/v1/recurring/missed", "", userID)
	if rec.Code != http.StatusOK {
		t.Fatalf("missed lookup failed: %d", rec.Code)
	}
	missed := parseJSON(t, rec)["missed"].([]interface{})
	if len(missed) != 0 {
		t.Errorf("expected no missed executions, got %d", len(missed))
	}
}

func TestRecurringReconciliationDrift(t *testing.T) {
	app := setupApp(t)
	userID := app.seedUser(t)
	accountID := app.createAccount(t, userID)

	rec := app.request("POST", "/api/v1/series",
		`{"account_id":"`+accountID+`","description":"Rent","amount":"1200","type":"expense","category":"rent","frequency":"monthly","due_date":"2025-01-01T00:00:00Z"}`, userID)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create series failed: %d %s", rec.Code, rec.Body.String())
	}
	seriesID := parseJSON(t, rec)["series"].(map[string]interface{})["id"].(string)

	// Simulate drift: the counter ran ahead of the transaction log.
	if err := app.DB.Model(&models.RecurringSeries{}).
		Where("id = ?", seriesID).
		Update("total_executions", 3).Error; err != nil {
		t.Fatalf("failed to inject drift: %v", err)
	}

	rec = app.request("GET", "/api/v1/recurring/"+seriesID+"/reconciliation", "", userID)
	if rec.Code != http.StatusOK {
		t.Fatalf("reconciliation failed: %d %s", rec.Code, rec.Body.String())
	}
	report := parseJSON(t, rec)["reconciliation"].(map[string]interface{})
	if report["missed_payments"].(float64) != 3 {
		t.Errorf("expected 3 missed payments, got %v", report["missed_payments"])
	}
	if report["expected_total"] != "3600" {
		t.Errorf("expected expected_total 3600, got %v", report["expected_total"])
	}

	rec = app.request("GET", "/api/v1/recurring/missed", "", userID)
	missed := parseJSON(t, rec)["missed"].([]interface{})
	if len(missed) != 1 {
		t.Fatalf("expected 1 drifted series, got %d", len(missed))
	}

	// A foreign caller cannot see the reconciliation.
	otherID := app.seedUser(t)
	rec = app.request("GET", "/api/v1/recurring/"+seriesID+"/reconciliation", "", otherID)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign series, got %d", rec.Code)
	}
}
