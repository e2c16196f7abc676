package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fiskal/internal/errors"
	"fiskal/internal/services"
)

// RecurringHandler exposes the recurring execution engine over HTTP.
// Batches are normally fired by the scheduler; the endpoints exist for
// operational runs and reconciliation checks.
type RecurringHandler struct {
	recurringService services.RecurringServicer
	seriesService    services.SeriesServicer
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringService services.RecurringServicer, seriesService services.SeriesServicer) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService, seriesService: seriesService}
}

// RunRequest represents the request payload for a recurring batch.
type RunRequest struct {
	DryRun         bool `json:"dry_run"`
	MaxDaysOverdue int  `json:"max_days_overdue" binding:"omitempty,min=0"`
}

// Run fires all due recurring series. The batch never fails part-way:
// per-series failures are reported in the result.
func (h *RecurringHandler) Run(c *gin.Context) {
	var req RunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	result, err := h.recurringService.RunDue(time.Now(), services.RunOptions{
		DryRun:         req.DryRun,
		MaxDaysOverdue: req.MaxDaysOverdue,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetReconciliation compares a series' execution counter against its
// persisted transactions.
func (h *RecurringHandler) GetReconciliation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	seriesID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Ownership check before touching the engine.
	if _, err := h.seriesService.GetSeriesByID(userID, seriesID); err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.recurringService.GetReconciliation(seriesID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reconciliation": report})
}

// GetMissed lists active series whose counters ran ahead of their
// persisted transactions.
func (h *RecurringHandler) GetMissed(c *gin.Context) {
	missed, err := h.recurringService.FindMissedExecutions()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"missed": missed})
}
