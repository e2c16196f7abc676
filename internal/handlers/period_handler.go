package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fiskal/internal/errors"
	"fiskal/internal/services"
)

// PeriodHandler handles budget period lifecycle requests.
type PeriodHandler struct {
	periodService services.PeriodServicer
	auditService  services.AuditServicer
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodService services.PeriodServicer, auditService services.AuditServicer) *PeriodHandler {
	return &PeriodHandler{periodService: periodService, auditService: auditService}
}

// StartPeriodRequest represents the request payload for opening a period.
type StartPeriodRequest struct {
	StartDate time.Time `json:"start_date" binding:"required"`
}

// ClosePeriodRequest represents the request payload for closing a period.
type ClosePeriodRequest struct {
	EndDate time.Time `json:"end_date" binding:"required"`
}

// StartPeriod opens a new budget period for the caller.
func (h *PeriodHandler) StartPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StartPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	period, err := h.periodService.StartPeriod(userID, req.StartDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "START_PERIOD", "budget_period", period.ID, c.ClientIP(),
		map[string]interface{}{"start_date": period.StartDate})

	c.JSON(http.StatusCreated, gin.H{"period": period})
}

// ClosePeriod closes the caller's active period and chains the next one.
// Replaying a close with the same end date returns the stored result.
func (h *PeriodHandler) ClosePeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClosePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	period, err := h.periodService.ClosePeriod(userID, req.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": period})
}

// GetActivePeriod returns the caller's open period.
func (h *PeriodHandler) GetActivePeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := h.periodService.GetActivePeriod(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": period})
}

// ListPeriods returns the caller's period history.
func (h *PeriodHandler) ListPeriods(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periods, err := h.periodService.ListPeriods(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"periods": periods})
}
