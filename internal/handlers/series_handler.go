package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fiskal/internal/errors"
	"fiskal/internal/models"
	"fiskal/internal/pagination"
	"fiskal/internal/services"
)

// SeriesHandler handles recurring series management requests.
type SeriesHandler struct {
	seriesService services.SeriesServicer
	auditService  services.AuditServicer
}

// NewSeriesHandler creates a new SeriesHandler.
func NewSeriesHandler(seriesService services.SeriesServicer, auditService services.AuditServicer) *SeriesHandler {
	return &SeriesHandler{seriesService: seriesService, auditService: auditService}
}

// CreateSeriesRequest represents the request payload for creating a
// recurring series.
type CreateSeriesRequest struct {
	AccountID   string          `json:"account_id" binding:"required"`
	Description string          `json:"description" binding:"max=255"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Type        string          `json:"type" binding:"required,transaction_type"`
	Category    string          `json:"category" binding:"required,min=1,max=100"`
	Frequency   string          `json:"frequency" binding:"required,frequency"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
}

// UpdateSeriesRequest represents the request payload for editing a series.
type UpdateSeriesRequest struct {
	Description string           `json:"description" binding:"omitempty,max=255"`
	Amount      *decimal.Decimal `json:"amount"`
	DueDate     *time.Time       `json:"due_date"`
}

// CreateSeries handles the creation of a new recurring series.
func (h *SeriesHandler) CreateSeries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	series, err := h.seriesService.CreateSeries(
		userID, req.AccountID, req.Description, req.Amount,
		models.TransactionType(req.Type), req.Category,
		models.Frequency(req.Frequency), req.DueDate,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SERIES", "recurring_series", series.ID, c.ClientIP(),
		map[string]interface{}{"frequency": req.Frequency, "amount": req.Amount, "due_date": req.DueDate})

	c.JSON(http.StatusCreated, gin.H{"series": series})
}

// GetSeries handles listing the caller's recurring series.
func (h *SeriesHandler) GetSeries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.seriesService.GetUserSeries(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSeriesByID handles retrieving a specific series.
func (h *SeriesHandler) GetSeriesByID(c *gin.Context) {
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

	series, err := h.seriesService.GetSeriesByID(userID, seriesID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": series})
}

// UpdateSeries handles editing a series' template fields.
func (h *SeriesHandler) UpdateSeries(c *gin.Context) {
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

	var req UpdateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	series, err := h.seriesService.UpdateSeries(userID, seriesID, req.Description, req.Amount, req.DueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SERIES", "recurring_series", seriesID, c.ClientIP(),
		map[string]interface{}{"description": req.Description})

	c.JSON(http.StatusOK, gin.H{"series": series})
}

// DeactivateSeries handles stopping a series from firing.
func (h *SeriesHandler) DeactivateSeries(c *gin.Context) {
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

	if err := h.seriesService.DeactivateSeries(userID, seriesID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DEACTIVATE_SERIES", "recurring_series", seriesID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Series deactivated successfully"})
}
