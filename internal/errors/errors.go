// Package errors provides custom error types for the Fiskal API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrUnauthorized   = &AppError{Code: "UNAUTHORIZED", Message: "Caller identity required", StatusCode: http.StatusUnauthorized}
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	// ErrPersistence wraps data port failures. These abort whole batches:
	// partial progress without a reliable commit log would corrupt
	// reconciliation.
	ErrPersistence = &AppError{Code: "PERSISTENCE_ERROR", Message: "Storage operation failed", StatusCode: http.StatusInternalServerError}
)

// Budget period errors.
var (
	ErrActivePeriodExists = &AppError{Code: "ACTIVE_PERIOD_EXISTS", Message: "An active budget period already exists", StatusCode: http.StatusConflict}
	ErrNoActivePeriod     = &AppError{Code: "NO_ACTIVE_PERIOD", Message: "No active budget period to close", StatusCode: http.StatusNotFound}
	ErrPeriodNotFound     = &AppError{Code: "PERIOD_NOT_FOUND", Message: "Budget period not found", StatusCode: http.StatusNotFound}
	ErrInvalidPeriodRange = &AppError{Code: "INVALID_PERIOD_RANGE", Message: "Period dates are out of order", StatusCode: http.StatusBadRequest}
)

// Recurring series errors.
var (
	ErrSeriesNotFound       = &AppError{Code: "SERIES_NOT_FOUND", Message: "Recurring series not found", StatusCode: http.StatusNotFound}
	ErrSeriesInactive       = &AppError{Code: "SERIES_INACTIVE", Message: "Recurring series is inactive", StatusCode: http.StatusConflict}
	ErrUnsupportedFrequency = &AppError{Code: "UNSUPPORTED_FREQUENCY", Message: "Unsupported recurrence frequency", StatusCode: http.StatusBadRequest}
)

// User errors.
var (
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
)

// Account errors.
var (
	ErrAccountNotFound = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest}
	ErrSameAccountTransfer    = &AppError{Code: "SAME_ACCOUNT_TRANSFER", Message: "Cannot transfer to the same account", StatusCode: http.StatusBadRequest}
)

// Budget errors.
var (
	ErrBudgetNotFound   = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrEmptyCategorySet = &AppError{Code: "EMPTY_CATEGORY_SET", Message: "A budget needs at least one category", StatusCode: http.StatusBadRequest}
	ErrReservedCategory = &AppError{Code: "RESERVED_CATEGORY", Message: "The transfer category cannot be budgeted", StatusCode: http.StatusBadRequest}
)
