// Package errors provides custom error types for the budget tracker API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
// Field names the offending input field for validation failures.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Field:      sentinel.Field,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Field:      sentinel.Field,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithField creates a new AppError identifying the input field at fault.
func WithField(sentinel *AppError, field, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Field:      field,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// Pipeline errors.
var (
	ErrInvalidAPIKey         = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrPipelineNotConfigured = &AppError{Code: "PIPELINE_NOT_CONFIGURED", Message: "Pipeline endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Validation failed", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse     = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing expenses", StatusCode: http.StatusConflict}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
)

// Expense errors.
var (
	ErrExpenseNotFound      = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrRecurringExpenseLink = &AppError{Code: "RECURRING_EXPENSE_LINK", Message: "Recurring-derived expenses are created by the recurrence engine only", StatusCode: http.StatusBadRequest}
)

// Recurring expense errors.
var (
	ErrRecurringExpenseNotFound = &AppError{Code: "RECURRING_EXPENSE_NOT_FOUND", Message: "Recurring expense not found", StatusCode: http.StatusNotFound}
	ErrRecurringExpenseInactive = &AppError{Code: "RECURRING_EXPENSE_INACTIVE", Message: "Cannot process an inactive recurring expense", StatusCode: http.StatusBadRequest}
	ErrRecurringExpenseEnded    = &AppError{Code: "RECURRING_EXPENSE_ENDED", Message: "Cannot process a recurring expense past its end date", StatusCode: http.StatusBadRequest}
	ErrOccurrenceAlreadyCreated = &AppError{Code: "OCCURRENCE_ALREADY_MATERIALIZED", Message: "An expense already exists for this occurrence", StatusCode: http.StatusConflict}
	ErrMaterializationFailed    = &AppError{Code: "MATERIALIZATION_FAILED", Message: "Failed to create expense from recurring expense", StatusCode: http.StatusInternalServerError}
)
