package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "budgettracker/internal/errors"
)

func asAppError(t *testing.T, err error, expectedCode string) *apperrors.AppError {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	return appErr
}

// AssertAppError checks that err is an *AppError with the expected code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	appErr := asAppError(t, err, expectedCode)
	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertFieldError checks that err is a VALIDATION_ERROR naming field.
func AssertFieldError(t *testing.T, err error, field string) {
	t.Helper()

	appErr := asAppError(t, err, "VALIDATION_ERROR")
	if appErr.Code != "VALIDATION_ERROR" || appErr.Field != field {
		t.Errorf("expected VALIDATION_ERROR on %q, got %s on %q (%s)", field, appErr.Code, appErr.Field, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDecimal compares a money amount by value, so "10" equals "10.00".
func AssertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()

	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", name, want, got)
	}
}
