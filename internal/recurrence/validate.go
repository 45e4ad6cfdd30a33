package recurrence

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Field limits for recurring expense definitions.
const (
	MaxTitleLength       = 50
	MaxDescriptionLength = 200
	MaxTagLength         = 20
	MaxReminderDays      = 30
	AmountScale          = 2
)

// MaxAmount is the exclusive upper bound of a stored amount, matching the
// NUMERIC(12,2) columns.
var MaxAmount = decimal.New(1, 10)

// Definition is the user-controlled part of a recurring expense, i.e.
// everything Validate checks.
type Definition struct {
	Title        string
	Amount       decimal.Decimal
	Frequency    Frequency
	CycleDetails CycleDetails
	StartDate    time.Time
	EndDate      *time.Time
	ReminderDays int
	Description  string
	Tags         []string
}

// FieldError identifies the first invalid field of a Definition.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func fieldErr(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ValidateAmount checks that amount is positive, has at most two decimal
// places and fits below MaxAmount. It returns a *FieldError for "amount".
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fieldErr("amount", "must be greater than 0")
	}
	if !amount.Equal(amount.Round(AmountScale)) {
		return fieldErr("amount", "cannot have more than %d decimal places", AmountScale)
	}
	if amount.GreaterThanOrEqual(MaxAmount) {
		return fieldErr("amount", "must be less than %s", MaxAmount.String())
	}
	return nil
}

// Validate returns a *FieldError for the first rule d violates, or nil.
// Out-of-range values are rejected, never clamped. Cycle anchors are only
// checked for the frequencies that use them.
func Validate(d Definition) error {
	if d.Title == "" {
		return fieldErr("title", "is required")
	}
	if utf8.RuneCountInString(d.Title) > MaxTitleLength {
		return fieldErr("title", "cannot exceed %d characters", MaxTitleLength)
	}
	if err := ValidateAmount(d.Amount); err != nil {
		return err
	}
	if !d.Frequency.Valid() {
		return fieldErr("frequency", "must be one of %s; got %q", frequencyList(), d.Frequency)
	}

	cd := d.CycleDetails
	if d.Frequency == FrequencyWeekly && cd.DayOfWeek != nil {
		if v := *cd.DayOfWeek; v < 0 || v > 6 {
			return fieldErr("cycle_details.day_of_week", "must be between 0 and 6, got %d", v)
		}
	}
	if (d.Frequency == FrequencyMonthly || d.Frequency == FrequencyYearly) && cd.DayOfMonth != nil {
		if v := *cd.DayOfMonth; v < 1 || v > 31 {
			return fieldErr("cycle_details.day_of_month", "must be between 1 and 31, got %d", v)
		}
	}
	if d.Frequency == FrequencyYearly && cd.MonthOfYear != nil {
		if v := *cd.MonthOfYear; v < 1 || v > 12 {
			return fieldErr("cycle_details.month_of_year", "must be between 1 and 12, got %d", v)
		}
	}

	if d.StartDate.IsZero() {
		return fieldErr("start_date", "is required")
	}
	if d.EndDate != nil && !d.EndDate.After(d.StartDate) {
		return fieldErr("end_date", "must be after start_date")
	}
	if d.ReminderDays < 0 || d.ReminderDays > MaxReminderDays {
		return fieldErr("reminder_days", "must be between 0 and %d, got %d", MaxReminderDays, d.ReminderDays)
	}
	if utf8.RuneCountInString(d.Description) > MaxDescriptionLength {
		return fieldErr("description", "cannot exceed %d characters", MaxDescriptionLength)
	}
	for _, tag := range d.Tags {
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return fieldErr("tags", "tag %q exceeds %d characters", tag, MaxTagLength)
		}
	}

	return nil
}
