// Package repository defines the persistence contracts the recurrence engine
// depends on, with a GORM implementation that works on Postgres and SQLite.
package repository

import (
	"context"
	"errors"
	"time"

	"budgettracker/internal/models"
)

// ErrNotFound is returned when a lookup matches no live record.
var ErrNotFound = errors.New("repository: record not found")

// ScheduleFilter narrows List results.
type ScheduleFilter struct {
	Active    *bool
	Frequency *string
}

// ScheduleStore persists recurring expense definitions.
type ScheduleStore interface {
	// FindEligible returns schedules due for automatic materialization at now:
	// active, auto-create, NextDue <= now and not ended. An empty userID
	// scans every user.
	FindEligible(ctx context.Context, now time.Time, userID string) ([]models.RecurringExpense, error)
	FindByID(ctx context.Context, userID, id string) (*models.RecurringExpense, error)
	List(ctx context.Context, userID string, filter ScheduleFilter) ([]models.RecurringExpense, error)
	// Upcoming returns active schedules with NextDue in [from, until], soonest first.
	Upcoming(ctx context.Context, userID string, from, until time.Time) ([]models.RecurringExpense, error)
	// Save inserts or updates the schedule row and inserts ledger entries
	// that have not been persisted yet. Existing entries are never touched.
	Save(ctx context.Context, schedule *models.RecurringExpense) error
	Delete(ctx context.Context, schedule *models.RecurringExpense) error
}

// ExpenseStore persists concrete expenses.
type ExpenseStore interface {
	Create(ctx context.Context, expense *models.Expense) error
	// FindOccurrence returns the expense already materialized for scheduleID
	// on date, or ErrNotFound.
	FindOccurrence(ctx context.Context, scheduleID string, date time.Time) (*models.Expense, error)
}

// CategoryStore resolves categories for validation and display.
type CategoryStore interface {
	FindByID(ctx context.Context, userID, id string) (*models.Category, error)
}

// Store groups the stores so they can share a transaction.
type Store interface {
	Schedules() ScheduleStore
	Expenses() ExpenseStore
	Categories() CategoryStore
	// Transaction runs fn against a Store bound to one database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
