package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"budgettracker/internal/models"
	"budgettracker/internal/recurrence"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     "Test User",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category owned by userID.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Category %d", nextID()),
		Color:  "#3b82f6",
		Icon:   "tag",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates a one-off card expense of amount on date.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID string, amount string, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:        userID,
		CategoryID:    categoryID,
		Amount:        decimal.RequireFromString(amount),
		Date:          date,
		PaymentMethod: models.PaymentMethodCard,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// RecurringOption customizes a fixture schedule before it is stored.
type RecurringOption func(r *models.RecurringExpense)

// WithNextDue overrides the computed next due date.
func WithNextDue(next time.Time) RecurringOption {
	return func(r *models.RecurringExpense) { r.NextDue = next }
}

// WithEndDate sets an end date.
func WithEndDate(end time.Time) RecurringOption {
	return func(r *models.RecurringExpense) { r.EndDate = &end }
}

// Inactive stores the schedule paused.
func Inactive() RecurringOption {
	return func(r *models.RecurringExpense) { r.Active = false }
}

// ManualOnly disables automatic materialization.
func ManualOnly() RecurringOption {
	return func(r *models.RecurringExpense) { r.AutoCreate = false }
}

// CreateTestRecurringExpense stores an active, auto-creating monthly schedule
// anchored on the 1st, starting at start, with NextDue computed from start.
func CreateTestRecurringExpense(t *testing.T, db *gorm.DB, userID, categoryID string, start time.Time, opts ...RecurringOption) *models.RecurringExpense {
	t.Helper()

	day := 1
	schedule := &models.RecurringExpense{
		UserID:       userID,
		CategoryID:   categoryID,
		Title:        fmt.Sprintf("Schedule %d", nextID()),
		Amount:       decimal.RequireFromString("100.00"),
		Frequency:    recurrence.FrequencyMonthly,
		CycleDetails: recurrence.CycleDetails{DayOfMonth: &day},
		StartDate:    start,
		Active:       true,
		AutoCreate:   true,
		ReminderDays: 1,
	}
	next, err := recurrence.NextDue(schedule.Frequency, schedule.CycleDetails, start)
	if err != nil {
		t.Fatalf("failed to compute next due: %v", err)
	}
	schedule.NextDue = next

	for _, opt := range opts {
		opt(schedule)
	}

	if err := db.Create(schedule).Error; err != nil {
		t.Fatalf("failed to create test recurring expense: %v", err)
	}
	return schedule
}
