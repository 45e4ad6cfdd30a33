package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
	"budgettracker/internal/recurrence"
	"budgettracker/internal/repository"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID, name, email string) (*models.User, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, color, icon, description string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, color, icon, description string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
	InitializeDefaults(userID string) ([]models.Category, error)
}

// ExpenseInput carries the user-supplied fields of a one-off expense.
type ExpenseInput struct {
	CategoryID    string
	Amount        decimal.Decimal
	Date          time.Time
	Remarks       string
	PaymentMethod models.PaymentMethod
	Tags          []string
	IsRecurring   bool
}

// ExpenseUpdate holds optional fields for UpdateExpense. Nil leaves the
// stored value unchanged.
type ExpenseUpdate struct {
	CategoryID    *string
	Amount        *decimal.Decimal
	Date          *time.Time
	Remarks       *string
	PaymentMethod *models.PaymentMethod
	Tags          []string
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	FromDate           *time.Time
	ToDate             *time.Time
	CategoryID         *string
	IsRecurring        *bool
	RecurringExpenseID *string
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID string, input ExpenseInput) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// RecurringExpenseInput holds the fields of a create or update request.
// Nil fields keep their stored value on update and take their default on
// create. NextDue is never accepted from callers.
type RecurringExpenseInput struct {
	CategoryID   *string
	Title        *string
	Amount       *decimal.Decimal
	Frequency    *recurrence.Frequency
	CycleDetails *recurrence.CycleDetails
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Active       *bool
	AutoCreate   *bool
	ReminderDays *int
	Description  *string
	Tags         []string
}

// RecurringExpenseServicer defines the contract for the recurrence engine and
// the recurring expense lifecycle.
type RecurringExpenseServicer interface {
	PreviewNextDue(freq recurrence.Frequency, cd recurrence.CycleDetails, from time.Time) (time.Time, error)
	PreviewOccurrences(freq recurrence.Frequency, cd recurrence.CycleDetails, from time.Time, count int) ([]time.Time, error)
	DeriveStatus(schedule *models.RecurringExpense, now time.Time) recurrence.Status
	UpsertRecurringExpense(ctx context.Context, userID, id string, input RecurringExpenseInput) (*models.RecurringExpense, error)
	GetRecurringExpense(ctx context.Context, userID, id string) (*models.RecurringExpense, error)
	ListRecurringExpenses(ctx context.Context, userID string, filter repository.ScheduleFilter) ([]models.RecurringExpense, error)
	GetUpcoming(ctx context.Context, userID string, days int) ([]models.RecurringExpense, error)
	DeleteRecurringExpense(ctx context.Context, userID, id string) error
	ToggleRecurringExpense(ctx context.Context, userID, id string) (*models.RecurringExpense, error)
	RunScheduledScan(ctx context.Context, now time.Time) (*BatchResult, error)
	RunScheduledScanForUser(ctx context.Context, userID string, now time.Time) (*BatchResult, error)
	MaterializeOne(ctx context.Context, userID, id string, effectiveDate *time.Time) (*ManualMaterialization, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
