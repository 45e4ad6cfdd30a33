package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"budgettracker/internal/recurrence"
	"budgettracker/internal/uuid"
)

// RecurringExpense is a schedule that produces an Expense every cycle.
//
// NextDue is owned by the recurrence engine: it is recomputed from StartDate
// when the cycle definition changes and advanced from its previous value after
// every materialization. CreatedExpenses is an append-only ledger.
type RecurringExpense struct {
	Base
	UserID            string                  `gorm:"type:uuid;not null;index:idx_recurring_user_active" json:"user_id"`
	CategoryID        string                  `gorm:"type:uuid;not null" json:"category_id"`
	Title             string                  `gorm:"size:50;not null" json:"title"`
	Amount            decimal.Decimal         `gorm:"type:numeric(12,2);not null" json:"amount"`
	Frequency         recurrence.Frequency    `gorm:"size:10;not null" json:"frequency"`
	CycleDetails      recurrence.CycleDetails `gorm:"embedded" json:"cycle_details"`
	StartDate         time.Time               `gorm:"not null" json:"start_date"`
	EndDate           *time.Time              `json:"end_date,omitempty"`
	NextDue           time.Time               `gorm:"not null;index:idx_recurring_active_next_due" json:"next_due"`
	LastProcessedDate *time.Time              `json:"last_processed_date,omitempty"`
	Active            bool                    `gorm:"not null;index:idx_recurring_user_active;index:idx_recurring_active_next_due" json:"active"`
	AutoCreate        bool                    `gorm:"not null" json:"auto_create"`
	ReminderDays      int                     `gorm:"not null" json:"reminder_days"`
	Description       string                  `gorm:"size:200" json:"description"`
	Tags              []string                `gorm:"serializer:json" json:"tags"`

	// Derived on read, never persisted.
	Status       recurrence.Status `gorm:"-" json:"status,omitempty"`
	DaysUntilDue *int              `gorm:"-" json:"days_until_due,omitempty"`

	// Relationships
	Category        *Category               `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedExpenses []RecurringExpenseEntry `gorm:"foreignKey:RecurringExpenseID" json:"created_expenses,omitempty"`
}

// RecurringExpenseEntry is one ledger row: an expense materialized from a
// schedule. Entries are inserted once and never updated or removed.
type RecurringExpenseEntry struct {
	ID                 string          `gorm:"type:uuid;primaryKey" json:"id"`
	RecurringExpenseID string          `gorm:"type:uuid;not null;index" json:"recurring_expense_id"`
	ExpenseID          string          `gorm:"type:uuid;not null" json:"expense_id"`
	DateCreated        time.Time       `gorm:"not null" json:"date_created"`
	Amount             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
}

// BeforeCreate assigns a UUIDv7 to new ledger entries.
func (e *RecurringExpenseEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New()
	}
	return nil
}

// Definition extracts the user-controlled fields checked by recurrence.Validate.
func (r *RecurringExpense) Definition() recurrence.Definition {
	return recurrence.Definition{
		Title:        r.Title,
		Amount:       r.Amount,
		Frequency:    r.Frequency,
		CycleDetails: r.CycleDetails,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		ReminderDays: r.ReminderDays,
		Description:  r.Description,
		Tags:         r.Tags,
	}
}

// DeriveStatus reports the schedule status as of now.
func (r *RecurringExpense) DeriveStatus(now time.Time) recurrence.Status {
	return recurrence.DeriveStatus(r.Active, r.NextDue, r.ReminderDays, now)
}

// Annotate fills the derived Status and DaysUntilDue fields as of now.
func (r *RecurringExpense) Annotate(now time.Time) {
	days := recurrence.DaysUntilDue(r.NextDue, now)
	r.DaysUntilDue = &days
	r.Status = r.DeriveStatus(now)
}

// EndedBy reports whether the schedule's end date has been reached at t.
func (r *RecurringExpense) EndedBy(t time.Time) bool {
	return r.EndDate != nil && !r.EndDate.After(t)
}
