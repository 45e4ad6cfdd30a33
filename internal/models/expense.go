package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod represents how an expense was paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodDigital      PaymentMethod = "digital"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodOther        PaymentMethod = "other"
)

// Expense is a concrete spending record. Expenses with IsRecurring set are
// created by the recurrence engine and point back at their schedule.
type Expense struct {
	Base
	UserID             string          `gorm:"type:uuid;not null;index:idx_expenses_user_date" json:"user_id"`
	CategoryID         string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Date               time.Time       `gorm:"not null;index:idx_expenses_user_date" json:"date"`
	Remarks            string          `gorm:"size:200" json:"remarks"`
	PaymentMethod      PaymentMethod   `gorm:"size:20;not null" json:"payment_method"`
	Tags               []string        `gorm:"serializer:json" json:"tags"`
	IsRecurring        bool            `gorm:"not null" json:"is_recurring"`
	RecurringExpenseID *string         `gorm:"type:uuid;index:idx_expenses_occurrence" json:"recurring_expense_id,omitempty"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
