package models

import (
	"time"

	"budgettracker/internal/uuid"

	"gorm.io/gorm"
)

// Base is embedded by every soft-deletable table. IDs are UUIDv7 strings.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate assigns an ID unless the caller set one.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// All returns every model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Expense{},
		&RecurringExpense{},
		&RecurringExpenseEntry{},
		&AuditLog{},
	}
}
