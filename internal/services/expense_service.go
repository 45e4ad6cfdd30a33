package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
	"budgettracker/internal/recurrence"
)

// Field limits for one-off expenses.
const (
	MaxRemarksLength = 200
	MaxTagLength     = 20
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db, now: time.Now}
}

// CreateExpense records a one-off expense. Recurring-derived expenses can only
// be produced by the recurrence engine.
func (s *expenseService) CreateExpense(userID string, input ExpenseInput) (*models.Expense, error) {
	if input.IsRecurring {
		return nil, apperrors.ErrRecurringExpenseLink
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}
	if err := s.checkCategory(userID, input.CategoryID); err != nil {
		return nil, err
	}

	method := input.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCard
	}

	expense := &models.Expense{
		UserID:        userID,
		CategoryID:    input.CategoryID,
		Amount:        input.Amount,
		Date:          input.Date,
		Remarks:       input.Remarks,
		PaymentMethod: method,
		Tags:          input.Tags,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetExpenseByID(userID, expense.ID)
}

// GetUserExpenses retrieves a paginated, filtered list of expenses, newest first.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	q := applyExpenseFilters(s.db.Model(&models.Expense{}).Where("user_id = ?", userID), filter).
		Order("date DESC, id DESC")

	result, err := pagination.Find[models.Expense](q, page, preloadCategory)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

func preloadCategory(db *gorm.DB) *gorm.DB {
	return db.Preload("Category")
}

func applyExpenseFilters(q *gorm.DB, f ExpenseFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.IsRecurring != nil {
		q = q.Where("is_recurring = ?", *f.IsRecurring)
	}
	if f.RecurringExpenseID != nil {
		q = q.Where("recurring_expense_id = ?", *f.RecurringExpenseID)
	}
	return q
}

// GetExpenseByID retrieves an expense by ID for a specific user
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense applies the non-nil fields of update.
func (s *expenseService) UpdateExpense(userID, expenseID string, update ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.CategoryID != nil && *update.CategoryID != expense.CategoryID {
		if err := s.checkCategory(userID, *update.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *update.CategoryID
	}
	if update.Amount != nil {
		if err := validationError(recurrence.ValidateAmount(*update.Amount)); err != nil {
			return nil, err
		}
		updates["amount"] = *update.Amount
	}
	if update.Date != nil {
		if update.Date.After(s.now()) {
			return nil, apperrors.WithField(apperrors.ErrValidation, "date", "cannot be in the future")
		}
		updates["date"] = *update.Date
	}
	if update.Remarks != nil {
		if len(*update.Remarks) > MaxRemarksLength {
			return nil, apperrors.WithField(apperrors.ErrValidation, "remarks", "cannot exceed 200 characters")
		}
		updates["remarks"] = *update.Remarks
	}
	if update.PaymentMethod != nil {
		updates["payment_method"] = *update.PaymentMethod
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(expense).Updates(updates).Error; err != nil {
				return err
			}
		}
		if update.Tags != nil {
			if err := checkTags(update.Tags); err != nil {
				return err
			}
			expense.Tags = update.Tags
			if err := tx.Model(expense).Select("tags").Updates(expense).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetExpenseByID(userID, expenseID)
}

// DeleteExpense soft-deletes an expense. A recurring schedule's ledger keeps
// its entry for the deleted expense.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *expenseService) validate(input ExpenseInput) error {
	if err := validationError(recurrence.ValidateAmount(input.Amount)); err != nil {
		return err
	}
	if input.Date.IsZero() {
		return apperrors.WithField(apperrors.ErrValidation, "date", "is required")
	}
	if input.Date.After(s.now()) {
		return apperrors.WithField(apperrors.ErrValidation, "date", "cannot be in the future")
	}
	if len(input.Remarks) > MaxRemarksLength {
		return apperrors.WithField(apperrors.ErrValidation, "remarks", "cannot exceed 200 characters")
	}
	return checkTags(input.Tags)
}

func (s *expenseService) checkCategory(userID, categoryID string) error {
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", categoryID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

func checkTags(tags []string) error {
	for _, tag := range tags {
		if len(tag) > MaxTagLength {
			return apperrors.WithField(apperrors.ErrValidation, "tags", "tag cannot exceed 20 characters")
		}
	}
	return nil
}
