package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"budgettracker/internal/models"
)

// gormStore implements Store on a *gorm.DB, which may be a transaction handle.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by db.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Schedules() ScheduleStore  { return &gormScheduleStore{db: s.db} }
func (s *gormStore) Expenses() ExpenseStore    { return &gormExpenseStore{db: s.db} }
func (s *gormStore) Categories() CategoryStore { return &gormCategoryStore{db: s.db} }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- schedules ---

type gormScheduleStore struct {
	db *gorm.DB
}

func (s *gormScheduleStore) FindEligible(ctx context.Context, now time.Time, userID string) ([]models.RecurringExpense, error) {
	q := s.db.WithContext(ctx).
		Where("active = ? AND auto_create = ? AND next_due <= ?", true, true, now).
		Where("(end_date IS NULL OR end_date > ?)", now)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var schedules []models.RecurringExpense
	if err := q.Preload("Category").Order("next_due ASC").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (s *gormScheduleStore) FindByID(ctx context.Context, userID, id string) (*models.RecurringExpense, error) {
	var schedule models.RecurringExpense
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("CreatedExpenses", func(db *gorm.DB) *gorm.DB { return db.Order("date_created ASC, id ASC") }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&schedule).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &schedule, nil
}

func (s *gormScheduleStore) List(ctx context.Context, userID string, filter ScheduleFilter) ([]models.RecurringExpense, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}
	if filter.Frequency != nil {
		q = q.Where("frequency = ?", *filter.Frequency)
	}

	var schedules []models.RecurringExpense
	if err := q.Preload("Category").Order("next_due ASC").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (s *gormScheduleStore) Upcoming(ctx context.Context, userID string, from, until time.Time) ([]models.RecurringExpense, error) {
	var schedules []models.RecurringExpense
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND active = ? AND next_due >= ? AND next_due <= ?", userID, true, from, until).
		Preload("Category").
		Order("next_due ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (s *gormScheduleStore) Save(ctx context.Context, schedule *models.RecurringExpense) error {
	db := s.db.WithContext(ctx)

	var err error
	if schedule.ID == "" {
		err = db.Omit(clause.Associations).Create(schedule).Error
	} else {
		err = db.Omit(clause.Associations).Save(schedule).Error
	}
	if err != nil {
		return err
	}

	for i := range schedule.CreatedExpenses {
		entry := &schedule.CreatedExpenses[i]
		if entry.ID != "" {
			continue
		}
		entry.RecurringExpenseID = schedule.ID
		if err := db.Create(entry).Error; err != nil {
			entry.ID = ""
			return err
		}
	}
	return nil
}

func (s *gormScheduleStore) Delete(ctx context.Context, schedule *models.RecurringExpense) error {
	return s.db.WithContext(ctx).Delete(schedule).Error
}

// --- expenses ---

type gormExpenseStore struct {
	db *gorm.DB
}

func (s *gormExpenseStore) Create(ctx context.Context, expense *models.Expense) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(expense).Error
}

func (s *gormExpenseStore) FindOccurrence(ctx context.Context, scheduleID string, date time.Time) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.WithContext(ctx).
		Where("recurring_expense_id = ? AND date = ?", scheduleID, date).
		First(&expense).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &expense, nil
}

// --- categories ---

type gormCategoryStore struct {
	db *gorm.DB
}

func (s *gormCategoryStore) FindByID(ctx context.Context, userID, id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}
