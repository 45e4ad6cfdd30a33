package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
)

const (
	defaultCategoryColor = "#3B82F6"
	defaultCategoryIcon  = "tag"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(userID, name, color, icon, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithField(apperrors.ErrValidation, "name", "is required")
	}

	if err := s.checkDuplicateName(userID, name, ""); err != nil {
		return nil, err
	}

	if color == "" {
		color = defaultCategoryColor
	}
	if icon == "" {
		icon = defaultCategoryIcon
	}

	category := &models.Category{
		UserID:      userID,
		Name:        name,
		Color:       color,
		Icon:        icon,
		Description: description,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories retrieves a paginated list of categories for a user.
func (s *categoryService) GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	q := s.db.Model(&models.Category{}).Where("user_id = ?", userID).Order("name ASC")

	result, err := pagination.Find[models.Category](q, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates an existing category
func (s *categoryService) UpdateCategory(userID, categoryID, name, color, icon, description string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name = strings.TrimSpace(name); name != "" && name != category.Name {
		if err := s.checkDuplicateName(userID, name, categoryID); err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if color != "" {
		updates["color"] = color
	}
	if icon != "" {
		updates["icon"] = icon
	}
	if description != "" {
		updates["description"] = description
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory soft-deletes a category that no expense or recurring
// expense refers to.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	var expenseCount, scheduleCount int64
	if err := s.db.Model(&models.Expense{}).Where("category_id = ?", categoryID).Count(&expenseCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.RecurringExpense{}).Where("category_id = ?", categoryID).Count(&scheduleCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if expenseCount > 0 || scheduleCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// InitializeDefaults seeds the default category set for a user who has none.
func (s *categoryService) InitializeDefaults(userID string) ([]models.Category, error) {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user already has categories")
	}

	categories, err := seedDefaultCategories(s.db, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

func (s *categoryService) checkDuplicateName(userID, name, excludeID string) error {
	q := s.db.Model(&models.Category{}).Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(name))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

func seedDefaultCategories(db *gorm.DB, userID string) ([]models.Category, error) {
	categories := models.DefaultCategories()
	for i := range categories {
		categories[i].UserID = userID
		categories[i].IsDefault = true
	}
	if err := db.Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
