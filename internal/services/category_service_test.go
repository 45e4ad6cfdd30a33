package services

import (
	"testing"
	"time"

	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
	"budgettracker/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, "Groceries", "#FF0000", "cart", "Food shopping")
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected category ID")
		}
		if cat.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %s", cat.Name)
		}
		if cat.Description != "Food shopping" {
			t.Errorf("expected description 'Food shopping', got %s", cat.Description)
		}
	})

	t.Run("defaults_color_and_icon", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, "Misc", "", "", "")
		testutil.AssertNoError(t, err)

		if cat.Color != "#3B82F6" || cat.Icon != "tag" {
			t.Errorf("expected default color and icon, got %s/%s", cat.Color, cat.Icon)
		}
	})

	t.Run("duplicate_name_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "Food", "", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, "food", "", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "  ", "", "", "")
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("duplicate_name_different_users_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user1.ID, "Rent", "", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user2.ID, "Rent", "", "", "")
		testutil.AssertNoError(t, err)
	})
}

func TestGetUserCategories(t *testing.T) {
	t.Run("returns_user_categories_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestCategory(t, db, user1.ID)
		testutil.CreateTestCategory(t, db, user1.ID)
		testutil.CreateTestCategory(t, db, user2.ID)

		result, err := svc.GetUserCategories(user1.ID, pagination.PageRequest{Page: 1, PageSize: 20})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 || len(result.Data) != 2 {
			t.Errorf("expected 2 categories for user1, got %d/%d", result.TotalItems, len(result.Data))
		}
	})

	t.Run("pagination", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 5; i++ {
			testutil.CreateTestCategory(t, db, user.ID)
		}

		result, err := svc.GetUserCategories(user.ID, pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 5 {
			t.Errorf("expected 5 total items, got %d", result.TotalItems)
		}
		if len(result.Data) != 2 {
			t.Errorf("expected 2 items on page 1, got %d", len(result.Data))
		}
		if result.TotalPages != 3 {
			t.Errorf("expected 3 total pages, got %d", result.TotalPages)
		}
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("renames", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestCategory(t, db, user.ID)

		cat, err := svc.UpdateCategory(user.ID, created.ID, "Utilities", "#10B981", "", "")
		testutil.AssertNoError(t, err)

		if cat.Name != "Utilities" || cat.Color != "#10B981" {
			t.Errorf("expected updated name and color, got %s/%s", cat.Name, cat.Color)
		}
	})

	t.Run("rename_to_existing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		existing := testutil.CreateTestCategory(t, db, user.ID)
		other := testutil.CreateTestCategory(t, db, user.ID)

		_, err := svc.UpdateCategory(user.ID, other.ID, existing.Name, "", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateCategory(user.ID, "missing", "X", "", "", "")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("unused", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, cat.ID))

		_, err := svc.GetCategoryByID(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("used_by_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		testutil.CreateTestExpense(t, db, user.ID, cat.ID, "12.50", time.Now().AddDate(0, 0, -1))

		err := svc.DeleteCategory(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})

	t.Run("used_by_recurring_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		testutil.CreateTestRecurringExpense(t, db, user.ID, cat.ID, time.Now())

		err := svc.DeleteCategory(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})
}

func TestInitializeDefaults(t *testing.T) {
	t.Run("seeds_defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		categories, err := svc.InitializeDefaults(user.ID)
		testutil.AssertNoError(t, err)

		if len(categories) != len(models.DefaultCategories()) {
			t.Errorf("expected %d categories, got %d", len(models.DefaultCategories()), len(categories))
		}
		for _, cat := range categories {
			if !cat.IsDefault || cat.UserID != user.ID {
				t.Errorf("expected default category owned by user, got %+v", cat)
			}
		}
	})

	t.Run("already_initialized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategory(t, db, user.ID)

		_, err := svc.InitializeDefaults(user.ID)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
