package services

import (
	"testing"

	"budgettracker/internal/models"
	"budgettracker/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("alice@example.com", "password123", "Alice")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected email alice@example.com, got %s", user.Email)
		}
		if user.Name != "Alice" {
			t.Errorf("expected name Alice, got %s", user.Name)
		}
		if !user.IsActive {
			t.Error("expected user to be active")
		}
	})

	t.Run("seeds_default_categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("seed@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.Category{}).Where("user_id = ?", user.ID).Count(&count)
		if int(count) != len(models.DefaultCategories()) {
			t.Errorf("expected %d default categories, got %d", len(models.DefaultCategories()), count)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP@example.com", "password456", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("empty_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("test@example.com", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("email_normalized_to_lowercase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Alice@EXAMPLE.COM", "password123", "")
		testutil.AssertNoError(t, err)

		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})
}

func TestGetUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created := testutil.CreateTestUserWithEmail(t, db, "found@example.com")
		user, err := svc.GetUserByEmail("found@example.com")
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Errorf("expected user ID %s, got %s", created.ID, user.ID)
		}
	})

	t.Run("inactive_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user := testutil.CreateTestUserWithEmail(t, db, "inactive@example.com")
		db.Model(user).Update("is_active", false)

		_, err := svc.GetUserByEmail("inactive@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestGetUserByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	created := testutil.CreateTestUser(t, db)
	user, err := svc.GetUserByID(created.ID)
	testutil.AssertNoError(t, err)
	if user.Email != created.Email {
		t.Errorf("expected email %s, got %s", created.Email, user.Email)
	}

	_, err = svc.GetUserByID("missing")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_records_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		// Fixture uses "password123" with bcrypt.MinCost
		testutil.CreateTestUserWithEmail(t, db, "login@example.com")

		user, err := svc.AttemptLogin("login@example.com", "password123")
		testutil.AssertNoError(t, err)

		if user.LastLoginAt == nil {
			t.Error("expected LastLoginAt to be set after successful login")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		testutil.CreateTestUserWithEmail(t, db, "fail@example.com")

		_, err := svc.AttemptLogin("fail@example.com", "wrongpassword")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("updates_name_and_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created := testutil.CreateTestUser(t, db)

		user, err := svc.UpdateProfile(created.ID, "Bob", "Bob@Example.com")
		testutil.AssertNoError(t, err)

		if user.Name != "Bob" || user.Email != "bob@example.com" {
			t.Errorf("expected Bob/bob@example.com, got %s/%s", user.Name, user.Email)
		}
	})

	t.Run("email_taken", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		testutil.CreateTestUserWithEmail(t, db, "taken@example.com")
		created := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateProfile(created.ID, "", "taken@example.com")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}
