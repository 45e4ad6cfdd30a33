package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/middleware"
	"budgettracker/internal/models"
	"budgettracker/internal/services"
	"budgettracker/internal/validator"
)

const testUserID = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b"

// --- mock user service ---

type mockUserService struct {
	createUserFn     func(email, password, name string) (*models.User, error)
	getUserByEmailFn func(email string) (*models.User, error)
	getUserByIDFn    func(id string) (*models.User, error)
	verifyPasswordFn func(user *models.User, password string) bool
	attemptLoginFn   func(email, password string) (*models.User, error)
	updateProfileFn  func(userID, name, email string) (*models.User, error)
}

func (m *mockUserService) CreateUser(email, password, name string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, password, name)
	}
	return &models.User{Base: models.Base{ID: testUserID}, Email: email, Name: name, IsActive: true}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}, Email: "test@example.com", IsActive: true}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return false
}

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return nil, apperrors.ErrInvalidCredentials
}

func (m *mockUserService) UpdateProfile(userID, name, email string) (*models.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(userID, name, email)
	}
	return &models.User{Base: models.Base{ID: userID}, Name: name, Email: email}, nil
}

var _ services.UserServicer = (*mockUserService)(nil)

// --- mock audit service ---

type auditCall struct {
	userID, action, resourceType, resourceID string
}

type mockAuditService struct {
	calls []auditCall
}

func (m *mockAuditService) Log(userID, action, resourceType, resourceID, _ string, _ map[string]interface{}) {
	m.calls = append(m.calls, auditCall{userID, action, resourceType, resourceID})
}

func (m *mockAuditService) lastAction() string {
	if len(m.calls) == 0 {
		return ""
	}
	return m.calls[len(m.calls)-1].action
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/refresh", handler.Refresh)
	r.GET("/profile", injectUserID(testUserID), handler.GetProfile)
	r.PUT("/profile", injectUserID(testUserID), handler.UpdateProfile)
	return r
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with tokens", func(t *testing.T) {
		audit := &mockAuditService{}
		handler := NewAuthHandler(&mockUserService{}, audit)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"email":"test@example.com","password":"password123","name":"Alice"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["access_token"] == nil || result["access_token"] == "" {
			t.Error("expected non-empty access_token")
		}
		if result["refresh_token"] == nil || result["refresh_token"] == "" {
			t.Error("expected non-empty refresh_token")
		}
		user := result["user"].(map[string]interface{})
		if user["email"] != "test@example.com" {
			t.Errorf("expected email test@example.com, got %v", user["email"])
		}
		if audit.lastAction() != "REGISTER" {
			t.Errorf("expected REGISTER audit, got %q", audit.lastAction())
		}
	})

	t.Run("returns 400 on missing email", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"email":"test@example.com","password":"short"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(_, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"email":"dup@example.com","password":"password123"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 on valid credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(email, _ string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: testUserID}, Email: email}, nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"test@example.com","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["access_token"] == "" {
			t.Error("expected access_token")
		}
	})

	t.Run("returns 401 on bad credentials", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"test@example.com","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	user := &models.User{Base: models.Base{ID: testUserID}, Email: "test@example.com", IsActive: true}

	t.Run("returns new tokens for refresh token", func(t *testing.T) {
		refresh, err := middleware.GenerateRefreshToken(user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/refresh", `{"refresh_token":"`+refresh+`"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("rejects access token", func(t *testing.T) {
		access, _ := middleware.GenerateAccessToken(user)
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/refresh", `{"refresh_token":"`+access+`"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	t.Run("get returns user", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["id"] != testUserID {
			t.Errorf("expected id %s, got %v", testUserID, user["id"])
		}
	})

	t.Run("update rejects invalid email", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockAuditService{})
		r := setupAuthRouter(handler)

		rec := doRequest(r, "PUT", "/profile", `{"email":"nope"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("update returns user and audits", func(t *testing.T) {
		audit := &mockAuditService{}
		handler := NewAuthHandler(&mockUserService{}, audit)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "PUT", "/profile", `{"name":"Bob"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if audit.lastAction() != "UPDATE_PROFILE" {
			t.Errorf("expected UPDATE_PROFILE audit, got %q", audit.lastAction())
		}
	})
}
