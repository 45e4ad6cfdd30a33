package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/logger"
)

func init() {
	logger.Init("test")
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestWriteError(t *testing.T) {
	r := gin.New()
	r.GET("/field", func(c *gin.Context) {
		WriteError(c, apperrors.WithField(apperrors.ErrValidation, "amount", "must be greater than 0"))
	})
	r.GET("/wrapped", func(c *gin.Context) {
		WriteError(c, apperrors.Wrap(apperrors.ErrMaterializationFailed, errors.New("disk full")))
	})
	r.GET("/plain", func(c *gin.Context) {
		WriteError(c, errors.New("pq: connection reset"))
	})

	t.Run("includes field", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/field", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		errObj := parseBody(t, rec)["error"].(map[string]interface{})
		if errObj["field"] != "amount" {
			t.Errorf("expected field amount, got %v", errObj["field"])
		}
	})

	t.Run("keeps sentinel status and hides internal cause", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/wrapped", nil)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if errorCode(t, rec) != "MATERIALIZATION_FAILED" {
			t.Errorf("unexpected body %s", rec.Body.String())
		}
	})

	t.Run("plain errors become INTERNAL_ERROR", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/plain", nil)
		if rec.Code != http.StatusInternalServerError || errorCode(t, rec) != "INTERNAL_ERROR" {
			t.Errorf("unexpected response %d %s", rec.Code, rec.Body.String())
		}
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperrors.ErrRecurringExpenseNotFound)
	})
	r.GET("/bind", func(c *gin.Context) {
		_ = c.Error(errors.New("page must be a number")).SetType(gin.ErrorTypeBind)
	})
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"ok": true})
		_ = c.Error(errors.New("after write"))
	})

	if rec := serve(r, http.MethodGet, "/app", nil); rec.Code != http.StatusNotFound || errorCode(t, rec) != "RECURRING_EXPENSE_NOT_FOUND" {
		t.Errorf("app error: got %d %s", rec.Code, rec.Body.String())
	}
	if rec := serve(r, http.MethodGet, "/bind", nil); rec.Code != http.StatusBadRequest || errorCode(t, rec) != "INVALID_INPUT" {
		t.Errorf("bind error: got %d %s", rec.Code, rec.Body.String())
	}
	if rec := serve(r, http.MethodGet, "/written", nil); rec.Code != http.StatusTeapot {
		t.Errorf("expected the handler's response to stand, got %d", rec.Code)
	}
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})

	t.Run("generates an id", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/ping", nil)
		id := rec.Header().Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("expected uuid request id, got %q", id)
		}
		if rec.Body.String() != id {
			t.Errorf("expected handler to see %q, got %q", id, rec.Body.String())
		}
	})

	t.Run("reuses a valid incoming id", func(t *testing.T) {
		incoming := uuid.NewString()
		rec := serve(r, http.MethodGet, "/ping", http.Header{"X-Request-Id": {incoming}})
		if got := rec.Header().Get("X-Request-ID"); got != incoming {
			t.Errorf("expected %q, got %q", incoming, got)
		}
	})

	t.Run("replaces a malformed incoming id", func(t *testing.T) {
		rec := serve(r, http.MethodGet, "/ping", http.Header{"X-Request-Id": {"<script>"}})
		if got := rec.Header().Get("X-Request-ID"); got == "<script>" {
			t.Error("expected malformed id to be replaced")
		}
	})
}
