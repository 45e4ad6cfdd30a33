package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseBody(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestPipelineAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		sent       string
		wantStatus int
		wantCode   string
	}{
		{"matching key", "pipeline-key", "pipeline-key", http.StatusOK, ""},
		{"wrong key", "pipeline-key", "other-key", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"prefix of key", "pipeline-key", "pipeline", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"missing key", "pipeline-key", "", http.StatusUnauthorized, "INVALID_API_KEY"},
		{"not configured", "", "pipeline-key", http.StatusServiceUnavailable, "PIPELINE_NOT_CONFIGURED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			r := gin.New()
			r.Use(PipelineAuthMiddleware(tt.configured))
			r.POST("/pipeline/recurring/process", func(c *gin.Context) {
				reached = true
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/pipeline/recurring/process", http.NoBody)
			if tt.sent != "" {
				req.Header.Set("X-API-Key", tt.sent)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode == "" {
				if !reached {
					t.Error("expected handler to run")
				}
				return
			}
			if reached {
				t.Error("handler ran despite rejected key")
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}
