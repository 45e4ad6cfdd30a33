package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("RECURRING_SCHEDULE", "")
	t.Setenv("RECURRING_SCHEDULER_ENABLED", "")
	t.Setenv("JWT_EXPIRES_IN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.DBDriver != DriverPostgres {
		t.Errorf("expected postgres driver, got %s", cfg.DBDriver)
	}
	if cfg.RecurringSchedule != "@every 1h" {
		t.Errorf("expected hourly schedule, got %s", cfg.RecurringSchedule)
	}
	if !cfg.RecurringSchedulerEnabled {
		t.Error("expected scheduler enabled by default")
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected 24h expiry, got %s", cfg.JWTExpirationDur)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("RECURRING_SCHEDULER_ENABLED", "false")
	t.Setenv("JWT_EXPIRES_IN", "30m")
	t.Setenv("PIPELINE_API_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DBDriver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %s", cfg.DBDriver)
	}
	if cfg.RecurringSchedulerEnabled {
		t.Error("expected scheduler disabled")
	}
	if cfg.JWTExpirationDur != 30*time.Minute {
		t.Errorf("expected 30m expiry, got %s", cfg.JWTExpirationDur)
	}
	if cfg.PipelineAPIKey != "secret" {
		t.Errorf("expected pipeline key, got %q", cfg.PipelineAPIKey)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("RECURRING_SCHEDULER_ENABLED", "maybe")
	t.Setenv("JWT_EXPIRES_IN", "forever")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.RecurringSchedulerEnabled {
		t.Error("expected default true for invalid bool")
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected 24h fallback, got %s", cfg.JWTExpirationDur)
	}
}
