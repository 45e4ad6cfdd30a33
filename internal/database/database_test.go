package database

import (
	"path/filepath"
	"testing"

	"budgettracker/internal/config"
	"budgettracker/internal/logger"
	"budgettracker/internal/models"
)

func TestSQLiteManager(t *testing.T) {
	logger.Init("test")

	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer m.Close()

	if err := m.RunMigrations(); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	for _, model := range models.All() {
		if !m.DB().Migrator().HasTable(model) {
			t.Errorf("expected table for %T", model)
		}
	}
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := NewManager(&config.Config{DBDriver: "mysql"})
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestPostgresURL(t *testing.T) {
	cfg := &config.Config{
		DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "bt", DBSSLMode: "disable",
	}
	want := "postgres://u:p@db:5432/bt?sslmode=disable"
	if got := PostgresURL(cfg); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
