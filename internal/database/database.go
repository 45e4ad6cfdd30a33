package database

import (
	"fmt"
	"time"

	"budgettracker/internal/config"
	"budgettracker/internal/logger"
	"budgettracker/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MigrationsSource is the golang-migrate source URL for the SQL migrations.
const MigrationsSource = "file://migrations"

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	driver string
	dsn    string
}

// PostgresURL returns the postgres:// URL golang-migrate expects.
func PostgresURL(cfg *config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
}

func postgresDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
}

// NewManager opens the database selected by cfg.DBDriver.
func NewManager(cfg *config.Config) (*Manager, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return openPostgres(cfg)
	case config.DriverSQLite:
		return openSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func openPostgres(cfg *config.Config) (*Manager, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  postgresDSN(cfg),
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db, driver: config.DriverPostgres, dsn: PostgresURL(cfg)}, nil
}

func openSQLite(path string) (*Manager, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows a single writer.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &Manager{db: db, driver: config.DriverSQLite, dsn: path}, nil
}

// RunMigrations brings the schema up to date. Postgres applies the SQL
// migrations from the migrations/ directory; SQLite is auto-migrated from the
// models.
func (m *Manager) RunMigrations() error {
	logger.Get().Infow("Running database migrations", "driver", m.driver)

	if m.driver == config.DriverSQLite {
		if err := m.db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		logger.Get().Info("Database migrations completed successfully")
		return nil
	}

	mig, err := migrate.New(MigrationsSource, m.dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
