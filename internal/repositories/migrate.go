package repositories

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"task-assignment/backend/internal/models"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type MigrationConfig struct {
	Driver     string
	DBName     string
	MaxRetries int
	RetryDelay time.Duration
}

func DefaultMigrationConfig() *MigrationConfig {
	return &MigrationConfig{
		Driver:     "sqlite",
		DBName:     "task_assignment",
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

// RunMigrations brings the schema up to date. Postgres uses the embedded SQL
// migrations; sqlite is migrated from the gorm models.
func RunMigrations(db *gorm.DB, config *MigrationConfig, log logrus.FieldLogger) error {
	if config == nil {
		config = DefaultMigrationConfig()
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := waitForDatabase(sqlDB, config.MaxRetries, config.RetryDelay, log); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	switch config.Driver {
	case "postgres":
		return runSQLMigrations(sqlDB, config, log)
	case "sqlite":
		log.Info("🔄 Auto-migrating sqlite schema")
		return AutoMigrate(db)
	default:
		return fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Task{})
}

func newMigrator(sqlDB *sql.DB, config *MigrationConfig) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{
		DatabaseName:    config.DBName,
		MigrationsTable: "schema_migrations",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, config.DBName, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

func runSQLMigrations(sqlDB *sql.DB, config *MigrationConfig, log logrus.FieldLogger) error {
	m, err := newMigrator(sqlDB, config)
	if err != nil {
		return err
	}

	currentVersion, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info("📋 No migrations applied yet")
	case err != nil:
		log.WithError(err).Warn("⚠️  Could not get current migration version")
	default:
		log.WithFields(logrus.Fields{"version": currentVersion, "dirty": dirty}).Info("📋 Current migration version")
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("✅ Database schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get final migration version: %w", err)
	}
	log.WithFields(logrus.Fields{"version": finalVersion, "dirty": dirty}).Info("✅ Database migrations completed")
	return nil
}

func RollbackMigration(db *gorm.DB, config *MigrationConfig) error {
	if config == nil {
		config = DefaultMigrationConfig()
	}
	if config.Driver != "postgres" {
		return fmt.Errorf("rollback is only supported for postgres, got %q", config.Driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	m, err := newMigrator(sqlDB, config)
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	return nil
}

func waitForDatabase(db *sql.DB, maxRetries int, retryDelay time.Duration, log logrus.FieldLogger) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	for i := 0; i < maxRetries; i++ {
		if err := db.Ping(); err == nil {
			return nil
		}
		if i < maxRetries-1 {
			log.Infof("⏳ Database not ready, retrying in %v... (attempt %d/%d)", retryDelay, i+1, maxRetries)
			time.Sleep(retryDelay)
		}
	}
	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}
