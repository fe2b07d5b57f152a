// Package database opens the gorm connection and keeps the schema current.
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stockstalk/internal/logger"
	"stockstalk/internal/models"
)

// Manager owns the connection pool for the lifetime of the process.
type Manager struct {
	db     *gorm.DB
	config *Config
}

func dialector(c *Config) gorm.Dialector {
	if c.Driver == "sqlite" {
		return sqlite.Open(c.SQLitePath + "?_foreign_keys=on")
	}
	return postgres.New(postgres.Config{DSN: c.DSN(), PreferSimpleProtocol: true})
}

// NewManager connects to the database selected by config.Driver. Driver
// errors are translated, so unique violations surface as
// gorm.ErrDuplicatedKey.
func NewManager(config *Config) (*Manager, error) {
	db, err := gorm.Open(dialector(config), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", config.Driver, err)
	}

	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("connection pool: %w", err)
	}
	switch config.Driver {
	case "sqlite":
		// one writer; sqlite serializes anyway
		pool.SetMaxOpenConns(1)
	default:
		pool.SetMaxIdleConns(10)
		pool.SetMaxOpenConns(100)
	}
	pool.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db, config: config}, nil
}

// Migrate brings the schema up to date: versioned SQL for postgres,
// AutoMigrate from the models for sqlite.
func (m *Manager) Migrate() error {
	log := logger.Get().With("driver", m.config.Driver)
	if m.config.Driver == "sqlite" {
		if err := m.db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		log.Info("schema auto-migrated")
		return nil
	}

	mig, err := migrate.New("file://"+m.config.MigrationsDir, m.config.MigrateURL())
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warnw("migrate close", "source", srcErr, "database", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	version, _, _ := mig.Version()
	log.Infow("schema migrated", "version", version)
	return nil
}

func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	pool, err := m.db.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}
