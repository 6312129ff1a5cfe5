// Package storage provides the GORM-based database layer for suitadmin.
//
// Only state that belongs to suitadmin itself is stored here: dashboard
// sessions and the attendance audit log. Rental data lives behind the remote
// API. SQLite is used for single-node deployments and PostgreSQL when several
// instances share sessions.
package storage

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"suitadmin/internal/config"
)

// Storage wraps the GORM database instance and the repositories built on it.
type Storage struct {
	db *gorm.DB

	Sessions       *SessionRepository
	AttendanceLogs *AttendanceLogRepository
}

// New opens the database described by cfg and migrates the schema.
//
// Supported drivers:
//   - "sqlite": a local file, WAL journal
//   - "postgres": shared sessions across instances
func New(cfg config.StorageConfig) (*Storage, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.DSN))
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.AutoMigrate(&Session{}, &AttendanceLog{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to auto-migrate models: %w", err)
	}

	return &Storage{
		db:             db,
		Sessions:       &SessionRepository{Repository: NewRepository[Session](db)},
		AttendanceLogs: &AttendanceLogRepository{Repository: NewRepository[AttendanceLog](db)},
	}, nil
}

// sqliteDSN enables WAL and foreign keys unless the DSN already sets options.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"
}

// DB returns the underlying GORM database instance.
func (s *Storage) DB() *gorm.DB {
	return s.db
}

// Ping checks that the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve sql.DB for closing: %w", err)
	}
	return sqlDB.Close()
}
