// Package repo implements the data persistence layer for captured chat
// messages, backed by GORM. This file contains database bootstrapping helpers
// for SQLite (pure Go driver) and the additive schema migration.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// connPragmas are applied to every pooled connection through the DSN so that
// busy handling and WAL hold for all of them, not just the first one.
var connPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
}

// schema is additive only: tables and indexes are created when absent and
// never dropped or rewritten.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS messages (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		user      TEXT    NOT NULL,
		text      TEXT    NOT NULL,
		timestamp TEXT    NOT NULL,
		reviewed  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_user_ts ON messages(user, timestamp DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_reviewed ON messages(reviewed, timestamp DESC)`,
}

// Open prepares the message store at path: it creates the parent directory,
// opens the database, and applies the schema. It returns the handle and the
// resolved absolute location of the database file (for diagnostics).
//
// Open is safe to call on every process start and never destroys data.
func Open(path string) (*gorm.DB, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolve db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, "", fmt.Errorf("create db dir: %w", err)
	}
	db, err := OpenSQLite(abs)
	if err != nil {
		return nil, "", err
	}
	if err := Migrate(db); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
		return nil, "", err
	}
	return db, abs, nil
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(withPragmas(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// WAL lets readers proceed while a write is in flight.
	var mode string
	if err := db.Raw("PRAGMA journal_mode=WAL;").Row().Scan(&mode); err != nil {
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// Migrate creates the messages table and its two supporting indexes if they
// are missing. One index serves per-user lookups and the latest-per-user
// aggregation; the other serves the unreviewed queue.
func Migrate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range schema {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}

// withPragmas appends connection PRAGMAs to a DSN, preserving any query
// parameters it already carries.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	var b strings.Builder
	b.WriteString(dsn)
	for _, p := range connPragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}
