// Package history keeps a SQLite log of layout operations.
package history

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

// Connect opens (creating if needed) the history database at dbPath and
// migrates its schema.
func Connect(dbPath string) (*DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("history database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	h := &DB{db}
	if err := h.Initialize(); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

func (db *DB) Initialize() error {
	if err := db.AutoMigrate(&Event{}); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
