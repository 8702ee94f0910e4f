// Package database owns the GORM connection and schema migration.
package database

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/talentmarket/shiftpulse/pkg/shift"
)

// Worker represents the workers table.
type Worker struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"unique;not null" json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Workplace represents the workplaces table. Status 0 means active.
type Workplace struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"not null" json:"name"`
	Status int    `gorm:"default:0" json:"status"`
}

// InitDB opens the database connection and migrates the schema.
// DATABASE_URL selects postgres; otherwise a sqlite file at DATA_PATH
// (default shiftpulse.db) is used.
func InitDB() (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "shiftpulse.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(&Worker{}, &Workplace{}, &shift.Shift{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}
