package database

import (
	"strings"

	"o365-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN. Postgres URLs use the postgres driver;
// anything else (file path or :memory:) is treated as SQLite, matching the
// Worker's D1 store. PreferSimpleProtocol disables prepared statement caching
// to avoid 42P05 ("prepared statement already exists") behind poolers.
func Open(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

// AutoMigrate runs migrations for the invitation ledger.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.InvitationCode{})
}
