package database

import (
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"consultly/internal/domain"
)

// Connect opens PostgreSQL for postgres:// DSNs and falls back to the pure-Go
// SQLite driver for local development.
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate applies the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Service{},
		&domain.Availability{},
		&domain.TimeSlot{},
		&domain.Booking{},
		&domain.SyncLogEntry{},
		&domain.AuditLogEntry{},
		&domain.Lead{},
	); err != nil {
		return err
	}

	// At most one non-cancelled booking per slot. The slot claim enforces
	// this at runtime; the partial index keeps the invariant even if a code
	// path slips past it.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_booking_per_slot
		 ON bookings (slot_id) WHERE status != 'cancelled'`,
	).Error
}
