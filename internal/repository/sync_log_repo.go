package repository

import (
	"context"

	"gorm.io/gorm"

	"consultly/internal/domain"
)

// SyncLogRepository is append-only on purpose: there is no update method,
// every attempt becomes its own row.
type SyncLogRepository struct {
	db *gorm.DB
}

func NewSyncLogRepository(db *gorm.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

func (r *SyncLogRepository) Append(ctx context.Context, e *domain.SyncLogEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *SyncLogRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.SyncLogEntry, error) {
	var out []domain.SyncLogEntry
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// Latest returns the most recent entry for a booking and system, or
// ErrNotFound when no attempt was ever made.
func (r *SyncLogRepository) Latest(ctx context.Context, bookingID int64, system domain.SyncSystem) (*domain.SyncLogEntry, error) {
	var e domain.SyncLogEntry
	tx := r.db.WithContext(ctx).
		Where("booking_id = ? AND system = ?", bookingID, string(system)).
		Order("created_at DESC, id DESC").
		First(&e)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return &e, nil
}
