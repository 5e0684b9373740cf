package repository

import (
	"context"

	"gorm.io/gorm"

	"consultly/internal/domain"
)

// AuditRepository records entity mutations. Append-only, same contract as
// the sync log.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, e *domain.AuditLogEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.AuditLogEntry
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
