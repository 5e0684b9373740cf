package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"consultly/internal/domain"
)

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) Create(ctx context.Context, a *domain.Availability) error {
	return r.db.WithContext(ctx).Omit("Slots").Create(a).Error
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*domain.Availability, error) {
	var a domain.Availability
	tx := r.db.WithContext(ctx).First(&a, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return &a, nil
}

func (r *AvailabilityRepository) Update(ctx context.Context, a *domain.Availability) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Availability{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"title":             a.Title,
			"staff_name":        a.StaffName,
			"start_time":        a.StartTime,
			"end_time":          a.EndTime,
			"slot_duration_min": a.SlotDurationMin,
			"is_active":         a.IsActive,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&domain.Availability{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AvailabilityRepository) List(ctx context.Context, from, to time.Time, onlyActive bool) ([]domain.Availability, error) {
	q := r.db.WithContext(ctx).Model(&domain.Availability{})
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	if !from.IsZero() {
		q = q.Where("end_time >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("start_time <= ?", to)
	}

	var out []domain.Availability
	err := q.Order("start_time ASC").Find(&out).Error
	return out, err
}
