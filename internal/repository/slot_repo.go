package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"consultly/internal/domain"
)

type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

type slotModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	AvailabilityID int64     `gorm:"column:availability_id;index"`
	StartTime      time.Time `gorm:"column:start_time"`
	EndTime        time.Time `gorm:"column:end_time"`
	IsBooked       bool      `gorm:"column:is_booked"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (slotModel) TableName() string { return "time_slots" }

func toDomainSlot(m slotModel) *domain.TimeSlot {
	return &domain.TimeSlot{
		ID:             m.ID,
		AvailabilityID: m.AvailabilityID,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		IsBooked:       m.IsBooked,
		CreatedAt:      m.CreatedAt,
	}
}

// Claim flips is_booked false->true with a single conditional UPDATE. The
// WHERE guard makes concurrent claims on the same slot yield exactly one
// winner; everyone else sees ErrSlotAlreadyBooked.
func (r *SlotRepository) Claim(ctx context.Context, slotID int64) error {
	tx := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("id = ? AND is_booked = ?", slotID, false).
		Update("is_booked", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		var cnt int64
		if err := r.db.WithContext(ctx).Model(&slotModel{}).Where("id = ?", slotID).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return ErrNotFound
		}
		return ErrSlotAlreadyBooked
	}
	return nil
}

// Release flips is_booked back to false, used on booking cancellation.
func (r *SlotRepository) Release(ctx context.Context, slotID int64) error {
	tx := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("id = ?", slotID).
		Update("is_booked", false)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	var m slotModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainSlot(m), nil
}

func (r *SlotRepository) CreateBatch(ctx context.Context, slots []domain.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}
	models := make([]slotModel, 0, len(slots))
	for _, s := range slots {
		models = append(models, slotModel{
			AvailabilityID: s.AvailabilityID,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			IsBooked:       s.IsBooked,
		})
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

// DeleteByAvailability removes all slots of a window. The caller is expected
// to run the booked-slot guard first.
func (r *SlotRepository) DeleteByAvailability(ctx context.Context, availabilityID int64) error {
	return r.db.WithContext(ctx).
		Where("availability_id = ?", availabilityID).
		Delete(&slotModel{}).Error
}

// CountBookedByAvailability backs the HasActiveBookings guard.
func (r *SlotRepository) CountBookedByAvailability(ctx context.Context, availabilityID int64) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Where("availability_id = ? AND is_booked = ?", availabilityID, true).
		Count(&cnt)
	return cnt, tx.Error
}

type SlotFilter struct {
	AvailabilityID int64
	From           time.Time
	To             time.Time
	OnlyFree       bool
}

func (r *SlotRepository) List(ctx context.Context, f SlotFilter) ([]domain.TimeSlot, error) {
	q := r.db.WithContext(ctx).Model(&slotModel{})
	if f.AvailabilityID > 0 {
		q = q.Where("availability_id = ?", f.AvailabilityID)
	}
	if !f.From.IsZero() {
		q = q.Where("start_time >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("end_time <= ?", f.To)
	}
	if f.OnlyFree {
		q = q.Where("is_booked = ?", false)
	}

	var models []slotModel
	if err := q.Order("start_time ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.TimeSlot, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainSlot(m))
	}
	return out, nil
}
