package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"consultly/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	Reference string `gorm:"column:reference;uniqueIndex"`

	FullName string  `gorm:"column:full_name"`
	Email    string  `gorm:"column:email"`
	Phone    string  `gorm:"column:phone"`
	Notes    *string `gorm:"column:notes"`
	Timezone string  `gorm:"column:timezone"`

	SlotID int64  `gorm:"column:slot_id;index"`
	Status string `gorm:"column:status"`

	CalendarEventID  *string    `gorm:"column:calendar_event_id"`
	CalendarJoinLink *string    `gorm:"column:calendar_join_link"`
	CalendarSyncedAt *time.Time `gorm:"column:calendar_synced_at"`
	CrmAppointmentID *string    `gorm:"column:crm_appointment_id"`
	CrmSyncedAt      *time.Time `gorm:"column:crm_synced_at"`

	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var notes, reason string
	if m.Notes != nil {
		notes = *m.Notes
	}
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	return &domain.Booking{
		ID:                 m.ID,
		Reference:          m.Reference,
		FullName:           m.FullName,
		Email:              m.Email,
		Phone:              m.Phone,
		Notes:              notes,
		Timezone:           m.Timezone,
		SlotID:             m.SlotID,
		Status:             domain.BookingStatus(m.Status),
		CalendarEventID:    m.CalendarEventID,
		CalendarJoinLink:   m.CalendarJoinLink,
		CalendarSyncedAt:   m.CalendarSyncedAt,
		CrmAppointmentID:   m.CrmAppointmentID,
		CrmSyncedAt:        m.CrmSyncedAt,
		CancellationReason: reason,
		CancelledAt:        m.CancelledAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var notes, reason *string
	if b.Notes != "" {
		v := b.Notes
		notes = &v
	}
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}

	return bookingModel{
		ID:                 b.ID,
		Reference:          b.Reference,
		FullName:           b.FullName,
		Email:              b.Email,
		Phone:              b.Phone,
		Notes:              notes,
		Timezone:           b.Timezone,
		SlotID:             b.SlotID,
		Status:             string(b.Status),
		CalendarEventID:    b.CalendarEventID,
		CalendarJoinLink:   b.CalendarJoinLink,
		CalendarSyncedAt:   b.CalendarSyncedAt,
		CrmAppointmentID:   b.CrmAppointmentID,
		CrmSyncedAt:        b.CrmSyncedAt,
		CancellationReason: reason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		// The slot claim already serializes writers; the partial unique
		// index on slot_id is the belt-and-braces layer underneath it.
		var pgErr *pgconn.PgError
		if errors.As(tx.Error, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "idx_one_active_booking_per_slot" {
			return ErrSlotConflict
		}
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRemoteRef stores the remote reference and synced-at timestamp for one
// external system.
func (r *BookingRepository) SetRemoteRef(ctx context.Context, id int64, system domain.SyncSystem, remoteID string, joinLink string, syncedAt time.Time) error {
	updates := map[string]any{}
	switch system {
	case domain.SystemGoogleCalendar:
		updates["calendar_event_id"] = remoteID
		updates["calendar_synced_at"] = syncedAt
		if joinLink != "" {
			updates["calendar_join_link"] = joinLink
		}
	case domain.SystemOdoo:
		updates["crm_appointment_id"] = remoteID
		updates["crm_synced_at"] = syncedAt
	default:
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *BookingRepository) Cancel(ctx context.Context, id int64, reason string) error {
	now := time.Now()
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":              string(domain.BookingCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        &now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type BookingFilter struct {
	Status string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&bookingModel{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at <= ?", f.To)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var models []bookingModel
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}
