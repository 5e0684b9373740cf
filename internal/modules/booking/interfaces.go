package booking

import (
	"context"
	"time"

	"consultly/internal/domain"
	"consultly/internal/repository"
)

// BookingRepository is the booking ledger.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	SetRemoteRef(ctx context.Context, id int64, system domain.SyncSystem, remoteID string, joinLink string, syncedAt time.Time) error
	Cancel(ctx context.Context, id int64, reason string) error
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
}

// SlotRepository is the slot store; Claim must be atomic per slot.
type SlotRepository interface {
	Claim(ctx context.Context, slotID int64) error
	Release(ctx context.Context, slotID int64) error
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
}

// SyncLogRepository appends sync attempts; it never mutates prior entries.
type SyncLogRepository interface {
	Append(ctx context.Context, e *domain.SyncLogEntry) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.SyncLogEntry, error)
	Latest(ctx context.Context, bookingID int64, system domain.SyncSystem) (*domain.SyncLogEntry, error)
}

// AuditRepository appends entity-mutation records.
type AuditRepository interface {
	Append(ctx context.Context, e *domain.AuditLogEntry) error
}

// NotificationSender pushes booking lifecycle events to connected admin
// panels. Best effort; failures are ignored.
type NotificationSender interface {
	NotifyBookingCreated(b *domain.Booking)
	NotifyBookingStatusChanged(b *domain.Booking)
}
