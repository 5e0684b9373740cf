package admin

import (
	"context"

	"consultly/internal/domain"
	"consultly/internal/repository"
)

// BookingManager is the slice of the booking orchestrator the admin panel
// needs.
type BookingManager interface {
	ListBookings(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	Confirm(ctx context.Context, id int64, actorID *int64) (*domain.Booking, error)
	Complete(ctx context.Context, id int64, actorID *int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string, actorID *int64) (*domain.Booking, error)
}

type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]domain.AuditLogEntry, error)
}

type LeadRepository interface {
	List(ctx context.Context, status string, limit, offset int) ([]domain.Lead, error)
	UpdateStatus(ctx context.Context, id int64, status domain.LeadStatus) error
}
