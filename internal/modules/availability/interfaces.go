package availability

import (
	"context"
	"time"

	"consultly/internal/domain"
	"consultly/internal/repository"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, a *domain.Availability) error
	GetByID(ctx context.Context, id int64) (*domain.Availability, error)
	Update(ctx context.Context, a *domain.Availability) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, from, to time.Time, onlyActive bool) ([]domain.Availability, error)
}

type SlotRepository interface {
	CreateBatch(ctx context.Context, slots []domain.TimeSlot) error
	DeleteByAvailability(ctx context.Context, availabilityID int64) error
	CountBookedByAvailability(ctx context.Context, availabilityID int64) (int64, error)
	List(ctx context.Context, f repository.SlotFilter) ([]domain.TimeSlot, error)
}

type AuditRepository interface {
	Append(ctx context.Context, e *domain.AuditLogEntry) error
}
