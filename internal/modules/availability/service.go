package availability

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"consultly/internal/domain"
	"consultly/internal/repository"
)

type Service struct {
	availabilities AvailabilityRepository
	slots          SlotRepository
	audit          AuditRepository
	logger         zerolog.Logger
}

func NewService(availabilities AvailabilityRepository, slots SlotRepository, audit AuditRepository, logger zerolog.Logger) *Service {
	return &Service{
		availabilities: availabilities,
		slots:          slots,
		audit:          audit,
		logger:         logger,
	}
}

// GenerateSlots partitions a window into contiguous fixed-duration slots.
// A tail remainder shorter than the duration is dropped, never emitted as a
// short slot.
func GenerateSlots(start, end time.Time, durationMinutes int) ([]domain.TimeSlot, error) {
	if durationMinutes <= 0 || !end.After(start) {
		return nil, ErrInvalidWindow
	}

	step := time.Duration(durationMinutes) * time.Minute
	slots := make([]domain.TimeSlot, 0, int(end.Sub(start)/step))
	for cur := start; !cur.Add(step).After(end); cur = cur.Add(step) {
		slots = append(slots, domain.TimeSlot{
			StartTime: cur,
			EndTime:   cur.Add(step),
		})
	}
	return slots, nil
}

func (s *Service) Create(ctx context.Context, req CreateAvailabilityRequest, actorID *int64) (*domain.Availability, error) {
	slots, err := GenerateSlots(req.StartTime, req.EndTime, req.SlotDurationMin)
	if err != nil {
		return nil, err
	}

	a := &domain.Availability{
		Title:           req.Title,
		StaffName:       req.StaffName,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		SlotDurationMin: req.SlotDurationMin,
		IsActive:        true,
	}
	if err := s.availabilities.Create(ctx, a); err != nil {
		return nil, err
	}

	for i := range slots {
		slots[i].AvailabilityID = a.ID
	}
	if err := s.slots.CreateBatch(ctx, slots); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, domain.AuditCreate, a.ID, actorID, map[string]any{
		"start": a.StartTime,
		"end":   a.EndTime,
		"slots": len(slots),
	})

	a.Slots = slots
	return a, nil
}

// Update regenerates the window's slots. Refused while any slot is booked:
// silently dropping a claimed slot would orphan its booking.
func (s *Service) Update(ctx context.Context, id int64, req UpdateAvailabilityRequest, actorID *int64) (*domain.Availability, error) {
	a, err := s.availabilities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.guardNoActiveBookings(ctx, id); err != nil {
		return nil, err
	}

	slots, err := GenerateSlots(req.StartTime, req.EndTime, req.SlotDurationMin)
	if err != nil {
		return nil, err
	}

	a.Title = req.Title
	a.StaffName = req.StaffName
	a.StartTime = req.StartTime
	a.EndTime = req.EndTime
	a.SlotDurationMin = req.SlotDurationMin
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if err := s.availabilities.Update(ctx, a); err != nil {
		return nil, err
	}

	if err := s.slots.DeleteByAvailability(ctx, id); err != nil {
		return nil, err
	}
	for i := range slots {
		slots[i].AvailabilityID = id
	}
	if err := s.slots.CreateBatch(ctx, slots); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, domain.AuditUpdate, id, actorID, map[string]any{
		"start": a.StartTime,
		"end":   a.EndTime,
		"slots": len(slots),
	})

	a.Slots = slots
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64, actorID *int64) error {
	if _, err := s.availabilities.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.guardNoActiveBookings(ctx, id); err != nil {
		return err
	}

	if err := s.slots.DeleteByAvailability(ctx, id); err != nil {
		return err
	}
	if err := s.availabilities.Delete(ctx, id); err != nil {
		return err
	}

	s.recordAudit(ctx, domain.AuditDelete, id, actorID, nil)
	return nil
}

func (s *Service) List(ctx context.Context, from, to time.Time, onlyActive bool) ([]domain.Availability, error) {
	return s.availabilities.List(ctx, from, to, onlyActive)
}

func (s *Service) ListSlots(ctx context.Context, f repository.SlotFilter) ([]domain.TimeSlot, error) {
	return s.slots.List(ctx, f)
}

func (s *Service) guardNoActiveBookings(ctx context.Context, availabilityID int64) error {
	booked, err := s.slots.CountBookedByAvailability(ctx, availabilityID)
	if err != nil {
		return err
	}
	if booked > 0 {
		return ErrHasActiveBookings
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, action domain.AuditAction, entityID int64, actorID *int64, meta map[string]any) {
	var metadata string
	if meta != nil {
		if raw, err := json.Marshal(meta); err == nil {
			metadata = string(raw)
		}
	}
	e := &domain.AuditLogEntry{
		Action:   action,
		Entity:   "availability",
		EntityID: entityID,
		ActorID:  actorID,
		Metadata: metadata,
	}
	if err := s.audit.Append(ctx, e); err != nil {
		s.logger.Error().Err(err).Int64("availability_id", entityID).Msg("append audit log")
	}
}
