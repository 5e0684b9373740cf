package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"consultly/internal/domain"
	"consultly/internal/metrics"
	"consultly/internal/pkg/validator"
	"consultly/internal/repository"
	syncx "consultly/internal/sync"
)

// Service orchestrates the booking workflow: claim the slot, persist the
// booking, fan out to the external systems, derive the final status and
// leave a complete audit trail behind. External sync failures never fail
// the enclosing call.
type Service struct {
	bookings BookingRepository
	slots    SlotRepository
	syncLog  SyncLogRepository
	audit    AuditRepository
	calendar syncx.CalendarAdapter
	crm      syncx.CrmAdapter
	notifs   NotificationSender

	syncTimeout time.Duration
	logger      zerolog.Logger
}

func NewService(
	bookings BookingRepository,
	slots SlotRepository,
	syncLog SyncLogRepository,
	audit AuditRepository,
	calendar syncx.CalendarAdapter,
	crm syncx.CrmAdapter,
	notifs NotificationSender,
	syncTimeout time.Duration,
	logger zerolog.Logger,
) *Service {
	if syncTimeout <= 0 {
		syncTimeout = 15 * time.Second
	}
	return &Service{
		bookings:    bookings,
		slots:       slots,
		syncLog:     syncLog,
		audit:       audit,
		calendar:    calendar,
		crm:         crm,
		notifs:      notifs,
		syncTimeout: syncTimeout,
		logger:      logger,
	}
}

type syncResult struct {
	system  domain.SyncSystem
	outcome domain.SyncOutcome
	ref     *syncx.RemoteRef
	err     error
}

// CreateBooking runs the full workflow. Validation and slot-claim failures
// abort with nothing persisted; from the moment the booking row exists,
// nothing is rolled back: a booking whose syncs all failed stays PENDING
// with its slot claimed, so a retry cannot race another client for the slot.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResult, error) {
	if fields := validator.Validate(req); fields != nil {
		s.logger.Debug().Interface("fields", fields).Msg("booking validation failed")
		return nil, ErrValidation
	}

	slot, err := s.slots.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	if err := s.slots.Claim(ctx, req.SlotID); err != nil {
		if errors.Is(err, repository.ErrSlotAlreadyBooked) || errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	b := &domain.Booking{
		Reference: uuid.NewString(),
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		Timezone:  req.Timezone,
		SlotID:    req.SlotID,
		Status:    domain.BookingPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		// The claim has no booking to justify it; hand the slot back.
		if relErr := s.slots.Release(ctx, req.SlotID); relErr != nil {
			s.logger.Error().Err(relErr).Int64("slot_id", req.SlotID).Msg("release after failed create")
		}
		if errors.Is(err, repository.ErrSlotConflict) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}
	metrics.IncBookingCreated()

	s.recordAudit(ctx, domain.AuditCreate, "booking", b.ID, req.UserID, map[string]any{
		"reference": b.Reference,
		"slot_id":   b.SlotID,
		"email":     b.Email,
	})

	results := s.fanOut(ctx, b, slot, domain.SyncActionCreate)

	summary := SyncStatusSummary{Calendar: domain.OutcomeNotConfigured, Crm: domain.OutcomeNotConfigured}
	anySuccess := false
	for _, r := range results {
		switch r.system {
		case domain.SystemGoogleCalendar:
			summary.Calendar = r.outcome
		case domain.SystemOdoo:
			summary.Crm = r.outcome
		}
		if r.outcome == domain.OutcomeSuccess {
			anySuccess = true
		}
	}

	// At-least-one rule: a single successful mirror confirms the booking.
	// With zero systems configured it stays PENDING.
	if anySuccess {
		if err := s.bookings.UpdateStatus(ctx, b.ID, domain.BookingConfirmed); err != nil {
			s.logger.Error().Err(err).Int64("booking_id", b.ID).Msg("persist confirmed status")
		}
	}

	s.recordAudit(ctx, domain.AuditSyncComplete, "booking", b.ID, req.UserID, map[string]any{
		"calendar": summary.Calendar,
		"crm":      summary.Crm,
	})

	hydrated, err := s.GetBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		s.notifs.NotifyBookingCreated(hydrated)
	}

	return &BookingResult{
		Booking:     hydrated,
		SyncStatus:  summary,
		SyncResults: hydrated.SyncLogs,
	}, nil
}

// fanOut tries every configured system independently; each attempt yields
// exactly one appended sync-log entry. The two branches run concurrently
// and are joined here.
func (s *Service) fanOut(ctx context.Context, b *domain.Booking, slot *domain.TimeSlot, action domain.SyncAction) []syncResult {
	ch := make(chan syncResult, 2)
	pending := 0

	if s.calendar != nil && s.calendar.IsConfigured() {
		pending++
		go func() { ch <- s.attemptCalendar(ctx, b, slot) }()
	}
	if s.crm != nil && s.crm.IsConfigured() {
		pending++
		go func() { ch <- s.attemptCrm(ctx, b, slot) }()
	}

	results := make([]syncResult, 0, pending)
	for i := 0; i < pending; i++ {
		r := <-ch
		s.recordAttempt(ctx, b, action, r)
		results = append(results, r)
	}
	return results
}

func (s *Service) attemptCalendar(ctx context.Context, b *domain.Booking, slot *domain.TimeSlot) syncResult {
	callCtx, cancel := context.WithTimeout(ctx, s.syncTimeout)
	defer cancel()

	ref, err := s.calendar.CreateEvent(callCtx, syncx.EventRequest{
		Summary:     fmt.Sprintf("Consultation: %s", b.FullName),
		Description: fmt.Sprintf("Phone: %s\nEmail: %s\n\n%s", b.Phone, b.Email, b.Notes),
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		TimeZone:    b.Timezone,
		Attendees:   []string{b.Email},
	})
	if err != nil {
		return syncResult{system: domain.SystemGoogleCalendar, outcome: domain.OutcomeFailed, err: err}
	}
	return syncResult{system: domain.SystemGoogleCalendar, outcome: domain.OutcomeSuccess, ref: ref}
}

func (s *Service) attemptCrm(ctx context.Context, b *domain.Booking, slot *domain.TimeSlot) syncResult {
	callCtx, cancel := context.WithTimeout(ctx, s.syncTimeout)
	defer cancel()

	ref, err := s.crm.CreateAppointment(callCtx, syncx.AppointmentRequest{
		CustomerName:  b.FullName,
		CustomerEmail: b.Email,
		CustomerPhone: b.Phone,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
		Notes:         b.Notes,
	})
	if err != nil {
		return syncResult{system: domain.SystemOdoo, outcome: domain.OutcomeFailed, err: err}
	}
	return syncResult{system: domain.SystemOdoo, outcome: domain.OutcomeSuccess, ref: ref}
}

// recordAttempt appends the sync-log row for one resolved attempt and, on
// success, stores the remote reference on the booking.
func (s *Service) recordAttempt(ctx context.Context, b *domain.Booking, action domain.SyncAction, r syncResult) {
	entry := &domain.SyncLogEntry{
		BookingID: b.ID,
		System:    r.system,
		Action:    action,
	}

	switch r.outcome {
	case domain.OutcomeSuccess:
		entry.Status = domain.SyncSuccess
		entry.RemoteID = r.ref.RemoteID
		if r.ref.JoinLink != "" {
			entry.Metadata = fmt.Sprintf(`{"join_link":%q}`, r.ref.JoinLink)
		}
		now := time.Now()
		if err := s.bookings.SetRemoteRef(ctx, b.ID, r.system, r.ref.RemoteID, r.ref.JoinLink, now); err != nil {
			s.logger.Error().Err(err).Int64("booking_id", b.ID).Str("system", string(r.system)).Msg("store remote ref")
		}
	default:
		entry.Status = domain.SyncFailed
		entry.Error = r.err.Error()
		s.logger.Warn().Err(r.err).
			Int64("booking_id", b.ID).
			Str("system", string(r.system)).
			Msg("external sync failed")
	}

	if err := s.syncLog.Append(ctx, entry); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", b.ID).Msg("append sync log")
	}
	metrics.IncSyncAttempt(string(r.system), string(r.outcome))
}

// RetrySync re-runs the per-system sync for one booking. The slot is not
// re-claimed and the booking is not recreated; every call appends a fresh
// entry. A booking that already carries a remote reference for the system
// is treated as synced and succeeds without touching the adapter.
func (s *Service) RetrySync(ctx context.Context, bookingID int64, systemRaw string) (*RetryResult, error) {
	system, ok := domain.ParseSyncSystem(systemRaw)
	if !ok {
		return nil, ErrUnknownSystem
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if ref := b.RemoteRefFor(system); ref != nil && *ref != "" {
		entry := &domain.SyncLogEntry{
			BookingID: b.ID,
			System:    system,
			Action:    domain.SyncActionRetryCreate,
			Status:    domain.SyncSuccess,
			RemoteID:  *ref,
			Metadata:  `{"note":"already synced"}`,
		}
		if err := s.syncLog.Append(ctx, entry); err != nil {
			return nil, err
		}
		metrics.IncSyncAttempt(string(system), string(domain.OutcomeSuccess))
		return &RetryResult{System: system, Outcome: domain.OutcomeSuccess, Entry: entry, Booking: b}, nil
	}

	if !s.systemConfigured(system) {
		return &RetryResult{System: system, Outcome: domain.OutcomeNotConfigured, Booking: b}, nil
	}

	slot, err := s.slots.GetByID(ctx, b.SlotID)
	if err != nil {
		return nil, err
	}

	var r syncResult
	switch system {
	case domain.SystemGoogleCalendar:
		r = s.attemptCalendar(ctx, b, slot)
	case domain.SystemOdoo:
		r = s.attemptCrm(ctx, b, slot)
	}
	s.recordAttempt(ctx, b, domain.SyncActionRetryCreate, r)

	if r.outcome == domain.OutcomeSuccess && b.Status == domain.BookingPending {
		if err := s.bookings.UpdateStatus(ctx, b.ID, domain.BookingConfirmed); err != nil {
			s.logger.Error().Err(err).Int64("booking_id", b.ID).Msg("persist confirmed status")
		}
		s.recordAudit(ctx, domain.AuditSyncComplete, "booking", b.ID, nil, map[string]any{
			string(system): r.outcome,
			"retry":        true,
		})
	}

	updated, err := s.GetBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	entry, err := s.syncLog.Latest(ctx, b.ID, system)
	if err != nil {
		return nil, err
	}
	return &RetryResult{System: system, Outcome: r.outcome, Entry: entry, Booking: updated}, nil
}

// GetBooking returns the booking hydrated with its slot and sync history.
func (s *Service) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if slot, err := s.slots.GetByID(ctx, b.SlotID); err == nil {
		b.Slot = slot
	}
	if logs, err := s.syncLog.ListByBooking(ctx, b.ID); err == nil {
		b.SyncLogs = logs
	}
	return b, nil
}

func (s *Service) ListBookings(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error) {
	return s.bookings.List(ctx, f)
}

// Confirm forces a PENDING booking to CONFIRMED by explicit manual action.
func (s *Service) Confirm(ctx context.Context, id int64, actorID *int64) (*domain.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidStatusTransition
	}
	if err := s.bookings.UpdateStatus(ctx, id, domain.BookingConfirmed); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, domain.AuditUpdate, "booking", id, actorID, map[string]any{
		"status": domain.BookingConfirmed,
		"manual": true,
	})
	updated, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		s.notifs.NotifyBookingStatusChanged(updated)
	}
	return updated, nil
}

// Complete marks a held appointment as done. The slot stays claimed; the
// time has passed anyway.
func (s *Service) Complete(ctx context.Context, id int64, actorID *int64) (*domain.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingPending && b.Status != domain.BookingConfirmed {
		return nil, ErrInvalidStatusTransition
	}
	if err := s.bookings.UpdateStatus(ctx, id, domain.BookingCompleted); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, domain.AuditUpdate, "booking", id, actorID, map[string]any{
		"status": domain.BookingCompleted,
	})
	return s.GetBooking(ctx, id)
}

// Cancel transitions the booking to CANCELLED and releases its slot.
// Bookings are never hard-deleted.
func (s *Service) Cancel(ctx context.Context, id int64, reason string, actorID *int64) (*domain.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.BookingCancelled || b.Status == domain.BookingCompleted {
		return nil, ErrInvalidStatusTransition
	}
	if err := s.bookings.Cancel(ctx, id, reason); err != nil {
		return nil, err
	}
	if err := s.slots.Release(ctx, b.SlotID); err != nil {
		s.logger.Error().Err(err).Int64("slot_id", b.SlotID).Msg("release slot on cancel")
	}
	s.recordAudit(ctx, domain.AuditUpdate, "booking", id, actorID, map[string]any{
		"status": domain.BookingCancelled,
		"reason": reason,
	})
	updated, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		s.notifs.NotifyBookingStatusChanged(updated)
	}
	return updated, nil
}

func (s *Service) systemConfigured(system domain.SyncSystem) bool {
	switch system {
	case domain.SystemGoogleCalendar:
		return s.calendar != nil && s.calendar.IsConfigured()
	case domain.SystemOdoo:
		return s.crm != nil && s.crm.IsConfigured()
	}
	return false
}

func (s *Service) recordAudit(ctx context.Context, action domain.AuditAction, entity string, entityID int64, actorID *int64, meta map[string]any) {
	var metadata string
	if meta != nil {
		if raw, err := json.Marshal(meta); err == nil {
			metadata = string(raw)
		}
	}
	e := &domain.AuditLogEntry{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		ActorID:  actorID,
		Metadata: metadata,
	}
	if err := s.audit.Append(ctx, e); err != nil {
		s.logger.Error().Err(err).Str("entity", entity).Int64("entity_id", entityID).Msg("append audit log")
	}
}
