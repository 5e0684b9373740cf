package booking

import "consultly/internal/domain"

type CreateBookingRequest struct {
	FullName string `json:"fullName" binding:"required" validate:"required"`
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Phone    string `json:"phone" binding:"required" validate:"required"`
	Notes    string `json:"notes"`
	SlotID   int64  `json:"slotId" binding:"required" validate:"required,gt=0"`
	Timezone string `json:"timezone"`
	UserID   *int64 `json:"userId"`
}

type RetrySyncRequest struct {
	System string `json:"system" binding:"required"`
}

// SyncStatusSummary is the per-system outcome returned alongside a booking.
type SyncStatusSummary struct {
	Calendar domain.SyncOutcome `json:"calendar"`
	Crm      domain.SyncOutcome `json:"crm"`
}

// BookingResult is the fully hydrated outcome of createBooking.
type BookingResult struct {
	Booking     *domain.Booking       `json:"booking"`
	SyncStatus  SyncStatusSummary     `json:"syncStatus"`
	SyncResults []domain.SyncLogEntry `json:"syncResults"`
}

// RetryResult reports one retried sync attempt.
type RetryResult struct {
	System  domain.SyncSystem    `json:"system"`
	Outcome domain.SyncOutcome   `json:"outcome"`
	Entry   *domain.SyncLogEntry `json:"entry,omitempty"`
	Booking *domain.Booking      `json:"booking"`
}
