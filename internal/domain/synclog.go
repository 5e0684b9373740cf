package domain

import "time"

type SyncSystem string

const (
	SystemGoogleCalendar SyncSystem = "GOOGLE_CALENDAR"
	SystemOdoo           SyncSystem = "ODOO"
)

// ParseSyncSystem validates a wire value into a SyncSystem.
func ParseSyncSystem(s string) (SyncSystem, bool) {
	switch SyncSystem(s) {
	case SystemGoogleCalendar, SystemOdoo:
		return SyncSystem(s), true
	}
	return "", false
}

type SyncAction string

const (
	SyncActionCreate      SyncAction = "CREATE"
	SyncActionRetryCreate SyncAction = "RETRY_CREATE"
	SyncActionUpdate      SyncAction = "UPDATE"
	SyncActionDelete      SyncAction = "DELETE"
)

type SyncStatus string

const (
	SyncSuccess SyncStatus = "SUCCESS"
	SyncFailed  SyncStatus = "FAILED"
	SyncPending SyncStatus = "PENDING"
)

// SyncLogEntry records one synchronization attempt against one external
// system. Entries are append-only: a failed attempt is never overwritten,
// a retry adds a new row.
type SyncLogEntry struct {
	ID        int64      `json:"id"`
	BookingID int64      `json:"booking_id"`
	System    SyncSystem `json:"system"`
	Action    SyncAction `json:"action"`
	Status    SyncStatus `json:"status"`
	Error     string     `json:"error,omitempty" gorm:"type:text"`
	RemoteID  string     `json:"remote_id,omitempty"`
	Metadata  string     `json:"metadata,omitempty" gorm:"type:text"`
	CreatedAt time.Time  `json:"created_at"`
}

// SyncOutcome is the per-system summary returned to the booking caller.
type SyncOutcome string

const (
	OutcomeSuccess       SyncOutcome = "SUCCESS"
	OutcomeFailed        SyncOutcome = "FAILED"
	OutcomeNotConfigured SyncOutcome = "NOT_CONFIGURED"
)
