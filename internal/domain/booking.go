package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type Booking struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference" gorm:"uniqueIndex"`

	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Notes    string `json:"notes,omitempty" gorm:"type:text"`
	Timezone string `json:"timezone,omitempty"`

	// SlotID is immutable after creation; the slot itself stays owned
	// by its availability window.
	SlotID int64         `json:"slot_id" validate:"required"`
	Status BookingStatus `json:"status"`

	CalendarEventID  *string    `json:"calendar_event_id,omitempty"`
	CalendarJoinLink *string    `json:"calendar_join_link,omitempty"`
	CalendarSyncedAt *time.Time `json:"calendar_synced_at,omitempty"`
	CrmAppointmentID *string    `json:"crm_appointment_id,omitempty"`
	CrmSyncedAt      *time.Time `json:"crm_synced_at,omitempty"`

	CancellationReason string     `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Slot     *TimeSlot      `json:"slot,omitempty" gorm:"foreignKey:SlotID"`
	SyncLogs []SyncLogEntry `json:"sync_logs,omitempty" gorm:"foreignKey:BookingID"`
}

// IsActive reports whether the booking still holds its slot.
func (b *Booking) IsActive() bool {
	return b.Status != BookingCancelled
}

// RemoteRefFor returns the stored remote reference for a sync system, if any.
func (b *Booking) RemoteRefFor(system SyncSystem) *string {
	switch system {
	case SystemGoogleCalendar:
		return b.CalendarEventID
	case SystemOdoo:
		return b.CrmAppointmentID
	}
	return nil
}
