// Package sync defines the contracts between the booking workflow and the
// external systems a booking is mirrored to. Adapters validate remote
// responses at this boundary and hand back tagged RemoteRef values; the
// orchestrator never sees raw provider payloads.
package sync

import (
	"context"
	"time"
)

// EventRequest is the calendar-side projection of a booking.
type EventRequest struct {
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	TimeZone    string
	Attendees   []string
}

// AppointmentRequest is the CRM-side projection of a booking.
type AppointmentRequest struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	StartTime     time.Time
	EndTime       time.Time
	Notes         string
}

// RemoteRef identifies the created object in the external system.
type RemoteRef struct {
	RemoteID string
	JoinLink string
}

// CalendarAdapter mirrors bookings into an external calendar.
type CalendarAdapter interface {
	CreateEvent(ctx context.Context, req EventRequest) (*RemoteRef, error)
	IsConfigured() bool
}

// CrmAdapter mirrors bookings into an external CRM appointment system.
type CrmAdapter interface {
	CreateAppointment(ctx context.Context, req AppointmentRequest) (*RemoteRef, error)
	IsConfigured() bool
}
