package sync

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

func newBreaker(name string, logger zerolog.Logger) *gobreaker.CircuitBreaker[*RemoteRef] {
	settings := gobreaker.Settings{
		Name:     name,
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}
	return gobreaker.NewCircuitBreaker[*RemoteRef](settings)
}

// BreakerCalendar shields the booking flow from a flapping calendar
// provider. An open breaker fails fast; the failure is recorded like any
// other sync failure.
type BreakerCalendar struct {
	inner   CalendarAdapter
	breaker *gobreaker.CircuitBreaker[*RemoteRef]
}

func WithCalendarBreaker(inner CalendarAdapter, logger zerolog.Logger) *BreakerCalendar {
	return &BreakerCalendar{
		inner:   inner,
		breaker: newBreaker("calendar", logger),
	}
}

func (b *BreakerCalendar) CreateEvent(ctx context.Context, req EventRequest) (*RemoteRef, error) {
	return b.breaker.Execute(func() (*RemoteRef, error) {
		return b.inner.CreateEvent(ctx, req)
	})
}

func (b *BreakerCalendar) IsConfigured() bool { return b.inner.IsConfigured() }

type BreakerCrm struct {
	inner   CrmAdapter
	breaker *gobreaker.CircuitBreaker[*RemoteRef]
}

func WithCrmBreaker(inner CrmAdapter, logger zerolog.Logger) *BreakerCrm {
	return &BreakerCrm{
		inner:   inner,
		breaker: newBreaker("crm", logger),
	}
}

func (b *BreakerCrm) CreateAppointment(ctx context.Context, req AppointmentRequest) (*RemoteRef, error) {
	return b.breaker.Execute(func() (*RemoteRef, error) {
		return b.inner.CreateAppointment(ctx, req)
	})
}

func (b *BreakerCrm) IsConfigured() bool { return b.inner.IsConfigured() }
