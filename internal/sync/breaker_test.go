package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCrm struct {
	ref   *RemoteRef
	err   error
	calls int
}

func (s *stubCrm) CreateAppointment(ctx context.Context, req AppointmentRequest) (*RemoteRef, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.ref, nil
}

func (s *stubCrm) IsConfigured() bool { return true }

func TestCrmBreaker_PassesThrough(t *testing.T) {
	inner := &stubCrm{ref: &RemoteRef{RemoteID: "901"}}
	b := WithCrmBreaker(inner, zerolog.Nop())

	ref, err := b.CreateAppointment(context.Background(), AppointmentRequest{})
	require.NoError(t, err)
	assert.Equal(t, "901", ref.RemoteID)
	assert.True(t, b.IsConfigured())
}

func TestCrmBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &stubCrm{err: errors.New("odoo: 503")}
	b := WithCrmBreaker(inner, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := b.CreateAppointment(ctx, AppointmentRequest{})
		require.Error(t, err)
	}

	// Open breaker fails fast without reaching the adapter.
	callsBefore := inner.calls
	_, err := b.CreateAppointment(ctx, AppointmentRequest{})
	require.Error(t, err)
	assert.Equal(t, callsBefore, inner.calls)
}

type stubCalendar struct {
	ref *RemoteRef
	err error
}

func (s *stubCalendar) CreateEvent(ctx context.Context, req EventRequest) (*RemoteRef, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ref, nil
}

func (s *stubCalendar) IsConfigured() bool { return true }

func TestCalendarBreaker_PassesThrough(t *testing.T) {
	inner := &stubCalendar{ref: &RemoteRef{RemoteID: "evt_1", JoinLink: "https://meet.example.com/x"}}
	b := WithCalendarBreaker(inner, zerolog.Nop())

	ref, err := b.CreateEvent(context.Background(), EventRequest{})
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ref.RemoteID)
	assert.Equal(t, "https://meet.example.com/x", ref.JoinLink)
}
