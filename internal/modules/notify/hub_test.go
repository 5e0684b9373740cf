package notify

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consultly/internal/domain"
)

func newConn(userID int64) *connection {
	return &connection{userID: userID, send: make(chan []byte, 8)}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c1 := newConn(1)
	c2 := newConn(2)
	h.register(c1)
	h.register(c2)

	h.NotifyBookingCreated(&domain.Booking{ID: 42, Status: domain.BookingConfirmed})

	for _, c := range []*connection{c1, c2} {
		select {
		case raw := <-c.send:
			var e Event
			require.NoError(t, json.Unmarshal(raw, &e))
			assert.Equal(t, EventBookingCreated, e.Type)
		default:
			t.Fatalf("client %d received nothing", c.userID)
		}
	}
}

func TestHub_SlowClientIsSkipped(t *testing.T) {
	h := NewHub(zerolog.Nop())
	slow := &connection{userID: 1, send: make(chan []byte)} // unbuffered, no reader
	h.register(slow)

	// Must not block.
	h.NotifyBookingStatusChanged(&domain.Booking{ID: 42})
}

func TestHub_RegisterReplacesExistingConnection(t *testing.T) {
	h := NewHub(zerolog.Nop())
	old := newConn(1)
	h.register(old)

	replacement := newConn(1)
	h.register(replacement)

	// The old channel is closed so its write pump shuts down.
	_, open := <-old.send
	assert.False(t, open)

	h.NotifyBookingCreated(&domain.Booking{ID: 42})
	assert.Len(t, replacement.send, 1)
}

func TestHub_UnregisterOnlyRemovesOwnConnection(t *testing.T) {
	h := NewHub(zerolog.Nop())
	old := newConn(1)
	h.register(old)

	replacement := newConn(1)
	h.register(replacement)

	// The stale connection leaving must not evict its replacement.
	h.unregister(old)

	h.NotifyBookingCreated(&domain.Booking{ID: 42})
	assert.Len(t, replacement.send, 1)
}
