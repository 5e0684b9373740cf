package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consultly/internal/domain"
	"consultly/internal/repository"
	syncx "consultly/internal/sync"
)

// In-memory stores backing the handler tests. Claim mirrors the conditional
// update semantics of the real repository: exactly one caller wins.

type memSlots struct {
	mu    sync.Mutex
	slots map[int64]*domain.TimeSlot
}

func (m *memSlots) Claim(ctx context.Context, slotID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[slotID]
	if !ok {
		return repository.ErrNotFound
	}
	if s.IsBooked {
		return repository.ErrSlotAlreadyBooked
	}
	s.IsBooked = true
	return nil
}

func (m *memSlots) Release(ctx context.Context, slotID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.slots[slotID]; ok {
		s.IsBooked = false
	}
	return nil
}

func (m *memSlots) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

type memBookings struct {
	mu   sync.Mutex
	next int64
	rows map[int64]*domain.Booking
}

func (m *memBookings) Create(ctx context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	b.ID = m.next
	cp := *b
	m.rows[b.ID] = &cp
	return nil
}

func (m *memBookings) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookings) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.rows[id]; ok {
		b.Status = status
	}
	return nil
}

func (m *memBookings) SetRemoteRef(ctx context.Context, id int64, system domain.SyncSystem, remoteID string, joinLink string, syncedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	switch system {
	case domain.SystemGoogleCalendar:
		b.CalendarEventID = &remoteID
		if joinLink != "" {
			b.CalendarJoinLink = &joinLink
		}
		b.CalendarSyncedAt = &syncedAt
	case domain.SystemOdoo:
		b.CrmAppointmentID = &remoteID
		b.CrmSyncedAt = &syncedAt
	}
	return nil
}

func (m *memBookings) Cancel(ctx context.Context, id int64, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.rows[id]; ok {
		now := time.Now()
		b.Status = domain.BookingCancelled
		b.CancellationReason = reason
		b.CancelledAt = &now
	}
	return nil
}

func (m *memBookings) List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Booking, 0, len(m.rows))
	for _, b := range m.rows {
		out = append(out, *b)
	}
	return out, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *memSlots, *memBookings, *recordingSyncLog) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	slots := &memSlots{slots: map[int64]*domain.TimeSlot{
		7: {ID: 7, AvailabilityID: 1, StartTime: start, EndTime: start.Add(time.Hour)},
	}}
	bookings := &memBookings{rows: map[int64]*domain.Booking{}}
	syncLog := &recordingSyncLog{}

	svc := NewService(
		bookings, slots, syncLog, &recordingAudit{},
		&fakeCalendar{configured: true, ref: &syncx.RemoteRef{RemoteID: "evt_1", JoinLink: "https://meet.example.com/x"}},
		&fakeCrm{configured: true, ref: &syncx.RemoteRef{RemoteID: "901"}},
		nil, time.Second, zerolog.Nop(),
	)

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, slots, bookings, syncLog
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateBooking_ThenConflict(t *testing.T) {
	r, slots, bookings, _ := newTestRouter(t)

	body := map[string]any{
		"fullName": "Dana Whitfield",
		"email":    "dana@example.com",
		"phone":    "+15550100",
		"slotId":   7,
	}

	w := postJSON(r, "/api/v1/bookings", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)

	var result BookingResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, domain.BookingConfirmed, result.Booking.Status)
	assert.Equal(t, domain.OutcomeSuccess, result.SyncStatus.Calendar)
	assert.Equal(t, domain.OutcomeSuccess, result.SyncStatus.Crm)
	assert.Len(t, result.SyncResults, 2)

	// Same slot again: the claim must lose.
	w2 := postJSON(r, "/api/v1/bookings", body)
	require.Equal(t, http.StatusConflict, w2.Code, w2.Body.String())

	var env2 envelope
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &env2))
	assert.False(t, env2.Success)
	require.NotNil(t, env2.Error)
	assert.Equal(t, "SLOT_UNAVAILABLE", env2.Error.Code)

	// One booking, one claimed slot.
	assert.Len(t, bookings.rows, 1)
	assert.True(t, slots.slots[7].IsBooked)
}

func TestHandler_CreateBooking_ValidationError(t *testing.T) {
	r, _, bookings, _ := newTestRouter(t)

	w := postJSON(r, "/api/v1/bookings", map[string]any{
		"fullName": "Dana Whitfield",
		"slotId":   7,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Empty(t, bookings.rows)
}

func TestHandler_CreateBooking_UnknownSlot(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	w := postJSON(r, "/api/v1/bookings", map[string]any{
		"fullName": "Dana Whitfield",
		"email":    "dana@example.com",
		"phone":    "+15550100",
		"slotId":   999,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_RetrySync(t *testing.T) {
	r, _, _, syncLog := newTestRouter(t)

	w := postJSON(r, "/api/v1/bookings", map[string]any{
		"fullName": "Dana Whitfield",
		"email":    "dana@example.com",
		"phone":    "+15550100",
		"slotId":   7,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	before := len(syncLog.entries)
	w2 := postJSON(r, "/api/v1/bookings/1/sync", map[string]any{"system": "ODOO"})
	require.Equal(t, http.StatusOK, w2.Code, w2.Body.String())
	assert.Len(t, syncLog.entries, before+1)
}

func TestHandler_RetrySync_UnknownSystem(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	w := postJSON(r, "/api/v1/bookings/1/sync", map[string]any{"system": "SALESFORCE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_RetrySync_NotFound(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	w := postJSON(r, "/api/v1/bookings/55/sync", map[string]any{"system": "ODOO"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
