package availability

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"consultly/internal/domain"
	"consultly/internal/repository"
)

type MockAvailabilityRepository struct {
	mock.Mock
}

func (m *MockAvailabilityRepository) Create(ctx context.Context, a *domain.Availability) error {
	args := m.Called(ctx, a)
	if a != nil && args.Error(0) == nil {
		a.ID = 11
	}
	return args.Error(0)
}

func (m *MockAvailabilityRepository) GetByID(ctx context.Context, id int64) (*domain.Availability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

func (m *MockAvailabilityRepository) Update(ctx context.Context, a *domain.Availability) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) List(ctx context.Context, from, to time.Time, onlyActive bool) ([]domain.Availability, error) {
	args := m.Called(ctx, from, to, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Availability), args.Error(1)
}

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) CreateBatch(ctx context.Context, slots []domain.TimeSlot) error {
	args := m.Called(ctx, slots)
	return args.Error(0)
}

func (m *MockSlotRepository) DeleteByAvailability(ctx context.Context, availabilityID int64) error {
	args := m.Called(ctx, availabilityID)
	return args.Error(0)
}

func (m *MockSlotRepository) CountBookedByAvailability(ctx context.Context, availabilityID int64) (int64, error) {
	args := m.Called(ctx, availabilityID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSlotRepository) List(ctx context.Context, f repository.SlotFilter) ([]domain.TimeSlot, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeSlot), args.Error(1)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, e *domain.AuditLogEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func TestGenerateSlots_FullDay(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)

	slots, err := GenerateSlots(start, end, 60)
	require.NoError(t, err)
	require.Len(t, slots, 8)

	// Contiguous, non-overlapping, first starts at the window start and the
	// last ends at the window end.
	assert.True(t, slots[0].StartTime.Equal(start))
	assert.True(t, slots[len(slots)-1].EndTime.Equal(end))
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].StartTime.Equal(slots[i-1].EndTime))
	}
	for _, s := range slots {
		assert.Equal(t, time.Hour, s.EndTime.Sub(s.StartTime))
	}
}

func TestGenerateSlots_DropsShortTail(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	// 9:00-10:30 at 60 min yields one slot; the 30-minute tail is dropped.
	slots, err := GenerateSlots(start, start.Add(90*time.Minute), 60)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].EndTime.Equal(start.Add(time.Hour)))
}

func TestGenerateSlots_WindowShorterThanDuration(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	slots, err := GenerateSlots(start, start.Add(45*time.Minute), 60)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_InvalidWindow(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	_, err := GenerateSlots(start, start, 60)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = GenerateSlots(start.Add(time.Hour), start, 60)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = GenerateSlots(start, start.Add(time.Hour), 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCreate_GeneratesAndStoresSlots(t *testing.T) {
	availabilities := new(MockAvailabilityRepository)
	slots := new(MockSlotRepository)
	audit := new(MockAuditRepository)

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	req := CreateAvailabilityRequest{
		Title:           "Weekday consultations",
		StaffName:       "Jordan Reeves",
		StartTime:       start,
		EndTime:         start.Add(4 * time.Hour),
		SlotDurationMin: 60,
	}

	availabilities.On("Create", mock.Anything, mock.Anything).Return(nil)
	slots.On("CreateBatch", mock.Anything, mock.MatchedBy(func(batch []domain.TimeSlot) bool {
		if len(batch) != 4 {
			return false
		}
		for _, s := range batch {
			if s.AvailabilityID != 11 {
				return false
			}
		}
		return true
	})).Return(nil)
	audit.On("Append", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(availabilities, slots, audit, zerolog.Nop())
	a, err := svc.Create(context.Background(), req, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(11), a.ID)
	assert.Len(t, a.Slots, 4)
	slots.AssertExpectations(t)
}

func TestUpdate_RefusedWhileSlotsBooked(t *testing.T) {
	availabilities := new(MockAvailabilityRepository)
	slots := new(MockSlotRepository)

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	availabilities.On("GetByID", mock.Anything, int64(11)).Return(&domain.Availability{ID: 11}, nil)
	slots.On("CountBookedByAvailability", mock.Anything, int64(11)).Return(int64(2), nil)

	svc := NewService(availabilities, slots, new(MockAuditRepository), zerolog.Nop())
	_, err := svc.Update(context.Background(), 11, UpdateAvailabilityRequest{
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		SlotDurationMin: 60,
	}, nil)

	assert.ErrorIs(t, err, ErrHasActiveBookings)
	slots.AssertNotCalled(t, "DeleteByAvailability", mock.Anything, mock.Anything)
}

func TestUpdate_RegeneratesSlots(t *testing.T) {
	availabilities := new(MockAvailabilityRepository)
	slots := new(MockSlotRepository)
	audit := new(MockAuditRepository)

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	availabilities.On("GetByID", mock.Anything, int64(11)).Return(&domain.Availability{ID: 11}, nil)
	slots.On("CountBookedByAvailability", mock.Anything, int64(11)).Return(int64(0), nil)
	availabilities.On("Update", mock.Anything, mock.Anything).Return(nil)
	slots.On("DeleteByAvailability", mock.Anything, int64(11)).Return(nil)
	slots.On("CreateBatch", mock.Anything, mock.MatchedBy(func(batch []domain.TimeSlot) bool {
		return len(batch) == 6
	})).Return(nil)
	audit.On("Append", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(availabilities, slots, audit, zerolog.Nop())
	a, err := svc.Update(context.Background(), 11, UpdateAvailabilityRequest{
		StartTime:       start,
		EndTime:         start.Add(3 * time.Hour),
		SlotDurationMin: 30,
	}, nil)
	require.NoError(t, err)
	assert.Len(t, a.Slots, 6)
}

func TestDelete_RefusedWhileSlotsBooked(t *testing.T) {
	availabilities := new(MockAvailabilityRepository)
	slots := new(MockSlotRepository)

	availabilities.On("GetByID", mock.Anything, int64(11)).Return(&domain.Availability{ID: 11}, nil)
	slots.On("CountBookedByAvailability", mock.Anything, int64(11)).Return(int64(1), nil)

	svc := NewService(availabilities, slots, new(MockAuditRepository), zerolog.Nop())
	err := svc.Delete(context.Background(), 11, nil)

	assert.ErrorIs(t, err, ErrHasActiveBookings)
	availabilities.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_NotFound(t *testing.T) {
	availabilities := new(MockAvailabilityRepository)
	availabilities.On("GetByID", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound)

	svc := NewService(availabilities, new(MockSlotRepository), new(MockAuditRepository), zerolog.Nop())
	err := svc.Delete(context.Background(), 99, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
