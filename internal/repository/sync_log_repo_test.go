package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consultly/internal/domain"
)

func TestSyncLogRepository_AppendAndLatest(t *testing.T) {
	db := newTestDB(t)
	repo := NewSyncLogRepository(db)
	ctx := context.Background()

	first := &domain.SyncLogEntry{
		BookingID: 1,
		System:    domain.SystemOdoo,
		Action:    domain.SyncActionCreate,
		Status:    domain.SyncFailed,
		Error:     "odoo: 503",
	}
	require.NoError(t, repo.Append(ctx, first))

	second := &domain.SyncLogEntry{
		BookingID: 1,
		System:    domain.SystemOdoo,
		Action:    domain.SyncActionRetryCreate,
		Status:    domain.SyncSuccess,
		RemoteID:  "901",
	}
	require.NoError(t, repo.Append(ctx, second))

	other := &domain.SyncLogEntry{
		BookingID: 2,
		System:    domain.SystemGoogleCalendar,
		Action:    domain.SyncActionCreate,
		Status:    domain.SyncSuccess,
		RemoteID:  "evt_1",
	}
	require.NoError(t, repo.Append(ctx, other))

	entries, err := repo.ListByBooking(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Oldest first; the failed attempt survives the later success.
	assert.Equal(t, domain.SyncFailed, entries[0].Status)
	assert.Equal(t, domain.SyncSuccess, entries[1].Status)

	latest, err := repo.Latest(ctx, 1, domain.SystemOdoo)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "901", latest.RemoteID)
}

func TestSyncLogRepository_Latest_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewSyncLogRepository(db)

	_, err := repo.Latest(context.Background(), 1, domain.SystemGoogleCalendar)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuditRepository_AppendAndListRecent(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Append(ctx, &domain.AuditLogEntry{
			Action:   domain.AuditCreate,
			Entity:   "booking",
			EntityID: int64(i + 1),
		}))
	}

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(3), recent[0].EntityID)
}
