package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domres "example.com/storefront/app/internal/domain/reservation"
)

func TestReservationRepository_UpsertOverwrites(t *testing.T) {
	repo := NewReservationRepository()
	ctx := context.Background()
	owner := domres.SessionOwner("sess-1")
	now := time.Now()

	require.NoError(t, repo.Upsert(ctx, &domres.Reservation{ProductID: 1, Quantity: 3, Owner: owner, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Upsert(ctx, &domres.Reservation{ProductID: 1, Quantity: 1, Owner: owner, ExpiresAt: now.Add(2 * time.Hour)}))

	require.Equal(t, 1, repo.Len())
	got, err := repo.Get(ctx, 1, owner)
	require.NoError(t, err)
	require.Equal(t, int64(1), got.Quantity)
	require.True(t, got.ExpiresAt.Equal(now.Add(2*time.Hour)))
}

func TestReservationRepository_SumActiveExcludes(t *testing.T) {
	repo := NewReservationRepository()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Upsert(ctx, &domres.Reservation{ProductID: 1, Quantity: 2, Owner: domres.SessionOwner("a"), ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Upsert(ctx, &domres.Reservation{ProductID: 1, Quantity: 3, Owner: domres.UserOwner(9), ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Upsert(ctx, &domres.Reservation{ProductID: 1, Quantity: 4, Owner: domres.SessionOwner("old"), ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.Upsert(ctx, &domres.Reservation{ProductID: 2, Quantity: 7, Owner: domres.SessionOwner("a"), ExpiresAt: now.Add(time.Hour)}))

	total, err := repo.SumActive(ctx, 1, now)
	require.NoError(t, err)
	require.Equal(t, int64(5), total)

	total, err = repo.SumActive(ctx, 1, now, domres.UserOwner(9))
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
}

func TestReservationRepository_ReassignAndExpiry(t *testing.T) {
	repo := NewReservationRepository()
	ctx := context.Background()
	now := time.Now()
	from := domres.SessionOwner("a")
	to := domres.UserOwner(9)

	require.ErrorIs(t, repo.Reassign(ctx, 1, from, to), domres.ErrReservationNotFound)

	require.NoError(t, repo.Upsert(ctx, &domres.Reservation{ProductID: 1, Quantity: 2, Owner: from, ExpiresAt: now.Add(-time.Second)}))
	require.NoError(t, repo.Reassign(ctx, 1, from, to))

	_, err := repo.Get(ctx, 1, from)
	require.ErrorIs(t, err, domres.ErrReservationNotFound)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.Equal(t, 0, repo.Len())
}
