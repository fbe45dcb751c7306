package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domres "example.com/storefront/app/internal/domain/reservation"
	"example.com/storefront/app/internal/infra/persistence/memory"
)

func TestTransfer_MergeCapsAtAvailable(t *testing.T) {
	f := newFixture(t, 3, 5)
	ctx := context.Background()
	session := domres.SessionOwner("sess-1")
	user := domres.UserOwner(7)

	require.NoError(t, f.svc.Reserve(ctx, 1, session, 2, 0))
	require.NoError(t, f.svc.Reserve(ctx, 1, user, 1, 0))
	// user grows its hold to 2 while the session still holds 2 of 3
	require.NoError(t, f.repo.Upsert(ctx, &domres.Reservation{ProductID: 1, Quantity: 2, Owner: user, ExpiresAt: f.now.Add(time.Hour)}))

	result, err := f.svc.Transfer(ctx, "sess-1", 7)

	require.NoError(t, err)
	require.Equal(t, domres.TransferResult{Merged: 1}, result)
	require.Equal(t, 1, f.repo.Len())
	got, err := f.repo.Get(ctx, 1, user)
	require.NoError(t, err)
	require.Equal(t, int64(3), got.Quantity)
	_, err = f.repo.Get(ctx, 1, session)
	require.ErrorIs(t, err, domres.ErrReservationNotFound)
}

func TestTransfer_ReownsWhenUserHasNoHold(t *testing.T) {
	f := newFixture(t, 5, 5)
	ctx := context.Background()

	require.NoError(t, f.svc.Reserve(ctx, 1, domres.SessionOwner("sess-1"), 2, 0))
	require.NoError(t, f.svc.Reserve(ctx, 2, domres.SessionOwner("sess-1"), 4, 0))

	result, err := f.svc.Transfer(ctx, "sess-1", 7)

	require.NoError(t, err)
	require.Equal(t, domres.TransferResult{Moved: 2}, result)
	holds, err := f.svc.List(ctx, domres.UserOwner(7))
	require.NoError(t, err)
	require.Len(t, holds, 2)
	require.Equal(t, int64(3), f.available(t, 1))
}

func TestTransfer_ReplacesExpiredUserHold(t *testing.T) {
	f := newFixture(t, 5, 5)
	ctx := context.Background()
	user := domres.UserOwner(7)

	require.NoError(t, f.repo.Upsert(ctx, &domres.Reservation{ProductID: 1, Quantity: 4, Owner: user, ExpiresAt: f.now.Add(-time.Minute)}))
	require.NoError(t, f.svc.Reserve(ctx, 1, domres.SessionOwner("sess-1"), 2, 0))

	result, err := f.svc.Transfer(ctx, "sess-1", 7)

	require.NoError(t, err)
	require.Equal(t, domres.TransferResult{Moved: 1}, result)
	got, err := f.repo.Get(ctx, 1, user)
	require.NoError(t, err)
	require.Equal(t, int64(2), got.Quantity)
	require.True(t, got.IsActive(f.now))
}

func TestTransfer_MergeKeepsLaterExpiry(t *testing.T) {
	f := newFixture(t, 10, 5)
	ctx := context.Background()
	user := domres.UserOwner(7)

	require.NoError(t, f.svc.Reserve(ctx, 1, user, 1, 10*time.Minute))
	require.NoError(t, f.svc.Reserve(ctx, 1, domres.SessionOwner("sess-1"), 2, 50*time.Minute))

	_, err := f.svc.Transfer(ctx, "sess-1", 7)

	require.NoError(t, err)
	got, err := f.repo.Get(ctx, 1, user)
	require.NoError(t, err)
	require.Equal(t, int64(3), got.Quantity)
	require.True(t, got.ExpiresAt.Equal(f.now.Add(50*time.Minute)))
}

func TestTransfer_NothingLeftDropsBothHolds(t *testing.T) {
	f := newFixture(t, 2, 5)
	ctx := context.Background()
	user := domres.UserOwner(7)

	require.NoError(t, f.svc.Reserve(ctx, 1, user, 1, 0))
	require.NoError(t, f.svc.Reserve(ctx, 1, domres.SessionOwner("sess-1"), 1, 0))
	// another owner's hold, written past the availability check, eats the rest
	require.NoError(t, f.repo.Upsert(ctx, &domres.Reservation{ProductID: 1, Quantity: 5, Owner: domres.SessionOwner("other"), ExpiresAt: f.now.Add(time.Hour)}))

	result, err := f.svc.Transfer(ctx, "sess-1", 7)

	require.NoError(t, err)
	require.Equal(t, domres.TransferResult{Merged: 1}, result)
	_, err = f.repo.Get(ctx, 1, user)
	require.ErrorIs(t, err, domres.ErrReservationNotFound)
	_, err = f.repo.Get(ctx, 1, domres.SessionOwner("sess-1"))
	require.ErrorIs(t, err, domres.ErrReservationNotFound)
}

type flakyReassign struct {
	*memory.ReservationRepository
	failProduct int64
}

func (r flakyReassign) Reassign(ctx context.Context, productID int64, from, to domres.Owner) error {
	if productID == r.failProduct {
		return errors.New("lock wait timeout")
	}
	return r.ReservationRepository.Reassign(ctx, productID, from, to)
}

func TestTransfer_FailureOnOneProductContinues(t *testing.T) {
	f := newFixture(t, 5, 5)
	ctx := context.Background()
	repo := flakyReassign{ReservationRepository: f.repo, failProduct: 1}
	svc := NewService(repo, f.inventory, time.Hour, nil).WithClock(func() time.Time { return f.now })

	require.NoError(t, svc.Reserve(ctx, 1, domres.SessionOwner("sess-1"), 1, 0))
	require.NoError(t, svc.Reserve(ctx, 2, domres.SessionOwner("sess-1"), 1, 0))

	result, err := svc.Transfer(ctx, "sess-1", 7)

	require.NoError(t, err)
	require.Equal(t, domres.TransferResult{Moved: 1, Failed: 1}, result)
	_, err = f.repo.Get(ctx, 1, domres.SessionOwner("sess-1"))
	require.NoError(t, err)
	_, err = f.repo.Get(ctx, 2, domres.UserOwner(7))
	require.NoError(t, err)
}

func TestTransfer_InvalidOwners(t *testing.T) {
	f := newFixture(t, 5, 5)

	_, err := f.svc.Transfer(context.Background(), "", 7)
	require.ErrorIs(t, err, domres.ErrInvalidOwner)

	_, err = f.svc.Transfer(context.Background(), "sess-1", 0)
	require.ErrorIs(t, err, domres.ErrInvalidOwner)
}
