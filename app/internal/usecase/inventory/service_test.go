package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domproduct "example.com/storefront/app/internal/domain/product"
	domres "example.com/storefront/app/internal/domain/reservation"
	"example.com/storefront/app/internal/infra/persistence/memory"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, stock int64) (*Service, *memory.ReservationRepository) {
	t.Helper()
	products := memory.NewProductRepository(&domproduct.Product{ID: 1, Name: "Mug", Price: 9.5, Stock: stock, IsActive: true})
	holds := memory.NewReservationRepository()
	svc := NewService(products, holds, nil).WithClock(func() time.Time { return testNow })
	return svc, holds
}

func hold(t *testing.T, repo *memory.ReservationRepository, owner domres.Owner, qty int64, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, repo.Upsert(context.Background(), &domres.Reservation{
		ProductID: 1, Quantity: qty, Owner: owner, ExpiresAt: expiresAt,
	}))
}

func TestAvailable_NoHoldsEqualsStock(t *testing.T) {
	svc, _ := newTestService(t, 5)

	n, err := svc.Available(context.Background(), 1)

	require.NoError(t, err)
	require.Equal(t, int64(5), n)
}

func TestAvailable_SubtractsActiveHoldsOnly(t *testing.T) {
	svc, repo := newTestService(t, 5)
	hold(t, repo, domres.SessionOwner("a"), 2, testNow.Add(time.Hour))
	hold(t, repo, domres.SessionOwner("b"), 3, testNow.Add(-time.Minute))

	n, err := svc.Available(context.Background(), 1)

	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestAvailable_NeverNegative(t *testing.T) {
	svc, repo := newTestService(t, 2)
	hold(t, repo, domres.SessionOwner("a"), 2, testNow.Add(time.Hour))
	hold(t, repo, domres.UserOwner(3), 4, testNow.Add(time.Hour))

	n, err := svc.Available(context.Background(), 1)

	require.NoError(t, err)
	require.Equal(t, int64(0), n)
}

func TestAvailableExcluding(t *testing.T) {
	svc, repo := newTestService(t, 5)
	hold(t, repo, domres.SessionOwner("a"), 2, testNow.Add(time.Hour))
	hold(t, repo, domres.UserOwner(3), 1, testNow.Add(time.Hour))

	n, err := svc.AvailableExcluding(context.Background(), 1, domres.SessionOwner("a"))
	require.NoError(t, err)
	require.Equal(t, int64(4), n)

	n, err = svc.AvailableExcluding(context.Background(), 1, domres.SessionOwner("a"), domres.UserOwner(3))
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
}

func TestAvailable_UnknownProduct(t *testing.T) {
	svc, _ := newTestService(t, 5)

	_, err := svc.Available(context.Background(), 99)

	require.ErrorIs(t, err, domproduct.ErrProductNotFound)
	require.Equal(t, int64(0), svc.AvailableOrZero(context.Background(), 99))
}

type failingSums struct{}

func (failingSums) SumActive(context.Context, int64, time.Time, ...domres.Owner) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestAvailable_StorageError(t *testing.T) {
	products := memory.NewProductRepository(&domproduct.Product{ID: 1, Stock: 5, IsActive: true})
	svc := NewService(products, failingSums{}, nil)

	_, err := svc.Available(context.Background(), 1)

	require.Error(t, err)
	require.NotErrorIs(t, err, domproduct.ErrProductNotFound)
	require.Equal(t, int64(0), svc.AvailableOrZero(context.Background(), 1))
}

func TestAvailable_InactiveProductHasNothingToSell(t *testing.T) {
	products := memory.NewProductRepository(&domproduct.Product{ID: 1, Name: "Retired", Stock: 9, IsActive: false})
	svc := NewService(products, memory.NewReservationRepository(), nil)

	n, err := svc.Available(context.Background(), 1)

	require.NoError(t, err)
	require.Zero(t, n)
}
