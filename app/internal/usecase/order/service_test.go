package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domcart "example.com/storefront/app/internal/domain/cart"
	domorder "example.com/storefront/app/internal/domain/order"
)

type fakeRepo struct {
	orders map[int64]*domorder.Order
}

func (f *fakeRepo) CreateFromCart(ctx context.Context, userID int64, items []domcart.Item, payment domorder.PaymentMethod) (*domorder.Order, error) {
	return nil, domorder.ErrCheckoutValidation
}

func (f *fakeRepo) List(ctx context.Context) ([]*domorder.Order, error) {
	out := make([]*domorder.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, domorder.ErrOrderNotFound
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id int64, status domorder.Status) (*domorder.Order, error) {
	o, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Status = status
	return o, nil
}

func TestUpdateStatus(t *testing.T) {
	repo := &fakeRepo{orders: map[int64]*domorder.Order{1: {ID: 1, Status: domorder.StatusPending}}}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, 1, domorder.Status("LOST"))
	require.ErrorIs(t, err, domorder.ErrInvalidStatus)

	o, err := svc.UpdateStatus(ctx, 1, domorder.StatusPaid)
	require.NoError(t, err)
	require.Equal(t, domorder.StatusPaid, o.Status)

	_, err = svc.UpdateStatus(ctx, 2, domorder.StatusPaid)
	require.ErrorIs(t, err, domorder.ErrOrderNotFound)
}
