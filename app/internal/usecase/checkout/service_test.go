package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domcart "example.com/storefront/app/internal/domain/cart"
	domorder "example.com/storefront/app/internal/domain/order"
	domres "example.com/storefront/app/internal/domain/reservation"
)

type fakeHolds struct {
	holds    []*domres.Reservation
	clearErr error
	cleared  []domres.Owner
}

func (f *fakeHolds) List(ctx context.Context, owner domres.Owner) ([]*domres.Reservation, error) {
	return f.holds, nil
}

func (f *fakeHolds) ClearAll(ctx context.Context, owner domres.Owner) error {
	f.cleared = append(f.cleared, owner)
	return f.clearErr
}

type fakeOrders struct {
	items []domcart.Item
	err   error
}

func (f *fakeOrders) CreateFromCart(ctx context.Context, userID int64, items []domcart.Item, payment domorder.PaymentMethod) (*domorder.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.items = items
	return &domorder.Order{ID: 11, UserID: userID, Status: domorder.StatusPending, PaymentMethod: payment}, nil
}

func TestCheckout_Success(t *testing.T) {
	holds := &fakeHolds{holds: []*domres.Reservation{
		{ProductID: 1, Quantity: 2},
		{ProductID: 3, Quantity: 1},
	}}
	orders := &fakeOrders{}
	svc := NewService(holds, orders, nil)

	o, err := svc.Checkout(context.Background(), 5, domorder.PaymentCOD)

	require.NoError(t, err)
	require.Equal(t, int64(11), o.ID)
	require.Equal(t, []domcart.Item{{ProductID: 1, Quantity: 2}, {ProductID: 3, Quantity: 1}}, orders.items)
	require.Equal(t, []domres.Owner{domres.UserOwner(5)}, holds.cleared)
}

func TestCheckout_ClearFailureKeepsOrder(t *testing.T) {
	holds := &fakeHolds{
		holds:    []*domres.Reservation{{ProductID: 1, Quantity: 1}},
		clearErr: errors.New("connection reset"),
	}
	svc := NewService(holds, &fakeOrders{}, nil)

	o, err := svc.Checkout(context.Background(), 5, domorder.PaymentTamara)

	require.NoError(t, err)
	require.NotNil(t, o)
}

func TestCheckout_Rejections(t *testing.T) {
	svc := NewService(&fakeHolds{}, &fakeOrders{}, nil)

	_, err := svc.Checkout(context.Background(), 5, domorder.PaymentMethod("CASH"))
	require.ErrorIs(t, err, domorder.ErrInvalidPayment)

	_, err = svc.Checkout(context.Background(), 5, domorder.PaymentCOD)
	require.ErrorIs(t, err, domorder.ErrEmptyOrderItems)
}

func TestCheckout_OrderFailureKeepsHolds(t *testing.T) {
	holds := &fakeHolds{holds: []*domres.Reservation{{ProductID: 1, Quantity: 9}}}
	svc := NewService(holds, &fakeOrders{err: domorder.ErrCheckoutValidation}, nil)

	_, err := svc.Checkout(context.Background(), 5, domorder.PaymentCOD)

	require.ErrorIs(t, err, domorder.ErrCheckoutValidation)
	require.Empty(t, holds.cleared)
}
