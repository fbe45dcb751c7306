package checkout

import (
	"context"

	"go.uber.org/zap"

	domcart "example.com/storefront/app/internal/domain/cart"
	domorder "example.com/storefront/app/internal/domain/order"
	domres "example.com/storefront/app/internal/domain/reservation"
)

type Holds interface {
	List(ctx context.Context, owner domres.Owner) ([]*domres.Reservation, error)
	ClearAll(ctx context.Context, owner domres.Owner) error
}

type OrderRepository interface {
	CreateFromCart(ctx context.Context, userID int64, items []domcart.Item, payment domorder.PaymentMethod) (*domorder.Order, error)
}

type Service struct {
	holds     Holds
	orderRepo OrderRepository
	logger    *zap.Logger
}

func NewService(holds Holds, orderRepo OrderRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		holds:     holds,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// Checkout turns the user's active holds into an order. Stock is
// decremented by the order repository in the same transaction that
// records the sale; the holds are dropped afterwards.
func (s *Service) Checkout(ctx context.Context, userID int64, method domorder.PaymentMethod) (*domorder.Order, error) {
	if !method.IsValid() {
		return nil, domorder.ErrInvalidPayment
	}

	owner := domres.UserOwner(userID)
	holds, err := s.holds.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(holds) == 0 {
		return nil, domorder.ErrEmptyOrderItems
	}

	items := make([]domcart.Item, 0, len(holds))
	for _, h := range holds {
		items = append(items, domcart.Item{ProductID: h.ProductID, Quantity: h.Quantity})
	}

	order, err := s.orderRepo.CreateFromCart(ctx, userID, items, method)
	if err != nil {
		return nil, err
	}

	// The sale is committed; leftover holds only shadow stock until they
	// expire or get swept.
	if err := s.holds.ClearAll(ctx, owner); err != nil {
		s.logger.Warn("clear holds after checkout",
			zap.Int64("user_id", userID),
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}

	return order, nil
}
