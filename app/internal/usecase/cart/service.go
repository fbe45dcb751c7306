package cart

import (
	"context"

	domcart "example.com/storefront/app/internal/domain/cart"
	domproduct "example.com/storefront/app/internal/domain/product"
	domres "example.com/storefront/app/internal/domain/reservation"
)

type Holds interface {
	List(ctx context.Context, owner domres.Owner) ([]*domres.Reservation, error)
}

type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error)
}

type Service struct {
	holds       Holds
	productRepo ProductRepository
}

func NewService(holds Holds, productRepo ProductRepository) *Service {
	return &Service{
		holds:       holds,
		productRepo: productRepo,
	}
}

// GetCart renders owner's active holds with product details. Holds on
// products that no longer exist are left out.
func (s *Service) GetCart(ctx context.Context, owner domres.Owner) (*domcart.Cart, error) {
	holds, err := s.holds.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	cart := &domcart.Cart{
		SessionID: owner.SessionID,
		UserID:    owner.UserID,
		Items:     make([]domcart.DetailedItem, 0, len(holds)),
	}
	if len(holds) == 0 {
		return cart, nil
	}

	ids := make([]int64, 0, len(holds))
	for _, h := range holds {
		ids = append(ids, h.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	productMap := make(map[int64]*domproduct.Product)
	for _, p := range products {
		productMap[p.ID] = p
	}

	for _, h := range holds {
		if p, ok := productMap[h.ProductID]; ok {
			cart.Items = append(cart.Items, domcart.DetailedItem{
				Item: domcart.Item{
					ProductID: h.ProductID,
					Quantity:  h.Quantity,
				},
				ProductName:  p.Name,
				ProductPrice: p.Price,
				ExpiresAt:    h.ExpiresAt,
			})
		}
	}

	return cart, nil
}
