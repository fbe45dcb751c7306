package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domproduct "example.com/storefront/app/internal/domain/product"
	domres "example.com/storefront/app/internal/domain/reservation"
)

type ProductReader interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
}

type ReservationReader interface {
	SumActive(ctx context.Context, productID int64, now time.Time, exclude ...domres.Owner) (int64, error)
}

// Service computes available inventory: physical stock minus unexpired holds.
type Service struct {
	products     ProductReader
	reservations ReservationReader
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(products ProductReader, reservations ReservationReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		products:     products,
		reservations: reservations,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock replaces the time source used to decide which holds are active.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Available(ctx context.Context, productID int64) (int64, error) {
	return s.AvailableExcluding(ctx, productID)
}

// AvailableExcluding ignores the holds of the given owners. A hold that is
// about to be overwritten or merged must not count against itself.
func (s *Service) AvailableExcluding(ctx context.Context, productID int64, exclude ...domres.Owner) (int64, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domproduct.ErrProductNotFound) {
			return 0, err
		}
		s.logger.Error("load product for availability",
			zap.Int64("product_id", productID), zap.Error(err))
		return 0, fmt.Errorf("load product %d: %w", productID, err)
	}
	// delisted products cannot be sold, so nothing of them can be held
	if !p.IsActive {
		return 0, nil
	}

	reserved, err := s.reservations.SumActive(ctx, productID, s.now(), exclude...)
	if err != nil {
		s.logger.Error("sum active reservations",
			zap.Int64("product_id", productID), zap.Error(err))
		return 0, fmt.Errorf("sum reservations for product %d: %w", productID, err)
	}

	return p.Available(reserved), nil
}

// AvailableOrZero is Available for callers that treat any failure,
// including an unknown product, as nothing to sell.
func (s *Service) AvailableOrZero(ctx context.Context, productID int64) int64 {
	n, err := s.Available(ctx, productID)
	if err != nil {
		return 0
	}
	return n
}
