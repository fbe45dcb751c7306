package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domproduct "example.com/storefront/app/internal/domain/product"
	domres "example.com/storefront/app/internal/domain/reservation"
)

const DefaultTTL = 7 * 24 * time.Hour

type Inventory interface {
	AvailableExcluding(ctx context.Context, productID int64, exclude ...domres.Owner) (int64, error)
}

type Service struct {
	repo       domres.Repository
	inventory  Inventory
	defaultTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(repo domres.Repository, inventory Inventory, defaultTTL time.Duration, logger *zap.Logger) *Service {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		inventory:  inventory,
		defaultTTL: defaultTTL,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Reserve holds quantity units of a product for owner until now+ttl.
// An existing hold for the same product and owner is overwritten, never
// summed. ttl <= 0 uses the service default, which is also the longest
// hold a caller may ask for.
//
// The availability check and the write are separate round trips, so two
// owners racing for the last units can both succeed.
func (s *Service) Reserve(ctx context.Context, productID int64, owner domres.Owner, quantity int64, ttl time.Duration) error {
	if quantity <= 0 {
		return domres.ErrInvalidQuantity
	}
	if err := owner.Validate(); err != nil {
		return err
	}
	if ttl <= 0 || ttl > s.defaultTTL {
		ttl = s.defaultTTL
	}

	available, err := s.inventory.AvailableExcluding(ctx, productID, owner)
	if err != nil {
		if errors.Is(err, domproduct.ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("reserve: %w", err)
	}
	if quantity > available {
		s.logger.Info("reservation rejected",
			zap.Int64("product_id", productID),
			zap.Stringer("owner", owner),
			zap.Int64("requested", quantity),
			zap.Int64("available", available))
		return domres.ErrInsufficientInventory
	}

	err = s.repo.Upsert(ctx, &domres.Reservation{
		ProductID: productID,
		Quantity:  quantity,
		Owner:     owner,
		ExpiresAt: s.now().Add(ttl),
	})
	if err != nil {
		s.logger.Error("upsert reservation",
			zap.Int64("product_id", productID),
			zap.Stringer("owner", owner),
			zap.Error(err))
		return fmt.Errorf("reserve: %w", err)
	}
	return nil
}

// Release drops owner's hold on a product. A missing hold is not an error.
func (s *Service) Release(ctx context.Context, productID int64, owner domres.Owner) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	if _, err := s.repo.Delete(ctx, productID, owner); err != nil {
		s.logger.Error("release reservation",
			zap.Int64("product_id", productID),
			zap.Stringer("owner", owner),
			zap.Error(err))
		return fmt.Errorf("release: %w", err)
	}
	return nil
}

// ClearAll drops every hold of owner, expired or not.
func (s *Service) ClearAll(ctx context.Context, owner domres.Owner) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	if _, err := s.repo.DeleteByOwner(ctx, owner); err != nil {
		s.logger.Error("clear reservations", zap.Stringer("owner", owner), zap.Error(err))
		return fmt.Errorf("clear reservations: %w", err)
	}
	return nil
}

// List returns owner's unexpired holds.
func (s *Service) List(ctx context.Context, owner domres.Owner) ([]*domres.Reservation, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	holds, err := s.repo.ListActive(ctx, owner, s.now())
	if err != nil {
		s.logger.Error("list reservations", zap.Stringer("owner", owner), zap.Error(err))
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return holds, nil
}
