package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domres "example.com/storefront/app/internal/domain/reservation"
)

// Transfer moves the active holds of an anonymous session to a user at
// login. Each product is handled on its own: a failure is counted and
// logged, and the remaining products are still processed. Nothing is
// rolled back.
func (s *Service) Transfer(ctx context.Context, sessionID string, userID int64) (domres.TransferResult, error) {
	var result domres.TransferResult

	from := domres.SessionOwner(sessionID)
	to := domres.UserOwner(userID)
	if err := from.Validate(); err != nil {
		return result, err
	}
	if err := to.Validate(); err != nil {
		return result, err
	}

	now := s.now()
	holds, err := s.repo.ListActive(ctx, from, now)
	if err != nil {
		s.logger.Error("list session reservations", zap.Stringer("owner", from), zap.Error(err))
		return result, fmt.Errorf("transfer: %w", err)
	}

	for _, hold := range holds {
		merged, err := s.transferOne(ctx, hold, from, to, now)
		if err != nil {
			result.Failed++
			s.logger.Warn("transfer reservation",
				zap.Int64("product_id", hold.ProductID),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
				zap.Error(err))
			continue
		}
		if merged {
			result.Merged++
		} else {
			result.Moved++
		}
	}

	s.logger.Info("reservations transferred",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Int("moved", result.Moved),
		zap.Int("merged", result.Merged),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *Service) transferOne(ctx context.Context, hold *domres.Reservation, from, to domres.Owner, now time.Time) (bool, error) {
	existing, err := s.repo.Get(ctx, hold.ProductID, to)
	switch {
	case errors.Is(err, domres.ErrReservationNotFound):
		return false, s.repo.Reassign(ctx, hold.ProductID, from, to)
	case err != nil:
		return false, err
	case !existing.IsActive(now):
		// a stale user row would collide with the re-owned one
		if _, err := s.repo.Delete(ctx, hold.ProductID, to); err != nil {
			return false, err
		}
		return false, s.repo.Reassign(ctx, hold.ProductID, from, to)
	}

	available, err := s.inventory.AvailableExcluding(ctx, hold.ProductID, from, to)
	if err != nil {
		return true, err
	}

	qty := min(hold.Quantity+existing.Quantity, available)
	if qty <= 0 {
		if _, err := s.repo.Delete(ctx, hold.ProductID, to); err != nil {
			return true, err
		}
		_, err := s.repo.Delete(ctx, hold.ProductID, from)
		return true, err
	}

	existing.Quantity = qty
	if hold.ExpiresAt.After(existing.ExpiresAt) {
		existing.ExpiresAt = hold.ExpiresAt
	}
	if err := s.repo.Upsert(ctx, existing); err != nil {
		return true, err
	}
	_, err = s.repo.Delete(ctx, hold.ProductID, from)
	return true, err
}
