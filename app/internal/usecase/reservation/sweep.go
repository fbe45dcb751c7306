package reservation

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Sweep deletes every expired hold and returns how many rows went away.
// Product stock is untouched: holds never decremented it.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("sweep expired reservations", zap.Error(err))
		return 0, fmt.Errorf("sweep: %w", err)
	}
	if n > 0 {
		s.logger.Info("expired reservations swept", zap.Int64("removed", n))
	}
	return n, nil
}
