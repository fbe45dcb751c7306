package reservation

import (
	"context"
	"time"
)

type Repository interface {
	// Upsert writes the hold for (ProductID, Owner), replacing quantity and
	// expiry of an existing row.
	Upsert(ctx context.Context, r *Reservation) error
	Get(ctx context.Context, productID int64, owner Owner) (*Reservation, error)
	ListActive(ctx context.Context, owner Owner, now time.Time) ([]*Reservation, error)
	SumActive(ctx context.Context, productID int64, now time.Time, exclude ...Owner) (int64, error)
	Delete(ctx context.Context, productID int64, owner Owner) (int64, error)
	DeleteByOwner(ctx context.Context, owner Owner) (int64, error)
	Reassign(ctx context.Context, productID int64, from Owner, to Owner) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
