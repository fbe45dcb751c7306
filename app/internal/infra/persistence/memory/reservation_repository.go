// Package memory holds process-local repositories for development and
// tests. Data is lost on restart.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	domres "example.com/storefront/app/internal/domain/reservation"
)

var errDuplicateHold = errors.New("duplicate reservation for product and owner")

type ReservationRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domres.Reservation
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{
		nextID: 1,
		rows:   make(map[int64]*domres.Reservation),
	}
}

func (r *ReservationRepository) Upsert(ctx context.Context, res *domres.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.find(res.ProductID, res.Owner); existing != nil {
		existing.Quantity = res.Quantity
		existing.ExpiresAt = res.ExpiresAt
		return nil
	}

	row := *res
	row.ID = r.nextID
	row.CreatedAt = time.Now()
	r.nextID++
	r.rows[row.ID] = &row
	return nil
}

func (r *ReservationRepository) Get(ctx context.Context, productID int64, owner domres.Owner) (*domres.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.find(productID, owner)
	if row == nil {
		return nil, domres.ErrReservationNotFound
	}
	cloned := *row
	return &cloned, nil
}

func (r *ReservationRepository) ListActive(ctx context.Context, owner domres.Owner, now time.Time) ([]*domres.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var holds []*domres.Reservation
	for _, row := range r.rows {
		if row.Owner == owner && row.IsActive(now) {
			cloned := *row
			holds = append(holds, &cloned)
		}
	}
	sort.Slice(holds, func(i, j int) bool { return holds[i].ID < holds[j].ID })
	return holds, nil
}

func (r *ReservationRepository) SumActive(ctx context.Context, productID int64, now time.Time, exclude ...domres.Owner) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total int64
rows:
	for _, row := range r.rows {
		if row.ProductID != productID || !row.IsActive(now) {
			continue
		}
		for _, o := range exclude {
			if row.Owner == o {
				continue rows
			}
		}
		total += row.Quantity
	}
	return total, nil
}

func (r *ReservationRepository) Delete(ctx context.Context, productID int64, owner domres.Owner) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.find(productID, owner)
	if row == nil {
		return 0, nil
	}
	delete(r.rows, row.ID)
	return 1, nil
}

func (r *ReservationRepository) DeleteByOwner(ctx context.Context, owner domres.Owner) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, row := range r.rows {
		if row.Owner == owner {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

func (r *ReservationRepository) Reassign(ctx context.Context, productID int64, from domres.Owner, to domres.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.find(productID, from)
	if row == nil {
		return domres.ErrReservationNotFound
	}
	if r.find(productID, to) != nil {
		return errDuplicateHold
	}
	row.Owner = to
	return nil
}

func (r *ReservationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, row := range r.rows {
		if !row.IsActive(now) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// Len counts stored rows, expired ones included.
func (r *ReservationRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *ReservationRepository) find(productID int64, owner domres.Owner) *domres.Reservation {
	for _, row := range r.rows {
		if row.ProductID == productID && row.Owner == owner {
			return row
		}
	}
	return nil
}

var _ domres.Repository = (*ReservationRepository)(nil)
