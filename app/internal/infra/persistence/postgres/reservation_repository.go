package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domres "example.com/storefront/app/internal/domain/reservation"
)

// ReservationRepository keeps cart holds in PostgreSQL. Product stock stays
// in the catalog database; only holds live here.
type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

const reservationColumns = `id, product_id, quantity, session_id, user_id, expires_at, created_at`

func (r *ReservationRepository) Upsert(ctx context.Context, res *domres.Reservation) error {
	conflict := `(product_id, session_id) WHERE session_id IS NOT NULL`
	if res.Owner.IsUser() {
		conflict = `(product_id, user_id) WHERE user_id IS NOT NULL`
	}
	sessionID, userID := ownerArgs(res.Owner)
	_, err := r.pool.Exec(ctx, `
        INSERT INTO reservations (product_id, quantity, session_id, user_id, expires_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT `+conflict+`
        DO UPDATE SET quantity = EXCLUDED.quantity, expires_at = EXCLUDED.expires_at
    `, res.ProductID, res.Quantity, sessionID, userID, res.ExpiresAt.UTC())
	return err
}

func (r *ReservationRepository) Get(ctx context.Context, productID int64, owner domres.Owner) (*domres.Reservation, error) {
	clause, arg := ownerClause(owner, 2)
	row := r.pool.QueryRow(ctx, `
        SELECT `+reservationColumns+`
        FROM reservations
        WHERE product_id = $1 AND `+clause, productID, arg)
	h, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domres.ErrReservationNotFound
		}
		return nil, err
	}
	return h, nil
}

func (r *ReservationRepository) ListActive(ctx context.Context, owner domres.Owner, now time.Time) ([]*domres.Reservation, error) {
	clause, arg := ownerClause(owner, 1)
	rows, err := r.pool.Query(ctx, `
        SELECT `+reservationColumns+`
        FROM reservations
        WHERE `+clause+` AND expires_at > $2
        ORDER BY id
    `, arg, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holds []*domres.Reservation
	for rows.Next() {
		h, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	return holds, rows.Err()
}

func (r *ReservationRepository) SumActive(ctx context.Context, productID int64, now time.Time, exclude ...domres.Owner) (int64, error) {
	clauses := []string{"product_id = $1", "expires_at > $2"}
	args := []any{productID, now.UTC()}
	for _, o := range exclude {
		n := len(args) + 1
		if o.IsUser() {
			clauses = append(clauses, fmt.Sprintf("user_id IS DISTINCT FROM $%d", n))
			args = append(args, o.UserID)
		} else {
			clauses = append(clauses, fmt.Sprintf("session_id IS DISTINCT FROM $%d", n))
			args = append(args, o.SessionID)
		}
	}

	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM reservations WHERE `+strings.Join(clauses, " AND "),
		args...,
	).Scan(&total)
	return total, err
}

func (r *ReservationRepository) Delete(ctx context.Context, productID int64, owner domres.Owner) (int64, error) {
	clause, arg := ownerClause(owner, 2)
	tag, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE product_id = $1 AND `+clause, productID, arg)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ReservationRepository) DeleteByOwner(ctx context.Context, owner domres.Owner) (int64, error) {
	clause, arg := ownerClause(owner, 1)
	tag, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE `+clause, arg)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ReservationRepository) Reassign(ctx context.Context, productID int64, from domres.Owner, to domres.Owner) error {
	clause, arg := ownerClause(from, 4)
	sessionID, userID := ownerArgs(to)
	tag, err := r.pool.Exec(ctx, `
        UPDATE reservations SET session_id = $1, user_id = $2
        WHERE product_id = $3 AND `+clause, sessionID, userID, productID, arg)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domres.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func ownerClause(o domres.Owner, n int) (string, any) {
	if o.IsUser() {
		return fmt.Sprintf("user_id = $%d", n), o.UserID
	}
	return fmt.Sprintf("session_id = $%d", n), o.SessionID
}

func ownerArgs(o domres.Owner) (*string, *int64) {
	if o.IsUser() {
		id := o.UserID
		return nil, &id
	}
	sid := o.SessionID
	return &sid, nil
}

func scanReservation(row pgx.Row) (*domres.Reservation, error) {
	var (
		h         domres.Reservation
		sessionID *string
		userID    *int64
	)
	if err := row.Scan(&h.ID, &h.ProductID, &h.Quantity, &sessionID, &userID, &h.ExpiresAt, &h.CreatedAt); err != nil {
		return nil, err
	}
	if sessionID != nil {
		h.Owner.SessionID = *sessionID
	}
	if userID != nil {
		h.Owner.UserID = *userID
	}
	return &h, nil
}

var _ domres.Repository = (*ReservationRepository)(nil)
