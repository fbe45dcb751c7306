package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domres "example.com/storefront/app/internal/domain/reservation"
)

type ReservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `id, product_id, quantity, session_id, user_id, expires_at, created_at`

func (r *ReservationRepository) Upsert(ctx context.Context, res *domres.Reservation) error {
	sessionID, userID := ownerArgs(res.Owner)
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO reservations (product_id, quantity, session_id, user_id, expires_at)
        VALUES (?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE quantity = VALUES(quantity), expires_at = VALUES(expires_at)
    `, res.ProductID, res.Quantity, sessionID, userID, res.ExpiresAt.UTC())
	return err
}

func (r *ReservationRepository) Get(ctx context.Context, productID int64, owner domres.Owner) (*domres.Reservation, error) {
	clause, arg := ownerClause(owner)
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+reservationColumns+`
        FROM reservations
        WHERE product_id = ? AND `+clause, productID, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domres.ErrReservationNotFound
	}
	return scanReservation(rows)
}

func (r *ReservationRepository) ListActive(ctx context.Context, owner domres.Owner, now time.Time) ([]*domres.Reservation, error) {
	clause, arg := ownerClause(owner)
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+reservationColumns+`
        FROM reservations
        WHERE `+clause+` AND expires_at > ?
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
	clauses := []string{"product_id = ?", "expires_at > ?"}
	args := []any{productID, now.UTC()}
	for _, o := range exclude {
		if o.IsUser() {
			clauses = append(clauses, "NOT (user_id <=> ?)")
			args = append(args, o.UserID)
		} else {
			clauses = append(clauses, "NOT (session_id <=> ?)")
			args = append(args, o.SessionID)
		}
	}

	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(quantity) FROM reservations WHERE `+strings.Join(clauses, " AND "),
		args...,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

func (r *ReservationRepository) Delete(ctx context.Context, productID int64, owner domres.Owner) (int64, error) {
	clause, arg := ownerClause(owner)
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE product_id = ? AND `+clause, productID, arg)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ReservationRepository) DeleteByOwner(ctx context.Context, owner domres.Owner) (int64, error) {
	clause, arg := ownerClause(owner)
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE `+clause, arg)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ReservationRepository) Reassign(ctx context.Context, productID int64, from domres.Owner, to domres.Owner) error {
	clause, arg := ownerClause(from)
	sessionID, userID := ownerArgs(to)
	res, err := r.db.ExecContext(ctx, `
        UPDATE reservations SET session_id = ?, user_id = ?
        WHERE product_id = ? AND `+clause, sessionID, userID, productID, arg)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domres.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func ownerClause(o domres.Owner) (string, any) {
	if o.IsUser() {
		return "user_id = ?", o.UserID
	}
	return "session_id = ?", o.SessionID
}

func ownerArgs(o domres.Owner) (sql.NullString, sql.NullInt64) {
	if o.IsUser() {
		return sql.NullString{}, sql.NullInt64{Int64: o.UserID, Valid: true}
	}
	return sql.NullString{String: o.SessionID, Valid: true}, sql.NullInt64{}
}

func scanReservation(rows *sql.Rows) (*domres.Reservation, error) {
	var (
		h         domres.Reservation
		sessionID sql.NullString
		userID    sql.NullInt64
	)
	if err := rows.Scan(&h.ID, &h.ProductID, &h.Quantity, &sessionID, &userID, &h.ExpiresAt, &h.CreatedAt); err != nil {
		return nil, err
	}
	h.Owner = domres.Owner{SessionID: sessionID.String, UserID: userID.Int64}
	return &h, nil
}

var _ domres.Repository = (*ReservationRepository)(nil)

