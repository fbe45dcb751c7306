package mysql

import (
	"context"
	"database/sql"
	"errors"

	dom "example.com/storefront/app/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*dom.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, email, password_hash, role_code
        FROM users
        WHERE id = ?
    `, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*dom.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, email, password_hash, role_code
        FROM users
        WHERE email = ?
    `, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*dom.User, error) {
	var u dom.User
	var roleCode string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &roleCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dom.ErrUserNotFound
		}
		return nil, err
	}
	role, err := dom.ParseRoleCode(roleCode)
	if err != nil {
		return nil, err
	}
	u.RoleCode = role
	return &u, nil
}
