package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "railbook/internal/config"
	"railbook/internal/domain"
	"railbook/internal/domain/models"
)

type UserRepo struct {
	DB *sql.DB
}

func (r UserRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UserRepo) Create(ctx context.Context, u *models.User) error {
	var n int
	err := r.db().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, u.Email,
	).Scan(&n)
	if err != nil {
		return domain.InternalError{Msg: "check email", Err: err}
	}
	if n > 0 {
		return domain.ConflictError{Resource: "user", Msg: "email already registered"}
	}

	res, err := r.db().ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, NOW())
	`, u.Name, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		return domain.InternalError{Msg: "insert user", Err: err}
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return domain.InternalError{Msg: "user id", Err: err}
	}
	return nil
}

func (r UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.db().QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = ?
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, domain.InternalError{Msg: "get user", Err: err}
	}
	return u, nil
}

func (r UserRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := r.db().QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE id = ?
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, domain.InternalError{Msg: "get user", Err: err}
	}
	return u, nil
}
