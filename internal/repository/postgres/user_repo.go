package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/travel-kanban/internal/errs"
	"github.com/and161185/travel-kanban/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const (
	insertUserSQL = `INSERT INTO users (id, email, username, pwd_hash, salt_auth) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	userByIDSQL   = `SELECT id, email, username, pwd_hash, salt_auth, created_at FROM users WHERE id=$1`
	userByMailSQL = `SELECT id, email, username, pwd_hash, salt_auth, created_at FROM users WHERE email=$1`
)

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	err := r.db.Pool.QueryRow(ctx, insertUserSQL, u.ID, u.Email, u.Username, u.PwdHash, u.SaltAuth).Scan(&u.CreatedAt)
	if isUniqueViolation(err) {
		return &errs.FieldError{Field: "email", Err: errs.ErrAlreadyExists}
	}
	return err
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.get(ctx, userByIDSQL, id)
}

// GetByEmail selects a user by normalised email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := r.get(ctx, userByMailSQL, email)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.NotFoundField("email")
	}
	return u, err
}

func (r *UserRepo) get(ctx context.Context, q string, arg any) (*model.User, error) {
	var u model.User
	err := r.db.Pool.QueryRow(ctx, q, arg).Scan(&u.ID, &u.Email, &u.Username, &u.PwdHash, &u.SaltAuth, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
