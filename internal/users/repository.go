package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/shared"
)

var (
	// ErrNotFound is returned when a user record does not exist.
	ErrNotFound = fmt.Errorf("user %w", shared.ErrNotFound)
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = fmt.Errorf("%w: email already registered", shared.ErrConflict)
)

const uniqueViolation = "23505"

// Repository defines data access for user accounts.
type Repository interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the postgres-backed Repository. The company profile is
// stored as a JSONB column since every field in it is optional.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Create(ctx context.Context, user User) error {
	company, err := marshalCompany(user.Company)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, company, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Name, user.Email, user.PasswordHash, company, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.get(ctx, `SELECT id, name, email, password_hash, company, created_at, updated_at FROM users WHERE id = $1`, id)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.get(ctx, `SELECT id, name, email, password_hash, company, created_at, updated_at FROM users WHERE email = $1`, email)
}

func (r *repository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	query := "UPDATE users SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"name", "company"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) get(ctx context.Context, query, arg string) (*User, error) {
	var u User
	var company []byte
	var createdAt, updatedAt pgtype.Timestamptz

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &company, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(company) > 0 {
		var c Company
		if err := json.Unmarshal(company, &c); err != nil {
			return nil, fmt.Errorf("decode company profile: %w", err)
		}
		u.Company = &c
	}
	if createdAt.Valid {
		u.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		u.UpdatedAt = updatedAt.Time
	}
	return &u, nil
}

func marshalCompany(c *Company) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode company profile: %w", err)
	}
	return data, nil
}
