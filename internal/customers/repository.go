package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/platform/db"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// ErrNotFound is returned when a customer does not resolve under the owner.
var ErrNotFound = fmt.Errorf("customer %w", shared.ErrNotFound)

// Repository defines data access for customers. All lookups are keyed by both
// id and owner id.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id, ownerID string) (*Customer, error)
	List(ctx context.Context, ownerID string) ([]Customer, error)
	Create(ctx context.Context, customer Customer) error
	Update(ctx context.Context, id, ownerID string, updates map[string]interface{}) error
	Delete(ctx context.Context, id, ownerID string) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository builds the postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const customerColumns = `id, owner_id, name, email, phone, street, city, state, zip_code, country, notes, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id, ownerID string) (*Customer, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM customers WHERE id = $1 AND owner_id = $2
	`, customerColumns), id, ownerID)

	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, ownerID string) ([]Customer, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM customers WHERE owner_id = $1 ORDER BY created_at
	`, customerColumns), ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *repository) Create(ctx context.Context, customer Customer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, owner_id, name, email, phone, street, city, state, zip_code, country, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		customer.ID, customer.OwnerID, customer.Name, customer.Email,
		textPtr(customer.Phone),
		textPtr(customer.Address.Street), textPtr(customer.Address.City),
		textPtr(customer.Address.State), textPtr(customer.Address.ZipCode),
		textPtr(customer.Address.Country),
		textPtr(customer.Notes),
		customer.CreatedAt, customer.UpdatedAt,
	)
	return err
}

func (r *repository) Update(ctx context.Context, id, ownerID string, updates map[string]interface{}) error {
	query := "UPDATE customers SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"name", "email", "phone", "street", "city", "state", "zip_code", "country", "notes"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d AND owner_id = $%d", argPos, argPos+1)
	args = append(args, id, ownerID)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	var phone, street, city, state, zip, country, notes pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Email, &phone,
		&street, &city, &state, &zip, &country, &notes,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Phone = fromText(phone)
	c.Address.Street = fromText(street)
	c.Address.City = fromText(city)
	c.Address.State = fromText(state)
	c.Address.ZipCode = fromText(zip)
	c.Address.Country = fromText(country)
	c.Notes = fromText(notes)
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return &c, nil
}

func textPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func fromText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	val := t.String
	return &val
}
