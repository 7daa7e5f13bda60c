package invoices

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

var (
	// ErrNotFound is returned when an invoice does not resolve under the owner.
	ErrNotFound = fmt.Errorf("invoice %w", shared.ErrNotFound)
	// ErrPaymentNotFound is returned when a payment, or its parent invoice,
	// does not resolve under the owner.
	ErrPaymentNotFound = fmt.Errorf("payment %w", shared.ErrNotFound)
)

// Repository defines data access for invoices and their payment ledgers.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error

	Get(ctx context.Context, id, ownerID string) (*Invoice, error)
	List(ctx context.Context, ownerID string) ([]Invoice, error)
	Create(ctx context.Context, invoice Invoice) error
	Update(ctx context.Context, id, ownerID string, updates map[string]interface{}) error
	ReplaceItems(ctx context.Context, invoiceID string, items []LineItem) error
	UpdateStatus(ctx context.Context, invoiceID string, status Status) error
	Delete(ctx context.Context, id, ownerID string) error
	CountByCustomer(ctx context.Context, customerID, ownerID string) (int, error)

	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
	ListPayments(ctx context.Context, invoiceID string) ([]Payment, error)
	CreatePayment(ctx context.Context, payment Payment) error
	DeletePayment(ctx context.Context, paymentID string) error
	DeletePaymentsByInvoice(ctx context.Context, invoiceID string) error
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

const invoiceColumns = `id, owner_id, customer_id, invoice_number, issue_date, due_date,
	subtotal, tax_rate, discount_rate, total, notes, status, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id, ownerID string) (*Invoice, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM invoices WHERE id = $1 AND owner_id = $2
	`, invoiceColumns), id, ownerID)

	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := r.listItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (r *repository) List(ctx context.Context, ownerID string) ([]Invoice, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM invoices WHERE owner_id = $1 ORDER BY issue_date DESC, created_at DESC
	`, invoiceColumns), ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range invoices {
		items, err := r.listItems(ctx, invoices[i].ID)
		if err != nil {
			return nil, err
		}
		invoices[i].Items = items
	}
	return invoices, nil
}

func (r *repository) Create(ctx context.Context, invoice Invoice) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO invoices (id, owner_id, customer_id, invoice_number, issue_date, due_date,
			subtotal, tax_rate, discount_rate, total, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		invoice.ID, invoice.OwnerID, invoice.CustomerID, invoice.Number,
		invoice.IssueDate, invoice.DueDate,
		invoice.Subtotal, invoice.TaxRate, invoice.DiscountRate, invoice.Total,
		textPtr(invoice.Notes), string(invoice.Status),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return r.insertItems(ctx, invoice.ID, invoice.Items)
}

func (r *repository) Update(ctx context.Context, id, ownerID string, updates map[string]interface{}) error {
	query := "UPDATE invoices SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"customer_id", "invoice_number", "issue_date", "due_date",
		"subtotal", "tax_rate", "discount_rate", "total", "notes", "status"} {
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

func (r *repository) ReplaceItems(ctx context.Context, invoiceID string, items []LineItem) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return err
	}
	return r.insertItems(ctx, invoiceID, items)
}

func (r *repository) UpdateStatus(ctx context.Context, invoiceID string, status Status) error {
	_, err := r.db.Exec(ctx, `
		UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2
	`, string(status), invoiceID)
	return err
}

func (r *repository) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) CountByCustomer(ctx context.Context, customerID, ownerID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM invoices WHERE customer_id = $1 AND owner_id = $2
	`, customerID, ownerID).Scan(&count)
	return count, err
}

const paymentColumns = `id, invoice_id, amount, paid_at, method, transaction_id, notes, created_at, updated_at`

func (r *repository) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM payments WHERE id = $1
	`, paymentColumns), paymentID)

	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *repository) ListPayments(ctx context.Context, invoiceID string) ([]Payment, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM payments WHERE invoice_id = $1 ORDER BY paid_at, created_at
	`, paymentColumns), invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *repository) CreatePayment(ctx context.Context, payment Payment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payments (id, invoice_id, amount, paid_at, method, transaction_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		payment.ID, payment.InvoiceID, payment.Amount, payment.PaidAt,
		string(payment.Method), textPtr(payment.TransactionID), textPtr(payment.Notes),
		payment.CreatedAt, payment.UpdatedAt,
	)
	return err
}

func (r *repository) DeletePayment(ctx context.Context, paymentID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE id = $1`, paymentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *repository) DeletePaymentsByInvoice(ctx context.Context, invoiceID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM payments WHERE invoice_id = $1`, invoiceID)
	return err
}

func (r *repository) listItems(ctx context.Context, invoiceID string) ([]LineItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT description, quantity, rate, amount
		FROM invoice_items WHERE invoice_id = $1 ORDER BY line_no
	`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.Description, &item.Quantity, &item.Rate, &item.Amount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) insertItems(ctx context.Context, invoiceID string, items []LineItem) error {
	for i, item := range items {
		_, err := r.db.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, line_no, description, quantity, rate, amount)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, invoiceID, i+1, item.Description, item.Quantity, item.Rate, item.Amount)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var notes pgtype.Text
	var status string
	var issueDate, dueDate, createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&inv.ID, &inv.OwnerID, &inv.CustomerID, &inv.Number, &issueDate, &dueDate,
		&inv.Subtotal, &inv.TaxRate, &inv.DiscountRate, &inv.Total,
		&notes, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.Notes = fromText(notes)
	inv.Status = Status(status)
	if issueDate.Valid {
		inv.IssueDate = issueDate.Time
	}
	if dueDate.Valid {
		inv.DueDate = dueDate.Time
	}
	if createdAt.Valid {
		inv.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		inv.UpdatedAt = updatedAt.Time
	}
	return &inv, nil
}

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	var method string
	var txnID, notes pgtype.Text
	var paidAt, createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&p.ID, &p.InvoiceID, &p.Amount, &paidAt, &method, &txnID, &notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	p.Method = Method(method)
	p.TransactionID = fromText(txnID)
	p.Notes = fromText(notes)
	if paidAt.Valid {
		p.PaidAt = paidAt.Time
	}
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return &p, nil
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
