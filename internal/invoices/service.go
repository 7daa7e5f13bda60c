package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/customers"
	"github.com/ledgerline/ledgerline/internal/shared"
)

var (
	// ErrInvalidAmount rejects non-positive payment amounts.
	ErrInvalidAmount = fmt.Errorf("%w: payment amount must be positive", shared.ErrValidation)
	// ErrInvalidMethod rejects unknown payment methods.
	ErrInvalidMethod = fmt.Errorf("%w: unknown payment method", shared.ErrValidation)
	// ErrInvalidStatus rejects unknown status values.
	ErrInvalidStatus = fmt.Errorf("%w: unknown invoice status", shared.ErrValidation)
)

// Service orchestrates invoice and payment mutations. Every mutation
// re-establishes the totals invariant through the calculator and, for ledger
// events, the status invariant through the resolver. Mutations of one invoice
// are serialized through a keyed mutex; the read-modify-write sequences here
// are otherwise unprotected against concurrent requests for the same id.
type Service struct {
	repo      Repository
	customers customers.Repository
	locks     *shared.KeyedMutex
}

// NewService builds a Service instance.
func NewService(repo Repository, customerRepo customers.Repository) *Service {
	return &Service{
		repo:      repo,
		customers: customerRepo,
		locks:     shared.NewKeyedMutex(),
	}
}

// Create validates the request, verifies customer ownership, computes totals
// and persists the invoice with an empty payment set. Caller-supplied
// subtotal/total values are never trusted. Status defaults to draft unless the
// caller supplies an explicit one.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateInvoiceRequest) (*Invoice, error) {
	status := StatusDraft
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		status = *req.Status
	}

	items, totals, err := ComputeTotals(requestItems(req.Items), req.TaxRate, req.DiscountRate)
	if err != nil {
		return nil, err
	}

	if _, err := s.customers.Get(ctx, req.CustomerID, ownerID); err != nil {
		return nil, err
	}

	now := time.Now()
	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = now
	}

	invoice := Invoice{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		CustomerID:   req.CustomerID,
		Number:       req.Number,
		IssueDate:    issueDate,
		DueDate:      req.DueDate,
		Items:        items,
		Subtotal:     totals.Subtotal,
		TaxRate:      req.TaxRate,
		DiscountRate: req.DiscountRate,
		Total:        totals.Total,
		Notes:        req.Notes,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.Create(ctx, invoice)
	})
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return &invoice, nil
}

// Update applies a presence-based partial update. Changing items, tax or
// discount reruns the calculator against the effective values; an explicit
// status is an override and bypasses ledger-driven resolution. Validation
// failures abort before anything is written.
func (s *Service) Update(ctx context.Context, ownerID, id string, req UpdateInvoiceRequest) (*Invoice, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	existing, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if req.CustomerID != nil && *req.CustomerID != existing.CustomerID {
		if _, err := s.customers.Get(ctx, *req.CustomerID, ownerID); err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if req.CustomerID != nil {
		updates["customer_id"] = *req.CustomerID
	}
	if req.Number != nil {
		updates["invoice_number"] = *req.Number
	}
	if req.IssueDate != nil {
		updates["issue_date"] = *req.IssueDate
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Status != nil {
		updates["status"] = string(*req.Status)
	}

	var newItems []LineItem
	recompute := req.Items != nil || req.TaxRate != nil || req.DiscountRate != nil
	if recompute {
		itemInputs := existing.Items
		if req.Items != nil {
			itemInputs = requestItems(*req.Items)
		}
		taxRate := existing.TaxRate
		if req.TaxRate != nil {
			taxRate = *req.TaxRate
		}
		discountRate := existing.DiscountRate
		if req.DiscountRate != nil {
			discountRate = *req.DiscountRate
		}

		items, totals, err := ComputeTotals(itemInputs, taxRate, discountRate)
		if err != nil {
			return nil, err
		}
		newItems = items

		updates["tax_rate"] = taxRate
		updates["discount_rate"] = discountRate
		updates["subtotal"] = totals.Subtotal
		updates["total"] = totals.Total
	}

	if len(updates) == 0 {
		return existing, nil
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Update(ctx, id, ownerID, updates); err != nil {
			return err
		}
		if req.Items != nil {
			return repo.ReplaceItems(ctx, id, newItems)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}

	return s.repo.Get(ctx, id, ownerID)
}

// Delete removes an invoice and cascades deletion of its payment ledger in one
// transaction.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := s.repo.Get(ctx, id, ownerID); err != nil {
		return err
	}

	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.DeletePaymentsByInvoice(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id, ownerID)
	})
}

// Get returns one invoice together with its payment ledger and balance.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*InvoiceDetail, error) {
	invoice, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &InvoiceDetail{
		Invoice:   *invoice,
		Payments:  payments,
		TotalPaid: TotalPaid(payments),
		Remaining: Remaining(invoice.Total, payments),
	}, nil
}

// List returns all invoices of one owner.
func (s *Service) List(ctx context.Context, ownerID string) ([]Invoice, error) {
	return s.repo.List(ctx, ownerID)
}

// ListPayments returns the ledger of one invoice after verifying ownership.
func (s *Service) ListPayments(ctx context.Context, ownerID, invoiceID string) ([]Payment, error) {
	if _, err := s.repo.Get(ctx, invoiceID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, invoiceID)
}

// AddPayment records a payment against an invoice and re-resolves the invoice
// status from the updated ledger, both inside one transaction. Overpayment is
// accepted; the amount is not capped against the remaining balance.
func (s *Service) AddPayment(ctx context.Context, ownerID, invoiceID string, req CreatePaymentRequest) (*Payment, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !req.Method.Valid() {
		return nil, ErrInvalidMethod
	}

	unlock := s.locks.Lock(invoiceID)
	defer unlock()

	invoice, err := s.repo.Get(ctx, invoiceID, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	payment := Payment{
		ID:            uuid.NewString(),
		InvoiceID:     invoiceID,
		Amount:        req.Amount,
		PaidAt:        paidAt,
		Method:        req.Method,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.CreatePayment(ctx, payment); err != nil {
			return err
		}
		return resolveAndStore(ctx, repo, invoice)
	})
	if err != nil {
		return nil, fmt.Errorf("add payment: %w", err)
	}
	return &payment, nil
}

// DeletePayment detaches a payment from its invoice and re-resolves the
// status. The payment resolves only through an invoice owned by the caller; a
// payment under someone else's invoice is reported as not found.
func (s *Service) DeletePayment(ctx context.Context, ownerID, paymentID string) error {
	payment, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(payment.InvoiceID)
	defer unlock()

	invoice, err := s.repo.Get(ctx, payment.InvoiceID, ownerID)
	if err != nil {
		return ErrPaymentNotFound
	}

	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.DeletePayment(ctx, paymentID); err != nil {
			return err
		}
		return resolveAndStore(ctx, repo, invoice)
	})
}

// CountByCustomer reports how many invoices reference a customer; it backs the
// customer-deletion guard.
func (s *Service) CountByCustomer(ctx context.Context, customerID, ownerID string) (int, error) {
	return s.repo.CountByCustomer(ctx, customerID, ownerID)
}

func resolveAndStore(ctx context.Context, repo Repository, invoice *Invoice) error {
	payments, err := repo.ListPayments(ctx, invoice.ID)
	if err != nil {
		return err
	}
	next := ResolveStatus(invoice.Status, invoice.Total, TotalPaid(payments))
	if next == invoice.Status {
		return nil
	}
	return repo.UpdateStatus(ctx, invoice.ID, next)
}
