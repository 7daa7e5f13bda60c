package customers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// ErrHasInvoices blocks deletion of a customer still referenced by invoices.
var ErrHasInvoices = fmt.Errorf("%w: customer has invoices", shared.ErrConflict)

// InvoiceCounter reports how many invoices reference a customer. Implemented
// by the invoices repository; injected to keep the package dependency one-way.
type InvoiceCounter interface {
	CountByCustomer(ctx context.Context, customerID, ownerID string) (int, error)
}

// Service handles customer business logic.
type Service struct {
	repo     Repository
	invoices InvoiceCounter
}

// NewService builds a Service instance.
func NewService(repo Repository, invoices InvoiceCounter) *Service {
	return &Service{repo: repo, invoices: invoices}
}

func (s *Service) Create(ctx context.Context, ownerID string, req CreateCustomerRequest) (*Customer, error) {
	now := time.Now()
	customer := Customer{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &customer, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id string, req UpdateCustomerRequest) (*Customer, error) {
	existing, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Address != nil {
		updates["street"] = req.Address.Street
		updates["city"] = req.Address.City
		updates["state"] = req.Address.State
		updates["zip_code"] = req.Address.ZipCode
		updates["country"] = req.Address.Country
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, ownerID, updates); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return s.repo.Get(ctx, id, ownerID)
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*Customer, error) {
	return s.repo.Get(ctx, id, ownerID)
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Customer, error) {
	return s.repo.List(ctx, ownerID)
}

// Delete removes a customer. Deletion is forbidden while any invoice, in any
// status, still references it.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.repo.Get(ctx, id, ownerID); err != nil {
		return err
	}

	count, err := s.invoices.CountByCustomer(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("count customer invoices: %w", err)
	}
	if count > 0 {
		return ErrHasInvoices
	}

	return s.repo.Delete(ctx, id, ownerID)
}
