package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/shared"
)

type fakeRepo struct {
	customers map[string]*Customer
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{customers: make(map[string]*Customer)}
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, f)
}

func (f *fakeRepo) Get(_ context.Context, id, ownerID string) (*Customer, error) {
	c, ok := f.customers[id]
	if !ok || c.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, ownerID string) ([]Customer, error) {
	var out []Customer
	for _, c := range f.customers {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, customer Customer) error {
	f.customers[customer.ID] = &customer
	return nil
}

func (f *fakeRepo) Update(_ context.Context, id, ownerID string, updates map[string]interface{}) error {
	c, ok := f.customers[id]
	if !ok || c.OwnerID != ownerID {
		return ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "name":
			c.Name = v.(string)
		case "email":
			c.Email = v.(string)
		case "phone":
			phone := v.(string)
			c.Phone = &phone
		case "notes":
			notes := v.(string)
			c.Notes = &notes
		case "street":
			c.Address.Street = v.(*string)
		case "city":
			c.Address.City = v.(*string)
		case "state":
			c.Address.State = v.(*string)
		case "zip_code":
			c.Address.ZipCode = v.(*string)
		case "country":
			c.Address.Country = v.(*string)
		}
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id, ownerID string) error {
	c, ok := f.customers[id]
	if !ok || c.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(f.customers, id)
	return nil
}

type stubCounter struct {
	count int
}

func (s stubCounter) CountByCustomer(_ context.Context, _, _ string) (int, error) {
	return s.count, nil
}

func strPtr(s string) *string { return &s }

func TestCreateCustomer(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, stubCounter{})

	customer, err := svc.Create(context.Background(), "owner-1", CreateCustomerRequest{
		Name:  "Acme Corp",
		Email: "billing@acme.test",
		Phone: strPtr("+1-555-0100"),
		Address: Address{
			Street: strPtr("1 Main St"),
			City:   strPtr("Springfield"),
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, customer.ID)
	require.Equal(t, "owner-1", customer.OwnerID)
	require.Contains(t, repo.customers, customer.ID)
}

func TestUpdateCustomerPresenceBased(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, stubCounter{})

	created, err := svc.Create(context.Background(), "owner-1", CreateCustomerRequest{
		Name:  "Acme Corp",
		Email: "billing@acme.test",
		Phone: strPtr("+1-555-0100"),
	})
	require.NoError(t, err)

	// An explicit empty string clears the field; an absent pointer leaves the
	// stored value untouched.
	updated, err := svc.Update(context.Background(), "owner-1", created.ID, UpdateCustomerRequest{
		Phone: strPtr(""),
	})
	require.NoError(t, err)
	require.Equal(t, "Acme Corp", updated.Name)
	require.Equal(t, "billing@acme.test", updated.Email)
	require.NotNil(t, updated.Phone)
	require.Empty(t, *updated.Phone)
}

func TestUpdateCustomerReplacesAddressWholesale(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, stubCounter{})

	created, err := svc.Create(context.Background(), "owner-1", CreateCustomerRequest{
		Name:  "Acme Corp",
		Email: "billing@acme.test",
		Address: Address{
			Street:  strPtr("1 Main St"),
			City:    strPtr("Springfield"),
			Country: strPtr("US"),
		},
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "owner-1", created.ID, UpdateCustomerRequest{
		Address: &Address{City: strPtr("Shelbyville")},
	})
	require.NoError(t, err)
	require.Nil(t, updated.Address.Street)
	require.Nil(t, updated.Address.Country)
	require.Equal(t, "Shelbyville", *updated.Address.City)
}

func TestUpdateCustomerNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), stubCounter{})

	_, err := svc.Update(context.Background(), "owner-1", "cust-missing", UpdateCustomerRequest{Name: strPtr("X")})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteCustomerBlockedByInvoices(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, stubCounter{count: 2})

	created, err := svc.Create(context.Background(), "owner-1", CreateCustomerRequest{
		Name:  "Acme Corp",
		Email: "billing@acme.test",
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "owner-1", created.ID)
	require.ErrorIs(t, err, ErrHasInvoices)
	require.ErrorIs(t, err, shared.ErrConflict)
	require.Contains(t, repo.customers, created.ID)
}

func TestDeleteCustomerWithoutInvoices(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, stubCounter{})

	created, err := svc.Create(context.Background(), "owner-1", CreateCustomerRequest{
		Name:  "Acme Corp",
		Email: "billing@acme.test",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "owner-1", created.ID))
	require.Empty(t, repo.customers)
}

func TestDeleteCustomerForeignOwner(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, stubCounter{})

	created, err := svc.Create(context.Background(), "owner-1", CreateCustomerRequest{
		Name:  "Acme Corp",
		Email: "billing@acme.test",
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "owner-2", created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
