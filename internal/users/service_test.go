package users

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/shared"
)

type fakeRepo struct {
	users map[string]*User
}

func (f *fakeRepo) Create(_ context.Context, user User) error {
	f.users[user.ID] = &user
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) Update(_ context.Context, id string, updates map[string]interface{}) error {
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		u.Name = v.(string)
	}
	if v, ok := updates["company"]; ok {
		var c Company
		if err := json.Unmarshal(v.([]byte), &c); err != nil {
			return err
		}
		u.Company = &c
	}
	return nil
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	repo := &fakeRepo{users: map[string]*User{
		"user-1": {ID: "user-1", Name: "Jordan", Email: "jordan@example.test"},
	}}
	svc := NewService(repo)

	updated, err := svc.UpdateProfile(context.Background(), "user-1", UpdateUserRequest{
		Company: &Company{Name: strPtr("Ledgerline Studio")},
	})
	require.NoError(t, err)
	require.Equal(t, "Jordan", updated.Name)
	require.NotNil(t, updated.Company)
	require.Equal(t, "Ledgerline Studio", *updated.Company.Name)

	// Absent fields stay untouched on the next partial update.
	updated, err = svc.UpdateProfile(context.Background(), "user-1", UpdateUserRequest{
		Name: strPtr("Jordan Lee"),
	})
	require.NoError(t, err)
	require.Equal(t, "Jordan Lee", updated.Name)
	require.NotNil(t, updated.Company)
}

func TestUpdateProfileNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{users: map[string]*User{}})

	_, err := svc.UpdateProfile(context.Background(), "user-missing", UpdateUserRequest{Name: strPtr("X")})
	require.ErrorIs(t, err, shared.ErrNotFound)
}
