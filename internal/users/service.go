package users

import (
	"context"
	"fmt"
)

// Service handles profile reads and updates. Registration and credential
// checks live in the auth package.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns one user profile.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies a presence-based partial update of name and company
// block and returns the fresh record.
func (s *Service) UpdateProfile(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Company != nil {
		company, err := marshalCompany(req.Company)
		if err != nil {
			return nil, err
		}
		updates["company"] = company
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return s.repo.GetByID(ctx, id)
}
