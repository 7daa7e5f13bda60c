package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerline/ledgerline/internal/shared"
	"github.com/ledgerline/ledgerline/internal/users"
)

// RegisterRequest carries a new account registration.
type RegisterRequest struct {
	Name     string         `json:"name" validate:"required"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=8"`
	Company  *users.Company `json:"company"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service wraps authentication business rules.
type Service struct {
	repo   users.Repository
	tokens *TokenStore
}

// NewService constructs a new Service.
func NewService(repo users.Repository, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates a user account with a bcrypt password hash and returns a
// fresh access token.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := users.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Company:      req.Company,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return "", err
	}
	return s.tokens.Issue(ctx, user.ID)
}

// Login validates email/password credentials and returns a fresh access
// token. A missing user and a wrong password are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", shared.ErrInvalidCredentials
	}
	return s.tokens.Issue(ctx, user.ID)
}

// Logout revokes an access token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}
