package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// TokenStore issues and validates opaque bearer tokens backed by Redis. The
// token value maps to the user id with a TTL; revocation is a key delete.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Issue creates a fresh token for the user.
func (ts *TokenStore) Issue(ctx context.Context, userID string) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	if err := ts.client.Set(ctx, tokenKey(token), userID, ts.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Validate resolves a token to its user id. Unknown or expired tokens yield
// ErrUnauthorized.
func (ts *TokenStore) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", shared.ErrUnauthorized
	}
	userID, err := ts.client.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shared.ErrUnauthorized
		}
		return "", err
	}
	return userID, nil
}

// Revoke invalidates a token.
func (ts *TokenStore) Revoke(ctx context.Context, token string) error {
	return ts.client.Del(ctx, tokenKey(token)).Err()
}

func tokenKey(token string) string {
	return "token:" + token
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
