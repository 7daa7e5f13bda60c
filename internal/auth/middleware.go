package auth

import (
	"net/http"
	"strings"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// Middleware validates bearer tokens and injects the verified owner id into
// the request context. Everything behind it can trust shared.OwnerFromContext.
type Middleware struct {
	Tokens *TokenStore
}

// RequireAuth rejects requests without a valid Authorization bearer token.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.Tokens.Validate(r.Context(), BearerToken(r))
		if err != nil {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		ctx := shared.ContextWithOwner(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
