package shared

import "errors"

var (
	// ErrNotFound indicates a record does not exist under the requesting owner.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates the request payload failed a domain rule.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates the operation is blocked by existing references.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a missing or expired access token.
	ErrUnauthorized = errors.New("unauthorized")
)

// UserSafeMessage returns a message safe to show to API clients. Internal
// failures are collapsed to a generic string so persistence details never leak.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUnauthorized):
		return err.Error()
	default:
		return "internal error"
	}
}
