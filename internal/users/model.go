package users

import "time"

// Company is the optional issuer profile printed on invoice documents.
type Company struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Website *string `json:"website,omitempty"`
}

// User model. PasswordHash is never serialized outward.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Company      *Company  `json:"company,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdateUserRequest is a presence-based partial update of the profile.
type UpdateUserRequest struct {
	Name    *string  `json:"name"`
	Company *Company `json:"company"`
}
