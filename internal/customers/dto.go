package customers

// CreateCustomerRequest carries the fields accepted when creating a customer.
type CreateCustomerRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Address Address `json:"address"`
	Notes   *string `json:"notes"`
}

// UpdateCustomerRequest is a presence-based partial update: nil means "leave
// unchanged", a non-nil pointer (including one to an empty string) means "set".
// A present Address replaces the stored address block wholesale.
type UpdateCustomerRequest struct {
	Name    *string  `json:"name"`
	Email   *string  `json:"email" validate:"omitempty,email"`
	Phone   *string  `json:"phone"`
	Address *Address `json:"address"`
	Notes   *string  `json:"notes"`
}
