package dto

// SignupDTO deliberately has no binding tags: field-level messages come from
// the store's validation, keyed by the first offending field.
type SignupDTO struct {
	Account  string `json:"account"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginDTO struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// UpdateCartDTO adjusts one cart entry by a quantity delta; a resulting
// quantity of zero or less removes the entry.
type UpdateCartDTO struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}
