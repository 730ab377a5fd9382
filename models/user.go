package models

import (
	"net/mail"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role int

const (
	RoleMember Role = 0
	RoleAdmin  Role = 1
)

// CartItem is one entry in a user's cart or an order.
type CartItem struct {
	Product  bson.ObjectID `bson:"product" json:"product"`
	Quantity int           `bson:"quantity" json:"quantity"`
}

// User is the identity record. Tokens holds every currently valid session
// token in login order; a token absent from it is dead no matter what its
// own expiry claim says. The document exclusively owns that list — it is
// only ever mutated through single atomic updates on this document.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Account   string        `bson:"account" json:"account"`
	Email     string        `bson:"email" json:"email"`
	Password  string        `bson:"password" json:"-"` // bcrypt hash, never exposed
	Tokens    []string      `bson:"tokens" json:"-"`
	Cart      []CartItem    `bson:"cart" json:"cart"`
	Role      Role          `bson:"role" json:"role"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// CartQuantity sums the quantities of every cart entry.
func (u *User) CartQuantity() int {
	total := 0
	for _, item := range u.Cart {
		total += item.Quantity
	}
	return total
}

// HasToken reports whether token is in the active set.
func (u *User) HasToken(token string) bool {
	for _, t := range u.Tokens {
		if t == token {
			return true
		}
	}
	return false
}

// Validate checks the account and email constraints. The password length
// check lives with the hashing step, because the stored value is a hash.
func (u *User) Validate() *ValidationError {
	verr := NewValidationError()

	switch {
	case u.Account == "":
		verr.Add("account", "missing user account")
	case len(u.Account) < 4 || len(u.Account) > 20:
		verr.Add("account", "user account length invalid")
	case !isAlphanumeric(u.Account):
		verr.Add("account", "user account format invalid")
	}

	if u.Email == "" {
		verr.Add("email", "missing user email")
	} else if _, err := mail.ParseAddress(u.Email); err != nil {
		verr.Add("email", "user email format invalid")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
