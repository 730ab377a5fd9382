package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Leileisme/Shop-back/models"
)

// Validation runs before any database work, so these paths need no
// collection behind the store.
func TestCreateValidation(t *testing.T) {
	store := NewUserStore(nil)

	tests := []struct {
		name    string
		user    models.User
		field   string
		message string
	}{
		{
			"bad account",
			models.User{Account: "a!", Email: "a@example.com", Password: "pw1234"},
			"account", "user account length invalid",
		},
		{
			"bad email",
			models.User{Account: "alice123", Email: "nope", Password: "pw1234"},
			"email", "user email format invalid",
		},
		{
			"missing password",
			models.User{Account: "alice123", Email: "a@example.com"},
			"password", "missing user password",
		},
		{
			"password too short",
			models.User{Account: "alice123", Email: "a@example.com", Password: "pw1"},
			"password", "user password length invalid",
		},
		{
			"password too long",
			models.User{Account: "alice123", Email: "a@example.com", Password: "pw123456789012345678901"},
			"password", "user password length invalid",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user := tc.user
			err := store.Create(context.Background(), &user)

			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			field, message := verr.First()
			require.Equal(t, tc.field, field)
			require.Equal(t, tc.message, message)
			// Nothing was persisted and the secret was not hashed.
			require.Equal(t, tc.user.Password, user.Password)
		})
	}
}
