package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func validUser() User {
	return User{
		Account: "alice123",
		Email:   "alice@example.com",
	}
}

func TestUserValidateOK(t *testing.T) {
	u := validUser()
	require.Nil(t, u.Validate())
}

func TestUserValidateAccount(t *testing.T) {
	tests := []struct {
		name    string
		account string
		message string
	}{
		{"missing", "", "missing user account"},
		{"too short", "abc", "user account length invalid"},
		{"too long", "abcdefghijklmnopqrstu", "user account length invalid"},
		{"not alphanumeric", "alice!", "user account format invalid"},
		{"spaces", "ali ce", "user account format invalid"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := validUser()
			u.Account = tc.account

			verr := u.Validate()
			require.NotNil(t, verr)
			field, message := verr.First()
			require.Equal(t, "account", field)
			require.Equal(t, tc.message, message)
		})
	}
}

func TestUserValidateEmail(t *testing.T) {
	u := validUser()
	u.Email = "not-an-email"

	verr := u.Validate()
	require.NotNil(t, verr)
	field, message := verr.First()
	require.Equal(t, "email", field)
	require.Equal(t, "user email format invalid", message)

	u.Email = ""
	verr = u.Validate()
	require.NotNil(t, verr)
	require.Equal(t, "missing user email", verr.Fields["email"])
}

func TestValidationErrorFirstField(t *testing.T) {
	u := User{Account: "a!", Email: "bad"}

	verr := u.Validate()
	require.NotNil(t, verr)
	require.Len(t, verr.Fields, 2)
	// First offending field wins, map order must not leak through.
	field, _ := verr.First()
	require.Equal(t, "account", field)
}

func TestCartQuantity(t *testing.T) {
	u := User{Cart: []CartItem{
		{Product: bson.NewObjectID(), Quantity: 2},
		{Product: bson.NewObjectID(), Quantity: 3},
	}}
	require.Equal(t, 5, u.CartQuantity())
	require.Equal(t, 0, (&User{}).CartQuantity())
}

func TestHasToken(t *testing.T) {
	u := User{Tokens: []string{"t1", "t2"}}
	require.True(t, u.HasToken("t1"))
	require.True(t, u.HasToken("t2"))
	require.False(t, u.HasToken("t3"))
	require.False(t, (&User{}).HasToken("t1"))
}
