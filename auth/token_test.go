package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndDecode(t *testing.T) {
	issuer := NewIssuer("super-secret", time.Hour)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.Subject)
	require.False(t, claims.Expired(time.Now()))
}

func TestIssueUniquePerCall(t *testing.T) {
	// Two logins for the same user in the same second must mint distinct
	// token strings, or they could not be revoked one at a time.
	issuer := NewIssuer("super-secret", time.Hour)

	t1, err := issuer.Issue("user-123")
	require.NoError(t, err)
	t2, err := issuer.Issue("user-123")
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)

	c1, err := issuer.Decode(t1)
	require.NoError(t, err)
	c2, err := issuer.Decode(t2)
	require.NoError(t, err)
	require.NotEmpty(t, c1.ID)
	require.NotEqual(t, c1.ID, c2.ID)
}

func TestDecodeWrongSecret(t *testing.T) {
	token, err := NewIssuer("right-secret", time.Hour).Issue("u1")
	require.NoError(t, err)

	_, err = NewIssuer("wrong-secret", time.Hour).Decode(token)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestDecodeGarbage(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Decode(token)
		require.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestDecodeExpiredStillDecodes(t *testing.T) {
	// Expiry is the caller's call: a stale token with a good signature
	// must come back with its claims intact.
	issuer := NewIssuer("secret", -time.Hour)

	token, err := issuer.Issue("u1")
	require.NoError(t, err)

	claims, err := issuer.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.Subject)
	require.True(t, claims.Expired(time.Now()))
}
