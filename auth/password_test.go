package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw1234")
	require.NoError(t, err)
	require.NotEqual(t, "pw1234", hash)

	require.True(t, CheckPassword(hash, "pw1234"))
	require.False(t, CheckPassword(hash, "pw12345"))
	require.False(t, CheckPassword(hash, ""))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("pw1234")
	require.NoError(t, err)
	h2, err := HashPassword("pw1234")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestCheckPasswordBadHash(t *testing.T) {
	require.False(t, CheckPassword("not-a-bcrypt-hash", "pw1234"))
}
