package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, expires, err := issuer.GenerateToken("admin@example.com", "Admin User", "Admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Subject)
	assert.Equal(t, "Admin User", claims.Name)
	assert.Equal(t, "Admin", claims.Role)
}

func TestValidateTokenRejects(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, _, err := issuer.GenerateToken("admin@example.com", "Admin User", "Admin")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewIssuer("other-secret", time.Hour).ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewIssuer("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("no subject", func(t *testing.T) {
		anonymous, _, err := issuer.GenerateToken("", "Nobody", "Staff")
		require.NoError(t, err)
		_, err = issuer.ValidateToken(anonymous)
		assert.Error(t, err)
	})
}

func TestCredential(t *testing.T) {
	cred, err := NewCredential("admin@example.com", "admin123", "Admin User", "Admin")
	require.NoError(t, err)

	assert.NoError(t, cred.Check("admin@example.com", "admin123"))
	assert.NoError(t, cred.Check(" ADMIN@example.com ", "admin123"))
	assert.ErrorIs(t, cred.Check("admin@example.com", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, cred.Check("someone@example.com", "admin123"), ErrInvalidCredentials)
	assert.NotContains(t, string(cred.hash), "admin123")

	_, err = NewCredential("", "x", "n", "Admin")
	assert.Error(t, err)
}
