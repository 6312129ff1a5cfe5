package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("rental-api-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

	got, ok := tokenExpiry(signed(t, jwt.MapClaims{"sub": "u-1", "exp": exp.Unix()}))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = tokenExpiry(signed(t, jwt.MapClaims{"sub": "u-1"}))
	assert.False(t, ok, "token without exp")

	_, ok = tokenExpiry("opaque-token")
	assert.False(t, ok, "not a JWT")
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2026, time.October, 18, 8, 0, 0, 0, time.UTC)
	ttl := 12 * time.Hour

	t.Run("ttl only", func(t *testing.T) {
		assert.Equal(t, now.Add(ttl), sessionExpiry(now, ttl, "opaque", nil))
	})

	t.Run("stated expiry is earlier", func(t *testing.T) {
		stated := now.Add(time.Hour)
		assert.Equal(t, stated, sessionExpiry(now, ttl, "opaque", &stated))
	})

	t.Run("stated expiry is later", func(t *testing.T) {
		stated := now.Add(48 * time.Hour)
		assert.Equal(t, now.Add(ttl), sessionExpiry(now, ttl, "opaque", &stated))
	})

	t.Run("token exp wins", func(t *testing.T) {
		exp := now.Add(30 * time.Minute)
		stated := now.Add(time.Hour)
		token := signed(t, jwt.MapClaims{"exp": exp.Unix()})
		assert.True(t, exp.Equal(sessionExpiry(now, ttl, token, &stated)))
	})

	t.Run("expired token", func(t *testing.T) {
		token := signed(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()})
		assert.False(t, sessionExpiry(now, ttl, token, nil).After(now))
	})
}
