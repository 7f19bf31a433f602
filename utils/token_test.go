package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_RoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, expiresAt, err := GenerateToken(secret, 42, "ana@clinica.com.br", "ADMIN", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ana@clinica.com.br", claims.Email)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestParseToken_Rejects(t *testing.T) {
	secret := []byte("test-secret")

	expired, _, err := GenerateToken(secret, 1, "a@b.c", "ADMIN", -time.Minute)
	require.NoError(t, err)

	otherKey, _, err := GenerateToken([]byte("other"), 1, "a@b.c", "ADMIN", time.Hour)
	require.NoError(t, err)

	noUser, _, err := GenerateToken(secret, 0, "a@b.c", "ADMIN", time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1}).SignedString(secret)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":       expired,
		"wrong key":     otherKey,
		"zero user id":  noUser,
		"no expiration": noExpiry,
		"garbage":       "not.a.token",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(secret, token)
			assert.Error(t, err)
		})
	}
}
