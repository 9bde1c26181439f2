package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "user_1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestStaticTokenSource(t *testing.T) {
	src := NewStaticTokenSource("tok-abc")

	assert.True(t, src.IsSignedIn())
	token, err := src.GetToken(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
}

func TestStaticTokenSourceEmpty(t *testing.T) {
	src := NewStaticTokenSource("")

	assert.False(t, src.IsSignedIn())
	_, err := src.GetToken(context.Background())
	assert.Error(t, err)
}

func TestJWTTokenSourceValid(t *testing.T) {
	src := NewJWTTokenSource(signedToken(t, time.Now().Add(time.Hour)))

	assert.True(t, src.IsSignedIn())
	token, err := src.GetToken(context.Background())
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestJWTTokenSourceExpired(t *testing.T) {
	src := NewJWTTokenSource(signedToken(t, time.Now().Add(-time.Hour)))

	assert.False(t, src.IsSignedIn())
	_, err := src.GetToken(context.Background())
	assert.Error(t, err)
}

func TestJWTTokenSourceMalformed(t *testing.T) {
	src := NewJWTTokenSource("not-a-jwt")

	assert.False(t, src.IsSignedIn())
}

func TestJWTTokenSourceEmpty(t *testing.T) {
	src := NewJWTTokenSource("")

	assert.False(t, src.IsSignedIn())
}
