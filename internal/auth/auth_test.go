package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	a := New("test-secret", 60)

	hash, err := a.HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)

	require.True(t, a.CheckPassword(hash, "hunter22"))
	require.False(t, a.CheckPassword(hash, "hunter23"))
	require.False(t, a.CheckPassword("not-a-hash", "hunter22"))
}

func TestTokenRoundTrip(t *testing.T) {
	a := New("test-secret", 60)

	token, err := a.GenerateToken(42, "alex")
	require.NoError(t, err)

	claims, err := a.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "alex", claims.Username)
	require.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestTokenWrongSecretRejected(t *testing.T) {
	a := New("secret-a", 60)
	b := New("secret-b", 60)

	token, err := a.GenerateToken(1, "alex")
	require.NoError(t, err)

	_, err = b.ValidateToken(token)
	require.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	a := New("test-secret", -1)

	token, err := a.GenerateToken(1, "alex")
	require.NoError(t, err)

	_, err = a.ValidateToken(token)
	require.Error(t, err)
}

func TestExtractClaims(t *testing.T) {
	a := New("test-secret", 60)
	token, err := a.GenerateToken(7, "alex")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/api/me", nil)
	require.Nil(t, a.ExtractClaims(r))

	r.Header.Set("Authorization", "Bearer "+token)
	claims := a.ExtractClaims(r)
	require.NotNil(t, claims)
	require.Equal(t, int64(7), claims.UserID)

	r.Header.Set("Authorization", token)
	require.Nil(t, a.ExtractClaims(r))

	r.Header.Set("Authorization", "Bearer garbage")
	require.Nil(t, a.ExtractClaims(r))
}
