package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	tok, err := GenerateToken("user-123", secret, time.Hour)
	require.NoError(t, err)

	got, err := GetUserIDFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)
}

func TestGetUserIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("u1", secret, -time.Minute)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(tok, secret)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestGetUserIDFromToken_Invalid(t *testing.T) {
	t.Parallel()

	good, err := GenerateToken("u2", []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "u3"}).SignedString([]byte("k"))
	require.NoError(t, err)

	cases := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", good, "wrong-secret"},
		{"malformed", "not.a.jwt", "k"},
		{"empty", "", "k"},
		{"missing user", noUser, "k"},
		{"unexpected algorithm", hs512, "k"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := GetUserIDFromToken(tc.token, []byte(tc.secret))
			require.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}
