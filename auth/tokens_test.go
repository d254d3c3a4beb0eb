package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokens("test-secret")

	raw, err := tokens.Issue(Claims{UserID: "m1", Email: "jane@example.com", Role: RoleMarketer, MarketerID: "m1"})
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "m1", claims.UserID)
	assert.Equal(t, RoleMarketer, claims.Role)
	assert.Equal(t, "m1", claims.MarketerID)
	assert.Equal(t, "m1", claims.Subject)
	assert.False(t, claims.IsAdmin())
}

func TestIssueRejectsUnknownRole(t *testing.T) {
	_, err := NewTokens("s").Issue(Claims{UserID: "u1", Role: "root"})
	assert.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	tokens := NewTokens("s")
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }
	raw, err := tokens.Issue(Claims{UserID: "g1", Role: RoleGuest})
	require.NoError(t, err)

	tokens.now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseWrongSecret(t *testing.T) {
	raw, err := NewTokens("one").Issue(Claims{UserID: "u1", Role: RoleUser})
	require.NoError(t, err)

	_, err = NewTokens("two").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{UserID: "u1", Role: RoleAdmin}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = NewTokens("s").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRequiresRole(t *testing.T) {
	claims := Claims{UserID: "u1"}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = NewTokens("s").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
