package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circle-social/circle-backend/internal/auth/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       "user-1",
		Username: "alice",
		Roles:    []string{"member"},
	}
}

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", 15*time.Minute)

	signed, claims, err := issuer.Issue(testUser(), time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	assert.NotEmpty(t, claims.ID, "every token gets a jti")

	parsed, err := issuer.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.Subject)
	assert.Equal(t, "alice", parsed.Username)
	assert.Equal(t, []string{"member"}, parsed.Roles)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestParse_Expired(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)

	signed, _, err := issuer.Issue(testUser(), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = issuer.Parse(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestParse_WrongSecret(t *testing.T) {
	signed, _, err := NewIssuer("secret-a", time.Minute).Issue(testUser(), time.Now())
	require.NoError(t, err)

	_, err = NewIssuer("secret-b", time.Minute).Parse(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)

	for _, tokenString := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		_, err := issuer.Parse(tokenString)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	}
}

func TestParse_MissingExpiry(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)

	// Correctly signed, but with no exp claim. The library would accept it
	// as a token that never expires.
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "user-1",
			ID:      "jti-1",
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = issuer.Parse(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestIssue_UniqueJTIs(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)

	_, first, err := issuer.Issue(testUser(), time.Now())
	require.NoError(t, err)
	_, second, err := issuer.Issue(testUser(), time.Now())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}
