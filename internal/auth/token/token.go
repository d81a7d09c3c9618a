package token

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/circle-social/circle-backend/internal/auth/domain"
)

// Claims carried in every access token.
type Claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and parses access tokens with a shared HMAC secret.
type Issuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewIssuer(secret string, accessTTL time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), accessTTL: accessTTL}
}

// Issue creates a signed access token for the user. Every token gets a fresh
// jti so individual tokens can be revoked before expiry.
func (i *Issuer) Issue(user *domain.User, now time.Time) (string, *Claims, error) {
	claims := &Claims{
		Username: user.Username,
		Roles:    user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse validates signature and expiry and returns the claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	// The library treats a missing exp claim as valid; a token we issue
	// always carries one, so its absence means the token is forged.
	if claims.ExpiresAt == nil {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// AccessTTL exposes the configured token lifetime.
func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}
