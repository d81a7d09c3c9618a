package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"

	"github.com/circle-social/circle-backend/internal/auth/domain"
	"github.com/circle-social/circle-backend/internal/auth/token"
)

type fakeAuthenticator struct {
	claims *token.Claims
	err    error
}

func (f *fakeAuthenticator) Authenticate(context.Context, string) (*token.Claims, error) {
	return f.claims, f.err
}

func newAuthRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetString("user_id"),
			"username": c.GetString("username"),
		})
	})
	return r
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	r := newAuthRouter(&fakeAuthenticator{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization token")
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	r := newAuthRouter(&fakeAuthenticator{})

	for _, header := range []string{"token-without-scheme", "Basic abc", "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	r := newAuthRouter(&fakeAuthenticator{err: domain.ErrInvalidToken})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestRequireAuth_LoadsIdentity(t *testing.T) {
	claims := &token.Claims{
		Username:         "alice",
		Roles:            []string{"member"},
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ID: "jti-1"},
	}
	r := newAuthRouter(&fakeAuthenticator{claims: claims})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user-1"`)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
}
