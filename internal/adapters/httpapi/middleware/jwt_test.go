package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.StandardClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestParseSubject(t *testing.T) {
	tok := sign(t, jwt.SigningMethodHS256, secret, jwt.StandardClaims{Subject: "user-1"})
	sub, err := ParseSubject(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)

	_, err = ParseSubject(tok, []byte("other"))
	assert.Error(t, err)

	noSub := sign(t, jwt.SigningMethodHS256, secret, jwt.StandardClaims{})
	_, err = ParseSubject(noSub, secret)
	assert.Error(t, err)

	expired := sign(t, jwt.SigningMethodHS256, secret, jwt.StandardClaims{
		Subject:   "user-1",
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	})
	_, err = ParseSubject(expired, secret)
	assert.Error(t, err)

	_, err = ParseSubject("not-a-token", secret)
	assert.Error(t, err)
}

func TestJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(secret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(UserIDKey))
	})

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{name: "valid", header: "Bearer " + sign(t, jwt.SigningMethodHS256, secret, jwt.StandardClaims{Subject: "u42"}), code: http.StatusOK, body: "u42"},
		{name: "missing", header: "", code: http.StatusUnauthorized},
		{name: "no bearer prefix", header: "Token abc", code: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def.ghi", code: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
