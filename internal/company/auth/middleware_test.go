package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func protected(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		claims, ok := ClaimsFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "test-user", claims["sub"])
		w.WriteHeader(http.StatusOK)
	})
	return HTTPMiddleware(next, testSecret), &reached
}

func TestHTTPMiddleware(t *testing.T) {
	t.Run("valid token passes", func(t *testing.T) {
		token, err := GenerateToken("test-user", testSecret)
		require.NoError(t, err)

		handler, reached := protected(t)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *reached)
	})

	t.Run("missing header", func(t *testing.T) {
		handler, reached := protected(t)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *reached)
	})

	t.Run("malformed header", func(t *testing.T) {
		handler, reached := protected(t)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *reached)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateToken("test-user", "other-secret")
		require.NoError(t, err)

		handler, reached := protected(t)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *reached)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		// "none" tokens must never be accepted.
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "test-user"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		handler, reached := protected(t)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *reached)
	})
}
