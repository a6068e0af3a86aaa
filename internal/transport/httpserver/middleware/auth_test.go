package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"church-admin-go/internal/config"
	"church-admin-go/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authHandler(t *testing.T, cfg config.AuthConfig) (http.Handler, *Admin) {
	t.Helper()
	var seen Admin
	auth := NewJWTAuth(cfg, logger.New(io.Discard, slog.LevelError, "text"))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if admin, ok := AdminFromContext(r.Context()); ok {
			seen = admin
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return auth.Middleware(next), &seen
}

func TestJWTAuth(t *testing.T) {
	t.Run("valid token passes with admin in context", func(t *testing.T) {
		handler, seen := authHandler(t, config.AuthConfig{JWTSecret: testSecret})

		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":  "admin-1",
			"name": "Pastor John",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})

		r := httptest.NewRequest("GET", "/api/families", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "admin-1", seen.ID)
		assert.Equal(t, "Pastor John", seen.Name)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		handler, _ := authHandler(t, config.AuthConfig{JWTSecret: testSecret})

		r := httptest.NewRequest("GET", "/api/families", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong signature is unauthorized", func(t *testing.T) {
		handler, _ := authHandler(t, config.AuthConfig{JWTSecret: testSecret})

		token := signToken(t, "other-secret", jwt.MapClaims{
			"sub": "admin-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		r := httptest.NewRequest("GET", "/api/families", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token is unauthorized", func(t *testing.T) {
		handler, _ := authHandler(t, config.AuthConfig{JWTSecret: testSecret})

		token := signToken(t, testSecret, jwt.MapClaims{
			"sub": "admin-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		r := httptest.NewRequest("GET", "/api/families", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token without subject is unauthorized", func(t *testing.T) {
		handler, _ := authHandler(t, config.AuthConfig{JWTSecret: testSecret})

		token := signToken(t, testSecret, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		r := httptest.NewRequest("GET", "/api/families", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skip auth injects a dev admin", func(t *testing.T) {
		handler, seen := authHandler(t, config.AuthConfig{SkipAuth: true})

		r := httptest.NewRequest("GET", "/api/families", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "dev", seen.ID)
	})
}
