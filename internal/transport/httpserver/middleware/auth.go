package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"church-admin-go/internal/config"
	"church-admin-go/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

// JWTAuth verifies HS256 bearer tokens issued by the identity provider.
// Token issuance lives outside this service; only verification happens here.
type JWTAuth struct {
	secret   []byte
	skipAuth bool
	log      logger.Logger
}

type contextKey int

const adminKey contextKey = iota

// Admin is the authenticated caller extracted from the token claims.
type Admin struct {
	ID   string
	Name string
}

func NewJWTAuth(cfg config.AuthConfig, log logger.Logger) *JWTAuth {
	return &JWTAuth{
		secret:   []byte(cfg.JWTSecret),
		skipAuth: cfg.SkipAuth,
		log:      log,
	}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			ctx := withAdmin(r.Context(), Admin{ID: "dev", Name: "dev"})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if len(a.secret) == 0 {
			writeAuthError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		tokenString, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			a.log.BusinessError("auth: token rejected", err)
			writeAuthError(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token")
			return
		}

		admin := Admin{}
		if sub, err := claims.GetSubject(); err == nil {
			admin.ID = sub
		}
		if name, ok := claims["name"].(string); ok {
			admin.Name = name
		}
		if admin.ID == "" {
			writeAuthError(w, http.StatusUnauthorized, "invalid_token", "token has no subject")
			return
		}

		next.ServeHTTP(w, r.WithContext(withAdmin(r.Context(), admin)))
	})
}

func withAdmin(ctx context.Context, admin Admin) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

func AdminFromContext(ctx context.Context) (Admin, bool) {
	admin, ok := ctx.Value(adminKey).(Admin)
	return admin, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": code, "message": message},
	})
}
