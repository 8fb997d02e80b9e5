package middleware

import (
	"context"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/whiteboard/enrollment-service/internal/core/domain"
)

// AuthMiddleware verifies the bearer token and places the caller's
// claims in the request context. Authorization itself happens later at
// the access gate; an unauthenticated request never reaches it.
type AuthMiddleware struct {
	publicKey   *rsa.PublicKey
	redisClient *redis.Client
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, redisClient *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey:   publicKey,
		redisClient: redisClient,
	}
}

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFrom extracts the authenticated caller from the request
// context. The second return is false when authentication never ran.
func PrincipalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// WithPrincipal returns ctx carrying the given caller. Handler tests use
// it to stand in for Authenticate.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Authenticate wraps next so it only runs for requests carrying a valid,
// non-revoked RS256 bearer token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		})
		if err != nil || !token.Valid {
			slog.Debug("token rejected", "error", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		userID, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)
		if userID == "" || email == "" || role == "" {
			http.Error(w, "invalid token: missing claims", http.StatusUnauthorized)
			return
		}
		course, _ := claims["course"].(string)

		if m.revoked(r.Context(), tokenString) {
			http.Error(w, "token revoked", http.StatusUnauthorized)
			return
		}

		principal := domain.Principal{
			UserID: userID,
			Email:  email,
			Role:   domain.Role(role),
			Course: course,
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// revoked checks the token hash against the Redis denylist. A Redis
// outage fails open: token expiry remains the hard bound.
func (m *AuthMiddleware) revoked(ctx context.Context, tokenString string) bool {
	if m.redisClient == nil {
		return false
	}

	sum := sha256.Sum256([]byte(tokenString))
	key := "revoked:" + hex.EncodeToString(sum[:])

	n, err := m.redisClient.Exists(ctx, key).Result()
	if err != nil {
		slog.Warn("revocation check failed", "error", err)
		return false
	}
	return n > 0
}
