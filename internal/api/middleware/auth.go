package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rrens/chatrooms/internal/api/response"
	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/security"
)

type contextKey string

const ProfileKey contextKey = "profile"

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *security.JWTManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *security.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate validates the JWT token
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := m.jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		ctx := WithProfile(r.Context(), claims.Profile())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithProfile stores the signed-in profile in ctx
func WithProfile(ctx context.Context, p domain.Profile) context.Context {
	return context.WithValue(ctx, ProfileKey, p)
}

// GetProfile gets the signed-in profile from context
func GetProfile(ctx context.Context) (domain.Profile, bool) {
	p, ok := ctx.Value(ProfileKey).(domain.Profile)
	return p, ok
}
