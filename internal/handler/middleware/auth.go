package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"fio-market/internal/pkg/jwt"
	"fio-market/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

// TokenValidator is satisfied by the jwt service.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	tokenValidator TokenValidator
}

const ctxIdentityKey = "identity"

func NewAuthMiddleware(tokenValidator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxIdentityKey, shared.Identity{
			UserID: claims.UserID,
			Roles:  claims.Roles,
		})
		c.Next()
	}
}

func GetIdentity(c *gin.Context) (shared.Identity, bool) {
	value, exists := c.Get(ctxIdentityKey)
	if !exists {
		return shared.Identity{}, false
	}

	identity, ok := value.(shared.Identity)
	return identity, ok
}
