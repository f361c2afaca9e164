package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/exp/slog"
)

// Context keys set for authenticated requests
const (
	OperatorIDKey    = "operatorID"
	OperatorEmailKey = "operatorEmail"
	OperatorRoleKey  = "operatorRole"
)

// JWTAuthMiddleware creates a gin middleware for JWT authentication.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	if secret == "" {
		slog.Error("JWTAuthMiddleware: JWT secret is not configured, every protected request will be rejected")
	}

	return func(c *gin.Context) {
		const bearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			abortUnauthorized(c, "Authorization header must start with Bearer ")
			return
		}

		claims, err := jwt.Parse(secret, strings.TrimSpace(authHeader[len(bearerSchema):]))
		if err != nil {
			slog.Warn("JWTAuthMiddleware: token validation failed", "error", err, "requestId", c.GetString(RequestIDKey))
			if errors.Is(err, gojwt.ErrTokenExpired) {
				abortUnauthorized(c, "Token has expired")
			} else {
				abortUnauthorized(c, "Invalid token")
			}
			return
		}

		c.Set(OperatorIDKey, claims.Subject)
		c.Set(OperatorEmailKey, claims.Email)
		c.Set(OperatorRoleKey, claims.Role)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": models.KindUnauthorized, "message": message})
}
