package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "userID"
	EmailKey  = "email"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthMiddleware verifies the bearer token and sets the caller's identity in
// the context. Requests without a valid token are aborted with 401 before any
// handler runs.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		claims, err := validator.Validate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.ErrInvalidToken, err))
			return
		}

		identity := auth.Resolve(claims)
		c.Set(UserIDKey, identity.Subject)
		c.Set(EmailKey, identity.Email)
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	RespondWithError(c, err)
	c.Abort()
}
