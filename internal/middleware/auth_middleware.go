package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sahan/schoolpride/internal/app/models/dto"
	"github.com/sahan/schoolpride/internal/pkg/apperrors"
	"github.com/sahan/schoolpride/internal/pkg/auth"
	"github.com/sahan/schoolpride/internal/pkg/logger"
)

// ContextKeyAdminEmail is the gin context key carrying the authenticated
// admin's email.
const ContextKeyAdminEmail = "adminEmail"

// AllowListChecker re-checks an email against the admin allow-list.
type AllowListChecker interface {
	IsAllowedAdminEmail(ctx context.Context, email string) (bool, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	allowList  AllowListChecker
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, allowList AllowListChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		allowList:  allowList,
	}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
			errorDetail = errorDetail.WithDetails(details)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextKeyAdminEmail, claims.Email)
		c.Next()
	}
}

// AdminRequired checks the authenticated email against the allow-list on
// every request. A valid token whose email has been removed from the
// allow-list loses access immediately, not at token expiry.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ContextKeyAdminEmail)
		if email == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		allowed, err := m.allowList.IsAllowedAdminEmail(c.Request.Context(), email)
		if err != nil {
			logger.Error().Err(err).Str("email", email).Msg("Allow-list check failed")
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "An internal server error occurred")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
			return
		}
		if !allowed {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeNotAuthorized, "Email is not authorized for admin access")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}
