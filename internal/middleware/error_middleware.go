package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sahan/schoolpride/internal/app/models/dto"
	"github.com/sahan/schoolpride/internal/pkg/apperrors"
	"github.com/sahan/schoolpride/internal/pkg/logger"
)

// HandleAPIError maps application errors to HTTP responses. Controllers call
// this for every service error instead of translating errors themselves.
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	message := ""
	if errors.As(err, &customErr) {
		message = customErr.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrAchievementNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, orDefault(message, "Achievement not found"))
	case errors.Is(err, apperrors.ErrStudentNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, orDefault(message, "Student not found"))
	case errors.Is(err, apperrors.ErrMediaNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, orDefault(message, "Media not found"))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, orDefault(message, "Resource not found"))
	case errors.Is(err, apperrors.ErrNotAllowListed):
		respondError(c, http.StatusForbidden, dto.ErrorCodeNotAuthorized, "Email is not authorized for admin access")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, orDefault(message, "Permission denied"))
	case errors.Is(err, apperrors.ErrCodeExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCode, "Login code expired")
	case errors.Is(err, apperrors.ErrCodeInvalid):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCode, "Invalid login code")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, orDefault(message, "Invalid request"))
	case errors.Is(err, apperrors.ErrResourceAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, orDefault(message, "Resource already exists"))
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "An internal server error occurred")
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.APIResponse{
		Error: dto.NewErrorDetail(code, message),
	})
}

func orDefault(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
