package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestCodeRequest asks for a one-time login code to be emailed
type RequestCodeRequest struct {
	Email string `json:"email" binding:"required,email" example:"admin@school.lk"`
}

// VerifyCodeRequest exchanges an emailed one-time code for a session token
type VerifyCodeRequest struct {
	Email string `json:"email" binding:"required,email" example:"admin@school.lk"`
	Code  string `json:"code" binding:"required,len=6,numeric" example:"482913"`
}

// TokenResponse carries the issued session token
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"43200"`
}

// RequestCodeResponse confirms that a code was dispatched
type RequestCodeResponse struct {
	Message string `json:"message" example:"A one-time code has been sent to your inbox."`
}

// HandleValidationError converts binding/validation failures into a
// user-presentable ErrorDetail
func HandleValidationError(err error) *ErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		messages := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			messages = append(messages, formatFieldError(fe))
		}
		detail := NewErrorDetail(ErrorCodeValidationFailed, messages[0])
		if len(messages) > 1 {
			detail = detail.WithDetails(messages)
		}
		return detail.WithField(verrs[0].Field())
	}

	return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
}

// formatFieldError creates a human-readable validation error message
func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "len":
		return field + " must be exactly " + e.Param() + " characters"
	case "numeric":
		return field + " must contain only digits"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}
