package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sahan/schoolpride/internal/app/models/dto"
	"github.com/sahan/schoolpride/internal/app/services"
	"github.com/sahan/schoolpride/internal/middleware"
)

// AuthController handles the admin login code exchange
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// RequestCode handles issuing a one-time login code
// @Summary Request an admin login code
// @Description Sends a one-time login code to an allow-listed admin email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RequestCodeRequest true "Admin email"
// @Success 200 {object} dto.APIResponse{data=dto.RequestCodeResponse} "Login code sent"
// @Failure 400 {object} dto.ErrorResponse "Invalid email"
// @Failure 403 {object} dto.ErrorResponse "Email not allow-listed"
// @Router /auth/request-code [post]
func (c *AuthController) RequestCode(ctx *gin.Context) {
	var req dto.RequestCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.authService.RequestCode(ctx, req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.RequestCodeResponse{
		Message: "Login code sent",
	}))
}

// VerifyCode handles exchanging a login code for an access token
// @Summary Verify an admin login code
// @Description Exchanges a pending one-time code for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyCodeRequest true "Email and code"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired code"
// @Router /auth/verify-code [post]
func (c *AuthController) VerifyCode(ctx *gin.Context) {
	var req dto.VerifyCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	token, err := c.authService.VerifyCode(ctx, req.Email, req.Code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(token))
}
