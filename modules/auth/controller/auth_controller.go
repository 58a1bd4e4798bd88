package controller

import (
	"interviewhub/core/constants"
	"interviewhub/core/controller"
	"interviewhub/core/errors"
	"interviewhub/core/params"
	"interviewhub/core/utils"
	"interviewhub/modules/auth/dto"
	"interviewhub/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// AuthController handles authentication HTTP requests
type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

// NewAuthController creates a new controller
func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

// Register handles POST /auth/register
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account details"
// @Success 200 {object} dto.AuthResponse
// @Failure 409 {object} errors.AppError
// @Router /public/auth/register [post]
func (c *AuthController) Register(ctx echo.Context) error {
	var req dto.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AuthService.Register(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Account created")
}

// Login handles POST /auth/login
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} errors.AppError
// @Router /public/auth/login [post]
func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AuthService.Login(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Logged in")
}

// Refresh handles POST /auth/refresh
// @Summary Exchange a refresh token for a new token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} errors.AppError
// @Router /public/auth/refresh [post]
func (c *AuthController) Refresh(ctx echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := ctx.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Refresh token is required")
	}

	result, appErr := c.AuthService.Refresh(ctx.Request().Context(), req.RefreshToken)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Token refreshed")
}

// Logout handles POST /auth/logout
// @Summary Log out, revoking the current token
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /private/auth/logout [post]
func (c *AuthController) Logout(ctx echo.Context) error {
	token, err := utils.GetTokenFromHeader(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrMissingAuthorizationHeader, "Missing authorization header")
	}

	if appErr := c.AuthService.Logout(ctx.Request().Context(), token); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Logged out")
}

// Me handles GET /auth/me
// @Summary Current account details
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} errors.AppError
// @Router /private/auth/me [get]
func (c *AuthController) Me(ctx echo.Context) error {
	tokenData := ctx.Get(constants.ContextTokenData)
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.AuthService.Me(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListInterviewers handles GET /admin/interviewers
// @Summary List interviewer accounts
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /admin/interviewers [get]
func (c *AuthController) ListInterviewers(ctx echo.Context) error {
	p := params.NewQueryParams(ctx)

	result, appErr := c.AuthService.ListInterviewers(ctx.Request().Context(), p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
