package router

import (
	"interviewhub/core/constants"
	"interviewhub/core/middleware"
	"interviewhub/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

// AuthRouter handles authentication routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

// NewAuthRouter creates a new router
func NewAuthRouter(ctrl *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		AuthController: ctrl,
	}
}

// Setup registers auth routes
func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	publicRoutes := v1.Group("/public/auth")
	publicRoutes.POST("/register", r.AuthController.Register)
	publicRoutes.POST("/login", r.AuthController.Login)
	publicRoutes.POST("/refresh", r.AuthController.Refresh)

	privateRoutes := v1.Group("/private/auth", mw.AuthMiddleware())
	privateRoutes.POST("/logout", r.AuthController.Logout)
	privateRoutes.GET("/me", r.AuthController.Me)

	adminRoutes := v1.Group("/admin", mw.AuthMiddleware(), mw.RequireRoles(constants.RoleAdmin))
	adminRoutes.GET("/interviewers", r.AuthController.ListInterviewers)
}
