package router

import (
	"interviewhub/core/constants"
	"interviewhub/core/middleware"
	"interviewhub/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

// AvailabilityRouter handles availability routes
type AvailabilityRouter struct {
	AvailabilityController *controller.AvailabilityController
}

// NewAvailabilityRouter creates a new router
func NewAvailabilityRouter(ctrl *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{
		AvailabilityController: ctrl,
	}
}

// Setup registers availability routes
func (r *AvailabilityRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	availRoutes := privateRoutes.Group("/availability", mw.AuthMiddleware())
	availRoutes.POST("", r.AvailabilityController.CreateSlot, mw.RequireRoles(constants.RoleInterviewer))
	availRoutes.GET("", r.AvailabilityController.GetMySlots, mw.RequireRoles(constants.RoleInterviewer))
	availRoutes.DELETE("/:id", r.AvailabilityController.DeleteSlot)
	availRoutes.GET("/interviewer/:id", r.AvailabilityController.GetInterviewerSlots, mw.RequireRoles(constants.RoleAdmin))
}
