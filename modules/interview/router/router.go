package router

import (
	"interviewhub/core/constants"
	"interviewhub/core/middleware"
	"interviewhub/modules/interview/controller"

	"github.com/labstack/echo/v4"
)

// InterviewRouter handles interview routes
type InterviewRouter struct {
	InterviewController *controller.InterviewController
}

// NewInterviewRouter creates a new router
func NewInterviewRouter(ctrl *controller.InterviewController) *InterviewRouter {
	return &InterviewRouter{
		InterviewController: ctrl,
	}
}

// Setup registers interview routes
func (r *InterviewRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	interviewRoutes := privateRoutes.Group("/interviews", mw.AuthMiddleware())

	// Candidate surface
	interviewRoutes.POST("", r.InterviewController.CreateRequest, mw.RequireRoles(constants.RoleCandidate))
	interviewRoutes.GET("", r.InterviewController.GetMyRequests, mw.RequireRoles(constants.RoleCandidate))
	interviewRoutes.PUT("/:id", r.InterviewController.UpdateRequest)
	interviewRoutes.DELETE("/:id", r.InterviewController.DeleteRequest)
	interviewRoutes.POST("/:id/confirm/candidate", r.InterviewController.ConfirmAsCandidate, mw.RequireRoles(constants.RoleCandidate))
	interviewRoutes.POST("/:id/cancel", r.InterviewController.Cancel)

	// Interviewer surface
	interviewRoutes.GET("/assigned", r.InterviewController.GetAssignedRequests, mw.RequireRoles(constants.RoleInterviewer))
	interviewRoutes.POST("/:id/confirm/interviewer", r.InterviewController.ConfirmAsInterviewer, mw.RequireRoles(constants.RoleInterviewer))
	interviewRoutes.POST("/:id/decline", r.InterviewController.DeclineAssignment, mw.RequireRoles(constants.RoleInterviewer))

	// Shared
	interviewRoutes.GET("/:id", r.InterviewController.GetRequest)
	interviewRoutes.GET("/:id/actions", r.InterviewController.PermittedActions)

	// Admin surface
	adminRoutes := v1.Group("/admin/interviews", mw.AuthMiddleware(), mw.RequireRoles(constants.RoleAdmin))
	adminRoutes.GET("", r.InterviewController.AdminListRequests)
	adminRoutes.GET("/:id", r.InterviewController.GetRequest)
	adminRoutes.PATCH("/:id", r.InterviewController.AdminPatchRequest)
	adminRoutes.DELETE("/:id", r.InterviewController.DeleteRequest)
}
