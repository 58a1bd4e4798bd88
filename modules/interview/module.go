package interview

import (
	"interviewhub/core/database"
	"interviewhub/core/middleware"
	"interviewhub/modules/interview/controller"
	"interviewhub/modules/interview/repository"
	"interviewhub/modules/interview/router"
	"interviewhub/modules/interview/service"

	"github.com/labstack/echo/v4"
)

// NewRepository exposes the interview repository so the server can construct
// it ahead of Init: the notification module consumes it as its stale-pending
// source before the routes are wired.
func NewRepository(db database.Database) *repository.InterviewRepository {
	return repository.NewInterviewRepository(db)
}

// Init wires the interview module. The dispatcher, availability provider and
// interviewer directory come from the notification, availability and auth
// modules so the lifecycle core stays free of cross-module imports.
func Init(
	e *echo.Echo,
	repo *repository.InterviewRepository,
	mw *middleware.Middleware,
	dispatcher service.Dispatcher,
	availability service.AvailabilityProvider,
	directory service.InterviewerDirectory,
) {
	lifecycleSvc := service.NewLifecycleService(repo, dispatcher)
	assignmentSvc := service.NewAssignmentService(repo, lifecycleSvc, availability, directory)
	confirmationSvc := service.NewConfirmationService(repo, lifecycleSvc)
	interviewSvc := service.NewInterviewService(repo)

	ctrl := controller.NewInterviewController(interviewSvc, lifecycleSvc, assignmentSvc, confirmationSvc)
	router.NewInterviewRouter(ctrl).Setup(e, mw)
}
