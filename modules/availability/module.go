package availability

import (
	"interviewhub/core/database"
	"interviewhub/core/middleware"
	"interviewhub/modules/availability/controller"
	"interviewhub/modules/availability/repository"
	"interviewhub/modules/availability/router"
	"interviewhub/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// Init wires the availability module and returns its repository so the
// interview module can consult interviewer availability during assignment.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) *repository.AvailabilityRepository {
	repo := repository.NewAvailabilityRepository(db)
	svc := service.NewAvailabilityService(repo)
	ctrl := controller.NewAvailabilityController(svc)
	router.NewAvailabilityRouter(ctrl).Setup(e, mw)
	return repo
}
