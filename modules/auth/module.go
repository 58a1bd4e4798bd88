package auth

import (
	"interviewhub/core/cache"
	"interviewhub/core/database"
	"interviewhub/core/middleware"
	"interviewhub/modules/auth/controller"
	"interviewhub/modules/auth/repository"
	"interviewhub/modules/auth/router"
	"interviewhub/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init wires the auth module. The repository is returned alongside the
// service: it serves as the interviewer directory for assignments and the
// role directory for notification fan-out.
func Init(e *echo.Echo, db database.Database, c cache.Cache) (service.AuthServiceInterface, *repository.AuthRepository, *middleware.Middleware) {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c)
	mw := middleware.NewMiddleware(svc)

	ctrl := controller.NewAuthController(svc)
	router.NewAuthRouter(ctrl).Setup(e, mw)

	return svc, repo, mw
}
