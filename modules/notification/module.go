package notification

import (
	"interviewhub/core/cache"
	"interviewhub/core/database"
	"interviewhub/core/middleware"
	"interviewhub/modules/notification/controller"
	"interviewhub/modules/notification/repository"
	"interviewhub/modules/notification/router"
	"interviewhub/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init wires the notification module. The dispatcher is returned so the
// interview module can emit lifecycle events; its worker handlers and
// stale-pending source are bound later once the interview repository exists.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware, c cache.Cache, client *asynq.Client, admins service.AdminDirectory, stale service.StalePendingSource) (*service.NotificationService, *service.DispatcherService) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	dispatcher := service.NewDispatcherService(client, svc, c, admins, stale)

	ctrl := controller.NewNotificationController(svc)
	router.NewNotificationRouter(ctrl).Setup(e, mw)

	return svc, dispatcher
}
