package event

import (
	"github.com/labstack/echo/v4"

	"github.com/legacy-sukawarna/rsvp-app/core/database"
	"github.com/legacy-sukawarna/rsvp-app/core/middleware"
	"github.com/legacy-sukawarna/rsvp-app/core/storage"
	"github.com/legacy-sukawarna/rsvp-app/core/tasks"
	"github.com/legacy-sukawarna/rsvp-app/modules/event/controller"
	"github.com/legacy-sukawarna/rsvp-app/modules/event/repository"
	"github.com/legacy-sukawarna/rsvp-app/modules/event/router"
	"github.com/legacy-sukawarna/rsvp-app/modules/event/service"
	rsvpservice "github.com/legacy-sukawarna/rsvp-app/modules/rsvp/service"
)

// Init initializes the event module and registers routes
func Init(e *echo.Echo, db database.IDatabase, rsvpSvc rsvpservice.RSVPServiceInterface, store storage.Storage, enqueuer tasks.Enqueuer, mw *middleware.Middleware) service.EventServiceInterface {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, rsvpSvc, store, enqueuer)
	ctrl := controller.NewEventController(svc)

	router.NewEventRouter(ctrl).Setup(e, mw)

	return svc
}
