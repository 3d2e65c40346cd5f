package rsvp

import (
	"github.com/labstack/echo/v4"

	"github.com/legacy-sukawarna/rsvp-app/core/database"
	"github.com/legacy-sukawarna/rsvp-app/core/middleware"
	authservice "github.com/legacy-sukawarna/rsvp-app/modules/auth/service"
	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp/controller"
	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp/repository"
	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp/router"
	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp/service"
)

// Init initializes the rsvp module and registers routes
func Init(e *echo.Echo, db database.IDatabase, authSvc authservice.AuthServiceInterface, mw *middleware.Middleware) service.RSVPServiceInterface {
	repo := repository.NewRSVPRepository(db)
	svc := service.NewRSVPService(repo, authSvc)
	ctrl := controller.NewRSVPController(svc)

	router.NewRSVPRouter(ctrl).Setup(e, mw)

	return svc
}
