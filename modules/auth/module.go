package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/legacy-sukawarna/rsvp-app/core/cache"
	"github.com/legacy-sukawarna/rsvp-app/core/database"
	"github.com/legacy-sukawarna/rsvp-app/core/middleware"
	"github.com/legacy-sukawarna/rsvp-app/modules/auth/controller"
	"github.com/legacy-sukawarna/rsvp-app/modules/auth/repository"
	"github.com/legacy-sukawarna/rsvp-app/modules/auth/router"
	"github.com/legacy-sukawarna/rsvp-app/modules/auth/service"
)

// Init initializes the auth module and registers routes
func Init(e *echo.Echo, db database.IDatabase, c cache.Cache, mw *middleware.Middleware) service.AuthServiceInterface {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)

	router.NewAuthRouter(ctrl).Setup(e, mw)

	return svc
}
