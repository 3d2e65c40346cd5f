package router

import (
	"github.com/labstack/echo/v4"

	"github.com/legacy-sukawarna/rsvp-app/core/middleware"
	"github.com/legacy-sukawarna/rsvp-app/modules/auth/controller"
)

// AuthRouter handles auth routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		AuthController: authController,
	}
}

// Setup registers auth routes
func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	publicRoutes := v1.Group("/public/auth")
	publicRoutes.GET("/google", r.AuthController.GoogleLogin)
	publicRoutes.GET("/google/callback", r.AuthController.GoogleCallback)
	publicRoutes.POST("/refresh", r.AuthController.RefreshToken)

	privateRoutes := v1.Group("/private/auth", mw.AuthMiddleware())
	privateRoutes.POST("/logout", r.AuthController.Logout)
	privateRoutes.GET("/me", r.AuthController.Me)
}
