package router

import (
	"github.com/labstack/echo/v4"

	"github.com/legacy-sukawarna/rsvp-app/core/middleware"
	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp/controller"
)

// RSVPRouter handles rsvp routes
type RSVPRouter struct {
	RSVPController *controller.RSVPController
}

func NewRSVPRouter(rsvpController *controller.RSVPController) *RSVPRouter {
	return &RSVPRouter{
		RSVPController: rsvpController,
	}
}

// Setup registers rsvp routes
func (r *RSVPRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	publicEvents := v1.Group("/public/events")
	publicEvents.GET("/:id/attendance", r.RSVPController.GetAttendance)
	publicEvents.GET("/:id/rsvps", r.RSVPController.ListAttendees)

	privateEvents := v1.Group("/private/events", mw.AuthMiddleware())
	privateEvents.POST("/:id/rsvps", r.RSVPController.Register)
	privateEvents.GET("/:id/rsvps/me", r.RSVPController.GetMyRSVP)

	privateRSVPs := v1.Group("/private/rsvps", mw.AuthMiddleware())
	privateRSVPs.DELETE("/:id", r.RSVPController.Cancel)
}
