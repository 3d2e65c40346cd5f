package router

import (
	"github.com/labstack/echo/v4"

	"github.com/legacy-sukawarna/rsvp-app/core/middleware"
	"github.com/legacy-sukawarna/rsvp-app/modules/event/controller"
)

// EventRouter handles event routes
type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

// Setup registers event routes
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	public := v1.Group("/public/events")
	public.GET("", r.EventController.ListUpcoming)
	public.GET("/share/:code", r.EventController.GetEventByShareCode)
	public.GET("/:id", r.EventController.GetEvent)

	private := v1.Group("/private/events", mw.AuthMiddleware())
	private.POST("", r.EventController.CreateEvent)
	private.GET("/mine", r.EventController.ListMine)
	private.PUT("/:id", r.EventController.UpdateEvent)
	private.DELETE("/:id", r.EventController.DeleteEvent)
}
