package router

import (
	"bookwise/core/middleware"
	"bookwise/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{controller: controller}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	private := v1.Group("/private/persons/:personId/calendar")
	private.Use(mw.AuthMiddleware())
	private.POST("/connect", r.controller.Connect)
	private.POST("/disconnect", r.controller.Disconnect)
}
