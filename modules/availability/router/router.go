package router

import (
	"bookwise/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

type AvailabilityRouter struct {
	controller *controller.AvailabilityController
}

func NewAvailabilityRouter(controller *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{controller: controller}
}

// Availability is the visitor-facing read surface; no auth.
func (r *AvailabilityRouter) Setup(e *echo.Echo) {
	public := e.Group("/api/v1/public/organizations/:slug")
	public.GET("/slots", r.controller.Slots)
	public.GET("/dates", r.controller.Dates)
}
