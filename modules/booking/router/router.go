package router

import (
	"bookwise/core/middleware"
	"bookwise/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

type BookingRouter struct {
	controller *controller.BookingController
}

func NewBookingRouter(controller *controller.BookingController) *BookingRouter {
	return &BookingRouter{controller: controller}
}

func (r *BookingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Visitors book and manage by reference; no account needed.
	public := v1.Group("/public/bookings")
	public.POST("", r.controller.Create)
	public.GET("/:reference", r.controller.GetByReference)
	public.POST("/:reference/cancel", r.controller.Cancel)

	private := v1.Group("/private/organizations/:orgId/bookings")
	private.Use(mw.AuthMiddleware())
	private.GET("", r.controller.ListByOrganization)

	privateBookings := v1.Group("/private/bookings")
	privateBookings.Use(mw.AuthMiddleware())
	privateBookings.POST("/:id/cancel", r.controller.CancelByID)
}
