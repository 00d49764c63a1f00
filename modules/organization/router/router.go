package router

import (
	"bookwise/core/middleware"
	"bookwise/modules/organization/controller"

	"github.com/labstack/echo/v4"
)

type OrganizationRouter struct {
	controller *controller.OrganizationController
}

func NewOrganizationRouter(controller *controller.OrganizationController) *OrganizationRouter {
	return &OrganizationRouter{controller: controller}
}

func (r *OrganizationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	public := v1.Group("/public/organizations")
	public.GET("/:slug", r.controller.GetBySlug)

	private := v1.Group("/private/organizations")
	private.Use(mw.AuthMiddleware())
	private.POST("", r.controller.Create)
	private.GET("/:id", r.controller.Get)
	private.PATCH("/:id", r.controller.Update)
}
