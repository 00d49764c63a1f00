package router

import (
	"bookwise/core/middleware"
	"bookwise/modules/person/controller"

	"github.com/labstack/echo/v4"
)

type PersonRouter struct {
	controller *controller.PersonController
}

func NewPersonRouter(controller *controller.PersonController) *PersonRouter {
	return &PersonRouter{controller: controller}
}

func (r *PersonRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	private := v1.Group("/private/persons")
	private.Use(mw.AuthMiddleware())
	private.POST("", r.controller.Create)
	private.GET("/:id", r.controller.Get)
	private.PATCH("/:id", r.controller.Update)
	private.POST("/:id/deactivate", r.controller.Deactivate)
	private.POST("/:id/reactivate", r.controller.Reactivate)
	private.PUT("/:id/rules", r.controller.ReplaceRules)
}
