package organization

import (
	"bookwise/core/database"
	"bookwise/core/middleware"
	"bookwise/modules/organization/controller"
	"bookwise/modules/organization/repository"
	"bookwise/modules/organization/router"
	"bookwise/modules/organization/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase) service.OrganizationService {
	repo := repository.NewOrganizationRepository(db)
	svc := service.NewOrganizationService(repo)
	ctl := controller.NewOrganizationController(svc)

	mw := middleware.NewMiddleware()
	router.NewOrganizationRouter(ctl).Setup(e, mw)

	return svc
}
