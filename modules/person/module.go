package person

import (
	"bookwise/core/database"
	"bookwise/core/middleware"
	"bookwise/modules/person/controller"
	"bookwise/modules/person/repository"
	"bookwise/modules/person/router"
	"bookwise/modules/person/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase) service.PersonService {
	personRepo := repository.NewPersonRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	svc := service.NewPersonService(personRepo, ruleRepo)
	ctl := controller.NewPersonController(svc)

	mw := middleware.NewMiddleware()
	router.NewPersonRouter(ctl).Setup(e, mw)

	return svc
}
