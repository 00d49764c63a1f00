package availability

import (
	"bookwise/core/cache"
	"bookwise/core/database"
	"bookwise/modules/availability/controller"
	"bookwise/modules/availability/router"
	"bookwise/modules/availability/service"
	orgrepo "bookwise/modules/organization/repository"
	orgservice "bookwise/modules/organization/service"
	personrepo "bookwise/modules/person/repository"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, c cache.Cache,
	bookings service.BookingSource, calendars service.CalendarSource) service.AvailabilityService {
	orgs := orgservice.NewOrganizationService(orgrepo.NewOrganizationRepository(db))
	persons := personrepo.NewPersonRepository(db)
	rules := personrepo.NewRuleRepository(db)

	svc := service.NewAvailabilityService(orgs, persons, rules, bookings, calendars, c)
	ctl := controller.NewAvailabilityController(svc)
	router.NewAvailabilityRouter(ctl).Setup(e)

	return svc
}
