package booking

import (
	"bookwise/core/database"
	"bookwise/core/middleware"
	availabilityservice "bookwise/modules/availability/service"
	"bookwise/modules/booking/controller"
	"bookwise/modules/booking/repository"
	"bookwise/modules/booking/router"
	"bookwise/modules/booking/service"
	orgrepo "bookwise/modules/organization/repository"
	personrepo "bookwise/modules/person/repository"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase,
	slots availabilityservice.AvailabilityService,
	calendars service.CalendarMirror, notifier service.Notifier) service.BookingService {
	repo := repository.NewBookingRepository(db)
	svc := service.NewBookingService(repo, slots,
		personrepo.NewPersonRepository(db), orgrepo.NewOrganizationRepository(db),
		calendars, notifier)
	ctl := controller.NewBookingController(svc)

	mw := middleware.NewMiddleware()
	router.NewBookingRouter(ctl).Setup(e, mw)

	return svc
}
