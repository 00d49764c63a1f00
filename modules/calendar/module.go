package calendar

import (
	"bookwise/core/database"
	"bookwise/core/middleware"
	"bookwise/modules/calendar/controller"
	"bookwise/modules/calendar/repository"
	"bookwise/modules/calendar/router"
	"bookwise/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase) service.CalendarService {
	repo := repository.NewCalendarRepository(db)
	svc := service.NewCalendarService(repo, service.NewGoogleClient())
	ctl := controller.NewCalendarController(svc)

	mw := middleware.NewMiddleware()
	router.NewCalendarRouter(ctl).Setup(e, mw)

	return svc
}
