package controller

import (
	"net/http"

	corecontroller "bookwise/core/controller"
	"bookwise/core/errors"
	"bookwise/modules/calendar/dto"
	"bookwise/modules/calendar/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	corecontroller.BaseController
	service service.CalendarService
}

func NewCalendarController(svc service.CalendarService) *CalendarController {
	return &CalendarController{
		BaseController: corecontroller.NewBaseController(),
		service:        svc,
	}
}

func (ctl *CalendarController) Connect(c echo.Context) error {
	personID, err := uuid.Parse(c.Param("personId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidInput, "invalid person id", nil))
	}

	var req dto.ConnectCalendarRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidRequestData, "invalid body", nil))
	}

	conn, appErr := ctl.service.Connect(c.Request().Context(), personID, req)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, conn, "calendar connected")
}

func (ctl *CalendarController) Disconnect(c echo.Context) error {
	personID, err := uuid.Parse(c.Param("personId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidInput, "invalid person id", nil))
	}

	if appErr := ctl.service.Disconnect(c.Request().Context(), personID); appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, nil, "calendar disconnected")
}
