package controller

import (
	"net/http"
	"time"

	"bookwise/core/constants"
	corecontroller "bookwise/core/controller"
	"bookwise/core/errors"
	"bookwise/core/utils"
	"bookwise/modules/availability/dto"
	"bookwise/modules/availability/service"

	"github.com/labstack/echo/v4"
)

type AvailabilityController struct {
	corecontroller.BaseController
	service service.AvailabilityService
}

func NewAvailabilityController(svc service.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{
		BaseController: corecontroller.NewBaseController(),
		service:        svc,
	}
}

// parseWindow reads the from/to query params, accepting RFC3339 instants
// or plain dates. Missing values default to now and the default advance
// window; the service clamps to the organization's own horizon.
func parseWindow(c echo.Context) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now
	to := now.AddDate(0, 0, constants.DefaultAdvanceWindowDays)

	if raw := c.QueryParam("from"); raw != "" {
		parsed, err := parseInstant(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if raw := c.QueryParam("to"); raw != "" {
		parsed, err := parseInstant(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	return from, to, nil
}

func parseInstant(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func (ctl *AvailabilityController) Slots(c echo.Context) error {
	from, to, err := parseWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidInput, "invalid from/to", nil))
	}
	duration := utils.ToNumberWithDefault(c.QueryParam("duration"), 0)

	slots, appErr := ctl.service.ComputeSlots(c.Request().Context(), c.Param("slug"), from, to, duration)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}

	resp := dto.SlotsResponse{Slots: make([]dto.SlotResponse, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, dto.SlotResponse{
			PersonID:          s.PersonID.String(),
			PersonDisplayName: s.PersonDisplayName,
			PersonEmail:       s.PersonEmail,
			Start:             s.Start,
			End:               s.End,
		})
	}
	return ctl.SuccessResponse(c, resp, "ok")
}

func (ctl *AvailabilityController) Dates(c echo.Context) error {
	from, to, err := parseWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidInput, "invalid from/to", nil))
	}

	duration := utils.ToNumberWithDefault(c.QueryParam("duration"), 0)
	dates, appErr := ctl.service.ComputeAvailableDates(c.Request().Context(), c.Param("slug"), from, to, duration)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, dto.DatesResponse{Dates: dates}, "ok")
}
