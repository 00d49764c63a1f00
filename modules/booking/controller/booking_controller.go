package controller

import (
	"net/http"
	"time"

	"bookwise/core/constants"
	corecontroller "bookwise/core/controller"
	"bookwise/core/errors"
	"bookwise/modules/booking/dto"
	"bookwise/modules/booking/entity"
	"bookwise/modules/booking/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BookingController struct {
	corecontroller.BaseController
	service service.BookingService
}

func NewBookingController(svc service.BookingService) *BookingController {
	return &BookingController{
		BaseController: corecontroller.NewBaseController(),
		service:        svc,
	}
}

func toResponse(b *entity.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:           b.ID.String(),
		Reference:    b.Reference,
		PersonID:     b.PersonID.String(),
		Start:        b.StartTime,
		End:          b.EndTime,
		Status:       b.Status,
		VisitorName:  b.VisitorName,
		VisitorEmail: b.VisitorEmail,
	}
}

func (ctl *BookingController) Create(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidRequestData, "invalid body", nil))
	}

	booking, appErr := ctl.service.Create(c.Request().Context(), &req)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, toResponse(booking), "booking confirmed")
}

func (ctl *BookingController) GetByReference(c echo.Context) error {
	booking, appErr := ctl.service.GetByReference(c.Request().Context(), c.Param("reference"))
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, toResponse(booking), "ok")
}

func (ctl *BookingController) Cancel(c echo.Context) error {
	booking, appErr := ctl.service.GetByReference(c.Request().Context(), c.Param("reference"))
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}

	var req dto.CancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidRequestData, "invalid body", nil))
	}

	cancelled, appErr := ctl.service.Cancel(c.Request().Context(), booking.ID, req.Reason)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, toResponse(cancelled), "booking cancelled")
}

// CancelByID is the staff-side cancellation, addressed by booking id.
func (ctl *BookingController) CancelByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidInput, "invalid booking id", nil))
	}

	var req dto.CancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidRequestData, "invalid body", nil))
	}

	cancelled, appErr := ctl.service.Cancel(c.Request().Context(), id, req.Reason)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, toResponse(cancelled), "booking cancelled")
}

func (ctl *BookingController) ListByOrganization(c echo.Context) error {
	orgID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidInput, "invalid organization id", nil))
	}

	now := time.Now().UTC()
	from, to := now, now.AddDate(0, 0, constants.DefaultAdvanceWindowDays)
	if raw := c.QueryParam("from"); raw != "" {
		if parsed, perr := time.Parse(time.RFC3339, raw); perr == nil {
			from = parsed.UTC()
		}
	}
	if raw := c.QueryParam("to"); raw != "" {
		if parsed, perr := time.Parse(time.RFC3339, raw); perr == nil {
			to = parsed.UTC()
		}
	}

	bookings, appErr := ctl.service.ListByOrganization(c.Request().Context(), orgID, from, to)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}

	responses := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, toResponse(&bookings[i]))
	}
	return ctl.SuccessResponse(c, responses, "ok")
}
