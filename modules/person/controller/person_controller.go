package controller

import (
	"net/http"

	corecontroller "bookwise/core/controller"
	"bookwise/core/errors"
	"bookwise/modules/person/dto"
	"bookwise/modules/person/entity"
	"bookwise/modules/person/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type PersonController struct {
	corecontroller.BaseController
	service service.PersonService
}

func NewPersonController(svc service.PersonService) *PersonController {
	return &PersonController{
		BaseController: corecontroller.NewBaseController(),
		service:        svc,
	}
}

func toResponse(p *entity.Person) dto.PersonResponse {
	return dto.PersonResponse{
		ID:             p.ID.String(),
		OrganizationID: p.OrganizationID.String(),
		DisplayName:    p.DisplayName,
		Email:          p.Email,
		IsActive:       p.IsActive,
	}
}

func parseID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

func (ctl *PersonController) Create(c echo.Context) error {
	var req dto.CreatePersonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidRequestData, "invalid body", nil))
	}

	person, appErr := ctl.service.Create(c.Request().Context(), &req)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, toResponse(person), "person created")
}

func (ctl *PersonController) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidInput, "invalid person id", nil))
	}

	person, appErr := ctl.service.GetByID(c.Request().Context(), id)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, toResponse(person), "ok")
}

func (ctl *PersonController) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidInput, "invalid person id", nil))
	}

	var req dto.UpdatePersonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidRequestData, "invalid body", nil))
	}

	person, appErr := ctl.service.Update(c.Request().Context(), id, &req)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, toResponse(person), "person updated")
}

func (ctl *PersonController) Deactivate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidInput, "invalid person id", nil))
	}

	if appErr := ctl.service.Deactivate(c.Request().Context(), id); appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, nil, "person deactivated")
}

func (ctl *PersonController) Reactivate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidInput, "invalid person id", nil))
	}

	if appErr := ctl.service.Reactivate(c.Request().Context(), id); appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, nil, "person reactivated")
}

func (ctl *PersonController) ReplaceRules(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidInput, "invalid person id", nil))
	}

	var req dto.ReplaceRulesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidRequestData, "invalid body", nil))
	}

	if appErr := ctl.service.ReplaceRules(c.Request().Context(), id, &req); appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, nil, "rules replaced")
}
