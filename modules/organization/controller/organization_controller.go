package controller

import (
	"net/http"

	corecontroller "bookwise/core/controller"
	"bookwise/core/errors"
	"bookwise/modules/organization/dto"
	"bookwise/modules/organization/entity"
	"bookwise/modules/organization/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrganizationController struct {
	corecontroller.BaseController
	service service.OrganizationService
}

func NewOrganizationController(svc service.OrganizationService) *OrganizationController {
	return &OrganizationController{
		BaseController: corecontroller.NewBaseController(),
		service:        svc,
	}
}

func toResponse(org *entity.Organization) dto.OrganizationResponse {
	return dto.OrganizationResponse{
		ID:                  org.ID.String(),
		Name:                org.Name,
		Slug:                org.Slug,
		SlotDurationMinutes: org.SlotDurationMinutes,
		BufferMinutes:       org.BufferMinutes,
		AdvanceWindowDays:   org.AdvanceWindowDays,
	}
}

// Create handles POST /api/v1/private/organizations
func (ctl *OrganizationController) Create(c echo.Context) error {
	var req dto.CreateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidRequestData, "invalid body", nil))
	}

	org, appErr := ctl.service.Create(c.Request().Context(), &req)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, toResponse(org), "organization created")
}

// GetBySlug handles GET /api/v1/public/organizations/:slug
func (ctl *OrganizationController) GetBySlug(c echo.Context) error {
	org, appErr := ctl.service.GetBySlug(c.Request().Context(), c.Param("slug"))
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, toResponse(org), "ok")
}

// Get handles GET /api/v1/private/organizations/:id
func (ctl *OrganizationController) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidInput, "invalid organization id", nil))
	}

	org, appErr := ctl.service.GetByID(c.Request().Context(), id)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, toResponse(org), "ok")
}

// Update handles PATCH /api/v1/private/organizations/:id
func (ctl *OrganizationController) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidInput, "invalid organization id", nil))
	}

	var req dto.UpdateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.NewAppError(errors.ErrInvalidRequestData, "invalid body", nil))
	}

	org, appErr := ctl.service.Update(c.Request().Context(), id, &req)
	if appErr != nil {
		return ctl.ErrorResponse(c, appErr)
	}
	return ctl.SuccessResponse(c, toResponse(org), "organization updated")
}
