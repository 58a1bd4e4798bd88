package controller

import (
	"interviewhub/core/constants"
	"interviewhub/core/controller"
	"interviewhub/core/errors"
	"interviewhub/core/utils"
	"interviewhub/modules/availability/dto"
	"interviewhub/modules/availability/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AvailabilityController handles availability slot HTTP requests
type AvailabilityController struct {
	controller.BaseController
	AvailabilityService service.AvailabilityServiceInterface
}

// NewAvailabilityController creates a new controller
func NewAvailabilityController(svc service.AvailabilityServiceInterface) *AvailabilityController {
	return &AvailabilityController{
		BaseController:      controller.NewBaseController(),
		AvailabilityService: svc,
	}
}

func (c *AvailabilityController) claimsFromContext(ctx echo.Context) (*utils.TokenClaims, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}
	return claims, nil
}

// CreateSlot handles POST /availability
// @Summary Create availability slot
// @Description Declare a recurring or one-off availability window
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateSlotRequest true "Slot details"
// @Success 200 {object} dto.SlotResponse
// @Failure 400 {object} errors.AppError
// @Router /private/availability [post]
func (c *AvailabilityController) CreateSlot(ctx echo.Context) error {
	claims, err := c.claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateSlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AvailabilityService.CreateSlot(ctx.Request().Context(), claims.UserID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Availability slot created")
}

// GetMySlots handles GET /availability
// @Summary List own availability
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.SlotResponse
// @Router /private/availability [get]
func (c *AvailabilityController) GetMySlots(ctx echo.Context) error {
	claims, err := c.claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.AvailabilityService.GetMySlots(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetInterviewerSlots handles GET /availability/interviewer/:id
// @Summary List an interviewer's availability
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param id path string true "Interviewer ID"
// @Success 200 {array} dto.SlotResponse
// @Router /private/availability/interviewer/{id} [get]
func (c *AvailabilityController) GetInterviewerSlots(ctx echo.Context) error {
	interviewerID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interviewer ID")
	}

	result, appErr := c.AvailabilityService.GetInterviewerSlots(ctx.Request().Context(), interviewerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// DeleteSlot handles DELETE /availability/:id
// @Summary Delete availability slot
// @Tags Availability
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /private/availability/{id} [delete]
func (c *AvailabilityController) DeleteSlot(ctx echo.Context) error {
	claims, err := c.claimsFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	slotID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid slot ID")
	}

	appErr := c.AvailabilityService.DeleteSlot(ctx.Request().Context(), slotID, claims.UserID, claims.Role)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Availability slot deleted")
}
