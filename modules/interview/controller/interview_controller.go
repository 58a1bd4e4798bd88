package controller

import (
	"context"
	"time"

	"interviewhub/core/constants"
	"interviewhub/core/controller"
	"interviewhub/core/errors"
	"interviewhub/core/params"
	"interviewhub/core/utils"
	"interviewhub/modules/interview/dto"
	"interviewhub/modules/interview/entity"
	"interviewhub/modules/interview/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InterviewController handles interview request HTTP requests
type InterviewController struct {
	controller.BaseController
	InterviewService    service.InterviewServiceInterface
	LifecycleService    service.LifecycleServiceInterface
	AssignmentService   service.AssignmentServiceInterface
	ConfirmationService service.ConfirmationServiceInterface
}

// NewInterviewController creates a new controller
func NewInterviewController(
	interviewSvc service.InterviewServiceInterface,
	lifecycleSvc service.LifecycleServiceInterface,
	assignmentSvc service.AssignmentServiceInterface,
	confirmationSvc service.ConfirmationServiceInterface,
) *InterviewController {
	return &InterviewController{
		BaseController:      controller.NewBaseController(),
		InterviewService:    interviewSvc,
		LifecycleService:    lifecycleSvc,
		AssignmentService:   assignmentSvc,
		ConfirmationService: confirmationSvc,
	}
}

func (c *InterviewController) actorFromContext(ctx echo.Context) (entity.Actor, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return entity.Actor{}, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return entity.Actor{}, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}
	return entity.Actor{ID: claims.UserID, Role: claims.Role}, nil
}

// CreateRequest handles POST /interviews
// @Summary Request an interview
// @Description Candidate requests an interview slot; the request starts in PENDING
// @Tags Interview
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateInterviewRequest true "Interview details"
// @Success 200 {object} dto.InterviewResponse
// @Failure 400 {object} errors.AppError
// @Router /private/interviews [post]
func (c *InterviewController) CreateRequest(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateInterviewRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.InterviewService.CreateRequest(ctx.Request().Context(), actor, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Interview request created")
}

// GetMyRequests handles GET /interviews
// @Summary List own interview requests
// @Tags Interview
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.InterviewResponse
// @Router /private/interviews [get]
func (c *InterviewController) GetMyRequests(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.InterviewService.GetMyRequests(ctx.Request().Context(), actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetAssignedRequests handles GET /interviews/assigned
// @Summary List interviews assigned to the caller
// @Tags Interview
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.InterviewResponse
// @Router /private/interviews/assigned [get]
func (c *InterviewController) GetAssignedRequests(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.InterviewService.GetAssignedRequests(ctx.Request().Context(), actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetRequest handles GET /interviews/:id
// @Summary Get an interview request
// @Tags Interview
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.InterviewResponse
// @Failure 404 {object} errors.AppError
// @Router /private/interviews/{id} [get]
func (c *InterviewController) GetRequest(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request ID")
	}

	result, appErr := c.InterviewService.GetRequest(ctx.Request().Context(), requestID, actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateRequest handles PUT /interviews/:id
// @Summary Edit a pending interview request
// @Tags Interview
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body dto.UpdateInterviewRequest true "Updated details"
// @Success 200 {object} dto.InterviewResponse
// @Failure 409 {object} errors.AppError
// @Router /private/interviews/{id} [put]
func (c *InterviewController) UpdateRequest(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request ID")
	}

	var req dto.UpdateInterviewRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.InterviewService.UpdateRequest(ctx.Request().Context(), requestID, actor, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Interview request updated")
}

// DeleteRequest handles DELETE /interviews/:id
// @Summary Delete an interview request
// @Tags Interview
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} map[string]string
// @Router /private/interviews/{id} [delete]
func (c *InterviewController) DeleteRequest(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request ID")
	}

	appErr := c.InterviewService.DeleteRequest(ctx.Request().Context(), requestID, actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Interview request deleted")
}

// PermittedActions handles GET /interviews/:id/actions
// @Summary List statuses the caller may move the request to
// @Tags Interview
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.PermittedActionsResponse
// @Router /private/interviews/{id}/actions [get]
func (c *InterviewController) PermittedActions(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request ID")
	}

	result, appErr := c.InterviewService.GetRequest(ctx.Request().Context(), requestID, actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	targets, appErr := c.InterviewService.PermittedActions(ctx.Request().Context(), requestID, actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	status, _ := entity.ParseStatus(result.Status)
	return c.SuccessResponse(ctx, dto.ToPermittedActionsResponse(status, targets), "Success")
}

// ConfirmAsCandidate handles POST /interviews/:id/confirm/candidate
// @Summary Candidate confirms the scheduled interview
// @Tags Interview
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.InterviewResponse
// @Failure 409 {object} errors.AppError
// @Router /private/interviews/{id}/confirm/candidate [post]
func (c *InterviewController) ConfirmAsCandidate(ctx echo.Context) error {
	return c.confirm(ctx, c.ConfirmationService.ConfirmAsCandidate, "Interview confirmed by candidate")
}

// ConfirmAsInterviewer handles POST /interviews/:id/confirm/interviewer
// @Summary Interviewer confirms the scheduled interview
// @Tags Interview
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.InterviewResponse
// @Failure 409 {object} errors.AppError
// @Router /private/interviews/{id}/confirm/interviewer [post]
func (c *InterviewController) ConfirmAsInterviewer(ctx echo.Context) error {
	return c.confirm(ctx, c.ConfirmationService.ConfirmAsInterviewer, "Interview confirmed by interviewer")
}

type confirmFunc func(ctx context.Context, requestID uuid.UUID, actor entity.Actor) (*entity.InterviewRequest, *errors.AppError)

func (c *InterviewController) confirm(ctx echo.Context, fn confirmFunc, message string) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request ID")
	}

	updated, appErr := fn(ctx.Request().Context(), requestID, actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.ToInterviewResponse(updated, nil), message)
}

// DeclineAssignment handles POST /interviews/:id/decline
// @Summary Assigned interviewer declines the assignment
// @Tags Interview
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.InterviewResponse
// @Failure 409 {object} errors.AppError
// @Router /private/interviews/{id}/decline [post]
func (c *InterviewController) DeclineAssignment(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request ID")
	}

	updated, appErr := c.AssignmentService.DeclineAssignment(ctx.Request().Context(), requestID, actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.ToInterviewResponse(updated, nil), "Assignment declined")
}

// Cancel handles POST /interviews/:id/cancel
// @Summary Cancel an interview request
// @Tags Interview
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.InterviewResponse
// @Failure 409 {object} errors.AppError
// @Router /private/interviews/{id}/cancel [post]
func (c *InterviewController) Cancel(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request ID")
	}

	updated, appErr := c.LifecycleService.Transition(ctx.Request().Context(),
		requestID, entity.StatusCancelled, actor, nil)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.ToInterviewResponse(updated, nil), "Interview request cancelled")
}

// ===================== Admin surface =====================

// AdminListRequests handles GET /admin/interviews
// @Summary List all interview requests
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param status query string false "Status filter"
// @Success 200 {object} dto.PaginatedInterviewResponse
// @Router /admin/interviews [get]
func (c *InterviewController) AdminListRequests(ctx echo.Context) error {
	p := params.NewQueryParams(ctx)
	if status := ctx.QueryParam("status"); status != "" {
		p.Add("status", status)
	}

	result, appErr := c.InterviewService.ListRequests(ctx.Request().Context(), p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// AdminPatchRequest handles PATCH /admin/interviews/:id
// @Summary Assign an interviewer or transition a request
// @Description Assigns an interviewer when interviewer_id is set, otherwise applies the requested status transition
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body dto.TransitionRequest true "Transition payload"
// @Success 200 {object} dto.InterviewResponse
// @Failure 409 {object} errors.AppError
// @Router /admin/interviews/{id} [patch]
func (c *InterviewController) AdminPatchRequest(ctx echo.Context) error {
	actor, err := c.actorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request ID")
	}

	var req dto.TransitionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	if req.InterviewerID != "" {
		interviewerID, err := uuid.Parse(req.InterviewerID)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid interviewer ID")
		}

		updated, appErr := c.AssignmentService.AssignInterviewer(ctx.Request().Context(), requestID, interviewerID, actor)
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		return c.SuccessResponse(ctx, dto.ToInterviewResponse(updated, nil), "Interviewer assigned")
	}

	if req.Status == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Either status or interviewer_id is required")
	}

	target, err := entity.ParseStatus(req.Status)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Unknown status")
	}

	opts := &service.TransitionOptions{ForceConfirm: req.ForceConfirm}
	if req.ScheduledDate != "" {
		date, err := time.Parse("2006-01-02", req.ScheduledDate)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid scheduled date, expected YYYY-MM-DD")
		}
		opts.NewDate = &date
	}
	if req.ScheduledTime != "" {
		if _, err := time.Parse("15:04", req.ScheduledTime); err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid scheduled time, expected HH:MM")
		}
		opts.NewTime = &req.ScheduledTime
	}
	if req.MeetingURL != "" {
		opts.MeetingURL = &req.MeetingURL
	}

	updated, appErr := c.LifecycleService.Transition(ctx.Request().Context(), requestID, target, actor, opts)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, dto.ToInterviewResponse(updated, nil), "Interview request updated")
}
