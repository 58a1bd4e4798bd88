package service

import (
	"context"
	"time"

	"interviewhub/core/constants"
	"interviewhub/core/errors"
	"interviewhub/core/params"
	"interviewhub/modules/interview/dto"
	"interviewhub/modules/interview/entity"
	"interviewhub/modules/interview/repository"

	"github.com/google/uuid"
)

// InterviewService handles the request CRUD surface around the lifecycle
// core: creation, listing, candidate edits and deletion.
type InterviewService struct {
	repo repository.InterviewRepositoryInterface
}

type InterviewServiceInterface interface {
	CreateRequest(ctx context.Context, actor entity.Actor, req *dto.CreateInterviewRequest) (*dto.InterviewResponse, *errors.AppError)
	GetRequest(ctx context.Context, requestID uuid.UUID, actor entity.Actor) (*dto.InterviewResponse, *errors.AppError)
	GetMyRequests(ctx context.Context, actor entity.Actor) ([]dto.InterviewResponse, *errors.AppError)
	GetAssignedRequests(ctx context.Context, actor entity.Actor) ([]dto.InterviewResponse, *errors.AppError)
	ListRequests(ctx context.Context, p params.QueryParams) (*dto.PaginatedInterviewResponse, *errors.AppError)
	UpdateRequest(ctx context.Context, requestID uuid.UUID, actor entity.Actor, req *dto.UpdateInterviewRequest) (*dto.InterviewResponse, *errors.AppError)
	DeleteRequest(ctx context.Context, requestID uuid.UUID, actor entity.Actor) *errors.AppError
	PermittedActions(ctx context.Context, requestID uuid.UUID, actor entity.Actor) ([]entity.Status, *errors.AppError)
}

func NewInterviewService(repo repository.InterviewRepositoryInterface) InterviewServiceInterface {
	return &InterviewService{repo: repo}
}

// CreateRequest creates a new interview request in PENDING for the calling
// candidate.
func (s *InterviewService) CreateRequest(ctx context.Context, actor entity.Actor, req *dto.CreateInterviewRequest) (*dto.InterviewResponse, *errors.AppError) {
	interviewType := entity.InterviewType(req.InterviewType)
	if !entity.ValidInterviewType(interviewType) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown interview type", nil)
	}

	date, err := time.Parse("2006-01-02", req.ScheduledDate)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid scheduled date, expected YYYY-MM-DD", err)
	}
	if _, err := time.Parse("15:04", req.ScheduledTime); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid scheduled time, expected HH:MM", err)
	}

	request := &entity.InterviewRequest{
		CandidateID:   actor.ID,
		InterviewType: interviewType,
		ScheduledDate: date,
		ScheduledTime: req.ScheduledTime,
		Status:        entity.StatusPending,
	}
	if req.AdditionalInfo != "" {
		request.AdditionalInfo = &req.AdditionalInfo
	}

	created, err := s.repo.CreateRequest(ctx, request)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create interview request", err)
	}

	return dto.ToInterviewResponse(created, nil), nil
}

func (s *InterviewService) GetRequest(ctx context.Context, requestID uuid.UUID, actor entity.Actor) (*dto.InterviewResponse, *errors.AppError) {
	req, assignment, appErr := s.load(ctx, requestID)
	if appErr != nil {
		return nil, appErr
	}

	if appErr := s.authorizeRead(req, assignment, actor); appErr != nil {
		return nil, appErr
	}

	return dto.ToInterviewResponse(req, assignment), nil
}

func (s *InterviewService) GetMyRequests(ctx context.Context, actor entity.Actor) ([]dto.InterviewResponse, *errors.AppError) {
	requests, err := s.repo.GetRequestsByCandidateID(ctx, actor.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list interview requests", err)
	}
	return s.toResponses(ctx, requests), nil
}

func (s *InterviewService) GetAssignedRequests(ctx context.Context, actor entity.Actor) ([]dto.InterviewResponse, *errors.AppError) {
	requests, err := s.repo.GetRequestsByInterviewerID(ctx, actor.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list assigned interviews", err)
	}
	return s.toResponses(ctx, requests), nil
}

func (s *InterviewService) ListRequests(ctx context.Context, p params.QueryParams) (*dto.PaginatedInterviewResponse, *errors.AppError) {
	if status := p.Get("status"); status != "" {
		if _, err := entity.ParseStatus(status); err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown status filter", err)
		}
	}

	page, err := s.repo.ListRequests(ctx, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list interview requests", err)
	}

	resp := &dto.PaginatedInterviewResponse{
		Items:      s.toResponses(ctx, page.Items),
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
	return resp, nil
}

// UpdateRequest lets the owning candidate edit details while the request is
// still PENDING. Status never changes here.
func (s *InterviewService) UpdateRequest(ctx context.Context, requestID uuid.UUID, actor entity.Actor, upd *dto.UpdateInterviewRequest) (*dto.InterviewResponse, *errors.AppError) {
	req, _, appErr := s.load(ctx, requestID)
	if appErr != nil {
		return nil, appErr
	}

	if actor.Role != constants.RoleAdmin && req.CandidateID != actor.ID {
		return nil, errors.NewAppError(errors.ErrNotAuthorized, "Not your interview request", nil)
	}
	if req.Status != entity.StatusPending {
		return nil, errors.NewAppError(errors.ErrInvalidTransition,
			"Details can only be edited while the request is pending", nil)
	}

	if upd.InterviewType != "" {
		t := entity.InterviewType(upd.InterviewType)
		if !entity.ValidInterviewType(t) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown interview type", nil)
		}
		req.InterviewType = t
	}
	if upd.ScheduledDate != "" {
		date, err := time.Parse("2006-01-02", upd.ScheduledDate)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid scheduled date, expected YYYY-MM-DD", err)
		}
		req.ScheduledDate = date
	}
	if upd.ScheduledTime != "" {
		if _, err := time.Parse("15:04", upd.ScheduledTime); err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid scheduled time, expected HH:MM", err)
		}
		req.ScheduledTime = upd.ScheduledTime
	}
	if upd.AdditionalInfo != "" {
		req.AdditionalInfo = &upd.AdditionalInfo
	}

	if err := s.repo.UpdateRequestDetails(ctx, req); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update interview request", err)
	}

	return s.GetRequest(ctx, requestID, actor)
}

// DeleteRequest removes a request together with its assignment history.
func (s *InterviewService) DeleteRequest(ctx context.Context, requestID uuid.UUID, actor entity.Actor) *errors.AppError {
	req, _, appErr := s.load(ctx, requestID)
	if appErr != nil {
		return appErr
	}

	if actor.Role != constants.RoleAdmin && req.CandidateID != actor.ID {
		return errors.NewAppError(errors.ErrNotAuthorized, "Not your interview request", nil)
	}

	if err := s.repo.DeleteRequest(ctx, requestID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete interview request", err)
	}

	return nil
}

// PermittedActions returns the statuses the actor may move the request to
// from its current status. The UI derives its buttons from this instead of
// re-deriving status rules.
func (s *InterviewService) PermittedActions(ctx context.Context, requestID uuid.UUID, actor entity.Actor) ([]entity.Status, *errors.AppError) {
	req, assignment, appErr := s.load(ctx, requestID)
	if appErr != nil {
		return nil, appErr
	}

	if appErr := s.authorizeRead(req, assignment, actor); appErr != nil {
		return nil, appErr
	}

	return entity.AllowedTargets(req.Status, actor.Role), nil
}

func (s *InterviewService) load(ctx context.Context, requestID uuid.UUID) (*entity.InterviewRequest, *entity.Assignment, *errors.AppError) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load interview request", err)
	}
	if req == nil {
		return nil, nil, errors.NewAppError(errors.ErrNotFound, "Interview request not found", nil)
	}

	assignment, err := s.repo.GetActiveAssignment(ctx, requestID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load assignment", err)
	}

	return req, assignment, nil
}

func (s *InterviewService) authorizeRead(req *entity.InterviewRequest, assignment *entity.Assignment, actor entity.Actor) *errors.AppError {
	switch actor.Role {
	case constants.RoleAdmin:
		return nil
	case constants.RoleCandidate:
		if req.CandidateID == actor.ID {
			return nil
		}
	case constants.RoleInterviewer:
		if assignment != nil && assignment.InterviewerID == actor.ID {
			return nil
		}
	}
	return errors.NewAppError(errors.ErrNotAuthorized, "Not allowed to view this interview request", nil)
}

func (s *InterviewService) toResponses(ctx context.Context, requests []entity.InterviewRequest) []dto.InterviewResponse {
	result := make([]dto.InterviewResponse, 0, len(requests))
	for i := range requests {
		assignment, _ := s.repo.GetActiveAssignment(ctx, requests[i].ID)
		result = append(result, *dto.ToInterviewResponse(&requests[i], assignment))
	}
	return result
}
