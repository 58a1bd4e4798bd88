package service

import (
	"context"
	"fmt"

	"interviewhub/core/constants"
	"interviewhub/core/errors"
	"interviewhub/modules/interview/entity"
	"interviewhub/modules/interview/repository"

	"github.com/google/uuid"
)

// ConfirmationService tracks the independent candidate / interviewer
// confirmations and promotes the request to CONFIRMED once both sides have
// confirmed. All status writes go through the lifecycle service.
type ConfirmationService struct {
	repo      repository.InterviewRepositoryInterface
	lifecycle LifecycleServiceInterface
}

type ConfirmationServiceInterface interface {
	ConfirmAsCandidate(ctx context.Context, requestID uuid.UUID, actor entity.Actor) (*entity.InterviewRequest, *errors.AppError)
	ConfirmAsInterviewer(ctx context.Context, requestID uuid.UUID, actor entity.Actor) (*entity.InterviewRequest, *errors.AppError)
}

func NewConfirmationService(repo repository.InterviewRepositoryInterface, lifecycle LifecycleServiceInterface) ConfirmationServiceInterface {
	return &ConfirmationService{
		repo:      repo,
		lifecycle: lifecycle,
	}
}

// ConfirmAsCandidate records the candidate's confirmation. Calling it again
// after confirming is a no-op, so retried client requests are harmless.
func (s *ConfirmationService) ConfirmAsCandidate(ctx context.Context, requestID uuid.UUID, actor entity.Actor) (*entity.InterviewRequest, *errors.AppError) {
	req, appErr := s.loadConfirmable(ctx, requestID)
	if appErr != nil {
		return nil, appErr
	}

	if actor.Role != constants.RoleCandidate || req.CandidateID != actor.ID {
		return nil, errors.NewAppError(errors.ErrWrongRole, "Only the owning candidate may confirm", nil)
	}

	if req.Status == entity.StatusConfirmed {
		// already fully confirmed; treat a retry as a no-op
		if req.CandidateConfirmedAt != nil || req.ForceConfirmed {
			return req, nil
		}
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Interview is already confirmed", nil)
	}

	return s.lifecycle.ConfirmTransition(ctx, req, entity.PartyCandidate, actor)
}

// ConfirmAsInterviewer records the assigned interviewer's confirmation.
func (s *ConfirmationService) ConfirmAsInterviewer(ctx context.Context, requestID uuid.UUID, actor entity.Actor) (*entity.InterviewRequest, *errors.AppError) {
	req, appErr := s.loadConfirmable(ctx, requestID)
	if appErr != nil {
		return nil, appErr
	}

	assignment, err := s.repo.GetActiveAssignment(ctx, requestID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load assignment", err)
	}
	if assignment == nil {
		return nil, errors.NewAppError(errors.ErrNotAssigned, "No active assignment for this request", nil)
	}
	if actor.Role != constants.RoleInterviewer || assignment.InterviewerID != actor.ID {
		return nil, errors.NewAppError(errors.ErrWrongRole, "Only the assigned interviewer may confirm", nil)
	}

	if req.Status == entity.StatusConfirmed {
		if req.InterviewerConfirmedAt != nil || req.ForceConfirmed {
			return req, nil
		}
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Interview is already confirmed", nil)
	}

	return s.lifecycle.ConfirmTransition(ctx, req, entity.PartyInterviewer, actor)
}

// loadConfirmable fetches the request and rejects terminal or unassigned
// states up-front.
func (s *ConfirmationService) loadConfirmable(ctx context.Context, requestID uuid.UUID) (*entity.InterviewRequest, *errors.AppError) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load interview request", err)
	}
	if req == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Interview request not found", nil)
	}

	if req.Status.IsTerminal() {
		return nil, errors.NewAppErrorWithDetails(errors.ErrAlreadyTerminal,
			fmt.Sprintf("Interview request is already %s", req.Status), nil,
			map[string]string{"request_id": requestID.String(), "status": string(req.Status)})
	}
	if req.Status == entity.StatusPending {
		return nil, errors.NewAppError(errors.ErrNotAssigned, "No interviewer assigned yet", nil)
	}

	return req, nil
}
