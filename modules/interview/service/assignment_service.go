package service

import (
	"context"
	"fmt"
	"time"

	"interviewhub/core/constants"
	"interviewhub/core/errors"
	availEntity "interviewhub/modules/availability/entity"
	"interviewhub/modules/interview/entity"
	"interviewhub/modules/interview/repository"

	"github.com/google/uuid"
)

// AvailabilityProvider is the read-only view of interviewer availability the
// assignment engine consumes.
type AvailabilityProvider interface {
	GetByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]availEntity.AvailabilitySlot, error)
}

// InterviewerDirectory resolves whether a user id refers to an interviewer.
type InterviewerDirectory interface {
	IsInterviewer(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AssignmentService selects and validates an interviewer for a request. It
// never writes status itself; the lifecycle service does.
type AssignmentService struct {
	repo         repository.InterviewRepositoryInterface
	lifecycle    LifecycleServiceInterface
	availability AvailabilityProvider
	directory    InterviewerDirectory
}

type AssignmentServiceInterface interface {
	AssignInterviewer(ctx context.Context, requestID, interviewerID uuid.UUID, actor entity.Actor) (*entity.InterviewRequest, *errors.AppError)
	DeclineAssignment(ctx context.Context, requestID uuid.UUID, actor entity.Actor) (*entity.InterviewRequest, *errors.AppError)
}

func NewAssignmentService(
	repo repository.InterviewRepositoryInterface,
	lifecycle LifecycleServiceInterface,
	availability AvailabilityProvider,
	directory InterviewerDirectory,
) AssignmentServiceInterface {
	return &AssignmentService{
		repo:         repo,
		lifecycle:    lifecycle,
		availability: availability,
		directory:    directory,
	}
}

// AssignInterviewer assigns (or reassigns) an interviewer to a pending
// request. The interviewer must have availability covering the requested
// slot and no confirmed interview at the same slot.
func (s *AssignmentService) AssignInterviewer(ctx context.Context, requestID, interviewerID uuid.UUID, actor entity.Actor) (*entity.InterviewRequest, *errors.AppError) {
	if actor.Role != constants.RoleAdmin {
		return nil, errors.NewAppError(errors.ErrNotAuthorized, "Only admins assign interviewers", nil)
	}

	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load interview request", err)
	}
	if req == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Interview request not found", nil)
	}

	if req.Status != entity.StatusPending && req.Status != entity.StatusInterviewerAssigned {
		return nil, errors.NewAppErrorWithDetails(errors.ErrInvalidTransition,
			fmt.Sprintf("Cannot assign an interviewer while the request is %s", req.Status), nil,
			map[string]string{"from": string(req.Status), "to": string(entity.StatusInterviewerAssigned)})
	}

	isInterviewer, err := s.directory.IsInterviewer(ctx, interviewerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up interviewer", err)
	}
	if !isInterviewer {
		return nil, errors.NewAppErrorWithDetails(errors.ErrNoSuchInterviewer,
			"User is not a registered interviewer", nil,
			map[string]string{"interviewer_id": interviewerID.String()})
	}

	if appErr := s.checkSlot(ctx, interviewerID, req.ScheduledDate, req.ScheduledTime); appErr != nil {
		return nil, appErr
	}

	updated, _, appErr := s.lifecycle.AssignTransition(ctx, req, interviewerID, actor)
	if appErr != nil {
		return nil, appErr
	}
	return updated, nil
}

// DeclineAssignment lets the currently assigned interviewer hand the request
// back to the unassigned pool.
func (s *AssignmentService) DeclineAssignment(ctx context.Context, requestID uuid.UUID, actor entity.Actor) (*entity.InterviewRequest, *errors.AppError) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load interview request", err)
	}
	if req == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Interview request not found", nil)
	}

	if req.Status.IsTerminal() {
		return nil, errors.NewAppError(errors.ErrAlreadyTerminal,
			fmt.Sprintf("Interview request is already %s", req.Status), nil)
	}
	if req.Status != entity.StatusInterviewerAssigned {
		return nil, errors.NewAppErrorWithDetails(errors.ErrInvalidTransition,
			fmt.Sprintf("Cannot decline while the request is %s", req.Status), nil,
			map[string]string{"from": string(req.Status), "to": string(entity.StatusPending)})
	}

	assignment, err := s.repo.GetActiveAssignment(ctx, requestID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load assignment", err)
	}
	if assignment == nil {
		return nil, errors.NewAppError(errors.ErrNotAssigned, "No active assignment for this request", nil)
	}
	if actor.Role != constants.RoleInterviewer || assignment.InterviewerID != actor.ID {
		return nil, errors.NewAppError(errors.ErrWrongRole, "Only the assigned interviewer may decline", nil)
	}

	return s.lifecycle.DeclineTransition(ctx, req, actor)
}

// checkSlot verifies the interviewer's availability covers the requested
// slot and that no confirmed interview occupies it.
func (s *AssignmentService) checkSlot(ctx context.Context, interviewerID uuid.UUID, date time.Time, timeOfDay string) *errors.AppError {
	slots, err := s.availability.GetByInterviewer(ctx, interviewerID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load availability", err)
	}

	covered := false
	for _, slot := range slots {
		if slot.Covers(date, timeOfDay) {
			covered = true
			break
		}
	}
	if !covered {
		return errors.NewAppErrorWithDetails(errors.ErrSlotUnavailable,
			"Interviewer has no availability for the requested slot", nil,
			map[string]string{
				"interviewer_id": interviewerID.String(),
				"date":           date.Format("2006-01-02"),
				"time":           timeOfDay,
			})
	}

	busy, err := s.repo.HasConfirmedOverlap(ctx, interviewerID, date, timeOfDay)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to check conflicting interviews", err)
	}
	if busy {
		return errors.NewAppErrorWithDetails(errors.ErrSlotUnavailable,
			"Interviewer already has a confirmed interview at this slot", nil,
			map[string]string{
				"interviewer_id": interviewerID.String(),
				"date":           date.Format("2006-01-02"),
				"time":           timeOfDay,
			})
	}

	return nil
}
