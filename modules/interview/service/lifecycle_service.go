package service

import (
	"context"
	"fmt"
	"time"

	"interviewhub/core/constants"
	"interviewhub/core/errors"
	"interviewhub/core/logger"
	"interviewhub/core/utils"
	"interviewhub/modules/interview/entity"
	"interviewhub/modules/interview/repository"

	"github.com/google/uuid"
)

// Dispatcher receives lifecycle events after the transition is durably
// committed. Implementations are best-effort: a dispatch failure never rolls
// back the transition.
type Dispatcher interface {
	Dispatch(ctx context.Context, event entity.LifecycleEvent)
}

// TransitionOptions carries the optional payload applied atomically with a
// status write.
type TransitionOptions struct {
	NewDate      *time.Time
	NewTime      *string // HH:MM
	MeetingURL   *string
	ForceConfirm bool
}

// LifecycleService is the single entry point through which every status
// mutation flows. The assignment and confirmation services call through it;
// nothing else writes status.
type LifecycleService struct {
	repo       repository.InterviewRepositoryInterface
	dispatcher Dispatcher
}

type LifecycleServiceInterface interface {
	Transition(ctx context.Context, requestID uuid.UUID, target entity.Status, actor entity.Actor, opts *TransitionOptions) (*entity.InterviewRequest, *errors.AppError)
	ConfirmTransition(ctx context.Context, req *entity.InterviewRequest, party entity.ConfirmingParty, actor entity.Actor) (*entity.InterviewRequest, *errors.AppError)
	AssignTransition(ctx context.Context, req *entity.InterviewRequest, interviewerID uuid.UUID, actor entity.Actor) (*entity.InterviewRequest, *entity.Assignment, *errors.AppError)
	DeclineTransition(ctx context.Context, req *entity.InterviewRequest, actor entity.Actor) (*entity.InterviewRequest, *errors.AppError)
}

func NewLifecycleService(repo repository.InterviewRepositoryInterface, dispatcher Dispatcher) LifecycleServiceInterface {
	return &LifecycleService{
		repo:       repo,
		dispatcher: dispatcher,
	}
}

// coordinatedTargets are statuses reachable only through the assignment or
// confirmation flows, never through a bare Transition call: they carry side
// effects (assignment rows, confirmation timestamps) that must be applied
// atomically with the status write.
var coordinatedTargets = map[entity.Status]string{
	entity.StatusInterviewerAssigned:  "assign an interviewer instead",
	entity.StatusPending:              "decline the assignment instead",
	entity.StatusCandidateConfirmed:   "use the confirmation endpoint instead",
	entity.StatusInterviewerConfirmed: "use the confirmation endpoint instead",
}

// Transition validates (current → target) against the transition table and
// the actor's role, applies the options atomically with the status write and
// emits exactly one lifecycle event on success. An illegal transition leaves
// the request untouched.
func (s *LifecycleService) Transition(ctx context.Context, requestID uuid.UUID, target entity.Status, actor entity.Actor, opts *TransitionOptions) (*entity.InterviewRequest, *errors.AppError) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load interview request", err)
	}
	if req == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Interview request not found", nil)
	}

	if hint, ok := coordinatedTargets[target]; ok {
		return nil, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("Status %s cannot be set directly; %s", target, hint), nil)
	}

	if appErr := s.authorize(ctx, req, target, actor); appErr != nil {
		return nil, appErr
	}

	if opts == nil {
		opts = &TransitionOptions{}
	}
	if target == entity.StatusConfirmed && !opts.ForceConfirm {
		return nil, errors.NewAppError(errors.ErrInvalidInput,
			"Direct confirmation requires the force-confirm flag", nil)
	}

	rescheduled := opts.NewDate != nil || opts.NewTime != nil

	meetingURL := opts.MeetingURL
	if target == entity.StatusConfirmed && meetingURL == nil && req.MeetingURL == nil {
		url := buildMeetingURL()
		meetingURL = &url
	}

	updated, err := s.repo.UpdateStatusConditional(ctx, repository.UpdateStatusParams{
		ID:           requestID,
		Expected:     req.Status,
		Target:       target,
		NewDate:      opts.NewDate,
		NewTime:      opts.NewTime,
		MeetingURL:   meetingURL,
		ForceConfirm: opts.ForceConfirm && target == entity.StatusConfirmed,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update interview status", err)
	}
	if updated == nil {
		return nil, s.staleOrGone(ctx, requestID, req.Status, target)
	}

	s.emit(ctx, updated, req.Status, updated.Status, actor, rescheduled, nil)
	return updated, nil
}

// ConfirmTransition records one party's confirmation. The timestamp write,
// the check of the other party and the promotion to CONFIRMED are a single
// conditional update, so concurrent confirmations produce exactly one
// promotion. Re-confirming by the same party is a no-op.
func (s *LifecycleService) ConfirmTransition(ctx context.Context, req *entity.InterviewRequest, party entity.ConfirmingParty, actor entity.Actor) (*entity.InterviewRequest, *errors.AppError) {
	updated, err := s.repo.ConfirmParty(ctx, req.ID, party)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to record confirmation", err)
	}
	if updated == nil {
		return nil, s.staleOrGone(ctx, req.ID, req.Status, entity.StatusConfirmed)
	}

	if updated.Status == entity.StatusConfirmed && updated.MeetingURL == nil {
		url := buildMeetingURL()
		if err := s.repo.SetMeetingURL(ctx, updated.ID, url); err != nil {
			logger.Error("LifecycleService:ConfirmTransition:SetMeetingURL", err)
		} else {
			updated.MeetingURL = &url
		}
	}

	// A no-op re-confirmation leaves the status unchanged and emits nothing.
	if updated.Status != req.Status {
		s.emit(ctx, updated, req.Status, updated.Status, actor, false, nil)
	}
	return updated, nil
}

// AssignTransition installs a new assignment, superseding any previous one,
// and moves the request to INTERVIEWER_ASSIGNED.
func (s *LifecycleService) AssignTransition(ctx context.Context, req *entity.InterviewRequest, interviewerID uuid.UUID, actor entity.Actor) (*entity.InterviewRequest, *entity.Assignment, *errors.AppError) {
	updated, assignment, prevInterviewerID, err := s.repo.ReplaceAssignment(ctx, req.ID, interviewerID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "Failed to assign interviewer", err)
	}
	if updated == nil {
		return nil, nil, s.staleOrGone(ctx, req.ID, req.Status, entity.StatusInterviewerAssigned)
	}

	s.emit(ctx, updated, req.Status, updated.Status, actor, false, prevInterviewerID)
	return updated, assignment, nil
}

// DeclineTransition marks the active assignment declined and returns the
// request to the unassigned pool. No auto-reassignment happens: an admin
// must act again.
func (s *LifecycleService) DeclineTransition(ctx context.Context, req *entity.InterviewRequest, actor entity.Actor) (*entity.InterviewRequest, *errors.AppError) {
	updated, err := s.repo.DeclineAssignment(ctx, req.ID, actor.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to decline assignment", err)
	}
	if updated == nil {
		return nil, s.staleOrGone(ctx, req.ID, req.Status, entity.StatusPending)
	}

	s.emit(ctx, updated, req.Status, updated.Status, actor, false, nil)
	return updated, nil
}

// authorize checks the transition table and the actor's relationship to the
// request.
func (s *LifecycleService) authorize(ctx context.Context, req *entity.InterviewRequest, target entity.Status, actor entity.Actor) *errors.AppError {
	if !entity.IsTransitionDefined(req.Status, target) {
		return errors.NewAppErrorWithDetails(errors.ErrInvalidTransition,
			fmt.Sprintf("Transition %s → %s is not allowed", req.Status, target), nil,
			map[string]string{"from": string(req.Status), "to": string(target)})
	}
	if !entity.IsTransitionAllowed(req.Status, target, actor.Role) {
		return errors.NewAppError(errors.ErrNotAuthorized,
			fmt.Sprintf("Role %s may not perform transition %s → %s", actor.Role, req.Status, target), nil)
	}

	// Candidates act only on their own requests.
	if actor.Role == constants.RoleCandidate && req.CandidateID != actor.ID {
		return errors.NewAppError(errors.ErrNotAuthorized, "Not your interview request", nil)
	}

	// Interviewers act only on requests they are actively assigned to.
	if actor.Role == constants.RoleInterviewer {
		assignment, err := s.repo.GetActiveAssignment(ctx, req.ID)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to load assignment", err)
		}
		if assignment == nil || assignment.InterviewerID != actor.ID {
			return errors.NewAppError(errors.ErrNotAuthorized, "Not assigned to this interview", nil)
		}
	}

	return nil
}

// staleOrGone distinguishes a stale optimistic check (request still exists,
// status changed concurrently) from a vanished request.
func (s *LifecycleService) staleOrGone(ctx context.Context, requestID uuid.UUID, from, to entity.Status) *errors.AppError {
	current, err := s.repo.GetRequestByID(ctx, requestID)
	if err == nil && current == nil {
		return errors.NewAppError(errors.ErrNotFound, "Interview request not found", nil)
	}
	details := map[string]string{"request_id": requestID.String(), "attempted_from": string(from), "attempted_to": string(to)}
	if current != nil {
		details["current_status"] = string(current.Status)
	}
	return errors.NewAppErrorWithDetails(errors.ErrConcurrencyConflict,
		"Interview request changed concurrently; re-fetch and retry", nil, details)
}

func (s *LifecycleService) emit(ctx context.Context, req *entity.InterviewRequest, from, to entity.Status, actor entity.Actor, rescheduled bool, prevInterviewerID *uuid.UUID) {
	event := entity.LifecycleEvent{
		RequestID:         req.ID,
		CandidateID:       req.CandidateID,
		FromStatus:        from,
		ToStatus:          to,
		ActorID:           actor.ID,
		ActorRole:         actor.Role,
		Rescheduled:       rescheduled,
		PrevInterviewerID: prevInterviewerID,
		OccurredAt:        time.Now(),
	}

	if assignment, err := s.repo.GetActiveAssignment(ctx, req.ID); err == nil && assignment != nil {
		event.InterviewerID = &assignment.InterviewerID
	}

	s.dispatcher.Dispatch(ctx, event)
}

func buildMeetingURL() string {
	return fmt.Sprintf("https://meet.interviewhub.io/%s", utils.GenerateID())
}
