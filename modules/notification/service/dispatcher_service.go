package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"interviewhub/core/cache"
	"interviewhub/core/constants"
	"interviewhub/core/logger"
	interviewEntity "interviewhub/modules/interview/entity"
	"interviewhub/modules/notification/dto"
	"interviewhub/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// AdminDirectory resolves the users to fan notifications out to by role.
type AdminDirectory interface {
	GetUserIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error)
}

// StalePendingSource lists interview requests that have sat in PENDING past
// a cutoff. Backed by the interview repository.
type StalePendingSource interface {
	ListStalePending(ctx context.Context, olderThan time.Time) ([]interviewEntity.InterviewRequest, error)
}

// DispatcherService turns lifecycle events into persisted notifications and
// real-time pushes. Dispatch only enqueues; the heavy lifting (recipient
// resolution, row writes, pub/sub pushes) happens in the asynq worker so a
// slow notification path never delays a status transition.
type DispatcherService struct {
	client   *asynq.Client
	notifSvc *NotificationService
	cache    cache.Cache
	admins   AdminDirectory
	stale    StalePendingSource
}

func NewDispatcherService(
	client *asynq.Client,
	notifSvc *NotificationService,
	c cache.Cache,
	admins AdminDirectory,
	stale StalePendingSource,
) *DispatcherService {
	return &DispatcherService{
		client:   client,
		notifSvc: notifSvc,
		cache:    c,
		admins:   admins,
		stale:    stale,
	}
}

// Dispatch enqueues the event for asynchronous fan-out. Failures are logged
// and swallowed: the transition has already committed and must not roll back
// because the queue is unreachable.
func (s *DispatcherService) Dispatch(ctx context.Context, event interviewEntity.LifecycleEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("DispatcherService:Dispatch:Marshal", err)
		return
	}

	task := asynq.NewTask(constants.TaskNotificationDispatch, payload)
	if _, err := s.client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		logger.Error("DispatcherService:Dispatch:Enqueue", err,
			"request_id", event.RequestID,
			"to_status", event.ToStatus,
		)
	}
}

// RegisterHandlers binds the worker-side handlers onto the asynq mux.
func (s *DispatcherService) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(constants.TaskNotificationDispatch, s.HandleDispatchTask)
}

// HandleDispatchTask runs in the asynq worker: resolves recipients, writes a
// notification row per recipient and pushes the event over pub/sub.
func (s *DispatcherService) HandleDispatchTask(ctx context.Context, t *asynq.Task) error {
	var event interviewEntity.LifecycleEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		logger.Error("DispatcherService:HandleDispatchTask:Unmarshal", err)
		return nil // malformed payloads are not retryable
	}

	recipients, err := s.resolveRecipients(ctx, event)
	if err != nil {
		return err
	}

	title, message, notifType := describeEvent(event)
	data := map[string]interface{}{
		"request_id":  event.RequestID.String(),
		"from_status": string(event.FromStatus),
		"to_status":   string(event.ToStatus),
	}
	if event.Rescheduled {
		data["rescheduled"] = true
	}

	for _, userID := range recipients {
		req := &dto.CreateNotificationRequest{
			UserID:  userID,
			Title:   title,
			Message: message,
			Type:    notifType,
			Data:    data,
		}
		if err := s.notifSvc.Create(ctx, req); err != nil {
			return err
		}

		channel := constants.RedisKeyNotifyChannel + userID.String()
		if err := s.cache.Publish(ctx, channel, event); err != nil {
			logger.Error("DispatcherService:HandleDispatchTask:Publish", err, "user_id", userID)
		}
	}

	return nil
}

// resolveRecipients decides who hears about an event: the candidate, the
// assigned interviewer, the superseded interviewer on a reassignment, and
// the admins when a request needs their attention — a decline returning it
// to the unassigned pool, or a REJECTED/CANCELLED ending by someone else.
// The actor never gets notified about their own action.
func (s *DispatcherService) resolveRecipients(ctx context.Context, event interviewEntity.LifecycleEvent) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]struct{}{}
	var recipients []uuid.UUID

	add := func(id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if id == event.ActorID && event.ActorRole != constants.RoleSystem {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		recipients = append(recipients, id)
	}

	add(event.CandidateID)
	if event.InterviewerID != nil {
		add(*event.InterviewerID)
	}
	if event.PrevInterviewerID != nil {
		add(*event.PrevInterviewerID)
	}

	needsAdmin := event.ToStatus == interviewEntity.StatusRejected ||
		event.ToStatus == interviewEntity.StatusCancelled ||
		event.ToStatus == interviewEntity.StatusPending // interviewer declined
	if needsAdmin && event.ActorRole != constants.RoleAdmin {
		adminIDs, err := s.admins.GetUserIDsByRole(ctx, constants.RoleAdmin)
		if err != nil {
			return nil, err
		}
		for _, id := range adminIDs {
			add(id)
		}
	}

	return recipients, nil
}

// DispatchPendingDigest notifies every admin about requests that have been
// sitting in PENDING longer than the configured age. Invoked by the cron
// scheduler.
func (s *DispatcherService) DispatchPendingDigest(ctx context.Context) error {
	cutoff := time.Now().Add(-constants.PendingDigestMinAge)
	requests, err := s.stale.ListStalePending(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		return nil
	}

	ids := make([]string, 0, len(requests))
	for i := range requests {
		ids = append(ids, requests[i].ID.String())
	}

	adminIDs, err := s.admins.GetUserIDsByRole(ctx, constants.RoleAdmin)
	if err != nil {
		return err
	}

	for _, adminID := range adminIDs {
		req := &dto.CreateNotificationRequest{
			UserID:  adminID,
			Title:   "Pending interview requests need attention",
			Message: fmt.Sprintf("%d interview request(s) have been waiting for an interviewer for over 24 hours", len(requests)),
			Type:    entity.TypePendingDigest,
			Data:    map[string]interface{}{"request_ids": ids},
		}
		if err := s.notifSvc.Create(ctx, req); err != nil {
			return err
		}
	}

	logger.Info("Dispatched pending digest", "stale_requests", len(requests), "admins", len(adminIDs))
	return nil
}

func describeEvent(event interviewEntity.LifecycleEvent) (title, message, notifType string) {
	switch event.ToStatus {
	case interviewEntity.StatusInterviewerAssigned:
		if event.PrevInterviewerID != nil {
			return "Interviewer reassigned", "Your interview has been reassigned to a different interviewer", entity.TypeAssignment
		}
		return "Interviewer assigned", "An interviewer has been assigned to your interview request", entity.TypeAssignment
	case interviewEntity.StatusCandidateConfirmed:
		return "Candidate confirmed", "The candidate has confirmed the interview time", entity.TypeConfirmation
	case interviewEntity.StatusInterviewerConfirmed:
		return "Interviewer confirmed", "The interviewer has confirmed the interview time", entity.TypeConfirmation
	case interviewEntity.StatusConfirmed:
		return "Interview confirmed", "Both sides confirmed; the meeting link is ready", entity.TypeMeetingReady
	case interviewEntity.StatusPending:
		return "Assignment declined", "The interviewer declined; the request is waiting for a new assignment", entity.TypeStatusChange
	case interviewEntity.StatusCompleted:
		return "Interview completed", "The interview has been marked as completed", entity.TypeStatusChange
	case interviewEntity.StatusRejected:
		return "Interview rejected", "The interview request has been rejected", entity.TypeStatusChange
	case interviewEntity.StatusCancelled:
		return "Interview cancelled", "The interview request has been cancelled", entity.TypeStatusChange
	case interviewEntity.StatusRescheduled:
		return "Interview rescheduled", "The interview has been moved to a new time", entity.TypeStatusChange
	default:
		return "Interview updated", fmt.Sprintf("Interview status changed to %s", event.ToStatus), entity.TypeStatusChange
	}
}
