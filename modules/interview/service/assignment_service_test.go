package service_test

import (
	"context"
	"testing"
	"time"

	"interviewhub/core/errors"
	"interviewhub/modules/interview/entity"

	"github.com/google/uuid"
)

// ── assignment ──

func TestAssignInterviewer_HappyPath(t *testing.T) {
	f := newFixture()

	updated, appErr := f.assignment.AssignInterviewer(context.Background(), f.requestID, f.interviewerID, f.admin())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if updated.Status != entity.StatusInterviewerAssigned {
		t.Fatalf("expected INTERVIEWER_ASSIGNED, got %s", updated.Status)
	}

	assignment, _ := f.repo.GetActiveAssignment(context.Background(), f.requestID)
	if assignment == nil || assignment.InterviewerID != f.interviewerID {
		t.Fatal("active assignment missing or wrong interviewer")
	}

	if len(f.dispatcher.events) != 1 {
		t.Fatalf("expected one event, got %d", len(f.dispatcher.events))
	}
	event := f.dispatcher.events[0]
	if event.InterviewerID == nil || *event.InterviewerID != f.interviewerID {
		t.Fatal("event should carry the assigned interviewer")
	}
	if event.PrevInterviewerID != nil {
		t.Fatal("first assignment must not carry a previous interviewer")
	}
}

func TestAssignInterviewer_AdminOnly(t *testing.T) {
	f := newFixture()

	for _, actor := range []entity.Actor{f.candidate(), f.interviewer()} {
		_, appErr := f.assignment.AssignInterviewer(context.Background(), f.requestID, f.interviewerID, actor)
		requireCode(t, appErr, errors.ErrNotAuthorized)
	}
	if f.status() != entity.StatusPending {
		t.Fatalf("status changed, got %s", f.status())
	}
}

func TestAssignInterviewer_UnknownRequest(t *testing.T) {
	f := newFixture()

	_, appErr := f.assignment.AssignInterviewer(context.Background(), uuid.New(), f.interviewerID, f.admin())
	requireCode(t, appErr, errors.ErrNotFound)
}

func TestAssignInterviewer_UnknownInterviewer(t *testing.T) {
	f := newFixture()

	_, appErr := f.assignment.AssignInterviewer(context.Background(), f.requestID, uuid.New(), f.admin())
	requireCode(t, appErr, errors.ErrNoSuchInterviewer)
}

func TestAssignInterviewer_NoCoveringSlot(t *testing.T) {
	f := newFixture()
	f.availability.slots = nil

	_, appErr := f.assignment.AssignInterviewer(context.Background(), f.requestID, f.interviewerID, f.admin())
	requireCode(t, appErr, errors.ErrSlotUnavailable)
	if f.status() != entity.StatusPending {
		t.Fatalf("status changed, got %s", f.status())
	}
}

func TestAssignInterviewer_ConfirmedOverlap(t *testing.T) {
	f := newFixture()
	f.repo.overlapBusy = true

	_, appErr := f.assignment.AssignInterviewer(context.Background(), f.requestID, f.interviewerID, f.admin())
	requireCode(t, appErr, errors.ErrSlotUnavailable)
}

func TestAssignInterviewer_TerminalRequest(t *testing.T) {
	f := newFixture()
	f.repo.requests[f.requestID].Status = entity.StatusCancelled

	_, appErr := f.assignment.AssignInterviewer(context.Background(), f.requestID, f.interviewerID, f.admin())
	requireCode(t, appErr, errors.ErrInvalidTransition)
}

func TestAssignInterviewer_ReassignmentSupersedes(t *testing.T) {
	f := newFixture()
	f.assign()

	second := uuid.New()
	f.directory.interviewers[second] = true
	f.availability.slots[0].InterviewerID = second

	updated, appErr := f.assignment.AssignInterviewer(context.Background(), f.requestID, second, f.admin())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if updated.Status != entity.StatusInterviewerAssigned {
		t.Fatalf("expected INTERVIEWER_ASSIGNED, got %s", updated.Status)
	}

	active, _ := f.repo.GetActiveAssignment(context.Background(), f.requestID)
	if active == nil || active.InterviewerID != second {
		t.Fatal("new interviewer should hold the only active assignment")
	}
	history, _ := f.repo.GetAssignmentsByRequest(context.Background(), f.requestID)
	if len(history) != 2 {
		t.Fatalf("expected 2 assignment rows, got %d", len(history))
	}

	if len(f.dispatcher.events) != 1 {
		t.Fatalf("expected one event, got %d", len(f.dispatcher.events))
	}
	event := f.dispatcher.events[0]
	if event.PrevInterviewerID == nil || *event.PrevInterviewerID != f.interviewerID {
		t.Fatal("reassignment event should carry the superseded interviewer")
	}
}

func TestAssignInterviewer_ReassignmentClearsConfirmations(t *testing.T) {
	f := newFixture()
	f.assign()
	ctx := context.Background()

	if _, appErr := f.confirmation.ConfirmAsCandidate(ctx, f.requestID, f.candidate()); appErr != nil {
		t.Fatalf("candidate confirm: %v", appErr)
	}
	if f.repo.requests[f.requestID].CandidateConfirmedAt == nil {
		t.Fatal("candidate confirmation not recorded")
	}

	// a reassignment while one side has confirmed restarts confirmation
	f.repo.requests[f.requestID].Status = entity.StatusInterviewerAssigned
	second := uuid.New()
	f.directory.interviewers[second] = true
	f.availability.slots[0].InterviewerID = second

	updated, appErr := f.assignment.AssignInterviewer(ctx, f.requestID, second, f.admin())
	if appErr != nil {
		t.Fatalf("reassign: %v", appErr)
	}
	if updated.CandidateConfirmedAt != nil || updated.InterviewerConfirmedAt != nil {
		t.Fatal("reassignment should reset confirmation timestamps")
	}
}

// ── decline ──

func TestDeclineAssignment_ReturnsToPending(t *testing.T) {
	f := newFixture()
	f.assign()
	now := time.Now()
	f.repo.requests[f.requestID].InterviewerConfirmedAt = &now

	updated, appErr := f.assignment.DeclineAssignment(context.Background(), f.requestID, f.interviewer())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if updated.Status != entity.StatusPending {
		t.Fatalf("expected PENDING, got %s", updated.Status)
	}
	if updated.InterviewerConfirmedAt != nil {
		t.Fatal("decline should clear the interviewer confirmation")
	}

	active, _ := f.repo.GetActiveAssignment(context.Background(), f.requestID)
	if active != nil {
		t.Fatal("declined assignment must not stay active")
	}

	if len(f.dispatcher.events) != 1 {
		t.Fatalf("expected one event, got %d", len(f.dispatcher.events))
	}
	event := f.dispatcher.events[0]
	if event.FromStatus != entity.StatusInterviewerAssigned || event.ToStatus != entity.StatusPending {
		t.Fatalf("unexpected event %s → %s", event.FromStatus, event.ToStatus)
	}
}

func TestDeclineAssignment_RequiresAssignment(t *testing.T) {
	f := newFixture()

	_, appErr := f.assignment.DeclineAssignment(context.Background(), f.requestID, f.interviewer())
	requireCode(t, appErr, errors.ErrInvalidTransition)
}

func TestDeclineAssignment_WrongInterviewer(t *testing.T) {
	f := newFixture()
	f.assign()

	other := f.interviewer()
	other.ID = uuid.New()
	_, appErr := f.assignment.DeclineAssignment(context.Background(), f.requestID, other)
	requireCode(t, appErr, errors.ErrWrongRole)

	if f.status() != entity.StatusInterviewerAssigned {
		t.Fatalf("status changed, got %s", f.status())
	}
}

func TestDeclineAssignment_TerminalRequest(t *testing.T) {
	f := newFixture()
	f.assign()
	f.repo.requests[f.requestID].Status = entity.StatusCancelled

	_, appErr := f.assignment.DeclineAssignment(context.Background(), f.requestID, f.interviewer())
	requireCode(t, appErr, errors.ErrAlreadyTerminal)
}
