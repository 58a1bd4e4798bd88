package service_test

import (
	"context"
	"strings"
	"testing"

	"interviewhub/core/errors"
	"interviewhub/modules/interview/entity"
	"interviewhub/modules/interview/service"
)

func requireCode(t *testing.T, appErr *errors.AppError, code errors.ErrorCode) {
	t.Helper()
	if appErr == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if appErr.Code != code {
		t.Fatalf("expected %s error, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}

// ── direct transitions ──

func TestTransition_AdminRejectsPending(t *testing.T) {
	f := newFixture()

	updated, appErr := f.lifecycle.Transition(context.Background(), f.requestID, entity.StatusRejected, f.admin(), nil)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if updated.Status != entity.StatusRejected {
		t.Fatalf("expected REJECTED, got %s", updated.Status)
	}
	if f.status() != entity.StatusRejected {
		t.Fatalf("stored status not updated, got %s", f.status())
	}

	if len(f.dispatcher.events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(f.dispatcher.events))
	}
	event := f.dispatcher.events[0]
	if event.FromStatus != entity.StatusPending || event.ToStatus != entity.StatusRejected {
		t.Fatalf("unexpected event %s → %s", event.FromStatus, event.ToStatus)
	}
	if event.ActorID != f.adminID {
		t.Fatal("event actor should be the admin")
	}
}

func TestTransition_UndefinedPairLeavesStateUntouched(t *testing.T) {
	f := newFixture()

	_, appErr := f.lifecycle.Transition(context.Background(), f.requestID, entity.StatusCompleted, f.admin(), nil)
	requireCode(t, appErr, errors.ErrInvalidTransition)

	if f.status() != entity.StatusPending {
		t.Fatalf("status changed on illegal transition, got %s", f.status())
	}
	if len(f.dispatcher.events) != 0 {
		t.Fatalf("illegal transition emitted %d events", len(f.dispatcher.events))
	}
}

func TestTransition_RoleNotAllowed(t *testing.T) {
	f := newFixture()

	// Rejection is admin-only.
	_, appErr := f.lifecycle.Transition(context.Background(), f.requestID, entity.StatusRejected, f.candidate(), nil)
	requireCode(t, appErr, errors.ErrNotAuthorized)
	if f.status() != entity.StatusPending {
		t.Fatalf("status changed, got %s", f.status())
	}
}

func TestTransition_CandidateCancelsOwnRequest(t *testing.T) {
	f := newFixture()

	updated, appErr := f.lifecycle.Transition(context.Background(), f.requestID, entity.StatusCancelled, f.candidate(), nil)
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if updated.Status != entity.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", updated.Status)
	}
}

func TestTransition_CandidateCannotCancelForeignRequest(t *testing.T) {
	f := newFixture()
	stranger := f.candidate()
	stranger.ID = f.adminID // any id that is not the owner

	_, appErr := f.lifecycle.Transition(context.Background(), f.requestID, entity.StatusCancelled, stranger, nil)
	requireCode(t, appErr, errors.ErrNotAuthorized)
}

func TestTransition_CoordinatedTargetsRejected(t *testing.T) {
	f := newFixture()

	for _, target := range []entity.Status{
		entity.StatusInterviewerAssigned,
		entity.StatusCandidateConfirmed,
		entity.StatusInterviewerConfirmed,
	} {
		_, appErr := f.lifecycle.Transition(context.Background(), f.requestID, target, f.admin(), nil)
		requireCode(t, appErr, errors.ErrInvalidInput)
	}
}

func TestTransition_ForceConfirmRequiredForDirectConfirm(t *testing.T) {
	f := newFixture()

	_, appErr := f.lifecycle.Transition(context.Background(), f.requestID, entity.StatusConfirmed, f.admin(), nil)
	requireCode(t, appErr, errors.ErrInvalidInput)
	if f.status() != entity.StatusPending {
		t.Fatalf("status changed, got %s", f.status())
	}
}

func TestTransition_ForceConfirmGeneratesMeetingURL(t *testing.T) {
	f := newFixture()

	updated, appErr := f.lifecycle.Transition(context.Background(), f.requestID, entity.StatusConfirmed, f.admin(),
		&service.TransitionOptions{ForceConfirm: true})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if updated.Status != entity.StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", updated.Status)
	}
	if !updated.ForceConfirmed {
		t.Fatal("force_confirmed flag not set")
	}
	if updated.MeetingURL == nil || !strings.HasPrefix(*updated.MeetingURL, "https://meet.interviewhub.io/") {
		t.Fatalf("meeting url not generated, got %v", updated.MeetingURL)
	}
}

func TestTransition_RescheduleFlagOnNewSlot(t *testing.T) {
	f := newFixture()
	f.assign()

	newTime := "14:00"
	_, appErr := f.lifecycle.Transition(context.Background(), f.requestID, entity.StatusRejected, f.admin(),
		&service.TransitionOptions{NewTime: &newTime})
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if len(f.dispatcher.events) != 1 || !f.dispatcher.events[0].Rescheduled {
		t.Fatal("expected one event with the rescheduled flag set")
	}
}

func TestTransition_ConcurrentChangeConflicts(t *testing.T) {
	f := newFixture()
	f.repo.forceCASMiss = true

	_, appErr := f.lifecycle.Transition(context.Background(), f.requestID, entity.StatusRejected, f.admin(), nil)
	requireCode(t, appErr, errors.ErrConcurrencyConflict)

	details, ok := appErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("expected string map details, got %T", appErr.Details)
	}
	if details["current_status"] != string(entity.StatusPending) {
		t.Fatalf("details missing current status: %v", details)
	}
	if len(f.dispatcher.events) != 0 {
		t.Fatal("conflicting transition must not emit events")
	}
}

func TestTransition_GoneRequestIsNotFound(t *testing.T) {
	f := newFixture()
	f.repo.forceCASMiss = true
	delete(f.repo.requests, f.requestID)

	_, appErr := f.lifecycle.Transition(context.Background(), f.requestID, entity.StatusRejected, f.admin(), nil)
	requireCode(t, appErr, errors.ErrNotFound)
}

// ── completion ──

func TestTransition_InterviewerCompletesConfirmed(t *testing.T) {
	f := newFixture()
	f.assign()
	ctx := context.Background()

	if _, appErr := f.confirmation.ConfirmAsCandidate(ctx, f.requestID, f.candidate()); appErr != nil {
		t.Fatalf("candidate confirm: %v", appErr)
	}
	if _, appErr := f.confirmation.ConfirmAsInterviewer(ctx, f.requestID, f.interviewer()); appErr != nil {
		t.Fatalf("interviewer confirm: %v", appErr)
	}

	updated, appErr := f.lifecycle.Transition(ctx, f.requestID, entity.StatusCompleted, f.interviewer(), nil)
	if appErr != nil {
		t.Fatalf("complete: %v", appErr)
	}
	if updated.Status != entity.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", updated.Status)
	}
}

func TestTransition_UnassignedInterviewerCannotComplete(t *testing.T) {
	f := newFixture()
	f.assign()
	ctx := context.Background()

	if _, appErr := f.confirmation.ConfirmAsCandidate(ctx, f.requestID, f.candidate()); appErr != nil {
		t.Fatalf("candidate confirm: %v", appErr)
	}
	if _, appErr := f.confirmation.ConfirmAsInterviewer(ctx, f.requestID, f.interviewer()); appErr != nil {
		t.Fatalf("interviewer confirm: %v", appErr)
	}

	other := f.interviewer()
	other.ID = f.adminID
	_, appErr := f.lifecycle.Transition(ctx, f.requestID, entity.StatusCompleted, other, nil)
	requireCode(t, appErr, errors.ErrNotAuthorized)
}

func TestTransition_NothingLeavesTerminal(t *testing.T) {
	f := newFixture()
	if _, appErr := f.lifecycle.Transition(context.Background(), f.requestID, entity.StatusCancelled, f.admin(), nil); appErr != nil {
		t.Fatalf("cancel: %v", appErr)
	}
	f.dispatcher.events = nil

	_, appErr := f.lifecycle.Transition(context.Background(), f.requestID, entity.StatusRejected, f.admin(), nil)
	requireCode(t, appErr, errors.ErrInvalidTransition)
	if len(f.dispatcher.events) != 0 {
		t.Fatal("terminal request emitted events")
	}
}
