package service_test

import (
	"context"
	"sync"
	"testing"

	"interviewhub/core/errors"
	"interviewhub/modules/interview/entity"

	"github.com/google/uuid"
)

func TestConfirm_CandidateThenInterviewer(t *testing.T) {
	f := newFixture()
	f.assign()
	ctx := context.Background()

	afterCandidate, appErr := f.confirmation.ConfirmAsCandidate(ctx, f.requestID, f.candidate())
	if appErr != nil {
		t.Fatalf("candidate confirm: %v", appErr)
	}
	if afterCandidate.Status != entity.StatusCandidateConfirmed {
		t.Fatalf("expected CANDIDATE_CONFIRMED, got %s", afterCandidate.Status)
	}
	if afterCandidate.CandidateConfirmedAt == nil {
		t.Fatal("candidate timestamp not recorded")
	}
	if afterCandidate.MeetingURL != nil {
		t.Fatal("meeting url must not exist before full confirmation")
	}

	afterInterviewer, appErr := f.confirmation.ConfirmAsInterviewer(ctx, f.requestID, f.interviewer())
	if appErr != nil {
		t.Fatalf("interviewer confirm: %v", appErr)
	}
	if afterInterviewer.Status != entity.StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", afterInterviewer.Status)
	}
	if afterInterviewer.MeetingURL == nil {
		t.Fatal("meeting url should be generated on promotion")
	}

	if len(f.dispatcher.events) != 2 {
		t.Fatalf("expected two events, got %d", len(f.dispatcher.events))
	}
	if f.dispatcher.events[1].ToStatus != entity.StatusConfirmed {
		t.Fatalf("second event should promote to CONFIRMED, got %s", f.dispatcher.events[1].ToStatus)
	}
}

func TestConfirm_InterviewerThenCandidate(t *testing.T) {
	f := newFixture()
	f.assign()
	ctx := context.Background()

	afterInterviewer, appErr := f.confirmation.ConfirmAsInterviewer(ctx, f.requestID, f.interviewer())
	if appErr != nil {
		t.Fatalf("interviewer confirm: %v", appErr)
	}
	if afterInterviewer.Status != entity.StatusInterviewerConfirmed {
		t.Fatalf("expected INTERVIEWER_CONFIRMED, got %s", afterInterviewer.Status)
	}

	afterCandidate, appErr := f.confirmation.ConfirmAsCandidate(ctx, f.requestID, f.candidate())
	if appErr != nil {
		t.Fatalf("candidate confirm: %v", appErr)
	}
	if afterCandidate.Status != entity.StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", afterCandidate.Status)
	}
}

func TestConfirm_RetryIsNoOp(t *testing.T) {
	f := newFixture()
	f.assign()
	ctx := context.Background()

	if _, appErr := f.confirmation.ConfirmAsCandidate(ctx, f.requestID, f.candidate()); appErr != nil {
		t.Fatalf("first confirm: %v", appErr)
	}
	eventsBefore := len(f.dispatcher.events)

	again, appErr := f.confirmation.ConfirmAsCandidate(ctx, f.requestID, f.candidate())
	if appErr != nil {
		t.Fatalf("retry should be a no-op, got %v", appErr)
	}
	if again.Status != entity.StatusCandidateConfirmed {
		t.Fatalf("retry changed status to %s", again.Status)
	}
	if len(f.dispatcher.events) != eventsBefore {
		t.Fatal("retry must not emit another event")
	}
}

func TestConfirm_RetryAfterFullConfirmation(t *testing.T) {
	f := newFixture()
	f.assign()
	ctx := context.Background()

	if _, appErr := f.confirmation.ConfirmAsCandidate(ctx, f.requestID, f.candidate()); appErr != nil {
		t.Fatalf("candidate confirm: %v", appErr)
	}
	if _, appErr := f.confirmation.ConfirmAsInterviewer(ctx, f.requestID, f.interviewer()); appErr != nil {
		t.Fatalf("interviewer confirm: %v", appErr)
	}
	eventsBefore := len(f.dispatcher.events)

	again, appErr := f.confirmation.ConfirmAsCandidate(ctx, f.requestID, f.candidate())
	if appErr != nil {
		t.Fatalf("retry after CONFIRMED should be a no-op, got %v", appErr)
	}
	if again.Status != entity.StatusConfirmed {
		t.Fatalf("retry changed status to %s", again.Status)
	}
	if len(f.dispatcher.events) != eventsBefore {
		t.Fatal("retry must not emit another event")
	}
}

func TestConfirm_ConcurrentConfirmsPromoteOnce(t *testing.T) {
	// both sides confirm at the same time: the request must end CONFIRMED
	// with exactly one promotion event, never zero and never two
	for i := 0; i < 200; i++ {
		f := newFixture()
		f.assign()
		ctx := context.Background()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, appErr := f.confirmation.ConfirmAsCandidate(ctx, f.requestID, f.candidate()); appErr != nil {
				t.Errorf("candidate confirm: %v", appErr)
			}
		}()
		go func() {
			defer wg.Done()
			if _, appErr := f.confirmation.ConfirmAsInterviewer(ctx, f.requestID, f.interviewer()); appErr != nil {
				t.Errorf("interviewer confirm: %v", appErr)
			}
		}()
		wg.Wait()

		if f.status() != entity.StatusConfirmed {
			t.Fatalf("expected CONFIRMED after both confirms, got %s", f.status())
		}
		promotions := 0
		for _, event := range f.dispatcher.events {
			if event.ToStatus == entity.StatusConfirmed {
				promotions++
			}
		}
		if promotions != 1 {
			t.Fatalf("expected exactly one promotion event, got %d", promotions)
		}
		if f.repo.requests[f.requestID].MeetingURL == nil {
			t.Fatal("meeting url missing after promotion")
		}
	}
}

func TestConfirm_BeforeAssignment(t *testing.T) {
	f := newFixture()

	_, appErr := f.confirmation.ConfirmAsCandidate(context.Background(), f.requestID, f.candidate())
	requireCode(t, appErr, errors.ErrNotAssigned)
}

func TestConfirm_TerminalRequest(t *testing.T) {
	f := newFixture()
	f.assign()
	f.repo.requests[f.requestID].Status = entity.StatusCancelled

	_, appErr := f.confirmation.ConfirmAsCandidate(context.Background(), f.requestID, f.candidate())
	requireCode(t, appErr, errors.ErrAlreadyTerminal)

	details, ok := appErr.Details.(map[string]string)
	if !ok || details["status"] != string(entity.StatusCancelled) {
		t.Fatalf("expected terminal status in details, got %v", appErr.Details)
	}
}

func TestConfirm_UnknownRequest(t *testing.T) {
	f := newFixture()

	_, appErr := f.confirmation.ConfirmAsCandidate(context.Background(), uuid.New(), f.candidate())
	requireCode(t, appErr, errors.ErrNotFound)
}

func TestConfirm_WrongCandidate(t *testing.T) {
	f := newFixture()
	f.assign()

	impostor := f.candidate()
	impostor.ID = uuid.New()
	_, appErr := f.confirmation.ConfirmAsCandidate(context.Background(), f.requestID, impostor)
	requireCode(t, appErr, errors.ErrWrongRole)
}

func TestConfirm_InterviewerRoleRequired(t *testing.T) {
	f := newFixture()
	f.assign()

	// the owning candidate cannot confirm on the interviewer's behalf
	_, appErr := f.confirmation.ConfirmAsInterviewer(context.Background(), f.requestID, f.candidate())
	requireCode(t, appErr, errors.ErrWrongRole)
}

func TestConfirm_UnassignedInterviewer(t *testing.T) {
	f := newFixture()
	f.assign()

	other := f.interviewer()
	other.ID = uuid.New()
	_, appErr := f.confirmation.ConfirmAsInterviewer(context.Background(), f.requestID, other)
	requireCode(t, appErr, errors.ErrWrongRole)
}

func TestConfirm_ForceConfirmedRetry(t *testing.T) {
	f := newFixture()
	f.assign()
	ctx := context.Background()

	f.repo.requests[f.requestID].Status = entity.StatusConfirmed
	f.repo.requests[f.requestID].ForceConfirmed = true

	// neither party has a timestamp, but force-confirm makes retries no-ops
	req, appErr := f.confirmation.ConfirmAsCandidate(ctx, f.requestID, f.candidate())
	if appErr != nil {
		t.Fatalf("unexpected error: %v", appErr)
	}
	if req.Status != entity.StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", req.Status)
	}
}
