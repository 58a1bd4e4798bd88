package entity_test

import (
	"testing"

	"interviewhub/core/constants"
	"interviewhub/modules/interview/entity"
)

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{
		"PENDING", "INTERVIEWER_ASSIGNED", "CANDIDATE_CONFIRMED",
		"INTERVIEWER_CONFIRMED", "CONFIRMED", "COMPLETED",
		"REJECTED", "CANCELLED", "RESCHEDULED",
	}
	for _, s := range valid {
		got, err := entity.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_InvalidValue(t *testing.T) {
	for _, s := range []string{"UNKNOWN", "", "pending", "Confirmed"} {
		if _, err := entity.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

// ── IsTerminal ─────────────────────────────────────────────────────────────

func TestIsTerminal(t *testing.T) {
	terminals := []entity.Status{
		entity.StatusCompleted, entity.StatusRejected, entity.StatusCancelled,
	}
	for _, s := range terminals {
		if !s.IsTerminal() {
			t.Errorf("IsTerminal(%s) should return true", s)
		}
	}

	nonTerminals := []entity.Status{
		entity.StatusPending, entity.StatusInterviewerAssigned,
		entity.StatusCandidateConfirmed, entity.StatusInterviewerConfirmed,
		entity.StatusConfirmed,
	}
	for _, s := range nonTerminals {
		if s.IsTerminal() {
			t.Errorf("IsTerminal(%s) should return false", s)
		}
	}
}

// ── IsTransitionAllowed — the happy path through the lifecycle ────────────

func TestIsTransitionAllowed_HappyPath(t *testing.T) {
	cases := []struct {
		from entity.Status
		to   entity.Status
		role string
	}{
		{entity.StatusPending, entity.StatusInterviewerAssigned, constants.RoleAdmin},
		{entity.StatusInterviewerAssigned, entity.StatusCandidateConfirmed, constants.RoleCandidate},
		{entity.StatusInterviewerAssigned, entity.StatusInterviewerConfirmed, constants.RoleInterviewer},
		{entity.StatusCandidateConfirmed, entity.StatusConfirmed, constants.RoleSystem},
		{entity.StatusInterviewerConfirmed, entity.StatusConfirmed, constants.RoleSystem},
		{entity.StatusConfirmed, entity.StatusCompleted, constants.RoleAdmin},
		{entity.StatusConfirmed, entity.StatusCompleted, constants.RoleInterviewer},
	}
	for _, c := range cases {
		if !entity.IsTransitionAllowed(c.from, c.to, c.role) {
			t.Errorf("IsTransitionAllowed(%s → %s, %s) should be true", c.from, c.to, c.role)
		}
	}
}

func TestIsTransitionAllowed_RoleMatters(t *testing.T) {
	cases := []struct {
		from entity.Status
		to   entity.Status
		role string
	}{
		// only admins assign
		{entity.StatusPending, entity.StatusInterviewerAssigned, constants.RoleCandidate},
		{entity.StatusPending, entity.StatusInterviewerAssigned, constants.RoleInterviewer},
		// candidates cannot confirm for the interviewer and vice versa
		{entity.StatusInterviewerAssigned, entity.StatusInterviewerConfirmed, constants.RoleCandidate},
		{entity.StatusInterviewerAssigned, entity.StatusCandidateConfirmed, constants.RoleInterviewer},
		// promotion to CONFIRMED is system-internal
		{entity.StatusCandidateConfirmed, entity.StatusConfirmed, constants.RoleCandidate},
		{entity.StatusInterviewerConfirmed, entity.StatusConfirmed, constants.RoleInterviewer},
		// candidates never complete interviews
		{entity.StatusConfirmed, entity.StatusCompleted, constants.RoleCandidate},
	}
	for _, c := range cases {
		if entity.IsTransitionAllowed(c.from, c.to, c.role) {
			t.Errorf("IsTransitionAllowed(%s → %s, %s) should be false", c.from, c.to, c.role)
		}
	}
}

func TestIsTransitionAllowed_UndefinedPairs(t *testing.T) {
	cases := []struct {
		from entity.Status
		to   entity.Status
	}{
		{entity.StatusPending, entity.StatusCompleted},
		{entity.StatusPending, entity.StatusCandidateConfirmed},
		{entity.StatusInterviewerAssigned, entity.StatusCompleted},
		{entity.StatusCandidateConfirmed, entity.StatusInterviewerAssigned},
		{entity.StatusConfirmed, entity.StatusPending},
	}
	for _, c := range cases {
		if entity.IsTransitionDefined(c.from, c.to) {
			t.Errorf("IsTransitionDefined(%s → %s) should be false", c.from, c.to)
		}
		for _, role := range []string{constants.RoleCandidate, constants.RoleInterviewer, constants.RoleAdmin, constants.RoleSystem} {
			if entity.IsTransitionAllowed(c.from, c.to, role) {
				t.Errorf("IsTransitionAllowed(%s → %s, %s) should be false", c.from, c.to, role)
			}
		}
	}
}

func TestIsTransitionAllowed_NothingLeavesTerminals(t *testing.T) {
	terminals := []entity.Status{
		entity.StatusCompleted, entity.StatusRejected, entity.StatusCancelled,
	}
	all := []entity.Status{
		entity.StatusPending, entity.StatusInterviewerAssigned,
		entity.StatusCandidateConfirmed, entity.StatusInterviewerConfirmed,
		entity.StatusConfirmed, entity.StatusCompleted,
		entity.StatusRejected, entity.StatusCancelled,
	}
	for _, from := range terminals {
		for _, to := range all {
			if entity.IsTransitionDefined(from, to) {
				t.Errorf("IsTransitionDefined(%s → %s): terminal statuses must have no exits", from, to)
			}
		}
	}
}

func TestIsTransitionAllowed_CancelFromEveryNonTerminal(t *testing.T) {
	nonTerminals := []entity.Status{
		entity.StatusPending, entity.StatusInterviewerAssigned,
		entity.StatusCandidateConfirmed, entity.StatusInterviewerConfirmed,
		entity.StatusConfirmed,
	}
	for _, from := range nonTerminals {
		if !entity.IsTransitionAllowed(from, entity.StatusCancelled, constants.RoleCandidate) {
			t.Errorf("candidate should be able to cancel from %s", from)
		}
		if !entity.IsTransitionAllowed(from, entity.StatusCancelled, constants.RoleAdmin) {
			t.Errorf("admin should be able to cancel from %s", from)
		}
		if entity.IsTransitionAllowed(from, entity.StatusCancelled, constants.RoleInterviewer) {
			t.Errorf("interviewer should not be able to cancel from %s", from)
		}
	}
}

func TestIsTransitionAllowed_Reassignment(t *testing.T) {
	if !entity.IsTransitionAllowed(entity.StatusInterviewerAssigned, entity.StatusInterviewerAssigned, constants.RoleAdmin) {
		t.Error("admin should be able to reassign while INTERVIEWER_ASSIGNED")
	}
	if entity.IsTransitionAllowed(entity.StatusPending, entity.StatusPending, constants.RoleAdmin) {
		t.Error("PENDING → PENDING should not be defined")
	}
}

// ── AllowedTargets ─────────────────────────────────────────────────────────

func TestAllowedTargets_CandidateOnAssigned(t *testing.T) {
	targets := entity.AllowedTargets(entity.StatusInterviewerAssigned, constants.RoleCandidate)

	want := map[entity.Status]bool{
		entity.StatusCandidateConfirmed: true,
		entity.StatusCancelled:          true,
	}
	if len(targets) != len(want) {
		t.Fatalf("AllowedTargets = %v, want %v targets", targets, len(want))
	}
	for _, got := range targets {
		if !want[got] {
			t.Errorf("AllowedTargets contains unexpected target %s", got)
		}
	}
}

func TestAllowedTargets_TerminalHasNone(t *testing.T) {
	for _, role := range []string{constants.RoleCandidate, constants.RoleInterviewer, constants.RoleAdmin} {
		if targets := entity.AllowedTargets(entity.StatusCompleted, role); len(targets) != 0 {
			t.Errorf("AllowedTargets(COMPLETED, %s) = %v, want none", role, targets)
		}
	}
}
