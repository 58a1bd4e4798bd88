// Status graph for an interview request:
//
//	PENDING ──► INTERVIEWER_ASSIGNED ──► {CANDIDATE_CONFIRMED, INTERVIEWER_CONFIRMED} ──► CONFIRMED ──► COMPLETED
//	   │                 │
//	   └─────────────────┴──► REJECTED / CANCELLED
//
// COMPLETED, REJECTED and CANCELLED are terminal. RESCHEDULED is a transient
// marker carried on events when a date/time change accompanies a transition;
// it never appears as a stored status.
package entity

import (
	"fmt"

	"interviewhub/core/constants"
)

type Status string

const (
	StatusPending              Status = "PENDING"
	StatusInterviewerAssigned  Status = "INTERVIEWER_ASSIGNED"
	StatusCandidateConfirmed   Status = "CANDIDATE_CONFIRMED"
	StatusInterviewerConfirmed Status = "INTERVIEWER_CONFIRMED"
	StatusConfirmed            Status = "CONFIRMED"
	StatusCompleted            Status = "COMPLETED"
	StatusRejected             Status = "REJECTED"
	StatusCancelled            Status = "CANCELLED"
	StatusRescheduled          Status = "RESCHEDULED"
)

var allStatuses = []Status{
	StatusPending, StatusInterviewerAssigned, StatusCandidateConfirmed,
	StatusInterviewerConfirmed, StatusConfirmed, StatusCompleted,
	StatusRejected, StatusCancelled, StatusRescheduled,
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	for _, known := range allStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown interview status %q", s)
}

// IsTerminal reports whether no further transition is legal from s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

type transitionKey struct {
	from Status
	to   Status
}

// transitionRoles lists, for every legal (from → to) pair, the roles allowed
// to trigger it. constants.RoleSystem marks promotions triggered internally
// by mutual confirmation.
var transitionRoles = map[transitionKey][]string{
	{StatusPending, StatusInterviewerAssigned}: {constants.RoleAdmin},
	{StatusPending, StatusRejected}:            {constants.RoleAdmin},
	// force-confirm bypasses mutual confirmation
	{StatusPending, StatusConfirmed}: {constants.RoleAdmin},

	// reassignment keeps the request in INTERVIEWER_ASSIGNED
	{StatusInterviewerAssigned, StatusInterviewerAssigned}:  {constants.RoleAdmin},
	{StatusInterviewerAssigned, StatusCandidateConfirmed}:   {constants.RoleCandidate},
	{StatusInterviewerAssigned, StatusInterviewerConfirmed}: {constants.RoleInterviewer},
	// interviewer decline sends the request back to the unassigned pool
	{StatusInterviewerAssigned, StatusPending}:  {constants.RoleInterviewer},
	{StatusInterviewerAssigned, StatusRejected}: {constants.RoleAdmin},

	{StatusCandidateConfirmed, StatusConfirmed}:   {constants.RoleSystem},
	{StatusInterviewerConfirmed, StatusConfirmed}: {constants.RoleSystem},

	{StatusConfirmed, StatusCompleted}: {constants.RoleAdmin, constants.RoleInterviewer},

	// any non-terminal status may be cancelled by the owning candidate or
	// an admin; ownership is checked by the service layer
	{StatusPending, StatusCancelled}:              {constants.RoleCandidate, constants.RoleAdmin},
	{StatusInterviewerAssigned, StatusCancelled}:  {constants.RoleCandidate, constants.RoleAdmin},
	{StatusCandidateConfirmed, StatusCancelled}:   {constants.RoleCandidate, constants.RoleAdmin},
	{StatusInterviewerConfirmed, StatusCancelled}: {constants.RoleCandidate, constants.RoleAdmin},
	{StatusConfirmed, StatusCancelled}:            {constants.RoleCandidate, constants.RoleAdmin},
}

// IsTransitionAllowed reports whether moving from → to is legal for the
// given role.
func IsTransitionAllowed(from, to Status, role string) bool {
	roles, ok := transitionRoles[transitionKey{from, to}]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsTransitionDefined reports whether the (from → to) pair exists in the
// table for any role.
func IsTransitionDefined(from, to Status) bool {
	_, ok := transitionRoles[transitionKey{from, to}]
	return ok
}

// AllowedTargets returns every status the given role may move a request to
// from the current status. UI "what can I do from here" derives from this
// instead of re-deriving status rules client-side.
func AllowedTargets(from Status, role string) []Status {
	var targets []Status
	for key, roles := range transitionRoles {
		if key.from != from {
			continue
		}
		for _, r := range roles {
			if r == role {
				targets = append(targets, key.to)
				break
			}
		}
	}
	return targets
}
