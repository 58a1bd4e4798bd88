package entity

import (
	"time"

	"github.com/google/uuid"
)

// InterviewType is the kind of session a candidate requests.
type InterviewType string

const (
	InterviewTypeTechnical  InterviewType = "technical"
	InterviewTypeBehavioral InterviewType = "behavioral"
	InterviewTypeMock       InterviewType = "mock"
)

// ValidInterviewType reports whether t is a known interview type.
func ValidInterviewType(t InterviewType) bool {
	switch t {
	case InterviewTypeTechnical, InterviewTypeBehavioral, InterviewTypeMock:
		return true
	}
	return false
}

// InterviewRequest is a candidate's request for an interview slot. Status is
// mutated only through the lifecycle service.
type InterviewRequest struct {
	ID                     uuid.UUID     `db:"id" json:"id"`
	CandidateID            uuid.UUID     `db:"candidate_id" json:"candidate_id"`
	InterviewType          InterviewType `db:"interview_type" json:"interview_type"`
	ScheduledDate          time.Time     `db:"scheduled_date" json:"scheduled_date"`
	ScheduledTime          string        `db:"scheduled_time" json:"scheduled_time"` // HH:MM
	Status                 Status        `db:"status" json:"status"`
	MeetingURL             *string       `db:"meeting_url" json:"meeting_url,omitempty"`
	AdditionalInfo         *string       `db:"additional_info" json:"additional_info,omitempty"`
	CandidateConfirmedAt   *time.Time    `db:"candidate_confirmed_at" json:"candidate_confirmed_at,omitempty"`
	InterviewerConfirmedAt *time.Time    `db:"interviewer_confirmed_at" json:"interviewer_confirmed_at,omitempty"`
	ForceConfirmed         bool          `db:"force_confirmed" json:"force_confirmed"`
	CreatedAt              time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time     `db:"updated_at" json:"updated_at"`
}

// Assignment links an interviewer to a request. At most one assignment per
// request is active (declined_at and superseded_at both null); declined and
// superseded rows are retained for history.
type Assignment struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	InterviewRequestID uuid.UUID  `db:"interview_request_id" json:"interview_request_id"`
	InterviewerID      uuid.UUID  `db:"interviewer_id" json:"interviewer_id"`
	AssignedAt         time.Time  `db:"assigned_at" json:"assigned_at"`
	DeclinedAt         *time.Time `db:"declined_at" json:"declined_at,omitempty"`
	SupersededAt       *time.Time `db:"superseded_at" json:"superseded_at,omitempty"`
}

// Active reports whether this assignment still binds its interviewer.
func (a *Assignment) Active() bool {
	return a.DeclinedAt == nil && a.SupersededAt == nil
}

// Actor identifies who is performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// ConfirmingParty distinguishes the two sides of mutual confirmation.
type ConfirmingParty string

const (
	PartyCandidate   ConfirmingParty = "candidate"
	PartyInterviewer ConfirmingParty = "interviewer"
)

// LifecycleEvent is emitted once per successful status transition and fanned
// out by the notification dispatcher.
type LifecycleEvent struct {
	RequestID     uuid.UUID  `json:"request_id"`
	CandidateID   uuid.UUID  `json:"candidate_id"`
	InterviewerID *uuid.UUID `json:"interviewer_id,omitempty"`
	FromStatus    Status     `json:"from_status"`
	ToStatus      Status     `json:"to_status"`
	ActorID       uuid.UUID  `json:"actor_id"`
	ActorRole     string     `json:"actor_role"`
	Rescheduled   bool       `json:"rescheduled,omitempty"`
	// PrevInterviewerID is set on reassignment so the superseded interviewer
	// is also notified.
	PrevInterviewerID *uuid.UUID `json:"prev_interviewer_id,omitempty"`
	OccurredAt        time.Time  `json:"occurred_at"`
}
