package dto

import (
	"time"

	"interviewhub/modules/interview/entity"
)

// ===================== Request DTOs =====================

// CreateInterviewRequest for a candidate requesting a slot
type CreateInterviewRequest struct {
	InterviewType  string `json:"interview_type" validate:"required,oneof=technical behavioral mock"`
	ScheduledDate  string `json:"scheduled_date" validate:"required"` // YYYY-MM-DD
	ScheduledTime  string `json:"scheduled_time" validate:"required"` // HH:MM
	AdditionalInfo string `json:"additional_info"`
}

// UpdateInterviewRequest for candidate edits while still pending
type UpdateInterviewRequest struct {
	InterviewType  string `json:"interview_type"`
	ScheduledDate  string `json:"scheduled_date"`
	ScheduledTime  string `json:"scheduled_time"`
	AdditionalInfo string `json:"additional_info"`
}

// TransitionRequest for the admin patch endpoint: any combination of a
// status change, an interviewer assignment, a reschedule and a meeting URL.
type TransitionRequest struct {
	Status        string `json:"status"`
	InterviewerID string `json:"interviewer_id"`
	ScheduledDate string `json:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time"`
	MeetingURL    string `json:"meeting_url"`
	ForceConfirm  bool   `json:"force_confirm"`
}

// ===================== Response DTOs =====================

// AssignmentResponse for the active assignment on a request
type AssignmentResponse struct {
	ID            string     `json:"id"`
	InterviewerID string     `json:"interviewer_id"`
	AssignedAt    time.Time  `json:"assigned_at"`
	DeclinedAt    *time.Time `json:"declined_at,omitempty"`
	SupersededAt  *time.Time `json:"superseded_at,omitempty"`
}

// InterviewResponse for interview request details
type InterviewResponse struct {
	ID                     string              `json:"id"`
	CandidateID            string              `json:"candidate_id"`
	InterviewType          string              `json:"interview_type"`
	ScheduledDate          string              `json:"scheduled_date"`
	ScheduledTime          string              `json:"scheduled_time"`
	Status                 string              `json:"status"`
	MeetingURL             string              `json:"meeting_url,omitempty"`
	AdditionalInfo         string              `json:"additional_info,omitempty"`
	CandidateConfirmedAt   *time.Time          `json:"candidate_confirmed_at,omitempty"`
	InterviewerConfirmedAt *time.Time          `json:"interviewer_confirmed_at,omitempty"`
	ForceConfirmed         bool                `json:"force_confirmed,omitempty"`
	Assignment             *AssignmentResponse `json:"assignment,omitempty"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
}

// PermittedActionsResponse lists the statuses the caller may move a request to
type PermittedActionsResponse struct {
	Status  string   `json:"status"`
	Targets []string `json:"targets"`
}

// PaginatedInterviewResponse for the admin listing
type PaginatedInterviewResponse struct {
	Items      []InterviewResponse `json:"items"`
	TotalItems int                 `json:"total_items"`
	PageNumber int                 `json:"page_number"`
	PageSize   int                 `json:"page_size"`
}

// ===================== Mapper Functions =====================

// ToInterviewResponse maps entity to DTO
func ToInterviewResponse(r *entity.InterviewRequest, assignment *entity.Assignment) *InterviewResponse {
	resp := &InterviewResponse{
		ID:                     r.ID.String(),
		CandidateID:            r.CandidateID.String(),
		InterviewType:          string(r.InterviewType),
		ScheduledDate:          r.ScheduledDate.Format("2006-01-02"),
		ScheduledTime:          r.ScheduledTime,
		Status:                 string(r.Status),
		CandidateConfirmedAt:   r.CandidateConfirmedAt,
		InterviewerConfirmedAt: r.InterviewerConfirmedAt,
		ForceConfirmed:         r.ForceConfirmed,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}

	if r.MeetingURL != nil {
		resp.MeetingURL = *r.MeetingURL
	}
	if r.AdditionalInfo != nil {
		resp.AdditionalInfo = *r.AdditionalInfo
	}
	if assignment != nil {
		resp.Assignment = &AssignmentResponse{
			ID:            assignment.ID.String(),
			InterviewerID: assignment.InterviewerID.String(),
			AssignedAt:    assignment.AssignedAt,
			DeclinedAt:    assignment.DeclinedAt,
			SupersededAt:  assignment.SupersededAt,
		}
	}

	return resp
}

// ToPermittedActionsResponse maps the allowed targets for a status
func ToPermittedActionsResponse(status entity.Status, targets []entity.Status) *PermittedActionsResponse {
	resp := &PermittedActionsResponse{
		Status:  string(status),
		Targets: make([]string, 0, len(targets)),
	}
	for _, t := range targets {
		resp.Targets = append(resp.Targets, string(t))
	}
	return resp
}
