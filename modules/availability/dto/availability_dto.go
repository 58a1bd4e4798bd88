package dto

import (
	"time"

	"interviewhub/modules/availability/entity"

	"github.com/google/uuid"
)

// CreateSlotRequest declares a new availability window. Recurring slots use
// DayOfWeek; one-off slots use SpecificDate (YYYY-MM-DD).
type CreateSlotRequest struct {
	DayOfWeek    int    `json:"day_of_week"`
	SpecificDate string `json:"specific_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	IsRecurring  bool   `json:"is_recurring"`
}

type SlotResponse struct {
	ID            uuid.UUID  `json:"id"`
	InterviewerID uuid.UUID  `json:"interviewer_id"`
	DayOfWeek     int        `json:"day_of_week"`
	SpecificDate  *time.Time `json:"specific_date,omitempty"`
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	IsRecurring   bool       `json:"is_recurring"`
	CreatedAt     time.Time  `json:"created_at"`
}

func ToSlotResponse(slot *entity.AvailabilitySlot) *SlotResponse {
	if slot == nil {
		return nil
	}
	return &SlotResponse{
		ID:            slot.ID,
		InterviewerID: slot.InterviewerID,
		DayOfWeek:     slot.DayOfWeek,
		SpecificDate:  slot.SpecificDate,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
		IsRecurring:   slot.IsRecurring,
		CreatedAt:     slot.CreatedAt,
	}
}
