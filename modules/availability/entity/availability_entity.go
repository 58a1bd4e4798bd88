package entity

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilitySlot is a window in which an interviewer can take interviews:
// either a weekly recurring window (DayOfWeek) or a one-off window
// (SpecificDate).
type AvailabilitySlot struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	InterviewerID uuid.UUID  `db:"interviewer_id" json:"interviewer_id"`
	DayOfWeek     int        `db:"day_of_week" json:"day_of_week"` // 0 = Sunday
	SpecificDate  *time.Time `db:"specific_date" json:"specific_date,omitempty"`
	StartTime     string     `db:"start_time" json:"start_time"` // HH:MM
	EndTime       string     `db:"end_time" json:"end_time"`     // HH:MM
	IsRecurring   bool       `db:"is_recurring" json:"is_recurring"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Covers reports whether the slot covers the given date and time of day.
// Times are HH:MM strings, which compare correctly lexicographically.
func (s *AvailabilitySlot) Covers(date time.Time, timeOfDay string) bool {
	if timeOfDay < s.StartTime || timeOfDay >= s.EndTime {
		return false
	}
	if s.IsRecurring {
		return int(date.Weekday()) == s.DayOfWeek
	}
	if s.SpecificDate == nil {
		return false
	}
	y1, m1, d1 := s.SpecificDate.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
