package entity

import (
	"time"

	"github.com/google/uuid"
)

// RSVP is one user's registration of attendance for one event.
type RSVP struct {
	ID           uuid.UUID `db:"id" json:"id"`
	EventID      uuid.UUID `db:"event_id" json:"event_id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	AttendeeName string    `db:"attendee_name" json:"attendee_name"`
	AvatarURL    *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Attendance is derived from live rsvp rows, never stored.
type Attendance struct {
	AttendeeCount int  `json:"attendee_count"`
	SpotsLeft     int  `json:"spots_left"`
	IsFull        bool `json:"is_full"`
}

func NewAttendance(capacity int, attendeeCount int) Attendance {
	spotsLeft := capacity - attendeeCount
	return Attendance{
		AttendeeCount: attendeeCount,
		SpotsLeft:     spotsLeft,
		IsFull:        spotsLeft <= 0,
	}
}
