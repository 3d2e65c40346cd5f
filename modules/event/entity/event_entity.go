package entity

import (
	"time"

	"github.com/google/uuid"
)

// Event is a schedulable gathering with a fixed attendance capacity.
// Location is an external map link, stored as an opaque URL string.
type Event struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Location    string    `db:"location" json:"location"`
	EventDate   time.Time `db:"event_date" json:"event_date"`
	Capacity    int       `db:"capacity" json:"capacity"`
	ImageURL    *string   `db:"image_url" json:"image_url,omitempty"`
	ShareCode   string    `db:"share_code" json:"share_code"`
	CreatedBy   uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// EventWithAttendance is a list row: the event joined with its live RSVP
// count so list pages do not fan out into per-event count queries.
type EventWithAttendance struct {
	Event
	AttendeeCount int `db:"attendee_count" json:"attendee_count"`
}

// PaginatedEventEntity wraps a page of list rows.
type PaginatedEventEntity struct {
	Items      []EventWithAttendance
	TotalItems int
	PageNumber int
	PageSize   int
}
