package dto

import (
	"time"

	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp/entity"
)

// RSVPResponse is returned on registration and "my rsvp" lookups; the
// caller keeps the id around to drive cancellation.
type RSVPResponse struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	AttendeeName string    `json:"attendee_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// AttendeeResponse is one row of the public attendee list.
type AttendeeResponse struct {
	AttendeeName string    `json:"attendee_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// AttendanceResponse mirrors entity.Attendance on the wire.
type AttendanceResponse struct {
	AttendeeCount int  `json:"attendee_count"`
	SpotsLeft     int  `json:"spots_left"`
	IsFull        bool `json:"is_full"`
}

func ToRSVPResponse(rsvp *entity.RSVP) *RSVPResponse {
	resp := &RSVPResponse{
		ID:           rsvp.ID.String(),
		EventID:      rsvp.EventID.String(),
		AttendeeName: rsvp.AttendeeName,
		CreatedAt:    rsvp.CreatedAt,
	}
	if rsvp.AvatarURL != nil {
		resp.AvatarURL = *rsvp.AvatarURL
	}
	return resp
}

func ToAttendeeResponses(rsvps []entity.RSVP) []AttendeeResponse {
	result := make([]AttendeeResponse, 0, len(rsvps))
	for _, r := range rsvps {
		resp := AttendeeResponse{
			AttendeeName: r.AttendeeName,
			CreatedAt:    r.CreatedAt,
		}
		if r.AvatarURL != nil {
			resp.AvatarURL = *r.AvatarURL
		}
		result = append(result, resp)
	}
	return result
}

func ToAttendanceResponse(a *entity.Attendance) *AttendanceResponse {
	return &AttendanceResponse{
		AttendeeCount: a.AttendeeCount,
		SpotsLeft:     a.SpotsLeft,
		IsFull:        a.IsFull,
	}
}
