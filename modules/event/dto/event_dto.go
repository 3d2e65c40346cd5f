package dto

import (
	"io"
	"time"

	"github.com/legacy-sukawarna/rsvp-app/modules/event/entity"
	rsvpdto "github.com/legacy-sukawarna/rsvp-app/modules/rsvp/dto"
	rsvpentity "github.com/legacy-sukawarna/rsvp-app/modules/rsvp/entity"
)

// ===================== Request DTOs =====================

// CreateEventRequest carries the multipart form fields for a new event.
type CreateEventRequest struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description"`
	Location    string `form:"location" validate:"required,url"`
	EventDate   string `form:"event_date" validate:"required"` // RFC3339
	Capacity    int    `form:"capacity" validate:"required,min=1"`
}

// UpdateEventRequest carries partial updates; zero values mean "unchanged".
type UpdateEventRequest struct {
	Title       string  `form:"title"`
	Description *string `form:"description"`
	Location    string  `form:"location"`
	EventDate   string  `form:"event_date"`
	Capacity    int     `form:"capacity"`
	RemoveImage bool    `form:"remove_image"`
}

// ImageUpload is an optional image attached to a create/update request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ===================== Response DTOs =====================

type EventResponse struct {
	ID          string                     `json:"id"`
	Title       string                     `json:"title"`
	Description string                     `json:"description,omitempty"`
	Location    string                     `json:"location"`
	EventDate   time.Time                  `json:"event_date"`
	Capacity    int                        `json:"capacity"`
	ImageURL    string                     `json:"image_url,omitempty"`
	ShareCode   string                     `json:"share_code"`
	CreatedBy   string                     `json:"created_by"`
	CreatedAt   time.Time                  `json:"created_at"`
	Attendance  rsvpdto.AttendanceResponse `json:"attendance"`
}

type EventDetailResponse struct {
	EventResponse
	Attendees []rsvpdto.AttendeeResponse `json:"attendees"`
}

type EventListResponse struct {
	Items      []EventResponse `json:"items"`
	TotalItems int             `json:"total_items"`
	PageNumber int             `json:"page_number"`
	PageSize   int             `json:"page_size"`
}

func ToEventResponse(e *entity.Event, attendance rsvpdto.AttendanceResponse) *EventResponse {
	resp := &EventResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		EventDate:   e.EventDate,
		Capacity:    e.Capacity,
		ShareCode:   e.ShareCode,
		CreatedBy:   e.CreatedBy.String(),
		CreatedAt:   e.CreatedAt,
		Attendance:  attendance,
	}
	if e.ImageURL != nil {
		resp.ImageURL = *e.ImageURL
	}
	return resp
}

func ToEventListResponse(page *entity.PaginatedEventEntity) *EventListResponse {
	items := make([]EventResponse, 0, len(page.Items))
	for i := range page.Items {
		row := &page.Items[i]
		attendance := rsvpentity.NewAttendance(row.Capacity, row.AttendeeCount)
		items = append(items, *ToEventResponse(&row.Event, *rsvpdto.ToAttendanceResponse(&attendance)))
	}
	return &EventListResponse{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}
