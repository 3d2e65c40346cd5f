package service

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/legacy-sukawarna/rsvp-app/core/constants"
	"github.com/legacy-sukawarna/rsvp-app/core/errors"
	"github.com/legacy-sukawarna/rsvp-app/core/logger"
	"github.com/legacy-sukawarna/rsvp-app/core/params"
	"github.com/legacy-sukawarna/rsvp-app/core/storage"
	"github.com/legacy-sukawarna/rsvp-app/core/tasks"
	"github.com/legacy-sukawarna/rsvp-app/core/utils"
	"github.com/legacy-sukawarna/rsvp-app/modules/event/dto"
	"github.com/legacy-sukawarna/rsvp-app/modules/event/entity"
	"github.com/legacy-sukawarna/rsvp-app/modules/event/repository"
	rsvpdto "github.com/legacy-sukawarna/rsvp-app/modules/rsvp/dto"
	rsvpservice "github.com/legacy-sukawarna/rsvp-app/modules/rsvp/service"
)

// EventService handles event business logic. Capacity changes and deletes
// are delegated to the rsvp service, which owns the attendance invariant.
type EventService struct {
	repo     repository.EventRepositoryInterface
	rsvpSvc  rsvpservice.RSVPServiceInterface
	storage  storage.Storage
	enqueuer tasks.Enqueuer
}

// EventServiceInterface defines the service contract
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, ownerID uuid.UUID, req *dto.CreateEventRequest, image *dto.ImageUpload) (*dto.EventResponse, *errors.AppError)
	GetEvent(ctx context.Context, id uuid.UUID) (*dto.EventDetailResponse, *errors.AppError)
	GetEventByShareCode(ctx context.Context, code string) (*dto.EventDetailResponse, *errors.AppError)
	ListUpcoming(ctx context.Context, p params.QueryParams) (*dto.EventListResponse, *errors.AppError)
	ListMine(ctx context.Context, ownerID uuid.UUID, p params.QueryParams) (*dto.EventListResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, eventID uuid.UUID, requesterID uuid.UUID, req *dto.UpdateEventRequest, image *dto.ImageUpload) (*dto.EventDetailResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, eventID uuid.UUID, requesterID uuid.UUID) *errors.AppError
}

func NewEventService(repo repository.EventRepositoryInterface, rsvpSvc rsvpservice.RSVPServiceInterface, store storage.Storage, enqueuer tasks.Enqueuer) EventServiceInterface {
	return &EventService{
		repo:     repo,
		rsvpSvc:  rsvpSvc,
		storage:  store,
		enqueuer: enqueuer,
	}
}

// CreateEvent validates the form, uploads the optional image and inserts
// the event.
func (s *EventService) CreateEvent(ctx context.Context, ownerID uuid.UUID, req *dto.CreateEventRequest, image *dto.ImageUpload) (*dto.EventResponse, *errors.AppError) {
	if appErr := validateTitle(req.Title); appErr != nil {
		return nil, appErr
	}
	if appErr := validateLocation(req.Location); appErr != nil {
		return nil, appErr
	}
	if req.Capacity < 1 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Capacity must be at least 1", nil)
	}
	eventDate, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "event_date must be RFC3339", err)
	}

	shareCode := utils.GenerateShareCode()
	if shareCode == "" {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate share code", nil)
	}

	var imageURL *string
	if image != nil {
		uploaded, appErr := s.uploadImage(ctx, req.Title, shareCode, image)
		if appErr != nil {
			return nil, appErr
		}
		imageURL = &uploaded
	}

	event := &entity.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Location:    req.Location,
		EventDate:   eventDate,
		Capacity:    req.Capacity,
		ImageURL:    imageURL,
		ShareCode:   shareCode,
		CreatedBy:   ownerID,
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "Failed to create event", err)
	}

	logger.Info("EventService:CreateEvent:Success", "event_id", created.ID, "owner_id", ownerID)

	attendance := rsvpdto.AttendanceResponse{
		AttendeeCount: 0,
		SpotsLeft:     created.Capacity,
		IsFull:        false,
	}
	return dto.ToEventResponse(created, attendance), nil
}

func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*dto.EventDetailResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	return s.buildDetail(ctx, event)
}

func (s *EventService) GetEventByShareCode(ctx context.Context, code string) (*dto.EventDetailResponse, *errors.AppError) {
	event, err := s.repo.GetEventByShareCode(ctx, code)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	return s.buildDetail(ctx, event)
}

func (s *EventService) buildDetail(ctx context.Context, event *entity.Event) (*dto.EventDetailResponse, *errors.AppError) {
	attendance, appErr := s.rsvpSvc.GetAttendance(ctx, event.ID)
	if appErr != nil {
		return nil, appErr
	}
	attendees, appErr := s.rsvpSvc.ListAttendees(ctx, event.ID)
	if appErr != nil {
		return nil, appErr
	}

	return &dto.EventDetailResponse{
		EventResponse: *dto.ToEventResponse(event, *attendance),
		Attendees:     attendees,
	}, nil
}

func (s *EventService) ListUpcoming(ctx context.Context, p params.QueryParams) (*dto.EventListResponse, *errors.AppError) {
	page, err := s.repo.ListUpcoming(ctx, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "Failed to list events", err)
	}
	return dto.ToEventListResponse(page), nil
}

func (s *EventService) ListMine(ctx context.Context, ownerID uuid.UUID, p params.QueryParams) (*dto.EventListResponse, *errors.AppError) {
	page, err := s.repo.ListByOwner(ctx, ownerID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "Failed to list events", err)
	}
	return dto.ToEventListResponse(page), nil
}

// UpdateEvent applies a partial owner-only update. Descriptive fields go
// straight to the events table; a capacity change runs through the rsvp
// service so it is re-validated against live attendance.
func (s *EventService) UpdateEvent(ctx context.Context, eventID uuid.UUID, requesterID uuid.UUID, req *dto.UpdateEventRequest, image *dto.ImageUpload) (*dto.EventDetailResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if event.CreatedBy != requesterID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the event owner can edit this event", nil)
	}

	if req.Title != "" {
		if appErr := validateTitle(req.Title); appErr != nil {
			return nil, appErr
		}
		event.Title = strings.TrimSpace(req.Title)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != "" {
		if appErr := validateLocation(req.Location); appErr != nil {
			return nil, appErr
		}
		event.Location = req.Location
	}
	if req.EventDate != "" {
		eventDate, err := time.Parse(time.RFC3339, req.EventDate)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "event_date must be RFC3339", err)
		}
		event.EventDate = eventDate
	}

	oldImageURL := event.ImageURL
	replacedImage := false
	if image != nil {
		uploaded, appErr := s.uploadImage(ctx, event.Title, event.ShareCode, image)
		if appErr != nil {
			return nil, appErr
		}
		event.ImageURL = &uploaded
		replacedImage = oldImageURL != nil && *oldImageURL != uploaded
	} else if req.RemoveImage && event.ImageURL != nil {
		event.ImageURL = nil
		replacedImage = true
	}

	// Capacity first: if the new value is below live attendance the whole
	// update is rejected before any descriptive field is written.
	if req.Capacity > 0 && req.Capacity != event.Capacity {
		if appErr := s.rsvpSvc.UpdateCapacity(ctx, eventID, req.Capacity, requesterID); appErr != nil {
			return nil, appErr
		}
		event.Capacity = req.Capacity
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "Failed to update event", err)
	}

	if replacedImage && oldImageURL != nil {
		s.enqueueImageCleanup(*oldImageURL)
	}

	logger.Info("EventService:UpdateEvent:Success", "event_id", eventID)
	return s.GetEvent(ctx, eventID)
}

// DeleteEvent removes the event and every RSVP referencing it, then hands
// the orphaned image to the background worker.
func (s *EventService) DeleteEvent(ctx context.Context, eventID uuid.UUID, requesterID uuid.UUID) *errors.AppError {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "Failed to get event", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if event.CreatedBy != requesterID {
		return errors.NewAppError(errors.ErrForbidden, "Only the event owner can delete this event", nil)
	}

	if appErr := s.rsvpSvc.DeleteEventCascade(ctx, eventID); appErr != nil {
		return appErr
	}

	if event.ImageURL != nil {
		s.enqueueImageCleanup(*event.ImageURL)
	}

	logger.Info("EventService:DeleteEvent:Success", "event_id", eventID, "owner_id", requesterID)
	return nil
}

func (s *EventService) uploadImage(ctx context.Context, title string, shareCode string, image *dto.ImageUpload) (string, *errors.AppError) {
	if image.Size > constants.MaxImageSizeBytes {
		return "", errors.NewAppError(errors.ErrInvalidInput, "Image is too large", nil)
	}

	key := fmt.Sprintf("%s%s-%s%s",
		constants.S3KeyPrefixEvents, slug.Make(title), shareCode, strings.ToLower(filepath.Ext(image.Filename)))

	url, err := s.storage.Upload(ctx, key, image.ContentType, image.Body)
	if err != nil {
		return "", errors.NewAppError(errors.ErrStoreUnavailable, "Failed to upload image", err)
	}
	return url, nil
}

// enqueueImageCleanup is best effort; a failed enqueue leaves a stray blob,
// never an inconsistent event.
func (s *EventService) enqueueImageCleanup(imageURL string) {
	task, err := tasks.NewImageCleanupTask(imageURL)
	if err != nil {
		logger.Error("EventService:EnqueueImageCleanup:BuildTask:Error:", err)
		return
	}
	if _, err := s.enqueuer.Enqueue(task); err != nil {
		logger.Error("EventService:EnqueueImageCleanup:Enqueue:Error:", err)
	}
}

func validateTitle(title string) *errors.AppError {
	if strings.TrimSpace(title) == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}
	return nil
}

func validateLocation(location string) *errors.AppError {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "Location must be a valid URL", nil)
	}
	return nil
}
