package service

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"

	"github.com/legacy-sukawarna/rsvp-app/core/errors"
	"github.com/legacy-sukawarna/rsvp-app/core/logger"
	authservice "github.com/legacy-sukawarna/rsvp-app/modules/auth/service"
	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp/dto"
	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp/entity"
	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp/repository"
)

const anonymousName = "Anonymous"

// RSVPService mediates every state transition that can touch the capacity
// invariant: register, cancel, capacity change, event cascade delete.
type RSVPService struct {
	repo        repository.RSVPRepositoryInterface
	authService authservice.AuthServiceInterface
}

// RSVPServiceInterface defines the service contract
type RSVPServiceInterface interface {
	GetAttendance(ctx context.Context, eventID uuid.UUID) (*dto.AttendanceResponse, *errors.AppError)
	Register(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*dto.RSVPResponse, *errors.AppError)
	Cancel(ctx context.Context, rsvpID uuid.UUID, userID uuid.UUID) *errors.AppError
	UpdateCapacity(ctx context.Context, eventID uuid.UUID, newCapacity int, requesterID uuid.UUID) *errors.AppError
	DeleteEventCascade(ctx context.Context, eventID uuid.UUID) *errors.AppError
	ListAttendees(ctx context.Context, eventID uuid.UUID) ([]dto.AttendeeResponse, *errors.AppError)
	GetMyRSVP(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*dto.RSVPResponse, *errors.AppError)
}

func NewRSVPService(repo repository.RSVPRepositoryInterface, authService authservice.AuthServiceInterface) RSVPServiceInterface {
	return &RSVPService{
		repo:        repo,
		authService: authService,
	}
}

// GetAttendance returns the live count view for an event.
func (s *RSVPService) GetAttendance(ctx context.Context, eventID uuid.UUID) (*dto.AttendanceResponse, *errors.AppError) {
	attendance, err := s.repo.GetAttendance(ctx, eventID)
	if err != nil {
		if stderrors.Is(err, repository.ErrEventNotFound) {
			return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
		}
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "Failed to get attendance", err)
	}
	return dto.ToAttendanceResponse(attendance), nil
}

// Register creates the caller's RSVP for an event. The full/duplicate
// guards run atomically with the insert in the repository; this layer only
// resolves the attendee's display identity and maps outcomes.
func (s *RSVPService) Register(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*dto.RSVPResponse, *errors.AppError) {
	user, appErr := s.authService.GetUserByID(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	rsvp := &entity.RSVP{
		EventID:      eventID,
		UserID:       userID,
		AttendeeName: attendeeName(user.Username, user.Email),
		AvatarURL:    user.AvatarURL,
	}

	created, err := s.repo.Register(ctx, rsvp)
	if err != nil {
		switch {
		case stderrors.Is(err, repository.ErrEventNotFound):
			return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
		case stderrors.Is(err, repository.ErrEventFull):
			return nil, errors.NewAppError(errors.ErrEventFull, "This event is at full capacity", nil)
		case stderrors.Is(err, repository.ErrDuplicateRSVP):
			return nil, errors.NewAppError(errors.ErrAlreadyRegistered, "You are already registered for this event", nil)
		default:
			return nil, errors.NewAppError(errors.ErrStoreUnavailable, "Failed to register", err)
		}
	}

	logger.Info("RSVPService:Register:Success", "event_id", eventID, "user_id", userID, "rsvp_id", created.ID)
	return dto.ToRSVPResponse(created), nil
}

// Cancel deletes the caller's RSVP. Cancelling an RSVP that is already gone
// succeeds without effect, so retried client actions stay harmless.
func (s *RSVPService) Cancel(ctx context.Context, rsvpID uuid.UUID, userID uuid.UUID) *errors.AppError {
	if err := s.repo.DeleteByIDAndUser(ctx, rsvpID, userID); err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "Failed to cancel RSVP", err)
	}
	logger.Info("RSVPService:Cancel:Done", "rsvp_id", rsvpID, "user_id", userID)
	return nil
}

// UpdateCapacity changes an event's capacity, owner-only, never below the
// live attendee count.
func (s *RSVPService) UpdateCapacity(ctx context.Context, eventID uuid.UUID, newCapacity int, requesterID uuid.UUID) *errors.AppError {
	if newCapacity < 1 {
		return errors.NewAppError(errors.ErrInvalidInput, "Capacity must be at least 1", nil)
	}

	owner, err := s.repo.GetEventOwner(ctx, eventID)
	if err != nil {
		if stderrors.Is(err, repository.ErrEventNotFound) {
			return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
		}
		return errors.NewAppError(errors.ErrStoreUnavailable, "Failed to get event", err)
	}
	if owner != requesterID {
		return errors.NewAppError(errors.ErrForbidden, "Only the event owner can change capacity", nil)
	}

	if err := s.repo.UpdateCapacity(ctx, eventID, newCapacity); err != nil {
		var tooLow *repository.CapacityTooLowError
		switch {
		case stderrors.Is(err, repository.ErrEventNotFound):
			return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
		case stderrors.As(err, &tooLow):
			return errors.NewAppErrorWithDetails(
				errors.ErrCapacityBelowAttendance,
				"Capacity cannot be lower than the current number of attendees",
				map[string]any{"attendee_count": tooLow.AttendeeCount},
				nil,
			)
		default:
			return errors.NewAppError(errors.ErrStoreUnavailable, "Failed to update capacity", err)
		}
	}

	logger.Info("RSVPService:UpdateCapacity:Success", "event_id", eventID, "capacity", newCapacity)
	return nil
}

// DeleteEventCascade removes an event together with its RSVPs. Ownership is
// checked by the event module before delegating here.
func (s *RSVPService) DeleteEventCascade(ctx context.Context, eventID uuid.UUID) *errors.AppError {
	if err := s.repo.DeleteEventCascade(ctx, eventID); err != nil {
		if stderrors.Is(err, repository.ErrEventNotFound) {
			return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
		}
		return errors.NewAppError(errors.ErrStoreUnavailable, "Failed to delete event", err)
	}
	logger.Info("RSVPService:DeleteEventCascade:Success", "event_id", eventID)
	return nil
}

func (s *RSVPService) ListAttendees(ctx context.Context, eventID uuid.UUID) ([]dto.AttendeeResponse, *errors.AppError) {
	rsvps, err := s.repo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "Failed to list attendees", err)
	}
	return dto.ToAttendeeResponses(rsvps), nil
}

// GetMyRSVP returns the caller's RSVP for an event, or nil when they are
// not registered.
func (s *RSVPService) GetMyRSVP(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*dto.RSVPResponse, *errors.AppError) {
	rsvp, err := s.repo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "Failed to get RSVP", err)
	}
	if rsvp == nil {
		return nil, nil
	}
	return dto.ToRSVPResponse(rsvp), nil
}

// attendeeName resolves the public display name: profile name, then the
// email local-part, then "Anonymous".
func attendeeName(username string, email string) string {
	if username != "" {
		return username
	}
	if local, _, _ := strings.Cut(email, "@"); local != "" {
		return local
	}
	return anonymousName
}
