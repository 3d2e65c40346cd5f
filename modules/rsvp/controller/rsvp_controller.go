package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/legacy-sukawarna/rsvp-app/core/constants"
	"github.com/legacy-sukawarna/rsvp-app/core/controller"
	"github.com/legacy-sukawarna/rsvp-app/core/errors"
	"github.com/legacy-sukawarna/rsvp-app/core/utils"
	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp/service"
)

// RSVPController handles RSVP HTTP requests
type RSVPController struct {
	controller.BaseController
	RSVPService service.RSVPServiceInterface
}

func NewRSVPController(svc service.RSVPServiceInterface) *RSVPController {
	return &RSVPController{
		BaseController: controller.NewBaseController(),
		RSVPService:    svc,
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *RSVPController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// GetAttendance handles GET /public/events/:id/attendance
// @Summary Event attendance
// @Description Live attendee count, spots left and fullness for an event
// @Tags RSVP
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.AttendanceResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /public/events/{id}/attendance [get]
func (c *RSVPController) GetAttendance(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.RSVPService.GetAttendance(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListAttendees handles GET /public/events/:id/rsvps
// @Summary Event attendees
// @Tags RSVP
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} dto.AttendeeResponse
// @Router /public/events/{id}/rsvps [get]
func (c *RSVPController) ListAttendees(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.RSVPService.ListAttendees(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Register handles POST /private/events/:id/rsvps
// @Summary Register for an event
// @Description Creates the caller's RSVP; rejected when the event is full or the caller is already registered
// @Tags RSVP
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 201 {object} dto.RSVPResponse
// @Failure 404 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/events/{id}/rsvps [post]
func (c *RSVPController) Register(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.RSVPService.Register(ctx.Request().Context(), eventID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "You're in! Your RSVP has been confirmed")
}

// Cancel handles DELETE /private/rsvps/:id
// @Summary Cancel an RSVP
// @Description Deletes the caller's RSVP; cancelling one that no longer exists still succeeds
// @Tags RSVP
// @Security BearerAuth
// @Produce json
// @Param id path string true "RSVP ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/rsvps/{id} [delete]
func (c *RSVPController) Cancel(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	rsvpID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid RSVP ID")
	}

	if appErr := c.RSVPService.Cancel(ctx.Request().Context(), rsvpID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "RSVP cancelled")
}

// GetMyRSVP handles GET /private/events/:id/rsvps/me
// @Summary Caller's RSVP for an event
// @Description Returns the caller's RSVP when registered; data is null otherwise
// @Tags RSVP
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.RSVPResponse
// @Router /private/events/{id}/rsvps/me [get]
func (c *RSVPController) GetMyRSVP(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.RSVPService.GetMyRSVP(ctx.Request().Context(), eventID, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
