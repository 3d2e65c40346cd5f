package controller

import (
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/legacy-sukawarna/rsvp-app/core/constants"
	"github.com/legacy-sukawarna/rsvp-app/core/controller"
	"github.com/legacy-sukawarna/rsvp-app/core/errors"
	"github.com/legacy-sukawarna/rsvp-app/core/params"
	"github.com/legacy-sukawarna/rsvp-app/core/utils"
	"github.com/legacy-sukawarna/rsvp-app/modules/event/dto"
	"github.com/legacy-sukawarna/rsvp-app/modules/event/service"
)

// EventController handles event HTTP requests
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

func (c *EventController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// openImageUpload reads the optional "image" multipart part. A missing part
// returns (nil, nil, nil); the caller owns closing the returned file.
func openImageUpload(ctx echo.Context) (*dto.ImageUpload, multipart.File, error) {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return nil, nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, err
	}

	upload := &dto.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	}
	return upload, file, nil
}

// CreateEvent handles POST /private/events
// @Summary Create event
// @Description Creates an event with an optional cover image
// @Tags Event
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Event title"
// @Param description formData string false "Event description"
// @Param location formData string true "Map link for the venue"
// @Param event_date formData string true "RFC3339 timestamp"
// @Param capacity formData int true "Maximum attendees"
// @Param image formData file false "Cover image"
// @Success 201 {object} dto.EventResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /private/events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	upload, file, err := openImageUpload(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Could not read image upload")
	}
	if file != nil {
		defer file.Close()
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), userID, &req, upload)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Event created")
}

// GetEvent handles GET /public/events/:id
// @Summary Event detail
// @Tags Event
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventDetailResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /public/events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.GetEvent(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetEventByShareCode handles GET /public/events/share/:code
// @Summary Event detail by share code
// @Tags Event
// @Produce json
// @Param code path string true "Share code"
// @Success 200 {object} dto.EventDetailResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /public/events/share/{code} [get]
func (c *EventController) GetEventByShareCode(ctx echo.Context) error {
	code := ctx.Param("code")
	if code == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid share code")
	}

	result, appErr := c.EventService.GetEventByShareCode(ctx.Request().Context(), code)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListUpcoming handles GET /public/events
// @Summary Upcoming events
// @Tags Event
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.EventListResponse
// @Router /public/events [get]
func (c *EventController) ListUpcoming(ctx echo.Context) error {
	p := params.FromEchoContext(ctx)

	result, appErr := c.EventService.ListUpcoming(ctx.Request().Context(), p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListMine handles GET /private/events/mine
// @Summary Events I created
// @Tags Event
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.EventListResponse
// @Router /private/events/mine [get]
func (c *EventController) ListMine(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	p := params.FromEchoContext(ctx)

	result, appErr := c.EventService.ListMine(ctx.Request().Context(), userID, p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateEvent handles PUT /private/events/:id
// @Summary Update event
// @Description Owner-only partial update; capacity is re-checked against live attendance
// @Tags Event
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param title formData string false "Event title"
// @Param description formData string false "Event description"
// @Param location formData string false "Map link for the venue"
// @Param event_date formData string false "RFC3339 timestamp"
// @Param capacity formData int false "Maximum attendees"
// @Param remove_image formData bool false "Drop the current cover image"
// @Param image formData file false "Replacement cover image"
// @Success 200 {object} dto.EventDetailResponse
// @Failure 403 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/events/{id} [put]
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	upload, file, err := openImageUpload(ctx)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Could not read image upload")
	}
	if file != nil {
		defer file.Close()
	}

	result, appErr := c.EventService.UpdateEvent(ctx.Request().Context(), eventID, userID, &req, upload)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event updated")
}

// DeleteEvent handles DELETE /private/events/:id
// @Summary Delete event
// @Description Owner-only; removes the event and all of its RSVPs
// @Tags Event
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /private/events/{id} [delete]
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	if appErr := c.EventService.DeleteEvent(ctx.Request().Context(), eventID, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event deleted")
}
