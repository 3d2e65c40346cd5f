package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/legacy-sukawarna/rsvp-app/core/database"
	"github.com/legacy-sukawarna/rsvp-app/core/logger"
	"github.com/legacy-sukawarna/rsvp-app/core/params"
	"github.com/legacy-sukawarna/rsvp-app/modules/event/entity"
)

// EventRepository handles event database operations. Capacity changes and
// the cascade delete are owned by the rsvp module, which guards them.
type EventRepository struct {
	DB database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract
type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetEventByShareCode(ctx context.Context, code string) (*entity.Event, error)
	ListUpcoming(ctx context.Context, params params.QueryParams) (*entity.PaginatedEventEntity, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params params.QueryParams) (*entity.PaginatedEventEntity, error)
	UpdateEvent(ctx context.Context, event *entity.Event) error
}

func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (title, description, location, event_date, capacity, image_url, share_code, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, title, description, location, event_date, capacity, image_url, share_code,
		          created_by, created_at, updated_at
	`

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.Title, event.Description, event.Location, event.EventDate,
		event.Capacity, event.ImageURL, event.ShareCode, event.CreatedBy)
	if err != nil {
		logger.Error("EventRepository:CreateEvent:Error:", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, title, description, location, event_date, capacity, image_url, share_code,
		       created_by, created_at, updated_at
		FROM events WHERE id = $1
	`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID:Error:", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) GetEventByShareCode(ctx context.Context, code string) (*entity.Event, error) {
	query := `
		SELECT id, title, description, location, event_date, capacity, image_url, share_code,
		       created_by, created_at, updated_at
		FROM events WHERE share_code = $1
	`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByShareCode:Error:", err)
		return nil, err
	}

	return &event, nil
}

// ListUpcoming returns future events soonest-first, each row joined with
// its live attendee count.
func (r *EventRepository) ListUpcoming(ctx context.Context, params params.QueryParams) (*entity.PaginatedEventEntity, error) {
	var totalItems int
	err := r.DB.GetContext(ctx, &totalItems,
		`SELECT COUNT(*) FROM events WHERE event_date >= NOW()`)
	if err != nil {
		logger.Error("EventRepository:ListUpcoming:Count:Error:", err)
		return nil, err
	}

	query := `
		SELECT e.id, e.title, e.description, e.location, e.event_date, e.capacity, e.image_url,
		       e.share_code, e.created_by, e.created_at, e.updated_at,
		       COUNT(r.id) AS attendee_count
		FROM events e
		LEFT JOIN rsvps r ON r.event_id = e.id
		WHERE e.event_date >= NOW()
		GROUP BY e.id
		ORDER BY e.event_date ASC
		LIMIT $1 OFFSET $2
	`

	var events []entity.EventWithAttendance
	err = r.DB.SelectContext(ctx, &events, query, params.PageSize, params.Offset())
	if err != nil {
		logger.Error("EventRepository:ListUpcoming:Select:Error:", err)
		return nil, err
	}

	return &entity.PaginatedEventEntity{
		Items:      events,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, params params.QueryParams) (*entity.PaginatedEventEntity, error) {
	var totalItems int
	err := r.DB.GetContext(ctx, &totalItems,
		`SELECT COUNT(*) FROM events WHERE created_by = $1`, ownerID)
	if err != nil {
		logger.Error("EventRepository:ListByOwner:Count:Error:", err)
		return nil, err
	}

	query := `
		SELECT e.id, e.title, e.description, e.location, e.event_date, e.capacity, e.image_url,
		       e.share_code, e.created_by, e.created_at, e.updated_at,
		       COUNT(r.id) AS attendee_count
		FROM events e
		LEFT JOIN rsvps r ON r.event_id = e.id
		WHERE e.created_by = $1
		GROUP BY e.id
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	var events []entity.EventWithAttendance
	err = r.DB.SelectContext(ctx, &events, query, ownerID, params.PageSize, params.Offset())
	if err != nil {
		logger.Error("EventRepository:ListByOwner:Select:Error:", err)
		return nil, err
	}

	return &entity.PaginatedEventEntity{
		Items:      events,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

// UpdateEvent writes the mutable descriptive fields. Capacity is updated
// through the rsvp module so the attendance bound is re-checked in the
// same transaction as the write.
func (r *EventRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, location = $4, event_date = $5, image_url = $6, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		event.ID, event.Title, event.Description, event.Location, event.EventDate, event.ImageURL)
	if err != nil {
		logger.Error("EventRepository:UpdateEvent:Error:", err)
		return err
	}

	return nil
}
