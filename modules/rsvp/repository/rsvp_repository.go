package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/legacy-sukawarna/rsvp-app/core/database"
	"github.com/legacy-sukawarna/rsvp-app/core/logger"
	"github.com/legacy-sukawarna/rsvp-app/modules/rsvp/entity"
)

const pqUniqueViolation = "23505"

// RSVPRepository owns the rsvps table and every write that must hold the
// capacity invariant. Registration and capacity changes run inside a
// transaction that locks the event row, so the count they validate against
// cannot move underneath them.
type RSVPRepository struct {
	DB database.IDatabase
}

func NewRSVPRepository(db database.IDatabase) *RSVPRepository {
	return &RSVPRepository{DB: db}
}

// RSVPRepositoryInterface defines the repository contract
type RSVPRepositoryInterface interface {
	GetAttendance(ctx context.Context, eventID uuid.UUID) (*entity.Attendance, error)
	Register(ctx context.Context, rsvp *entity.RSVP) (*entity.RSVP, error)
	GetByEventAndUser(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*entity.RSVP, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.RSVP, error)
	DeleteByIDAndUser(ctx context.Context, rsvpID uuid.UUID, userID uuid.UUID) error
	GetEventOwner(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error)
	UpdateCapacity(ctx context.Context, eventID uuid.UUID, newCapacity int) error
	DeleteEventCascade(ctx context.Context, eventID uuid.UUID) error
}

// GetAttendance counts live rsvp rows against the stored capacity. Pure
// read; reflects whatever snapshot the store gives us.
func (r *RSVPRepository) GetAttendance(ctx context.Context, eventID uuid.UUID) (*entity.Attendance, error) {
	query := `
		SELECT e.capacity, COUNT(r.id) AS attendee_count
		FROM events e
		LEFT JOIN rsvps r ON r.event_id = e.id
		WHERE e.id = $1
		GROUP BY e.capacity
	`

	var row struct {
		Capacity      int `db:"capacity"`
		AttendeeCount int `db:"attendee_count"`
	}
	err := r.DB.GetContext(ctx, &row, query, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		logger.Error("RSVPRepository:GetAttendance:Error:", err)
		return nil, err
	}

	attendance := entity.NewAttendance(row.Capacity, row.AttendeeCount)
	return &attendance, nil
}

// Register inserts an RSVP with the capacity and uniqueness checks atomic
// with the insert. The event row is locked for the duration of the
// transaction so two concurrent registrations serialize; the UNIQUE
// (event_id, user_id) constraint backstops the duplicate check.
func (r *RSVPRepository) Register(ctx context.Context, rsvp *entity.RSVP) (*entity.RSVP, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("RSVPRepository:Register:BeginTx:Error:", err)
		return nil, err
	}
	defer tx.Rollback()

	var capacity int
	err = tx.GetContext(ctx, &capacity,
		`SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, rsvp.EventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		logger.Error("RSVPRepository:Register:LockEvent:Error:", err)
		return nil, err
	}

	var attendeeCount int
	err = tx.GetContext(ctx, &attendeeCount,
		`SELECT COUNT(*) FROM rsvps WHERE event_id = $1`, rsvp.EventID)
	if err != nil {
		logger.Error("RSVPRepository:Register:Count:Error:", err)
		return nil, err
	}

	if attendeeCount >= capacity {
		return nil, ErrEventFull
	}

	var created entity.RSVP
	err = tx.GetContext(ctx, &created, `
		INSERT INTO rsvps (event_id, user_id, attendee_name, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, event_id, user_id, attendee_name, avatar_url, created_at
	`, rsvp.EventID, rsvp.UserID, rsvp.AttendeeName, rsvp.AvatarURL)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return nil, ErrDuplicateRSVP
		}
		logger.Error("RSVPRepository:Register:Insert:Error:", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("RSVPRepository:Register:Commit:Error:", err)
		return nil, err
	}

	return &created, nil
}

func (r *RSVPRepository) GetByEventAndUser(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*entity.RSVP, error) {
	query := `
		SELECT id, event_id, user_id, attendee_name, avatar_url, created_at
		FROM rsvps WHERE event_id = $1 AND user_id = $2
	`

	var rsvp entity.RSVP
	err := r.DB.GetContext(ctx, &rsvp, query, eventID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("RSVPRepository:GetByEventAndUser:Error:", err)
		return nil, err
	}

	return &rsvp, nil
}

func (r *RSVPRepository) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.RSVP, error) {
	query := `
		SELECT id, event_id, user_id, attendee_name, avatar_url, created_at
		FROM rsvps
		WHERE event_id = $1
		ORDER BY created_at ASC
	`

	var rsvps []entity.RSVP
	err := r.DB.SelectContext(ctx, &rsvps, query, eventID)
	if err != nil {
		logger.Error("RSVPRepository:ListByEventID:Error:", err)
		return nil, err
	}

	return rsvps, nil
}

// DeleteByIDAndUser removes the caller's RSVP. Deleting an absent row (or a
// row owned by someone else) affects nothing and is not an error; retried
// cancels must stay no-ops.
func (r *RSVPRepository) DeleteByIDAndUser(ctx context.Context, rsvpID uuid.UUID, userID uuid.UUID) error {
	query := `DELETE FROM rsvps WHERE id = $1 AND user_id = $2`
	err := r.DB.ExecContext(ctx, query, rsvpID, userID)
	if err != nil {
		logger.Error("RSVPRepository:DeleteByIDAndUser:Error:", err)
		return err
	}
	return nil
}

func (r *RSVPRepository) GetEventOwner(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := r.DB.GetContext(ctx, &owner, `SELECT created_by FROM events WHERE id = $1`, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return uuid.Nil, ErrEventNotFound
		}
		logger.Error("RSVPRepository:GetEventOwner:Error:", err)
		return uuid.Nil, err
	}
	return owner, nil
}

// UpdateCapacity re-validates the capacity bound against the live count
// inside the same transaction as the write, under the event row lock.
func (r *RSVPRepository) UpdateCapacity(ctx context.Context, eventID uuid.UUID, newCapacity int) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("RSVPRepository:UpdateCapacity:BeginTx:Error:", err)
		return err
	}
	defer tx.Rollback()

	var capacity int
	err = tx.GetContext(ctx, &capacity,
		`SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrEventNotFound
		}
		logger.Error("RSVPRepository:UpdateCapacity:LockEvent:Error:", err)
		return err
	}

	var attendeeCount int
	err = tx.GetContext(ctx, &attendeeCount,
		`SELECT COUNT(*) FROM rsvps WHERE event_id = $1`, eventID)
	if err != nil {
		logger.Error("RSVPRepository:UpdateCapacity:Count:Error:", err)
		return err
	}

	if newCapacity < attendeeCount {
		return &CapacityTooLowError{AttendeeCount: attendeeCount}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE events SET capacity = $2, updated_at = NOW() WHERE id = $1`, eventID, newCapacity)
	if err != nil {
		logger.Error("RSVPRepository:UpdateCapacity:Update:Error:", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("RSVPRepository:UpdateCapacity:Commit:Error:", err)
		return err
	}

	return nil
}

// DeleteEventCascade removes an event and its RSVPs as one unit. Children
// go first inside the transaction, so no partial outcome can leave RSVPs
// pointing at a deleted event.
func (r *RSVPRepository) DeleteEventCascade(ctx context.Context, eventID uuid.UUID) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("RSVPRepository:DeleteEventCascade:BeginTx:Error:", err)
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rsvps WHERE event_id = $1`, eventID); err != nil {
		logger.Error("RSVPRepository:DeleteEventCascade:DeleteRSVPs:Error:", err)
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		logger.Error("RSVPRepository:DeleteEventCascade:DeleteEvent:Error:", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEventNotFound
	}

	if err := tx.Commit(); err != nil {
		logger.Error("RSVPRepository:DeleteEventCascade:Commit:Error:", err)
		return err
	}

	return nil
}
