package database

import (
	"context"

	"github.com/legacy-sukawarna/rsvp-app/core/logger"
)

// schema is applied on startup. Statements are idempotent so repeated boots
// are safe. The UNIQUE (event_id, user_id) constraint on rsvps is what makes
// duplicate registrations impossible regardless of application-level checks.
const schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS users (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email       TEXT NOT NULL UNIQUE,
	username    TEXT NOT NULL,
	password    TEXT NOT NULL,
	avatar_url  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS events (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title       TEXT NOT NULL CHECK (title <> ''),
	description TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL CHECK (location <> ''),
	event_date  TIMESTAMPTZ NOT NULL,
	capacity    INTEGER NOT NULL CHECK (capacity >= 1),
	image_url   TEXT,
	share_code  TEXT NOT NULL UNIQUE,
	created_by  UUID NOT NULL REFERENCES users(id),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_events_event_date ON events(event_date);
CREATE INDEX IF NOT EXISTS idx_events_created_by ON events(created_by);

CREATE TABLE IF NOT EXISTS rsvps (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	event_id      UUID NOT NULL REFERENCES events(id),
	user_id       UUID NOT NULL REFERENCES users(id),
	attendee_name TEXT NOT NULL,
	avatar_url    TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (event_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_rsvps_event_id ON rsvps(event_id);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db IDatabase) error {
	if err := db.ExecContext(ctx, schema); err != nil {
		logger.Error("Database:Migrate:Error", "error", err)
		return err
	}
	logger.Info("Database schema up to date")
	return nil
}
