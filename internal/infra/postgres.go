package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPgxPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, dsn)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS campaigns (
	id            BIGSERIAL PRIMARY KEY,
	user_id       BIGINT NOT NULL REFERENCES users(id),
	name          TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	setting_notes TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS uploads (
	id            BIGSERIAL PRIMARY KEY,
	user_id       BIGINT NOT NULL REFERENCES users(id),
	filename      TEXT NOT NULL,
	original_name TEXT NOT NULL,
	path          TEXT NOT NULL,
	size          BIGINT NOT NULL,
	mime_type     TEXT NOT NULL,
	duration      DOUBLE PRECISION,
	status        TEXT NOT NULL DEFAULT 'uploaded',
	chunk_paths   JSONB NOT NULL DEFAULT '[]',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sessions (
	id              BIGSERIAL PRIMARY KEY,
	campaign_id     BIGINT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
	title           TEXT NOT NULL,
	session_date    TIMESTAMPTZ NOT NULL,
	upload_id       BIGINT REFERENCES uploads(id),
	audio_file_path TEXT,
	duration        DOUBLE PRECISION,
	status          TEXT NOT NULL DEFAULT 'draft',
	error_step      TEXT,
	error_message   TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transcriptions (
	id         BIGSERIAL PRIMARY KEY,
	session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	start_time DOUBLE PRECISION NOT NULL,
	end_time   DOUBLE PRECISION NOT NULL,
	text       TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS transcriptions_session_start_idx
	ON transcriptions (session_id, start_time);

CREATE TABLE IF NOT EXISTS summaries (
	id            BIGSERIAL PRIMARY KEY,
	session_id    BIGINT NOT NULL UNIQUE REFERENCES sessions(id) ON DELETE CASCADE,
	summary_text  TEXT NOT NULL,
	original_text TEXT,
	is_edited     BOOLEAN NOT NULL DEFAULT false,
	edited_at     TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the tables on startup; statements are idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
