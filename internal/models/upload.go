package models

import "time"

// Upload is a stored audio artifact independent of any session. A session
// references at most one upload; an upload may back several sessions, so
// usage is checked before deletion.
type Upload struct {
	ID           int64        `db:"id"`
	UserID       int64        `db:"user_id"`
	Filename     string       `db:"filename"`
	OriginalName string       `db:"original_name"`
	Path         string       `db:"path"`
	Size         int64        `db:"size"`
	MimeType     string       `db:"mime_type"`
	Duration     *float64     `db:"duration"` // seconds, probed at upload time
	Status       UploadStatus `db:"status"`
	ChunkPaths   []string     `db:"chunk_paths"` // stored as jsonb
	CreatedAt    time.Time    `db:"created_at"`
}
