package models

import "time"

// Summary is one-to-one with a session. OriginalText is captured on the
// first manual edit only; regeneration never touches the edit metadata.
type Summary struct {
	ID           int64      `db:"id"`
	SessionID    int64      `db:"session_id"`
	SummaryText  string     `db:"summary_text"`
	OriginalText *string    `db:"original_text"`
	IsEdited     bool       `db:"is_edited"`
	EditedAt     *time.Time `db:"edited_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}
