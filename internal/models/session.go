package models

import "time"

type Session struct {
	ID            int64         `db:"id"`
	CampaignID    int64         `db:"campaign_id"`
	Title         string        `db:"title"`
	SessionDate   time.Time     `db:"session_date"`
	UploadID      *int64        `db:"upload_id"`       // nullable, preferred audio source
	AudioFilePath *string       `db:"audio_file_path"` // nullable, legacy direct path
	Duration      *float64      `db:"duration"`        // seconds
	Status        SessionStatus `db:"status"`
	ErrorStep     *string       `db:"error_step"`
	ErrorMessage  *string       `db:"error_message"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// SessionUpdate carries a partial update; nil fields are left untouched.
type SessionUpdate struct {
	Title       *string
	SessionDate *time.Time
	Duration    *float64
}
