package models

import "time"

type Campaign struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	SettingNotes string    `db:"setting_notes"` // narrative context injected into summary prompts
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
