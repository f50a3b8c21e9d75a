package ports

import (
	"context"

	"chronicle/internal/models"
)

// Repositories return (nil, nil) when a row does not exist.

type SessionRepository interface {
	InsertSession(ctx context.Context, s *models.Session) (*models.Session, error)
	GetSessionByID(ctx context.Context, id int64) (*models.Session, error)
	ListSessions(ctx context.Context, userID int64) ([]models.Session, error)
	UpdateSession(ctx context.Context, id int64, upd models.SessionUpdate) error
	UpdateStatus(ctx context.Context, id int64, status models.SessionStatus) error
	SetError(ctx context.Context, id int64, step, message string) error
	ClearError(ctx context.Context, id int64) error
	SetUpload(ctx context.Context, id int64, uploadID *int64) error
	DeleteSession(ctx context.Context, id int64) error
	CountByCampaign(ctx context.Context, campaignID int64) (int, error)
}

type CampaignRepository interface {
	InsertCampaign(ctx context.Context, c *models.Campaign) (*models.Campaign, error)
	GetCampaignByID(ctx context.Context, id int64) (*models.Campaign, error)
	ListCampaigns(ctx context.Context, userID int64) ([]models.Campaign, error)
	UpdateCampaign(ctx context.Context, c *models.Campaign) error
	DeleteCampaign(ctx context.Context, id int64) error
}

type UploadRepository interface {
	InsertUpload(ctx context.Context, u *models.Upload) (*models.Upload, error)
	GetUploadByID(ctx context.Context, id int64) (*models.Upload, error)
	ListUploads(ctx context.Context, userID int64) ([]models.Upload, error)
	// UpdateUploadStatus also replaces the recorded chunk paths when
	// chunkPaths is non-nil.
	UpdateUploadStatus(ctx context.Context, id int64, status models.UploadStatus, chunkPaths []string) error
	DeleteUpload(ctx context.Context, id int64) error
	CountSessionsUsingUpload(ctx context.Context, id int64) (int, error)
}

type TranscriptionRepository interface {
	// ReplaceTranscriptions deletes all rows for the session and inserts the
	// given segments as one transaction.
	ReplaceTranscriptions(ctx context.Context, sessionID int64, segments []models.TranscriptSegment) error
	GetTranscriptions(ctx context.Context, sessionID int64) ([]models.Transcription, error)
	CountTranscriptions(ctx context.Context, sessionID int64) (int, error)
}

type SummaryRepository interface {
	// UpsertSummary creates the row or overwrites summary_text only, never
	// the edit metadata.
	UpsertSummary(ctx context.Context, sessionID int64, text string) (*models.Summary, error)
	// SaveEdit writes an edited text together with the edit metadata decided
	// by the caller.
	SaveEdit(ctx context.Context, sessionID int64, text string, originalText *string) (*models.Summary, error)
	GetSummary(ctx context.Context, sessionID int64) (*models.Summary, error)
}

type UserRepository interface {
	InsertUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
