package domain

import (
	"context"
	"errors"
	"io/fs"
	"log"

	"chronicle/internal/models"
	"chronicle/internal/ports"
)

// CleanupService removes media files that are no longer needed once their
// transcript is durable. Deletion is idempotent: a missing file counts as
// already cleaned.
type CleanupService struct {
	uploads  ports.UploadRepository
	sessions ports.SessionRepository
	storage  ports.FileStorage
}

func NewCleanupService(uploads ports.UploadRepository, sessions ports.SessionRepository, storage ports.FileStorage) *CleanupService {
	return &CleanupService{
		uploads:  uploads,
		sessions: sessions,
		storage:  storage,
	}
}

func (c *CleanupService) CleanupUpload(ctx context.Context, uploadID int64) error {
	upload, err := c.uploads.GetUploadByID(ctx, uploadID)
	if err != nil {
		return err
	}
	if upload == nil {
		return ErrNotFound
	}

	// Only transcribed uploads are safe to clean; anything earlier may
	// still need its audio.
	if upload.Status != models.UploadTranscribed {
		log.Printf("[cleanup][skip] upload=%d status=%s, not transcribed", uploadID, upload.Status)
		return nil
	}

	c.removeFile(upload.Path)
	for _, p := range upload.ChunkPaths {
		c.removeFile(p)
	}

	if err := c.uploads.UpdateUploadStatus(ctx, uploadID, models.UploadCleaned, []string{}); err != nil {
		return err
	}

	log.Printf("[cleanup][done] upload=%d", uploadID)
	return nil
}

func (c *CleanupService) CleanupSession(ctx context.Context, sessionID int64) error {
	sess, err := c.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrNotFound
	}

	if sess.UploadID != nil {
		if err := c.CleanupUpload(ctx, *sess.UploadID); err != nil {
			return err
		}
	}

	// Legacy direct path, when not already covered by the upload.
	if sess.AudioFilePath != nil && *sess.AudioFilePath != "" {
		c.removeFile(*sess.AudioFilePath)
	}

	log.Printf("[cleanup][done] session=%d", sessionID)
	return nil
}

// removeFile logs and moves on: a failed sibling delete never aborts the
// rest of a cleanup, and an already-missing file is fine.
func (c *CleanupService) removeFile(path string) {
	err := c.storage.Remove(path)
	switch {
	case err == nil:
		log.Printf("[cleanup] removed %s", path)
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("[cleanup] already gone %s", path)
	default:
		log.Printf("[cleanup][warn] remove %s: %v", path, err)
	}
}
