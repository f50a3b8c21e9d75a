package domain

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"chronicle/internal/models"
	"chronicle/internal/ports"
)

// TranscribeService runs the full pipeline for one session: resolve the
// audio source, split it, transcribe the chunks strictly in order, offset
// segment timestamps for continuity and persist the result atomically.
type TranscribeService struct {
	sessions    ports.SessionRepository
	uploads     ports.UploadRepository
	transcripts ports.TranscriptionRepository
	chunker     *Chunker
	stt         ports.SpeechToText
	storage     ports.FileStorage
	cleaner     ports.Cleaner

	// cleanupAfter triggers source-media cleanup once the transcript is
	// durable. Chunk files of a failed attempt are always left on disk.
	cleanupAfter bool

	events chan ports.ChunkEvent
}

func NewTranscribeService(
	sessions ports.SessionRepository,
	uploads ports.UploadRepository,
	transcripts ports.TranscriptionRepository,
	chunker *Chunker,
	stt ports.SpeechToText,
	storage ports.FileStorage,
	cleaner ports.Cleaner,
	cleanupAfter bool,
) *TranscribeService {
	return &TranscribeService{
		sessions:     sessions,
		uploads:      uploads,
		transcripts:  transcripts,
		chunker:      chunker,
		stt:          stt,
		storage:      storage,
		cleaner:      cleaner,
		cleanupAfter: cleanupAfter,
		events:       make(chan ports.ChunkEvent, 100),
	}
}

func (s *TranscribeService) Events() <-chan ports.ChunkEvent { return s.events }

func (s *TranscribeService) Transcribe(ctx context.Context, sessionID int64, explicitPath string) (int, error) {
	sess, err := s.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if sess == nil {
		return 0, ErrNotFound
	}

	var upload *models.Upload
	if sess.UploadID != nil {
		upload, err = s.uploads.GetUploadByID(ctx, *sess.UploadID)
		if err != nil {
			return 0, err
		}
	}

	// Source precedence: explicit path, linked upload, legacy direct path.
	path := explicitPath
	if path == "" && upload != nil {
		path = upload.Path
	}
	if path == "" && sess.AudioFilePath != nil {
		path = *sess.AudioFilePath
	}
	if path == "" {
		return 0, ErrNoAudio
	}

	if !s.storage.Exists(path) {
		_ = s.sessions.SetError(ctx, sessionID, models.StepTranscription, "audio file not found: "+path)
		return 0, ErrAudioMissing
	}

	log.Printf("[transcribe][start] session=%d src=%s", sessionID, filepath.Base(path))

	if err := s.sessions.ClearError(ctx, sessionID); err != nil {
		return 0, err
	}
	if err := s.sessions.UpdateStatus(ctx, sessionID, models.SessionTranscribing); err != nil {
		return 0, err
	}
	if upload != nil {
		_ = s.uploads.UpdateUploadStatus(ctx, upload.ID, models.UploadTranscribing, nil)
	}

	chunks, err := s.chunker.Split(ctx, path)
	if err != nil {
		return 0, s.fail(ctx, sessionID, err)
	}

	// Record chunk paths on the upload row so a later cleanup can find
	// leftovers of a failed attempt.
	if upload != nil && len(chunks) > 1 {
		paths := make([]string, 0, len(chunks))
		for _, ch := range chunks {
			paths = append(paths, ch.Path)
		}
		_ = s.uploads.UpdateUploadStatus(ctx, upload.ID, models.UploadTranscribing, paths)
	}

	// Strictly sequential fold over the chunks: the running elapsed offset
	// is the probed duration of prior chunks, so timestamps stay continuous
	// even when speech does not tile a chunk exactly.
	var all []models.TranscriptSegment
	var elapsed float64

	for i, ch := range chunks {
		data, err := s.storage.Read(ch.Path)
		if err != nil {
			return 0, s.fail(ctx, sessionID, fmt.Errorf("read chunk %d: %w", i+1, err))
		}

		segs, err := s.stt.Transcribe(ctx, data, filepath.Base(ch.Path))
		if err != nil {
			return 0, s.fail(ctx, sessionID, fmt.Errorf("transcribe chunk %d/%d: %w", i+1, len(chunks), err))
		}
		if len(segs) == 0 {
			// Silently dropping a chunk would produce a misleading
			// transcript, so an empty result aborts the whole attempt.
			return 0, s.fail(ctx, sessionID, fmt.Errorf("chunk %d/%d produced no transcription segments", i+1, len(chunks)))
		}

		if i > 0 {
			for j := range segs {
				segs[j].Start += elapsed
				segs[j].End += elapsed
			}
		}
		elapsed += ch.Duration
		all = append(all, segs...)

		log.Printf("[transcribe][chunk] session=%d %d/%d segments=%d", sessionID, i+1, len(chunks), len(segs))

		s.events <- ports.ChunkEvent{
			SessionID:   sessionID,
			Chunk:       i + 1,
			TotalChunks: len(chunks),
			Segments:    len(segs),
		}
	}

	// Chunk files are intermediate; the original source is never removed
	// here. Failure to delete one does not affect the saved transcript.
	for _, ch := range chunks {
		if ch.Path == path {
			continue
		}
		if err := s.storage.Remove(ch.Path); err != nil {
			log.Printf("[transcribe][warn] session=%d remove chunk %s: %v", sessionID, filepath.Base(ch.Path), err)
		}
	}

	if err := s.transcripts.ReplaceTranscriptions(ctx, sessionID, all); err != nil {
		return 0, s.fail(ctx, sessionID, fmt.Errorf("save transcriptions: %w", err))
	}

	if err := s.sessions.UpdateStatus(ctx, sessionID, models.SessionTranscribed); err != nil {
		return 0, err
	}

	if upload != nil {
		_ = s.uploads.UpdateUploadStatus(ctx, upload.ID, models.UploadTranscribed, []string{})
		if s.cleanupAfter && s.cleaner != nil {
			if err := s.cleaner.CleanupUpload(ctx, upload.ID); err != nil {
				log.Printf("[transcribe][warn] session=%d cleanup upload %d: %v", sessionID, upload.ID, err)
			}
		}
	}

	log.Printf("[transcribe][done] session=%d segments=%d", sessionID, len(all))
	return len(all), nil
}

// fail records the failing step on the session and passes the error through.
// Chunk files are deliberately left on disk for inspection.
func (s *TranscribeService) fail(ctx context.Context, sessionID int64, cause error) error {
	log.Printf("[transcribe][error] session=%d: %v", sessionID, cause)
	if err := s.sessions.SetError(ctx, sessionID, models.StepTranscription, cause.Error()); err != nil {
		log.Printf("[transcribe][error] session=%d set error state: %v", sessionID, err)
	}
	return cause
}
