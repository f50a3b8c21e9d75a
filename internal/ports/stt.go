package ports

import (
	"context"

	"chronicle/internal/models"
)

// SpeechToText transcribes one audio chunk into timestamped segments.
// Segment times are relative to the start of the chunk; offsetting across
// chunks is the orchestrator's job.
type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte, filename string) ([]models.TranscriptSegment, error)
}
