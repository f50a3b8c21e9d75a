package infra

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"chronicle/internal/models"
	"chronicle/internal/ports"
)

// WhisperClient transcribes audio chunks with OpenAI Whisper, requesting
// verbose JSON so segment timestamps and confidences come back.
type WhisperClient struct {
	client *openai.Client
}

func NewWhisperClient(apiKey string) ports.SpeechToText {
	return &WhisperClient{client: openai.NewClient(apiKey)}
}

func (w *WhisperClient) Transcribe(ctx context.Context, audio []byte, filename string) ([]models.TranscriptSegment, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("whisper transcription: %w", err)
	}

	segments := make([]models.TranscriptSegment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, models.TranscriptSegment{
			Start:      seg.Start,
			End:        seg.End,
			Text:       seg.Text,
			Confidence: seg.AvgLogprob,
		})
	}
	return segments, nil
}
