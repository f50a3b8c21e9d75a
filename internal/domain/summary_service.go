package domain

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"chronicle/internal/models"
	"chronicle/internal/ports"
)

const summaryPreamble = `You are a skilled storyteller and tabletop campaign chronicler. Below is a transcript of a game session. Create an engaging summary that:

1. Tells the story of what happened in this session
2. Identifies key events, decisions, and character moments
3. Mentions which characters were involved in important scenes
4. Maintains the narrative flow and excitement of the session
5. Focuses on story elements, combat highlights, and character development`

// SummaryService turns a session's transcript into a narrative summary and
// owns the manual-edit semantics of the stored summary.
type SummaryService struct {
	sessions    ports.SessionRepository
	campaigns   ports.CampaignRepository
	transcripts ports.TranscriptionRepository
	summaries   ports.SummaryRepository
	gen         ports.TextGenerator
	now         func() time.Time
}

func NewSummaryService(
	sessions ports.SessionRepository,
	campaigns ports.CampaignRepository,
	transcripts ports.TranscriptionRepository,
	summaries ports.SummaryRepository,
	gen ports.TextGenerator,
) *SummaryService {
	return &SummaryService{
		sessions:    sessions,
		campaigns:   campaigns,
		transcripts: transcripts,
		summaries:   summaries,
		gen:         gen,
		now:         time.Now,
	}
}

func (s *SummaryService) Generate(ctx context.Context, sessionID int64) (string, error) {
	sess, err := s.sessions.GetSessionByID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", ErrNotFound
	}

	rows, err := s.transcripts.GetTranscriptions(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", ErrNoTranscriptions
	}

	log.Printf("[summary][start] session=%d segments=%d", sessionID, len(rows))

	if err := s.sessions.ClearError(ctx, sessionID); err != nil {
		return "", err
	}
	if err := s.sessions.UpdateStatus(ctx, sessionID, models.SessionSummarizing); err != nil {
		return "", err
	}

	var background string
	if campaign, err := s.campaigns.GetCampaignByID(ctx, sess.CampaignID); err == nil && campaign != nil {
		background = campaignContext(campaign)
	}

	text, err := s.gen.Generate(ctx, buildPrompt(background, joinTranscript(rows)))
	if err != nil {
		return "", s.fail(ctx, sessionID, fmt.Errorf("generate summary: %w", err))
	}

	if _, err := s.summaries.UpsertSummary(ctx, sessionID, text); err != nil {
		return "", s.fail(ctx, sessionID, fmt.Errorf("save summary: %w", err))
	}
	if err := s.sessions.UpdateStatus(ctx, sessionID, models.SessionCompleted); err != nil {
		return "", err
	}

	log.Printf("[summary][done] session=%d chars=%d", sessionID, len(text))
	return text, nil
}

// Edit is the manual path: the pre-edit text is preserved once, on the first
// edit only. Regeneration goes through Generate and never touches this.
func (s *SummaryService) Edit(ctx context.Context, sessionID int64, text string) error {
	cur, err := s.summaries.GetSummary(ctx, sessionID)
	if err != nil {
		return err
	}
	if cur == nil {
		return ErrNotFound
	}

	var original *string
	if !cur.IsEdited {
		prev := cur.SummaryText
		original = &prev
	}

	_, err = s.summaries.SaveEdit(ctx, sessionID, text, original)
	return err
}

func (s *SummaryService) fail(ctx context.Context, sessionID int64, cause error) error {
	log.Printf("[summary][error] session=%d: %v", sessionID, cause)
	if err := s.sessions.SetError(ctx, sessionID, models.StepSummary, cause.Error()); err != nil {
		log.Printf("[summary][error] session=%d set error state: %v", sessionID, err)
	}
	return cause
}

func campaignContext(c *models.Campaign) string {
	var sb strings.Builder
	sb.WriteString("Campaign: " + c.Name)
	if c.Description != "" {
		sb.WriteString("\n" + c.Description)
	}
	if c.SettingNotes != "" {
		sb.WriteString("\n" + c.SettingNotes)
	}
	return sb.String()
}

func buildPrompt(campaignCtx, transcript string) string {
	var sb strings.Builder
	sb.WriteString(summaryPreamble)
	if campaignCtx != "" {
		sb.WriteString("\n\nCampaign background for reference:\n")
		sb.WriteString(campaignCtx)
	}
	sb.WriteString("\n\nHere's the transcript:\n\n")
	sb.WriteString(transcript)
	sb.WriteString("\n\nPlease provide a compelling summary that captures the essence of this session.")
	return sb.String()
}

func joinTranscript(rows []models.Transcription) string {
	parts := make([]string, 0, len(rows))
	for _, r := range rows {
		parts = append(parts, r.Text)
	}
	return strings.Join(parts, " ")
}
