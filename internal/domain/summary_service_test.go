package domain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chronicle/internal/models"
)

type summaryFixture struct {
	sessions    *memSessions
	campaigns   *memCampaigns
	transcripts *memTranscripts
	summaries   *memSummaries
	gen         *fakeGen
	svc         *SummaryService
}

func newSummaryFixture(sess *models.Session, campaign *models.Campaign, gen *fakeGen) *summaryFixture {
	f := &summaryFixture{
		sessions:    newMemSessions(sess),
		campaigns:   newMemCampaigns(),
		transcripts: newMemTranscripts(),
		summaries:   newMemSummaries(),
		gen:         gen,
	}
	if campaign != nil {
		f.campaigns.rows[campaign.ID] = campaign
	}
	f.svc = NewSummaryService(f.sessions, f.campaigns, f.transcripts, f.summaries, f.gen)
	return f
}

func (f *summaryFixture) seedTranscript(t *testing.T, sessionID int64, texts ...string) {
	t.Helper()
	segs := make([]models.TranscriptSegment, len(texts))
	for i, txt := range texts {
		segs[i] = models.TranscriptSegment{Start: float64(i * 10), End: float64(i*10 + 10), Text: txt}
	}
	if err := f.transcripts.ReplaceTranscriptions(context.Background(), sessionID, segs); err != nil {
		t.Fatalf("seed transcript: %v", err)
	}
}

func TestGenerateSummary(t *testing.T) {
	sess := &models.Session{ID: 1, CampaignID: 3, Status: models.SessionTranscribed}
	campaign := &models.Campaign{ID: 3, Name: "Curse of the Iron Keep", Description: "A grim siege.", SettingNotes: "The keep never falls."}
	gen := &fakeGen{out: "The party breached the gate."}
	f := newSummaryFixture(sess, campaign, gen)
	f.seedTranscript(t, 1, "we storm the gate", "roll for initiative")

	text, err := f.svc.Generate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "The party breached the gate." {
		t.Errorf("returned text = %q", text)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("generator called %d times, want 1", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	for _, want := range []string{"Curse of the Iron Keep", "The keep never falls.", "we storm the gate roll for initiative"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}

	saved, _ := f.summaries.GetSummary(context.Background(), 1)
	if saved == nil || saved.SummaryText != "The party breached the gate." {
		t.Errorf("saved summary = %+v", saved)
	}
	got, _ := f.sessions.GetSessionByID(context.Background(), 1)
	if got.Status != models.SessionCompleted {
		t.Errorf("session status = %q, want %q", got.Status, models.SessionCompleted)
	}
}

func TestGenerateSummaryWithoutTranscript(t *testing.T) {
	sess := &models.Session{ID: 1, CampaignID: 3, Status: models.SessionUploaded}
	f := newSummaryFixture(sess, nil, &fakeGen{out: "x"})

	_, err := f.svc.Generate(context.Background(), 1)
	if !errors.Is(err, ErrNoTranscriptions) {
		t.Fatalf("err = %v, want ErrNoTranscriptions", err)
	}
	// A validation failure writes no state.
	got, _ := f.sessions.GetSessionByID(context.Background(), 1)
	if got.Status != models.SessionUploaded {
		t.Errorf("session status changed to %q on a validation error", got.Status)
	}
	if len(f.gen.prompts) != 0 {
		t.Error("generator was called without a transcript")
	}
}

func TestGenerateSummaryUnknownSession(t *testing.T) {
	f := newSummaryFixture(&models.Session{ID: 1}, nil, &fakeGen{})
	if _, err := f.svc.Generate(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGenerateSummaryFailure(t *testing.T) {
	sess := &models.Session{ID: 1, CampaignID: 3, Status: models.SessionTranscribed}
	gen := &fakeGen{err: errors.New("model overloaded")}
	f := newSummaryFixture(sess, nil, gen)
	f.seedTranscript(t, 1, "we storm the gate")

	if _, err := f.svc.Generate(context.Background(), 1); err == nil {
		t.Fatal("expected the generator error to propagate")
	}
	got, _ := f.sessions.GetSessionByID(context.Background(), 1)
	if got.Status != models.SessionError {
		t.Errorf("session status = %q, want %q", got.Status, models.SessionError)
	}
	if got.ErrorStep == nil || *got.ErrorStep != models.StepSummary {
		t.Errorf("error step = %v, want %q", got.ErrorStep, models.StepSummary)
	}
}

func TestEditSummaryKeepsFirstOriginal(t *testing.T) {
	sess := &models.Session{ID: 1, CampaignID: 3, Status: models.SessionCompleted}
	f := newSummaryFixture(sess, nil, &fakeGen{out: "generated text"})
	f.seedTranscript(t, 1, "we storm the gate")

	if _, err := f.svc.Generate(context.Background(), 1); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if err := f.svc.Edit(context.Background(), 1, "first edit"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	s, _ := f.summaries.GetSummary(context.Background(), 1)
	if !s.IsEdited {
		t.Error("summary not marked edited")
	}
	if s.OriginalText == nil || *s.OriginalText != "generated text" {
		t.Errorf("original text = %v, want the pre-edit text", s.OriginalText)
	}

	// A second edit replaces the text but keeps the first original.
	if err := f.svc.Edit(context.Background(), 1, "second edit"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	s, _ = f.summaries.GetSummary(context.Background(), 1)
	if s.SummaryText != "second edit" {
		t.Errorf("summary text = %q", s.SummaryText)
	}
	if s.OriginalText == nil || *s.OriginalText != "generated text" {
		t.Errorf("original text after second edit = %v, want unchanged", s.OriginalText)
	}
}

func TestEditSummaryMissing(t *testing.T) {
	f := newSummaryFixture(&models.Session{ID: 1}, nil, &fakeGen{})
	if err := f.svc.Edit(context.Background(), 1, "text"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRegenerateKeepsEditMetadata(t *testing.T) {
	sess := &models.Session{ID: 1, CampaignID: 3, Status: models.SessionCompleted}
	f := newSummaryFixture(sess, nil, &fakeGen{out: "v1"})
	f.seedTranscript(t, 1, "we storm the gate")

	if _, err := f.svc.Generate(context.Background(), 1); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := f.svc.Edit(context.Background(), 1, "edited"); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	f.gen.out = "v2"
	if _, err := f.svc.Generate(context.Background(), 1); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	s, _ := f.summaries.GetSummary(context.Background(), 1)
	if s.SummaryText != "v2" {
		t.Errorf("summary text = %q, want the regenerated text", s.SummaryText)
	}
	if !s.IsEdited || s.OriginalText == nil || *s.OriginalText != "v1" {
		t.Errorf("regeneration touched edit metadata: edited=%v original=%v", s.IsEdited, s.OriginalText)
	}
}
