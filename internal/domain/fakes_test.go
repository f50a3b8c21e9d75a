package domain

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"chronicle/internal/models"
)

// In-memory stand-ins for the ports, shared across the domain tests.

type memStorage struct {
	mu        sync.Mutex
	files     map[string][]byte
	failPaths map[string]error // Remove returns this error for the path
	removed   []string
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}, failPaths: map[string]error{}}
}

func (s *memStorage) Exists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok
}

func (s *memStorage) Size(path string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return 0, fs.ErrNotExist
	}
	return int64(len(data)), nil
}

func (s *memStorage) Read(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (s *memStorage) Write(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return nil
}

func (s *memStorage) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failPaths[path]; ok {
		return err
	}
	if _, ok := s.files[path]; !ok {
		return fs.ErrNotExist
	}
	delete(s.files, path)
	s.removed = append(s.removed, path)
	return nil
}

type fakeProber struct {
	dur   float64
	err   error
	calls int
}

func (p *fakeProber) Duration(_ context.Context, _ string) (float64, error) {
	p.calls++
	return p.dur, p.err
}

type encodeCall struct {
	src, dst        string
	start, duration float64
}

type fakeEncoder struct {
	mu      sync.Mutex
	storage *memStorage
	err     error
	calls   []encodeCall
}

func (e *fakeEncoder) EncodeSlice(_ context.Context, src, dst string, start, duration float64) error {
	e.mu.Lock()
	e.calls = append(e.calls, encodeCall{src, dst, start, duration})
	e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	return e.storage.Write(dst, []byte("chunk:"+dst))
}

// fakeSTT returns one prepared segment list per call, in order.
type fakeSTT struct {
	results [][]models.TranscriptSegment
	errAt   int // 1-based call number that fails; 0 disables
	err     error
	calls   int
}

func (s *fakeSTT) Transcribe(_ context.Context, _ []byte, _ string) ([]models.TranscriptSegment, error) {
	s.calls++
	if s.errAt != 0 && s.calls == s.errAt {
		return nil, s.err
	}
	if s.calls > len(s.results) {
		return nil, fmt.Errorf("unexpected transcription call %d", s.calls)
	}
	// Copy so offsetting cannot mutate the fixture.
	src := s.results[s.calls-1]
	out := make([]models.TranscriptSegment, len(src))
	copy(out, src)
	return out, nil
}

type fakeGen struct {
	out     string
	err     error
	prompts []string
}

func (g *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.out, nil
}

type fakeCleaner struct {
	uploadCalls  []int64
	sessionCalls []int64
	err          error
}

func (c *fakeCleaner) CleanupUpload(_ context.Context, id int64) error {
	c.uploadCalls = append(c.uploadCalls, id)
	return c.err
}

func (c *fakeCleaner) CleanupSession(_ context.Context, id int64) error {
	c.sessionCalls = append(c.sessionCalls, id)
	return c.err
}

type memSessions struct {
	mu   sync.Mutex
	rows map[int64]*models.Session
	next int64
}

func newMemSessions(rows ...*models.Session) *memSessions {
	m := &memSessions{rows: map[int64]*models.Session{}, next: 1}
	for _, s := range rows {
		if s.ID == 0 {
			s.ID = m.next
		}
		if s.ID >= m.next {
			m.next = s.ID + 1
		}
		m.rows[s.ID] = s
	}
	return m
}

func (m *memSessions) InsertSession(_ context.Context, s *models.Session) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.next
	m.next++
	m.rows[s.ID] = s
	return s, nil
}

func (m *memSessions) GetSessionByID(_ context.Context, id int64) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) ListSessions(_ context.Context, _ int64) ([]models.Session, error) {
	return nil, nil
}

func (m *memSessions) UpdateSession(_ context.Context, id int64, upd models.SessionUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.rows[id]
	if upd.Title != nil {
		s.Title = *upd.Title
	}
	if upd.SessionDate != nil {
		s.SessionDate = *upd.SessionDate
	}
	if upd.Duration != nil {
		s.Duration = upd.Duration
	}
	return nil
}

func (m *memSessions) UpdateStatus(_ context.Context, id int64, status models.SessionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id].Status = status
	return nil
}

func (m *memSessions) SetError(_ context.Context, id int64, step, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.rows[id]
	s.Status = models.SessionError
	s.ErrorStep = &step
	s.ErrorMessage = &message
	return nil
}

func (m *memSessions) ClearError(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.rows[id]
	s.ErrorStep = nil
	s.ErrorMessage = nil
	return nil
}

func (m *memSessions) SetUpload(_ context.Context, id int64, uploadID *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id].UploadID = uploadID
	return nil
}

func (m *memSessions) DeleteSession(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memSessions) CountByCampaign(_ context.Context, campaignID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.rows {
		if s.CampaignID == campaignID {
			n++
		}
	}
	return n, nil
}

type memUploads struct {
	mu   sync.Mutex
	rows map[int64]*models.Upload
	next int64
}

func newMemUploads(rows ...*models.Upload) *memUploads {
	m := &memUploads{rows: map[int64]*models.Upload{}, next: 1}
	for _, u := range rows {
		if u.ID == 0 {
			u.ID = m.next
		}
		if u.ID >= m.next {
			m.next = u.ID + 1
		}
		m.rows[u.ID] = u
	}
	return m
}

func (m *memUploads) InsertUpload(_ context.Context, u *models.Upload) (*models.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.next
	m.next++
	m.rows[u.ID] = u
	return u, nil
}

func (m *memUploads) GetUploadByID(_ context.Context, id int64) (*models.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUploads) ListUploads(_ context.Context, _ int64) ([]models.Upload, error) {
	return nil, nil
}

func (m *memUploads) UpdateUploadStatus(_ context.Context, id int64, status models.UploadStatus, chunkPaths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.rows[id]
	u.Status = status
	if chunkPaths != nil {
		u.ChunkPaths = chunkPaths
	}
	return nil
}

func (m *memUploads) DeleteUpload(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memUploads) CountSessionsUsingUpload(_ context.Context, _ int64) (int, error) {
	return 0, nil
}

type memTranscripts struct {
	mu       sync.Mutex
	rows     map[int64][]models.Transcription
	replaces int
	err      error
}

func newMemTranscripts() *memTranscripts {
	return &memTranscripts{rows: map[int64][]models.Transcription{}}
}

func (m *memTranscripts) ReplaceTranscriptions(_ context.Context, sessionID int64, segments []models.TranscriptSegment) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaces++
	rows := make([]models.Transcription, 0, len(segments))
	for i, seg := range segments {
		rows = append(rows, models.Transcription{
			ID:         int64(i + 1),
			SessionID:  sessionID,
			StartTime:  seg.Start,
			EndTime:    seg.End,
			Text:       seg.Text,
			Confidence: seg.Confidence,
		})
	}
	m.rows[sessionID] = rows
	return nil
}

func (m *memTranscripts) GetTranscriptions(_ context.Context, sessionID int64) ([]models.Transcription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[sessionID], nil
}

func (m *memTranscripts) CountTranscriptions(_ context.Context, sessionID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows[sessionID]), nil
}

// memSummaries mirrors the repository contract: upsert touches text only,
// SaveEdit writes edit metadata.
type memSummaries struct {
	mu   sync.Mutex
	rows map[int64]*models.Summary
	next int64
}

func newMemSummaries() *memSummaries {
	return &memSummaries{rows: map[int64]*models.Summary{}, next: 1}
}

func (m *memSummaries) UpsertSummary(_ context.Context, sessionID int64, text string) (*models.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.rows[sessionID]; ok {
		s.SummaryText = text
		cp := *s
		return &cp, nil
	}
	s := &models.Summary{ID: m.next, SessionID: sessionID, SummaryText: text}
	m.next++
	m.rows[sessionID] = s
	cp := *s
	return &cp, nil
}

func (m *memSummaries) SaveEdit(_ context.Context, sessionID int64, text string, originalText *string) (*models.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[sessionID]
	if !ok {
		return nil, nil
	}
	s.SummaryText = text
	s.IsEdited = true
	if originalText != nil {
		s.OriginalText = originalText
	}
	cp := *s
	return &cp, nil
}

func (m *memSummaries) GetSummary(_ context.Context, sessionID int64) (*models.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

type memCampaigns struct {
	mu   sync.Mutex
	rows map[int64]*models.Campaign
}

func newMemCampaigns(rows ...*models.Campaign) *memCampaigns {
	m := &memCampaigns{rows: map[int64]*models.Campaign{}}
	for _, c := range rows {
		m.rows[c.ID] = c
	}
	return m
}

func (m *memCampaigns) InsertCampaign(_ context.Context, c *models.Campaign) (*models.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.ID] = c
	return c, nil
}

func (m *memCampaigns) GetCampaignByID(_ context.Context, id int64) (*models.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memCampaigns) ListCampaigns(_ context.Context, _ int64) ([]models.Campaign, error) {
	return nil, nil
}

func (m *memCampaigns) UpdateCampaign(_ context.Context, c *models.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.ID] = c
	return nil
}

func (m *memCampaigns) DeleteCampaign(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type memUsers struct {
	mu   sync.Mutex
	rows map[string]*models.User
	next int64
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[string]*models.User{}, next: 1}
}

func (m *memUsers) InsertUser(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.next
	m.next++
	m.rows[u.Email] = u
	return u, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}
