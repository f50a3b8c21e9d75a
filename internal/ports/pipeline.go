package ports

import "context"

// ChunkEvent is published after each chunk finishes transcribing, so
// connected clients can follow progress.
type ChunkEvent struct {
	SessionID   int64
	Chunk       int
	TotalChunks int
	Segments    int
}

type Transcriber interface {
	// Transcribe runs the whole pipeline for a session. explicitPath
	// overrides the stored audio source when non-empty (back compat).
	// Returns the number of persisted segments.
	Transcribe(ctx context.Context, sessionID int64, explicitPath string) (int, error)
	Events() <-chan ChunkEvent
}

type Summarizer interface {
	Generate(ctx context.Context, sessionID int64) (string, error)
	Edit(ctx context.Context, sessionID int64, text string) error
}

type Cleaner interface {
	CleanupUpload(ctx context.Context, uploadID int64) error
	CleanupSession(ctx context.Context, sessionID int64) error
}

type AuthService interface {
	Register(ctx context.Context, email, name, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (int64, error)
}
