package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrNoAudio          = errors.New("session has no audio source")
	ErrAudioMissing     = errors.New("audio file not found")
	ErrNoTranscriptions = errors.New("no transcriptions found for this session")
	ErrUploadInUse      = errors.New("upload is referenced by a session")
	ErrUploadLocked     = errors.New("cannot change upload after transcription has started")
	ErrCampaignInUse    = errors.New("campaign still has sessions")
	ErrInvalidLogin     = errors.New("invalid email or password")
	ErrEmailTaken       = errors.New("email already registered")
)
