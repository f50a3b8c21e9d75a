package models

// SessionStatus is the closed set of states a session moves through:
// draft -> uploaded -> transcribing -> transcribed -> summarizing -> completed,
// with error reachable from any in-flight state.
type SessionStatus string

const (
	SessionDraft        SessionStatus = "draft"
	SessionPending      SessionStatus = "pending" // legacy alias for draft
	SessionUploaded     SessionStatus = "uploaded"
	SessionTranscribing SessionStatus = "transcribing"
	SessionTranscribed  SessionStatus = "transcribed"
	SessionSummarizing  SessionStatus = "summarizing"
	SessionCompleted    SessionStatus = "completed"
	SessionError        SessionStatus = "error"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionDraft, SessionPending, SessionUploaded, SessionTranscribing,
		SessionTranscribed, SessionSummarizing, SessionCompleted, SessionError:
		return true
	}
	return false
}

// CanChangeUpload reports whether the session's upload link may still be
// swapped or removed. Once transcription has started the link is frozen.
func (s SessionStatus) CanChangeUpload() bool {
	switch s {
	case SessionTranscribing, SessionTranscribed, SessionSummarizing, SessionCompleted:
		return false
	}
	return true
}

// Terminal reports whether the session has finished, successfully or not.
// An error state is still recoverable by retrying the failed step.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionError
}

type UploadStatus string

const (
	UploadUploaded     UploadStatus = "uploaded"
	UploadTranscribing UploadStatus = "transcribing"
	UploadTranscribed  UploadStatus = "transcribed"
	UploadCleaned      UploadStatus = "cleaned"
)

func (s UploadStatus) Valid() bool {
	switch s {
	case UploadUploaded, UploadTranscribing, UploadTranscribed, UploadCleaned:
		return true
	}
	return false
}

// Pipeline step names recorded on a session when it enters the error state.
const (
	StepTranscription = "transcription"
	StepSummary       = "summary"
)
