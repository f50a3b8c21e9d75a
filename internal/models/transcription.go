package models

// TranscriptSegment is one timestamped span of speech as returned by the
// speech-to-text service, after chunk offsetting.
type TranscriptSegment struct {
	Start      float64
	End        float64
	Text       string
	Confidence float64
}

// Transcription is a persisted segment row. Rows for a session are ordered
// by start time and replaced as a whole on re-transcription.
type Transcription struct {
	ID         int64   `db:"id"`
	SessionID  int64   `db:"session_id"`
	StartTime  float64 `db:"start_time"`
	EndTime    float64 `db:"end_time"`
	Text       string  `db:"text"`
	Confidence float64 `db:"confidence"`
}
