package delivery

import (
	"encoding/json"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"

	"chronicle/internal/models"
	"chronicle/internal/ports"
)

type TranscriptionHandler struct {
	transcriber ports.Transcriber
	transcripts ports.TranscriptionRepository
	log         *logger.ZapLogger
}

func NewTranscriptionHandler(transcriber ports.Transcriber, transcripts ports.TranscriptionRepository, log *logger.ZapLogger) *TranscriptionHandler {
	return &TranscriptionHandler{
		transcriber: transcriber,
		transcripts: transcripts,
		log:         log,
	}
}

type transcribeRequest struct {
	// AudioFilePath overrides the session's stored source when set.
	AudioFilePath string `json:"audioFilePath"`
}

// POST /api/transcription/{sessionId}
func (h *TranscriptionHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r, "sessionId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req transcribeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
	}

	count, err := h.transcriber.Transcribe(r.Context(), sessionID, req.AudioFilePath)
	if err != nil {
		h.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "transcription failed",
			Fields:  map[string]any{"sessionID": sessionID},
			Error:   err,
		})
		writeDomainError(w, err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "transcription completed",
		Fields:  map[string]any{"sessionID": sessionID, "segments": count},
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message":            "transcription completed successfully",
		"transcriptionCount": count,
	})
}

// GET /api/transcription/{sessionId}
func (h *TranscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r, "sessionId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	rows, err := h.transcripts.GetTranscriptions(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []models.Transcription{}
	}
	writeJSON(w, http.StatusOK, rows)
}
