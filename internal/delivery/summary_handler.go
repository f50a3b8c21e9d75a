package delivery

import (
	"encoding/json"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"

	"chronicle/internal/ports"
)

type SummaryHandler struct {
	summarizer ports.Summarizer
	summaries  ports.SummaryRepository
	log        *logger.ZapLogger
}

func NewSummaryHandler(summarizer ports.Summarizer, summaries ports.SummaryRepository, log *logger.ZapLogger) *SummaryHandler {
	return &SummaryHandler{
		summarizer: summarizer,
		summaries:  summaries,
		log:        log,
	}
}

// POST /api/summary/{sessionId}
func (h *SummaryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r, "sessionId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	text, err := h.summarizer.Generate(r.Context(), sessionID)
	if err != nil {
		h.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "summary generation failed",
			Fields:  map[string]any{"sessionID": sessionID},
			Error:   err,
		})
		writeDomainError(w, err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "summary generated",
		Fields:  map[string]any{"sessionID": sessionID, "chars": len(text)},
	})

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "summary generated successfully",
		"summary": text,
	})
}

// GET /api/summary/{sessionId}
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r, "sessionId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	s, err := h.summaries.GetSummary(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if s == nil {
		writeError(w, http.StatusNotFound, "summary not found")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

type editSummaryRequest struct {
	SummaryText string `json:"summaryText" validate:"required"`
}

// PUT /api/summary/{sessionId} is the manual edit path.
func (h *SummaryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathID(r, "sessionId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req editSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.summarizer.Edit(r.Context(), sessionID, req.SummaryText); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "summary updated"})
}
