package delivery

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"chronicle/internal/domain"
	"chronicle/internal/models"
	"chronicle/internal/ports"
)

type SessionHandler struct {
	sessions  ports.SessionRepository
	campaigns ports.CampaignRepository
	uploads   ports.UploadRepository
	log       *logger.ZapLogger
}

func NewSessionHandler(
	sessions ports.SessionRepository,
	campaigns ports.CampaignRepository,
	uploads ports.UploadRepository,
	log *logger.ZapLogger,
) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		campaigns: campaigns,
		uploads:   uploads,
		log:       log,
	}
}

type createSessionRequest struct {
	CampaignID    int64     `json:"campaignId" validate:"required"`
	Title         string    `json:"title" validate:"required"`
	SessionDate   time.Time `json:"sessionDate" validate:"required"`
	AudioFilePath *string   `json:"audioFilePath"`
	Duration      *float64  `json:"duration"`
}

// ownSession loads the session and verifies the caller owns its campaign;
// foreign sessions come back as 404, same as missing ones.
func (h *SessionHandler) ownSession(w http.ResponseWriter, r *http.Request) *models.Session {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil
	}

	s, err := h.sessions.GetSessionByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if s == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil
	}

	c, err := h.campaigns.GetCampaignByID(r.Context(), s.CampaignID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if c == nil || c.UserID != UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "session not found")
		return nil
	}
	return s
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.campaigns.GetCampaignByID(r.Context(), req.CampaignID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if c == nil || c.UserID != UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "campaign not found")
		return
	}

	s, err := h.sessions.InsertSession(r.Context(), &models.Session{
		CampaignID:    req.CampaignID,
		Title:         req.Title,
		SessionDate:   req.SessionDate,
		AudioFilePath: req.AudioFilePath,
		Duration:      req.Duration,
		Status:        models.SessionDraft,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "session created",
		Fields:  map[string]any{"sessionID": s.ID, "campaignID": s.CampaignID},
	})

	writeJSON(w, http.StatusCreated, s)
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.sessions.ListSessions(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if out == nil {
		out = []models.Session{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s := h.ownSession(w, r)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, s)
}

type updateSessionRequest struct {
	Title       *string    `json:"title"`
	SessionDate *time.Time `json:"sessionDate"`
	Duration    *float64   `json:"duration"`
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	s := h.ownSession(w, r)
	if s == nil {
		return
	}

	var req updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	err := h.sessions.UpdateSession(r.Context(), s.ID, models.SessionUpdate{
		Title:       req.Title,
		SessionDate: req.SessionDate,
		Duration:    req.Duration,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "session updated"})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s := h.ownSession(w, r)
	if s == nil {
		return
	}

	if err := h.sessions.DeleteSession(r.Context(), s.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "session deleted"})
}

type linkUploadRequest struct {
	UploadID int64 `json:"uploadId" validate:"required"`
}

// LinkUpload attaches an upload to a session. The same handler backs POST
// (link) and PUT (replace); the state machine guard is identical.
func (h *SessionHandler) LinkUpload(w http.ResponseWriter, r *http.Request) {
	s := h.ownSession(w, r)
	if s == nil {
		return
	}

	if !s.Status.CanChangeUpload() {
		writeDomainError(w, domain.ErrUploadLocked)
		return
	}

	var req linkUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.uploads.GetUploadByID(r.Context(), req.UploadID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if u == nil || u.UserID != UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "upload not found")
		return
	}

	if err := h.sessions.SetUpload(r.Context(), s.ID, &req.UploadID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "upload linked to session",
		Fields:  map[string]any{"sessionID": s.ID, "uploadID": req.UploadID},
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "upload linked to session"})
}

func (h *SessionHandler) UnlinkUpload(w http.ResponseWriter, r *http.Request) {
	s := h.ownSession(w, r)
	if s == nil {
		return
	}

	if !s.Status.CanChangeUpload() {
		writeDomainError(w, domain.ErrUploadLocked)
		return
	}

	if err := h.sessions.SetUpload(r.Context(), s.ID, nil); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "upload unlinked from session"})
}
