package delivery

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"chronicle/internal/domain"
	"chronicle/internal/models"
	"chronicle/internal/ports"
)

type CampaignHandler struct {
	campaigns ports.CampaignRepository
	sessions  ports.SessionRepository
	log       *logger.ZapLogger
}

func NewCampaignHandler(campaigns ports.CampaignRepository, sessions ports.SessionRepository, log *logger.ZapLogger) *CampaignHandler {
	return &CampaignHandler{
		campaigns: campaigns,
		sessions:  sessions,
		log:       log,
	}
}

type campaignRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	SettingNotes string `json:"settingNotes"`
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// ownCampaign loads the campaign and hides other users' rows behind a 404.
func (h *CampaignHandler) ownCampaign(w http.ResponseWriter, r *http.Request) *models.Campaign {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil
	}

	c, err := h.campaigns.GetCampaignByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if c == nil || c.UserID != UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "campaign not found")
		return nil
	}
	return c
}

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.campaigns.InsertCampaign(r.Context(), &models.Campaign{
		UserID:       UserID(r.Context()),
		Name:         req.Name,
		Description:  req.Description,
		SettingNotes: req.SettingNotes,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "campaign created",
		Fields:  map[string]any{"campaignID": c.ID},
	})

	writeJSON(w, http.StatusCreated, c)
}

func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.campaigns.ListCampaigns(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if out == nil {
		out = []models.Campaign{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	c := h.ownCampaign(w, r)
	if c == nil {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	c := h.ownCampaign(w, r)
	if c == nil {
		return
	}

	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c.Name = req.Name
	c.Description = req.Description
	c.SettingNotes = req.SettingNotes

	if err := h.campaigns.UpdateCampaign(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c := h.ownCampaign(w, r)
	if c == nil {
		return
	}

	n, err := h.sessions.CountByCampaign(r.Context(), c.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n > 0 {
		writeDomainError(w, domain.ErrCampaignInUse)
		return
	}

	if err := h.campaigns.DeleteCampaign(r.Context(), c.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "campaign deleted"})
}
