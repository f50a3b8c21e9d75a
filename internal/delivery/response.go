package delivery

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"chronicle/internal/domain"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps domain sentinels onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrAudioMissing):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoAudio),
		errors.Is(err, domain.ErrNoTranscriptions),
		errors.Is(err, domain.ErrUploadLocked),
		errors.Is(err, domain.ErrUploadInUse),
		errors.Is(err, domain.ErrCampaignInUse),
		errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidLogin):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}
