package delivery

import (
	"github.com/go-chi/chi/v5"

	"chronicle/internal/ports"
)

func RegisterRoutes(
	r chi.Router,
	auth ports.AuthService,
	hAuth *AuthHandler,
	hCampaign *CampaignHandler,
	hSession *SessionHandler,
	hUpload *UploadHandler,
	hTranscription *TranscriptionHandler,
	hSummary *SummaryHandler,
) {
	// public
	r.Post("/api/register", hAuth.Register)
	r.Post("/api/login", hAuth.Login)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(auth))

		r.Route("/api/campaigns", func(r chi.Router) {
			r.Get("/", hCampaign.List)
			r.Post("/", hCampaign.Create)
			r.Get("/{id}", hCampaign.Get)
			r.Put("/{id}", hCampaign.Update)
			r.Delete("/{id}", hCampaign.Delete)
		})

		r.Route("/api/sessions", func(r chi.Router) {
			r.Get("/", hSession.List)
			r.Post("/", hSession.Create)
			r.Get("/{id}", hSession.Get)
			r.Put("/{id}", hSession.Update)
			r.Delete("/{id}", hSession.Delete)
			r.Post("/{id}/upload", hSession.LinkUpload)
			r.Put("/{id}/upload", hSession.LinkUpload)
			r.Delete("/{id}/upload", hSession.UnlinkUpload)
		})

		r.Post("/api/upload", hUpload.Upload)
		r.Route("/api/uploads", func(r chi.Router) {
			r.Get("/", hUpload.List)
			r.Get("/{id}", hUpload.Get)
			r.Delete("/{id}", hUpload.Delete)
			r.Post("/{id}/cleanup", hUpload.Cleanup)
		})

		r.Post("/api/transcription/{sessionId}", hTranscription.Transcribe)
		r.Get("/api/transcription/{sessionId}", hTranscription.Get)

		r.Post("/api/summary/{sessionId}", hSummary.Generate)
		r.Get("/api/summary/{sessionId}", hSummary.Get)
		r.Put("/api/summary/{sessionId}", hSummary.Edit)
	})
}
