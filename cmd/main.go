package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"chronicle/internal/config"
	"chronicle/internal/delivery"
	ws "chronicle/internal/delivery/ws"
	"chronicle/internal/domain"
	"chronicle/internal/infra"
)

func main() {

	// LOGGER
	zcore, _ := zap.NewProduction()
	zl := logger.NewZapLogger(zcore.Sugar())

	// ENV
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// POSTGRES
	ctx := context.Background()

	pool, err := infra.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("cannot connect pgxpool: %v", err)
	}
	defer pool.Close()

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctxPing); err != nil {
		log.Fatalf("postgres ping failed: %v", err)
	}
	if err := infra.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// REPOSITORIES
	users := infra.NewPostgresUserRepo(pool)
	campaigns := infra.NewPostgresCampaignRepo(pool)
	sessions := infra.NewPostgresSessionRepo(pool)
	uploads := infra.NewPostgresUploadRepo(pool)
	transcripts := infra.NewPostgresTranscriptionRepo(pool)
	summaries := infra.NewPostgresSummaryRepo(pool)

	// EXTERNAL SERVICES
	storage := infra.NewLocalStorage()
	media := infra.NewFFmpegTools(cfg.FFmpegPath, cfg.FFprobePath)
	stt := infra.NewWhisperClient(cfg.OpenAIKey)
	gpt := infra.NewGPTClient(cfg.OpenAIKey)

	// DOMAIN SERVICES
	authService := domain.NewAuthService(users, cfg.AuthSecret)
	cleanup := domain.NewCleanupService(uploads, sessions, storage)
	chunker := domain.NewChunker(media, media, storage, cfg.ChunkSizeBytes())
	transcriber := domain.NewTranscribeService(
		sessions, uploads, transcripts,
		chunker, stt, storage,
		cleanup, cfg.CleanupAfterTranscribe,
	)
	summarizer := domain.NewSummaryService(sessions, campaigns, transcripts, summaries, gpt)

	// WS HUB
	hub := ws.NewHub()

	// BROADCAST LISTENER
	go func() {
		for ev := range transcriber.Events() {
			payload, err := json.Marshal(map[string]any{
				"sessionId":   ev.SessionID,
				"chunk":       ev.Chunk,
				"totalChunks": ev.TotalChunks,
				"segments":    ev.Segments,
			})
			if err != nil {
				log.Printf("[events] json marshal failed: %v", err)
				continue
			}
			hub.SendToRoom(strconv.FormatInt(ev.SessionID, 10), payload)
		}
	}()

	// HANDLERS
	hAuth := delivery.NewAuthHandler(authService, zl)
	hCampaign := delivery.NewCampaignHandler(campaigns, sessions, zl)
	hSession := delivery.NewSessionHandler(sessions, campaigns, uploads, zl)
	hUpload := delivery.NewUploadHandler(uploads, storage, media, cleanup, cfg.UploadDir, cfg.MaxFileSize, zl)
	hTranscription := delivery.NewTranscriptionHandler(transcriber, transcripts, zl)
	hSummary := delivery.NewSummaryHandler(summarizer, summaries, zl)

	// ROUTER
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Auth"},
		AllowCredentials: true,
	}))

	delivery.RegisterRoutes(r, authService, hAuth, hCampaign, hSession, hUpload, hTranscription, hSummary)

	r.Get("/ws", ws.Handler(hub))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "server started",
		Fields:  map[string]any{"port": cfg.Port},
	})

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: "server crashed",
			Error:   err,
		})
	}
}
