package delivery

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"chronicle/internal/domain"
	"chronicle/internal/models"
	"chronicle/internal/ports"
)

type UploadHandler struct {
	uploads ports.UploadRepository
	storage ports.FileStorage
	probe   ports.DurationProber
	cleaner ports.Cleaner

	uploadDir   string
	maxFileSize int64

	log *logger.ZapLogger
}

func NewUploadHandler(
	uploads ports.UploadRepository,
	storage ports.FileStorage,
	probe ports.DurationProber,
	cleaner ports.Cleaner,
	uploadDir string,
	maxFileSize int64,
	log *logger.ZapLogger,
) *UploadHandler {
	return &UploadHandler{
		uploads:     uploads,
		storage:     storage,
		probe:       probe,
		cleaner:     cleaner,
		uploadDir:   uploadDir,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// Upload accepts one multipart audio file in the "audio" field, sniffs its
// real content type, stores it under a unique name and probes duration.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no audio file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}
	if int64(len(data)) > h.maxFileSize {
		writeError(w, http.StatusBadRequest, "file too large")
		return
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "audio/") && mtype.String() != "video/webm" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid file type %s, only audio files are allowed", mtype))
		return
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = mtype.Extension()
	}
	uniqueName := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	path := filepath.Join(h.uploadDir, uniqueName)

	if err := h.storage.Write(path, data); err != nil {
		writeError(w, http.StatusInternalServerError, "store upload: "+err.Error())
		return
	}

	var duration *float64
	if d, err := h.probe.Duration(r.Context(), path); err == nil {
		duration = &d
	} else {
		h.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "duration probe failed on upload",
			Fields:  map[string]any{"path": path},
			Error:   err,
		})
	}

	u, err := h.uploads.InsertUpload(r.Context(), &models.Upload{
		UserID:       UserID(r.Context()),
		Filename:     uniqueName,
		OriginalName: header.Filename,
		Path:         path,
		Size:         int64(len(data)),
		MimeType:     mtype.String(),
		Duration:     duration,
		Status:       models.UploadUploaded,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "file uploaded",
		Fields:  map[string]any{"uploadID": u.ID, "filename": uniqueName, "size": u.Size},
	})

	writeJSON(w, http.StatusCreated, u)
}

func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.uploads.ListUploads(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if out == nil {
		out = []models.Upload{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UploadHandler) ownUpload(w http.ResponseWriter, r *http.Request) *models.Upload {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil
	}

	u, err := h.uploads.GetUploadByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if u == nil || u.UserID != UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "upload not found")
		return nil
	}
	return u
}

func (h *UploadHandler) Get(w http.ResponseWriter, r *http.Request) {
	u := h.ownUpload(w, r)
	if u == nil {
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Delete refuses while any session still references the upload.
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u := h.ownUpload(w, r)
	if u == nil {
		return
	}

	n, err := h.uploads.CountSessionsUsingUpload(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if n > 0 {
		writeDomainError(w, domain.ErrUploadInUse)
		return
	}

	if err := h.storage.Remove(u.Path); err != nil && h.storage.Exists(u.Path) {
		writeError(w, http.StatusInternalServerError, "remove file: "+err.Error())
		return
	}

	if err := h.uploads.DeleteUpload(r.Context(), u.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "upload deleted"})
}

// Cleanup removes the media files of a transcribed upload on demand.
func (h *UploadHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	u := h.ownUpload(w, r)
	if u == nil {
		return
	}

	if err := h.cleaner.CleanupUpload(r.Context(), u.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cleanup completed"})
}
