package http

import (
	"io"
	"net/http"
	"path/filepath"

	"farmtap-backend/internal/logger"
	"farmtap-backend/internal/storage"

	"github.com/gorilla/mux"
)

// FileHandler serves images stored by the mock storage backend.
type FileHandler struct {
	mockStorage *storage.MockStorageService
}

func NewFileHandler(mockStorage *storage.MockStorageService) *FileHandler {
	return &FileHandler{mockStorage: mockStorage}
}

func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if err := storage.ValidateKey(key); err != nil {
		writeError(w, r, badRequest("invalid file key"))
		return
	}

	file, err := h.mockStorage.ReadFile(key)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "file not found"})
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".gif":
		contentType = "image/gif"
	case ".webp":
		contentType = "image/webp"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, file); err != nil {
		logger.WarnContext(r.Context(), "Failed to stream file", "key", key, "error", err)
	}
}
