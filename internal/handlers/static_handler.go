package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"wallpresentation/internal/services"
)

// StaticHandler serves uploaded item files. Upload encoding is out of
// scope; this only supplies the URLs the media renderer embeds.
type StaticHandler struct {
	store *services.PresentationStore
}

// NewStaticHandler creates a new static file handler
func NewStaticHandler(store *services.PresentationStore) *StaticHandler {
	return &StaticHandler{
		store: store,
	}
}

// ServeFile serves one item file addressed by presentation id, section id,
// and filename.
// GET /files/{presentationId}/section_{sectionId}/{filename}
func (h *StaticHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	path, err := h.store.FilePath(vars["presentationId"], vars["sectionId"], vars["filename"])
	if err != nil {
		http.Error(w, "invalid file path", http.StatusBadRequest)
		return
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("File not found: %s", path)
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	http.ServeFile(w, r, path)
}
