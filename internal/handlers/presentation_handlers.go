package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"wallpresentation/internal/services"
)

// PresentationHandler handles HTTP requests for presentations
type PresentationHandler struct {
	store         *services.PresentationStore
	clientService *services.ClientService
}

// NewPresentationHandler creates a new presentation handler
func NewPresentationHandler(store *services.PresentationStore, clientService *services.ClientService) *PresentationHandler {
	return &PresentationHandler{
		store:         store,
		clientService: clientService,
	}
}

// GetPresentation returns a presentation with nested sections and items,
// ordered by sequence. The playback engine cannot leave Loading without it.
// GET /api/presentations/{id}
func (h *PresentationHandler) GetPresentation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "presentation id is required", http.StatusBadRequest)
		return
	}

	presentation, found := h.store.Get(id)
	if !found {
		http.Error(w, "presentation not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(presentation)
}

// GetClients lists the registered clients for a presentation
// GET /api/presentations/{id}/clients
func (h *PresentationHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	clients, err := h.clientService.GetClientsByPresentation(id)
	if err != nil {
		log.Printf("Failed to list clients: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clients)
}

// CreateClientRequest represents a request to register a client
type CreateClientRequest struct {
	Name string `json:"name"`
}

// CreateClient registers a new client for a presentation
// POST /api/presentations/{id}/clients
func (h *PresentationHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	client, err := h.clientService.CreateClient(id, req.Name)
	if err != nil {
		log.Printf("Failed to create client: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(client)
}
