package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"wallpresentation/internal/models"
	"wallpresentation/internal/services"
)

// AnalyticsHandler handles HTTP requests for analytics events
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// RecordEvent accepts one analytics event. Fire-and-forget from the
// engine's perspective; the response body is ignored by senders.
// POST /api/analytics/events
func (h *AnalyticsHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var event models.AnalyticsEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := event.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.analyticsService.InsertEvent(event); err != nil {
		log.Printf("Failed to record analytics event: %v", err)
		http.Error(w, "failed to record event", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RecordBeaconEvent accepts the teardown-time event. Identical payload
// shape; delivered through a transport usable during page unload, so the
// handler answers quickly and never asks the sender to wait.
// POST /api/analytics/events/beacon
func (h *AnalyticsHandler) RecordBeaconEvent(w http.ResponseWriter, r *http.Request) {
	var event models.AnalyticsEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.analyticsService.InsertEvent(event); err != nil {
		// The sending context is being torn down and will never read this;
		// log and acknowledge anyway.
		log.Printf("Failed to record beacon event: %v", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSummary returns per-section dwell summaries for the reporting screens.
// GET /api/analytics/{presentationId}?client_id=...
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	presentationID := mux.Vars(r)["presentationId"]
	clientID := r.URL.Query().Get("client_id")

	summaries, err := h.analyticsService.DwellSummary(presentationID, clientID)
	if err != nil {
		log.Printf("Failed to aggregate analytics: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []models.SectionDwell{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}
