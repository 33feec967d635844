package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"wallpresentation/internal/models"
)

// Sender delivers analytics events. Implementations are best-effort: every
// failure is logged and swallowed, nothing is retried, and nothing blocks
// navigation.
type Sender interface {
	// Send delivers an event asynchronously.
	Send(event models.AnalyticsEvent)
	// SendFinal delivers the teardown event synchronously through the
	// beacon path, with at most one last-resort fallback attempt.
	SendFinal(event models.AnalyticsEvent)
}

// HTTPSender posts events to the backend analytics endpoints.
type HTTPSender struct {
	baseURL string
	client  *http.Client
	// beacon uses a short timeout so teardown is never held hostage by a
	// slow network.
	beacon *http.Client
}

// NewHTTPSender creates a sender against the given API base URL.
func NewHTTPSender(baseURL string) *HTTPSender {
	return &HTTPSender{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		beacon:  &http.Client{Timeout: 2 * time.Second},
	}
}

// Send posts the event on its own goroutine. Fire-and-forget.
func (s *HTTPSender) Send(event models.AnalyticsEvent) {
	go func() {
		if err := s.post(s.client, s.baseURL+"/analytics/events", event); err != nil {
			log.Printf("Failed to record analytics event: %v", err)
		}
	}()
}

// SendFinal posts the event through the beacon endpoint. If the beacon path
// is unavailable it falls back to one synchronous send on the normal
// endpoint, then gives up.
func (s *HTTPSender) SendFinal(event models.AnalyticsEvent) {
	err := s.post(s.beacon, s.baseURL+"/analytics/events/beacon", event)
	if err == nil {
		return
	}
	log.Printf("Beacon send failed, falling back to normal endpoint: %v", err)
	if err := s.post(s.beacon, s.baseURL+"/analytics/events", event); err != nil {
		log.Printf("Failed to record final analytics event: %v", err)
	}
}

func (s *HTTPSender) post(client *http.Client, url string, event models.AnalyticsEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to post event: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("analytics endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
