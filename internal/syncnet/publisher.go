package syncnet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"wallpresentation/internal/models"
)

// ContextHeader carries the writer's context identity on sync publishes so
// the store never echoes a write back to its origin.
const ContextHeader = "X-Sync-Context"

// StorePublisher publishes cursor updates directly to a sync store. Used by
// presenter contexts running in the same process as the store.
type StorePublisher struct {
	store     *Store
	contextID string
}

// NewStorePublisher creates a publisher with a fresh context identity.
func NewStorePublisher(store *Store) *StorePublisher {
	return &StorePublisher{
		store:     store,
		contextID: uuid.NewString(),
	}
}

// ContextID returns the publisher's context identity.
func (p *StorePublisher) ContextID() string {
	return p.contextID
}

// Publish serializes the message and writes it under the presentation's
// sync key.
func (p *StorePublisher) Publish(ctx context.Context, msg models.SyncMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal sync message: %w", err)
	}
	return p.store.Publish(ctx, p.contextID, models.SyncKey(msg.PresentationID), payload)
}

// HTTPPublisher publishes cursor updates to a remote sync store through the
// backend's sync endpoint. Used by presenter contexts in other processes.
type HTTPPublisher struct {
	baseURL   string
	contextID string
	client    *http.Client
}

// NewHTTPPublisher creates an HTTP publisher against the given API base URL.
func NewHTTPPublisher(baseURL string) *HTTPPublisher {
	return &HTTPPublisher{
		baseURL:   baseURL,
		contextID: uuid.NewString(),
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Publish posts the message to the sync endpoint. Best-effort: the caller
// logs and drops errors, navigation is never blocked on delivery.
func (p *HTTPPublisher) Publish(ctx context.Context, msg models.SyncMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal sync message: %w", err)
	}
	url := fmt.Sprintf("%s/sync/%s", p.baseURL, msg.PresentationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(ContextHeader, p.contextID)
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post sync message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sync publish returned status %d", resp.StatusCode)
	}
	return nil
}
