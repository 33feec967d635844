package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"wallpresentation/internal/models"
)

// Loader fetches presentations from the backend API.
type Loader struct {
	baseURL string
	client  *http.Client
}

// NewLoader creates a loader for the given API base URL, e.g.
// "http://localhost:8090/api".
func NewLoader(baseURL string) *Loader {
	return &Loader{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch retrieves a presentation by id.
func (l *Loader) Fetch(ctx context.Context, id string) (*models.Presentation, error) {
	url := fmt.Sprintf("%s/presentations/%s", l.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch presentation %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("presentation fetch returned status %d", resp.StatusCode)
	}
	var p models.Presentation
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode presentation: %w", err)
	}
	return &p, nil
}

// Load fetches the presentation and transitions the engine to Ready, or to
// Error on any load failure. The engine leaves StateLoading exactly once.
func (e *Engine) Load(ctx context.Context, loader *Loader, id string) error {
	p, err := loader.Fetch(ctx, id)
	if err != nil {
		e.setError(err)
		return err
	}
	return e.SetReady(p)
}
