package models

import "fmt"

// EventType enumerates the analytics lifecycle events the engine emits.
type EventType string

const (
	EventEnterSection     EventType = "enter_section"
	EventLeaveSection     EventType = "leave_section"
	EventPresentationExit EventType = "presentation_exit"
)

// AnalyticsEvent is a write-once, fire-and-forget dwell-time record.
// DurationMs is present on leave_section and presentation_exit only.
// Extra is a JSON object with numeric section/item indices and, for
// cross-section jumps, the direction and source/destination indices.
type AnalyticsEvent struct {
	PresentationID string    `json:"presentation_id"`
	ClientID       string    `json:"client_id"`
	SectionID      string    `json:"section_id"`
	ItemID         string    `json:"item_id,omitempty"`
	EventType      EventType `json:"event_type"`
	TS             int64     `json:"ts"`
	DurationMs     *int64    `json:"duration_ms,omitempty"`
	Extra          string    `json:"extra,omitempty"`
}

// Validate checks the fields the ingest store requires.
func (e *AnalyticsEvent) Validate() error {
	if e.PresentationID == "" {
		return fmt.Errorf("presentation_id cannot be empty")
	}
	if e.ClientID == "" {
		return fmt.Errorf("client_id cannot be empty")
	}
	if e.SectionID == "" {
		return fmt.Errorf("section_id cannot be empty")
	}
	switch e.EventType {
	case EventEnterSection, EventLeaveSection, EventPresentationExit:
	default:
		return fmt.Errorf("invalid event type: %s", e.EventType)
	}
	if e.TS <= 0 {
		return fmt.Errorf("timestamp must be positive")
	}
	return nil
}

// SectionDwell is an aggregated per-section dwell summary consumed by the
// analytics reporting screens.
type SectionDwell struct {
	SectionID       string `json:"section_id"`
	Views           int    `json:"views"`
	TotalDurationMs int64  `json:"total_duration_ms"`
	AvgDurationMs   int64  `json:"avg_duration_ms"`
}
