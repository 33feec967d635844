package services

import (
	"database/sql"
	"fmt"
	"log"

	"wallpresentation/internal/models"
)

// AnalyticsService ingests and aggregates dwell-time analytics events
type AnalyticsService struct {
	database *sql.DB
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(database *sql.DB) *AnalyticsService {
	return &AnalyticsService{
		database: database,
	}
}

// InsertEvent validates and stores a single analytics event
func (as *AnalyticsService) InsertEvent(event models.AnalyticsEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	query := `INSERT INTO analytics_events
		(presentation_id, client_id, section_id, item_id, event_type, ts, duration_ms, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var itemID sql.NullString
	if event.ItemID != "" {
		itemID = sql.NullString{String: event.ItemID, Valid: true}
	}
	var durationMs sql.NullInt64
	if event.DurationMs != nil {
		durationMs = sql.NullInt64{Int64: *event.DurationMs, Valid: true}
	}

	if _, err := as.database.Exec(query,
		event.PresentationID,
		event.ClientID,
		event.SectionID,
		itemID,
		string(event.EventType),
		event.TS,
		durationMs,
		event.Extra,
	); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	log.Printf("Analytics event recorded: type=%s, presentation=%s, section=%s",
		event.EventType, event.PresentationID, event.SectionID)
	return nil
}

// InsertEvents stores a batch of events in a single transaction
func (as *AnalyticsService) InsertEvents(events []models.AnalyticsEvent) error {
	transaction, err := as.database.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	statement, err := transaction.Prepare(`INSERT INTO analytics_events
		(presentation_id, client_id, section_id, item_id, event_type, ts, duration_ms, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = transaction.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer statement.Close()

	for _, event := range events {
		if err := event.Validate(); err != nil {
			_ = transaction.Rollback()
			return fmt.Errorf("invalid event: %w", err)
		}

		var itemID sql.NullString
		if event.ItemID != "" {
			itemID = sql.NullString{String: event.ItemID, Valid: true}
		}
		var durationMs sql.NullInt64
		if event.DurationMs != nil {
			durationMs = sql.NullInt64{Int64: *event.DurationMs, Valid: true}
		}

		if _, err := statement.Exec(
			event.PresentationID,
			event.ClientID,
			event.SectionID,
			itemID,
			string(event.EventType),
			event.TS,
			durationMs,
			event.Extra,
		); err != nil {
			_ = transaction.Rollback()
			return fmt.Errorf("failed to execute statement: %w", err)
		}
	}

	if err := transaction.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DwellSummary aggregates per-section dwell time for a presentation,
// optionally filtered by client. Durations come from leave_section and
// presentation_exit events; views count enter_section events.
func (as *AnalyticsService) DwellSummary(presentationID, clientID string) ([]models.SectionDwell, error) {
	query := `SELECT section_id,
		SUM(CASE WHEN event_type = 'enter_section' THEN 1 ELSE 0 END) AS views,
		COALESCE(SUM(CASE WHEN duration_ms IS NOT NULL THEN duration_ms ELSE 0 END), 0) AS total_ms,
		SUM(CASE WHEN duration_ms IS NOT NULL THEN 1 ELSE 0 END) AS timed
		FROM analytics_events
		WHERE presentation_id = ?`
	args := []interface{}{presentationID}
	if clientID != "" {
		query += ` AND client_id = ?`
		args = append(args, clientID)
	}
	query += ` GROUP BY section_id ORDER BY section_id`

	rows, err := as.database.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dwell summary: %w", err)
	}
	defer rows.Close()

	var summaries []models.SectionDwell
	for rows.Next() {
		var dwell models.SectionDwell
		var timed int64
		if err := rows.Scan(&dwell.SectionID, &dwell.Views, &dwell.TotalDurationMs, &timed); err != nil {
			return nil, fmt.Errorf("failed to scan dwell summary: %w", err)
		}
		if timed > 0 {
			dwell.AvgDurationMs = dwell.TotalDurationMs / timed
		}
		summaries = append(summaries, dwell)
	}

	return summaries, rows.Err()
}
