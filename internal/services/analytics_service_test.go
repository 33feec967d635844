package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallpresentation/internal/db"
	"wallpresentation/internal/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.CreateTables(database))
	t.Cleanup(func() { database.Close() })
	return database
}

func durationPtr(ms int64) *int64 {
	return &ms
}

func validEvent(eventType models.EventType) models.AnalyticsEvent {
	event := models.AnalyticsEvent{
		PresentationID: "pres-1",
		ClientID:       "client-1",
		SectionID:      "sec-a",
		EventType:      eventType,
		TS:             1700000000000,
	}
	if eventType != models.EventEnterSection {
		event.DurationMs = durationPtr(2000)
	}
	return event
}

func TestInsertEvent(t *testing.T) {
	service := NewAnalyticsService(setupTestDB(t))

	require.NoError(t, service.InsertEvent(validEvent(models.EventEnterSection)))

	summaries, err := service.DwellSummary("pres-1", "")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "sec-a", summaries[0].SectionID)
	assert.Equal(t, 1, summaries[0].Views)
}

func TestInsertEventRejectsInvalid(t *testing.T) {
	service := NewAnalyticsService(setupTestDB(t))

	event := validEvent(models.EventEnterSection)
	event.ClientID = ""
	assert.Error(t, service.InsertEvent(event))

	event = validEvent(models.EventEnterSection)
	event.EventType = "clicked_banner"
	assert.Error(t, service.InsertEvent(event))
}

func TestInsertEventsBatchIsAtomic(t *testing.T) {
	service := NewAnalyticsService(setupTestDB(t))

	bad := validEvent(models.EventLeaveSection)
	bad.SectionID = ""
	err := service.InsertEvents([]models.AnalyticsEvent{
		validEvent(models.EventEnterSection),
		bad,
	})
	require.Error(t, err)

	summaries, err := service.DwellSummary("pres-1", "")
	require.NoError(t, err)
	assert.Empty(t, summaries, "a failed batch must not leave partial rows")
}

func TestDwellSummaryAggregatesPerSection(t *testing.T) {
	service := NewAnalyticsService(setupTestDB(t))

	events := []models.AnalyticsEvent{
		{PresentationID: "pres-1", ClientID: "client-1", SectionID: "sec-a", EventType: models.EventEnterSection, TS: 1},
		{PresentationID: "pres-1", ClientID: "client-1", SectionID: "sec-a", EventType: models.EventLeaveSection, TS: 2, DurationMs: durationPtr(3000)},
		{PresentationID: "pres-1", ClientID: "client-1", SectionID: "sec-a", EventType: models.EventEnterSection, TS: 3},
		{PresentationID: "pres-1", ClientID: "client-1", SectionID: "sec-a", EventType: models.EventLeaveSection, TS: 4, DurationMs: durationPtr(1000)},
		{PresentationID: "pres-1", ClientID: "client-1", SectionID: "sec-b", EventType: models.EventEnterSection, TS: 5},
		{PresentationID: "pres-1", ClientID: "client-1", SectionID: "sec-b", EventType: models.EventPresentationExit, TS: 6, DurationMs: durationPtr(500)},
	}
	require.NoError(t, service.InsertEvents(events))

	summaries, err := service.DwellSummary("pres-1", "")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	secA := summaries[0]
	assert.Equal(t, "sec-a", secA.SectionID)
	assert.Equal(t, 2, secA.Views)
	assert.Equal(t, int64(4000), secA.TotalDurationMs)
	assert.Equal(t, int64(2000), secA.AvgDurationMs)

	secB := summaries[1]
	assert.Equal(t, "sec-b", secB.SectionID)
	assert.Equal(t, 1, secB.Views)
	assert.Equal(t, int64(500), secB.TotalDurationMs)
}

func TestDwellSummaryFiltersByClient(t *testing.T) {
	service := NewAnalyticsService(setupTestDB(t))

	require.NoError(t, service.InsertEvents([]models.AnalyticsEvent{
		{PresentationID: "pres-1", ClientID: "client-1", SectionID: "sec-a", EventType: models.EventEnterSection, TS: 1},
		{PresentationID: "pres-1", ClientID: "client-2", SectionID: "sec-a", EventType: models.EventEnterSection, TS: 2},
	}))

	summaries, err := service.DwellSummary("pres-1", "client-2")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].Views)
}

func TestDwellSummaryScopedToPresentation(t *testing.T) {
	service := NewAnalyticsService(setupTestDB(t))

	other := validEvent(models.EventEnterSection)
	other.PresentationID = "pres-2"
	require.NoError(t, service.InsertEvent(other))

	summaries, err := service.DwellSummary("pres-1", "")
	require.NoError(t, err)
	assert.Empty(t, summaries)
}
