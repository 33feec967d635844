package player

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallpresentation/internal/db"
	"wallpresentation/internal/engine"
	"wallpresentation/internal/handlers"
	"wallpresentation/internal/media"
	"wallpresentation/internal/models"
	"wallpresentation/internal/services"
	"wallpresentation/internal/syncnet"
)

func TestParseLaunchURL(t *testing.T) {
	launch, err := ParseLaunchURL("https://walls.example.com/presentations/showroom?client=c-1&mode=client")
	require.NoError(t, err)
	assert.Equal(t, "showroom", launch.PresentationID)
	assert.Equal(t, "c-1", launch.ClientID)
	assert.True(t, launch.ClientMode)
}

func TestParseLaunchURLPresenterDefaults(t *testing.T) {
	launch, err := ParseLaunchURL("/presentations/showroom")
	require.NoError(t, err)
	assert.Equal(t, "showroom", launch.PresentationID)
	assert.Empty(t, launch.ClientID)
	assert.False(t, launch.ClientMode)
}

func TestParseLaunchURLRejectsOtherPaths(t *testing.T) {
	for _, raw := range []string{
		"/presentations/",
		"/analytics/showroom",
		"/",
	} {
		_, err := ParseLaunchURL(raw)
		assert.Error(t, err, "url %q", raw)
	}
}

// testBackend runs the real API over httptest for session tests.
type testBackend struct {
	server    *httptest.Server
	analytics *services.AnalyticsService
}

func setupBackend(t *testing.T) *testBackend {
	t.Helper()
	dataDir := t.TempDir()

	database, err := sql.Open("sqlite3", filepath.Join(dataDir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.CreateTables(database))
	t.Cleanup(func() { database.Close() })

	store, err := services.NewPresentationStore(dataDir)
	require.NoError(t, err)
	require.NoError(t, store.Put(&models.Presentation{
		ID:    "showroom",
		Title: "Showroom Tour",
		Sections: []models.Section{
			{ID: "sec-a", Type: models.SectionImageSet, Seq: 0, Items: []models.Item{
				{ID: "i1", SourceRef: "a.jpg", Seq: 0},
				{ID: "i2", SourceRef: "b.jpg", Seq: 1},
			}},
			{ID: "sec-b", Type: models.SectionPanorama, Seq: 1, Items: []models.Item{
				{ID: "p1", SourceRef: "pano.jpg", Seq: 0},
			}},
		},
	}))

	clientService := services.NewClientService(database)
	analyticsService := services.NewAnalyticsService(database)
	syncStore := syncnet.NewStore(database)
	t.Cleanup(syncStore.Close)

	router := handlers.SetupRoutes(
		handlers.NewPresentationHandler(store, clientService),
		handlers.NewAnalyticsHandler(analyticsService),
		handlers.NewSyncHandler(syncStore),
		handlers.NewStaticHandler(store),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testBackend{server: server, analytics: analyticsService}
}

func (b *testBackend) apiURL() string {
	return b.server.URL + "/api"
}

func waitForCursor(t *testing.T, eng *engine.Engine, want engine.Cursor) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if eng.Cursor() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("cursor never reached %+v, at %+v", want, eng.Cursor())
}

func TestPresenterSessionDrivesClientSession(t *testing.T) {
	backend := setupBackend(t)

	presenter := New(Options{
		APIBaseURL:   backend.apiURL(),
		FilesBaseURL: backend.server.URL,
		Launch:       Launch{PresentationID: "showroom"},
	})
	require.NoError(t, presenter.Start(context.Background()))
	defer presenter.Close()

	client := New(Options{
		APIBaseURL:   backend.apiURL(),
		FilesBaseURL: backend.server.URL,
		Launch:       Launch{PresentationID: "showroom", ClientMode: true},
	})
	require.NoError(t, client.Start(context.Background()))
	defer client.Close()

	assert.Equal(t, engine.StateReady, presenter.Engine().State())
	assert.Equal(t, engine.StateReady, client.Engine().State())

	// Client mutators are inert.
	assert.False(t, client.Engine().Next())

	// Presenter navigation reaches the client through the sync relay.
	require.True(t, presenter.Engine().Next())
	waitForCursor(t, client.Engine(), engine.Cursor{SectionIndex: 0, ItemIndex: 1})

	require.True(t, presenter.Engine().NextSection())
	waitForCursor(t, client.Engine(), engine.Cursor{SectionIndex: 1, ItemIndex: 0})
}

func TestRendererFollowsSection(t *testing.T) {
	backend := setupBackend(t)

	p := New(Options{
		APIBaseURL:   backend.apiURL(),
		FilesBaseURL: backend.server.URL,
		Launch:       Launch{PresentationID: "showroom"},
	})
	require.NoError(t, p.Start(context.Background()))
	defer p.Close()

	assert.IsType(t, &media.StaticRenderer{}, p.Renderer())

	require.True(t, p.Engine().JumpToSection(1))
	assert.IsType(t, &media.PanoramaRenderer{}, p.Renderer())
}

func TestCloseEmitsPresentationExit(t *testing.T) {
	backend := setupBackend(t)

	p := New(Options{
		APIBaseURL:   backend.apiURL(),
		FilesBaseURL: backend.server.URL,
		Launch:       Launch{PresentationID: "showroom", ClientID: "client-1"},
	})
	require.NoError(t, p.Start(context.Background()))

	p.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		summaries, err := backend.analytics.DwellSummary("showroom", "client-1")
		require.NoError(t, err)
		if len(summaries) == 1 && summaries[0].Views == 1 && summaries[0].TotalDurationMs >= 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("presentation_exit never reached the backend")
}

func TestStartFailsOnUnknownPresentation(t *testing.T) {
	backend := setupBackend(t)

	p := New(Options{
		APIBaseURL: backend.apiURL(),
		Launch:     Launch{PresentationID: "missing"},
	})
	err := p.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, engine.StateError, p.Engine().State())
	p.Close()
}
