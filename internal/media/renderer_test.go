package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallpresentation/internal/engine"
	"wallpresentation/internal/models"
)

func testResolver() *SourceResolver {
	return &SourceResolver{FilesBaseURL: "http://localhost:8090"}
}

func TestResolverBuildsFileURLs(t *testing.T) {
	r := testResolver()

	url := r.Resolve("p1", "s1", models.Item{SourceRef: "photo.jpg"})
	assert.Equal(t, "http://localhost:8090/files/p1/section_s1/photo.jpg", url)
}

func TestResolverPassesThroughAbsoluteURLs(t *testing.T) {
	r := testResolver()

	embed := "https://maps.example.com/embed?q=showroom"
	assert.Equal(t, embed, r.Resolve("p1", "s1", models.Item{SourceRef: embed}))
}

func TestForSectionDispatchesByType(t *testing.T) {
	cases := []struct {
		sectionType models.SectionType
		want        any
	}{
		{models.SectionImageSet, &StaticRenderer{}},
		{models.SectionMap, &StaticRenderer{}},
		{models.SectionPDF, &StaticRenderer{}},
		{models.SectionSlideDeck, &StaticRenderer{}},
		{models.SectionVideoSet, &VideoRenderer{}},
		{models.SectionPanorama, &PanoramaRenderer{}},
	}

	for _, tc := range cases {
		section := models.Section{ID: "s1", Type: tc.sectionType}
		renderer, err := ForSection("p1", section, testResolver(), engine.RolePresenter)
		require.NoError(t, err, "type %s", tc.sectionType)
		assert.IsType(t, tc.want, renderer, "type %s", tc.sectionType)
		renderer.Close()
	}
}

func TestForSectionRejectsUnknownType(t *testing.T) {
	_, err := ForSection("p1", models.Section{ID: "s1", Type: "hologram"}, testResolver(), engine.RolePresenter)
	assert.Error(t, err)
}

func TestBrokenSourceFallsBackToPlaceholder(t *testing.T) {
	section := models.Section{ID: "s1", Type: models.SectionImageSet, Heading: "Gallery"}
	renderer, err := ForSection("p1", section, testResolver(), engine.RolePresenter)
	require.NoError(t, err)

	item := models.Item{ID: "i1", SourceRef: "missing.jpg"}
	view := renderer.View(item)
	assert.False(t, view.Fallback)

	renderer.ReportBroken(item)
	view = renderer.View(item)
	assert.True(t, view.Fallback)
	assert.Equal(t, PlaceholderURL, view.SourceURL)

	// The failure is local to that item.
	other := renderer.View(models.Item{ID: "i2", SourceRef: "fine.jpg"})
	assert.False(t, other.Fallback)
}

func TestVideoClientRoleAutoplaysMutedAndSuppressesClicks(t *testing.T) {
	state := NewVideoState(engine.RoleClient)

	state.SetMetadata(120)
	playing, muted, _, duration := state.Snapshot()
	assert.True(t, playing)
	assert.True(t, muted)
	assert.Equal(t, 120.0, duration)

	state.HandleClick()
	playing, _, _, _ = state.Snapshot()
	assert.True(t, playing, "client clicks must not pause playback")
}

func TestVideoPresenterClickTogglesPlayback(t *testing.T) {
	state := NewVideoState(engine.RolePresenter)
	state.SetMetadata(60)

	playing, muted, _, _ := state.Snapshot()
	assert.False(t, playing)
	assert.False(t, muted)

	state.HandleClick()
	playing, _, _, _ = state.Snapshot()
	assert.True(t, playing)

	state.HandleClick()
	playing, _, _, _ = state.Snapshot()
	assert.False(t, playing)
}

func TestVideoSeekClampsToDuration(t *testing.T) {
	state := NewVideoState(engine.RolePresenter)
	state.SetMetadata(90)

	state.Seek(120)
	_, _, position, _ := state.Snapshot()
	assert.Equal(t, 90.0, position)

	state.Seek(-5)
	_, _, position, _ = state.Snapshot()
	assert.Equal(t, 0.0, position)
}

func TestVideoEndedStopsPlayback(t *testing.T) {
	state := NewVideoState(engine.RolePresenter)
	state.Play()
	state.Ended()

	playing, _, _, _ := state.Snapshot()
	assert.False(t, playing)
}
