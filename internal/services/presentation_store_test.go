package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallpresentation/internal/models"
)

func storedPresentation() *models.Presentation {
	return &models.Presentation{
		ID:    "showroom",
		Title: "Showroom Tour",
		Sections: []models.Section{
			{ID: "sec-last", Type: models.SectionMap, Seq: 2, Items: []models.Item{{ID: "m1", Seq: 0}}},
			{ID: "sec-first", Type: models.SectionImageSet, Seq: 0, Items: []models.Item{
				{ID: "i-late", SourceRef: "b.jpg", Seq: 1},
				{ID: "i-early", SourceRef: "a.jpg", Seq: 0},
			}},
			{ID: "sec-mid", Type: models.SectionPanorama, Seq: 1},
		},
	}
}

func TestStoreStartsEmptyWithoutFile(t *testing.T) {
	store, err := NewPresentationStore(t.TempDir())
	require.NoError(t, err)

	_, found := store.Get("anything")
	assert.False(t, found)
}

func TestPutThenGetOrdersBySeq(t *testing.T) {
	store, err := NewPresentationStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(storedPresentation()))

	p, found := store.Get("showroom")
	require.True(t, found)
	assert.Equal(t, "Showroom Tour", p.Title)
	require.Len(t, p.Sections, 3)
	assert.Equal(t, "sec-first", p.Sections[0].ID)
	assert.Equal(t, "sec-mid", p.Sections[1].ID)
	assert.Equal(t, "sec-last", p.Sections[2].ID)
	assert.Equal(t, "i-early", p.Sections[0].Items[0].ID)
	assert.Equal(t, "i-late", p.Sections[0].Items[1].ID)
}

func TestGetReturnsACopy(t *testing.T) {
	store, err := NewPresentationStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Put(storedPresentation()))

	p, found := store.Get("showroom")
	require.True(t, found)
	p.Sections[0].Heading = "vandalized"
	p.Sections[0].Items[0].SourceRef = "vandalized.jpg"

	fresh, _ := store.Get("showroom")
	assert.NotEqual(t, "vandalized", fresh.Sections[0].Heading)
	assert.NotEqual(t, "vandalized.jpg", fresh.Sections[0].Items[0].SourceRef)
}

func TestPutPersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPresentationStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(storedPresentation()))

	reopened, err := NewPresentationStore(dir)
	require.NoError(t, err)
	p, found := reopened.Get("showroom")
	require.True(t, found)
	assert.Equal(t, "Showroom Tour", p.Title)
}

func TestPutRejectsMissingID(t *testing.T) {
	store, err := NewPresentationStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Put(&models.Presentation{Title: "anonymous"}))
	assert.Error(t, store.Put(nil))
}

func TestFilePathConfinesToDataDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPresentationStore(dir)
	require.NoError(t, err)

	path, err := store.FilePath("p1", "s1", "photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "presentations", "p1", "section_s1", "photo.jpg"), path)

	// Traversal attempts are stripped down to the base name.
	path, err = store.FilePath("p1", "s1", "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "presentations", "p1", "section_s1", "passwd"), path)
}
