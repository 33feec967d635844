package media

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"wallpresentation/internal/engine"
	"wallpresentation/internal/models"
)

// PlaceholderURL is the asset shown in place of a broken media source.
const PlaceholderURL = "/assets/placeholder.png"

// SourceResolver builds the URL the renderer embeds for an item. Uploaded
// files are addressed by presentation id, section id, and filename; absolute
// URLs (map embeds) pass through untouched.
type SourceResolver struct {
	FilesBaseURL string
}

// Resolve returns the embeddable URL for an item within a section.
func (r *SourceResolver) Resolve(presentationID, sectionID string, item models.Item) string {
	if strings.HasPrefix(item.SourceRef, "http://") || strings.HasPrefix(item.SourceRef, "https://") {
		return item.SourceRef
	}
	return fmt.Sprintf("%s/files/%s/section_%s/%s", r.FilesBaseURL, presentationID, sectionID, item.SourceRef)
}

// View is what the host surface displays for the current item.
type View struct {
	Type      models.SectionType
	Heading   string
	SourceURL string
	// Fallback is set when the item's source is known to be broken and the
	// placeholder asset is shown instead.
	Fallback bool
}

// Renderer produces views for the items of one section. A renderer's
// lifetime is scoped to "this section is current": it is created on section
// entry and closed when the cursor leaves the section.
type Renderer interface {
	View(item models.Item) View
	// ReportBroken marks an item's source unreachable. The failure is local
	// to that item; subsequent views of it fall back to the placeholder.
	ReportBroken(item models.Item)
	Close()
}

// ForSection dispatches to the renderer implementation for the section's
// type.
func ForSection(presentationID string, section models.Section, resolver *SourceResolver, role engine.Role) (Renderer, error) {
	base := func() baseRenderer {
		return baseRenderer{
			presentationID: presentationID,
			section:        section,
			resolver:       resolver,
			broken:         make(map[string]bool),
		}
	}
	switch section.Type {
	case models.SectionImageSet, models.SectionMap, models.SectionPDF, models.SectionSlideDeck:
		return &StaticRenderer{baseRenderer: base()}, nil
	case models.SectionVideoSet:
		return &VideoRenderer{baseRenderer: base(), state: NewVideoState(role)}, nil
	case models.SectionPanorama:
		return &PanoramaRenderer{baseRenderer: base(), viewer: NewViewer(DefaultViewportWidth)}, nil
	default:
		return nil, fmt.Errorf("no renderer for section type %q", section.Type)
	}
}

// baseRenderer carries the shared source resolution and broken-item state.
type baseRenderer struct {
	mu             sync.Mutex
	presentationID string
	section        models.Section
	resolver       *SourceResolver
	broken         map[string]bool
}

func (b *baseRenderer) view(item models.Item) View {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := View{
		Type:      b.section.Type,
		Heading:   b.section.Heading,
		SourceURL: b.resolver.Resolve(b.presentationID, b.section.ID, item),
	}
	if b.broken[item.ID] {
		v.SourceURL = PlaceholderURL
		v.Fallback = true
	}
	return v
}

func (b *baseRenderer) ReportBroken(item models.Item) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.broken[item.ID] {
		log.Printf("Media source failed to load: section=%s item=%s", b.section.ID, item.ID)
		b.broken[item.ID] = true
	}
}

// StaticRenderer displays image-set, pdf, slide-deck, and map sections. It
// owns no interaction state: the view is driven entirely by the current
// item's source reference.
type StaticRenderer struct {
	baseRenderer
}

// View implements Renderer.
func (r *StaticRenderer) View(item models.Item) View {
	return r.view(item)
}

// Close implements Renderer.
func (r *StaticRenderer) Close() {}

// VideoRenderer displays video-set sections and owns the playback state.
type VideoRenderer struct {
	baseRenderer
	state *VideoState
}

// View implements Renderer.
func (r *VideoRenderer) View(item models.Item) View {
	return r.view(item)
}

// State returns the owned playback state.
func (r *VideoRenderer) State() *VideoState {
	return r.state
}

// Close implements Renderer.
func (r *VideoRenderer) Close() {}

// PanoramaRenderer displays 360° panorama sections and owns the gesture
// engine.
type PanoramaRenderer struct {
	baseRenderer
	viewer *Viewer
}

// View implements Renderer.
func (r *PanoramaRenderer) View(item models.Item) View {
	return r.view(item)
}

// Viewer returns the owned gesture engine.
func (r *PanoramaRenderer) Viewer() *Viewer {
	return r.viewer
}

// Close cancels the viewer's auto-rotation.
func (r *PanoramaRenderer) Close() {
	r.viewer.Close()
}
