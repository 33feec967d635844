package models

import "fmt"

// SectionType identifies the media kind of a section and selects its renderer.
type SectionType string

const (
	SectionImageSet  SectionType = "image-set"
	SectionVideoSet  SectionType = "video-set"
	SectionMap       SectionType = "map"
	SectionPDF       SectionType = "pdf"
	SectionSlideDeck SectionType = "slide-deck"
	SectionPanorama  SectionType = "panorama"
)

// ValidSectionType reports whether t is one of the known section types.
func ValidSectionType(t SectionType) bool {
	switch t {
	case SectionImageSet, SectionVideoSet, SectionMap, SectionPDF, SectionSlideDeck, SectionPanorama:
		return true
	}
	return false
}

// Item is a single piece of media within a section. SourceRef is either an
// uploaded filename (resolved against the files endpoint) or an absolute URL
// for embedded content such as maps.
type Item struct {
	ID        string `json:"id"`
	SourceRef string `json:"sourceRef"`
	Seq       int    `json:"seq"`
}

// Section groups items of one media type. Seq defines navigation order.
type Section struct {
	ID      string      `json:"id"`
	Heading string      `json:"heading"`
	Type    SectionType `json:"type"`
	Seq     int         `json:"seq"`
	Items   []Item      `json:"items"`
}

// Presentation is the full slide sequence. Read-only within the playback
// engine; owned by the backing store.
type Presentation struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Validate checks the structural requirements the playback engine relies on.
func (p *Presentation) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("presentation id is required")
	}
	if len(p.Sections) == 0 {
		return fmt.Errorf("presentation %s has no sections", p.ID)
	}
	for i, section := range p.Sections {
		if section.ID == "" {
			return fmt.Errorf("section %d has no id", i)
		}
		if !ValidSectionType(section.Type) {
			return fmt.Errorf("section %s has unknown type %q", section.ID, section.Type)
		}
	}
	return nil
}
