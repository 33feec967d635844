package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"wallpresentation/internal/models"
)

// presentationsFile is the root structure of presentations.json
type presentationsFile struct {
	Presentations map[string]*models.Presentation `json:"presentations"`
}

// PresentationStore manages presentation documents in a JSON file. The
// playback engine only reads; writes come from the excluded authoring
// screens.
type PresentationStore struct {
	mu       sync.RWMutex
	filePath string
	dataPath string
	data     *presentationsFile
}

// NewPresentationStore creates a new presentation store and loads data
func NewPresentationStore(dataPath string) (*PresentationStore, error) {
	filePath := filepath.Join(dataPath, "presentations.json")

	store := &PresentationStore{
		filePath: filePath,
		dataPath: dataPath,
		data: &presentationsFile{
			Presentations: make(map[string]*models.Presentation),
		},
	}

	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load presentations: %w", err)
	}

	return store, nil
}

// Load reads presentations.json or keeps an empty structure if the file
// doesn't exist yet.
func (s *PresentationStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		log.Printf("Presentations file not found, starting empty: %s", s.filePath)
		return nil
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read presentations file: %w", err)
	}

	var file presentationsFile
	if err := json.Unmarshal(data, &file); err != nil {
		log.Printf("Failed to parse presentations.json, using empty structure: %v", err)
		return nil
	}
	if file.Presentations == nil {
		file.Presentations = make(map[string]*models.Presentation)
	}

	s.data = &file
	log.Printf("Loaded %d presentations from %s", len(s.data.Presentations), s.filePath)
	return nil
}

// save atomically writes presentations.json (temp file → rename)
// Must be called with lock held
func (s *PresentationStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal presentations: %w", err)
	}

	tempPath := s.filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	file, err := os.OpenFile(tempPath, os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open temp file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	file.Close()

	if err := os.Rename(tempPath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Get returns a presentation by id with sections and items ordered by
// sequence. The returned document is a copy; callers cannot mutate the
// store through it.
func (s *PresentationStore) Get(id string) (*models.Presentation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.data.Presentations[id]
	if !exists {
		return nil, false
	}

	p := &models.Presentation{
		ID:       record.ID,
		Title:    record.Title,
		Sections: make([]models.Section, len(record.Sections)),
	}
	copy(p.Sections, record.Sections)
	sort.SliceStable(p.Sections, func(i, j int) bool {
		return p.Sections[i].Seq < p.Sections[j].Seq
	})
	for i := range p.Sections {
		items := make([]models.Item, len(p.Sections[i].Items))
		copy(items, p.Sections[i].Items)
		sort.SliceStable(items, func(a, b int) bool {
			return items[a].Seq < items[b].Seq
		})
		p.Sections[i].Items = items
	}
	return p, true
}

// Put stores a presentation document and saves the file.
func (s *PresentationStore) Put(p *models.Presentation) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("presentation id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Presentations == nil {
		s.data.Presentations = make(map[string]*models.Presentation)
	}
	s.data.Presentations[p.ID] = p

	if err := s.save(); err != nil {
		return fmt.Errorf("failed to save after storing presentation: %w", err)
	}

	log.Printf("Stored presentation %s with %d sections", p.ID, len(p.Sections))
	return nil
}

// FilePath resolves an uploaded item file on disk. Paths are confined to
// the store's data directory.
func (s *PresentationStore) FilePath(presentationID, sectionID, filename string) (string, error) {
	name := filepath.Base(filename)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename: %s", filename)
	}
	return filepath.Join(s.dataPath, "presentations", presentationID, "section_"+sectionID, name), nil
}
