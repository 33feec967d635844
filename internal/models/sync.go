package models

// SyncKeyPrefix namespaces navigation sync entries in the shared store.
const SyncKeyPrefix = "sync:"

// SyncMessage carries the presenter's navigation cursor to client contexts.
// Ephemeral: any later message for the same presentation supersedes it.
type SyncMessage struct {
	PresentationID string `json:"presentationId"`
	SectionIndex   int    `json:"sectionIndex"`
	ItemIndex      int    `json:"itemIndex"`
	Timestamp      int64  `json:"timestamp"`
}

// SyncKey returns the shared store key for a presentation's sync state.
func SyncKey(presentationID string) string {
	return SyncKeyPrefix + presentationID
}
