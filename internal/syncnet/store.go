package syncnet

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Store is the shared persistent key-value transport behind the sync
// channel. Writes are persisted to SQLite and change notifications are
// fanned out to every subscribed context except the writer, mirroring how a
// browser storage event is delivered only to other browsing contexts.
//
// Only the presenter context writes a given key, so the access pattern is
// single-writer/multiple-reader. Subscribers that fall behind keep only the
// latest notification: a newer cursor always supersedes an older one.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	subs   map[string]map[string]chan []byte
	closed bool
}

// NewStore creates a sync store over an initialized database.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:   db,
		subs: make(map[string]map[string]chan []byte),
	}
}

// Publish persists the payload under key and notifies all subscribers other
// than writerID.
func (s *Store) Publish(ctx context.Context, writerID, key string, payload []byte) error {
	query := `INSERT INTO sync_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, string(payload), time.Now()); err != nil {
		return fmt.Errorf("failed to persist sync state: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}
	for id, ch := range s.subs[key] {
		if id == writerID {
			// The writer never hears its own write.
			continue
		}
		offerLatest(ch, payload)
	}
	return nil
}

// offerLatest delivers payload on a capacity-1 channel, replacing any
// undelivered older notification.
func offerLatest(ch chan []byte, payload []byte) {
	for {
		select {
		case ch <- payload:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Get returns the last persisted payload for key, if any. Late-joining
// clients use it to pick up the presenter's current cursor.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM sync_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read sync state: %w", err)
	}
	return []byte(value), true, nil
}

// Subscribe registers contextID for change notifications on key. The
// returned channel holds at most the latest payload.
func (s *Store) Subscribe(key, contextID string) (<-chan []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("sync store is closed")
	}
	if s.subs[key] == nil {
		s.subs[key] = make(map[string]chan []byte)
	}
	if _, exists := s.subs[key][contextID]; exists {
		return nil, fmt.Errorf("context %s already subscribed to %s", contextID, key)
	}
	ch := make(chan []byte, 1)
	s.subs[key][contextID] = ch
	return ch, nil
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(key, contextID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[key][contextID]; ok {
		delete(s.subs[key], contextID)
		close(ch)
	}
}

// Close tears down all subscriptions. Persisted state is kept.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for key, contexts := range s.subs {
		for id, ch := range contexts {
			close(ch)
			delete(contexts, id)
		}
		delete(s.subs, key)
	}
}
