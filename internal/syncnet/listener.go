package syncnet

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"wallpresentation/internal/engine"
	"wallpresentation/internal/models"
)

// applyPayload decodes a raw sync payload and applies it to the engine.
// Malformed payloads are logged and dropped; they never reach the cursor
// and never panic the notification handler.
func applyPayload(eng *engine.Engine, payload []byte) {
	var msg models.SyncMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Printf("Dropping malformed sync message: %v", err)
		return
	}
	if eng.ApplySync(msg) {
		log.Printf("Synced to presenter cursor: section=%d item=%d", msg.SectionIndex, msg.ItemIndex)
	}
}

// Listener mirrors a presenter's cursor into a client engine from an
// in-process sync store subscription.
type Listener struct {
	store     *Store
	eng       *engine.Engine
	key       string
	contextID string
	stopOnce  sync.Once
	done      chan struct{}
}

// NewListener creates a listener for the given presentation.
func NewListener(store *Store, eng *engine.Engine, presentationID string) *Listener {
	return &Listener{
		store:     store,
		eng:       eng,
		key:       models.SyncKey(presentationID),
		contextID: uuid.NewString(),
		done:      make(chan struct{}),
	}
}

// Start subscribes to the sync key and applies notifications until Stop is
// called or the store closes.
func (l *Listener) Start() error {
	ch, err := l.store.Subscribe(l.key, l.contextID)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", l.key, err)
	}
	go func() {
		for {
			select {
			case payload, ok := <-ch:
				if !ok {
					return
				}
				applyPayload(l.eng, payload)
			case <-l.done:
				return
			}
		}
	}()
	return nil
}

// Stop cancels the subscription. Safe to call more than once.
func (l *Listener) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
		l.store.Unsubscribe(l.key, l.contextID)
	})
}

// WSListener mirrors a presenter's cursor into a client engine over the
// backend's sync WebSocket relay. Used by client contexts in other
// processes.
type WSListener struct {
	url      string
	eng      *engine.Engine
	conn     *websocket.Conn
	stopOnce sync.Once
}

// NewWSListener creates a listener that will dial the given WebSocket URL,
// e.g. "ws://localhost:8090/api/sync/<presentationID>".
func NewWSListener(url string, eng *engine.Engine) *WSListener {
	return &WSListener{url: url, eng: eng}
}

// Start dials the relay and applies incoming messages until the connection
// drops or Stop is called. A lost connection leaves the client silently on
// the last cursor it received.
func (l *WSListener) Start() error {
	conn, _, err := websocket.DefaultDialer.Dial(l.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial sync relay: %w", err)
	}
	l.conn = conn
	go func() {
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Sync relay connection closed: %v", err)
				return
			}
			applyPayload(l.eng, payload)
		}
	}()
	return nil
}

// Stop closes the relay connection. Safe to call more than once.
func (l *WSListener) Stop() {
	l.stopOnce.Do(func() {
		if l.conn != nil {
			l.conn.Close()
		}
	})
}
