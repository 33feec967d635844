package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"wallpresentation/internal/models"
	"wallpresentation/internal/syncnet"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Presenter and client views are served from the same origin; the
	// relay also accepts the headless player.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SyncHandler exposes the sync channel over HTTP: presenters publish cursor
// updates with POST, client contexts subscribe over WebSocket.
type SyncHandler struct {
	store *syncnet.Store
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(store *syncnet.Store) *SyncHandler {
	return &SyncHandler{
		store: store,
	}
}

// PublishSync writes a presenter's cursor update into the shared store.
// POST /api/sync/{presentationId}
func (h *SyncHandler) PublishSync(w http.ResponseWriter, r *http.Request) {
	presentationID := mux.Vars(r)["presentationId"]

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4096))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	var msg models.SyncMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if msg.PresentationID != presentationID {
		http.Error(w, "presentation id mismatch", http.StatusBadRequest)
		return
	}

	writerID := r.Header.Get(syncnet.ContextHeader)
	if err := h.store.Publish(r.Context(), writerID, models.SyncKey(presentationID), payload); err != nil {
		log.Printf("Failed to publish sync message: %v", err)
		http.Error(w, "failed to publish", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubscribeSync upgrades to WebSocket and relays sync notifications for one
// presentation to the connecting context. The last persisted cursor is
// pushed immediately so late joiners catch up.
// GET /api/sync/{presentationId}
func (h *SyncHandler) SubscribeSync(w http.ResponseWriter, r *http.Request) {
	presentationID := mux.Vars(r)["presentationId"]
	key := models.SyncKey(presentationID)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade sync connection: %v", err)
		return
	}

	contextID := uuid.NewString()
	ch, err := h.store.Subscribe(key, contextID)
	if err != nil {
		log.Printf("Failed to subscribe %s: %v", contextID, err)
		conn.Close()
		return
	}
	log.Printf("Sync subscriber connected: presentation=%s context=%s", presentationID, contextID)

	// Push current state so a client joining mid-presentation lands on the
	// presenter's cursor instead of {0,0}.
	if payload, found, err := h.store.Get(r.Context(), key); err == nil && found {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("Failed to push initial sync state: %v", err)
		}
	}

	done := make(chan struct{})

	// Reader goroutine: the relay is one-way, reads only detect close.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		defer func() {
			h.store.Unsubscribe(key, contextID)
			conn.Close()
			log.Printf("Sync subscriber disconnected: context=%s", contextID)
		}()
		for {
			select {
			case payload, ok := <-ch:
				if !ok {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()
}
