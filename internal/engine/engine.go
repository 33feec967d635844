package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"wallpresentation/internal/models"
)

// State is the lifecycle state of the playback engine.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

// Role distinguishes the navigating presenter context from read-only clients.
type Role int

const (
	RolePresenter Role = iota
	RoleClient
)

// Cursor identifies the currently displayed item. It never exists detached
// from a loaded presentation and is mutated only by engine operations.
type Cursor struct {
	SectionIndex int
	ItemIndex    int
}

// Publisher pushes cursor updates to client contexts. The engine delivers
// messages from a single goroutine in mutation order; a message still
// waiting for delivery is superseded by any newer one. Failures are logged.
type Publisher interface {
	Publish(ctx context.Context, msg models.SyncMessage) error
}

// Observer is notified after every cursor change, including changes applied
// from sync messages. Callbacks run synchronously on the mutating goroutine
// and must be fast.
type Observer interface {
	CursorChanged(prev, next Cursor)
}

// Engine is the navigation state machine. All operations are synchronous and
// are no-ops unless the engine is Ready. In RoleClient every mutator is a
// no-op: the client is a pure observer of the presenter's cursor.
type Engine struct {
	mu           sync.Mutex
	role         Role
	state        State
	presentation *models.Presentation
	cursor       Cursor
	publisher    Publisher
	observers    []Observer
	loadErr      error
	now          func() time.Time

	pubSlot   chan models.SyncMessage
	pubDone   chan struct{}
	closeOnce sync.Once
}

// New creates an engine in StateLoading. publisher may be nil for contexts
// that never publish (clients pass nil).
func New(role Role, publisher Publisher) *Engine {
	e := &Engine{
		role:      role,
		state:     StateLoading,
		publisher: publisher,
		now:       time.Now,
	}
	if publisher != nil {
		e.pubSlot = make(chan models.SyncMessage, 1)
		e.pubDone = make(chan struct{})
		go e.publishLoop()
	}
	return e
}

// publishLoop delivers cursor messages one at a time, so the store always
// receives them in mutation order. Rapid navigation collapses in the slot:
// a message not yet picked up is replaced by the newer cursor.
func (e *Engine) publishLoop() {
	for {
		select {
		case msg := <-e.pubSlot:
			if err := e.publisher.Publish(context.Background(), msg); err != nil {
				log.Printf("Failed to publish sync message: %v", err)
			}
		case <-e.pubDone:
			return
		}
	}
}

// Close stops the publish worker. Messages already handed to the publisher
// are delivered; a message still waiting in the slot is dropped.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		if e.pubDone != nil {
			close(e.pubDone)
		}
	})
}

// AddObserver registers an observer for cursor changes. Must be called
// before navigation starts.
func (e *Engine) AddObserver(obs Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, obs)
}

// Role returns the engine's role.
func (e *Engine) Role() Role {
	return e.role
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the load failure when the engine is in StateError.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadErr
}

// Cursor returns the current cursor. Meaningful only in StateReady.
func (e *Engine) Cursor() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// Presentation returns the loaded presentation, or nil before Ready.
func (e *Engine) Presentation() *models.Presentation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.presentation
}

// CurrentSection returns the section under the cursor.
func (e *Engine) CurrentSection() (models.Section, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateReady {
		return models.Section{}, false
	}
	return e.presentation.Sections[e.cursor.SectionIndex], true
}

// CurrentItem returns the item under the cursor. Sections without items
// report ok=false while the cursor stays valid at item index 0.
func (e *Engine) CurrentItem() (models.Item, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateReady {
		return models.Item{}, false
	}
	items := e.presentation.Sections[e.cursor.SectionIndex].Items
	if len(items) == 0 {
		return models.Item{}, false
	}
	return items[e.cursor.ItemIndex], true
}

// SetReady installs a validated presentation and transitions to StateReady
// with the cursor at {0,0}. Used by the loader and by tests.
func (e *Engine) SetReady(p *models.Presentation) error {
	if err := p.Validate(); err != nil {
		e.setError(err)
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.presentation = p
	e.cursor = Cursor{}
	e.state = StateReady
	return nil
}

func (e *Engine) setError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateError
	e.loadErr = err
}

// Next advances to the next item, rolling into the next section when the
// current one is exhausted. No-op at the very end.
func (e *Engine) Next() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mutable() {
		return false
	}
	section := e.presentation.Sections[e.cursor.SectionIndex]
	if e.cursor.ItemIndex < len(section.Items)-1 {
		return e.moveTo(Cursor{e.cursor.SectionIndex, e.cursor.ItemIndex + 1})
	}
	if e.cursor.SectionIndex < len(e.presentation.Sections)-1 {
		return e.moveTo(Cursor{e.cursor.SectionIndex + 1, 0})
	}
	return false
}

// Previous steps back one item. Crossing a section boundary lands on the
// last item of the previous section, so backward navigation continues from
// where that section ended. No-op at the very beginning.
func (e *Engine) Previous() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mutable() {
		return false
	}
	if e.cursor.ItemIndex > 0 {
		return e.moveTo(Cursor{e.cursor.SectionIndex, e.cursor.ItemIndex - 1})
	}
	if e.cursor.SectionIndex > 0 {
		prev := e.presentation.Sections[e.cursor.SectionIndex-1]
		return e.moveTo(Cursor{e.cursor.SectionIndex - 1, lastItemIndex(prev)})
	}
	return false
}

// NextSection jumps to the first item of the next section. No-op at the
// last section.
func (e *Engine) NextSection() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mutable() {
		return false
	}
	if e.cursor.SectionIndex >= len(e.presentation.Sections)-1 {
		return false
	}
	return e.moveTo(Cursor{e.cursor.SectionIndex + 1, 0})
}

// PreviousSection jumps to the first item of the previous section. No-op at
// the first section.
func (e *Engine) PreviousSection() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mutable() {
		return false
	}
	if e.cursor.SectionIndex == 0 {
		return false
	}
	return e.moveTo(Cursor{e.cursor.SectionIndex - 1, 0})
}

// JumpToSection moves to the first item of the given section. Out-of-range
// indices are rejected, never clamped.
func (e *Engine) JumpToSection(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mutable() {
		return false
	}
	if index < 0 || index >= len(e.presentation.Sections) {
		return false
	}
	return e.moveTo(Cursor{index, 0})
}

// JumpToItem moves to the given item within the current section.
// Out-of-range indices are rejected, never clamped.
func (e *Engine) JumpToItem(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mutable() {
		return false
	}
	section := e.presentation.Sections[e.cursor.SectionIndex]
	if index < 0 || index >= len(section.Items) {
		return false
	}
	return e.moveTo(Cursor{e.cursor.SectionIndex, index})
}

// ApplySync overwrites the cursor with a received sync message. Last arrival
// wins: no timestamp comparison is performed. Messages for another
// presentation or with out-of-range indices are logged and dropped.
func (e *Engine) ApplySync(msg models.SyncMessage) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateReady {
		return false
	}
	if msg.PresentationID != e.presentation.ID {
		log.Printf("Ignoring sync message for presentation %s (viewing %s)", msg.PresentationID, e.presentation.ID)
		return false
	}
	if msg.SectionIndex < 0 || msg.SectionIndex >= len(e.presentation.Sections) {
		log.Printf("Ignoring sync message with section index %d out of range", msg.SectionIndex)
		return false
	}
	section := e.presentation.Sections[msg.SectionIndex]
	item := msg.ItemIndex
	if item < 0 || item >= maxItems(section) {
		log.Printf("Ignoring sync message with item index %d out of range for section %s", item, section.ID)
		return false
	}
	prev := e.cursor
	e.cursor = Cursor{msg.SectionIndex, msg.ItemIndex}
	e.notifyLocked(prev, e.cursor)
	return true
}

// mutable reports whether navigation mutators may run. Caller holds the lock.
func (e *Engine) mutable() bool {
	return e.state == StateReady && e.role == RolePresenter
}

// moveTo commits a cursor change, publishes it, and notifies observers.
// Caller holds the lock and has validated the target.
func (e *Engine) moveTo(next Cursor) bool {
	prev := e.cursor
	e.cursor = next
	if e.publisher != nil {
		e.offerPublish(models.SyncMessage{
			PresentationID: e.presentation.ID,
			SectionIndex:   next.SectionIndex,
			ItemIndex:      next.ItemIndex,
			Timestamp:      e.now().UnixMilli(),
		})
	}
	e.notifyLocked(prev, next)
	return true
}

// offerPublish hands a message to the publish worker without blocking
// navigation: an undelivered older message in the slot is replaced.
func (e *Engine) offerPublish(msg models.SyncMessage) {
	for {
		select {
		case e.pubSlot <- msg:
			return
		default:
		}
		select {
		case <-e.pubSlot:
		default:
		}
	}
}

func (e *Engine) notifyLocked(prev, next Cursor) {
	for _, obs := range e.observers {
		obs.CursorChanged(prev, next)
	}
}

func lastItemIndex(section models.Section) int {
	if len(section.Items) == 0 {
		return 0
	}
	return len(section.Items) - 1
}

// maxItems is the exclusive upper bound for item indices in a section.
// Sections without items still admit index 0.
func maxItems(section models.Section) int {
	if len(section.Items) == 0 {
		return 1
	}
	return len(section.Items)
}
