package analytics

import (
	"encoding/json"
	"sync"
	"time"

	"wallpresentation/internal/engine"
	"wallpresentation/internal/models"
)

// dwellTimer tracks how long the current section has been on screen. Alive
// exactly while the cursor's section matches sectionIndex.
type dwellTimer struct {
	sectionID    string
	sectionIndex int
	enteredAt    time.Time
}

// Recorder observes cursor changes and emits dwell-time analytics events.
// Without a client identifier the recorder is disabled entirely and every
// method is a no-op.
//
// Recorder implements engine.Observer; its callbacks run on the navigating
// goroutine and hand actual delivery to the sender.
type Recorder struct {
	mu           sync.Mutex
	presentation *models.Presentation
	clientID     string
	sender       Sender
	now          func() time.Time
	dwell        *dwellTimer
	lastCursor   engine.Cursor
	closed       bool
}

// NewRecorder creates a recorder for one presentation view. clientID may be
// empty, in which case no events are ever emitted.
func NewRecorder(p *models.Presentation, clientID string, sender Sender) *Recorder {
	return &Recorder{
		presentation: p,
		clientID:     clientID,
		sender:       sender,
		now:          time.Now,
	}
}

func (r *Recorder) enabled() bool {
	return r.clientID != "" && r.sender != nil && !r.closed
}

// Start begins dwell tracking at the initial cursor and emits the first
// enter_section event. Called once when the engine becomes Ready.
func (r *Recorder) Start(cursor engine.Cursor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled() || r.dwell != nil {
		return
	}
	r.lastCursor = cursor
	r.enterSection(cursor, nil)
}

// CursorChanged implements engine.Observer. Item moves within a section only
// update the tracked cursor; section changes close the old dwell timer and
// open a new one.
func (r *Recorder) CursorChanged(prev, next engine.Cursor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled() || r.dwell == nil {
		return
	}
	r.lastCursor = next
	if next.SectionIndex == r.dwell.sectionIndex {
		return
	}
	from := r.dwell.sectionIndex
	r.leaveSection(next)
	r.enterSection(next, &from)
}

// Close emits exactly one presentation_exit event carrying the in-progress
// dwell duration, delivered through the sender's teardown path. Further
// observations and closes are no-ops.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled() || r.dwell == nil {
		r.closed = true
		return
	}
	duration := r.now().Sub(r.dwell.enteredAt).Milliseconds()
	event := r.event(models.EventPresentationExit, r.dwell.sectionID, &duration, r.extra(r.lastCursor, nil))
	r.closed = true
	r.dwell = nil
	r.sender.SendFinal(event)
}

// leaveSection emits leave_section for the active dwell timer and discards
// it. Caller holds the lock.
func (r *Recorder) leaveSection(next engine.Cursor) {
	duration := r.now().Sub(r.dwell.enteredAt).Milliseconds()
	event := r.event(models.EventLeaveSection, r.dwell.sectionID, &duration, r.extra(next, nil))
	r.dwell = nil
	r.sender.Send(event)
}

// enterSection starts a dwell timer for the cursor's section and emits
// enter_section. from carries the source section index for cross-section
// jumps. Caller holds the lock.
func (r *Recorder) enterSection(cursor engine.Cursor, from *int) {
	section := r.presentation.Sections[cursor.SectionIndex]
	r.dwell = &dwellTimer{
		sectionID:    section.ID,
		sectionIndex: cursor.SectionIndex,
		enteredAt:    r.now(),
	}
	r.sender.Send(r.event(models.EventEnterSection, section.ID, nil, r.extra(cursor, from)))
}

func (r *Recorder) event(eventType models.EventType, sectionID string, durationMs *int64, extra string) models.AnalyticsEvent {
	return models.AnalyticsEvent{
		PresentationID: r.presentation.ID,
		ClientID:       r.clientID,
		SectionID:      sectionID,
		EventType:      eventType,
		TS:             r.now().UnixMilli(),
		DurationMs:     durationMs,
		Extra:          extra,
	}
}

// extraPayload is the metadata blob consumed by the reporting screens.
type extraPayload struct {
	SectionIndex int    `json:"section_index"`
	ItemIndex    int    `json:"item_index"`
	Direction    string `json:"direction,omitempty"`
	FromSection  *int   `json:"from_section,omitempty"`
	ToSection    *int   `json:"to_section,omitempty"`
}

func (r *Recorder) extra(cursor engine.Cursor, from *int) string {
	payload := extraPayload{
		SectionIndex: cursor.SectionIndex,
		ItemIndex:    cursor.ItemIndex,
	}
	if from != nil {
		to := cursor.SectionIndex
		payload.FromSection = from
		payload.ToSection = &to
		if to > *from {
			payload.Direction = "next_section"
		} else {
			payload.Direction = "previous_section"
		}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(data)
}
