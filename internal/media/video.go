package media

import (
	"sync"

	"wallpresentation/internal/engine"
)

// VideoState owns the playback position, duration, mute flag, and
// play/pause state of the current video item. In the client role the video
// autoplays muted and click-to-play is suppressed: the presenter drives,
// the client observes. Media transport state itself is not synchronized by
// the sync channel.
type VideoState struct {
	mu         sync.Mutex
	role       engine.Role
	playing    bool
	muted      bool
	position   float64
	duration   float64
	metaLoaded bool
}

// NewVideoState creates playback state for one video section. Clients start
// muted so the autoplay attempt is not blocked.
func NewVideoState(role engine.Role) *VideoState {
	return &VideoState{
		role:  role,
		muted: role == engine.RoleClient,
	}
}

// SetMetadata records the media duration once the source has loaded. In the
// client role a muted autoplay is attempted immediately.
func (v *VideoState) SetMetadata(duration float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.duration = duration
	v.metaLoaded = true
	if v.role == engine.RoleClient {
		v.playing = true
	}
}

// Play starts playback.
func (v *VideoState) Play() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = true
}

// Pause stops playback.
func (v *VideoState) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = false
}

// HandleClick toggles playback in the presenter role. In the client role
// clicks are suppressed; the presenter drives transport state.
func (v *VideoState) HandleClick() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.role == engine.RoleClient {
		return
	}
	v.playing = !v.playing
}

// ToggleMute flips the mute flag.
func (v *VideoState) ToggleMute() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.muted = !v.muted
}

// Seek moves the playback position, clamped to the known duration.
func (v *VideoState) Seek(position float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if position < 0 {
		position = 0
	}
	if v.metaLoaded && position > v.duration {
		position = v.duration
	}
	v.position = position
}

// Progress records the position reported by the playing media element.
func (v *VideoState) Progress(position float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.position = position
}

// Ended marks playback finished.
func (v *VideoState) Ended() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = false
}

// Snapshot returns the current playback state.
func (v *VideoState) Snapshot() (playing, muted bool, position, duration float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.playing, v.muted, v.position, v.duration
}
