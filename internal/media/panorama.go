package media

import (
	"sync"
	"time"
)

const (
	// DefaultViewportWidth bounds vertical panning when the host has not
	// reported a real viewport size.
	DefaultViewportWidth = 1280.0

	dragDamping = 0.5
	zoomStep    = 0.1
	minScale    = 0.5
	maxScale    = 3.0

	rotateInterval   = 33 * time.Millisecond
	rotateStep       = 0.5
	rotateStartDelay = time.Second
)

// Transform is the panorama's 2D affine state.
type Transform struct {
	TranslateX float64
	TranslateY float64
	Scale      float64
}

// Viewer is the 360° panorama gesture engine. Three input sources write the
// same transform: pointer drags, discrete zoom events, and the idle
// auto-rotate tick. They are serialized under one mutex and auto-rotate is
// suspended for the whole duration of a drag, so at any instant at most one
// source is mutating the transform.
type Viewer struct {
	mu            sync.Mutex
	transform     Transform
	viewportWidth float64

	dragging bool
	startX   float64
	startY   float64

	rotating bool
	cancel   chan struct{}
	closed   bool
}

// NewViewer creates a viewer at identity translation and scale 1.0.
func NewViewer(viewportWidth float64) *Viewer {
	if viewportWidth <= 0 {
		viewportWidth = DefaultViewportWidth
	}
	return &Viewer{
		transform:     Transform{Scale: 1.0},
		viewportWidth: viewportWidth,
	}
}

// Transform returns the current transform.
func (v *Viewer) Transform() Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.transform
}

// SetViewportWidth updates the vertical clamp bound when the host resizes.
func (v *Viewer) SetViewportWidth(width float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if width > 0 {
		v.viewportWidth = width
	}
}

// Dragging reports whether a drag is in progress.
func (v *Viewer) Dragging() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dragging
}

// PointerDown begins a drag, capturing the offset between the pointer and
// the current translation so the image tracks the pointer without jumping.
func (v *Viewer) PointerDown(x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dragging = true
	v.startX = x - v.transform.TranslateX
	v.startY = y - v.transform.TranslateY
}

// PointerMove recomputes the translation from the current pointer position.
// The translation is always derived from this drag's captured start offset,
// never accumulated across gestures. Vertical travel is clamped to half the
// viewport width; horizontal pan wraps conceptually for a 360° image and is
// unclamped.
func (v *Viewer) PointerMove(x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.dragging {
		return
	}
	v.transform.TranslateX = (x - v.startX) * dragDamping
	v.transform.TranslateY = clamp((y-v.startY)*dragDamping, -v.viewportWidth/2, v.viewportWidth/2)
}

// PointerUp ends the drag. Auto-rotation, if running, resumes on its next
// tick.
func (v *Viewer) PointerUp() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dragging = false
}

// ZoomIn increases the scale by one step, clamped to the maximum.
func (v *Viewer) ZoomIn() {
	v.adjustScale(zoomStep)
}

// ZoomOut decreases the scale by one step, clamped to the minimum.
func (v *Viewer) ZoomOut() {
	v.adjustScale(-zoomStep)
}

// Wheel maps a wheel delta to one discrete zoom step. Positive deltas zoom
// out, matching scroll-down semantics.
func (v *Viewer) Wheel(deltaY float64) {
	if deltaY > 0 {
		v.ZoomOut()
	} else {
		v.ZoomIn()
	}
}

func (v *Viewer) adjustScale(delta float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.transform.Scale = clamp(v.transform.Scale+delta, minScale, maxScale)
}

// StartAutoRotate begins the idle rotation that suggests interactivity: a
// periodic tick nudges the horizontal translation while no drag is active.
// The first tick is delayed so the image settles before moving.
func (v *Viewer) StartAutoRotate() {
	v.mu.Lock()
	if v.rotating || v.closed {
		v.mu.Unlock()
		return
	}
	v.rotating = true
	v.cancel = make(chan struct{})
	cancel := v.cancel
	v.mu.Unlock()

	go func() {
		select {
		case <-time.After(rotateStartDelay):
		case <-cancel:
			return
		}
		ticker := time.NewTicker(rotateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				v.rotateTick()
			case <-cancel:
				return
			}
		}
	}()
}

// rotateTick applies one auto-rotate increment unless a drag is active.
func (v *Viewer) rotateTick() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.dragging || !v.rotating {
		return
	}
	v.transform.TranslateX += rotateStep
}

// StopAutoRotate cancels the rotation tick.
func (v *Viewer) StopAutoRotate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopRotateLocked()
}

func (v *Viewer) stopRotateLocked() {
	if v.rotating {
		v.rotating = false
		close(v.cancel)
		v.cancel = nil
	}
}

// Close cancels auto-rotation permanently. Called when the section or item
// changes or the component is torn down; a closed viewer never rotates
// again.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopRotateLocked()
	v.closed = true
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
