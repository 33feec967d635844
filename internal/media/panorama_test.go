package media

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewerStartsAtIdentity(t *testing.T) {
	v := NewViewer(1000)

	transform := v.Transform()
	assert.Equal(t, 0.0, transform.TranslateX)
	assert.Equal(t, 0.0, transform.TranslateY)
	assert.Equal(t, 1.0, transform.Scale)
}

func TestZoomStepsAndClamp(t *testing.T) {
	v := NewViewer(1000)

	v.ZoomIn()
	v.ZoomIn()
	v.ZoomOut()
	assert.InDelta(t, 1.1, v.Transform().Scale, 1e-9)

	for i := 0; i < 40; i++ {
		v.ZoomIn()
	}
	assert.Equal(t, 3.0, v.Transform().Scale)

	for i := 0; i < 40; i++ {
		v.ZoomOut()
	}
	assert.Equal(t, 0.5, v.Transform().Scale)
}

func TestWheelMapsToDiscreteSteps(t *testing.T) {
	v := NewViewer(1000)

	v.Wheel(120)
	assert.InDelta(t, 0.9, v.Transform().Scale, 1e-9)
	v.Wheel(-120)
	assert.InDelta(t, 1.0, v.Transform().Scale, 1e-9)
}

func TestDragRecomputesTranslationWithDamping(t *testing.T) {
	v := NewViewer(1000)

	v.PointerDown(100, 100)
	v.PointerMove(160, 140)

	transform := v.Transform()
	assert.InDelta(t, 30.0, transform.TranslateX, 1e-9)
	assert.InDelta(t, 20.0, transform.TranslateY, 1e-9)
}

func TestDragCapturesOffsetFromCurrentTranslation(t *testing.T) {
	v := NewViewer(1000)

	// First gesture moves the image.
	v.PointerDown(0, 0)
	v.PointerMove(40, 0)
	v.PointerUp()
	first := v.Transform().TranslateX

	// Second gesture continues from where the first left off instead of
	// accumulating deltas across gestures.
	v.PointerDown(200, 0)
	v.PointerMove(200, 0)
	assert.InDelta(t, first*dragDamping, v.Transform().TranslateX, 1e-9)
}

func TestVerticalTravelIsClampedHorizontalIsNot(t *testing.T) {
	v := NewViewer(800)

	v.PointerDown(0, 0)
	v.PointerMove(100000, 100000)

	transform := v.Transform()
	assert.Equal(t, 400.0, transform.TranslateY)
	assert.Greater(t, transform.TranslateX, 400.0)

	v.PointerMove(-100000, -100000)
	assert.Equal(t, -400.0, v.Transform().TranslateY)
}

func TestMoveWithoutDragIsIgnored(t *testing.T) {
	v := NewViewer(1000)

	v.PointerMove(500, 500)
	assert.Equal(t, 0.0, v.Transform().TranslateX)

	v.PointerDown(0, 0)
	v.PointerUp()
	v.PointerMove(500, 500)
	assert.Equal(t, 0.0, v.Transform().TranslateX)
}

func TestRotateTickNeverMutatesDuringDrag(t *testing.T) {
	v := NewViewer(1000)
	v.rotating = true

	v.PointerDown(0, 0)
	before := v.Transform().TranslateX
	v.rotateTick()
	assert.Equal(t, before, v.Transform().TranslateX)

	v.PointerUp()
	v.rotateTick()
	assert.Equal(t, before+rotateStep, v.Transform().TranslateX)
}

func TestAutoRotateAdvancesTranslation(t *testing.T) {
	v := NewViewer(1000)
	v.rotating = true

	v.rotateTick()
	v.rotateTick()
	assert.Equal(t, 2*rotateStep, v.Transform().TranslateX)
}

func TestStopAndCloseCancelRotation(t *testing.T) {
	v := NewViewer(1000)

	v.StartAutoRotate()
	require.True(t, v.rotating)
	v.StopAutoRotate()
	assert.False(t, v.rotating)

	v.rotateTick()
	assert.Equal(t, 0.0, v.Transform().TranslateX)

	v.Close()
	v.StartAutoRotate()
	assert.False(t, v.rotating)
}

func TestStartAutoRotateIsIdempotent(t *testing.T) {
	v := NewViewer(1000)

	v.StartAutoRotate()
	cancel := v.cancel
	v.StartAutoRotate()
	assert.Equal(t, cancel, v.cancel)

	v.Close()
	// Give the rotation goroutine a moment to observe cancellation.
	time.Sleep(10 * time.Millisecond)
}
