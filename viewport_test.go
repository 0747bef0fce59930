package easel

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestViewportScreenCanvasRoundTrip(t *testing.T) {
	v := NewViewport(800, 600)
	v.X, v.Y = 300, 200
	v.Zoom = 2
	v.SetScreenSize(1024, 768)

	p := Vec2{150, 90}
	back := v.CanvasToScreen(v.ScreenToCanvas(p))
	assertVec(t, "round trip", back, p)
}

func TestViewportCenterMapsToScreenCenter(t *testing.T) {
	v := NewViewport(800, 600)
	v.X, v.Y = 123, 456
	v.SetScreenSize(640, 480)
	got := v.CanvasToScreen(Vec2{123, 456})
	assertVec(t, "view center", got, Vec2{320, 240})
}

func TestViewportScrollToImmediate(t *testing.T) {
	v := NewViewport(800, 600)
	v.ScrollTo(50, 60, 0, ease.Linear)
	assertNear(t, "x", v.X, 50)
	assertNear(t, "y", v.Y, 60)
	if v.Animating() {
		t.Error("immediate scroll should not animate")
	}
}

func TestViewportScrollTween(t *testing.T) {
	v := NewViewport(800, 600)
	v.X, v.Y = 0, 0
	v.ScrollTo(60, 0, 1.0, ease.Linear)
	if !v.Animating() {
		t.Fatal("tween not started")
	}
	for i := 0; i < TPS; i++ {
		v.Update()
	}
	assertNear(t, "x after 1s", v.X, 60)
	if v.Animating() {
		t.Error("tween should be finished")
	}
}

func TestViewportZoomTweenAndClamp(t *testing.T) {
	v := NewViewport(800, 600)
	v.ZoomTo(4, 0.5, ease.Linear)
	for i := 0; i < TPS; i++ {
		v.Update()
	}
	assertNear(t, "zoom", v.Zoom, 4)

	v.ZoomTo(1000, 0, ease.Linear)
	assertNear(t, "clamped zoom", v.Zoom, 32)
}

func TestPreviewScaleTracksZoom(t *testing.T) {
	v := NewViewport(800, 600)
	v.Zoom = 1
	assertNear(t, "zoom 1", v.PreviewScale(), 0.5)
	v.Zoom = 4
	assertNear(t, "zoomed in clamps to full", v.PreviewScale(), 1)
	v.Zoom = 0.1
	assertNear(t, "zoomed out clamps to min", v.PreviewScale(), previewScaleMin)
}
