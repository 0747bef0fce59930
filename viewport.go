package easel

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Preview scale bounds: the live-stroke preview is rendered between
// one-eighth and full canvas resolution depending on zoom.
const (
	previewScaleMin = 0.125
	previewScaleMax = 1.0
)

// viewAnim holds active scroll/zoom tweens.
type viewAnim struct {
	tweenX   *gween.Tween
	tweenY   *gween.Tween
	tweenZ   *gween.Tween
	doneX    bool
	doneY    bool
	doneZoom bool
}

// Viewport is the pan/zoom state of the canvas view: the canvas-space
// position centered on screen and the zoom factor. Scroll and zoom changes
// can be animated; Update advances the tweens one frame at a time so the
// motion is deterministic under the frame clock.
type Viewport struct {
	// X and Y are the canvas-space position the view centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = 1:1 pixels, >1 = zoom in).
	Zoom float64
	// ScreenW and ScreenH are the screen-space dimensions of the view.
	ScreenW, ScreenH float64

	anim *viewAnim
}

// NewViewport creates a viewport centered on a canvas of the given size.
func NewViewport(canvasW, canvasH int) *Viewport {
	return &Viewport{
		X:       float64(canvasW) / 2,
		Y:       float64(canvasH) / 2,
		Zoom:    1,
		ScreenW: float64(canvasW),
		ScreenH: float64(canvasH),
	}
}

// SetScreenSize records the screen-space dimensions of the view.
func (v *Viewport) SetScreenSize(w, h float64) {
	v.ScreenW = w
	v.ScreenH = h
}

// ScrollTo animates the view center to the given canvas position over
// duration seconds.
func (v *Viewport) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		v.X, v.Y = x, y
		return
	}
	if v.anim == nil {
		v.anim = &viewAnim{doneZoom: true}
	}
	v.anim.tweenX = gween.New(float32(v.X), float32(x), duration, easeFn)
	v.anim.tweenY = gween.New(float32(v.Y), float32(y), duration, easeFn)
	v.anim.doneX = false
	v.anim.doneY = false
}

// ZoomTo animates the zoom factor over duration seconds. The target is
// clamped to a sane range.
func (v *Viewport) ZoomTo(zoom float64, duration float32, easeFn ease.TweenFunc) {
	zoom = math.Max(0.0625, math.Min(zoom, 32))
	if duration <= 0 {
		v.Zoom = zoom
		return
	}
	if v.anim == nil {
		v.anim = &viewAnim{doneX: true, doneY: true}
	}
	v.anim.tweenZ = gween.New(float32(v.Zoom), float32(zoom), duration, easeFn)
	v.anim.doneZoom = false
}

// Update advances scroll and zoom tweens by one frame.
func (v *Viewport) Update() {
	if v.anim == nil {
		return
	}
	const dt = 1.0 / TPS
	a := v.anim
	if !a.doneX && a.tweenX != nil {
		val, done := a.tweenX.Update(dt)
		v.X = float64(val)
		a.doneX = done
	}
	if !a.doneY && a.tweenY != nil {
		val, done := a.tweenY.Update(dt)
		v.Y = float64(val)
		a.doneY = done
	}
	if !a.doneZoom && a.tweenZ != nil {
		val, done := a.tweenZ.Update(dt)
		v.Zoom = float64(val)
		a.doneZoom = done
	}
	if a.doneX && a.doneY && a.doneZoom {
		v.anim = nil
	}
}

// Animating reports whether a scroll or zoom tween is in progress.
func (v *Viewport) Animating() bool {
	return v.anim != nil
}

// ScreenToCanvas converts a screen coordinate to canvas space.
func (v *Viewport) ScreenToCanvas(p Vec2) Vec2 {
	return Vec2{
		X: (p.X-v.ScreenW/2)/v.Zoom + v.X,
		Y: (p.Y-v.ScreenH/2)/v.Zoom + v.Y,
	}
}

// CanvasToScreen converts a canvas coordinate to screen space.
func (v *Viewport) CanvasToScreen(p Vec2) Vec2 {
	return Vec2{
		X: (p.X-v.X)*v.Zoom + v.ScreenW/2,
		Y: (p.Y-v.Y)*v.Zoom + v.ScreenH/2,
	}
}

// PreviewScale is the pixel density used for live-stroke previews. Tied to
// zoom: zoomed-out views tolerate a coarser preview, zoomed-in views need
// detail close to full resolution. Clamped so the preview never exceeds the
// buffer's own density.
func (v *Viewport) PreviewScale() float64 {
	s := v.Zoom / 2
	return math.Max(previewScaleMin, math.Min(s, previewScaleMax))
}
