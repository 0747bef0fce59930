package easel

import "math"

// RotateAbout rotates point p about pivot c by angle radians (clockwise,
// matching the screen coordinate system).
func RotateAbout(p, c Vec2, angle float64) Vec2 {
	if angle == 0 {
		return p
	}
	sin, cos := math.Sincos(angle)
	dx := p.X - c.X
	dy := p.Y - c.Y
	return Vec2{
		X: c.X + dx*cos - dy*sin,
		Y: c.Y + dx*sin + dy*cos,
	}
}

// RotateRect rotates an axis-aligned rectangle about its own center by angle
// radians and returns the axis-aligned rectangle containing the result.
// Zero-sized rectangles are returned unchanged.
func RotateRect(r Rect, angle float64) Rect {
	if r.Width <= 0 || r.Height <= 0 || angle == 0 {
		return r
	}
	c := r.Center()
	corners := [4]Vec2{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		q := RotateAbout(p, c, angle)
		minX = math.Min(minX, q.X)
		minY = math.Min(minY, q.Y)
		maxX = math.Max(maxX, q.X)
		maxY = math.Max(maxY, q.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ScaleRect scales a rectangle about its own center by factor.
// Zero-sized rectangles and non-positive factors return the input unchanged.
func ScaleRect(r Rect, factor float64) Rect {
	if r.Width <= 0 || r.Height <= 0 || factor <= 0 {
		return r
	}
	w := r.Width * factor
	h := r.Height * factor
	c := r.Center()
	return Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// ConstrainSize shrinks (w, h) proportionally so that the total pixel count
// never exceeds maxPixels. Sizes already within the budget are returned
// unchanged, as are degenerate inputs.
func ConstrainSize(w, h float64, maxPixels float64) (float64, float64) {
	if w <= 0 || h <= 0 || maxPixels <= 0 {
		return w, h
	}
	if w*h <= maxPixels {
		return w, h
	}
	f := math.Sqrt(maxPixels / (w * h))
	return w * f, h * f
}

// LayerTransform is the geometric state that maps a layer's buffer into
// canvas space: position, size, rotation about the buffer center, an
// optional uniform scale, and per-axis mirroring.
type LayerTransform struct {
	Left, Top     float64
	Width, Height float64
	Rotation      float64 // radians, clockwise
	Scale         float64 // uniform; <= 0 is treated as 1
	MirrorX       bool
	MirrorY       bool
}

func (t LayerTransform) scaleFactor() float64 {
	if t.Scale <= 0 {
		return 1
	}
	return t.Scale
}

func (t LayerTransform) center() Vec2 {
	return Vec2{t.Left + t.Width/2, t.Top + t.Height/2}
}

// CanvasToLayer maps a canvas-space point into the layer's local (un-rotated,
// un-scaled, un-mirrored) buffer coordinate space. This is the exact inverse
// of LayerToCanvas: round-tripping a point through both returns the original
// within floating-point tolerance.
//
// Mirroring is applied as a coordinate negation relative to the buffer's
// half-width/half-height after rotation-correction.
func (t LayerTransform) CanvasToLayer(p Vec2) Vec2 {
	q := t.CanvasToUnrotated(p)
	if t.MirrorX {
		q.X = t.Width - q.X
	}
	if t.MirrorY {
		q.Y = t.Height - q.Y
	}
	return q
}

// LayerToCanvas maps a layer-local buffer point into canvas space, applying
// mirror, scale about the buffer center, and rotation in that order.
func (t LayerTransform) LayerToCanvas(p Vec2) Vec2 {
	lx, ly := p.X, p.Y
	if t.MirrorX {
		lx = t.Width - lx
	}
	if t.MirrorY {
		ly = t.Height - ly
	}
	c := t.center()
	s := t.scaleFactor()
	q := Vec2{
		X: c.X + (t.Left+lx-c.X)*s,
		Y: c.Y + (t.Top+ly-c.Y)*s,
	}
	return RotateAbout(q, c, t.Rotation)
}

// CanvasToUnrotated applies only the rotation and scale correction of
// CanvasToLayer, leaving mirroring to be applied later as a context-level
// axis flip. Used by the stroke-paint procedure, which pre-rotates pointer
// samples but mirrors the finished scratch buffer during compositing.
func (t LayerTransform) CanvasToUnrotated(p Vec2) Vec2 {
	c := t.center()
	q := RotateAbout(p, c, -t.Rotation)
	s := t.scaleFactor()
	q.X = c.X + (q.X-c.X)/s
	q.Y = c.Y + (q.Y-c.Y)/s
	return Vec2{q.X - t.Left, q.Y - t.Top}
}
