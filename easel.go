package easel

import "github.com/hajimehoshi/ebiten/v2"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the rectangle's center point.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendErase                   // destination-out (punch transparent holes)
	BlendMask                    // clip destination to source alpha
	BlendBelow                   // destination-over (draw behind existing content)
	BlendNone                    // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendMask:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorZero,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendBelow:
		return ebiten.BlendDestinationOver
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// ToolKind identifies the active paint tool. Tool dispatch in the paint
// controller is an explicit switch over these variants.
type ToolKind uint8

const (
	ToolNone       ToolKind = iota // no tool armed
	ToolBrush                      // freehand brush strokes
	ToolEraser                     // destination-out brush strokes
	ToolFill                       // single-shot area or flood fill
	ToolClone                      // two-anchor clone stamping
	ToolEyedropper                 // single-shot pixel color pick
	ToolDrag                       // reposition the layer (or its mask)
)

// Drawable reports whether the tool mutates pixels over the course of a stroke.
func (t ToolKind) Drawable() bool {
	switch t {
	case ToolBrush, ToolEraser, ToolFill, ToolClone:
		return true
	}
	return false
}

// ActionTarget selects which of a layer's buffers receives paint operations.
type ActionTarget uint8

const (
	TargetSource ActionTarget = iota // the layer's primary pixel buffer
	TargetMask                       // the layer's secondary mask buffer
)

// LayerKind distinguishes how a layer's content originated.
type LayerKind uint8

const (
	LayerGraphic LayerKind = iota // freehand raster content
	LayerText                     // pre-rendered text content
	LayerImage                    // imported image content
)

// EventKind distinguishes pointer from touch events. Used only for
// coordinate bookkeeping; the paint pipeline treats both identically.
type EventKind uint8

const (
	EventPointer EventKind = iota // mouse or pen pointer
	EventTouch                    // touch contact
)
