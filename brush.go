package easel

// PaintOptions carries the tool options set when a tool is armed.
type PaintOptions struct {
	// Size is the brush diameter in pixels. Zero defaults to 1.
	Size float64
	// Opacity is the stroke compositing opacity in [0, 1]. Zero defaults to 1.
	Opacity float64
	// Color is the active paint color.
	Color Color
	// StrokeCount repeats each stamp pass; used by scatter-style brushes.
	// Zero defaults to 1.
	StrokeCount int
	// SmartFill switches the fill tool from area fill to flood fill.
	SmartFill bool
	// CloneSource is the clone tool's source layer. Nil means the active layer.
	CloneSource *Layer
}

func (o PaintOptions) size() float64 {
	if o.Size <= 0 {
		return 1
	}
	return o.Size
}

func (o PaintOptions) opacity() float64 {
	if o.Opacity <= 0 || o.Opacity > 1 {
		return 1
	}
	return o.Opacity
}

func (o PaintOptions) strokeCount() int {
	if o.StrokeCount <= 0 {
		return 1
	}
	return o.StrokeCount
}

// BrushState tracks one in-progress stroke: the recorded pointer path, the
// "down" flag, and the index of the first sample not yet painted by the
// per-frame update step.
type BrushState struct {
	// Samples is the append-only pointer path in canvas coordinates.
	// Cleared when the stroke commits.
	Samples []Vec2
	// Down is true while the pointer is held during a stroke.
	Down bool
	// Last is the count of samples already consumed by per-frame painting.
	Last int
	// Options are the paint options captured at tool arming.
	Options PaintOptions
}

// Append records one pointer sample.
func (b *BrushState) Append(p Vec2) {
	b.Samples = append(b.Samples, p)
}

// Pending returns the samples recorded since the last processed index.
func (b *BrushState) Pending() []Vec2 {
	if b.Last >= len(b.Samples) {
		return nil
	}
	return b.Samples[b.Last:]
}

// Advance marks all current samples as processed.
func (b *BrushState) Advance() {
	b.Last = len(b.Samples)
}

// Reset clears the recorded path and interaction flags. Options survive so a
// new stroke with the same tool needs no re-arming.
func (b *BrushState) Reset() {
	b.Samples = b.Samples[:0]
	b.Down = false
	b.Last = 0
}
