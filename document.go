package easel

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// LayerID identifies a layer for the lifetime of the document.
type LayerID uint32

// layerIDCounter is a plain counter (no atomic — easel is single-threaded).
var layerIDCounter uint32

func nextLayerID() LayerID {
	layerIDCounter++
	return LayerID(layerIDCounter)
}

// FilterParams are the layer's effect parameters consumed by the effect cache.
type FilterParams struct {
	Enabled bool
	Opacity float64 // [0, 1]; zero with Enabled false means no filter
}

// Layer is a named raster drawing surface owned by a Document.
// The primary pixel buffer ("source") always exists; the secondary buffer
// ("mask") is optional and carries its own offset.
type Layer struct {
	ID   LayerID
	Name string
	Kind LayerKind

	// Position and size in canvas space. Left/Top are authoritative; a
	// rotated layer's sprite keeps a sprite-space position that differs
	// from these fields.
	Left, Top     float64
	Width, Height float64

	Source *ebiten.Image
	Mask   *ebiten.Image
	MaskX  float64
	MaskY  float64

	Rotation float64 // radians, clockwise
	Scale    float64 // uniform; <= 0 treated as 1
	MirrorX  bool
	MirrorY  bool
	Filter   FilterParams

	Visible bool

	disposed bool
}

// NewLayer creates a layer with a transparent source buffer of the given size.
// Panics if width or height is not positive.
func NewLayer(name string, kind LayerKind, width, height int) *Layer {
	if width <= 0 || height <= 0 {
		panic("easel: layer size must be positive")
	}
	return &Layer{
		ID:      nextLayerID(),
		Name:    name,
		Kind:    kind,
		Width:   float64(width),
		Height:  float64(height),
		Source:  ebiten.NewImage(width, height),
		Visible: true,
	}
}

// Transform returns the layer's current geometric mapping into canvas space.
func (l *Layer) Transform() LayerTransform {
	return LayerTransform{
		Left: l.Left, Top: l.Top,
		Width: l.Width, Height: l.Height,
		Rotation: l.Rotation,
		Scale:    l.Scale,
		MirrorX:  l.MirrorX,
		MirrorY:  l.MirrorY,
	}
}

// EnsureMask creates the mask buffer if it does not exist yet and returns it.
// The mask matches the source buffer's dimensions.
func (l *Layer) EnsureMask() *ebiten.Image {
	if l.Mask == nil {
		l.Mask = ebiten.NewImage(int(l.Width), int(l.Height))
	}
	return l.Mask
}

// ClearMask removes and deallocates the mask buffer.
func (l *Layer) ClearMask() {
	if l.Mask != nil {
		l.Mask.Deallocate()
		l.Mask = nil
	}
	l.MaskX = 0
	l.MaskY = 0
}

// IsDisposed reports whether the layer's buffers have been released.
func (l *Layer) IsDisposed() bool {
	return l.disposed
}

func (l *Layer) dispose() {
	if l.disposed {
		return
	}
	l.disposed = true
	if l.Source != nil {
		l.Source.Deallocate()
		l.Source = nil
	}
	if l.Mask != nil {
		l.Mask.Deallocate()
		l.Mask = nil
	}
}

// Document is an ordered sequence of layers (z-order = sequence order) plus
// the current selection.
type Document struct {
	Width, Height int

	layers []*Layer

	// Selection is an ordered closed polygon in canvas coordinates, shared
	// read-only by all layers' paint operations. Fewer than 3 points means
	// no selection.
	selection   []Vec2
	selInverted bool
}

// NewDocument creates an empty document with the given canvas size.
func NewDocument(width, height int) *Document {
	if width <= 0 || height <= 0 {
		panic("easel: document size must be positive")
	}
	return &Document{Width: width, Height: height}
}

// AddLayer appends a layer to the top of the z-order.
func (d *Document) AddLayer(l *Layer) {
	if l == nil {
		panic("easel: cannot add nil layer")
	}
	d.layers = append(d.layers, l)
}

// RemoveLayer detaches a layer from the document and releases its buffers.
// No-op if the layer is not part of the document.
func (d *Document) RemoveLayer(l *Layer) {
	for i, cand := range d.layers {
		if cand == l {
			copy(d.layers[i:], d.layers[i+1:])
			d.layers[len(d.layers)-1] = nil
			d.layers = d.layers[:len(d.layers)-1]
			l.dispose()
			return
		}
	}
}

// Layers returns the layer list in z-order. The returned slice MUST NOT be
// mutated by the caller.
func (d *Document) Layers() []*Layer {
	return d.layers
}

// LayerByID returns the layer with the given id, or nil.
func (d *Document) LayerByID(id LayerID) *Layer {
	for _, l := range d.layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// SetSelection replaces the current selection polygon. The points form a
// closed loop; fewer than 3 points is treated as no selection by all
// consumers.
func (d *Document) SetSelection(points []Vec2, inverted bool) {
	d.selection = append(d.selection[:0], points...)
	d.selInverted = inverted
}

// ClearSelection removes the current selection.
func (d *Document) ClearSelection() {
	d.selection = d.selection[:0]
	d.selInverted = false
}

// Selection returns the current selection polygon and invert flag. The
// returned slice MUST NOT be mutated.
func (d *Document) Selection() ([]Vec2, bool) {
	return d.selection, d.selInverted
}

// HasSelection reports whether a usable (closed, >= 3 point) selection exists.
func (d *Document) HasSelection() bool {
	return len(d.selection) >= 3
}
