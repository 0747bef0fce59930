package easel

import "testing"

func TestLayerIDsAreUnique(t *testing.T) {
	a := NewLayer("a", LayerGraphic, 8, 8)
	b := NewLayer("b", LayerGraphic, 8, 8)
	if a.ID == b.ID {
		t.Error("layer ids must be unique")
	}
	if a.ID == 0 || b.ID == 0 {
		t.Error("layer ids start at 1; zero is reserved for none")
	}
}

func TestNewLayerInvalidSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-positive size")
		}
	}()
	NewLayer("bad", LayerGraphic, 0, 10)
}

func TestDocumentZOrder(t *testing.T) {
	doc := NewDocument(100, 100)
	a := NewLayer("a", LayerGraphic, 10, 10)
	b := NewLayer("b", LayerGraphic, 10, 10)
	doc.AddLayer(a)
	doc.AddLayer(b)

	layers := doc.Layers()
	if len(layers) != 2 || layers[0] != a || layers[1] != b {
		t.Fatal("z-order should follow insertion order")
	}
	if doc.LayerByID(b.ID) != b {
		t.Error("lookup by id failed")
	}
}

func TestRemoveLayerDisposesBuffers(t *testing.T) {
	doc := NewDocument(100, 100)
	a := NewLayer("a", LayerGraphic, 10, 10)
	doc.AddLayer(a)
	a.EnsureMask()

	doc.RemoveLayer(a)
	if len(doc.Layers()) != 0 {
		t.Error("layer not detached")
	}
	if !a.IsDisposed() || a.Source != nil || a.Mask != nil {
		t.Error("buffers not released")
	}
	// Removing again is a no-op.
	doc.RemoveLayer(a)
}

func TestEnsureMaskIdempotent(t *testing.T) {
	l := NewLayer("m", LayerGraphic, 16, 16)
	defer l.dispose()
	m1 := l.EnsureMask()
	m2 := l.EnsureMask()
	if m1 != m2 {
		t.Error("second EnsureMask allocated a new buffer")
	}
	l.MaskX, l.MaskY = 3, 4
	l.ClearMask()
	if l.Mask != nil || l.MaskX != 0 || l.MaskY != 0 {
		t.Error("ClearMask should drop the buffer and offsets")
	}
}

func TestDocumentSelectionLifecycle(t *testing.T) {
	doc := NewDocument(100, 100)
	if doc.HasSelection() {
		t.Error("fresh document should have no selection")
	}
	doc.SetSelection([]Vec2{{0, 0}, {10, 0}}, false)
	if doc.HasSelection() {
		t.Error("two points is not a closed selection")
	}
	doc.SetSelection([]Vec2{{0, 0}, {10, 0}, {0, 10}}, true)
	if !doc.HasSelection() {
		t.Error("triangle selection expected")
	}
	pts, inverted := doc.Selection()
	if len(pts) != 3 || !inverted {
		t.Error("selection state lost")
	}
	doc.ClearSelection()
	if doc.HasSelection() {
		t.Error("selection should be cleared")
	}
}

func TestLayerTransformReflectsFields(t *testing.T) {
	l := NewLayer("tf", LayerGraphic, 20, 10)
	defer l.dispose()
	l.Left, l.Top = 5, 6
	l.Rotation = 0.3
	l.Scale = 2
	l.MirrorX = true

	tf := l.Transform()
	if tf.Left != 5 || tf.Top != 6 || tf.Width != 20 || tf.Height != 10 {
		t.Error("geometry fields not carried")
	}
	if tf.Rotation != 0.3 || tf.Scale != 2 || !tf.MirrorX || tf.MirrorY {
		t.Error("orientation fields not carried")
	}
}
