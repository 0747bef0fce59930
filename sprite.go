package easel

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// Debounced snapshot commit delays, in frames.
const (
	commitDelayFrames = 5 * TPS // initial quiet period after the first mutation
	commitRearmFrames = TPS     // retry interval while the stroke is still down
)

// Sprite is the transient per-layer paint controller: it translates pointer
// and tool events into pixel mutations on the layer's source or mask buffer,
// honoring the selection and the layer's geometric transform, and drives the
// effect cache and the history engine. Exactly one live Sprite exists per
// layer, enforced by the session's registry.
type Sprite struct {
	ses     *Session
	layerID LayerID

	// bounds are the sprite-space visual bounds. A rotated layer keeps a
	// sprite-space position that differs from the layer's own authoritative
	// Left/Top.
	bounds Rect

	brush  BrushState
	tool   ToolKind
	target ActionTarget

	// sel is the selection snapshot taken when the tool was armed.
	sel *Selection

	// Clone tool anchors. cloneAnchor is the source anchor recorded by the
	// first press; cloneStart is the destination start anchor.
	cloneAnchor *Vec2
	cloneStart  *Vec2

	lastPointer Vec2
	lastEvent   EventKind
	paintMode   bool // drawable tool armed; cursor tracking stays on after release

	dragging        bool
	dragStartBounds Rect
	dragStartLayer  Vec2

	preview *previewBuffer

	// Debounced snapshot commit state. before is captured lazily before the
	// first mutation of a debounce window; commitTarget is the buffer the
	// window is scoped to.
	before       *Snapshot
	commitTarget *ebiten.Image
	commitTimer  *Timer

	disposed bool
}

func newSprite(ses *Session, layer *Layer) *Sprite {
	return &Sprite{
		ses:     ses,
		layerID: layer.ID,
		bounds:  Rect{X: layer.Left, Y: layer.Top, Width: layer.Width, Height: layer.Height},
	}
}

// Layer resolves the sprite's layer from the document. Nil once the layer is
// removed.
func (s *Sprite) Layer() *Layer {
	return s.ses.doc.LayerByID(s.layerID)
}

// LayerID returns the id of the layer this sprite controls.
func (s *Sprite) LayerID() LayerID { return s.layerID }

// Bounds returns the sprite-space visual bounds.
func (s *Sprite) Bounds() Rect { return s.bounds }

// Tool returns the currently armed tool.
func (s *Sprite) Tool() ToolKind { return s.tool }

// Brush exposes the in-progress stroke state. Test hook; mutate through the
// event entry points.
func (s *Sprite) Brush() *BrushState { return &s.brush }

// SetActionTarget selects which buffer receives paint operations.
func (s *Sprite) SetActionTarget(t ActionTarget) { s.target = t }

// ActionTarget returns the buffer currently receiving paint operations.
func (s *Sprite) ActionTarget() ActionTarget { return s.target }

// PaintMode reports whether a drawable tool is armed. Cursor tracking stays
// on in paint mode even between strokes, so brush outlines can follow the
// pointer.
func (s *Sprite) PaintMode() bool { return s.paintMode }

// LastPointer returns the most recent pointer position and its event kind,
// in canvas coordinates.
func (s *Sprite) LastPointer() (Vec2, EventKind) { return s.lastPointer, s.lastEvent }

// --- Tool activation ---

// ArmTool activates a tool with the given options. Any pending snapshot
// commit is flushed first (switching tools must not lose history), prior
// interaction state is reset, and for drawable tools the current selection
// is snapshotted if it is closed and the layer permits drawing while
// selected. Drawing on a mask is always permitted regardless of closure.
func (s *Sprite) ArmTool(tool ToolKind, opts PaintOptions) {
	s.flushCommit()

	s.brush.Reset()
	s.brush.Options = opts
	s.discardPreview()
	s.cloneAnchor = nil
	s.cloneStart = nil
	s.dragging = false
	s.sel = nil

	s.tool = tool
	s.paintMode = tool.Drawable()

	if tool.Drawable() {
		layer := s.Layer()
		points, inverted := s.ses.doc.Selection()
		closed := len(points) >= 3
		permitted := s.target == TargetMask ||
			(layer != nil && layer.Kind != LayerText)
		if closed && permitted {
			s.sel = &Selection{Points: append([]Vec2(nil), points...), Inverted: inverted}
		}
	}
}

// --- Pointer events ---

// HandlePress processes a pointer press at a canvas-space position.
func (s *Sprite) HandlePress(pos Vec2, kind EventKind) {
	if s.disposed {
		return
	}
	s.lastPointer = pos
	s.lastEvent = kind

	layer := s.Layer()
	if layer == nil || layer.IsDisposed() {
		return
	}

	switch s.tool {
	case ToolEyedropper:
		local := layer.Transform().CanvasToLayer(pos)
		c := s.ses.raster.ReadPixel(s.strokeTarget(layer), int(local.X), int(local.Y))
		if s.ses.OnColorPicked != nil {
			s.ses.OnColorPicked(c)
		}

	case ToolFill:
		// Single-shot: no stroke phase.
		s.brush.Append(pos)
		s.paintFill(layer)
		s.brush.Reset()

	case ToolClone:
		if s.cloneAnchor == nil {
			// First press records the clone source anchor; no painting.
			p := pos
			s.cloneAnchor = &p
			return
		}
		if !s.brush.Down {
			p := pos
			s.cloneStart = &p
			s.brush.Down = true
			s.brush.Append(pos)
		}

	case ToolBrush, ToolEraser:
		s.brush.Append(pos)
		s.brush.Down = true

	case ToolDrag:
		s.dragging = true
		s.dragStartBounds = s.bounds
		s.dragStartLayer = Vec2{layer.Left, layer.Top}
	}
}

// HandleMove processes pointer movement. While brushing, samples are only
// recorded; raster writes are deferred to the per-frame Update step so a
// burst of move events collapses into one paint per frame.
func (s *Sprite) HandleMove(pos Vec2, kind EventKind) {
	if s.disposed {
		return
	}
	prev := s.lastPointer
	s.lastPointer = pos
	s.lastEvent = kind

	if s.brush.Down {
		switch s.tool {
		case ToolBrush, ToolEraser, ToolClone:
			s.brush.Append(pos)
		}
		return
	}

	if s.dragging && s.tool == ToolDrag {
		layer := s.Layer()
		if layer == nil {
			return
		}
		dx := pos.X - prev.X
		dy := pos.Y - prev.Y
		if s.target == TargetMask && layer.Mask != nil {
			// Each move commits the new mask offset and records it.
			s.commitMaskOffset(layer, layer.MaskX+dx, layer.MaskY+dy)
			return
		}
		s.bounds.X += dx
		s.bounds.Y += dy
	}
}

// Update is the per-frame tick: if a stroke is down and new samples arrived
// since the last frame, paint once and advance the processed counter.
func (s *Sprite) Update() {
	if s.disposed || !s.brush.Down {
		return
	}
	if len(s.brush.Pending()) == 0 {
		return
	}
	s.paintStroke(true)
	s.brush.Advance()
}

// HandleRelease finishes a stroke or drag. Releasing with no active stroke
// produces no buffer mutation and no history entry.
func (s *Sprite) HandleRelease(pos Vec2, kind EventKind) {
	if s.disposed {
		return
	}
	s.lastPointer = pos
	s.lastEvent = kind

	if s.brush.Down {
		s.discardPreview()
		s.brush.Down = false
		if s.directLive() {
			// The per-frame passes already wrote the permanent buffer;
			// replaying the whole path would composite it a second time.
			// Flush only the samples the last frame had not consumed.
			s.paintStroke(true)
		} else {
			// One final high-resolution pass over the entire recorded path.
			s.paintStroke(false)
		}
		s.brush.Reset()
		s.cloneStart = nil
		if !s.ses.LowMemory {
			s.flushCommit()
		}
		return
	}

	if s.dragging {
		s.dragging = false
		if len(s.ses.guides) > 0 {
			SnapToGuides(s, s.ses.guides, defaultSnapThreshold)
		}
		if s.bounds != s.dragStartBounds {
			s.finishDrag()
		}
	}
	// In paint mode, cursor tracking stays armed so follow outlines keep
	// updating without an active stroke.
}

// --- Stroke painting ---

// directLive reports whether the armed tool's per-frame passes write the
// permanent buffer rather than the preview overlay: the clone brush, and
// the eraser when it targets the mask. Such strokes are already complete
// when the pointer lifts, so release must not replay the full path.
func (s *Sprite) directLive() bool {
	return s.tool == ToolClone || (s.tool == ToolEraser && s.target == TargetMask)
}

// strokeTarget resolves the destination buffer for the current action
// target: the mask buffer when mask editing is active, else the source.
func (s *Sprite) strokeTarget(layer *Layer) *ebiten.Image {
	if s.target == TargetMask {
		return layer.EnsureMask()
	}
	return layer.Source
}

// paintStroke runs the stroke-paint procedure. live is true for the reduced
// per-frame pass while the pointer is down, false for the exact final pass.
func (s *Sprite) paintStroke(live bool) {
	layer := s.Layer()
	if layer == nil || layer.IsDisposed() {
		return
	}
	switch s.tool {
	case ToolFill:
		s.paintFill(layer)
	case ToolClone:
		s.paintClone(layer, live)
	case ToolBrush, ToolEraser:
		s.paintBrush(layer, live)
	}
}

// paintBrush renders brush/eraser strokes. Live strokes (except mask
// erasing) go to the low-resolution preview buffer; the final pass replays
// the complete path into a full-resolution scratch buffer and composites it
// onto the permanent buffer at the brush opacity, using destination-out for
// erasers.
func (s *Sprite) paintBrush(layer *Layer, live bool) {
	dst := s.strokeTarget(layer)
	maskErase := s.tool == ToolEraser && s.target == TargetMask

	if live && !maskErase {
		s.ensurePreview(layer)
		pts := make([]Vec2, 0, len(s.brush.Pending()))
		for _, p := range s.brush.Pending() {
			pts = append(pts, s.preview.MapPoint(p))
		}
		s.ses.raster.RenderStroke(s.preview.image, &s.brush, &StrokeOverrides{
			Points: pts,
			Scale:  s.preview.scale,
		})
		if s.sel.Valid() {
			// The preview already operates in transformed space; the polygon
			// only needs the preview scale, no rotation correction.
			applySelectionClip(s.preview.image, s.sel, s.sel.Points, s.preview.scale)
		}
		// Effect recompute is deliberately skipped for preview passes.
		return
	}

	tf := layer.Transform()
	var samples []Vec2
	if live {
		samples = s.brush.Pending()
	} else {
		samples = s.brush.Samples
	}
	if len(samples) == 0 {
		return
	}
	pts := make([]Vec2, len(samples))
	for i, p := range samples {
		pts[i] = tf.CanvasToUnrotated(p)
	}

	s.beginMutation(dst)

	b := dst.Bounds()
	scratch := s.ses.pool.Acquire(b.Dx(), b.Dy())
	s.ses.raster.RenderStroke(scratch, &s.brush, &StrokeOverrides{Points: pts})

	if s.sel.Valid() {
		// Rotate the selection polygon into the layer's local space; the
		// mirror flip is applied context-level during compositing below.
		clipPts := s.sel.transformed(tf.CanvasToUnrotated)
		applySelectionClip(scratch, s.sel, clipPts, 1)
	}

	var op ebiten.DrawImageOptions
	applyMirror(&op.GeoM, tf)
	op.ColorScale.ScaleAlpha(float32(s.brush.Options.opacity()))
	if s.tool == ToolEraser {
		op.Blend = BlendErase.EbitenBlend()
	}
	dst.DrawImage(scratch, &op)
	s.ses.pool.Release(scratch)

	s.afterMutation(layer, dst)
}

// paintFill handles the fill tool: flood fill from the pointer with the
// smart-fill option, otherwise fill the clipped selection path or the whole
// buffer with the active color.
func (s *Sprite) paintFill(layer *Layer) {
	dst := s.strokeTarget(layer)
	tf := layer.Transform()
	opts := s.brush.Options

	s.beginMutation(dst)

	if opts.SmartFill {
		local := tf.CanvasToLayer(s.lastPointer)
		var within func(x, y int) bool
		if s.sel.Valid() {
			poly := s.sel.transformed(tf.CanvasToLayer)
			inverted := s.sel.Inverted
			within = func(x, y int) bool {
				return pointInPolygon(poly, float64(x)+0.5, float64(y)+0.5) != inverted
			}
		}
		s.ses.raster.FloodFill(dst, int(local.X), int(local.Y), opts.Color.rgba(), within)
	} else {
		b := dst.Bounds()
		scratch := s.ses.pool.Acquire(b.Dx(), b.Dy())
		scratch.Fill(opts.Color.premulRGBA())
		if s.sel.Valid() {
			clipPts := s.sel.transformed(tf.CanvasToUnrotated)
			applySelectionClip(scratch, s.sel, clipPts, 1)
		}
		var op ebiten.DrawImageOptions
		applyMirror(&op.GeoM, tf)
		op.ColorScale.ScaleAlpha(float32(opts.opacity()))
		dst.DrawImage(scratch, &op)
		s.ses.pool.Release(scratch)
	}

	s.afterMutation(layer, dst)
}

// paintClone renders the clone brush along the recorded path, reading source
// pixels offset by the stored clone anchors. Clone writes go directly to the
// permanent buffer; its cost is already bounded by path length, so there is
// no low-resolution preview tier.
func (s *Sprite) paintClone(layer *Layer, live bool) {
	if s.cloneAnchor == nil || s.cloneStart == nil {
		return
	}
	dst := s.strokeTarget(layer)
	tf := layer.Transform()

	src := layer
	if s.brush.Options.CloneSource != nil {
		src = s.brush.Options.CloneSource
	}
	if src.Source == nil {
		return
	}

	var samples []Vec2
	if live {
		samples = s.brush.Pending()
	} else {
		samples = s.brush.Samples
	}
	if len(samples) == 0 {
		return
	}
	pts := make([]Vec2, len(samples))
	for i, p := range samples {
		pts[i] = tf.CanvasToUnrotated(p)
	}

	srcAnchor := src.Transform().CanvasToLayer(*s.cloneAnchor)
	dstStart := tf.CanvasToUnrotated(*s.cloneStart)
	offset := Vec2{srcAnchor.X - dstStart.X, srcAnchor.Y - dstStart.Y}

	s.beginMutation(dst)

	b := dst.Bounds()
	scratch := s.ses.pool.Acquire(b.Dx(), b.Dy())
	s.ses.raster.RenderStroke(scratch, &s.brush, &StrokeOverrides{
		Points:       pts,
		Source:       src.Source,
		SourceOffset: offset,
	})
	if s.sel.Valid() {
		clipPts := s.sel.transformed(tf.CanvasToUnrotated)
		applySelectionClip(scratch, s.sel, clipPts, 1)
	}
	var op ebiten.DrawImageOptions
	applyMirror(&op.GeoM, tf)
	op.ColorScale.ScaleAlpha(float32(s.brush.Options.opacity()))
	dst.DrawImage(scratch, &op)
	s.ses.pool.Release(scratch)

	s.afterMutation(layer, dst)
}

// applyMirror configures context-level axis flips about the buffer center
// for the layer's mirror flags.
func applyMirror(g *ebiten.GeoM, tf LayerTransform) {
	sx, sy := 1.0, 1.0
	if tf.MirrorX {
		sx = -1
	}
	if tf.MirrorY {
		sy = -1
	}
	if sx == 1 && sy == 1 {
		return
	}
	g.Translate(-tf.Width/2, -tf.Height/2)
	g.Scale(sx, sy)
	g.Translate(tf.Width/2, tf.Height/2)
}

// ensurePreview lazily allocates the low-resolution preview buffer at the
// viewport's current preview scale.
func (s *Sprite) ensurePreview(layer *Layer) {
	if s.preview != nil {
		return
	}
	scale := s.ses.viewport.PreviewScale()
	s.preview = newPreviewBuffer(&s.ses.pool, s.ses.doc.Width, s.ses.doc.Height, scale)
}

// Preview returns the live preview surface and its scale, or nil when no
// stroke is in progress. The editor composites it over the layer.
func (s *Sprite) Preview() (*ebiten.Image, float64) {
	if s.preview == nil {
		return nil, 1
	}
	return s.preview.image, s.preview.scale
}

func (s *Sprite) discardPreview() {
	if s.preview != nil {
		s.preview.Discard()
		s.preview = nil
	}
}

// --- Mask repositioning ---

// commitMaskOffset applies a new mask offset and enqueues a history entry
// capturing the old/new offset pairs. Redo re-applies the commit and resets
// the filter cache, exactly like the original move.
func (s *Sprite) commitMaskOffset(layer *Layer, newX, newY float64) {
	oldX, oldY := layer.MaskX, layer.MaskY
	ses := s.ses
	id := s.layerID

	apply := func(x, y float64) {
		l := ses.doc.LayerByID(id)
		if l == nil {
			return
		}
		l.MaskX = x
		l.MaskY = y
		ses.resetFilterAndRecache(id)
	}

	apply(newX, newY)
	ses.history.Enqueue(&HistoryEntry{
		Key:  fmt.Sprintf("maskmove:%d", id),
		Undo: func() { apply(oldX, oldY) },
		Redo: func() { apply(newX, newY) },
	})
}

// --- Bounds mutation ---

// SetBounds updates the sprite's visual bounds and, by the delta between the
// old and new position, the owning layer's stored position (a rotated layer
// keeps a sprite-space position that differs from the layer's authoritative
// fields). The history entry resolves the current sprite instance via a
// layer-id lookup, never a captured reference: a sprite may be disposed and
// recreated between the action and a later undo.
func (s *Sprite) SetBounds(newBounds Rect) {
	layer := s.Layer()
	if layer == nil {
		return
	}
	old := s.bounds
	oldLayer := Vec2{layer.Left, layer.Top}
	newLayer := Vec2{
		layer.Left + (newBounds.X - old.X),
		layer.Top + (newBounds.Y - old.Y),
	}

	s.applyBounds(newBounds, newLayer)

	ses := s.ses
	id := s.layerID
	ses.history.Enqueue(&HistoryEntry{
		Key:  fmt.Sprintf("bounds:%d", id),
		Undo: func() { restoreBounds(ses, id, old, oldLayer) },
		Redo: func() { restoreBounds(ses, id, newBounds, newLayer) },
	})
}

func (s *Sprite) applyBounds(b Rect, layerPos Vec2) {
	s.bounds = b
	if layer := s.Layer(); layer != nil {
		layer.Left = layerPos.X
		layer.Top = layerPos.Y
	}
	s.ses.resetFilterAndRecache(s.layerID)
}

// restoreBounds is the undo/redo body for bounds changes. A disposed sprite
// silently skips the sprite-space restoration; the layer still receives its
// authoritative-field update.
func restoreBounds(ses *Session, id LayerID, b Rect, layerPos Vec2) {
	layer := ses.doc.LayerByID(id)
	if layer != nil {
		layer.Left = layerPos.X
		layer.Top = layerPos.Y
	}
	if sp := ses.sprites.Get(id); sp != nil {
		sp.bounds = b
	}
	ses.resetFilterAndRecache(id)
}

// finishDrag enqueues the drag's bounds change as one history entry.
func (s *Sprite) finishDrag() {
	end := s.bounds
	// Rewind to the drag start so SetBounds records the full old/new pair.
	s.bounds = s.dragStartBounds
	if layer := s.Layer(); layer != nil {
		layer.Left = s.dragStartLayer.X
		layer.Top = s.dragStartLayer.Y
	}
	s.SetBounds(end)
}

// --- Debounced snapshot commit ---

// beginMutation lazily captures the "before" snapshot of the buffer — before
// the first mutation of the current debounce window. A transient capture
// failure skips history for this window but never blocks painting.
func (s *Sprite) beginMutation(dst *ebiten.Image) {
	if s.before != nil {
		return
	}
	snap, err := s.ses.snapshots.Capture(dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[easel] before-snapshot skipped: %v\n", err)
		return
	}
	s.before = snap
	s.commitTarget = dst
}

// afterMutation invalidates the effect cache (full-resolution passes only;
// callers skip this during preview) and arms the debounced commit.
func (s *Sprite) afterMutation(layer *Layer, dst *ebiten.Image) {
	if dst == layer.Source {
		s.ses.effects.Invalidate(layer.ID, PropFilter)
		s.ses.effects.Request(layer.ID)
	}
	if s.commitTimer == nil || !s.commitTimer.Active() {
		s.commitTimer = s.ses.sched.After(commitDelayFrames, s.tryCommit)
	}
}

// tryCommit fires when the debounce delay elapses. While the brush is still
// down it re-arms with a shorter delay instead of capturing; a final commit
// only happens once the stroke has ended.
func (s *Sprite) tryCommit() {
	if s.disposed {
		return
	}
	if s.brush.Down {
		s.commitTimer = s.ses.sched.After(commitRearmFrames, s.tryCommit)
		return
	}
	s.commitTimer = nil
	s.doCommit()
}

// doCommit captures the "after" snapshot and enqueues the undo/redo entry
// that restores the before/after states into the buffer.
func (s *Sprite) doCommit() {
	if s.before == nil {
		return
	}
	before := s.before
	dst := s.commitTarget
	s.before = nil
	s.commitTarget = nil

	after, err := s.ses.snapshots.Capture(dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[easel] after-snapshot skipped, no history entry: %v\n", err)
		before.Release()
		return
	}

	ses := s.ses
	id := s.layerID
	target := s.target
	restore := func(snap *Snapshot) {
		layer := ses.doc.LayerByID(id)
		if layer == nil || layer.IsDisposed() {
			return
		}
		buf := layer.Source
		if target == TargetMask {
			buf = layer.Mask
		}
		if buf == nil {
			return
		}
		if err := ses.snapshots.Restore(snap, buf); err != nil {
			fmt.Fprintf(os.Stderr, "[easel] history restore skipped: %v\n", err)
			return
		}
		ses.resetFilterAndRecache(id)
	}

	ses.history.Enqueue(&HistoryEntry{
		Key:       fmt.Sprintf("paint:%d", id),
		Undo:      func() { restore(before) },
		Redo:      func() { restore(after) },
		Resources: []*Snapshot{before, after},
	})
}

// flushCommit forces the pending debounced commit synchronously, cancelling
// the timer. Used on tool switches and stroke release so no mutation is ever
// lost from history.
func (s *Sprite) flushCommit() {
	if s.commitTimer != nil {
		s.commitTimer.Cancel()
		s.commitTimer = nil
	}
	s.doCommit()
}

// --- Disposal ---

// Dispose releases the sprite's buffers and cache entries, cancels the
// pending debounce timer, and — because the "before" capture is already past
// its encode step — flushes any pending commit synchronously first.
func (s *Sprite) Dispose() {
	if s.disposed {
		return
	}
	s.flushCommit()
	s.disposed = true
	s.discardPreview()
	s.brush.Reset()
	s.ses.effects.Remove(s.layerID)
	s.ses.sprites.remove(s.layerID)
}

// IsDisposed reports whether the sprite has been disposed.
func (s *Sprite) IsDisposed() bool { return s.disposed }
