package easel

import (
	"image/color"
)

// Session is the editing core: it owns the document, the sprite registry,
// the history stack, the effect cache, and the frame scheduler, and routes
// pointer events to the active layer's sprite. It has no window or input
// loop of its own; Editor wraps it for interactive use and tests drive it
// directly, one Update per simulated frame.
type Session struct {
	doc       *Document
	sprites   *Registry
	history   *History
	effects   *EffectCache
	sched     *Scheduler
	pool      targetPool
	raster    Rasterizer
	snapshots SnapshotStore
	viewport  *Viewport
	guides    []Guide

	// LowMemory skips the eager history commit on stroke release, leaving it
	// to the debounce timer. For constrained devices.
	LowMemory bool

	// OnColorPicked is notified when the eyedropper samples a color.
	OnColorPicked func(color.RGBA)

	active   LayerID
	disposed bool
}

// NewSession creates a session around a document with the default
// collaborators: the vector rasterizer and the PNG snapshot store.
func NewSession(doc *Document) *Session {
	if doc == nil {
		panic("easel: nil document")
	}
	return &Session{
		doc:       doc,
		sprites:   NewRegistry(),
		history:   NewHistory(),
		effects:   NewEffectCache(),
		sched:     NewScheduler(),
		raster:    &VectorRasterizer{},
		snapshots: PNGSnapshotStore{},
		viewport:  NewViewport(doc.Width, doc.Height),
	}
}

// Document returns the session's document.
func (s *Session) Document() *Document { return s.doc }

// History returns the undo/redo stack.
func (s *Session) History() *History { return s.history }

// Effects returns the effect cache.
func (s *Session) Effects() *EffectCache { return s.effects }

// Scheduler returns the frame clock.
func (s *Session) Scheduler() *Scheduler { return s.sched }

// Viewport returns the pan/zoom state.
func (s *Session) Viewport() *Viewport { return s.viewport }

// Sprites returns the live sprite registry.
func (s *Session) Sprites() *Registry { return s.sprites }

// SetRasterizer substitutes the stroke rasterizer. Test hook.
func (s *Session) SetRasterizer(r Rasterizer) { s.raster = r }

// SetSnapshotStore substitutes the snapshot store. Test hook.
func (s *Session) SetSnapshotStore(st SnapshotStore) { s.snapshots = st }

// SetGuides replaces the alignment guides used for drag snapping.
func (s *Session) SetGuides(guides []Guide) {
	s.guides = append(s.guides[:0], guides...)
}

// Guides returns the current alignment guides.
func (s *Session) Guides() []Guide { return s.guides }

// ActivateLayer makes a layer the target of subsequent pointer events,
// creating its sprite if needed. Returns nil if the layer is unknown.
func (s *Session) ActivateLayer(id LayerID) *Sprite {
	layer := s.doc.LayerByID(id)
	if layer == nil {
		return nil
	}
	s.active = id
	return s.sprites.Create(s, layer)
}

// ActiveSprite returns the sprite for the active layer, or nil when no layer
// is active.
func (s *Session) ActiveSprite() *Sprite {
	if s.active == 0 {
		return nil
	}
	layer := s.doc.LayerByID(s.active)
	if layer == nil {
		return nil
	}
	return s.sprites.Create(s, layer)
}

// ActivateTool arms a tool on the active layer's sprite.
func (s *Session) ActivateTool(tool ToolKind, opts PaintOptions) {
	if sp := s.ActiveSprite(); sp != nil {
		sp.ArmTool(tool, opts)
	}
}

// HandlePress routes a pointer press, in canvas coordinates, to the active
// sprite.
func (s *Session) HandlePress(pos Vec2, kind EventKind) {
	if sp := s.ActiveSprite(); sp != nil {
		sp.HandlePress(pos, kind)
	}
}

// HandleMove routes pointer movement to the active sprite.
func (s *Session) HandleMove(pos Vec2, kind EventKind) {
	if sp := s.ActiveSprite(); sp != nil {
		sp.HandleMove(pos, kind)
	}
}

// HandleRelease routes a pointer release to the active sprite.
func (s *Session) HandleRelease(pos Vec2, kind EventKind) {
	if sp := s.ActiveSprite(); sp != nil {
		sp.HandleRelease(pos, kind)
	}
}

// Update advances the session one display frame: sprites consume their
// buffered stroke samples, the frame clock ticks, queued effect recomputes
// run, and viewport tweens advance. The model is single-threaded; all
// mutation happens here or in the event handlers between frames.
func (s *Session) Update() {
	s.sprites.Each(func(sp *Sprite) { sp.Update() })
	s.sched.Tick()
	s.effects.Process(s.doc)
	s.viewport.Update()
}

// Undo reverts the newest applied history entry.
func (s *Session) Undo() { s.history.Undo() }

// Redo re-applies the next redo-able history entry.
func (s *Session) Redo() { s.history.Redo() }

// resetFilterAndRecache invalidates a layer's filter output and schedules a
// recompute. Shared by history replay and mask/bounds mutation paths.
func (s *Session) resetFilterAndRecache(id LayerID) {
	s.effects.Invalidate(id, PropFilter)
	s.effects.Request(id)
}

// RemoveLayer disposes the layer's sprite (flushing any pending commit) and
// removes the layer from the document.
func (s *Session) RemoveLayer(id LayerID) {
	if sp := s.sprites.Get(id); sp != nil {
		sp.Dispose()
	}
	s.effects.Remove(id)
	if layer := s.doc.LayerByID(id); layer != nil {
		s.doc.RemoveLayer(layer)
	}
	if s.active == id {
		s.active = 0
	}
}

// Dispose tears the session down: every sprite is disposed (flushing pending
// commits), history resources are released, and pooled buffers deallocated.
// Idempotent.
func (s *Session) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	var live []*Sprite
	s.sprites.Each(func(sp *Sprite) { live = append(live, sp) })
	for _, sp := range live {
		sp.Dispose()
	}
	s.history.Clear()
	s.pool.Dispose()
}
