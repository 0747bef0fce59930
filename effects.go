package easel

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// EffectProperty names one cached per-layer effect output.
type EffectProperty uint8

const (
	// PropFilter is the layer's filter output (opacity-composited source).
	PropFilter EffectProperty = iota
)

// effectEntry is the cached effect state for one layer.
type effectEntry struct {
	output      *ebiten.Image
	filterDirty bool
	inFlight    bool // a recompute is scheduled for this frame
}

// EffectCache maps layer id to last-computed effect output. Invalidation is
// synchronous; recomputation is coalesced so at most one recompute runs per
// layer per display frame, guarded by an in-flight flag cleared when the
// recompute completes.
type EffectCache struct {
	entries map[LayerID]*effectEntry
	queue   []LayerID
}

// NewEffectCache creates an empty cache.
func NewEffectCache() *EffectCache {
	return &EffectCache{entries: make(map[LayerID]*effectEntry)}
}

func (c *EffectCache) entry(id LayerID) *effectEntry {
	e := c.entries[id]
	if e == nil {
		e = &effectEntry{filterDirty: true}
		c.entries[id] = e
	}
	return e
}

// Invalidate marks one cached property dirty. Synchronous: the stale output
// is never served as fresh after this call.
func (c *EffectCache) Invalidate(id LayerID, prop EffectProperty) {
	e := c.entry(id)
	switch prop {
	case PropFilter:
		e.filterDirty = true
	}
}

// Request schedules an asynchronous recompute for the layer on the next
// Process call. Repeated requests within one frame coalesce to a single
// recompute.
func (c *EffectCache) Request(id LayerID) {
	e := c.entry(id)
	if e.inFlight {
		return
	}
	e.inFlight = true
	c.queue = append(c.queue, id)
}

// Process runs the queued recomputes. Called once per display frame.
func (c *EffectCache) Process(doc *Document) {
	if len(c.queue) == 0 {
		return
	}
	queue := c.queue
	c.queue = c.queue[len(c.queue):]
	for _, id := range queue {
		e := c.entries[id]
		if e == nil {
			continue
		}
		layer := doc.LayerByID(id)
		if layer == nil || layer.IsDisposed() {
			e.inFlight = false
			continue
		}
		c.render(layer, e)
		e.inFlight = false
	}
}

// Render returns the layer's effect output. With useCache, a clean cached
// output is returned as-is; otherwise the output is recomputed in place.
// Idempotent: rendering twice with the same inputs yields the same output.
// Returns the layer source directly when no filter applies.
func (c *EffectCache) Render(layer *Layer, useCache bool) *ebiten.Image {
	if !layer.Filter.Enabled {
		return layer.Source
	}
	e := c.entry(layer.ID)
	if useCache && !e.filterDirty && e.output != nil {
		return e.output
	}
	c.render(layer, e)
	return e.output
}

// render recomputes the filter output for a layer.
func (c *EffectCache) render(layer *Layer, e *effectEntry) {
	if !layer.Filter.Enabled {
		e.filterDirty = false
		return
	}
	w, h := int(layer.Width), int(layer.Height)
	if e.output == nil || e.output.Bounds().Dx() != w || e.output.Bounds().Dy() != h {
		if e.output != nil {
			e.output.Deallocate()
		}
		e.output = ebiten.NewImage(w, h)
	} else {
		e.output.Clear()
	}
	var op ebiten.DrawImageOptions
	op.ColorScale.ScaleAlpha(float32(clamp01(layer.Filter.Opacity)))
	e.output.DrawImage(layer.Source, &op)
	e.filterDirty = false
}

// Dirty reports whether the layer's filter output is stale. Test hook.
func (c *EffectCache) Dirty(id LayerID) bool {
	e := c.entries[id]
	return e == nil || e.filterDirty
}

// InFlight reports whether a recompute is scheduled for the layer this frame.
func (c *EffectCache) InFlight(id LayerID) bool {
	e := c.entries[id]
	return e != nil && e.inFlight
}

// Remove drops the layer's cache entry, deallocating its output and
// cancelling any scheduled recompute registration.
func (c *EffectCache) Remove(id LayerID) {
	e := c.entries[id]
	if e == nil {
		return
	}
	if e.output != nil {
		e.output.Deallocate()
	}
	delete(c.entries, id)
}
