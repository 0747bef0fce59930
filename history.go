package easel

// HistoryEntry is one undo/redo step. Undo and Redo must be idempotent and
// side-effect-free beyond restoring or re-applying exactly the referenced
// state. The entry owns its snapshot resources.
type HistoryEntry struct {
	// Key scopes the entry to a layer/operation, e.g. "paint:3".
	Key string
	// Undo restores the state before the action.
	Undo func()
	// Redo re-applies the action.
	Redo func()
	// Resources are the snapshots this entry keeps alive.
	Resources []*Snapshot
}

func (e *HistoryEntry) releaseResources() {
	for _, r := range e.Resources {
		r.Release()
	}
	e.Resources = nil
}

// defaultHistoryLimit bounds the stack depth; the oldest entries are evicted
// (and their snapshots released) past this depth.
const defaultHistoryLimit = 50

// History is the linear undo/redo stack. Enqueueing a new entry truncates
// every redo-able entry beyond the current cursor, releasing their owned
// snapshot resources.
type History struct {
	entries []*HistoryEntry
	cursor  int // number of applied entries; entries[cursor:] are redo-able
	limit   int
}

// NewHistory creates an empty history with the default depth limit.
func NewHistory() *History {
	return &History{limit: defaultHistoryLimit}
}

// SetLimit changes the maximum stack depth (minimum 1) and evicts
// immediately if the stack already exceeds it.
func (h *History) SetLimit(limit int) {
	if limit < 1 {
		limit = 1
	}
	h.limit = limit
	h.evict()
}

// Enqueue appends an entry as the newest action. Any redo-able entries are
// dropped first and their resources released.
func (h *History) Enqueue(e *HistoryEntry) {
	for _, trunc := range h.entries[h.cursor:] {
		trunc.releaseResources()
	}
	h.entries = append(h.entries[:h.cursor], e)
	h.cursor = len(h.entries)
	h.evict()
}

// evict drops the oldest entries past the depth limit.
func (h *History) evict() {
	for len(h.entries) > h.limit {
		h.entries[0].releaseResources()
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = nil
		h.entries = h.entries[:len(h.entries)-1]
		if h.cursor > 0 {
			h.cursor--
		}
	}
}

// CanUndo reports whether an applied entry exists.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a redo-able entry exists.
func (h *History) CanRedo() bool { return h.cursor < len(h.entries) }

// Undo reverts the newest applied entry. No-op on an empty stack.
func (h *History) Undo() {
	if !h.CanUndo() {
		return
	}
	h.cursor--
	e := h.entries[h.cursor]
	if e.Undo != nil {
		e.Undo()
	}
}

// Redo re-applies the next redo-able entry. No-op when nothing is redo-able.
func (h *History) Redo() {
	if !h.CanRedo() {
		return
	}
	e := h.entries[h.cursor]
	h.cursor++
	if e.Redo != nil {
		e.Redo()
	}
}

// Len returns the number of entries on the stack.
func (h *History) Len() int { return len(h.entries) }

// Clear drops every entry and releases all owned resources.
func (h *History) Clear() {
	for _, e := range h.entries {
		e.releaseResources()
	}
	h.entries = nil
	h.cursor = 0
}
