package easel

import "testing"

func fakeSnapshot() *Snapshot {
	return &Snapshot{data: []byte{1, 2, 3}, w: 1, h: 1, refs: 1}
}

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	h := NewHistory()
	var state int
	h.Enqueue(&HistoryEntry{
		Key:  "paint:1",
		Undo: func() { state = 0 },
		Redo: func() { state = 1 },
	})
	state = 1

	if !h.CanUndo() || h.CanRedo() {
		t.Fatal("expected undo-able, not redo-able")
	}
	h.Undo()
	if state != 0 {
		t.Errorf("state after undo = %d, want 0", state)
	}
	if h.CanUndo() || !h.CanRedo() {
		t.Fatal("expected redo-able, not undo-able")
	}
	h.Redo()
	if state != 1 {
		t.Errorf("state after redo = %d, want 1", state)
	}
}

func TestHistoryEmptyNoOps(t *testing.T) {
	h := NewHistory()
	h.Undo()
	h.Redo()
	if h.Len() != 0 {
		t.Error("empty history mutated by no-op undo/redo")
	}
}

func TestHistoryTruncationReleasesResources(t *testing.T) {
	h := NewHistory()
	orphan := fakeSnapshot()
	h.Enqueue(&HistoryEntry{Key: "a"})
	h.Enqueue(&HistoryEntry{Key: "b", Resources: []*Snapshot{orphan}})
	h.Undo() // "b" is now redo-able

	h.Enqueue(&HistoryEntry{Key: "c"})
	if !orphan.Released() {
		t.Error("truncated entry's snapshot not released")
	}
	if h.Len() != 2 {
		t.Errorf("len = %d, want 2", h.Len())
	}
	if h.CanRedo() {
		t.Error("redo should be empty after enqueue")
	}
}

func TestHistoryDepthLimitEvictsOldest(t *testing.T) {
	h := NewHistory()
	h.SetLimit(3)
	first := fakeSnapshot()
	h.Enqueue(&HistoryEntry{Key: "0", Resources: []*Snapshot{first}})
	for i := 1; i <= 3; i++ {
		h.Enqueue(&HistoryEntry{Key: "x"})
	}
	if h.Len() != 3 {
		t.Errorf("len = %d, want 3", h.Len())
	}
	if !first.Released() {
		t.Error("evicted entry's snapshot not released")
	}
	// Every surviving entry is still undo-able.
	undos := 0
	for h.CanUndo() {
		h.Undo()
		undos++
	}
	if undos != 3 {
		t.Errorf("undos = %d, want 3", undos)
	}
}

func TestHistorySetLimitEvictsImmediately(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 5; i++ {
		h.Enqueue(&HistoryEntry{})
	}
	h.SetLimit(2)
	if h.Len() != 2 {
		t.Errorf("len after SetLimit = %d, want 2", h.Len())
	}
}

func TestHistoryClearReleasesAll(t *testing.T) {
	h := NewHistory()
	a, b := fakeSnapshot(), fakeSnapshot()
	h.Enqueue(&HistoryEntry{Resources: []*Snapshot{a}})
	h.Enqueue(&HistoryEntry{Resources: []*Snapshot{b}})
	h.Clear()
	if h.Len() != 0 || h.CanUndo() || h.CanRedo() {
		t.Error("clear left entries behind")
	}
	if !a.Released() || !b.Released() {
		t.Error("clear did not release resources")
	}
}

func TestSnapshotRefCounting(t *testing.T) {
	s := fakeSnapshot()
	s.Retain()
	s.Release()
	if s.Released() {
		t.Fatal("released while an owner remains")
	}
	s.Release()
	if !s.Released() {
		t.Fatal("not released after last owner")
	}
	// Releasing again is safe.
	s.Release()
}
