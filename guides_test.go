package easel

import "testing"

func guidesSprite(bounds Rect) *Sprite {
	return &Sprite{bounds: bounds}
}

func TestSnapToGuidesVerticalEdge(t *testing.T) {
	sp := guidesSprite(Rect{X: 95, Y: 10, Width: 50, Height: 50})
	guides := []Guide{{Vertical: true, Pos: 100}}
	if !SnapToGuides(sp, guides, 8) {
		t.Fatal("expected snap")
	}
	assertNear(t, "snapped left edge", sp.bounds.X, 100)
	assertNear(t, "y untouched", sp.bounds.Y, 10)
}

func TestSnapToGuidesHorizontalCenter(t *testing.T) {
	// Center line at y=35+25=60 is 3px from the guide at 57.
	sp := guidesSprite(Rect{X: 0, Y: 35, Width: 50, Height: 50})
	guides := []Guide{{Vertical: false, Pos: 57}}
	if !SnapToGuides(sp, guides, 8) {
		t.Fatal("expected snap")
	}
	assertNear(t, "snapped center", sp.bounds.Y+sp.bounds.Height/2, 57)
}

func TestSnapToGuidesBeyondThreshold(t *testing.T) {
	sp := guidesSprite(Rect{X: 0, Y: 0, Width: 10, Height: 10})
	guides := []Guide{{Vertical: true, Pos: 50}}
	if SnapToGuides(sp, guides, 8) {
		t.Fatal("snapped beyond threshold")
	}
	assertNear(t, "x untouched", sp.bounds.X, 0)
}

func TestSnapToGuidesPicksNearest(t *testing.T) {
	sp := guidesSprite(Rect{X: 10, Y: 0, Width: 20, Height: 20})
	guides := []Guide{
		{Vertical: true, Pos: 4},  // 6 from left edge
		{Vertical: true, Pos: 12}, // 2 from left edge
	}
	if !SnapToGuides(sp, guides, 8) {
		t.Fatal("expected snap")
	}
	assertNear(t, "nearest guide wins", sp.bounds.X, 12)
}

func TestSnapToGuidesNilAndEmpty(t *testing.T) {
	if SnapToGuides(nil, []Guide{{Pos: 1}}, 8) {
		t.Error("nil sprite snapped")
	}
	if SnapToGuides(guidesSprite(Rect{}), nil, 8) {
		t.Error("no guides snapped")
	}
}
