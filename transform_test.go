package easel

import (
	"math"
	"testing"
)

const epsilon = 1e-6

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want Vec2) {
	t.Helper()
	if math.Abs(got.X-want.X) > epsilon || math.Abs(got.Y-want.Y) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// --- RotateAbout ---

func TestRotateAboutZeroAngle(t *testing.T) {
	p := Vec2{3, 4}
	got := RotateAbout(p, Vec2{10, 10}, 0)
	assertVec(t, "zero angle", got, p)
}

func TestRotateAboutQuarterTurn(t *testing.T) {
	got := RotateAbout(Vec2{1, 0}, Vec2{0, 0}, math.Pi/2)
	assertVec(t, "quarter turn", got, Vec2{0, 1})
}

func TestRotateAboutPivot(t *testing.T) {
	got := RotateAbout(Vec2{11, 10}, Vec2{10, 10}, math.Pi)
	assertVec(t, "half turn about pivot", got, Vec2{9, 10})
}

// --- RotateRect ---

func TestRotateRectQuarterTurnSwapsDimensions(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 40, Height: 20}
	got := RotateRect(r, math.Pi/2)
	assertNear(t, "width", got.Width, 20)
	assertNear(t, "height", got.Height, 40)
	// Center is preserved.
	assertVec(t, "center", got.Center(), r.Center())
}

func TestRotateRectDegenerate(t *testing.T) {
	r := Rect{X: 5, Y: 5, Width: 0, Height: 10}
	if got := RotateRect(r, 1.0); got != r {
		t.Errorf("degenerate rect changed: %v", got)
	}
}

func TestRotateRectDiagonalGrows(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	got := RotateRect(r, math.Pi/4)
	want := 10 * math.Sqrt2
	assertNear(t, "aabb width", got.Width, want)
	assertNear(t, "aabb height", got.Height, want)
}

// --- ScaleRect ---

func TestScaleRectAboutCenter(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	got := ScaleRect(r, 2)
	assertNear(t, "width", got.Width, 40)
	assertNear(t, "height", got.Height, 20)
	assertVec(t, "center", got.Center(), r.Center())
}

func TestScaleRectInvalidFactor(t *testing.T) {
	r := Rect{X: 1, Y: 2, Width: 3, Height: 4}
	if got := ScaleRect(r, 0); got != r {
		t.Errorf("zero factor changed rect: %v", got)
	}
	if got := ScaleRect(r, -1); got != r {
		t.Errorf("negative factor changed rect: %v", got)
	}
}

// --- ConstrainSize ---

func TestConstrainSizeWithinBudget(t *testing.T) {
	w, h := ConstrainSize(100, 50, 10000)
	assertNear(t, "width", w, 100)
	assertNear(t, "height", h, 50)
}

func TestConstrainSizeShrinksProportionally(t *testing.T) {
	w, h := ConstrainSize(2000, 1000, 500*250)
	assertNear(t, "pixel budget", w*h, 500*250)
	assertNear(t, "aspect", w/h, 2)
}

func TestConstrainSizeDegenerate(t *testing.T) {
	w, h := ConstrainSize(0, 100, 50)
	assertNear(t, "width", w, 0)
	assertNear(t, "height", h, 100)
}

// --- LayerTransform ---

func TestCanvasToLayerIdentity(t *testing.T) {
	tf := LayerTransform{Left: 10, Top: 20, Width: 100, Height: 80}
	got := tf.CanvasToLayer(Vec2{35, 50})
	assertVec(t, "identity transform", got, Vec2{25, 30})
}

func TestLayerToCanvasRoundTrip(t *testing.T) {
	transforms := []LayerTransform{
		{Left: 10, Top: 20, Width: 100, Height: 80},
		{Left: 10, Top: 20, Width: 100, Height: 80, Rotation: 0.7},
		{Left: 10, Top: 20, Width: 100, Height: 80, Scale: 1.5},
		{Left: 10, Top: 20, Width: 100, Height: 80, MirrorX: true},
		{Left: 10, Top: 20, Width: 100, Height: 80, MirrorY: true},
		{Left: -5, Top: 3, Width: 64, Height: 64, Rotation: -1.2, Scale: 0.5, MirrorX: true, MirrorY: true},
	}
	p := Vec2{17, 42}
	for i, tf := range transforms {
		local := tf.CanvasToLayer(p)
		back := tf.LayerToCanvas(local)
		if math.Abs(back.X-p.X) > epsilon || math.Abs(back.Y-p.Y) > epsilon {
			t.Errorf("transform %d: round trip %v -> %v -> %v", i, p, local, back)
		}
	}
}

func TestCanvasToUnrotatedSkipsMirror(t *testing.T) {
	tf := LayerTransform{Left: 0, Top: 0, Width: 100, Height: 100, MirrorX: true}
	// Unrotated mapping ignores the mirror flag entirely.
	got := tf.CanvasToUnrotated(Vec2{10, 10})
	assertVec(t, "unrotated ignores mirror", got, Vec2{10, 10})
	// The full mapping applies it.
	got = tf.CanvasToLayer(Vec2{10, 10})
	assertVec(t, "full mapping mirrors", got, Vec2{90, 10})
}

func TestCanvasToUnrotatedInvertsRotation(t *testing.T) {
	tf := LayerTransform{Left: 0, Top: 0, Width: 100, Height: 100, Rotation: math.Pi / 2}
	// The center is a fixed point of the rotation.
	got := tf.CanvasToUnrotated(Vec2{50, 50})
	assertVec(t, "center fixed point", got, Vec2{50, 50})
	// A point directly right of center maps to directly above it.
	got = tf.CanvasToUnrotated(Vec2{60, 50})
	assertVec(t, "right of center", got, Vec2{50, 40})
}

func TestScaleFactorDefaults(t *testing.T) {
	tf := LayerTransform{Width: 10, Height: 10}
	assertNear(t, "zero scale", tf.scaleFactor(), 1)
	tf.Scale = -2
	assertNear(t, "negative scale", tf.scaleFactor(), 1)
	tf.Scale = 0.5
	assertNear(t, "explicit scale", tf.scaleFactor(), 0.5)
}
