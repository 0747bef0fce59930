package easel

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// previewMaxPixels caps the low-resolution preview buffer allocation.
const previewMaxPixels = 512 * 512

// --- Scratch target pool ---

// targetPool manages reusable offscreen ebiten.Images keyed by power-of-two
// dimensions. After warmup, Acquire/Release are zero-alloc. Used for the
// full-resolution stroke scratch buffers and the low-resolution preview.
type targetPool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *targetPool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool for reuse. The image is cleared on
// next Acquire, not here (avoids redundant GPU work if released then
// immediately re-acquired).
func (p *targetPool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// Dispose deallocates every pooled image.
func (p *targetPool) Dispose() {
	for _, stack := range p.buckets {
		for _, img := range stack {
			img.Deallocate()
		}
	}
	p.buckets = nil
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// --- Low-resolution preview buffer ---

// previewBuffer is the scratch surface a live stroke renders into at reduced
// pixel density. It exists only while the brush is down and is discarded
// unconditionally on release; it is never the source of a committed mutation.
type previewBuffer struct {
	image *ebiten.Image
	scale float64 // preview pixels per buffer pixel, <= 1
	pool  *targetPool
}

// newPreviewBuffer allocates a preview surface for a buffer of (w, h) pixels
// at the given scale, constrained to the preview pixel budget.
func newPreviewBuffer(pool *targetPool, w, h int, scale float64) *previewBuffer {
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	pw := float64(w) * scale
	ph := float64(h) * scale
	cw, ch := ConstrainSize(pw, ph, previewMaxPixels)
	if cw < pw {
		// The budget shrank the surface further; fold that into the scale so
		// coordinate remapping stays exact.
		scale *= cw / pw
	}
	iw := int(math.Max(1, math.Ceil(cw)))
	ih := int(math.Max(1, math.Ceil(ch)))
	return &previewBuffer{
		image: pool.Acquire(iw, ih),
		scale: scale,
		pool:  pool,
	}
}

// MapPoint remaps a canvas-space pointer coordinate into the preview
// buffer's reduced coordinate space.
func (p *previewBuffer) MapPoint(pt Vec2) Vec2 {
	return Vec2{pt.X * p.scale, pt.Y * p.scale}
}

// Discard returns the surface to the pool. The preview is discarded
// unconditionally when the stroke ends.
func (p *previewBuffer) Discard() {
	if p.image != nil {
		p.pool.Release(p.image)
		p.image = nil
	}
}
