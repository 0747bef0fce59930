package easel

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// Snapshot is an immutable encoded copy of a pixel buffer's contents at one
// instant. History entries own their snapshots through Retain/Release; the
// encoded bytes are dropped when the last owner releases.
type Snapshot struct {
	data []byte
	w, h int
	refs int
}

// Width returns the captured buffer width in pixels.
func (s *Snapshot) Width() int { return s.w }

// Height returns the captured buffer height in pixels.
func (s *Snapshot) Height() int { return s.h }

// Size returns the encoded byte size, or 0 after the snapshot is released.
func (s *Snapshot) Size() int { return len(s.data) }

// Retain adds an owner.
func (s *Snapshot) Retain() {
	s.refs++
}

// Release drops one owner. When the last owner releases, the encoded data
// is freed.
func (s *Snapshot) Release() {
	if s.refs > 0 {
		s.refs--
	}
	if s.refs == 0 {
		s.data = nil
	}
}

// Released reports whether the snapshot's data has been dropped.
func (s *Snapshot) Released() bool {
	return s.data == nil
}

// SnapshotStore captures and restores pixel-buffer snapshots. The default
// implementation encodes PNG; tests may substitute a recording store.
type SnapshotStore interface {
	// Capture encodes the image's current contents. The returned snapshot
	// starts with one reference.
	Capture(img *ebiten.Image) (*Snapshot, error)
	// Restore writes a snapshot's contents back into the image.
	Restore(snap *Snapshot, img *ebiten.Image) error
}

// encodePixels compresses a premultiplied RGBA byte buffer losslessly. The
// bytes are stored exactly as ReadPixels produced them; PNG is only the
// container, so decodePixels returns a byte-identical buffer. No alpha
// conversion happens here: unpremultiplying and re-premultiplying rounds
// semi-transparent channels, and a restored buffer must match the captured
// one byte for byte.
func encodePixels(pixels []byte, w, h int) ([]byte, error) {
	img := &image.NRGBA{Pix: pixels, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("snapshot encode: %w", err)
	}
	return buf.Bytes(), nil
}

// decodePixels reverses encodePixels, returning the original premultiplied
// RGBA bytes.
func decodePixels(data []byte, w, h int) ([]byte, error) {
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("snapshot decode: %w", err)
	}
	b := decoded.Bounds()
	if b.Dx() != w || b.Dy() != h {
		return nil, fmt.Errorf("snapshot decode: size mismatch %dx%d vs %dx%d", b.Dx(), b.Dy(), w, h)
	}
	nrgba, ok := decoded.(*image.NRGBA)
	if !ok {
		// Fully opaque captures decode as truecolor; widening back to four
		// channels is exact.
		nrgba = image.NewNRGBA(b)
		draw.Draw(nrgba, nrgba.Bounds(), decoded, b.Min, draw.Src)
	}
	if len(nrgba.Pix) != 4*w*h {
		return nil, fmt.Errorf("snapshot decode: unexpected pixel length %d", len(nrgba.Pix))
	}
	return nrgba.Pix, nil
}

// PNGSnapshotStore encodes snapshots as PNG bytes.
type PNGSnapshotStore struct{}

// Capture reads the buffer's premultiplied pixels and stores them
// losslessly, so a later Restore writes back exactly the bytes read here.
func (PNGSnapshotStore) Capture(img *ebiten.Image) (*Snapshot, error) {
	if img == nil {
		return nil, fmt.Errorf("snapshot capture: nil buffer")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("snapshot capture: empty buffer")
	}

	pixels := make([]byte, 4*w*h)
	img.ReadPixels(pixels)

	data, err := encodePixels(pixels, w, h)
	if err != nil {
		return nil, err
	}
	return &Snapshot{data: data, w: w, h: h, refs: 1}, nil
}

// Restore decodes a snapshot and writes its pixels back into the buffer
// exactly as they were captured.
func (PNGSnapshotStore) Restore(snap *Snapshot, img *ebiten.Image) error {
	if snap == nil || snap.Released() {
		return fmt.Errorf("snapshot restore: snapshot released")
	}
	if img == nil {
		return fmt.Errorf("snapshot restore: nil buffer")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w != snap.w || h != snap.h {
		return fmt.Errorf("snapshot restore: size mismatch %dx%d vs %dx%d", snap.w, snap.h, w, h)
	}
	pixels, err := decodePixels(snap.data, snap.w, snap.h)
	if err != nil {
		return fmt.Errorf("snapshot restore: %w", err)
	}
	img.WritePixels(pixels)
	return nil
}

// Thumbnail decodes a snapshot and scales it to fit within (maxW, maxH),
// preserving aspect ratio. Used by undo-history palettes. The stored
// premultiplied channels are converted to straight alpha here, where
// rounding only affects the displayed preview, never the restored buffer.
func (s *Snapshot) Thumbnail(maxW, maxH int) (image.Image, error) {
	if s.Released() {
		return nil, fmt.Errorf("snapshot thumbnail: snapshot released")
	}
	pixels, err := decodePixels(s.data, s.w, s.h)
	if err != nil {
		return nil, fmt.Errorf("snapshot thumbnail: %w", err)
	}

	src := image.NewNRGBA(image.Rect(0, 0, s.w, s.h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		src.Pix[i] = r
		src.Pix[i+1] = g
		src.Pix[i+2] = b
		src.Pix[i+3] = a
	}

	tw, th := ConstrainSize(float64(s.w), float64(s.h), float64(maxW*maxH))
	dst := image.NewNRGBA(image.Rect(0, 0, max(int(tw), 1), max(int(th), 1)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}
