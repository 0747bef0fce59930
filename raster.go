package easel

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// whiteSubImage is the 1x1 interior of a 3x3 white image, used as the source
// texture for DrawTriangles fills (the border avoids sampling bleed).
var whiteSubImage *ebiten.Image

func init() {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	whiteSubImage = white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// StrokeOverrides lets the paint controller redirect a stroke render: a
// pre-transformed pointer path, a stamp-size scale for the low-resolution
// preview, or a clone source.
type StrokeOverrides struct {
	// Points replaces the brush's pending samples. Already mapped into the
	// destination buffer's coordinate space.
	Points []Vec2
	// Scale multiplies the stamp size; used by the preview buffer. Zero
	// defaults to 1.
	Scale float64
	// Source, when non-nil, switches to clone stamping: pixels are read from
	// Source at point+SourceOffset instead of painting a solid color.
	Source *ebiten.Image
	// SourceOffset is the clone source anchor minus the destination start
	// anchor.
	SourceOffset Vec2
}

func (ov *StrokeOverrides) scale() float64 {
	if ov == nil || ov.Scale <= 0 {
		return 1
	}
	return ov.Scale
}

// Rasterizer is the low-level drawing-primitive collaborator: it executes
// stroke stamping and flood fills but knows nothing about selections,
// transforms, history, or scheduling.
type Rasterizer interface {
	// RenderStroke rasterizes the brush's pending path (or the override
	// path) into dst.
	RenderStroke(dst *ebiten.Image, brush *BrushState, overrides *StrokeOverrides)
	// FloodFill fills the 4-connected region of matching color around
	// (x, y) with col. The within predicate, when non-nil, bounds the fill.
	FloodFill(dst *ebiten.Image, x, y int, col color.RGBA, within func(x, y int) bool)
	// ReadPixel returns the color of one pixel.
	ReadPixel(img *ebiten.Image, x, y int) color.RGBA
}

// VectorRasterizer is the default Rasterizer, built on ebiten's vector
// triangulation for stamps and a CPU scanline walk for flood fills.
type VectorRasterizer struct{}

// RenderStroke draws round stamps at each path point joined by round-capped
// segments, repeated Options.StrokeCount times.
func (VectorRasterizer) RenderStroke(dst *ebiten.Image, brush *BrushState, overrides *StrokeOverrides) {
	points := brush.Pending()
	if overrides != nil && overrides.Points != nil {
		points = overrides.Points
	}
	if len(points) == 0 {
		return
	}

	if overrides != nil && overrides.Source != nil {
		renderCloneStroke(dst, brush, points, overrides)
		return
	}

	radius := float32(brush.Options.size() / 2 * overrides.scale())
	if radius < 0.5 {
		radius = 0.5
	}

	var path vector.Path
	path.MoveTo(float32(points[0].X), float32(points[0].Y))
	if len(points) == 1 {
		// A single press still leaves a dot.
		path.LineTo(float32(points[0].X)+0.01, float32(points[0].Y))
	} else {
		for _, p := range points[1:] {
			path.LineTo(float32(p.X), float32(p.Y))
		}
	}

	opts := &vector.StrokeOptions{
		Width:    radius * 2,
		LineCap:  vector.LineCapRound,
		LineJoin: vector.LineJoinRound,
	}
	vertices, indices := path.AppendVerticesAndIndicesForStroke(nil, nil, opts)

	col := brush.Options.Color
	for i := range vertices {
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
		vertices[i].ColorR = float32(col.R)
		vertices[i].ColorG = float32(col.G)
		vertices[i].ColorB = float32(col.B)
		vertices[i].ColorA = float32(col.A)
	}

	top := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	for n := 0; n < brush.Options.strokeCount(); n++ {
		dst.DrawTriangles(vertices, indices, whiteSubImage, top)
	}
}

// renderCloneStroke stamps circular regions read from the clone source. Each
// stamp copies a size×size square from source at point+offset, clipped to a
// round brush footprint.
func renderCloneStroke(dst *ebiten.Image, brush *BrushState, points []Vec2, ov *StrokeOverrides) {
	d := int(brush.Options.size())
	if d < 1 {
		d = 1
	}
	stamp := ebiten.NewImage(d, d)
	defer stamp.Deallocate()

	srcBounds := ov.Source.Bounds()
	half := float64(d) / 2

	for _, p := range points {
		sx := p.X + ov.SourceOffset.X - half
		sy := p.Y + ov.SourceOffset.Y - half

		rect := image.Rect(int(sx), int(sy), int(sx)+d, int(sy)+d).Intersect(srcBounds)
		if rect.Empty() {
			continue
		}

		stamp.Clear()
		var op ebiten.DrawImageOptions
		op.GeoM.Translate(float64(rect.Min.X)-sx, float64(rect.Min.Y)-sy)
		stamp.DrawImage(ov.Source.SubImage(rect).(*ebiten.Image), &op)
		clipStampToCircle(stamp, float32(half))

		var dop ebiten.DrawImageOptions
		dop.GeoM.Translate(p.X-half, p.Y-half)
		dst.DrawImage(stamp, &dop)
	}
}

// clipStampToCircle restricts a square stamp to its inscribed circle by
// masking the destination to a filled circle's alpha.
func clipStampToCircle(stamp *ebiten.Image, radius float32) {
	var path vector.Path
	path.Arc(radius, radius, radius, 0, 2*3.141592653589793, vector.Clockwise)
	path.Close()
	vertices, indices := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vertices {
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
		vertices[i].ColorR = 1
		vertices[i].ColorG = 1
		vertices[i].ColorB = 1
		vertices[i].ColorA = 1
	}
	stamp.DrawTriangles(vertices, indices, whiteSubImage, &ebiten.DrawTrianglesOptions{
		Blend: BlendMask.EbitenBlend(),
	})
}

// FloodFill reads the buffer once, walks the 4-connected region of the seed
// pixel's exact color, and writes the result back in one pass.
func (VectorRasterizer) FloodFill(dst *ebiten.Image, x, y int, col color.RGBA, within func(x, y int) bool) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	if within != nil && !within(x, y) {
		return
	}

	pix := make([]byte, 4*w*h)
	dst.ReadPixels(pix)

	idx := func(px, py int) int { return 4 * (py*w + px) }
	seed := idx(x, y)
	var target [4]byte
	copy(target[:], pix[seed:seed+4])

	// Premultiplied fill bytes, matching ReadPixels format.
	fa := uint32(col.A)
	fill := [4]byte{
		byte(uint32(col.R) * fa / 255),
		byte(uint32(col.G) * fa / 255),
		byte(uint32(col.B) * fa / 255),
		col.A,
	}
	if target == fill {
		return
	}

	matches := func(i int) bool {
		return pix[i] == target[0] && pix[i+1] == target[1] &&
			pix[i+2] == target[2] && pix[i+3] == target[3]
	}

	stack := [][2]int{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		px, py := p[0], p[1]
		i := idx(px, py)
		if !matches(i) {
			continue
		}
		copy(pix[i:i+4], fill[:])

		for _, n := range [4][2]int{{px - 1, py}, {px + 1, py}, {px, py - 1}, {px, py + 1}} {
			nx, ny := n[0], n[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if within != nil && !within(nx, ny) {
				continue
			}
			if matches(idx(nx, ny)) {
				stack = append(stack, [2]int{nx, ny})
			}
		}
	}

	dst.WritePixels(pix)
}

// ReadPixel returns the straight-alpha color of one pixel.
func (VectorRasterizer) ReadPixel(img *ebiten.Image, x, y int) color.RGBA {
	b := img.Bounds()
	if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
		return color.RGBA{}
	}
	r, g, b16, a := img.At(x, y).RGBA()
	return color.RGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b16 >> 8),
		A: uint8(a >> 8),
	}
}

// rgba converts an easel Color to a straight-alpha color.RGBA.
func (c Color) rgba() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// premulRGBA converts an easel Color to a premultiplied color.RGBA for
// image fills.
func (c Color) premulRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
