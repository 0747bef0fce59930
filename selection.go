package easel

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Selection is a snapshot of the document selection taken when a tool is
// armed: the polygon, its invert flag, and the coordinate offset/scale the
// paint pass needs. Points are in canvas coordinates.
type Selection struct {
	Points   []Vec2
	Inverted bool
}

// Valid reports whether the selection is usable for clipping. Fewer than 3
// points is treated as "no selection".
func (s *Selection) Valid() bool {
	return s != nil && len(s.Points) >= 3
}

// transformed returns the polygon with every point mapped through fn.
func (s *Selection) transformed(fn func(Vec2) Vec2) []Vec2 {
	out := make([]Vec2, len(s.Points))
	for i, p := range s.Points {
		out[i] = fn(p)
	}
	return out
}

// buildSelectionMask rasterizes the polygon into an alpha mask image of the
// given size. Points are offset by (-originX, -originY) and scaled, so the
// same selection can clip both full-resolution scratch buffers and the
// low-resolution preview buffer.
func buildSelectionMask(w, h int, points []Vec2, originX, originY, scale float64) *ebiten.Image {
	mask := ebiten.NewImage(w, h)
	if len(points) < 3 {
		// No usable polygon: clip nothing away.
		mask.Fill(color.White)
		return mask
	}
	var path vector.Path
	path.MoveTo(float32((points[0].X-originX)*scale), float32((points[0].Y-originY)*scale))
	for _, p := range points[1:] {
		path.LineTo(float32((p.X-originX)*scale), float32((p.Y-originY)*scale))
	}
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
	mask.DrawTriangles(vertices, indices, whiteSubImage, &ebiten.DrawTrianglesOptions{
		AntiAlias: false,
		FillRule:  ebiten.FillRuleEvenOdd,
	})
	return mask
}

// applySelectionClip restricts the scratch buffer to the selection region.
// The complement is never constructed as a path: a normal selection clips by
// masking the destination to the polygon's alpha, an inverted selection
// switches the compositing rule to destination-out instead, which keeps the
// cost independent of canvas size.
func applySelectionClip(scratch *ebiten.Image, sel *Selection, points []Vec2, scale float64) {
	if !sel.Valid() {
		return
	}
	b := scratch.Bounds()
	mask := buildSelectionMask(b.Dx(), b.Dy(), points, 0, 0, scale)
	var op ebiten.DrawImageOptions
	if sel.Inverted {
		op.Blend = BlendErase.EbitenBlend()
	} else {
		op.Blend = BlendMask.EbitenBlend()
	}
	scratch.DrawImage(mask, &op)
	mask.Deallocate()
}

// pointInPolygon reports whether (x, y) lies inside the polygon using the
// even-odd crossing rule. Handles concave polygons; degenerate polygons
// contain nothing.
func pointInPolygon(points []Vec2, x, y float64) bool {
	n := len(points)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := points[i].X, points[i].Y
		xj, yj := points[j].X, points[j].Y
		if (yi > y) != (yj > y) &&
			x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}
