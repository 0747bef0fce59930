package easel

import "math"

// defaultSnapThreshold is the snap distance, in canvas pixels, within which
// a dragged sprite edge locks onto a guide.
const defaultSnapThreshold = 8.0

// Guide is one alignment guide line. Vertical guides constrain X; horizontal
// guides constrain Y.
type Guide struct {
	Vertical bool
	Pos      float64
}

// SnapToGuides nudges the sprite's bounds so its nearest edge or center line
// aligns with the closest guide within the threshold. Applied once when a
// drag is released, before the move is recorded, so undo restores the
// snapped position. Returns true if any axis snapped.
func SnapToGuides(sp *Sprite, guides []Guide, threshold float64) bool {
	if sp == nil || len(guides) == 0 {
		return false
	}
	b := sp.bounds
	snapped := false

	bestX, bestXDelta := 0.0, threshold + 1
	bestY, bestYDelta := 0.0, threshold + 1

	for _, g := range guides {
		if g.Vertical {
			for _, edge := range [3]float64{b.X, b.X + b.Width/2, b.X + b.Width} {
				if d := g.Pos - edge; math.Abs(d) < math.Abs(bestXDelta) {
					bestXDelta = d
					bestX = b.X + d
				}
			}
		} else {
			for _, edge := range [3]float64{b.Y, b.Y + b.Height/2, b.Y + b.Height} {
				if d := g.Pos - edge; math.Abs(d) < math.Abs(bestYDelta) {
					bestYDelta = d
					bestY = b.Y + d
				}
			}
		}
	}

	if math.Abs(bestXDelta) <= threshold {
		sp.bounds.X = bestX
		snapped = true
	}
	if math.Abs(bestYDelta) <= threshold {
		sp.bounds.Y = bestY
		snapped = true
	}
	return snapped
}
