package shape

import "github.com/go-gl/mathgl/mgl64"

// Triangle is its own convex hull: three vertices in the shape's local
// frame. Used both as a standalone shape and as shape B in the
// query façade's shape-vs-triangle specializations.
type Triangle struct {
	P0, P1, P2 mgl64.Vec3
}

func (tr *Triangle) LocalSupport(direction mgl64.Vec3) mgl64.Vec3 {
	best := tr.P0
	bestDot := direction.Dot(tr.P0)

	if d := direction.Dot(tr.P1); d > bestDot {
		bestDot = d
		best = tr.P1
	}
	if d := direction.Dot(tr.P2); d > bestDot {
		best = tr.P2
	}

	return best
}
