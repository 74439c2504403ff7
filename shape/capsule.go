package shape

import "github.com/go-gl/mathgl/mgl64"

// Capsule is a cylinder capped by two hemispheres, aligned along the
// local Y axis. HalfLength is the distance from the center to each
// hemisphere center (not including the radius).
type Capsule struct {
	Radius     float64
	HalfLength float64
}

func (c *Capsule) LocalSupport(direction mgl64.Vec3) mgl64.Vec3 {
	// The support of a capsule is the support of its core segment,
	// offset by Radius along the query direction.
	segmentY := c.HalfLength
	if direction.Y() < 0 {
		segmentY = -segmentY
	}

	core := mgl64.Vec3{0, segmentY, 0}

	if direction.LenSqr() < 1e-16 {
		return core
	}

	return core.Add(direction.Normalize().Mul(c.Radius))
}
