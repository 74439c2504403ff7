package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cone is a right circular cone aligned along the local Y axis, apex up
// (+Y), base centered at -HalfHeight.
type Cone struct {
	Radius     float64
	HalfHeight float64
}

func (c *Cone) LocalSupport(direction mgl64.Vec3) mgl64.Vec3 {
	apex := mgl64.Vec3{0, c.HalfHeight, 0}

	radial := mgl64.Vec3{direction.X(), 0, direction.Z()}
	radialLen := radial.Len()
	dirLen := direction.Len()

	if radialLen < 1e-12 || dirLen < 1e-12 {
		if direction.Y() >= 0 {
			return apex
		}
		return mgl64.Vec3{c.Radius, -c.HalfHeight, 0}
	}

	// sinAngle is the sine of the cone's supporting half-angle: once
	// direction's axial component relative to its length exceeds it, the
	// apex alone is further along direction than any base-rim point.
	sinAngle := c.Radius / math.Hypot(c.Radius, 2*c.HalfHeight)
	if direction.Y()/dirLen > sinAngle {
		return apex
	}

	scale := c.Radius / radialLen
	return mgl64.Vec3{direction.X() * scale, -c.HalfHeight, direction.Z() * scale}
}
