package shape

import "github.com/go-gl/mathgl/mgl64"

// Cylinder is a right circular cylinder aligned along the local Y axis.
type Cylinder struct {
	Radius     float64
	HalfLength float64
}

func (c *Cylinder) LocalSupport(direction mgl64.Vec3) mgl64.Vec3 {
	y := c.HalfLength
	if direction.Y() < 0 {
		y = -y
	}

	radial := mgl64.Vec3{direction.X(), 0, direction.Z()}
	radialLen := radial.Len()
	if radialLen < 1e-12 {
		// (Anti)parallel to the axis: any rim point is an equally valid
		// support point. Picking local X keeps the result deterministic.
		return mgl64.Vec3{c.Radius, y, 0}
	}

	scale := c.Radius / radialLen
	return mgl64.Vec3{direction.X() * scale, y, direction.Z() * scale}
}
