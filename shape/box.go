package shape

import "github.com/go-gl/mathgl/mgl64"

// Box is an axis-aligned (in its own local frame) box defined by its
// half-extents along x, y, z.
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) LocalSupport(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}
