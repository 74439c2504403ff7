package shape

import "github.com/go-gl/mathgl/mgl64"

// Sphere is a ball of the given radius centered at its local origin.
type Sphere struct {
	Radius float64
}

func (s *Sphere) LocalSupport(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() < 1e-16 {
		return mgl64.Vec3{s.Radius, 0, 0}
	}
	return direction.Normalize().Mul(s.Radius)
}
