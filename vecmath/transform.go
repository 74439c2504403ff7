// Package vecmath provides the rigid-transform algebra the narrowphase
// solver is built on. Vec3/Mat3 arithmetic itself is left to
// github.com/go-gl/mathgl/mgl64; this package adds the one thing mgl64
// doesn't: a Transform type with the compose/inverse operations the
// Minkowski-difference wrapper needs.
package vecmath

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid transform: a rotation followed by a translation.
// The convention is column-vector, right-multiply: Apply(v) = R*v + t.
type Transform struct {
	Rotation    mgl64.Mat3
	Translation mgl64.Vec3
}

// Identity returns the transform that maps every point to itself.
func Identity() Transform {
	return Transform{Rotation: mgl64.Ident3()}
}

// Apply maps a point from this transform's local frame to its parent frame.
func (t Transform) Apply(v mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Mul3x1(v).Add(t.Translation)
}

// ApplyRotation maps a direction (ignoring translation).
func (t Transform) ApplyRotation(v mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Mul3x1(v)
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	rt := t.Rotation.Transpose()
	return Transform{
		Rotation:    rt,
		Translation: rt.Mul3x1(t.Translation).Mul(-1),
	}
}

// InverseTimes returns t.Inverse() composed with other: this⁻¹ ∘ other.
// Used to build the relative transform between two shapes' local frames.
func (t Transform) InverseTimes(other Transform) Transform {
	return t.Inverse().Compose(other)
}

// Compose returns the transform equivalent to first applying other, then t:
// p -> t.Apply(other.Apply(p)).
func (t Transform) Compose(other Transform) Transform {
	return Transform{
		Rotation:    t.Rotation.Mul3(other.Rotation),
		Translation: t.Rotation.Mul3x1(other.Translation).Add(t.Translation),
	}
}
