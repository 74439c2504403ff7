// Package minkowski wraps two shape.Support implementations and a
// relative transform into a single support function over their
// Minkowski difference — the one query GJK and EPA ever need.
package minkowski

import (
	"github.com/cologne86/narrowphase/shape"
	"github.com/cologne86/narrowphase/vecmath"
	"github.com/go-gl/mathgl/mgl64"
)

// Which selects one side of a Diff.
type Which int

const (
	Shape0 Which = iota
	Shape1
)

// SupportPoint is one atom of a Simplex or EPA Polytope: the direction
// that produced it, the resulting point on the Minkowski difference
// (in shape-0's frame), and a stable integer identity used for
// deduplication without relying on exact float equality of W.
type SupportPoint struct {
	D  mgl64.Vec3
	W  mgl64.Vec3
	ID int
}

// Diff combines two shapes and the relative transform between their
// local frames into a single support-of-the-difference function. All
// coordinates it returns are expressed in shape-0's frame.
//
// ToShape0 maps shape-1's local frame into shape-0's local frame.
// ToShape1 is the rotation-only counterpart, used to rotate a query
// direction into shape-1's frame without the (irrelevant, for a
// direction) translation component. Caching both at construction avoids
// a matrix inversion per GJK/EPA iteration.
type Diff struct {
	Shape0, Shape1 shape.Support
	ToShape0       vecmath.Transform
	ToShape1       mgl64.Mat3

	nextID int
}

// NewDiff builds the Minkowski-difference wrapper for a query between
// shapeA (posed at tfA) and shapeB (posed at tfB). The returned Diff's
// frame is shapeA's local frame.
func NewDiff(shapeA shape.Support, tfA vecmath.Transform, shapeB shape.Support, tfB vecmath.Transform) *Diff {
	return &Diff{
		Shape0:   shapeA,
		Shape1:   shapeB,
		ToShape0: tfA.InverseTimes(tfB),
		ToShape1: tfB.Rotation.Transpose().Mul3(tfA.Rotation),
	}
}

// Support returns the support point of the designated shape, expressed
// in shape-0's frame, for a direction also expressed in shape-0's frame.
func (d *Diff) Support(direction mgl64.Vec3, which Which) mgl64.Vec3 {
	if which == Shape0 {
		return d.Shape0.LocalSupport(direction)
	}

	localDir := d.ToShape1.Mul3x1(direction)
	localSupport := d.Shape1.LocalSupport(localDir)
	return d.ToShape0.Apply(localSupport)
}

// SupportOfDifference evaluates the support function of the Minkowski
// difference A - B at direction d: support(d, Shape0) - support(-d, Shape1).
// Each call assigns the returned point a fresh, query-scoped ID.
func (d *Diff) SupportOfDifference(direction mgl64.Vec3) SupportPoint {
	w := d.Support(direction, Shape0).Sub(d.Support(direction.Mul(-1), Shape1))
	id := d.nextID
	d.nextID++
	return SupportPoint{D: direction, W: w, ID: id}
}
