// Package narrowphase is the query façade over the GJK/EPA solver
// core: two convex shapes plus their world transforms in, a hit/miss
// verdict (and, on a hit, depth/normal/contact or, on a miss,
// separation distance) out.
//
// The package never exposes GJK or EPA's internal status values to
// callers; degeneracy and non-convergence are reported simply as no
// answer. EPA capacity exhaustion is reported as a hit carrying the
// best-effort depth/normal of the closest face found so far.
package narrowphase

import (
	"math"
	"sync"

	"github.com/cologne86/narrowphase/epa"
	"github.com/cologne86/narrowphase/gjk"
	"github.com/cologne86/narrowphase/minkowski"
	"github.com/cologne86/narrowphase/shape"
	"github.com/cologne86/narrowphase/simplex"
	"github.com/cologne86/narrowphase/vecmath"
	"github.com/go-gl/mathgl/mgl64"
)

// simplexPool and polytopePool recycle the solver's per-query scratch
// buffers across calls, mirroring the teacher's gjk.SimplexPool and
// polytopeBuilderPool: every query still runs to completion on the
// caller's goroutine with no state surviving past Put, so reuse here
// is purely an allocation-count optimization, never a correctness
// dependency.
var simplexPool = sync.Pool{
	New: func() any { return &simplex.Simplex{} },
}

var polytopePool = sync.Pool{
	New: func() any { return &epa.Polytope{} },
}

func buildDiff(shapeA shape.Support, tfA vecmath.Transform, shapeB shape.Support, tfB vecmath.Transform) *minkowski.Diff {
	return minkowski.NewDiff(shapeA, tfA, shapeB, tfB)
}

func initialGuess(tfA, tfB vecmath.Transform) mgl64.Vec3 {
	d := tfB.Translation.Sub(tfA.Translation)
	if d.LenSqr() < 1e-16 {
		return mgl64.Vec3{1, 0, 0}
	}
	return d
}

// Intersect reports whether shapeA (at tfA) and shapeB (at tfB)
// overlap. On a hit, Depth is the penetration depth, Normal is unit
// length, in world coordinates, and lies along the separating axis EPA
// converged on (moving
// shapeA by Depth*Normal along one sign of that axis clears the
// overlap; callers that need a canonical sign should check which),
// and Contact is the midpoint of the deepest-penetration witness
// segment, in world coordinates.
func Intersect(shapeA shape.Support, tfA vecmath.Transform, shapeB shape.Support, tfB vecmath.Transform) (hit bool, contact mgl64.Vec3, depth float64, normal mgl64.Vec3) {
	diff := buildDiff(shapeA, tfA, shapeB, tfB)

	s := simplexPool.Get().(*simplex.Simplex)
	defer simplexPool.Put(s)

	gjkStatus, _ := gjk.EvaluateInto(s, diff, initialGuess(tfA, tfB))
	if gjkStatus != gjk.Enclosing {
		return false, mgl64.Vec3{}, 0, mgl64.Vec3{}
	}

	p := polytopePool.Get().(*epa.Polytope)
	defer polytopePool.Put(p)

	epaStatus, result := epa.EvaluateInto(p, s, diff, initialGuess(tfA, tfB))
	if epaStatus != epa.Valid && epaStatus != epa.Touching && epaStatus != epa.OutOfVertices && epaStatus != epa.OutOfFaces {
		return false, mgl64.Vec3{}, 0, mgl64.Vec3{}
	}

	if math.IsNaN(result.Depth) || isNaNVec(result.Normal) {
		return false, mgl64.Vec3{}, 0, mgl64.Vec3{}
	}

	localContact := contactFromBarycentric(diff, result)
	worldContact := tfA.Apply(localContact)

	return true, worldContact, result.Depth, tfA.ApplyRotation(result.Normal)
}

// Distance returns the minimum separating distance between shapeA and
// shapeB. Ok is false when the shapes overlap or the query could not
// be resolved within the documented numerical guarantees.
func Distance(shapeA shape.Support, tfA vecmath.Transform, shapeB shape.Support, tfB vecmath.Transform) (ok bool, distance float64) {
	diff := buildDiff(shapeA, tfA, shapeB, tfB)

	s := simplexPool.Get().(*simplex.Simplex)
	defer simplexPool.Put(s)

	status, _ := gjk.EvaluateInto(s, diff, initialGuess(tfA, tfB))
	if status != gjk.Separated {
		return false, 0
	}

	d := gjk.Distance(diff, s)
	if math.IsNaN(d) {
		return false, 0
	}
	return true, d
}

// IntersectTriangle is the shape-vs-triangle specialization of
// Intersect: the triangle is constructed inline from p1, p2, p3 at the
// identity transform.
func IntersectTriangle(shapeA shape.Support, tfA vecmath.Transform, p1, p2, p3 mgl64.Vec3) (hit bool, contact mgl64.Vec3, depth float64, normal mgl64.Vec3) {
	tri := &shape.Triangle{P0: p1, P1: p2, P2: p3}
	return Intersect(shapeA, tfA, tri, vecmath.Identity())
}

// IntersectTriangleRT is IntersectTriangle with the triangle posed by
// its own rotation r and translation t, mirroring the original
// shapeTriangleIntersect(..., R, T, ...) overload.
func IntersectTriangleRT(shapeA shape.Support, tfA vecmath.Transform, p1, p2, p3 mgl64.Vec3, r mgl64.Mat3, t mgl64.Vec3) (hit bool, contact mgl64.Vec3, depth float64, normal mgl64.Vec3) {
	tri := &shape.Triangle{P0: p1, P1: p2, P2: p3}
	tfB := vecmath.Transform{Rotation: r, Translation: t}
	return Intersect(shapeA, tfA, tri, tfB)
}

// contactFromBarycentric reconstructs the midpoint of the deepest-
// penetration witness segment in shape-0's local frame: the weighted
// sum of shape-0's own support points at the terminal face's vertex
// directions, nudged half the penetration depth back along the normal
// so the reported point sits between the two shapes rather than on
// shape A's surface.
func contactFromBarycentric(diff *minkowski.Diff, result epa.Result) mgl64.Vec3 {
	var w0 mgl64.Vec3
	for i := 0; i < 3; i++ {
		p := result.Barycentric.Points[i]
		weight := result.Barycentric.Weights[i]
		w0 = w0.Add(diff.Support(p.D, minkowski.Shape0).Mul(weight))
	}
	return w0.Sub(result.Normal.Mul(result.Depth / 2))
}

func isNaNVec(v mgl64.Vec3) bool {
	return math.IsNaN(v.X()) || math.IsNaN(v.Y()) || math.IsNaN(v.Z())
}
