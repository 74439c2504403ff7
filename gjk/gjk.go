// Package gjk implements the Gilbert-Johnson-Keerthi algorithm: it
// decides whether the Minkowski difference of two convex shapes
// contains the origin by walking an evolving simplex toward it.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the
//     Distance Between Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"github.com/cologne86/narrowphase/minkowski"
	"github.com/cologne86/narrowphase/simplex"
	"github.com/go-gl/mathgl/mgl64"
)

// Status is the outcome of a GJK query.
type Status int

const (
	// Separated means the shapes do not intersect; the terminal simplex
	// can be used to reconstruct witness points and a distance.
	Separated Status = iota
	// Enclosing means the Minkowski difference contains the origin; the
	// terminal simplex is a valid seed for EPA. It is rank 4 when it
	// strictly encloses the origin, and may be of lower rank when the
	// origin lies on it (within TolAbs); EPA completes such a simplex to
	// a tetrahedron.
	Enclosing
	// Degenerate means the query could not be resolved to either
	// outcome within the documented numerical guarantees.
	Degenerate
)

const (
	// MaxIterGJK bounds the refinement loop; a well-formed convex pair
	// converges in a handful of iterations, so this is a generous cap
	// against numerical stalls rather than an expected running count.
	MaxIterGJK = 128

	// TolRel and TolAbs are the separation and touching tolerances: small
	// enough not to lose sub-millimetre precision, large enough not to
	// oscillate forever on nearly-touching configurations.
	TolRel = 1e-6
	TolAbs = 1e-6
)

// Evaluate runs GJK on diff starting from initialGuess and returns the
// outcome along with the terminal simplex. On Enclosing the simplex is
// ready for epa.Evaluate (rank 4, or lower when the origin lies on the
// simplex itself); on Separated its weights
// and vertices can reconstruct witness points via Witnesses/Distance.
//
// Evaluate allocates its own simplex. A caller that wants to recycle
// the buffer across queries (the solver holds no state between calls,
// so this is purely an allocation-reuse concern) should call
// EvaluateInto with a simplex drawn from its own pool instead.
func Evaluate(diff *minkowski.Diff, initialGuess mgl64.Vec3) (Status, *simplex.Simplex) {
	status, s, _ := EvaluateWithStats(diff, initialGuess)
	return status, s
}

// EvaluateWithStats is the full form of Evaluate, additionally
// reporting the iteration count actually used. Production callers use
// Evaluate; this form exists so tests can assert termination bounds
// (the "every call terminates within MaxIterGJK iterations" property)
// without production code ever inspecting iteration counts.
func EvaluateWithStats(diff *minkowski.Diff, initialGuess mgl64.Vec3) (Status, *simplex.Simplex, int) {
	return EvaluateWithStatsInto(&simplex.Simplex{}, diff, initialGuess)
}

// EvaluateInto runs GJK exactly like Evaluate, but fills a
// caller-supplied simplex (resetting it first) instead of allocating a
// fresh one. Pairs with a sync.Pool of *simplex.Simplex at the call
// site, the same pattern the teacher's collision.go uses around
// gjk.SimplexPool.
func EvaluateInto(s *simplex.Simplex, diff *minkowski.Diff, initialGuess mgl64.Vec3) (Status, *simplex.Simplex) {
	status, s, _ := EvaluateWithStatsInto(s, diff, initialGuess)
	return status, s
}

// EvaluateWithStatsInto is EvaluateInto's full form, mirroring
// EvaluateWithStats.
func EvaluateWithStatsInto(s *simplex.Simplex, diff *minkowski.Diff, initialGuess mgl64.Vec3) (Status, *simplex.Simplex, int) {
	s.Reset()

	direction := initialGuess
	if direction.LenSqr() < 1e-16 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	w0 := diff.SupportOfDifference(direction)
	s.Grow(w0)
	s.Weights[0] = 1
	lastW := w0.W

	direction = w0.W.Mul(-1)
	if direction.LenSqr() <= TolAbs*TolAbs {
		return Enclosing, s, 0
	}

	for iter := 0; iter < MaxIterGJK; iter++ {
		sp := diff.SupportOfDifference(direction)

		// Separation/convergence test. direction is minus the current
		// closest point v, so |direction|² + direction·sp.W equals
		// |v|² − v·sp.W: how much closer to the origin the new support
		// point could still bring the simplex. Once that gap is within
		// TolRel of |v|², v is the closest point of the Minkowski
		// difference (to that relative tolerance) and the simplex's
		// weights give the witness points. When the origin is inside,
		// direction·sp.W is non-negative, so the gap is at least |v|²
		// and this test does not fire. Only squared lengths are used.
		gap := direction.LenSqr() + sp.W.Dot(direction)
		if gap <= TolRel*direction.LenSqr() {
			return Separated, s, iter
		}

		if sp.W.Sub(lastW).LenSqr() <= TolAbs*TolAbs {
			return Degenerate, s, iter
		}
		lastW = sp.W

		s.Grow(sp)

		closest, encloses := s.ClosestToOrigin()
		if encloses {
			return Enclosing, s, iter + 1
		}

		direction = closest.Mul(-1)
		if direction.LenSqr() <= TolAbs*TolAbs {
			return Enclosing, s, iter + 1
		}
	}

	return Degenerate, s, MaxIterGJK
}

// Witnesses reconstructs the two shapes' nearest points from a
// Separated terminal simplex: for each surviving vertex, the weighted
// sum of that vertex's support points on each shape, evaluated at the
// same direction that produced the Minkowski-difference vertex.
func Witnesses(diff *minkowski.Diff, s *simplex.Simplex) (w0, w1 mgl64.Vec3) {
	for i := 0; i < s.Rank; i++ {
		p := s.Points[i]
		weight := s.Weights[i]
		w0 = w0.Add(diff.Support(p.D, minkowski.Shape0).Mul(weight))
		w1 = w1.Add(diff.Support(p.D.Mul(-1), minkowski.Shape1).Mul(weight))
	}
	return w0, w1
}

// Distance returns the separation distance encoded by a Separated
// terminal simplex: the length of the gap between the two shapes'
// witness points. Squared lengths are used throughout the solver loop
// via ClosestToOrigin's internal tests; this is the one place a
// caller-facing query takes the single, final math.Sqrt (via Vec3.Len).
func Distance(diff *minkowski.Diff, s *simplex.Simplex) float64 {
	w0, w1 := Witnesses(diff, s)
	return w0.Sub(w1).Len()
}
