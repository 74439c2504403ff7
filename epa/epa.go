// Package epa implements the Expanding Polytope Algorithm: given a
// GJK simplex enclosing the origin, it grows a polytope outward until
// its closest face to the origin gives the penetration depth and
// separating normal of two overlapping convex shapes.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth
//     Computation on 3D Game Objects" (2001)
package epa

import (
	"math"

	"github.com/cologne86/narrowphase/minkowski"
	"github.com/cologne86/narrowphase/simplex"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// EPAMaxIterations bounds the polytope expansion loop.
	EPAMaxIterations = 64

	// TolEPA is the convergence tolerance: once a new support point
	// improves a face's plane distance by less than this, that face is
	// taken as the polytope's closest feature to the origin.
	TolEPA = 0.001

	// TolTouch is the volume threshold below which an incoming simplex
	// is treated as a touching (zero-depth) configuration rather than a
	// true overlap.
	TolTouch = 1e-9

	// EPAMinFaceDistance is the plane distance assigned to a face whose
	// vertices are (near-)colinear and so have no usable normal.
	EPAMinFaceDistance = 0.0001

	// MaxVerticesEPA and MaxFacesEPA cap the polytope's growth; beyond
	// either, EPA returns a best-effort result from the closest face
	// found so far rather than continuing indefinitely.
	MaxVerticesEPA = 128
	MaxFacesEPA    = 256

	minFaceNormalLenSqr = 1e-16

	// polytopeInitialCapacity sizes the vertex-ID map a fresh Polytope
	// allocates on its first Reset.
	polytopeInitialCapacity = 4
)

// Status is the outcome of an EPA query.
type Status int

const (
	Valid Status = iota
	Touching
	Degenerate
	OutOfVertices
	OutOfFaces
	Failed
)

// Barycentric records the terminal face's three vertices and the
// barycentric weights of the witness point on that face, for contact
// reconstruction in shape-0's frame.
type Barycentric struct {
	Points  [3]minkowski.SupportPoint
	Weights [3]float64
}

// Result carries the geometric payload of a non-Failed EPA outcome.
type Result struct {
	Depth       float64
	Normal      mgl64.Vec3
	Barycentric Barycentric
}

// Evaluate grows a polytope from gjkSimplex (which must enclose the
// origin, completed to a tetrahedron first if GJK handed over a
// lower-rank simplex) until it finds the face of the Minkowski
// difference closest to the origin.
//
// Evaluate allocates its own Polytope. A caller that wants to recycle
// the buffer across queries should call EvaluateInto with a Polytope
// drawn from its own pool instead, mirroring the teacher's
// polytopeBuilderPool.
func Evaluate(gjkSimplex *simplex.Simplex, diff *minkowski.Diff, directionHint mgl64.Vec3) (Status, Result) {
	status, result, _ := evaluateTraced(&Polytope{}, gjkSimplex, diff, directionHint)
	return status, result
}

// EvaluateInto runs EPA exactly like Evaluate, but grows a
// caller-supplied Polytope (resetting it first) instead of allocating
// a fresh one.
func EvaluateInto(p *Polytope, gjkSimplex *simplex.Simplex, diff *minkowski.Diff, directionHint mgl64.Vec3) (Status, Result) {
	status, result, _ := evaluateTraced(p, gjkSimplex, diff, directionHint)
	return status, result
}

// EvaluateWithTrace is Evaluate's instrumented form: besides the status
// and result, it returns the plane distance D of the face selected at
// the top of each loop iteration, in the order they were selected.
// Production callers use Evaluate/EvaluateInto; this form exists so
// tests can assert the "selected face's D is non-decreasing across
// iterations" property without production code ever inspecting the
// trace.
func EvaluateWithTrace(gjkSimplex *simplex.Simplex, diff *minkowski.Diff, directionHint mgl64.Vec3) (Status, Result, []float64) {
	return evaluateTraced(&Polytope{}, gjkSimplex, diff, directionHint)
}

func evaluateTraced(p *Polytope, gjkSimplex *simplex.Simplex, diff *minkowski.Diff, directionHint mgl64.Vec3) (Status, Result, []float64) {
	s, ok := completeToTetrahedron(gjkSimplex, diff, directionHint)
	if !ok {
		return Failed, Result{}, nil
	}

	if tetrahedronVolume(s) < TolTouch {
		return Touching, Result{Normal: touchingNormal(s)}, nil
	}

	p.Reset()
	if err := p.BuildInitialFaces(s); err != nil {
		return Failed, Result{}, nil
	}

	var trace []float64

	for iter := 0; iter < EPAMaxIterations; iter++ {
		idx, ok := p.popClosest()
		if !ok {
			return Degenerate, Result{}, trace
		}
		trace = append(trace, p.faces[idx].d)

		if len(p.vertices) > MaxVerticesEPA {
			status, result := bestEffort(p, OutOfVertices)
			return status, result, trace
		}
		if len(p.faces) > MaxFacesEPA {
			status, result := bestEffort(p, OutOfFaces)
			return status, result, trace
		}

		f := p.faces[idx]
		sp := diff.SupportOfDifference(f.normal)
		d := sp.W.Dot(f.normal)

		if d-f.d <= TolEPA {
			return Valid, resultFromFace(p, idx), trace
		}

		if err := p.expand(sp); err != nil {
			return Degenerate, Result{}, trace
		}
	}

	return Degenerate, Result{}, trace
}

func resultFromFace(p *Polytope, idx int) Result {
	f := p.faces[idx]
	points, weights := p.faceBarycentric(idx)
	return Result{
		Depth:  f.d,
		Normal: f.normal,
		Barycentric: Barycentric{
			Points:  points,
			Weights: weights,
		},
	}
}

func bestEffort(p *Polytope, status Status) (Status, Result) {
	idx, ok := p.closestFaceIndex()
	if !ok {
		return Degenerate, Result{}
	}
	return status, resultFromFace(p, idx)
}

// faceBarycentric computes the barycentric weights, within triangle
// f's plane, of the point on that plane nearest the origin (f.normal *
// f.d). At convergence that point lies inside the triangle, so the
// plain area-ratio formula (Ericson, Real-Time Collision Detection
// §3.4) applies directly with no edge-Voronoi clamping.
func (p *Polytope) faceBarycentric(idx int) ([3]minkowski.SupportPoint, [3]float64) {
	f := p.faces[idx]
	a := p.vertices[f.v[0]]
	b := p.vertices[f.v[1]]
	c := p.vertices[f.v[2]]

	planePoint := f.normal.Mul(f.d)

	v0 := b.W.Sub(a.W)
	v1 := c.W.Sub(a.W)
	v2 := planePoint.Sub(a.W)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	var v, w float64
	if denom != 0 {
		v = (d11*d20 - d01*d21) / denom
		w = (d00*d21 - d01*d20) / denom
	}
	u := 1 - v - w

	return [3]minkowski.SupportPoint{a, b, c}, [3]float64{u, v, w}
}

func (p *Polytope) closestFaceIndex() (int, bool) {
	best := -1
	bestD := math.MaxFloat64
	for i := range p.faces {
		if !p.faces[i].alive {
			continue
		}
		if p.faces[i].d < bestD {
			best = i
			bestD = p.faces[i].d
		}
	}
	return best, best >= 0
}

// completeToTetrahedron grows s to rank 4 if GJK handed over a
// lower-rank enclosing simplex (possible when the origin lies exactly
// on the simplex boundary, a touching configuration). New vertices are
// sampled along directionHint and an orthogonal tangent basis built
// from it, skipping any candidate that duplicates a vertex already in
// the simplex or would leave it colinear/coplanar, so the completed
// tetrahedron is non-degenerate. Returns ok=false if rank 4 cannot be
// reached.
func completeToTetrahedron(s *simplex.Simplex, diff *minkowski.Diff, directionHint mgl64.Vec3) (*simplex.Simplex, bool) {
	if s.Rank == 4 {
		return s, true
	}

	hint := directionHint
	if hint.LenSqr() < 1e-16 {
		hint = mgl64.Vec3{0, 1, 0}
	} else {
		hint = hint.Normalize()
	}
	t1, t2 := tangentBasis(hint)

	candidates := []mgl64.Vec3{hint, hint.Mul(-1), t1, t1.Mul(-1), t2, t2.Mul(-1)}

	for _, d := range candidates {
		if s.Rank == 4 {
			break
		}
		sp := diff.SupportOfDifference(d)
		if duplicatesVertex(s, sp) {
			continue
		}
		if s.Rank >= 2 {
			a := s.Points[0].W
			n := s.Points[1].W.Sub(a).Cross(sp.W.Sub(a))
			if s.Rank == 2 && n.LenSqr() < 1e-16 {
				continue // colinear with the existing edge
			}
			if s.Rank == 3 && math.Abs(s.Points[2].W.Sub(a).Dot(n)) < 1e-16 {
				continue // coplanar with the existing triangle
			}
		}
		s.Grow(sp)
	}

	return s, s.Rank == 4
}

func duplicatesVertex(s *simplex.Simplex, sp minkowski.SupportPoint) bool {
	for i := 0; i < s.Rank; i++ {
		if s.Points[i].W.Sub(sp.W).LenSqr() < 1e-16 {
			return true
		}
	}
	return false
}

// tangentBasis builds two unit vectors orthogonal to normal and to
// each other, via Gram-Schmidt against the world X axis, or against the
// Y axis when normal's X component exceeds 0.9 in magnitude.
func tangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	t1 := mgl64.Vec3{1, 0, 0}
	if math.Abs(normal.X()) > 0.9 {
		t1 = mgl64.Vec3{0, 1, 0}
	}
	t1 = t1.Sub(normal.Mul(t1.Dot(normal))).Normalize()
	t2 := normal.Cross(t1).Normalize()
	return t1, t2
}

func tetrahedronVolume(s *simplex.Simplex) float64 {
	if s.Rank != 4 {
		return 0
	}
	a := s.Points[0].W
	b := s.Points[1].W
	c := s.Points[2].W
	d := s.Points[3].W

	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)

	return math.Abs(ab.Dot(ac.Cross(ad))) / 6
}

// touchingNormal estimates a separating normal from whatever vertices
// a degenerate (near-zero-volume) simplex carries, preferring the
// vertex already closest to the origin. Generalizes the teacher's
// handleDegenerateSimplex from "rank < 4" to "degenerate-volume rank-4
// simplex".
func touchingNormal(s *simplex.Simplex) mgl64.Vec3 {
	bestLenSqr := math.MaxFloat64
	var best mgl64.Vec3
	found := false

	for i := 0; i < s.Rank; i++ {
		lenSqr := s.Points[i].W.LenSqr()
		if lenSqr < bestLenSqr {
			bestLenSqr = lenSqr
			best = s.Points[i].W
			found = true
		}
	}

	if !found || bestLenSqr < 1e-16 {
		return mgl64.Vec3{0, 1, 0}
	}
	return best.Mul(1 / math.Sqrt(bestLenSqr))
}
