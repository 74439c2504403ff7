// Package simplex implements the simplex store GJK evolves: up to four
// vertices of the Minkowski difference, their barycentric weights, and
// the closest-point-on-simplex subroutines used both to steer GJK
// toward the origin and to reconstruct witness points once it
// terminates.
package simplex

import (
	"github.com/cologne86/narrowphase/minkowski"
	"github.com/go-gl/mathgl/mgl64"
)

// degenerateTol bounds the squared length/area/volume below which a
// feature (edge, triangle, tetrahedron) is treated as degenerate.
const degenerateTol = 1e-10

// Simplex holds 1-4 vertices of the Minkowski difference along with the
// barycentric weights of the closest point to the origin on their
// convex hull. The invariant after ClosestToOrigin returns is that
// hull({Points[i] : i < Rank}) is the current best-known approximation
// of the origin's position within the Minkowski difference, and
// Weights[i] are the barycentric coordinates of that closest point.
type Simplex struct {
	Points  [4]minkowski.SupportPoint
	Weights [4]float64
	Rank    int
}

// Reset empties the simplex for reuse.
func (s *Simplex) Reset() {
	s.Rank = 0
}

// Grow appends a new vertex, most-recent last.
func (s *Simplex) Grow(sp minkowski.SupportPoint) {
	s.Points[s.Rank] = sp
	s.Rank++
}

// Last returns the most recently added vertex.
func (s *Simplex) Last() minkowski.SupportPoint {
	return s.Points[s.Rank-1]
}

// ClosestToOrigin finds the feature of the simplex (point, edge, face,
// or interior of the tetrahedron) closest to the origin, discards any
// vertex that does not participate in that feature (zero barycentric
// weight), fills in Weights for the vertices that remain, and returns
// the closest point along with whether the simplex encloses the origin
// (only possible when Rank==4 going in).
func (s *Simplex) ClosestToOrigin() (closest mgl64.Vec3, encloses bool) {
	switch s.Rank {
	case 1:
		s.Weights[0] = 1
		return s.Points[0].W, false
	case 2:
		return s.closestOnSegment()
	case 3:
		return s.closestOnTriangle()
	case 4:
		return s.closestOnTetrahedron()
	}
	return mgl64.Vec3{}, false
}

// keep reduces the simplex to the given subset of vertex indices
// (in the order given), and assigns Weights in that same order.
func (s *Simplex) keep(weights []float64, idx ...int) {
	var pts [4]minkowski.SupportPoint
	for i, j := range idx {
		pts[i] = s.Points[j]
		s.Weights[i] = weights[i]
	}
	for i := range idx {
		s.Points[i] = pts[i]
	}
	s.Rank = len(idx)
}

func (s *Simplex) closestOnSegment() (mgl64.Vec3, bool) {
	a := s.Points[1].W // most recent
	b := s.Points[0].W

	ab := b.Sub(a)
	abLenSqr := ab.LenSqr()

	if abLenSqr < degenerateTol {
		s.keep([]float64{1}, 1)
		return a, false
	}

	t := -a.Dot(ab) / abLenSqr
	if t <= 0 {
		s.keep([]float64{1}, 1)
		return a, false
	}
	if t >= 1 {
		s.keep([]float64{1}, 0)
		return b, false
	}

	s.keep([]float64{1 - t, t}, 1, 0)
	return a.Add(ab.Mul(t)), false
}

func (s *Simplex) closestOnTriangle() (mgl64.Vec3, bool) {
	a := s.Points[2].W // most recent
	b := s.Points[1].W
	c := s.Points[0].W

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	n := ab.Cross(ac)
	if n.LenSqr() < degenerateTol {
		// Degenerate (colinear) triangle: fall back to the segment
		// between the two most distinct points.
		bcLenSqr := c.Sub(b).LenSqr()
		switch {
		case bcLenSqr >= ab.LenSqr() && bcLenSqr >= ac.LenSqr():
			// B and C (Points[1], Points[0]) are farthest apart: drop A.
		case ac.LenSqr() >= ab.LenSqr():
			// A and C are farthest apart: drop B.
			s.Points[1] = s.Points[2]
		default:
			// A and B are farthest apart: drop C.
			s.Points[0] = s.Points[1]
			s.Points[1] = s.Points[2]
		}
		s.Rank = 2
		return s.closestOnSegment()
	}

	// Barycentric / edge-Voronoi test, Ericson "Real-Time Collision
	// Detection" 5.1.5, adapted to decide region membership directly
	// from the simplex's own vertices rather than a fixed origin query
	// point (the query point here is always the origin).
	d1 := ab.Dot(ao)
	d2 := ac.Dot(ao)

	// Vertex region A.
	if d1 <= 0 && d2 <= 0 {
		s.keep([]float64{1}, 2)
		return a, false
	}

	bo := b.Mul(-1)
	d3 := ab.Dot(bo)
	d4 := ac.Dot(bo)

	// Vertex region B.
	if d3 >= 0 && d4 <= d3 {
		s.keep([]float64{1}, 1)
		return b, false
	}

	// Edge region AB.
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		t := d1 / (d1 - d3)
		s.keep([]float64{1 - t, t}, 2, 1)
		return a.Add(ab.Mul(t)), false
	}

	co := c.Mul(-1)
	d5 := ab.Dot(co)
	d6 := ac.Dot(co)

	// Vertex region C.
	if d6 >= 0 && d5 <= d6 {
		s.keep([]float64{1}, 0)
		return c, false
	}

	// Edge region AC.
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		t := d2 / (d2 - d6)
		s.keep([]float64{1 - t, t}, 2, 0)
		return a.Add(ac.Mul(t)), false
	}

	// Edge region BC.
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		t := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		s.keep([]float64{1 - t, t}, 1, 0)
		return b.Add(c.Sub(b).Mul(t)), false
	}

	// Interior: the triangle's own plane is the closest feature.
	denom := 1.0 / (va + vb + vc)
	u := va * denom
	v := vb * denom
	w := vc * denom
	closest := a.Mul(u).Add(b.Mul(v)).Add(c.Mul(w))
	s.keep([]float64{u, v, w}, 2, 1, 0)
	return closest, false
}

func (s *Simplex) closestOnTetrahedron() (mgl64.Vec3, bool) {
	a := s.Points[3].W // most recent
	b := s.Points[2].W
	c := s.Points[1].W
	d := s.Points[0].W

	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	// Outward face normals, oriented away from the vertex each face
	// does not contain.
	abc := ab.Cross(ac)
	if abc.Dot(ad) > 0 {
		abc = abc.Mul(-1)
	}
	acd := ac.Cross(ad)
	if acd.Dot(ab) > 0 {
		acd = acd.Mul(-1)
	}
	adb := ad.Cross(ab)
	if adb.Dot(ac) > 0 {
		adb = adb.Mul(-1)
	}

	if abc.LenSqr() < degenerateTol || acd.LenSqr() < degenerateTol || adb.LenSqr() < degenerateTol {
		s.Points[0] = s.Points[1]
		s.Points[1] = s.Points[2]
		s.Points[2] = s.Points[3]
		s.Rank = 3
		return s.closestOnTriangle()
	}

	// Origin outside face ABC (opposite D): recurse on ABC.
	if abc.Dot(ao) > 0 {
		s.reduceToFace(1, 2, 3) // keep C, B, A
		return s.closestOnTriangle()
	}
	// Origin outside face ACD (opposite B).
	if acd.Dot(ao) > 0 {
		s.reduceToFace(0, 1, 3) // keep D, C, A
		return s.closestOnTriangle()
	}
	// Origin outside face ADB (opposite C).
	if adb.Dot(ao) > 0 {
		s.reduceToFace(2, 0, 3) // keep B, D, A
		return s.closestOnTriangle()
	}
	// Origin outside face BCD (opposite A).
	bcd := c.Sub(b).Cross(d.Sub(b))
	if bcd.Dot(ab) < 0 {
		bcd = bcd.Mul(-1)
	}
	if bcd.Dot(b.Mul(-1)) > 0 {
		s.reduceToFace(0, 1, 2) // keep D, C, B
		return s.closestOnTriangle()
	}

	// Inside all four faces: the origin is enclosed by the tetrahedron.
	s.fillEnclosingWeights(a, b, c, d)
	return mgl64.Vec3{}, true
}

// reduceToFace keeps the three simplex vertices currently stored at
// indices i0, i1, i2, restoring them as Points[0], Points[1], Points[2]
// so closestOnTriangle's a/b/c = Points[2]/[1]/[0] convention sees the
// same winding the tetrahedron's face-normal test used.
func (s *Simplex) reduceToFace(i0, i1, i2 int) {
	p0, p1, p2 := s.Points[i0], s.Points[i1], s.Points[i2]
	s.Points[0] = p0
	s.Points[1] = p1
	s.Points[2] = p2
	s.Rank = 3
}

// fillEnclosingWeights computes the barycentric weights of the origin
// within tetrahedron ABCD (Real-Time Collision Detection §3.4): the
// weight of each vertex is the signed volume of the tetrahedron formed
// by replacing that vertex with the origin, divided by the signed
// volume of ABCD itself. a,b,c,d correspond to Points[3..0].
func (s *Simplex) fillEnclosingWeights(a, b, c, d mgl64.Vec3) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	full := ab.Dot(ac.Cross(ad))
	if full == 0 {
		s.Weights[0], s.Weights[1], s.Weights[2], s.Weights[3] = 0.25, 0.25, 0.25, 0.25
		return
	}

	s.Weights[3] = b.Dot(c.Cross(d)) / full    // vertex A, stored at Points[3]
	s.Weights[2] = ao.Dot(ac.Cross(ad)) / full // vertex B, stored at Points[2]
	s.Weights[1] = ab.Dot(ao.Cross(ad)) / full // vertex C, stored at Points[1]
	s.Weights[0] = ab.Dot(ac.Cross(ao)) / full // vertex D, stored at Points[0]
}
