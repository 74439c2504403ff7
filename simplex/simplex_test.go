package simplex

import (
	"testing"

	"github.com/cologne86/narrowphase/minkowski"
	"github.com/go-gl/mathgl/mgl64"
)

func sp(w mgl64.Vec3) minkowski.SupportPoint {
	return minkowski.SupportPoint{W: w}
}

func vecClose(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func TestClosestToOriginRank1(t *testing.T) {
	s := &Simplex{}
	s.Grow(sp(mgl64.Vec3{3, 4, 0}))

	closest, encloses := s.ClosestToOrigin()
	if encloses {
		t.Fatalf("a single point cannot enclose the origin")
	}
	if !vecClose(closest, mgl64.Vec3{3, 4, 0}, 1e-9) {
		t.Fatalf("got %v", closest)
	}
	if s.Weights[0] != 1 {
		t.Fatalf("want weight 1, got %v", s.Weights[0])
	}
}

func TestClosestOnSegmentInterior(t *testing.T) {
	s := &Simplex{}
	s.Grow(sp(mgl64.Vec3{-2, 1, 0}))
	s.Grow(sp(mgl64.Vec3{2, 1, 0}))

	closest, encloses := s.ClosestToOrigin()
	if encloses {
		t.Fatalf("a segment cannot enclose the origin")
	}
	if !vecClose(closest, mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Fatalf("got %v", closest)
	}
	if s.Rank != 2 {
		t.Fatalf("expected both endpoints kept, got rank %d", s.Rank)
	}
	sum := s.Weights[0] + s.Weights[1]
	if sum < 1-1e-9 || sum > 1+1e-9 {
		t.Fatalf("weights should sum to 1, got %v", sum)
	}
}

func TestClosestOnSegmentClampsToEndpoint(t *testing.T) {
	s := &Simplex{}
	s.Grow(sp(mgl64.Vec3{1, 1, 0}))
	s.Grow(sp(mgl64.Vec3{2, 1, 0}))

	closest, _ := s.ClosestToOrigin()
	if !vecClose(closest, mgl64.Vec3{1, 1, 0}, 1e-9) {
		t.Fatalf("got %v, want the endpoint nearest the origin", closest)
	}
	if s.Rank != 1 {
		t.Fatalf("expected the far endpoint dropped, got rank %d", s.Rank)
	}
}

func TestClosestOnTriangleInterior(t *testing.T) {
	s := &Simplex{}
	s.Grow(sp(mgl64.Vec3{-1, -1, 1}))
	s.Grow(sp(mgl64.Vec3{1, -1, 1}))
	s.Grow(sp(mgl64.Vec3{0, 1, 1}))

	closest, encloses := s.ClosestToOrigin()
	if encloses {
		t.Fatalf("a triangle cannot enclose the origin")
	}
	if !vecClose(closest, mgl64.Vec3{0, 0, 1}, 1e-9) {
		t.Fatalf("got %v, want the plane's closest point straight above the origin", closest)
	}
	if s.Rank != 3 {
		t.Fatalf("expected the interior case to keep all three vertices, got rank %d", s.Rank)
	}

	var sum float64
	var recon mgl64.Vec3
	for i := 0; i < s.Rank; i++ {
		sum += s.Weights[i]
		recon = recon.Add(s.Points[i].W.Mul(s.Weights[i]))
	}
	if sum < 1-1e-9 || sum > 1+1e-9 {
		t.Fatalf("weights should sum to 1, got %v", sum)
	}
	if !vecClose(recon, closest, 1e-9) {
		t.Fatalf("weighted reconstruction %v does not match closest point %v", recon, closest)
	}
}

func TestClosestOnTriangleVertexRegion(t *testing.T) {
	s := &Simplex{}
	s.Grow(sp(mgl64.Vec3{10, 10, 0}))
	s.Grow(sp(mgl64.Vec3{12, 10, 0}))
	s.Grow(sp(mgl64.Vec3{10, 12, 0}))

	closest, _ := s.ClosestToOrigin()
	if !vecClose(closest, mgl64.Vec3{10, 10, 0}, 1e-9) {
		t.Fatalf("got %v, want the nearest vertex", closest)
	}
	if s.Rank != 1 {
		t.Fatalf("expected the other two vertices dropped, got rank %d", s.Rank)
	}
}

func TestClosestOnTriangleEdgeRegion(t *testing.T) {
	s := &Simplex{}
	s.Grow(sp(mgl64.Vec3{-1, 1, 0}))
	s.Grow(sp(mgl64.Vec3{1, 1, 0}))
	s.Grow(sp(mgl64.Vec3{0, 3, 0}))

	closest, _ := s.ClosestToOrigin()
	if !vecClose(closest, mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Fatalf("got %v, want the midpoint of the near edge", closest)
	}
	if s.Rank != 2 {
		t.Fatalf("expected the far vertex dropped, got rank %d", s.Rank)
	}
}

func TestClosestOnTetrahedronEnclosesOrigin(t *testing.T) {
	s := &Simplex{}
	s.Grow(sp(mgl64.Vec3{-1, -1, -1}))
	s.Grow(sp(mgl64.Vec3{1, -1, -1}))
	s.Grow(sp(mgl64.Vec3{0, 1, -1}))
	s.Grow(sp(mgl64.Vec3{0, 0, 2}))

	closest, encloses := s.ClosestToOrigin()
	if !encloses {
		t.Fatalf("expected the origin to be enclosed, got closest %v", closest)
	}
	if s.Rank != 4 {
		t.Fatalf("expected all four vertices kept, got rank %d", s.Rank)
	}

	var sum float64
	var recon mgl64.Vec3
	for i := 0; i < 4; i++ {
		sum += s.Weights[i]
		recon = recon.Add(s.Points[i].W.Mul(s.Weights[i]))
	}
	if sum < 1-1e-9 || sum > 1+1e-9 {
		t.Fatalf("enclosing weights should sum to 1, got %v", sum)
	}
	if recon.Len() > 1e-9 {
		t.Fatalf("weighted reconstruction should be the origin, got %v", recon)
	}
}

func TestClosestOnTetrahedronReducesToFace(t *testing.T) {
	s := &Simplex{}
	s.Grow(sp(mgl64.Vec3{5, -1, -1}))
	s.Grow(sp(mgl64.Vec3{7, -1, -1}))
	s.Grow(sp(mgl64.Vec3{6, 1, -1}))
	s.Grow(sp(mgl64.Vec3{6, 0, 2}))

	closest, encloses := s.ClosestToOrigin()
	if encloses {
		t.Fatalf("the origin is far outside this tetrahedron, it cannot be enclosed")
	}
	if closest.LenSqr() < 1 {
		t.Fatalf("expected the closest point to stay far from the origin, got %v", closest)
	}
	if s.Rank < 1 || s.Rank > 3 {
		t.Fatalf("expected the simplex reduced below rank 4, got %d", s.Rank)
	}
}

func TestDegenerateSegmentFallsBackToVertex(t *testing.T) {
	s := &Simplex{}
	s.Grow(sp(mgl64.Vec3{1, 1, 1}))
	s.Grow(sp(mgl64.Vec3{1, 1, 1 + 1e-8}))

	closest, _ := s.ClosestToOrigin()
	if !vecClose(closest, mgl64.Vec3{1, 1, 1 + 1e-8}, 1e-6) {
		t.Fatalf("got %v", closest)
	}
}
