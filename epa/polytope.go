package epa

import (
	"fmt"

	"github.com/cologne86/narrowphase/minkowski"
	"github.com/cologne86/narrowphase/simplex"
	"github.com/go-gl/mathgl/mgl64"
)

// polyFace is one triangular face of the expanding polytope. Vertices
// are referenced by index into the Polytope's vertex table (keyed by
// minkowski.SupportPoint.ID, not by pointer or by value), mirroring
// the teacher's PolytopeBuilder design of avoiding cyclic references
// between faces while still letting faces share vertices cheaply.
type polyFace struct {
	v      [3]int
	normal mgl64.Vec3
	d      float64
	gen    int
	alive  bool
}

// Polytope is the expanding polytope EPA grows from a GJK-enclosing
// tetrahedron: a vertex table plus a set of outward-facing triangles,
// with a min-heap keeping the closest-to-origin face at hand. It is a
// reusable, per-query buffer: call Reset before seeding a new query,
// following the teacher's polytopeBuilderPool/PolytopeBuilder.Reset
// pattern (see the sync.Pool wiring in narrowphase.go).
type Polytope struct {
	vertices []minkowski.SupportPoint
	idIndex  map[int]int
	faces    []polyFace
	heap     faceHeap

	// edges is reused scratch space for the boundary-edge ring computed
	// during each expansion; cleared and refilled every call, never
	// read across calls.
	edges []edgeEntry
}

type edgeEntry struct {
	a, b  int
	count int
}

// Reset empties the polytope for reuse, keeping the underlying
// capacity of its slices and map.
func (p *Polytope) Reset() {
	p.vertices = p.vertices[:0]
	p.faces = p.faces[:0]
	p.heap.reset()
	p.edges = p.edges[:0]
	if p.idIndex == nil {
		p.idIndex = make(map[int]int, polytopeInitialCapacity)
	} else {
		for k := range p.idIndex {
			delete(p.idIndex, k)
		}
	}
}

// addVertex deduplicates by SupportPoint.ID and returns the vertex's
// index into p.vertices.
func (p *Polytope) addVertex(sp minkowski.SupportPoint) int {
	if idx, ok := p.idIndex[sp.ID]; ok {
		return idx
	}
	idx := len(p.vertices)
	p.vertices = append(p.vertices, sp)
	p.idIndex[sp.ID] = idx
	return idx
}

func (p *Polytope) vertexPos(i int) mgl64.Vec3 {
	return p.vertices[i].W
}

// BuildInitialFaces seeds the polytope with the four outward faces of
// a rank-4 simplex, directly adapted from the teacher's
// PolytopeBuilder.BuildInitialFaces.
func (p *Polytope) BuildInitialFaces(s *simplex.Simplex) error {
	if s.Rank != 4 {
		return fmt.Errorf("invalid simplex rank: %d (expected 4)", s.Rank)
	}

	i0 := p.addVertex(s.Points[0])
	i1 := p.addVertex(s.Points[1])
	i2 := p.addVertex(s.Points[2])
	i3 := p.addVertex(s.Points[3])

	p.pushFace(i0, i1, i2, p.vertexPos(i3)) // ABC, opposite D
	p.pushFace(i0, i2, i3, p.vertexPos(i1)) // ACD, opposite B
	p.pushFace(i0, i3, i1, p.vertexPos(i2)) // ADB, opposite C
	p.pushFace(i1, i3, i2, p.vertexPos(i0)) // BDC, opposite A

	return nil
}

// pushFace builds a face outward-oriented away from oppositePos,
// appends it to p.faces, and pushes it onto the priority heap.
func (p *Polytope) pushFace(a, b, c int, oppositePos mgl64.Vec3) {
	normal, d := p.faceOutward(a, b, c, oppositePos)

	idx := len(p.faces)
	p.faces = append(p.faces, polyFace{v: [3]int{a, b, c}, normal: normal, d: d, gen: 0, alive: true})
	p.heap.push(idx, d, 0)
}

// faceOutward computes a face's outward unit normal and its signed
// distance from the origin, flipping as needed so the normal points
// away from oppositePos and away from the origin. Ported from the
// teacher's createFaceOutward.
func (p *Polytope) faceOutward(a, b, c int, oppositePos mgl64.Vec3) (mgl64.Vec3, float64) {
	pa, pb, pc := p.vertexPos(a), p.vertexPos(b), p.vertexPos(c)

	edge1 := pb.Sub(pa)
	edge2 := pc.Sub(pa)
	normal := edge1.Cross(edge2)

	lenSqr := normal.LenSqr()
	if lenSqr < minFaceNormalLenSqr {
		return mgl64.Vec3{0, 1, 0}, EPAMinFaceDistance
	}
	normal = normal.Mul(1 / normal.Len())

	toOpposite := oppositePos.Sub(pa)
	if normal.Dot(toOpposite) > 0 {
		normal = normal.Mul(-1)
	}

	d := pa.Dot(normal)
	if d < 0 {
		normal = normal.Mul(-1)
		d = -d
	}

	return normal, d
}

// popClosest removes and returns the polytope's live face with
// smallest D, discarding stale (tombstoned) heap entries as it goes.
func (p *Polytope) popClosest() (int, bool) {
	for {
		entry, ok := p.heap.pop()
		if !ok {
			return -1, false
		}
		f := &p.faces[entry.faceIndex]
		if f.alive && f.gen == entry.gen {
			return entry.faceIndex, true
		}
	}
}

func (p *Polytope) removeFace(idx int) {
	f := &p.faces[idx]
	f.alive = false
	f.gen++
}

// expand grows the polytope by adding the support point sp: every
// face visible from sp is removed, the boundary edges of the
// resulting hole are found, and a new face fans each boundary edge
// out to sp. Mirrors the teacher's AddPointAndRebuildFaces, generalized
// to operate on index-referenced vertices instead of duplicated Vec3s.
func (p *Polytope) expand(sp minkowski.SupportPoint) error {
	w := p.addVertex(sp)
	pw := p.vertexPos(w)

	visible := p.findVisibleFaces(pw)
	if len(visible) == 0 {
		return fmt.Errorf("support point is not visible from any face")
	}
	if len(visible) == p.liveFaceCount() {
		return fmt.Errorf("support point visible from every face")
	}

	boundary, err := p.boundaryEdges(visible)
	if err != nil {
		return err
	}

	centroid := p.centroid()

	for _, idx := range visible {
		p.removeFace(idx)
	}

	for _, e := range boundary {
		p.pushFace(e.a, e.b, w, centroid)
	}

	return nil
}

// centroid averages the positions of every vertex currently in the
// table. The vertex table is already deduplicated by SupportPoint.ID,
// so this is a direct simplification of the teacher's
// calculateCentroid (which rebuilds a deduplicated point set from
// per-face copies every call; here there is nothing left to
// deduplicate). Used only as an interior reference point so
// faceOutward's "away from" test orients new fan faces correctly.
func (p *Polytope) centroid() mgl64.Vec3 {
	if len(p.vertices) == 0 {
		return mgl64.Vec3{}
	}
	var sum mgl64.Vec3
	for _, v := range p.vertices {
		sum = sum.Add(v.W)
	}
	return sum.Mul(1 / float64(len(p.vertices)))
}

func (p *Polytope) liveFaceCount() int {
	n := 0
	for i := range p.faces {
		if p.faces[i].alive {
			n++
		}
	}
	return n
}

// findVisibleFaces returns the indices of live faces whose plane the
// point w lies in front of.
func (p *Polytope) findVisibleFaces(w mgl64.Vec3) []int {
	var visible []int
	for i := range p.faces {
		f := &p.faces[i]
		if !f.alive {
			continue
		}
		if f.normal.Dot(w)-f.d > 0 {
			visible = append(visible, i)
		}
	}
	return visible
}

// boundaryEdges collects the ring of edges bounding the region covered
// by the given visible faces: an edge shared by exactly one visible
// face is on the boundary; shared by two, it is interior and dropped.
// An edge count other than 1 or 2 after processing indicates a
// non-manifold silhouette.
func (p *Polytope) boundaryEdges(visible []int) ([]edgeEntry, error) {
	p.edges = p.edges[:0]

	for _, idx := range visible {
		f := &p.faces[idx]
		tri := [3][2]int{
			{f.v[0], f.v[1]},
			{f.v[1], f.v[2]},
			{f.v[2], f.v[0]},
		}
		for _, e := range tri {
			a, b := e[0], e[1]
			if a > b {
				a, b = b, a
			}
			found := false
			for i := range p.edges {
				if p.edges[i].a == a && p.edges[i].b == b {
					p.edges[i].count++
					found = true
					break
				}
			}
			if !found {
				p.edges = append(p.edges, edgeEntry{a: a, b: b, count: 1})
			}
		}
	}

	boundary := make([]edgeEntry, 0, len(p.edges))
	for _, e := range p.edges {
		switch e.count {
		case 1:
			boundary = append(boundary, e)
		case 2:
			// Interior edge, shared by two visible faces: not part of
			// the silhouette.
		default:
			return nil, fmt.Errorf("non-manifold silhouette: edge shared by %d faces", e.count)
		}
	}

	return boundary, nil
}
