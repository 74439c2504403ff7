package shape

import "github.com/go-gl/mathgl/mgl64"

// ConvexMesh is an arbitrary convex point cloud, given as its vertices
// in local space. Support is a brute-force max-dot-product scan rather
// than a hill-climbing walk over an adjacency graph: correct, simple,
// and the right baseline for a port that has no half-edge structure to
// walk.
type ConvexMesh struct {
	Vertices []mgl64.Vec3
}

func (c *ConvexMesh) LocalSupport(direction mgl64.Vec3) mgl64.Vec3 {
	if len(c.Vertices) == 0 {
		return mgl64.Vec3{}
	}

	best := c.Vertices[0]
	bestDot := direction.Dot(best)

	for _, v := range c.Vertices[1:] {
		if d := direction.Dot(v); d > bestDot {
			bestDot = d
			best = v
		}
	}

	return best
}
