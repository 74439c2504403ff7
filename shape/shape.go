// Package shape provides the convex-shape support functions the
// narrowphase solver consumes. The solver never inspects a shape's
// internals: every primitive below implements Support, and that single
// method is all GJK/EPA ever call.
package shape

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Support is the capability every convex shape must expose to the
// narrowphase solver. LocalSupport returns the point of the shape
// maximising direction·p, expressed in the shape's own local frame.
//
// Implementations must be pure (read-only) with respect to the shape's
// data so that concurrent queries on disjoint shape pairs need no
// locking.
type Support interface {
	LocalSupport(direction mgl64.Vec3) mgl64.Vec3
}
