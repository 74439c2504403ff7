package minkowski

import (
	"testing"

	"github.com/cologne86/narrowphase/shape"
	"github.com/cologne86/narrowphase/vecmath"
	"github.com/go-gl/mathgl/mgl64"
)

func TestSupportOfDifferenceSeparatedSpheres(t *testing.T) {
	a := &shape.Sphere{Radius: 1}
	b := &shape.Sphere{Radius: 1}

	tfA := vecmath.Identity()
	tfB := vecmath.Identity()
	tfB.Translation = mgl64.Vec3{3, 0, 0}

	diff := NewDiff(a, tfA, b, tfB)
	sp := diff.SupportOfDifference(mgl64.Vec3{1, 0, 0})

	// support(d,A) - support(-d,B) = (1,0,0) - (3 - 1, 0, 0) = (-1,0,0)
	want := mgl64.Vec3{-1, 0, 0}
	if sp.W.Sub(want).Len() > 1e-9 {
		t.Fatalf("got %v want %v", sp.W, want)
	}
}

func TestSupportOfDifferenceAssignsDistinctIDs(t *testing.T) {
	a := &shape.Sphere{Radius: 1}
	b := &shape.Sphere{Radius: 1}
	diff := NewDiff(a, vecmath.Identity(), b, vecmath.Identity())

	sp0 := diff.SupportOfDifference(mgl64.Vec3{1, 0, 0})
	sp1 := diff.SupportOfDifference(mgl64.Vec3{0, 1, 0})

	if sp0.ID == sp1.ID {
		t.Fatalf("expected distinct IDs, got %d and %d", sp0.ID, sp1.ID)
	}
}

func TestSupportRespectsRelativeRotation(t *testing.T) {
	// Box rotated 90deg about Y should present a different local
	// support for a fixed world direction than an unrotated box.
	box := &shape.Box{HalfExtents: mgl64.Vec3{1, 2, 3}}
	sphereAsRef := &shape.Sphere{Radius: 0} // degenerate reference shape at origin

	tfA := vecmath.Identity()
	tfB := vecmath.Transform{Rotation: mgl64.Rotate3DY(1.5707963267948966), Translation: mgl64.Vec3{}}

	diff := NewDiff(sphereAsRef, tfA, box, tfB)
	got := diff.Support(mgl64.Vec3{1, 0, 0}, Shape1)

	// Rotating the box 90deg about Y swaps which half-extent (1 or 3) is
	// exposed along world X; either way it should no longer be the
	// unrotated value of 1.
	unrotated := box.LocalSupport(mgl64.Vec3{1, 0, 0}).X()
	if got.Len() < 2.9 || got.X() == unrotated {
		t.Fatalf("expected rotation to change the exposed extent, got %v (unrotated X was %v)", got, unrotated)
	}
}
