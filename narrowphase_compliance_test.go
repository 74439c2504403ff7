package narrowphase

import (
	"fmt"
	"math"
	"testing"

	"github.com/cologne86/narrowphase/shape"
	"github.com/cologne86/narrowphase/vecmath"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pmezard/go-difflib/difflib"
)

func roundToTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func assertCompliance(t *testing.T, name, expected, got string) {
	t.Helper()
	if got == expected {
		return
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(got),
		FromFile: "Expected",
		ToFile:   "Current",
		Context:  0,
	}
	text, _ := difflib.GetUnifiedDiffString(diff)
	t.Fatalf("%s: result does not match the reference scenario table. Failure:\n%s", name, text)
}

func TestComplianceSpheresApart(t *testing.T) {
	a := &shape.Sphere{Radius: 1}
	b := &shape.Sphere{Radius: 1}

	hit, _, depth, _ := Intersect(a, vecmath.Identity(), b, at(mgl64.Vec3{3, 0, 0}))
	ok, dist := Distance(a, vecmath.Identity(), b, at(mgl64.Vec3{3, 0, 0}))

	got := fmt.Sprintf("hit = %v, depth = %.1f, distanceOk = %v, distance ~= %.1f", hit, depth, ok, roundToTenth(dist))
	expected := "hit = false, depth = 0.0, distanceOk = true, distance ~= 1.0"
	assertCompliance(t, "spheres apart", expected, got)
}

func TestComplianceSpheresOverlapping(t *testing.T) {
	a := &shape.Sphere{Radius: 1}
	b := &shape.Sphere{Radius: 1}

	hit, contact, depth, normal := Intersect(a, vecmath.Identity(), b, at(mgl64.Vec3{1.5, 0, 0}))

	got := fmt.Sprintf("hit = %v, depth ~= %.1f, |normal.x| ~= (%.0f,0,0), contact ~= (%.2f,0,0)",
		hit, roundToTenth(depth), roundToTenth(math.Abs(normal.X())), roundTo2(contact.X()))
	expected := "hit = true, depth ~= 0.5, |normal.x| ~= (1,0,0), contact ~= (0.75,0,0)"
	assertCompliance(t, "spheres overlapping", expected, got)
}

func TestComplianceSpheresTouching(t *testing.T) {
	a := &shape.Sphere{Radius: 1}
	b := &shape.Sphere{Radius: 1}

	hit, _, depth, normal := Intersect(a, vecmath.Identity(), b, at(mgl64.Vec3{2, 0, 0}))
	ok, dist := Distance(a, vecmath.Identity(), b, at(mgl64.Vec3{2, 0, 0}))

	switch {
	case ok:
		got := fmt.Sprintf("distanceOk = %v, distance ~= %.1f", ok, roundToTenth(dist))
		expected := "distanceOk = true, distance ~= 0.0"
		assertCompliance(t, "spheres touching (separated)", expected, got)
	case hit:
		got := fmt.Sprintf("hit = %v, depth ~= %.1f, |normal.x| ~= (%.0f,0,0)",
			hit, roundToTenth(depth), roundToTenth(math.Abs(normal.X())))
		expected := "hit = true, depth ~= 0.0, |normal.x| ~= (1,0,0)"
		assertCompliance(t, "spheres touching (enclosing)", expected, got)
	default:
		t.Fatalf("expected either a Distance answer or an Intersect hit at exact tangency")
	}
}

func roundTo2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func TestComplianceBoxCornerPenetration(t *testing.T) {
	a := &shape.Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}
	b := &shape.Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}

	hit, _, depth, _ := Intersect(a, vecmath.Identity(), b, at(mgl64.Vec3{0.9, 0.9, 0.9}))

	got := fmt.Sprintf("hit = %v, depth ~= %.3f", hit, roundTo3(depth))
	expected := fmt.Sprintf("hit = true, depth ~= %.3f", roundTo3(0.1*sqrt3))
	assertCompliance(t, "box vs box corner penetration", expected, got)
}

func roundTo3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}

const sqrt3 = 1.7320508075688772

func TestComplianceBoxVsTriangleMiss(t *testing.T) {
	box := &shape.Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}

	hit, _, _, _ := IntersectTriangle(box, vecmath.Identity(),
		mgl64.Vec3{2, 0, 0}, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{2, 1, 0})
	ok, dist := Distance(box, vecmath.Identity(), &shape.Triangle{
		P0: mgl64.Vec3{2, 0, 0}, P1: mgl64.Vec3{3, 0, 0}, P2: mgl64.Vec3{2, 1, 0},
	}, vecmath.Identity())

	got := fmt.Sprintf("hit = %v, distanceOk = %v, distance ~= %.1f", hit, ok, roundToTenth(dist))
	expected := "hit = false, distanceOk = true, distance ~= 1.0"
	assertCompliance(t, "box vs triangle miss", expected, got)
}

func TestComplianceCapsulesParallelOverlap(t *testing.T) {
	a := &shape.Capsule{Radius: 1, HalfLength: 1}
	b := &shape.Capsule{Radius: 1, HalfLength: 1}

	hit, _, depth, normal := Intersect(a, vecmath.Identity(), b, at(mgl64.Vec3{1, 0, 0}))

	got := fmt.Sprintf("hit = %v, depth ~= %.1f, |normal axis| ~= (%.0f,0,0)",
		hit, roundToTenth(depth), roundToTenth(math.Abs(normal.X())))
	expected := "hit = true, depth ~= 1.0, |normal axis| ~= (1,0,0)"
	assertCompliance(t, "capsules parallel overlap", expected, got)
}
