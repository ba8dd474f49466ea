package orbit

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/solaris/params"
)

func testSpecs() []Spec {
	return []Spec{
		{Name: "Mercury", Color: params.MustParseHex("#A5A5A5"), Distance: 3.5, Size: 0.1, Speed: 0.8},
		{Name: "Saturn", Color: params.MustParseHex("#EAD6B8"), Distance: 18, Size: 0.6, Speed: 0.15, Rings: true},
	}
}

func TestNewSystem(t *testing.T) {
	s := NewSystem(testSpecs(), rand.New(rand.NewSource(1)))
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	planets := s.AppendPlanets(nil)
	if len(planets) != 2 {
		t.Fatalf("planets = %d, want 2", len(planets))
	}
	for _, p := range planets {
		if p.InitialAngle < 0 || p.InitialAngle >= 2*math.Pi {
			t.Errorf("%s: initial angle %f out of range", p.Name, p.InitialAngle)
		}
		if d := r3.Norm(p.Position); math.Abs(d-p.Distance) > 1e-9 {
			t.Errorf("%s: spawn distance %f, want %f", p.Name, d, p.Distance)
		}
	}
}

func TestUpdateCircularMotion(t *testing.T) {
	s := NewSystem(testSpecs(), rand.New(rand.NewSource(2)))
	before := s.AppendPlanets(nil)

	const elapsed = 10.0
	s.Update(elapsed)
	after := s.AppendPlanets(nil)

	for i := range after {
		p := after[i]
		want := before[i].InitialAngle + elapsed*p.Speed*AngularRate
		if math.Abs(p.Angle-want) > 1e-12 {
			t.Errorf("%s: angle %f, want %f", p.Name, p.Angle, want)
		}
		if d := r3.Norm(p.Position); math.Abs(d-p.Distance) > 1e-9 {
			t.Errorf("%s: distance %f, want %f", p.Name, d, p.Distance)
		}
		if p.Position.Y != 0 {
			t.Errorf("%s: left the orbital plane, y=%f", p.Name, p.Position.Y)
		}
	}
}

func TestUpdateIsTimeDerived(t *testing.T) {
	a := NewSystem(testSpecs(), rand.New(rand.NewSource(3)))
	b := NewSystem(testSpecs(), rand.New(rand.NewSource(3)))

	// Different frame histories, same final time.
	for _, e := range []float64{0.5, 1, 7, 2} {
		a.Update(e)
	}
	b.Update(2)

	pa, pb := a.AppendPlanets(nil), b.AppendPlanets(nil)
	for i := range pa {
		if pa[i].Position != pb[i].Position {
			t.Errorf("%s: position depends on history", pa[i].Name)
		}
	}
	if want := 4 * SpinStep; math.Abs(pa[0].Spin-want) > 1e-12 {
		t.Errorf("spin = %f, want %f after 4 frames", pa[0].Spin, want)
	}
}

func TestFasterInnerPlanets(t *testing.T) {
	o := Orbit{Distance: 1, Speed: 0.8}
	if Angle(o, 1) <= Angle(Orbit{Distance: 1, Speed: 0.15}, 1) {
		t.Error("faster planet should sweep a larger angle")
	}
	if got := Position(Orbit{Distance: 2}, math.Pi/2); math.Abs(got.Z-2) > 1e-12 || math.Abs(got.X) > 1e-12 {
		t.Errorf("Position at pi/2 = %v, want (0,0,2)", got)
	}
}
