package noise

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func randomPoint(rng *rand.Rand, extent float64) r3.Vec {
	return r3.Vec{
		X: (rng.Float64()*2 - 1) * extent,
		Y: (rng.Float64()*2 - 1) * extent,
		Z: (rng.Float64()*2 - 1) * extent,
	}
}

func sources(t *testing.T) map[string]Source {
	t.Helper()
	out := make(map[string]Source)
	for _, kind := range []string{KindSimplex, KindOpenSimplex} {
		src, err := New(kind, 7)
		if err != nil {
			t.Fatalf("New(%q): %v", kind, err)
		}
		out[kind] = src
	}
	return out
}

func TestNewUnknownKind(t *testing.T) {
	if _, err := New("perlin", 1); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("New(perlin) error = %v, want ErrUnknownSource", err)
	}
	src, err := New("", 1)
	if err != nil {
		t.Fatalf("New(\"\"): %v", err)
	}
	if _, ok := src.(Simplex); !ok {
		t.Errorf("empty kind should select Simplex, got %T", src)
	}
}

func TestNoiseRangeAndSpread(t *testing.T) {
	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			lo, hi := math.Inf(1), math.Inf(-1)
			for i := 0; i < 20000; i++ {
				v := At(src, randomPoint(rng, 50))
				if math.IsNaN(v) || math.Abs(v) > 1.1 {
					t.Fatalf("noise value %v out of range", v)
				}
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
			if lo > -0.5 || hi < 0.5 {
				t.Errorf("noise range [%v, %v] too narrow", lo, hi)
			}
		})
	}
}

func TestNoiseDeterministic(t *testing.T) {
	p := r3.Vec{X: 1.25, Y: -3.5, Z: 7.125}
	var s Simplex
	if a, b := At(s, p), At(Simplex{}, p); a != b {
		t.Errorf("Simplex not deterministic: %v != %v", a, b)
	}

	a, _ := New(KindOpenSimplex, 42)
	b, _ := New(KindOpenSimplex, 42)
	c, _ := New(KindOpenSimplex, 43)
	if At(a, p) != At(b, p) {
		t.Error("OpenSimplex with equal seeds should agree")
	}
	if At(a, p) == At(c, p) {
		t.Error("OpenSimplex with different seeds should differ")
	}
}

func TestNoiseContinuity(t *testing.T) {
	const eps = 1e-4
	const lipschitz = 20.0

	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(2))
			points := make([]r3.Vec, 0, 2000)
			for i := 0; i < 1000; i++ {
				points = append(points, randomPoint(rng, 20))
			}
			// Straddle lattice boundaries explicitly.
			for x := -3; x <= 3; x++ {
				for y := -3; y <= 3; y++ {
					points = append(points, r3.Vec{X: float64(x) - eps/2, Y: float64(y) - eps/2, Z: 0.5 - eps/2})
				}
			}

			dirs := []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}, r3.Unit(r3.Vec{X: 1, Y: 1, Z: 1})}
			for _, p := range points {
				v := At(src, p)
				for _, d := range dirs {
					w := At(src, r3.Add(p, r3.Scale(eps, d)))
					if diff := math.Abs(w - v); diff > lipschitz*eps {
						t.Fatalf("jump %v at %+v along %+v exceeds %v", diff, p, d, lipschitz*eps)
					}
				}
			}
		})
	}
}

func TestSimplexContinuousAcrossCells(t *testing.T) {
	var s Simplex
	// A point just inside a cell boundary; the difference must shrink
	// with the step instead of settling at a fixed jump.
	p := r3.Vec{X: -3.00005, Y: -2.00005, Z: 0.49995}
	dirs := []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	for _, d := range dirs {
		for _, eps := range []float64{1e-4, 1e-6, 1e-8} {
			diff := math.Abs(At(s, r3.Add(p, r3.Scale(eps, d))) - At(s, p))
			if diff > 10*eps {
				t.Errorf("step %g along %+v: diff %g, want <= %g", eps, d, diff, 10*eps)
			}
		}
	}
}

func TestSimplexNotZeroOnLattice(t *testing.T) {
	var s Simplex
	nonZero := 0
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				if math.Abs(s.Eval3(float64(x), float64(y), float64(z))) > 1e-6 {
					nonZero++
				}
			}
		}
	}
	if nonZero == 0 {
		t.Error("simplex noise vanishes on every integer lattice point")
	}
}

func TestFBMRange(t *testing.T) {
	bound := 1.1 * (1 - math.Pow(0.5, Octaves))
	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(3))
			for i := 0; i < 5000; i++ {
				v := FBM(src, randomPoint(rng, 10))
				if math.IsNaN(v) || math.Abs(v) > bound {
					t.Fatalf("fbm value %v exceeds %v", v, bound)
				}
			}
		})
	}
}

func TestFBMOctaveSum(t *testing.T) {
	var s Simplex
	p := r3.Vec{X: 0.3, Y: 0.7, Z: -0.2}

	want := 0.0
	q := p
	amp := 0.5
	for i := 0; i < Octaves; i++ {
		want += amp * At(s, q)
		q = r3.Vec{X: q.X*2 + 100, Y: q.Y*2 + 100, Z: q.Z*2 + 100}
		amp *= 0.5
	}

	if got := FBM(s, p); math.Abs(got-want) > 1e-12 {
		t.Errorf("FBM = %v, want %v", got, want)
	}
}

func TestCurlUnitLength(t *testing.T) {
	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(4))
			for i := 0; i < 2000; i++ {
				c := Curl(src, randomPoint(rng, 5))
				n := r3.Norm(c)
				if math.IsNaN(n) {
					t.Fatal("curl produced NaN")
				}
				if n != 0 && math.Abs(n-1) > 1e-9 {
					t.Fatalf("curl norm = %v, want 1", n)
				}
			}
		})
	}
}

// divergence estimates div F at p with central differences of step h.
func divergence(field func(r3.Vec) r3.Vec, p r3.Vec, h float64) float64 {
	dx := field(r3.Add(p, r3.Vec{X: h})).X - field(r3.Sub(p, r3.Vec{X: h})).X
	dy := field(r3.Add(p, r3.Vec{Y: h})).Y - field(r3.Sub(p, r3.Vec{Y: h})).Y
	dz := field(r3.Add(p, r3.Vec{Z: h})).Z - field(r3.Sub(p, r3.Vec{Z: h})).Z
	return (dx + dy + dz) / (2 * h)
}

func TestCurlDivergenceFree(t *testing.T) {
	for name, src := range sources(t) {
		t.Run(name, func(t *testing.T) {
			field := func(p r3.Vec) r3.Vec { return CurlRaw(src, p) }
			rng := rand.New(rand.NewSource(5))
			for i := 0; i < 500; i++ {
				p := randomPoint(rng, 5)
				if div := divergence(field, p, CurlEpsilon); math.Abs(div) > 1e-9 {
					t.Fatalf("divergence %v at %+v", div, p)
				}
			}
		})
	}
}

type constantSource float64

func (c constantSource) Eval3(_, _, _ float64) float64 { return float64(c) }

func TestCurlDegenerate(t *testing.T) {
	c := Curl(constantSource(0.5), r3.Vec{X: 1, Y: 2, Z: 3})
	if c != (r3.Vec{}) {
		t.Errorf("curl of constant field = %+v, want zero vector", c)
	}
}

func BenchmarkFBM(b *testing.B) {
	var s Simplex
	p := r3.Vec{X: 0.1, Y: 0.2, Z: 0.3}
	for i := 0; i < b.N; i++ {
		p.X += 0.001
		_ = FBM(s, p)
	}
}

func BenchmarkCurl(b *testing.B) {
	var s Simplex
	p := r3.Vec{X: 0.1, Y: 0.2, Z: 0.3}
	for i := 0; i < b.N; i++ {
		p.Y += 0.001
		_ = Curl(s, p)
	}
}
