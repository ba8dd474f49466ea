package scene

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/solaris/orbit"
	"github.com/pthm-cable/solaris/params"
	"github.com/pthm-cable/solaris/plasma"
	"github.com/pthm-cable/solaris/telemetry"
)

var eye = r3.Vec{Y: 10, Z: 25}

func testOptions() Options {
	return Options{
		Subdivisions:  2,
		ParticleCount: 300,
		Seed:          9,
		Smoothing:     0.1,
		Planets: []orbit.Spec{
			{Name: "Earth", Color: params.MustParseHex("#2B328C"), Distance: 7, Size: 0.2, Speed: 0.5},
		},
	}
}

func newTestScene(t *testing.T, store *params.Store, opts Options) *Scene {
	t.Helper()
	s, err := New(store, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(nil, testOptions()); err == nil {
		t.Error("expected error for nil source")
	}
	opts := testOptions()
	opts.ParticleCount = -1
	if _, err := New(params.NewStore(params.Default(), params.DefaultRanges()), opts); err == nil {
		t.Error("expected error for negative particle count")
	}
}

func TestFrameBuffers(t *testing.T) {
	store := params.NewStore(params.Default(), params.DefaultRanges())
	s := newTestScene(t, store, testOptions())

	out, ok := s.Frame(1.0/60, eye)
	if !ok {
		t.Fatal("frame on open scene returned !ok")
	}
	if len(out.Vertices) != 162 || len(out.Fragments) != 162 {
		t.Errorf("surface buffers = %d/%d, want 162", len(out.Vertices), len(out.Fragments))
	}
	if len(out.Haze) != 300 {
		t.Errorf("haze = %d, want 300", len(out.Haze))
	}
	if len(out.Planets) != 1 || out.Planets[0].Name != "Earth" {
		t.Errorf("planets = %+v", out.Planets)
	}
	if out.Frame != 1 {
		t.Errorf("frame = %d, want 1", out.Frame)
	}
	if out.HazeScale != params.Default().Scale/2 {
		t.Errorf("haze scale = %f, want %f", out.HazeScale, params.Default().Scale/2)
	}
	if out.HazeColor != params.Default().ColorOuter {
		t.Errorf("haze color = %v, want outer color", out.HazeColor)
	}
}

func TestFrameSmoothsTowardStoreEdits(t *testing.T) {
	store := params.NewStore(params.Default(), params.DefaultRanges())
	s := newTestScene(t, store, testOptions())

	start := store.Snapshot().Speed
	if err := store.Apply(params.SetScalar{Field: params.FieldSpeed, Value: 4.4}); err != nil {
		t.Fatal(err)
	}

	gap := 4.4 - start
	for i := 0; i < 5; i++ {
		out, _ := s.Frame(1.0/60, eye)
		gap *= 0.9
		got := 4.4 - out.State.Smoothed.Speed
		if math.Abs(got-gap) > 1e-9 {
			t.Fatalf("frame %d: gap %f, want %f", i, got, gap)
		}
		if out.Uniforms.Speed != out.State.Smoothed.Speed {
			t.Fatalf("uniforms read unsmoothed speed")
		}
	}
}

func TestFrameElapsedAccumulates(t *testing.T) {
	store := params.NewStore(params.Default(), params.DefaultRanges())
	s := newTestScene(t, store, testOptions())
	for i := 0; i < 4; i++ {
		s.Frame(0.25, eye)
	}
	if got := s.State().Elapsed; math.Abs(got-1) > 1e-12 {
		t.Errorf("elapsed = %f, want 1", got)
	}
}

func TestZeroDisplacementKeepsSphere(t *testing.T) {
	p := params.Default()
	p.DisplacementScale = 0
	store := params.NewStore(p, params.DefaultRanges())
	s := newTestScene(t, store, testOptions())

	out, _ := s.Frame(0.5, eye)
	nonZero := 0
	for i, v := range out.Vertices {
		if r3.Norm(r3.Sub(v.Displaced, v.Position)) != 0 {
			t.Fatalf("vertex %d moved with zero displacement", i)
		}
		if v.Density() > 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Error("density vanished with zero displacement")
	}
}

func TestFrameDeterministicAcrossWorkers(t *testing.T) {
	serialOpts := testOptions()
	serialOpts.Workers = 1
	parallelOpts := testOptions()
	parallelOpts.Workers = 4

	serial := newTestScene(t, params.NewStore(params.Default(), params.DefaultRanges()), serialOpts)
	parallel := newTestScene(t, params.NewStore(params.Default(), params.DefaultRanges()), parallelOpts)

	for f := 0; f < 3; f++ {
		a, _ := serial.Frame(0.1, eye)
		b, _ := parallel.Frame(0.1, eye)
		for i := range a.Fragments {
			if a.Fragments[i] != b.Fragments[i] || a.Vertices[i] != b.Vertices[i] {
				t.Fatalf("frame %d vertex %d differs across worker counts", f, i)
			}
		}
		for i := range a.Haze {
			if a.Haze[i] != b.Haze[i] {
				t.Fatalf("frame %d particle %d differs across worker counts", f, i)
			}
		}
		if a.Respawns != b.Respawns {
			t.Fatalf("frame %d respawns %d vs %d", f, a.Respawns, b.Respawns)
		}
	}
}

func TestHazeIsTimeDerived(t *testing.T) {
	fine := newTestScene(t, params.NewStore(params.Default(), params.DefaultRanges()), testOptions())
	coarse := newTestScene(t, params.NewStore(params.Default(), params.DefaultRanges()), testOptions())

	var a FrameOutput
	for i := 0; i < 8; i++ {
		a, _ = fine.Frame(0.125, eye)
	}
	b, _ := coarse.Frame(1, eye)

	for i := range a.Haze {
		d := r3.Norm(r3.Sub(a.Haze[i].Position, b.Haze[i].Position))
		if d > 1e-9 {
			t.Fatalf("particle %d: position depends on frame history (%g)", i, d)
		}
	}
}

func TestHazeSpeedOverride(t *testing.T) {
	opts := testOptions()
	opts.HazeSpeed = 0.2
	s := newTestScene(t, params.NewStore(params.Default(), params.DefaultRanges()), opts)
	out, _ := s.Frame(0.1, eye)
	if out.HazeSpeed != 0.2 {
		t.Errorf("haze speed = %f, want 0.2", out.HazeSpeed)
	}
}

func TestRespawnsCounted(t *testing.T) {
	s := newTestScene(t, params.NewStore(params.Default(), params.DefaultRanges()), testOptions())
	total := 0
	// One lifecycle at speed 1.4 lasts 1/0.7 seconds, so nearly every
	// particle wraps exactly once.
	for i := 0; i < 143; i++ {
		out, _ := s.Frame(1.0/100, eye)
		total += out.Respawns
	}
	if total < 250 || total > 300 {
		t.Errorf("respawns over one lifecycle = %d, want close to 300", total)
	}
}

func TestSpeedDropIsNotRespawn(t *testing.T) {
	opts := testOptions()
	opts.Smoothing = 1
	store := params.NewStore(params.Default(), params.DefaultRanges())
	s := newTestScene(t, store, opts)
	for i := 0; i < 50; i++ {
		s.Frame(1.0/100, eye)
	}
	before := append([]float64(nil), phases(s)...)

	if err := store.Apply(params.SetScalar{Field: params.FieldSpeed, Value: 0.1}); err != nil {
		t.Fatal(err)
	}
	out, _ := s.Frame(1.0/100, eye)

	backwards := 0
	for i, st := range out.Haze {
		if st.Phase < before[i] {
			backwards++
		}
	}
	if backwards == 0 {
		t.Fatal("expected phases to move backwards after the speed drop")
	}
	if out.Respawns != 0 {
		t.Errorf("respawns after speed drop = %d, want 0", out.Respawns)
	}
}

func phases(s *Scene) []float64 {
	out := make([]float64, len(s.haze))
	for i, st := range s.haze {
		out[i] = st.Phase
	}
	return out
}

func TestRimUsesUndisplacedSurface(t *testing.T) {
	p := params.Default()
	p.Turbulence = 5
	p.DisplacementScale = 1
	opts := testOptions()
	opts.Smoothing = 1
	s := newTestScene(t, params.NewStore(p, params.DefaultRanges()), opts)

	out, _ := s.Frame(0.5, eye)
	displaced := 0
	for i, v := range out.Vertices {
		if v.Displaced != v.Position {
			displaced++
		}
		want := plasma.Shade(out.Uniforms, v.Density(),
			plasma.ViewDir(eye, r3.Scale(p.Scale, v.Position)), v.Normal)
		if out.Fragments[i] != want {
			t.Fatalf("vertex %d: fragment %+v, want %+v", i, out.Fragments[i], want)
		}
	}
	if displaced == 0 {
		t.Fatal("expected displaced vertices")
	}
}

func TestCloseStopsFrames(t *testing.T) {
	s := newTestScene(t, params.NewStore(params.Default(), params.DefaultRanges()), testOptions())
	s.Frame(0.1, eye)
	s.Close()
	s.Close()

	if !s.Closed() {
		t.Fatal("Closed() = false after Close")
	}
	if _, ok := s.Frame(0.1, eye); ok {
		t.Error("frame after Close returned ok")
	}
	if s.Particles() != nil || len(s.Mesh().Positions) != 0 {
		t.Error("buffers retained after Close")
	}
}

func TestPerfWorkRecorded(t *testing.T) {
	opts := testOptions()
	opts.Perf = telemetry.NewPerfCollector(4)
	s := newTestScene(t, params.NewStore(params.Default(), params.DefaultRanges()), opts)
	opts.Perf.BeginFrame()
	out, _ := s.Frame(0.1, eye)
	opts.Perf.EndFrame(out.Respawns)

	stats := opts.Perf.Stats()
	tests := []struct {
		phase telemetry.Phase
		work  float64
	}{
		{telemetry.PhaseSmoothing, 1},
		{telemetry.PhaseSurface, 162},
		{telemetry.PhaseShading, 162},
		{telemetry.PhaseParticles, 300},
		{telemetry.PhasePlanets, 1},
	}
	for _, tt := range tests {
		if got := stats.Phase[tt.phase].Work; got != tt.work {
			t.Errorf("%s work = %v, want %v", tt.phase, got, tt.work)
		}
	}
	if stats.Frames != 1 {
		t.Errorf("frames = %d, want 1", stats.Frames)
	}
}

func BenchmarkFrame(b *testing.B) {
	opts := testOptions()
	opts.Subdivisions = 5
	opts.ParticleCount = 2000
	s, err := New(params.NewStore(params.Default(), params.DefaultRanges()), opts)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Frame(1.0/60, eye)
	}
}

func TestSampleReusesBuffers(t *testing.T) {
	s := newTestScene(t, params.NewStore(params.Default(), params.DefaultRanges()), testOptions())
	var buf telemetry.FrameSample

	out, _ := s.Frame(0.1, eye)
	first := out.Sample(&buf)
	if len(first.Densities) != 162 || len(first.SurfaceAlphas) != 162 || len(first.HazeAlphas) != 300 {
		t.Fatalf("sample sizes = %d/%d/%d", len(first.Densities), len(first.SurfaceAlphas), len(first.HazeAlphas))
	}
	if first.Densities[5] != out.Vertices[5].Density() {
		t.Errorf("density[5] = %f, want %f", first.Densities[5], out.Vertices[5].Density())
	}

	out, _ = s.Frame(0.1, eye)
	second := out.Sample(&buf)
	if &second.Densities[0] != &first.Densities[0] {
		t.Error("sample reallocated its density buffer")
	}
}
