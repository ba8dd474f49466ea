package telemetry

import (
	"math"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCollector(window int) (*PerfCollector, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(window)
	pc.now = clock.now
	return pc, clock
}

// frame profiles one frame: surface over 2ms with vertices, particles over
// 1ms with particles, and a final unmarked millisecond.
func frame(pc *PerfCollector, clock *fakeClock, vertices, particles, respawns int) {
	pc.BeginFrame()
	pc.Mark(PhaseSurface, vertices)
	clock.advance(2 * time.Millisecond)
	pc.Mark(PhaseParticles, particles)
	clock.advance(time.Millisecond)
	pc.Mark(PhaseTelemetry, 0)
	clock.advance(time.Millisecond)
	pc.EndFrame(respawns)
}

func TestPerfThroughput(t *testing.T) {
	pc, clock := newTestCollector(10)
	for i := 0; i < 4; i++ {
		frame(pc, clock, 642, 300, 6)
	}

	s := pc.Stats()
	if s.Frames != 4 {
		t.Fatalf("frames = %d, want 4", s.Frames)
	}
	if s.AvgFrame != 4*time.Millisecond {
		t.Errorf("avg frame = %v, want 4ms", s.AvgFrame)
	}

	tests := []struct {
		phase      Phase
		avg        time.Duration
		work       float64
		throughput float64
		share      float64
	}{
		{PhaseSurface, 2 * time.Millisecond, 642, 321, 0.5},
		{PhaseParticles, time.Millisecond, 300, 300, 0.25},
		{PhaseTelemetry, time.Millisecond, 0, 0, 0.25},
		{PhaseShading, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			got := s.Phase[tt.phase]
			if got.Avg != tt.avg || got.Work != tt.work {
				t.Errorf("avg/work = %v/%v, want %v/%v", got.Avg, got.Work, tt.avg, tt.work)
			}
			if math.Abs(got.Throughput-tt.throughput) > 1e-9 {
				t.Errorf("throughput = %v, want %v", got.Throughput, tt.throughput)
			}
			if math.Abs(got.Share-tt.share) > 1e-9 {
				t.Errorf("share = %v, want %v", got.Share, tt.share)
			}
		})
	}
	if s.RespawnsPerFrame != 6 {
		t.Errorf("respawns per frame = %v, want 6", s.RespawnsPerFrame)
	}
}

func TestPerfWindowForgetsOldFrames(t *testing.T) {
	pc, clock := newTestCollector(3)
	for i := 0; i < 5; i++ {
		frame(pc, clock, 100, 10, 100)
	}
	for i := 0; i < 3; i++ {
		frame(pc, clock, 400, 10, 0)
	}

	s := pc.Stats()
	if s.Frames != 3 {
		t.Errorf("frames = %d, want window of 3", s.Frames)
	}
	if s.Phase[PhaseSurface].Work != 400 || s.RespawnsPerFrame != 0 {
		t.Errorf("surface work %v respawns %v, want only the last 3 frames",
			s.Phase[PhaseSurface].Work, s.RespawnsPerFrame)
	}
}

func TestPerfP95CatchesSpike(t *testing.T) {
	pc, clock := newTestCollector(10)
	for i := 0; i < 9; i++ {
		frame(pc, clock, 1, 1, 0)
	}
	pc.BeginFrame()
	pc.Mark(PhaseSurface, 1)
	clock.advance(40 * time.Millisecond)
	pc.EndFrame(0)

	s := pc.Stats()
	if s.P95Frame != 40*time.Millisecond {
		t.Errorf("p95 = %v, want the 40ms spike", s.P95Frame)
	}
	if s.AvgFrame >= s.P95Frame {
		t.Errorf("avg %v should stay below p95 %v", s.AvgFrame, s.P95Frame)
	}
}

func TestPerfMarkOutsideFrameIgnored(t *testing.T) {
	pc, clock := newTestCollector(4)
	pc.Mark(PhaseSurface, 50)
	clock.advance(time.Millisecond)
	pc.EndFrame(3)

	if s := pc.Stats(); s.Frames != 0 || s.Phase[PhaseSurface].Work != 0 {
		t.Errorf("stats = %+v, want empty", s)
	}
}

func TestPerfDrawFPS(t *testing.T) {
	pc, clock := newTestCollector(4)
	pc.RecordDraw()
	if pc.Stats().DrawFPS != 0 {
		t.Error("a single draw has no rate")
	}
	clock.advance(20 * time.Millisecond)
	pc.RecordDraw()
	if fps := pc.Stats().DrawFPS; math.Abs(fps-50) > 1e-9 {
		t.Errorf("fps = %v, want 50", fps)
	}
}

func TestPerfToCSV(t *testing.T) {
	pc, clock := newTestCollector(4)
	frame(pc, clock, 642, 300, 2)

	row := pc.Stats().ToCSV(120)
	if row.WindowEnd != 120 || row.Frames != 1 || row.AvgFrameUS != 4000 {
		t.Errorf("row header columns = %+v", row)
	}
	if row.SurfaceUS != 2000 || row.ParticlesUS != 1000 || row.ShadingUS != 0 {
		t.Errorf("phase columns = %+v", row)
	}
	if row.VerticesPerMS != 321 || row.ParticlesPerMS != 300 || row.FragmentsPerMS != 0 {
		t.Errorf("throughput columns = %+v", row)
	}
	if row.RespawnsPerFrame != 2 {
		t.Errorf("respawns = %v, want 2", row.RespawnsPerFrame)
	}
}
