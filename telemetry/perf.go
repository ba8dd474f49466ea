package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase identifies one pass of a scene frame.
type Phase int

// Frame phases, in execution order.
const (
	PhaseSmoothing Phase = iota
	PhaseSurface
	PhaseShading
	PhaseParticles
	PhasePlanets
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"smoothing", "surface", "shading", "particles", "planets", "telemetry",
}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists every frame phase in execution order.
var Phases = []Phase{
	PhaseSmoothing, PhaseSurface, PhaseShading,
	PhaseParticles, PhasePlanets, PhaseTelemetry,
}

// frameProfile is the cost of one scene frame: time spent and elements
// processed per phase.
type frameProfile struct {
	total    time.Duration
	spent    [numPhases]time.Duration
	work     [numPhases]int
	respawns int
}

// PerfCollector profiles scene frames over a rolling window. Each phase is
// opened with Mark and the number of elements it will process, so the
// window yields throughput (elements per millisecond) as well as time.
type PerfCollector struct {
	window []frameProfile
	next   int
	filled int

	cur     frameProfile
	started time.Time
	markAt  time.Time
	open    Phase
	inFrame bool

	lastDraw     time.Time
	drawInterval time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over window frames.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		window: make([]frameProfile, window),
		open:   -1,
		now:    time.Now,
	}
}

// BeginFrame starts profiling a scene frame.
func (p *PerfCollector) BeginFrame() {
	p.cur = frameProfile{}
	p.started = p.now()
	p.open = -1
	p.inFrame = true
}

// Mark closes the open phase and opens ph, which will process work elements.
func (p *PerfCollector) Mark(ph Phase, work int) {
	if !p.inFrame || ph < 0 || ph >= numPhases {
		return
	}
	now := p.now()
	p.closePhase(now)
	p.open = ph
	p.markAt = now
	p.cur.work[ph] += work
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.open >= 0 {
		p.cur.spent[p.open] += now.Sub(p.markAt)
	}
	p.open = -1
}

// EndFrame closes the frame and adds it to the window. respawns is the
// number of haze lifecycle wraps the frame produced.
func (p *PerfCollector) EndFrame(respawns int) {
	if !p.inFrame {
		return
	}
	now := p.now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.started)
	p.cur.respawns = respawns
	p.inFrame = false

	p.window[p.next] = p.cur
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}
}

// RecordDraw marks a presented frame; the interval between two calls gives
// the draw rate.
func (p *PerfCollector) RecordDraw() {
	now := p.now()
	if !p.lastDraw.IsZero() {
		p.drawInterval = now.Sub(p.lastDraw)
	}
	p.lastDraw = now
}

// PhaseStats is one phase averaged over the window.
type PhaseStats struct {
	Avg        time.Duration
	Share      float64 // fraction of the average frame
	Work       float64 // average elements per frame
	Throughput float64 // elements per millisecond, 0 when unmeasurable
}

// PerfStats aggregates the window.
type PerfStats struct {
	Frames   int
	AvgFrame time.Duration
	P95Frame time.Duration
	Phase    [numPhases]PhaseStats

	RespawnsPerFrame float64
	DrawFPS          float64
}

// Stats computes the window aggregate.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.drawInterval > 0 {
		s.DrawFPS = float64(time.Second) / float64(p.drawInterval)
	}
	if p.filled == 0 {
		return s
	}
	s.Frames = p.filled

	totals := make([]float64, p.filled)
	spent := make([]float64, p.filled)
	work := make([]float64, p.filled)
	respawns := make([]float64, p.filled)
	for i, f := range p.window[:p.filled] {
		totals[i] = float64(f.total)
		respawns[i] = float64(f.respawns)
	}
	s.AvgFrame = time.Duration(stat.Mean(totals, nil))
	s.RespawnsPerFrame = stat.Mean(respawns, nil)

	sort.Float64s(totals)
	s.P95Frame = time.Duration(stat.Quantile(0.95, stat.Empirical, totals, nil))

	for _, ph := range Phases {
		for i, f := range p.window[:p.filled] {
			spent[i] = float64(f.spent[ph])
			work[i] = float64(f.work[ph])
		}
		ps := PhaseStats{
			Avg:  time.Duration(stat.Mean(spent, nil)),
			Work: stat.Mean(work, nil),
		}
		if s.AvgFrame > 0 {
			ps.Share = float64(ps.Avg) / float64(s.AvgFrame)
		}
		if ms := float64(ps.Avg) / float64(time.Millisecond); ms > 0 {
			ps.Throughput = ps.Work / ms
		}
		s.Phase[ph] = ps
	}
	return s
}

// LogStats logs the window aggregate.
func (s PerfStats) LogStats() {
	slog.Info("perf", "window", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("frames", s.Frames),
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("p95_frame_us", s.P95Frame.Microseconds()),
		slog.Float64("respawns_per_frame", s.RespawnsPerFrame),
	}
	if s.DrawFPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.DrawFPS))
	}
	for _, ph := range Phases {
		st := s.Phase[ph]
		if st.Avg == 0 {
			continue
		}
		attrs = append(attrs, slog.Group(ph.String(),
			slog.Int64("us", st.Avg.Microseconds()),
			slog.Float64("per_ms", st.Throughput),
		))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd        int32   `csv:"window_end"`
	Frames           int     `csv:"frames"`
	AvgFrameUS       int64   `csv:"avg_frame_us"`
	P95FrameUS       int64   `csv:"p95_frame_us"`
	FPS              float64 `csv:"fps"`
	RespawnsPerFrame float64 `csv:"respawns_per_frame"`
	SmoothingUS      int64   `csv:"smoothing_us"`
	SurfaceUS        int64   `csv:"surface_us"`
	ShadingUS        int64   `csv:"shading_us"`
	ParticlesUS      int64   `csv:"particles_us"`
	PlanetsUS        int64   `csv:"planets_us"`
	TelemetryUS      int64   `csv:"telemetry_us"`
	VerticesPerMS    float64 `csv:"vertices_per_ms"`
	FragmentsPerMS   float64 `csv:"fragments_per_ms"`
	ParticlesPerMS   float64 `csv:"particles_per_ms"`
}

// ToCSV flattens the aggregate for perf.csv.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	us := func(ph Phase) int64 { return s.Phase[ph].Avg.Microseconds() }
	return PerfStatsCSV{
		WindowEnd:        windowEnd,
		Frames:           s.Frames,
		AvgFrameUS:       s.AvgFrame.Microseconds(),
		P95FrameUS:       s.P95Frame.Microseconds(),
		FPS:              s.DrawFPS,
		RespawnsPerFrame: s.RespawnsPerFrame,
		SmoothingUS:      us(PhaseSmoothing),
		SurfaceUS:        us(PhaseSurface),
		ShadingUS:        us(PhaseShading),
		ParticlesUS:      us(PhaseParticles),
		PlanetsUS:        us(PhasePlanets),
		TelemetryUS:      us(PhaseTelemetry),
		VerticesPerMS:    s.Phase[PhaseSurface].Throughput,
		FragmentsPerMS:   s.Phase[PhaseShading].Throughput,
		ParticlesPerMS:   s.Phase[PhaseParticles].Throughput,
	}
}
