package scene

import "github.com/pthm-cable/solaris/telemetry"

// Sample copies the frame's density and alpha distributions into buf,
// reusing its backing arrays, and returns it.
func (o FrameOutput) Sample(buf *telemetry.FrameSample) telemetry.FrameSample {
	buf.Densities = buf.Densities[:0]
	for _, v := range o.Vertices {
		buf.Densities = append(buf.Densities, v.Density())
	}

	buf.SurfaceAlphas = buf.SurfaceAlphas[:0]
	for _, f := range o.Fragments {
		buf.SurfaceAlphas = append(buf.SurfaceAlphas, f.Alpha)
	}

	buf.HazeAlphas = buf.HazeAlphas[:0]
	for _, h := range o.Haze {
		buf.HazeAlphas = append(buf.HazeAlphas, h.Alpha)
	}

	return *buf
}
