package noise

import "gonum.org/v1/gonum/spatial/r3"

// Octaves is the number of layers summed by FBM.
const Octaves = 4

// octaveShift decorrelates successive octaves.
var octaveShift = r3.Vec{X: 100, Y: 100, Z: 100}

// FBM sums Octaves layers of src. Each octave doubles the frequency, adds
// octaveShift, and halves the amplitude starting from 0.5, so the result
// stays within ±(1 - 2^-Octaves) of the source's range.
func FBM(src Source, p r3.Vec) float64 {
	var v float64
	a := 0.5
	for i := 0; i < Octaves; i++ {
		v += a * At(src, p)
		p = r3.Add(r3.Scale(2, p), octaveShift)
		a *= 0.5
	}
	return v
}
