package params

// DefaultSmoothing is the fraction of the remaining gap closed per frame.
const DefaultSmoothing = 0.1

// Smoother lags a target parameter set by per-field exponential
// interpolation, one step per frame.
type Smoother struct {
	Factor  float64
	current ParameterSet
}

// NewSmoother starts fully settled on initial. A factor outside (0, 1]
// falls back to DefaultSmoothing.
func NewSmoother(initial ParameterSet, factor float64) *Smoother {
	if factor <= 0 || factor > 1 {
		factor = DefaultSmoothing
	}
	return &Smoother{Factor: factor, current: initial}
}

// Step moves the smoothed set toward target and returns it.
func (s *Smoother) Step(target ParameterSet) ParameterSet {
	s.current = s.current.Lerp(target, s.Factor)
	return s.current
}

// Current returns the smoothed set without advancing it.
func (s *Smoother) Current() ParameterSet {
	return s.current
}
