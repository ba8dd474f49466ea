// Package noise provides the gradient noise primitive, its fractal sum, and
// the curl field derived from it.
package noise

import (
	"errors"
	"fmt"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrUnknownSource is returned by New for an unrecognised source kind.
var ErrUnknownSource = errors.New("unknown noise source")

// Source kinds accepted by New.
const (
	KindSimplex     = "simplex"
	KindOpenSimplex = "opensimplex"
)

// Source is a deterministic, continuous scalar noise in roughly [-1, 1].
// opensimplex.Noise satisfies it directly.
type Source interface {
	Eval3(x, y, z float64) float64
}

// New returns the noise source named by kind. The seed only affects
// OpenSimplex; Simplex uses a fixed permutation polynomial.
func New(kind string, seed int64) (Source, error) {
	switch kind {
	case "", KindSimplex:
		return Simplex{}, nil
	case KindOpenSimplex:
		return opensimplex.New(seed), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
}

// At evaluates src at p.
func At(src Source, p r3.Vec) float64 {
	return src.Eval3(p.X, p.Y, p.Z)
}
