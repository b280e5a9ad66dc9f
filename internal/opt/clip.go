package opt

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// clipEpsilon guards the rescale division when the norm sits exactly at the
// configured maximum.
const clipEpsilon = 1e-12

// ClipByGlobalNorm sanitizes and rescales a gradient set in place.
//
// Non-finite elements are zeroed first, before the norm is computed, so one
// corrupt element cannot poison the scale of the whole set. The global L2
// norm then spans every element of every tensor; if it exceeds maxNorm each
// element is multiplied by maxNorm/(norm+eps).
//
// Returns the pre-clip global norm and the number of elements sanitized.
func ClipByGlobalNorm(grads [][]float64, maxNorm float64) (norm float64, sanitized int) {
	for _, g := range grads {
		for i, v := range g {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				g[i] = 0
				sanitized++
			}
		}
	}

	sumSq := 0.0
	for _, g := range grads {
		if len(g) == 0 {
			continue
		}
		n := floats.Norm(g, 2)
		sumSq += n * n
	}
	norm = math.Sqrt(sumSq)

	if norm > maxNorm {
		scale := maxNorm / (norm + clipEpsilon)
		for _, g := range grads {
			if len(g) > 0 {
				floats.Scale(scale, g)
			}
		}
	}

	return norm, sanitized
}
