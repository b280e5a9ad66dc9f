// Package activations provides activation functions optimized for performance.
package activations

import "math"

// Activation is an activation function with derivative.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x)
	Derivative(x float64) float64
}

// Identity passes values through unchanged. Used for output layers whose
// non-linearity is applied by the head instead.
type Identity struct{}

// Activate returns x unchanged.
func (i Identity) Activate(x float64) float64 {
	return x
}

// Derivative returns 1.
func (i Identity) Derivative(x float64) float64 {
	return 1
}

// LeakyReLU activation function to prevent dying neurons.
type LeakyReLU struct {
	Alpha float64 // Slope for x <= 0
}

// NewLeakyReLU creates a LeakyReLU with the given alpha value.
func NewLeakyReLU(alpha float64) *LeakyReLU {
	return &LeakyReLU{Alpha: alpha}
}

// Activate computes x if x > 0, else alpha*x
func (l *LeakyReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return l.Alpha * x
}

// Derivative returns 1 if x > 0, else alpha
func (l *LeakyReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return l.Alpha
}

// Sigmoid computes the logistic function, branching on the sign of x so the
// exponential never overflows.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// Softmax converts raw scores into a probability simplex, writing the result
// into out. The maximum score is subtracted before exponentiating and a small
// epsilon guards the denominator.
func Softmax(scores, out []float64) {
	const eps = 1e-10

	maxVal := scores[0]
	for i := 1; i < len(scores); i++ {
		if scores[i] > maxVal {
			maxVal = scores[i]
		}
	}

	sum := 0.0
	for i := range scores {
		out[i] = math.Exp(scores[i] - maxVal)
		sum += out[i]
	}

	inv := 1 / (sum + eps)
	for i := range out {
		out[i] *= inv
	}
}
