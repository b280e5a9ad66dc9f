// Package layer provides neural network layer implementations.
package layer

// Layer is a neural network layer.
//
// Params and Gradients return the live backing slices so callers can
// accumulate and update in place. Layers are not safe for concurrent use;
// one forward/backward pair must complete before the next begins.
type Layer interface {
	Forward(x []float64) []float64
	Backward(grad []float64) []float64
	Params() []float64
	SetParams([]float64)
	Gradients() []float64
}
