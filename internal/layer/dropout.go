package layer

import "math/rand"

// Dropout implements inverted dropout regularization.
// During training, each unit is kept with probability 1-p and surviving
// activations are rescaled by 1/(1-p) so the expected magnitude is unchanged.
// During inference, inputs pass through untouched.
type Dropout struct {
	p        float64
	training bool
	size     int
	rng      *rand.Rand

	outputBuf []float64
	maskBuf   []float64 // keep/drop mask saved for the backward pass
	gradInBuf []float64
}

// NewDropout creates a new dropout layer. p is the probability of dropping a
// unit. The generator is injected so masks are reproducible under a fixed seed.
func NewDropout(p float64, size int, rng *rand.Rand) *Dropout {
	return &Dropout{
		p:         p,
		training:  false,
		size:      size,
		rng:       rng,
		outputBuf: make([]float64, size),
		maskBuf:   make([]float64, size),
		gradInBuf: make([]float64, size),
	}
}

// SetTraining sets whether the layer should be in training or inference mode.
func (d *Dropout) SetTraining(training bool) {
	d.training = training
}

// Forward performs a forward pass, sampling and caching a fresh mask when
// training.
func (d *Dropout) Forward(x []float64) []float64 {
	if !d.training || d.p == 0 {
		copy(d.outputBuf, x)
		return d.outputBuf[:len(x)]
	}

	scale := 1 / (1 - d.p)
	for i := range x {
		if d.rng.Float64() < d.p {
			d.maskBuf[i] = 0
			d.outputBuf[i] = 0
		} else {
			d.maskBuf[i] = 1
			d.outputBuf[i] = x[i] * scale
		}
	}
	return d.outputBuf[:len(x)]
}

// Backward applies the cached mask with the same inverted scaling used in the
// forward pass.
func (d *Dropout) Backward(grad []float64) []float64 {
	if !d.training || d.p == 0 {
		copy(d.gradInBuf, grad)
		return d.gradInBuf[:len(grad)]
	}

	scale := 1 / (1 - d.p)
	for i := range grad {
		if d.maskBuf[i] > 0 {
			d.gradInBuf[i] = grad[i] * scale
		} else {
			d.gradInBuf[i] = 0
		}
	}
	return d.gradInBuf[:len(grad)]
}

// Params returns layer parameters (empty for Dropout).
func (d *Dropout) Params() []float64 {
	return nil
}

// SetParams sets layer parameters (no-op for Dropout).
func (d *Dropout) SetParams(params []float64) {
}

// Gradients returns layer gradients (empty for Dropout).
func (d *Dropout) Gradients() []float64 {
	return nil
}

// Mask returns the keep/drop mask from the most recent training forward pass.
func (d *Dropout) Mask() []float64 {
	return d.maskBuf
}

// P returns the dropout probability.
func (d *Dropout) P() float64 {
	return d.p
}
