package layer

import "math"

// Normalizer is a per-unit normalization strategy applied between a dense
// layer's sum and its activation. Implementations cache whatever they need
// from Forward for the matching Backward call.
type Normalizer interface {
	Forward(z []float64) []float64
	Backward(grad []float64) []float64
	Params() []float64
	SetParams([]float64)
	Gradients() []float64
	SetTraining(bool)
}

// PassThrough is the no-op normalization strategy.
type PassThrough struct{}

func (PassThrough) Forward(z []float64) []float64       { return z }
func (PassThrough) Backward(grad []float64) []float64   { return grad }
func (PassThrough) Params() []float64                   { return nil }
func (PassThrough) SetParams([]float64)                 {}
func (PassThrough) Gradients() []float64                { return nil }
func (PassThrough) SetTraining(bool)                    {}

// RunningNorm normalizes each unit with running statistics updated one sample
// at a time. With a single sample per call the instantaneous variance
// degenerates to a constant 1.0, so the running variance stays pinned at its
// initial value; the effect is running mean-centering with a learnable scale
// and shift rather than true mini-batch statistics.
//
// The backward pass treats the normalization's local gradient as identity:
// the input gradient passes through unchanged while scale and shift still
// receive their own gradients.
type RunningNorm struct {
	size     int
	eps      float64
	momentum float64
	training bool

	// Learnable scale (gamma) and shift (beta), contiguous.
	params []float64
	gamma  []float64 // view of params
	beta   []float64 // view of params

	grads     []float64
	gradGamma []float64 // view of grads
	gradBeta  []float64 // view of grads

	runningMean []float64
	runningVar  []float64

	xhatBuf   []float64
	outBuf    []float64
	gradInBuf []float64
}

// NewRunningNorm creates a running-statistics normalizer.
// Scale starts at 1, shift at 0, running mean at 0, running variance at 1.
func NewRunningNorm(size int, eps, momentum float64) *RunningNorm {
	params := make([]float64, size*2)
	grads := make([]float64, size*2)
	n := &RunningNorm{
		size:        size,
		eps:         eps,
		momentum:    momentum,
		params:      params,
		gamma:       params[:size],
		beta:        params[size:],
		grads:       grads,
		gradGamma:   grads[:size],
		gradBeta:    grads[size:],
		runningMean: make([]float64, size),
		runningVar:  make([]float64, size),
		xhatBuf:     make([]float64, size),
		outBuf:      make([]float64, size),
		gradInBuf:   make([]float64, size),
	}
	for i := 0; i < size; i++ {
		n.gamma[i] = 1
		n.runningVar[i] = 1
	}
	return n
}

// SetTraining sets whether running statistics update on Forward.
func (n *RunningNorm) SetTraining(training bool) {
	n.training = training
}

// Forward normalizes z per unit. In training mode the running mean is first
// updated as an exponential moving average of the instantaneous value (and
// the running variance with the degenerate single-sample value 1.0), then
// the just-updated statistics normalize the unit. In inference mode the
// stored statistics are used without updates.
func (n *RunningNorm) Forward(z []float64) []float64 {
	if n.training {
		m := n.momentum
		for i := 0; i < n.size; i++ {
			n.runningMean[i] = (1-m)*n.runningMean[i] + m*z[i]
			n.runningVar[i] = (1-m)*n.runningVar[i] + m*1.0
		}
	}

	for i := 0; i < n.size; i++ {
		xhat := (z[i] - n.runningMean[i]) / math.Sqrt(n.runningVar[i]+n.eps)
		n.xhatBuf[i] = xhat
		n.outBuf[i] = n.gamma[i]*xhat + n.beta[i]
	}
	return n.outBuf
}

// Backward computes scale/shift gradients from the cached normalized values
// and passes the incoming gradient through to the input unchanged.
// Gradient buffers are overwritten each call.
func (n *RunningNorm) Backward(grad []float64) []float64 {
	for i := 0; i < n.size; i++ {
		n.gradGamma[i] = grad[i] * n.xhatBuf[i]
		n.gradBeta[i] = grad[i]
		n.gradInBuf[i] = grad[i]
	}
	return n.gradInBuf
}

// Params returns the live flattened parameter slice (gamma then beta).
func (n *RunningNorm) Params() []float64 {
	return n.params
}

// SetParams copies gamma and beta from a flattened slice.
func (n *RunningNorm) SetParams(params []float64) {
	copy(n.params, params)
}

// Gradients returns the live flattened gradient slice (gamma then beta).
func (n *RunningNorm) Gradients() []float64 {
	return n.grads
}

// Gamma returns the scale vector directly.
func (n *RunningNorm) Gamma() []float64 {
	return n.gamma
}

// Beta returns the shift vector directly.
func (n *RunningNorm) Beta() []float64 {
	return n.beta
}

// RunningMean returns the running mean vector directly.
func (n *RunningNorm) RunningMean() []float64 {
	return n.runningMean
}

// RunningVar returns the running variance vector directly.
func (n *RunningNorm) RunningVar() []float64 {
	return n.runningVar
}

// SetRunningStats installs stored running statistics, used when importing a
// serialized model.
func (n *RunningNorm) SetRunningStats(mean, variance []float64) {
	copy(n.runningMean, mean)
	copy(n.runningVar, variance)
}

// Size returns the number of normalized units.
func (n *RunningNorm) Size() int {
	return n.size
}
