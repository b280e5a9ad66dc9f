package opt

import "math"

// Adam optimizer with bias-corrected first and second moment estimates and
// decoupled L2 weight decay.
//
// Update rule per parameter:
//
//	m = beta1*m + (1-beta1)*g
//	v = beta2*v + (1-beta2)*g^2
//	mHat = m / (1 - beta1^t)
//	vHat = v / (1 - beta2^t)
//	p -= lr * mHat / (sqrt(vHat) + eps)
//	p -= lr * lambda * p
//
// The step counter t increments once per Step call and is shared by every
// tensor updated in that call.
type Adam struct {
	LearningRate float64
	Beta1        float64 // Exponential decay rate for first moment
	Beta2        float64 // Exponential decay rate for second moment
	Epsilon      float64 // Small constant for numerical stability
	WeightDecay  float64 // L2 decay factor applied after the moment update

	t int
	m [][]float64 // first-moment accumulators, one per tensor
	v [][]float64 // second-moment accumulators, one per tensor
}

// NewAdam creates a new Adam optimizer with default decay rates.
func NewAdam(learningRate, weightDecay float64) *Adam {
	return &Adam{
		LearningRate: learningRate,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		WeightDecay:  weightDecay,
	}
}

// Step applies one Adam update to every tensor in place. Moment state is
// allocated lazily on the first call and keyed by tensor position, so the
// caller must pass tensors in a stable order.
func (a *Adam) Step(params, grads [][]float64) {
	if a.m == nil || len(a.m) != len(params) {
		a.allocState(params)
	}

	a.t++
	correction1 := 1 - math.Pow(a.Beta1, float64(a.t))
	correction2 := 1 - math.Pow(a.Beta2, float64(a.t))

	for t := range params {
		p, g := params[t], grads[t]
		m, v := a.m[t], a.v[t]
		if len(m) != len(p) {
			m = make([]float64, len(p))
			v = make([]float64, len(p))
			a.m[t], a.v[t] = m, v
		}

		for i := range p {
			gi := g[i]
			m[i] = a.Beta1*m[i] + (1-a.Beta1)*gi
			v[i] = a.Beta2*v[i] + (1-a.Beta2)*gi*gi

			mHat := m[i] / correction1
			vHat := v[i] / correction2

			p[i] -= a.LearningRate * mHat / (math.Sqrt(vHat) + a.Epsilon)
			p[i] -= a.LearningRate * a.WeightDecay * p[i]
		}
	}
}

func (a *Adam) allocState(params [][]float64) {
	a.m = make([][]float64, len(params))
	a.v = make([][]float64, len(params))
	for t := range params {
		a.m[t] = make([]float64, len(params[t]))
		a.v[t] = make([]float64, len(params[t]))
	}
}

// Reset discards all moment state and returns the step counter to zero.
// Used after importing a serialized model, which never carries optimizer
// state.
func (a *Adam) Reset() {
	a.t = 0
	a.m = nil
	a.v = nil
}

// T returns the number of Step calls applied since creation or Reset.
func (a *Adam) T() int {
	return a.t
}

// LR returns the current learning rate.
func (a *Adam) LR() float64 {
	return a.LearningRate
}

// SetLR sets the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.LearningRate = lr
}
