// Package opt provides optimization algorithms, gradient clipping and
// learning-rate schedules.
package opt

// Optimizer updates parameter tensors in place from matching gradient
// tensors. One Step call covers every tensor of a model at once.
type Optimizer interface {
	Step(params, grads [][]float64)
	LR() float64
	SetLR(lr float64)
}

// SGD (Stochastic Gradient Descent) optimizer.
type SGD struct {
	LearningRate float64
}

// Step updates each tensor in place: params = params - lr * gradients.
func (s *SGD) Step(params, grads [][]float64) {
	for t := range params {
		p, g := params[t], grads[t]
		for i := range p {
			p[i] -= s.LearningRate * g[i]
		}
	}
}

// LR returns the current learning rate.
func (s *SGD) LR() float64 {
	return s.LearningRate
}

// SetLR sets the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.LearningRate = lr
}
