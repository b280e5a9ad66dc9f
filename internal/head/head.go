// Package head provides output-head strategies pairing an output transform
// with its matching loss and closed-form logit gradient. The head is chosen
// once at construction and fixed for the model's lifetime.
package head

import (
	"math"

	"github.com/formfill/fieldnet/internal/activations"
)

// Head converts raw output-layer scores into probabilities and computes the
// loss and its gradient with respect to the logits.
type Head interface {
	// Name identifies the head in serialized models.
	Name() string

	// Activate writes class probabilities for the given logits into probs.
	Activate(logits, probs []float64)

	// Loss computes the loss between probabilities and the target vector.
	Loss(probs, target []float64) float64

	// Gradient writes the loss gradient w.r.t. the logits into grad.
	// For both heads this is the closed form probs - target.
	Gradient(probs, target, grad []float64)
}

// SoftmaxCrossEntropy is the single-label head: a numerically stable
// normalized exponential over all classes paired with cross-entropy loss.
// Probabilities form a simplex (sum to 1).
type SoftmaxCrossEntropy struct{}

// Name returns "softmax".
func (SoftmaxCrossEntropy) Name() string {
	return "softmax"
}

// Activate computes softmax probabilities.
func (SoftmaxCrossEntropy) Activate(logits, probs []float64) {
	activations.Softmax(logits, probs)
}

// Loss computes cross entropy: -sum(target * log(prob + eps))
func (SoftmaxCrossEntropy) Loss(probs, target []float64) float64 {
	const eps = 1e-10
	var sum float64
	for i := range probs {
		p := probs[i]
		if p < eps {
			p = eps
		}
		sum -= target[i] * math.Log(p)
	}
	return sum
}

// Gradient computes probs - target, the closed form for softmax combined
// with cross-entropy loss.
func (SoftmaxCrossEntropy) Gradient(probs, target, grad []float64) {
	for i := range probs {
		grad[i] = probs[i] - target[i]
	}
}

// SigmoidBinary is the multi-label head: an independent logistic transform
// per class paired with per-class binary cross-entropy, averaged over
// classes. Probabilities are independent in (0,1), not constrained to sum
// to 1.
type SigmoidBinary struct{}

// Name returns "sigmoid".
func (SigmoidBinary) Name() string {
	return "sigmoid"
}

// Activate applies the stable logistic transform to each logit independently.
func (SigmoidBinary) Activate(logits, probs []float64) {
	for i := range logits {
		probs[i] = activations.Sigmoid(logits[i])
	}
}

// Loss computes mean binary cross-entropy across classes.
func (SigmoidBinary) Loss(probs, target []float64) float64 {
	const eps = 1e-10
	var sum float64
	for i := range probs {
		p := probs[i]
		if p < eps {
			p = eps
		}
		if p > 1-eps {
			p = 1 - eps
		}
		sum -= target[i]*math.Log(p) + (1-target[i])*math.Log(1-p)
	}
	return sum / float64(len(probs))
}

// Gradient computes probs - target, the closed form for independent logistic
// outputs combined with binary cross-entropy.
func (SigmoidBinary) Gradient(probs, target, grad []float64) {
	for i := range probs {
		grad[i] = probs[i] - target[i]
	}
}
