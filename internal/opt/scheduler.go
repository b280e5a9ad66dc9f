package opt

import "math"

// Schedule computes the learning rate for a given optimizer step.
type Schedule interface {
	LRAt(step int) float64
}

// Fixed keeps a constant learning rate for every step.
type Fixed struct {
	Rate float64
}

// LRAt returns the fixed rate regardless of step.
func (f Fixed) LRAt(step int) float64 {
	return f.Rate
}

// WarmupCosine ramps the rate linearly from zero over the warm-up steps, then
// decays it toward zero along a cosine curve for the remaining steps.
type WarmupCosine struct {
	BaseLR      float64
	WarmupSteps int
	TotalSteps  int
}

// LRAt returns the scheduled rate for the given zero-based step.
func (w WarmupCosine) LRAt(step int) float64 {
	if w.WarmupSteps > 0 && step < w.WarmupSteps {
		return w.BaseLR * float64(step+1) / float64(w.WarmupSteps)
	}
	if step >= w.TotalSteps {
		return 0
	}
	progress := float64(step-w.WarmupSteps) / float64(w.TotalSteps-w.WarmupSteps)
	return 0.5 * w.BaseLR * (1 + math.Cos(math.Pi*progress))
}

// StepDecay multiplies the base rate by gamma every stepSize steps.
type StepDecay struct {
	BaseLR   float64
	StepSize int
	Gamma    float64
}

// LRAt returns the decayed rate for the given zero-based step.
func (s StepDecay) LRAt(step int) float64 {
	if s.StepSize <= 0 {
		return s.BaseLR
	}
	return s.BaseLR * math.Pow(s.Gamma, float64(step/s.StepSize))
}
