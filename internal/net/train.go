package net

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/formfill/fieldnet/internal/opt"
)

// Sample pairs a feature vector with its target vector. Single-label targets
// are one-hot (see OneHot); multi-label targets carry an independent binary
// value per class. The engine never retains a reference to either slice
// after a call returns.
type Sample struct {
	Features []float64
	Target   []float64
}

// TrainResult reports per-batch training observability metrics.
type TrainResult struct {
	MeanLoss     float64
	MeanAccuracy float64
	LearningRate float64
	Sanitized    int // non-finite gradient elements zeroed this batch
}

// OneHot builds a target vector of length n with a single 1 at class.
func OneHot(class, n int) []float64 {
	if class < 0 || class >= n {
		panic(fmt.Sprintf("OneHot: class %d out of range [0,%d)", class, n))
	}
	t := make([]float64, n)
	t[class] = 1
	return t
}

// TrainBatch runs one optimization step over the batch: per-sample forward,
// loss and backward passes, gradient accumulation averaged over the batch,
// global-norm clipping, then a single Adam update at the scheduled rate.
func (c *Classifier) TrainBatch(batch []Sample, sched opt.Schedule) (TrainResult, error) {
	if !c.initialized {
		return TrainResult{}, fmt.Errorf("train: %w", ErrNotInitialized)
	}
	if len(batch) == 0 {
		return TrainResult{}, fmt.Errorf("%w: empty batch", ErrBadBatch)
	}
	if len(batch) > c.cfg.MaxBatchSize {
		return TrainResult{}, fmt.Errorf("%w: %d samples exceeds maximum %d",
			ErrBadBatch, len(batch), c.cfg.MaxBatchSize)
	}
	for i, s := range batch {
		if err := c.checkFeatures(s.Features); err != nil {
			return TrainResult{}, fmt.Errorf("sample %d: %w", i, err)
		}
		if len(s.Target) != c.cfg.Dims.Out {
			return TrainResult{}, fmt.Errorf("sample %d: %w: target length %d, expected %d",
				i, ErrShapeMismatch, len(s.Target), c.cfg.Dims.Out)
		}
	}

	for _, g := range c.gradSums {
		for i := range g {
			g[i] = 0
		}
	}

	c.setTraining(true)
	defer c.setTraining(false)

	var totalLoss float64
	correct := 0
	for _, s := range batch {
		probs := c.forward(s.Features)
		totalLoss += c.cfg.Head.Loss(probs, s.Target)
		if argmax(probs) == argmax(s.Target) {
			correct++
		}

		c.backward(probs, s.Target)
		for ti, g := range c.gradients() {
			if len(g) > 0 {
				floats.Add(c.gradSums[ti], g)
			}
		}
	}

	// Mean gradient over the batch.
	invN := 1 / float64(len(batch))
	for _, g := range c.gradSums {
		if len(g) > 0 {
			floats.Scale(invN, g)
		}
	}

	_, sanitized := opt.ClipByGlobalNorm(c.gradSums, c.cfg.MaxGradNorm)
	c.sanitizedTotal += sanitized

	lr := sched.LRAt(c.step)
	c.adam.SetLR(lr)
	c.adam.Step(c.trainables(), c.gradSums)
	c.step++

	return TrainResult{
		MeanLoss:     totalLoss * invN,
		MeanAccuracy: float64(correct) * invN,
		LearningRate: lr,
		Sanitized:    sanitized,
	}, nil
}

// Evaluate computes mean loss and accuracy over a dataset without touching
// the weights.
func (c *Classifier) Evaluate(samples []Sample) (meanLoss, meanAccuracy float64, err error) {
	if !c.initialized {
		return 0, 0, fmt.Errorf("evaluate: %w", ErrNotInitialized)
	}
	if len(samples) == 0 {
		return 0, 0, fmt.Errorf("%w: empty dataset", ErrBadBatch)
	}

	correct := 0
	for i, s := range samples {
		if err := c.checkFeatures(s.Features); err != nil {
			return 0, 0, fmt.Errorf("sample %d: %w", i, err)
		}
		if len(s.Target) != c.cfg.Dims.Out {
			return 0, 0, fmt.Errorf("sample %d: %w: target length %d, expected %d",
				i, ErrShapeMismatch, len(s.Target), c.cfg.Dims.Out)
		}

		probs := c.forward(s.Features)
		meanLoss += c.cfg.Head.Loss(probs, s.Target)
		if argmax(probs) == argmax(s.Target) {
			correct++
		}
	}

	n := float64(len(samples))
	return meanLoss / n, float64(correct) / n, nil
}
