package fieldnet

import (
	"github.com/formfill/fieldnet/internal/head"
	"github.com/formfill/fieldnet/internal/net"
	"github.com/formfill/fieldnet/internal/opt"
)

// Re-export common types and functions for easier access
type (
	Classifier  = net.Classifier
	Config      = net.Config
	Dims        = net.Dims
	Sample      = net.Sample
	TrainResult = net.TrainResult
	Prediction  = net.Prediction
	Candidate   = net.Candidate
	Schedule    = opt.Schedule
	Head        = head.Head
)

// Sentinel label for low-certainty predictions.
const UnknownLabel = net.UnknownLabel

// Errors
var (
	ErrShapeMismatch  = net.ErrShapeMismatch
	ErrNotInitialized = net.ErrNotInitialized
	ErrBadModelFormat = net.ErrBadModelFormat
	ErrBadBatch       = net.ErrBadBatch
)

// Output heads
var (
	SoftmaxHead = head.SoftmaxCrossEntropy{}
	SigmoidHead = head.SigmoidBinary{}
)

// Classifier creation
func New(cfg Config) (*Classifier, error) {
	return net.New(cfg)
}

// NewSingleLabel builds an initialized single-label classifier with running
// normalization on the hidden layers and the given class vocabulary.
func NewSingleLabel(dims Dims, labels []string) (*Classifier, error) {
	c, err := net.New(Config{
		Dims:      dims,
		Head:      SoftmaxHead,
		Labels:    labels,
		Normalize: true,
	})
	if err != nil {
		return nil, err
	}
	c.Init()
	return c, nil
}

// NewMultiLabel builds an initialized multi-label classifier. A class is
// reported when its independent probability clears threshold; zero selects
// the default.
func NewMultiLabel(dims Dims, labels []string, threshold float64) (*Classifier, error) {
	c, err := net.New(Config{
		Dims:      dims,
		Head:      SigmoidHead,
		Labels:    labels,
		Threshold: threshold,
	})
	if err != nil {
		return nil, err
	}
	c.Init()
	return c, nil
}

// Targets
func OneHot(class, n int) []float64 {
	return net.OneHot(class, n)
}

// Learning-rate schedules
func FixedLR(rate float64) Schedule {
	return opt.Fixed{Rate: rate}
}

func WarmupCosine(baseLR float64, warmupSteps, totalSteps int) Schedule {
	return opt.WarmupCosine{BaseLR: baseLR, WarmupSteps: warmupSteps, TotalSteps: totalSteps}
}

func StepDecay(baseLR float64, stepSize int, gamma float64) Schedule {
	return opt.StepDecay{BaseLR: baseLR, StepSize: stepSize, Gamma: gamma}
}
