// Package net provides the form-field classification engine: a three-layer
// dense network with a configurable output head, trained with Adam under
// gradient clipping.
package net

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/formfill/fieldnet/internal/activations"
	"github.com/formfill/fieldnet/internal/head"
	"github.com/formfill/fieldnet/internal/layer"
	"github.com/formfill/fieldnet/internal/opt"
)

// UnknownLabel is reported when no class clears the confidence threshold or
// when the model has no weights yet.
const UnknownLabel = "unknown"

// Dims fixes the network topology: input width, two hidden widths, and the
// output width, which must equal the class-vocabulary length.
type Dims struct {
	In      int
	Hidden1 int
	Hidden2 int
	Out     int
}

func (d Dims) validate() error {
	if d.In <= 0 || d.Hidden1 <= 0 || d.Hidden2 <= 0 || d.Out <= 0 {
		return fmt.Errorf("%w: all layer dims must be positive, got %+v", ErrShapeMismatch, d)
	}
	return nil
}

// Config holds everything fixed at construction time.
type Config struct {
	Dims Dims

	// Head selects the output transform and loss pair. Defaults to the
	// single-label softmax head.
	Head head.Head

	// Labels is the ordered class vocabulary used to translate indices to
	// names in predictions. May be empty; must otherwise match Dims.Out.
	Labels []string

	Alpha        float64 // leaky rectifier negative slope
	DropoutRate  float64 // hidden-layer drop probability
	Normalize    bool    // running-statistics normalization on hidden layers
	NormMomentum float64
	NormEpsilon  float64
	Threshold    float64 // multi-label acceptance threshold
	TopK         int     // ranked candidates reported for single-label
	MaxGradNorm  float64
	WeightDecay  float64
	MaxBatchSize int

	// Seed fixes the random source for initialization and dropout masks.
	// Zero selects a time-based seed.
	Seed int64
}

func (c Config) withDefaults() Config {
	if c.Head == nil {
		c.Head = head.SoftmaxCrossEntropy{}
	}
	if c.Alpha == 0 {
		c.Alpha = 0.01
	}
	if c.NormMomentum == 0 {
		c.NormMomentum = 0.1
	}
	if c.NormEpsilon == 0 {
		c.NormEpsilon = 1e-5
	}
	if c.Threshold == 0 {
		c.Threshold = 0.35
	}
	if c.TopK == 0 {
		c.TopK = 5
	}
	if c.MaxGradNorm == 0 {
		c.MaxGradNorm = 1.0
	}
	if c.WeightDecay == 0 {
		c.WeightDecay = 1e-4
	}
	if c.MaxBatchSize == 0 {
		c.MaxBatchSize = 32
	}
	return c
}

// Classifier assigns a semantic category to a form-field feature vector.
//
// A Classifier exclusively owns its weights and optimizer state. No method is
// safe for concurrent use against the same instance; a training call must
// complete before another call touches the same weights. Callers needing
// concurrent training and inference must serialize access themselves.
type Classifier struct {
	cfg Config
	rng *rand.Rand

	hidden1 *layer.Dense
	hidden2 *layer.Dense
	output  *layer.Dense
	drop1   *layer.Dropout
	drop2   *layer.Dropout
	norm1   *layer.RunningNorm
	norm2   *layer.RunningNorm

	adam *opt.Adam
	step int

	initialized    bool
	sanitizedTotal int

	// Reusable per-call buffers.
	probsBuf    []float64
	lossGradBuf []float64
	gradSums    [][]float64
}

// New creates a classifier without weights. Call Init for a random start or
// Import to install a serialized model; until then Predict reports the
// unknown sentinel and TrainBatch fails.
func New(cfg Config) (*Classifier, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Dims.validate(); err != nil {
		return nil, err
	}
	if len(cfg.Labels) > 0 && len(cfg.Labels) != cfg.Dims.Out {
		return nil, fmt.Errorf("%w: %d labels for %d output classes",
			ErrShapeMismatch, len(cfg.Labels), cfg.Dims.Out)
	}
	if cfg.DropoutRate < 0 || cfg.DropoutRate >= 1 {
		return nil, fmt.Errorf("dropout rate %v outside [0,1)", cfg.DropoutRate)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	c := &Classifier{
		cfg: cfg,
		rng: rng,
	}

	act := activations.NewLeakyReLU(cfg.Alpha)
	if cfg.Normalize {
		c.norm1 = layer.NewRunningNorm(cfg.Dims.Hidden1, cfg.NormEpsilon, cfg.NormMomentum)
		c.norm2 = layer.NewRunningNorm(cfg.Dims.Hidden2, cfg.NormEpsilon, cfg.NormMomentum)
		c.hidden1 = layer.NewDense(cfg.Dims.In, cfg.Dims.Hidden1, act, c.norm1)
		c.hidden2 = layer.NewDense(cfg.Dims.Hidden1, cfg.Dims.Hidden2, act, c.norm2)
	} else {
		c.hidden1 = layer.NewDense(cfg.Dims.In, cfg.Dims.Hidden1, act, nil)
		c.hidden2 = layer.NewDense(cfg.Dims.Hidden1, cfg.Dims.Hidden2, act, nil)
	}
	c.output = layer.NewDense(cfg.Dims.Hidden2, cfg.Dims.Out, activations.Identity{}, nil)
	c.drop1 = layer.NewDropout(cfg.DropoutRate, cfg.Dims.Hidden1, rng)
	c.drop2 = layer.NewDropout(cfg.DropoutRate, cfg.Dims.Hidden2, rng)

	c.adam = opt.NewAdam(0, cfg.WeightDecay)
	c.probsBuf = make([]float64, cfg.Dims.Out)
	c.lossGradBuf = make([]float64, cfg.Dims.Out)

	trainables := c.trainables()
	c.gradSums = make([][]float64, len(trainables))
	for i, p := range trainables {
		c.gradSums[i] = make([]float64, len(p))
	}

	return c, nil
}

// Init randomizes all weights: He-scaled Gaussians for the hidden layers,
// a variance rule matched to the head for the output layer, and fresh
// normalization and optimizer state.
func (c *Classifier) Init() {
	c.hidden1.InitHe(c.rng, c.cfg.Alpha)
	c.hidden2.InitHe(c.rng, c.cfg.Alpha)
	if _, ok := c.cfg.Head.(head.SigmoidBinary); ok {
		c.output.InitXavier(c.rng)
	} else {
		c.output.InitLeCun(c.rng)
	}

	resetNorm(c.norm1)
	resetNorm(c.norm2)

	c.adam.Reset()
	c.step = 0
	c.initialized = true
}

func resetNorm(n *layer.RunningNorm) {
	if n == nil {
		return
	}
	for i := 0; i < n.Size(); i++ {
		n.Gamma()[i] = 1
		n.Beta()[i] = 0
		n.RunningMean()[i] = 0
		n.RunningVar()[i] = 1
	}
}

// Initialized reports whether weights exist (from Init or Import).
func (c *Classifier) Initialized() bool {
	return c.initialized
}

// Config returns the construction-time configuration.
func (c *Classifier) Config() Config {
	return c.cfg
}

// SanitizedTotal returns how many non-finite gradient elements have been
// zeroed over the classifier's lifetime, for diagnostics.
func (c *Classifier) SanitizedTotal() int {
	return c.sanitizedTotal
}

// Step returns the number of optimizer steps applied.
func (c *Classifier) Step() int {
	return c.step
}

// trainables lists every trainable tensor in a stable order matching
// gradients(): weight+bias tensors per dense layer, scale+shift per
// normalizer when present.
func (c *Classifier) trainables() [][]float64 {
	out := [][]float64{c.hidden1.Params()}
	if c.norm1 != nil {
		out = append(out, c.norm1.Params())
	}
	out = append(out, c.hidden2.Params())
	if c.norm2 != nil {
		out = append(out, c.norm2.Params())
	}
	return append(out, c.output.Params())
}

func (c *Classifier) gradients() [][]float64 {
	out := [][]float64{c.hidden1.Gradients()}
	if c.norm1 != nil {
		out = append(out, c.norm1.Gradients())
	}
	out = append(out, c.hidden2.Gradients())
	if c.norm2 != nil {
		out = append(out, c.norm2.Gradients())
	}
	return append(out, c.output.Gradients())
}

func (c *Classifier) setTraining(training bool) {
	c.drop1.SetTraining(training)
	c.drop2.SetTraining(training)
	if c.norm1 != nil {
		c.norm1.SetTraining(training)
		c.norm2.SetTraining(training)
	}
}

// forward runs one sample through the network and the head, returning class
// probabilities in a classifier-owned buffer valid until the next call.
func (c *Classifier) forward(features []float64) []float64 {
	h := c.hidden1.Forward(features)
	h = c.drop1.Forward(h)
	h = c.hidden2.Forward(h)
	h = c.drop2.Forward(h)
	logits := c.output.Forward(h)
	c.cfg.Head.Activate(logits, c.probsBuf)
	return c.probsBuf
}

// backward propagates the closed-form head gradient through every layer,
// leaving per-tensor gradients in the layer buffers.
func (c *Classifier) backward(probs, target []float64) {
	c.cfg.Head.Gradient(probs, target, c.lossGradBuf)
	g := c.output.Backward(c.lossGradBuf)
	g = c.drop2.Backward(g)
	g = c.hidden2.Backward(g)
	g = c.drop1.Backward(g)
	c.hidden1.Backward(g)
}

func (c *Classifier) checkFeatures(features []float64) error {
	if len(features) != c.cfg.Dims.In {
		return fmt.Errorf("%w: feature vector length %d, expected %d",
			ErrShapeMismatch, len(features), c.cfg.Dims.In)
	}
	return nil
}

// label translates a class index to its vocabulary name.
func (c *Classifier) label(i int) string {
	if i >= 0 && i < len(c.cfg.Labels) {
		return c.cfg.Labels[i]
	}
	return fmt.Sprintf("class_%d", i)
}

func argmax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}
