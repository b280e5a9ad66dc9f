package layer

import (
	"github.com/formfill/fieldnet/internal/activations"
)

// Dense is a fully connected layer optimized for performance.
// Uses contiguous memory layout with pre-allocated buffers for minimal
// allocations and simple nested loops for cache locality.
//
// An optional Normalizer sits between the dense sum and the activation, so
// the forward order per unit is: z = W·x + b, normalize, activate.
type Dense struct {
	// Weights and biases share one contiguous slice so the whole layer can
	// be updated as a single parameter tensor. The weight for output o,
	// input i is at params[o*inSize+i]; biases follow the weights.
	params  []float64
	weights []float64 // view of params
	biases  []float64 // view of params

	act  activations.Activation
	norm Normalizer

	inSize  int
	outSize int

	// Gradient storage, same layout as params.
	grads []float64
	gradW []float64 // view of grads
	gradB []float64 // view of grads

	// Reusable buffers; inputBuf, preActBuf and actInBuf double as the
	// forward cache consumed by Backward.
	inputBuf  []float64
	preActBuf []float64
	actInBuf  []float64
	outputBuf []float64
	dzBuf     []float64
	gradInBuf []float64
}

// NewDense creates a new dense layer with pre-allocated buffers.
// Weights start at zero; call one of the Init methods (or SetParams) before
// the first forward pass. norm may be nil for an unnormalized layer.
func NewDense(in, out int, act activations.Activation, norm Normalizer) *Dense {
	if norm == nil {
		norm = PassThrough{}
	}
	params := make([]float64, out*in+out)
	grads := make([]float64, out*in+out)

	return &Dense{
		params:    params,
		weights:   params[:out*in],
		biases:    params[out*in:],
		act:       act,
		norm:      norm,
		inSize:    in,
		outSize:   out,
		grads:     grads,
		gradW:     grads[:out*in],
		gradB:     grads[out*in:],
		inputBuf:  make([]float64, in),
		preActBuf: make([]float64, out),
		actInBuf:  make([]float64, out),
		outputBuf: make([]float64, out),
		dzBuf:     make([]float64, out),
		gradInBuf: make([]float64, in),
	}
}

// Forward performs a forward pass through the dense layer.
// The input, pre-activation and normalized values are cached for Backward.
func (d *Dense) Forward(x []float64) []float64 {
	copy(d.inputBuf, x)

	outSize := d.outSize
	inSize := d.inSize
	weights := d.weights
	biases := d.biases
	input := d.inputBuf
	preAct := d.preActBuf

	for o := 0; o < outSize; o++ {
		sum := biases[o]
		wBase := o * inSize
		for i := 0; i < inSize; i++ {
			sum += weights[wBase+i] * input[i]
		}
		preAct[o] = sum
	}

	copy(d.actInBuf, d.norm.Forward(preAct))

	for o := 0; o < outSize; o++ {
		d.outputBuf[o] = d.act.Activate(d.actInBuf[o])
	}

	return d.outputBuf[:outSize]
}

// Backward performs backpropagation through the dense layer.
// Computes gradients for weights, biases, and input. Gradient buffers are
// overwritten each call; callers that accumulate across samples must copy.
func (d *Dense) Backward(grad []float64) []float64 {
	outSize := d.outSize
	inSize := d.inSize
	weights := d.weights
	input := d.inputBuf
	dz := d.dzBuf
	gradW := d.gradW
	gradB := d.gradB
	gradIn := d.gradInBuf

	// dL/dz = dL/d(output) * activation'(z), evaluated at the activation
	// input (post-normalization when a normalizer is present).
	for o := 0; o < outSize; o++ {
		dz[o] = grad[o] * d.act.Derivative(d.actInBuf[o])
	}

	copy(dz, d.norm.Backward(dz))

	for o := 0; o < outSize; o++ {
		dzo := dz[o]
		gradB[o] = dzo
		wBase := o * inSize
		for i := 0; i < inSize; i++ {
			gradW[wBase+i] = dzo * input[i]
		}
	}

	// dL/dx[i] = sum_o(dz[o] * W[o, i])
	for i := 0; i < inSize; i++ {
		sum := 0.0
		for o := 0; o < outSize; o++ {
			sum += dz[o] * weights[o*inSize+i]
		}
		gradIn[i] = sum
	}

	return gradIn[:inSize]
}

// Params returns the live flattened parameter slice (weights then biases).
func (d *Dense) Params() []float64 {
	return d.params
}

// SetParams copies weights and biases from a flattened slice.
func (d *Dense) SetParams(params []float64) {
	copy(d.params, params)
}

// Gradients returns the live flattened gradient slice (weights then biases).
func (d *Dense) Gradients() []float64 {
	return d.grads
}

// Norm returns the layer's normalizer, PassThrough when unnormalized.
func (d *Dense) Norm() Normalizer {
	return d.norm
}

// SetWeight sets a single weight at (row, col).
func (d *Dense) SetWeight(row, col int, val float64) {
	d.weights[row*d.inSize+col] = val
}

// SetBias sets a single bias.
func (d *Dense) SetBias(idx int, val float64) {
	d.biases[idx] = val
}

// GetWeight gets a single weight at (row, col).
func (d *Dense) GetWeight(row, col int) float64 {
	return d.weights[row*d.inSize+col]
}

// GetBias gets a single bias.
func (d *Dense) GetBias(idx int) float64 {
	return d.biases[idx]
}

// Weights returns the weights slice directly.
func (d *Dense) Weights() []float64 {
	return d.weights
}

// Biases returns the biases slice directly.
func (d *Dense) Biases() []float64 {
	return d.biases
}

// InSize returns the input size of the layer.
func (d *Dense) InSize() int {
	return d.inSize
}

// OutSize returns the output size of the layer.
func (d *Dense) OutSize() int {
	return d.outSize
}

// Activation returns the activation function used by this layer.
func (d *Dense) Activation() activations.Activation {
	return d.act
}
