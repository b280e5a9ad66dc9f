// Package layer provides comprehensive unit tests for neural network layers.
package layer

import (
	"math"
	"testing"

	"github.com/formfill/fieldnet/internal/activations"
)

func TestDenseForward(t *testing.T) {
	// 2 inputs -> 2 outputs with identity weights for predictable output.
	d := NewDense(2, 2, activations.NewLeakyReLU(0.01), nil)

	d.SetWeight(0, 0, 1.0)
	d.SetWeight(0, 1, 0.0)
	d.SetWeight(1, 0, 0.0)
	d.SetWeight(1, 1, 1.0)
	d.SetBias(0, 0.0)
	d.SetBias(1, 0.0)

	input := []float64{1.0, -2.0}
	output := d.Forward(input)

	// Positive input passes, negative is scaled by alpha.
	if math.Abs(output[0]-1.0) > 1e-12 {
		t.Errorf("output[0] = %v, want 1.0", output[0])
	}
	if math.Abs(output[1]-(-0.02)) > 1e-12 {
		t.Errorf("output[1] = %v, want -0.02", output[1])
	}
}

func TestDenseBackward(t *testing.T) {
	d := NewDense(2, 2, activations.NewLeakyReLU(0.01), nil)

	d.SetWeight(0, 0, 1.0)
	d.SetWeight(1, 1, 1.0)
	d.SetBias(0, 0.0)
	d.SetBias(1, 0.0)

	input := []float64{1.0, -2.0}
	d.Forward(input)

	grad := []float64{1.0, 1.0}
	inputGrad := d.Backward(grad)

	// Unit 0 had a positive pre-activation (derivative 1), unit 1 a negative
	// one (derivative alpha). With identity weights the input gradient
	// mirrors dz directly.
	if math.Abs(inputGrad[0]-1.0) > 1e-12 {
		t.Errorf("inputGrad[0] = %v, want 1.0", inputGrad[0])
	}
	if math.Abs(inputGrad[1]-0.01) > 1e-12 {
		t.Errorf("inputGrad[1] = %v, want 0.01", inputGrad[1])
	}

	// Weight gradient dL/dW[o,i] = dz[o] * input[i].
	grads := d.Gradients()
	if math.Abs(grads[0]-1.0) > 1e-12 { // W[0,0]: 1 * 1
		t.Errorf("gradW[0,0] = %v, want 1.0", grads[0])
	}
	if math.Abs(grads[1]-(-2.0)) > 1e-12 { // W[0,1]: 1 * -2
		t.Errorf("gradW[0,1] = %v, want -2.0", grads[1])
	}
	if math.Abs(grads[2]-0.01) > 1e-12 { // W[1,0]: 0.01 * 1
		t.Errorf("gradW[1,0] = %v, want 0.01", grads[2])
	}

	// Bias gradient equals dz.
	if math.Abs(grads[4]-1.0) > 1e-12 || math.Abs(grads[5]-0.01) > 1e-12 {
		t.Errorf("gradB = [%v %v], want [1.0 0.01]", grads[4], grads[5])
	}
}

func TestDenseParamsRoundTrip(t *testing.T) {
	d := NewDense(3, 2, activations.Identity{}, nil)

	params := d.Params()
	expectedLen := 3*2 + 2 // weights + biases
	if len(params) != expectedLen {
		t.Fatalf("params length = %d, want %d", len(params), expectedLen)
	}

	newParams := make([]float64, expectedLen)
	for i := range newParams {
		newParams[i] = float64(i) * 0.1
	}
	d.SetParams(newParams)

	after := d.Params()
	for i := range after {
		if math.Abs(after[i]-newParams[i]) > 1e-12 {
			t.Errorf("params[%d] = %v, want %v", i, after[i], newParams[i])
		}
	}

	// Weight/bias views must share the same backing array.
	if d.GetWeight(0, 1) != newParams[1] {
		t.Errorf("GetWeight(0,1) = %v, want %v", d.GetWeight(0, 1), newParams[1])
	}
	if d.GetBias(1) != newParams[7] {
		t.Errorf("GetBias(1) = %v, want %v", d.GetBias(1), newParams[7])
	}
}

func TestDenseNormSitsBetweenSumAndActivation(t *testing.T) {
	norm := NewRunningNorm(1, 1e-5, 0.1)
	d := NewDense(1, 1, activations.NewLeakyReLU(0.01), norm)
	d.SetWeight(0, 0, 1.0)
	d.SetBias(0, 0.0)

	// Inference mode: mean 0, var 1, gamma 1, beta 0 -> z/sqrt(1+eps).
	out := d.Forward([]float64{2.0})
	want := 2.0 / math.Sqrt(1+1e-5)
	if math.Abs(out[0]-want) > 1e-12 {
		t.Errorf("output = %v, want %v", out[0], want)
	}

	// A negative shift pushes the activation input below zero, so the leaky
	// slope must apply after normalization.
	norm.Beta()[0] = -5
	out = d.Forward([]float64{2.0})
	want = 0.01 * (2.0/math.Sqrt(1+1e-5) - 5)
	if math.Abs(out[0]-want) > 1e-12 {
		t.Errorf("output = %v, want %v", out[0], want)
	}
}
