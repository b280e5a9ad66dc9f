package layer

import (
	"math"
	"math/rand"
)

// gaussian draws one sample from N(0, 1) using a Box-Muller transform over
// two independent uniform draws from the injected generator.
func gaussian(rng *rand.Rand) float64 {
	u1 := rng.Float64()
	u2 := rng.Float64()
	for u1 == 0 {
		u1 = rng.Float64()
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// InitHe initializes the weights with the He variance-scaling rule adjusted
// for a leaky rectifier with negative slope alpha:
//
//	stddev = sqrt(2 / ((1+alpha^2) * fan_in))
//
// Biases start at a small positive constant so units are not born dead.
func (d *Dense) InitHe(rng *rand.Rand, alpha float64) {
	stddev := math.Sqrt(2 / ((1 + alpha*alpha) * float64(d.inSize)))
	for i := range d.weights {
		d.weights[i] = gaussian(rng) * stddev
	}
	for i := range d.biases {
		d.biases[i] = 0.01
	}
}

// InitLeCun initializes the weights with stddev sqrt(1/fan_in) and zero
// biases. Used for the output layer feeding a normalized-sum (softmax) head.
func (d *Dense) InitLeCun(rng *rand.Rand) {
	stddev := math.Sqrt(1 / float64(d.inSize))
	for i := range d.weights {
		d.weights[i] = gaussian(rng) * stddev
	}
	for i := range d.biases {
		d.biases[i] = 0
	}
}

// InitXavier initializes the weights with the Glorot rule
// stddev sqrt(2/(fan_in+fan_out)) and zero biases. Used for the output layer
// feeding independent per-class (sigmoid) outputs.
func (d *Dense) InitXavier(rng *rand.Rand) {
	stddev := math.Sqrt(2 / float64(d.inSize+d.outSize))
	for i := range d.weights {
		d.weights[i] = gaussian(rng) * stddev
	}
	for i := range d.biases {
		d.biases[i] = 0
	}
}
