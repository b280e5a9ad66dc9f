package net

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formfill/fieldnet/internal/head"
)

func testConfig() Config {
	return Config{
		Dims:   Dims{In: 4, Hidden1: 6, Hidden2: 5, Out: 3},
		Labels: []string{"email", "phone", "address"},
		Seed:   42,
	}
}

func TestNewValidatesDims(t *testing.T) {
	_, err := New(Config{Dims: Dims{In: 4, Hidden1: 0, Hidden2: 5, Out: 3}})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewValidatesLabels(t *testing.T) {
	cfg := testConfig()
	cfg.Labels = []string{"only-one"}
	_, err := New(cfg)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewRejectsBadDropoutRate(t *testing.T) {
	cfg := testConfig()
	cfg.DropoutRate = 1.0
	_, err := New(cfg)
	require.Error(t, err)

	cfg.DropoutRate = -0.1
	_, err = New(cfg)
	require.Error(t, err)
}

func TestInitProducesFiniteWeights(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	require.False(t, c.Initialized())

	c.Init()
	require.True(t, c.Initialized())

	nonZero := 0
	for _, tensor := range c.trainables() {
		for _, v := range tensor {
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			if v != 0 {
				nonZero++
			}
		}
	}
	assert.Greater(t, nonZero, 0, "initialization should produce non-zero weights")
}

func TestInitShapes(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	c.Init()

	d := c.Config().Dims
	assert.Len(t, c.hidden1.Weights(), d.Hidden1*d.In)
	assert.Len(t, c.hidden1.Biases(), d.Hidden1)
	assert.Len(t, c.hidden2.Weights(), d.Hidden2*d.Hidden1)
	assert.Len(t, c.hidden2.Biases(), d.Hidden2)
	assert.Len(t, c.output.Weights(), d.Out*d.Hidden2)
	assert.Len(t, c.output.Biases(), d.Out)
}

func TestInitDeterministicUnderSeed(t *testing.T) {
	a, err := New(testConfig())
	require.NoError(t, err)
	a.Init()

	b, err := New(testConfig())
	require.NoError(t, err)
	b.Init()

	assert.Equal(t, a.hidden1.Weights(), b.hidden1.Weights())
	assert.Equal(t, a.output.Weights(), b.output.Weights())
}

func TestInitHeBiasOffset(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	c.Init()

	for _, b := range c.hidden1.Biases() {
		assert.Equal(t, 0.01, b)
	}
	for _, b := range c.output.Biases() {
		assert.Equal(t, 0.0, b)
	}
}

func TestNormalizeTogglesNormLayers(t *testing.T) {
	cfg := testConfig()
	c, err := New(cfg)
	require.NoError(t, err)
	assert.Nil(t, c.norm1)
	assert.Nil(t, c.norm2)

	cfg.Normalize = true
	c, err = New(cfg)
	require.NoError(t, err)
	require.NotNil(t, c.norm1)
	require.NotNil(t, c.norm2)
	assert.Equal(t, cfg.Dims.Hidden1, c.norm1.Size())
	assert.Equal(t, cfg.Dims.Hidden2, c.norm2.Size())
}

func TestConfigDefaults(t *testing.T) {
	c, err := New(Config{Dims: Dims{In: 2, Hidden1: 2, Hidden2: 2, Out: 2}})
	require.NoError(t, err)

	cfg := c.Config()
	assert.Equal(t, "softmax", cfg.Head.Name())
	assert.Equal(t, 0.01, cfg.Alpha)
	assert.Equal(t, 0.35, cfg.Threshold)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 1.0, cfg.MaxGradNorm)
	assert.Equal(t, 32, cfg.MaxBatchSize)
}

func TestOutputInitMatchesHead(t *testing.T) {
	cfg := testConfig()
	cfg.Head = head.SigmoidBinary{}
	c, err := New(cfg)
	require.NoError(t, err)
	c.Init()

	// Xavier leaves output biases at zero, same as LeCun; the weights must
	// still be randomized and finite.
	nonZero := 0
	for _, w := range c.output.Weights() {
		require.False(t, math.IsNaN(w) || math.IsInf(w, 0))
		if w != 0 {
			nonZero++
		}
	}
	assert.Greater(t, nonZero, 0)
}

func TestLabelFallback(t *testing.T) {
	cfg := testConfig()
	cfg.Labels = nil
	c, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, "class_0", c.label(0))
	assert.Equal(t, "class_2", c.label(2))
}
