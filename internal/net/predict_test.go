package net

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formfill/fieldnet/internal/head"
)

func TestPredictUninitializedReturnsUnknown(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	p, err := c.Predict([]float64{1, 2, 3, 4})
	require.NoError(t, err, "uninitialized prediction is a sentinel, not an error")
	assert.True(t, p.Unknown())
	assert.Equal(t, UnknownLabel, p.Label)
	assert.Equal(t, -1, p.Index)
	assert.Equal(t, 0.0, p.Confidence)
}

func TestPredictRejectsBadFeatureLength(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	c.Init()

	_, err = c.Predict([]float64{1, 2})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestPredictSingleLabelRanking(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	// Zero weights with hand-set output biases give known logits: softmax
	// ordering then follows the biases directly.
	c.output.SetBias(0, 0.5)
	c.output.SetBias(1, 2.0)
	c.output.SetBias(2, -1.0)
	c.initialized = true

	p, err := c.Predict([]float64{0, 0, 0, 0})
	require.NoError(t, err)

	assert.Equal(t, "phone", p.Label)
	assert.Equal(t, 1, p.Index)
	assert.False(t, p.Unknown())

	require.Len(t, p.Candidates, 3)
	assert.Equal(t, "phone", p.Candidates[0].Label)
	assert.Equal(t, "email", p.Candidates[1].Label)
	assert.Equal(t, "address", p.Candidates[2].Label)
	for i := 1; i < len(p.Candidates); i++ {
		assert.GreaterOrEqual(t, p.Candidates[i-1].Probability, p.Candidates[i].Probability)
	}

	var sum float64
	for _, cand := range p.Candidates {
		sum += cand.Probability
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestPredictTopKTruncation(t *testing.T) {
	cfg := Config{
		Dims: Dims{In: 2, Hidden1: 3, Hidden2: 3, Out: 8},
		Seed: 3,
		TopK: 5,
	}
	c, err := New(cfg)
	require.NoError(t, err)
	c.Init()

	p, err := c.Predict([]float64{0.3, 0.7})
	require.NoError(t, err)
	assert.Len(t, p.Candidates, 5)
}

func TestPredictMultiLabelThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.Head = head.SigmoidBinary{}
	c, err := New(cfg)
	require.NoError(t, err)

	// sigmoid(0.2) ~= 0.5498 clears the 0.35 threshold; sigmoid(-5) ~= 0.0067
	// does not.
	c.output.SetBias(0, -5)
	c.output.SetBias(1, -5)
	c.output.SetBias(2, 0.2)
	c.initialized = true

	p, err := c.Predict([]float64{0, 0, 0, 0})
	require.NoError(t, err)

	assert.Equal(t, "address", p.Label)
	assert.Equal(t, 2, p.Index)
	assert.InDelta(t, 0.5498, p.Confidence, 1e-3)

	require.Len(t, p.Candidates, 1)
	assert.Equal(t, 2, p.Candidates[0].Index)
}

func TestPredictMultiLabelAllBelowThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.Head = head.SigmoidBinary{}
	c, err := New(cfg)
	require.NoError(t, err)

	c.output.SetBias(0, -5)
	c.output.SetBias(1, -4)
	c.output.SetBias(2, -5)
	c.initialized = true

	p, err := c.Predict([]float64{0, 0, 0, 0})
	require.NoError(t, err)

	assert.True(t, p.Unknown())
	assert.Equal(t, UnknownLabel, p.Label)
	// Confidence carries the best probability so callers can see how close
	// the call was.
	assert.InDelta(t, 0.018, p.Confidence, 1e-3)
	assert.Empty(t, p.Candidates)
}

func TestPredictMultiLabelMultipleClasses(t *testing.T) {
	cfg := testConfig()
	cfg.Head = head.SigmoidBinary{}
	c, err := New(cfg)
	require.NoError(t, err)

	c.output.SetBias(0, 1.0)
	c.output.SetBias(1, 2.0)
	c.output.SetBias(2, -5)
	c.initialized = true

	p, err := c.Predict([]float64{0, 0, 0, 0})
	require.NoError(t, err)

	require.Len(t, p.Candidates, 2)
	assert.Equal(t, 1, p.Candidates[0].Index)
	assert.Equal(t, 0, p.Candidates[1].Index)
	assert.Equal(t, "phone", p.Label)
}
