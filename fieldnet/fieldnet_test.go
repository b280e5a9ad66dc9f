package fieldnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSingleLabel(t *testing.T) {
	clf, err := NewSingleLabel(
		Dims{In: 4, Hidden1: 6, Hidden2: 5, Out: 3},
		[]string{"email", "phone", "address"},
	)
	require.NoError(t, err)
	require.True(t, clf.Initialized())

	pred, err := clf.Predict([]float64{0.1, 0.9, 0.2, 0.4})
	require.NoError(t, err)
	assert.False(t, pred.Unknown())
	assert.Contains(t, []string{"email", "phone", "address"}, pred.Label)

	var sum float64
	for _, cand := range pred.Candidates {
		sum += cand.Probability
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestNewMultiLabel(t *testing.T) {
	clf, err := NewMultiLabel(
		Dims{In: 4, Hidden1: 6, Hidden2: 5, Out: 3},
		[]string{"email", "phone", "address"},
		0.5,
	)
	require.NoError(t, err)
	assert.Equal(t, 0.5, clf.Config().Threshold)
	assert.Equal(t, "sigmoid", clf.Config().Head.Name())
}

func TestTrainThroughFacade(t *testing.T) {
	clf, err := New(Config{
		Dims: Dims{In: 2, Hidden1: 4, Hidden2: 3, Out: 2},
		Seed: 11,
	})
	require.NoError(t, err)
	clf.Init()

	batch := []Sample{
		{Features: []float64{0.1, 0.9}, Target: OneHot(0, 2)},
		{Features: []float64{0.9, 0.1}, Target: OneHot(1, 2)},
	}
	res, err := clf.TrainBatch(batch, FixedLR(0.01))
	require.NoError(t, err)
	assert.Greater(t, res.MeanLoss, 0.0)
}

func TestSchedules(t *testing.T) {
	assert.Equal(t, 0.05, FixedLR(0.05).LRAt(999))

	wc := WarmupCosine(0.1, 10, 100)
	assert.InDelta(t, 0.01, wc.LRAt(0), 1e-12)
	assert.InDelta(t, 0.1, wc.LRAt(9), 1e-12)

	sd := StepDecay(0.1, 10, 0.5)
	assert.InDelta(t, 0.05, sd.LRAt(10), 1e-12)
}
