package net

import (
	"sort"

	"github.com/formfill/fieldnet/internal/head"
)

// Candidate is one ranked class in a prediction.
type Candidate struct {
	Label       string
	Index       int
	Probability float64
}

// Prediction is the inference result for one feature vector. Candidates are
// ordered by descending probability.
type Prediction struct {
	Label      string
	Index      int
	Confidence float64
	Candidates []Candidate
}

// Unknown reports whether the prediction is the low-certainty sentinel.
func (p Prediction) Unknown() bool {
	return p.Index < 0
}

// Predict classifies a single feature vector.
//
// On a model with no weights it returns the unknown sentinel with zero
// confidence rather than an error. With the single-label head the argmax
// class wins and the top-K candidates are ranked. With the multi-label head
// the highest-probability class wins only when it clears the threshold;
// otherwise the sentinel is returned with that probability as confidence,
// signalling low certainty rather than a learned class.
func (c *Classifier) Predict(features []float64) (Prediction, error) {
	if !c.initialized {
		return Prediction{Label: UnknownLabel, Index: -1}, nil
	}
	if err := c.checkFeatures(features); err != nil {
		return Prediction{}, err
	}

	probs := c.forward(features)
	best := argmax(probs)

	if _, ok := c.cfg.Head.(head.SigmoidBinary); ok {
		if probs[best] < c.cfg.Threshold {
			return Prediction{Label: UnknownLabel, Index: -1, Confidence: probs[best]}, nil
		}
		var cands []Candidate
		for i, p := range probs {
			if p >= c.cfg.Threshold {
				cands = append(cands, Candidate{Label: c.label(i), Index: i, Probability: p})
			}
		}
		sort.Slice(cands, func(a, b int) bool { return cands[a].Probability > cands[b].Probability })
		return Prediction{
			Label:      c.label(best),
			Index:      best,
			Confidence: probs[best],
			Candidates: cands,
		}, nil
	}

	cands := make([]Candidate, len(probs))
	for i, p := range probs {
		cands[i] = Candidate{Label: c.label(i), Index: i, Probability: p}
	}
	sort.Slice(cands, func(a, b int) bool { return cands[a].Probability > cands[b].Probability })
	if len(cands) > c.cfg.TopK {
		cands = cands[:c.cfg.TopK]
	}

	return Prediction{
		Label:      c.label(best),
		Index:      best,
		Confidence: probs[best],
		Candidates: cands,
	}, nil
}
