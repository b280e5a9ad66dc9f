package net

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
)

// FormatVersion tags exported models; imports of any other version fail.
const FormatVersion = 1

// modelRecord is the serialized snapshot of a classifier's weights. The
// optimizer moments are deliberately absent: a loaded model starts training
// with fresh Adam state.
type modelRecord struct {
	FormatVersion int
	Head          string
	Dims          Dims

	Weights1 []float64
	Biases1  []float64
	Weights2 []float64
	Biases2  []float64
	Weights3 []float64
	Biases3  []float64

	Normalized bool
	Gamma1     []float64
	Beta1      []float64
	Mean1      []float64
	Var1       []float64
	Gamma2     []float64
	Beta2      []float64
	Mean2      []float64
	Var2       []float64
}

// Export snapshots the weights into a versioned gob record.
func (c *Classifier) Export() ([]byte, error) {
	if !c.initialized {
		return nil, fmt.Errorf("export: %w", ErrNotInitialized)
	}

	rec := modelRecord{
		FormatVersion: FormatVersion,
		Head:          c.cfg.Head.Name(),
		Dims:          c.cfg.Dims,
		Weights1:      clone(c.hidden1.Weights()),
		Biases1:       clone(c.hidden1.Biases()),
		Weights2:      clone(c.hidden2.Weights()),
		Biases2:       clone(c.hidden2.Biases()),
		Weights3:      clone(c.output.Weights()),
		Biases3:       clone(c.output.Biases()),
		Normalized:    c.cfg.Normalize,
	}
	if c.cfg.Normalize {
		rec.Gamma1 = clone(c.norm1.Gamma())
		rec.Beta1 = clone(c.norm1.Beta())
		rec.Mean1 = clone(c.norm1.RunningMean())
		rec.Var1 = clone(c.norm1.RunningVar())
		rec.Gamma2 = clone(c.norm2.Gamma())
		rec.Beta2 = clone(c.norm2.Beta())
		rec.Mean2 = clone(c.norm2.RunningMean())
		rec.Var2 = clone(c.norm2.RunningVar())
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, fmt.Errorf("failed to encode model: %w", err)
	}
	return buf.Bytes(), nil
}

// Import validates and installs a serialized model. Every shape is checked
// against the configured dims before anything is written, so a failed import
// leaves the existing in-memory model untouched. Optimizer state is reset.
func (c *Classifier) Import(data []byte) error {
	var rec modelRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return fmt.Errorf("%w: %v", ErrBadModelFormat, err)
	}

	if rec.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: format version %d, expected %d",
			ErrBadModelFormat, rec.FormatVersion, FormatVersion)
	}
	if rec.Head != c.cfg.Head.Name() {
		return fmt.Errorf("%w: model head %q, classifier configured for %q",
			ErrBadModelFormat, rec.Head, c.cfg.Head.Name())
	}
	if rec.Dims != c.cfg.Dims {
		return fmt.Errorf("%w: model dims %+v, classifier configured for %+v",
			ErrShapeMismatch, rec.Dims, c.cfg.Dims)
	}
	if rec.Normalized != c.cfg.Normalize {
		return fmt.Errorf("%w: model normalization %v, classifier configured for %v",
			ErrBadModelFormat, rec.Normalized, c.cfg.Normalize)
	}

	type tensorCheck struct {
		name string
		got  int
		want int
	}
	d := c.cfg.Dims
	checks := []tensorCheck{
		{"weights1", len(rec.Weights1), d.Hidden1 * d.In},
		{"biases1", len(rec.Biases1), d.Hidden1},
		{"weights2", len(rec.Weights2), d.Hidden2 * d.Hidden1},
		{"biases2", len(rec.Biases2), d.Hidden2},
		{"weights3", len(rec.Weights3), d.Out * d.Hidden2},
		{"biases3", len(rec.Biases3), d.Out},
	}
	if rec.Normalized {
		checks = append(checks,
			tensorCheck{"gamma1", len(rec.Gamma1), d.Hidden1},
			tensorCheck{"beta1", len(rec.Beta1), d.Hidden1},
			tensorCheck{"mean1", len(rec.Mean1), d.Hidden1},
			tensorCheck{"var1", len(rec.Var1), d.Hidden1},
			tensorCheck{"gamma2", len(rec.Gamma2), d.Hidden2},
			tensorCheck{"beta2", len(rec.Beta2), d.Hidden2},
			tensorCheck{"mean2", len(rec.Mean2), d.Hidden2},
			tensorCheck{"var2", len(rec.Var2), d.Hidden2},
		)
	}
	for _, ck := range checks {
		if ck.got != ck.want {
			return fmt.Errorf("%w: tensor %s has %d elements, expected %d",
				ErrShapeMismatch, ck.name, ck.got, ck.want)
		}
	}

	copy(c.hidden1.Weights(), rec.Weights1)
	copy(c.hidden1.Biases(), rec.Biases1)
	copy(c.hidden2.Weights(), rec.Weights2)
	copy(c.hidden2.Biases(), rec.Biases2)
	copy(c.output.Weights(), rec.Weights3)
	copy(c.output.Biases(), rec.Biases3)
	if rec.Normalized {
		copy(c.norm1.Gamma(), rec.Gamma1)
		copy(c.norm1.Beta(), rec.Beta1)
		c.norm1.SetRunningStats(rec.Mean1, rec.Var1)
		copy(c.norm2.Gamma(), rec.Gamma2)
		copy(c.norm2.Beta(), rec.Beta2)
		c.norm2.SetRunningStats(rec.Mean2, rec.Var2)
	}

	c.adam.Reset()
	c.initialized = true
	return nil
}

// Save exports the model and writes it to a file.
func (c *Classifier) Save(filename string) error {
	data, err := c.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}
	return nil
}

// Load reads a model file and imports it.
func (c *Classifier) Load(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read model file: %w", err)
	}
	return c.Import(data)
}

func clone(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	return out
}
