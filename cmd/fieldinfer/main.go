// Package main - loads a trained form-field classifier and labels a set of
// demo feature vectors. Run cmd/fieldtrain first to produce the model file.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/formfill/fieldnet/fieldnet"
)

const defaultModelPath = "fieldnet-model.bin"

const featureDim = 12

var labels = []string{"email", "phone", "zip_code", "full_name", "birth_date"}

// demoFields pairs a human-readable field description with the feature
// vector a frontend extractor would produce for it.
var demoFields = []struct {
	desc     string
	features []float64
}{
	{
		desc:     `<input name="user_email" placeholder="you@example.com">`,
		features: []float64{0.42, 0.04, 0.88, 1.0, 0.0, 0.0, 0.12, 1.0, 0.0, 0.0, 0.0, 0.0},
	},
	{
		desc:     `<input name="mobile" placeholder="555-0123">`,
		features: []float64{0.28, 0.82, 0.12, 0.0, 0.58, 0.0, 0.88, 0.0, 0.95, 0.0, 0.0, 0.0},
	},
	{
		desc:     `<input name="postal" placeholder="90210">`,
		features: []float64{0.14, 0.92, 0.06, 0.0, 0.18, 0.0, 0.93, 0.0, 0.0, 0.97, 0.0, 0.0},
	},
	{
		desc:     `<input name="dob" placeholder="01/01/1990">`,
		features: []float64{0.33, 0.72, 0.18, 0.0, 0.28, 0.68, 0.82, 0.0, 0.0, 0.0, 0.0, 0.96},
	},
	{
		desc:     `<input name="x1" placeholder="???">`,
		features: []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.2, 0.2, 0.2, 0.2, 0.2},
	},
}

func main() {
	path := defaultModelPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	fmt.Println("=== Form-Field Classifier Inference ===")

	clf, err := fieldnet.New(fieldnet.Config{
		Dims:      fieldnet.Dims{In: featureDim, Hidden1: 16, Hidden2: 12, Out: len(labels)},
		Labels:    labels,
		Normalize: true,
	})
	if err != nil {
		log.Fatalf("build classifier: %v", err)
	}
	if err := clf.Load(path); err != nil {
		log.Fatalf("load %s: %v", path, err)
	}
	fmt.Printf("Model loaded from %s\n\n", path)

	for _, field := range demoFields {
		pred, err := clf.Predict(field.features)
		if err != nil {
			log.Fatalf("predict: %v", err)
		}

		fmt.Printf("Field: %s\n", field.desc)
		if pred.Unknown() {
			fmt.Printf("  -> unknown (best probability %.3f)\n\n", pred.Confidence)
			continue
		}
		fmt.Printf("  -> %s (%.1f%% confidence)\n", pred.Label, 100*pred.Confidence)
		for _, cand := range pred.Candidates {
			fmt.Printf("     %-12s %.3f\n", cand.Label, cand.Probability)
		}
		fmt.Println()
	}
}
