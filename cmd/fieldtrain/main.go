// Package main - trains a form-field classifier on synthetic field features
// and saves the model for cmd/fieldinfer.
package main

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/formfill/fieldnet/fieldnet"
)

const modelPath = "fieldnet-model.bin"

// Feature layout (12 dims): normalized name length, digit ratio, letter
// ratio, '@' presence, dash presence, slash presence, placeholder digit
// ratio, label token hits for mail/phone/zip/name/date.
const featureDim = 12

var labels = []string{"email", "phone", "zip_code", "full_name", "birth_date"}

// prototypes are idealized feature vectors per class; training samples are
// noisy drafts around them.
var prototypes = [][]float64{
	{0.45, 0.05, 0.90, 1.0, 0.0, 0.0, 0.10, 1.0, 0.0, 0.0, 0.0, 0.0}, // email
	{0.30, 0.85, 0.10, 0.0, 0.6, 0.0, 0.90, 0.0, 1.0, 0.0, 0.0, 0.0}, // phone
	{0.15, 0.95, 0.05, 0.0, 0.2, 0.0, 0.95, 0.0, 0.0, 1.0, 0.0, 0.0}, // zip
	{0.50, 0.00, 0.95, 0.0, 0.1, 0.0, 0.05, 0.0, 0.0, 0.0, 1.0, 0.0}, // name
	{0.35, 0.70, 0.20, 0.0, 0.3, 0.7, 0.80, 0.0, 0.0, 0.0, 0.0, 1.0}, // date
}

func synthesize(rng *rand.Rand, n int) []fieldnet.Sample {
	samples := make([]fieldnet.Sample, n)
	for i := range samples {
		class := rng.Intn(len(prototypes))
		features := make([]float64, featureDim)
		for j, p := range prototypes[class] {
			v := p + rng.NormFloat64()*0.08
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			features[j] = v
		}
		samples[i] = fieldnet.Sample{
			Features: features,
			Target:   fieldnet.OneHot(class, len(labels)),
		}
	}
	return samples
}

func main() {
	fmt.Println("=== Form-Field Classifier Training ===")

	dims := fieldnet.Dims{In: featureDim, Hidden1: 16, Hidden2: 12, Out: len(labels)}
	fmt.Printf("Network architecture: %d-%d-%d-%d\n", dims.In, dims.Hidden1, dims.Hidden2, dims.Out)
	fmt.Printf("Classes: %v\n", labels)

	clf, err := fieldnet.New(fieldnet.Config{
		Dims:        dims,
		Labels:      labels,
		Normalize:   true,
		DropoutRate: 0.1,
		Seed:        42,
	})
	if err != nil {
		log.Fatalf("build classifier: %v", err)
	}
	clf.Init()

	rng := rand.New(rand.NewSource(42))
	train := synthesize(rng, 640)
	holdout := synthesize(rng, 160)

	const (
		batchSize = 32
		epochs    = 50
	)
	batchesPerEpoch := len(train) / batchSize
	sched := fieldnet.WarmupCosine(0.01, 2*batchesPerEpoch, epochs*batchesPerEpoch)

	fmt.Printf("Training: %d samples, batch size %d, %d epochs\n", len(train), batchSize, epochs)
	for epoch := 0; epoch < epochs; epoch++ {
		rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })

		var epochLoss, epochAcc float64
		for b := 0; b < batchesPerEpoch; b++ {
			batch := train[b*batchSize : (b+1)*batchSize]
			res, err := clf.TrainBatch(batch, sched)
			if err != nil {
				log.Fatalf("epoch %d batch %d: %v", epoch, b, err)
			}
			epochLoss += res.MeanLoss
			epochAcc += res.MeanAccuracy
		}

		if epoch%10 == 0 || epoch == epochs-1 {
			fmt.Printf("Epoch %3d: loss=%.4f accuracy=%.2f%%\n",
				epoch,
				epochLoss/float64(batchesPerEpoch),
				100*epochAcc/float64(batchesPerEpoch))
		}
	}

	loss, acc, err := clf.Evaluate(holdout)
	if err != nil {
		log.Fatalf("evaluate: %v", err)
	}
	fmt.Printf("Holdout: loss=%.4f accuracy=%.2f%%\n", loss, 100*acc)
	if clf.SanitizedTotal() > 0 {
		fmt.Printf("Warning: %d non-finite gradient values were zeroed during training\n",
			clf.SanitizedTotal())
	}

	if err := clf.Save(modelPath); err != nil {
		log.Fatalf("save model: %v", err)
	}
	fmt.Printf("Model saved to %s\n", modelPath)
}
