// Package match implements the face matcher (C7): Euclidean distance
// between two descriptors and the match decision at a fixed threshold.
package match

import (
	"math"

	"github.com/your-org/idverify/internal/core/face"
	"github.com/your-org/idverify/internal/core/verrors"
)

const (
	// Threshold is the Euclidean distance at or above which two descriptors
	// no longer match; only distances strictly below it are a match.
	Threshold = 0.6
	// similarityScale converts distance into a 0..1 display similarity.
	similarityScale = 1.2
)

// Result is the outcome of comparing two descriptors.
type Result struct {
	Distance   float64
	Similarity float64
	IsMatch    bool
}

// Compare computes the Euclidean distance between a and b and the match
// decision at Threshold. Both descriptors must have length face.DescriptorDim.
func Compare(a, b []float32) (Result, error) {
	if len(a) != face.DescriptorDim || len(b) != face.DescriptorDim {
		return Result{}, verrors.New(verrors.DescriptorInvalid, "descriptors must both have the expected length")
	}

	var sumSq float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sumSq += d * d
	}
	distance := math.Sqrt(sumSq)

	similarity := 1 - distance/similarityScale
	if similarity < 0 {
		similarity = 0
	}

	return Result{
		Distance:   distance,
		Similarity: similarity,
		IsMatch:    distance < Threshold,
	}, nil
}
