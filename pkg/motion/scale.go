// Package motion holds the drive-side maths: speed normalisation and
// heading interpolation.
package motion

import (
	"fmt"
	"math"

	"github.com/rcj-soccer/robocup/pkg/errs"
)

// ScaleSpeeds rescales speeds so that the largest magnitude equals target,
// keeping their ratios, and rounds each result to two decimal places with
// ties going to the even digit, so 3.125 becomes 3.12. Sets
// under target are scaled up too: [20, 10] at 100 becomes [100, 50]. The
// largest magnitude is capped at target first, so a set that already exceeds
// target comes back unscaled. The input slice is not modified.
func ScaleSpeeds(target float64, speeds []float64) ([]float64, error) {
	if len(speeds) == 0 {
		return nil, fmt.Errorf("%w: no speeds to scale", errs.ErrInvalidInput)
	}

	greatest := 0.0
	for _, s := range speeds {
		greatest = math.Max(greatest, math.Abs(s))
	}
	if math.IsNaN(greatest) || math.IsNaN(target) {
		return nil, fmt.Errorf("%w: cannot scale speeds %v to %v", errs.ErrInvalidInput, speeds, target)
	}
	if greatest > target {
		greatest = target
	}
	if greatest == 0 {
		return nil, fmt.Errorf("%w: cannot scale speeds %v to %v", errs.ErrInvalidInput, speeds, target)
	}

	fix := target / greatest

	scaled := make([]float64, len(speeds))
	for i, s := range speeds {
		scaled[i] = round2(s * fix)
	}
	return scaled, nil
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
