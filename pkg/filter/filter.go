// Package filter smooths noisy sensor streams with an outlier-rejecting
// moving average.
package filter

import (
	"fmt"
	"math"

	"github.com/rcj-soccer/robocup/pkg/errs"
)

const (
	DefaultDifference = 200
	DefaultOutliers   = 15
)

// Sensor is a moving average over every accepted reading. A reading whose
// distance from the current average is at least Difference is rejected and
// counted. Once more than Outliers readings have been rejected the buffer is
// dropped at the start of every call so the average can follow a new level.
// The rejection count is never reset.
type Sensor struct {
	Difference float64
	Outliers   int

	stored  []float64
	counter int
}

func New(difference float64, outliers int) *Sensor {
	return &Sensor{
		Difference: difference,
		Outliers:   outliers,
	}
}

// NewDefault returns a filter tuned for the ultrasonic sensor in centimetres.
func NewDefault() *Sensor {
	return New(DefaultDifference, DefaultOutliers)
}

// Value feeds one reading through the filter and returns the new average.
func (s *Sensor) Value(reading float64) float64 {
	if s.counter > s.Outliers {
		s.stored = s.stored[:0]
	}

	if len(s.stored) == 0 {
		s.stored = append(s.stored, reading)
	}

	change := math.Abs(mean(s.stored) - reading)
	if change >= s.Difference {
		s.counter++
	} else {
		s.stored = append(s.stored, reading)
	}

	return mean(s.stored)
}

// Len is the number of readings currently averaged.
func (s *Sensor) Len() int {
	return len(s.stored)
}

// Rejected is the number of readings rejected so far.
func (s *Sensor) Rejected() int {
	return s.counter
}

// Average returns the arithmetic mean of values. An empty slice has no mean.
func Average(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: average of no values", errs.ErrInvalidInput)
	}
	return mean(values), nil
}

// mean must only be called with a non-empty buffer; Value seeds before
// averaging.
func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
