// Package clamp bounds motor commands and other scalars into a fixed range.
package clamp

import "math"

// Clamper bounds values into [Min, Max]. The zero value clamps everything to 0.
type Clamper struct {
	Min, Max float64
}

func New(min, max float64) Clamper {
	return Clamper{Min: min, Max: max}
}

// Clamp returns value bounded into [Min, Max]. NaN is treated as 0 so a
// broken reading stops a motor instead of reaching it.
func (c Clamper) Clamp(value float64) float64 {
	if math.IsNaN(value) {
		value = 0
	}
	if value < c.Min {
		value = c.Min
	}
	if value > c.Max {
		value = c.Max
	}
	return value
}

// ClampList flattens an arbitrarily nested collection of numbers (see
// Flatten) and clamps every leaf, preserving traversal order.
func (c Clamper) ClampList(values any) ([]float64, error) {
	flat, err := Flatten(values)
	if err != nil {
		return nil, err
	}
	for i, v := range flat {
		flat[i] = c.Clamp(v)
	}
	return flat, nil
}
