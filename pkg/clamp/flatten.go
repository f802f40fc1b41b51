package clamp

import (
	"fmt"
	"reflect"

	"github.com/rcj-soccer/robocup/pkg/errs"
)

// Flatten walks values depth first and returns its numeric leaves in order.
// Slices and arrays are descended into at any depth; anything else is a leaf
// and must be a Go number. A bare number flattens to a one-element slice and
// an empty collection to an empty, non-nil slice.
func Flatten(values any) ([]float64, error) {
	flat := []float64{}
	if err := flatten(reflect.ValueOf(values), &flat); err != nil {
		return nil, err
	}
	return flat, nil
}

func flatten(v reflect.Value, out *[]float64) error {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("%w: nil element", errs.ErrInvalidInput)
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := flatten(v.Index(i), out); err != nil {
				return err
			}
		}
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		*out = append(*out, float64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		*out = append(*out, float64(v.Uint()))
	case reflect.Float32, reflect.Float64:
		*out = append(*out, v.Float())
	case reflect.Invalid:
		return fmt.Errorf("%w: nil element", errs.ErrInvalidInput)
	default:
		return fmt.Errorf("%w: %s is not a number", errs.ErrInvalidInput, v.Type())
	}
	return nil
}
