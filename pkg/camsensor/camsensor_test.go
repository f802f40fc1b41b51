package camsensor

import (
	"image"
	"testing"
)

func TestCentralRegion(t *testing.T) {
	for _, tc := range []struct {
		cols, rows, percent int
		expected            image.Rectangle
	}{
		{640, 480, 50, image.Rect(160, 120, 480, 360)},
		{640, 480, 100, image.Rect(0, 0, 640, 480)},
		{4, 2, 10, image.Rect(1, 0, 3, 2)},
	} {
		if got := CentralRegion(tc.cols, tc.rows, tc.percent); got != tc.expected {
			t.Errorf("CentralRegion(%d, %d, %d) = %v, expected %v",
				tc.cols, tc.rows, tc.percent, got, tc.expected)
		}
	}
}
