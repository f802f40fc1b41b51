package motion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const DefaultSmoothing = 1.25

// SmoothAngle moves current towards target by a fraction of the gap between
// them. Gaps over 270 degrees have 270 subtracted before dividing by
// smoothing. This is a bounded step, not a wrap-aware heading blend: the
// direction test uses smoothing/2 as a dead band around target.
func SmoothAngle(current, target, smoothing float64) float64 {
	diff := math.Abs(current - target)
	if diff > 270 {
		diff -= 270
	}

	diff /= smoothing

	if current-smoothing/2 < target {
		return current + diff
	} else if current+smoothing/2 > target {
		return current - diff
	}

	return current
}

// AngleToXY splits a speed along a heading in radians into x and y parts.
func AngleToXY(angle, speed float64) (x, y float64) {
	v := HeadingVector(angle, speed)
	return v.X(), v.Y()
}

// HeadingVector is AngleToXY as a vector.
func HeadingVector(angle, speed float64) mgl64.Vec2 {
	return mgl64.Vec2{math.Cos(angle), math.Sin(angle)}.Mul(speed)
}
