package robot

import "time"

// Motor is a motor on one of the output ports. Speeds are signed percentages.
type Motor interface {
	On(speed float64) error
	Off(brake bool) error
	Reset() error
}

// Sensor is anything plugged into an input port. Callers look up the
// capability they need with SensorAs.
type Sensor interface {
	Name() string
}

type DistanceSensor interface {
	Sensor
	DistanceCentimeters() (float64, error)
}

// ColorSensor reports an RGB triple, each channel 0-255.
type ColorSensor interface {
	Sensor
	RGB() (r, g, b float64, err error)
}

// HeadingSensor reports a compass heading in degrees, 0-359.
type HeadingSensor interface {
	Sensor
	Heading() (float64, error)
}

// BallSeeker reports the IR direction bin and signal strength.
type BallSeeker interface {
	Sensor
	Read() (direction, strength int, err error)
}

type Side string

const (
	Left  Side = "LEFT"
	Right Side = "RIGHT"
)

// Indicator is the pair of brick status lights.
type Indicator interface {
	SetColor(side Side, color string) error
}

type SoundOutput interface {
	PlayTone(frequency float64, duration time.Duration, volume float64) error
}
