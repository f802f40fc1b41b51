package robot

import (
	"log/slog"
	"time"

	"github.com/rcj-soccer/robocup/internal/log"
)

// Dummy devices log what they are asked to do. They stand in for hardware
// in the simulator and when a device is missing.

type DummyMotor struct {
	Port  Port
	Speed float64
}

func (d *DummyMotor) logger() *slog.Logger {
	return log.Subsystem("dummy", "port", string(d.Port))
}

func (d *DummyMotor) On(speed float64) error {
	if speed != d.Speed {
		d.logger().Info("Motor on", "speed", speed)
	}
	d.Speed = speed
	return nil
}

func (d *DummyMotor) Off(brake bool) error {
	d.logger().Info("Motor off", "brake", brake)
	d.Speed = 0
	return nil
}

func (d *DummyMotor) Reset() error {
	d.logger().Info("Motor reset")
	d.Speed = 0
	return nil
}

type DummyIndicator struct {
	Colors map[Side]string
}

func (d *DummyIndicator) SetColor(side Side, color string) error {
	if d.Colors == nil {
		d.Colors = map[Side]string{}
	}
	d.Colors[side] = color
	log.Info("LED", "subsystem", "dummy", "side", string(side), "color", color)
	return nil
}

type DummySound struct{}

func (DummySound) PlayTone(frequency float64, duration time.Duration, volume float64) error {
	log.Info("Tone", "subsystem", "dummy", "frequency", frequency, "duration", duration, "volume", volume)
	return nil
}

// DummyDistance always reads Centimeters.
type DummyDistance struct {
	Centimeters float64
}

func (d *DummyDistance) Name() string { return "dummy-distance" }

func (d *DummyDistance) DistanceCentimeters() (float64, error) {
	return d.Centimeters, nil
}

// DummyColor always reads the same RGB triple.
type DummyColor struct {
	R, G, B float64
}

func (d *DummyColor) Name() string { return "dummy-color" }

func (d *DummyColor) RGB() (r, g, b float64, err error) {
	return d.R, d.G, d.B, nil
}

// DummySeeker sweeps the direction bins so seek mode has something to chase.
type DummySeeker struct {
	bin int
}

func (d *DummySeeker) Name() string { return "dummy-seeker" }

func (d *DummySeeker) Read() (direction, strength int, err error) {
	d.bin = d.bin%12 + 1
	return d.bin, 100, nil
}

var (
	_ Motor          = (*DummyMotor)(nil)
	_ Indicator      = (*DummyIndicator)(nil)
	_ SoundOutput    = DummySound{}
	_ DistanceSensor = (*DummyDistance)(nil)
	_ ColorSensor    = (*DummyColor)(nil)
	_ BallSeeker     = (*DummySeeker)(nil)
)

// DummyHeading turns a few degrees per read.
type DummyHeading struct {
	heading float64
}

func (d *DummyHeading) Name() string { return "dummy-heading" }

func (d *DummyHeading) Heading() (float64, error) {
	d.heading = float64(int(d.heading+5) % 360)
	return d.heading, nil
}

var _ HeadingSensor = (*DummyHeading)(nil)
