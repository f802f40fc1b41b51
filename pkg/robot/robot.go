// Package robot is the facade the run modes drive the robot through: a fixed
// map of output and input ports plus the status lights, speaker and buttons.
//
// Ports with nothing attached are skipped by every motor operation instead
// of failing. This keeps a half-wired robot drivable, at the cost that a
// caller cannot tell a deliberately empty port from a device that failed to
// open; PrintPorts is the way to check.
package robot

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rcj-soccer/robocup/pkg/clamp"
	"github.com/rcj-soccer/robocup/pkg/errs"
	"github.com/rcj-soccer/robocup/pkg/input"
)

type Port string

const (
	PortA Port = "A"
	PortB Port = "B"
	PortC Port = "C"
	PortD Port = "D"

	Port1 Port = "1"
	Port2 Port = "2"
	Port3 Port = "3"
	Port4 Port = "4"
)

var (
	MotorPorts  = []Port{PortA, PortB, PortC, PortD}
	SensorPorts = []Port{Port1, Port2, Port3, Port4}
)

func (p Port) IsMotor() bool {
	return p >= PortA && p <= PortD && len(p) == 1
}

func (p Port) IsSensor() bool {
	return p >= Port1 && p <= Port4 && len(p) == 1
}

type Robot struct {
	Leds    Indicator
	Sound   SoundOutput
	Buttons input.Buttons

	// Speed bounds every motor command.
	Speed clamp.Clamper

	motors  map[Port]Motor
	sensors map[Port]Sensor
}

// New returns a robot with every port empty. Any of the arguments may be nil.
func New(leds Indicator, sound SoundOutput, buttons input.Buttons) *Robot {
	return &Robot{
		Leds:    leds,
		Sound:   sound,
		Buttons: buttons,
		Speed:   clamp.New(-100, 100),
		motors:  map[Port]Motor{},
		sensors: map[Port]Sensor{},
	}
}

func (r *Robot) AttachMotor(p Port, m Motor) error {
	if !p.IsMotor() {
		return fmt.Errorf("%w: %q is not a motor port", errs.ErrInvalidInput, p)
	}
	r.motors[p] = m
	return nil
}

func (r *Robot) AttachSensor(p Port, s Sensor) error {
	if !p.IsSensor() {
		return fmt.Errorf("%w: %q is not a sensor port", errs.ErrInvalidInput, p)
	}
	r.sensors[p] = s
	return nil
}

// Motor returns the motor on p, or nil.
func (r *Robot) Motor(p Port) Motor {
	return r.motors[p]
}

// Sensor returns the sensor on p, or nil.
func (r *Robot) Sensor(p Port) Sensor {
	return r.sensors[p]
}

// SensorAs returns the sensor on p as capability T.
func SensorAs[T Sensor](r *Robot, p Port) (T, error) {
	var zero T
	s := r.sensors[p]
	if s == nil {
		return zero, fmt.Errorf("%w: nothing on port %s", errs.ErrUnconfigured, p)
	}
	t, ok := s.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s on port %s does not provide %T", errs.ErrUnconfigured, s.Name(), p, (*T)(nil))
	}
	return t, nil
}

// StartMotors flattens speeds (a number or a nested collection of numbers)
// and hands them out to the attached motors in port order A-D, clamped to
// Speed. The last value is reused for any remaining motors, so a single
// number drives every motor.
func (r *Robot) StartMotors(speeds any) error {
	values, err := clamp.Flatten(speeds)
	if err != nil {
		return err
	}

	var errList []error
	for _, p := range MotorPorts {
		m := r.motors[p]
		if m == nil {
			continue
		}
		if len(values) == 0 {
			return fmt.Errorf("%w: no speed for motor %s", errs.ErrInvalidInput, p)
		}
		if err := m.On(r.Speed.Clamp(values[0])); err != nil {
			errList = append(errList, fmt.Errorf("motor %s: %w", p, err))
		}
		if len(values) > 1 {
			values = values[1:]
		}
	}
	return errors.Join(errList...)
}

// CoastMotors stops every attached motor without braking.
func (r *Robot) CoastMotors() error {
	return r.eachMotor(func(m Motor) error {
		return m.Off(false)
	})
}

func (r *Robot) ResetMotors() error {
	return r.eachMotor(Motor.Reset)
}

func (r *Robot) eachMotor(f func(Motor) error) error {
	var errList []error
	for _, p := range MotorPorts {
		if m := r.motors[p]; m != nil {
			if err := f(m); err != nil {
				errList = append(errList, fmt.Errorf("motor %s: %w", p, err))
			}
		}
	}
	return errors.Join(errList...)
}

// Color sets both status lights to the named colour, e.g. "green".
func (r *Robot) Color(color string) error {
	if r.Leds == nil {
		return nil
	}
	color = strings.ToUpper(color)
	return errors.Join(
		r.Leds.SetColor(Left, color),
		r.Leds.SetColor(Right, color),
	)
}

// PrintPorts writes one line per port saying whether something is attached.
func (r *Robot) PrintPorts(w io.Writer) error {
	for _, p := range MotorPorts {
		if _, err := fmt.Fprintf(w, "%s: %v\n", p, r.motors[p] != nil); err != nil {
			return err
		}
	}
	for _, p := range SensorPorts {
		desc := "false"
		if s := r.sensors[p]; s != nil {
			desc = "true (" + s.Name() + ")"
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", p, desc); err != nil {
			return err
		}
	}
	return nil
}

// I2CBus is the bus device behind a sensor port; input port N is bus N+2.
func I2CBus(p Port) (string, error) {
	if !p.IsSensor() {
		return "", fmt.Errorf("%w: %q is not a sensor port", errs.ErrInvalidInput, p)
	}
	return fmt.Sprintf("/dev/i2c-%d", int(p[0]-'0')+2), nil
}
