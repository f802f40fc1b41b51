// Package dcmotor drives brushed motors through the TB6612 bridges of a
// PCA9685 motor HAT. Each motor uses three PWM channels: speed, IN1 and IN2.
package dcmotor

import (
	"fmt"
	"math"

	"github.com/rcj-soccer/robocup/pkg/errs"
	"github.com/rcj-soccer/robocup/pkg/pca9685"
	"github.com/rcj-soccer/robocup/pkg/robot"
)

type Channels struct {
	PWM, In1, In2 int
}

// HATChannels maps the HAT's motor terminals M1-M4 to their channels.
var HATChannels = map[int]Channels{
	1: {PWM: 8, In1: 9, In2: 10},
	2: {PWM: 13, In1: 12, In2: 11},
	3: {PWM: 2, In1: 3, In2: 4},
	4: {PWM: 7, In1: 6, In2: 5},
}

type Motor struct {
	name     string
	pwm      pca9685.Interface
	channels Channels
	speed    float64
}

// New returns the motor on HAT terminal m (1-4).
func New(pwm pca9685.Interface, m int) (*Motor, error) {
	ch, ok := HATChannels[m]
	if !ok {
		return nil, fmt.Errorf("%w: no motor terminal M%d", errs.ErrInvalidInput, m)
	}
	return &Motor{name: fmt.Sprintf("M%d", m), pwm: pwm, channels: ch}, nil
}

func (m *Motor) String() string {
	return m.name
}

// Speed is the last commanded speed.
func (m *Motor) Speed() float64 {
	return m.speed
}

// On runs the motor at a signed percentage of full speed.
func (m *Motor) On(speed float64) error {
	forward := speed >= 0
	if err := m.pwm.SetFull(m.channels.In1, forward); err != nil {
		return err
	}
	if err := m.pwm.SetFull(m.channels.In2, !forward); err != nil {
		return err
	}
	if err := m.pwm.SetPWM(m.channels.PWM, math.Min(math.Abs(speed), 100)/100); err != nil {
		return err
	}
	m.speed = speed
	return nil
}

// Off brakes by shorting the windings (both inputs high) or coasts with
// both inputs low.
func (m *Motor) Off(brake bool) error {
	if err := m.pwm.SetFull(m.channels.In1, brake); err != nil {
		return err
	}
	if err := m.pwm.SetFull(m.channels.In2, brake); err != nil {
		return err
	}
	if err := m.pwm.SetPWM(m.channels.PWM, 0); err != nil {
		return err
	}
	m.speed = 0
	return nil
}

func (m *Motor) Reset() error {
	return m.Off(false)
}

var _ robot.Motor = (*Motor)(nil)
