// Package leds drives the two bi-colour status lights from GPIO pins.
package leds

import (
	"fmt"
	"strings"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/host"

	"github.com/rcj-soccer/robocup/internal/log"
	"github.com/rcj-soccer/robocup/pkg/errs"
	"github.com/rcj-soccer/robocup/pkg/robot"
)

const PWMFrequency = physic.KiloHertz

type Mix struct {
	Red, Green float64
}

// Colors are the brick's named light colours as red/green intensities.
var Colors = map[string]Mix{
	"BLACK":  {0, 0},
	"RED":    {1, 0},
	"GREEN":  {0, 1},
	"AMBER":  {1, 1},
	"ORANGE": {1, 0.5},
	"YELLOW": {0.1, 1},
}

type pinOut interface {
	Out(l gpio.Level) error
	PWM(duty gpio.Duty, f physic.Frequency) error
}

type pair struct {
	red, green pinOut
}

type LEDs struct {
	sides map[robot.Side]pair
}

// PinNames are the GPIO names of one light's red and green pins.
type PinNames struct {
	Red, Green string
}

func Open(pins map[robot.Side]PinNames) (*LEDs, error) {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	l := &LEDs{sides: map[robot.Side]pair{}}
	for side, names := range pins {
		red := gpioreg.ByName(names.Red)
		green := gpioreg.ByName(names.Green)
		if red == nil || green == nil {
			return nil, fmt.Errorf("no GPIO pins %s/%s for %s light", names.Red, names.Green, side)
		}
		l.sides[side] = pair{red: red, green: green}
	}
	return l, nil
}

func drive(p pinOut, v float64) error {
	switch {
	case v <= 0:
		return p.Out(gpio.Low)
	case v >= 1:
		return p.Out(gpio.High)
	}
	return p.PWM(gpio.Duty(v*float64(gpio.DutyMax)), PWMFrequency)
}

// SetColor accepts any case; unknown names and unwired sides are rejected.
func (l *LEDs) SetColor(side robot.Side, color string) error {
	mix, ok := Colors[strings.ToUpper(color)]
	if !ok {
		return fmt.Errorf("%w: unknown colour %q", errs.ErrInvalidInput, color)
	}
	p, ok := l.sides[side]
	if !ok {
		return fmt.Errorf("%w: %s light", errs.ErrUnconfigured, side)
	}
	log.Debug("Setting light", "side", side, "color", color)
	if err := drive(p.red, mix.Red); err != nil {
		return err
	}
	return drive(p.green, mix.Green)
}

var _ robot.Indicator = (*LEDs)(nil)
