package hardware

import (
	"github.com/rcj-soccer/robocup/pkg/camsensor"
	"github.com/rcj-soccer/robocup/pkg/clamp"
	"github.com/rcj-soccer/robocup/pkg/compass"
	"github.com/rcj-soccer/robocup/pkg/config"
	"github.com/rcj-soccer/robocup/pkg/irseeker"
	"github.com/rcj-soccer/robocup/pkg/pca9685"
	"github.com/rcj-soccer/robocup/pkg/robot"
	"github.com/rcj-soccer/robocup/pkg/termui"
	"github.com/rcj-soccer/robocup/pkg/ultrasonic"
)

// DummySensors stand in for each real sensor driver in the simulator.
var DummySensors = map[string]sensorOpener{
	camsensor.Driver: func(robot.Port, config.SensorConfig) (robot.Sensor, error) {
		return &robot.DummyColor{R: 180, G: 180, B: 180}, nil
	},
	ultrasonic.Driver: func(robot.Port, config.SensorConfig) (robot.Sensor, error) {
		return &robot.DummyDistance{Centimeters: 40}, nil
	},
	irseeker.Driver: func(robot.Port, config.SensorConfig) (robot.Sensor, error) {
		return &robot.DummySeeker{}, nil
	},
	compass.Driver: func(robot.Port, config.SensorConfig) (robot.Sensor, error) {
		return &robot.DummyHeading{}, nil
	},
}

// NewSim wires the configured ports to dummies and draws the screen and
// reads the buttons in the terminal.
func NewSim(cfg config.Config) (*Hardware, *termui.Terminal) {
	term := termui.New(cfg.Display.Width, cfg.Display.Height)
	h := &Hardware{display: term}
	h.loops = append(h.loops, term.Run)

	h.robot = robot.New(&robot.DummyIndicator{}, robot.DummySound{}, term)
	h.robot.Speed = clamp.New(cfg.Speed.Min, cfg.Speed.Max)

	h.attachMotors(cfg, func() (pca9685.Interface, error) {
		return pca9685.Dummy(), nil
	})
	h.attachSensors(cfg.Sensors, DummySensors)
	return h, term
}
