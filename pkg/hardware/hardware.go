package hardware

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rcj-soccer/robocup/internal/log"
	"github.com/rcj-soccer/robocup/pkg/camsensor"
	"github.com/rcj-soccer/robocup/pkg/clamp"
	"github.com/rcj-soccer/robocup/pkg/compass"
	"github.com/rcj-soccer/robocup/pkg/config"
	"github.com/rcj-soccer/robocup/pkg/dcmotor"
	"github.com/rcj-soccer/robocup/pkg/irseeker"
	"github.com/rcj-soccer/robocup/pkg/keypad"
	"github.com/rcj-soccer/robocup/pkg/leds"
	"github.com/rcj-soccer/robocup/pkg/menu"
	"github.com/rcj-soccer/robocup/pkg/pca9685"
	"github.com/rcj-soccer/robocup/pkg/robot"
	"github.com/rcj-soccer/robocup/pkg/screen"
	"github.com/rcj-soccer/robocup/pkg/sound"
	"github.com/rcj-soccer/robocup/pkg/ultrasonic"
)

type sensorOpener func(p robot.Port, sc config.SensorConfig) (robot.Sensor, error)

// Sensors maps driver names to the code that opens them.
var Sensors = map[string]sensorOpener{
	camsensor.Driver: func(p robot.Port, sc config.SensorConfig) (robot.Sensor, error) {
		return camsensor.Open(sc.Device)
	},
	ultrasonic.Driver: func(p robot.Port, sc config.SensorConfig) (robot.Sensor, error) {
		return openOnBus(p, func(bus string) (robot.Sensor, error) { return ultrasonic.Open(bus) })
	},
	irseeker.Driver: func(p robot.Port, sc config.SensorConfig) (robot.Sensor, error) {
		return openOnBus(p, func(bus string) (robot.Sensor, error) { return irseeker.Open(bus) })
	},
	compass.Driver: func(p robot.Port, sc config.SensorConfig) (robot.Sensor, error) {
		return openOnBus(p, func(bus string) (robot.Sensor, error) { return compass.Open(bus) })
	},
}

func openOnBus(p robot.Port, open func(bus string) (robot.Sensor, error)) (robot.Sensor, error) {
	bus, err := robot.I2CBus(p)
	if err != nil {
		return nil, err
	}
	return open(bus)
}

type Hardware struct {
	robot   *robot.Robot
	display menu.Display

	loops   []func(ctx context.Context) error
	closers []io.Closer

	shutdownOnce sync.Once
}

var _ Interface = (*Hardware)(nil)

// New opens the brick's screen, buttons and speaker and whatever cfg wires
// to the ports. A port whose device fails to open is logged and left empty.
func New(ctx context.Context, cfg config.Config, e config.Env) (*Hardware, error) {
	format, err := screen.ParseFormat(cfg.Display.Format)
	if err != nil {
		return nil, err
	}
	scr, err := screen.Open(e.Framebuffer, cfg.Display.Width, cfg.Display.Height, format)
	if err != nil {
		return nil, fmt.Errorf("failed to open screen: %w", err)
	}
	keys, err := keypad.Open(e.Input)
	if err != nil {
		_ = scr.Close()
		return nil, fmt.Errorf("failed to open buttons: %w", err)
	}

	h := &Hardware{display: scr}
	h.closers = append(h.closers, scr, keys)
	h.loops = append(h.loops, keys.Loop)

	var indicator robot.Indicator
	pins := map[robot.Side]leds.PinNames{}
	for side, lc := range cfg.Leds {
		pins[side] = leds.PinNames{Red: lc.Red, Green: lc.Green}
	}
	if l, err := leds.Open(pins); err != nil {
		log.Warn("Failed to open lights, ignoring", "err", err)
	} else {
		indicator = l
	}

	h.robot = robot.New(indicator, sound.Start(ctx), keys)
	h.robot.Speed = clamp.New(cfg.Speed.Min, cfg.Speed.Max)

	h.attachMotors(cfg, func() (pca9685.Interface, error) {
		pwm, err := pca9685.New(e.MotorBus, pca9685.DefaultAddr)
		if err != nil {
			return nil, err
		}
		if err := pwm.Configure(cfg.Program.MotorFrequency); err != nil {
			_ = pwm.Close()
			return nil, err
		}
		return pwm, nil
	})
	h.attachSensors(cfg.Sensors, Sensors)
	return h, nil
}

// attachMotors opens the motor board only if some port uses it.
func (h *Hardware) attachMotors(cfg config.Config, openBoard func() (pca9685.Interface, error)) {
	var board pca9685.Interface
	var boardErr error
	for _, p := range robot.MotorPorts {
		mc, ok := cfg.Motors[p]
		if !ok {
			continue
		}
		logger := log.Subsystem("hardware", "port", string(p), "driver", mc.Driver)
		switch mc.Driver {
		case config.DriverDummy:
			_ = h.robot.AttachMotor(p, &robot.DummyMotor{Port: p})
		case config.DriverHAT:
			if board == nil && boardErr == nil {
				board, boardErr = openBoard()
				if boardErr != nil {
					logger.Error("Failed to open motor board, motors unavailable", "err", boardErr)
				} else {
					h.closers = append(h.closers, board)
				}
			}
			if boardErr != nil {
				continue
			}
			m, err := dcmotor.New(board, mc.Terminal)
			if err != nil {
				logger.Error("Bad motor wiring, ignoring", "err", err)
				continue
			}
			_ = h.robot.AttachMotor(p, m)
		default:
			logger.Error("Unknown motor driver, ignoring")
		}
	}
}

func (h *Hardware) attachSensors(sensors map[robot.Port]config.SensorConfig, openers map[string]sensorOpener) {
	for _, p := range robot.SensorPorts {
		sc, ok := sensors[p]
		if !ok {
			continue
		}
		logger := log.Subsystem("hardware", "port", string(p), "driver", sc.Driver)
		open, ok := openers[sc.Driver]
		if !ok {
			logger.Error("Unknown sensor driver, ignoring")
			continue
		}
		s, err := open(p, sc)
		if err != nil {
			logger.Error("Failed to open sensor, ignoring", "err", err)
			continue
		}
		if c, ok := s.(io.Closer); ok {
			h.closers = append(h.closers, c)
		}
		_ = h.robot.AttachSensor(p, s)
		logger.Info("Sensor attached")
	}
}

func (h *Hardware) Robot() *robot.Robot   { return h.robot }
func (h *Hardware) Display() menu.Display { return h.display }

func (h *Hardware) Start(ctx context.Context) {
	for _, loop := range h.loops {
		go func() {
			if err := loop(ctx); err != nil && ctx.Err() == nil {
				log.Error("Hardware loop failed", "err", err)
			}
		}()
	}
}

func (h *Hardware) Shutdown() {
	h.shutdownOnce.Do(func() {
		log.Info("HW: Shutdown")
		if err := h.robot.CoastMotors(); err != nil {
			log.Error("Failed to stop motors", "err", err)
		}
		for i := len(h.closers) - 1; i >= 0; i-- {
			if err := h.closers[i].Close(); err != nil {
				log.Warn("Failed to close device", "err", err)
			}
		}
	})
}
