package hardware

import (
	"errors"
	"testing"

	"github.com/rcj-soccer/robocup/pkg/config"
	"github.com/rcj-soccer/robocup/pkg/dcmotor"
	"github.com/rcj-soccer/robocup/pkg/pca9685"
	"github.com/rcj-soccer/robocup/pkg/robot"
)

type closer struct{ closed int }

func (c *closer) Name() string { return "closer" }
func (c *closer) Close() error {
	c.closed++
	return nil
}

func TestNewSimWiresConfiguredPorts(t *testing.T) {
	cfg := config.Default()
	cfg.Motors[robot.PortD] = config.MotorConfig{Driver: config.DriverDummy}
	h, term := NewSim(cfg)
	if term == nil || h.Display() == nil {
		t.Fatal("simulator display missing")
	}
	r := h.Robot()

	if _, ok := r.Motor(robot.PortA).(*dcmotor.Motor); !ok {
		t.Errorf("port A = %T, expected a HAT motor", r.Motor(robot.PortA))
	}
	if r.Motor(robot.PortC) != nil {
		t.Error("port C should be empty")
	}
	d, ok := r.Motor(robot.PortD).(*robot.DummyMotor)
	if !ok {
		t.Fatalf("port D = %T", r.Motor(robot.PortD))
	}

	if _, err := robot.SensorAs[robot.ColorSensor](r, robot.Port1); err != nil {
		t.Error(err)
	}
	if _, err := robot.SensorAs[robot.BallSeeker](r, robot.Port3); err != nil {
		t.Error(err)
	}

	if err := r.StartMotors(30); err != nil {
		t.Fatal(err)
	}
	h.Shutdown()
	h.Shutdown()
	if d.Speed != 0 {
		t.Errorf("dummy motor still at %v after shutdown", d.Speed)
	}
}

func TestAttachSensorsSkipsFailures(t *testing.T) {
	h, _ := NewSim(config.Default())
	h.robot = robot.New(nil, nil, nil)
	c := &closer{}
	openers := map[string]sensorOpener{
		"good": func(robot.Port, config.SensorConfig) (robot.Sensor, error) { return c, nil },
		"bad": func(robot.Port, config.SensorConfig) (robot.Sensor, error) {
			return nil, errors.New("no such device")
		},
	}
	h.attachSensors(map[robot.Port]config.SensorConfig{
		robot.Port1: {Driver: "good"},
		robot.Port2: {Driver: "bad"},
		robot.Port3: {Driver: "missing"},
	}, openers)

	if h.robot.Sensor(robot.Port1) != c {
		t.Error("port 1 not attached")
	}
	if h.robot.Sensor(robot.Port2) != nil || h.robot.Sensor(robot.Port3) != nil {
		t.Error("failed sensors must leave their ports empty")
	}
	h.Shutdown()
	if c.closed != 1 {
		t.Errorf("sensor closed %d times", c.closed)
	}
}

func TestAttachMotorsBoardFailure(t *testing.T) {
	h, _ := NewSim(config.Default())
	h.robot = robot.New(nil, nil, nil)
	opens := 0
	cfg := config.Default()
	cfg.Motors[robot.PortC] = config.MotorConfig{Driver: config.DriverHAT, Terminal: 3}
	cfg.Motors[robot.PortD] = config.MotorConfig{Driver: config.DriverDummy}
	h.attachMotors(cfg, func() (pca9685.Interface, error) {
		opens++
		return nil, errors.New("no board")
	})
	if opens != 1 {
		t.Errorf("board opened %d times", opens)
	}
	for _, p := range []robot.Port{robot.PortA, robot.PortB, robot.PortC} {
		if h.robot.Motor(p) != nil {
			t.Errorf("port %s attached without a board", p)
		}
	}
	if h.robot.Motor(robot.PortD) == nil {
		t.Error("dummy motor should not need the board")
	}
}
