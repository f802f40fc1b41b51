package robot

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/rcj-soccer/robocup/pkg/errs"
)

type call struct {
	op    string
	value float64
}

type fakeMotor struct {
	calls []call
	err   error
}

func (m *fakeMotor) On(speed float64) error {
	m.calls = append(m.calls, call{"on", speed})
	return m.err
}

func (m *fakeMotor) Off(brake bool) error {
	v := 0.0
	if brake {
		v = 1
	}
	m.calls = append(m.calls, call{"off", v})
	return m.err
}

func (m *fakeMotor) Reset() error {
	m.calls = append(m.calls, call{"reset", 0})
	return m.err
}

func newTestRobot(t *testing.T, ports ...Port) (*Robot, map[Port]*fakeMotor) {
	t.Helper()
	r := New(nil, nil, nil)
	motors := map[Port]*fakeMotor{}
	for _, p := range ports {
		m := &fakeMotor{}
		if err := r.AttachMotor(p, m); err != nil {
			t.Fatal(err)
		}
		motors[p] = m
	}
	return r, motors
}

func expectCalls(t *testing.T, m *fakeMotor, expected ...call) {
	t.Helper()
	if !reflect.DeepEqual(m.calls, expected) {
		t.Errorf("calls = %v, expected %v", m.calls, expected)
	}
}

func TestStartMotorsPerPort(t *testing.T) {
	r, motors := newTestRobot(t, PortB, PortC)
	if err := r.StartMotors([]int{50, -50}); err != nil {
		t.Fatal(err)
	}
	expectCalls(t, motors[PortB], call{"on", 50})
	expectCalls(t, motors[PortC], call{"on", -50})
}

func TestStartMotorsSingleValueReused(t *testing.T) {
	r, motors := newTestRobot(t, PortA, PortB, PortD)
	if err := r.StartMotors(30); err != nil {
		t.Fatal(err)
	}
	for _, p := range []Port{PortA, PortB, PortD} {
		expectCalls(t, motors[p], call{"on", 30})
	}
}

func TestStartMotorsLastValueReused(t *testing.T) {
	r, motors := newTestRobot(t, PortA, PortB, PortC)
	if err := r.StartMotors([]any{10, []float64{20}}); err != nil {
		t.Fatal(err)
	}
	expectCalls(t, motors[PortA], call{"on", 10})
	expectCalls(t, motors[PortB], call{"on", 20})
	expectCalls(t, motors[PortC], call{"on", 20})
}

func TestStartMotorsClampsAndFlattens(t *testing.T) {
	r, motors := newTestRobot(t, PortA, PortB, PortC, PortD)
	if err := r.StartMotors([]any{[]any{150, -300}, []any{[]int{5}, 99}}); err != nil {
		t.Fatal(err)
	}
	expectCalls(t, motors[PortA], call{"on", 100})
	expectCalls(t, motors[PortB], call{"on", -100})
	expectCalls(t, motors[PortC], call{"on", 5})
	expectCalls(t, motors[PortD], call{"on", 99})
}

func TestStartMotorsEmpty(t *testing.T) {
	r, _ := newTestRobot(t)
	if err := r.StartMotors([]int{}); err != nil {
		t.Errorf("no motors and no speeds should be a no-op, got %v", err)
	}
	r, motors := newTestRobot(t, PortA)
	if err := r.StartMotors([]int{}); !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	expectCalls(t, motors[PortA])
}

func TestStartMotorsContinuesAfterFailure(t *testing.T) {
	r, motors := newTestRobot(t, PortA, PortB)
	boom := errors.New("boom")
	motors[PortA].err = boom
	err := r.StartMotors([]int{1, 2})
	if !errors.Is(err, boom) {
		t.Errorf("expected the motor error, got %v", err)
	}
	expectCalls(t, motors[PortB], call{"on", 2})
}

func TestCoastAndReset(t *testing.T) {
	r, motors := newTestRobot(t, PortA, PortD)
	if err := r.CoastMotors(); err != nil {
		t.Fatal(err)
	}
	if err := r.ResetMotors(); err != nil {
		t.Fatal(err)
	}
	for _, p := range []Port{PortA, PortD} {
		expectCalls(t, motors[p], call{"off", 0}, call{"reset", 0})
	}
}

func TestUnconfiguredRobotIsNoOp(t *testing.T) {
	r := New(nil, nil, nil)
	if err := r.CoastMotors(); err != nil {
		t.Error(err)
	}
	if err := r.ResetMotors(); err != nil {
		t.Error(err)
	}
	if err := r.Color("red"); err != nil {
		t.Error(err)
	}
}

func TestAttachRejectsWrongPortKind(t *testing.T) {
	r := New(nil, nil, nil)
	if err := r.AttachMotor(Port1, &fakeMotor{}); !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("motor on sensor port: %v", err)
	}
	if err := r.AttachSensor(PortA, &DummyDistance{}); !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("sensor on motor port: %v", err)
	}
	if err := r.AttachMotor("E", &fakeMotor{}); !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("motor on unknown port: %v", err)
	}
}

func TestColorUpperCasesBothSides(t *testing.T) {
	leds := &DummyIndicator{}
	r := New(leds, nil, nil)
	if err := r.Color("orange"); err != nil {
		t.Fatal(err)
	}
	expected := map[Side]string{Left: "ORANGE", Right: "ORANGE"}
	if !reflect.DeepEqual(leds.Colors, expected) {
		t.Errorf("colors = %v, expected %v", leds.Colors, expected)
	}
}

func TestSensorAs(t *testing.T) {
	r := New(nil, nil, nil)
	if err := r.AttachSensor(Port2, &DummyDistance{Centimeters: 12}); err != nil {
		t.Fatal(err)
	}

	d, err := SensorAs[DistanceSensor](r, Port2)
	if err != nil {
		t.Fatal(err)
	}
	if cm, _ := d.DistanceCentimeters(); cm != 12 {
		t.Errorf("distance = %v", cm)
	}

	if _, err := SensorAs[ColorSensor](r, Port2); !errors.Is(err, errs.ErrUnconfigured) {
		t.Errorf("wrong capability: %v", err)
	}
	if _, err := SensorAs[DistanceSensor](r, Port1); !errors.Is(err, errs.ErrUnconfigured) {
		t.Errorf("empty port: %v", err)
	}
}

func TestPrintPorts(t *testing.T) {
	r, _ := newTestRobot(t, PortB)
	if err := r.AttachSensor(Port3, &DummyColor{}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := r.PrintPorts(&buf); err != nil {
		t.Fatal(err)
	}
	expected := "A: false\nB: true\nC: false\nD: false\n" +
		"1: false\n2: false\n3: true (dummy-color)\n4: false\n"
	if buf.String() != expected {
		t.Errorf("PrintPorts wrote:\n%s\nexpected:\n%s", buf.String(), expected)
	}
}

func TestI2CBus(t *testing.T) {
	bus, err := I2CBus(Port1)
	if err != nil || bus != "/dev/i2c-3" {
		t.Errorf("I2CBus(1) = %q, %v", bus, err)
	}
	if _, err := I2CBus(PortA); err == nil {
		t.Error("expected an error for a motor port")
	}
}
