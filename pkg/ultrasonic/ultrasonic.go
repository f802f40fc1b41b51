// Package ultrasonic reads the LEGO NXT ultrasonic sensor over I2C.
package ultrasonic

import (
	"golang.org/x/exp/io/i2c"

	"github.com/rcj-soccer/robocup/pkg/robot"
)

const (
	Driver = "lego-nxt-us"
	Addr   = 0x01

	RegDistance = 0x42
)

type port interface {
	ReadReg(reg byte, buf []byte) error
	Close() error
}

type Sensor struct {
	dev port
}

func Open(bus string) (*Sensor, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: bus}, Addr)
	if err != nil {
		return nil, err
	}
	return &Sensor{dev: dev}, nil
}

func (s *Sensor) Name() string { return Driver }

// DistanceCentimeters reads the first echo; 255 means nothing in range.
func (s *Sensor) DistanceCentimeters() (float64, error) {
	var buf [1]byte
	if err := s.dev.ReadReg(RegDistance, buf[:]); err != nil {
		return 0, err
	}
	return float64(buf[0]), nil
}

func (s *Sensor) Close() error {
	return s.dev.Close()
}

var _ robot.DistanceSensor = (*Sensor)(nil)
