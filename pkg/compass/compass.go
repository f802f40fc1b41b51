// Package compass reads the HiTechnic NXT compass over I2C.
package compass

import (
	"golang.org/x/exp/io/i2c"

	"github.com/rcj-soccer/robocup/pkg/robot"
)

const (
	Driver = "ht-nxt-compass"
	Addr   = 0x01

	// RegHeading holds the heading halved; the next register adds the
	// remaining 0 or 1 degree.
	RegHeading = 0x44
)

type port interface {
	ReadReg(reg byte, buf []byte) error
	Close() error
}

type Compass struct {
	dev port
}

func Open(bus string) (*Compass, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: bus}, Addr)
	if err != nil {
		return nil, err
	}
	return &Compass{dev: dev}, nil
}

func (c *Compass) Name() string { return Driver }

func (c *Compass) Heading() (float64, error) {
	var buf [2]byte
	if err := c.dev.ReadReg(RegHeading, buf[:]); err != nil {
		return 0, err
	}
	return float64(2*int(buf[0]) + int(buf[1])), nil
}

func (c *Compass) Close() error {
	return c.dev.Close()
}

var _ robot.HeadingSensor = (*Compass)(nil)
