package pca9685

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/io/i2c"

	"github.com/rcj-soccer/robocup/internal/log"
	"github.com/rcj-soccer/robocup/pkg/errs"
)

const (
	DefaultAddr = 0x60 // Motor HAT jumper default.

	RegMode1 = 0x00
	RegMode2 = 0x01

	// Each PWM output has two 16-bit (low byte first) registers.
	// First register is the on time, second is the off time.
	RegLEDBase = 0x06

	RegPreScale = 0xfe // Pre-scaler for PWM frequency.

	OscillatorHz = 25_000_000
	DefaultHz    = 1600

	PWMMax = 4095

	// Bit 4 of the high on/off byte forces the output fully on/off.
	fullBit = 0x10

	NumChannels = 16
)

type Interface interface {
	Configure(frequency float64) error
	SetPWM(channel int, duty float64) error
	SetFull(channel int, on bool) error
	Close() error
}

type port interface {
	WriteReg(reg byte, buf []byte) error
	Close() error
}

type PCA9685 struct {
	dev port
}

func New(deviceFile string, addr int) (Interface, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: deviceFile}, addr)
	if err != nil {
		return nil, err
	}
	return &PCA9685{dev: dev}, nil
}

// PreScale is the prescaler register value for an output frequency.
func PreScale(frequency float64) byte {
	v := math.Round(OscillatorHz/(4096*frequency)) - 1
	return byte(math.Max(3, math.Min(v, 255)))
}

func (p *PCA9685) Configure(frequency float64) (err error) {
	// Put device to sleep.
	err = p.dev.WriteReg(RegMode1, []byte{0x11})
	if err != nil {
		return
	}
	err = p.dev.WriteReg(RegPreScale, []byte{PreScale(frequency)})
	if err != nil {
		return
	}
	// Trigger a reset
	err = p.dev.WriteReg(RegMode1, []byte{0x01})
	if err != nil {
		return
	}
	// Required delay after reset.
	time.Sleep(1 * time.Millisecond)
	// Enable.
	err = p.dev.WriteReg(RegMode1, []byte{0x81})
	return
}

func checkChannel(channel int) error {
	if channel < 0 || channel >= NumChannels {
		return fmt.Errorf("%w: PWM channel %d out of range", errs.ErrInvalidInput, channel)
	}
	return nil
}

// SetPWM sets the duty cycle, 0-1, of one channel.
func (p *PCA9685) SetPWM(channel int, duty float64) error {
	if err := checkChannel(channel); err != nil {
		return err
	}
	if duty < 0 {
		duty = 0
	} else if duty > 1 {
		duty = 1
	}

	pwmValue := uint16(PWMMax * duty)
	addr := RegLEDBase + channel*4

	return p.dev.WriteReg(byte(addr), []byte{0, 0, byte(pwmValue & 0xff), byte(pwmValue >> 8)})
}

// SetFull drives a channel constantly high or low, as used for direction
// pins.
func (p *PCA9685) SetFull(channel int, on bool) error {
	if err := checkChannel(channel); err != nil {
		return err
	}
	addr := RegLEDBase + channel*4
	if on {
		return p.dev.WriteReg(byte(addr), []byte{0, fullBit, 0, 0})
	}
	return p.dev.WriteReg(byte(addr), []byte{0, 0, 0, fullBit})
}

func (p *PCA9685) Close() error {
	return p.dev.Close()
}

func Dummy() Interface {
	return &dummyPWM{}
}

type dummyPWM struct {
}

func (*dummyPWM) Configure(frequency float64) error {
	return nil
}

func (*dummyPWM) SetPWM(channel int, duty float64) error {
	log.Debug("DHW: SetPWM", "channel", channel, "duty", duty)
	return checkChannel(channel)
}

func (*dummyPWM) SetFull(channel int, on bool) error {
	log.Debug("DHW: SetFull", "channel", channel, "on", on)
	return checkChannel(channel)
}

func (*dummyPWM) Close() error {
	return nil
}
