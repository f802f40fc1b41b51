package pca9685

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rcj-soccer/robocup/pkg/errs"
)

type write struct {
	reg byte
	buf []byte
}

type fakePort struct {
	writes []write
	closed bool
}

func (f *fakePort) WriteReg(reg byte, buf []byte) error {
	f.writes = append(f.writes, write{reg, append([]byte(nil), buf...)})
	return nil
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func TestPreScale(t *testing.T) {
	for _, tc := range []struct {
		hz       float64
		expected byte
	}{
		{50, 121},
		{1600, 3},
		{1000, 5},
		{1, 255},
	} {
		if got := PreScale(tc.hz); got != tc.expected {
			t.Errorf("PreScale(%v) = %d, expected %d", tc.hz, got, tc.expected)
		}
	}
}

func TestConfigure(t *testing.T) {
	f := &fakePort{}
	p := &PCA9685{dev: f}
	if err := p.Configure(50); err != nil {
		t.Fatal(err)
	}
	expected := []write{
		{RegMode1, []byte{0x11}},
		{RegPreScale, []byte{121}},
		{RegMode1, []byte{0x01}},
		{RegMode1, []byte{0x81}},
	}
	if !reflect.DeepEqual(f.writes, expected) {
		t.Errorf("writes = %v, expected %v", f.writes, expected)
	}
}

func TestSetPWM(t *testing.T) {
	f := &fakePort{}
	p := &PCA9685{dev: f}
	_ = p.SetPWM(2, 0.5)
	_ = p.SetPWM(15, 3)
	expected := []write{
		{0x0e, []byte{0, 0, 0xff, 0x07}},
		{0x42, []byte{0, 0, 0xff, 0x0f}},
	}
	if !reflect.DeepEqual(f.writes, expected) {
		t.Errorf("writes = %v, expected %v", f.writes, expected)
	}
	if err := p.SetPWM(16, 0); !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSetFull(t *testing.T) {
	f := &fakePort{}
	p := &PCA9685{dev: f}
	_ = p.SetFull(0, true)
	_ = p.SetFull(1, false)
	expected := []write{
		{0x06, []byte{0, 0x10, 0, 0}},
		{0x0a, []byte{0, 0, 0, 0x10}},
	}
	if !reflect.DeepEqual(f.writes, expected) {
		t.Errorf("writes = %v, expected %v", f.writes, expected)
	}
	_ = p.Close()
	if !f.closed {
		t.Error("port not closed")
	}
}
