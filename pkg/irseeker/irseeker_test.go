package irseeker

import (
	"errors"
	"testing"
)

type fakePort struct {
	regs  map[byte][]byte
	reads []byte
	err   error
}

func (f *fakePort) ReadReg(reg byte, buf []byte) error {
	f.reads = append(f.reads, reg)
	if f.err != nil {
		return f.err
	}
	copy(buf, f.regs[reg])
	return nil
}

func (f *fakePort) Close() error { return nil }

func TestReadUsesFirstTwoBlocks(t *testing.T) {
	f := &fakePort{regs: map[byte][]byte{
		0:  {5, 5},
		1:  {80, 80},
		11: {9, 9},
	}}
	s := &Seeker{dev: f}
	dir, strength, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if dir != 5 || strength != 80 {
		t.Errorf("Read = %d, %d", dir, strength)
	}
	if len(f.reads) != 12 {
		t.Errorf("expected 12 block reads, got %d", len(f.reads))
	}
}

func TestReadDropsInvalidDirections(t *testing.T) {
	s := &Seeker{dev: &fakePort{regs: map[byte][]byte{
		0: {200, 7},
		1: {30, 10},
	}}}
	dir, strength, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if dir != 7 {
		t.Errorf("direction = %d, expected 7", dir)
	}
	if strength != 10 {
		t.Errorf("strength = %d, expected the smaller of a tie", strength)
	}
}

func TestReadNoSignal(t *testing.T) {
	s := &Seeker{dev: &fakePort{regs: map[byte][]byte{0: {13, 255}}}}
	if _, _, err := s.Read(); !errors.Is(err, ErrNoSignal) {
		t.Errorf("expected ErrNoSignal, got %v", err)
	}
}

func TestReadBusError(t *testing.T) {
	busErr := errors.New("remote I/O error")
	s := &Seeker{dev: &fakePort{err: busErr}}
	if _, _, err := s.Read(); !errors.Is(err, busErr) {
		t.Errorf("expected bus error, got %v", err)
	}
}

func TestMode(t *testing.T) {
	for _, tc := range []struct {
		values   []int
		expected int
	}{
		{[]int{3}, 3},
		{[]int{4, 2, 4}, 4},
		{[]int{9, 1, 9, 1}, 1},
	} {
		if got := mode(tc.values); got != tc.expected {
			t.Errorf("mode(%v) = %d, expected %d", tc.values, got, tc.expected)
		}
	}
}
