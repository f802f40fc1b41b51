// Package irseeker reads the HiTechnic IR seeker 360 over I2C.
package irseeker

import (
	"errors"

	"golang.org/x/exp/io/i2c"

	"github.com/rcj-soccer/robocup/pkg/robot"
)

const (
	Driver = "ht-nxt-ir-seek-v2"
	Addr   = 0x08

	numBlocks = 12
	blockSize = 2

	// Directions outside 0-12 are read glitches.
	maxDirection = 12
)

// ErrNoSignal means no valid direction was read.
var ErrNoSignal = errors.New("irseeker: no valid direction")

type port interface {
	ReadReg(reg byte, buf []byte) error
	Close() error
}

type Seeker struct {
	dev port
}

func Open(bus string) (*Seeker, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: bus}, Addr)
	if err != nil {
		return nil, err
	}
	return &Seeker{dev: dev}, nil
}

func (s *Seeker) Name() string { return Driver }

// Read returns the most common direction bin of the first block and the
// most common strength of the second.
func (s *Seeker) Read() (direction, strength int, err error) {
	var blocks [numBlocks][blockSize]byte
	for i := range blocks {
		if err = s.dev.ReadReg(byte(i), blocks[i][:]); err != nil {
			return 0, 0, err
		}
	}

	var angles []int
	for _, v := range blocks[0] {
		if v <= maxDirection {
			angles = append(angles, int(v))
		}
	}
	if len(angles) == 0 {
		return 0, 0, ErrNoSignal
	}
	strengths := make([]int, 0, blockSize)
	for _, v := range blocks[1] {
		strengths = append(strengths, int(v))
	}
	return mode(angles), mode(strengths), nil
}

// mode returns the most frequent value, the smallest on a tie.
func mode(values []int) int {
	counts := map[int]int{}
	best, bestCount := 0, 0
	for _, v := range values {
		counts[v]++
	}
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}

func (s *Seeker) Close() error {
	return s.dev.Close()
}

var _ robot.BallSeeker = (*Seeker)(nil)
