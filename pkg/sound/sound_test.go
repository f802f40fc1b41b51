package sound

import (
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/faiface/beep"
)

func TestToneAmplitudeAndPeriod(t *testing.T) {
	// 4 samples per cycle.
	s := Tone(beep.SampleRate(400), 100, 50)
	samples := make([][2]float64, 8)
	n, ok := s.Stream(samples)
	if n != 8 || !ok {
		t.Fatalf("Stream = %d, %v", n, ok)
	}
	expected := []float64{0, 0.5, 0, -0.5, 0, 0.5, 0, -0.5}
	for i, e := range expected {
		if math.Abs(samples[i][0]-e) > 1e-9 || samples[i][0] != samples[i][1] {
			t.Errorf("sample %d = %v, expected %v", i, samples[i], e)
		}
	}
}

func TestToneVolumeBounded(t *testing.T) {
	s := Tone(beep.SampleRate(400), 100, 250)
	samples := make([][2]float64, 4)
	s.Stream(samples)
	if samples[1][0] > 1 {
		t.Errorf("amplitude %v exceeds full scale", samples[1][0])
	}
}

func TestToneTake(t *testing.T) {
	s := beep.Take(SampleRate.N(300*time.Millisecond), Tone(SampleRate, 650, 20))
	total := 0
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	if total != SampleRate.N(300*time.Millisecond) {
		t.Errorf("played %d samples", total)
	}
}

func TestEnqueueTimesOut(t *testing.T) {
	p := newPlayer()
	p.timeout = time.Millisecond
	if err := p.PlayTone(440, time.Second, 10); err != ErrBusy {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	go func() { <-p.requests }()
	p.timeout = time.Second
	if err := p.PlayFile("beep.wav"); err != nil {
		t.Errorf("expected request to be accepted, got %v", err)
	}
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestDecodeWavClosesOnError(t *testing.T) {
	rc := &closeRecorder{Reader: strings.NewReader("not a wav file")}
	if _, _, err := decodeWav(rc); err == nil {
		t.Fatal("expected decode error")
	}
	if !rc.closed {
		t.Error("reader left open after failed decode")
	}
}
