package sound

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/rcj-soccer/robocup/internal/log"
	"github.com/rcj-soccer/robocup/pkg/robot"
)

const SampleRate = beep.SampleRate(44100)

// ErrBusy is returned when the player did not accept a request in time.
var ErrBusy = errors.New("sound player busy")

type request struct {
	file      string
	frequency float64
	duration  time.Duration
	volume    float64
}

func (r request) String() string {
	if r.file != "" {
		return r.file
	}
	return "tone"
}

type Player struct {
	requests chan request
	timeout  time.Duration
}

func newPlayer() *Player {
	return &Player{
		requests: make(chan request),
		timeout:  10 * time.Millisecond,
	}
}

// Start opens the speaker and plays requests in the background until ctx
// is done. A missing sound card is logged and requests are dropped.
func Start(ctx context.Context) *Player {
	p := newPlayer()
	go p.loop(ctx)
	return p
}

func (p *Player) loop(ctx context.Context) {
	logger := log.Subsystem("sound")
	drain := func() {
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-p.requests:
				logger.Warn("Unable to play", "sound", r.String())
			}
		}
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Sound player panicked", "panic", r)
			drain()
		}
	}()

	err := speaker.Init(SampleRate, SampleRate.N(time.Second/5))
	if err != nil {
		logger.Error("Failed to open speaker", "err", err)
		drain()
		return
	}
	defer speaker.Close()

	var ctrl *beep.Ctrl
	var current beep.StreamSeekCloser
	for {
		var r request
		select {
		case <-ctx.Done():
			speaker.Clear()
			return
		case r = <-p.requests:
		}
		if ctrl != nil {
			speaker.Lock()
			ctrl.Paused = true
			ctrl.Streamer = nil
			speaker.Unlock()
			ctrl = nil
		}
		if current != nil {
			_ = current.Close()
			current = nil
		}

		var s beep.Streamer
		if r.file == "" {
			s = beep.Take(SampleRate.N(r.duration), Tone(SampleRate, r.frequency, r.volume))
		} else {
			f, err := os.Open(r.file)
			if err != nil {
				logger.Error("Failed to open sound", "err", err)
				continue
			}
			decoded, format, err := decodeWav(f)
			if err != nil {
				logger.Error("Failed to decode sound", "file", r.file, "err", err)
				continue
			}
			current = decoded
			s = beep.Resample(4, format.SampleRate, SampleRate, decoded)
		}
		ctrl = &beep.Ctrl{Streamer: s}
		speaker.Play(ctrl)
	}
}

// decodeWav takes ownership of rc: the returned streamer closes it, and it
// is closed here if decoding fails.
func decodeWav(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	decoded, format, err := wav.Decode(rc)
	if err != nil {
		_ = rc.Close()
		return nil, format, err
	}
	return decoded, format, nil
}

func (p *Player) enqueue(r request) error {
	select {
	case p.requests <- r:
		return nil
	case <-time.After(p.timeout):
		return ErrBusy
	}
}

// PlayTone plays a sine tone; volume is a percentage. It returns without
// waiting for the tone to finish.
func (p *Player) PlayTone(frequency float64, duration time.Duration, volume float64) error {
	return p.enqueue(request{frequency: frequency, duration: duration, volume: volume})
}

// PlayFile plays a wav file, interrupting whatever is playing.
func (p *Player) PlayFile(path string) error {
	return p.enqueue(request{file: path})
}

// Tone is an endless sine wave at the given frequency with amplitude
// volume/100.
func Tone(sr beep.SampleRate, frequency, volume float64) beep.Streamer {
	amplitude := math.Max(0, math.Min(volume, 100)) / 100
	step := 2 * math.Pi * frequency / float64(sr)
	var phase float64
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			v := amplitude * math.Sin(phase)
			samples[i][0] = v
			samples[i][1] = v
			phase += step
			if phase > 2*math.Pi {
				phase -= 2 * math.Pi
			}
		}
		return len(samples), true
	})
}

var _ robot.SoundOutput = (*Player)(nil)
