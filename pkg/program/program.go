// Package program holds the run modes that can be started from the menu or
// the command line. Each runs until a brick button is pressed or ctx is
// done, then coasts the motors and turns the lights green.
package program

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rcj-soccer/robocup/internal/log"
	"github.com/rcj-soccer/robocup/pkg/config"
	"github.com/rcj-soccer/robocup/pkg/errs"
	"github.com/rcj-soccer/robocup/pkg/filter"
	"github.com/rcj-soccer/robocup/pkg/irseeker"
	"github.com/rcj-soccer/robocup/pkg/motion"
	"github.com/rcj-soccer/robocup/pkg/pid"
	"github.com/rcj-soccer/robocup/pkg/robot"
)

type Program func(ctx context.Context, r *robot.Robot) error

var programs = map[string]func(config.Config) Program{
	"line": Line,
	"seek": Seek,
}

// Names lists the programs Lookup knows.
func Names() []string {
	var names []string
	for n := range programs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func Lookup(name string, cfg config.Config) (Program, error) {
	p, ok := programs[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown program %q (have %v)", errs.ErrInvalidInput, name, Names())
	}
	return p(cfg), nil
}

// loop calls step every interval until a button is pressed, ctx is done or
// step fails.
func loop(ctx context.Context, r *robot.Robot, interval time.Duration, step func() error) (err error) {
	defer func() {
		if cerr := r.CoastMotors(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		if cerr := r.Color("GREEN"); cerr != nil {
			log.Warn("Failed to set lights", "err", cerr)
		}
	}()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for r.Buttons == nil || !r.Buttons.Any() {
		if err := step(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// Line follows a dark line on port 1 while filtering the distance on port
// 2: it spins on dark ground and drives straight otherwise.
func Line(cfg config.Config) Program {
	return func(ctx context.Context, r *robot.Robot) error {
		color, err := robot.SensorAs[robot.ColorSensor](r, robot.Port1)
		if err != nil {
			return err
		}
		distance, err := robot.SensorAs[robot.DistanceSensor](r, robot.Port2)
		if err != nil {
			return err
		}
		filtered := filter.New(cfg.Filter.Difference, cfg.Filter.Outliers)
		cruise := cfg.Program.CruiseSpeed
		logger := log.With("program", "line")

		if err := r.Color("RED"); err != nil {
			logger.Warn("Failed to set lights", "err", err)
		}
		return loop(ctx, r, cfg.Program.Interval, func() error {
			red, green, blue, err := color.RGB()
			if err != nil {
				return err
			}
			d, err := distance.DistanceCentimeters()
			if err != nil {
				return err
			}
			logger.Debug("Reading", "distance", filtered.Value(d), "raw", d)

			brightness := (red + green + blue) / 3
			if brightness < cfg.Program.DarkThreshold {
				return r.StartMotors([]float64{cruise, -cruise})
			}
			return r.StartMotors(cruise)
		})
	}
}

// BinHeading converts an IR seeker direction bin, 1-12, to a heading in
// degrees with bin 1 straight ahead.
func BinHeading(bin int) float64 {
	return float64(bin-1) * 30
}

// Seek chases the IR ball seen by the seeker on port 3 with two driven
// wheels. The smoothed heading gives forward and lateral components; the
// PID controller turns the lateral one into a steering term.
func Seek(cfg config.Config) Program {
	return func(ctx context.Context, r *robot.Robot) error {
		seeker, err := robot.SensorAs[robot.BallSeeker](r, robot.Port3)
		if err != nil {
			return err
		}
		var opts []pid.Option
		if cfg.PID.TrackError {
			opts = append(opts, pid.WithErrorTracking())
		}
		steer := pid.New(cfg.PID.Kp, cfg.PID.Ki, cfg.PID.Kd, opts...)
		cruise := cfg.Program.CruiseSpeed
		logger := log.With("program", "seek")

		var heading float64
		return loop(ctx, r, cfg.Program.Interval, func() error {
			bin, strength, err := seeker.Read()
			if errors.Is(err, irseeker.ErrNoSignal) || (err == nil && bin == 0) {
				steer.Reset()
				return r.CoastMotors()
			} else if err != nil {
				return err
			}

			heading = motion.SmoothAngle(heading, BinHeading(bin), cfg.Smoothing)
			forward, lateral := motion.AngleToXY(heading*math.Pi/180, cruise)
			turn := steer.Update(lateral / cruise)

			speeds, err := motion.ScaleSpeeds(cruise, []float64{forward + turn*cruise, forward - turn*cruise})
			if errors.Is(err, errs.ErrInvalidInput) {
				return r.CoastMotors()
			} else if err != nil {
				return err
			}
			logger.Debug("Seeking", "bin", bin, "strength", strength, "heading", heading, "speeds", speeds)
			return r.StartMotors(speeds)
		})
	}
}

// Calibrate signals the start of calibration: red lights, a pause, a short
// beep, then orange lights.
func Calibrate(ctx context.Context, r *robot.Robot) error {
	if err := r.Color("RED"); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Second):
	}
	if r.Sound != nil {
		if err := r.Sound.PlayTone(650, 300*time.Millisecond, 20); err != nil {
			log.Warn("Failed to play tone", "err", err)
		}
	}
	return r.Color("ORANGE")
}
