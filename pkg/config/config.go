// Package config loads the robot's tuning and wiring from a YAML file laid
// over built-in defaults, plus device paths from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v2"

	"github.com/rcj-soccer/robocup/internal/log"
	"github.com/rcj-soccer/robocup/pkg/errs"
	"github.com/rcj-soccer/robocup/pkg/robot"
)

type Env struct {
	ConfigFile  string `env:"ROBOCUP_CONFIG" envDefault:"/cfg/robocup.yaml"`
	Framebuffer string `env:"ROBOCUP_FRAMEBUFFER" envDefault:"/dev/fb0"`
	Input       string `env:"ROBOCUP_INPUT" envDefault:"/dev/input/by-path/platform-gpio_keys-event"`
	MotorBus    string `env:"ROBOCUP_I2C_MOTOR_BUS" envDefault:"/dev/i2c-1"`
	LogLevel    string `env:"ROBOCUP_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"ROBOCUP_LOG_FORMAT" envDefault:"text"`
}

func LoadEnv() (Env, error) {
	var e Env
	err := env.Parse(&e)
	return e, err
}

type Config struct {
	Speed     SpeedConfig                 `yaml:"speed"`
	Filter    FilterConfig                `yaml:"filter"`
	PID       PIDConfig                   `yaml:"pid"`
	Smoothing float64                     `yaml:"smoothing"`
	Menu      MenuConfig                  `yaml:"menu"`
	Display   DisplayConfig               `yaml:"display"`
	Motors    map[robot.Port]MotorConfig  `yaml:"motors"`
	Sensors   map[robot.Port]SensorConfig `yaml:"sensors"`
	Leds      map[robot.Side]LedConfig    `yaml:"leds"`
	Program   ProgramConfig               `yaml:"program"`
}

type SpeedConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type FilterConfig struct {
	Difference float64 `yaml:"difference"`
	Outliers   int     `yaml:"outliers"`
}

type PIDConfig struct {
	Kp         float64 `yaml:"kp"`
	Ki         float64 `yaml:"ki"`
	Kd         float64 `yaml:"kd"`
	TrackError bool    `yaml:"track_error"`
}

type MenuConfig struct {
	Cols         int           `yaml:"cols"`
	Rows         int           `yaml:"rows"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type DisplayConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Format string `yaml:"format"`
}

const (
	DriverHAT   = "hat"
	DriverDummy = "dummy"
)

type MotorConfig struct {
	Driver string `yaml:"driver"`
	// Terminal is the motor HAT output, M1-M4.
	Terminal int `yaml:"terminal"`
}

type SensorConfig struct {
	Driver string `yaml:"driver"`
	// Device is the video device number for the camera driver.
	Device int `yaml:"device"`
}

// LedConfig names the GPIO pins of one status light.
type LedConfig struct {
	Red   string `yaml:"red"`
	Green string `yaml:"green"`
}

type ProgramConfig struct {
	Interval       time.Duration `yaml:"interval"`
	CruiseSpeed    float64       `yaml:"cruise_speed"`
	DarkThreshold  float64       `yaml:"dark_threshold"`
	MotorFrequency float64       `yaml:"motor_frequency"`
}

func Default() Config {
	return Config{
		Speed:     SpeedConfig{Min: -100, Max: 100},
		Filter:    FilterConfig{Difference: 200, Outliers: 15},
		PID:       PIDConfig{Kp: 1},
		Smoothing: 1.25,
		Menu:      MenuConfig{Cols: 2, Rows: 2, PollInterval: 10 * time.Millisecond},
		Display:   DisplayConfig{Width: 178, Height: 128, Format: "xrgb8888"},
		Motors: map[robot.Port]MotorConfig{
			robot.PortA: {Driver: DriverHAT, Terminal: 1},
			robot.PortB: {Driver: DriverHAT, Terminal: 2},
		},
		Sensors: map[robot.Port]SensorConfig{
			robot.Port1: {Driver: "camera"},
			robot.Port2: {Driver: "lego-nxt-us"},
			robot.Port3: {Driver: "ht-nxt-ir-seek-v2"},
			robot.Port4: {Driver: "ht-nxt-compass"},
		},
		Leds: map[robot.Side]LedConfig{
			robot.Left:  {Red: "GPIO5", Green: "GPIO6"},
			robot.Right: {Red: "GPIO13", Green: "GPIO19"},
		},
		Program: ProgramConfig{
			Interval:       20 * time.Millisecond,
			CruiseSpeed:    50,
			DarkThreshold:  100,
			MotorFrequency: 1600,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("No config file, using defaults", "path", path)
		return cfg, nil
	} else if err != nil {
		return cfg, err
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("Using config", "config", fmt.Sprintf("%+v", cfg))
	return cfg, nil
}

// Parse unmarshals data over cfg and validates the result. Map sections are
// merged key by key.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	var problems []error
	if c.Speed.Min > c.Speed.Max {
		problems = append(problems, fmt.Errorf("speed min %v above max %v", c.Speed.Min, c.Speed.Max))
	}
	if c.Filter.Difference <= 0 || c.Filter.Outliers < 0 {
		problems = append(problems, fmt.Errorf("filter difference must be positive and outliers non-negative"))
	}
	if c.Smoothing <= 0 {
		problems = append(problems, fmt.Errorf("smoothing must be positive"))
	}
	if c.Menu.Cols <= 0 || c.Menu.Rows <= 0 {
		problems = append(problems, fmt.Errorf("menu grid %dx%d", c.Menu.Cols, c.Menu.Rows))
	}
	for p := range c.Motors {
		if !p.IsMotor() {
			problems = append(problems, fmt.Errorf("%q is not a motor port", p))
		}
	}
	for p := range c.Sensors {
		if !p.IsSensor() {
			problems = append(problems, fmt.Errorf("%q is not a sensor port", p))
		}
	}
	if c.Program.Interval <= 0 {
		problems = append(problems, fmt.Errorf("program interval %v must be positive", c.Program.Interval))
	}
	if c.Program.CruiseSpeed <= 0 {
		problems = append(problems, fmt.Errorf("cruise speed %v must be positive", c.Program.CruiseSpeed))
	}
	for side := range c.Leds {
		if side != robot.Left && side != robot.Right {
			problems = append(problems, fmt.Errorf("unknown light %q", side))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", errs.ErrInvalidInput, errors.Join(problems...))
	}
	return nil
}
