package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rcj-soccer/robocup/pkg/compass"
	"github.com/rcj-soccer/robocup/pkg/irseeker"
	"github.com/rcj-soccer/robocup/pkg/robot"
	"github.com/rcj-soccer/robocup/pkg/ultrasonic"
)

func main() {
	driver := flag.String("driver", irseeker.Driver, "sensor driver: "+irseeker.Driver+", "+ultrasonic.Driver+" or "+compass.Driver)
	port := flag.String("port", "3", "input port, 1-4")
	interval := flag.Duration("interval", 200*time.Millisecond, "time between readings")
	flag.Parse()

	bus, err := robot.I2CBus(robot.Port(*port))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	var read func() (string, error)
	switch *driver {
	case irseeker.Driver:
		s, err := irseeker.Open(bus)
		if err != nil {
			fmt.Println("Failed to open sensor ", err)
			os.Exit(1)
		}
		defer s.Close()
		read = func() (string, error) {
			dir, strength, err := s.Read()
			return fmt.Sprintf("direction=%d strength=%d", dir, strength), err
		}
	case ultrasonic.Driver:
		s, err := ultrasonic.Open(bus)
		if err != nil {
			fmt.Println("Failed to open sensor ", err)
			os.Exit(1)
		}
		defer s.Close()
		read = func() (string, error) {
			d, err := s.DistanceCentimeters()
			return fmt.Sprintf("distance=%vcm", d), err
		}
	case compass.Driver:
		c, err := compass.Open(bus)
		if err != nil {
			fmt.Println("Failed to open sensor ", err)
			os.Exit(1)
		}
		defer c.Close()
		read = func() (string, error) {
			h, err := c.Heading()
			return fmt.Sprintf("heading=%v", h), err
		}
	default:
		fmt.Println("Unknown driver", *driver)
		os.Exit(1)
	}

	fmt.Printf("Reading %s on %s\n", *driver, bus)
	for range time.NewTicker(*interval).C {
		result, err := read()
		if err != nil {
			fmt.Println("Read failed:", err)
			continue
		}
		fmt.Println(result)
	}
}
