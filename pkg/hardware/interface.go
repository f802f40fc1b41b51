package hardware

import (
	"context"

	"github.com/rcj-soccer/robocup/pkg/menu"
	"github.com/rcj-soccer/robocup/pkg/robot"
)

type Interface interface {
	Robot() *robot.Robot
	Display() menu.Display

	// Start runs the background readers (buttons, simulator) until ctx is
	// done.
	Start(ctx context.Context)

	// Shutdown coasts the motors and releases every device.
	Shutdown()
}
