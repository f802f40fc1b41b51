package program

import (
	"context"

	"github.com/rcj-soccer/robocup/internal/log"
	"github.com/rcj-soccer/robocup/pkg/config"
	"github.com/rcj-soccer/robocup/pkg/menu"
	"github.com/rcj-soccer/robocup/pkg/robot"
)

// NewMenu builds the start-up menu: run the chosen program, calibrate,
// connect bluetooth (not available yet) and exit.
func NewMenu(ctx context.Context, r *robot.Robot, d menu.Display, cfg config.Config, run Program) (*menu.Menu, error) {
	var m *menu.Menu
	script := func(name string, p Program) func() {
		return func() {
			log.Info("Starting", "program", name)
			if err := p(ctx, r); err != nil {
				log.Error("Program failed", "program", name, "err", err)
			}
		}
	}
	buttons := []*menu.Button{
		menu.NewButton("Run Program", script("run", run)),
		menu.NewButton("Calibrate", script("calibrate", Calibrate)),
		menu.NewButton("Connect Bluetooth", nil),
		menu.NewButton("Exit", func() { m.Close() }),
	}
	m, err := menu.New(cfg.Menu.Cols, cfg.Menu.Rows, buttons, d, r.Buttons)
	if err != nil {
		return nil, err
	}
	m.PollInterval = cfg.Menu.PollInterval
	return m, nil
}
