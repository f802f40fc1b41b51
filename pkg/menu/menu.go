// Package menu implements the on-brick grid menu: a cursor moved with the
// arrow buttons over a grid of labelled buttons, enter to run the selected
// button's script and backspace to leave.
package menu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rcj-soccer/robocup/internal/log"
	"github.com/rcj-soccer/robocup/pkg/errs"
	"github.com/rcj-soccer/robocup/pkg/input"
)

const DefaultPollInterval = 10 * time.Millisecond

type State int

const (
	Idle State = iota
	Navigating
	Executing
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Navigating:
		return "navigating"
	case Executing:
		return "executing"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

type Cursor struct {
	Col, Row int
}

type Menu struct {
	// PollInterval is the pause between poll cycles in Run and between polls
	// while waiting for enter to be released before running a script.
	PollInterval time.Duration

	cols, rows int
	buttons    []*Button
	display    Display
	input      input.Buttons

	cellW, cellH float64
	cursor       Cursor
	state        State
}

// New lays buttons out row by row on a cols x rows grid sized to the display.
// There may be fewer buttons than cells but not more.
func New(cols, rows int, buttons []*Button, display Display, in input.Buttons) (*Menu, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: menu grid %dx%d", errs.ErrInvalidInput, cols, rows)
	}
	if len(buttons) > cols*rows {
		return nil, fmt.Errorf("%w: %d buttons do not fit a %dx%d grid", errs.ErrInvalidInput, len(buttons), cols, rows)
	}
	return &Menu{
		PollInterval: DefaultPollInterval,
		cols:         cols,
		rows:         rows,
		buttons:      buttons,
		display:      display,
		input:        in,
		cellW:        float64(display.XRes()) / float64(cols),
		cellH:        float64(display.YRes()) / float64(rows),
	}, nil
}

func (m *Menu) Cursor() Cursor {
	return m.cursor
}

func (m *Menu) State() State {
	return m.state
}

// Close stops the menu after the current step. Scripts use it to implement
// an exit button.
func (m *Menu) Close() {
	m.state = Closed
}

// Run draws the menu and polls the buttons until the menu is closed by the
// backspace button, a script calling Close, or ctx. Activating an empty cell
// is logged and ignored.
func (m *Menu) Run(ctx context.Context) error {
	logger := log.Subsystem("menu")
	logger.Info("Menu running", "grid", fmt.Sprintf("%dx%d", m.cols, m.rows), "buttons", len(m.buttons))

	if err := m.Redraw(); err != nil {
		return err
	}

	for m.state != Closed {
		err := m.Step(ctx)
		if errors.Is(err, errs.ErrInvalidInput) {
			logger.Warn("Ignoring activation", "err", err)
			m.pause(ctx)
			continue
		}
		if err != nil {
			return err
		}
		m.pause(ctx)
	}

	logger.Info("Menu closed")
	return nil
}

func (m *Menu) pause(ctx context.Context) {
	if m.state == Closed || m.PollInterval <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(m.PollInterval):
	}
}

// Step handles one poll cycle: close, cursor moves, activation, redraw and
// waiting for the pressed buttons to be released.
func (m *Menu) Step(ctx context.Context) error {
	if m.state == Closed {
		return nil
	}

	m.input.Process()

	if ctx.Err() != nil || m.input.Pressed(input.KeyBackspace) {
		m.state = Closed
	}
	if m.state == Closed {
		return m.shutdown()
	}

	m.navigate()

	var activateErr error
	if m.input.Pressed(input.KeyEnter) {
		activateErr = m.activate(ctx)
	}

	// The script may have closed the menu.
	if m.state == Closed {
		if err := m.shutdown(); err != nil {
			return err
		}
		return activateErr
	}
	m.state = Idle

	if err := m.Redraw(); err != nil {
		return err
	}
	if err := m.input.WaitForReleased(ctx, m.input.PressedKeys()); err != nil && ctx.Err() == nil {
		return err
	}
	return activateErr
}

func (m *Menu) navigate() {
	c := m.cursor
	if m.input.Pressed(input.KeyRight) && c.Col < m.cols-1 {
		c.Col++
	}
	if m.input.Pressed(input.KeyLeft) && c.Col > 0 {
		c.Col--
	}
	if m.input.Pressed(input.KeyUp) && c.Row > 0 {
		c.Row--
	}
	if m.input.Pressed(input.KeyDown) && c.Row < m.rows-1 {
		c.Row++
	}
	if c != m.cursor {
		m.state = Navigating
		m.cursor = c
	}
}

func (m *Menu) activate(ctx context.Context) error {
	idx := m.cursor.Col + m.cols*m.cursor.Row
	if idx >= len(m.buttons) {
		return fmt.Errorf("%w: no button at column %d row %d", errs.ErrInvalidInput, m.cursor.Col, m.cursor.Row)
	}
	script := m.buttons[idx].Script
	if script == nil {
		return nil
	}

	m.state = Executing
	for m.input.Pressed(input.KeyEnter) {
		if ctx.Err() != nil {
			return nil
		}
		m.input.Process()
		time.Sleep(m.PollInterval)
	}

	script()
	return nil
}

// Redraw clears the display, draws every button and flips the display.
func (m *Menu) Redraw() error {
	m.display.Clear()
	m.Draw()
	return m.display.Update()
}

// Draw renders every button, inverting the one under the cursor.
func (m *Menu) Draw() {
	for i, b := range m.buttons {
		cell := m.cellOf(i)
		b.Draw(m.display, m.cellRect(cell), cell == m.cursor)
	}
}

func (m *Menu) cellOf(index int) Cursor {
	return Cursor{Col: index % m.cols, Row: index / m.cols}
}

func (m *Menu) cellRect(c Cursor) Rect {
	x := m.cellW * float64(c.Col)
	y := m.cellH * float64(c.Row)
	return Rect{X0: x, Y0: y, X1: x + m.cellW, Y1: y + m.cellH}
}

func (m *Menu) shutdown() error {
	m.display.Clear()
	return m.display.Update()
}
