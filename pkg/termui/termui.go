// Package termui simulates the brick's screen and buttons in a terminal.
//
// Arrow keys (or hjkl) navigate, enter or space activates, backspace, esc or
// q closes. Terminal presses are momentary: each is seen by exactly one
// Process or Any call and released by the next Process.
package termui

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rcj-soccer/robocup/pkg/input"
	"github.com/rcj-soccer/robocup/pkg/menu"
)

const keyQueueSize = 16

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	cellStyle   = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Width(16).
			Height(3).
			Align(lipgloss.Center, lipgloss.Center)
)

var keyNames = map[string]input.Key{
	"up":        input.KeyUp,
	"k":         input.KeyUp,
	"down":      input.KeyDown,
	"j":         input.KeyDown,
	"left":      input.KeyLeft,
	"h":         input.KeyLeft,
	"right":     input.KeyRight,
	"l":         input.KeyRight,
	"enter":     input.KeyEnter,
	" ":         input.KeyEnter,
	"backspace": input.KeyBackspace,
	"esc":       input.KeyBackspace,
	"q":         input.KeyBackspace,
	"ctrl+c":    input.KeyBackspace,
}

type rect struct {
	x0, y0, x1, y1 float64
	fill           menu.Color
}

type text struct {
	x, y float64
	s    string
}

type Terminal struct {
	width, height int

	lock    sync.Mutex
	rects   []rect
	texts   []text
	frame   string
	pressed map[input.Key]bool
	program *tea.Program

	keys chan input.Key
}

func New(width, height int) *Terminal {
	return &Terminal{
		width:   width,
		height:  height,
		pressed: map[input.Key]bool{},
		keys:    make(chan input.Key, keyQueueSize),
	}
}

// Run shows the simulator until ctx is done or the user quits.
func (t *Terminal) Run(ctx context.Context) error {
	p := tea.NewProgram(model{t: t}, tea.WithContext(ctx))
	t.lock.Lock()
	t.program = p
	t.lock.Unlock()
	_, err := p.Run()
	return err
}

// Press queues a key as if typed; extra presses are dropped when the queue
// is full.
func (t *Terminal) Press(k input.Key) {
	select {
	case t.keys <- k:
	default:
	}
}

type frameMsg struct{}

type model struct {
	t *Terminal
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		s := msg.String()
		if k, ok := keyNames[s]; ok {
			m.t.Press(k)
		}
		if s == "q" || s == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("RoboCup"))
	sb.WriteString("\n")
	sb.WriteString(m.t.Frame())
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("arrows: move • enter: run • backspace: close • q: quit"))
	return sb.String()
}

// Display

func (t *Terminal) XRes() int { return t.width }
func (t *Terminal) YRes() int { return t.height }

func (t *Terminal) Clear() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.rects = nil
	t.texts = nil
}

func (t *Terminal) Rectangle(x0, y0, x1, y1 float64, fill menu.Color) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.rects = append(t.rects, rect{x0, y0, x1, y1, fill})
}

func (t *Terminal) Text(x, y float64, s string, fill menu.Color, align menu.Align) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.texts = append(t.texts, text{x, y, s})
}

func (t *Terminal) Update() error {
	t.lock.Lock()
	t.frame = render(t.rects, t.texts)
	p := t.program
	t.lock.Unlock()
	if p != nil {
		go p.Send(frameMsg{})
	}
	return nil
}

// Frame is the last rendered screen.
func (t *Terminal) Frame() string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.frame
}

// render lays the rectangles out as a grid of boxes, row by row, and puts
// each text in the box it starts in or, failing that, the nearest one.
func render(rects []rect, texts []text) string {
	if len(rects) == 0 {
		return ""
	}
	order := make([]int, len(rects))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := rects[order[a]], rects[order[b]]
		if ra.y0 != rb.y0 {
			return ra.y0 < rb.y0
		}
		return ra.x0 < rb.x0
	})

	labels := make([][]string, len(rects))
	for _, tx := range texts {
		i := owner(rects, tx)
		labels[i] = append(labels[i], strings.Split(tx.s, "\n")...)
	}

	var rows []string
	var row []string
	for n, i := range order {
		r := rects[i]
		style := cellStyle
		if r.fill == menu.Black {
			style = style.Reverse(true)
		}
		row = append(row, style.Render(strings.Join(labels[i], "\n")))
		if n == len(order)-1 || rects[order[n+1]].y0 != r.y0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func owner(rects []rect, tx text) int {
	best, bestDist := 0, math.Inf(1)
	for i, r := range rects {
		if tx.x >= r.x0 && tx.x < r.x1 && tx.y >= r.y0 && tx.y < r.y1 {
			return i
		}
		d := math.Hypot(tx.x-(r.x0+r.x1)/2, tx.y-(r.y0+r.y1)/2)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Buttons

// Process releases the key seen by the previous Process, or else takes
// the next queued press, so every press is followed by a release.
func (t *Terminal) Process() {
	t.lock.Lock()
	defer t.lock.Unlock()
	if len(t.pressed) > 0 {
		t.pressed = map[input.Key]bool{}
		return
	}
	select {
	case k := <-t.keys:
		t.pressed[k] = true
	default:
	}
}

func (t *Terminal) Pressed(k input.Key) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.pressed[k]
}

func (t *Terminal) PressedKeys() []input.Key {
	t.lock.Lock()
	defer t.lock.Unlock()
	var keys []input.Key
	for _, k := range input.AllKeys {
		if t.pressed[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// Any reports and consumes a queued press.
func (t *Terminal) Any() bool {
	select {
	case <-t.keys:
		return true
	default:
		return false
	}
}

// WaitForReleased returns at once; terminal keys never stay down.
func (t *Terminal) WaitForReleased(ctx context.Context, keys []input.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	for _, k := range keys {
		delete(t.pressed, k)
	}
	return nil
}

var (
	_ menu.Display  = (*Terminal)(nil)
	_ input.Buttons = (*Terminal)(nil)
)
