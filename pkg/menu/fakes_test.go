package menu

import (
	"context"

	"github.com/rcj-soccer/robocup/pkg/input"
)

type rectOp struct {
	rect Rect
	fill Color
}

type textOp struct {
	x, y float64
	text string
	fill Color
}

type fakeDisplay struct {
	rects   []rectOp
	texts   []textOp
	clears  int
	updates int
}

func (d *fakeDisplay) Clear() {
	d.clears++
	d.rects = nil
	d.texts = nil
}

func (d *fakeDisplay) Rectangle(x0, y0, x1, y1 float64, fill Color) {
	d.rects = append(d.rects, rectOp{Rect{x0, y0, x1, y1}, fill})
}

func (d *fakeDisplay) Text(x, y float64, text string, fill Color, align Align) {
	d.texts = append(d.texts, textOp{x, y, text, fill})
}

func (d *fakeDisplay) Update() error {
	d.updates++
	return nil
}

func (d *fakeDisplay) XRes() int { return 178 }
func (d *fakeDisplay) YRes() int { return 128 }

// fakeButtons replays one frame of pressed keys per Process call; once the
// frames run out nothing is pressed.
type fakeButtons struct {
	frames    [][]input.Key
	current   map[input.Key]bool
	processed int
	waits     [][]input.Key
}

func press(frames ...[]input.Key) *fakeButtons {
	return &fakeButtons{frames: frames, current: map[input.Key]bool{}}
}

func keys(k ...input.Key) []input.Key {
	return k
}

func (b *fakeButtons) Process() {
	b.processed++
	b.current = map[input.Key]bool{}
	if len(b.frames) == 0 {
		return
	}
	for _, k := range b.frames[0] {
		b.current[k] = true
	}
	b.frames = b.frames[1:]
}

func (b *fakeButtons) Pressed(k input.Key) bool {
	return b.current[k]
}

func (b *fakeButtons) PressedKeys() []input.Key {
	var pressed []input.Key
	for _, k := range input.AllKeys {
		if b.current[k] {
			pressed = append(pressed, k)
		}
	}
	return pressed
}

func (b *fakeButtons) Any() bool {
	return len(b.current) > 0
}

func (b *fakeButtons) WaitForReleased(ctx context.Context, keys []input.Key) error {
	b.waits = append(b.waits, keys)
	return nil
}
