package menu

import (
	"image"
	"math"
	"strings"
)

// Glyph metrics of the brick's default font, used to centre labels.
const (
	charHalfWidth = 3.25
	lineHalfPitch = 6
)

// Button is one cell of the menu. Script is optional; a button without one
// is a label only.
type Button struct {
	Text   string
	Icon   image.Image
	Script func()
}

func NewButton(text string, script func()) *Button {
	return &Button{Text: text, Script: script}
}

// Rect is a cell in display pixels.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Draw renders the button into rect, inverted when selected. Each word of the
// label goes on its own line, centred in the cell.
func (b *Button) Draw(d Display, rect Rect, selected bool) {
	fill, ink := White, Black
	if selected {
		fill, ink = Black, White
	}
	d.Rectangle(rect.X0, rect.Y0, rect.X1, rect.Y1, fill)

	width, height := rect.X1-rect.X0, rect.Y1-rect.Y0
	words := strings.Split(b.Text, " ")
	longest := 0
	for _, w := range words {
		if len(w) > longest {
			longest = len(w)
		}
	}

	x := rect.X0 + math.Floor(width/2) - float64(longest)*charHalfWidth
	y := rect.Y0 + math.Floor(height/2) - float64(len(words))*lineHalfPitch
	d.Text(x, y, strings.ReplaceAll(b.Text, " ", "\n"), ink, AlignCenter)

	if b.Icon != nil {
		if id, ok := d.(IconDrawer); ok {
			id.DrawIcon(b.Icon, rect.X0+width/2, rect.Y0+height/4)
		}
	}
}
