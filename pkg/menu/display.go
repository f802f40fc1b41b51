package menu

import "image"

type Color int

const (
	White Color = iota
	Black
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Display is the drawing surface the menu renders to. Coordinates are pixels
// with the origin top left; nothing is visible until Update.
type Display interface {
	Clear()
	Rectangle(x0, y0, x1, y1 float64, fill Color)
	// Text draws possibly multi-line text with its top-left corner at x, y;
	// align applies between lines.
	Text(x, y float64, text string, fill Color, align Align)
	Update() error
	XRes() int
	YRes() int
}

// IconDrawer is implemented by displays that can draw bitmaps.
type IconDrawer interface {
	// DrawIcon draws img centred on x, y.
	DrawIcon(img image.Image, x, y float64)
}
