// Package input defines the brick-button capability shared by the menu, the
// run modes and the button drivers.
package input

import (
	"context"
	"fmt"
)

type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyBackspace
)

// AllKeys lists every key in a stable order.
var AllKeys = []Key{KeyUp, KeyDown, KeyLeft, KeyRight, KeyEnter, KeyBackspace}

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Buttons is the polled button state. Pressed and PressedKeys report the
// state captured by the last Process call; Any reports whether anything is
// pressed right now.
type Buttons interface {
	Pressed(k Key) bool
	PressedKeys() []Key
	Any() bool
	Process()
	// WaitForReleased blocks until none of keys is held.
	WaitForReleased(ctx context.Context, keys []Key) error
}
