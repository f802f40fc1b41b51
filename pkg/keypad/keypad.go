// Package keypad reads the brick buttons from their Linux evdev device.
//
// Button codes (gpio-keys on the EV3):
//
//	Up        = 103 (KEY_UP)
//	Down      = 108 (KEY_DOWN)
//	Left      = 105 (KEY_LEFT)
//	Right     = 106 (KEY_RIGHT)
//	Enter     = 28  (KEY_ENTER)
//	Backspace = 14  (KEY_BACKSPACE)
package keypad

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
	"os"
	"sync"
	"time"

	"github.com/rcj-soccer/robocup/internal/log"
	"github.com/rcj-soccer/robocup/pkg/input"
)

const (
	DefaultDevice = "/dev/input/by-path/platform-gpio_keys-event"

	EventTypeKey = 0x01

	ValueRelease = 0
	ValuePress   = 1
	ValueRepeat  = 2
)

var keyCodes = map[uint16]input.Key{
	103: input.KeyUp,
	108: input.KeyDown,
	105: input.KeyLeft,
	106: input.KeyRight,
	28:  input.KeyEnter,
	14:  input.KeyBackspace,
}

// rawEvent64 and rawEvent32 are struct input_event with a 64- and 32-bit
// struct timeval.
type rawEvent64 struct {
	Sec, Usec int64
	Type      uint16
	Code      uint16
	Value     int32
}

type rawEvent32 struct {
	Sec, Usec int32
	Type      uint16
	Code      uint16
	Value     int32
}

type Event struct {
	Time  time.Time
	Type  uint16
	Code  uint16
	Value int32
}

func (e *Event) String() string {
	return fmt.Sprintf("type=%d code=%d value=%d", e.Type, e.Code, e.Value)
}

// Key maps the event to a brick button.
func (e *Event) Key() (input.Key, bool) {
	if e.Type != EventTypeKey {
		return 0, false
	}
	k, ok := keyCodes[e.Code]
	return k, ok
}

type Keypad struct {
	device io.ReadCloser
	wide   bool

	// PollInterval is how often WaitForReleased rechecks the buttons.
	PollInterval time.Duration

	lock     sync.Mutex
	live     map[input.Key]bool
	snapshot map[input.Key]bool
}

func Open(device string) (*Keypad, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	return New(f), nil
}

// New wraps an evdev stream using the host's timeval width.
func New(r io.ReadCloser) *Keypad {
	return newKeypad(r, bits.UintSize == 64)
}

func newKeypad(r io.ReadCloser, wide bool) *Keypad {
	return &Keypad{
		device:       r,
		wide:         wide,
		PollInterval: 10 * time.Millisecond,
		live:         map[input.Key]bool{},
		snapshot:     map[input.Key]bool{},
	}
}

func (k *Keypad) ReadEvent() (*Event, error) {
	if k.wide {
		var raw rawEvent64
		if err := binary.Read(k.device, binary.LittleEndian, &raw); err != nil {
			return nil, err
		}
		return &Event{
			Time:  time.Unix(raw.Sec, raw.Usec*1000),
			Type:  raw.Type,
			Code:  raw.Code,
			Value: raw.Value,
		}, nil
	}
	var raw rawEvent32
	if err := binary.Read(k.device, binary.LittleEndian, &raw); err != nil {
		return nil, err
	}
	return &Event{
		Time:  time.Unix(int64(raw.Sec), int64(raw.Usec)*1000),
		Type:  raw.Type,
		Code:  raw.Code,
		Value: raw.Value,
	}, nil
}

// Loop reads events into the live button state until ctx is done or the
// device fails. A read that fails because shutdown closed the device
// returns ctx's error.
func (k *Keypad) Loop(ctx context.Context) error {
	logger := log.Subsystem("keypad")
	for ctx.Err() == nil {
		event, err := k.ReadEvent()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("Failed to read from keypad", "err", err)
			return err
		}
		logger.Debug("Key event", "event", event.String())
		k.apply(event)
	}
	return ctx.Err()
}

func (k *Keypad) apply(e *Event) {
	key, ok := e.Key()
	if !ok {
		return
	}
	k.lock.Lock()
	defer k.lock.Unlock()
	switch e.Value {
	case ValuePress, ValueRepeat:
		k.live[key] = true
	case ValueRelease:
		delete(k.live, key)
	}
}

// Process captures the live state for Pressed and PressedKeys.
func (k *Keypad) Process() {
	k.lock.Lock()
	defer k.lock.Unlock()
	k.snapshot = make(map[input.Key]bool, len(k.live))
	for key := range k.live {
		k.snapshot[key] = true
	}
}

func (k *Keypad) Pressed(key input.Key) bool {
	k.lock.Lock()
	defer k.lock.Unlock()
	return k.snapshot[key]
}

func (k *Keypad) PressedKeys() []input.Key {
	k.lock.Lock()
	defer k.lock.Unlock()
	var pressed []input.Key
	for _, key := range input.AllKeys {
		if k.snapshot[key] {
			pressed = append(pressed, key)
		}
	}
	return pressed
}

func (k *Keypad) Any() bool {
	k.lock.Lock()
	defer k.lock.Unlock()
	return len(k.live) > 0
}

func (k *Keypad) WaitForReleased(ctx context.Context, keys []input.Key) error {
	for {
		if !k.anyHeld(keys) {
			k.Process()
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(k.PollInterval):
		}
	}
}

func (k *Keypad) anyHeld(keys []input.Key) bool {
	k.lock.Lock()
	defer k.lock.Unlock()
	for _, key := range keys {
		if k.live[key] {
			return true
		}
	}
	return false
}

func (k *Keypad) Close() error {
	return k.device.Close()
}

var _ input.Buttons = (*Keypad)(nil)
