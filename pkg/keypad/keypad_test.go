package keypad

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/rcj-soccer/robocup/pkg/input"
)

func stream(t *testing.T, wide bool, events ...[3]int) io.ReadCloser {
	t.Helper()
	var buf bytes.Buffer
	for i, e := range events {
		var raw any
		if wide {
			raw = rawEvent64{Sec: int64(i), Type: uint16(e[0]), Code: uint16(e[1]), Value: int32(e[2])}
		} else {
			raw = rawEvent32{Sec: int32(i), Type: uint16(e[0]), Code: uint16(e[1]), Value: int32(e[2])}
		}
		if err := binary.Write(&buf, binary.LittleEndian, raw); err != nil {
			t.Fatal(err)
		}
	}
	return io.NopCloser(&buf)
}

func TestReadEventLayouts(t *testing.T) {
	for _, wide := range []bool{true, false} {
		k := newKeypad(stream(t, wide, [3]int{EventTypeKey, 106, ValuePress}), wide)
		e, err := k.ReadEvent()
		if err != nil {
			t.Fatalf("wide=%v: %v", wide, err)
		}
		key, ok := e.Key()
		if !ok || key != input.KeyRight || e.Value != ValuePress {
			t.Errorf("wide=%v: decoded %v as %v/%v", wide, e, key, ok)
		}
		if _, err := k.ReadEvent(); err != io.EOF {
			t.Errorf("wide=%v: expected EOF, got %v", wide, err)
		}
	}
}

func TestLoopTracksPresses(t *testing.T) {
	const synReport = 0
	k := newKeypad(stream(t, true,
		[3]int{EventTypeKey, 28, ValuePress},
		[3]int{synReport, 0, 0},
		[3]int{EventTypeKey, 103, ValuePress},
		[3]int{EventTypeKey, 103, ValueRelease},
		[3]int{EventTypeKey, 14, ValueRepeat},
		[3]int{EventTypeKey, 999, ValuePress},
	), true)

	if err := k.Loop(context.Background()); err != io.EOF {
		t.Fatalf("Loop returned %v, expected EOF", err)
	}

	if !k.Any() {
		t.Fatal("expected buttons to be held")
	}
	if k.Pressed(input.KeyEnter) {
		t.Error("Pressed must report the processed snapshot, not live state")
	}
	k.Process()
	expected := []input.Key{input.KeyEnter, input.KeyBackspace}
	if got := k.PressedKeys(); !reflect.DeepEqual(got, expected) {
		t.Errorf("PressedKeys = %v, expected %v", got, expected)
	}
}

// closedOnCancel blocks reads until ctx is done, then fails the way a
// device closed by shutdown does.
type closedOnCancel struct {
	ctx context.Context
}

func (c closedOnCancel) Read([]byte) (int, error) {
	<-c.ctx.Done()
	return 0, os.ErrClosed
}

func (c closedOnCancel) Close() error { return nil }

func TestLoopStopsQuietlyOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	k := newKeypad(closedOnCancel{ctx: ctx}, true)

	done := make(chan error, 1)
	go func() { done <- k.Loop(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Loop returned %v, expected context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Loop did not return after cancel")
	}
}

func TestWaitForReleased(t *testing.T) {
	k := newKeypad(io.NopCloser(&bytes.Buffer{}), true)
	k.PollInterval = time.Millisecond
	k.apply(&Event{Type: EventTypeKey, Code: 28, Value: ValuePress})
	k.Process()

	go func() {
		time.Sleep(5 * time.Millisecond)
		k.apply(&Event{Type: EventTypeKey, Code: 28, Value: ValueRelease})
	}()
	if err := k.WaitForReleased(context.Background(), []input.Key{input.KeyEnter}); err != nil {
		t.Fatal(err)
	}
	if k.Pressed(input.KeyEnter) {
		t.Error("snapshot not refreshed after release")
	}

	k.apply(&Event{Type: EventTypeKey, Code: 108, Value: ValuePress})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := k.WaitForReleased(ctx, []input.Key{input.KeyDown}); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
