// Package buttons turns physical key presses into preview commands.
package buttons

import (
	"context"
	"sync"

	"github.com/rook-computer/splashpreview/internal/logging"
	"github.com/rook-computer/splashpreview/internal/system"
)

type Event string

const (
	ToggleFullscreen Event = "toggle-fullscreen"
	NextPlatform     Event = "next-platform"
	PrevPlatform     Event = "prev-platform"
	Exit             Event = "exit"
)

type Buttons interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

type NoopButtons struct{ ch chan Event }

func NewNoopButtons() *NoopButtons { return &NoopButtons{ch: make(chan Event)} }

func (n *NoopButtons) Start(ctx context.Context) error { return nil }
func (n *NoopButtons) Stop() error                     { return nil }
func (n *NoopButtons) Events() <-chan Event            { return n.ch }

// keymap binds evdev key codes to events.
var keymap = map[uint16]Event{
	system.KeyF11:   ToggleFullscreen,
	system.KeyRight: NextPlatform,
	system.KeyLeft:  PrevPlatform,
	system.KeyF4:    Exit,
}

func eventForKey(code uint16) (Event, bool) {
	ev, ok := keymap[code]
	return ev, ok
}

// Keyboard reads key presses from every evdev device: F11 toggles
// fullscreen, Left and Right cycle the platform and F4 exits.
type Keyboard struct {
	Logger logging.Logger

	ch     chan Event
	once   sync.Once
	cancel context.CancelFunc
	// watch is replaced in tests.
	watch func(ctx context.Context, logger logging.Logger, onKey func(code uint16))
}

func NewKeyboard(logger logging.Logger) *Keyboard {
	return &Keyboard{Logger: logger, ch: make(chan Event, 8), watch: system.WatchKeys}
}

func (k *Keyboard) Start(ctx context.Context) error {
	ctx, k.cancel = context.WithCancel(ctx)
	k.watch(ctx, k.Logger, func(code uint16) { k.press(ctx, code) })
	return nil
}

func (k *Keyboard) press(ctx context.Context, code uint16) {
	ev, ok := eventForKey(code)
	if !ok {
		return
	}
	select {
	case k.ch <- ev:
	case <-ctx.Done():
	}
}

// Stop ends key watching. The events channel stays open since device
// readers may still be unwinding.
func (k *Keyboard) Stop() error {
	k.once.Do(func() {
		if k.cancel != nil {
			k.cancel()
		}
	})
	return nil
}

func (k *Keyboard) Events() <-chan Event { return k.ch }

var (
	_ Buttons = (*NoopButtons)(nil)
	_ Buttons = (*Keyboard)(nil)
)
