// Package input translates SDL2 events into viewer events.
package input

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// Mouse buttons as reported in Event.Button.
const (
	ButtonLeft  = sdl.BUTTON_LEFT
	ButtonRight = sdl.BUTTON_RIGHT
)

// Event is a processed input event.
type Event struct {
	Type EventType
	// Key is the character of a key press, with shift applied to letters, or 0
	// for keys without one. Escape is 27.
	Key    rune
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

// Input collects events between frames.
type Input struct {
	events  []Event
	pending []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events, including any picked up by Wait, and converts them.
// It returns true if a quit was requested.
func (i *Input) Update() bool {
	i.events = append(i.events[:0], i.pending...)
	i.pending = i.pending[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := convert(event); ok {
			i.events = append(i.events, e)
		}
	}

	for _, e := range i.events {
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}

// Wait blocks until an event arrives or timeout passes. A received event is
// kept for the next Update.
func (i *Input) Wait(timeout time.Duration) {
	ms := int(timeout / time.Millisecond)
	if ms <= 0 {
		return
	}
	if event := sdl.WaitEventTimeout(ms); event != nil {
		if e, ok := convert(event); ok {
			i.pending = append(i.pending, e)
		}
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

func convert(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			return Event{
				Type: EventKeyDown,
				Key:  keyRune(e.Keysym.Sym, e.Keysym.Mod),
			}, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
		}, true

	case *sdl.MouseButtonEvent:
		t := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = EventMouseDown
		}
		return Event{
			Type:   t,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: e.Button,
		}, true
	}
	return Event{}, false
}

// keyRune maps a keycode to its character. SDL keycodes of printable ASCII
// keys are the characters themselves.
func keyRune(sym sdl.Keycode, mod uint16) rune {
	if sym == sdl.K_ESCAPE {
		return 27
	}
	if sym < 32 || sym > 126 {
		return 0
	}
	r := rune(sym)
	if r >= 'a' && r <= 'z' && mod&(sdl.KMOD_SHIFT|sdl.KMOD_CAPS) != 0 {
		r -= 'a' - 'A'
	}
	return r
}
