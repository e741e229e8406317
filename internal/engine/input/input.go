// Package input translates SDL2 events into viewer events.
package input

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a viewer event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseWheel
	EventMouseDrag
	EventFileDrop
)

// DragMode is the camera motion a mouse drag maps to.
type DragMode int

const (
	DragNone DragMode = iota
	DragOrbit
	DragPan
)

// Event represents a processed input event.
type Event struct {
	Type EventType

	// Time is the SDL timestamp, monotonic since SDL initialization.
	Time time.Duration

	Key    sdl.Keycode
	Shift  bool
	Width  int
	Height int

	MouseX int
	MouseY int
	Drag   DragMode
	Wheel  int // positive away from the user

	Path string
}

// Input handles all input processing.
type Input struct {
	events []Event

	poll     func() sdl.Event
	modState func() sdl.Keymod
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:   make([]Event, 0, 16),
		poll:     sdl.PollEvent,
		modState: sdl.GetModState,
	}
}

// Update polls SDL events and converts them to viewer events. A close request
// arrives as EventQuit.
func (i *Input) Update() {
	i.events = i.events[:0]

	for event := i.poll(); event != nil; event = i.poll() {
		if e, ok := Translate(event, i.modState()); ok {
			i.events = append(i.events, e)
		}
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Translate converts one SDL event. ok is false for events the viewer ignores.
func Translate(event sdl.Event, mod sdl.Keymod) (e Event, ok bool) {
	e.Time = time.Duration(event.GetTimestamp()) * time.Millisecond
	e.Shift = mod&sdl.KMOD_SHIFT != 0

	switch ev := event.(type) {
	case *sdl.QuitEvent:
		e.Type = EventQuit

	case *sdl.WindowEvent:
		if ev.Event != sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{}, false
		}
		e.Type = EventWindowResize
		e.Width = int(ev.Data1)
		e.Height = int(ev.Data2)

	case *sdl.KeyboardEvent:
		if ev.Type != sdl.KEYDOWN || ev.Repeat != 0 {
			return Event{}, false
		}
		e.Type = EventKeyDown
		e.Key = ev.Keysym.Sym
		e.Shift = sdl.Keymod(ev.Keysym.Mod)&sdl.KMOD_SHIFT != 0

	case *sdl.MouseWheelEvent:
		dy := ev.Y
		if ev.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dy = -dy
		}
		if dy == 0 {
			return Event{}, false
		}
		e.Type = EventMouseWheel
		e.Wheel = int(dy)

	case *sdl.MouseMotionEvent:
		mode := DragModeFor(ev.State)
		if mode == DragNone {
			return Event{}, false
		}
		e.Type = EventMouseDrag
		e.Drag = mode
		e.MouseX = int(ev.X)
		e.MouseY = int(ev.Y)

	case *sdl.DropEvent:
		if ev.Type != sdl.DROPFILE || ev.File == "" {
			return Event{}, false
		}
		e.Type = EventFileDrop
		e.Path = ev.File

	default:
		return Event{}, false
	}

	return e, true
}

// DragModeFor maps held mouse buttons to a drag mode. The left button orbits;
// the right or middle button pans. Left wins when several are held.
func DragModeFor(buttons uint32) DragMode {
	switch {
	case buttons&sdl.ButtonLMask() != 0:
		return DragOrbit
	case buttons&(sdl.ButtonRMask()|sdl.ButtonMMask()) != 0:
		return DragPan
	default:
		return DragNone
	}
}
