// Package input translates SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/terrainview/internal/orientation"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventWindowExposed
	EventKeyDown
	EventMouseDown
	EventMouseUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    orientation.Key
	Escape bool
	// Capture is set for the screenshot key.
	Capture bool
	Width   int
	Height  int
	MouseX  int
	MouseY  int
	Button  uint8
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			case sdl.WINDOWEVENT_EXPOSED:
				i.events = append(i.events, Event{Type: EventWindowExposed})
			}

		case *sdl.KeyboardEvent:
			// Auto-repeat counts as further presses, like held arrow keys should
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{
					Type:    EventKeyDown,
					Key:     TranslateKey(e.Keysym.Scancode),
					Escape:  e.Keysym.Scancode == sdl.SCANCODE_ESCAPE,
					Capture: e.Keysym.Scancode == sdl.SCANCODE_F12,
				})
			}

		case *sdl.MouseButtonEvent:
			if e.Button != sdl.BUTTON_LEFT {
				continue
			}
			t := EventMouseDown
			if e.Type == sdl.MOUSEBUTTONUP {
				t = EventMouseUp
			}
			i.events = append(i.events, Event{
				Type:   t,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

var keyMap = map[sdl.Scancode]orientation.Key{
	sdl.SCANCODE_UP:       orientation.KeyUp,
	sdl.SCANCODE_DOWN:     orientation.KeyDown,
	sdl.SCANCODE_LEFT:     orientation.KeyLeft,
	sdl.SCANCODE_RIGHT:    orientation.KeyRight,
	sdl.SCANCODE_PAGEUP:   orientation.KeyPageUp,
	sdl.SCANCODE_PAGEDOWN: orientation.KeyPageDown,
	sdl.SCANCODE_R:        orientation.KeyToggleRotate,
}

// TranslateKey maps an SDL scancode to a controller key. Unmapped keys
// return orientation.KeyNone.
func TranslateKey(sc sdl.Scancode) orientation.Key {
	return keyMap[sc]
}
