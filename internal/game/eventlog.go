package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 280
	logMaxEntries = 40
	logLineHeight = 14
)

// EventKind tags an event log line.
type EventKind uint8

const (
	EventInfo EventKind = iota
	EventSurface
	EventPointer
	EventConfig
	EventError
)

var eventColors = [...]color.RGBA{
	EventInfo:    {R: 150, G: 150, B: 150, A: 255},
	EventSurface: {R: 60, G: 200, B: 220, A: 255},
	EventPointer: {R: 220, G: 80, B: 200, A: 255},
	EventConfig:  {R: 230, G: 200, B: 60, A: 255},
	EventError:   {R: 230, G: 60, B: 60, A: 255},
}

// Event is a single line in the event log.
type Event struct {
	Tick    int
	Effect  string
	Kind    EventKind
	Message string
}

// EventLog is a ring buffer of host events rendered on-screen.
type EventLog struct {
	entries []Event
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]Event, logMaxEntries),
	}
}

// Add appends an entry to the log, overwriting the oldest when full.
func (el *EventLog) Add(tick int, effect string, kind EventKind, msg string) {
	el.entries[el.head] = Event{
		Tick:    tick,
		Effect:  effect,
		Kind:    kind,
		Message: msg,
	}
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// Len returns how many entries are held.
func (el *EventLog) Len() int { return el.count }

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []Event {
	result := make([]Event, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// visible returns the newest entries that fit a panel of height panelH.
func (el *EventLog) visible(panelH int) []Event {
	entries := el.Recent()
	maxVisible := max((panelH-24)/logLineHeight, 0)
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	return entries
}

// Draw renders the log panel along the right edge of the screen.
func (el *EventLog) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 6, G: 8, B: 12, A: 200}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)

	y := 20
	for _, e := range el.visible(panelH) {
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, eventColors[e.Kind], false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d %s", e.Tick, e.Message), panelX+12, y)
		y += logLineHeight
	}
}
