package fx

import (
	"fmt"
	"strings"
)

// FrameLogEntry is one recorded event during a headless run.
type FrameLogEntry struct {
	Frame    int
	Effect   string  // effect name
	Category string  // pointer, surface, stats, invariant
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[F=042] network   stats    visible         37
func (e FrameLogEntry) String() string {
	return fmt.Sprintf("[F=%03d] %-9s %-9s %-15s %s",
		e.Frame, e.Effect, e.Category, e.Key, e.Value)
}

// FrameLog collects structured events during a headless run.
type FrameLog struct {
	entries []FrameLogEntry
	verbose bool
}

// NewFrameLog creates a FrameLog. If verbose is true, per-frame stats are
// also recorded.
func NewFrameLog(verbose bool) *FrameLog {
	return &FrameLog{verbose: verbose}
}

// Add records a new entry.
func (fl *FrameLog) Add(frame int, effect, category, key, value string, numVal float64) {
	fl.entries = append(fl.entries, FrameLogEntry{
		Frame:    frame,
		Effect:   effect,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (fl *FrameLog) AddVerbose(frame int, effect, category, key, value string, numVal float64) {
	if !fl.verbose {
		return
	}
	fl.Add(frame, effect, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (fl *FrameLog) Entries() []FrameLogEntry {
	return fl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (fl *FrameLog) Filter(category, key string) []FrameLogEntry {
	var out []FrameLogEntry
	for _, e := range fl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (fl *FrameLog) CountCategory(category, key string) int {
	return len(fl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (fl *FrameLog) LastOf(category, key string) (FrameLogEntry, bool) {
	entries := fl.Filter(category, key)
	if len(entries) == 0 {
		return FrameLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// Format returns the full log as a single string for t.Log output.
func (fl *FrameLog) Format() string {
	var sb strings.Builder
	for _, e := range fl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
