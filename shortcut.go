package ocif

import (
	"sort"
	"strings"
)

// Shortcut binds a key chord to a handler. Key is compared case-sensitively
// against the event's key ("a", "Delete", "ArrowLeft", "+"). CtrlOrCmd
// accepts either Ctrl or Meta, and when false neither may be held. Shift and
// Alt must match exactly.
type Shortcut struct {
	ID          string
	Key         string
	CtrlOrCmd   bool
	Shift       bool
	Alt         bool
	Description string
	Handler     func(ev *Event) bool
	Priority    int
}

// KeyEvent is the part of a key event shortcut matching looks at.
type KeyEvent struct {
	Key       string
	Modifiers KeyModifiers
}

// MatchShortcut reports whether ev triggers s.
func MatchShortcut(s Shortcut, ev KeyEvent) bool {
	if s.Key != ev.Key {
		return false
	}
	if s.CtrlOrCmd != ev.Modifiers.CtrlOrCmd() {
		return false
	}
	if s.Shift != ev.Modifiers.Has(ModShift) {
		return false
	}
	return s.Alt == ev.Modifiers.Has(ModAlt)
}

// String renders the chord, e.g. "Ctrl+Shift+z".
func (s Shortcut) String() string {
	var parts []string
	if s.CtrlOrCmd {
		parts = append(parts, "Ctrl")
	}
	if s.Alt {
		parts = append(parts, "Alt")
	}
	if s.Shift {
		parts = append(parts, "Shift")
	}
	parts = append(parts, s.Key)
	return strings.Join(parts, "+")
}

type boundShortcut struct {
	plugin string
	s      Shortcut
}

// Shortcuts returns every registered shortcut, highest priority first.
func (m *PluginManager) Shortcuts() []Shortcut {
	bound := m.boundShortcuts()
	out := make([]Shortcut, len(bound))
	for i, b := range bound {
		out[i] = b.s
	}
	return out
}

func (m *PluginManager) boundShortcuts() []boundShortcut {
	var all []boundShortcut
	for _, p := range m.plugins {
		if p.Shortcuts == nil {
			continue
		}
		for _, s := range p.Shortcuts() {
			all = append(all, boundShortcut{plugin: p.Name, s: s})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].s.Priority > all[j].s.Priority
	})
	return all
}

// HandleShortcut runs the matching shortcut handlers for a key-down event,
// highest priority first, until one returns true.
func (m *PluginManager) HandleShortcut(ev *Event) bool {
	ke := ev.KeyEvent()
	for _, b := range m.boundShortcuts() {
		if b.s.Handler == nil || !MatchShortcut(b.s, ke) {
			continue
		}
		s := b.s
		if m.safeCall(b.plugin, "shortcut "+s.String(), func() bool { return s.Handler(ev) }) {
			return true
		}
	}
	return false
}
