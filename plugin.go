package ocif

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
)

var (
	// ErrInvalidPlugin is returned by Register for a nil plugin or one
	// without a name.
	ErrInvalidPlugin = errors.New("invalid plugin")
	// ErrDuplicatePlugin is returned by Register when a plugin with the same
	// name is already registered.
	ErrDuplicatePlugin = errors.New("duplicate plugin")
)

// EventHandler is one plugin's reaction to an event kind. Handle returns
// true when it consumed the event, which stops dispatch.
type EventHandler struct {
	Priority int
	Handle   func(ev *Event) bool
}

// ToolbarKind distinguishes toolbar item renderings.
type ToolbarKind string

const (
	ToolbarButton    ToolbarKind = "button"
	ToolbarToggle    ToolbarKind = "toggle"
	ToolbarSeparator ToolbarKind = "separator"
)

// ToolbarItem describes an entry a host may show in its toolbar. The core
// does not draw toolbars.
type ToolbarItem struct {
	ID       string
	Kind     ToolbarKind
	Icon     string
	Label    string
	Tooltip  string
	Shortcut string
	Group    string
	IsActive func(e *Editor) bool
	OnClick  func(e *Editor)
	Priority int
}

// Plugin is a named bundle of optional behavior. Nil hooks are skipped.
type Plugin struct {
	Name    string
	Version string

	OnPointerDown *EventHandler
	OnPointerMove *EventHandler
	OnPointerUp   *EventHandler
	OnKeyDown     *EventHandler
	OnKeyUp       *EventHandler

	ToolbarItems func() []ToolbarItem
	Shortcuts    func() []Shortcut
	Extensions   func() []ExtensionDefinition

	OnActivate   func(e *Editor)
	OnDeactivate func(e *Editor)
}

// handler returns the plugin's handler for kind, or nil.
func (p *Plugin) handler(kind EventKind) *EventHandler {
	switch kind {
	case EventPointerDown:
		return p.OnPointerDown
	case EventPointerMove:
		return p.OnPointerMove
	case EventPointerUp:
		return p.OnPointerUp
	case EventKeyDown:
		return p.OnKeyDown
	case EventKeyUp:
		return p.OnKeyUp
	}
	return nil
}

// PluginManager holds registered plugins in registration order and routes
// events to them.
type PluginManager struct {
	plugins    []*Plugin
	extensions map[string]ExtensionDefinition
	log        *log.Logger
}

// NewPluginManager returns an empty manager. Handler panics are reported to
// logger.
func NewPluginManager(logger *log.Logger) *PluginManager {
	if logger == nil {
		logger = defaultLogger()
	}
	return &PluginManager{
		extensions: make(map[string]ExtensionDefinition),
		log:        logger,
	}
}

// Register appends p.
func (m *PluginManager) Register(p *Plugin) error {
	if p == nil || p.Name == "" {
		return ErrInvalidPlugin
	}
	if _, ok := m.Plugin(p.Name); ok {
		return fmt.Errorf("register %q: %w", p.Name, ErrDuplicatePlugin)
	}
	m.plugins = append(m.plugins, p)
	m.addExtensions(p)
	return nil
}

// Unregister removes the named plugin and reports whether it was present.
func (m *PluginManager) Unregister(name string) bool {
	for i, p := range m.plugins {
		if p.Name != name {
			continue
		}
		copy(m.plugins[i:], m.plugins[i+1:])
		m.plugins[len(m.plugins)-1] = nil
		m.plugins = m.plugins[:len(m.plugins)-1]
		m.rebuildExtensions()
		return true
	}
	return false
}

// Plugins returns the registered plugins in registration order.
func (m *PluginManager) Plugins() []*Plugin {
	return append([]*Plugin(nil), m.plugins...)
}

// Plugin looks up a plugin by name.
func (m *PluginManager) Plugin(name string) (*Plugin, bool) {
	for _, p := range m.plugins {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

func (m *PluginManager) addExtensions(p *Plugin) {
	if p.Extensions == nil {
		return
	}
	for _, def := range p.Extensions() {
		if def.Type == "" {
			continue
		}
		m.extensions[def.Type] = def
	}
}

func (m *PluginManager) rebuildExtensions() {
	m.extensions = make(map[string]ExtensionDefinition)
	for _, p := range m.plugins {
		m.addExtensions(p)
	}
}

// Extension returns the definition registered for an extension type. When
// several plugins define the same type the latest registration wins.
func (m *PluginManager) Extension(typ string) (ExtensionDefinition, bool) {
	def, ok := m.extensions[typ]
	return def, ok
}

type boundHandler struct {
	plugin string
	h      *EventHandler
}

// Dispatch offers ev to every plugin handler for its kind, highest priority
// first. Equal priorities run in registration order. The first handler that
// returns true stops dispatch. A handler that panics is logged and treated
// as not having handled the event.
func (m *PluginManager) Dispatch(ev *Event) bool {
	var handlers []boundHandler
	for _, p := range m.plugins {
		if h := p.handler(ev.Kind); h != nil && h.Handle != nil {
			handlers = append(handlers, boundHandler{plugin: p.Name, h: h})
		}
	}
	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].h.Priority > handlers[j].h.Priority
	})
	for _, bh := range handlers {
		if m.safeCall(bh.plugin, ev.Kind.String(), func() bool { return bh.h.Handle(ev) }) {
			return true
		}
	}
	return false
}

// safeCall runs fn, converting a panic into a logged false.
func (m *PluginManager) safeCall(plugin, what string, fn func() bool) (handled bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("plugin handler panicked", "plugin", plugin, "event", what, "panic", r)
			handled = false
		}
	}()
	return fn()
}

// ToolbarItems collects every plugin's toolbar items sorted by descending
// priority. Equal priorities keep registration order.
func (m *PluginManager) ToolbarItems() []ToolbarItem {
	var items []ToolbarItem
	for _, p := range m.plugins {
		if p.ToolbarItems != nil {
			items = append(items, p.ToolbarItems()...)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority > items[j].Priority
	})
	return items
}

// Activate calls every plugin's OnActivate in registration order.
func (m *PluginManager) Activate(e *Editor) {
	for _, p := range m.plugins {
		if p.OnActivate != nil {
			p.OnActivate(e)
		}
	}
}

// Deactivate calls every plugin's OnDeactivate in registration order.
func (m *PluginManager) Deactivate(e *Editor) {
	for _, p := range m.plugins {
		if p.OnDeactivate != nil {
			p.OnDeactivate(e)
		}
	}
}
