package ocif

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// ErrNotMounted is returned by operations that need a container before
// Mount has been called.
var ErrNotMounted = errors.New("editor not mounted")

// Option configures an Editor.
type Option func(*Editor)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(e *Editor) { e.cfg = cfg.normalize() }
}

// WithLogger sets the logger used for plugin failures and debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPlugins registers additional plugins after the built-in ones.
func WithPlugins(plugins ...*Plugin) Option {
	return func(e *Editor) { e.extraPlugins = append(e.extraPlugins, plugins...) }
}

// WithScheduler replaces the default FrameQueue. Hosts with their own frame
// callbacks use this so node patches flush on the host's frame.
func WithScheduler(s Scheduler) Option {
	return func(e *Editor) {
		if s != nil {
			e.scheduler = s
		}
	}
}

// WithClipboard mirrors copies into c, typically the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(e *Editor) { e.sysClipboard = c }
}

// WithoutBuiltins skips registration of the built-in plugins. Extension
// renderers are still registered.
func WithoutBuiltins() Option {
	return func(e *Editor) { e.skipBuiltins = true }
}

// Editor is the interactive state of one editing session: camera, mode,
// selection, the active gesture and the pending node patches. The host owns
// the document value; the editor reports every change through onChange.
//
// An Editor is not safe for concurrent use.
type Editor struct {
	doc      Document
	onChange func(Document)

	cfg       Config
	log       *log.Logger
	baseLevel log.Level
	debug     bool

	plugins      *PluginManager
	extraPlugins []*Plugin
	skipBuiltins bool

	scheduler Scheduler
	frames    *FrameQueue

	camera    *Camera
	container Rect
	mounted   bool

	mode      Mode
	selection map[string]struct{}
	gesture   Gesture
	pointer   pointerState
	batch     batcher

	tempHand bool
	prevMode Mode

	clipboard    clipboardBuffer
	sysClipboard Clipboard

	injectQueue []syntheticEvent
	runner      *ScriptRunner
}

// NewEditor creates an editor for doc. onChange receives every new document
// value; it may be nil. The built-in plugins are registered first, then any
// given with WithPlugins.
func NewEditor(doc Document, onChange func(Document), opts ...Option) (*Editor, error) {
	frames := &FrameQueue{}
	e := &Editor{
		doc:       doc,
		onChange:  onChange,
		cfg:       DefaultConfig(),
		scheduler: frames,
		frames:    frames,
		mode:      ModeSelect,
		selection: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = defaultLogger()
	}
	e.baseLevel = e.log.GetLevel()
	e.camera = newCamera(e.cfg.MinScale, e.cfg.MaxScale)
	e.plugins = NewPluginManager(e.log)

	plugins := extensionPlugins()
	if !e.skipBuiltins {
		plugins = append(builtinPlugins(), plugins...)
	}
	plugins = append(plugins, e.extraPlugins...)
	for _, p := range plugins {
		if err := e.plugins.Register(p); err != nil {
			return nil, fmt.Errorf("new editor: %w", err)
		}
	}
	return e, nil
}

// Mount attaches the editor to a container rectangle in client coordinates
// and activates the plugins. Input is ignored until Mount is called.
func (e *Editor) Mount(container Rect) {
	e.container = container
	if e.mounted {
		return
	}
	e.mounted = true
	e.plugins.Activate(e)
}

// Unmount cancels pending node patches, clears the gesture, and deactivates
// the plugins.
func (e *Editor) Unmount() {
	if !e.mounted {
		return
	}
	e.cancelBatch()
	e.gesture = nil
	e.pointer = pointerState{}
	e.tempHand = false
	e.mounted = false
	e.plugins.Deactivate(e)
}

// Mounted reports whether the editor is attached to a container.
func (e *Editor) Mounted() bool { return e.mounted }

// Resize updates the container rectangle.
func (e *Editor) Resize(container Rect) { e.container = container }

// Container returns the container rectangle.
func (e *Editor) Container() Rect { return e.container }

// Viewport returns the container size.
func (e *Editor) Viewport() Vec2 { return Vec2{e.container.Width, e.container.Height} }

// Document returns the current document value.
func (e *Editor) Document() Document { return e.doc }

// LiveDocument returns the current document with pending node patches
// applied. Rendering and hit testing use it so an unflushed frame is not
// visible.
func (e *Editor) LiveDocument() Document {
	if len(e.batch.pending) == 0 {
		return e.doc
	}
	return e.doc.PatchNodes(e.batch.pending)
}

// SetDocument replaces the document, for example after the host changed it.
// Selected IDs that no longer exist are dropped.
func (e *Editor) SetDocument(doc Document) {
	e.doc = doc
	for id := range e.selection {
		if doc.NodeIndex(id) < 0 {
			delete(e.selection, id)
		}
	}
}

// Config returns the editor configuration.
func (e *Editor) Config() Config { return e.cfg }

// Logger returns the editor's logger.
func (e *Editor) Logger() *log.Logger { return e.log }

// Plugins returns the plugin manager.
func (e *Editor) Plugins() *PluginManager { return e.plugins }

// Camera returns the editor camera.
func (e *Editor) Camera() *Camera { return e.camera }

// ZoomBy zooms about anchor (container-relative). When anchor is nil the
// container center is used. A zero delta resets the scale to 1.
func (e *Editor) ZoomBy(delta float64, anchor *Vec2) {
	a := Vec2{e.container.Width / 2, e.container.Height / 2}
	if anchor != nil {
		a = *anchor
	}
	e.camera.ZoomBy(delta, a)
}

// ZoomToFit animates the camera to show every placed node.
func (e *Editor) ZoomToFit() {
	env, ok := Envelope(e.LiveDocument().Nodes)
	if !ok {
		return
	}
	e.camera.ZoomToFit(env, e.Viewport(), e.cfg.RotateHandleOffset+e.cfg.HandleSize, float32(e.cfg.ZoomAnimation))
}

// Mode returns the active tool mode.
func (e *Editor) Mode() Mode { return e.mode }

// SetMode switches the tool mode.
func (e *Editor) SetMode(m Mode) {
	if m == e.mode {
		return
	}
	if e.debug {
		e.log.Debug("mode", "from", e.mode, "to", m)
	}
	e.mode = m
}

// SetTemporaryHandMode enters or leaves the hand mode held by the space bar.
// Entering remembers the current mode; repeated entries are ignored, and so
// are entries while a gesture other than a pan is in progress. Leaving
// restores the remembered mode.
func (e *Editor) SetTemporaryHandMode(on bool) {
	switch {
	case on && !e.tempHand:
		if _, pan := e.gesture.(*PanGesture); e.gesture != nil && !pan {
			return
		}
		e.prevMode = e.mode
		e.tempHand = true
		e.SetMode(ModeHand)
	case !on && e.tempHand:
		e.tempHand = false
		e.SetMode(e.prevMode)
	}
}

// cancelTemporaryHandMode forgets the temporary hand state without touching
// the mode, so releasing space after a tool switch keeps the new tool.
func (e *Editor) cancelTemporaryHandMode() { e.tempHand = false }

// TemporaryHandMode reports whether the space-bar hand mode is active.
func (e *Editor) TemporaryHandMode() bool { return e.tempHand }

// Gesture returns the gesture in progress, or nil.
func (e *Editor) Gesture() Gesture { return e.gesture }

// beginGesture installs g as the one active gesture.
func (e *Editor) beginGesture(g Gesture) {
	e.gesture = g
	e.debugGesture("start", g)
}

// endGesture clears the gesture slot.
func (e *Editor) endGesture() {
	if e.gesture == nil {
		return
	}
	e.debugGesture("end", e.gesture)
	e.gesture = nil
}

// --- Selection ---

// IsSelected reports whether the node is selected.
func (e *Editor) IsSelected(id string) bool {
	_, ok := e.selection[id]
	return ok
}

// SelectionLen returns the number of selected nodes.
func (e *Editor) SelectionLen() int { return len(e.selection) }

// Selection returns the selected node IDs in document order.
func (e *Editor) Selection() []string {
	ids := make([]string, 0, len(e.selection))
	for _, n := range e.doc.Nodes {
		if _, ok := e.selection[n.ID]; ok {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// SetSelection replaces the selection.
func (e *Editor) SetSelection(ids ...string) {
	e.selection = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		e.selection[id] = struct{}{}
	}
}

// AddToSelection adds ids to the selection.
func (e *Editor) AddToSelection(ids ...string) {
	for _, id := range ids {
		e.selection[id] = struct{}{}
	}
}

// ClearSelection deselects everything.
func (e *Editor) ClearSelection() {
	e.selection = make(map[string]struct{})
}

// selectedNodes returns the selected placed nodes of doc in document order.
func (e *Editor) selectedNodes(doc Document) []Node {
	var out []Node
	for _, n := range doc.Nodes {
		if _, ok := e.selection[n.ID]; ok && n.Placed {
			out = append(out, n)
		}
	}
	return out
}

// selectionEnvelope returns the rotation-aware box around the selection.
func (e *Editor) selectionEnvelope(doc Document) (Bounds, bool) {
	return Envelope(e.selectedNodes(doc))
}

// SelectionEnvelope returns the rotation-aware box around the selected
// placed nodes, including pending patches.
func (e *Editor) SelectionEnvelope() (Bounds, bool) {
	return e.selectionEnvelope(e.LiveDocument())
}

// Update advances one frame: scripted and injected input, frame callbacks,
// and camera animation. dt is in seconds.
func (e *Editor) Update(dt float64) {
	if e.runner != nil {
		e.runner.step(e)
	}
	e.processInjectedInput()
	if e.frames != nil {
		e.frames.Run()
	}
	e.camera.update(float32(dt))
}
