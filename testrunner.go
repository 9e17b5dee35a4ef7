package ocif

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyScript is returned by LoadScript for a script without steps.
var ErrEmptyScript = errors.New("script has no steps")

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Key    string  `json:"key,omitempty"`
	Mods   string  `json:"mods,omitempty"` // e.g. "ctrl+shift"
	Mode   string  `json:"mode,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
}

// script is the top-level JSON structure of an input script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner replays an input script one step per frame through the
// inject queue. Attach it with Editor.SetScriptRunner.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON input script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrEmptyScript)
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// SetScriptRunner attaches a runner. Its steps are executed from Update.
func (e *Editor) SetScriptRunner(r *ScriptRunner) {
	e.runner = r
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// parseMods reads a "+"-separated modifier list.
func parseMods(s string) KeyModifiers {
	var m KeyModifiers
	for _, part := range strings.Split(strings.ToLower(s), "+") {
		switch strings.TrimSpace(part) {
		case "shift":
			m |= ModShift
		case "ctrl", "control":
			m |= ModCtrl
		case "alt", "option":
			m |= ModAlt
		case "meta", "cmd", "command":
			m |= ModMeta
		}
	}
	return m
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(e *Editor) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(e.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	mods := parseMods(st.Mods)

	switch st.Action {
	case "click":
		e.InjectClick(st.X, st.Y, mods)
	case "press":
		e.InjectPress(st.X, st.Y, mods)
	case "move":
		e.InjectMove(st.X, st.Y, mods)
	case "release":
		e.InjectRelease(st.X, st.Y, mods)
	case "drag":
		e.InjectDrag(Vec2{st.FromX, st.FromY}, Vec2{st.ToX, st.ToY}, st.Frames, mods)
	case "key":
		e.InjectKey(st.Key, mods)
	case "wheel":
		e.InjectWheel(st.X, st.Y, st.DeltaY)
	case "mode":
		e.SetMode(Mode(st.Mode))
	case "flush":
		e.Flush()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	default:
		e.log.Warn("unknown script action", "action", st.Action, "step", r.cursor-1)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.injectQueue) == 0 {
		r.done = true
	}
}

// RunScript drives Update with a fixed dt until the runner and the inject
// queue are exhausted, then flushes pending node patches. It fails if the
// script is still running after maxFrames.
func (e *Editor) RunScript(r *ScriptRunner, dt float64, maxFrames int) error {
	if !e.mounted {
		return ErrNotMounted
	}
	e.SetScriptRunner(r)
	defer e.SetScriptRunner(nil)
	for i := 0; i < maxFrames; i++ {
		e.Update(dt)
		if r.Done() && len(e.injectQueue) == 0 {
			e.Flush()
			return nil
		}
	}
	return fmt.Errorf("run script: still running after %d frames", maxFrames)
}
