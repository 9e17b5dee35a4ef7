package ocif

// toolPlugin builds a plugin that contributes one toolbar toggle and one
// single-key shortcut switching to mode.
func toolPlugin(name string, mode Mode, key, label, tooltip, icon string, toolbarPriority int) *Plugin {
	return &Plugin{
		Name: name,
		ToolbarItems: func() []ToolbarItem {
			return []ToolbarItem{{
				ID:       string(mode),
				Kind:     ToolbarToggle,
				Icon:     icon,
				Label:    label,
				Tooltip:  tooltip,
				Shortcut: key,
				Group:    "tools",
				IsActive: func(e *Editor) bool { return e.Mode() == mode },
				OnClick:  func(e *Editor) { e.SetMode(mode) },
				Priority: toolbarPriority,
			}}
		},
		Shortcuts: func() []Shortcut {
			return []Shortcut{{
				ID:          name,
				Key:         key,
				Description: "Switch to " + label + " tool",
				Handler: func(ev *Event) bool {
					ev.Editor.cancelTemporaryHandMode()
					ev.Editor.SetMode(mode)
					return true
				},
				Priority: 70,
			}}
		},
	}
}

func selectToolPlugin() *Plugin {
	return toolPlugin("select-tool", ModeSelect, "v", "Select", "Select and move nodes (V)", "mouse-pointer", 100)
}

// handToolPlugin adds the space-bar temporary hand mode on top of the
// usual tool toggle.
func handToolPlugin() *Plugin {
	p := toolPlugin("hand-tool", ModeHand, "h", "Hand", "Pan around the canvas (H)", "hand", 90)
	p.OnKeyDown = &EventHandler{Handle: func(ev *Event) bool {
		if ev.Key != " " || ev.Modifiers.CtrlOrCmd() {
			return false
		}
		ev.PreventDefault()
		ev.Editor.SetTemporaryHandMode(true)
		return true
	}}
	p.OnKeyUp = &EventHandler{Handle: func(ev *Event) bool {
		if ev.Key != " " || !ev.Editor.TemporaryHandMode() {
			return false
		}
		ev.PreventDefault()
		ev.Editor.SetTemporaryHandMode(false)
		return true
	}}
	return p
}

func rectangleToolPlugin() *Plugin {
	return toolPlugin("rectangle-tool", ModeRectangle, "r", "Rectangle", "Draw rectangles (R)", "square", 80)
}

func ovalToolPlugin() *Plugin {
	return toolPlugin("oval-tool", ModeOval, "o", "Oval", "Draw ovals (O)", "circle", 70)
}

func drawToolPlugin() *Plugin {
	return toolPlugin("draw-tool", ModeDraw, "d", "Draw", "Draw freehand paths (D)", "pencil", 60)
}

func clipboardPlugin() *Plugin {
	return &Plugin{
		Name: "clipboard",
		Shortcuts: func() []Shortcut {
			return []Shortcut{
				{
					ID: "select-all", Key: "a", CtrlOrCmd: true,
					Description: "Select all nodes",
					Handler: func(ev *Event) bool {
						ev.Editor.SelectAll()
						return true
					},
					Priority: 100,
				},
				{
					ID: "copy", Key: "c", CtrlOrCmd: true,
					Description: "Copy selected nodes",
					Handler: func(ev *Event) bool {
						ev.Editor.CopySelected()
						return true
					},
					Priority: 100,
				},
				{
					ID: "paste", Key: "v", CtrlOrCmd: true,
					Description: "Paste copied nodes",
					Handler: func(ev *Event) bool {
						ev.Editor.Paste()
						return true
					},
					Priority: 100,
				},
			}
		},
	}
}

func deletePlugin() *Plugin {
	del := func(ev *Event) bool {
		ev.Editor.DeleteSelected()
		return true
	}
	return &Plugin{
		Name: "delete",
		Shortcuts: func() []Shortcut {
			return []Shortcut{
				{ID: "delete", Key: "Delete", Description: "Delete selected nodes", Handler: del, Priority: 100},
				{ID: "backspace-delete", Key: "Backspace", Description: "Delete selected nodes", Handler: del, Priority: 100},
			}
		},
	}
}

// arrowKeys maps arrow key names to unit directions.
var arrowKeys = []struct {
	key string
	dir Vec2
}{
	{"ArrowUp", Vec2{0, -1}},
	{"ArrowDown", Vec2{0, 1}},
	{"ArrowLeft", Vec2{-1, 0}},
	{"ArrowRight", Vec2{1, 0}},
}

// movementPlugin nudges the selection with the arrow keys, by NudgeSmall
// or by NudgeLarge with Shift. Only active in select mode.
func movementPlugin() *Plugin {
	return &Plugin{
		Name: "movement",
		Shortcuts: func() []Shortcut {
			var out []Shortcut
			for _, a := range arrowKeys {
				for _, shift := range []bool{false, true} {
					dir := a.dir
					large := shift
					id := "move-" + a.key
					if shift {
						id += "-large"
					}
					out = append(out, Shortcut{
						ID:          id,
						Key:         a.key,
						Shift:       shift,
						Description: "Move selected nodes (Shift for larger steps)",
						Handler: func(ev *Event) bool {
							e := ev.Editor
							if e.Mode() != ModeSelect {
								return false
							}
							step := e.cfg.NudgeSmall
							if large {
								step = e.cfg.NudgeLarge
							}
							e.MoveSelected(dir.X*step, dir.Y*step)
							return true
						},
						Priority: 90,
					})
				}
			}
			return out
		},
	}
}

func zoomPlugin() *Plugin {
	zoom := func(sign float64) func(ev *Event) bool {
		return func(ev *Event) bool {
			ev.Editor.ZoomBy(sign*ev.Editor.cfg.ZoomStep, nil)
			return true
		}
	}
	return &Plugin{
		Name: "zoom",
		Shortcuts: func() []Shortcut {
			return []Shortcut{
				{ID: "zoom-in", Key: "+", CtrlOrCmd: true, Description: "Zoom in", Handler: zoom(1), Priority: 80},
				{ID: "zoom-in-shifted", Key: "+", CtrlOrCmd: true, Shift: true, Description: "Zoom in", Handler: zoom(1), Priority: 80},
				{ID: "zoom-in-equals", Key: "=", CtrlOrCmd: true, Description: "Zoom in", Handler: zoom(1), Priority: 80},
				{ID: "zoom-out", Key: "-", CtrlOrCmd: true, Description: "Zoom out", Handler: zoom(-1), Priority: 80},
				{ID: "zoom-reset", Key: "0", CtrlOrCmd: true, Description: "Reset zoom", Handler: zoom(0), Priority: 80},
				{
					ID: "zoom-to-fit", Key: "1", Shift: true, Description: "Zoom to fit",
					Handler: func(ev *Event) bool {
						ev.Editor.ZoomToFit()
						return true
					},
					Priority: 80,
				},
			}
		},
	}
}
