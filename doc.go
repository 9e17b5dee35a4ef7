// Package ocif is an embeddable editor core for OCIF documents: JSON graphs
// of positioned, sized, rotatable nodes that reference resources.
//
// The package turns raw pointer and keyboard input into document mutations.
// It owns the camera, the tool mode, the selection and the one gesture in
// progress; the host owns the document value and receives every new value
// through a change callback. Drawing is delegated to a host [Painter].
//
// # Quick start
//
//	doc, err := ocif.ParseDocument(data)
//	if err != nil {
//		return err
//	}
//	ed, err := ocif.NewEditor(doc, func(d ocif.Document) { save(d) })
//	if err != nil {
//		return err
//	}
//	ed.Mount(ocif.Rect{Width: 1280, Height: 720})
//
// Each frame the host forwards input and calls [Editor.Update]:
//
//	ed.PointerDown(x, y, ocif.MouseButtonLeft, mods)
//	ed.PointerMove(x, y, mods)
//	ed.PointerUp(x, y, ocif.MouseButtonLeft, mods)
//	ed.KeyDown("a", ocif.ModCtrl, false)
//	ed.Update(dt)
//	ed.Render(painter)
//
// The ebitenhost package does all of this for an Ebitengine window.
//
// # Plugins
//
// Behavior lives in [Plugin] values. For every event the editor collects the
// handlers registered for its kind, orders them by descending priority
// (ties keep registration order) and calls them until one returns true.
// Key presses are matched against plugin [Shortcut] values first. A panic in
// a handler is logged and treated as "not handled".
//
// The built-in plugins implement rectangular selection, panning, node
// dragging, rotation, resizing, rectangle/oval/freehand drawing, tool
// switching, clipboard, deletion, arrow-key nudging and zoom. Hosts add
// their own with [WithPlugins].
//
// # Batching
//
// High-frequency gestures update nodes through [Editor.UpdateNodeProperties].
// Patches to the same node merge and are applied in one document change per
// frame via a [Scheduler]. The default [FrameQueue] runs from
// [Editor.Update]; [Editor.Flush] applies pending patches immediately.
//
// # Testing input
//
// [Editor.InjectPress], [Editor.InjectDrag] and friends queue synthetic
// input that is replayed one event per Update. [LoadScript] reads the same
// actions from JSON for headless runs.
package ocif
