package ocif

import (
	"math"
	"testing"
)

// newRecordingEditor returns an editor mounted in an 800x600 container at
// the client origin, and the list of documents passed to onChange.
func newRecordingEditor(t *testing.T, doc Document, opts ...Option) (*Editor, *[]Document) {
	t.Helper()
	var changes []Document
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	ed, err := NewEditor(doc, func(d Document) { changes = append(changes, d) }, opts...)
	if err != nil {
		t.Fatalf("NewEditor: %v", err)
	}
	ed.Mount(Rect{Width: 800, Height: 600})
	return ed, &changes
}

func newTestEditor(t *testing.T, doc Document, opts ...Option) *Editor {
	t.Helper()
	ed, _ := newRecordingEditor(t, doc, opts...)
	return ed
}

func mustNode(t *testing.T, doc Document, id string) Node {
	t.Helper()
	n, ok := doc.NodeByID(id)
	if !ok {
		t.Fatalf("node %q not found", id)
	}
	return n
}

func box(id string, x, y, w, h float64) Node {
	return Node{ID: id, Position: Vec2{x, y}, Size: Vec2{w, h}, Placed: true}
}

func TestNewEditorDefaults(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	if ed.Mode() != ModeSelect {
		t.Errorf("Mode = %v, want select", ed.Mode())
	}
	if ed.Gesture() != nil || ed.SelectionLen() != 0 {
		t.Error("new editor should have no gesture and no selection")
	}
	if _, ok := ed.Plugins().Extension(ExtRect); !ok {
		t.Error("rect renderer not registered")
	}
}

func TestWithoutBuiltins(t *testing.T) {
	ed := newTestEditor(t, NewDocument(), WithoutBuiltins())
	if _, ok := ed.Plugins().Plugin("selection"); ok {
		t.Error("selection plugin should not be registered")
	}
	if _, ok := ed.Plugins().Extension(ExtOval); !ok {
		t.Error("extension renderers are always registered")
	}
	if ed.PointerDown(10, 10, MouseButtonLeft, 0) {
		t.Error("press should be unhandled without plugins")
	}
}

func TestInputIgnoredBeforeMount(t *testing.T) {
	ed, err := NewEditor(NewDocument(), nil, WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if ed.PointerDown(10, 10, MouseButtonLeft, 0) {
		t.Error("PointerDown before Mount should be ignored")
	}
	if _, handled := ed.KeyDown("r", 0, false); handled {
		t.Error("KeyDown before Mount should be ignored")
	}
	if ed.Mode() != ModeSelect {
		t.Errorf("mode changed to %v", ed.Mode())
	}
	if err := ed.RunScript(&ScriptRunner{}, 1.0/60, 10); err != ErrNotMounted {
		t.Errorf("RunScript err = %v, want ErrNotMounted", err)
	}
}

func TestContainerOffset(t *testing.T) {
	doc := NewDocument().AddNodes(box("a", 0, 0, 50, 50))
	ed, err := NewEditor(doc, nil, WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	ed.Mount(Rect{X: 100, Y: 40, Width: 800, Height: 600})
	// Client (110,50) is screen (10,10), inside node a.
	ed.PointerDown(110, 50, MouseButtonLeft, 0)
	if !ed.IsSelected("a") {
		t.Error("press inside node through container offset should select it")
	}
}

func TestSelectionRectangle(t *testing.T) {
	doc := NewDocument().AddNodes(
		box("a", 100, 100, 50, 50),
		box("b", 400, 400, 50, 50),
		Node{ID: "u"},
	)
	ed := newTestEditor(t, doc)
	ed.PointerDown(90, 90, MouseButtonLeft, 0)
	if _, ok := ed.Gesture().(*SelectGesture); !ok {
		t.Fatalf("gesture = %T, want *SelectGesture", ed.Gesture())
	}
	ed.PointerMove(160, 160, 0)
	ed.PointerUp(160, 160, MouseButtonLeft, 0)

	if ed.Gesture() != nil {
		t.Error("gesture should be cleared after release")
	}
	sel := ed.Selection()
	if len(sel) != 1 || sel[0] != "a" {
		t.Errorf("selection = %v, want [a]", sel)
	}
}

func TestSelectionRectangleTouchingEdgeMisses(t *testing.T) {
	doc := NewDocument().AddNodes(box("a", 100, 100, 50, 50))
	ed := newTestEditor(t, doc)
	ed.PointerDown(150, 160, MouseButtonLeft, 0)
	ed.PointerMove(200, 200, 0)
	ed.PointerUp(200, 200, MouseButtonLeft, 0)
	if ed.SelectionLen() != 0 {
		t.Errorf("selection = %v, touching edge should not select", ed.Selection())
	}
}

func TestClickOnCanvasClearsSelection(t *testing.T) {
	doc := NewDocument().AddNodes(box("a", 100, 100, 50, 50))
	ed := newTestEditor(t, doc)
	ed.SetSelection("a")
	ed.PointerDown(500, 500, MouseButtonLeft, 0)
	ed.PointerUp(500, 500, MouseButtonLeft, 0)
	if ed.SelectionLen() != 0 {
		t.Errorf("selection = %v", ed.Selection())
	}
}

func TestNodeDragScaledDelta(t *testing.T) {
	doc := NewDocument().AddNodes(box("a", 100, 100, 50, 50))
	ed, changes := newRecordingEditor(t, doc)
	ed.Camera().Scale = 2

	// Node a spans screen 200..300 at scale 2.
	ed.PointerDown(250, 250, MouseButtonLeft, 0)
	if !ed.IsSelected("a") {
		t.Fatal("press on node should select it")
	}
	ed.PointerMove(270, 260, 0)
	ed.PointerMove(290, 270, 0)
	ed.PointerUp(290, 270, MouseButtonLeft, 0)

	if len(*changes) != 0 {
		t.Fatalf("patches applied before the frame: %d changes", len(*changes))
	}
	if got := mustNode(t, ed.LiveDocument(), "a").Position; got != (Vec2{120, 110}) {
		t.Errorf("live position = %v, want (120,110)", got)
	}
	ed.Update(1.0 / 60)
	if len(*changes) != 1 {
		t.Fatalf("onChange calls = %d, want 1", len(*changes))
	}
	if got := mustNode(t, (*changes)[0], "a").Position; got != (Vec2{120, 110}) {
		t.Errorf("position = %v, want (120,110)", got)
	}
}

func TestNodeDragMovesWholeSelection(t *testing.T) {
	doc := NewDocument().AddNodes(box("a", 0, 0, 50, 50), box("b", 100, 0, 50, 50))
	ed := newTestEditor(t, doc)
	ed.SetSelection("a", "b")
	ed.PointerDown(25, 25, MouseButtonLeft, 0)
	ed.PointerMove(35, 45, 0)
	ed.PointerUp(35, 45, MouseButtonLeft, 0)
	ed.Flush()

	if got := mustNode(t, ed.Document(), "a").Position; got != (Vec2{10, 20}) {
		t.Errorf("a = %v, want (10,20)", got)
	}
	if got := mustNode(t, ed.Document(), "b").Position; got != (Vec2{110, 20}) {
		t.Errorf("b = %v, want (110,20)", got)
	}
}

func TestNodePressSelection(t *testing.T) {
	doc := NewDocument().AddNodes(box("a", 0, 0, 50, 50), box("b", 100, 0, 50, 50))
	tests := []struct {
		name string
		mods KeyModifiers
		want []string
	}{
		{"plain replaces", 0, []string{"b"}},
		{"ctrl adds", ModCtrl, []string{"a", "b"}},
		{"meta adds", ModMeta, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := newTestEditor(t, doc)
			ed.SetSelection("a")
			ed.PointerDown(125, 25, MouseButtonLeft, tt.mods)
			got := ed.Selection()
			if len(got) != len(tt.want) {
				t.Fatalf("selection = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("selection = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestTopmostNodeWins(t *testing.T) {
	doc := NewDocument().AddNodes(box("under", 0, 0, 100, 100), box("over", 50, 50, 100, 100))
	ed := newTestEditor(t, doc)
	if hit := ed.HitTest(Vec2{75, 75}); hit.Kind != HitNode || hit.NodeID != "over" {
		t.Errorf("HitTest = %+v, want over", hit)
	}
	if hit := ed.HitTest(Vec2{25, 25}); hit.NodeID != "under" {
		t.Errorf("HitTest = %+v, want under", hit)
	}
	if hit := ed.HitTest(Vec2{500, 500}); hit.Kind != HitCanvas {
		t.Errorf("HitTest = %+v, want canvas", hit)
	}
}

func TestHitTestHandles(t *testing.T) {
	doc := NewDocument().AddNodes(box("a", 100, 100, 100, 100))
	ed := newTestEditor(t, doc)
	if hit := ed.HitTest(Vec2{200, 200}); hit.Kind == HitResizeHandle {
		t.Error("handles need a selection")
	}
	ed.SetSelection("a")
	if hit := ed.HitTest(Vec2{200, 200}); hit.Kind != HitResizeHandle || hit.Handle != HandleBottomRight {
		t.Errorf("HitTest = %+v, want bottom-right handle", hit)
	}
	if hit := ed.HitTest(Vec2{150, 76}); hit.Kind != HitRotateHandle {
		t.Errorf("HitTest = %+v, want rotate handle", hit)
	}
	ed.SetMode(ModeHand)
	if hit := ed.HitTest(Vec2{190, 190}); hit.Kind != HitNode {
		t.Errorf("HitTest in hand mode = %+v, want node", hit)
	}
}

func TestRotateSingleNodeSnaps(t *testing.T) {
	tests := []struct {
		name  string
		angle float64 // pointer angle about the pivot after the move
		want  float64
	}{
		{"snaps to 90", 2, 90},
		{"free at 100", 10, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument().AddNodes(box("a", 100, 100, 100, 100))
			ed := newTestEditor(t, doc)
			ed.SetSelection("a")

			// The rotate handle sits 24px above the top center, at -90°
			// about the pivot (150,150).
			ed.PointerDown(150, 76, MouseButtonLeft, 0)
			if _, ok := ed.Gesture().(*RotateGesture); !ok {
				t.Fatalf("gesture = %T, want *RotateGesture", ed.Gesture())
			}
			rad := degToRad(tt.angle)
			ed.PointerMove(150+100*math.Cos(rad), 150+100*math.Sin(rad), 0)
			ed.PointerUp(150+100*math.Cos(rad), 150+100*math.Sin(rad), MouseButtonLeft, 0)
			ed.Flush()

			n := mustNode(t, ed.Document(), "a")
			if n.Rotation != tt.want {
				t.Errorf("Rotation = %v, want %v", n.Rotation, tt.want)
			}
			if n.Position != (Vec2{100, 100}) {
				t.Errorf("Position = %v, rotating about its own center should not move it", n.Position)
			}
		})
	}
}

func TestRotateGroupNeverSnaps(t *testing.T) {
	doc := NewDocument().AddNodes(box("a", 0, 0, 100, 100), box("b", 200, 0, 100, 100))
	ed := newTestEditor(t, doc)
	ed.SetSelection("a", "b")

	pivot := Vec2{150, 50}
	if !ed.startRotation(pivot.Add(Vec2{100, 0})) {
		t.Fatal("startRotation failed")
	}
	g := ed.Gesture().(*RotateGesture)
	rad := degToRad(92)
	ed.updateRotation(g, pivot.Add(Vec2{100 * math.Cos(rad), 100 * math.Sin(rad)}))
	ed.finishRotation(g)
	ed.Flush()

	for _, id := range []string{"a", "b"} {
		n := mustNode(t, ed.Document(), id)
		if n.Rotation != 92 {
			t.Errorf("%s rotation = %v, want 92", id, n.Rotation)
		}
	}
	// a's center (50,50) orbits the pivot by 92°.
	a := mustNode(t, ed.Document(), "a")
	want := pivot.Add(rotateVec(Vec2{-100, 0}, rad)).Sub(Vec2{50, 50}).Round()
	if a.Position != want {
		t.Errorf("a position = %v, want %v", a.Position, want)
	}
}

func TestResizeRotatedNode(t *testing.T) {
	doc := NewDocument().AddNodes(Node{
		ID: "a", Position: Vec2{0, 0}, Size: Vec2{100, 50}, Rotation: 90, Placed: true,
	})
	ed := newTestEditor(t, doc)
	ed.SetSelection("a")

	// Rotated 90° the node's envelope is (25,-25)-(75,75).
	env, _ := ed.SelectionEnvelope()
	if !boundsApprox(env, Bounds{Left: 25, Top: -25, Right: 75, Bottom: 75}, 1e-9) {
		t.Fatalf("envelope = %+v", env)
	}
	hit := ed.HitTest(Vec2{75, 25})
	if hit.Kind != HitResizeHandle || hit.Handle != HandleMiddleRight {
		t.Fatalf("HitTest = %+v, want middle-right", hit)
	}
	ed.PointerDown(75, 25, MouseButtonLeft, 0)
	ed.PointerMove(125, 25, 0)
	ed.PointerUp(125, 25, MouseButtonLeft, 0)
	ed.Flush()

	n := mustNode(t, ed.Document(), "a")
	if n.Size != (Vec2{100, 100}) {
		t.Errorf("Size = %v, want (100,100)", n.Size)
	}
	if n.Position != (Vec2{25, -25}) {
		t.Errorf("Position = %v, want (25,-25)", n.Position)
	}
	if n.Rotation != 90 {
		t.Errorf("Rotation = %v, resize must not rotate", n.Rotation)
	}
}

func TestResizePastOppositeEdge(t *testing.T) {
	doc := NewDocument().AddNodes(box("a", 0, 0, 100, 100))
	ed := newTestEditor(t, doc)
	ed.SetSelection("a")
	ed.PointerDown(100, 50, MouseButtonLeft, 0)
	ed.PointerMove(-50, 50, 0)
	ed.PointerUp(-50, 50, MouseButtonLeft, 0)
	ed.Flush()

	n := mustNode(t, ed.Document(), "a")
	if n.Size != (Vec2{50, 100}) || n.Position != (Vec2{-50, 0}) {
		t.Errorf("node = %v %v, want (-50,0) (50,100)", n.Position, n.Size)
	}
}

func TestDrawShape(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		to       Vec2
		wantSize Vec2
		wantExt  string
	}{
		{"tiny rectangle floors", ModeRectangle, Vec2{15, 15}, Vec2{100, 100}, ExtRect},
		{"thin rectangle floors", ModeRectangle, Vec2{200, 25}, Vec2{100, 100}, ExtRect},
		{"rectangle kept", ModeRectangle, Vec2{60, 40}, Vec2{50, 30}, ExtRect},
		{"oval kept", ModeOval, Vec2{60, 40}, Vec2{50, 30}, ExtOval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := newTestEditor(t, NewDocument().AddNodes(box("old", 500, 500, 10, 10)))
			ed.SetSelection("old")
			ed.SetMode(tt.mode)
			ed.PointerDown(10, 10, MouseButtonLeft, 0)
			if ed.SelectionLen() != 0 {
				t.Error("drawing should clear the selection")
			}
			ed.PointerMove(tt.to.X, tt.to.Y, 0)
			ed.PointerUp(tt.to.X, tt.to.Y, MouseButtonLeft, 0)
			ed.Flush()

			if ed.Mode() != ModeSelect {
				t.Errorf("mode = %v, want select after drawing", ed.Mode())
			}
			doc := ed.Document()
			if len(doc.Nodes) != 2 {
				t.Fatalf("nodes = %d, want 2", len(doc.Nodes))
			}
			n := doc.Nodes[1]
			if n.Position != (Vec2{10, 10}) || n.Size != tt.wantSize {
				t.Errorf("node = %v %v, want (10,10) %v", n.Position, n.Size, tt.wantSize)
			}
			if len(n.Data) != 1 || n.Data[0].ExtensionType() != tt.wantExt {
				t.Fatalf("data = %+v", n.Data)
			}
		})
	}
}

func TestDrawShapeDefaultStyle(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.SetMode(ModeRectangle)
	ed.PointerDown(0, 0, MouseButtonLeft, 0)
	rect, ok := ed.Document().Nodes[0].Data[0].(RectExtension)
	if !ok {
		t.Fatalf("data = %T", ed.Document().Nodes[0].Data[0])
	}
	want := ShapeStyle{StrokeWidth: 2, StrokeColor: "#000", FillColor: "#fff"}
	if rect.ShapeStyle != want {
		t.Errorf("style = %+v, want %+v", rect.ShapeStyle, want)
	}
	if n := ed.Document().Nodes[0]; n.Size != (Vec2{}) {
		t.Errorf("initial size = %v, want zero", n.Size)
	}
}

func TestDrawShapeUpwardsNormalizes(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.SetMode(ModeOval)
	ed.PointerDown(100, 100, MouseButtonLeft, 0)
	ed.PointerMove(40, 60, 0)
	ed.PointerUp(40, 60, MouseButtonLeft, 0)
	ed.Flush()
	n := ed.Document().Nodes[0]
	if n.Position != (Vec2{40, 60}) || n.Size != (Vec2{60, 40}) {
		t.Errorf("node = %v %v", n.Position, n.Size)
	}
}

func TestDrawPath(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.SetMode(ModeDraw)
	ed.PointerDown(10, 10, MouseButtonLeft, 0)
	for i := 1; i <= 10; i++ {
		ed.PointerMove(10+float64(i)*10, 10+float64(i)*5, 0)
	}
	ed.PointerUp(110, 60, MouseButtonLeft, 0)

	doc := ed.Document()
	if len(doc.Nodes) != 1 {
		t.Fatalf("nodes = %d, want 1", len(doc.Nodes))
	}
	ext, ok := doc.Nodes[0].Data[0].(PathExtension)
	if !ok {
		t.Fatalf("data = %T", doc.Nodes[0].Data[0])
	}
	if ext.Path == "" || ext.FillColor != "#000" {
		t.Errorf("path ext = %+v", ext)
	}
	n := doc.Nodes[0]
	if n.Position.X >= 10 || n.Position.Y >= 10 {
		t.Errorf("position = %v, outline should extend past the first point", n.Position)
	}
}

func TestDrawPathSinglePointIgnored(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.SetMode(ModeDraw)
	ed.PointerDown(10, 10, MouseButtonLeft, 0)
	ed.PointerUp(10, 10, MouseButtonLeft, 0)
	if len(ed.Document().Nodes) != 0 {
		t.Error("a single point should not create a path")
	}
	if ed.Gesture() != nil {
		t.Error("gesture should be cleared")
	}
}

func TestPan(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.SetMode(ModeHand)
	ed.PointerDown(100, 100, MouseButtonLeft, 0)
	ed.PointerMove(150, 120, 0)
	if got := ed.Camera().Position; got != (Vec2{50, 20}) {
		t.Errorf("camera = %v, want (50,20)", got)
	}
	ed.PointerMove(90, 130, 0)
	ed.PointerUp(90, 130, MouseButtonLeft, 0)
	if got := ed.Camera().Position; got != (Vec2{-10, 30}) {
		t.Errorf("camera = %v, want (-10,30)", got)
	}
	if ed.Gesture() != nil {
		t.Error("pan should end on release")
	}
}

func TestMiddleButtonPansInAnyMode(t *testing.T) {
	for _, mode := range []Mode{ModeSelect, ModeRectangle, ModeDraw} {
		t.Run(string(mode), func(t *testing.T) {
			ed := newTestEditor(t, NewDocument().AddNodes(box("a", 90, 90, 50, 50)))
			ed.SetMode(mode)
			ed.PointerDown(100, 100, MouseButtonMiddle, 0)
			if _, ok := ed.Gesture().(*PanGesture); !ok {
				t.Fatalf("gesture = %T, want pan", ed.Gesture())
			}
			ed.PointerMove(150, 120, 0)
			ed.PointerUp(150, 120, MouseButtonMiddle, 0)
			if got := ed.Camera().Position; got != (Vec2{50, 20}) {
				t.Errorf("camera = %v, want (50,20)", got)
			}
			if ed.Mode() != mode || ed.SelectionLen() != 0 {
				t.Errorf("mode = %v selection = %v", ed.Mode(), ed.Selection())
			}
		})
	}
}

func TestRightButtonStartsNoGesture(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		at   Vec2
	}{
		{"select on canvas", ModeSelect, Vec2{400, 400}},
		{"select on node", ModeSelect, Vec2{100, 100}},
		{"hand", ModeHand, Vec2{400, 400}},
		{"rectangle", ModeRectangle, Vec2{400, 400}},
		{"draw", ModeDraw, Vec2{400, 400}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := newTestEditor(t, NewDocument().AddNodes(box("a", 90, 90, 50, 50)))
			ed.SetMode(tt.mode)
			if ed.PointerDown(tt.at.X, tt.at.Y, MouseButtonRight, 0) {
				t.Error("right press should not be handled")
			}
			if ed.Gesture() != nil || ed.SelectionLen() != 0 {
				t.Errorf("gesture = %T selection = %v", ed.Gesture(), ed.Selection())
			}
			ed.PointerUp(tt.at.X, tt.at.Y, MouseButtonRight, 0)
			ed.Flush()
			if len(ed.Document().Nodes) != 1 {
				t.Errorf("nodes = %d, want 1", len(ed.Document().Nodes))
			}
		})
	}
}

func TestTemporaryHandMode(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.SetMode(ModeRectangle)

	ev, handled := ed.KeyDown(" ", 0, false)
	if !handled || !ev.DefaultPrevented() {
		t.Fatalf("space: handled=%v prevented=%v", handled, ev.DefaultPrevented())
	}
	if ed.Mode() != ModeHand || !ed.TemporaryHandMode() {
		t.Fatalf("mode = %v temp=%v", ed.Mode(), ed.TemporaryHandMode())
	}
	ed.KeyDown(" ", 0, true)
	if !ed.KeyUp(" ", 0) {
		t.Error("space release should be handled")
	}
	if ed.Mode() != ModeRectangle {
		t.Errorf("mode = %v, want rectangle restored", ed.Mode())
	}
	if ed.KeyUp(" ", 0) {
		t.Error("second release should not be handled")
	}
}

func TestTemporaryHandModeToolSwitch(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.SetMode(ModeDraw)
	ed.KeyDown(" ", 0, false)
	ed.KeyDown("v", 0, false)
	ed.KeyUp(" ", 0)
	if ed.Mode() != ModeSelect {
		t.Errorf("mode = %v, tool shortcut should win over the space release", ed.Mode())
	}
}

func TestSpaceIgnoredDuringShapeDrawing(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.SetMode(ModeRectangle)
	ed.PointerDown(10, 10, MouseButtonLeft, 0)
	ed.PointerMove(60, 40, 0)
	ed.KeyDown(" ", 0, false)
	if ed.TemporaryHandMode() || ed.Mode() != ModeRectangle {
		t.Fatalf("space mid-draw: mode = %v temp=%v", ed.Mode(), ed.TemporaryHandMode())
	}
	ed.PointerUp(60, 40, MouseButtonLeft, 0)
	ed.KeyUp(" ", 0)
	if ed.Mode() != ModeSelect {
		t.Errorf("mode = %v, want select after the shape is finished", ed.Mode())
	}
	ed.Flush()
	if n := ed.Document().Nodes[0]; n.Size != (Vec2{50, 30}) {
		t.Errorf("size = %v, want (50,30)", n.Size)
	}
}

func TestSpaceIgnoredDuringNodeDrag(t *testing.T) {
	ed := newTestEditor(t, NewDocument().AddNodes(box("a", 100, 100, 50, 50)))
	ed.PointerDown(120, 120, MouseButtonLeft, 0)
	ed.PointerMove(130, 120, 0)
	ed.KeyDown(" ", 0, false)
	ed.PointerMove(200, 120, 0)
	if _, ok := ed.Gesture().(*DragNodesGesture); !ok {
		t.Fatalf("gesture = %T, want the drag to continue", ed.Gesture())
	}
	if got := mustNode(t, ed.LiveDocument(), "a").Position; got != (Vec2{180, 100}) {
		t.Errorf("position = %v, want (180,100)", got)
	}
	if got := ed.Camera().Position; got != (Vec2{}) {
		t.Errorf("camera moved to %v", got)
	}
	ed.PointerUp(200, 120, MouseButtonLeft, 0)
	ed.KeyUp(" ", 0)
	if ed.Mode() != ModeSelect {
		t.Errorf("mode = %v", ed.Mode())
	}

	// Once the drag is over, space works again.
	ed.KeyDown(" ", 0, false)
	if ed.Mode() != ModeHand {
		t.Errorf("mode = %v, want hand", ed.Mode())
	}
}

func TestSpaceDuringPanKeepsPanning(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.SetMode(ModeHand)
	ed.PointerDown(100, 100, MouseButtonLeft, 0)
	ed.KeyDown(" ", 0, false)
	ed.PointerMove(150, 120, 0)
	if got := ed.Camera().Position; got != (Vec2{50, 20}) {
		t.Errorf("camera = %v, want (50,20)", got)
	}
}

func TestCtrlSpaceIgnored(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	if _, handled := ed.KeyDown(" ", ModCtrl, false); handled {
		t.Error("Ctrl+space should not enter hand mode")
	}
	if ed.Mode() != ModeSelect {
		t.Errorf("mode = %v", ed.Mode())
	}
}

func TestSelectAllDeleteCascades(t *testing.T) {
	ed, changes := newRecordingEditor(t, mustParse(t, exampleDoc))
	ed.KeyDown("a", ModCtrl, false)
	if ed.SelectionLen() != 2 {
		t.Fatalf("selection = %v", ed.Selection())
	}
	ev, handled := ed.KeyDown("Delete", 0, false)
	if !handled || !ev.DefaultPrevented() {
		t.Fatal("Delete should be handled")
	}
	doc := ed.Document()
	if len(doc.Nodes) != 0 {
		t.Errorf("nodes = %d, want 0", len(doc.Nodes))
	}
	if _, ok := doc.ResourceByID("r1"); ok {
		t.Error("r1 should be deleted with its node")
	}
	if _, ok := doc.ResourceByID("r2"); !ok {
		t.Error("unreferenced resource should survive")
	}
	if ed.SelectionLen() != 0 {
		t.Error("selection should be cleared")
	}
	if len(*changes) != 1 {
		t.Errorf("onChange calls = %d, want 1", len(*changes))
	}
}

func TestDeleteSelectedKeepsSharedResource(t *testing.T) {
	a, b := box("a", 0, 0, 10, 10), box("b", 20, 0, 10, 10)
	a.Resource, b.Resource = "r1", "r1"
	doc := NewDocument().AddNodes(a, b).AddResources(Resource{ID: "r1"})
	ed := newTestEditor(t, doc)
	ed.SetSelection("a")
	ed.DeleteSelected()

	got := ed.Document()
	if len(got.Nodes) != 1 || got.Nodes[0].Resource != "r1" {
		t.Fatalf("nodes = %+v", got.Nodes)
	}
	if _, ok := got.ResourceByID("r1"); !ok {
		t.Error("b still references r1, it must survive")
	}
}

func TestBackspaceDeletes(t *testing.T) {
	ed := newTestEditor(t, mustParse(t, exampleDoc))
	ed.SetSelection("n2")
	ed.KeyDown("Backspace", 0, false)
	if len(ed.Document().Nodes) != 1 {
		t.Errorf("nodes = %d, want 1", len(ed.Document().Nodes))
	}
}

func TestDeleteFlushesPendingPatches(t *testing.T) {
	ed := newTestEditor(t, mustParse(t, exampleDoc))
	ed.UpdateNodeProperties("n2", PatchPosition(Vec2{1, 1}))
	ed.SetSelection("n1")
	ed.DeleteSelected()
	if got := mustNode(t, ed.Document(), "n2").Position; got != (Vec2{1, 1}) {
		t.Errorf("n2 = %v, pending patch lost", got)
	}
	ed.Update(0)
	if _, ok := ed.PendingPatch("n2"); ok {
		t.Error("patch should have been consumed")
	}
}

func TestCopyPaste(t *testing.T) {
	ed := newTestEditor(t, mustParse(t, exampleDoc))
	ed.SetSelection("n1")
	ed.KeyDown("c", ModCtrl, false)
	ed.KeyDown("v", ModMeta, false)

	doc := ed.Document()
	if len(doc.Nodes) != 3 || len(doc.Resources) != 3 {
		t.Fatalf("nodes=%d resources=%d, want 3 and 3", len(doc.Nodes), len(doc.Resources))
	}
	pasted := doc.Nodes[2]
	if pasted.ID == "n1" || pasted.ID == "" {
		t.Errorf("pasted ID = %q, want a fresh one", pasted.ID)
	}
	if pasted.Position != (Vec2{120, 120}) {
		t.Errorf("pasted position = %v, want (120,120)", pasted.Position)
	}
	if pasted.Resource == "r1" {
		t.Error("pasted node should reference a copied resource")
	}
	r, ok := doc.ResourceByID(pasted.Resource)
	if !ok || r.Text() != "hello, world!" {
		t.Errorf("pasted resource = %+v, ok=%v", r, ok)
	}
	sel := ed.Selection()
	if len(sel) != 1 || sel[0] != pasted.ID {
		t.Errorf("selection = %v, want pasted node", sel)
	}
}

func TestPasteEmptyBufferNoop(t *testing.T) {
	ed, changes := newRecordingEditor(t, mustParse(t, exampleDoc))
	ed.Paste()
	if len(*changes) != 0 {
		t.Error("paste with nothing copied should not change the document")
	}
}

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, nil }
func (c *fakeClipboard) WriteAll(s string) error  { c.text = s; return nil }

func TestSystemClipboardAcrossEditors(t *testing.T) {
	clip := &fakeClipboard{}
	src := newTestEditor(t, mustParse(t, exampleDoc), WithClipboard(clip))
	src.SetSelection("n2")
	if got := src.CopySelected(); len(got) != 1 {
		t.Fatalf("copied = %d", len(got))
	}
	if clip.text == "" {
		t.Fatal("copy should reach the system clipboard")
	}

	dst := newTestEditor(t, NewDocument(), WithClipboard(clip))
	dst.Paste()
	if n := len(dst.Document().Nodes); n != 1 {
		t.Fatalf("pasted nodes = %d, want 1", n)
	}
	if got := dst.Document().Nodes[0].Position; got != (Vec2{320, 120}) {
		t.Errorf("position = %v, want (320,120)", got)
	}

	clip.text = "not json"
	other := newTestEditor(t, NewDocument(), WithClipboard(clip))
	other.Paste()
	if len(other.Document().Nodes) != 0 {
		t.Error("foreign clipboard text should be ignored")
	}
}

func TestArrowNudge(t *testing.T) {
	tests := []struct {
		name string
		key  string
		mods KeyModifiers
		want Vec2
	}{
		{"right", "ArrowRight", 0, Vec2{101, 100}},
		{"left", "ArrowLeft", 0, Vec2{99, 100}},
		{"shift down", "ArrowDown", ModShift, Vec2{100, 110}},
		{"shift up", "ArrowUp", ModShift, Vec2{100, 90}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := newTestEditor(t, mustParse(t, exampleDoc))
			ed.SetSelection("n1")
			if _, handled := ed.KeyDown(tt.key, tt.mods, false); !handled {
				t.Fatal("arrow should be handled")
			}
			ed.Update(1.0 / 60)
			if got := mustNode(t, ed.Document(), "n1").Position; got != tt.want {
				t.Errorf("position = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArrowNudgeOnlyInSelectMode(t *testing.T) {
	ed := newTestEditor(t, mustParse(t, exampleDoc))
	ed.SetSelection("n1")
	ed.SetMode(ModeHand)
	if _, handled := ed.KeyDown("ArrowRight", 0, false); handled {
		t.Error("arrow in hand mode should not be handled")
	}
	ed.Flush()
	if got := mustNode(t, ed.Document(), "n1").Position; got != (Vec2{100, 100}) {
		t.Errorf("position = %v", got)
	}
}

func TestPointerLeaveEndsGesture(t *testing.T) {
	doc := NewDocument().AddNodes(box("a", 0, 0, 50, 50))
	ed := newTestEditor(t, doc)
	ed.PointerDown(25, 25, MouseButtonLeft, 0)
	ed.PointerMove(40, 40, 0)
	ed.PointerLeave(0)
	if ed.Gesture() != nil {
		t.Error("leave while pressed should end the gesture")
	}
	ed.PointerMove(100, 100, 0)
	ed.Flush()
	if got := mustNode(t, ed.Document(), "a").Position; got != (Vec2{15, 15}) {
		t.Errorf("position = %v, want (15,15)", got)
	}
}

func TestSetDocumentPrunesSelection(t *testing.T) {
	ed := newTestEditor(t, mustParse(t, exampleDoc))
	ed.SetSelection("n1", "n2")
	ed.SetDocument(NewDocument().AddNodes(box("n2", 0, 0, 1, 1)))
	sel := ed.Selection()
	if len(sel) != 1 || sel[0] != "n2" {
		t.Errorf("selection = %v, want [n2]", sel)
	}
}

func TestWheelZoomsAboutPointer(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.Wheel(200, 100, -100)
	if !approxEqual(ed.Camera().Scale, 1.2, epsilon) {
		t.Errorf("Scale = %v, want 1.2", ed.Camera().Scale)
	}
	if got := ed.Camera().ScreenToCanvas(Vec2{200, 100}); !vecApprox(got, Vec2{200, 100}, 1e-9) {
		t.Errorf("point under pointer = %v", got)
	}
}

func TestEditorZoomByDefaultsToCenter(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.ZoomBy(1, nil)
	if got := ed.Camera().ScreenToCanvas(Vec2{400, 300}); !vecApprox(got, Vec2{400, 300}, 1e-9) {
		t.Errorf("container center maps to %v, want (400,300)", got)
	}
}
