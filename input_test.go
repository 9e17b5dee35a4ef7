package ocif

import "testing"

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventPointerDown, "pointerdown"},
		{EventPointerMove, "pointermove"},
		{EventPointerUp, "pointerup"},
		{EventKeyDown, "keydown"},
		{EventKeyUp, "keyup"},
		{EventKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("EventKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKeyModifiers(t *testing.T) {
	m := ModShift | ModMeta
	if !m.Has(ModShift) || m.Has(ModCtrl) || !m.Has(ModShift|ModMeta) {
		t.Error("Has mismatch")
	}
	if !m.CtrlOrCmd() || !ModCtrl.CtrlOrCmd() || ModAlt.CtrlOrCmd() {
		t.Error("CtrlOrCmd mismatch")
	}
}

func TestPointerEventCoordinates(t *testing.T) {
	var got *Event
	spy := &Plugin{
		Name: "spy",
		OnPointerDown: &EventHandler{Priority: 1000, Handle: func(ev *Event) bool {
			got = ev
			return true
		}},
	}
	ed, err := NewEditor(NewDocument(), nil, WithLogger(quietLogger()), WithPlugins(spy))
	if err != nil {
		t.Fatal(err)
	}
	ed.Mount(Rect{X: 10, Y: 20, Width: 800, Height: 600})
	ed.Camera().Position = Vec2{100, 0}
	ed.Camera().Scale = 2

	if !ed.PointerDown(310, 220, MouseButtonRight, ModAlt) {
		t.Fatal("spy should handle the press")
	}
	if got.Client != (Vec2{310, 220}) || got.Screen != (Vec2{300, 200}) || got.Canvas != (Vec2{100, 100}) {
		t.Errorf("coords = client %v screen %v canvas %v", got.Client, got.Screen, got.Canvas)
	}
	if got.Button != MouseButtonRight || got.Modifiers != ModAlt || got.Editor != ed {
		t.Errorf("event = %+v", got)
	}
	if ed.Gesture() != nil {
		t.Error("a higher priority plugin should pre-empt the built-in gestures")
	}
}

func TestPointerUpClearsGestureEvenIfUnhandled(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.SetMode(ModeHand)
	ed.PointerDown(0, 0, MouseButtonLeft, 0)
	if _, ok := ed.Gesture().(*PanGesture); !ok {
		t.Fatalf("expected pan gesture, got %T", ed.Gesture())
	}
	if ed.PointerUp(0, 0, MouseButtonLeft, 0) {
		t.Error("pan has no release handler")
	}
	if ed.Gesture() != nil {
		t.Error("gesture should be cleared after release")
	}
}

func TestPointerLeaveWithoutPress(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.PointerMove(10, 10, 0)
	ed.PointerLeave(0)
	if ed.Gesture() != nil {
		t.Error("unexpected gesture")
	}
}

func TestHitKindString(t *testing.T) {
	if HitRotateHandle.String() != "rotate-handle" || HitCanvas.String() != "canvas" {
		t.Error("HitKind names mismatch")
	}
}

func TestRotatedNodeHitTest(t *testing.T) {
	doc := NewDocument().AddNodes(Node{ID: "bar", Position: Vec2{0, 45}, Size: Vec2{100, 10}, Rotation: 90, Placed: true})
	ed := newTestEditor(t, doc)
	if hit := ed.HitTest(Vec2{50, 5}); hit.NodeID != "bar" {
		t.Errorf("expected rotated bar hit at (50,5), got %+v", hit)
	}
	if hit := ed.HitTest(Vec2{5, 50}); hit.Kind != HitCanvas {
		t.Errorf("expected miss outside rotated bar, got %+v", hit)
	}
}
