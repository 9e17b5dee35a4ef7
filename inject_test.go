package ocif

import "testing"

func TestInjectClick(t *testing.T) {
	doc := NewDocument().AddNodes(box("a", 0, 0, 100, 100))
	ed := newTestEditor(t, doc)

	ed.InjectClick(50, 50, 0)
	if ed.InjectPending() != 2 {
		t.Fatalf("expected 2 queued events, got %d", ed.InjectPending())
	}

	// Frame 1: press
	ed.Update(1.0 / 60)
	if ed.InjectPending() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", ed.InjectPending())
	}
	if _, ok := ed.Gesture().(*DragNodesGesture); !ok {
		t.Errorf("expected drag gesture after press, got %T", ed.Gesture())
	}

	// Frame 2: release
	ed.Update(1.0 / 60)
	if ed.InjectPending() != 0 {
		t.Fatalf("expected 0 remaining events after frame 2, got %d", ed.InjectPending())
	}
	if ed.Gesture() != nil || !ed.IsSelected("a") {
		t.Error("click should leave a selected with no gesture")
	}
}

func TestInjectDrag(t *testing.T) {
	doc := NewDocument().AddNodes(box("a", 0, 0, 100, 100))
	ed := newTestEditor(t, doc)

	ed.InjectDrag(Vec2{50, 50}, Vec2{150, 90}, 5, 0)
	if ed.InjectPending() != 5 {
		t.Fatalf("expected 5 queued events, got %d", ed.InjectPending())
	}
	for i := 0; i < 5; i++ {
		ed.Update(1.0 / 60)
	}
	ed.Flush()
	if got := mustNode(t, ed.Document(), "a").Position; got != (Vec2{100, 40}) {
		t.Errorf("expected (100,40), got %v", got)
	}
}

func TestInjectDrag_MinimumFrames(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.InjectDrag(Vec2{}, Vec2{10, 10}, 0, 0)
	if ed.InjectPending() != 2 {
		t.Errorf("expected press and release only, got %d", ed.InjectPending())
	}
}

func TestInjectKey(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.SetMode(ModeOval)

	ed.InjectKey(" ", 0)
	ed.Update(1.0 / 60)
	if ed.Mode() != ModeHand {
		t.Errorf("expected hand mode while space is down, got %v", ed.Mode())
	}
	ed.Update(1.0 / 60)
	if ed.Mode() != ModeOval {
		t.Errorf("expected oval restored after key up, got %v", ed.Mode())
	}
}

func TestInjectWheel(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.InjectWheel(0, 0, -100)
	ed.Update(1.0 / 60)
	if !approxEqual(ed.Camera().Scale, 1.2, epsilon) {
		t.Errorf("expected scale 1.2, got %v", ed.Camera().Scale)
	}
}

func TestInject_OneEventPerFrame(t *testing.T) {
	ed := newTestEditor(t, NewDocument())
	ed.InjectKey("r", 0)
	ed.InjectKey("v", 0)
	ed.Update(1.0 / 60)
	if ed.Mode() != ModeRectangle {
		t.Errorf("expected rectangle after first frame, got %v", ed.Mode())
	}
	ed.Update(1.0 / 60) // key up
	ed.Update(1.0 / 60)
	if ed.Mode() != ModeSelect {
		t.Errorf("expected select after third frame, got %v", ed.Mode())
	}
}
