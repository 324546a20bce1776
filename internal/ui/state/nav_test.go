package state

import "testing"

func TestStepWraps(t *testing.T) {
	l := NewList("python", "Python scripts")
	l.Replace(scripts("a.py", "b.py", "c.py"))
	l.Step(-1)
	if l.Cursor != 2 {
		t.Fatalf("expected wrap to last row, got %d", l.Cursor)
	}
	l.Step(1)
	if l.Cursor != 0 {
		t.Fatalf("expected wrap to first row, got %d", l.Cursor)
	}
}

func TestJumpAndPageClamp(t *testing.T) {
	l := NewList("python", "Python scripts")
	l.Replace(scripts("a.py", "b.py", "c.py", "d.py", "e.py"))
	if !l.Page(1, 2) || l.Cursor != 2 {
		t.Fatalf("expected page down to row 2, got %d", l.Cursor)
	}
	l.Page(1, 10)
	if l.Cursor != 4 {
		t.Fatalf("expected clamp at last row, got %d", l.Cursor)
	}
	if l.Last() {
		t.Fatalf("already on the last row")
	}
	l.Page(-1, 0)
	if l.Cursor != 0 {
		t.Fatalf("expected whole-list page to reach the top, got %d", l.Cursor)
	}
}

func TestWindowFollowsCursor(t *testing.T) {
	l := NewList("python", "Python scripts")
	l.Replace(scripts("a.py", "b.py", "c.py", "d.py", "e.py"))
	if start, end := l.Window(3); start != 0 || end != 3 {
		t.Fatalf("unexpected window %d..%d", start, end)
	}
	l.Last()
	if start, end := l.Window(3); start != 2 || end != 5 {
		t.Fatalf("expected window to scroll to the end, got %d..%d", start, end)
	}
	l.Step(-2)
	if start, _ := l.Window(3); start != 2 {
		t.Fatalf("cursor still visible, window must not move, got %d", start)
	}
	l.First()
	if start, _ := l.Window(3); start != 0 {
		t.Fatalf("expected window back at the top, got %d", start)
	}
	if start, end := l.Window(0); start != 0 || end != 5 {
		t.Fatalf("unbounded window shows everything, got %d..%d", start, end)
	}
}
