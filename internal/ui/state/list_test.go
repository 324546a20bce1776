package state

import (
	"reflect"
	"testing"
)

func scripts(names ...string) []Item {
	items := make([]Item, len(names))
	for i, n := range names {
		items[i] = Item{ID: "pyscripts/" + n, Label: n}
	}
	return items
}

func labels(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func typeText(l *List, text string) {
	l.Edit(func(q *Query) bool { return q.Insert(text) })
}

func TestFilterMatchesEveryWord(t *testing.T) {
	l := NewList("python", "Python scripts")
	l.Replace(scripts("blur.py", "fast_blur.py", "sharpen.py"))

	typeText(l, "blur")
	if got := labels(l.Items); !reflect.DeepEqual(got, []string{"blur.py", "fast_blur.py"}) {
		t.Fatalf("unexpected matches %v", got)
	}
	typeText(l, " fast")
	if got := labels(l.Items); !reflect.DeepEqual(got, []string{"fast_blur.py"}) {
		t.Fatalf("expected both words to match, got %v", got)
	}
	typeText(l, "zzz")
	if len(l.Items) != 0 || l.Cursor != 0 {
		t.Fatalf("expected no matches, got %v at %d", labels(l.Items), l.Cursor)
	}
}

func TestFilterCursorPrefersExactName(t *testing.T) {
	l := NewList("python", "Python scripts")
	l.Replace(scripts("a_sharpen_more.py", "sharpen.py"))
	typeText(l, "sharpen")
	if item, _ := l.Current(); item.Label != "sharpen.py" {
		t.Fatalf("expected cursor on sharpen.py, got %q", item.Label)
	}
}

func TestClearingFilterReturnsToChosenScript(t *testing.T) {
	l := NewList("python", "Python scripts")
	l.Replace(scripts("a.py", "b.py", "c.py"))
	l.Last()
	l.Choose()

	typeText(l, "a")
	if item, _ := l.Current(); item.Label != "a.py" {
		t.Fatalf("expected cursor on a.py while filtering, got %q", item.Label)
	}
	l.Edit((*Query).Clear)
	if l.Cursor != 2 {
		t.Fatalf("expected cursor back on chosen c.py, got %d", l.Cursor)
	}
}

func TestClearingFilterKeepsCurrentScript(t *testing.T) {
	l := NewList("python", "Python scripts")
	l.Replace(scripts("a.py", "b.py", "c.py"))
	typeText(l, "b")
	l.Edit((*Query).Clear)
	if item, _ := l.Current(); item.Label != "b.py" {
		t.Fatalf("expected cursor to stay on b.py, got %q", item.Label)
	}
}

func TestCaretOnlyEditKeepsItems(t *testing.T) {
	l := NewList("python", "Python scripts")
	l.Replace(scripts("a.py", "b.py"))
	typeText(l, "b")
	if !l.Edit((*Query).Left) {
		t.Fatalf("expected caret move to count as an edit")
	}
	if l.Query().Pos() != 0 || len(l.Items) != 1 {
		t.Fatalf("unexpected state %q at %d, %v", l.Query().String(), l.Query().Pos(), labels(l.Items))
	}
	if l.Edit((*Query).Left) {
		t.Fatalf("caret already at the start")
	}
}

func TestReplaceFollowsCursorAndDropsMissingChoice(t *testing.T) {
	l := NewList("python", "Python scripts")
	l.Replace(scripts("a.py", "b.py", "c.py"))
	l.Step(1)
	l.Choose()

	l.Replace(scripts("b.py", "c.py", "d.py"))
	if l.Cursor != 0 || !l.IsChosen("pyscripts/b.py") {
		t.Fatalf("expected cursor and choice to follow b.py, got %d", l.Cursor)
	}

	l.Replace(scripts("c.py", "d.py"))
	if _, ok := l.Chosen(); ok {
		t.Fatalf("expected choice dropped once b.py is gone")
	}
}

func TestChosenSurvivesFilter(t *testing.T) {
	l := NewList("python", "Python scripts")
	l.Replace(scripts("blur.py", "sharpen.py"))
	l.Choose()
	typeText(l, "sharp")
	item, ok := l.Chosen()
	if !ok || item.Label != "blur.py" {
		t.Fatalf("expected hidden choice to remain, got %+v %v", item, ok)
	}
	if l.IsChosen("") {
		t.Fatalf("empty id is never chosen")
	}
}

func TestChooseOnEmptyList(t *testing.T) {
	l := NewList("native", "Native scripts")
	if _, ok := l.Choose(); ok {
		t.Fatalf("expected nothing to choose")
	}
	if l.Step(1) || l.Last() {
		t.Fatalf("empty list cannot move")
	}
}
