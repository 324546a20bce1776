package state

import (
	"strings"
	"unicode"
)

// Query is the filter text typed under a script list and the caret inside
// it. Positions count runes. The zero value is an empty query.
type Query struct {
	text []rune
	pos  int
}

// NewQuery returns a query holding text with the caret at the end.
func NewQuery(text string) Query {
	r := []rune(text)
	return Query{text: r, pos: len(r)}
}

func (q Query) String() string { return string(q.text) }

// Pos is the caret offset in runes.
func (q Query) Pos() int { return q.pos }

// Empty reports whether the query holds no text.
func (q Query) Empty() bool { return len(q.text) == 0 }

// Terms is the text the list is matched against.
func (q Query) Terms() string { return strings.TrimSpace(string(q.text)) }

// Insert places s at the caret.
func (q *Query) Insert(s string) bool {
	in := []rune(s)
	if len(in) == 0 {
		return false
	}
	text := make([]rune, 0, len(q.text)+len(in))
	text = append(text, q.text[:q.pos]...)
	text = append(text, in...)
	text = append(text, q.text[q.pos:]...)
	q.text = text
	q.pos += len(in)
	return true
}

// Backspace removes the rune before the caret.
func (q *Query) Backspace() bool {
	if q.pos == 0 {
		return false
	}
	q.cut(q.pos-1, q.pos)
	return true
}

// DeleteWord removes the word before the caret along with the spaces after it.
func (q *Query) DeleteWord() bool {
	if q.pos == 0 {
		return false
	}
	start := q.pos
	for start > 0 && unicode.IsSpace(q.text[start-1]) {
		start--
	}
	for start > 0 && !unicode.IsSpace(q.text[start-1]) {
		start--
	}
	q.cut(start, q.pos)
	return true
}

// Clear empties the query.
func (q *Query) Clear() bool {
	if q.Empty() {
		return false
	}
	q.text, q.pos = nil, 0
	return true
}

func (q *Query) Left() bool  { return q.moveTo(q.pos - 1) }
func (q *Query) Right() bool { return q.moveTo(q.pos + 1) }
func (q *Query) Home() bool  { return q.moveTo(0) }
func (q *Query) End() bool   { return q.moveTo(len(q.text)) }

func (q *Query) moveTo(pos int) bool {
	if pos < 0 || pos > len(q.text) || pos == q.pos {
		return false
	}
	q.pos = pos
	return true
}

func (q *Query) cut(from, to int) {
	text := make([]rune, 0, len(q.text)-(to-from))
	text = append(text, q.text[:from]...)
	q.text = append(text, q.text[to:]...)
	q.pos = from
}
