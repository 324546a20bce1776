package state

// Step moves the cursor by delta rows, wrapping past either end.
func (l *List) Step(delta int) bool {
	n := len(l.Items)
	if n == 0 {
		return false
	}
	old := l.Cursor
	l.Cursor = ((l.Cursor+delta)%n + n) % n
	return l.Cursor != old
}

// Jump moves the cursor by delta rows, stopping at either end.
func (l *List) Jump(delta int) bool {
	old := l.Cursor
	l.Cursor += delta
	if last := len(l.Items) - 1; l.Cursor > last {
		l.Cursor = last
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	return l.Cursor != old
}

// Page moves one screen of rows up (pages < 0) or down. A non-positive
// rows means the whole list fits.
func (l *List) Page(pages, rows int) bool {
	if rows <= 0 {
		rows = len(l.Items)
	}
	return l.Jump(pages * rows)
}

func (l *List) First() bool { return l.Jump(-len(l.Items)) }
func (l *List) Last() bool  { return l.Jump(len(l.Items)) }

// Window scrolls Offset just enough to keep the cursor inside rows visible
// rows and returns the visible range of Items.
func (l *List) Window(rows int) (start, end int) {
	n := len(l.Items)
	if rows <= 0 || rows >= n {
		l.Offset = 0
		return 0, n
	}
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+rows {
		l.Offset = l.Cursor - rows + 1
	}
	if l.Offset > n-rows {
		l.Offset = n - rows
	}
	if l.Offset < 0 {
		l.Offset = 0
	}
	return l.Offset, l.Offset + rows
}
