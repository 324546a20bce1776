// Package state holds the script lists shown by the UI: the latest listing,
// the filter query, the cursor and the chosen script.
package state

import (
	"path/filepath"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Item is one script. ID is its path, Label the file name shown.
type Item struct {
	ID    string
	Label string
}

// List is the state of one script directory's list.
type List struct {
	ID    string
	Title string
	// Items are the scripts passing the query, in listing order.
	Items  []Item
	Cursor int
	// Offset is the first row shown when the list is taller than the view.
	Offset int

	all    []Item
	query  Query
	chosen string
}

// NewList returns an empty list.
func NewList(id, title string) *List {
	return &List{ID: id, Title: title}
}

// Query returns the current filter.
func (l *List) Query() Query { return l.query }

// Visible returns a copy of the scripts passing the filter.
func (l *List) Visible() []Item {
	return append([]Item(nil), l.Items...)
}

// IndexOf returns the row of id among the visible scripts, or -1.
func (l *List) IndexOf(id string) int {
	return indexOf(l.Items, id)
}

// Current returns the script under the cursor.
func (l *List) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// Replace installs a fresh directory listing. The cursor stays on its script
// when that script is still listed; the chosen script is forgotten once its
// file is gone.
func (l *List) Replace(items []Item) {
	at := l.currentID()
	l.all = append([]Item(nil), items...)
	if indexOf(l.all, l.chosen) < 0 {
		l.chosen = ""
	}
	l.refilter(at, false)
}

// Edit applies edit to the query and refilters when the search terms
// changed. It reports whether the query changed at all.
func (l *List) Edit(edit func(*Query) bool) bool {
	before := l.query.Terms()
	if !edit(&l.query) {
		return false
	}
	if l.query.Terms() != before {
		l.refilter(l.currentID(), true)
	}
	return true
}

// Choose marks the script under the cursor as the one to run.
func (l *List) Choose() (Item, bool) {
	item, ok := l.Current()
	if ok {
		l.chosen = item.ID
	}
	return item, ok
}

// Chosen returns the script to run, even when the filter hides it.
func (l *List) Chosen() (Item, bool) {
	if idx := indexOf(l.all, l.chosen); idx >= 0 {
		return l.all[idx], true
	}
	return Item{}, false
}

// IsChosen reports whether id is the script to run.
func (l *List) IsChosen(id string) bool {
	return id != "" && id == l.chosen
}

func (l *List) currentID() string {
	item, _ := l.Current()
	return item.ID
}

// refilter recomputes Items and places the cursor: on the best match while
// typing, back on the chosen script when the filter is emptied, otherwise on
// the script it was already on.
func (l *List) refilter(at string, edited bool) {
	terms := l.query.Terms()
	l.Items = match(l.all, terms)
	if len(l.Items) == 0 {
		l.Cursor, l.Offset = 0, 0
		return
	}
	switch {
	case edited && terms != "":
		l.Cursor = bestMatch(l.Items, terms)
	case edited && l.IndexOf(l.chosen) >= 0:
		l.Cursor = l.IndexOf(l.chosen)
	case l.IndexOf(at) >= 0:
		l.Cursor = l.IndexOf(at)
	}
	l.Jump(0)
}

func indexOf(items []Item, id string) int {
	if id == "" {
		return -1
	}
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func match(items []Item, terms string) []Item {
	if terms == "" {
		return append([]Item(nil), items...)
	}
	words := strings.Fields(terms)
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if score(item, words) >= 0 {
			out = append(out, item)
		}
	}
	return out
}

// score sums the fuzzy distance of every word against the script name; -1
// when a word does not match. Lower is closer.
func score(item Item, words []string) int {
	total := 0
	for _, w := range words {
		d := fuzzy.RankMatchNormalizedFold(w, item.Label)
		if d < 0 {
			return -1
		}
		total += d
	}
	return total
}

// bestMatch prefers a script whose name, with or without its extension,
// equals the terms, then the closest fuzzy match, then the earliest row.
func bestMatch(items []Item, terms string) int {
	words := strings.Fields(terms)
	best, bestScore := 0, -1
	for i, item := range items {
		if strings.EqualFold(item.Label, terms) || strings.EqualFold(stem(item.Label), terms) {
			return i
		}
		if s := score(item, words); s >= 0 && (bestScore < 0 || s < bestScore) {
			best, bestScore = i, s
		}
	}
	return best
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
