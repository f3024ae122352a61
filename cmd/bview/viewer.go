package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dacapoday/bplus/iterator"
)

type item struct {
	key, val int64
}

// viewer keeps one screen of entries around the iterator position.
type viewer struct {
	iter    iterator.Iterator
	items   []item
	width   int
	height  int
	atStart bool // no more items before first
	atEnd   bool // no more items after last
	status  string
}

// resize sets the terminal size and returns true if it changed.
func (v *viewer) resize(w, h int) bool {
	if w == v.width && h == v.height {
		return false
	}
	v.width, v.height = w, h
	return true
}

func (v *viewer) lines() int {
	return max(v.height-4, 1) // title + separator + separator + status
}

func (v *viewer) current() item {
	return item{v.iter.Key(), v.iter.Val()}
}

// load fills the screen from the iterator position.
func (v *viewer) load() {
	v.items = nil
	v.atStart = false
	v.atEnd = false

	if !v.iter.Valid() {
		if !v.iter.SeekFirst() {
			v.atStart = true
			v.atEnd = true
			return
		}
	}

	lines := v.lines()
	for i := 0; i < lines && v.iter.Valid(); i++ {
		v.items = append(v.items, v.current())
		if !v.iter.Next() {
			v.atEnd = true
			break
		}
	}

	if len(v.items) > 0 {
		v.iter.Seek(v.items[0].key)
		if !v.iter.Prev() {
			v.atStart = true
		}
		v.iter.Seek(v.items[0].key)
	}
}

func (v *viewer) down() {
	if len(v.items) == 0 {
		return
	}

	v.iter.Seek(v.items[len(v.items)-1].key)
	if v.iter.Next() {
		v.items = append(v.items[1:], v.current())
		v.atStart = false
		if !v.iter.Next() {
			v.atEnd = true
		}
		v.iter.Seek(v.items[0].key)
	} else if len(v.items) > 1 {
		// at end, scroll until one item is left
		v.items = v.items[1:]
		v.atStart = false
		v.atEnd = true
	}
}

func (v *viewer) up() {
	if v.atStart || len(v.items) == 0 {
		return
	}

	v.iter.Seek(v.items[0].key)
	if v.iter.Prev() {
		prev := v.current()
		if len(v.items) >= v.lines() {
			v.items = append([]item{prev}, v.items[:len(v.items)-1]...)
			v.atEnd = false
		} else {
			v.items = append([]item{prev}, v.items...)
		}
		if !v.iter.Prev() {
			v.atStart = true
		}
		v.iter.Seek(v.items[0].key)
	}
}

func (v *viewer) pageDown() {
	for i := 0; i < v.lines()-1; i++ {
		v.down()
	}
}

func (v *viewer) pageUp() {
	for i := 0; i < v.lines()-1; i++ {
		v.up()
	}
}

func (v *viewer) first() {
	v.iter.SeekFirst()
	v.load()
}

func (v *viewer) last() {
	v.iter.SeekLast()
	for i := 0; i < v.lines()-1; i++ {
		if !v.iter.Prev() {
			break
		}
	}
	v.load()
}

// seek jumps to the first key >= input.
func (v *viewer) seek(input string) {
	key, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		v.status = fmt.Sprintf("bad key: %q", input)
		return
	}
	if v.iter.Seek(key) {
		v.load()
		v.status = fmt.Sprintf("jumped to: %d", v.items[0].key)
	} else {
		v.status = "not found"
	}
}

func (v *viewer) position() string {
	switch {
	case v.atStart && v.atEnd:
		return "[all]"
	case v.atStart:
		return "[top]"
	case v.atEnd:
		return "[end]"
	}
	return ""
}

func (v *viewer) render(w io.Writer, title string) {
	var b strings.Builder

	b.WriteString("\033[H")

	b.WriteString("[ bview: ")
	b.WriteString(title)
	b.WriteString(" ]\033[K\r\n")
	b.WriteString(strings.Repeat("─", v.width))
	b.WriteString("\033[K\r\n")

	lines := v.lines()
	for i := 0; i < lines; i++ {
		if i < len(v.items) {
			fmt.Fprintf(&b, "%20d: %d", v.items[i].key, v.items[i].val)
		} else {
			b.WriteString("~")
		}
		b.WriteString("\033[K\r\n")
	}

	b.WriteString(strings.Repeat("─", v.width))
	b.WriteString("\033[K\r\n")

	b.WriteString(" ")
	if v.status != "" {
		b.WriteString(v.status)
	} else {
		b.WriteString("j/k:scroll g/G:jump /:seek q:quit")
	}
	b.WriteString(" ")
	b.WriteString(v.position())
	b.WriteString("\033[K")

	io.WriteString(w, b.String())
}
