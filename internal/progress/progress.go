// Package progress renders a single-line counter on a terminal while a lazy
// sequence is consumed.
package progress

import (
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const defaultWidth = 80

// Bar counts the items flowing through a sequence and redraws a status line
// every Every items. A disabled Bar forwards items untouched.
type Bar[T any] struct {
	w       io.Writer
	label   string
	width   int
	enabled bool

	// Weight is the amount an item adds to the counter. Nil counts one per
	// item.
	Weight func(T) int

	// Every is the redraw interval, in counted units.
	Every int

	count int
	drawn int
}

// New returns an enabled Bar writing to w.
func New[T any](w io.Writer, label string) *Bar[T] {
	return &Bar[T]{w: w, label: label, width: defaultWidth, enabled: true, Every: 1}
}

// ForTerminal returns a Bar drawing on f only when f is a terminal.
func ForTerminal[T any](f *os.File, label string) *Bar[T] {
	b := New[T](f, label)
	fd := int(f.Fd())
	b.enabled = term.IsTerminal(fd)
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		b.width = w
	}
	b.Every = 64
	return b
}

// Nop returns a Bar that never draws.
func Nop[T any]() *Bar[T] {
	return &Bar[T]{}
}

// Count returns the number of units counted so far.
func (b *Bar[T]) Count() int {
	return b.count
}

// Wrap returns seq with every item counted. The status line is cleared once
// seq is exhausted or the consumer stops.
func (b *Bar[T]) Wrap(seq iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		defer b.clear()
		for item := range seq {
			b.add(item)
			if !yield(item) {
				return
			}
		}
	}
}

func (b *Bar[T]) add(item T) {
	n := 1
	if b.Weight != nil {
		n = b.Weight(item)
	}
	b.count += n

	every := max(b.Every, 1)
	if !b.enabled || b.count-b.drawn < every {
		return
	}
	b.drawn = b.count
	line := runewidth.Truncate(fmt.Sprintf("%s %d", b.label, b.count), b.width-1, "...")
	fmt.Fprintf(b.w, "\r%s", runewidth.FillRight(line, b.width-1))
}

func (b *Bar[T]) clear() {
	if !b.enabled || b.drawn == 0 {
		return
	}
	fmt.Fprintf(b.w, "\r%s\r", runewidth.FillRight("", b.width-1))
}
