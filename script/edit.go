package script

import (
	"cmp"
	"slices"
	"strings"
)

// Buffer queues edits against an immutable source text and applies them
// all at once, so every edit is expressed in offsets of the original.
type Buffer struct {
	src   string
	edits []edit
}

type edit struct {
	start, end int
	text       string
}

// NewBuffer returns a Buffer editing src.
func NewBuffer(src string) *Buffer {
	return &Buffer{src: src}
}

// Insert inserts text at offset pos. Insertions at the same offset are
// applied in the order they were made.
func (b *Buffer) Insert(pos int, text string) {
	b.Replace(pos, pos, text)
}

// Delete removes the bytes in [start, end).
func (b *Buffer) Delete(start, end int) {
	b.Replace(start, end, "")
}

// Replace replaces the bytes in [start, end) with text. It panics if the
// range is outside the source.
func (b *Buffer) Replace(start, end int, text string) {
	if start < 0 || end < start || end > len(b.src) {
		panic("script: invalid edit range")
	}

	b.edits = append(b.edits, edit{start: start, end: end, text: text})
}

// String returns the source with all edits applied. It panics if two edits
// overlap.
func (b *Buffer) String() string {
	edits := slices.Clone(b.edits)
	slices.SortStableFunc(edits, func(x, y edit) int {
		if c := cmp.Compare(x.start, y.start); c != 0 {
			return c
		}

		return cmp.Compare(x.end, y.end)
	})

	var (
		out    strings.Builder
		offset int
	)

	out.Grow(len(b.src))

	for _, e := range edits {
		if e.start < offset {
			panic("script: overlapping edits")
		}

		out.WriteString(b.src[offset:e.start])
		out.WriteString(e.text)

		offset = e.end
	}

	out.WriteString(b.src[offset:])

	return out.String()
}
