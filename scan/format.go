package scan

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Writer prints one tab-separated line per item: archive, item name,
// parent, then the referenced names.
type Writer struct {
	w *bufio.Writer
	// Quote renders the archive and item name as Go string literals.
	Quote bool
}

// NewWriter creates a Writer that quotes archive and item names.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), Quote: true}
}

// Write prints item. Items carrying an error are ignored.
func (w *Writer) Write(item Item) error {
	if item.Refs == nil {
		return nil
	}
	_, err := w.w.WriteString(FormatLine(item, w.Quote))
	return err
}

// Flush writes any buffered output.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// FormatLine renders item as it is printed by Writer, including the
// trailing newline.
func FormatLine(item Item, quote bool) string {
	archive, name := item.Archive, item.Name
	if quote {
		archive, name = strconv.Quote(archive), strconv.Quote(name)
	}

	var b strings.Builder
	b.WriteString(archive)
	b.WriteByte('\t')
	b.WriteString(name)
	b.WriteByte('\t')
	if item.Refs != nil {
		b.WriteString(item.Refs.Parent)
		b.WriteByte('\t')
		b.WriteString(strings.Join(item.Refs.Names, "\t"))
	}
	b.WriteByte('\n')
	return b.String()
}
