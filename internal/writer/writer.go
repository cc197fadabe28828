// Package writer implements writing of assembled programs.
package writer

import (
	"fmt"
	"io"

	"github.com/retroenv/hackasm/internal/code"
	"github.com/retroenv/hackasm/internal/symbols"
	"github.com/retroenv/retrogolib/set"
)

// Writer writes machine words and symbol listings to an output.
type Writer struct {
	writer io.Writer
}

// New creates a new writer.
func New(writer io.Writer) *Writer {
	return &Writer{
		writer: writer,
	}
}

// WriteWords writes one word per line as binary digits, every line
// including the last is terminated by a newline.
func (w Writer) WriteWords(words []code.Word) error {
	for i, word := range words {
		if _, err := fmt.Fprintln(w.writer, word.String()); err != nil {
			return fmt.Errorf("writing word %d: %w", i, err)
		}
	}
	return nil
}

// Kinds of symbols in a symbol listing.
const (
	KindLabel    = "label"
	KindVariable = "variable"
)

// WriteSymbols writes all symbols of the table ordered by address, one
// name, decimal address and kind per line. Names in the labels set are
// listed as labels, all others as variables. Names that are in the skip
// function are left out.
func (w Writer) WriteSymbols(table *symbols.Table, labels set.Set[string], skip func(name string) bool) error {
	for _, sym := range table.Sorted() {
		if skip != nil && skip(sym.Name) {
			continue
		}

		kind := KindVariable
		if labels.Contains(sym.Name) {
			kind = KindLabel
		}
		if _, err := fmt.Fprintf(w.writer, "%-32s %5d %s\n", sym.Name, sym.Address, kind); err != nil {
			return fmt.Errorf("writing symbol '%s': %w", sym.Name, err)
		}
	}
	return nil
}
