// Package loader handles source file loading operations.
package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/hackasm/internal/code"
)

// Loader handles loading assembly source and machine code files from disk.
type Loader struct{}

// New creates a new source loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the whole source file into memory.
func (l *Loader) Load(path string) (*bytes.Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return bytes.NewReader(data), nil
}

// LoadWords reads a machine code file with one binary word per line.
// Blank lines are skipped.
func (l *Loader) LoadWords(path string) ([]code.Word, error) {
	reader, err := l.Load(path)
	if err != nil {
		return nil, err
	}

	var words []code.Word
	scanner := bufio.NewScanner(reader)
	for row := 1; scanner.Scan(); row++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		w, err := code.ParseWord(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row, err)
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return words, nil
}
