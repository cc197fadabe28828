package preprocess

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"empty line", "", "", false},
		{"whitespace only", " \t  ", "", false},
		{"comment only", "// a comment", "", false},
		{"indented comment", "    // indented", "", false},
		{"plain instruction", "@2", "@2", true},
		{"surrounding whitespace", "  D=A  \r", "D=A", true},
		{"internal whitespace", "D = D + A", "D=D+A", true},
		{"trailing comment", "M=D // store", "M=D", true},
		{"trailing comment without space", "0;JMP//loop", "0;JMP", true},
		{"label with comment", "(LOOP) // start", "(LOOP)", true},
		{"tabs", "\tD\t;\tJGT", "D;JGT", true},
		{"split marker", "D=A / / x", "D=A", true},
		{"single slash kept", "D=A/", "D=A/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Line(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLineIdempotent(t *testing.T) {
	inputs := []string{
		"D = D + A // add",
		"  @counter  ",
		"(END)",
		"A M D = M - 1 ; J N E",
		"x / / y // z",
		"/ / leading split marker",
	}

	for _, input := range inputs {
		once, ok := Line(input)
		if !ok {
			_, okAgain := Line(once)
			assert.False(t, okAgain)
			continue
		}

		twice, ok := Line(once)
		assert.True(t, ok)
		assert.Equal(t, once, twice)
	}
}
