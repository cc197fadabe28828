package instruction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

var (
	// ErrMalformed is returned for text that does not fit any instruction shape.
	ErrMalformed = errors.New("malformed instruction")
	// ErrUnknownMnemonic is returned for a destination, computation or jump
	// that is not part of the instruction set.
	ErrUnknownMnemonic = errors.New("unknown mnemonic")
	// ErrNoEffect is returned for a computation that neither stores its
	// result nor jumps.
	ErrNoEffect = errors.New("computation without destination or jump")
)

// Parse parses a compact instruction string, as returned by the
// preprocessor, into an instruction. The address index and line number of
// the returned instruction are left for the caller to set.
func Parse(s string) (Instruction, error) {
	switch {
	case s == "":
		return Instruction{}, fmt.Errorf("%w: empty instruction", ErrMalformed)
	case s[0] == '@':
		return parseAddress(s[1:])
	case s[0] == '(':
		return parseLabel(s[1:])
	default:
		return parseCompute(s)
	}
}

func parseAddress(symbol string) (Instruction, error) {
	switch {
	case symbol == "":
		return Instruction{}, fmt.Errorf("%w: missing symbol after '@'", ErrMalformed)

	case IsConstant(symbol):
		if _, ok := ConstantValue(symbol); !ok {
			return Instruction{}, fmt.Errorf("%w: constant '%s' exceeds %d", ErrMalformed, symbol, MaxConstant)
		}

	case !validName(symbol):
		return Instruction{}, fmt.Errorf("%w: invalid symbol '%s'", ErrMalformed, symbol)
	}

	return Instruction{Kind: Address, Symbol: symbol}, nil
}

func parseLabel(s string) (Instruction, error) {
	name, found := strings.CutSuffix(s, ")")
	if !found {
		return Instruction{}, fmt.Errorf("%w: missing ')' after label '%s'", ErrMalformed, s)
	}
	if !validName(name) {
		return Instruction{}, fmt.Errorf("%w: invalid label name '%s'", ErrMalformed, name)
	}
	return Instruction{Kind: Label, Symbol: name}, nil
}

// parseCompute splits dest=comp;jump at its two delimiters and looks up each
// field in its mnemonic table.
func parseCompute(s string) (Instruction, error) {
	ins := Instruction{Kind: Compute}
	rest := s

	if destText, after, found := strings.Cut(rest, "="); found {
		if destText == "" {
			return Instruction{}, fmt.Errorf("%w: missing destination before '=' in '%s'", ErrMalformed, s)
		}
		dest, err := lookupDest(destText)
		if err != nil {
			return Instruction{}, err
		}
		ins.Dest = dest
		rest = after
	}

	compText, jumpText, hasJump := strings.Cut(rest, ";")
	switch {
	case strings.Contains(compText, "=") || strings.ContainsAny(jumpText, "=;"):
		return Instruction{}, fmt.Errorf("%w: repeated delimiter in '%s'", ErrMalformed, s)
	case compText == "":
		return Instruction{}, fmt.Errorf("%w: missing computation in '%s'", ErrMalformed, s)
	case hasJump && jumpText == "":
		return Instruction{}, fmt.Errorf("%w: missing jump after ';' in '%s'", ErrMalformed, s)
	}

	comp, err := lookupComp(compText)
	if err != nil {
		return Instruction{}, err
	}
	ins.Comp = comp

	if hasJump {
		jump, err := lookupJump(jumpText)
		if err != nil {
			return Instruction{}, err
		}
		ins.Jump = jump
	}

	if ins.Dest == DestNull && ins.Jump == JumpNull {
		return Instruction{}, fmt.Errorf("%w: '%s'", ErrNoEffect, s)
	}
	return ins, nil
}

func lookupDest(text string) (Dest, error) {
	if d, ok := destByName[text]; ok {
		return d, nil
	}
	return DestNull, unknownMnemonic("destination", text, destTree)
}

func lookupComp(text string) (Comp, error) {
	if c, ok := compByName[text]; ok {
		return c, nil
	}
	return CompInvalid, unknownMnemonic("computation", text, compTree)
}

func lookupJump(text string) (Jump, error) {
	if j, ok := jumpByName[text]; ok {
		return j, nil
	}
	return JumpNull, unknownMnemonic("jump", text, jumpTree)
}

func unknownMnemonic(field, text string, tree *prefixtree.Tree[string]) error {
	if name, ok := suggest(tree, text); ok {
		return fmt.Errorf("%w: %s '%s', did you mean '%s'", ErrUnknownMnemonic, field, text, name)
	}
	return fmt.Errorf("%w: %s '%s'", ErrUnknownMnemonic, field, text)
}
