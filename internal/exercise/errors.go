// Package exercise tracks the state of a single typing exercise.
//
// An Engine owns the reference text, its tokens, the per-character state
// table, the mistake ledger and the token render cache. Each input change is
// applied incrementally: only the character that changed and the tokens that
// contain it are recomputed.
package exercise

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedDelta is returned when an input change is not a single
	// appended or removed character.
	ErrUnsupportedDelta = errors.New("input change must add or remove exactly one character")
	// ErrPastEnd is returned when input extends beyond the reference text.
	ErrPastEnd = errors.New("input is longer than the reference text")
)

// TokenizationError reports text the token rule cannot cover.
type TokenizationError struct {
	Text   string
	Offset int
}

func (e *TokenizationError) Error() string {
	return fmt.Sprintf("cannot tokenize text at rune offset %d: %q", e.Offset, e.Text)
}

// OutOfRangeError is the panic value used when a position outside the text is
// passed to the state table or the mistake ledger.
type OutOfRangeError struct {
	Op    string
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0, %d)", e.Op, e.Index, e.Len)
}

// CaretError is the panic value used when a caret move names a source
// position that does not hold the caret.
type CaretError struct {
	From  int
	Caret int
}

func (e *CaretError) Error() string {
	return fmt.Sprintf("move caret: source %d does not hold the caret (caret at %d)", e.From, e.Caret)
}
