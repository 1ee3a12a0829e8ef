package exercise

// CharState is the correctness state of a reference character.
type CharState uint8

// Character states.
const (
	Pending CharState = iota
	Correct
	Incorrect
	Fixed
)

func (s CharState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Fixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// StateStore holds one CharState per reference position and the caret.
// The caret is a single index, so exactly one position carries it at any
// time. A caret equal to Len sits past the last character.
type StateStore struct {
	states []CharState
	caret  int
}

// NewStateStore returns a store of n pending characters with the caret at 0.
func NewStateStore(n int) *StateStore {
	return &StateStore{states: make([]CharState, n)}
}

// Len returns the number of positions.
func (s *StateStore) Len() int {
	return len(s.states)
}

// State returns the state at index.
func (s *StateStore) State(index int) CharState {
	s.check("state", index)
	return s.states[index]
}

// SetState overwrites the state at index. The caret is not affected.
func (s *StateStore) SetState(index int, state CharState) {
	s.check("set state", index)
	s.states[index] = state
}

// Caret returns the caret position.
func (s *StateStore) Caret() int {
	return s.caret
}

// HasCaret reports whether index carries the caret.
func (s *StateStore) HasCaret(index int) bool {
	return s.caret == index
}

// MoveCaret moves the caret from one position to another. from must be the
// current caret, otherwise MoveCaret panics with *CaretError. to may equal
// Len; anything past that panics with *OutOfRangeError.
func (s *StateStore) MoveCaret(from, to int) {
	if from != s.caret {
		panic(&CaretError{From: from, Caret: s.caret})
	}
	if to < 0 || to > len(s.states) {
		// The caret range includes Len, so the bound reported is Len+1.
		panic(&OutOfRangeError{Op: "move caret", Index: to, Len: len(s.states) + 1})
	}
	s.caret = to
}

func (s *StateStore) check(op string, index int) {
	if index < 0 || index >= len(s.states) {
		panic(&OutOfRangeError{Op: op, Index: index, Len: len(s.states)})
	}
}

// Ledger records every position that was ever typed incorrectly. Entries
// are never removed.
type Ledger struct {
	marked []bool
	count  int
}

// NewLedger returns an empty ledger for a text of n characters.
func NewLedger(n int) *Ledger {
	return &Ledger{marked: make([]bool, n)}
}

// Mark records a mistake at index. Marking twice is a no-op.
func (l *Ledger) Mark(index int) {
	l.check("mark mistake", index)
	if l.marked[index] {
		return
	}
	l.marked[index] = true
	l.count++
}

// Was reports whether index was ever marked.
func (l *Ledger) Was(index int) bool {
	l.check("was mistake", index)
	return l.marked[index]
}

// Len returns the number of distinct marked positions.
func (l *Ledger) Len() int {
	return l.count
}

func (l *Ledger) check(op string, index int) {
	if index < 0 || index >= len(l.marked) {
		panic(&OutOfRangeError{Op: op, Index: index, Len: len(l.marked)})
	}
}
