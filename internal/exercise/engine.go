package exercise

import "unicode/utf8"

// Change describes the character classified by the latest forward keystroke.
type Change struct {
	Pos      int
	Expected rune
	Typed    rune
	State    CharState
}

// Counts tallies the current character states and the mistake ledger.
type Counts struct {
	Correct   int
	Incorrect int
	Fixed     int
	Mistakes  int
}

// Progress carries the data an external progress display needs.
type Progress struct {
	Original string
	Typed    string
}

// Engine applies input changes to the state of one exercise. It is not safe
// for concurrent use.
type Engine struct {
	original string
	text     []rune
	tokens   []Token
	tokenOf  []int

	store  *StateStore
	ledger *Ledger
	cache  *RenderCache

	typed   string
	typedN  int
	current int
	last    Change
	hasLast bool
}

// New tokenizes text and seeds the render cache. The returned engine is ready
// to accept input.
func New(text string) (*Engine, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	runes := []rune(text)
	tokenOf := make([]int, len(runes))
	for i, t := range tokens {
		for p := t.Start; p < t.End; p++ {
			tokenOf[p] = i
		}
	}
	store := NewStateStore(len(runes))
	e := &Engine{
		original: text,
		text:     runes,
		tokens:   tokens,
		tokenOf:  tokenOf,
		store:    store,
		ledger:   NewLedger(len(runes)),
		cache:    NewRenderCache(runes, tokens, store),
	}
	e.cache.Seed(0)
	return e, nil
}

// OnInputChange applies a new snapshot of the typed text and returns the
// positions of the tokens whose groups were rebuilt.
func (e *Engine) OnInputChange(typed string) ([]int, error) {
	if len(e.text) == 0 || typed == e.typed {
		return nil, nil
	}
	n := utf8.RuneCountInString(typed)
	switch {
	case n == e.typedN+1:
		if n > len(e.text) {
			return nil, ErrPastEnd
		}
		r, _ := utf8.DecodeLastRuneInString(typed)
		touched := e.forward(n-1, r)
		e.typed, e.typedN = typed, n
		return touched, nil
	case n == e.typedN-1:
		touched := e.backward(n)
		e.typed, e.typedN = typed, n
		return touched, nil
	default:
		return nil, ErrUnsupportedDelta
	}
}

func (e *Engine) forward(index int, typed rune) []int {
	expected := e.text[index]
	var state CharState
	if typed == expected {
		state = Correct
		if e.ledger.Was(index) {
			state = Fixed
		}
	} else {
		state = Incorrect
		e.ledger.Mark(index)
	}
	e.store.SetState(index, state)
	e.store.MoveCaret(index, index+1)
	e.last = Change{Pos: index, Expected: expected, Typed: typed, State: state}
	e.hasLast = true
	return e.rerender(index, true, -1)
}

func (e *Engine) backward(index int) []int {
	if index+1 < len(e.text) {
		e.store.SetState(index+1, Pending)
	}
	e.store.SetState(index, Pending)
	e.store.MoveCaret(index+1, index)
	reset := -1
	if index > 0 && e.tokens[e.tokenOf[index]].Start == index {
		e.store.SetState(index-1, Pending)
		reset = index - 1
	}
	return e.rerender(index, false, reset)
}

// rerender updates the current token and rebuilds the groups touched by a
// change at index. reset is an extra position modified by the change, or -1.
func (e *Engine) rerender(index int, forward bool, reset int) []int {
	pos := e.tokenOf[index]
	touched := make([]int, 0, 3)
	if index == e.tokens[pos].End-1 {
		next := pos + 1
		if forward {
			e.current = next
		} else {
			e.current = pos
		}
		if next < len(e.tokens) {
			touched = append(touched, next)
		}
		touched = append(touched, pos)
	} else {
		e.current = pos
		touched = append(touched, pos)
	}
	if reset >= 0 {
		if rp := e.tokenOf[reset]; rp != pos {
			touched = append(touched, rp)
		}
	}
	for _, t := range touched {
		e.cache.Invalidate(t, t == e.current)
	}
	return touched
}

// RenderGroups returns one group per token in text order. The slice is owned
// by the engine and is updated in place by OnInputChange.
func (e *Engine) RenderGroups() []Group {
	return e.cache.Records()
}

// ProgressInputs returns the reference and typed text.
func (e *Engine) ProgressInputs() Progress {
	return Progress{Original: e.original, Typed: e.typed}
}

// Tokens returns the tokens of the reference text.
func (e *Engine) Tokens() []Token {
	return e.tokens
}

// Len returns the number of characters in the reference text.
func (e *Engine) Len() int {
	return len(e.text)
}

// Caret returns the caret position, which equals the typed length.
func (e *Engine) Caret() int {
	return e.store.Caret()
}

// State returns the state of the character at index.
func (e *Engine) State(index int) CharState {
	return e.store.State(index)
}

// WasMistake reports whether index was ever typed incorrectly.
func (e *Engine) WasMistake(index int) bool {
	return e.ledger.Was(index)
}

// Current returns the index of the current token, or -1 when the exercise
// is complete.
func (e *Engine) Current() int {
	if e.current >= len(e.tokens) {
		return -1
	}
	return e.current
}

// Done reports whether every reference character has been typed.
func (e *Engine) Done() bool {
	return len(e.text) > 0 && e.typedN == len(e.text)
}

// LastChange returns the most recent forward classification.
func (e *Engine) LastChange() (Change, bool) {
	return e.last, e.hasLast
}

// Mistakes returns the number of distinct positions ever typed incorrectly.
func (e *Engine) Mistakes() int {
	return e.ledger.Len()
}

// Counts tallies the states of the typed positions. Positions reset to
// pending by a backspace over a token start are counted in none of the state
// buckets.
func (e *Engine) Counts() Counts {
	c := Counts{Mistakes: e.ledger.Len()}
	for i := 0; i < e.typedN; i++ {
		switch e.store.State(i) {
		case Correct:
			c.Correct++
		case Incorrect:
			c.Incorrect++
		case Fixed:
			c.Fixed++
		}
	}
	return c
}
