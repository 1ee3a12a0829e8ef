package exercise

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEngineInitialRender(t *testing.T) {
	e := mustEngine(t, "the cat")
	groups := e.RenderGroups()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if !groups[0].IsCurrent || groups[1].IsCurrent {
		t.Fatalf("expected only first token current")
	}
	if !groups[0].Glyphs[0].Caret {
		t.Fatalf("expected caret on first glyph")
	}
	checkInvariants(t, e)
}

func TestEngineTypesWithoutMistakes(t *testing.T) {
	e := mustEngine(t, "cat")
	typeAll(t, e, "cat")
	want := []CharState{Correct, Correct, Correct}
	if diff := cmp.Diff(want, states(e)); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
	if e.Caret() != 3 {
		t.Fatalf("expected caret past end, got %d", e.Caret())
	}
	if !e.Done() {
		t.Fatalf("expected exercise done")
	}
	if e.Current() != -1 {
		t.Fatalf("expected no current token, got %d", e.Current())
	}
}

func TestEngineMistakeThenFix(t *testing.T) {
	e := mustEngine(t, "the cat")
	typeAll(t, e, "the bat")
	if e.State(4) != Incorrect {
		t.Fatalf("expected incorrect at 4, got %s", e.State(4))
	}
	if !e.WasMistake(4) {
		t.Fatalf("expected mistake recorded at 4")
	}
	for _, prefix := range []string{"the ba", "the b", "the "} {
		apply(t, e, prefix)
	}
	if e.Caret() != 4 {
		t.Fatalf("expected caret at 4, got %d", e.Caret())
	}
	apply(t, e, "the c")
	if e.State(4) != Fixed {
		t.Fatalf("expected fixed at 4, got %s", e.State(4))
	}
	if !e.WasMistake(4) {
		t.Fatalf("expected mistake to stay recorded at 4")
	}
	if e.Mistakes() != 1 {
		t.Fatalf("expected 1 mistake, got %d", e.Mistakes())
	}
}

func TestEngineCorrectVersusFixed(t *testing.T) {
	e := mustEngine(t, "ab")
	apply(t, e, "a")
	if e.State(0) != Correct {
		t.Fatalf("expected correct, got %s", e.State(0))
	}
	apply(t, e, "ax")
	apply(t, e, "a")
	apply(t, e, "ab")
	if e.State(1) != Fixed {
		t.Fatalf("expected fixed, got %s", e.State(1))
	}
}

func TestEngineBackspaceRevertsState(t *testing.T) {
	cases := []struct {
		name  string
		seq   []string
		state CharState
	}{
		{name: "correct", seq: []string{"a"}, state: Correct},
		{name: "incorrect", seq: []string{"x"}, state: Incorrect},
		{name: "fixed", seq: []string{"x", "", "a"}, state: Fixed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := mustEngine(t, "ab")
			for _, s := range tc.seq {
				apply(t, e, s)
			}
			if e.State(0) != tc.state {
				t.Fatalf("expected %s before backspace, got %s", tc.state, e.State(0))
			}
			apply(t, e, "")
			if e.State(0) != Pending {
				t.Fatalf("expected pending after backspace, got %s", e.State(0))
			}
			if e.Caret() != 0 {
				t.Fatalf("expected caret at 0, got %d", e.Caret())
			}
			checkInvariants(t, e)
		})
	}
}

func TestEngineMidTokenKeystrokeTouchesOneGroup(t *testing.T) {
	e := mustEngine(t, "the cat sat")
	groups := e.RenderGroups()
	before := make([]*Glyph, len(groups))
	snapshot := make([][]Glyph, len(groups))
	for i, g := range groups {
		before[i] = &g.Glyphs[0]
		snapshot[i] = append([]Glyph(nil), g.Glyphs...)
	}

	touched := apply(t, e, "t")
	if diff := cmp.Diff([]int{0}, touched); diff != "" {
		t.Fatalf("touched mismatch (-want +got):\n%s", diff)
	}
	for i, g := range e.RenderGroups() {
		if &g.Glyphs[0] != before[i] {
			t.Fatalf("group %d glyphs were reallocated", i)
		}
		if i == 0 {
			continue
		}
		if diff := cmp.Diff(snapshot[i], g.Glyphs); diff != "" {
			t.Fatalf("untouched group %d changed (-want +got):\n%s", i, diff)
		}
		if g.IsCurrent {
			t.Fatalf("untouched group %d became current", i)
		}
	}

	typeAll(t, e, "the c")
	first := append([]Glyph(nil), e.RenderGroups()[0].Glyphs...)
	touched = apply(t, e, "the ca")
	if diff := cmp.Diff([]int{1}, touched); diff != "" {
		t.Fatalf("touched mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(first, e.RenderGroups()[0].Glyphs); diff != "" {
		t.Fatalf("finished group changed (-want +got):\n%s", diff)
	}
}

func TestEngineCounts(t *testing.T) {
	e := mustEngine(t, "the cat")
	typeAll(t, e, "the bat")
	if diff := cmp.Diff(Counts{Correct: 6, Incorrect: 1, Mistakes: 1}, e.Counts()); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
	for _, prefix := range []string{"the ba", "the b", "the ", "the c"} {
		apply(t, e, prefix)
	}
	// The space at 3 was reset by backspacing over the token start.
	if diff := cmp.Diff(Counts{Correct: 3, Fixed: 1, Mistakes: 1}, e.Counts()); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineTokenBoundaryTransfersCurrent(t *testing.T) {
	e := mustEngine(t, "the cat")
	typeAll(t, e, "the")
	touched := apply(t, e, "the ")
	if diff := cmp.Diff([]int{1, 0}, touched); diff != "" {
		t.Fatalf("touched mismatch (-want +got):\n%s", diff)
	}
	groups := e.RenderGroups()
	if groups[0].IsCurrent || !groups[1].IsCurrent {
		t.Fatalf("expected second token current after crossing boundary")
	}
	if !groups[1].Glyphs[0].Caret {
		t.Fatalf("expected caret on first glyph of second token")
	}

	touched = apply(t, e, "the")
	if diff := cmp.Diff([]int{1, 0}, touched); diff != "" {
		t.Fatalf("touched mismatch (-want +got):\n%s", diff)
	}
	if !groups[0].IsCurrent || groups[1].IsCurrent {
		t.Fatalf("expected first token current after backspace")
	}
}

func TestEngineBackspaceIntoTokenStartClearsPrevious(t *testing.T) {
	e := mustEngine(t, "the cat")
	typeAll(t, e, "the cat")
	apply(t, e, "the ca")
	apply(t, e, "the c")
	if e.State(3) != Correct {
		t.Fatalf("expected space still correct, got %s", e.State(3))
	}
	touched := apply(t, e, "the ")
	if diff := cmp.Diff([]int{1, 0}, touched); diff != "" {
		t.Fatalf("touched mismatch (-want +got):\n%s", diff)
	}
	if e.State(3) != Pending {
		t.Fatalf("expected boundary reset at 3, got %s", e.State(3))
	}
	if e.State(4) != Pending || e.Caret() != 4 {
		t.Fatalf("expected caret on pending 4")
	}
	groups := e.RenderGroups()
	if groups[0].Glyphs[3].State != Pending {
		t.Fatalf("expected cached first token to reflect boundary reset")
	}
	if groups[0].IsCurrent || !groups[1].IsCurrent {
		t.Fatalf("expected second token to stay current")
	}
	checkInvariants(t, e)
}

func TestEngineLastTokenCompletion(t *testing.T) {
	e := mustEngine(t, "go now")
	typeAll(t, e, "go now")
	for _, g := range e.RenderGroups() {
		if g.IsCurrent {
			t.Fatalf("expected no current token after completion")
		}
	}
	apply(t, e, "go no")
	if e.Current() != 1 || !e.RenderGroups()[1].IsCurrent {
		t.Fatalf("expected last token current after backspace")
	}
	checkInvariants(t, e)
}

func TestEngineRejectsUnsupportedDeltas(t *testing.T) {
	e := mustEngine(t, "abc")
	if _, err := e.OnInputChange("ab"); !errors.Is(err, ErrUnsupportedDelta) {
		t.Fatalf("expected ErrUnsupportedDelta for paste, got %v", err)
	}
	apply(t, e, "a")
	if _, err := e.OnInputChange("b"); !errors.Is(err, ErrUnsupportedDelta) {
		t.Fatalf("expected ErrUnsupportedDelta for replacement, got %v", err)
	}
	typeAll(t, e, "abc")
	if _, err := e.OnInputChange("abcd"); !errors.Is(err, ErrPastEnd) {
		t.Fatalf("expected ErrPastEnd, got %v", err)
	}
	if e.Caret() != 3 {
		t.Fatalf("expected rejected changes to keep caret at 3, got %d", e.Caret())
	}
}

func TestEngineNoOps(t *testing.T) {
	e := mustEngine(t, "abc")
	touched, err := e.OnInputChange("")
	if err != nil || touched != nil {
		t.Fatalf("expected backspace at start to be a no-op, got %v %v", touched, err)
	}

	empty := mustEngine(t, "")
	touched, err = empty.OnInputChange("x")
	if err != nil || touched != nil {
		t.Fatalf("expected empty text to ignore input, got %v %v", touched, err)
	}
	if len(empty.RenderGroups()) != 0 {
		t.Fatalf("expected no groups for empty text")
	}
}

func TestEngineMultibyteInput(t *testing.T) {
	e := mustEngine(t, "déjà vu")
	typeAll(t, e, "déja")
	if e.State(3) != Incorrect {
		t.Fatalf("expected incorrect at 3, got %s", e.State(3))
	}
	change, ok := e.LastChange()
	if !ok || change.Expected != 'à' || change.Typed != 'a' {
		t.Fatalf("unexpected last change %+v", change)
	}
	if got := e.ProgressInputs(); got.Typed != "déja" || got.Original != "déjà vu" {
		t.Fatalf("unexpected progress inputs %+v", got)
	}
}

func TestEngineInvariantsHoldThroughoutSession(t *testing.T) {
	e := mustEngine(t, "One, two; three four.")
	seq := []string{"O", "On", "Onx", "On", "One", "One,", "One, ", "One, t", "One, ", "One,", "One, ", "One, t", "One, tw"}
	for _, s := range seq {
		apply(t, e, s)
		checkInvariants(t, e)
	}
}

func mustEngine(t *testing.T, text string) *Engine {
	t.Helper()
	e, err := New(text)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func apply(t *testing.T, e *Engine, typed string) []int {
	t.Helper()
	touched, err := e.OnInputChange(typed)
	if err != nil {
		t.Fatalf("input %q: %v", typed, err)
	}
	return touched
}

func typeAll(t *testing.T, e *Engine, s string) {
	t.Helper()
	runes := []rune(s)
	for i := len([]rune(e.ProgressInputs().Typed)) + 1; i <= len(runes); i++ {
		apply(t, e, string(runes[:i]))
	}
}

func states(e *Engine) []CharState {
	out := make([]CharState, e.Len())
	for i := range out {
		out[i] = e.State(i)
	}
	return out
}

// checkInvariants verifies the single caret and that the cache matches the
// state store.
func checkInvariants(t *testing.T, e *Engine) {
	t.Helper()
	typedLen := len([]rune(e.ProgressInputs().Typed))
	if e.Caret() != typedLen {
		t.Fatalf("caret %d != typed length %d", e.Caret(), typedLen)
	}
	carets := 0
	currents := 0
	for _, g := range e.RenderGroups() {
		tok := e.Tokens()[g.Key]
		if g.IsCurrent {
			currents++
		}
		for i, glyph := range g.Glyphs {
			pos := tok.Start + i
			if glyph.Caret {
				carets++
				if pos != e.Caret() {
					t.Fatalf("caret glyph at %d, caret at %d", pos, e.Caret())
				}
			}
			if glyph.State != e.State(pos) {
				t.Fatalf("cached state %s at %d, store has %s", glyph.State, pos, e.State(pos))
			}
		}
	}
	wantCarets, wantCurrents := 1, 1
	if e.Done() {
		wantCarets, wantCurrents = 0, 0
	}
	if carets != wantCarets {
		t.Fatalf("expected %d caret glyphs, got %d", wantCarets, carets)
	}
	if currents != wantCurrents {
		t.Fatalf("expected %d current tokens, got %d", wantCurrents, currents)
	}
}
