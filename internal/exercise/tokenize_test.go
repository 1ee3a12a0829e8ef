package exercise

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenizeSplitsWordsWithTrailingDelimiters(t *testing.T) {
	text := "the cat"
	tokens, err := Tokenize(text)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	got := tokenStrings(text, tokens)
	want := []string{"the ", "cat"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 4}, StartOffsets(tokens)); diff != "" {
		t.Fatalf("offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizePunctuation(t *testing.T) {
	text := `"Hello," she said -- (quietly).`
	tokens, err := Tokenize(text)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	got := tokenStrings(text, tokens)
	want := []string{`"Hello," `, "she ", "said -- (", "quietly)."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizePartitionsText(t *testing.T) {
	texts := []string{
		"a",
		"a b",
		"  leading spaces",
		"trailing!!!   ",
		"multi\nline\ttext",
		"naïve café, déjà vu",
		"snake_case and 42 numbers",
	}
	for _, text := range texts {
		tokens, err := Tokenize(text)
		if err != nil {
			t.Fatalf("tokenize %q: %v", text, err)
		}
		if len(tokens) == 0 {
			t.Fatalf("expected tokens for %q", text)
		}
		prev := 0
		for i, tok := range tokens {
			if tok.Start != prev {
				t.Fatalf("%q: token %d starts at %d, want %d", text, i, tok.Start, prev)
			}
			if tok.Len() <= 0 {
				t.Fatalf("%q: token %d is empty", text, i)
			}
			prev = tok.End
		}
		if prev != len([]rune(text)) {
			t.Fatalf("%q: tokens end at %d, want %d", text, prev, len([]rune(text)))
		}
		if joined := strings.Join(tokenStrings(text, tokens), ""); joined != text {
			t.Fatalf("joined tokens %q != %q", joined, text)
		}
	}
}

func TestTokenizeEmpty(t *testing.T) {
	tokens, err := Tokenize("")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("expected no tokens, got %d", len(tokens))
	}
}

func TestTokenizeWithoutWordCharacters(t *testing.T) {
	_, err := Tokenize("... !!!")
	var tokErr *TokenizationError
	if !errors.As(err, &tokErr) {
		t.Fatalf("expected TokenizationError, got %v", err)
	}
	if tokErr.Offset != 0 {
		t.Fatalf("expected offset 0, got %d", tokErr.Offset)
	}
}

func tokenStrings(text string, tokens []Token) []string {
	runes := []rune(text)
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = string(runes[tok.Start:tok.End])
	}
	return out
}
