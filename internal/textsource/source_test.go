package textsource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWordsNextUsesWordCount(t *testing.T) {
	src, err := NewWords([]string{"alpha", "beta"}, WordsOptions{Name: "en", Count: 5, Seed: 1})
	if err != nil {
		t.Fatalf("new words: %v", err)
	}
	text, err := src.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	words := strings.Split(text, " ")
	if len(words) != 5 {
		t.Fatalf("expected 5 words, got %d: %q", len(words), text)
	}
	for _, w := range words {
		if w != "alpha" && w != "beta" {
			t.Fatalf("unexpected word %q", w)
		}
	}
}

func TestWordsCapsAndPunct(t *testing.T) {
	src, err := NewWords([]string{"word"}, WordsOptions{Count: 3, CapsPct: 1, PunctPct: 1, PunctSet: []rune{'!'}, Seed: 7})
	if err != nil {
		t.Fatalf("new words: %v", err)
	}
	text, _ := src.Next()
	if text != "Word! Word! Word!" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestWordsWeakBias(t *testing.T) {
	src, err := NewWords([]string{"zzz", "aaa"}, WordsOptions{Count: 200, Seed: 3})
	if err != nil {
		t.Fatalf("new words: %v", err)
	}
	src.SetWeak(map[rune]struct{}{'z': {}}, 100)
	text, _ := src.Next()
	if n := strings.Count(text, "zzz"); n < 150 {
		t.Fatalf("expected weak words to dominate, got %d of 200", n)
	}
	src.SetWeak(nil, 0)
	if src.weights != nil {
		t.Fatalf("expected uniform selection after clearing weak set")
	}
}

func TestNewWordsValidates(t *testing.T) {
	if _, err := NewWords(nil, WordsOptions{Count: 1}); err == nil {
		t.Fatalf("expected error for empty word list")
	}
	if _, err := NewWords([]string{"a"}, WordsOptions{}); err == nil {
		t.Fatalf("expected error for zero count")
	}
}

func TestLoadParagraphs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.txt")
	data := "First line\n  continues here.\n\n\nSecond   paragraph.\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := LoadParagraphs(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var got []string
	for i := 0; i < 3; i++ {
		text, err := src.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		got = append(got, text)
	}
	want := []string{"First line continues here.", "Second paragraph.", "First line continues here."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paragraphs mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadParagraphsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadParagraphs(path); err == nil {
		t.Fatalf("expected error for empty text")
	}
}
