package textsource

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

//go:embed wordlists/*.txt
var builtinLists embed.FS

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific filter for word lists.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "en":
		return filterEnglishASCII
	default:
		return func(word string) bool { return word != "" }
	}
}

func filterEnglishASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

// LoadWords reads one word per line from path, keeping the words filter
// accepts. A nil filter keeps every non-empty line.
func LoadWords(path string, filter FilterFunc) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return readWords(file, filter)
}

// BuiltinWords returns the word list bundled for lang. ok is false when no
// list ships with the binary.
func BuiltinWords(lang string, filter FilterFunc) (words []string, ok bool, err error) {
	file, err := builtinLists.Open("wordlists/" + strings.ToLower(lang) + ".txt")
	if err != nil {
		return nil, false, nil
	}
	defer func() {
		_ = file.Close()
	}()
	words, err = readWords(file, filter)
	if err != nil {
		return nil, true, err
	}
	return words, true, nil
}

// BuiltinLangs lists the languages with a bundled word list.
func BuiltinLangs() []string {
	entries, err := builtinLists.ReadDir("wordlists")
	if err != nil {
		return nil
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".txt") {
			langs = append(langs, strings.TrimSuffix(name, ".txt"))
		}
	}
	sort.Strings(langs)
	return langs
}

func readWords(r io.Reader, filter FilterFunc) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if filter != nil && !filter(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
