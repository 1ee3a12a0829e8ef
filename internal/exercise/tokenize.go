package exercise

import (
	"regexp"
	"unicode/utf8"
)

// tokenPattern matches leading non-word characters, a word and everything
// that follows it up to the next word.
var tokenPattern = regexp.MustCompile(`\W*\w+[\s\W]*`)

// Token is a half-open rune range [Start, End) of the reference text.
type Token struct {
	Start int
	End   int
}

// Len returns the number of runes in the token.
func (t Token) Len() int {
	return t.End - t.Start
}

// Tokenize splits text into word tokens. Offsets are rune offsets. The tokens
// always partition text; text the rule cannot cover yields a
// *TokenizationError.
func Tokenize(text string) ([]Token, error) {
	if text == "" {
		return nil, nil
	}
	matches := tokenPattern.FindAllStringIndex(text, -1)
	tokens := make([]Token, 0, len(matches))
	byteOff, runeOff := 0, 0
	for _, m := range matches {
		if m[0] != byteOff {
			return nil, &TokenizationError{Text: text, Offset: runeOff}
		}
		n := utf8.RuneCountInString(text[m[0]:m[1]])
		tokens = append(tokens, Token{Start: runeOff, End: runeOff + n})
		byteOff = m[1]
		runeOff += n
	}
	if byteOff != len(text) {
		return nil, &TokenizationError{Text: text, Offset: runeOff}
	}
	return tokens, nil
}

// StartOffsets returns the cumulative rune count before each token.
func StartOffsets(tokens []Token) []int {
	out := make([]int, len(tokens))
	for i, t := range tokens {
		out[i] = t.Start
	}
	return out
}
