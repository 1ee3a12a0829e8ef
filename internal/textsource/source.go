// Package textsource supplies reference texts for typing exercises.
package textsource

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"
	"unicode"
)

// Source yields the reference text of the next exercise.
type Source interface {
	Next() (string, error)
	Name() string
}

// Words builds texts from randomly selected words.
type Words struct {
	rnd      *rand.Rand
	words    []string
	name     string
	count    int
	capsPct  float64
	punctPct float64
	punctSet []rune
	weakSet  map[rune]struct{}
	factor   float64
	weights  []float64
	total    float64
}

// WordsOptions configures a Words source.
type WordsOptions struct {
	Name     string
	Count    int
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
	Seed     int64
}

// NewWords returns a Words source. A zero Seed uses the current time.
func NewWords(words []string, opts WordsOptions) (*Words, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	if opts.Count <= 0 {
		return nil, fmt.Errorf("word count must be > 0")
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Words{
		rnd:      rand.New(rand.NewSource(seed)),
		words:    words,
		name:     opts.Name,
		count:    opts.Count,
		capsPct:  opts.CapsPct,
		punctPct: opts.PunctPct,
		punctSet: opts.PunctSet,
	}, nil
}

// Name implements Source.
func (w *Words) Name() string {
	return w.name
}

// SetWeak biases selection toward words containing runes in weakSet. An
// empty set restores uniform selection.
func (w *Words) SetWeak(weakSet map[rune]struct{}, factor float64) {
	w.weakSet = weakSet
	w.factor = factor
	w.weights = nil
	w.total = 0
	if len(weakSet) == 0 {
		return
	}
	w.weights = make([]float64, len(w.words))
	for i, word := range w.words {
		weakCount := 0
		for _, r := range word {
			if _, ok := weakSet[r]; ok {
				weakCount++
			}
		}
		weight := 1.0 + float64(weakCount)*factor
		w.weights[i] = weight
		w.total += weight
	}
}

// Next implements Source.
func (w *Words) Next() (string, error) {
	out := make([]string, 0, w.count)
	for i := 0; i < w.count; i++ {
		word := w.words[w.pick()]
		word = applyCaps(w.rnd, word, w.capsPct)
		word = applyPunct(w.rnd, word, w.punctPct, w.punctSet)
		out = append(out, word)
	}
	return strings.Join(out, " "), nil
}

func (w *Words) pick() int {
	if w.weights == nil {
		return w.rnd.Intn(len(w.words))
	}
	r := w.rnd.Float64() * w.total
	acc := 0.0
	for j, weight := range w.weights {
		acc += weight
		if r <= acc {
			return j
		}
	}
	return len(w.weights) - 1
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 || rnd.Float64() > punctPct {
		return word
	}
	return word + string(punctSet[rnd.Intn(len(punctSet))])
}

// Paragraphs cycles through the paragraphs of a text file.
type Paragraphs struct {
	name  string
	paras []string
	next  int
}

// LoadParagraphs reads path and splits it on blank lines. Line breaks inside
// a paragraph become single spaces.
func LoadParagraphs(path string) (*Paragraphs, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only text.
			_ = cerr
		}
	}()

	var paras []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paras = append(paras, strings.Join(current, " "))
			current = current[:0]
		}
	}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	if len(paras) == 0 {
		return nil, fmt.Errorf("text file is empty")
	}
	return &Paragraphs{name: path, paras: paras}, nil
}

// Name implements Source.
func (p *Paragraphs) Name() string {
	return p.name
}

// Next implements Source.
func (p *Paragraphs) Next() (string, error) {
	text := p.paras[p.next]
	p.next = (p.next + 1) % len(p.paras)
	return text, nil
}

// Len returns the number of paragraphs.
func (p *Paragraphs) Len() int {
	return len(p.paras)
}
