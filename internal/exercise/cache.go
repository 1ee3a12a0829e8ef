package exercise

// Glyph is one rendered reference character.
type Glyph struct {
	Char  rune
	State CharState
	Caret bool
}

// Group is the cached render record of one token.
type Group struct {
	// Key is the token index, stable for the lifetime of the exercise.
	Key       int
	Glyphs    []Glyph
	IsCurrent bool
}

// RenderCache keeps one Group per token and rebuilds only the tokens it is
// told to invalidate.
type RenderCache struct {
	text   []rune
	tokens []Token
	store  *StateStore
	groups []Group
}

// NewRenderCache returns an empty cache over the given text and tokens.
func NewRenderCache(text []rune, tokens []Token, store *StateStore) *RenderCache {
	return &RenderCache{
		text:   text,
		tokens: tokens,
		store:  store,
		groups: make([]Group, len(tokens)),
	}
}

// Seed builds every group. current is the index of the current token.
func (c *RenderCache) Seed(current int) {
	for i := range c.tokens {
		c.Invalidate(i, i == current)
	}
}

// Invalidate rebuilds the group for token pos from the state store.
func (c *RenderCache) Invalidate(pos int, current bool) {
	tok := c.tokens[pos]
	glyphs := c.groups[pos].Glyphs
	if glyphs == nil {
		glyphs = make([]Glyph, tok.Len())
	}
	for i := tok.Start; i < tok.End; i++ {
		glyphs[i-tok.Start] = Glyph{
			Char:  c.text[i],
			State: c.store.State(i),
			Caret: c.store.HasCaret(i),
		}
	}
	c.groups[pos] = Group{Key: pos, Glyphs: glyphs, IsCurrent: current}
}

// Records returns the groups in text order. The slice is owned by the cache
// and must not be modified.
func (c *RenderCache) Records() []Group {
	return c.groups
}
