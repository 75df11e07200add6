package gmlpp

// cursor is a positioned, seekable view over a token sequence.
// Reads past the end yield the final EOF token.
type cursor struct {
	toks []token
	pos  int
}

// newCursor creates a cursor at the first token.
func newCursor(toks []token) *cursor {
	if len(toks) == 0 || toks[len(toks)-1].Kind != tokEOF {
		toks = append(toks, token{Kind: tokEOF})
	}
	return &cursor{toks: toks}
}

// peek returns the current token without consuming it.
func (c *cursor) peek() token {
	return c.at(0)
}

// next returns the current token and advances past it.
func (c *cursor) next() token {
	t := c.at(0)
	c.skip(1)
	return t
}

// skip advances the position by n tokens.
func (c *cursor) skip(n int) {
	c.seek(c.pos + n)
}

// back retreats the position by n tokens.
func (c *cursor) back(n int) {
	c.seek(c.pos - n)
}

// seek jumps to an absolute position.
func (c *cursor) seek(pos int) {
	switch {
	case pos < 0:
		pos = 0
	case pos > len(c.toks):
		pos = len(c.toks)
	}
	c.pos = pos
}

// mark returns the absolute position, for a later seek.
func (c *cursor) mark() int {
	return c.pos
}

// at returns the token at offset i from the current position.
func (c *cursor) at(i int) token {
	j := c.pos + i
	if j < 0 {
		j = 0
	}
	if j >= len(c.toks) {
		return c.toks[len(c.toks)-1]
	}
	return c.toks[j]
}

// window returns the next n tokens, padded with EOF.
func (c *cursor) window(n int) []token {
	out := make([]token, n)
	for i := range out {
		out[i] = c.at(i)
	}
	return out
}

// is reports whether the upcoming tokens start with the given kinds.
func (c *cursor) is(kinds ...tokenKind) bool {
	for i, k := range kinds {
		if c.at(i).Kind != k {
			return false
		}
	}
	return true
}

// skipEOL consumes any end-of-line tokens.
func (c *cursor) skipEOL() {
	for c.peek().Kind == tokEOL {
		c.skip(1)
	}
}
