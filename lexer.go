package gmlpp

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// lexer drives the state machine over a character stream.
type lexer struct {
	r     *bufio.Reader   // Reader for the input
	text  strings.Builder // Characters of the pending token
	toks  []token         // Tokens emitted so far
	state lexState        // Current state
	pos   position        // Position of the current character
	start position        // Position of the pending token
}

// position represents a position in the input.
type position struct {
	line int // Line number
	col  int // Column number
}

// newLexer creates a new lexer for a gmlpp source.
func newLexer(r io.Reader) *lexer {
	return &lexer{
		r:    bufio.NewReader(r),
		pos:  position{line: 1, col: 1},
		toks: []token{{Kind: tokBOF, Line: 1, Col: 1}},
	}
}

// tokenize lexes a whole source into tokens bracketed by BOF and EOF.
// Line and block comments are dropped; doc comments are kept.
func tokenize(r io.Reader) ([]token, error) {
	l := newLexer(r)
	first := true
	for {
		ch, _, err := l.r.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			if ch == 0xFEFF {
				// Skip UTF-8 BOM if present.
				continue
			}
		}
		if err := l.feed(ch); err != nil {
			return nil, err
		}
	}
	if err := l.finish(); err != nil {
		return nil, err
	}

	return l.toks, nil
}

// feed runs one character through the state machine.
func (l *lexer) feed(c rune) error {
	next, ok, lerr := l.state.next(c)
	if lerr != nil {
		return l.fail(lerr, l.pos)
	}

	if !ok {
		// The previous state was a complete token.
		l.emit()
		l.state = lexState{}
		return l.feed(c)
	}

	if next.id == stStart {
		l.text.Reset()
	} else {
		if l.state.id == stStart {
			l.start = l.pos
		}
		l.text.WriteRune(c)
	}
	l.state = next
	l.advance(c)

	return nil
}

// finish flushes the pending token and appends EOF.
func (l *lexer) finish() error {
	if l.state.id != stStart {
		next, ok, lerr := l.state.next('\n')
		if lerr != nil || (ok && next.id != stEOL) {
			return l.fail(&Error{Kind: UnexpectedEOF}, l.start)
		}
		l.emit()
	}

	l.toks = append(l.toks, token{Kind: tokEOF, Line: l.pos.line, Col: l.pos.col})
	return nil
}

// emit turns the pending characters into a token.
func (l *lexer) emit() {
	defer l.text.Reset()

	kind, ok := tokenStates[l.state.id]
	if !ok {
		return
	}

	text := l.text.String()
	tok := token{Kind: kind, Line: l.start.line, Col: l.start.col}
	switch kind {
	case tokComment, tokBlockComment:
		return
	case tokIdent:
		tok.Kind = identKind(text)
		tok.Lit = text
	case tokDec:
		tok.Lit = text
	case tokHex, tokBin:
		tok.Lit = text[2:]
	case tokString, tokChar:
		tok.Lit = text[1 : len(text)-1]
	case tokDocComment:
		tok.Lit = strings.TrimRight(strings.TrimPrefix(text[3:], " "), "\r")
	}

	l.toks = append(l.toks, tok)
}

// advance moves the position past a character.
func (l *lexer) advance(c rune) {
	if c == '\n' {
		l.pos.line++
		l.pos.col = 1
		return
	}
	l.pos.col++
}

// fail positions a state machine error.
func (l *lexer) fail(e *Error, at position) error {
	e.Line, e.Col = at.line, at.col
	return e
}
