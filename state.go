package gmlpp

import (
	"math"
	"unicode"
)

// stateID names a state of the lexical state machine.
type stateID int

// lexer states.
const (
	stStart stateID = iota

	// comments
	stSlashSlash
	stSlashSlashSlash
	stLineComment
	stDocComment
	stSlashStar      // inside /* ... at depth
	stSlashStarSlash // saw / inside a block comment
	stSlashStarStar  // saw * inside a block comment

	// numbers
	stZero
	stZeroX
	stZeroB
	stHex
	stBin
	stDec
	stDecFloat
	stDecE
	stDecEMinus
	stDecExp

	// strings
	stCharStart
	stCharX
	stCharSlash
	stChar
	stStrStart
	stStrSlash
	stStr

	// arithmetic operators
	stMinus
	stPlus
	stPlusEqual
	stMinusEqual
	stStar
	stStarStar
	stSlash
	stPercent
	stStarEqual
	stStarStarEqual
	stSlashEqual
	stPercentEqual
	stPlusPlus
	stMinusMinus

	// comparison operators
	stEqual
	stEqualEqual
	stNotEqual
	stLess
	stLessEqual
	stMore
	stMoreEqual

	// boolean and bitwise operators
	stAnd
	stAndAnd
	stBar
	stBarBar
	stXor
	stAndEqual
	stBarEqual
	stXorEqual
	stTilde
	stBang
	stLShift
	stLShiftEqual
	stRShift
	stRShiftEqual

	// symbols
	stQuestion
	stColon
	stHash
	stAt
	stUnderscore
	stBarMore
	stDot
	stComma
	stSemi
	stDotDot
	stDotDotDot

	// preprocessor
	stHashM
	stHashMa
	stHashMac
	stHashMacr
	stHashMacro
	stHashP
	stHashPr
	stHashPra
	stHashPrag
	stHashPragm
	stHashPragma

	// whitespace
	stEOL

	// brackets
	stLParen
	stRParen
	stLBrack
	stRBrack
	stLBrace
	stRBrace

	stIdentifier
)

// lexState is a state plus the block comment depth it carries.
type lexState struct {
	id    stateID
	depth uint8
}

// startTransitions maps the first character of fixed tokens to their state.
var startTransitions = map[rune]stateID{
	'0':  stZero,
	'(':  stLParen,
	')':  stRParen,
	'{':  stLBrace,
	'}':  stRBrace,
	'[':  stLBrack,
	']':  stRBrack,
	'+':  stPlus,
	'-':  stMinus,
	'*':  stStar,
	'/':  stSlash,
	'%':  stPercent,
	'=':  stEqual,
	'|':  stBar,
	'&':  stAnd,
	'^':  stXor,
	'~':  stTilde,
	'<':  stLess,
	'>':  stMore,
	'!':  stBang,
	'#':  stHash,
	'@':  stAt,
	'.':  stDot,
	',':  stComma,
	'\n': stEOL,
	'\'': stCharStart,
	'"':  stStrStart,
	';':  stSemi,
	'_':  stUnderscore,
	'?':  stQuestion,
	':':  stColon,
}

// operatorTransitions extends an operator state by one character.
// A missing entry means the operator seen so far is complete.
var operatorTransitions = map[stateID]map[rune]stateID{
	stPlus:     {'+': stPlusPlus, '=': stPlusEqual},
	stMinus:    {'-': stMinusMinus, '=': stMinusEqual},
	stStar:     {'*': stStarStar, '=': stStarEqual},
	stStarStar: {'=': stStarStarEqual},
	stPercent:  {'=': stPercentEqual},
	stBar:      {'|': stBarBar, '=': stBarEqual, '>': stBarMore},
	stAnd:      {'&': stAndAnd, '=': stAndEqual},
	stXor:      {'=': stXorEqual},
	stBang:     {'=': stNotEqual},
	stEqual:    {'=': stEqualEqual},
	stLess:     {'<': stLShift, '=': stLessEqual},
	stLShift:   {'=': stLShiftEqual},
	stMore:     {'>': stRShift, '=': stMoreEqual},
	stRShift:   {'=': stRShiftEqual},
}

// directives spells out the preprocessor keywords one state per character.
var directives = map[stateID]struct {
	want rune
	next stateID
}{
	stHashM:     {'a', stHashMa},
	stHashMa:    {'c', stHashMac},
	stHashMac:   {'r', stHashMacr},
	stHashMacr:  {'o', stHashMacro},
	stHashP:     {'r', stHashPr},
	stHashPr:    {'a', stHashPra},
	stHashPra:   {'g', stHashPrag},
	stHashPrag:  {'m', stHashPragm},
	stHashPragm: {'a', stHashPragma},
}

// next transitions to the next state given a character.
//
// It returns (next, true, nil) when c is absorbed, and ok == false when the current
// state already holds a complete token that must be emitted before c is fed again
// from the initial state.
func (s lexState) next(c rune) (lexState, bool, *Error) {
	to := func(id stateID) (lexState, bool, *Error) {
		return lexState{id: id, depth: s.depth}, true, nil
	}
	done := func() (lexState, bool, *Error) {
		return lexState{}, false, nil
	}
	fail := func(k ErrorKind) (lexState, bool, *Error) {
		return lexState{}, false, &Error{Kind: k, Near: string(c)}
	}

	switch s.id {
	case stStart:
		if id, ok := startTransitions[c]; ok {
			return to(id)
		}
		switch {
		case unicode.IsSpace(c):
			return to(stStart)
		case isDigit(c):
			return to(stDec)
		case unicode.IsLetter(c):
			return to(stIdentifier)
		}
		return fail(InvalidCharacter)

	// numbers
	case stZero:
		switch {
		case c == 'x':
			return to(stZeroX)
		case c == 'b':
			return to(stZeroB)
		case c == '_' || isDigit(c):
			return to(stDec)
		case c == '.':
			return to(stDecFloat)
		case c == 'e':
			return to(stDecE)
		case !isAlnum(c):
			return done()
		}
		return fail(MalformedNumericLiteral)

	case stZeroX, stHex:
		switch {
		case c == '_':
			return to(s.id)
		case isHexDigit(c):
			return to(stHex)
		case s.id == stHex && !isAlnum(c):
			return done()
		}
		return fail(MalformedNumericLiteral)

	case stZeroB, stBin:
		switch {
		case c == '_':
			return to(s.id)
		case c == '0' || c == '1':
			return to(stBin)
		case s.id == stBin && !isAlnum(c):
			return done()
		}
		return fail(MalformedNumericLiteral)

	case stDec:
		switch {
		case c == '_' || isDigit(c):
			return to(stDec)
		case c == '.':
			return to(stDecFloat)
		case c == 'e':
			return to(stDecE)
		case !isAlnum(c):
			return done()
		}
		return fail(MalformedNumericLiteral)

	case stDecFloat:
		switch {
		case c == '_' || isDigit(c):
			return to(stDecFloat)
		case c == 'e':
			return to(stDecE)
		case !isAlnum(c):
			return done()
		}
		return fail(MalformedNumericLiteral)

	case stDecE:
		switch {
		case c == '-':
			return to(stDecEMinus)
		case isDigit(c):
			return to(stDecExp)
		}
		return fail(MalformedNumericLiteral)

	case stDecEMinus:
		if isDigit(c) {
			return to(stDecExp)
		}
		return fail(MalformedNumericLiteral)

	case stDecExp:
		switch {
		case c == '_' || isDigit(c):
			return to(stDecExp)
		case !isAlnum(c):
			return done()
		}
		return fail(MalformedNumericLiteral)

	// comments
	case stSlash:
		switch c {
		case '/':
			return to(stSlashSlash)
		case '=':
			return to(stSlashEqual)
		case '*':
			return lexState{id: stSlashStar, depth: 1}, true, nil
		}
		return done()

	case stSlashSlash:
		switch c {
		case '/':
			return to(stSlashSlashSlash)
		case '\n':
			return done()
		}
		return to(stLineComment)

	case stSlashSlashSlash, stDocComment:
		if c == '\n' {
			return done()
		}
		return to(stDocComment)

	case stLineComment:
		if c == '\n' {
			return done()
		}
		return to(stLineComment)

	case stSlashStar:
		if s.depth == 0 {
			return done()
		}
		switch c {
		case '/':
			return to(stSlashStarSlash)
		case '*':
			return to(stSlashStarStar)
		}
		return to(stSlashStar)

	case stSlashStarStar:
		switch c {
		case '/':
			return lexState{id: stSlashStar, depth: s.depth - 1}, true, nil
		case '*':
			return to(stSlashStarStar)
		}
		return to(stSlashStar)

	case stSlashStarSlash:
		switch c {
		case '/':
			return to(stSlashStarSlash)
		case '*':
			if s.depth == math.MaxUint8 {
				return fail(CommentNestingDepth)
			}
			return lexState{id: stSlashStar, depth: s.depth + 1}, true, nil
		}
		return to(stSlashStar)

	// strings
	case stCharStart:
		switch c {
		case '\\':
			return to(stCharSlash)
		case '\'':
			return fail(UnexpectedCharacter)
		}
		return to(stCharX)

	case stCharX:
		if c == '\'' {
			return to(stChar)
		}
		return fail(UnexpectedCharacter)

	case stCharSlash:
		return to(stCharX)

	case stStrStart:
		switch c {
		case '"':
			return to(stStr)
		case '\\':
			return to(stStrSlash)
		}
		return to(stStrStart)

	case stStrSlash:
		return to(stStrStart)

	case stHash:
		switch c {
		case 'm':
			return to(stHashM)
		case 'p':
			return to(stHashP)
		}
		return done()

	case stHashMacro, stHashPragma:
		if c == '_' || isAlnum(c) {
			return fail(InvalidPreprocessorDirective)
		}
		return done()

	case stUnderscore, stIdentifier:
		if c == '_' || isAlnum(c) {
			return to(stIdentifier)
		}
		return done()

	case stDot:
		switch {
		case c == '.':
			return to(stDotDot)
		case isDigit(c):
			return to(stDecFloat)
		}
		return done()

	case stDotDot:
		if c == '.' {
			return to(stDotDotDot)
		}
		return fail(UnexpectedCharacter)

	case stDotDotDot:
		if c == '.' {
			return fail(UnexpectedCharacter)
		}
		return done()

	case stEOL:
		if unicode.IsSpace(c) {
			return to(stEOL)
		}
		return done()
	}

	if d, ok := directives[s.id]; ok {
		if c == d.want {
			return to(d.next)
		}
		return fail(InvalidPreprocessorDirective)
	}

	if ext, ok := operatorTransitions[s.id]; ok {
		if id, ok := ext[c]; ok {
			return to(id)
		}
	}

	// Every remaining state is a complete single token.
	return done()
}

// tokenStates maps complete states to the token they produce.
var tokenStates = map[stateID]tokenKind{
	stZero:            tokDec,
	stDec:             tokDec,
	stDecFloat:        tokDec,
	stDecExp:          tokDec,
	stHex:             tokHex,
	stBin:             tokBin,
	stStr:             tokString,
	stChar:            tokChar,
	stSlashSlash:      tokComment,
	stLineComment:     tokComment,
	stSlashSlashSlash: tokDocComment,
	stDocComment:      tokDocComment,
	stSlashStar:       tokBlockComment,
	stMinus:           tokMinus,
	stPlus:            tokPlus,
	stPlusEqual:       tokPlusAssign,
	stMinusEqual:      tokMinusAssign,
	stStar:            tokStar,
	stStarStar:        tokExp,
	stSlash:           tokSlash,
	stPercent:         tokPct,
	stStarEqual:       tokStarAssign,
	stStarStarEqual:   tokExpAssign,
	stSlashEqual:      tokSlashAssign,
	stPercentEqual:    tokPctAssign,
	stPlusPlus:        tokPlusPlus,
	stMinusMinus:      tokMinusMinus,
	stEqual:           tokAssign,
	stEqualEqual:      tokEqual,
	stNotEqual:        tokNotEqual,
	stLess:            tokLess,
	stLessEqual:       tokLessEqual,
	stMore:            tokMore,
	stMoreEqual:       tokMoreEqual,
	stAnd:             tokAnd,
	stAndAnd:          tokBAnd,
	stBar:             tokOr,
	stBarBar:          tokBOr,
	stXor:             tokXor,
	stAndEqual:        tokAndAssign,
	stBarEqual:        tokOrAssign,
	stXorEqual:        tokXorAssign,
	stTilde:           tokInv,
	stBang:            tokBang,
	stLShift:          tokLShift,
	stLShiftEqual:     tokLShiftAssign,
	stRShift:          tokRShift,
	stRShiftEqual:     tokRShiftAssign,
	stQuestion:        tokQuestion,
	stColon:           tokColon,
	stHash:            tokHash,
	stAt:              tokAt,
	stUnderscore:      tokUnderscore,
	stBarMore:         tokPipe,
	stDot:             tokDot,
	stComma:           tokComma,
	stSemi:            tokSemi,
	stDotDotDot:       tokEllipsis,
	stHashMacro:       tokMacro,
	stHashPragma:      tokPragma,
	stEOL:             tokEOL,
	stLParen:          tokLParen,
	stRParen:          tokRParen,
	stLBrack:          tokLBrack,
	stRBrack:          tokRBrack,
	stLBrace:          tokLBrace,
	stRBrace:          tokRBrace,
	stIdentifier:      tokIdent,
}

// isDigit checks if a character is an ASCII decimal digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isHexDigit checks if a character is an ASCII hexadecimal digit.
func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// isAlnum checks if a character is a letter or a number.
func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
