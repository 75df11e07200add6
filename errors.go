package gmlpp

import (
	"errors"
	"fmt"
)

var (
	// ErrLex indicates a lexer failure.
	ErrLex = errors.New("lex error")

	// ErrParse indicates a parser failure.
	ErrParse = errors.New("parse error")

	// ErrNotSource indicates a path that is not a .gmlpp source file.
	ErrNotSource = errors.New("not a gmlpp source")

	// ErrUnknownStatement indicates a statement the writer cannot render.
	ErrUnknownStatement = errors.New("unknown statement")
)

// ErrorKind identifies what went wrong while compiling a file.
type ErrorKind int

// Lexical error kinds.
const (
	InvalidCharacter             ErrorKind = iota + 1 // Character cannot start a token
	MalformedNumericLiteral                           // Bad character inside a number
	UnexpectedCharacter                               // Bad character inside a char literal or '...'
	CommentNestingDepth                               // Too many nested block comments
	InvalidPreprocessorDirective                      // Neither #macro nor #pragma
	UnexpectedEOF                                     // Input ended inside a token
)

// Syntactic error kinds.
const (
	ExpectedValue ErrorKind = iota + 100
	ExpectedLiteral
	ExpectedIdentifier
	ExpectedFunctionCall
	ExpectedArgument
	ExpectedKeyword
	ExpectedStatement
	ExpectedParentheses
	MismatchedParentheses
	IncompleteTernaryOperator
	ExpectedEndOfStatement
	InvalidEscapeSequence
)

var errorKindNames = map[ErrorKind]string{
	InvalidCharacter:             "invalid character",
	MalformedNumericLiteral:      "malformed numeric literal",
	UnexpectedCharacter:          "unexpected character",
	CommentNestingDepth:          "comment nesting depth exceeded",
	InvalidPreprocessorDirective: "invalid preprocessor directive",
	UnexpectedEOF:                "unexpected end of file",
	ExpectedValue:                "expected value",
	ExpectedLiteral:              "expected literal",
	ExpectedIdentifier:           "expected identifier",
	ExpectedFunctionCall:         "expected function call",
	ExpectedArgument:             "expected argument",
	ExpectedKeyword:              "expected keyword",
	ExpectedStatement:            "expected statement",
	ExpectedParentheses:          "expected parentheses",
	MismatchedParentheses:        "mismatched parentheses",
	IncompleteTernaryOperator:    "incomplete ternary operator",
	ExpectedEndOfStatement:       "expected end of statement",
	InvalidEscapeSequence:        "invalid escape sequence",
}

// String returns a human readable description of the kind.
func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("error(%d)", int(k))
}

// Lexical reports whether the kind is raised by the lexer.
func (k ErrorKind) Lexical() bool {
	return k >= InvalidCharacter && k <= UnexpectedEOF
}

// Error is a lexical or syntactic failure at a source position.
type Error struct {
	Near string    // Offending character or token text
	Kind ErrorKind // What went wrong
	Line int       // 1-based line
	Col  int       // 1-based column
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%v at %d:%d: %s", e.Unwrap(), e.Line, e.Col, e.Kind)
	if e.Near != "" {
		msg += fmt.Sprintf(" near %q", e.Near)
	}
	return msg
}

// Unwrap returns ErrLex or ErrParse depending on the kind.
func (e *Error) Unwrap() error {
	if e.Kind.Lexical() {
		return ErrLex
	}
	return ErrParse
}

// KindOf returns the kind of a compile error, or zero if err is not one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
