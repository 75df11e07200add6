package gmlpp

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
)

// Parse parses gmlpp source from bytes.
func Parse(data []byte, opt *ParseOptions) (*Code, error) {
	return Decode(bytes.NewReader(data), opt)
}

// Decode parses gmlpp source from reader.
func Decode(r io.Reader, opt *ParseOptions) (*Code, error) {
	popt := opt.normalize()
	toks, err := tokenize(r)
	if err != nil {
		return nil, err
	}

	p := newParser(toks, popt)
	return p.parseCode()
}

// DecodeFile parses gmlpp source from a file.
func DecodeFile(path string, opt *ParseOptions) (*Code, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b, opt)
}

// parser holds the single cursor threaded through every fragment parser.
type parser struct {
	c   *cursor
	log *slog.Logger
	opt ParseOptions
}

// newParser creates a new parser over a token sequence.
func newParser(toks []token, opt ParseOptions) *parser {
	return &parser{c: newCursor(toks), log: opt.Logger, opt: opt}
}

// restore seeks back to mark when *err is set. Every fragment parser defers it
// with the position recorded at entry.
func (p *parser) restore(mark int, err *error) {
	if *err != nil {
		p.c.seek(mark)
	}
}

// alt tries each alternative from the same position and returns the first success.
// The cursor is restored after every failed alternative; the first error is returned.
func alt[T any](p *parser, alts ...func() (T, error)) (T, error) {
	mark := p.c.mark()
	var first error
	for _, fn := range alts {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		p.c.seek(mark)
		if first == nil {
			first = err
		}
	}

	var zero T
	return zero, first
}

// parseCode parses a whole file: doc comment, arguments, statements.
func (p *parser) parseCode() (code *Code, err error) {
	defer p.restore(p.c.mark(), &err)

	if p.c.peek().Kind == tokBOF {
		p.c.skip(1)
	}
	p.c.skipEOL()

	doc, err := p.parseDocComment()
	if err != nil {
		return nil, err
	}

	args, err := p.parseArgumentList()
	if err != nil {
		return nil, err
	}

	body, err := p.parseStatements()
	if err != nil {
		return nil, err
	}

	return &Code{Doc: doc, Args: args, Body: body}, nil
}

// parseDocComment collects consecutive doc comment lines.
func (p *parser) parseDocComment() (DocComment, error) {
	var lines DocComment
	for p.c.is(tokDocComment) {
		lines = append(lines, p.c.next().Lit)
		p.c.skipEOL()
	}

	return lines, nil
}

// parseArgumentList parses "argument" declarations, one per line.
func (p *parser) parseArgumentList() (args ArgumentList, err error) {
	defer p.restore(p.c.mark(), &err)

	for p.c.is(tokArgument) {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.c.skipEOL()
		if arg.Kind == ArgVariadic {
			break
		}
	}

	return args, nil
}

// parseArgument parses one "argument" declaration and its terminator.
func (p *parser) parseArgument() (arg Argument, err error) {
	defer p.restore(p.c.mark(), &err)

	if _, err := p.expect(tokArgument, ExpectedArgument); err != nil {
		return Argument{}, err
	}

	if p.c.is(tokEllipsis) {
		p.c.skip(1)
		name, err := p.parseIdentifier()
		if err != nil {
			return Argument{}, err
		}
		return Argument{Name: name, Kind: ArgVariadic}, p.parseTerminator()
	}

	name, err := p.parseIdentifier()
	if err != nil {
		return Argument{}, err
	}

	arg = Argument{Name: name, Kind: ArgRequired}
	switch p.c.peek().Kind {
	case tokQuestion:
		p.c.skip(1)
		arg.Kind = ArgOptional
	case tokAssign:
		p.c.skip(1)
		def, err := p.parseExpression()
		if err != nil {
			return Argument{}, err
		}
		arg.Kind = ArgDefault
		arg.Default = def
	}

	return arg, p.parseTerminator()
}

// parseIdentifier parses an identifier.
func (p *parser) parseIdentifier() (Identifier, error) {
	tok := p.c.peek()
	if tok.Kind != tokIdent {
		return "", p.errorf(tok, ExpectedIdentifier)
	}

	p.c.skip(1)
	return Identifier(tok.Lit), nil
}

// parseLValue parses an assignment target.
func (p *parser) parseLValue() (LValue, error) {
	return p.parseIdentifier()
}

// parseLiteral parses a literal.
func (p *parser) parseLiteral() (lit *Literal, err error) {
	defer p.restore(p.c.mark(), &err)

	tok := p.c.next()
	switch tok.Kind {
	case tokDec:
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok.Lit, "_", ""), 64)
		if err != nil && !isRangeError(err) {
			return nil, p.errorf(tok, ExpectedLiteral)
		}
		return Number(f), nil

	case tokHex:
		return Number(parseRadix(tok.Lit, 16)), nil

	case tokBin:
		return Number(parseRadix(tok.Lit, 2)), nil

	case tokString:
		return &Literal{Kind: LitString, Str: tok.Lit}, nil

	case tokChar:
		r, ok := unescapeChar(tok.Lit)
		if !ok {
			return nil, p.errorf(tok, InvalidEscapeSequence)
		}
		return Char(r), nil

	case tokBool:
		return Bool(tok.Lit == "true"), nil

	case tokUndefined:
		return Undefined(), nil

	default:
		return nil, p.errorf(tok, ExpectedLiteral)
	}
}

// parseValue parses an expression leaf.
func (p *parser) parseValue() (v Value, err error) {
	defer p.restore(p.c.mark(), &err)

	tok := p.c.peek()
	switch tok.Kind {
	case tokDec, tokHex, tokBin, tokString, tokChar, tokBool, tokUndefined:
		return p.parseLiteral()

	case tokLParen:
		x, err := p.parenthesized()
		if err != nil {
			return nil, err
		}
		return &ParenExpr{X: x}, nil

	case tokMinus, tokBang, tokInv:
		p.c.skip(1)
		operand, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: unaryOps[tok.Kind], Operand: operand}, nil

	case tokIdent:
		// "name(" is always a call.
		if p.c.is(tokIdent, tokLParen) {
			return p.parseCall()
		}
		return p.parseIdentifier()

	default:
		return nil, p.errorf(tok, ExpectedValue)
	}
}

// unaryOps maps prefix tokens to unary operators.
var unaryOps = map[tokenKind]UnaryOp{
	tokMinus: UnaryNeg,
	tokBang:  UnaryNot,
	tokInv:   UnaryInv,
}

// parseCall parses "name(args...)".
func (p *parser) parseCall() (call *Call, err error) {
	defer p.restore(p.c.mark(), &err)

	name, err := p.parseIdentifier()
	if err != nil {
		return nil, p.errorf(p.c.peek(), ExpectedFunctionCall)
	}
	if _, err := p.expect(tokLParen, ExpectedFunctionCall); err != nil {
		return nil, err
	}

	args, err := p.parseCommaList()
	if err != nil {
		return nil, err
	}

	p.c.skipEOL()
	if _, err := p.expect(tokRParen, ExpectedArgument); err != nil {
		return nil, err
	}

	return &Call{Name: name, Args: args}, nil
}

// parseCommaList parses comma separated expressions. It stops early, without
// failing, at the first item that does not parse; the caller checks what follows.
func (p *parser) parseCommaList() ([]Expression, error) {
	p.c.skipEOL()
	if p.c.is(tokRParen) {
		return nil, nil
	}

	first, err := p.parseExpression()
	if err != nil {
		return nil, nil
	}

	list := []Expression{first}
	for p.c.is(tokComma) {
		mark := p.c.mark()
		p.c.skip(1)
		p.c.skipEOL()
		x, err := p.parseExpression()
		if err != nil {
			p.c.seek(mark)
			break
		}
		list = append(list, x)
	}

	return list, nil
}

// parseAssignment parses "target op value".
func (p *parser) parseAssignment() (as Assignment, err error) {
	defer p.restore(p.c.mark(), &err)

	target, err := p.parseLValue()
	if err != nil {
		return Assignment{}, err
	}

	tok := p.c.next()
	op, ok := assignOps[tok.Kind]
	if !ok {
		return Assignment{}, p.errorf(tok, ExpectedStatement)
	}
	if op == AssignInc || op == AssignDec {
		return Assignment{Target: target, Op: op}, nil
	}

	p.c.skipEOL()
	x, err := p.parseExpression()
	if err != nil {
		return Assignment{}, err
	}

	return Assignment{Target: target, Op: op, Value: x}, nil
}

// assignOps maps assignment tokens to operators.
var assignOps = map[tokenKind]AssignOp{
	tokAssign:       AssignEq,
	tokPlusAssign:   AssignAdd,
	tokMinusAssign:  AssignSub,
	tokStarAssign:   AssignMul,
	tokSlashAssign:  AssignDiv,
	tokPctAssign:    AssignMod,
	tokExpAssign:    AssignExp,
	tokAndAssign:    AssignAnd,
	tokOrAssign:     AssignOr,
	tokXorAssign:    AssignXor,
	tokLShiftAssign: AssignShl,
	tokRShiftAssign: AssignShr,
	tokPlusPlus:     AssignInc,
	tokMinusMinus:   AssignDec,
}

// parenthesized parses "(expr)".
func (p *parser) parenthesized() (x Expression, err error) {
	defer p.restore(p.c.mark(), &err)

	if _, err := p.expect(tokLParen, ExpectedParentheses); err != nil {
		return nil, err
	}
	p.c.skipEOL()

	x, err = p.parseExpression()
	if err != nil {
		return nil, err
	}

	p.c.skipEOL()
	if _, err := p.expect(tokRParen, MismatchedParentheses); err != nil {
		return nil, err
	}

	return x, nil
}

// expect consumes a token of the given kind or fails with kind k.
func (p *parser) expect(tk tokenKind, k ErrorKind) (token, error) {
	tok := p.c.peek()
	if tok.Kind != tk {
		return tok, p.errorf(tok, k)
	}

	p.c.skip(1)
	return tok, nil
}

// errorf builds a syntax error at a token.
func (p *parser) errorf(tok token, k ErrorKind) error {
	near := ""
	if tok.Kind != tokEOF && tok.Kind != tokBOF {
		near = tok.String()
	}
	return &Error{Kind: k, Line: tok.Line, Col: tok.Col, Near: near}
}

// isRangeError reports whether err is a strconv overflow, which still yields ±Inf.
func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// parseRadix converts hex or binary digits (underscores allowed) to a float.
func parseRadix(s string, base int) float64 {
	var v float64
	for _, r := range s {
		var d int
		switch {
		case r == '_':
			continue
		case r >= '0' && r <= '9':
			d = int(r - '0')
		case r >= 'a' && r <= 'f':
			d = int(r-'a') + 10
		case r >= 'A' && r <= 'F':
			d = int(r-'A') + 10
		}
		v = v*float64(base) + float64(d)
	}
	if math.IsInf(v, 0) {
		return math.MaxFloat64
	}

	return v
}

// escapes is the escape table shared by strings and chars.
var escapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

// unescapeString decodes escapes; unknown escapes are kept verbatim.
func unescapeString(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '\\' || i+1 == len(rs) {
			b.WriteRune(rs[i])
			continue
		}
		i++
		if r, ok := escapes[rs[i]]; ok {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('\\')
		b.WriteRune(rs[i])
	}

	return b.String()
}

// unescapeChar decodes the body of a char literal.
func unescapeChar(s string) (rune, bool) {
	rs := []rune(s)
	switch {
	case len(rs) == 1 && rs[0] != '\\':
		return rs[0], true
	case len(rs) == 2 && rs[0] == '\\':
		r, ok := escapes[rs[1]]
		return r, ok
	default:
		return 0, false
	}
}
