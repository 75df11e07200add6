package gmlpp

// precedence classes, lowest first.
const (
	precPipe = iota + 1
	precTernary
	precOr
	precAnd
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precIntDiv
	precSum
	precProduct
	precExp
)

// precedence maps infix tokens to their precedence class.
var precedence = map[tokenKind]int{
	tokPipe:      precPipe,
	tokQuestion:  precTernary,
	tokBOr:       precOr,
	tokBAnd:      precAnd,
	tokEqual:     precCompare,
	tokNotEqual:  precCompare,
	tokLess:      precCompare,
	tokLessEqual: precCompare,
	tokMore:      precCompare,
	tokMoreEqual: precCompare,
	tokOr:        precBitOr,
	tokXor:       precBitXor,
	tokAnd:       precBitAnd,
	tokLShift:    precShift,
	tokRShift:    precShift,
	tokDiv:       precIntDiv,
	tokMod:       precIntDiv,
	tokPlus:      precSum,
	tokMinus:     precSum,
	tokStar:      precProduct,
	tokSlash:     precProduct,
	tokPct:       precProduct,
	tokExp:       precExp,
}

// binaryOps maps infix tokens to binary operators.
var binaryOps = map[tokenKind]BinaryOp{
	tokBOr:       OpOr,
	tokBAnd:      OpAnd,
	tokEqual:     OpEqual,
	tokNotEqual:  OpNotEqual,
	tokLess:      OpLess,
	tokLessEqual: OpLessEqual,
	tokMore:      OpMore,
	tokMoreEqual: OpMoreEqual,
	tokOr:        OpBitOr,
	tokXor:       OpBitXor,
	tokAnd:       OpBitAnd,
	tokLShift:    OpShl,
	tokRShift:    OpShr,
	tokDiv:       OpIntDiv,
	tokMod:       OpIntMod,
	tokPlus:      OpPlus,
	tokMinus:     OpMinus,
	tokStar:      OpTimes,
	tokSlash:     OpDivide,
	tokPct:       OpPercent,
	tokExp:       OpExp,
}

// binaryPrecedence is the inverse view of precedence used by the writer.
var binaryPrecedence = func() map[BinaryOp]int {
	out := make(map[BinaryOp]int, len(binaryOps))
	for tk, op := range binaryOps {
		out[op] = precedence[tk]
	}
	return out
}()

// parseExpression parses a full expression.
func (p *parser) parseExpression() (Expression, error) {
	return p.parseBinary(precPipe)
}

// parseBinary climbs operators of at least min precedence.
func (p *parser) parseBinary(min int) (x Expression, err error) {
	defer p.restore(p.c.mark(), &err)

	x, err = p.parseValue()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.c.peek()
		prec, ok := precedence[tok.Kind]
		if !ok || prec < min {
			return x, nil
		}
		p.c.skip(1)
		p.c.skipEOL()

		switch tok.Kind {
		case tokPipe:
			call, err := p.parseCall()
			if err != nil {
				return nil, p.errorf(p.c.peek(), ExpectedFunctionCall)
			}
			x = &PipeExpr{Input: x, Call: call}

		case tokQuestion:
			then, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			p.c.skipEOL()
			if _, err := p.expect(tokColon, IncompleteTernaryOperator); err != nil {
				return nil, err
			}
			p.c.skipEOL()
			els, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			x = &TernaryExpr{Cond: x, Then: then, Else: els}

		default:
			op, ok := binaryOps[tok.Kind]
			if !ok {
				panic("gmlpp: operator without binary mapping: " + tok.Kind.String())
			}
			rhs, err := p.parseBinary(prec + 1)
			if err != nil {
				return nil, err
			}
			x = &BinaryExpr{Left: x, Op: op, Right: rhs}
		}
	}
}
