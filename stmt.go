package gmlpp

// parseStatements parses top-level statements up to EOF.
// Doc comments between statements are kept as DocStmt.
func (p *parser) parseStatements() (list []Statement, err error) {
	defer p.restore(p.c.mark(), &err)

	for {
		p.c.skipEOL()
		switch p.c.peek().Kind {
		case tokEOF:
			return list, nil
		case tokDocComment:
			doc, err := p.parseDocComment()
			if err != nil {
				return nil, err
			}
			list = append(list, &DocStmt{Lines: doc})
			continue
		}

		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
}

// parseBlock parses "{ statements }".
func (p *parser) parseBlock() (block *BlockStmt, err error) {
	defer p.restore(p.c.mark(), &err)

	if _, err := p.expect(tokLBrace, ExpectedStatement); err != nil {
		return nil, err
	}

	block = &BlockStmt{}
	for {
		p.skipBlank()
		switch tok := p.c.peek(); tok.Kind {
		case tokRBrace:
			p.c.skip(1)
			return block, nil
		case tokEOF:
			return nil, p.errorf(tok, MismatchedParentheses)
		}

		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Body = append(block.Body, s)
	}
}

// skipBlank skips end-of-line tokens and doc comments that are not at top level.
func (p *parser) skipBlank() {
	for p.c.is(tokEOL) || p.c.is(tokDocComment) {
		p.c.skip(1)
	}
}

// parseStatement parses one statement including its terminator.
func (p *parser) parseStatement() (s Statement, err error) {
	defer p.restore(p.c.mark(), &err)

	p.skipBlank()
	tok := p.c.peek()
	switch tok.Kind {
	case tokSemi:
		return &NoopStmt{}, p.parseTerminator()

	case tokVar, tokGlobalvar:
		decl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		return decl, p.parseTerminator()

	case tokIf:
		return p.parseIf()

	case tokDo:
		return p.parseDo()

	case tokFor:
		return p.parseFor()

	case tokRepeat, tokWhile, tokUntil, tokWith:
		return p.parseLoop()

	case tokBreak, tokContinue, tokExit:
		p.c.skip(1)
		if err := p.parseTerminator(); err != nil {
			return nil, err
		}
		switch tok.Kind {
		case tokBreak:
			return &BreakStmt{}, nil
		case tokContinue:
			return &ContinueStmt{}, nil
		default:
			return &ExitStmt{}, nil
		}

	case tokReturn:
		p.c.skip(1)
		if p.parseTerminator() == nil {
			return &ReturnStmt{}, nil
		}
		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Value: x}, p.parseTerminator()

	case tokLBrace:
		return p.parseBlock()
	}

	s, err = alt(p,
		func() (Statement, error) {
			x, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &ExprStmt{X: x}, p.parseTerminator()
		},
		func() (Statement, error) {
			as, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			return &AssignStmt{Assignment: as}, p.parseTerminator()
		},
	)
	if err != nil {
		p.log.Debug("statement did not match",
			"token", tok.String(),
			"line", tok.Line,
			"col", tok.Col,
			"cause", err,
		)
		return nil, p.errorf(tok, ExpectedStatement)
	}

	return s, nil
}

// parseVarDecl parses "var name [= value]" without a terminator.
func (p *parser) parseVarDecl() (decl *VarDecl, err error) {
	defer p.restore(p.c.mark(), &err)

	kw := p.c.next()
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	decl = &VarDecl{Name: name, Global: kw.Kind == tokGlobalvar}
	if p.c.is(tokAssign) {
		p.c.skip(1)
		p.c.skipEOL()
		decl.Value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	return decl, nil
}

// parseIf parses "if (cond) body [else body]".
func (p *parser) parseIf() (s *IfStmt, err error) {
	defer p.restore(p.c.mark(), &err)

	p.c.skip(1)
	cond, err := p.parenthesized()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	s = &IfStmt{Cond: cond, Body: body}
	mark := p.c.mark()
	p.c.skipEOL()
	if !p.c.is(tokElse) {
		p.c.seek(mark)
		return s, nil
	}

	p.c.skip(1)
	s.Else, err = p.parseStatement()
	if err != nil {
		return nil, err
	}

	return s, nil
}

// parseDo parses "do body while (cond)" and "do body until (cond)".
func (p *parser) parseDo() (s *LoopStmt, err error) {
	defer p.restore(p.c.mark(), &err)

	p.c.skip(1)
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	p.c.skipEOL()
	tok := p.c.next()
	s = &LoopStmt{Body: body}
	switch tok.Kind {
	case tokWhile:
		s.Kind = LoopDoWhile
	case tokUntil:
		s.Kind = LoopDoUntil
	default:
		return nil, p.errorf(tok, ExpectedKeyword)
	}

	s.Cond, err = p.parenthesized()
	if err != nil {
		return nil, err
	}
	if p.c.is(tokSemi) || p.c.is(tokEOL) {
		_ = p.parseTerminator()
	}

	return s, nil
}

// parseLoop parses the "keyword (expr) body" loops.
func (p *parser) parseLoop() (s Statement, err error) {
	defer p.restore(p.c.mark(), &err)

	kw := p.c.next()
	head, err := p.parenthesized()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	switch kw.Kind {
	case tokRepeat:
		return &RepeatStmt{Count: head, Body: body}, nil
	case tokWith:
		return &WithStmt{Target: head, Body: body}, nil
	case tokUntil:
		return &LoopStmt{Cond: head, Body: body, Kind: LoopUntil}, nil
	default:
		return &LoopStmt{Cond: head, Body: body, Kind: LoopWhile}, nil
	}
}

// parseFor parses "for (init; cond; update) body".
func (p *parser) parseFor() (s *ForStmt, err error) {
	defer p.restore(p.c.mark(), &err)

	p.c.skip(1)
	if _, err := p.expect(tokLParen, ExpectedParentheses); err != nil {
		return nil, err
	}
	p.c.skipEOL()

	s = &ForStmt{}
	if s.Init, err = p.parseForClause(true); err != nil {
		return nil, err
	}
	if err := p.forSeparator(); err != nil {
		return nil, err
	}

	if !p.c.is(tokSemi) {
		if s.Cond, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if err := p.forSeparator(); err != nil {
		return nil, err
	}

	if !p.c.is(tokRParen) {
		if s.Update, err = p.parseForClause(false); err != nil {
			return nil, err
		}
	} else {
		s.Update = &NoopStmt{}
	}

	p.c.skipEOL()
	if _, err := p.expect(tokRParen, MismatchedParentheses); err != nil {
		return nil, err
	}

	if s.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}

	return s, nil
}

// parseForClause parses an init or update clause without a terminator.
// Declarations are only allowed in the init clause.
func (p *parser) parseForClause(init bool) (Statement, error) {
	switch {
	case p.c.is(tokSemi):
		return &NoopStmt{}, nil
	case init && (p.c.is(tokVar) || p.c.is(tokGlobalvar)):
		return p.parseVarDecl()
	}

	return alt(p,
		func() (Statement, error) {
			as, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			return &AssignStmt{Assignment: as}, nil
		},
		func() (Statement, error) {
			x, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &ExprStmt{X: x}, nil
		},
	)
}

// forSeparator consumes one ";" inside a for header.
func (p *parser) forSeparator() error {
	p.c.skipEOL()
	if _, err := p.expect(tokSemi, ExpectedEndOfStatement); err != nil {
		return err
	}
	p.c.skipEOL()
	return nil
}

// parseTerminator consumes a statement terminator: ";" followed by EOL counts
// once, a lone ";" or EOL suffices, and EOF closes the final statement.
func (p *parser) parseTerminator() error {
	w := p.c.window(2)
	switch {
	case w[0].Kind == tokSemi && w[1].Kind == tokEOL:
		p.c.skip(2)
	case w[0].Kind == tokSemi, w[0].Kind == tokEOL:
		p.c.skip(1)
	case w[0].Kind == tokEOF:
	default:
		return p.errorf(w[0], ExpectedEndOfStatement)
	}

	return nil
}
