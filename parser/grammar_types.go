package parser

import "github.com/dhamidi/libsyntax/syntax"

type pathMode int

const (
	// pathUse paths carry no generic arguments.
	pathUse pathMode = iota
	// pathType paths take `<...>` and `Fn(A) -> B` arguments.
	pathType
	// pathExpr paths take turbofish `::<...>` arguments.
	pathExpr
)

var typeRecovery = newTokenSet(
	syntax.TokenRParen, syntax.TokenComma, syntax.TokenLAngle, syntax.TokenRAngle,
	syntax.TokenEq, syntax.TokenSemi, syntax.TokenRBrack,
)

func (p *Parser) atPathStart() bool {
	switch p.current() {
	case syntax.TokenIdent, syntax.TokenSelfKw, syntax.TokenSuperKw, syntax.TokenCrateKw, syntax.TokenColonColon:
		return true
	}
	return false
}

func isSegmentStart(k syntax.Kind) bool {
	switch k {
	case syntax.TokenIdent, syntax.TokenSelfKw, syntax.TokenSuperKw, syntax.TokenCrateKw:
		return true
	}
	return false
}

// parsePath parses a possibly qualified path. Qualifiers nest to the left:
// a::b::c is Path(Path(Path(a) :: b) :: c).
func (p *Parser) parsePath(mode pathMode) {
	m := p.start()
	p.parsePathSegment(mode, true)
	qual := m.complete(p, syntax.KindPath)
	for p.check(syntax.TokenColonColon) && isSegmentStart(p.nth(1)) {
		m := qual.precede(p)
		p.bump()
		p.parsePathSegment(mode, false)
		qual = m.complete(p, syntax.KindPath)
	}
}

func (p *Parser) parsePathSegment(mode pathMode, first bool) {
	m := p.start()
	if first {
		p.eat(syntax.TokenColonColon)
	}
	switch p.current() {
	case syntax.TokenIdent:
		p.parseNameRef()
	case syntax.TokenSelfKw, syntax.TokenSuperKw, syntax.TokenCrateKw:
		p.bump()
	default:
		p.errRecover("expected identifier", typeRecovery)
	}
	switch mode {
	case pathType:
		switch {
		case p.check(syntax.TokenLAngle):
			p.parseTypeArgs()
		case p.check(syntax.TokenColonColon) && p.nth(1) == syntax.TokenLAngle:
			p.bump()
			p.parseTypeArgs()
		case p.check(syntax.TokenLParen):
			p.parseParamList(paramsFnPointer)
			p.parseRetType()
		}
	case pathExpr:
		if p.check(syntax.TokenColonColon) && p.nth(1) == syntax.TokenLAngle {
			p.bump()
			p.parseTypeArgs()
		}
	}
	m.complete(p, syntax.KindPathSegment)
}

func (p *Parser) parseTypeArgs() {
	m := p.start()
	p.bump()
	for !p.atEOF() && !p.check(syntax.TokenRAngle) {
		progress := p.mustProgress()
		a := p.start()
		switch {
		case p.check(syntax.TokenLifetime):
			p.bump()
			a.complete(p, syntax.KindLifetimeArg)
		case p.check(syntax.TokenIdent) && p.nth(1) == syntax.TokenEq:
			p.parseNameRef()
			p.bump()
			p.parseType()
			a.complete(p, syntax.KindAssocTypeArg)
		case p.check(syntax.TokenLCurly):
			p.parseBlockExpr()
			a.complete(p, syntax.KindTypeArg)
		case p.atLiteral():
			p.parseLiteral()
			a.complete(p, syntax.KindTypeArg)
		case p.atTypeStart():
			p.parseType()
			a.complete(p, syntax.KindTypeArg)
		default:
			a.abandon(p)
			p.errRecover("expected a generic argument", typeRecovery)
			if !p.check(syntax.TokenComma) {
				p.expect(syntax.TokenRAngle)
				m.complete(p, syntax.KindTypeArgList)
				return
			}
		}
		if !p.check(syntax.TokenRAngle) {
			p.expect(syntax.TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.expect(syntax.TokenRAngle)
	m.complete(p, syntax.KindTypeArgList)
}

func (p *Parser) atTypeStart() bool {
	switch p.current() {
	case syntax.TokenLParen, syntax.TokenExcl, syntax.TokenStar, syntax.TokenLBrack,
		syntax.TokenAmp, syntax.TokenAmpAmp, syntax.TokenUnderscore, syntax.TokenFnKw,
		syntax.TokenUnsafeKw, syntax.TokenExternKw, syntax.TokenImplKw, syntax.TokenDynKw,
		syntax.TokenForKw, syntax.TokenLifetime, syntax.TokenQuestion:
		return true
	}
	return p.atPathStart()
}

// parseType parses a type. A bare path followed by `+` continues as a list
// of bounds.
func (p *Parser) parseType() {
	p.parseTypeWith(true)
}

func (p *Parser) parseTypeNoBounds() {
	p.parseTypeWith(false)
}

func (p *Parser) parseTypeWith(allowBounds bool) {
	m := p.start()
	switch p.current() {
	case syntax.TokenLParen:
		p.bump()
		if p.eat(syntax.TokenRParen) {
			m.complete(p, syntax.KindTupleType)
			return
		}
		p.parseType()
		if !p.check(syntax.TokenComma) {
			p.expect(syntax.TokenRParen)
			m.complete(p, syntax.KindParenType)
			return
		}
		for p.eat(syntax.TokenComma) && !p.check(syntax.TokenRParen) && !p.atEOF() {
			if !p.atTypeStart() {
				p.errRecover("expected a type", typeRecovery)
				break
			}
			p.parseType()
		}
		p.expect(syntax.TokenRParen)
		m.complete(p, syntax.KindTupleType)
	case syntax.TokenExcl:
		p.bump()
		m.complete(p, syntax.KindNeverType)
	case syntax.TokenStar:
		p.bump()
		if !p.eat(syntax.TokenMutKw) && !p.eat(syntax.TokenConstKw) {
			p.error("expected `mut` or `const`")
		}
		p.parseTypeNoBounds()
		m.complete(p, syntax.KindPointerType)
	case syntax.TokenLBrack:
		p.bump()
		p.parseType()
		kind := syntax.KindSliceType
		if p.eat(syntax.TokenSemi) {
			p.parseExpr()
			kind = syntax.KindArrayType
		}
		p.expect(syntax.TokenRBrack)
		m.complete(p, kind)
	case syntax.TokenAmp, syntax.TokenAmpAmp:
		p.bump()
		p.eat(syntax.TokenLifetime)
		p.eat(syntax.TokenMutKw)
		p.parseTypeNoBounds()
		m.complete(p, syntax.KindReferenceType)
	case syntax.TokenUnderscore:
		p.bump()
		m.complete(p, syntax.KindPlaceholderType)
	case syntax.TokenFnKw, syntax.TokenUnsafeKw, syntax.TokenExternKw:
		p.parseFnPointerType()
		m.complete(p, syntax.KindFnPointerType)
	case syntax.TokenForKw:
		p.bump()
		p.parseTypeParams()
		m.abandon(p)
		p.parseTypeWith(allowBounds)
	case syntax.TokenImplKw:
		p.bump()
		p.parseTypeBounds()
		m.complete(p, syntax.KindImplTraitType)
	case syntax.TokenDynKw:
		p.bump()
		p.parseTypeBounds()
		m.complete(p, syntax.KindDynTraitType)
	default:
		if !p.atPathStart() {
			m.abandon(p)
			p.errRecover("expected a type", typeRecovery)
			return
		}
		p.parsePath(pathType)
		cm := m.complete(p, syntax.KindPathType)
		if allowBounds && p.check(syntax.TokenPlus) {
			m := cm.precede(p)
			for p.eat(syntax.TokenPlus) {
				p.parseTypeBound()
			}
			m.complete(p, syntax.KindDynTraitType)
		}
	}
}

func (p *Parser) parseFnPointerType() {
	p.eat(syntax.TokenUnsafeKw)
	if p.eat(syntax.TokenExternKw) {
		p.eat(syntax.TokenString)
	}
	p.expect(syntax.TokenFnKw)
	if p.check(syntax.TokenLParen) {
		p.parseParamList(paramsFnPointer)
	} else {
		p.error("expected parameters")
	}
	p.parseRetType()
}

// parseTypeParams parses an optional `<...>` list of generic parameters.
func (p *Parser) parseTypeParams() {
	if !p.check(syntax.TokenLAngle) {
		return
	}
	m := p.start()
	p.bump()
	for !p.atEOF() && !p.check(syntax.TokenRAngle) {
		progress := p.mustProgress()
		switch {
		case p.check(syntax.TokenLifetime):
			lp := p.start()
			p.bump()
			if p.eat(syntax.TokenColon) {
				for p.eat(syntax.TokenLifetime) {
					if !p.eat(syntax.TokenPlus) {
						break
					}
				}
			}
			lp.complete(p, syntax.KindLifetimeParam)
		case p.check(syntax.TokenIdent):
			tp := p.start()
			p.parseName()
			if p.eat(syntax.TokenColon) {
				p.parseTypeBounds()
			}
			if p.eat(syntax.TokenEq) {
				p.parseType()
			}
			tp.complete(p, syntax.KindTypeParam)
		case p.check(syntax.TokenConstKw):
			tp := p.start()
			p.bump()
			p.parseName()
			p.expect(syntax.TokenColon)
			p.parseType()
			tp.complete(p, syntax.KindTypeParam)
		default:
			p.errRecover("expected a type parameter", typeRecovery)
			if !p.check(syntax.TokenComma) {
				p.expect(syntax.TokenRAngle)
				m.complete(p, syntax.KindTypeParamList)
				return
			}
		}
		if !p.check(syntax.TokenRAngle) {
			p.expect(syntax.TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.expect(syntax.TokenRAngle)
	m.complete(p, syntax.KindTypeParamList)
}

// parseTypeBounds parses `Bound + Bound + ...`, possibly empty.
func (p *Parser) parseTypeBounds() {
	m := p.start()
	for p.atBoundStart() {
		p.parseTypeBound()
		if !p.eat(syntax.TokenPlus) {
			break
		}
	}
	m.complete(p, syntax.KindTypeBoundList)
}

func (p *Parser) atBoundStart() bool {
	switch p.current() {
	case syntax.TokenLifetime, syntax.TokenQuestion, syntax.TokenLParen, syntax.TokenForKw:
		return true
	}
	return p.atPathStart()
}

func (p *Parser) parseTypeBound() {
	m := p.start()
	switch {
	case p.eat(syntax.TokenLifetime):
	case p.check(syntax.TokenLParen):
		p.bump()
		p.parseTypeBound()
		p.expect(syntax.TokenRParen)
	default:
		p.eat(syntax.TokenQuestion)
		if p.eat(syntax.TokenForKw) {
			p.parseTypeParams()
		}
		if p.atPathStart() {
			m2 := p.start()
			p.parsePath(pathType)
			m2.complete(p, syntax.KindPathType)
		} else {
			p.errRecover("expected a trait bound", typeRecovery)
		}
	}
	m.complete(p, syntax.KindTypeBound)
}

// parseWhereClause parses an optional where clause. It stops before the
// body of the item it belongs to.
func (p *Parser) parseWhereClause() {
	if !p.check(syntax.TokenWhereKw) {
		return
	}
	m := p.start()
	p.bump()
	for !p.atEOF() && !p.match(syntax.TokenLCurly, syntax.TokenSemi, syntax.TokenEq) {
		progress := p.mustProgress()
		pred := p.start()
		switch {
		case p.check(syntax.TokenLifetime):
			p.bump()
			p.expect(syntax.TokenColon)
			for p.eat(syntax.TokenLifetime) {
				if !p.eat(syntax.TokenPlus) {
					break
				}
			}
		case p.atTypeStart():
			if p.eat(syntax.TokenForKw) {
				p.parseTypeParams()
			}
			p.parseTypeNoBounds()
			p.expect(syntax.TokenColon)
			p.parseTypeBounds()
		default:
			pred.abandon(p)
			p.errRecover("expected a where predicate", newTokenSet(syntax.TokenComma))
			if !progress() {
				break
			}
			continue
		}
		pred.complete(p, syntax.KindWherePred)
		if !p.eat(syntax.TokenComma) {
			break
		}
		if !progress() {
			break
		}
	}
	m.complete(p, syntax.KindWhereClause)
}

type paramsMode int

const (
	paramsFn paramsMode = iota
	paramsClosure
	paramsFnPointer
)

var paramRecovery = newTokenSet(syntax.TokenRParen, syntax.TokenPipe, syntax.TokenComma, syntax.TokenThinArrow, syntax.TokenSemi)

// parseParamList parses parenthesized parameters, or pipe-delimited ones
// for closures.
func (p *Parser) parseParamList(mode paramsMode) {
	m := p.start()
	closer := syntax.TokenRParen
	if mode == paramsClosure {
		closer = syntax.TokenPipe
	}
	p.bump()
	if mode == paramsFn {
		p.parseSelfParam()
	}
	for !p.atEOF() && !p.check(closer) {
		progress := p.mustProgress()
		if !p.atParamStart(mode) {
			p.errRecover("expected a parameter", paramRecovery)
			if !p.eat(syntax.TokenComma) {
				break
			}
			continue
		}
		p.parseParam(mode)
		if !p.check(closer) {
			p.expect(syntax.TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.expect(closer)
	m.complete(p, syntax.KindParamList)
}

func (p *Parser) atParamStart(mode paramsMode) bool {
	if p.check(syntax.TokenPound) || p.check(syntax.TokenDotDotDot) {
		return true
	}
	if mode == paramsFnPointer {
		return p.atTypeStart()
	}
	return p.atPatternStart()
}

func (p *Parser) parseParam(mode paramsMode) {
	m := p.start()
	p.parseOuterAttributes()
	switch {
	case p.eat(syntax.TokenDotDotDot):
	case mode == paramsFnPointer:
		if (p.check(syntax.TokenIdent) || p.check(syntax.TokenUnderscore)) && p.nth(1) == syntax.TokenColon && p.nth(2) != syntax.TokenColon {
			p.parsePattern()
			p.bump()
		}
		p.parseType()
	case mode == paramsClosure:
		p.parsePatternNoAlt()
		if p.eat(syntax.TokenColon) {
			p.parseType()
		}
	default:
		p.parsePattern()
		if p.expect(syntax.TokenColon) {
			p.parseType()
		}
	}
	m.complete(p, syntax.KindParam)
}

// parseSelfParam parses the receiver forms self, mut self, &self, &mut self,
// &'a self and self: Type.
func (p *Parser) parseSelfParam() {
	n := 0
	switch p.current() {
	case syntax.TokenSelfKw:
		n = 1
	case syntax.TokenMutKw:
		if p.nth(1) == syntax.TokenSelfKw {
			n = 2
		}
	case syntax.TokenAmp:
		switch {
		case p.nth(1) == syntax.TokenSelfKw:
			n = 2
		case p.nth(1) == syntax.TokenMutKw && p.nth(2) == syntax.TokenSelfKw:
			n = 3
		case p.nth(1) == syntax.TokenLifetime && p.nth(2) == syntax.TokenSelfKw:
			n = 3
		case p.nth(1) == syntax.TokenLifetime && p.nth(2) == syntax.TokenMutKw && p.nth(3) == syntax.TokenSelfKw:
			n = 4
		}
	}
	if n == 0 || p.nth(n) == syntax.TokenColonColon {
		return
	}
	m := p.start()
	for range n {
		p.bump()
	}
	if p.eat(syntax.TokenColon) {
		p.parseType()
	}
	m.complete(p, syntax.KindSelfParam)
	if !p.check(syntax.TokenRParen) {
		p.expect(syntax.TokenComma)
	}
}
