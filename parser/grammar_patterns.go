package parser

import "github.com/dhamidi/libsyntax/syntax"

var patternRecovery = newTokenSet(
	syntax.TokenEq, syntax.TokenColon, syntax.TokenComma, syntax.TokenRParen,
	syntax.TokenRBrack, syntax.TokenFatArrow, syntax.TokenPipe, syntax.TokenSemi,
	syntax.TokenInKw, syntax.TokenLetKw,
)

func (p *Parser) atPatternStart() bool {
	switch p.current() {
	case syntax.TokenUnderscore, syntax.TokenAmp, syntax.TokenAmpAmp, syntax.TokenLParen,
		syntax.TokenLBrack, syntax.TokenMinus, syntax.TokenRefKw, syntax.TokenMutKw,
		syntax.TokenDotDot:
		return true
	}
	return p.atLiteral() || p.atPathStart()
}

// parsePattern parses a pattern, including `A | B` alternatives.
// Alternatives have no node of their own; the patterns stay siblings.
func (p *Parser) parsePattern() {
	p.eat(syntax.TokenPipe)
	p.parsePatternNoAlt()
	for p.eat(syntax.TokenPipe) {
		p.parsePatternNoAlt()
	}
}

func (p *Parser) parsePatternNoAlt() {
	m := p.start()
	switch {
	case p.check(syntax.TokenUnderscore), p.check(syntax.TokenDotDot):
		p.bump()
		m.complete(p, syntax.KindPlaceholderPat)
	case p.match(syntax.TokenAmp, syntax.TokenAmpAmp):
		p.bump()
		p.eat(syntax.TokenMutKw)
		p.parsePatternNoAlt()
		m.complete(p, syntax.KindRefPat)
	case p.check(syntax.TokenLParen):
		p.parsePatternList(syntax.TokenLParen, syntax.TokenRParen)
		m.complete(p, syntax.KindTuplePat)
	case p.check(syntax.TokenLBrack):
		p.parsePatternList(syntax.TokenLBrack, syntax.TokenRBrack)
		m.complete(p, syntax.KindTuplePat)
	case p.check(syntax.TokenMinus), p.atLiteral():
		p.eat(syntax.TokenMinus)
		p.parseLiteral()
		if p.match(syntax.TokenDotDotEq, syntax.TokenDotDotDot, syntax.TokenDotDot) {
			p.bump()
			p.eat(syntax.TokenMinus)
			if p.atLiteral() {
				p.parseLiteral()
			}
		}
		m.complete(p, syntax.KindLiteralPat)
	case p.match(syntax.TokenRefKw, syntax.TokenMutKw):
		p.eat(syntax.TokenRefKw)
		p.eat(syntax.TokenMutKw)
		p.parseNameRecovering(patternRecovery)
		if p.eat(syntax.TokenAt) {
			p.parsePatternNoAlt()
		}
		m.complete(p, syntax.KindBindPat)
	case p.check(syntax.TokenIdent) && p.isBindingIdent():
		p.parseName()
		if p.eat(syntax.TokenAt) {
			p.parsePatternNoAlt()
		}
		m.complete(p, syntax.KindBindPat)
	case p.atPathStart():
		p.parsePath(pathExpr)
		switch {
		case p.check(syntax.TokenExcl):
			p.bump()
			if p.match(syntax.TokenLParen, syntax.TokenLBrack, syntax.TokenLCurly) {
				p.parseTokenTree()
			}
			m.complete(p, syntax.KindMacroCall)
		case p.check(syntax.TokenLParen):
			p.parsePatternList(syntax.TokenLParen, syntax.TokenRParen)
			m.complete(p, syntax.KindTupleStructPat)
		case p.check(syntax.TokenLCurly):
			p.parseFieldPatList()
			m.complete(p, syntax.KindStructPat)
		default:
			m.complete(p, syntax.KindPathPat)
		}
	default:
		m.abandon(p)
		p.errRecover("expected a pattern", patternRecovery)
	}
}

// isBindingIdent reports whether the identifier at the cursor binds a name
// rather than starting a path: it is not followed by `::`, `(`, `{` or `!`.
func (p *Parser) isBindingIdent() bool {
	switch p.nth(1) {
	case syntax.TokenColonColon, syntax.TokenLParen, syntax.TokenLCurly, syntax.TokenExcl:
		return false
	}
	return true
}

func (p *Parser) parsePatternList(open, closer syntax.Kind) {
	p.expect(open)
	for !p.atEOF() && !p.check(closer) {
		progress := p.mustProgress()
		if !p.atPatternStart() {
			p.errRecover("expected a pattern", patternRecovery)
			if !p.eat(syntax.TokenComma) {
				break
			}
			continue
		}
		p.parsePattern()
		if !p.check(closer) {
			p.expect(syntax.TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.expect(closer)
}

func (p *Parser) parseFieldPatList() {
	m := p.start()
	p.bump()
	for !p.atEOF() && !p.check(syntax.TokenRCurly) {
		progress := p.mustProgress()
		switch {
		case p.eat(syntax.TokenDotDot):
		case p.check(syntax.TokenIdent) && p.nth(1) == syntax.TokenColon:
			p.parseNameRef()
			p.bump()
			p.parsePattern()
		case p.match(syntax.TokenIdent, syntax.TokenRefKw, syntax.TokenMutKw):
			b := p.start()
			p.eat(syntax.TokenRefKw)
			p.eat(syntax.TokenMutKw)
			p.parseName()
			b.complete(p, syntax.KindBindPat)
		default:
			p.errRecover("expected a field pattern", newTokenSet(syntax.TokenComma))
		}
		if !p.check(syntax.TokenRCurly) {
			p.expect(syntax.TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.expect(syntax.TokenRCurly)
	m.complete(p, syntax.KindFieldPatList)
}
