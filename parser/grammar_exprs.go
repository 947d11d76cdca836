package parser

import "github.com/dhamidi/libsyntax/syntax"

// restrictions narrow what an expression may contain in a given position.
type restrictions struct {
	// forbidStructs rejects `Path { ... }` literals, as in conditions where
	// the brace opens the body.
	forbidStructs bool
	// stmt marks statement position: a block-like expression ends there.
	stmt bool
}

var exprRecovery = newTokenSet(
	syntax.TokenSemi, syntax.TokenComma, syntax.TokenRParen, syntax.TokenRBrack,
	syntax.TokenLetKw, syntax.TokenFatArrow,
)

const (
	bpAssign = 1
	bpRange  = 2
	bpCast   = 12
	bpPrefix = 13
)

func (p *Parser) atLiteral() bool {
	switch p.current() {
	case syntax.TokenIntNumber, syntax.TokenFloatNumber, syntax.TokenChar, syntax.TokenByte,
		syntax.TokenString, syntax.TokenRawString, syntax.TokenByteString, syntax.TokenRawByteString,
		syntax.TokenTrueKw, syntax.TokenFalseKw:
		return true
	}
	return false
}

func (p *Parser) parseLiteral() {
	m := p.start()
	p.bump()
	m.complete(p, syntax.KindLiteral)
}

func (p *Parser) atExprStart() bool {
	switch p.current() {
	case syntax.TokenLParen, syntax.TokenLBrack, syntax.TokenLCurly, syntax.TokenAmp,
		syntax.TokenAmpAmp, syntax.TokenStar, syntax.TokenExcl, syntax.TokenMinus,
		syntax.TokenDotDot, syntax.TokenDotDotEq, syntax.TokenPipe, syntax.TokenPipePipe,
		syntax.TokenMoveKw, syntax.TokenIfKw, syntax.TokenWhileKw, syntax.TokenLoopKw,
		syntax.TokenForKw, syntax.TokenMatchKw, syntax.TokenReturnKw, syntax.TokenBreakKw,
		syntax.TokenContinueKw, syntax.TokenUnsafeKw, syntax.TokenLifetime:
		return true
	}
	return p.atLiteral() || p.atPathStart()
}

func (p *Parser) parseExpr() {
	p.parseExprBP(restrictions{}, 1)
}

func (p *Parser) parseExprNoStruct() {
	p.parseExprBP(restrictions{forbidStructs: true}, 1)
}

// currentOp returns the binding power and token of the binary operator at
// the cursor, and how many raw tokens it spans. Shifts are assembled from
// adjacent angle brackets so generics can close with `>>`.
func (p *Parser) currentOp() (int, syntax.Kind, int) {
	switch k := p.current(); k {
	case syntax.TokenEq, syntax.TokenPlusEq, syntax.TokenMinusEq, syntax.TokenStarEq,
		syntax.TokenSlashEq, syntax.TokenPercentEq, syntax.TokenCaretEq, syntax.TokenAmpEq,
		syntax.TokenPipeEq:
		return bpAssign, k, 1
	case syntax.TokenDotDot, syntax.TokenDotDotEq:
		return bpRange, k, 1
	case syntax.TokenPipePipe:
		return 3, k, 1
	case syntax.TokenAmpAmp:
		return 4, k, 1
	case syntax.TokenEqEq, syntax.TokenNeq, syntax.TokenLtEq, syntax.TokenGtEq:
		return 5, k, 1
	case syntax.TokenLAngle:
		if p.joint(0) {
			switch p.nth(1) {
			case syntax.TokenLAngle:
				return 9, syntax.TokenShl, 2
			case syntax.TokenLtEq:
				return bpAssign, syntax.TokenShlEq, 2
			}
		}
		return 5, k, 1
	case syntax.TokenRAngle:
		if p.joint(0) {
			switch p.nth(1) {
			case syntax.TokenRAngle:
				return 9, syntax.TokenShr, 2
			case syntax.TokenGtEq:
				return bpAssign, syntax.TokenShrEq, 2
			}
		}
		return 5, k, 1
	case syntax.TokenPipe:
		return 6, k, 1
	case syntax.TokenCaret:
		return 7, k, 1
	case syntax.TokenAmp:
		return 8, k, 1
	case syntax.TokenPlus, syntax.TokenMinus:
		return 10, k, 1
	case syntax.TokenStar, syntax.TokenSlash, syntax.TokenPercent:
		return 11, k, 1
	}
	return 0, 0, 0
}

// parseExprBP parses an expression whose operators bind at least as tightly
// as minBP.
func (p *Parser) parseExprBP(r restrictions, minBP int) (completedMarker, bool) {
	lhs, ok := p.parseLHS(r)
	if !ok {
		return lhs, false
	}
	if r.stmt && p.prevKind() == syntax.TokenRCurly && isBlockLike(lhs.kind) {
		return lhs, true
	}
	r.stmt = false
	for {
		if p.check(syntax.TokenAsKw) {
			if bpCast < minBP {
				break
			}
			m := lhs.precede(p)
			p.bump()
			p.parseTypeNoBounds()
			lhs = m.complete(p, syntax.KindCastExpr)
			continue
		}
		bp, op, n := p.currentOp()
		if bp == 0 || bp < minBP {
			break
		}
		m := lhs.precede(p)
		if bp == bpRange {
			p.bump()
			if p.atExprStart() && !(r.forbidStructs && p.check(syntax.TokenLCurly)) {
				p.parseExprBP(r, bp+1)
			}
			lhs = m.complete(p, syntax.KindRangeExpr)
			continue
		}
		p.bumpCompound(op, n)
		next := bp + 1
		if bp == bpAssign {
			next = bp
		}
		if !p.atExprStart() {
			p.errRecover("expected an expression", exprRecovery)
		} else {
			p.parseExprBP(r, next)
		}
		lhs = m.complete(p, syntax.KindBinExpr)
	}
	return lhs, true
}

func isBlockLike(kind syntax.Kind) bool {
	switch kind {
	case syntax.KindBlockExpr, syntax.KindIfExpr, syntax.KindWhileExpr, syntax.KindLoopExpr,
		syntax.KindForExpr, syntax.KindMatchExpr, syntax.KindMacroCall:
		return true
	}
	return false
}

// prevKind returns the kind of the last consumed token.
func (p *Parser) prevKind() syntax.Kind {
	if p.pos == 0 || p.pos > len(p.kinds) {
		return syntax.TokenEOF
	}
	return p.kinds[p.pos-1]
}

func (p *Parser) parseLHS(r restrictions) (completedMarker, bool) {
	inner := r
	inner.stmt = false
	var kind syntax.Kind
	m := p.start()
	switch p.current() {
	case syntax.TokenAmp, syntax.TokenAmpAmp:
		p.bump()
		p.eat(syntax.TokenMutKw)
		kind = syntax.KindRefExpr
	case syntax.TokenStar, syntax.TokenExcl, syntax.TokenMinus:
		p.bump()
		kind = syntax.KindPrefixExpr
	case syntax.TokenDotDot, syntax.TokenDotDotEq:
		p.bump()
		if p.atExprStart() && !(r.forbidStructs && p.check(syntax.TokenLCurly)) {
			p.parseExprBP(inner, bpRange+1)
		}
		return m.complete(p, syntax.KindRangeExpr), true
	default:
		m.abandon(p)
		atom, ok := p.parseAtom(r)
		if !ok {
			return atom, false
		}
		if r.stmt && isBlockLike(atom.kind) && p.prevKind() == syntax.TokenRCurly {
			return atom, true
		}
		return p.parsePostfix(atom), true
	}
	if !p.atExprStart() {
		p.errRecover("expected an expression", exprRecovery)
	} else {
		p.parseExprBP(inner, bpPrefix)
	}
	return m.complete(p, kind), true
}

func (p *Parser) parsePostfix(lhs completedMarker) completedMarker {
	for {
		switch p.current() {
		case syntax.TokenLParen:
			m := lhs.precede(p)
			p.parseArgList()
			lhs = m.complete(p, syntax.KindCallExpr)
		case syntax.TokenLBrack:
			m := lhs.precede(p)
			p.bump()
			p.parseExpr()
			p.expect(syntax.TokenRBrack)
			lhs = m.complete(p, syntax.KindIndexExpr)
		case syntax.TokenQuestion:
			m := lhs.precede(p)
			p.bump()
			lhs = m.complete(p, syntax.KindTryExpr)
		case syntax.TokenDot:
			m := lhs.precede(p)
			p.bump()
			switch p.current() {
			case syntax.TokenIdent:
				p.parseNameRef()
				if p.check(syntax.TokenColonColon) && p.nth(1) == syntax.TokenLAngle {
					p.bump()
					p.parseTypeArgs()
				}
				if p.check(syntax.TokenLParen) {
					p.parseArgList()
					lhs = m.complete(p, syntax.KindMethodCallExpr)
					continue
				}
			case syntax.TokenIntNumber, syntax.TokenFloatNumber:
				p.bump()
			default:
				p.error("expected a field name or method")
			}
			lhs = m.complete(p, syntax.KindFieldExpr)
		default:
			return lhs
		}
	}
}

func (p *Parser) parseArgList() {
	m := p.start()
	p.bump()
	for !p.atEOF() && !p.check(syntax.TokenRParen) {
		progress := p.mustProgress()
		if !p.atExprStart() {
			p.errRecover("expected an expression", exprRecovery)
			if !p.eat(syntax.TokenComma) {
				break
			}
			continue
		}
		p.parseExpr()
		if !p.check(syntax.TokenRParen) {
			p.expect(syntax.TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.expect(syntax.TokenRParen)
	m.complete(p, syntax.KindArgList)
}

func (p *Parser) parseAtom(r restrictions) (completedMarker, bool) {
	if p.atLiteral() {
		m := p.start()
		p.bump()
		return m.complete(p, syntax.KindLiteral), true
	}
	if p.atContextual("async") && (p.nth(1) == syntax.TokenLCurly || p.nth(1) == syntax.TokenMoveKw && p.nth(2) == syntax.TokenLCurly) {
		m := p.start()
		p.bump()
		p.eat(syntax.TokenMoveKw)
		p.parseBlock()
		return m.complete(p, syntax.KindBlockExpr), true
	}
	if p.atPathStart() {
		return p.parsePathExpr(r), true
	}
	m := p.start()
	switch p.current() {
	case syntax.TokenLParen:
		p.bump()
		if p.eat(syntax.TokenRParen) {
			return m.complete(p, syntax.KindTupleExpr), true
		}
		p.parseExpr()
		if !p.check(syntax.TokenComma) {
			p.expect(syntax.TokenRParen)
			return m.complete(p, syntax.KindParenExpr), true
		}
		for p.eat(syntax.TokenComma) && !p.check(syntax.TokenRParen) && p.atExprStart() {
			p.parseExpr()
		}
		p.expect(syntax.TokenRParen)
		return m.complete(p, syntax.KindTupleExpr), true
	case syntax.TokenLBrack:
		p.bump()
		if !p.check(syntax.TokenRBrack) && p.atExprStart() {
			p.parseExpr()
			if p.eat(syntax.TokenSemi) {
				p.parseExpr()
			} else {
				for p.eat(syntax.TokenComma) && !p.check(syntax.TokenRBrack) && p.atExprStart() {
					p.parseExpr()
				}
			}
		}
		p.expect(syntax.TokenRBrack)
		return m.complete(p, syntax.KindArrayExpr), true
	case syntax.TokenLCurly:
		p.parseBlock()
		return m.complete(p, syntax.KindBlockExpr), true
	case syntax.TokenUnsafeKw:
		p.bump()
		p.parseBlock()
		return m.complete(p, syntax.KindBlockExpr), true
	case syntax.TokenIfKw:
		return p.parseIf(m), true
	case syntax.TokenWhileKw, syntax.TokenLoopKw, syntax.TokenForKw:
		return p.parseLoop(m), true
	case syntax.TokenLifetime:
		if p.nth(1) == syntax.TokenColon {
			p.bump()
			p.bump()
			switch p.current() {
			case syntax.TokenWhileKw, syntax.TokenLoopKw, syntax.TokenForKw:
				return p.parseLoop(m), true
			case syntax.TokenLCurly:
				p.parseBlock()
				return m.complete(p, syntax.KindBlockExpr), true
			}
			p.error("expected a loop or block after label")
			return m.complete(p, syntax.KindError), true
		}
	case syntax.TokenMatchKw:
		p.bump()
		p.parseExprNoStruct()
		if p.check(syntax.TokenLCurly) {
			p.parseMatchArmList()
		} else {
			p.error("expected `{`")
		}
		return m.complete(p, syntax.KindMatchExpr), true
	case syntax.TokenPipe, syntax.TokenPipePipe, syntax.TokenMoveKw:
		p.parseLambda(r)
		return m.complete(p, syntax.KindLambdaExpr), true
	case syntax.TokenReturnKw:
		p.bump()
		if p.atExprStart() && !(r.forbidStructs && p.check(syntax.TokenLCurly)) {
			p.parseExprBP(restrictions{forbidStructs: r.forbidStructs}, 1)
		}
		return m.complete(p, syntax.KindReturnExpr), true
	case syntax.TokenBreakKw:
		p.bump()
		p.eat(syntax.TokenLifetime)
		if p.atExprStart() && !(r.forbidStructs && p.check(syntax.TokenLCurly)) {
			p.parseExprBP(restrictions{forbidStructs: r.forbidStructs}, 1)
		}
		return m.complete(p, syntax.KindBreakExpr), true
	case syntax.TokenContinueKw:
		p.bump()
		p.eat(syntax.TokenLifetime)
		return m.complete(p, syntax.KindContinueExpr), true
	}
	m.abandon(p)
	p.errRecover("expected an expression", exprRecovery)
	return completedMarker{}, false
}

// parsePathExpr parses a path used as a value, a macro call, or a struct
// literal when r allows one.
func (p *Parser) parsePathExpr(r restrictions) completedMarker {
	m := p.start()
	p.parsePath(pathExpr)
	if p.check(syntax.TokenExcl) {
		p.bump()
		p.eat(syntax.TokenIdent)
		if p.match(syntax.TokenLParen, syntax.TokenLBrack, syntax.TokenLCurly) {
			p.parseTokenTree()
		} else {
			p.error("expected a token tree")
		}
		return m.complete(p, syntax.KindMacroCall)
	}
	cm := m.complete(p, syntax.KindPathExpr)
	if p.check(syntax.TokenLCurly) && !r.forbidStructs {
		m := cm.precede(p)
		p.parseNamedFieldList()
		return m.complete(p, syntax.KindStructLit)
	}
	return cm
}

func (p *Parser) parseNamedFieldList() {
	m := p.start()
	p.bump()
	for !p.atEOF() && !p.check(syntax.TokenRCurly) {
		progress := p.mustProgress()
		switch {
		case p.eat(syntax.TokenDotDot):
			if p.atExprStart() {
				p.parseExpr()
			}
		case p.check(syntax.TokenIdent):
			f := p.start()
			p.parseNameRef()
			if p.eat(syntax.TokenColon) {
				p.parseExpr()
			}
			f.complete(p, syntax.KindNamedField)
		case p.check(syntax.TokenIntNumber):
			f := p.start()
			p.bump()
			p.expect(syntax.TokenColon)
			p.parseExpr()
			f.complete(p, syntax.KindNamedField)
		default:
			p.errRecover("expected a field", newTokenSet(syntax.TokenComma))
		}
		if !p.check(syntax.TokenRCurly) {
			p.expect(syntax.TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.expect(syntax.TokenRCurly)
	m.complete(p, syntax.KindNamedFieldList)
}

func (p *Parser) parseIf(m marker) completedMarker {
	p.bump()
	p.parseCondition()
	p.parseBlock()
	if p.eat(syntax.TokenElseKw) {
		switch {
		case p.check(syntax.TokenIfKw):
			p.parseIf(p.start())
		case p.check(syntax.TokenLCurly):
			b := p.start()
			p.parseBlock()
			b.complete(p, syntax.KindBlockExpr)
		default:
			p.error("expected `if` or a block")
		}
	}
	return m.complete(p, syntax.KindIfExpr)
}

func (p *Parser) parseCondition() {
	m := p.start()
	if p.eat(syntax.TokenLetKw) {
		p.parsePattern()
		p.expect(syntax.TokenEq)
	}
	if p.atExprStart() {
		p.parseExprNoStruct()
	} else {
		p.error("expected a condition")
	}
	m.complete(p, syntax.KindCondition)
}

// parseLoop parses while, loop and for expressions into m, which may
// already hold a label.
func (p *Parser) parseLoop(m marker) completedMarker {
	var kind syntax.Kind
	switch p.current() {
	case syntax.TokenWhileKw:
		p.bump()
		p.parseCondition()
		kind = syntax.KindWhileExpr
	case syntax.TokenLoopKw:
		p.bump()
		kind = syntax.KindLoopExpr
	default:
		p.bump()
		p.parsePattern()
		p.expect(syntax.TokenInKw)
		p.parseExprNoStruct()
		kind = syntax.KindForExpr
	}
	p.parseBlock()
	return m.complete(p, kind)
}

var armRecovery = newTokenSet(syntax.TokenComma, syntax.TokenFatArrow)

func (p *Parser) parseMatchArmList() {
	m := p.start()
	p.bump()
	p.parseInnerAttributes()
	for !p.atEOF() && !p.check(syntax.TokenRCurly) {
		if p.check(syntax.TokenLCurly) {
			p.errorBlock("expected a match arm")
			continue
		}
		progress := p.mustProgress()
		arm := p.start()
		p.parseOuterAttributes()
		if !p.atPatternStart() && !p.check(syntax.TokenPipe) {
			arm.abandon(p)
			p.errRecover("expected a pattern", armRecovery)
			p.eat(syntax.TokenComma)
			if !progress() {
				break
			}
			continue
		}
		p.parsePattern()
		if p.check(syntax.TokenIfKw) {
			g := p.start()
			p.bump()
			p.parseExpr()
			g.complete(p, syntax.KindMatchGuard)
		}
		p.expect(syntax.TokenFatArrow)
		if p.atExprStart() {
			p.parseExpr()
		} else {
			p.errRecover("expected an expression", armRecovery)
		}
		arm.complete(p, syntax.KindMatchArm)
		if !p.eat(syntax.TokenComma) && !p.check(syntax.TokenRCurly) && p.prevKind() != syntax.TokenRCurly {
			p.error("expected `,`")
		}
		if !progress() {
			break
		}
	}
	p.expect(syntax.TokenRCurly)
	m.complete(p, syntax.KindMatchArmList)
}

func (p *Parser) parseLambda(r restrictions) {
	p.eat(syntax.TokenMoveKw)
	switch {
	case p.check(syntax.TokenPipePipe):
		m := p.start()
		p.bump()
		m.complete(p, syntax.KindParamList)
	case p.check(syntax.TokenPipe):
		p.parseParamList(paramsClosure)
	default:
		p.error("expected closure parameters")
		return
	}
	if p.check(syntax.TokenThinArrow) {
		p.parseRetType()
		if p.check(syntax.TokenLCurly) {
			b := p.start()
			p.parseBlock()
			b.complete(p, syntax.KindBlockExpr)
		} else {
			p.error("expected a block")
		}
		return
	}
	if p.atExprStart() {
		p.parseExprBP(restrictions{forbidStructs: r.forbidStructs}, 1)
	} else {
		p.error("expected an expression")
	}
}

// parseBlock parses `{ statements }`.
func (p *Parser) parseBlock() {
	if !p.check(syntax.TokenLCurly) {
		p.error("expected a block")
		return
	}
	m := p.start()
	p.bump()
	p.parseInnerAttributes()
	for !p.atEOF() && !p.check(syntax.TokenRCurly) {
		progress := p.mustProgress()
		p.parseStatement()
		if !progress() {
			break
		}
	}
	p.expect(syntax.TokenRCurly)
	m.complete(p, syntax.KindBlock)
}

func (p *Parser) parseBlockExpr() {
	m := p.start()
	p.parseBlock()
	m.complete(p, syntax.KindBlockExpr)
}

func (p *Parser) atItemStart() bool {
	switch p.current() {
	case syntax.TokenPound, syntax.TokenFnKw, syntax.TokenStructKw, syntax.TokenEnumKw,
		syntax.TokenTraitKw, syntax.TokenImplKw, syntax.TokenModKw, syntax.TokenUseKw,
		syntax.TokenTypeKw, syntax.TokenStaticKw, syntax.TokenPubKw:
		return true
	case syntax.TokenConstKw:
		return p.nth(1) != syntax.TokenLCurly
	case syntax.TokenExternKw:
		return p.nth(1) == syntax.TokenCrateKw || p.nth(1) == syntax.TokenFnKw || p.nth(1) == syntax.TokenString
	case syntax.TokenUnsafeKw:
		switch p.nth(1) {
		case syntax.TokenFnKw, syntax.TokenImplKw, syntax.TokenTraitKw, syntax.TokenExternKw:
			return true
		}
	case syntax.TokenIdent:
		switch p.nthText(0) {
		case "union":
			return p.nth(1) == syntax.TokenIdent
		case "async":
			return p.nth(1) == syntax.TokenFnKw || p.nth(1) == syntax.TokenUnsafeKw
		case "auto":
			return p.nth(1) == syntax.TokenTraitKw
		}
	}
	return false
}

func (p *Parser) parseStatement() {
	switch {
	case p.eat(syntax.TokenSemi):
		return
	case p.check(syntax.TokenLetKw):
		p.parseLet()
		return
	case p.atItemStart():
		p.parseItem(true)
		return
	}
	m := p.start()
	if _, ok := p.parseExprBP(restrictions{stmt: true}, 1); !ok {
		m.abandon(p)
		return
	}
	switch {
	case p.eat(syntax.TokenSemi):
	case p.check(syntax.TokenRCurly):
		// Tail expression of the block.
		m.abandon(p)
		return
	case p.prevKind() == syntax.TokenRCurly:
	default:
		p.error("expected `;`")
	}
	m.complete(p, syntax.KindExprStmt)
}

func (p *Parser) parseLet() {
	m := p.start()
	p.bump()
	if p.atPatternStart() {
		p.parsePattern()
	} else {
		p.errRecover("expected a pattern", patternRecovery)
	}
	if p.eat(syntax.TokenColon) {
		p.parseType()
	}
	if p.eat(syntax.TokenEq) {
		p.parseExpr()
		if p.check(syntax.TokenElseKw) {
			p.bump()
			p.parseBlockExpr()
		}
	}
	p.expect(syntax.TokenSemi)
	m.complete(p, syntax.KindLetStmt)
}
