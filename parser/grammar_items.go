package parser

import "github.com/dhamidi/libsyntax/syntax"

var itemKeywords = newTokenSet(
	syntax.TokenFnKw, syntax.TokenStructKw, syntax.TokenEnumKw, syntax.TokenImplKw,
	syntax.TokenTraitKw, syntax.TokenModKw, syntax.TokenUseKw, syntax.TokenTypeKw,
	syntax.TokenConstKw, syntax.TokenStaticKw, syntax.TokenExternKw, syntax.TokenPubKw,
)

var itemRecovery = itemKeywords.union(newTokenSet(syntax.TokenPound, syntax.TokenSemi))

func (p *Parser) parseSourceFile() {
	m := p.start()
	p.parseInnerAttributes()
	p.parseItems(false)
	m.complete(p, syntax.KindSourceFile)
}

// parseItems parses items until end of input, or until a closing brace when
// inBlock is set.
func (p *Parser) parseItems(inBlock bool) {
	for !p.atEOF() {
		if inBlock && p.check(syntax.TokenRCurly) {
			return
		}
		progress := p.mustProgress()
		p.parseItem(inBlock)
		if !progress() {
			return
		}
	}
}

// parseItem parses one item with its attributes and visibility. Tokens that
// cannot start an item are consumed into Error nodes.
func (p *Parser) parseItem(inBlock bool) {
	m := p.start()
	before := p.pos
	p.parseOuterAttributes()
	p.parseVisibility()
	if kind, ok := p.parseItemBody(); ok {
		m.complete(p, kind)
		return
	}
	if p.pos != before {
		p.error("expected an item")
		m.complete(p, syntax.KindError)
		return
	}
	m.abandon(p)
	switch {
	case p.match(syntax.TokenLCurly, syntax.TokenLParen, syntax.TokenLBrack):
		p.errorBlock("expected an item")
	case p.check(syntax.TokenRCurly) && inBlock:
		p.error("expected an item")
	default:
		p.errAndBump("expected an item")
	}
}

// parseItemBody dispatches on the keyword that introduces an item. It reports
// false, consuming nothing, when no item starts here.
func (p *Parser) parseItemBody() (syntax.Kind, bool) {
	switch p.current() {
	case syntax.TokenUseKw:
		p.parseUse()
		return syntax.KindUseItem, true
	case syntax.TokenFnKw:
		p.parseFn()
		return syntax.KindFnDef, true
	case syntax.TokenStructKw:
		p.parseStruct()
		return syntax.KindStructDef, true
	case syntax.TokenEnumKw:
		p.parseEnum()
		return syntax.KindEnumDef, true
	case syntax.TokenTraitKw:
		p.parseTrait()
		return syntax.KindTraitDef, true
	case syntax.TokenImplKw:
		p.parseImpl()
		return syntax.KindImplItem, true
	case syntax.TokenModKw:
		p.parseModule()
		return syntax.KindModule, true
	case syntax.TokenTypeKw:
		p.parseTypeAlias()
		return syntax.KindTypeDef, true
	case syntax.TokenStaticKw:
		p.parseConstOrStatic()
		return syntax.KindStaticDef, true
	case syntax.TokenConstKw:
		switch p.nth(1) {
		case syntax.TokenFnKw, syntax.TokenUnsafeKw, syntax.TokenExternKw:
			p.parseFn()
			return syntax.KindFnDef, true
		}
		if p.nth(1) == syntax.TokenIdent && p.nthText(1) == "async" {
			p.parseFn()
			return syntax.KindFnDef, true
		}
		p.parseConstOrStatic()
		return syntax.KindConstDef, true
	case syntax.TokenUnsafeKw:
		switch p.nth(1) {
		case syntax.TokenFnKw, syntax.TokenExternKw:
			p.parseFn()
			return syntax.KindFnDef, true
		case syntax.TokenImplKw:
			p.bump()
			p.parseImpl()
			return syntax.KindImplItem, true
		case syntax.TokenTraitKw:
			p.bump()
			p.parseTrait()
			return syntax.KindTraitDef, true
		}
		if p.nth(1) == syntax.TokenIdent && p.nthText(1) == "auto" && p.nth(2) == syntax.TokenTraitKw {
			p.bump()
			p.bumpRemap(syntax.TokenIdent)
			p.parseTrait()
			return syntax.KindTraitDef, true
		}
	case syntax.TokenExternKw:
		switch {
		case p.nth(1) == syntax.TokenCrateKw:
			p.parseExternCrate()
			return syntax.KindExternCrateItem, true
		case p.nth(1) == syntax.TokenFnKw,
			p.nth(1) == syntax.TokenString && p.nth(2) == syntax.TokenFnKw:
			p.parseFn()
			return syntax.KindFnDef, true
		}
	case syntax.TokenIdent:
		switch text := p.nthText(0); {
		case text == "async" && p.nth(1) == syntax.TokenFnKw,
			text == "async" && p.nth(1) == syntax.TokenUnsafeKw:
			p.parseFn()
			return syntax.KindFnDef, true
		case text == "union" && p.nth(1) == syntax.TokenIdent:
			p.parseStruct()
			return syntax.KindStructDef, true
		case text == "auto" && p.nth(1) == syntax.TokenTraitKw:
			p.bump()
			p.parseTrait()
			return syntax.KindTraitDef, true
		case text == "default" && p.match2(syntax.TokenFnKw, syntax.TokenImplKw, syntax.TokenTypeKw, syntax.TokenConstKw, syntax.TokenUnsafeKw):
			p.bump()
			return p.parseItemBody()
		}
		if p.atMacroCall() {
			p.parseMacroCall(true)
			return syntax.KindMacroCall, true
		}
	case syntax.TokenColonColon, syntax.TokenSelfKw, syntax.TokenSuperKw, syntax.TokenCrateKw:
		if p.atMacroCall() {
			p.parseMacroCall(true)
			return syntax.KindMacroCall, true
		}
	}
	return 0, false
}

// match2 reports whether the token after the current one is any of kinds.
func (p *Parser) match2(kinds ...syntax.Kind) bool {
	next := p.nth(1)
	for _, k := range kinds {
		if next == k {
			return true
		}
	}
	return false
}

// atMacroCall reports whether a path followed by `!` starts here.
func (p *Parser) atMacroCall() bool {
	i := 0
	if p.nth(0) == syntax.TokenColonColon {
		i++
	}
	for {
		switch p.nth(i) {
		case syntax.TokenIdent, syntax.TokenSelfKw, syntax.TokenSuperKw, syntax.TokenCrateKw:
		default:
			return false
		}
		i++
		if p.nth(i) == syntax.TokenExcl {
			return true
		}
		if p.nth(i) != syntax.TokenColonColon {
			return false
		}
		i++
	}
}

// parseMacroCall parses `path ! name? token_tree`. At item level a macro
// invoked with parentheses or brackets must end with a semicolon.
func (p *Parser) parseMacroCall(item bool) {
	p.parsePath(pathUse)
	p.expect(syntax.TokenExcl)
	p.eat(syntax.TokenIdent)
	if !p.match(syntax.TokenLParen, syntax.TokenLBrack, syntax.TokenLCurly) {
		p.error("expected a token tree")
		return
	}
	curly := p.check(syntax.TokenLCurly)
	p.parseTokenTree()
	if item && !curly {
		p.expect(syntax.TokenSemi)
	}
}

func (p *Parser) parseOuterAttributes() {
	for p.check(syntax.TokenPound) && p.nth(1) != syntax.TokenExcl {
		p.parseAttribute(false)
	}
}

func (p *Parser) parseInnerAttributes() {
	for p.check(syntax.TokenPound) && p.nth(1) == syntax.TokenExcl {
		p.parseAttribute(true)
	}
}

func (p *Parser) parseAttribute(inner bool) {
	m := p.start()
	p.bump()
	if inner {
		p.bump()
	}
	if p.check(syntax.TokenLBrack) {
		p.parseTokenTree()
	} else {
		p.error("expected `[`")
	}
	m.complete(p, syntax.KindAttr)
}

var closingDelimiter = map[syntax.Kind]syntax.Kind{
	syntax.TokenLParen: syntax.TokenRParen,
	syntax.TokenLBrack: syntax.TokenRBrack,
	syntax.TokenLCurly: syntax.TokenRCurly,
}

// parseTokenTree parses a balanced delimited group. Nested groups become
// nested token trees; everything else is kept flat.
func (p *Parser) parseTokenTree() {
	m := p.start()
	closer := closingDelimiter[p.current()]
	p.bump()
	for !p.atEOF() && !p.check(closer) {
		switch p.current() {
		case syntax.TokenLParen, syntax.TokenLBrack, syntax.TokenLCurly:
			p.parseTokenTree()
		case syntax.TokenRCurly:
			// A stray brace most likely closes an enclosing block.
			p.expect(closer)
			m.complete(p, syntax.KindTokenTree)
			return
		case syntax.TokenRParen, syntax.TokenRBrack:
			p.errAndBump("unmatched delimiter")
		default:
			p.bump()
		}
	}
	p.expect(closer)
	m.complete(p, syntax.KindTokenTree)
}

// errorBlock wraps a delimited group in an Error node when its closer can be
// found without crossing a statement or item boundary. Otherwise only the
// current token is consumed.
func (p *Parser) errorBlock(msg string) {
	n, ok := p.balancedGroupLen()
	if !ok {
		p.errAndBump(msg)
		return
	}
	m := p.start()
	p.error(msg)
	for range n {
		p.bump()
	}
	m.complete(p, syntax.KindError)
}

// maxGroupLookahead bounds the scan of balancedGroupLen.
const maxGroupLookahead = 1024

// balancedGroupLen measures the delimited group starting at the current
// token. Parenthesized and bracketed groups may not contain `;` or braces;
// no group may contain an item keyword. The scan reads the token buffer
// directly and does not count against the step budget.
func (p *Parser) balancedGroupLen() (int, bool) {
	if p.pos >= len(p.kinds) {
		return 0, false
	}
	flat := p.kinds[p.pos] != syntax.TokenLCurly
	var stack []syntax.Kind
	end := min(len(p.kinds), p.pos+maxGroupLookahead)
	for i := p.pos; i < end; i++ {
		k := p.kinds[i]
		if itemKeywords.contains(k) {
			return 0, false
		}
		switch k {
		case syntax.TokenLParen, syntax.TokenLBrack, syntax.TokenLCurly:
			if flat && k == syntax.TokenLCurly {
				return 0, false
			}
			stack = append(stack, closingDelimiter[k])
		case syntax.TokenRParen, syntax.TokenRBrack, syntax.TokenRCurly:
			if len(stack) == 0 || stack[len(stack)-1] != k {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i - p.pos + 1, true
			}
		case syntax.TokenSemi:
			if flat {
				return 0, false
			}
		}
	}
	return 0, false
}

func (p *Parser) parseVisibility() {
	if !p.check(syntax.TokenPubKw) {
		return
	}
	m := p.start()
	p.bump()
	if p.check(syntax.TokenLParen) {
		switch p.nth(1) {
		case syntax.TokenCrateKw, syntax.TokenSuperKw, syntax.TokenSelfKw:
			if p.nth(2) == syntax.TokenRParen {
				p.bump()
				p.bump()
				p.bump()
			}
		case syntax.TokenInKw:
			p.bump()
			p.bump()
			p.parsePath(pathUse)
			p.expect(syntax.TokenRParen)
		}
	}
	m.complete(p, syntax.KindVisibility)
}

func (p *Parser) parseName() {
	p.parseNameRecovering(itemRecovery)
}

func (p *Parser) parseNameRecovering(recovery tokenSet) {
	if p.check(syntax.TokenIdent) {
		m := p.start()
		p.bump()
		m.complete(p, syntax.KindName)
		return
	}
	p.errRecover("expected a name", recovery)
}

func (p *Parser) parseNameRef() {
	if p.check(syntax.TokenIdent) {
		m := p.start()
		p.bump()
		m.complete(p, syntax.KindNameRef)
		return
	}
	p.errAndBump("expected identifier")
}

func (p *Parser) parseFn() {
	p.eat(syntax.TokenConstKw)
	if p.atContextual("async") {
		p.bump()
	}
	p.eat(syntax.TokenUnsafeKw)
	if p.eat(syntax.TokenExternKw) {
		p.eat(syntax.TokenString)
	}
	p.expect(syntax.TokenFnKw)
	if p.check(syntax.TokenIdent) {
		p.parseName()
	} else {
		p.error("expected a function name")
	}
	p.parseTypeParams()
	if p.check(syntax.TokenLParen) {
		p.parseParamList(paramsFn)
	} else {
		p.error("expected function arguments")
	}
	p.parseRetType()
	p.parseWhereClause()
	if p.eat(syntax.TokenSemi) {
		return
	}
	p.parseBlock()
}

func (p *Parser) parseRetType() {
	if !p.check(syntax.TokenThinArrow) {
		return
	}
	m := p.start()
	p.bump()
	p.parseTypeNoBounds()
	m.complete(p, syntax.KindRetType)
}

func (p *Parser) parseStruct() {
	// struct or contextual union
	p.bump()
	p.parseName()
	p.parseTypeParams()
	switch {
	case p.check(syntax.TokenWhereKw):
		p.parseWhereClause()
		switch {
		case p.eat(syntax.TokenSemi):
		case p.check(syntax.TokenLCurly):
			p.parseNamedFieldDefList()
		default:
			p.error("expected `;` or `{`")
		}
	case p.eat(syntax.TokenSemi):
	case p.check(syntax.TokenLCurly):
		p.parseNamedFieldDefList()
	case p.check(syntax.TokenLParen):
		p.parsePosFieldList()
		p.parseWhereClause()
		p.expect(syntax.TokenSemi)
	default:
		p.error("expected `;`, `{`, or `(`")
	}
}

func (p *Parser) parseNamedFieldDefList() {
	m := p.start()
	p.bump()
	for !p.atEOF() && !p.check(syntax.TokenRCurly) {
		if p.check(syntax.TokenLCurly) {
			p.errorBlock("expected a field")
			continue
		}
		progress := p.mustProgress()
		p.parseNamedFieldDef()
		if !p.check(syntax.TokenRCurly) {
			p.expect(syntax.TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.expect(syntax.TokenRCurly)
	m.complete(p, syntax.KindNamedFieldDefList)
}

var fieldRecovery = newTokenSet(syntax.TokenComma, syntax.TokenRCurly)

func (p *Parser) parseNamedFieldDef() {
	m := p.start()
	before := p.pos
	p.parseOuterAttributes()
	p.parseVisibility()
	if !p.check(syntax.TokenIdent) {
		if p.pos == before {
			m.abandon(p)
			p.errRecover("expected a field declaration", fieldRecovery)
			return
		}
		p.error("expected a field declaration")
		m.complete(p, syntax.KindError)
		return
	}
	p.parseName()
	p.expect(syntax.TokenColon)
	p.parseType()
	m.complete(p, syntax.KindNamedFieldDef)
}

func (p *Parser) parsePosFieldList() {
	m := p.start()
	p.bump()
	for !p.atEOF() && !p.check(syntax.TokenRParen) {
		progress := p.mustProgress()
		f := p.start()
		before := p.pos
		p.parseOuterAttributes()
		p.parseVisibility()
		if !p.atTypeStart() {
			if p.pos == before {
				f.abandon(p)
				p.errRecover("expected a type", newTokenSet(syntax.TokenRParen, syntax.TokenComma, syntax.TokenSemi))
			} else {
				p.error("expected a type")
				f.complete(p, syntax.KindError)
			}
			if !p.check(syntax.TokenComma) {
				break
			}
			p.bump()
			continue
		}
		p.parseType()
		f.complete(p, syntax.KindPosField)
		if !p.check(syntax.TokenRParen) {
			p.expect(syntax.TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.expect(syntax.TokenRParen)
	m.complete(p, syntax.KindPosFieldList)
}

func (p *Parser) parseEnum() {
	p.bump()
	p.parseName()
	p.parseTypeParams()
	p.parseWhereClause()
	if !p.check(syntax.TokenLCurly) {
		p.error("expected `{`")
		return
	}
	m := p.start()
	p.bump()
	for !p.atEOF() && !p.check(syntax.TokenRCurly) {
		if p.check(syntax.TokenLCurly) {
			p.errorBlock("expected an enum variant")
			continue
		}
		progress := p.mustProgress()
		v := p.start()
		p.parseOuterAttributes()
		if p.check(syntax.TokenIdent) {
			p.parseName()
			switch {
			case p.check(syntax.TokenLCurly):
				p.parseNamedFieldDefList()
			case p.check(syntax.TokenLParen):
				p.parsePosFieldList()
			}
			if p.eat(syntax.TokenEq) {
				p.parseExpr()
			}
			v.complete(p, syntax.KindEnumVariant)
		} else {
			v.abandon(p)
			p.errRecover("expected an enum variant", fieldRecovery)
		}
		if !p.check(syntax.TokenRCurly) {
			p.expect(syntax.TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.expect(syntax.TokenRCurly)
	m.complete(p, syntax.KindEnumVariantList)
}

func (p *Parser) parseTrait() {
	p.bump()
	p.parseName()
	p.parseTypeParams()
	if p.eat(syntax.TokenColon) {
		p.parseTypeBounds()
	}
	p.parseWhereClause()
	if p.check(syntax.TokenLCurly) {
		p.parseItemList()
	} else {
		p.error("expected `{`")
	}
}

func (p *Parser) parseImpl() {
	p.bump()
	if p.check(syntax.TokenLAngle) {
		p.parseTypeParams()
	}
	p.eat(syntax.TokenExcl)
	p.parseType()
	if p.eat(syntax.TokenForKw) {
		p.parseType()
	}
	p.parseWhereClause()
	if p.check(syntax.TokenLCurly) {
		p.parseItemList()
	} else {
		p.error("expected `{`")
	}
}

func (p *Parser) parseModule() {
	p.bump()
	p.parseName()
	if p.check(syntax.TokenLCurly) {
		p.parseItemList()
		return
	}
	p.expect(syntax.TokenSemi)
}

func (p *Parser) parseItemList() {
	m := p.start()
	p.bump()
	p.parseInnerAttributes()
	p.parseItems(true)
	p.expect(syntax.TokenRCurly)
	m.complete(p, syntax.KindItemList)
}

func (p *Parser) parseTypeAlias() {
	p.bump()
	p.parseName()
	p.parseTypeParams()
	if p.eat(syntax.TokenColon) {
		p.parseTypeBounds()
	}
	p.parseWhereClause()
	if p.eat(syntax.TokenEq) {
		p.parseType()
	}
	p.expect(syntax.TokenSemi)
}

func (p *Parser) parseConstOrStatic() {
	p.bump()
	p.eat(syntax.TokenMutKw)
	if !p.eat(syntax.TokenUnderscore) {
		p.parseName()
	}
	if p.eat(syntax.TokenColon) {
		p.parseType()
	} else {
		p.error("expected `:`")
	}
	if p.eat(syntax.TokenEq) {
		p.parseExpr()
	}
	p.expect(syntax.TokenSemi)
}

func (p *Parser) parseExternCrate() {
	p.bump()
	p.bump()
	if p.check(syntax.TokenSelfKw) {
		p.bump()
	} else {
		p.parseNameRef()
	}
	p.parseAlias()
	p.expect(syntax.TokenSemi)
}

func (p *Parser) parseAlias() {
	if !p.check(syntax.TokenAsKw) {
		return
	}
	m := p.start()
	p.bump()
	if !p.eat(syntax.TokenUnderscore) {
		p.parseName()
	}
	m.complete(p, syntax.KindAlias)
}

func (p *Parser) parseUse() {
	p.bump()
	p.parseUseTree()
	p.expect(syntax.TokenSemi)
}

func (p *Parser) parseUseTree() {
	m := p.start()
	switch {
	case p.check(syntax.TokenStar):
		p.bump()
	case p.check(syntax.TokenLCurly):
		p.parseUseTreeList()
	case p.check(syntax.TokenColonColon) && p.nth(1) == syntax.TokenStar:
		p.bump()
		p.bump()
	case p.check(syntax.TokenColonColon) && p.nth(1) == syntax.TokenLCurly:
		p.bump()
		p.parseUseTreeList()
	case p.atPathStart():
		p.parsePath(pathUse)
		switch {
		case p.check(syntax.TokenAsKw):
			p.parseAlias()
		case p.check(syntax.TokenColonColon):
			p.bump()
			switch {
			case p.eat(syntax.TokenStar):
			case p.check(syntax.TokenLCurly):
				p.parseUseTreeList()
			default:
				p.error("expected `{` or `*`")
			}
		}
	default:
		m.abandon(p)
		p.errRecover("expected a use path", newTokenSet(syntax.TokenSemi, syntax.TokenComma))
		return
	}
	m.complete(p, syntax.KindUseTree)
}

func (p *Parser) parseUseTreeList() {
	m := p.start()
	p.bump()
	for !p.atEOF() && !p.check(syntax.TokenRCurly) {
		progress := p.mustProgress()
		p.parseUseTree()
		if !p.check(syntax.TokenRCurly) {
			p.expect(syntax.TokenComma)
		}
		if !progress() {
			break
		}
	}
	p.expect(syntax.TokenRCurly)
	m.complete(p, syntax.KindUseTreeList)
}
