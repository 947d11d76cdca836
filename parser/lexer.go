package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/libsyntax/syntax"
)

// Token is a lexed token: a kind and a length in bytes. Tokens carry no
// position; offsets are recovered by summing lengths.
type Token struct {
	Kind syntax.Kind
	Len  int
}

// Tokenize splits text into tokens whose lengths sum to len(text). It never
// fails: characters it does not recognize become TokenError tokens.
func Tokenize(text string) []Token {
	var tokens []Token
	l := NewLexer(text)
	for {
		tok := l.NextToken()
		if tok.Kind == syntax.TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

type Lexer struct {
	input string
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func (l *Lexer) peek() byte {
	return l.peekN(0)
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) advance() {
	if l.pos < len(l.input) {
		l.pos++
	}
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) peekRune() (rune, int) {
	if l.atEOF() {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

func (l *Lexer) NextToken() Token {
	start := l.pos
	if l.atEOF() {
		return Token{Kind: syntax.TokenEOF}
	}

	ch := l.peek()
	kind := l.scan(ch)
	if l.pos == start {
		// Every branch must consume at least one byte.
		l.advance()
	}
	return Token{Kind: kind, Len: l.pos - start}
}

func (l *Lexer) scan(ch byte) syntax.Kind {
	switch {
	case isWhitespace(ch):
		return l.scanWhitespace()
	case ch == '/' && l.peekN(1) == '/':
		return l.scanLineComment()
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment()
	case ch == 'r' && (l.peekN(1) == '"' || (l.peekN(1) == '#' && l.rawStringAhead(1))):
		l.advance()
		l.scanRawString()
		return syntax.TokenRawString
	case ch == 'b' && l.peekN(1) == 'r' && (l.peekN(2) == '"' || (l.peekN(2) == '#' && l.rawStringAhead(2))):
		l.advanceN(2)
		l.scanRawString()
		return syntax.TokenRawByteString
	case ch == 'b' && l.peekN(1) == '"':
		l.advance()
		l.scanString()
		return syntax.TokenByteString
	case ch == 'b' && l.peekN(1) == '\'':
		l.advance()
		l.scanCharBody()
		return syntax.TokenByte
	case ch == '"':
		l.scanString()
		return syntax.TokenString
	case ch == '\'':
		return l.scanCharOrLifetime()
	case isDigit(ch):
		return l.scanNumber()
	}

	if r, size := l.peekRune(); isIdentStart(r) {
		l.advanceN(size)
		return l.scanIdentOrKeyword(l.pos - size)
	}

	if kind, ok := l.scanPunct(ch); ok {
		return kind
	}

	// Unknown character: consume one rune, or one byte of invalid UTF-8.
	_, size := l.peekRune()
	l.advanceN(size)
	return syntax.TokenError
}

func (l *Lexer) scanWhitespace() syntax.Kind {
	for isWhitespace(l.peek()) {
		l.advance()
	}
	return syntax.TokenWhitespace
}

func (l *Lexer) scanLineComment() syntax.Kind {
	kind := syntax.TokenComment
	if (l.peekN(2) == '/' && l.peekN(3) != '/') || l.peekN(2) == '!' {
		kind = syntax.TokenDocComment
	}
	for !l.atEOF() && l.peek() != '\n' {
		l.advance()
	}
	return kind
}

// scanBlockComment consumes a possibly nested block comment. An unterminated
// comment runs to the end of input.
func (l *Lexer) scanBlockComment() syntax.Kind {
	l.advanceN(2)
	depth := 1
	for !l.atEOF() && depth > 0 {
		switch {
		case l.peek() == '/' && l.peekN(1) == '*':
			depth++
			l.advanceN(2)
		case l.peek() == '*' && l.peekN(1) == '/':
			depth--
			l.advanceN(2)
		default:
			l.advance()
		}
	}
	return syntax.TokenComment
}

func (l *Lexer) scanIdentOrKeyword(start int) syntax.Kind {
	for {
		r, size := l.peekRune()
		if size == 0 || !isIdentContinue(r) {
			break
		}
		l.advanceN(size)
	}
	word := l.input[start:l.pos]
	if word == "_" {
		return syntax.TokenUnderscore
	}
	return syntax.LookupKeyword(word)
}

func (l *Lexer) scanNumber() syntax.Kind {
	if l.peek() == '0' {
		switch l.peekN(1) {
		case 'x', 'o', 'b':
			l.advanceN(2)
			for isHexDigit(l.peek()) || l.peek() == '_' {
				l.advance()
			}
			l.scanSuffix()
			return syntax.TokenIntNumber
		}
	}

	kind := syntax.TokenIntNumber
	l.scanDigits()

	// `1.foo()` and `1..2` keep the dot out of the literal.
	if l.peek() == '.' && l.peekN(1) != '.' && !isIdentStartByte(l.peekN(1)) {
		kind = syntax.TokenFloatNumber
		l.advance()
		l.scanDigits()
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekN(2))) {
			kind = syntax.TokenFloatNumber
			l.advanceN(2)
			l.scanDigits()
		}
	}

	if l.peek() == 'f' && isDigit(l.peekN(1)) {
		kind = syntax.TokenFloatNumber
	}
	l.scanSuffix()
	return kind
}

func (l *Lexer) scanDigits() {
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
}

func (l *Lexer) scanSuffix() {
	r, _ := l.peekRune()
	if !isIdentStart(r) {
		return
	}
	for {
		r, size := l.peekRune()
		if size == 0 || !isIdentContinue(r) {
			return
		}
		l.advanceN(size)
	}
}

// scanString consumes a double-quoted string starting at the opening quote.
// An unterminated string runs to the end of input.
func (l *Lexer) scanString() {
	l.advance()
	for !l.atEOF() {
		switch l.peek() {
		case '\\':
			l.advanceN(2)
		case '"':
			l.advance()
			l.scanSuffix()
			return
		default:
			l.advance()
		}
	}
}

// rawStringAhead reports whether the hashes starting at offset n are followed
// by a quote, as in r#"…"#.
func (l *Lexer) rawStringAhead(n int) bool {
	for l.peekN(n) == '#' {
		n++
	}
	return l.peekN(n) == '"'
}

// scanRawString consumes `#*"…"#*` after the r prefix.
func (l *Lexer) scanRawString() {
	hashes := 0
	for l.peek() == '#' {
		hashes++
		l.advance()
	}
	if l.peek() != '"' {
		return
	}
	l.advance()
	for !l.atEOF() {
		if l.peek() == '"' {
			l.advance()
			n := 0
			for n < hashes && l.peek() == '#' {
				n++
				l.advance()
			}
			if n == hashes {
				return
			}
			continue
		}
		l.advance()
	}
}

// scanCharOrLifetime distinguishes 'a' (char) from 'a (lifetime).
func (l *Lexer) scanCharOrLifetime() syntax.Kind {
	next := l.peekN(1)
	if isIdentStartByte(next) && l.peekN(2) != '\'' {
		// A multi-byte char such as 'é' also starts with an identifier
		// byte; only a missing closing quote makes it a lifetime.
		save := l.pos
		l.advance()
		for isIdentContinueByte(l.peek()) {
			l.advance()
		}
		if l.peek() != '\'' {
			return syntax.TokenLifetime
		}
		l.pos = save
	}
	l.scanCharBody()
	return syntax.TokenChar
}

// scanCharBody consumes a quoted character literal starting at the opening
// quote. It stops at a newline when the literal is unterminated.
func (l *Lexer) scanCharBody() {
	l.advance()
	for !l.atEOF() {
		switch l.peek() {
		case '\\':
			l.advanceN(2)
		case '\'':
			l.advance()
			l.scanSuffix()
			return
		case '\n':
			return
		default:
			l.advance()
		}
	}
}

func (l *Lexer) scanPunct(ch byte) (syntax.Kind, bool) {
	next := l.peekN(1)
	one := func(k syntax.Kind) (syntax.Kind, bool) {
		l.advance()
		return k, true
	}
	two := func(k syntax.Kind) (syntax.Kind, bool) {
		l.advanceN(2)
		return k, true
	}

	switch ch {
	case ';':
		return one(syntax.TokenSemi)
	case ',':
		return one(syntax.TokenComma)
	case '(':
		return one(syntax.TokenLParen)
	case ')':
		return one(syntax.TokenRParen)
	case '{':
		return one(syntax.TokenLCurly)
	case '}':
		return one(syntax.TokenRCurly)
	case '[':
		return one(syntax.TokenLBrack)
	case ']':
		return one(syntax.TokenRBrack)
	case '<':
		if next == '=' {
			return two(syntax.TokenLtEq)
		}
		return one(syntax.TokenLAngle)
	case '>':
		if next == '=' {
			return two(syntax.TokenGtEq)
		}
		return one(syntax.TokenRAngle)
	case '@':
		return one(syntax.TokenAt)
	case '#':
		return one(syntax.TokenPound)
	case '~':
		return one(syntax.TokenTilde)
	case '?':
		return one(syntax.TokenQuestion)
	case '$':
		return one(syntax.TokenDollar)
	case '.':
		if next == '.' {
			switch l.peekN(2) {
			case '.':
				l.advanceN(3)
				return syntax.TokenDotDotDot, true
			case '=':
				l.advanceN(3)
				return syntax.TokenDotDotEq, true
			}
			return two(syntax.TokenDotDot)
		}
		return one(syntax.TokenDot)
	case ':':
		if next == ':' {
			return two(syntax.TokenColonColon)
		}
		return one(syntax.TokenColon)
	case '=':
		switch next {
		case '=':
			return two(syntax.TokenEqEq)
		case '>':
			return two(syntax.TokenFatArrow)
		}
		return one(syntax.TokenEq)
	case '!':
		if next == '=' {
			return two(syntax.TokenNeq)
		}
		return one(syntax.TokenExcl)
	case '-':
		switch next {
		case '>':
			return two(syntax.TokenThinArrow)
		case '=':
			return two(syntax.TokenMinusEq)
		}
		return one(syntax.TokenMinus)
	case '&':
		switch next {
		case '&':
			return two(syntax.TokenAmpAmp)
		case '=':
			return two(syntax.TokenAmpEq)
		}
		return one(syntax.TokenAmp)
	case '|':
		switch next {
		case '|':
			return two(syntax.TokenPipePipe)
		case '=':
			return two(syntax.TokenPipeEq)
		}
		return one(syntax.TokenPipe)
	case '+':
		if next == '=' {
			return two(syntax.TokenPlusEq)
		}
		return one(syntax.TokenPlus)
	case '*':
		if next == '=' {
			return two(syntax.TokenStarEq)
		}
		return one(syntax.TokenStar)
	case '/':
		if next == '=' {
			return two(syntax.TokenSlashEq)
		}
		return one(syntax.TokenSlash)
	case '^':
		if next == '=' {
			return two(syntax.TokenCaretEq)
		}
		return one(syntax.TokenCaret)
	case '%':
		if next == '=' {
			return two(syntax.TokenPercentEq)
		}
		return one(syntax.TokenPercent)
	}
	return 0, false
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isIdentStartByte(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= utf8.RuneSelf
}

func isIdentContinueByte(ch byte) bool {
	return isIdentStartByte(ch) || isDigit(ch)
}
