package parser

import "github.com/dhamidi/libsyntax/syntax"

// TreeSink receives the structure recovered by the parser. Nodes nest
// strictly; every token of the input is delivered exactly once.
type TreeSink interface {
	StartNode(kind syntax.Kind)
	Token(kind syntax.Kind, text string)
	FinishNode()
	Error(msg string)
}

type Option func(*Parser)

// WithSteps bounds the number of lookups the parser may make without
// consuming a token. Once exhausted the parser sees end of input, and the
// unconsumed text is attached to the root.
func WithSteps(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxSteps = n
		}
	}
}

// Parse parses a Rust source file. It never fails: malformed input yields
// Error nodes and recorded errors, and the tree text equals the input.
func Parse(text string, opts ...Option) *syntax.Tree {
	b := syntax.NewGreenBuilder()
	ParseWith(text, b, opts...)
	return b.Finish()
}

// ParseWith parses text and replays the result into sink.
func ParseWith(text string, sink TreeSink, opts ...Option) {
	p := newParser(text, Tokenize(text))
	for _, opt := range opts {
		opt(p)
	}
	p.parseSourceFile()
	p.build(sink)
}

type eventKind uint8

const (
	evStart eventKind = iota
	evFinish
	evToken
	evError
)

// event is one step of the parse. A start event may point forward to the
// start of a node that must enclose it; this is how precede wraps an already
// completed node without rewriting the stream.
type event struct {
	kind          eventKind
	syntaxKind    syntax.Kind
	forwardParent int
	nRaw          int
	msg           string
}

type Parser struct {
	text string
	raw  []Token

	// Non-trivia view of raw.
	kinds  []syntax.Kind
	starts []int
	lens   []int

	pos      int
	events   []event
	steps    int
	maxSteps int
}

const defaultMaxSteps = 100_000

func newParser(text string, raw []Token) *Parser {
	p := &Parser{text: text, raw: raw, maxSteps: defaultMaxSteps}
	off := 0
	for _, tok := range raw {
		if !tok.Kind.IsTrivia() {
			p.kinds = append(p.kinds, tok.Kind)
			p.starts = append(p.starts, off)
			p.lens = append(p.lens, tok.Len)
		}
		off += tok.Len
	}
	return p
}

func (p *Parser) nth(n int) syntax.Kind {
	p.steps++
	i := p.pos + n
	if i >= len(p.kinds) || p.steps > p.maxSteps {
		return syntax.TokenEOF
	}
	return p.kinds[i]
}

func (p *Parser) nthText(n int) string {
	i := p.pos + n
	if i >= len(p.kinds) {
		return ""
	}
	return p.text[p.starts[i] : p.starts[i]+p.lens[i]]
}

func (p *Parser) current() syntax.Kind {
	return p.nth(0)
}

func (p *Parser) check(kind syntax.Kind) bool {
	return p.current() == kind
}

func (p *Parser) match(kinds ...syntax.Kind) bool {
	cur := p.current()
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// atContextual reports whether the current token is an identifier spelled kw.
func (p *Parser) atContextual(kw string) bool {
	return p.check(syntax.TokenIdent) && p.nthText(0) == kw
}

// joint reports whether the n-th and (n+1)-th tokens touch with no trivia
// between them.
func (p *Parser) joint(n int) bool {
	i := p.pos + n
	if i+1 >= len(p.kinds) {
		return false
	}
	return p.starts[i]+p.lens[i] == p.starts[i+1]
}

func (p *Parser) atEOF() bool {
	return p.current() == syntax.TokenEOF
}

func (p *Parser) bump() {
	if p.atEOF() {
		return
	}
	p.bumpRemap(p.kinds[p.pos])
}

// bumpRemap consumes the current token but records it under kind.
func (p *Parser) bumpRemap(kind syntax.Kind) {
	p.bumpCompound(kind, 1)
}

// bumpCompound consumes n adjacent tokens as a single token of kind.
func (p *Parser) bumpCompound(kind syntax.Kind, n int) {
	if p.atEOF() {
		return
	}
	n = min(n, len(p.kinds)-p.pos)
	p.events = append(p.events, event{kind: evToken, syntaxKind: kind, nRaw: n})
	p.pos += n
	p.steps = 0
}

func (p *Parser) eat(kind syntax.Kind) bool {
	if !p.check(kind) {
		return false
	}
	p.bump()
	return true
}

// expect consumes kind or records an error naming it.
func (p *Parser) expect(kind syntax.Kind) bool {
	if p.eat(kind) {
		return true
	}
	p.error("expected " + describe(kind))
	return false
}

func (p *Parser) error(msg string) {
	p.events = append(p.events, event{kind: evError, msg: msg})
}

// errAndBump records msg and wraps the current token in an Error node.
func (p *Parser) errAndBump(msg string) {
	m := p.start()
	p.error(msg)
	p.bump()
	m.complete(p, syntax.KindError)
}

// errRecover records msg. Unless the current token is a brace or in
// recovery, where an enclosing rule can resume, the token is also consumed
// into an Error node.
func (p *Parser) errRecover(msg string, recovery tokenSet) {
	if p.match(syntax.TokenLCurly, syntax.TokenRCurly) || recovery.contains(p.current()) || p.atEOF() {
		p.error(msg)
		return
	}
	p.errAndBump(msg)
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made. A stuck token is wrapped in an
// Error node so the loop can continue.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if p.atEOF() {
				return false
			}
			p.errAndBump("unexpected token")
		}
		return true
	}
}

type marker struct {
	pos int
}

type completedMarker struct {
	pos  int
	kind syntax.Kind
}

func (p *Parser) start() marker {
	pos := len(p.events)
	p.events = append(p.events, event{kind: evStart, syntaxKind: syntax.KindTombstone})
	return marker{pos: pos}
}

func (m marker) complete(p *Parser, kind syntax.Kind) completedMarker {
	p.events[m.pos].syntaxKind = kind
	p.events = append(p.events, event{kind: evFinish})
	return completedMarker{pos: m.pos, kind: kind}
}

// abandon drops the marker. A marker still at the end of the stream is
// removed; otherwise its start event stays behind as a tombstone.
func (m marker) abandon(p *Parser) {
	if m.pos == len(p.events)-1 {
		p.events = p.events[:m.pos]
	}
}

// precede starts a new node that will enclose the completed one.
func (cm completedMarker) precede(p *Parser) marker {
	m := p.start()
	p.events[cm.pos].forwardParent = m.pos - cm.pos
	return m
}

// build replays the event stream into sink, attaching trivia. Whitespace
// and comments preceding a node start are emitted before the node opens,
// so leading trivia of an item stays outside it. Trailing trivia of the file
// lands in the root.
func (p *Parser) build(sink TreeSink) {
	offsets := p.rawOffsets()
	rawPos := 0
	depth := 0
	emit := func(kind syntax.Kind, from, to int) {
		start := offsets[from]
		stop := offsets[to-1] + p.raw[to-1].Len
		sink.Token(kind, p.text[start:stop])
	}
	flushTrivia := func() {
		for rawPos < len(p.raw) && p.raw[rawPos].Kind.IsTrivia() {
			emit(p.raw[rawPos].Kind, rawPos, rawPos+1)
			rawPos++
		}
	}

	var chain []syntax.Kind
	for i := range p.events {
		ev := p.events[i]
		switch ev.kind {
		case evStart:
			if ev.syntaxKind == syntax.KindTombstone && ev.forwardParent == 0 {
				continue
			}
			chain = chain[:0]
			j := i
			for {
				chain = append(chain, p.events[j].syntaxKind)
				fp := p.events[j].forwardParent
				if j != i {
					p.events[j].syntaxKind = syntax.KindTombstone
					p.events[j].forwardParent = 0
				}
				if fp == 0 {
					break
				}
				j += fp
			}
			for k := len(chain) - 1; k >= 0; k-- {
				if chain[k] == syntax.KindTombstone {
					continue
				}
				if depth > 0 {
					flushTrivia()
				}
				sink.StartNode(chain[k])
				depth++
			}
		case evFinish:
			if depth == 1 {
				for rawPos < len(p.raw) {
					emit(p.raw[rawPos].Kind, rawPos, rawPos+1)
					rawPos++
				}
			}
			sink.FinishNode()
			depth--
		case evToken:
			flushTrivia()
			n := 0
			end := rawPos
			for n < ev.nRaw && end < len(p.raw) {
				if !p.raw[end].Kind.IsTrivia() {
					n++
				}
				end++
			}
			if end > rawPos {
				emit(ev.syntaxKind, rawPos, end)
			}
			rawPos = end
		case evError:
			sink.Error(ev.msg)
		}
	}
}

func (p *Parser) rawOffsets() []int {
	offsets := make([]int, len(p.raw))
	off := 0
	for i, tok := range p.raw {
		offsets[i] = off
		off += tok.Len
	}
	return offsets
}

// tokenSet is a bitset over token kinds.
type tokenSet [2]uint64

func newTokenSet(kinds ...syntax.Kind) tokenSet {
	var s tokenSet
	for _, k := range kinds {
		s[k/64] |= 1 << (k % 64)
	}
	return s
}

func (s tokenSet) contains(k syntax.Kind) bool {
	if k >= 128 {
		return false
	}
	return s[k/64]&(1<<(k%64)) != 0
}

func (s tokenSet) union(o tokenSet) tokenSet {
	return tokenSet{s[0] | o[0], s[1] | o[1]}
}

var punctText = map[syntax.Kind]string{
	syntax.TokenSemi:       ";",
	syntax.TokenComma:      ",",
	syntax.TokenDot:        ".",
	syntax.TokenLParen:     "(",
	syntax.TokenRParen:     ")",
	syntax.TokenLCurly:     "{",
	syntax.TokenRCurly:     "}",
	syntax.TokenLBrack:     "[",
	syntax.TokenRBrack:     "]",
	syntax.TokenLAngle:     "<",
	syntax.TokenRAngle:     ">",
	syntax.TokenEq:         "=",
	syntax.TokenFatArrow:   "=>",
	syntax.TokenExcl:       "!",
	syntax.TokenColon:      ":",
	syntax.TokenColonColon: "::",
	syntax.TokenThinArrow:  "->",
	syntax.TokenPipe:       "|",
	syntax.TokenInKw:       "in",
	syntax.TokenFnKw:       "fn",
}

func describe(kind syntax.Kind) string {
	if s, ok := punctText[kind]; ok {
		return "`" + s + "`"
	}
	return kind.String()
}
