package xml

import (
	"bufio"
	"io"
	"strings"

	"github.com/erszcz/RustyXML/internal/escape"
	"github.com/erszcz/RustyXML/internal/nsstack"
)

// state is one position in the tokenizer's grammar. Every intermediate
// position reachable mid-token is its own explicit state so that a Feed
// call may stop and resume at an arbitrary character boundary.
type state int

const (
	stateOutsideTag state = iota
	stateTagOpened
	stateInProcessingInstructions
	stateInTagName
	stateInCloseTagName
	stateInTag
	stateInAttrName
	stateInAttrValue
	stateExpectDelimiter
	stateExpectClose
	stateExpectSpaceOrClose
	stateInExclamationMark
	stateInCDATAOpening
	stateInCDATA
	stateInCommentOpening
	stateInComment1
	stateInComment2
	stateInDoctype
)

// pendingAttribute is an attribute parked with its raw, not-yet-resolved
// prefix until the enclosing start tag's closing '/' or '>' is reached,
// at which point the tag's own namespace frame is complete and every
// pending attribute's prefix can be resolved in one pass.
type pendingAttribute struct {
	local  string
	prefix string // "" if the attribute carried no prefix
	value  string
}

// Parser is an incremental, single-threaded XML 1.0 tokenizer. It holds
// all state needed to resume tokenizing at any character boundary: no
// matcher here is allowed to look further ahead than the single rune
// passed to Feed.
//
// A Parser is not safe for concurrent use, but may be handed between
// goroutines between calls.
type Parser struct {
	line, col int

	buf strings.Builder

	name   string
	prefix string // "" if the current tag has no prefix

	attrName   string
	attrPrefix string // "" if the current attribute has no prefix
	attrs      []pendingAttribute

	delim rune // active quote character while in an attribute value

	ns *nsstack.Stack

	st    state
	level int // scratch counter for CDATA[, OCTYPE, PI '?', and comment '-' runs

	bracketDepth int // '[' ... ']' nesting while skipping a DOCTYPE internal subset
}

// NewParser returns a Parser ready to be fed XML text, starting in the
// initial state: outside any tag, with a namespace stack containing only
// the fixed "xml"/"xmlns" bindings.
func NewParser() *Parser {
	return &Parser{
		line: 1,
		col:  0,
		ns:   nsstack.New(),
		st:   stateOutsideTag,
	}
}

// Feed advances the parser by the characters of fragment and returns the
// Results produced. A Result carries either an Event or an Error, never
// both. Feeding stops at the first Error; per the package's fail-fast
// contract, any remaining characters of fragment are left unprocessed and
// the Parser should be treated as done.
func (p *Parser) Feed(fragment string) []Result {
	var results []Result
	for _, c := range fragment {
		p.advancePosition(c)
		ev, err := p.step(c)
		if err != nil {
			results = append(results, Result{Err: err})
			return results
		}
		if ev != nil {
			results = append(results, Result{Event: ev})
		}
	}
	return results
}

// ParseString is a convenience that feeds the whole string data in one
// call, invoking cb once per Event or Error as Feed produces it.
func (p *Parser) ParseString(data string, cb func(Result)) {
	for _, r := range p.Feed(data) {
		cb(r)
	}
}

// FeedReader reads r one rune at a time, advancing the parser as each
// rune arrives, invoking cb for every Event or Error. Unlike Feed, this
// does not buffer the whole input: memory use is bounded by the parser's
// own scratch buffers, not by the size of r. FeedReader stops and
// returns the first read error from r (io.EOF is not reported), or nil
// once r is exhausted; a well-formedness error is reported through cb
// like any other Result, not through the returned error.
func (p *Parser) FeedReader(r io.Reader, cb func(Result)) error {
	br := bufio.NewReader(r)
	for {
		c, _, err := br.ReadRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		p.advancePosition(c)
		ev, perr := p.step(c)
		if perr != nil {
			cb(Result{Err: perr})
			return nil
		}
		if ev != nil {
			cb(Result{Event: ev})
		}
	}
}

// advancePosition updates line/col to reflect having just read c. A
// newline resets the column to 0 (the newline itself sits at column 0;
// the following character starts the line proper at column 1).
func (p *Parser) advancePosition(c rune) {
	if c == '\n' {
		p.line++
		p.col = 0
	} else {
		p.col++
	}
}

func (p *Parser) errorf(kind ErrorKind, msg string) *Error {
	return &Error{Line: p.line, Column: p.col, Kind: kind, Message: msg}
}

// step advances the state machine by exactly one rune, returning at most
// one Event (never both an Event and an Error).
func (p *Parser) step(c rune) (Event, *Error) {
	switch p.st {
	case stateOutsideTag:
		return p.outsideTag(c)
	case stateTagOpened:
		return p.tagOpened(c)
	case stateInProcessingInstructions:
		return p.inProcessingInstructions(c)
	case stateInTagName:
		return p.inTagName(c)
	case stateInCloseTagName:
		return p.inCloseTagName(c)
	case stateInTag:
		return p.inTag(c)
	case stateInAttrName:
		return p.inAttrName(c)
	case stateInAttrValue:
		return p.inAttrValue(c)
	case stateExpectDelimiter:
		return p.expectDelimiter(c)
	case stateExpectClose:
		return p.expectClose(c)
	case stateExpectSpaceOrClose:
		return p.expectSpaceOrClose(c)
	case stateInExclamationMark:
		return p.inExclamationMark(c)
	case stateInCDATAOpening:
		return p.inCDATAOpening(c)
	case stateInCDATA:
		return p.inCDATA(c)
	case stateInCommentOpening:
		return p.inCommentOpening(c)
	case stateInComment1:
		return p.inComment1(c)
	case stateInComment2:
		return p.inComment2(c)
	case stateInDoctype:
		return p.inDoctype(c)
	default:
		panic("xml: Parser in unreachable state")
	}
}

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// parseQName splits a qualified name into its prefix (empty if absent)
// and local part, on the first ':'.
func parseQName(qname string) (prefix, local string) {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i], qname[i+1:]
	}
	return "", qname
}

func (p *Parser) outsideTag(c rune) (Event, *Error) {
	if c == '<' {
		p.st = stateTagOpened
		if p.buf.Len() == 0 {
			return nil, nil
		}
		text, err := escape.Unescape(p.buf.String())
		if err != nil {
			return nil, p.errorf(ErrInvalidEntity, "found invalid entity")
		}
		p.buf.Reset()
		return Characters{Text: text}, nil
	}
	p.buf.WriteRune(c)
	return nil, nil
}

func (p *Parser) tagOpened(c rune) (Event, *Error) {
	switch c {
	case '?':
		p.st = stateInProcessingInstructions
	case '!':
		p.st = stateInExclamationMark
	case '/':
		p.st = stateInCloseTagName
	default:
		p.buf.WriteRune(c)
		p.st = stateInTagName
		// A new element is being opened: push its namespace frame now.
		// Whether this tag turns out to carry attributes (and thus its
		// own xmlns declarations) or not, the frame is in place before
		// any attribute is parsed and before the tag's own prefix is
		// resolved, matching the grammar's requirement that a tag's own
		// prefix resolve against bindings declared on the tag itself.
		p.ns.Push()
	}
	return nil, nil
}

func (p *Parser) inProcessingInstructions(c rune) (Event, *Error) {
	switch {
	case c == '?':
		p.level = 1
		p.buf.WriteRune(c)
	case c == '>' && p.level == 1:
		p.level = 0
		p.st = stateOutsideTag
		text := p.buf.String()
		text = text[:len(text)-1] // strip the trailing '?' appended above
		p.buf.Reset()
		return PI{Text: text}, nil
	default:
		p.level = 0
		p.buf.WriteRune(c)
	}
	return nil, nil
}

func (p *Parser) inTagName(c rune) (Event, *Error) {
	switch {
	case c == '/' || c == '>':
		p.setNameFromBuf()
		ns, err := p.resolveOwnPrefix()
		if err != nil {
			return nil, err
		}
		prefix := p.prefix
		if c == '/' {
			// name and prefix stay set: expectClose needs them for the EndTag.
			p.st = stateExpectClose
		} else {
			p.prefix = ""
			p.st = stateOutsideTag
		}
		return StartTag{Local: p.name, NS: ns, Prefix: prefix, Attributes: nil}, nil
	case isWhitespace(c):
		p.setNameFromBuf()
		p.st = stateInTag
	default:
		p.buf.WriteRune(c)
	}
	return nil, nil
}

// setNameFromBuf splits the buffered qname into prefix/name and resets
// buf, without resolving the prefix yet.
func (p *Parser) setNameFromBuf() {
	prefix, name := parseQName(p.buf.String())
	p.prefix = prefix
	p.name = name
	p.buf.Reset()
}

// resolveOwnPrefix resolves p.prefix (the current tag or end tag's
// prefix) against the top namespace frame.
func (p *Parser) resolveOwnPrefix() (string, *Error) {
	if p.prefix == "" {
		ns, _ := p.ns.Resolve("")
		return ns, nil
	}
	ns, ok := p.ns.Resolve(p.prefix)
	if !ok {
		return "", p.errorf(ErrUnboundPrefix, "unbound prefix: "+p.prefix)
	}
	return ns, nil
}

func (p *Parser) inCloseTagName(c rune) (Event, *Error) {
	if !(isWhitespace(c) || c == '>') {
		p.buf.WriteRune(c)
		return nil, nil
	}

	p.setNameFromBuf()
	ns, err := p.resolveOwnPrefix()
	if err != nil {
		return nil, err
	}
	prefix := p.prefix
	p.prefix = ""
	p.ns.Pop()

	if c == '>' {
		p.st = stateOutsideTag
	} else {
		p.st = stateExpectSpaceOrClose
	}
	return EndTag{Local: p.name, NS: ns, Prefix: prefix}, nil
}

func (p *Parser) inTag(c rune) (Event, *Error) {
	switch {
	case c == '/' || c == '>':
		name := p.name
		pending := p.attrs
		p.attrs = nil
		prefix := p.prefix

		ns, err := p.resolveOwnPrefixValue(prefix)
		if err != nil {
			return nil, err
		}

		attrs := make([]Attribute, 0, len(pending))
		for _, pa := range pending {
			attrNS := ""
			if pa.prefix != "" {
				resolved, ok := p.ns.Resolve(pa.prefix)
				if !ok {
					return nil, p.errorf(ErrUnboundPrefix, "unbound prefix: "+pa.prefix)
				}
				attrNS = resolved
			}
			attrs = append(attrs, Attribute{Local: pa.local, NS: attrNS, Prefix: pa.prefix, Value: pa.value})
		}

		if c == '/' {
			// name and prefix stay set: expectClose needs them for the EndTag.
			p.st = stateExpectClose
		} else {
			p.name = ""
			p.prefix = ""
			p.st = stateOutsideTag
		}
		return StartTag{Local: name, NS: ns, Prefix: prefix, Attributes: attrs}, nil
	case isWhitespace(c):
		// ignore
	default:
		p.buf.WriteRune(c)
		p.st = stateInAttrName
	}
	return nil, nil
}

func (p *Parser) inAttrName(c rune) (Event, *Error) {
	switch {
	case c == '=':
		p.level = 0
		prefix, name := parseQName(p.buf.String())
		p.attrPrefix = prefix
		p.attrName = name
		p.buf.Reset()
		p.st = stateExpectDelimiter
	case isWhitespace(c):
		p.level = 1
	case p.level == 0:
		p.buf.WriteRune(c)
	default:
		return nil, p.errorf(ErrSpaceInAttributeName, "space occurred in attribute name")
	}
	return nil, nil
}

func (p *Parser) expectDelimiter(c rune) (Event, *Error) {
	switch {
	case c == '\'' || c == '"':
		p.delim = c
		p.st = stateInAttrValue
	case isWhitespace(c):
		// ignore
	default:
		return nil, p.errorf(ErrAttributeValueNotQuoted, "attribute value not enclosed in ' or \"")
	}
	return nil, nil
}

func (p *Parser) inAttrValue(c rune) (Event, *Error) {
	if c != p.delim {
		p.buf.WriteRune(c)
		return nil, nil
	}

	p.st = stateInTag
	name := p.attrName
	p.attrName = ""
	value, err := escape.Unescape(p.buf.String())
	if err != nil {
		return nil, p.errorf(ErrInvalidEntity, "found invalid entity")
	}
	p.buf.Reset()
	prefix := p.attrPrefix
	p.attrPrefix = ""

	switch {
	case prefix == "" && name == "xmlns":
		p.ns.Bind("", value)
	case prefix == "xmlns":
		p.ns.Bind(name, value)
	default:
		p.attrs = append(p.attrs, pendingAttribute{local: name, prefix: prefix, value: value})
	}
	return nil, nil
}

func (p *Parser) expectClose(c rune) (Event, *Error) {
	if c != '>' {
		return nil, p.errorf(ErrExpectedGtToCloseTag, "expected '>' to close tag")
	}
	p.st = stateOutsideTag
	name := p.name
	p.name = ""
	prefix := p.prefix
	p.prefix = ""
	ns, err := p.resolveOwnPrefixValue(prefix)
	if err != nil {
		return nil, err
	}
	p.ns.Pop()
	return EndTag{Local: name, NS: ns, Prefix: prefix}, nil
}

// resolveOwnPrefixValue is resolveOwnPrefix but for a prefix already
// extracted out of p.prefix (used once p.prefix has already been reset).
func (p *Parser) resolveOwnPrefixValue(prefix string) (string, *Error) {
	if prefix == "" {
		ns, _ := p.ns.Resolve("")
		return ns, nil
	}
	ns, ok := p.ns.Resolve(prefix)
	if !ok {
		return "", p.errorf(ErrUnboundPrefix, "unbound prefix: "+prefix)
	}
	return ns, nil
}

func (p *Parser) expectSpaceOrClose(c rune) (Event, *Error) {
	switch {
	case isWhitespace(c):
		return nil, nil
	case c == '>':
		p.st = stateOutsideTag
		return nil, nil
	default:
		return nil, p.errorf(ErrExpectedGtOrWhitespaceInCloseTag, "expected '>' to close tag, or whitespace")
	}
}

func (p *Parser) inExclamationMark(c rune) (Event, *Error) {
	switch c {
	case '-':
		p.st = stateInCommentOpening
	case '[':
		p.st = stateInCDATAOpening
	case 'D':
		p.st = stateInDoctype
	default:
		return nil, p.errorf(ErrMalformedDeclaration, "malformed XML")
	}
	return nil, nil
}

var cdataPattern = [6]rune{'C', 'D', 'A', 'T', 'A', '['}

func (p *Parser) inCDATAOpening(c rune) (Event, *Error) {
	if c != cdataPattern[p.level] {
		return nil, p.errorf(ErrInvalidCDATAOpening, "invalid CDATA opening sequence")
	}
	p.level++
	if p.level == 6 {
		p.level = 0
		p.st = stateInCDATA
	}
	return nil, nil
}

func (p *Parser) inCDATA(c rune) (Event, *Error) {
	switch {
	case c == ']':
		p.buf.WriteRune(c)
		p.level++
	case c == '>' && p.level >= 2:
		p.st = stateOutsideTag
		p.level = 0
		text := p.buf.String()
		text = text[:len(text)-2] // strip trailing "]]"
		p.buf.Reset()
		return CDATA{Text: text}, nil
	default:
		p.buf.WriteRune(c)
		p.level = 0
	}
	return nil, nil
}

func (p *Parser) inCommentOpening(c rune) (Event, *Error) {
	if c != '-' {
		return nil, p.errorf(ErrExpectedSecondDashInComment, "expected second '-' to start comment")
	}
	p.st = stateInComment1
	p.level = 0
	return nil, nil
}

func (p *Parser) inComment1(c rune) (Event, *Error) {
	if c == '-' {
		p.level++
	} else {
		p.level = 0
	}
	if p.level == 2 {
		p.level = 0
		p.st = stateInComment2
	}
	p.buf.WriteRune(c)
	return nil, nil
}

func (p *Parser) inComment2(c rune) (Event, *Error) {
	if c != '>' {
		return nil, p.errorf(ErrDoubleDashInComment, "not more than one adjacent '-' allowed in a comment")
	}
	p.st = stateOutsideTag
	text := p.buf.String()
	text = text[:len(text)-2] // strip trailing "--"
	p.buf.Reset()
	return Comment{Text: text}, nil
}

var doctypePattern = [6]rune{'O', 'C', 'T', 'Y', 'P', 'E'}

func (p *Parser) inDoctype(c rune) (Event, *Error) {
	switch {
	case p.level < 6:
		if c != doctypePattern[p.level] {
			return nil, p.errorf(ErrInvalidDoctype, "invalid DOCTYPE")
		}
		p.level++
	case p.level == 6:
		if !isWhitespace(c) {
			return nil, p.errorf(ErrInvalidDoctype, "invalid DOCTYPE")
		}
		p.level++
		p.bracketDepth = 0
	case c == '[':
		p.bracketDepth++
	case c == ']' && p.bracketDepth > 0:
		p.bracketDepth--
	case c == '>' && p.bracketDepth == 0:
		p.level = 0
		p.st = stateOutsideTag
	default:
		// inside the DOCTYPE body (or its internal subset): discard
	}
	return nil, nil
}
