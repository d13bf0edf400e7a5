// Package htmlparse implements a byte-stream HTML tokenizer and a
// simplified WHATWG-style tree construction pass feeding a [dom.Document].
// Malformed input is repaired rather than rejected: the tokenizer and tree
// builder absorb parse errors silently so that any byte sequence yields a
// DOM.
package htmlparse

import "strings"

// Debug gates verbose parse-error logging, off by default.
var Debug = false

// TokenKind tags the variant a [Token] holds.
type TokenKind int

const (
	TokenDoctype TokenKind = iota
	TokenStartTag
	TokenEndTag
	TokenComment
	TokenCharacter
	TokenEOF
)

// TokenAttr is a single tag attribute as produced by the tokenizer, before
// being attached to a dom.Node.
type TokenAttr struct {
	Name  string
	Value string
}

// Token is one tokenizer output. Only the fields relevant to Kind are
// meaningful.
type Token struct {
	Kind TokenKind

	// StartTag / EndTag
	Name        string
	Attrs       []TokenAttr
	SelfClosing bool

	// Comment
	CommentData string

	// Doctype
	DoctypeName     string
	DoctypePublicID string
	DoctypeSystemID string
	HasPublicID     bool
	HasSystemID     bool
	ForceQuirks     bool

	// Character
	Char rune
}

// rawTextElements are elements whose content is emitted as Character tokens
// verbatim (no entity resolution) until the matching end tag.
var rawTextElements = map[string]bool{
	"script": true,
	"style":  true,
	"title":  true,
	"textarea": true,
}

type tokenizerState int

const (
	stateData tokenizerState = iota
	stateTagOpen
	stateEndTagOpen
	stateTagName
	stateBeforeAttrName
	stateAttrName
	stateAfterAttrName
	stateBeforeAttrValue
	stateAttrValueDouble
	stateAttrValueSingle
	stateAttrValueUnquoted
	stateAfterAttrValueQuoted
	stateSelfClosingStartTag
	stateMarkupDeclOpen
	stateCommentStart
	stateComment
	stateCommentEnd
	stateDoctype
	stateBeforeDoctypeName
	stateDoctypeName
	stateRawText
	stateRawTextLessThanSign
	stateRawTextEndTagOpen
	stateRawTextEndTagName
	stateBogusComment
)

// Tokenizer turns a byte stream into a sequence of [Token]s.
type Tokenizer struct {
	src   []byte
	pos   int
	state tokenizerState

	// rawTextTag is the lowercased tag name whose matching end tag exits
	// raw-text mode.
	rawTextTag string

	pending []Token

	curTag        Token
	curDoctype    Token
	tagNameStart  int
	attrNameStart int
	valueStart    int
	curAttrName   string
	commentBuf    []byte
}

// NewTokenizer returns a tokenizer over src, starting in the data state.
func NewTokenizer(src []byte) *Tokenizer {
	return &Tokenizer{src: src, state: stateData}
}

func (t *Tokenizer) eof() bool { return t.pos >= len(t.src) }

func (t *Tokenizer) peek() byte {
	if t.eof() {
		return 0
	}
	return t.src[t.pos]
}

func (t *Tokenizer) peekAt(offset int) byte {
	if t.pos+offset >= len(t.src) {
		return 0
	}
	return t.src[t.pos+offset]
}

func (t *Tokenizer) advance() byte {
	b := t.src[t.pos]
	t.pos++
	return b
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func lower(s string) string { return strings.ToLower(s) }

// Next returns the next token. It always terminates with a single TokenEOF,
// which may be returned repeatedly on subsequent calls.
func (t *Tokenizer) Next() Token {
	if len(t.pending) > 0 {
		tok := t.pending[0]
		t.pending = t.pending[1:]
		return tok
	}
	return t.run()
}

func (t *Tokenizer) run() Token {
	for {
		switch t.state {
		case stateData:
			if t.eof() {
				return Token{Kind: TokenEOF}
			}
			if t.peek() == '<' {
				t.advance()
				t.state = stateTagOpen
				continue
			}
			if t.peek() == '&' {
				return t.consumeCharRef(stateData)
			}
			return Token{Kind: TokenCharacter, Char: rune(t.advance())}

		case stateRawText:
			if t.eof() {
				return Token{Kind: TokenEOF}
			}
			if t.peek() == '<' {
				t.advance()
				t.state = stateRawTextLessThanSign
				continue
			}
			return Token{Kind: TokenCharacter, Char: rune(t.advance())}

		case stateRawTextLessThanSign:
			if t.peek() == '/' {
				t.advance()
				t.state = stateRawTextEndTagOpen
				continue
			}
			t.state = stateRawText
			return Token{Kind: TokenCharacter, Char: '<'}

		case stateRawTextEndTagOpen:
			if isAsciiAlpha(t.peek()) {
				t.state = stateRawTextEndTagName
				t.tagNameStart = t.pos
				continue
			}
			t.state = stateRawText
			t.pending = append(t.pending, Token{Kind: TokenCharacter, Char: '/'})
			return Token{Kind: TokenCharacter, Char: '<'}

		case stateRawTextEndTagName:
			for isAsciiAlnum(t.peek()) {
				t.advance()
			}
			name := lower(string(t.src[t.tagNameStart:t.pos]))
			if name == t.rawTextTag && (t.peek() == '>' || isWhitespace(t.peek()) || t.peek() == '/' || t.eof()) {
				if t.peek() == '>' {
					t.advance()
				}
				t.state = stateData
				return Token{Kind: TokenEndTag, Name: name}
			}
			// Not a real close: re-emit as raw text.
			t.pos = t.tagNameStart
			t.state = stateRawText
			t.pending = append(t.pending, Token{Kind: TokenCharacter, Char: '/'})
			return Token{Kind: TokenCharacter, Char: '<'}

		case stateTagOpen:
			switch {
			case t.peek() == '!':
				t.advance()
				t.state = stateMarkupDeclOpen
				continue
			case t.peek() == '/':
				t.advance()
				t.state = stateEndTagOpen
				continue
			case isAsciiAlpha(t.peek()):
				t.curTag = Token{Kind: TokenStartTag}
				t.tagNameStart = t.pos
				t.state = stateTagName
				continue
			default:
				// Parse error: bogus '<', emit literally and reprocess in data.
				t.state = stateData
				return Token{Kind: TokenCharacter, Char: '<'}
			}

		case stateEndTagOpen:
			if isAsciiAlpha(t.peek()) {
				t.curTag = Token{Kind: TokenEndTag}
				t.tagNameStart = t.pos
				t.state = stateTagName
				continue
			}
			if t.peek() == '>' || t.eof() {
				if !t.eof() {
					t.advance()
				}
				t.state = stateData
				continue
			}
			t.state = stateBogusComment
			t.commentBuf = nil
			continue

		case stateTagName:
			for isAsciiAlnum(t.peek()) || t.peek() == '-' || t.peek() == ':' {
				t.advance()
			}
			t.curTag.Name = lower(string(t.src[t.tagNameStart:t.pos]))
			switch {
			case isWhitespace(t.peek()):
				t.advance()
				t.state = stateBeforeAttrName
			case t.peek() == '/':
				t.advance()
				t.state = stateSelfClosingStartTag
			case t.peek() == '>' || t.eof():
				if !t.eof() {
					t.advance()
				}
				return t.finishTag()
			default:
				t.advance()
			}
			continue

		case stateBeforeAttrName:
			for isWhitespace(t.peek()) {
				t.advance()
			}
			if t.peek() == '/' || t.peek() == '>' || t.eof() {
				t.state = stateAfterAttrName
				continue
			}
			t.attrNameStart = t.pos
			t.state = stateAttrName
			continue

		case stateAttrName:
			for !t.eof() && !isWhitespace(t.peek()) && t.peek() != '/' && t.peek() != '>' && t.peek() != '=' {
				t.advance()
			}
			t.curAttrName = lower(string(t.src[t.attrNameStart:t.pos]))
			if t.peek() == '=' {
				t.advance()
				t.state = stateBeforeAttrValue
				continue
			}
			t.state = stateAfterAttrName
			continue

		case stateAfterAttrName:
			for isWhitespace(t.peek()) {
				t.advance()
			}
			switch {
			case t.peek() == '/':
				t.flushAttr("")
				t.advance()
				t.state = stateSelfClosingStartTag
			case t.peek() == '=':
				t.advance()
				t.state = stateBeforeAttrValue
			case t.peek() == '>' || t.eof():
				t.flushAttr("")
				if !t.eof() {
					t.advance()
				}
				return t.finishTag()
			default:
				t.flushAttr("")
				t.attrNameStart = t.pos
				t.state = stateAttrName
			}
			continue

		case stateBeforeAttrValue:
			for isWhitespace(t.peek()) {
				t.advance()
			}
			switch t.peek() {
			case '"':
				t.advance()
				t.valueStart = t.pos
				t.state = stateAttrValueDouble
			case '\'':
				t.advance()
				t.valueStart = t.pos
				t.state = stateAttrValueSingle
			default:
				t.valueStart = t.pos
				t.state = stateAttrValueUnquoted
			}
			continue

		case stateAttrValueDouble:
			for !t.eof() && t.peek() != '"' {
				t.advance()
			}
			val := string(t.src[t.valueStart:t.pos])
			if !t.eof() {
				t.advance()
			}
			t.flushAttr(val)
			t.state = stateAfterAttrValueQuoted
			continue

		case stateAttrValueSingle:
			for !t.eof() && t.peek() != '\'' {
				t.advance()
			}
			val := string(t.src[t.valueStart:t.pos])
			if !t.eof() {
				t.advance()
			}
			t.flushAttr(val)
			t.state = stateAfterAttrValueQuoted
			continue

		case stateAttrValueUnquoted:
			for !t.eof() && !isWhitespace(t.peek()) && t.peek() != '>' {
				t.advance()
			}
			val := string(t.src[t.valueStart:t.pos])
			t.flushAttr(val)
			if t.peek() == '>' || t.eof() {
				if !t.eof() {
					t.advance()
				}
				return t.finishTag()
			}
			t.advance()
			t.state = stateBeforeAttrName
			continue

		case stateAfterAttrValueQuoted:
			switch {
			case isWhitespace(t.peek()):
				t.advance()
				t.state = stateBeforeAttrName
			case t.peek() == '/':
				t.advance()
				t.state = stateSelfClosingStartTag
			case t.peek() == '>' || t.eof():
				if !t.eof() {
					t.advance()
				}
				return t.finishTag()
			default:
				t.state = stateBeforeAttrName
			}
			continue

		case stateSelfClosingStartTag:
			t.curTag.SelfClosing = true
			if t.peek() == '>' || t.eof() {
				if !t.eof() {
					t.advance()
				}
				return t.finishTag()
			}
			t.state = stateBeforeAttrName
			continue

		case stateMarkupDeclOpen:
			if hasPrefixCI(t.src[t.pos:], "--") {
				t.pos += 2
				t.state = stateCommentStart
				t.commentBuf = nil
				continue
			}
			if hasPrefixCI(t.src[t.pos:], "doctype") {
				t.pos += 7
				t.state = stateDoctype
				continue
			}
			if hasPrefixCI(t.src[t.pos:], "[cdata[") {
				t.pos += 7
				end := indexOf(t.src[t.pos:], "]]>")
				var data string
				if end < 0 {
					data = string(t.src[t.pos:])
					t.pos = len(t.src)
				} else {
					data = string(t.src[t.pos : t.pos+end])
					t.pos += end + 3
				}
				t.state = stateData
				t.pending = append(t.pending, charTokens(data)...)
				continue
			}
			t.state = stateBogusComment
			t.commentBuf = nil
			continue

		case stateBogusComment:
			for !t.eof() && t.peek() != '>' {
				t.commentBuf = append(t.commentBuf, t.advance())
			}
			if !t.eof() {
				t.advance()
			}
			t.state = stateData
			return Token{Kind: TokenComment, CommentData: string(t.commentBuf)}

		case stateCommentStart:
			t.state = stateComment
			continue

		case stateComment:
			for !t.eof() && !hasPrefixCI(t.src[t.pos:], "-->") {
				t.commentBuf = append(t.commentBuf, t.advance())
			}
			data := string(t.commentBuf)
			if hasPrefixCI(t.src[t.pos:], "-->") {
				t.pos += 3
			} else {
				t.pos = len(t.src)
			}
			t.state = stateData
			return Token{Kind: TokenComment, CommentData: data}

		case stateDoctype:
			for isWhitespace(t.peek()) {
				t.advance()
			}
			t.curDoctype = Token{Kind: TokenDoctype}
			t.state = stateBeforeDoctypeName
			continue

		case stateBeforeDoctypeName:
			if t.peek() == '>' || t.eof() {
				t.curDoctype.ForceQuirks = true
				if !t.eof() {
					t.advance()
				}
				t.state = stateData
				return t.curDoctype
			}
			t.tagNameStart = t.pos
			t.state = stateDoctypeName
			continue

		case stateDoctypeName:
			for !t.eof() && !isWhitespace(t.peek()) && t.peek() != '>' {
				t.advance()
			}
			t.curDoctype.DoctypeName = lower(string(t.src[t.tagNameStart:t.pos]))
			// Skip any trailing public/system identifiers; this simplified
			// tokenizer doesn't resolve them (rarely consulted by layout).
			for !t.eof() && t.peek() != '>' {
				t.advance()
			}
			if !t.eof() {
				t.advance()
			}
			t.state = stateData
			return t.curDoctype
		}
	}
}

func (t *Tokenizer) flushAttr(value string) {
	if t.curAttrName == "" {
		return
	}
	for _, a := range t.curTag.Attrs {
		if a.Name == t.curAttrName {
			// Duplicate attribute: first occurrence wins, per WHATWG.
			t.curAttrName = ""
			return
		}
	}
	t.curTag.Attrs = append(t.curTag.Attrs, TokenAttr{Name: t.curAttrName, Value: value})
	t.curAttrName = ""
}

func (t *Tokenizer) finishTag() Token {
	tok := t.curTag
	t.curTag = Token{}
	if tok.Kind == TokenStartTag && rawTextElements[tok.Name] {
		t.state = stateRawText
		t.rawTextTag = tok.Name
	} else {
		t.state = stateData
	}
	return tok
}

func isAsciiAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isAsciiAlnum(b byte) bool { return isAsciiAlpha(b) || (b >= '0' && b <= '9') }

func hasPrefixCI(b []byte, s string) bool {
	if len(b) < len(s) {
		return false
	}
	return strings.EqualFold(string(b[:len(s)]), s)
}

func indexOf(b []byte, s string) int { return strings.Index(string(b), s) }

func charTokens(s string) []Token {
	out := make([]Token, 0, len(s))
	for _, r := range s {
		out = append(out, Token{Kind: TokenCharacter, Char: r})
	}
	return out
}
