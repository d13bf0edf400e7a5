package htmlparse

import (
	"log"

	"github.com/emberweb/ember/dom"
)

type insertionMode int

const (
	modeInitial insertionMode = iota
	modeBeforeHTML
	modeBeforeHead
	modeInHead
	modeText
	modeAfterHead
	modeInBody
	modeAfterBody
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

type openElement struct {
	id dom.NodeID
	ns dom.Namespace
	tag string
}

type builder struct {
	doc  *dom.Document
	mode insertionMode
	orig insertionMode
	open []openElement
}

// Parse tokenizes src as HTML and builds a DOM tree via a simplified
// WHATWG-style insertion-mode machine: initial, before-html,
// before-head, in-head, after-head, in-body, after-body, and a shared
// raw-text mode for script/style/title/textarea. It never fails — malformed
// input is repaired by skipping or absorbing unexpected tokens so that any
// byte sequence yields a tree.
func Parse(src []byte) *dom.Document {
	doc := dom.NewDocument(dom.NoQuirks)
	b := &builder{doc: doc, mode: modeInitial}
	tok := NewTokenizer(src)
	for {
		t := tok.Next()
		b.step(t)
		if t.Kind == TokenEOF {
			return doc
		}
	}
}

func (b *builder) current() (dom.NodeID, bool) {
	if len(b.open) == 0 {
		return dom.NodeID{}, false
	}
	return b.open[len(b.open)-1].id, true
}

func (b *builder) currentTag() string {
	if len(b.open) == 0 {
		return ""
	}
	return b.open[len(b.open)-1].tag
}

func (b *builder) push(id dom.NodeID, ns dom.Namespace, tag string) {
	b.open = append(b.open, openElement{id: id, ns: ns, tag: tag})
}

func (b *builder) pop() {
	if len(b.open) > 0 {
		b.open = b.open[:len(b.open)-1]
	}
}

func (b *builder) insertionParent() dom.NodeID {
	if cur, ok := b.current(); ok {
		return cur
	}
	return b.doc.Root
}

func (b *builder) insertElement(ns dom.Namespace, name string, attrs []TokenAttr) dom.NodeID {
	domAttrs := make([]dom.Attr, len(attrs))
	for i, a := range attrs {
		domAttrs[i] = dom.Attr{Name: a.Name, Value: a.Value}
	}
	id := b.doc.CreateElement(ns, name, domAttrs)
	b.doc.AppendChild(b.insertionParent(), id)
	return id
}

func (b *builder) insertText(r rune) {
	parent := b.insertionParent()
	children := b.doc.Children(parent)
	if len(children) > 0 {
		if last, ok := b.doc.Get(children[len(children)-1]); ok && last.Kind == dom.KindText {
			last.Data += string(r)
			return
		}
	}
	textID := b.doc.CreateText(string(r))
	b.doc.AppendChild(parent, textID)
}

func (b *builder) insertComment(data string) {
	c := b.doc.CreateComment(data)
	b.doc.AppendChild(b.insertionParent(), c)
}

func parseErr(format string, args ...any) {
	if Debug {
		log.Printf("htmlparse: parse error: "+format, args...)
	}
}

func (b *builder) step(t Token) {
	switch b.mode {
	case modeInitial:
		b.stepInitial(t)
	case modeBeforeHTML:
		b.stepBeforeHTML(t)
	case modeBeforeHead:
		b.stepBeforeHead(t)
	case modeInHead:
		b.stepInHead(t)
	case modeText:
		b.stepText(t)
	case modeAfterHead:
		b.stepAfterHead(t)
	case modeInBody:
		b.stepInBody(t)
	case modeAfterBody:
		b.stepAfterBody(t)
	}
}

func (b *builder) stepInitial(t Token) {
	switch t.Kind {
	case TokenCharacter:
		if isWhitespace(byte(t.Char)) {
			return
		}
	case TokenComment:
		b.doc.AppendChild(b.doc.Root, b.doc.CreateComment(t.CommentData))
		return
	case TokenDoctype:
		b.doc.AppendChild(b.doc.Root, b.doc.CreateDoctype(t.DoctypeName, t.DoctypePublicID, t.DoctypeSystemID))
		b.mode = modeBeforeHTML
		return
	}
	b.mode = modeBeforeHTML
	b.step(t)
}

func (b *builder) stepBeforeHTML(t Token) {
	switch t.Kind {
	case TokenCharacter:
		if isWhitespace(byte(t.Char)) {
			return
		}
	case TokenComment:
		b.doc.AppendChild(b.doc.Root, b.doc.CreateComment(t.CommentData))
		return
	case TokenStartTag:
		if t.Name == "html" {
			id := b.insertElementRoot("html", t.Attrs)
			b.push(id, dom.HTML, "html")
			b.mode = modeBeforeHead
			return
		}
	case TokenEndTag:
		if t.Name != "head" && t.Name != "body" && t.Name != "html" && t.Name != "br" {
			parseErr("unexpected end tag %q before <html>", t.Name)
			return
		}
	}
	id := b.insertElementRoot("html", nil)
	b.push(id, dom.HTML, "html")
	b.mode = modeBeforeHead
	b.step(t)
}

func (b *builder) insertElementRoot(name string, attrs []TokenAttr) dom.NodeID {
	domAttrs := make([]dom.Attr, len(attrs))
	for i, a := range attrs {
		domAttrs[i] = dom.Attr{Name: a.Name, Value: a.Value}
	}
	id := b.doc.CreateElement(dom.HTML, name, domAttrs)
	b.doc.AppendChild(b.doc.Root, id)
	return id
}

func (b *builder) stepBeforeHead(t Token) {
	switch t.Kind {
	case TokenCharacter:
		if isWhitespace(byte(t.Char)) {
			return
		}
	case TokenComment:
		b.insertComment(t.CommentData)
		return
	case TokenStartTag:
		if t.Name == "head" {
			id := b.insertElement(dom.HTML, "head", t.Attrs)
			b.push(id, dom.HTML, "head")
			b.mode = modeInHead
			return
		}
		if t.Name == "html" {
			return
		}
	case TokenEndTag:
		if t.Name != "head" && t.Name != "body" && t.Name != "html" && t.Name != "br" {
			return
		}
	}
	id := b.insertElement(dom.HTML, "head", nil)
	b.push(id, dom.HTML, "head")
	b.mode = modeInHead
	b.step(t)
}

func (b *builder) startRawText(name string, attrs []TokenAttr, next insertionMode) {
	id := b.insertElement(dom.HTML, name, attrs)
	b.push(id, dom.HTML, name)
	b.orig = next
	b.mode = modeText
}

func (b *builder) stepInHead(t Token) {
	switch t.Kind {
	case TokenCharacter:
		if isWhitespace(byte(t.Char)) {
			b.insertText(t.Char)
			return
		}
	case TokenComment:
		b.insertComment(t.CommentData)
		return
	case TokenStartTag:
		switch t.Name {
		case "base", "basefont", "bgsound", "link", "meta":
			b.insertElement(dom.HTML, t.Name, t.Attrs)
			return
		case "title", "textarea":
			b.startRawText(t.Name, t.Attrs, modeInHead)
			return
		case "style", "script":
			b.startRawText(t.Name, t.Attrs, modeInHead)
			return
		case "head":
			return
		}
	case TokenEndTag:
		if t.Name == "head" {
			b.pop()
			b.mode = modeAfterHead
			return
		}
		if t.Name != "body" && t.Name != "html" && t.Name != "br" {
			return
		}
	}
	if b.currentTag() == "head" {
		b.pop()
	}
	b.mode = modeAfterHead
	b.step(t)
}

func (b *builder) stepText(t Token) {
	tag := b.currentTag()
	switch t.Kind {
	case TokenCharacter:
		b.insertText(t.Char)
		return
	case TokenEndTag:
		if t.Name == tag {
			b.pop()
			b.mode = b.orig
			return
		}
		// Mismatched close: repair by popping anyway and resuming.
		b.pop()
		b.mode = b.orig
		return
	case TokenEOF:
		b.pop()
		b.mode = b.orig
		b.step(t)
		return
	}
}

func (b *builder) stepAfterHead(t Token) {
	switch t.Kind {
	case TokenCharacter:
		if isWhitespace(byte(t.Char)) {
			b.insertText(t.Char)
			return
		}
	case TokenComment:
		b.insertComment(t.CommentData)
		return
	case TokenStartTag:
		if t.Name == "body" {
			id := b.insertElement(dom.HTML, "body", t.Attrs)
			b.push(id, dom.HTML, "body")
			b.mode = modeInBody
			return
		}
		if t.Name == "head" {
			return
		}
	case TokenEndTag:
		if t.Name != "body" && t.Name != "html" && t.Name != "br" {
			return
		}
	}
	id := b.insertElement(dom.HTML, "body", nil)
	b.push(id, dom.HTML, "body")
	b.mode = modeInBody
	b.step(t)
}

func (b *builder) stepInBody(t Token) {
	switch t.Kind {
	case TokenCharacter:
		b.insertText(t.Char)
		return
	case TokenComment:
		b.insertComment(t.CommentData)
		return
	case TokenStartTag:
		switch t.Name {
		case "style", "script", "title", "textarea":
			b.startRawText(t.Name, t.Attrs, modeInBody)
			return
		case "html":
			return
		}
		ns := dom.HTML
		switch t.Name {
		case "svg":
			ns = dom.SVG
		case "math":
			ns = dom.MathML
		}
		id := b.insertElement(ns, t.Name, t.Attrs)
		if !voidElements[t.Name] && !t.SelfClosing {
			b.push(id, ns, t.Name)
		}
		return
	case TokenEndTag:
		if t.Name == "body" || t.Name == "html" {
			b.mode = modeAfterBody
			return
		}
		// Find the nearest open element with this tag name and pop down to
		// it. No adoption agency algorithm: misnested inline/block
		// elements simply get popped together.
		for i := len(b.open) - 1; i >= 0; i-- {
			if b.open[i].tag == t.Name {
				b.open = b.open[:i]
				return
			}
		}
		parseErr("unmatched end tag %q", t.Name)
		return
	case TokenEOF:
		return
	}
}

func (b *builder) stepAfterBody(t Token) {
	switch t.Kind {
	case TokenCharacter:
		if isWhitespace(byte(t.Char)) {
			b.insertText(t.Char)
			return
		}
	case TokenComment:
		b.insertComment(t.CommentData)
		return
	case TokenEndTag:
		if t.Name == "html" {
			return
		}
	case TokenEOF:
		return
	}
	b.mode = modeInBody
	b.step(t)
}
