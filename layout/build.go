package layout

import (
	"strings"

	"github.com/emberweb/ember/css"
	"github.com/emberweb/ember/dom"
)

// Viewport is the layout root's available size and the reference metrics
// for rem/vw/vh length resolution.
type Viewport struct {
	Width, Height float64
	RootFontSize  float64
}

// StyleResolver resolves the cascade and computed style for one node,
// given its already-resolved parent style. Callers typically close over a
// []css.SheetSource and the element's inline style="" declarations.
type StyleResolver func(doc *dom.Document, id dom.NodeID, parent *css.ComputedStyle) css.ComputedStyle

// NewResolver builds a StyleResolver from a fixed stylesheet cascade, with
// inline style="" attributes read per element.
func NewResolver(sheets []css.SheetSource, vp Viewport) StyleResolver {
	return func(doc *dom.Document, id dom.NodeID, parent *css.ComputedStyle) css.ComputedStyle {
		n, ok := doc.Get(id)
		if !ok || n.Kind != dom.KindElement {
			return css.Default()
		}
		var inline []css.Declaration
		for _, a := range n.Element.Attrs {
			if a.Name == "style" {
				inline = cssInlineDeclarations(a.Value)
			}
		}
		specified := css.Cascade(doc, id, sheets, inline)
		return css.Resolve(specified, parent, vp.RootFontSize, vp.Width, vp.Height)
	}
}

// cssInlineDeclarations parses an element's style="" attribute the same
// way a stylesheet rule body is parsed, since the grammar is identical.
func cssInlineDeclarations(v string) []css.Declaration {
	sheet := css.ParseStylesheet("x{" + v + "}")
	if len(sheet.Rules) == 0 {
		return nil
	}
	return sheet.Rules[0].Declarations
}

// Build walks doc from root in tree order and produces a box tree:
// display:none subtrees are skipped, text nodes become
// TextRun boxes with whitespace-only runs collapsed away, and runs of
// inline-level children inside a block container are wrapped in an
// anonymous block. The document node contributes no box — its first
// element child becomes the root box.
func Build(doc *dom.Document, root dom.NodeID, resolve StyleResolver) *Box {
	n, ok := doc.Get(root)
	if !ok {
		return nil
	}
	if n.Kind == dom.KindDocument {
		for _, c := range doc.Children(root) {
			if cn, ok := doc.Get(c); ok && cn.Kind == dom.KindElement {
				return Build(doc, c, resolve)
			}
		}
		return nil
	}
	style := resolve(doc, root, nil)
	b, _ := buildSubtree(doc, root, &style, resolve)
	return b
}

// buildSubtree builds the box for id given its already-resolved style,
// returning (box, isInlineLevel). nil box means the node produced nothing
// (display:none, or a whitespace-only text node).
func buildSubtree(doc *dom.Document, id dom.NodeID, style *css.ComputedStyle, resolve StyleResolver) (*Box, bool) {
	n, ok := doc.Get(id)
	if !ok {
		return nil, false
	}

	if n.Kind == dom.KindText {
		text := collapseWhitespace(n.Data)
		if text == "" {
			return nil, false
		}
		return &Box{Kind: BoxTextRun, Node: id, Style: style, Text: text}, true
	}
	if n.Kind != dom.KindElement {
		return nil, false
	}
	if style.Display == css.DisplayNone {
		return nil, false
	}

	kind := BoxBlock
	inline := false
	switch style.Display {
	case css.DisplayInline:
		inline = true
		kind = BoxBlock // inline elements still build a box; inline-ness is tracked by the return flag
	case css.DisplayInlineBlock:
		inline = true
		kind = BoxInlineBlock
	case css.DisplayFlex:
		kind = BoxFlex
	default:
		kind = BoxBlock
	}

	box := &Box{Kind: kind, Node: id, Style: style, Inline: inline}

	var rawChildren []*Box
	var childInline []bool
	for _, c := range doc.Children(id) {
		cn, _ := doc.Get(c)
		var cStyle css.ComputedStyle
		if cn != nil && (cn.Kind == dom.KindElement) {
			cStyle = resolve(doc, c, style)
		} else {
			cStyle = *style
		}
		cb, cInline := buildSubtree(doc, c, &cStyle, resolve)
		if cb == nil {
			continue
		}
		rawChildren = append(rawChildren, cb)
		childInline = append(childInline, cInline)
	}

	hasBlock, hasInline := false, false
	for _, f := range childInline {
		if f {
			hasInline = true
		} else {
			hasBlock = true
		}
	}
	if hasBlock {
		box.ChildLayout = ChildLayoutBlock
	} else if hasInline {
		box.ChildLayout = ChildLayoutInline
	}
	box.Children = wrapAnonymousBlocks(rawChildren, childInline)
	return box, inline
}

// wrapAnonymousBlocks groups consecutive inline-level children of a block
// container into anonymous block boxes. A container with only inline
// children (or only block children) is returned unchanged.
func wrapAnonymousBlocks(children []*Box, inlineFlags []bool) []*Box {
	hasBlock, hasInline := false, false
	for _, f := range inlineFlags {
		if f {
			hasInline = true
		} else {
			hasBlock = true
		}
	}
	if !hasBlock || !hasInline {
		return children
	}

	var out []*Box
	var run []*Box
	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, &Box{Kind: BoxAnonymousBlock, Children: run})
		run = nil
	}
	for i, c := range children {
		if inlineFlags[i] {
			run = append(run, c)
		} else {
			flush()
			out = append(out, c)
		}
	}
	flush()
	for _, b := range out {
		if b.Kind == BoxAnonymousBlock {
			b.ChildLayout = ChildLayoutInline
		}
	}
	return out
}

// collapseWhitespace collapses runs of ASCII whitespace to a single space
// and reports "" for a whitespace-only run, matching the common case of
// `white-space: normal` text collapsing used during box generation.
func collapseWhitespace(s string) string {
	var b strings.Builder
	lastWasSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastWasSpace {
				b.WriteByte(' ')
			}
			lastWasSpace = true
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}
	return strings.TrimSpace(b.String())
}
