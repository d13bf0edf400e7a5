package layout

import (
	"testing"

	"github.com/emberweb/ember/css"
	"github.com/emberweb/ember/dom"
)

// fixedResolver styles elements by tag name, defaulting everything else.
func fixedResolver(styles map[string]func(*css.ComputedStyle)) StyleResolver {
	return func(doc *dom.Document, id dom.NodeID, parent *css.ComputedStyle) css.ComputedStyle {
		s := css.Default()
		if parent != nil {
			s.Color = parent.Color
			s.FontSize = parent.FontSize
		}
		if n, ok := doc.Get(id); ok && n.Kind == dom.KindElement {
			if fn, ok := styles[n.Element.Tag]; ok {
				fn(&s)
			}
		}
		return s
	}
}

func TestBuildSkipsDocumentNode(t *testing.T) {
	d := dom.NewDocument(dom.NoQuirks)
	html := d.CreateElement(dom.HTML, "html", nil)
	d.AppendChild(d.Root, html)

	b := Build(d, d.Root, fixedResolver(nil))
	if b == nil {
		t.Fatal("no box built")
	}
	if b.Node != html {
		t.Fatal("root box should be the html element, not the document node")
	}
}

func TestBuildPrunesDisplayNone(t *testing.T) {
	d := dom.NewDocument(dom.NoQuirks)
	root := d.CreateElement(dom.HTML, "div", nil)
	hidden := d.CreateElement(dom.HTML, "aside", nil)
	shown := d.CreateElement(dom.HTML, "p", nil)
	d.AppendChild(d.Root, root)
	d.AppendChild(root, hidden)
	d.AppendChild(root, shown)

	b := Build(d, d.Root, fixedResolver(map[string]func(*css.ComputedStyle){
		"aside": func(s *css.ComputedStyle) { s.Display = css.DisplayNone },
	}))
	if len(b.Children) != 1 {
		t.Fatalf("children = %d, want 1 (display:none pruned)", len(b.Children))
	}
	if b.Children[0].Node != shown {
		t.Fatal("surviving child should be the p element")
	}
}

func TestBuildCollapsesWhitespaceOnlyText(t *testing.T) {
	d := dom.NewDocument(dom.NoQuirks)
	root := d.CreateElement(dom.HTML, "div", nil)
	d.AppendChild(d.Root, root)
	d.AppendChild(root, d.CreateText("   \n\t  "))
	d.AppendChild(root, d.CreateText("  hello   world  "))

	b := Build(d, d.Root, fixedResolver(nil))
	if len(b.Children) != 1 {
		t.Fatalf("children = %d, want 1 (whitespace-only run dropped)", len(b.Children))
	}
	tr := b.Children[0]
	if tr.Kind != BoxTextRun {
		t.Fatal("expected a text run box")
	}
	if tr.Text != "hello world" {
		t.Fatalf("text = %q, want %q", tr.Text, "hello world")
	}
}

func TestBuildWrapsInlineRunsInAnonymousBlocks(t *testing.T) {
	// block, inline, inline, block: the two inline children must be
	// wrapped together in one anonymous block.
	d := dom.NewDocument(dom.NoQuirks)
	root := d.CreateElement(dom.HTML, "div", nil)
	d.AppendChild(d.Root, root)
	d.AppendChild(root, d.CreateElement(dom.HTML, "p", nil))
	d.AppendChild(root, d.CreateElement(dom.HTML, "span", nil))
	d.AppendChild(root, d.CreateElement(dom.HTML, "b", nil))
	d.AppendChild(root, d.CreateElement(dom.HTML, "p", nil))

	inline := func(s *css.ComputedStyle) { s.Display = css.DisplayInline }
	b := Build(d, d.Root, fixedResolver(map[string]func(*css.ComputedStyle){
		"p":    func(s *css.ComputedStyle) { s.Display = css.DisplayBlock },
		"span": inline,
		"b":    inline,
	}))

	if len(b.Children) != 3 {
		t.Fatalf("children = %d, want 3 (block, anonymous, block)", len(b.Children))
	}
	anon := b.Children[1]
	if anon.Kind != BoxAnonymousBlock {
		t.Fatalf("middle child kind = %v, want BoxAnonymousBlock", anon.Kind)
	}
	if len(anon.Children) != 2 {
		t.Fatalf("anonymous block wraps %d children, want 2", len(anon.Children))
	}
	if anon.ChildLayout != ChildLayoutInline {
		t.Fatal("anonymous block should lay its children out inline")
	}
}

func TestBuildAllInlineChildrenNotWrapped(t *testing.T) {
	d := dom.NewDocument(dom.NoQuirks)
	root := d.CreateElement(dom.HTML, "p", nil)
	d.AppendChild(d.Root, root)
	d.AppendChild(root, d.CreateText("some "))
	d.AppendChild(root, d.CreateText("text"))

	b := Build(d, d.Root, fixedResolver(nil))
	if len(b.Children) != 2 {
		t.Fatalf("children = %d, want 2 (no anonymous wrapper needed)", len(b.Children))
	}
	if b.ChildLayout != ChildLayoutInline {
		t.Fatal("all-inline container should use inline child layout")
	}
}

func TestHitTestInnermost(t *testing.T) {
	child := &Box{Kind: BoxBlock, BorderBox: Rect{X: 10, Y: 10, Width: 50, Height: 50}}
	root := &Box{
		Kind:      BoxBlock,
		BorderBox: Rect{X: 0, Y: 0, Width: 200, Height: 200},
		Children:  []*Box{child},
	}
	if got := HitTest(root, 20, 20); got != child {
		t.Fatal("hit test should return the innermost box")
	}
	if got := HitTest(root, 100, 100); got != root {
		t.Fatal("miss on child should fall back to the parent")
	}
	if got := HitTest(root, 300, 300); got != nil {
		t.Fatal("miss on everything should return nil")
	}
}
