package htmlparse

import (
	"testing"

	"github.com/emberweb/ember/dom"
)

func TestBasicDocumentStructure(t *testing.T) {
	doc := Parse([]byte(`<!DOCTYPE html><html><head><title>Hi</title></head><body><p>Hello <b>world</b></p></body></html>`))

	html := doc.Children(doc.Root)
	var htmlID dom.NodeID
	foundHTML := false
	for _, c := range html {
		if n, ok := doc.Get(c); ok && n.Kind == dom.KindElement && n.Element.Tag == "html" {
			htmlID = c
			foundHTML = true
		}
	}
	if !foundHTML {
		t.Fatalf("no <html> element found among document children")
	}

	kids := doc.Children(htmlID)
	if len(kids) != 2 {
		t.Fatalf("expected head+body under html, got %d children", len(kids))
	}

	head, _ := doc.Get(kids[0])
	if head.Element.Tag != "head" {
		t.Fatalf("first html child = %q, want head", head.Element.Tag)
	}
	body, _ := doc.Get(kids[1])
	if body.Element.Tag != "body" {
		t.Fatalf("second html child = %q, want body", body.Element.Tag)
	}

	titleEls := doc.GetElementsByTag(kids[0], "title")
	if len(titleEls) != 1 {
		t.Fatalf("expected 1 title element, got %d", len(titleEls))
	}
	titleText := doc.Children(titleEls[0])
	if len(titleText) != 1 {
		t.Fatalf("title should have 1 text child, got %d", len(titleText))
	}
	tn, _ := doc.Get(titleText[0])
	if tn.Data != "Hi" {
		t.Fatalf("title text = %q, want Hi", tn.Data)
	}

	pEls := doc.GetElementsByTag(kids[1], "p")
	if len(pEls) != 1 {
		t.Fatalf("expected 1 <p>, got %d", len(pEls))
	}
	bEls := doc.GetElementsByTag(kids[1], "b")
	if len(bEls) != 1 {
		t.Fatalf("expected 1 <b>, got %d", len(bEls))
	}
}

func TestRawTextModeDoesNotParseEntitiesOrTags(t *testing.T) {
	doc := Parse([]byte(`<script>if (a < b) { x = "&amp;"; }</script>`))
	scripts := doc.GetElementsByTag(doc.Root, "script")
	if len(scripts) != 1 {
		t.Fatalf("expected 1 script element, got %d", len(scripts))
	}
	kids := doc.Children(scripts[0])
	if len(kids) != 1 {
		t.Fatalf("script should have exactly one merged text child, got %d", len(kids))
	}
	text, _ := doc.Get(kids[0])
	want := `if (a < b) { x = "&amp;"; }`
	if text.Data != want {
		t.Fatalf("script text = %q, want %q", text.Data, want)
	}
}

func TestMalformedInputStillProducesATree(t *testing.T) {
	doc := Parse([]byte(`<p>unclosed <div>mismatched</p> trailing`))
	// Must not panic and must produce at least a root + html + body chain.
	htmlEls := doc.GetElementsByTag(doc.Root, "html")
	if len(htmlEls) != 1 {
		t.Fatalf("expected implicit <html>, got %d", len(htmlEls))
	}
	bodyEls := doc.GetElementsByTag(htmlEls[0], "body")
	if len(bodyEls) != 1 {
		t.Fatalf("expected implicit <body>, got %d", len(bodyEls))
	}
}

func TestNamedAndNumericCharacterReferences(t *testing.T) {
	doc := Parse([]byte(`<p>Tom &amp; Jerry &#169; &#x2014;</p>`))
	pEls := doc.GetElementsByTag(doc.Root, "p")
	text, _ := doc.Get(doc.Children(pEls[0])[0])
	want := "Tom & Jerry © —"
	if text.Data != want {
		t.Fatalf("text = %q, want %q", text.Data, want)
	}
}

func TestAttributesParsed(t *testing.T) {
	doc := Parse([]byte(`<div id="main" class="a b c" data-x=1></div>`))
	divs := doc.GetElementsByTag(doc.Root, "div")
	if len(divs) != 1 {
		t.Fatalf("expected 1 div, got %d", len(divs))
	}
	n, _ := doc.Get(divs[0])
	if n.Element.CachedID != "main" {
		t.Fatalf("id = %q, want main", n.Element.CachedID)
	}
	if len(n.Element.CachedClass) != 3 {
		t.Fatalf("class list = %v, want 3 entries", n.Element.CachedClass)
	}
	found := false
	for _, a := range n.Element.Attrs {
		if a.Name == "data-x" && a.Value == "1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("attrs = %v, missing data-x=1", n.Element.Attrs)
	}
}
