// Package dom implements the document tree: an arena of nodes linked by
// intrusive doubly-linked child lists, with per-node dirty flags and the
// traversal/mutation operations the pipeline driver needs.
package dom

import "github.com/emberweb/ember/arena"

// NodeID identifies a node within a [Document]'s arena.
type NodeID = arena.Handle

// Namespace is the element namespace.
type Namespace int

const (
	HTML Namespace = iota
	SVG
	MathML
)

// CompatMode records the document's quirks-mode classification.
type CompatMode int

const (
	NoQuirks CompatMode = iota
	Quirks
	LimitedQuirks
)

// NodeKind tags the variant a [Node] holds.
type NodeKind int

const (
	KindDocument NodeKind = iota
	KindDoctype
	KindElement
	KindText
	KindComment
)

// DirtyFlags is a bitset of {style, layout, paint} dirtiness.
type DirtyFlags uint8

const (
	DirtyStyle DirtyFlags = 1 << iota
	DirtyLayout
	DirtyPaint
)

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// ElementData holds the element-only fields of a [Node].
type ElementData struct {
	Namespace  Namespace
	Tag        string
	Attrs      []Attr
	CachedID   string
	CachedClass []string
}

// Node is a tagged-union tree node. Only the fields relevant to Kind are
// meaningful; tree links are always meaningful.
type Node struct {
	Kind NodeKind

	// Document
	Compat CompatMode

	// Doctype
	DoctypeName     string
	DoctypePublicID string
	DoctypeSystemID string

	// Element
	Element ElementData

	// Text / Comment
	Data string

	// Tree links — all optional handles into the owning Document's arena.
	Parent      NodeID
	HasParent   bool
	FirstChild  NodeID
	HasFirst    bool
	LastChild   NodeID
	HasLast     bool
	PrevSibling NodeID
	HasPrev     bool
	NextSibling NodeID
	HasNext     bool

	Dirty DirtyFlags
}

// Document owns the node arena and exposes tree mutation/traversal.
type Document struct {
	nodes *arena.Arena[Node]
	Root  NodeID
}

// NewDocument creates an empty document with a single Document-kind root
// node at the given compat mode.
func NewDocument(compat CompatMode) *Document {
	d := &Document{nodes: arena.New[Node]()}
	d.Root = d.nodes.Allocate(Node{Kind: KindDocument, Compat: compat})
	return d
}

func (d *Document) Get(id NodeID) (*Node, bool) {
	n := d.nodes.GetMut(id)
	if n == nil {
		return nil, false
	}
	return n, true
}

func (d *Document) CreateElement(ns Namespace, tag string, attrs []Attr) NodeID {
	ed := ElementData{Namespace: ns, Tag: tag, Attrs: append([]Attr(nil), attrs...)}
	for _, a := range attrs {
		if a.Name == "id" {
			ed.CachedID = a.Value
		}
		if a.Name == "class" {
			ed.CachedClass = splitClassList(a.Value)
		}
	}
	return d.nodes.Allocate(Node{Kind: KindElement, Element: ed})
}

func (d *Document) CreateText(data string) NodeID {
	return d.nodes.Allocate(Node{Kind: KindText, Data: data})
}

func (d *Document) CreateComment(data string) NodeID {
	return d.nodes.Allocate(Node{Kind: KindComment, Data: data})
}

func (d *Document) CreateDoctype(name, publicID, systemID string) NodeID {
	return d.nodes.Allocate(Node{Kind: KindDoctype, DoctypeName: name, DoctypePublicID: publicID, DoctypeSystemID: systemID})
}

func splitClassList(value string) []string {
	var out []string
	start := -1
	for i := 0; i <= len(value); i++ {
		if i < len(value) && value[i] != ' ' && value[i] != '\t' && value[i] != '\n' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, value[start:i])
			start = -1
		}
	}
	return out
}

// detach removes c from its current parent's child chain without
// deallocating c. It is a no-op if c has no parent.
func (d *Document) detach(c NodeID) {
	cn, ok := d.Get(c)
	if !ok || !cn.HasParent {
		return
	}
	p, _ := d.Get(cn.Parent)

	if cn.HasPrev {
		prev, _ := d.Get(cn.PrevSibling)
		prev.NextSibling, prev.HasNext = cn.NextSibling, cn.HasNext
	} else {
		p.FirstChild, p.HasFirst = cn.NextSibling, cn.HasNext
	}
	if cn.HasNext {
		next, _ := d.Get(cn.NextSibling)
		next.PrevSibling, next.HasPrev = cn.PrevSibling, cn.HasPrev
	} else {
		p.LastChild, p.HasLast = cn.PrevSibling, cn.HasPrev
	}

	cn.HasParent = false
	cn.HasPrev = false
	cn.HasNext = false
}

// AppendChild detaches c from any current parent, then links it to the
// end of p's child list in O(1).
func (d *Document) AppendChild(p, c NodeID) {
	d.detach(c)
	pn, _ := d.Get(p)
	cn, _ := d.Get(c)

	cn.Parent, cn.HasParent = p, true
	cn.HasNext = false
	if pn.HasLast {
		last, _ := d.Get(pn.LastChild)
		last.NextSibling, last.HasNext = c, true
		cn.PrevSibling, cn.HasPrev = pn.LastChild, true
	} else {
		pn.FirstChild, pn.HasFirst = c, true
		cn.HasPrev = false
	}
	pn.LastChild, pn.HasLast = c, true
}

// InsertBefore inserts c as p's child immediately before ref. If hasRef
// is false it behaves exactly like AppendChild.
func (d *Document) InsertBefore(p, c NodeID, ref NodeID, hasRef bool) {
	if !hasRef {
		d.AppendChild(p, c)
		return
	}
	d.detach(c)
	pn, _ := d.Get(p)
	cn, _ := d.Get(c)
	refNode, _ := d.Get(ref)

	cn.Parent, cn.HasParent = p, true
	cn.NextSibling, cn.HasNext = ref, true
	cn.PrevSibling, cn.HasPrev = refNode.PrevSibling, refNode.HasPrev

	if refNode.HasPrev {
		prev, _ := d.Get(refNode.PrevSibling)
		prev.NextSibling, prev.HasNext = c, true
	} else {
		pn.FirstChild, pn.HasFirst = c, true
	}
	refNode.PrevSibling, refNode.HasPrev = c, true
}

// RemoveChild detaches c from p. It is a no-op if c's parent is not p.
func (d *Document) RemoveChild(p, c NodeID) {
	cn, ok := d.Get(c)
	if !ok || !cn.HasParent || cn.Parent != p {
		return
	}
	d.detach(c)
}

// Children returns p's children in order.
func (d *Document) Children(p NodeID) []NodeID {
	var out []NodeID
	pn, ok := d.Get(p)
	if !ok || !pn.HasFirst {
		return out
	}
	cur, has := pn.FirstChild, true
	for has {
		out = append(out, cur)
		n, _ := d.Get(cur)
		cur, has = n.NextSibling, n.HasNext
	}
	return out
}

// Ancestors returns n's ancestors starting with its parent and ending at
// the document root.
func (d *Document) Ancestors(n NodeID) []NodeID {
	var out []NodeID
	cur, ok := d.Get(n)
	if !ok {
		return out
	}
	for cur.HasParent {
		out = append(out, cur.Parent)
		cur, _ = d.Get(cur.Parent)
	}
	return out
}

// Descendants returns n's descendants in pre-order DFS.
func (d *Document) Descendants(n NodeID) []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(id NodeID) {
		for _, c := range d.Children(id) {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

// GetElementByID returns the first element in root's subtree (inclusive)
// whose id attribute equals id.
func (d *Document) GetElementByID(root NodeID, id string) (NodeID, bool) {
	if n, ok := d.Get(root); ok && n.Kind == KindElement && n.Element.CachedID == id {
		return root, true
	}
	for _, c := range d.Descendants(root) {
		n, _ := d.Get(c)
		if n.Kind == KindElement && n.Element.CachedID == id {
			return c, true
		}
	}
	return NodeID{}, false
}

// GetElementsByTag returns every element in root's subtree (inclusive)
// whose tag equals tag, in document order.
func (d *Document) GetElementsByTag(root NodeID, tag string) []NodeID {
	var out []NodeID
	if n, ok := d.Get(root); ok && n.Kind == KindElement && n.Element.Tag == tag {
		out = append(out, root)
	}
	for _, c := range d.Descendants(root) {
		n, _ := d.Get(c)
		if n.Kind == KindElement && n.Element.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// MarkDirty sets flags on n and cascades per the rule that style dirtying
// implies layout+paint, and layout dirtying implies paint.
func (d *Document) MarkDirty(n NodeID, flags DirtyFlags) {
	node, ok := d.Get(n)
	if !ok {
		return
	}
	if flags&DirtyStyle != 0 {
		flags |= DirtyLayout | DirtyPaint
	} else if flags&DirtyLayout != 0 {
		flags |= DirtyPaint
	}
	node.Dirty |= flags
}

// ClearDirty clears every dirty flag on n.
func (d *Document) ClearDirty(n NodeID) {
	if node, ok := d.Get(n); ok {
		node.Dirty = 0
	}
}
