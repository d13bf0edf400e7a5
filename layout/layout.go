package layout

import (
	"github.com/emberweb/ember/dom"
)

// Run builds a box tree from doc and resolves its geometry against vp,
// chaining [Build] with the block/inline/flex formatting passes. The
// returned box's MarginBox origin is (0, 0).
func Run(doc *dom.Document, root dom.NodeID, resolve StyleResolver, vp Viewport) *Box {
	b := Build(doc, root, resolve)
	if b == nil {
		return nil
	}
	LayoutRoot(b, vp.Width)
	b.setMarginBoxOrigin(0, 0)
	return b
}

// LayoutRoot resolves b's geometry as the layout root: a flex container
// uses [LayoutFlex], everything else uses [LayoutBlock], against
// availableWidth.
func LayoutRoot(b *Box, availableWidth float64) {
	if b.Kind == BoxFlex {
		LayoutFlex(b, availableWidth)
	} else {
		LayoutBlock(b, availableWidth)
	}
}

// HitTest returns the innermost box (in paint order, deepest-first) whose
// border box contains (x, y), or nil.
func HitTest(b *Box, x, y float64) *Box {
	if b == nil || !b.BorderBox.Contains(x, y) {
		return nil
	}
	for i := len(b.Children) - 1; i >= 0; i-- {
		if hit := HitTest(b.Children[i], x, y); hit != nil {
			return hit
		}
	}
	return b
}
