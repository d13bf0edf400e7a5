// Package layout builds a box tree from a styled DOM and resolves box
// geometry via block, inline, and flex formatting: a recursive walk that
// propagates a parent-derived context (the containing block) down and
// accumulates a result (content extent) back up.
package layout

import (
	"github.com/emberweb/ember/css"
	"github.com/emberweb/ember/dom"
)

// Debug gates verbose layout tracing.
var Debug = false

// Rect is an axis-aligned box in layout-space pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// BoxKind tags the variant a [Box] holds.
type BoxKind int

const (
	BoxBlock BoxKind = iota
	BoxInlineBlock
	BoxAnonymousBlock
	BoxFlex
	BoxTextRun
)

// ChildLayoutKind picks the formatting context a box lays its children out
// with.
type ChildLayoutKind int

const (
	ChildLayoutBlock ChildLayoutKind = iota
	ChildLayoutInline
)

// Edges is a four-sided pixel measurement (margin, border, or padding).
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Box is one box-tree node. MarginBox/BorderBox/PaddingBox/ContentBox are
// kept as four independently addressable rects; every mutation goes
// through helpers that keep all four consistent.
type Box struct {
	Kind  BoxKind
	Node  dom.NodeID
	Style *css.ComputedStyle

	// Inline reports whether this box itself participates in an ancestor's
	// inline formatting context (text runs, inline elements, inline-blocks).
	Inline bool
	// ChildLayout picks the formatting context this box lays its own
	// Children out with.
	ChildLayout ChildLayoutKind

	Margin  Edges
	Border  Edges
	Padding Edges

	MarginBox  Rect
	BorderBox  Rect
	PaddingBox Rect
	ContentBox Rect

	Text     string
	Children []*Box
}

// resolveBoxRects derives BorderBox/PaddingBox/ContentBox from MarginBox,
// Margin, Border and Padding, keeping the four rects consistent.
func (b *Box) resolveBoxRects() {
	b.BorderBox = Rect{
		X:      b.MarginBox.X + b.Margin.Left,
		Y:      b.MarginBox.Y + b.Margin.Top,
		Width:  b.MarginBox.Width - b.Margin.Left - b.Margin.Right,
		Height: b.MarginBox.Height - b.Margin.Top - b.Margin.Bottom,
	}
	b.PaddingBox = Rect{
		X:      b.BorderBox.X + b.Border.Left,
		Y:      b.BorderBox.Y + b.Border.Top,
		Width:  b.BorderBox.Width - b.Border.Left - b.Border.Right,
		Height: b.BorderBox.Height - b.Border.Top - b.Border.Bottom,
	}
	b.ContentBox = Rect{
		X:      b.PaddingBox.X + b.Padding.Left,
		Y:      b.PaddingBox.Y + b.Padding.Top,
		Width:  b.PaddingBox.Width - b.Padding.Left - b.Padding.Right,
		Height: b.PaddingBox.Height - b.Padding.Top - b.Padding.Bottom,
	}
}

// sizeFromContent builds ContentBox/PaddingBox/BorderBox/MarginBox outward
// from a content-box size, with the content box's top-left at (0, 0) — the
// caller repositions the whole subtree afterward via setMarginBoxOrigin.
// Computed outward: content, then padding, border, margin.
func (b *Box) sizeFromContent(contentW, contentH float64) {
	b.ContentBox = Rect{X: 0, Y: 0, Width: contentW, Height: contentH}
	b.PaddingBox = Rect{
		X:      -b.Padding.Left,
		Y:      -b.Padding.Top,
		Width:  contentW + b.Padding.Left + b.Padding.Right,
		Height: contentH + b.Padding.Top + b.Padding.Bottom,
	}
	b.BorderBox = Rect{
		X:      b.PaddingBox.X - b.Border.Left,
		Y:      b.PaddingBox.Y - b.Border.Top,
		Width:  b.PaddingBox.Width + b.Border.Left + b.Border.Right,
		Height: b.PaddingBox.Height + b.Border.Top + b.Border.Bottom,
	}
	b.MarginBox = Rect{
		X:      b.BorderBox.X - b.Margin.Left,
		Y:      b.BorderBox.Y - b.Margin.Top,
		Width:  b.BorderBox.Width + b.Margin.Left + b.Margin.Right,
		Height: b.BorderBox.Height + b.Margin.Top + b.Margin.Bottom,
	}
}

// availableContentWidth returns the content width available within
// containingWidth once margin/border/padding are subtracted, clamped to
// zero.
func availableContentWidth(containingWidth float64, margin, border, padding Edges) float64 {
	w := containingWidth - margin.Left - margin.Right - border.Left - border.Right - padding.Left - padding.Right
	if w < 0 {
		return 0
	}
	return w
}

// setMarginBoxOrigin moves b (and its already-laid-out subtree) so its
// margin box's top-left is at (x, y), without touching its size.
func (b *Box) setMarginBoxOrigin(x, y float64) {
	dx := x - b.MarginBox.X
	dy := y - b.MarginBox.Y
	b.translate(dx, dy)
}

func (b *Box) translate(dx, dy float64) {
	b.MarginBox.X += dx
	b.MarginBox.Y += dy
	b.BorderBox.X += dx
	b.BorderBox.Y += dy
	b.PaddingBox.X += dx
	b.PaddingBox.Y += dy
	b.ContentBox.X += dx
	b.ContentBox.Y += dy
	for _, c := range b.Children {
		c.translate(dx, dy)
	}
}
