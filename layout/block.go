package layout

import "github.com/emberweb/ember/css"

// edgesFromStyle resolves margin/border/padding for s against
// containingWidth (percentages are resolved here; `auto` margins resolve
// to 0 unless LayoutBlock splits them afterward).
func edgesFromStyle(s *css.ComputedStyle, containingWidth float64) (margin, border, padding Edges) {
	margin = Edges{
		Top:    s.MarginTop.Resolve(containingWidth, 0),
		Right:  s.MarginRight.Resolve(containingWidth, 0),
		Bottom: s.MarginBottom.Resolve(containingWidth, 0),
		Left:   s.MarginLeft.Resolve(containingWidth, 0),
	}
	padding = Edges{
		Top:    s.PaddingTop.Resolve(containingWidth, 0),
		Right:  s.PaddingRight.Resolve(containingWidth, 0),
		Bottom: s.PaddingBottom.Resolve(containingWidth, 0),
		Left:   s.PaddingLeft.Resolve(containingWidth, 0),
	}
	border = Edges{
		Top:    borderEdgeWidth(s.BorderTop),
		Right:  borderEdgeWidth(s.BorderRight),
		Bottom: borderEdgeWidth(s.BorderBottom),
		Left:   borderEdgeWidth(s.BorderLeft),
	}
	return
}

func borderEdgeWidth(e css.BorderEdge) float64 {
	if e.Style == css.BorderNone {
		return 0
	}
	return e.Width
}

// LayoutBlock resolves b's box model and recursively lays out its children
// within a block formatting context: horizontal edges
// resolve against containingWidth, `auto` margins on a sized box split the
// remaining space, content width stretches to fill when `width` is auto,
// and box-sizing:border-box folds padding+border into a specified
// width/height. b's ContentBox top-left is left at (0, 0); callers position
// the returned box with setMarginBoxOrigin.
func LayoutBlock(b *Box, containingWidth float64) {
	if b.Style == nil {
		layoutChildrenBlock(b, containingWidth)
		b.sizeFromContent(containingWidth, childrenHeight(b))
		return
	}
	s := b.Style
	margin, border, padding := edgesFromStyle(s, containingWidth)

	var contentWidth float64
	specifiedWidth := s.Width.Kind != css.LengthAuto
	if specifiedWidth {
		w := s.Width.Resolve(containingWidth, 0)
		if s.BoxSizing == css.BoxSizingBorder {
			w -= border.Left + border.Right + padding.Left + padding.Right
		}
		if w < 0 {
			w = 0
		}
		contentWidth = w

		// auto margins split remaining space on the main (horizontal) axis.
		remaining := containingWidth - w - border.Left - border.Right - padding.Left - padding.Right
		leftAuto := s.MarginLeft.Kind == css.LengthAuto
		rightAuto := s.MarginRight.Kind == css.LengthAuto
		switch {
		case leftAuto && rightAuto:
			if remaining > 0 {
				margin.Left = remaining / 2
				margin.Right = remaining / 2
			}
		case leftAuto:
			margin.Left = remaining - margin.Right
		case rightAuto:
			margin.Right = remaining - margin.Left
		}
	} else {
		contentWidth = availableContentWidth(containingWidth, margin, border, padding)
	}
	b.Margin, b.Border, b.Padding = margin, border, padding

	layoutChildrenBlock(b, contentWidth)

	contentHeight := childrenHeight(b)
	if s.Height.Kind != css.LengthAuto {
		h := s.Height.Resolve(0, contentHeight)
		if s.BoxSizing == css.BoxSizingBorder {
			h -= border.Top + border.Bottom + padding.Top + padding.Bottom
		}
		if h < 0 {
			h = 0
		}
		contentHeight = h
	}

	b.sizeFromContent(contentWidth, contentHeight)
}

// layoutChildrenBlock lays out b's Children for the formatting context
// b.ChildLayout selects, stacking block children's margin boxes vertically
// and building line boxes for inline runs.
func layoutChildrenBlock(b *Box, contentWidth float64) {
	switch b.ChildLayout {
	case ChildLayoutInline:
		LayoutInline(b, contentWidth)
	default:
		y := 0.0
		for _, c := range b.Children {
			switch c.Kind {
			case BoxFlex:
				LayoutFlex(c, contentWidth)
			default:
				LayoutBlock(c, contentWidth)
			}
			c.setMarginBoxOrigin(0, y)
			y += c.MarginBox.Height
		}
	}
}

// childrenHeight sums block children's margin-box heights, or — for an
// inline child layout — reports the line-box stack height already baked
// into the children's positions by LayoutInline.
func childrenHeight(b *Box) float64 {
	if len(b.Children) == 0 {
		return 0
	}
	if b.ChildLayout == ChildLayoutInline {
		max := 0.0
		for _, c := range b.Children {
			bottom := c.MarginBox.Y + c.MarginBox.Height
			if bottom > max {
				max = bottom
			}
		}
		return max
	}
	h := 0.0
	for _, c := range b.Children {
		h += c.MarginBox.Height
	}
	return h
}
