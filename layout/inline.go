package layout

import "github.com/emberweb/ember/css"

// LineItem is one box placed on a [LineBox].
type LineItem struct {
	Box    *Box
	X      float64
	Width  float64
	Height float64
}

// LineBox is a horizontal run of inline items sharing a baseline.
type LineBox struct {
	X, Y, Width, Height float64
	Items               []LineItem
}

// LayoutInline builds line boxes over b's inline-level Children within
// availableWidth, measuring each item, wrapping at the available width,
// applying vertical-align within each line and text-align across each
// line, and positioning every child's box model accordingly.
func LayoutInline(b *Box, availableWidth float64) []LineBox {
	children := b.Children
	if len(children) == 0 {
		return nil
	}

	var lines []LineBox
	cur := LineBox{}
	cursorX, cursorY := 0.0, 0.0

	flush := func() {
		if len(cur.Items) == 0 {
			return
		}
		cur.Width = cursorX
		lines = append(lines, cur)
	}

	for _, c := range children {
		w, h := measureInline(c, availableWidth)

		allowWrap := c.Style == nil || (c.Style.WhiteSpace != css.WhiteSpaceNoWrap && c.Style.WhiteSpace != css.WhiteSpacePre)
		canBreakWord := c.Kind == BoxTextRun // word-break/overflow-wrap default to allowing clamp on an empty line

		if canBreakWord && w > availableWidth && cursorX == 0 {
			w = availableWidth
		}

		if allowWrap && cursorX > 0 && cursorX+w > availableWidth {
			flush()
			cursorY += cur.Height
			cur = LineBox{X: 0, Y: cursorY}
			cursorX = 0
		}

		if c.Kind == BoxInlineBlock {
			LayoutBlock(c, availableWidth)
			c.setMarginBoxOrigin(cursorX, cursorY)
			w = c.MarginBox.Width
			h = c.MarginBox.Height
		} else {
			c.sizeFromContent(w, h)
			c.setMarginBoxOrigin(cursorX, cursorY)
		}

		cur.Height = maxF(cur.Height, h)
		cur.Items = append(cur.Items, LineItem{Box: c, X: cursorX, Width: w, Height: h})
		cursorX += w
	}
	flush()

	for li := range lines {
		line := &lines[li]
		for ii := range line.Items {
			item := &line.Items[ii]
			dy := verticalAlignOffset(item.Box, line.Height, item.Height)
			if dy != 0 {
				item.Box.translate(0, dy)
			}
		}
	}

	align := css.TextAlignLeft
	if len(children) > 0 && children[0].Style != nil {
		align = children[0].Style.TextAlign
	}
	if align != css.TextAlignLeft {
		for li := range lines {
			line := &lines[li]
			var offset float64
			switch align {
			case css.TextAlignCenter:
				offset = maxF(0, availableWidth-line.Width) / 2
			case css.TextAlignRight:
				offset = maxF(0, availableWidth-line.Width)
			}
			if offset > 0 {
				for ii := range line.Items {
					item := &line.Items[ii]
					item.X += offset
					item.Box.translate(offset, 0)
				}
			}
		}
	}

	return lines
}

func verticalAlignOffset(b *Box, lineHeight, itemHeight float64) float64 {
	va := css.VAlignBaseline
	if b.Style != nil {
		va = b.Style.VerticalAlign
	}
	switch va {
	case css.VAlignMiddle:
		return (lineHeight - itemHeight) / 2
	case css.VAlignBottom, css.VAlignTextBottom:
		return lineHeight - itemHeight
	case css.VAlignSub:
		return lineHeight * 0.15
	case css.VAlignSuper:
		return -(lineHeight * 0.15)
	default: // baseline, top, text-top
		return 0
	}
}

// measureInline estimates an inline item's width/height: text runs sum a
// per-character advance estimate (with tab-size expansion), inline-blocks
// use their specified size, and other inline boxes use their specified
// width (else the summed widths of their children) and their line-height.
func measureInline(b *Box, availableWidth float64) (float64, float64) {
	lineHeight, fontSize := 16.0, 16.0
	if b.Style != nil {
		fontSize = b.Style.FontSize
		lineHeight = resolveLineHeight(b.Style)
	}

	switch b.Kind {
	case BoxTextRun:
		avgChar := fontSize * 0.6
		tabWidth := avgChar
		if b.Style != nil {
			tabWidth = tabSizeOf(b.Style) * avgChar
		}
		w := 0.0
		for _, r := range b.Text {
			if r == '\t' {
				w += tabWidth
			} else {
				w += avgChar
			}
		}
		return w, lineHeight
	case BoxInlineBlock:
		w, h := lineHeight, lineHeight
		if b.Style != nil {
			w = b.Style.Width.Resolve(availableWidth, 0)
			h = b.Style.Height.Resolve(0, lineHeight)
		}
		return w, h
	default:
		if b.Style != nil && b.Style.Width.Kind != css.LengthAuto {
			return b.Style.Width.Resolve(availableWidth, 0), lineHeight
		}
		var w float64
		for _, cc := range b.Children {
			cw, _ := measureInline(cc, availableWidth)
			w += cw
		}
		return w, lineHeight
	}
}

func resolveLineHeight(s *css.ComputedStyle) float64 {
	if s.LineHeight < 0 {
		return s.FontSize * 1.2
	}
	return s.LineHeight
}

// tabSizeOf returns the `tab-size` multiplier. ComputedStyle carries no
// dedicated field, so the CSS initial value of 8 applies.
func tabSizeOf(s *css.ComputedStyle) float64 { return 8 }

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
