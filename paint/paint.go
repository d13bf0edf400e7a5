// Package paint turns a laid-out box tree into a flat display list of
// draw commands and flushes that list onto a render target. Building and
// flushing are split so the list can be rebuilt only when layout or style
// changed, and so building stays testable without a display.
package paint

import (
	"github.com/emberweb/ember/css"
	"github.com/emberweb/ember/fontdecode"
	"github.com/emberweb/ember/layout"
)

// CommandKind identifies the kind of draw command.
type CommandKind uint8

const (
	CommandRect  CommandKind = iota // solid-color quad
	CommandGlyph                    // one glyph quad sourced from the atlas
)

// Command is a single draw instruction emitted during box-tree traversal.
type Command struct {
	Kind                CommandKind
	X, Y, Width, Height float64
	Color               css.Color

	// Glyph-only: where the quad samples from in the atlas texture.
	Entry fontdecode.AtlasEntry
}

// GlyphSource supplies cached glyph geometry for text commands.
// *fontdecode.Font satisfies it.
type GlyphSource interface {
	CachedGlyph(r rune, sizePx float64) (fontdecode.AtlasEntry, bool)
	LineMetrics(sizePx float64) (ascent, descent, lineGap float64)
}

// DisplayList is the ordered command buffer for one frame. Commands are
// emitted in paint order: each box's background, then its borders, then
// its text, then its children.
type DisplayList struct {
	Commands []Command
}

// Build traverses the box tree and emits the frame's commands. fnt may be
// nil, in which case text runs are skipped.
func Build(root *layout.Box, fnt GlyphSource) *DisplayList {
	dl := &DisplayList{}
	dl.emitBox(root, 1.0, fnt)
	return dl
}

func scaleAlpha(c css.Color, opacity float64) css.Color {
	if opacity >= 1 {
		return c
	}
	c.A = uint8(float64(c.A) * opacity)
	return c
}

func (dl *DisplayList) emitBox(b *layout.Box, opacity float64, fnt GlyphSource) {
	if b == nil {
		return
	}
	style := b.Style
	if style != nil {
		if style.Visibility == css.VisibilityHidden {
			// Hidden boxes don't paint but their children may un-hide.
			for _, c := range b.Children {
				dl.emitBox(c, opacity, fnt)
			}
			return
		}
		opacity *= style.Opacity
	}

	if style != nil && style.Background.A > 0 {
		r := b.BorderBox
		dl.Commands = append(dl.Commands, Command{
			Kind: CommandRect,
			X:    r.X, Y: r.Y, Width: r.Width, Height: r.Height,
			Color: scaleAlpha(style.Background, opacity),
		})
	}

	if style != nil {
		dl.emitBorders(b, opacity)
	}

	if b.Kind == layout.BoxTextRun && b.Text != "" && fnt != nil {
		dl.emitText(b, opacity, fnt)
	}

	for _, c := range b.Children {
		dl.emitBox(c, opacity, fnt)
	}
}

// emitBorders draws each edge with a nonzero width and non-none style as
// its own rect, insetting the side edges so corners aren't double-painted.
func (dl *DisplayList) emitBorders(b *layout.Box, opacity float64) {
	s := b.Style
	r := b.BorderBox
	edge := func(e css.BorderEdge, x, y, w, h float64) {
		if e.Width <= 0 || e.Style == css.BorderNone || e.Color.A == 0 {
			return
		}
		dl.Commands = append(dl.Commands, Command{
			Kind: CommandRect,
			X:    x, Y: y, Width: w, Height: h,
			Color: scaleAlpha(e.Color, opacity),
		})
	}
	top, bottom := s.BorderTop.Width, s.BorderBottom.Width
	edge(s.BorderTop, r.X, r.Y, r.Width, top)
	edge(s.BorderBottom, r.X, r.Y+r.Height-bottom, r.Width, bottom)
	edge(s.BorderLeft, r.X, r.Y+top, s.BorderLeft.Width, r.Height-top-bottom)
	edge(s.BorderRight, r.X+r.Width-s.BorderRight.Width, r.Y+top, s.BorderRight.Width, r.Height-top-bottom)
}

func (dl *DisplayList) emitText(b *layout.Box, opacity float64, fnt GlyphSource) {
	size := 16.0
	color := css.Color{A: 255}
	if b.Style != nil {
		size = b.Style.FontSize
		color = b.Style.Color
	}
	ascent, _, _ := fnt.LineMetrics(size)
	baseline := b.ContentBox.Y + ascent
	penX := b.ContentBox.X

	for _, r := range b.Text {
		e, ok := fnt.CachedGlyph(r, size)
		if !ok {
			penX += size * 0.5
			continue
		}
		if e.W > 0 && e.H > 0 {
			dl.Commands = append(dl.Commands, Command{
				Kind:  CommandGlyph,
				X:     penX + float64(e.BearingX),
				Y:     baseline - float64(e.BearingY),
				Width: float64(e.W), Height: float64(e.H),
				Color: scaleAlpha(color, opacity),
				Entry: e,
			})
		}
		penX += e.Advance
	}
}
