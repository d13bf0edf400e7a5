package css

import (
	"strconv"
	"strings"
)

// Display is the computed `display` keyword.
type Display int

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayInlineBlock
	DisplayFlex
	DisplayGrid
	DisplayNone
)

// Position is the computed `position` keyword.
type Position int

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

// FloatVal is the computed `float` keyword.
type FloatVal int

const (
	FloatNone FloatVal = iota
	FloatLeft
	FloatRight
)

// BoxSizing is the computed `box-sizing` keyword.
type BoxSizing int

const (
	BoxSizingContent BoxSizing = iota
	BoxSizingBorder
)

// BorderStyleVal is the computed `border-*-style` keyword.
type BorderStyleVal int

const (
	BorderNone BorderStyleVal = iota
	BorderSolid
	BorderDashed
	BorderDotted
	BorderDouble
	BorderHidden
)

// Overflow is the computed `overflow-x`/`overflow-y` keyword.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
)

// VisibilityVal is the computed `visibility` keyword.
type VisibilityVal int

const (
	VisibilityVisible VisibilityVal = iota
	VisibilityHidden
	VisibilityCollapse
)

// TextAlignVal is the computed `text-align` keyword.
type TextAlignVal int

const (
	TextAlignLeft TextAlignVal = iota
	TextAlignRight
	TextAlignCenter
	TextAlignJustify
)

// WhiteSpaceVal is the computed `white-space` keyword.
type WhiteSpaceVal int

const (
	WhiteSpaceNormal WhiteSpaceVal = iota
	WhiteSpaceNoWrap
	WhiteSpacePre
	WhiteSpacePreWrap
	WhiteSpacePreLine
)

// VerticalAlignVal is the computed `vertical-align` keyword.
type VerticalAlignVal int

const (
	VAlignBaseline VerticalAlignVal = iota
	VAlignTop
	VAlignMiddle
	VAlignBottom
	VAlignTextTop
	VAlignTextBottom
	VAlignSub
	VAlignSuper
)

// FlexDirectionVal is the computed `flex-direction` keyword.
type FlexDirectionVal int

const (
	FlexRow FlexDirectionVal = iota
	FlexRowReverse
	FlexColumn
	FlexColumnReverse
)

// FlexWrapVal is the computed `flex-wrap` keyword.
type FlexWrapVal int

const (
	FlexNoWrap FlexWrapVal = iota
	FlexWrap_
	FlexWrapReverse
)

// JustifyContentVal is the computed `justify-content` keyword.
type JustifyContentVal int

const (
	JustifyFlexStart JustifyContentVal = iota
	JustifyFlexEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// AlignVal is shared by `align-items`/`align-self`/`align-content`.
type AlignVal int

const (
	AlignStretch AlignVal = iota
	AlignFlexStart
	AlignFlexEnd
	AlignCenter
	AlignBaseline
)

// LengthKind tags whether a [Length] is a resolved pixel value, a
// percentage to be resolved against a containing-block dimension later in
// layout, or `auto`.
type LengthKind int

const (
	LengthAuto LengthKind = iota
	LengthPx
	LengthPercent
)

// Length is a CSS length-or-percentage-or-auto value. Percentages are
// carried symbolically until layout resolves them against a containing
// block.
type Length struct {
	Kind  LengthKind
	Value float64 // px if Kind==LengthPx, 0-100 if Kind==LengthPercent
}

// Auto is the `auto` length.
var Auto = Length{Kind: LengthAuto}

// Px constructs a resolved pixel length.
func Px(v float64) Length { return Length{Kind: LengthPx, Value: v} }

// Resolve returns the pixel value against containing dimension cb, with
// auto resolving to autoValue.
func (l Length) Resolve(cb, autoValue float64) float64 {
	switch l.Kind {
	case LengthPx:
		return l.Value
	case LengthPercent:
		return cb * l.Value / 100
	default:
		return autoValue
	}
}

// Color is a resolved, non-premultiplied 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// BorderEdge holds one edge's width/style/color.
type BorderEdge struct {
	Width float64
	Style BorderStyleVal
	Color Color
}

// ComputedStyle is the fixed record of resolved style values consumed
// by layout and paint.
type ComputedStyle struct {
	Display    Display
	Position   Position
	Float      FloatVal
	BoxSizing  BoxSizing
	Color      Color
	Background Color

	FontSize   float64
	FontWeight int
	FontStyle  string // "normal" | "italic" | "oblique"
	LineHeight float64 // <0 means "normal" (not yet resolved to a multiple)

	MarginTop, MarginRight, MarginBottom, MarginLeft   Length
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft Length

	BorderTop, BorderRight, BorderBottom, BorderLeft BorderEdge
	BorderRadiusTL, BorderRadiusTR, BorderRadiusBR, BorderRadiusBL float64

	Width, Height, MinWidth, MinHeight, MaxWidth, MaxHeight Length
	Top, Right, Bottom, Left                                Length

	FlexDirection  FlexDirectionVal
	FlexWrap       FlexWrapVal
	JustifyContent JustifyContentVal
	AlignItems     AlignVal
	AlignContent   AlignVal
	AlignSelf      AlignVal
	FlexGrow       float64
	FlexShrink     float64
	FlexBasis      Length
	Order          int

	GridTemplateColumns, GridTemplateRows string // placeholder, non-goal

	ZIndex      int
	HasZIndex   bool
	OverflowX   Overflow
	OverflowY   Overflow
	Opacity     float64
	Visibility  VisibilityVal

	TextAlign     TextAlignVal
	WhiteSpace    WhiteSpaceVal
	TextTransform string
	LetterSpacing float64
	WordSpacing   float64
	VerticalAlign VerticalAlignVal
	ListStyleType string
	Cursor        string
}

// Default returns the initial computed style (the root's style before any
// cascade is applied).
func Default() ComputedStyle {
	return ComputedStyle{
		Display:    DisplayInline,
		Position:   PositionStatic,
		Color:      Color{0, 0, 0, 255},
		Background: Color{0, 0, 0, 0},
		FontSize:   16,
		FontWeight: 400,
		FontStyle:  "normal",
		LineHeight: -1,
		MarginTop: Px(0), MarginRight: Px(0), MarginBottom: Px(0), MarginLeft: Px(0),
		PaddingTop: Px(0), PaddingRight: Px(0), PaddingBottom: Px(0), PaddingLeft: Px(0),
		Width: Auto, Height: Auto, MinWidth: Px(0), MinHeight: Px(0), MaxWidth: Auto, MaxHeight: Auto,
		Top: Auto, Right: Auto, Bottom: Auto, Left: Auto,
		FlexGrow: 0, FlexShrink: 1, FlexBasis: Auto,
		Opacity:    1,
		Visibility: VisibilityVisible,
		TextAlign:  TextAlignLeft,
		WhiteSpace: WhiteSpaceNormal,
		Cursor:     "auto",
	}
}

// inheritedProps is the set of properties that, if unset by the cascade,
// copy the parent's computed value rather than the initial value.
var inheritedProps = map[string]bool{
	"color": true, "font-size": true, "font-weight": true, "font-style": true,
	"font-family": true, "text-align": true, "line-height": true,
	"cursor": true, "visibility": true, "list-style-type": true,
	"white-space": true, "text-transform": true, "letter-spacing": true,
	"word-spacing": true, "vertical-align": true,
}

// Resolve computes an element's ComputedStyle from the cascade's winning
// declarations, the parent's already-resolved style (nil for the root),
// and the viewport/root-font context needed for em/rem/vh/vw resolution.
func Resolve(specified map[string]Declaration, parent *ComputedStyle, rootFontSize, viewportW, viewportH float64) ComputedStyle {
	cs := Default()
	if parent != nil {
		cs.Color = parent.Color
		cs.FontSize = parent.FontSize
		cs.FontWeight = parent.FontWeight
		cs.FontStyle = parent.FontStyle
		cs.LineHeight = parent.LineHeight
		cs.TextAlign = parent.TextAlign
		cs.Cursor = parent.Cursor
		cs.Visibility = parent.Visibility
		cs.ListStyleType = parent.ListStyleType
		cs.WhiteSpace = parent.WhiteSpace
		cs.TextTransform = parent.TextTransform
		cs.LetterSpacing = parent.LetterSpacing
		cs.WordSpacing = parent.WordSpacing
		cs.VerticalAlign = parent.VerticalAlign
	}

	inheritedFontSize := cs.FontSize
	lenCtx := lengthContext{emBase: inheritedFontSize, rootPx: rootFontSize, vw: viewportW, vh: viewportH}

	// Resolve font-size first since em/rem for other properties on this
	// element depend on it.
	if d, ok := specified["font-size"]; ok {
		cs.FontSize = parseLength(d.Value, lenCtx).Resolve(inheritedFontSize, inheritedFontSize)
	}
	lenCtx.emBase = cs.FontSize

	apply := func(prop string, fn func(Declaration)) {
		if d, ok := specified[prop]; ok {
			fn(d)
		}
	}

	apply("display", func(d Declaration) { cs.Display = parseDisplay(d.Value) })
	apply("position", func(d Declaration) { cs.Position = parsePosition(d.Value) })
	apply("float", func(d Declaration) { cs.Float = parseFloatVal(d.Value) })
	apply("box-sizing", func(d Declaration) {
		if d.Value == "border-box" {
			cs.BoxSizing = BoxSizingBorder
		} else {
			cs.BoxSizing = BoxSizingContent
		}
	})
	apply("color", func(d Declaration) {
		if c, ok := ParseColor(d.Value); ok {
			cs.Color = c
		}
	})
	apply("background-color", func(d Declaration) {
		if c, ok := ParseColor(d.Value); ok {
			cs.Background = c
		}
	})
	apply("font-weight", func(d Declaration) {
		if v, err := strconv.Atoi(strings.TrimSpace(d.Value)); err == nil {
			cs.FontWeight = v
		} else if strings.TrimSpace(d.Value) == "bold" {
			cs.FontWeight = 700
		} else if strings.TrimSpace(d.Value) == "normal" {
			cs.FontWeight = 400
		}
	})
	apply("font-style", func(d Declaration) { cs.FontStyle = strings.TrimSpace(d.Value) })
	apply("line-height", func(d Declaration) {
		v := strings.TrimSpace(d.Value)
		if v == "normal" {
			cs.LineHeight = -1
			return
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cs.LineHeight = f * cs.FontSize
			return
		}
		cs.LineHeight = parseLength(v, lenCtx).Resolve(cs.FontSize, -1)
	})

	applyBox := func(prefix string, tl, tr, br, bl *Length) {
		apply(prefix, func(d Declaration) {
			v := parseLength(d.Value, lenCtx)
			*tl, *tr, *br, *bl = v, v, v, v
		})
		apply(prefix+"-top", func(d Declaration) { *tl = parseLength(d.Value, lenCtx) })
		apply(prefix+"-right", func(d Declaration) { *tr = parseLength(d.Value, lenCtx) })
		apply(prefix+"-bottom", func(d Declaration) { *br = parseLength(d.Value, lenCtx) })
		apply(prefix+"-left", func(d Declaration) { *bl = parseLength(d.Value, lenCtx) })
	}
	applyBox("margin", &cs.MarginTop, &cs.MarginRight, &cs.MarginBottom, &cs.MarginLeft)
	applyBox("padding", &cs.PaddingTop, &cs.PaddingRight, &cs.PaddingBottom, &cs.PaddingLeft)

	applyBorderEdge := func(name string, edge *BorderEdge) {
		apply("border-"+name+"-width", func(d Declaration) { edge.Width = parseLength(d.Value, lenCtx).Resolve(0, 3) })
		apply("border-"+name+"-style", func(d Declaration) { edge.Style = parseBorderStyle(d.Value) })
		apply("border-"+name+"-color", func(d Declaration) {
			if c, ok := ParseColor(d.Value); ok {
				edge.Color = c
			}
		})
	}
	applyBorderEdge("top", &cs.BorderTop)
	applyBorderEdge("right", &cs.BorderRight)
	applyBorderEdge("bottom", &cs.BorderBottom)
	applyBorderEdge("left", &cs.BorderLeft)

	apply("border-radius", func(d Declaration) {
		v := parseLength(d.Value, lenCtx).Resolve(0, 0)
		cs.BorderRadiusTL, cs.BorderRadiusTR, cs.BorderRadiusBR, cs.BorderRadiusBL = v, v, v, v
	})

	apply("width", func(d Declaration) { cs.Width = parseLength(d.Value, lenCtx) })
	apply("height", func(d Declaration) { cs.Height = parseLength(d.Value, lenCtx) })
	apply("min-width", func(d Declaration) { cs.MinWidth = parseLength(d.Value, lenCtx) })
	apply("min-height", func(d Declaration) { cs.MinHeight = parseLength(d.Value, lenCtx) })
	apply("max-width", func(d Declaration) { cs.MaxWidth = parseLength(d.Value, lenCtx) })
	apply("max-height", func(d Declaration) { cs.MaxHeight = parseLength(d.Value, lenCtx) })
	apply("top", func(d Declaration) { cs.Top = parseLength(d.Value, lenCtx) })
	apply("right", func(d Declaration) { cs.Right = parseLength(d.Value, lenCtx) })
	apply("bottom", func(d Declaration) { cs.Bottom = parseLength(d.Value, lenCtx) })
	apply("left", func(d Declaration) { cs.Left = parseLength(d.Value, lenCtx) })

	apply("flex-direction", func(d Declaration) { cs.FlexDirection = parseFlexDirection(d.Value) })
	apply("flex-wrap", func(d Declaration) {
		switch strings.TrimSpace(d.Value) {
		case "wrap":
			cs.FlexWrap = FlexWrap_
		case "wrap-reverse":
			cs.FlexWrap = FlexWrapReverse
		default:
			cs.FlexWrap = FlexNoWrap
		}
	})
	apply("justify-content", func(d Declaration) { cs.JustifyContent = parseJustify(d.Value) })
	apply("align-items", func(d Declaration) { cs.AlignItems = parseAlign(d.Value) })
	apply("align-content", func(d Declaration) { cs.AlignContent = parseAlign(d.Value) })
	apply("align-self", func(d Declaration) { cs.AlignSelf = parseAlign(d.Value) })
	apply("flex-grow", func(d Declaration) { cs.FlexGrow = parseFloatOr(d.Value, 0) })
	apply("flex-shrink", func(d Declaration) { cs.FlexShrink = parseFloatOr(d.Value, 1) })
	apply("flex-basis", func(d Declaration) { cs.FlexBasis = parseLength(d.Value, lenCtx) })
	apply("order", func(d Declaration) {
		if v, err := strconv.Atoi(strings.TrimSpace(d.Value)); err == nil {
			cs.Order = v
		}
	})

	apply("z-index", func(d Declaration) {
		if v, err := strconv.Atoi(strings.TrimSpace(d.Value)); err == nil {
			cs.ZIndex = v
			cs.HasZIndex = true
		}
	})
	apply("overflow-x", func(d Declaration) { cs.OverflowX = parseOverflow(d.Value) })
	apply("overflow-y", func(d Declaration) { cs.OverflowY = parseOverflow(d.Value) })
	apply("overflow", func(d Declaration) {
		ov := parseOverflow(d.Value)
		cs.OverflowX, cs.OverflowY = ov, ov
	})
	apply("opacity", func(d Declaration) { cs.Opacity = clamp01(parseFloatOr(d.Value, 1)) })
	apply("visibility", func(d Declaration) {
		switch strings.TrimSpace(d.Value) {
		case "hidden":
			cs.Visibility = VisibilityHidden
		case "collapse":
			cs.Visibility = VisibilityCollapse
		default:
			cs.Visibility = VisibilityVisible
		}
	})

	apply("text-align", func(d Declaration) { cs.TextAlign = parseTextAlign(d.Value) })
	apply("white-space", func(d Declaration) { cs.WhiteSpace = parseWhiteSpace(d.Value) })
	apply("text-transform", func(d Declaration) { cs.TextTransform = strings.TrimSpace(d.Value) })
	apply("letter-spacing", func(d Declaration) { cs.LetterSpacing = parseLength(d.Value, lenCtx).Resolve(0, 0) })
	apply("word-spacing", func(d Declaration) { cs.WordSpacing = parseLength(d.Value, lenCtx).Resolve(0, 0) })
	apply("vertical-align", func(d Declaration) { cs.VerticalAlign = parseVerticalAlign(d.Value) })
	apply("list-style-type", func(d Declaration) { cs.ListStyleType = strings.TrimSpace(d.Value) })
	apply("cursor", func(d Declaration) { cs.Cursor = strings.TrimSpace(d.Value) })

	// Non-inherited properties absent from the cascade revert to the
	// initial value even if the parent had a non-default one (already the
	// case since cs started from Default() and only inherited fields were
	// copied above). Guard against a stray cascade entry for a
	// non-inherited property whose parent value leaked in: nothing to do,
	// by construction.
	_ = inheritedProps

	return cs
}

type lengthContext struct {
	emBase float64
	rootPx float64
	vw, vh float64
}

func parseLength(v string, ctx lengthContext) Length {
	v = strings.TrimSpace(v)
	if v == "auto" || v == "" {
		return Auto
	}
	if strings.HasSuffix(v, "%") {
		f, _ := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		return Length{Kind: LengthPercent, Value: f}
	}
	units := []struct {
		suffix string
		scale  func(f float64) float64
	}{
		{"rem", func(f float64) float64 { return f * ctx.rootPx }},
		{"em", func(f float64) float64 { return f * ctx.emBase }},
		{"vw", func(f float64) float64 { return f * ctx.vw / 100 }},
		{"vh", func(f float64) float64 { return f * ctx.vh / 100 }},
		{"px", func(f float64) float64 { return f }},
	}
	for _, u := range units {
		if strings.HasSuffix(v, u.suffix) {
			f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, u.suffix)), 64)
			if err != nil {
				return Auto
			}
			return Px(u.scale(f))
		}
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return Px(f)
	}
	return Auto
}

func parseFloatOr(v string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fallback
	}
	return f
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func parseDisplay(v string) Display {
	switch strings.TrimSpace(v) {
	case "block":
		return DisplayBlock
	case "inline-block":
		return DisplayInlineBlock
	case "flex":
		return DisplayFlex
	case "grid":
		return DisplayGrid
	case "none":
		return DisplayNone
	default:
		return DisplayInline
	}
}

func parsePosition(v string) Position {
	switch strings.TrimSpace(v) {
	case "relative":
		return PositionRelative
	case "absolute":
		return PositionAbsolute
	case "fixed":
		return PositionFixed
	case "sticky":
		return PositionSticky
	default:
		return PositionStatic
	}
}

func parseFloatVal(v string) FloatVal {
	switch strings.TrimSpace(v) {
	case "left":
		return FloatLeft
	case "right":
		return FloatRight
	default:
		return FloatNone
	}
}

func parseBorderStyle(v string) BorderStyleVal {
	switch strings.TrimSpace(v) {
	case "solid":
		return BorderSolid
	case "dashed":
		return BorderDashed
	case "dotted":
		return BorderDotted
	case "double":
		return BorderDouble
	case "hidden":
		return BorderHidden
	default:
		return BorderNone
	}
}

func parseOverflow(v string) Overflow {
	switch strings.TrimSpace(v) {
	case "hidden":
		return OverflowHidden
	case "scroll":
		return OverflowScroll
	case "auto":
		return OverflowAuto
	default:
		return OverflowVisible
	}
}

func parseTextAlign(v string) TextAlignVal {
	switch strings.TrimSpace(v) {
	case "right":
		return TextAlignRight
	case "center":
		return TextAlignCenter
	case "justify":
		return TextAlignJustify
	default:
		return TextAlignLeft
	}
}

func parseWhiteSpace(v string) WhiteSpaceVal {
	switch strings.TrimSpace(v) {
	case "nowrap":
		return WhiteSpaceNoWrap
	case "pre":
		return WhiteSpacePre
	case "pre-wrap":
		return WhiteSpacePreWrap
	case "pre-line":
		return WhiteSpacePreLine
	default:
		return WhiteSpaceNormal
	}
}

func parseVerticalAlign(v string) VerticalAlignVal {
	switch strings.TrimSpace(v) {
	case "top":
		return VAlignTop
	case "middle":
		return VAlignMiddle
	case "bottom":
		return VAlignBottom
	case "text-top":
		return VAlignTextTop
	case "text-bottom":
		return VAlignTextBottom
	case "sub":
		return VAlignSub
	case "super":
		return VAlignSuper
	default:
		return VAlignBaseline
	}
}

func parseFlexDirection(v string) FlexDirectionVal {
	switch strings.TrimSpace(v) {
	case "row-reverse":
		return FlexRowReverse
	case "column":
		return FlexColumn
	case "column-reverse":
		return FlexColumnReverse
	default:
		return FlexRow
	}
}

func parseJustify(v string) JustifyContentVal {
	switch strings.TrimSpace(v) {
	case "flex-end":
		return JustifyFlexEnd
	case "center":
		return JustifyCenter
	case "space-between":
		return JustifySpaceBetween
	case "space-around":
		return JustifySpaceAround
	case "space-evenly":
		return JustifySpaceEvenly
	default:
		return JustifyFlexStart
	}
}

func parseAlign(v string) AlignVal {
	switch strings.TrimSpace(v) {
	case "flex-start":
		return AlignFlexStart
	case "flex-end":
		return AlignFlexEnd
	case "center":
		return AlignCenter
	case "baseline":
		return AlignBaseline
	default:
		return AlignStretch
	}
}
