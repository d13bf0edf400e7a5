package fontdecode

// Glyph outline parsing from the glyf table: simple glyphs are runs of
// quadratic-curve contour points; composite glyphs reference other glyphs
// with an offset and optional transform.

// OutlinePoint is a single contour point in font units.
type OutlinePoint struct {
	X, Y    int32
	OnCurve bool
}

// Contour is a closed sequence of outline points.
type Contour struct {
	Points []OutlinePoint
}

// Outline is a simple glyph's contour set with its bounding box.
type Outline struct {
	Contours   []Contour
	XMin, YMin int16
	XMax, YMax int16
}

// Component is one entry in a composite glyph's component chain.
type Component struct {
	GlyphID uint16
	DX, DY  int16
	// Transform, row-major. Identity when no scale flags are present.
	ScaleX, Scale01, Scale10, ScaleY float32
}

// GlyphKind tags a [Glyph] variant.
type GlyphKind int

const (
	GlyphEmpty GlyphKind = iota
	GlyphSimple
	GlyphComposite
)

// Glyph is a parsed glyf entry: empty (no outline, e.g. space), a simple
// outline, or a composite component list.
type Glyph struct {
	Kind       GlyphKind
	Outline    Outline
	Components []Component
}

// Simple glyph flag bits.
const (
	flagOnCurvePoint      = 0x01
	flagXShortVector      = 0x02
	flagYShortVector      = 0x04
	flagRepeat            = 0x08
	flagXSameOrPosShort   = 0x10
	flagYSameOrPosShort   = 0x20
)

// Composite glyph flag bits.
const (
	compArg1And2AreWords = 0x0001
	compWeHaveAScale     = 0x0008
	compMoreComponents   = 0x0020
	compWeHaveXYScale    = 0x0040
	compWeHaveTwoByTwo   = 0x0080
)

// ParseGlyph parses one glyph's slice of the glyf table (as delimited by
// loca offsets). A zero-length slice is an empty glyph.
func ParseGlyph(data []byte) (Glyph, error) {
	if len(data) == 0 {
		return Glyph{Kind: GlyphEmpty}, nil
	}
	c := cursor{data: data}
	numContours := c.i16()
	xMin, yMin := c.i16(), c.i16()
	xMax, yMax := c.i16(), c.i16()
	if c.err != nil {
		return Glyph{}, c.err
	}
	if numContours < 0 {
		return parseComposite(&c)
	}
	return parseSimple(&c, int(numContours), xMin, yMin, xMax, yMax)
}

func parseSimple(c *cursor, numContours int, xMin, yMin, xMax, yMax int16) (Glyph, error) {
	if numContours == 0 {
		return Glyph{Kind: GlyphEmpty}, nil
	}

	endPts := make([]uint16, numContours)
	for i := range endPts {
		endPts[i] = c.u16()
	}
	if c.err != nil {
		return Glyph{}, c.err
	}
	numPoints := int(endPts[numContours-1]) + 1

	instructionLen := int(c.u16())
	c.skip(instructionLen)

	flags := make([]uint8, 0, numPoints)
	for len(flags) < numPoints {
		f := c.u8()
		if c.err != nil {
			return Glyph{}, c.err
		}
		flags = append(flags, f)
		if f&flagRepeat != 0 {
			repeat := int(c.u8())
			for i := 0; i < repeat && len(flags) < numPoints; i++ {
				flags = append(flags, f)
			}
		}
	}

	xs := make([]int32, numPoints)
	var x int32
	for i, f := range flags {
		switch {
		case f&flagXShortVector != 0:
			dx := int32(c.u8())
			if f&flagXSameOrPosShort != 0 {
				x += dx
			} else {
				x -= dx
			}
		case f&flagXSameOrPosShort != 0:
			// same as previous
		default:
			x += int32(c.i16())
		}
		xs[i] = x
	}

	ys := make([]int32, numPoints)
	var y int32
	for i, f := range flags {
		switch {
		case f&flagYShortVector != 0:
			dy := int32(c.u8())
			if f&flagYSameOrPosShort != 0 {
				y += dy
			} else {
				y -= dy
			}
		case f&flagYSameOrPosShort != 0:
		default:
			y += int32(c.i16())
		}
		ys[i] = y
	}
	if c.err != nil {
		return Glyph{}, c.err
	}

	outline := Outline{XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax}
	start := 0
	for _, end := range endPts {
		e := int(end)
		if e < start || e >= numPoints {
			return Glyph{}, ErrMalformedFont
		}
		pts := make([]OutlinePoint, 0, e-start+1)
		for j := start; j <= e; j++ {
			pts = append(pts, OutlinePoint{X: xs[j], Y: ys[j], OnCurve: flags[j]&flagOnCurvePoint != 0})
		}
		outline.Contours = append(outline.Contours, Contour{Points: pts})
		start = e + 1
	}
	return Glyph{Kind: GlyphSimple, Outline: outline}, nil
}

func parseComposite(c *cursor) (Glyph, error) {
	var components []Component
	for {
		flags := c.u16()
		glyphID := c.u16()

		var dx, dy int16
		if flags&compArg1And2AreWords != 0 {
			dx, dy = c.i16(), c.i16()
		} else {
			dx, dy = int16(int8(c.u8())), int16(int8(c.u8()))
		}

		comp := Component{GlyphID: glyphID, DX: dx, DY: dy, ScaleX: 1, ScaleY: 1}
		// F2Dot14 fixed-point transform entries.
		switch {
		case flags&compWeHaveAScale != 0:
			s := float32(c.i16()) / 16384.0
			comp.ScaleX, comp.ScaleY = s, s
		case flags&compWeHaveXYScale != 0:
			comp.ScaleX = float32(c.i16()) / 16384.0
			comp.ScaleY = float32(c.i16()) / 16384.0
		case flags&compWeHaveTwoByTwo != 0:
			comp.ScaleX = float32(c.i16()) / 16384.0
			comp.Scale01 = float32(c.i16()) / 16384.0
			comp.Scale10 = float32(c.i16()) / 16384.0
			comp.ScaleY = float32(c.i16()) / 16384.0
		}
		if c.err != nil {
			return Glyph{}, c.err
		}
		components = append(components, comp)
		if flags&compMoreComponents == 0 {
			break
		}
	}
	return Glyph{Kind: GlyphComposite, Components: components}, nil
}
