package fontdecode

// Font binds the parsed tables of one font file to a glyph atlas: the
// lookup path is rune → cmap → glyf outline → rasterized bitmap →
// atlas entry, with the atlas caching every (glyph, size) already seen.
type Font struct {
	data []byte

	Head Head
	Hhea Hhea
	Cmap *Cmap4

	NumGlyphs uint16

	loca []byte
	glyf []byte
	hmtx []byte

	Atlas *GlyphAtlas
}

// DefaultAtlasSize is the width and height of a Font's atlas texture.
const DefaultAtlasSize = 1024

// ParseFont parses the table subset this package understands out of a
// raw font file and attaches a fresh glyph atlas.
func ParseFont(data []byte) (*Font, error) {
	ff, err := ParseFontFile(data)
	if err != nil {
		return nil, err
	}

	f := &Font{data: data, Atlas: NewGlyphAtlas(DefaultAtlasSize, DefaultAtlasSize)}

	headData := ff.TableData("head")
	if headData == nil {
		return nil, ErrMalformedFont
	}
	if f.Head, err = ParseHead(headData); err != nil {
		return nil, err
	}

	hheaData := ff.TableData("hhea")
	if hheaData == nil {
		return nil, ErrMalformedFont
	}
	if f.Hhea, err = ParseHhea(hheaData); err != nil {
		return nil, err
	}

	maxpData := ff.TableData("maxp")
	if maxpData == nil {
		return nil, ErrMalformedFont
	}
	if f.NumGlyphs, err = ParseMaxp(maxpData); err != nil {
		return nil, err
	}

	cmapData := ff.TableData("cmap")
	if cmapData == nil {
		return nil, ErrNoCmap
	}
	if f.Cmap, err = ParseCmap(cmapData); err != nil {
		return nil, err
	}

	f.loca = ff.TableData("loca")
	f.glyf = ff.TableData("glyf")
	f.hmtx = ff.TableData("hmtx")
	if f.loca == nil || f.glyf == nil || f.hmtx == nil {
		return nil, ErrMalformedFont
	}
	return f, nil
}

// GlyphIndex maps a rune to its glyph id, 0 (.notdef) when unmapped.
// Only the BMP is reachable through a format-4 cmap.
func (f *Font) GlyphIndex(r rune) uint16 {
	if r < 0 || r > 0xFFFF {
		return 0
	}
	return f.Cmap.Lookup(uint16(r))
}

// glyphData returns the glyf slice for glyphID, nil for an empty glyph.
func (f *Font) glyphData(glyphID uint16) ([]byte, error) {
	if glyphID >= f.NumGlyphs {
		return nil, nil
	}
	start, end, err := GlyphOffset(f.loca, glyphID, f.Head.IndexToLocFormat)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, nil
	}
	if int(end) > len(f.glyf) || end < start {
		return nil, ErrMalformedFont
	}
	return f.glyf[start:end], nil
}

// OutlineFor resolves glyphID to a flat simple outline, following
// composite component chains and applying each component's offset and
// 2×2 transform. Returns ok=false for empty glyphs.
func (f *Font) OutlineFor(glyphID uint16) (Outline, bool, error) {
	return f.outlineFor(glyphID, 0)
}

// Composite chains in the wild are shallow; the depth cap just stops a
// malformed cyclic chain.
const maxCompositeDepth = 8

func (f *Font) outlineFor(glyphID uint16, depth int) (Outline, bool, error) {
	if depth > maxCompositeDepth {
		return Outline{}, false, ErrMalformedFont
	}
	data, err := f.glyphData(glyphID)
	if err != nil {
		return Outline{}, false, err
	}
	g, err := ParseGlyph(data)
	if err != nil {
		return Outline{}, false, err
	}
	switch g.Kind {
	case GlyphEmpty:
		return Outline{}, false, nil
	case GlyphSimple:
		return g.Outline, true, nil
	}

	var merged Outline
	first := true
	for _, comp := range g.Components {
		sub, ok, err := f.outlineFor(comp.GlyphID, depth+1)
		if err != nil {
			return Outline{}, false, err
		}
		if !ok {
			continue
		}
		for _, contour := range sub.Contours {
			pts := make([]OutlinePoint, len(contour.Points))
			for i, p := range contour.Points {
				x := float64(comp.ScaleX)*float64(p.X) + float64(comp.Scale10)*float64(p.Y) + float64(comp.DX)
				y := float64(comp.Scale01)*float64(p.X) + float64(comp.ScaleY)*float64(p.Y) + float64(comp.DY)
				pts[i] = OutlinePoint{X: int32(x), Y: int32(y), OnCurve: p.OnCurve}
				if first || pts[i].X < int32(merged.XMin) {
					merged.XMin = int16(pts[i].X)
				}
				if first || pts[i].Y < int32(merged.YMin) {
					merged.YMin = int16(pts[i].Y)
				}
				if first || pts[i].X > int32(merged.XMax) {
					merged.XMax = int16(pts[i].X)
				}
				if first || pts[i].Y > int32(merged.YMax) {
					merged.YMax = int16(pts[i].Y)
				}
				first = false
			}
			merged.Contours = append(merged.Contours, Contour{Points: pts})
		}
	}
	if len(merged.Contours) == 0 {
		return Outline{}, false, nil
	}
	return merged, true, nil
}

// HMetrics returns glyphID's advance and left side bearing in font units.
func (f *Font) HMetrics(glyphID uint16) (HMetric, error) {
	return LookupHMetric(f.hmtx, glyphID, f.Hhea.NumHMetrics)
}

// Scale converts font units to pixels at sizePx pixels-per-em.
func (f *Font) Scale(sizePx float64) float64 {
	upm := f.Head.UnitsPerEm
	if upm == 0 {
		upm = 1000
	}
	return sizePx / float64(upm)
}

// LineMetrics returns ascent, descent (negative, per hhea), and line gap
// in pixels at sizePx.
func (f *Font) LineMetrics(sizePx float64) (ascent, descent, lineGap float64) {
	s := f.Scale(sizePx)
	return float64(f.Hhea.Ascender) * s, float64(f.Hhea.Descender) * s, float64(f.Hhea.LineGap) * s
}

// RasterizeGlyph rasterizes glyphID at sizePx, with Advance filled from
// hmtx. An empty glyph (space) yields a zero-size bitmap that still
// carries its advance.
func (f *Font) RasterizeGlyph(glyphID uint16, sizePx float64) (GlyphBitmap, error) {
	m, err := f.HMetrics(glyphID)
	if err != nil {
		return GlyphBitmap{}, err
	}
	advance := float64(m.AdvanceWidth) * f.Scale(sizePx)

	outline, ok, err := f.OutlineFor(glyphID)
	if err != nil {
		return GlyphBitmap{}, err
	}
	if !ok {
		return GlyphBitmap{Advance: advance}, nil
	}
	bmp := Rasterize(&outline, sizePx, f.Head.UnitsPerEm)
	bmp.Advance = advance
	return bmp, nil
}

// CachedGlyph returns the atlas entry for r at sizePx, rasterizing and
// inserting on first use. Returns ok=false when the atlas is full.
func (f *Font) CachedGlyph(r rune, sizePx float64) (AtlasEntry, bool) {
	glyphID := f.GlyphIndex(r)
	key := NewGlyphKey(glyphID, sizePx)
	if e, ok := f.Atlas.Get(key); ok {
		return e, true
	}
	bmp, err := f.RasterizeGlyph(glyphID, sizePx)
	if err != nil {
		return AtlasEntry{}, false
	}
	return f.Atlas.Insert(key, &bmp)
}

// MeasureString sums the cached advances for s at sizePx. Glyphs that
// can't be cached (atlas full) fall back to an en-quad estimate.
func (f *Font) MeasureString(s string, sizePx float64) float64 {
	var w float64
	for _, r := range s {
		if e, ok := f.CachedGlyph(r, sizePx); ok {
			w += e.Advance
		} else {
			w += sizePx * 0.5
		}
	}
	return w
}
