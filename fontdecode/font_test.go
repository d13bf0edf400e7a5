package fontdecode

import "testing"

// buildTestFont assembles a complete two-glyph font: glyph 0 is .notdef
// (empty), glyph 1 is the triangle from glyph_test.go, mapped from 'A'.
func buildTestFont(t *testing.T) []byte {
	t.Helper()

	head := make([]byte, 54)
	copy(head[18:], be16(1000)) // unitsPerEm
	copy(head[50:], be16(0))    // short loca

	hhea := make([]byte, 36)
	copy(hhea[4:], be16(800))                // ascender
	copy(hhea[6:], be16(uint16(0x10000-200))) // descender -200
	copy(hhea[34:], be16(2))                 // numHMetrics

	maxp := make([]byte, 6)
	copy(maxp[4:], be16(2)) // numGlyphs

	cmap := buildCmap4(
		[]uint16{0x41, 0xFFFF},
		[]uint16{0x41, 0xFFFF},
		[]int16{-0x40, 1},
		[]uint16{0, 0},
		nil,
	)

	glyf := encodeTriangle()
	if len(glyf)%2 != 0 {
		glyf = append(glyf, 0)
	}

	var loca []byte
	loca = append(loca, be16(0)...)                    // glyph 0 start
	loca = append(loca, be16(0)...)                    // glyph 0 end / glyph 1 start
	loca = append(loca, be16(uint16(len(glyf)/2))...)  // glyph 1 end

	var hmtx []byte
	hmtx = append(hmtx, be16(500)...)
	hmtx = append(hmtx, be16(0)...)
	hmtx = append(hmtx, be16(600)...)
	hmtx = append(hmtx, be16(0)...)

	tables := []struct {
		tag  string
		data []byte
	}{
		{"cmap", cmap},
		{"glyf", glyf},
		{"head", head},
		{"hhea", hhea},
		{"hmtx", hmtx},
		{"loca", loca},
		{"maxp", maxp},
	}

	var out []byte
	out = append(out, be32(0x00010000)...)
	out = append(out, be16(uint16(len(tables)))...)
	out = append(out, be16(0)...)
	out = append(out, be16(0)...)
	out = append(out, be16(0)...)

	offset := 12 + 16*len(tables)
	for _, tb := range tables {
		out = append(out, tb.tag...)
		out = append(out, be32(0)...) // checksum
		out = append(out, be32(uint32(offset))...)
		out = append(out, be32(uint32(len(tb.data)))...)
		offset += len(tb.data)
	}
	for _, tb := range tables {
		out = append(out, tb.data...)
	}
	return out
}

func TestParseFont(t *testing.T) {
	f, err := ParseFont(buildTestFont(t))
	if err != nil {
		t.Fatal(err)
	}
	if f.Head.UnitsPerEm != 1000 {
		t.Fatalf("UnitsPerEm = %d, want 1000", f.Head.UnitsPerEm)
	}
	if f.NumGlyphs != 2 {
		t.Fatalf("NumGlyphs = %d, want 2", f.NumGlyphs)
	}
	if got := f.GlyphIndex('A'); got != 1 {
		t.Fatalf("GlyphIndex('A') = %d, want 1", got)
	}
	if got := f.GlyphIndex('B'); got != 0 {
		t.Fatalf("GlyphIndex('B') = %d, want 0 (.notdef)", got)
	}
}

func TestParseFontMissingTable(t *testing.T) {
	var data []byte
	data = append(data, be32(0x00010000)...)
	data = append(data, be16(0)...)
	data = append(data, be16(0)...)
	data = append(data, be16(0)...)
	data = append(data, be16(0)...)
	if _, err := ParseFont(data); err == nil {
		t.Fatal("expected error for a font with no tables")
	}
}

func TestFontLineMetrics(t *testing.T) {
	f, err := ParseFont(buildTestFont(t))
	if err != nil {
		t.Fatal(err)
	}
	ascent, descent, gap := f.LineMetrics(20)
	if ascent != 16 || descent != -4 || gap != 0 {
		t.Fatalf("LineMetrics = (%v, %v, %v), want (16, -4, 0)", ascent, descent, gap)
	}
}

func TestFontRasterizeGlyph(t *testing.T) {
	f, err := ParseFont(buildTestFont(t))
	if err != nil {
		t.Fatal(err)
	}
	bmp, err := f.RasterizeGlyph(1, 16)
	if err != nil {
		t.Fatal(err)
	}
	if bmp.Width == 0 || bmp.Height == 0 {
		t.Fatal("triangle glyph rasterized to an empty bitmap")
	}
	if bmp.Advance != 600*16.0/1000 {
		t.Fatalf("advance = %v, want 9.6", bmp.Advance)
	}
	var filled int
	for _, a := range bmp.Data {
		if a > 0 {
			filled++
		}
	}
	if filled == 0 {
		t.Fatal("no coverage in the rasterized triangle")
	}

	// .notdef is empty but still carries its advance.
	empty, err := f.RasterizeGlyph(0, 16)
	if err != nil {
		t.Fatal(err)
	}
	if empty.Width != 0 || empty.Advance != 500*16.0/1000 {
		t.Fatalf("empty glyph = %dx%d advance %v", empty.Width, empty.Height, empty.Advance)
	}
}

func TestFontCachedGlyph(t *testing.T) {
	f, err := ParseFont(buildTestFont(t))
	if err != nil {
		t.Fatal(err)
	}
	e1, ok := f.CachedGlyph('A', 16)
	if !ok {
		t.Fatal("CachedGlyph failed")
	}
	e2, ok := f.CachedGlyph('A', 16)
	if !ok || e1 != e2 {
		t.Fatalf("second lookup = (%+v, %v), want the cached entry", e2, ok)
	}
	if !f.Atlas.Dirty {
		t.Fatal("atlas should be dirty after first rasterization")
	}
}

func TestFontMeasureString(t *testing.T) {
	f, err := ParseFont(buildTestFont(t))
	if err != nil {
		t.Fatal(err)
	}
	want := 2 * 600 * 16.0 / 1000
	if got := f.MeasureString("AA", 16); got != want {
		t.Fatalf("MeasureString = %v, want %v", got, want)
	}
}
