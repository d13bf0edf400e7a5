package fontdecode

import "testing"

func TestParseGlyphEmpty(t *testing.T) {
	g, err := ParseGlyph(nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.Kind != GlyphEmpty {
		t.Fatalf("kind = %v, want GlyphEmpty", g.Kind)
	}
}

// encodeTriangle builds a one-contour simple glyph with three on-curve
// points: (0,0), (500,0), (250,500).
func encodeTriangle() []byte {
	var data []byte
	data = append(data, be16(1)...) // numberOfContours
	data = append(data, be16(0)...) // xMin
	data = append(data, be16(0)...) // yMin
	data = append(data, be16(500)...)
	data = append(data, be16(500)...)
	data = append(data, be16(2)...) // endPtsOfContours[0]
	data = append(data, be16(0)...) // instructionLength
	data = append(data,
		flagOnCurvePoint|flagXSameOrPosShort|flagYSameOrPosShort, // (0,0): both deltas zero
		flagOnCurvePoint|flagYSameOrPosShort,                     // dx=+500 as i16, dy zero
		flagOnCurvePoint,                                         // dx=-250, dy=+500 as i16
	)
	data = append(data, be16(500)...)
	data = append(data, be16(uint16(0x10000-250))...) // -250
	data = append(data, be16(500)...)
	return data
}

func TestParseGlyphSimpleTriangle(t *testing.T) {
	g, err := ParseGlyph(encodeTriangle())
	if err != nil {
		t.Fatal(err)
	}
	if g.Kind != GlyphSimple {
		t.Fatalf("kind = %v, want GlyphSimple", g.Kind)
	}
	if len(g.Outline.Contours) != 1 {
		t.Fatalf("contours = %d, want 1", len(g.Outline.Contours))
	}
	pts := g.Outline.Contours[0].Points
	want := []OutlinePoint{
		{X: 0, Y: 0, OnCurve: true},
		{X: 500, Y: 0, OnCurve: true},
		{X: 250, Y: 500, OnCurve: true},
	}
	if len(pts) != len(want) {
		t.Fatalf("points = %d, want %d", len(pts), len(want))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, pts[i], want[i])
		}
	}
}

func TestParseGlyphRepeatFlag(t *testing.T) {
	// Four points all sharing one flag byte via REPEAT_FLAG: a square
	// with 100-unit sides, every delta an i16 pair.
	var data []byte
	data = append(data, be16(1)...)
	data = append(data, be16(0)...)
	data = append(data, be16(0)...)
	data = append(data, be16(100)...)
	data = append(data, be16(100)...)
	data = append(data, be16(3)...) // endPts
	data = append(data, be16(0)...) // instructions
	data = append(data, flagOnCurvePoint|flagRepeat, 3)
	for _, d := range []int16{0, 100, 0, -100} { // x deltas
		data = append(data, be16(uint16(d))...)
	}
	for _, d := range []int16{0, 0, 100, 0} { // y deltas
		data = append(data, be16(uint16(d))...)
	}

	g, err := ParseGlyph(data)
	if err != nil {
		t.Fatal(err)
	}
	pts := g.Outline.Contours[0].Points
	if len(pts) != 4 {
		t.Fatalf("points = %d, want 4", len(pts))
	}
	if pts[3] != (OutlinePoint{X: 0, Y: 100, OnCurve: true}) {
		t.Fatalf("point 3 = %+v", pts[3])
	}
}

func TestParseGlyphComposite(t *testing.T) {
	var data []byte
	data = append(data, be16(uint16(0xFFFF))...) // numberOfContours = -1
	data = append(data, be16(0)...)
	data = append(data, be16(0)...)
	data = append(data, be16(0)...)
	data = append(data, be16(0)...)
	// Component 1: word args, more components follow.
	data = append(data, be16(compArg1And2AreWords|0x0002|compMoreComponents)...)
	data = append(data, be16(5)...) // glyphID
	data = append(data, be16(300)...)
	data = append(data, be16(uint16(0x10000-50))...) // dy = -50
	// Component 2: byte args, simple scale 0.5 (= 0x2000 in F2Dot14).
	data = append(data, be16(0x0002|compWeHaveAScale)...)
	data = append(data, be16(6)...)
	data = append(data, 10, 20)
	data = append(data, be16(0x2000)...)

	g, err := ParseGlyph(data)
	if err != nil {
		t.Fatal(err)
	}
	if g.Kind != GlyphComposite {
		t.Fatalf("kind = %v, want GlyphComposite", g.Kind)
	}
	if len(g.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(g.Components))
	}
	c0, c1 := g.Components[0], g.Components[1]
	if c0.GlyphID != 5 || c0.DX != 300 || c0.DY != -50 || c0.ScaleX != 1 {
		t.Fatalf("component 0 = %+v", c0)
	}
	if c1.GlyphID != 6 || c1.DX != 10 || c1.DY != 20 || c1.ScaleX != 0.5 || c1.ScaleY != 0.5 {
		t.Fatalf("component 1 = %+v", c1)
	}
}

func TestParseGlyphTruncated(t *testing.T) {
	data := encodeTriangle()
	if _, err := ParseGlyph(data[:len(data)-3]); err == nil {
		t.Fatal("expected error for truncated glyph data")
	}
}
