package fontdecode

import (
	"math"
	"testing"
)

func TestFlattenQuadStraight(t *testing.T) {
	// Control point on the chord: flat immediately, single endpoint.
	out := flattenQuad(vec2{0, 0}, vec2{5, 5}, vec2{10, 10}, 0.5, nil)
	if len(out) != 1 {
		t.Fatalf("segments = %d, want 1", len(out))
	}
	if math.Abs(out[0].x-10) > 0.01 || math.Abs(out[0].y-10) > 0.01 {
		t.Fatalf("endpoint = %+v, want (10, 10)", out[0])
	}
}

func TestFlattenQuadCurved(t *testing.T) {
	out := flattenQuad(vec2{0, 0}, vec2{50, 100}, vec2{100, 0}, 0.5, nil)
	if len(out) <= 2 {
		t.Fatalf("segments = %d, want > 2 for a curved arc", len(out))
	}
	last := out[len(out)-1]
	if math.Abs(last.x-100) > 0.01 || math.Abs(last.y) > 0.01 {
		t.Fatalf("endpoint = %+v, want (100, 0)", last)
	}
}

func TestRasterizeEmptyOutline(t *testing.T) {
	bmp := Rasterize(&Outline{}, 16, 1000)
	if bmp.Width != 0 || bmp.Height != 0 || len(bmp.Data) != 0 {
		t.Fatalf("bitmap = %dx%d with %d bytes, want empty", bmp.Width, bmp.Height, len(bmp.Data))
	}
}

func squareOutline(size int16) Outline {
	pts := []OutlinePoint{
		{X: 0, Y: 0, OnCurve: true},
		{X: int32(size), Y: 0, OnCurve: true},
		{X: int32(size), Y: int32(size), OnCurve: true},
		{X: 0, Y: int32(size), OnCurve: true},
	}
	return Outline{
		Contours: []Contour{{Points: pts}},
		XMax:     size, YMax: size,
	}
}

func TestRasterizeSquareInteriorOpaque(t *testing.T) {
	// A 500-unit square at 1000 upm and 16 px: an 8 px filled box. The
	// center pixels must be fully covered, the corners of the padded
	// bitmap empty.
	outline := squareOutline(500)
	bmp := Rasterize(&outline, 16, 1000)
	if bmp.Width == 0 || bmp.Height == 0 {
		t.Fatal("expected non-empty bitmap")
	}
	cx, cy := bmp.Width/2, bmp.Height/2
	if got := bmp.Data[cy*bmp.Width+cx]; got != 255 {
		t.Fatalf("center coverage = %d, want 255", got)
	}
	if got := bmp.Data[0]; got != 0 {
		t.Fatalf("padding corner coverage = %d, want 0", got)
	}
}

func TestRasterizeSquareEdgeAntialiased(t *testing.T) {
	// A 525-unit-wide square at 16 px is 8.4 px wide: the right edge
	// lands mid-column, so that column must hold partial coverage.
	pts := []OutlinePoint{
		{X: 0, Y: 0, OnCurve: true},
		{X: 525, Y: 0, OnCurve: true},
		{X: 525, Y: 500, OnCurve: true},
		{X: 0, Y: 500, OnCurve: true},
	}
	outline := Outline{
		Contours: []Contour{{Points: pts}},
		XMax:     525, YMax: 500,
	}
	bmp := Rasterize(&outline, 16, 1000)
	partial := false
	for _, a := range bmp.Data {
		if a > 0 && a < 255 {
			partial = true
			break
		}
	}
	if !partial {
		t.Fatal("expected at least one partially covered pixel on the edge")
	}
}

func TestRasterizeCurvedContour(t *testing.T) {
	// Half-disc: an on-curve baseline with one off-curve control pulling
	// the top edge into an arc. Coverage must appear between the chord
	// and the arc.
	pts := []OutlinePoint{
		{X: 0, Y: 0, OnCurve: true},
		{X: 600, Y: 0, OnCurve: true},
		{X: 300, Y: 800, OnCurve: false},
	}
	outline := Outline{
		Contours: []Contour{{Points: pts}},
		XMax:     600, YMax: 400,
	}
	bmp := Rasterize(&outline, 24, 1000)
	var filled int
	for _, a := range bmp.Data {
		if a > 0 {
			filled++
		}
	}
	if filled == 0 {
		t.Fatal("expected coverage inside the curved contour")
	}
}

func TestContourStartingOffCurve(t *testing.T) {
	// A contour whose first point is off-curve: the polyline walk must
	// rotate to an on-curve start instead of dropping the contour.
	pts := []OutlinePoint{
		{X: 300, Y: 800, OnCurve: false},
		{X: 0, Y: 0, OnCurve: true},
		{X: 600, Y: 0, OnCurve: true},
	}
	poly := contourToPolyline(pts, func(p OutlinePoint) vec2 {
		return vec2{float64(p.X), float64(p.Y)}
	})
	if len(poly) < 3 {
		t.Fatalf("polyline has %d points, want >= 3", len(poly))
	}
}

func TestContourAllOffCurve(t *testing.T) {
	// All off-curve points (a TrueType circle approximation): implicit
	// midpoints supply the on-curve starts.
	pts := []OutlinePoint{
		{X: 0, Y: 500, OnCurve: false},
		{X: 500, Y: 1000, OnCurve: false},
		{X: 1000, Y: 500, OnCurve: false},
		{X: 500, Y: 0, OnCurve: false},
	}
	poly := contourToPolyline(pts, func(p OutlinePoint) vec2 {
		return vec2{float64(p.X), float64(p.Y)}
	})
	if len(poly) < 4 {
		t.Fatalf("polyline has %d points, want >= 4", len(poly))
	}
}
