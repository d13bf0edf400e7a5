package fontdecode

import (
	"math"
	"sort"
)

// Scanline rasterizer: quadratic Bézier contours are flattened to
// polylines by midpoint-distance subdivision, then each scanline at
// y + 0.5 is intersected with the non-horizontal edges and filled
// between pairs (even-odd), with partial horizontal coverage stored as
// 8-bit alpha.

// GlyphBitmap is a rasterized glyph: a row-major single-channel coverage
// buffer plus the placement metrics paint needs.
type GlyphBitmap struct {
	Width, Height int
	// BearingX is the pixel offset from the pen origin to the bitmap's
	// left edge; BearingY from the baseline up to the bitmap's top edge.
	BearingX int
	BearingY int
	Advance  float64
	Data     []byte
}

type vec2 struct{ x, y float64 }

type edge struct{ x0, y0, x1, y1 float64 }

// flattenQuad subdivides the quadratic Bézier (p0, ctrl, p1) until the
// control point sits within tolerance of the chord midpoint, appending
// the resulting polyline vertices (excluding p0) to out.
func flattenQuad(p0, ctrl, p1 vec2, tolerance float64, out []vec2) []vec2 {
	midX := (p0.x + p1.x) * 0.5
	midY := (p0.y + p1.y) * 0.5
	dx := ctrl.x - midX
	dy := ctrl.y - midY
	if dx*dx+dy*dy <= tolerance*tolerance {
		return append(out, p1)
	}
	p01 := vec2{(p0.x + ctrl.x) * 0.5, (p0.y + ctrl.y) * 0.5}
	p12 := vec2{(ctrl.x + p1.x) * 0.5, (ctrl.y + p1.y) * 0.5}
	p012 := vec2{(p01.x + p12.x) * 0.5, (p01.y + p12.y) * 0.5}
	out = flattenQuad(p0, p01, p012, tolerance, out)
	return flattenQuad(p012, p12, p1, tolerance, out)
}

const flattenTolerance = 0.25

// contourToPolyline resolves a TrueType contour into an explicit closed
// polyline in bitmap space. Consecutive off-curve points imply an
// on-curve midpoint between them; a contour that starts off-curve is
// rotated to start at its first explicit or implicit on-curve point.
func contourToPolyline(pts []OutlinePoint, transform func(OutlinePoint) vec2) []vec2 {
	n := len(pts)
	if n < 2 {
		return nil
	}

	// Expand implicit on-curve midpoints so every curve is an explicit
	// (on, off, on) triple or an (on, on) line.
	expanded := make([]struct {
		p       vec2
		onCurve bool
	}, 0, n*2)
	for i := 0; i < n; i++ {
		cur, next := pts[i], pts[(i+1)%n]
		expanded = append(expanded, struct {
			p       vec2
			onCurve bool
		}{transform(cur), cur.OnCurve})
		if !cur.OnCurve && !next.OnCurve {
			a, b := transform(cur), transform(next)
			expanded = append(expanded, struct {
				p       vec2
				onCurve bool
			}{vec2{(a.x + b.x) * 0.5, (a.y + b.y) * 0.5}, true})
		}
	}

	// Rotate so the walk starts on-curve. After midpoint expansion at
	// least every other point is on-curve.
	startIdx := -1
	for i, e := range expanded {
		if e.onCurve {
			startIdx = i
			break
		}
	}
	if startIdx < 0 {
		return nil
	}

	m := len(expanded)
	poly := []vec2{expanded[startIdx].p}
	i := startIdx
	for steps := 0; steps < m; {
		cur := expanded[(i)%m]
		next := expanded[(i+1)%m]
		if next.onCurve {
			poly = append(poly, next.p)
			i++
			steps++
			continue
		}
		// next is a control point; the point after it is on-curve by
		// construction.
		end := expanded[(i+2)%m]
		poly = flattenQuad(cur.p, next.p, end.p, flattenTolerance, poly)
		i += 2
		steps += 2
	}
	return poly
}

func outlineEdges(outline *Outline, scale, xOffset, yOffset float64) []edge {
	var edges []edge
	for ci := range outline.Contours {
		pts := outline.Contours[ci].Points
		poly := contourToPolyline(pts, func(p OutlinePoint) vec2 {
			// TrueType y-axis points up; bitmap rows grow downward.
			return vec2{
				x: float64(p.X)*scale + xOffset,
				y: yOffset - float64(p.Y)*scale,
			}
		})
		for j := 0; j < len(poly); j++ {
			p0 := poly[j]
			p1 := poly[(j+1)%len(poly)]
			if math.Abs(p0.y-p1.y) > 1e-3 {
				edges = append(edges, edge{p0.x, p0.y, p1.x, p1.y})
			}
		}
	}
	return edges
}

// Rasterize renders outline at sizePx pixels-per-em into a coverage
// bitmap. The caller fills in Advance from hmtx.
func Rasterize(outline *Outline, sizePx float64, unitsPerEm uint16) GlyphBitmap {
	if unitsPerEm == 0 {
		unitsPerEm = 1000
	}
	scale := sizePx / float64(unitsPerEm)

	glyphW := float64(outline.XMax-outline.XMin) * scale
	glyphH := float64(outline.YMax-outline.YMin) * scale
	if glyphW <= 0 || glyphH <= 0 || len(outline.Contours) == 0 {
		return GlyphBitmap{}
	}

	const padding = 1.0
	w := int(math.Ceil(glyphW + padding*2))
	h := int(math.Ceil(glyphH + padding*2))

	xOffset := -float64(outline.XMin)*scale + padding
	yOffset := float64(outline.YMax)*scale + padding
	edges := outlineEdges(outline, scale, xOffset, yOffset)

	data := make([]byte, w*h)
	var xs []float64
	for row := 0; row < h; row++ {
		scanY := float64(row) + 0.5

		xs = xs[:0]
		for _, e := range edges {
			yTop, yBot := e.y0, e.y1
			if yTop > yBot {
				yTop, yBot = yBot, yTop
			}
			if scanY >= yTop && scanY < yBot {
				t := (scanY - e.y0) / (e.y1 - e.y0)
				xs = append(xs, e.x0+t*(e.x1-e.x0))
			}
		}
		sort.Float64s(xs)

		for i := 0; i+1 < len(xs); i += 2 {
			xStart := math.Min(math.Max(xs[i], 0), float64(w))
			xEnd := math.Min(math.Max(xs[i+1], 0), float64(w))
			colStart := int(math.Floor(xStart))
			colEnd := int(math.Ceil(xEnd))
			if colEnd > w {
				colEnd = w
			}
			for col := colStart; col < colEnd; col++ {
				left := math.Max(xStart, float64(col))
				right := math.Min(xEnd, float64(col)+1)
				coverage := right - left
				if coverage <= 0 {
					continue
				}
				idx := row*w + col
				a := int(data[idx]) + int(coverage*255)
				if a > 255 {
					a = 255
				}
				data[idx] = byte(a)
			}
		}
	}

	return GlyphBitmap{
		Width:    w,
		Height:   h,
		BearingX: int(float64(outline.XMin)*scale - padding),
		BearingY: int(float64(outline.YMax)*scale + padding),
		Data:     data,
	}
}
