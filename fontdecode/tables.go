// Package fontdecode parses TrueType/OpenType font tables, extracts glyph
// outlines, rasterizes them to coverage bitmaps, and packs the results
// into a skyline-allocated glyph atlas.
//
// The supported table subset is head, hhea, maxp, cmap (format 4), loca,
// glyf, and hmtx — enough to shape and rasterize horizontal Latin text.
package fontdecode

import (
	"encoding/binary"
	"errors"
)

// ErrNotFont is returned when the input doesn't start with a TrueType or
// OpenType sfnt version tag.
var ErrNotFont = errors.New("fontdecode: not a TrueType/OpenType font")

// ErrMalformedFont is returned for structurally invalid table data.
var ErrMalformedFont = errors.New("fontdecode: malformed font table")

// ErrNoCmap is returned when no usable cmap subtable is present.
var ErrNoCmap = errors.New("fontdecode: no format-4 cmap subtable")

// cursor is a bounds-checked big-endian reader over a table slice.
// Reads past the end set err instead of panicking, so callers can do a
// run of reads and check once.
type cursor struct {
	data []byte
	pos  int
	err  error
}

func (c *cursor) skip(n int) {
	if c.err != nil {
		return
	}
	if c.pos+n > len(c.data) {
		c.err = ErrMalformedFont
		return
	}
	c.pos += n
}

func (c *cursor) u8() uint8 {
	if c.err != nil {
		return 0
	}
	if c.pos+1 > len(c.data) {
		c.err = ErrMalformedFont
		return 0
	}
	v := c.data[c.pos]
	c.pos++
	return v
}

func (c *cursor) u16() uint16 {
	if c.err != nil {
		return 0
	}
	if c.pos+2 > len(c.data) {
		c.err = ErrMalformedFont
		return 0
	}
	v := binary.BigEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v
}

func (c *cursor) i16() int16 { return int16(c.u16()) }

func (c *cursor) u32() uint32 {
	if c.err != nil {
		return 0
	}
	if c.pos+4 > len(c.data) {
		c.err = ErrMalformedFont
		return 0
	}
	v := binary.BigEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v
}

func (c *cursor) remaining() int { return len(c.data) - c.pos }

// TableRecord is one entry in the sfnt table directory.
type TableRecord struct {
	Tag    [4]byte
	Offset uint32
	Length uint32
}

// FontFile is a parsed sfnt table directory with access to raw table data.
type FontFile struct {
	Data   []byte
	Tables []TableRecord
}

// ParseFontFile parses the sfnt table directory. Accepts TrueType
// (0x00010000) and OpenType ('OTTO') version tags.
func ParseFontFile(data []byte) (*FontFile, error) {
	c := cursor{data: data}
	version := c.u32()
	if c.err != nil {
		return nil, ErrNotFont
	}
	if version != 0x00010000 && version != 0x4F54544F {
		return nil, ErrNotFont
	}
	numTables := c.u16()
	c.skip(6) // searchRange, entrySelector, rangeShift

	tables := make([]TableRecord, 0, numTables)
	for i := 0; i < int(numTables); i++ {
		var rec TableRecord
		rec.Tag[0], rec.Tag[1], rec.Tag[2], rec.Tag[3] = c.u8(), c.u8(), c.u8(), c.u8()
		c.skip(4) // checksum
		rec.Offset = c.u32()
		rec.Length = c.u32()
		if c.err != nil {
			return nil, ErrMalformedFont
		}
		tables = append(tables, rec)
	}
	return &FontFile{Data: data, Tables: tables}, nil
}

// TableData returns the raw bytes of the table named by tag, or nil if it
// is absent or its declared range lies outside the file.
func (f *FontFile) TableData(tag string) []byte {
	for _, t := range f.Tables {
		if string(t.Tag[:]) == tag {
			start := int(t.Offset)
			end := start + int(t.Length)
			if start < 0 || end > len(f.Data) || end < start {
				return nil
			}
			return f.Data[start:end]
		}
	}
	return nil
}

// Head is the parsed `head` table subset.
type Head struct {
	UnitsPerEm       uint16
	XMin, YMin       int16
	XMax, YMax       int16
	IndexToLocFormat int16 // 0 = short (u16 × 2), 1 = long (u32)
}

// ParseHead parses the `head` table.
func ParseHead(data []byte) (Head, error) {
	c := cursor{data: data}
	c.skip(12) // version, fontRevision, checksumAdjustment
	c.skip(4)  // magic
	c.skip(2)  // flags
	h := Head{UnitsPerEm: c.u16()}
	c.skip(16) // created + modified
	h.XMin = c.i16()
	h.YMin = c.i16()
	h.XMax = c.i16()
	h.YMax = c.i16()
	c.skip(2) // macStyle
	c.skip(2) // lowestRecPPEM
	c.skip(2) // fontDirectionHint
	h.IndexToLocFormat = c.i16()
	if c.err != nil {
		return Head{}, c.err
	}
	return h, nil
}

// Hhea is the parsed `hhea` (horizontal header) table subset.
type Hhea struct {
	Ascender    int16
	Descender   int16
	LineGap     int16
	NumHMetrics uint16
}

// ParseHhea parses the `hhea` table.
func ParseHhea(data []byte) (Hhea, error) {
	c := cursor{data: data}
	c.skip(4) // version
	h := Hhea{
		Ascender:  c.i16(),
		Descender: c.i16(),
		LineGap:   c.i16(),
	}
	c.skip(2)  // advanceWidthMax
	c.skip(22) // min/max extents, caret fields, reserved
	h.NumHMetrics = c.u16()
	if c.err != nil {
		return Hhea{}, c.err
	}
	return h, nil
}

// ParseMaxp returns numGlyphs from the `maxp` table.
func ParseMaxp(data []byte) (uint16, error) {
	c := cursor{data: data}
	c.skip(4) // version
	n := c.u16()
	if c.err != nil {
		return 0, c.err
	}
	return n, nil
}

// Cmap4 is a parsed cmap format-4 subtable: the BMP segment mapping.
type Cmap4 struct {
	SegCount      int
	EndCode       []uint16
	StartCode     []uint16
	IDDelta       []int16
	IDRangeOffset []uint16
	GlyphIDArray  []uint16
}

// ParseCmap finds the best cmap subtable (platform 3 encoding 1 preferred,
// then Unicode platform 0) and parses it. Only format 4 is supported.
func ParseCmap(data []byte) (*Cmap4, error) {
	c := cursor{data: data}
	c.skip(2) // version
	numTables := c.u16()
	if c.err != nil {
		return nil, ErrMalformedFont
	}

	bestOffset := -1
	for i := 0; i < int(numTables); i++ {
		platformID := c.u16()
		encodingID := c.u16()
		offset := c.u32()
		if c.err != nil {
			return nil, ErrMalformedFont
		}
		if platformID == 3 && encodingID == 1 {
			bestOffset = int(offset)
			break
		}
		if platformID == 0 && bestOffset < 0 {
			bestOffset = int(offset)
		}
	}
	if bestOffset < 0 || bestOffset+2 > len(data) {
		return nil, ErrNoCmap
	}
	sub := data[bestOffset:]
	if binary.BigEndian.Uint16(sub) != 4 {
		return nil, ErrNoCmap
	}
	return parseCmap4(sub)
}

func parseCmap4(data []byte) (*Cmap4, error) {
	c := cursor{data: data}
	c.skip(2) // format (= 4)
	length := int(c.u16())
	c.skip(2) // language
	segCount := int(c.u16() / 2)
	c.skip(6) // searchRange, entrySelector, rangeShift

	t := &Cmap4{SegCount: segCount}
	readU16s := func(n int) []uint16 {
		out := make([]uint16, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, c.u16())
		}
		return out
	}
	t.EndCode = readU16s(segCount)
	c.skip(2) // reservedPad
	t.StartCode = readU16s(segCount)
	delta := readU16s(segCount)
	t.IDDelta = make([]int16, segCount)
	for i, v := range delta {
		t.IDDelta[i] = int16(v)
	}
	t.IDRangeOffset = readU16s(segCount)

	if c.err != nil {
		return nil, c.err
	}
	// Remaining bytes up to the declared subtable length are the glyph ID
	// array.
	rem := length - c.pos
	if rem > c.remaining() {
		rem = c.remaining()
	}
	t.GlyphIDArray = readU16s(rem / 2)
	if c.err != nil {
		return nil, c.err
	}
	return t, nil
}

// Lookup maps a BMP codepoint to a glyph id, returning 0 (.notdef) for
// unmapped codepoints. Binary-searches EndCode for the smallest endpoint
// >= codepoint.
//
// When IDRangeOffset is nonzero the index into GlyphIDArray is derived
// with a saturating segCount-i adjustment rather than OpenType's pointer
// arithmetic; fonts exercising that path should be cross-checked against
// a reference renderer.
func (t *Cmap4) Lookup(codepoint uint16) uint16 {
	lo, hi := 0, t.SegCount
	for lo < hi {
		mid := lo + (hi-lo)/2
		if t.EndCode[mid] < codepoint {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= t.SegCount || t.StartCode[lo] > codepoint {
		return 0
	}
	i := lo
	if t.IDRangeOffset[i] == 0 {
		return uint16(int32(codepoint) + int32(t.IDDelta[i]))
	}

	idx := int(t.IDRangeOffset[i])/2 + int(codepoint) - int(t.StartCode[i])
	adjust := t.SegCount - i
	arrayIdx := idx - adjust
	if arrayIdx < 0 {
		arrayIdx = 0
	}
	if arrayIdx < len(t.GlyphIDArray) {
		if gid := t.GlyphIDArray[arrayIdx]; gid != 0 {
			return uint16(int32(gid) + int32(t.IDDelta[i]))
		}
	}
	return 0
}

// GlyphOffset resolves a glyph's byte range within the glyf table from
// the loca table. Short format stores u16 values multiplied by 2; long
// format stores u32 values directly.
func GlyphOffset(loca []byte, glyphID uint16, indexToLocFormat int16) (start, end uint32, err error) {
	c := cursor{data: loca}
	if indexToLocFormat == 0 {
		c.skip(int(glyphID) * 2)
		start = uint32(c.u16()) * 2
		end = uint32(c.u16()) * 2
	} else {
		c.skip(int(glyphID) * 4)
		start = c.u32()
		end = c.u32()
	}
	if c.err != nil {
		return 0, 0, c.err
	}
	return start, end, nil
}

// HMetric is one glyph's horizontal metrics.
type HMetric struct {
	AdvanceWidth    uint16
	LeftSideBearing int16
}

// LookupHMetric returns the horizontal metrics for glyphID. Glyphs past
// numHMetrics share the last advance width and read their side bearing
// from the trailing LSB array.
func LookupHMetric(hmtx []byte, glyphID, numHMetrics uint16) (HMetric, error) {
	if numHMetrics == 0 {
		return HMetric{}, ErrMalformedFont
	}
	c := cursor{data: hmtx}
	if glyphID < numHMetrics {
		c.skip(int(glyphID) * 4)
		m := HMetric{AdvanceWidth: c.u16(), LeftSideBearing: c.i16()}
		if c.err != nil {
			return HMetric{}, c.err
		}
		return m, nil
	}
	c.skip((int(numHMetrics) - 1) * 4)
	advance := c.u16()
	c.skip(2) // last full metric's LSB
	extra := int(glyphID - numHMetrics)
	c.skip(extra * 2)
	lsb := c.i16()
	if c.err != nil {
		return HMetric{}, c.err
	}
	return HMetric{AdvanceWidth: advance, LeftSideBearing: lsb}, nil
}
