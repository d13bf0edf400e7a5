package fontdecode

// Skyline-packed glyph atlas: a single-channel coverage texture with a
// cache keyed by (glyph id, size in 1/64 px). All mutation must be
// sequenced by the caller; there is no internal locking.

type skylineNode struct {
	x, y, width int
}

// SkylineAllocator packs rectangles into a fixed-size bin by maintaining
// a monotonic staircase of (x, y, width) segments. Allocation picks the
// lowest fitting y, breaking ties by minimum wasted area beneath the box.
type SkylineAllocator struct {
	width, height int
	skyline       []skylineNode
}

// NewSkylineAllocator returns an empty allocator for a width×height bin.
func NewSkylineAllocator(width, height int) *SkylineAllocator {
	return &SkylineAllocator{
		width:   width,
		height:  height,
		skyline: []skylineNode{{x: 0, y: 0, width: width}},
	}
}

// Allocate finds room for a w×h rectangle and returns its top-left
// corner. A zero-area request trivially succeeds at (0, 0). Returns
// ok=false when the atlas is full.
func (s *SkylineAllocator) Allocate(w, h int) (x, y int, ok bool) {
	if w == 0 || h == 0 {
		return 0, 0, true
	}

	bestIdx := -1
	bestY := int(^uint(0) >> 1)
	bestWaste := int(^uint(0) >> 1)
	for i := range s.skyline {
		if fitY, waste, fits := s.fit(i, w, h); fits {
			if fitY < bestY || (fitY == bestY && waste < bestWaste) {
				bestIdx, bestY, bestWaste = i, fitY, waste
			}
		}
	}
	if bestIdx < 0 {
		return 0, 0, false
	}

	x = s.skyline[bestIdx].x
	y = bestY
	if x+w > s.width || y+h > s.height {
		return 0, 0, false
	}

	// Shrink or remove the nodes the new rectangle covers, then insert
	// its own top edge and merge equal-height neighbors.
	rightEdge := x + w
	j := bestIdx
	for j < len(s.skyline) {
		node := s.skyline[j]
		if node.x >= rightEdge {
			break
		}
		nodeRight := node.x + node.width
		if nodeRight > rightEdge {
			s.skyline[j] = skylineNode{x: rightEdge, y: node.y, width: nodeRight - rightEdge}
			break
		}
		s.skyline = append(s.skyline[:j], s.skyline[j+1:]...)
	}
	s.skyline = append(s.skyline, skylineNode{})
	copy(s.skyline[bestIdx+1:], s.skyline[bestIdx:])
	s.skyline[bestIdx] = skylineNode{x: x, y: y + h, width: w}
	s.merge()

	return x, y, true
}

// fit reports the y at which a w×h box starting at node idx would sit —
// the max y over the nodes it covers — plus the wasted area beneath it.
func (s *SkylineAllocator) fit(idx, w, h int) (y, waste int, ok bool) {
	x := s.skyline[idx].x
	if x+w > s.width {
		return 0, 0, false
	}
	remaining := w
	i := idx
	for remaining > 0 && i < len(s.skyline) {
		node := s.skyline[i]
		if node.y > y {
			covered := remaining
			if node.width < covered {
				covered = node.width
			}
			waste += (node.y - y) * covered
			y = node.y
		}
		if y+h > s.height {
			return 0, 0, false
		}
		remaining -= node.width
		i++
	}
	if remaining > 0 {
		return 0, 0, false
	}
	return y, waste, true
}

func (s *SkylineAllocator) merge() {
	i := 0
	for i+1 < len(s.skyline) {
		if s.skyline[i].y == s.skyline[i+1].y {
			s.skyline[i].width += s.skyline[i+1].width
			s.skyline = append(s.skyline[:i+1], s.skyline[i+2:]...)
		} else {
			i++
		}
	}
}

// AtlasEntry locates one cached glyph within the atlas texture and
// carries its placement metrics.
type AtlasEntry struct {
	U, V, W, H int
	BearingX   int
	BearingY   int
	Advance    float64
}

// GlyphKey identifies a cached glyph: id plus size in 1/64-pixel units,
// so sub-pixel sizes get distinct cache slots.
type GlyphKey struct {
	GlyphID uint16
	Size64  uint32
}

// NewGlyphKey quantizes sizePx to 1/64 px.
func NewGlyphKey(glyphID uint16, sizePx float64) GlyphKey {
	return GlyphKey{GlyphID: glyphID, Size64: uint32(sizePx * 64)}
}

// GlyphAtlas is a coverage texture holding rasterized glyphs, with a
// skyline allocator and an entry cache.
type GlyphAtlas struct {
	Pixels        []byte
	Width, Height int
	// Dirty is set whenever Pixels changed since the last texture upload;
	// the embedder clears it after uploading.
	Dirty bool

	alloc   *SkylineAllocator
	entries map[GlyphKey]AtlasEntry
}

// NewGlyphAtlas returns an empty width×height atlas.
func NewGlyphAtlas(width, height int) *GlyphAtlas {
	return &GlyphAtlas{
		Pixels:  make([]byte, width*height),
		Width:   width,
		Height:  height,
		alloc:   NewSkylineAllocator(width, height),
		entries: make(map[GlyphKey]AtlasEntry),
	}
}

// Get returns the cached entry for key, if present.
func (a *GlyphAtlas) Get(key GlyphKey) (AtlasEntry, bool) {
	e, ok := a.entries[key]
	return e, ok
}

// Insert copies bitmap into the atlas and caches an entry for key.
// Re-inserting a cached key returns the existing entry. Returns ok=false
// when the atlas has no room; the caller must then evict or grow.
func (a *GlyphAtlas) Insert(key GlyphKey, bitmap *GlyphBitmap) (AtlasEntry, bool) {
	if e, ok := a.entries[key]; ok {
		return e, true
	}
	if bitmap.Width == 0 || bitmap.Height == 0 {
		e := AtlasEntry{BearingX: bitmap.BearingX, BearingY: bitmap.BearingY, Advance: bitmap.Advance}
		a.entries[key] = e
		return e, true
	}

	x, y, ok := a.alloc.Allocate(bitmap.Width, bitmap.Height)
	if !ok {
		return AtlasEntry{}, false
	}
	for row := 0; row < bitmap.Height; row++ {
		src := bitmap.Data[row*bitmap.Width : (row+1)*bitmap.Width]
		dst := (y+row)*a.Width + x
		copy(a.Pixels[dst:dst+bitmap.Width], src)
	}

	e := AtlasEntry{
		U: x, V: y, W: bitmap.Width, H: bitmap.Height,
		BearingX: bitmap.BearingX,
		BearingY: bitmap.BearingY,
		Advance:  bitmap.Advance,
	}
	a.entries[key] = e
	a.Dirty = true
	return e, true
}

// Clear drops every cached glyph and zeroes the texture.
func (a *GlyphAtlas) Clear() {
	a.alloc = NewSkylineAllocator(a.Width, a.Height)
	for i := range a.Pixels {
		a.Pixels[i] = 0
	}
	a.entries = make(map[GlyphKey]AtlasEntry)
	a.Dirty = true
}
