package fontdecode

import "testing"

func TestSkylineAllocatorPacksLeftToRight(t *testing.T) {
	alloc := NewSkylineAllocator(256, 256)
	x, y, ok := alloc.Allocate(10, 10)
	if !ok || x != 0 || y != 0 {
		t.Fatalf("first allocation = (%d, %d, %v), want (0, 0, true)", x, y, ok)
	}
	x, y, ok = alloc.Allocate(10, 10)
	if !ok || x != 10 || y != 0 {
		t.Fatalf("second allocation = (%d, %d, %v), want (10, 0, true)", x, y, ok)
	}
}

func TestSkylineAllocatorExactFillThenReject(t *testing.T) {
	alloc := NewSkylineAllocator(16, 16)
	x, y, ok := alloc.Allocate(16, 16)
	if !ok || x != 0 || y != 0 {
		t.Fatalf("full-size allocation = (%d, %d, %v), want (0, 0, true)", x, y, ok)
	}
	if _, _, ok := alloc.Allocate(1, 1); ok {
		t.Fatal("1x1 allocation in a full atlas should fail")
	}
}

func TestSkylineAllocatorZeroSize(t *testing.T) {
	alloc := NewSkylineAllocator(256, 256)
	x, y, ok := alloc.Allocate(0, 0)
	if !ok || x != 0 || y != 0 {
		t.Fatalf("zero-size allocation = (%d, %d, %v), want (0, 0, true)", x, y, ok)
	}
}

func TestSkylineAllocatorOversized(t *testing.T) {
	alloc := NewSkylineAllocator(64, 64)
	if _, _, ok := alloc.Allocate(65, 1); ok {
		t.Fatal("allocation wider than the atlas should fail")
	}
	if _, _, ok := alloc.Allocate(1, 65); ok {
		t.Fatal("allocation taller than the atlas should fail")
	}
}

func TestSkylineAllocatorFillsGapsByLowestY(t *testing.T) {
	// A tall box then a short one leave a step; the next short box must
	// land in the low gap to the right, not on top of the tall column.
	alloc := NewSkylineAllocator(64, 64)
	alloc.Allocate(16, 32)
	x, y, ok := alloc.Allocate(16, 8)
	if !ok || x != 16 || y != 0 {
		t.Fatalf("second allocation = (%d, %d, %v), want (16, 0, true)", x, y, ok)
	}
	x, y, ok = alloc.Allocate(16, 8)
	if !ok || x != 32 || y != 0 {
		t.Fatalf("third allocation = (%d, %d, %v), want (32, 0, true)", x, y, ok)
	}
}

func TestGlyphAtlasInsertAndGet(t *testing.T) {
	atlas := NewGlyphAtlas(256, 256)
	key := NewGlyphKey(42, 16)
	bmp := GlyphBitmap{
		Width: 8, Height: 10,
		BearingX: 1, BearingY: 9,
		Advance: 8.5,
		Data:    make([]byte, 80),
	}
	for i := range bmp.Data {
		bmp.Data[i] = 128
	}

	e, ok := atlas.Insert(key, &bmp)
	if !ok {
		t.Fatal("insert failed")
	}
	if e.W != 8 || e.H != 10 || e.BearingX != 1 || e.Advance != 8.5 {
		t.Fatalf("entry = %+v", e)
	}
	if !atlas.Dirty {
		t.Fatal("atlas should be dirty after insert")
	}
	got, ok := atlas.Get(key)
	if !ok || got != e {
		t.Fatalf("Get = (%+v, %v), want cached entry", got, ok)
	}
	// Pixel copy landed at (U, V).
	if atlas.Pixels[e.V*atlas.Width+e.U] != 128 {
		t.Fatal("bitmap pixels not copied into the atlas")
	}
}

func TestGlyphAtlasDuplicateInsert(t *testing.T) {
	atlas := NewGlyphAtlas(256, 256)
	key := NewGlyphKey(1, 12)
	bmp := GlyphBitmap{Width: 5, Height: 5, Advance: 5, Data: make([]byte, 25)}

	e1, _ := atlas.Insert(key, &bmp)
	e2, _ := atlas.Insert(key, &bmp)
	if e1.U != e2.U || e1.V != e2.V {
		t.Fatalf("duplicate insert moved the glyph: (%d,%d) vs (%d,%d)", e1.U, e1.V, e2.U, e2.V)
	}
}

func TestGlyphAtlasZeroSizeBitmapStillCaches(t *testing.T) {
	// A space glyph has no pixels but its advance must survive caching.
	atlas := NewGlyphAtlas(64, 64)
	key := NewGlyphKey(3, 14)
	bmp := GlyphBitmap{Advance: 7.25}
	e, ok := atlas.Insert(key, &bmp)
	if !ok || e.Advance != 7.25 || e.W != 0 {
		t.Fatalf("entry = (%+v, %v)", e, ok)
	}
	if _, ok := atlas.Get(key); !ok {
		t.Fatal("zero-size glyph not cached")
	}
}

func TestGlyphAtlasClear(t *testing.T) {
	atlas := NewGlyphAtlas(64, 64)
	key := NewGlyphKey(1, 12)
	bmp := GlyphBitmap{Width: 5, Height: 5, Data: make([]byte, 25)}
	for i := range bmp.Data {
		bmp.Data[i] = 255
	}
	atlas.Insert(key, &bmp)
	atlas.Clear()

	if _, ok := atlas.Get(key); ok {
		t.Fatal("entry survived Clear")
	}
	for i, p := range atlas.Pixels {
		if p != 0 {
			t.Fatalf("pixel %d = %d after Clear, want 0", i, p)
		}
	}
	// Space is reusable again.
	if x, y, ok := atlas.alloc.Allocate(64, 64); !ok || x != 0 || y != 0 {
		t.Fatalf("post-Clear allocation = (%d, %d, %v)", x, y, ok)
	}
}

func TestGlyphKeyQuantization(t *testing.T) {
	if NewGlyphKey(10, 16) != NewGlyphKey(10, 16) {
		t.Fatal("equal keys differ")
	}
	if NewGlyphKey(10, 16) == NewGlyphKey(10, 17) {
		t.Fatal("distinct sizes collide")
	}
	if got := NewGlyphKey(10, 16).Size64; got != 1024 {
		t.Fatalf("Size64 = %d, want 1024", got)
	}
}
