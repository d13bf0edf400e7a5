package hpack

// entryOverhead is HPACK's per-entry bookkeeping overhead (RFC 7541 §4.1):
// an entry's size is name_len + value_len + 32.
const entryOverhead = 32

// DynamicTable is the FIFO of recently-seen header fields shared between
// encoder and decoder (RFC 7541 §2.3.2). Index 0 is the most recently
// inserted entry.
type DynamicTable struct {
	entries []HeaderField
	size    int
	maxSize int
}

// NewDynamicTable returns an empty table bounded by maxSize bytes.
func NewDynamicTable(maxSize int) *DynamicTable {
	return &DynamicTable{maxSize: maxSize}
}

func entrySize(f HeaderField) int { return len(f.Name) + len(f.Value) + entryOverhead }

// Len reports the number of entries currently stored.
func (t *DynamicTable) Len() int { return len(t.entries) }

// Size reports the current total size in bytes (RFC 7541 §4.1).
func (t *DynamicTable) Size() int { return t.size }

// Insert adds f to the front of the table, evicting the oldest entries
// (from the back) until the table fits maxSize — an entry larger than
// the whole table results in an empty table (RFC 7541 §4.4).
func (t *DynamicTable) Insert(f HeaderField) {
	sz := entrySize(f)
	for t.size+sz > t.maxSize && len(t.entries) > 0 {
		t.evictOldest()
	}
	if sz > t.maxSize {
		return
	}
	t.entries = append([]HeaderField{f}, t.entries...)
	t.size += sz
}

func (t *DynamicTable) evictOldest() {
	last := t.entries[len(t.entries)-1]
	t.entries = t.entries[:len(t.entries)-1]
	t.size -= entrySize(last)
}

// Get returns the entry at dynamic index i (0-based, most-recent-first).
func (t *DynamicTable) Get(i int) (HeaderField, bool) {
	if i < 0 || i >= len(t.entries) {
		return HeaderField{}, false
	}
	return t.entries[i], true
}

// SetMaxSize resizes the table, evicting from the back until the new
// bound is satisfied (RFC 7541 §4.3).
func (t *DynamicTable) SetMaxSize(maxSize int) {
	t.maxSize = maxSize
	for t.size > t.maxSize && len(t.entries) > 0 {
		t.evictOldest()
	}
}

// Lookup resolves a combined static+dynamic index (1-based, per RFC 7541
// §2.3.3: indices 1..61 are static, 62.. are dynamic).
func Lookup(dyn *DynamicTable, index uint64) (HeaderField, bool) {
	if index == 0 {
		return HeaderField{}, false
	}
	if index <= uint64(StaticTableSize) {
		return staticTable[index-1], true
	}
	return dyn.Get(int(index) - StaticTableSize - 1)
}
