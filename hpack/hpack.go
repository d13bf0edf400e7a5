package hpack

import "fmt"

// Debug enables verbose logging of decoded header field representations,
// following the package-wide convention used across this module.
var Debug = false

func debugf(format string, args ...any) {
	if Debug {
		fmt.Printf("hpack: "+format+"\n", args...)
	}
}

// representation is the first-byte pattern of an HPACK header field
// representation, RFC 7541 §6.
type representation int

const (
	reprIndexed representation = iota
	reprLiteralIncremental
	reprLiteralWithoutIndexing
	reprLiteralNeverIndexed
	reprDynamicTableSizeUpdate
)

func classify(b byte) representation {
	switch {
	case b&0x80 != 0:
		return reprIndexed
	case b&0x40 != 0:
		return reprLiteralIncremental
	case b&0x20 != 0:
		return reprDynamicTableSizeUpdate
	case b&0x10 != 0:
		return reprLiteralNeverIndexed
	default:
		return reprLiteralWithoutIndexing
	}
}

// Decoder decodes HPACK header blocks against a per-connection dynamic
// table, as carried in HEADERS/CONTINUATION frame payloads.
type Decoder struct {
	dyn *DynamicTable
}

// NewDecoder returns a Decoder whose dynamic table is bounded by maxSize
// bytes (the peer's SETTINGS_HEADER_TABLE_SIZE).
func NewDecoder(maxSize int) *Decoder {
	return &Decoder{dyn: NewDynamicTable(maxSize)}
}

// DynamicTable exposes the decoder's table, mainly for tests.
func (d *Decoder) DynamicTable() *DynamicTable { return d.dyn }

// Decode parses a complete header block into an ordered list of fields.
func (d *Decoder) Decode(data []byte) ([]HeaderField, error) {
	var fields []HeaderField
	for len(data) > 0 {
		repr := classify(data[0])
		switch repr {
		case reprIndexed:
			idx, n, err := DecodeInt(data, 7)
			if err != nil {
				return nil, err
			}
			if idx == 0 {
				return nil, fmt.Errorf("hpack: indexed field with index 0")
			}
			f, ok := Lookup(d.dyn, idx)
			if !ok {
				return nil, fmt.Errorf("hpack: index %d out of range", idx)
			}
			fields = append(fields, f)
			data = data[n:]
		case reprDynamicTableSizeUpdate:
			size, n, err := DecodeInt(data, 5)
			if err != nil {
				return nil, err
			}
			d.dyn.SetMaxSize(int(size))
			data = data[n:]
		default:
			prefixBits := uint(6)
			if repr == reprLiteralWithoutIndexing || repr == reprLiteralNeverIndexed {
				prefixBits = 4
			}
			idx, n, err := DecodeInt(data, prefixBits)
			if err != nil {
				return nil, err
			}
			data = data[n:]
			var name string
			if idx == 0 {
				name, data, err = decodeString(data)
				if err != nil {
					return nil, err
				}
			} else {
				f, ok := Lookup(d.dyn, idx)
				if !ok {
					return nil, fmt.Errorf("hpack: index %d out of range", idx)
				}
				name = f.Name
			}
			var value string
			value, data, err = decodeString(data)
			if err != nil {
				return nil, err
			}
			field := HeaderField{Name: name, Value: value}
			fields = append(fields, field)
			if repr == reprLiteralIncremental {
				d.dyn.Insert(field)
			}
			debugf("field %s: %s (repr=%d)", field.Name, field.Value, repr)
		}
	}
	return fields, nil
}

// decodeString reads a length-prefixed, optionally Huffman-coded string
// (RFC 7541 §5.2) from the front of data, returning the remaining bytes.
func decodeString(data []byte) (string, []byte, error) {
	if len(data) == 0 {
		return "", nil, errIncomplete
	}
	huff := data[0]&0x80 != 0
	length, n, err := DecodeInt(data, 7)
	if err != nil {
		return "", nil, err
	}
	data = data[n:]
	if uint64(len(data)) < length {
		return "", nil, errIncomplete
	}
	raw := data[:length]
	rest := data[length:]
	if !huff {
		return string(raw), rest, nil
	}
	s, err := HuffmanDecode(raw)
	if err != nil {
		return "", nil, err
	}
	return s, rest, nil
}

// Encoder emits HPACK header blocks, tracking its own copy of the
// dynamic table so that indices it emits match what the peer's decoder
// will reconstruct.
type Encoder struct {
	dyn        *DynamicTable
	useHuffman bool
	neverIndex map[string]bool
}

// NewEncoder returns an Encoder whose dynamic table is bounded by
// maxSize bytes. Huffman coding of literal strings is enabled by
// default.
func NewEncoder(maxSize int) *Encoder {
	return &Encoder{dyn: NewDynamicTable(maxSize), useHuffman: true, neverIndex: map[string]bool{}}
}

// SetHuffman toggles Huffman coding of literal name/value strings.
func (e *Encoder) SetHuffman(on bool) { e.useHuffman = on }

// MarkNeverIndexed marks a header name (e.g. "authorization") as
// sensitive: its values are always emitted with the never-indexed
// literal representation and never enter the dynamic table.
func (e *Encoder) MarkNeverIndexed(name string) { e.neverIndex[name] = true }

// Encode appends the HPACK encoding of fields to dst.
func (e *Encoder) Encode(dst []byte, fields []HeaderField) []byte {
	for _, f := range fields {
		dst = e.encodeField(dst, f)
	}
	return dst
}

func (e *Encoder) encodeField(dst []byte, f HeaderField) []byte {
	if idx, exact := e.findIndex(f); exact {
		return EncodeInt(dst, 0x80, 7, uint64(idx))
	}
	if e.neverIndex[f.Name] {
		dst = e.encodeNameValue(dst, f, 0x10, 4)
		return dst
	}
	nameIdx, _ := e.findNameIndex(f.Name)
	if nameIdx > 0 {
		dst = EncodeInt(dst, 0x40, 6, uint64(nameIdx))
	} else {
		dst = EncodeInt(dst, 0x40, 6, 0)
		dst = e.encodeString(dst, f.Name)
	}
	dst = e.encodeString(dst, f.Value)
	e.dyn.Insert(f)
	return dst
}

func (e *Encoder) encodeNameValue(dst []byte, f HeaderField, prefixByte byte, n uint) []byte {
	nameIdx, _ := e.findNameIndex(f.Name)
	if nameIdx > 0 {
		dst = EncodeInt(dst, prefixByte, n, uint64(nameIdx))
	} else {
		dst = EncodeInt(dst, prefixByte, n, 0)
		dst = e.encodeString(dst, f.Name)
	}
	return e.encodeString(dst, f.Value)
}

func (e *Encoder) encodeString(dst []byte, s string) []byte {
	if !e.useHuffman {
		dst = EncodeInt(dst, 0x00, 7, uint64(len(s)))
		return append(dst, s...)
	}
	encLen := HuffmanEncodedLen(s)
	if encLen >= len(s) {
		dst = EncodeInt(dst, 0x00, 7, uint64(len(s)))
		return append(dst, s...)
	}
	dst = EncodeInt(dst, 0x80, 7, uint64(encLen))
	return HuffmanEncode(dst, s)
}

// findIndex returns the combined static+dynamic index of an exact
// (name, value) match, if any.
func (e *Encoder) findIndex(f HeaderField) (int, bool) {
	for i, sf := range staticTable {
		if sf == f {
			return i + 1, true
		}
	}
	for i := 0; i < e.dyn.Len(); i++ {
		df, _ := e.dyn.Get(i)
		if df == f {
			return StaticTableSize + i + 1, true
		}
	}
	return 0, false
}

// findNameIndex returns the combined index of any entry whose name
// matches, preferring the static table.
func (e *Encoder) findNameIndex(name string) (int, bool) {
	for i, sf := range staticTable {
		if sf.Name == name {
			return i + 1, true
		}
	}
	for i := 0; i < e.dyn.Len(); i++ {
		df, _ := e.dyn.Get(i)
		if df.Name == name {
			return StaticTableSize + i + 1, true
		}
	}
	return 0, false
}
