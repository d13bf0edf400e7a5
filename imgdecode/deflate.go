// Package imgdecode implements DEFLATE decompression (RFC 1951) and PNG
// decoding into RGBA8 pixel buffers, with no dependency on the standard
// library's image/compress packages.
package imgdecode

import "errors"

// lengthBase and lengthExtra give the base value and extra-bit count for
// DEFLATE length codes 257..285 (RFC 1951 §3.2.5).
var lengthBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
	35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtra = [29]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
	3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// distBase and distExtra give the base value and extra-bit count for
// distance codes 0..29.
var distBase = [30]uint16{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193,
	257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distExtra = [30]uint8{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6,
	7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

var codeLengthOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// ErrInvalidDeflate is returned for any malformed DEFLATE stream.
var ErrInvalidDeflate = errors.New("imgdecode: invalid deflate stream")

// bitReader reads a DEFLATE bitstream LSB-first, matching RFC 1951 §3.1.1.
type bitReader struct {
	buf    []byte
	pos    int
	bitBuf uint32
	bitLen uint32
}

func newBitReader(buf []byte) *bitReader {
	return &bitReader{buf: buf}
}

func (r *bitReader) fill(n uint32) {
	for r.bitLen < n {
		var b byte
		if r.pos < len(r.buf) {
			b = r.buf[r.pos]
			r.pos++
		}
		r.bitBuf |= uint32(b) << r.bitLen
		r.bitLen += 8
	}
}

func (r *bitReader) readBits(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	r.fill(n)
	val := r.bitBuf & (1<<n - 1)
	r.bitBuf >>= n
	r.bitLen -= n
	return val
}

func (r *bitReader) alignToByte() {
	discard := r.bitLen % 8
	if discard > 0 {
		r.bitBuf >>= discard
		r.bitLen -= discard
	}
}

func (r *bitReader) readByte() byte { return byte(r.readBits(8)) }

func (r *bitReader) readUint16LE() uint16 {
	lo := uint16(r.readBits(8))
	hi := uint16(r.readBits(8))
	return lo | hi<<8
}

// huffmanTable decodes canonical Huffman codes built from a length
// array, using the min-code/symbol-offset approach RFC 1951 §3.2.2
// describes.
type huffmanTable struct {
	minCode   [16]uint32
	symOffset [16]uint16
	symbols   []uint16
	maxBits   uint32
}

func newHuffmanTable(lengths []uint8) (*huffmanTable, error) {
	var maxBits uint8
	for _, l := range lengths {
		if l > maxBits {
			maxBits = l
		}
	}
	if maxBits > 15 {
		return nil, ErrInvalidDeflate
	}

	var blCount [16]uint32
	for _, l := range lengths {
		blCount[l]++
	}
	blCount[0] = 0

	var nextCode [16]uint32
	code := uint32(0)
	for bits := 1; bits <= 15; bits++ {
		code = (code + blCount[bits-1]) << 1
		nextCode[bits] = code
	}

	t := &huffmanTable{maxBits: uint32(maxBits)}
	copy(t.minCode[:], nextCode[:])

	offset := uint16(0)
	for bits := 1; bits <= 15; bits++ {
		t.symOffset[bits] = offset
		for sym, l := range lengths {
			if int(l) == bits {
				t.symbols = append(t.symbols, uint16(sym))
				offset++
			}
		}
	}
	return t, nil
}

func (t *huffmanTable) decode(r *bitReader) (uint16, error) {
	code := uint32(0)
	for bits := uint32(1); bits <= t.maxBits; bits++ {
		code = code<<1 | r.readBits(1)
		var countAtLen uint16
		if bits < 15 {
			countAtLen = t.symOffset[bits+1] - t.symOffset[bits]
		} else {
			countAtLen = uint16(len(t.symbols)) - t.symOffset[bits]
		}
		if code >= t.minCode[bits] && code < t.minCode[bits]+uint32(countAtLen) {
			idx := int(t.symOffset[bits]) + int(code-t.minCode[bits])
			if idx < len(t.symbols) {
				return t.symbols[idx], nil
			}
		}
	}
	return 0, ErrInvalidDeflate
}

func fixedLitTable() *huffmanTable {
	var lengths [288]uint8
	for i := 0; i <= 143; i++ {
		lengths[i] = 8
	}
	for i := 144; i <= 255; i++ {
		lengths[i] = 9
	}
	for i := 256; i <= 279; i++ {
		lengths[i] = 7
	}
	for i := 280; i <= 287; i++ {
		lengths[i] = 8
	}
	t, _ := newHuffmanTable(lengths[:])
	return t
}

func fixedDistTable() *huffmanTable {
	lengths := make([]uint8, 32)
	for i := range lengths {
		lengths[i] = 5
	}
	t, _ := newHuffmanTable(lengths)
	return t
}

// Inflate decompresses a raw DEFLATE stream (RFC 1951), without the
// 2-byte zlib header or trailing Adler-32 checksum PNG's IDAT wraps it
// in — callers strip those first.
func Inflate(compressed []byte) ([]byte, error) {
	r := newBitReader(compressed)
	var output []byte

	for {
		bfinal := r.readBits(1)
		btype := r.readBits(2)

		switch btype {
		case 0:
			r.alignToByte()
			length := r.readUint16LE()
			nlength := r.readUint16LE()
			if length != ^nlength {
				return nil, ErrInvalidDeflate
			}
			for i := uint16(0); i < length; i++ {
				output = append(output, r.readByte())
			}
		case 1:
			out, err := inflateBlock(r, fixedLitTable(), fixedDistTable())
			if err != nil {
				return nil, err
			}
			output = append(output, out...)
		case 2:
			litTable, distTable, err := decodeDynamicTables(r)
			if err != nil {
				return nil, err
			}
			out, err := inflateBlock(r, litTable, distTable)
			if err != nil {
				return nil, err
			}
			output = append(output, out...)
		default:
			return nil, ErrInvalidDeflate
		}

		if bfinal == 1 {
			break
		}
	}
	return output, nil
}

func inflateBlock(r *bitReader, litTable, distTable *huffmanTable) ([]byte, error) {
	var output []byte
	for {
		sym, err := litTable.decode(r)
		if err != nil {
			return nil, err
		}
		switch {
		case sym < 256:
			output = append(output, byte(sym))
		case sym == 256:
			return output, nil
		default:
			lenIdx := int(sym) - 257
			if lenIdx >= len(lengthBase) {
				return nil, ErrInvalidDeflate
			}
			length := int(lengthBase[lenIdx]) + int(r.readBits(uint32(lengthExtra[lenIdx])))

			distCode, err := distTable.decode(r)
			if err != nil {
				return nil, err
			}
			if int(distCode) >= len(distBase) {
				return nil, ErrInvalidDeflate
			}
			distance := int(distBase[distCode]) + int(r.readBits(uint32(distExtra[distCode])))
			if distance > len(output) {
				return nil, ErrInvalidDeflate
			}

			start := len(output) - distance
			for i := 0; i < length; i++ {
				output = append(output, output[start+i%distance])
			}
		}
	}
}

func decodeDynamicTables(r *bitReader) (*huffmanTable, *huffmanTable, error) {
	hlit := int(r.readBits(5)) + 257
	hdist := int(r.readBits(5)) + 1
	hclen := int(r.readBits(4)) + 4

	var clLengths [19]uint8
	for i := 0; i < hclen; i++ {
		clLengths[codeLengthOrder[i]] = uint8(r.readBits(3))
	}
	clTable, err := newHuffmanTable(clLengths[:])
	if err != nil {
		return nil, nil, err
	}

	total := hlit + hdist
	lengths := make([]uint8, 0, total)
	for len(lengths) < total {
		sym, err := clTable.decode(r)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case sym <= 15:
			lengths = append(lengths, uint8(sym))
		case sym == 16:
			if len(lengths) == 0 {
				return nil, nil, ErrInvalidDeflate
			}
			repeat := int(r.readBits(2)) + 3
			prev := lengths[len(lengths)-1]
			for i := 0; i < repeat; i++ {
				lengths = append(lengths, prev)
			}
		case sym == 17:
			repeat := int(r.readBits(3)) + 3
			for i := 0; i < repeat; i++ {
				lengths = append(lengths, 0)
			}
		case sym == 18:
			repeat := int(r.readBits(7)) + 11
			for i := 0; i < repeat; i++ {
				lengths = append(lengths, 0)
			}
		default:
			return nil, nil, ErrInvalidDeflate
		}
	}

	litTable, err := newHuffmanTable(lengths[:hlit])
	if err != nil {
		return nil, nil, err
	}
	distTable, err := newHuffmanTable(lengths[hlit : hlit+hdist])
	if err != nil {
		return nil, nil, err
	}
	return litTable, distTable, nil
}
