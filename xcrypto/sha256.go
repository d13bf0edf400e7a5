package xcrypto

import "encoding/binary"

// sha256InitialHash are the FIPS 180-4 initial hash values H(0).
var sha256InitialHash = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// sha256RoundConstants are the FIPS 180-4 round constants K.
var sha256RoundConstants = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// SHA256Size is the size in bytes of a SHA-256 digest.
const SHA256Size = 32

const sha256BlockSize = 64

// SHA256 is a streaming SHA-256 hasher (FIPS 180-4).
type SHA256 struct {
	h        [8]uint32
	buf      [sha256BlockSize]byte
	buflen   int
	totalLen uint64 // total bytes written
}

// NewSHA256 returns a freshly initialized hasher.
func NewSHA256() *SHA256 {
	s := &SHA256{}
	s.Reset()
	return s
}

// Reset returns the hasher to its initial state.
func (s *SHA256) Reset() {
	s.h = sha256InitialHash
	s.buflen = 0
	s.totalLen = 0
}

// Write feeds more data into the hash. It never returns an error.
func (s *SHA256) Write(p []byte) (int, error) {
	n := len(p)
	s.totalLen += uint64(n)

	if s.buflen > 0 {
		take := sha256BlockSize - s.buflen
		if take > len(p) {
			take = len(p)
		}
		copy(s.buf[s.buflen:], p[:take])
		s.buflen += take
		p = p[take:]
		if s.buflen == sha256BlockSize {
			s.block(s.buf[:])
			s.buflen = 0
		}
	}

	for len(p) >= sha256BlockSize {
		s.block(p[:sha256BlockSize])
		p = p[sha256BlockSize:]
	}

	if len(p) > 0 {
		copy(s.buf[s.buflen:], p)
		s.buflen += len(p)
	}
	return n, nil
}

// Sum256 computes the final digest without mutating the hasher, the way
// FIPS 180-4 finalization pads and appends the bit length.
func (s *SHA256) Sum256() [SHA256Size]byte {
	clone := *s
	return clone.finalize()
}

func (s *SHA256) finalize() [SHA256Size]byte {
	bitLen := s.totalLen * 8

	// Append 0x80, then zero pad until length mod 64 == 56, then the
	// 64-bit big-endian bit count.
	s.Write([]byte{0x80})
	for s.buflen%sha256BlockSize != 56 {
		s.Write([]byte{0x00})
	}
	var lenBytes [8]byte
	binary.BigEndian.PutUint64(lenBytes[:], bitLen)
	s.Write(lenBytes[:])

	var out [SHA256Size]byte
	for i, v := range s.h {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func (s *SHA256) block(block []byte) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(block[i*4:])
	}
	for i := 16; i < 64; i++ {
		s0 := rotr32(w[i-15], 7) ^ rotr32(w[i-15], 18) ^ (w[i-15] >> 3)
		s1 := rotr32(w[i-2], 17) ^ rotr32(w[i-2], 19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, d, e, f, g, h := s.h[0], s.h[1], s.h[2], s.h[3], s.h[4], s.h[5], s.h[6], s.h[7]

	for i := 0; i < 64; i++ {
		S1 := rotr32(e, 6) ^ rotr32(e, 11) ^ rotr32(e, 25)
		ch := (e & f) ^ (^e & g)
		temp1 := h + S1 + ch + sha256RoundConstants[i] + w[i]
		S0 := rotr32(a, 2) ^ rotr32(a, 13) ^ rotr32(a, 22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		temp2 := S0 + maj

		h = g
		g = f
		f = e
		e = d + temp1
		d = c
		c = b
		b = a
		a = temp1 + temp2
	}

	s.h[0] += a
	s.h[1] += b
	s.h[2] += c
	s.h[3] += d
	s.h[4] += e
	s.h[5] += f
	s.h[6] += g
	s.h[7] += h
}

func rotr32(x uint32, n uint) uint32 {
	return (x >> n) | (x << (32 - n))
}

// Sha256Sum computes the SHA-256 digest of data in one call.
func Sha256Sum(data []byte) [SHA256Size]byte {
	s := NewSHA256()
	s.Write(data)
	return s.Sum256()
}
