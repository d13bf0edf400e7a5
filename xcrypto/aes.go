package xcrypto

import (
	"encoding/binary"
	"errors"
)

// ErrInvalidAESKeyLength is returned by NewAESKeySchedule for any key
// length other than 16 (AES-128) or 32 (AES-256) bytes.
var ErrInvalidAESKeyLength = errors.New("xcrypto: AES key must be 16 or 32 bytes")

// aesSBox is the AES forward S-box (FIPS 197).
var aesSBox = [256]byte{
	0x63, 0x7c, 0x77, 0x7b, 0xf2, 0x6b, 0x6f, 0xc5, 0x30, 0x01, 0x67, 0x2b, 0xfe, 0xd7, 0xab, 0x76,
	0xca, 0x82, 0xc9, 0x7d, 0xfa, 0x59, 0x47, 0xf0, 0xad, 0xd4, 0xa2, 0xaf, 0x9c, 0xa4, 0x72, 0xc0,
	0xb7, 0xfd, 0x93, 0x26, 0x36, 0x3f, 0xf7, 0xcc, 0x34, 0xa5, 0xe5, 0xf1, 0x71, 0xd8, 0x31, 0x15,
	0x04, 0xc7, 0x23, 0xc3, 0x18, 0x96, 0x05, 0x9a, 0x07, 0x12, 0x80, 0xe2, 0xeb, 0x27, 0xb2, 0x75,
	0x09, 0x83, 0x2c, 0x1a, 0x1b, 0x6e, 0x5a, 0xa0, 0x52, 0x3b, 0xd6, 0xb3, 0x29, 0xe3, 0x2f, 0x84,
	0x53, 0xd1, 0x00, 0xed, 0x20, 0xfc, 0xb1, 0x5b, 0x6a, 0xcb, 0xbe, 0x39, 0x4a, 0x4c, 0x58, 0xcf,
	0xd0, 0xef, 0xaa, 0xfb, 0x43, 0x4d, 0x33, 0x85, 0x45, 0xf9, 0x02, 0x7f, 0x50, 0x3c, 0x9f, 0xa8,
	0x51, 0xa3, 0x40, 0x8f, 0x92, 0x9d, 0x38, 0xf5, 0xbc, 0xb6, 0xda, 0x21, 0x10, 0xff, 0xf3, 0xd2,
	0xcd, 0x0c, 0x13, 0xec, 0x5f, 0x97, 0x44, 0x17, 0xc4, 0xa7, 0x7e, 0x3d, 0x64, 0x5d, 0x19, 0x73,
	0x60, 0x81, 0x4f, 0xdc, 0x22, 0x2a, 0x90, 0x88, 0x46, 0xee, 0xb8, 0x14, 0xde, 0x5e, 0x0b, 0xdb,
	0xe0, 0x32, 0x3a, 0x0a, 0x49, 0x06, 0x24, 0x5c, 0xc2, 0xd3, 0xac, 0x62, 0x91, 0x95, 0xe4, 0x79,
	0xe7, 0xc8, 0x37, 0x6d, 0x8d, 0xd5, 0x4e, 0xa9, 0x6c, 0x56, 0xf4, 0xea, 0x65, 0x7a, 0xae, 0x08,
	0xba, 0x78, 0x25, 0x2e, 0x1c, 0xa6, 0xb4, 0xc6, 0xe8, 0xdd, 0x74, 0x1f, 0x4b, 0xbd, 0x8b, 0x8a,
	0x70, 0x3e, 0xb5, 0x66, 0x48, 0x03, 0xf6, 0x0e, 0x61, 0x35, 0x57, 0xb9, 0x86, 0xc1, 0x1d, 0x9e,
	0xe1, 0xf8, 0x98, 0x11, 0x69, 0xd9, 0x8e, 0x94, 0x9b, 0x1e, 0x87, 0xe9, 0xce, 0x55, 0x28, 0xdf,
	0x8c, 0xa1, 0x89, 0x0d, 0xbf, 0xe6, 0x42, 0x68, 0x41, 0x99, 0x2d, 0x0f, 0xb0, 0x54, 0xbb, 0x16,
}

// aesInvSBox is the AES inverse S-box.
var aesInvSBox = [256]byte{
	0x52, 0x09, 0x6a, 0xd5, 0x30, 0x36, 0xa5, 0x38, 0xbf, 0x40, 0xa3, 0x9e, 0x81, 0xf3, 0xd7, 0xfb,
	0x7c, 0xe3, 0x39, 0x82, 0x9b, 0x2f, 0xff, 0x87, 0x34, 0x8e, 0x43, 0x44, 0xc4, 0xde, 0xe9, 0xcb,
	0x54, 0x7b, 0x94, 0x32, 0xa6, 0xc2, 0x23, 0x3d, 0xee, 0x4c, 0x95, 0x0b, 0x42, 0xfa, 0xc3, 0x4e,
	0x08, 0x2e, 0xa1, 0x66, 0x28, 0xd9, 0x24, 0xb2, 0x76, 0x5b, 0xa2, 0x49, 0x6d, 0x8b, 0xd1, 0x25,
	0x72, 0xf8, 0xf6, 0x64, 0x86, 0x68, 0x98, 0x16, 0xd4, 0xa4, 0x5c, 0xcc, 0x5d, 0x65, 0xb6, 0x92,
	0x6c, 0x70, 0x48, 0x50, 0xfd, 0xed, 0xb9, 0xda, 0x5e, 0x15, 0x46, 0x57, 0xa7, 0x8d, 0x9d, 0x84,
	0x90, 0xd8, 0xab, 0x00, 0x8c, 0xbc, 0xd3, 0x0a, 0xf7, 0xe4, 0x58, 0x05, 0xb8, 0xb3, 0x45, 0x06,
	0xd0, 0x2c, 0x1e, 0x8f, 0xca, 0x3f, 0x0f, 0x02, 0xc1, 0xaf, 0xbd, 0x03, 0x01, 0x13, 0x8a, 0x6b,
	0x3a, 0x91, 0x11, 0x41, 0x4f, 0x67, 0xdc, 0xea, 0x97, 0xf2, 0xcf, 0xce, 0xf0, 0xb4, 0xe6, 0x73,
	0x96, 0xac, 0x74, 0x22, 0xe7, 0xad, 0x35, 0x85, 0xe2, 0xf9, 0x37, 0xe8, 0x1c, 0x75, 0xdf, 0x6e,
	0x47, 0xf1, 0x1a, 0x71, 0x1d, 0x29, 0xc5, 0x89, 0x6f, 0xb7, 0x62, 0x0e, 0xaa, 0x18, 0xbe, 0x1b,
	0xfc, 0x56, 0x3e, 0x4b, 0xc6, 0xd2, 0x79, 0x20, 0x9a, 0xdb, 0xc0, 0xfe, 0x78, 0xcd, 0x5a, 0xf4,
	0x1f, 0xdd, 0xa8, 0x33, 0x88, 0x07, 0xc7, 0x31, 0xb1, 0x12, 0x10, 0x59, 0x27, 0x80, 0xec, 0x5f,
	0x60, 0x51, 0x7f, 0xa9, 0x19, 0xb5, 0x4a, 0x0d, 0x2d, 0xe5, 0x7a, 0x9f, 0x93, 0xc9, 0x9c, 0xef,
	0xa0, 0xe0, 0x3b, 0x4d, 0xae, 0x2a, 0xf5, 0xb0, 0xc8, 0xeb, 0xbb, 0x3c, 0x83, 0x53, 0x99, 0x61,
	0x17, 0x2b, 0x04, 0x7e, 0xba, 0x77, 0xd6, 0x26, 0xe1, 0x69, 0x14, 0x63, 0x55, 0x21, 0x0c, 0x7d,
}

var aesRcon = [11]byte{0x00, 0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}

// AESKeySchedule holds the expanded round keys for AES-128 or AES-256.
type AESKeySchedule struct {
	nr        int // 10 for AES-128, 14 for AES-256
	roundKeys [60]uint32
}

// NewAESKeySchedule expands a 16- or 32-byte key into round keys per
// FIPS 197.
func NewAESKeySchedule(key []byte) (*AESKeySchedule, error) {
	var nk, nr int
	switch len(key) {
	case 16:
		nk, nr = 4, 10
	case 32:
		nk, nr = 8, 14
	default:
		return nil, ErrInvalidAESKeyLength
	}

	totalWords := 4 * (nr + 1)
	var w [60]uint32
	for i := 0; i < nk; i++ {
		w[i] = binary.BigEndian.Uint32(key[4*i:])
	}
	for i := nk; i < totalWords; i++ {
		temp := w[i-1]
		switch {
		case i%nk == 0:
			temp = subWord(rotWord(temp)) ^ (uint32(aesRcon[i/nk]) << 24)
		case nk > 6 && i%nk == 4:
			temp = subWord(temp)
		}
		w[i] = w[i-nk] ^ temp
	}
	return &AESKeySchedule{nr: nr, roundKeys: w}, nil
}

func (s *AESKeySchedule) roundKey(round int) [4]uint32 {
	base := round * 4
	return [4]uint32{s.roundKeys[base], s.roundKeys[base+1], s.roundKeys[base+2], s.roundKeys[base+3]}
}

func subWord(w uint32) uint32 {
	b0 := uint32(aesSBox[(w>>24)&0xff])
	b1 := uint32(aesSBox[(w>>16)&0xff])
	b2 := uint32(aesSBox[(w>>8)&0xff])
	b3 := uint32(aesSBox[w&0xff])
	return b0<<24 | b1<<16 | b2<<8 | b3
}

func rotWord(w uint32) uint32 {
	return (w << 8) | (w >> 24)
}

func blockToState(block *[16]byte) [4]uint32 {
	return [4]uint32{
		binary.BigEndian.Uint32(block[0:4]),
		binary.BigEndian.Uint32(block[4:8]),
		binary.BigEndian.Uint32(block[8:12]),
		binary.BigEndian.Uint32(block[12:16]),
	}
}

func stateToBlock(state *[4]uint32, block *[16]byte) {
	for col := 0; col < 4; col++ {
		binary.BigEndian.PutUint32(block[col*4:], state[col])
	}
}

func subBytesState(state *[4]uint32) {
	for i := range state {
		state[i] = subWord(state[i])
	}
}

func invSubBytesState(state *[4]uint32) {
	for i, col := range state {
		b0 := uint32(aesInvSBox[(col>>24)&0xff])
		b1 := uint32(aesInvSBox[(col>>16)&0xff])
		b2 := uint32(aesInvSBox[(col>>8)&0xff])
		b3 := uint32(aesInvSBox[col&0xff])
		state[i] = b0<<24 | b1<<16 | b2<<8 | b3
	}
}

func getByte(col uint32, row uint) byte {
	return byte((col >> (24 - row*8)) & 0xff)
}

func setByte(row uint, val byte) uint32 {
	return uint32(val) << (24 - row*8)
}

func shiftRows(state *[4]uint32) {
	var tmp [4]uint32
	for col := 0; col < 4; col++ {
		tmp[col] = setByte(0, getByte(state[col], 0)) |
			setByte(1, getByte(state[(col+1)%4], 1)) |
			setByte(2, getByte(state[(col+2)%4], 2)) |
			setByte(3, getByte(state[(col+3)%4], 3))
	}
	*state = tmp
}

func invShiftRows(state *[4]uint32) {
	var tmp [4]uint32
	for col := 0; col < 4; col++ {
		tmp[col] = setByte(0, getByte(state[col], 0)) |
			setByte(1, getByte(state[(col+3)%4], 1)) |
			setByte(2, getByte(state[(col+2)%4], 2)) |
			setByte(3, getByte(state[(col+1)%4], 3))
	}
	*state = tmp
}

func xtime(a byte) byte {
	shifted := uint16(a) << 1
	if a&0x80 != 0 {
		shifted ^= 0x1b
	}
	return byte(shifted)
}

func gmul(a, b byte) byte {
	var result byte
	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			result ^= a
		}
		a = xtime(a)
		b >>= 1
	}
	return result
}

func mixColumns(state *[4]uint32) {
	for i, col := range state {
		s0, s1, s2, s3 := getByte(col, 0), getByte(col, 1), getByte(col, 2), getByte(col, 3)
		r0 := gmul(0x02, s0) ^ gmul(0x03, s1) ^ s2 ^ s3
		r1 := s0 ^ gmul(0x02, s1) ^ gmul(0x03, s2) ^ s3
		r2 := s0 ^ s1 ^ gmul(0x02, s2) ^ gmul(0x03, s3)
		r3 := gmul(0x03, s0) ^ s1 ^ s2 ^ gmul(0x02, s3)
		state[i] = setByte(0, r0) | setByte(1, r1) | setByte(2, r2) | setByte(3, r3)
	}
}

func invMixColumns(state *[4]uint32) {
	for i, col := range state {
		s0, s1, s2, s3 := getByte(col, 0), getByte(col, 1), getByte(col, 2), getByte(col, 3)
		r0 := gmul(0x0e, s0) ^ gmul(0x0b, s1) ^ gmul(0x0d, s2) ^ gmul(0x09, s3)
		r1 := gmul(0x09, s0) ^ gmul(0x0e, s1) ^ gmul(0x0b, s2) ^ gmul(0x0d, s3)
		r2 := gmul(0x0d, s0) ^ gmul(0x09, s1) ^ gmul(0x0e, s2) ^ gmul(0x0b, s3)
		r3 := gmul(0x0b, s0) ^ gmul(0x0d, s1) ^ gmul(0x09, s2) ^ gmul(0x0e, s3)
		state[i] = setByte(0, r0) | setByte(1, r1) | setByte(2, r2) | setByte(3, r3)
	}
}

func addRoundKey(state *[4]uint32, rk [4]uint32) {
	for i := 0; i < 4; i++ {
		state[i] ^= rk[i]
	}
}

// AESEncryptBlock encrypts block in place under sched.
func AESEncryptBlock(sched *AESKeySchedule, block *[16]byte) {
	state := blockToState(block)
	addRoundKey(&state, sched.roundKey(0))
	for round := 1; round < sched.nr; round++ {
		subBytesState(&state)
		shiftRows(&state)
		mixColumns(&state)
		addRoundKey(&state, sched.roundKey(round))
	}
	subBytesState(&state)
	shiftRows(&state)
	addRoundKey(&state, sched.roundKey(sched.nr))
	stateToBlock(&state, block)
}

// AESDecryptBlock decrypts block in place under sched.
func AESDecryptBlock(sched *AESKeySchedule, block *[16]byte) {
	state := blockToState(block)
	addRoundKey(&state, sched.roundKey(sched.nr))
	for round := sched.nr - 1; round >= 1; round-- {
		invShiftRows(&state)
		invSubBytesState(&state)
		addRoundKey(&state, sched.roundKey(round))
		invMixColumns(&state)
	}
	invShiftRows(&state)
	invSubBytesState(&state)
	addRoundKey(&state, sched.roundKey(0))
	stateToBlock(&state, block)
}
