// Package xcrypto implements the cryptographic primitives the TLS 1.3 core
// needs: SHA-256, HMAC-SHA-256, HKDF-SHA-256, AES block cipher, and
// AES-GCM, plus the constant-time comparison helpers they all share.
//
// All error signalling on MAC/tag failure collapses to a single opaque
// sentinel error — no position information about where bytes differed is
// ever leaked.
package xcrypto

// CTEqual reports whether a and b have equal length and identical
// contents. Slices of different lengths return false at once; for equal
// lengths it scans every byte, so timing does not depend on the position
// of the first mismatch.
func CTEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var x byte
	for i := range a {
		x |= a[i] ^ b[i]
	}
	return x == 0
}

// CTSelectByte returns a if choice == 0, or b if choice == 1. choice must
// be 0 or 1.
func CTSelectByte(a, b, choice byte) byte {
	mask := -choice // 0x00 if choice==0, 0xFF if choice==1
	return a ^ (mask & (a ^ b))
}

// CTCopyIf copies src into dst iff choice == 1, without branching on
// choice. dst and src must have equal length. choice must be 0 or 1.
func CTCopyIf(dst, src []byte, choice byte) {
	if len(dst) != len(src) {
		panic("xcrypto: CTCopyIf length mismatch")
	}
	mask := -choice
	for i := range dst {
		dst[i] ^= mask & (dst[i] ^ src[i])
	}
}

// CTIsZero reports whether every byte of data is zero, scanning the whole
// slice regardless of where a nonzero byte is found.
func CTIsZero(data []byte) bool {
	var acc byte
	for _, b := range data {
		acc |= b
	}
	return acc == 0
}
