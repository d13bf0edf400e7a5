package xcrypto

// HMACSHA256 computes HMAC-SHA-256 per RFC 2104/4231.
type HMACSHA256 struct {
	inner *SHA256
	outer *SHA256
	opad  [sha256BlockSize]byte
}

// NewHMACSHA256 derives the block-sized key (hashing long keys, zero
// padding short keys to 64 bytes) and primes the inner hash with
// (K' xor 0x36).
func NewHMACSHA256(key []byte) *HMACSHA256 {
	var k [sha256BlockSize]byte
	if len(key) > sha256BlockSize {
		digest := Sha256Sum(key)
		copy(k[:], digest[:])
	} else {
		copy(k[:], key)
	}

	var ipad [sha256BlockSize]byte
	h := &HMACSHA256{inner: NewSHA256(), outer: NewSHA256()}
	for i := 0; i < sha256BlockSize; i++ {
		ipad[i] = k[i] ^ 0x36
		h.opad[i] = k[i] ^ 0x5c
	}
	h.inner.Write(ipad[:])
	return h
}

// Write feeds more message bytes into the inner hash.
func (h *HMACSHA256) Write(p []byte) (int, error) {
	return h.inner.Write(p)
}

// Sum finalizes: outer = SHA256((K' xor 0x5c) || inner-digest).
func (h *HMACSHA256) Sum() [SHA256Size]byte {
	innerDigest := h.inner.Sum256()
	h.outer.Write(h.opad[:])
	h.outer.Write(innerDigest[:])
	return h.outer.Sum256()
}

// HMACSum256 computes HMAC-SHA-256(key, message) in one call.
func HMACSum256(key, message []byte) [SHA256Size]byte {
	h := NewHMACSHA256(key)
	h.Write(message)
	return h.Sum()
}
