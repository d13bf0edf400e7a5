package xcrypto

import "errors"

// ErrHKDFLengthTooLarge is returned by Expand when the requested output
// length exceeds 255 * SHA256Size, the bound imposed by RFC 5869.
var ErrHKDFLengthTooLarge = errors.New("xcrypto: hkdf expand length exceeds 255*HashLen")

// HKDFExtract implements RFC 5869 step 1: PRK = HMAC-Hash(salt, IKM). A
// nil or empty salt is replaced with a string of HashLen zero bytes.
func HKDFExtract(salt, ikm []byte) [SHA256Size]byte {
	if len(salt) == 0 {
		salt = make([]byte, SHA256Size)
	}
	return HMACSum256(salt, ikm)
}

// HKDFExpand implements RFC 5869 step 2, producing length bytes of output
// keying material. It fails if length exceeds 255*SHA256Size.
func HKDFExpand(prk []byte, info []byte, length int) ([]byte, error) {
	if length > 255*SHA256Size {
		return nil, ErrHKDFLengthTooLarge
	}
	out := make([]byte, 0, length)
	var t []byte
	counter := byte(1)
	for len(out) < length {
		h := NewHMACSHA256(prk)
		h.Write(t)
		h.Write(info)
		h.Write([]byte{counter})
		sum := h.Sum()
		t = sum[:]
		out = append(out, t...)
		counter++
	}
	return out[:length], nil
}

// HKDF performs extract-then-expand in one call.
func HKDF(salt, ikm, info []byte, length int) ([]byte, error) {
	prk := HKDFExtract(salt, ikm)
	return HKDFExpand(prk[:], info, length)
}
