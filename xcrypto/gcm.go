package xcrypto

import (
	"encoding/binary"
	"errors"
)

// ErrAuthFailed is the single opaque error returned when an AES-GCM tag
// fails to verify. It carries no information about which byte differed.
var ErrAuthFailed = errors.New("xcrypto: authentication failed")

// ErrInvalidNonceLength is returned when the IV passed to Seal/Open is not
// 12 bytes, the only nonce length this implementation supports (NIST SP
// 800-38D's recommended 96-bit IV construction).
var ErrInvalidNonceLength = errors.New("xcrypto: AES-GCM requires a 12-byte IV")

const gcmBlockSize = 16

// gcmReductionByte is the leading byte of R = 0xe1 followed by 15 zero
// bytes, representing the GCM reduction polynomial x^128+x^7+x^2+x+1 in
// SP 800-38D's bit ordering.
const gcmReductionByte = 0xe1

// ghashMul multiplies X and Y in GF(2^128) under the GCM reduction
// polynomial, treating both operands as 128-bit values with bit 0 the MSB
// of byte 0 (NIST SP 800-38D's bit ordering).
func ghashMul(x, y [16]byte) [16]byte {
	var z [16]byte
	v := y
	for i := 0; i < 128; i++ {
		byteIdx := i / 8
		bitIdx := uint(7 - i%8)
		if (x[byteIdx]>>bitIdx)&1 == 1 {
			for b := 0; b < 16; b++ {
				z[b] ^= v[b]
			}
		}
		lsb := v[15] & 1
		// right shift v by 1 bit across all 16 bytes
		for b := 15; b > 0; b-- {
			v[b] = (v[b] >> 1) | (v[b-1] << 7)
		}
		v[0] >>= 1
		if lsb == 1 {
			v[0] ^= gcmReductionByte
		}
	}
	return z
}

// ghash computes GHASH_H(A || C) per SP 800-38D §6.4: process AAD blocks
// (zero-padded), then ciphertext blocks (zero-padded), then one final
// block encoding the bit lengths of each.
func ghash(h [16]byte, aad, ciphertext []byte) [16]byte {
	var y [16]byte
	absorb := func(data []byte) {
		for len(data) > 0 {
			var block [16]byte
			n := copy(block[:], data)
			data = data[n:]
			for b := 0; b < 16; b++ {
				y[b] ^= block[b]
			}
			y = ghashMul(h, y)
		}
	}
	absorb(aad)
	absorb(ciphertext)

	var lenBlock [16]byte
	binary.BigEndian.PutUint64(lenBlock[0:8], uint64(len(aad))*8)
	binary.BigEndian.PutUint64(lenBlock[8:16], uint64(len(ciphertext))*8)
	for b := 0; b < 16; b++ {
		y[b] ^= lenBlock[b]
	}
	return ghashMul(h, y)
}

func incr32(block *[16]byte) {
	ctr := binary.BigEndian.Uint32(block[12:16])
	ctr++
	binary.BigEndian.PutUint32(block[12:16], ctr)
}

// gctr implements the GCTR function: encrypt icb, icb+1, icb+2, ... and
// XOR each keystream block with the corresponding input block.
func gctr(sched *AESKeySchedule, icb [16]byte, input []byte) []byte {
	out := make([]byte, len(input))
	counter := icb
	for off := 0; off < len(input); off += gcmBlockSize {
		keystream := counter
		AESEncryptBlock(sched, &keystream)
		end := off + gcmBlockSize
		if end > len(input) {
			end = len(input)
		}
		for i := off; i < end; i++ {
			out[i] = input[i] ^ keystream[i-off]
		}
		incr32(&counter)
	}
	return out
}

// GCMSeal encrypts plaintext under key/iv with AEAD authentication over
// aad, per NIST SP 800-38D. iv must be 12 bytes. It returns
// ciphertext || 16-byte tag.
func GCMSeal(key, iv, plaintext, aad []byte) ([]byte, error) {
	if len(iv) != 12 {
		return nil, ErrInvalidNonceLength
	}
	sched, err := NewAESKeySchedule(key)
	if err != nil {
		return nil, err
	}

	var zero, h [16]byte
	h = zero
	AESEncryptBlock(sched, &h)

	var j0 [16]byte
	copy(j0[:12], iv)
	j0[15] = 1

	icb := j0
	incr32(&icb)
	ciphertext := gctr(sched, icb, plaintext)

	s := ghash(h, aad, ciphertext)
	ek := j0
	AESEncryptBlock(sched, &ek)
	var tag [16]byte
	for i := 0; i < 16; i++ {
		tag[i] = s[i] ^ ek[i]
	}

	out := make([]byte, 0, len(ciphertext)+16)
	out = append(out, ciphertext...)
	out = append(out, tag[:]...)
	return out, nil
}

// GCMOpen decrypts ciphertextAndTag (ciphertext with a trailing 16-byte
// tag) under key/iv, authenticating aad. The tag is verified in constant
// time before any plaintext is produced or returned; on mismatch it
// returns ErrAuthFailed and no plaintext.
func GCMOpen(key, iv, ciphertextAndTag, aad []byte) ([]byte, error) {
	if len(iv) != 12 {
		return nil, ErrInvalidNonceLength
	}
	if len(ciphertextAndTag) < 16 {
		return nil, ErrAuthFailed
	}
	ciphertext := ciphertextAndTag[:len(ciphertextAndTag)-16]
	wantTag := ciphertextAndTag[len(ciphertextAndTag)-16:]

	sched, err := NewAESKeySchedule(key)
	if err != nil {
		return nil, err
	}

	var zero, h [16]byte
	h = zero
	AESEncryptBlock(sched, &h)

	var j0 [16]byte
	copy(j0[:12], iv)
	j0[15] = 1

	s := ghash(h, aad, ciphertext)
	ek := j0
	AESEncryptBlock(sched, &ek)
	var tag [16]byte
	for i := 0; i < 16; i++ {
		tag[i] = s[i] ^ ek[i]
	}

	if !CTEqual(tag[:], wantTag) {
		return nil, ErrAuthFailed
	}

	icb := j0
	incr32(&icb)
	return gctr(sched, icb, ciphertext), nil
}
