// Package tls13 implements the TLS 1.3 record layer, handshake message
// framing, key schedule, and client state machine described in RFC 8446,
// built on the primitives in xcrypto.
package tls13

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/emberweb/ember/xcrypto"
)

// ContentType identifies the payload carried by a TLS record.
type ContentType uint8

const (
	ContentChangeCipherSpec ContentType = 20
	ContentAlert            ContentType = 21
	ContentHandshake        ContentType = 22
	ContentApplicationData  ContentType = 23
)

func contentTypeFromByte(v byte) (ContentType, bool) {
	switch ContentType(v) {
	case ContentChangeCipherSpec, ContentAlert, ContentHandshake, ContentApplicationData:
		return ContentType(v), true
	default:
		return 0, false
	}
}

// legacyVersion is the wire version TLS 1.3 records carry for
// middlebox compatibility (RFC 8446 §5.1).
var legacyVersion = [2]byte{0x03, 0x03}

// MaxPayload is the largest plaintext record payload (2^14).
const MaxPayload = 16384

// MaxEncrypted is the largest encrypted record payload: plaintext plus
// the inner content-type byte and the 16-byte AEAD tag, rounded up.
const MaxEncrypted = MaxPayload + 256

// Record is a single TLS record, either plaintext or AEAD-sealed.
type Record struct {
	ContentType ContentType
	Version     [2]byte
	Payload     []byte
}

// New returns a Record with the standard legacy wire version.
func New(ct ContentType, payload []byte) Record {
	return Record{ContentType: ct, Version: legacyVersion, Payload: payload}
}

// ErrUnknownContentType is returned when a record header names a content
// type outside the four RFC 8446 values.
var ErrUnknownContentType = errors.New("tls13: unknown record content type")

// ErrRecordTooLarge is returned when a record's declared length exceeds
// MaxEncrypted.
var ErrRecordTooLarge = errors.New("tls13: record too large")

// ReadRecord reads a single 5-byte-header-prefixed record from r.
func ReadRecord(r io.Reader) (Record, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Record{}, err
	}
	ct, ok := contentTypeFromByte(header[0])
	if !ok {
		return Record{}, ErrUnknownContentType
	}
	length := binary.BigEndian.Uint16(header[3:5])
	if int(length) > MaxEncrypted {
		return Record{}, ErrRecordTooLarge
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Record{}, err
	}
	return Record{ContentType: ct, Version: [2]byte{header[1], header[2]}, Payload: payload}, nil
}

// WriteRecord writes rec to w with its 5-byte header.
func WriteRecord(w io.Writer, rec Record) error {
	var header [5]byte
	header[0] = byte(rec.ContentType)
	header[1], header[2] = rec.Version[0], rec.Version[1]
	binary.BigEndian.PutUint16(header[3:5], uint16(len(rec.Payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(rec.Payload)
	return err
}

// MakeNonce XORs seq (big-endian) into the low 8 bytes of iv, producing
// the per-record AEAD nonce (RFC 8446 §5.3).
func MakeNonce(iv [12]byte, seq uint64) [12]byte {
	nonce := iv
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)
	for i := 0; i < 8; i++ {
		nonce[4+i] ^= seqBytes[i]
	}
	return nonce
}

// EncryptRecord seals an inner record (payload || content-type byte)
// into an outer ApplicationData record, per RFC 8446 §5.2.
func EncryptRecord(key []byte, nonce [12]byte, rec Record) (Record, error) {
	inner := append(append([]byte{}, rec.Payload...), byte(rec.ContentType))
	encryptedLen := len(inner) + 16
	aad := []byte{
		byte(ContentApplicationData), 0x03, 0x03,
		byte(encryptedLen >> 8), byte(encryptedLen),
	}
	sealed, err := xcrypto.GCMSeal(key, nonce[:], inner, aad)
	if err != nil {
		return Record{}, err
	}
	return Record{ContentType: ContentApplicationData, Version: legacyVersion, Payload: sealed}, nil
}

// ErrEmptyPlaintext is returned when a decrypted record's inner
// plaintext is empty (so it has no trailing content-type byte).
var ErrEmptyPlaintext = errors.New("tls13: empty decrypted record")

// DecryptRecord opens an encrypted ApplicationData record and restores
// its real inner content type.
func DecryptRecord(key []byte, nonce [12]byte, rec Record) (Record, error) {
	if len(rec.Payload) < 16 {
		return Record{}, xcrypto.ErrAuthFailed
	}
	aad := []byte{
		byte(rec.ContentType), rec.Version[0], rec.Version[1],
		byte(len(rec.Payload) >> 8), byte(len(rec.Payload)),
	}
	inner, err := xcrypto.GCMOpen(key, nonce[:], rec.Payload, aad)
	if err != nil {
		return Record{}, err
	}
	if len(inner) == 0 {
		return Record{}, ErrEmptyPlaintext
	}
	ct, ok := contentTypeFromByte(inner[len(inner)-1])
	if !ok {
		return Record{}, ErrUnknownContentType
	}
	return Record{ContentType: ct, Version: rec.Version, Payload: inner[:len(inner)-1]}, nil
}
