package tls13

import "encoding/binary"

// HandshakeType identifies a handshake message (RFC 8446 §4).
type HandshakeType uint8

const (
	HandshakeClientHello         HandshakeType = 1
	HandshakeServerHello         HandshakeType = 2
	HandshakeNewSessionTicket    HandshakeType = 4
	HandshakeEncryptedExtensions HandshakeType = 8
	HandshakeCertificate         HandshakeType = 11
	HandshakeCertificateVerify   HandshakeType = 15
	HandshakeFinished            HandshakeType = 20
)

func handshakeTypeFromByte(v byte) (HandshakeType, bool) {
	switch HandshakeType(v) {
	case HandshakeClientHello, HandshakeServerHello, HandshakeNewSessionTicket,
		HandshakeEncryptedExtensions, HandshakeCertificate, HandshakeCertificateVerify, HandshakeFinished:
		return HandshakeType(v), true
	default:
		return 0, false
	}
}

// CipherSuite identifies a TLS 1.3 AEAD + hash pairing (RFC 8446 §B.4).
type CipherSuite uint16

const (
	SuiteAes128GcmSha256       CipherSuite = 0x1301
	SuiteAes256GcmSha384       CipherSuite = 0x1302
	SuiteChacha20Poly1305Sha256 CipherSuite = 0x1303
)

func cipherSuiteFromUint16(v uint16) (CipherSuite, bool) {
	switch CipherSuite(v) {
	case SuiteAes128GcmSha256, SuiteAes256GcmSha384, SuiteChacha20Poly1305Sha256:
		return CipherSuite(v), true
	default:
		return 0, false
	}
}

// NamedGroup identifies a key-exchange group (RFC 8446 §4.2.7).
type NamedGroup uint16

const (
	GroupSecp256r1 NamedGroup = 0x0017
	GroupX25519    NamedGroup = 0x001d
)

// SignatureScheme identifies a signature algorithm (RFC 8446 §4.2.3).
type SignatureScheme uint16

const (
	SigRsaPssRsaeSha256    SignatureScheme = 0x0804
	SigEcdsaSecp256r1Sha256 SignatureScheme = 0x0403
	SigRsaPkcs1Sha256      SignatureScheme = 0x0401
)

// Extension type constants (RFC 8446 §4.2).
const (
	ExtServerName         uint16 = 0x0000
	ExtSupportedGroups     uint16 = 0x000a
	ExtSignatureAlgorithms uint16 = 0x000d
	ExtSupportedVersions   uint16 = 0x002b
	ExtKeyShare            uint16 = 0x0033
)

// Extension is a single TLS extension (type, length-prefixed data).
type Extension struct {
	Type uint16
	Data []byte
}

// ServerHello is a parsed ServerHello handshake body.
type ServerHello struct {
	Random      [32]byte
	SessionID   []byte
	CipherSuite uint16
	Extensions  []Extension
}

// wrapHandshake prepends a 4-byte handshake header (type + 3-byte
// length) to body.
func wrapHandshake(t HandshakeType, body []byte) []byte {
	msg := make([]byte, 0, 4+len(body))
	msg = append(msg, byte(t))
	n := len(body)
	msg = append(msg, byte(n>>16), byte(n>>8), byte(n))
	msg = append(msg, body...)
	return msg
}

func appendExtension(exts []Extension, typ uint16, data []byte) []Extension {
	return append(exts, Extension{Type: typ, Data: data})
}

// BuildClientHello constructs a TLS 1.3 ClientHello handshake message
// (with its 4-byte handshake header) offering a single cipher suite
// (TLS_AES_128_GCM_SHA256) and a single key-share entry.
func BuildClientHello(sni string, random [32]byte, sessionID []byte, keyShareGroup NamedGroup, keyShareData []byte) []byte {
	var exts []Extension

	{
		nameBytes := []byte(sni)
		listLen := uint16(len(nameBytes) + 3)
		data := make([]byte, 0, 2+1+2+len(nameBytes))
		data = append(data, byte(listLen>>8), byte(listLen))
		data = append(data, 0x00)
		data = append(data, byte(len(nameBytes)>>8), byte(len(nameBytes)))
		data = append(data, nameBytes...)
		exts = appendExtension(exts, ExtServerName, data)
	}
	exts = appendExtension(exts, ExtSupportedVersions, []byte{0x01, 0x03, 0x04})
	{
		data := []byte{0x00, 0x04, byte(GroupX25519 >> 8), byte(GroupX25519), byte(GroupSecp256r1 >> 8), byte(GroupSecp256r1)}
		exts = appendExtension(exts, ExtSupportedGroups, data)
	}
	{
		algos := []SignatureScheme{SigEcdsaSecp256r1Sha256, SigRsaPssRsaeSha256, SigRsaPkcs1Sha256}
		data := make([]byte, 0, 2+2*len(algos))
		n := uint16(2 * len(algos))
		data = append(data, byte(n>>8), byte(n))
		for _, a := range algos {
			data = append(data, byte(a>>8), byte(a))
		}
		exts = appendExtension(exts, ExtSignatureAlgorithms, data)
	}
	{
		entryLen := uint16(len(keyShareData) + 4)
		data := make([]byte, 0, 2+4+len(keyShareData))
		data = append(data, byte(entryLen>>8), byte(entryLen))
		data = append(data, byte(keyShareGroup>>8), byte(keyShareGroup))
		data = append(data, byte(len(keyShareData)>>8), byte(len(keyShareData)))
		data = append(data, keyShareData...)
		exts = appendExtension(exts, ExtKeyShare, data)
	}

	var extBytes []byte
	for _, e := range exts {
		extBytes = append(extBytes, byte(e.Type>>8), byte(e.Type))
		extBytes = append(extBytes, byte(len(e.Data)>>8), byte(len(e.Data)))
		extBytes = append(extBytes, e.Data...)
	}

	body := make([]byte, 0, 2+32+1+len(sessionID)+2+2+2+2+len(extBytes))
	body = append(body, 0x03, 0x03)
	body = append(body, random[:]...)
	body = append(body, byte(len(sessionID)))
	body = append(body, sessionID...)
	suiteAes128GcmSha256 := uint16(SuiteAes128GcmSha256)
	body = append(body, 0x00, 0x02, byte(suiteAes128GcmSha256>>8), byte(suiteAes128GcmSha256))
	body = append(body, 0x01, 0x00)
	body = append(body, byte(len(extBytes)>>8), byte(len(extBytes)))
	body = append(body, extBytes...)

	return wrapHandshake(HandshakeClientHello, body)
}

// errServerHelloTooShort is returned when a ServerHello body is too
// small to contain its fixed-size fields.
var errServerHelloTooShort = newProtocolError("ServerHello too short")

// ProtocolError reports a malformed handshake message.
type ProtocolError struct{ Msg string }

func (e *ProtocolError) Error() string { return "tls13: " + e.Msg }

func newProtocolError(msg string) error { return &ProtocolError{Msg: msg} }

// ParseServerHello parses a ServerHello body (the bytes following the
// 4-byte handshake header).
func ParseServerHello(data []byte) (ServerHello, error) {
	if len(data) < 38 {
		return ServerHello{}, errServerHelloTooShort
	}
	off := 2 // skip legacy version
	var random [32]byte
	copy(random[:], data[off:off+32])
	off += 32

	sidLen := int(data[off])
	off++
	if off+sidLen > len(data) {
		return ServerHello{}, newProtocolError("session ID truncated")
	}
	sessionID := append([]byte{}, data[off:off+sidLen]...)
	off += sidLen

	if off+2 > len(data) {
		return ServerHello{}, newProtocolError("cipher suite truncated")
	}
	cipherSuite := binary.BigEndian.Uint16(data[off : off+2])
	off += 2
	off++ // compression method

	var exts []Extension
	if off+2 <= len(data) {
		extLen := int(binary.BigEndian.Uint16(data[off : off+2]))
		off += 2
		extEnd := off + extLen
		for off+4 <= extEnd && off+4 <= len(data) {
			typ := binary.BigEndian.Uint16(data[off : off+2])
			dlen := int(binary.BigEndian.Uint16(data[off+2 : off+4]))
			off += 4
			if off+dlen > len(data) {
				break
			}
			exts = appendExtension(exts, typ, append([]byte{}, data[off:off+dlen]...))
			off += dlen
		}
	}

	return ServerHello{Random: random, SessionID: sessionID, CipherSuite: cipherSuite, Extensions: exts}, nil
}
