package tls13

import "testing"

func TestBuildClientHelloHeader(t *testing.T) {
	var random, sessionID [32]byte
	for i := range random {
		random[i] = 0xAA
		sessionID[i] = 0xBB
	}
	keyData := make([]byte, 32)
	for i := range keyData {
		keyData[i] = 0xCC
	}

	msg := BuildClientHello("example.com", random, sessionID[:], GroupX25519, keyData)
	if msg[0] != byte(HandshakeClientHello) {
		t.Fatalf("msg[0] = %d, want ClientHello type", msg[0])
	}
	length := int(msg[1])<<16 | int(msg[2])<<8 | int(msg[3])
	if length != len(msg)-4 {
		t.Fatalf("length field = %d, want %d", length, len(msg)-4)
	}
}

func TestCipherSuiteFromUint16(t *testing.T) {
	if s, ok := cipherSuiteFromUint16(0x1301); !ok || s != SuiteAes128GcmSha256 {
		t.Fatalf("got %v, %v", s, ok)
	}
	if _, ok := cipherSuiteFromUint16(0x9999); ok {
		t.Fatal("expected unknown suite to report false")
	}
}

func TestHandshakeTypeFromByte(t *testing.T) {
	if typ, ok := handshakeTypeFromByte(1); !ok || typ != HandshakeClientHello {
		t.Fatalf("got %v, %v", typ, ok)
	}
	if typ, ok := handshakeTypeFromByte(2); !ok || typ != HandshakeServerHello {
		t.Fatalf("got %v, %v", typ, ok)
	}
	if _, ok := handshakeTypeFromByte(99); ok {
		t.Fatal("expected unknown type to report false")
	}
}

func TestParseServerHelloRoundTrip(t *testing.T) {
	var random [32]byte
	for i := range random {
		random[i] = 0x01
	}
	body := make([]byte, 0, 64)
	body = append(body, 0x03, 0x03)
	body = append(body, random[:]...)
	body = append(body, 0) // session id len 0
	suiteAes128GcmSha256 := uint16(SuiteAes128GcmSha256)
	body = append(body, byte(suiteAes128GcmSha256>>8), byte(suiteAes128GcmSha256))
	body = append(body, 0x00)       // compression method
	body = append(body, 0x00, 0x00) // extensions length 0

	sh, err := ParseServerHello(body)
	if err != nil {
		t.Fatal(err)
	}
	if sh.CipherSuite != uint16(SuiteAes128GcmSha256) {
		t.Fatalf("cipher suite = %#x", sh.CipherSuite)
	}
	if sh.Random != random {
		t.Fatalf("random mismatch")
	}
}

func TestParseServerHelloTooShort(t *testing.T) {
	if _, err := ParseServerHello(make([]byte, 10)); err == nil {
		t.Fatal("expected error")
	}
}
