package tls13

import (
	"bytes"
	"testing"

	"github.com/emberweb/ember/xcrypto"
)

func TestHKDFExpandLabelLength(t *testing.T) {
	var secret [32]byte
	for i := range secret {
		secret[i] = 0x42
	}
	if got := len(HKDFExpandLabel(secret[:], []byte("key"), nil, 16)); got != 16 {
		t.Fatalf("len = %d, want 16", got)
	}
	if got := len(HKDFExpandLabel(secret[:], []byte("iv"), nil, 12)); got != 12 {
		t.Fatalf("len = %d, want 12", got)
	}
}

func TestDeriveSecretLength(t *testing.T) {
	var secret, hash [32]byte
	for i := range secret {
		secret[i] = 0x42
		hash[i] = 0xAA
	}
	got := DeriveSecret(secret[:], []byte("c hs traffic"), hash[:])
	if len(got) != 32 {
		t.Fatalf("len = %d, want 32", len(got))
	}
}

func TestDeriveKeysStructure(t *testing.T) {
	shared := bytes.Repeat([]byte{0x01}, 32)
	helloHash := xcrypto.Sha256Sum([]byte("hello"))
	hsHash := xcrypto.Sha256Sum([]byte("handshake"))
	ks := DeriveKeys(shared, helloHash, hsHash)

	for name, got := range map[string][]byte{
		"clientHSTraffic":  ks.ClientHandshakeTrafficSecret,
		"serverHSTraffic":  ks.ServerHandshakeTrafficSecret,
		"clientAppTraffic": ks.ClientAppTrafficSecret,
		"serverAppTraffic": ks.ServerAppTrafficSecret,
	} {
		if len(got) != 32 {
			t.Fatalf("%s len = %d, want 32", name, len(got))
		}
	}
}

func TestDeriveTrafficKeys(t *testing.T) {
	secret := bytes.Repeat([]byte{0x42}, 32)
	keys := DeriveTrafficKeys(secret)
	if len(keys.Key) != 16 || len(keys.IV) != 12 {
		t.Fatalf("keys = %+v", keys)
	}
}

func TestComputeFinishedDeterministic(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	hash := xcrypto.Sha256Sum([]byte("transcript"))
	a := ComputeFinished(key, hash)
	b := ComputeFinished(key, hash)
	if a != b {
		t.Fatalf("ComputeFinished not deterministic")
	}
}
