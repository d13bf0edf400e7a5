package tls13

import "github.com/emberweb/ember/xcrypto"

// KeySchedule holds every secret RFC 8446 §7's key schedule derives,
// from the early secret through the application traffic secrets.
type KeySchedule struct {
	EarlySecret                   [32]byte
	HandshakeSecret                [32]byte
	MasterSecret                   [32]byte
	ClientHandshakeTrafficSecret  []byte
	ServerHandshakeTrafficSecret  []byte
	ClientAppTrafficSecret        []byte
	ServerAppTrafficSecret        []byte
}

// TrafficKeys is a derived AES-128-GCM key and IV for one traffic
// direction.
type TrafficKeys struct {
	Key []byte
	IV  []byte
}

// HKDFExpandLabel implements TLS 1.3's HKDF-Expand-Label (RFC 8446 §7.1):
// HKDF-Expand(secret, HkdfLabel, length) where HkdfLabel packs the
// length, "tls13 "-prefixed label, and context as length-prefixed
// fields.
func HKDFExpandLabel(secret, label, context []byte, length int) []byte {
	tlsLabel := append([]byte("tls13 "), label...)
	info := make([]byte, 0, 2+1+len(tlsLabel)+1+len(context))
	info = append(info, byte(length>>8), byte(length))
	info = append(info, byte(len(tlsLabel)))
	info = append(info, tlsLabel...)
	info = append(info, byte(len(context)))
	info = append(info, context...)
	out, err := xcrypto.HKDFExpand(secret, info, length)
	if err != nil {
		// length is always <= 255*32 in this package's call sites,
		// well within HKDF-Expand's output bound.
		panic(err)
	}
	return out
}

// DeriveSecret is HKDF-Expand-Label(secret, label, transcriptHash, 32),
// RFC 8446 §7.1's Derive-Secret.
func DeriveSecret(secret, label, transcriptHash []byte) []byte {
	return HKDFExpandLabel(secret, label, transcriptHash, 32)
}

// DeriveKeys computes the full key schedule from the ECDHE shared
// secret, the transcript hash through ServerHello (helloHash), and the
// transcript hash through ServerFinished (handshakeHash).
func DeriveKeys(sharedSecret []byte, helloHash, handshakeHash [32]byte) KeySchedule {
	var zeroKey [32]byte
	emptyHash := xcrypto.Sha256Sum(nil)

	earlySecret := xcrypto.HKDFExtract(zeroKey[:], zeroKey[:])
	derivedEarly := DeriveSecret(earlySecret[:], []byte("derived"), emptyHash[:])

	handshakeSecret := xcrypto.HKDFExtract(derivedEarly, sharedSecret)

	clientHSTraffic := DeriveSecret(handshakeSecret[:], []byte("c hs traffic"), helloHash[:])
	serverHSTraffic := DeriveSecret(handshakeSecret[:], []byte("s hs traffic"), helloHash[:])

	derivedHS := DeriveSecret(handshakeSecret[:], []byte("derived"), emptyHash[:])
	masterSecret := xcrypto.HKDFExtract(derivedHS, zeroKey[:])

	clientAppTraffic := DeriveSecret(masterSecret[:], []byte("c ap traffic"), handshakeHash[:])
	serverAppTraffic := DeriveSecret(masterSecret[:], []byte("s ap traffic"), handshakeHash[:])

	return KeySchedule{
		EarlySecret:                  earlySecret,
		HandshakeSecret:               handshakeSecret,
		MasterSecret:                  masterSecret,
		ClientHandshakeTrafficSecret: clientHSTraffic,
		ServerHandshakeTrafficSecret: serverHSTraffic,
		ClientAppTrafficSecret:       clientAppTraffic,
		ServerAppTrafficSecret:       serverAppTraffic,
	}
}

// DeriveTrafficKeys derives the AES-128-GCM key and IV for one traffic
// secret (RFC 8446 §7.3).
func DeriveTrafficKeys(trafficSecret []byte) TrafficKeys {
	return TrafficKeys{
		Key: HKDFExpandLabel(trafficSecret, []byte("key"), nil, 16),
		IV:  HKDFExpandLabel(trafficSecret, []byte("iv"), nil, 12),
	}
}

// ComputeFinished computes a Finished message's verify_data: HMAC
// keyed by HKDF-Expand-Label(baseKey, "finished", "", 32), applied to
// transcriptHash (RFC 8446 §4.4.4).
func ComputeFinished(baseKey []byte, transcriptHash [32]byte) [32]byte {
	finishedKey := HKDFExpandLabel(baseKey, []byte("finished"), nil, 32)
	return xcrypto.HMACSum256(finishedKey, transcriptHash[:])
}
