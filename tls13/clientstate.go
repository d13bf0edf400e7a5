package tls13

// ClientState is a TLS 1.3 client's handshake state (RFC 8446 §A.1).
type ClientState int

const (
	StateStart ClientState = iota
	StateSentClientHello
	StateGotServerHello
	StateGotEncryptedExtensions
	StateGotCertificate
	StateGotCertificateVerify
	StateGotFinished
	StateSentFinished
	StateConnected
	StateError
)

// ClientEvent is a handshake message or action driving the client
// state machine forward.
type ClientEvent int

const (
	EventSendClientHello ClientEvent = iota
	EventRecvServerHello
	EventRecvEncryptedExtensions
	EventRecvCertificate
	EventRecvCertificateVerify
	EventRecvFinished
	EventSendFinished
)

// AdvanceClient returns the ClientState that results from event e
// occurring in state s, or StateError if e is illegal in s.
func AdvanceClient(s ClientState, e ClientEvent) ClientState {
	switch s {
	case StateStart:
		if e == EventSendClientHello {
			return StateSentClientHello
		}
	case StateSentClientHello:
		if e == EventRecvServerHello {
			return StateGotServerHello
		}
	case StateGotServerHello:
		if e == EventRecvEncryptedExtensions {
			return StateGotEncryptedExtensions
		}
	case StateGotEncryptedExtensions:
		if e == EventRecvCertificate {
			return StateGotCertificate
		}
	case StateGotCertificate:
		if e == EventRecvCertificateVerify {
			return StateGotCertificateVerify
		}
	case StateGotCertificateVerify:
		if e == EventRecvFinished {
			return StateGotFinished
		}
	case StateGotFinished:
		if e == EventSendFinished {
			return StateSentFinished
		}
	case StateSentFinished:
		// Sending Finished completes the handshake regardless of which
		// event label drove it; any caller transition out of this state
		// is read as "handshake done".
		return StateConnected
	}
	return StateError
}
