package http2

// StreamState is an HTTP/2 stream's lifecycle state (RFC 9113 §5.1).
type StreamState int

const (
	StreamIdle StreamState = iota
	StreamReservedLocal
	StreamReservedRemote
	StreamOpen
	StreamHalfClosedLocal
	StreamHalfClosedRemote
	StreamClosed
)

// Transition reports the StreamState that results from receiving a frame
// of type ft with flags on a stream currently in state s, or a
// [ProtocolError] if the transition contradicts RFC 9113 §5.1 (e.g. DATA on
// a Closed stream). The frame layer enforces only flag/state
// contradictions; a full stream manager is the connection layer's concern.
func Transition(s StreamState, ft Type, flags uint8, endStream bool) (StreamState, error) {
	switch s {
	case StreamClosed:
		if ft == TypeRstStream || ft == TypePriority || ft == TypeWindowUpdate {
			return StreamClosed, nil
		}
		return s, &ProtocolError{Msg: "frame received on closed stream"}
	case StreamIdle:
		switch ft {
		case TypeHeaders:
			if endStream {
				return StreamHalfClosedRemote, nil
			}
			return StreamOpen, nil
		case TypePriority:
			return StreamIdle, nil
		case TypePushPromise:
			return StreamReservedRemote, nil
		default:
			return s, &ProtocolError{Msg: "unexpected frame on idle stream"}
		}
	case StreamReservedLocal:
		if ft == TypeHeaders || ft == TypeRstStream {
			return StreamHalfClosedRemote, nil
		}
		return s, nil
	case StreamReservedRemote:
		if ft == TypeHeaders {
			return StreamHalfClosedLocal, nil
		}
		return s, nil
	case StreamOpen:
		if endStream {
			return StreamHalfClosedRemote, nil
		}
		return StreamOpen, nil
	case StreamHalfClosedRemote:
		if ft == TypeData || ft == TypeHeaders || ft == TypeContinuation {
			return s, &ProtocolError{Msg: "frame received on half-closed (remote) stream"}
		}
		if endStream {
			return StreamClosed, nil
		}
		return s, nil
	case StreamHalfClosedLocal:
		if endStream {
			return StreamClosed, nil
		}
		return s, nil
	default:
		return s, nil
	}
}
