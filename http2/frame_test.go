package http2

import (
	"bytes"
	"testing"
)

func TestParseBuildRoundTrip(t *testing.T) {
	samples := []Frame{
		New(TypeData, FlagEndStream, 3, []byte("hello")),
		New(TypeHeaders, FlagEndHeaders|FlagEndStream, 1, []byte{0x82, 0x86}),
		New(TypePriority, 0, 5, []byte{0, 0, 0, 1, 10}),
		New(TypeRstStream, 0, 5, []byte{0, 0, 0, 8}),
		BuildSettings([]Setting{{SettingsMaxConcurrentStreams, 100}}),
		BuildSettingsAck(),
		New(TypePushPromise, FlagEndHeaders, 2, []byte{0, 0, 0, 4}),
		BuildPing([8]byte{1, 2, 3, 4, 5, 6, 7, 8}, false),
		BuildGoAway(5, ErrCodeProtocolError),
		BuildWindowUpdate(1, 32768),
		New(TypeContinuation, FlagEndHeaders, 1, []byte{0x01}),
	}
	for _, f := range samples {
		wire := Build(f)
		parsed, consumed, err := Parse(wire, DefaultMaxFrameSize)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if consumed != len(wire) {
			t.Fatalf("consumed = %d, want %d", consumed, len(wire))
		}
		if parsed.Type != f.Type || parsed.Flags != f.Flags || parsed.StreamID != f.StreamID || !bytes.Equal(parsed.Payload, f.Payload) {
			t.Fatalf("round-trip mismatch: got %+v, want %+v", parsed, f)
		}
	}
}

func TestStreamIDReservedBitCleared(t *testing.T) {
	f := New(TypeData, 0, 0xFFFFFFFF, nil)
	wire := Build(f)
	parsed, _, err := Parse(wire, DefaultMaxFrameSize)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.StreamID != 0x7FFFFFFF {
		t.Fatalf("stream id = %#x, want 0x7FFFFFFF", parsed.StreamID)
	}
}

func TestParseIncomplete(t *testing.T) {
	if _, _, err := Parse(make([]byte, 5), DefaultMaxFrameSize); err != ErrIncomplete {
		t.Fatalf("err = %v, want ErrIncomplete", err)
	}
	header := make([]byte, 9)
	header[2] = 100 // length = 100, but no payload follows
	if _, _, err := Parse(header, DefaultMaxFrameSize); err != ErrIncomplete {
		t.Fatalf("err = %v, want ErrIncomplete", err)
	}
}

func TestParseUnknownType(t *testing.T) {
	wire := Build(New(TypeData, 0, 1, nil))
	wire[3] = 0xFF
	_, _, err := Parse(wire, DefaultMaxFrameSize)
	var ute *UnknownTypeError
	if err == nil {
		t.Fatal("expected error")
	}
	if !errorsAs(err, &ute) {
		t.Fatalf("err = %v, want *UnknownTypeError", err)
	}
}

func errorsAs(err error, target **UnknownTypeError) bool {
	if e, ok := err.(*UnknownTypeError); ok {
		*target = e
		return true
	}
	return false
}

func TestSettingsPayloadOddLengthIsProtocolError(t *testing.T) {
	_, err := ParseSettings([]byte{1, 2, 3})
	if _, ok := err.(*ProtocolError); !ok {
		t.Fatalf("err = %v, want *ProtocolError", err)
	}
}

func TestParseSettingsRoundTrip(t *testing.T) {
	f := BuildSettings([]Setting{{SettingsMaxConcurrentStreams, 100}, {SettingsInitialWindowSize, 65535}})
	got, err := ParseSettings(f.Payload)
	if err != nil {
		t.Fatal(err)
	}
	want := []Setting{{SettingsMaxConcurrentStreams, 100}, {SettingsInitialWindowSize, 65535}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestConnectionPreface(t *testing.T) {
	if len(ConnectionPreface) != 24 {
		t.Fatalf("len = %d, want 24", len(ConnectionPreface))
	}
	if ConnectionPreface[:3] != "PRI" {
		t.Fatalf("preface doesn't start with PRI")
	}
}

func TestStreamTransitionRejectsDataOnClosed(t *testing.T) {
	_, err := Transition(StreamClosed, TypeData, 0, false)
	if _, ok := err.(*ProtocolError); !ok {
		t.Fatalf("err = %v, want *ProtocolError", err)
	}
}

func TestStreamTransitionOpensOnHeaders(t *testing.T) {
	s, err := Transition(StreamIdle, TypeHeaders, 0, false)
	if err != nil || s != StreamOpen {
		t.Fatalf("state = %v, err = %v, want StreamOpen", s, err)
	}
}
