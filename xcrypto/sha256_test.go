package xcrypto

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
)

func TestSha256KnownVectors(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", []byte(""), "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", []byte("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Sha256Sum(c.in)
			if hex.EncodeToString(got[:]) != c.want {
				t.Fatalf("Sha256Sum(%q) = %x; want %s", c.in, got, c.want)
			}
		})
	}
}

func TestSha256OneMillionAs(t *testing.T) {
	s := NewSHA256()
	chunk := bytes.Repeat([]byte("a"), 1000)
	for i := 0; i < 1000; i++ {
		s.Write(chunk)
	}
	got := s.Sum256()
	want := "cdc76e5c9914fb9281a1c7e284d73e67f1809a48a497200e046d39ccc7112cd0"[:64]
	if hex.EncodeToString(got[:]) != want {
		t.Fatalf("one-million-a digest = %x; want %s", got, want)
	}
}

func TestSha256StreamingMatchesOneShot(t *testing.T) {
	data := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog ", 37))
	want := Sha256Sum(data)

	s := NewSHA256()
	for i := 0; i < len(data); i += 13 {
		end := i + 13
		if end > len(data) {
			end = len(data)
		}
		s.Write(data[i:end])
	}
	got := s.Sum256()
	if got != want {
		t.Fatalf("streaming write mismatch: %x != %x", got, want)
	}
}
