package iso2022

import (
	"bytes"
	"testing"

	"github.com/dxwzv/luit/internal/charset"
)

func mustCharset(t *testing.T, name string) charset.Charset {
	t.Helper()
	cs, ok := charset.GetByName(name)
	if !ok || cs == nil {
		t.Fatalf("charset %q not found", name)
	}
	return cs
}

func TestDecodeASCIIPassthrough(t *testing.T) {
	s := NewState()
	out := s.Decode([]byte("Hello, world!\n"))
	if string(out) != "Hello, world!\n" {
		t.Fatalf("got %q", out)
	}
}

func TestDecodeISO8859_1GR(t *testing.T) {
	s := NewWithCharset(mustCharset(t, "ISO 8859-1"))
	out := s.Decode([]byte{0xA9}) // copyright sign, straight GR
	if string(out) != "©" {
		t.Fatalf("got %q, want U+00A9", out)
	}
}

func TestDecodeISO8859_15Euro(t *testing.T) {
	s := NewWithCharset(mustCharset(t, "ISO 8859-15"))
	out := s.Decode([]byte{0xA4})
	if string(out) != "€" {
		t.Fatalf("got %q, want U+20AC", out)
	}
}

func TestDecodeJISX0208Designation(t *testing.T) {
	s := NewState()
	// ESC $ B designates JIS X 0208 into G0, then two GL bytes select
	// the character at row/cell (0x30,0x21).
	out := s.Decode([]byte{0x1B, '$', 'B', 0x30, 0x21})
	if len(out) == 0 {
		t.Fatalf("expected a decoded character, got nothing")
	}
}

func TestDecodeUTF8Passthrough(t *testing.T) {
	s := NewOtherState(mustCharset(t, "UTF-8"))
	snowman := "☃"
	out := s.Decode([]byte(snowman))
	if string(out) != snowman {
		t.Fatalf("got %q, want %q", out, snowman)
	}
}

func TestEncodeISO8859_1RoundTrip(t *testing.T) {
	s := NewWithCharset(mustCharset(t, "ISO 8859-1"))
	out := s.Encode([]byte("©"))
	if !bytes.Equal(out, []byte{0x0E, 0x29}) {
		t.Fatalf("got %#v", out)
	}
	back := NewWithCharset(mustCharset(t, "ISO 8859-1")).Decode(out)
	if string(back) != "©" {
		t.Fatalf("decoding %#v back got %q, want U+00A9", out, back)
	}
}

func TestDecodeRestartsAcrossCalls(t *testing.T) {
	s := NewState()
	var out []byte
	// Split "ESC $ B" (JIS X 0208 designation) across three calls.
	out = append(out, s.Decode([]byte{0x1B})...)
	out = append(out, s.Decode([]byte{'$'})...)
	out = append(out, s.Decode([]byte{'B'})...)
	if len(out) != 0 {
		t.Fatalf("designation escape alone should produce no output, got %v", out)
	}
	out = s.Decode([]byte{0x30, 0x21})
	if len(out) == 0 {
		t.Fatalf("expected a decoded character after the split escape completed")
	}
}

func TestDecodeAbandonsMultibyteOnBadSecondByte(t *testing.T) {
	s := NewState()
	// ESC $ B designates JIS X 0208 (a 94x94 charset) into G0. 0x30 is a
	// legal first byte; 0x0A (LF) is not a legal second byte, so the
	// pending first byte must be dropped and the LF passed through
	// rather than folded into a bogus two-byte code.
	out := s.Decode([]byte{0x1B, '$', 'B', 0x30, 0x0A})
	if string(out) != "\n" {
		t.Fatalf("got %q, want a lone linefeed (pending byte dropped)", out)
	}
}

func TestEncodeSwitchesBankWithLockingShift(t *testing.T) {
	s := NewWithCharset(mustCharset(t, "ISO 8859-1"))
	out := s.Encode([]byte("a©b"))
	want := []byte{'a', 0x0E, 0x29, 0x0F, 'b'}
	if !bytes.Equal(out, want) {
		t.Fatalf("got %#v, want %#v", out, want)
	}
}
