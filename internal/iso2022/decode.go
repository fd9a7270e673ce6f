package iso2022

import (
	"unicode/utf8"

	"github.com/dxwzv/luit/internal/charset"
)

// Decode consumes in, which is text produced by the child (or by a
// device on the other side of the pty), and returns the equivalent
// UTF-8 bytes destined for the real terminal. Any partial escape
// sequence or multibyte character that isn't complete at the end of
// in is held in s and completed by a later call, so Decode is safe to
// call repeatedly across read() boundaries.
func (s *State) Decode(in []byte) []byte {
	out := make([]byte, 0, len(in))
	if s.disableInterp {
		return append(out, in...)
	}
	if s.otherOnly != nil {
		for _, b := range in {
			if r, ok := s.otherOnly.Recode(b); ok {
				out = utf8.AppendRune(out, r)
			}
		}
		return out
	}
	for _, b := range in {
		out = s.decodeByte(out, b)
	}
	return out
}

func (s *State) decodeByte(out []byte, b byte) []byte {
	if s.mode == modeEsc {
		return s.decodeEscByte(out, b)
	}
	// A pending first byte of a 94x94/96x96/94x192 character takes
	// priority over every other classification: spec.md §4.5 requires
	// checking *any* next byte against the tag's valid second-byte
	// range before combining, C0 controls and ESC included, and
	// dropping+re-classifying the byte from scratch if it doesn't fit.
	if s.pend1 >= 0 {
		return s.decodeSecondByte(out, b)
	}
	switch {
	case b == 0x1B: // ESC
		s.mode = modeEsc
		s.inter = s.inter[:0]
	case b == 0x0F && s.acceptLockingShift: // SI
		s.gl = g0
	case b == 0x0E && s.acceptLockingShift: // SO
		s.gl = g1
	case b == 0x8E && s.acceptSingleShift: // SS2 (8-bit form)
		s.singleShift = int(g2)
	case b == 0x8F && s.acceptSingleShift: // SS3 (8-bit form)
		s.singleShift = int(g3)
	case b < 0x20, b == 0x7F:
		out = append(out, b)
	case b >= 0x20 && b < 0x7F:
		out = s.decodeMapped(out, b, s.gl, false)
	case b >= 0x80 && b < 0xA0:
		out = append(out, b) // unassigned C1 range: pass through
	default: // 0xA0-0xFF
		out = s.decodeMapped(out, b, s.gr, true)
	}
	return out
}

// decodeMapped looks up byte b against the charset currently active
// for this position (honoring a pending single shift), handling
// 1-byte charsets and "other" multibyte charsets directly, and
// starting the 2-byte accumulation for 94x94/96x96/94x192 charsets
// (decodeSecondByte completes it on the following call).
func (s *State) decodeMapped(out []byte, b byte, defaultBank bank, gr bool) []byte {
	bk := defaultBank
	if s.singleShift >= 0 {
		bk = bank(s.singleShift)
		s.singleShift = -1
	}
	cs := s.g[bk]

	code := int(b)
	if gr {
		code &^= 0x80
	}

	if cs.IsOther() {
		codec := s.codecFor(bk)
		if r, ok := codec.Recode(byte(code)); ok {
			out = utf8.AppendRune(out, r)
		}
		return out
	}

	switch cs.Tag() {
	case charset.T9494, charset.T9696, charset.T94192:
		s.pend1 = code
		s.pend1g = bk
		return out
	default:
		r := cs.Recode(code)
		if r > 0 {
			out = utf8.AppendRune(out, rune(r))
		}
		return out
	}
}

// decodeSecondByte completes a 2-byte character using s.pend1 as the
// first byte and b as the second, provided b both falls in the GL or
// GR byte range and is legal for the pending charset's tag. Otherwise
// the pending byte is dropped and b is re-classified from scratch, per
// spec.md §4.5.
func (s *State) decodeSecondByte(out []byte, b byte) []byte {
	pendCS := s.g[s.pend1g]

	var code int
	valid := false
	switch {
	case b >= 0x20 && b < 0x7F:
		code = int(b)
		valid = charset.ValidMultibyteByte(pendCS.Tag(), code)
	case b >= 0xA0:
		// Big 5's trail byte spans 0x21-0xFE and keeps its high bit.
		code = int(b)
		if pendCS.Tag() != charset.T94192 {
			code &^= 0x80
		}
		valid = charset.ValidMultibyteByte(pendCS.Tag(), code)
	}

	if !valid {
		s.pend1 = -1
		return s.decodeByte(out, b)
	}

	full := s.pend1<<8 | code
	s.pend1 = -1
	r := pendCS.Recode(full)
	if r > 0 {
		out = utf8.AppendRune(out, rune(r))
	}
	return out
}

func (s *State) decodeEscByte(out []byte, b byte) []byte {
	switch {
	case b >= 0x20 && b <= 0x2F:
		s.inter = append(s.inter, b)
		return out
	case b >= 0x30 && b <= 0x7E:
		s.applyEscape(s.inter, b)
		s.inter = s.inter[:0]
		s.mode = modeGround
		return out
	default:
		// not a legal escape continuation; abandon it
		s.inter = s.inter[:0]
		s.mode = modeGround
		return out
	}
}
