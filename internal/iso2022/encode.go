package iso2022

import (
	"unicode/utf8"

	"github.com/dxwzv/luit/internal/charset"
)

// Encode consumes in, UTF-8 text typed at the real terminal (or
// produced by any other UTF-8 source), and returns the equivalent
// ISO 2022 byte stream the child expects, shifting between the
// already-designated G0-G3 banks as needed to represent each rune. A
// UTF-8 sequence left incomplete at the end of in is buffered and
// completed on a later call; a byte that can never start a valid
// sequence is taken as U+FFFD and encoding resumes at the next byte.
func (s *State) Encode(in []byte) []byte {
	s.encPend = append(s.encPend, in...)
	out := make([]byte, 0, len(s.encPend))

	if s.otherOnly != nil {
		for len(s.encPend) > 0 && utf8.FullRune(s.encPend) {
			r, size := utf8.DecodeRune(s.encPend)
			s.encPend = s.encPend[size:]
			if b := s.otherOnly.Reverse(r); b != nil {
				out = append(out, b...)
			} else {
				out = append(out, '?')
			}
		}
		return out
	}

	for len(s.encPend) > 0 && utf8.FullRune(s.encPend) {
		r, size := utf8.DecodeRune(s.encPend)
		s.encPend = s.encPend[size:]
		out = s.encodeRune(out, r)
	}
	return out
}

// encodeRune emits r using the active GL charset if it can represent
// it, or else switches GL to whichever other designated bank can,
// preferring G0..G3 in that order, with a locking shift (SI, SO, LS2
// or LS3). C0 controls and DEL are written as-is. With NewWithCharset's
// configuration (G0 ASCII, G1 the charset) this is a two-way toggle
// between SI and SO; a locale-table configuration that keeps the
// charset in G2 or G3 (the ISO 8859 rows, eucJP) reaches it with LS2
// or LS3 instead.
func (s *State) encodeRune(out []byte, r rune) []byte {
	if r < 0x20 || r == 0x7F {
		return append(out, byte(r))
	}
	if code, ok := reverseIn(s.g[s.gl], r); ok {
		return appendCode(out, s.g[s.gl], code)
	}

	for _, b := range [4]bank{g0, g1, g2, g3} {
		if b == s.gl {
			continue
		}
		code, ok := reverseIn(s.g[b], r)
		if !ok {
			continue
		}
		out = append(out, shiftTo(s, b)...)
		return appendCode(out, s.g[b], code)
	}

	return append(out, '?')
}

func reverseIn(cs charset.Charset, r rune) (int, bool) {
	if cs == nil || cs.IsOther() {
		return 0, false
	}
	code := cs.Reverse(r)
	if code < 0 {
		return 0, false
	}
	return code, true
}

func appendCode(out []byte, cs charset.Charset, code int) []byte {
	switch cs.Tag() {
	case charset.T9494, charset.T9696, charset.T94192:
		return append(out, byte(code>>8), byte(code&0xFF))
	default:
		return append(out, byte(code))
	}
}

// shiftTo emits the locking-shift control function that moves GL to
// bank b and updates s accordingly.
func shiftTo(s *State, b bank) []byte {
	s.gl = b
	switch b {
	case g0:
		return []byte{0x0F} // SI
	case g1:
		return []byte{0x0E} // SO
	case g2:
		return []byte{0x1B, 'n'} // LS2
	case g3:
		return []byte{0x1B, 'o'} // LS3
	}
	return nil
}
