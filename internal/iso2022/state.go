// Package iso2022 implements the ISO 2022 7-bit/8-bit stateful
// encoding: G0-G3 charset banks, the GL/GR working-set pointers,
// locking and single shifts, and the escape sequences that designate
// a charset into a bank. One State is kept per direction (the bytes
// coming from the child, and the bytes going to it), so the two
// directions never share the mutable parser state described in
// spec.md §9.
package iso2022

import "github.com/dxwzv/luit/internal/charset"

// bank identifies one of the four designation registers G0-G3.
type bank int

const (
	g0 bank = iota
	g1
	g2
	g3
)

type parseMode int

const (
	modeGround parseMode = iota
	modeEsc
)

// State is the full ISO 2022 parser/generator state for one
// direction of the translation. The zero value is not usable; build
// one with NewState.
type State struct {
	g  [4]charset.Charset
	gl bank
	gr bank

	// singleShift, when >= 0, names the bank that supplies exactly the
	// next one character before GL/GR resume governing lookups.
	singleShift int

	mode   parseMode
	inter  []byte // pending escape intermediate bytes (0x20-0x2F)
	pend1  int    // -1, or a buffered first byte of a 2-byte GL/GR code
	pend1g bank   // bank pend1 was read against

	// acceptSingleShift/acceptLockingShift/acceptSelection gate whether
	// Decode honors SS2/SS3, SI/SO/LSn/LSnR, and charset-designation
	// escapes respectively; disableInterp, when set, bypasses all of
	// Decode's ISO 2022 parsing and copies bytes straight through. These
	// back the output direction's "+oss"/"+ols"/"+osl"/"+ot" CLI flags
	// (spec.md §6), which disable recognizing more and more of the
	// child's output until none of it is left.
	acceptSingleShift  bool
	acceptLockingShift bool
	acceptSelection    bool
	disableInterp      bool

	codec   charset.Codec // live "other" codec, recreated when its bank's charset changes
	codecCS charset.Charset

	// encPend buffers a UTF-8 sequence left incomplete at the end of an
	// Encode call.
	encPend []byte

	// otherOnly holds a fixed multibyte codec when this State's locale
	// charset is a T_OTHER encoding (UTF-8, GBK, Shift_JIS, ...). Such
	// locales never run the G0-G3/escape machinery at all -- the whole
	// byte stream is that one stateful codec, the way luit.c special-
	// cases "other" charsets in convert(). otherCS retains the charset
	// otherOnly was built from, so Merge can hand the other direction
	// its own independent codec instance rather than sharing this one.
	otherOnly charset.Codec
	otherCS   charset.Charset
}

// NewWithCharset builds the State luit uses for the child side of the
// pty: G0 holds ASCII (so GL defaults to plain 7-bit text) and G1
// holds cs (so GR, 0xA0-0xFF, decodes straight through cs without the
// child ever having to emit a designation escape -- the common case
// for older programs that were never written to be ISO 2022 aware and
// simply assume their locale's 8-bit charset). A child that does emit
// ISO 2022 escapes is still free to redesignate any bank at any time.
// If cs is a T_OTHER charset (UTF-8, GBK, Shift_JIS, ...), the state
// instead runs that charset's codec directly with no G-bank machinery
// at all, since those charsets are never ISO 2022 designated.
func NewWithCharset(cs charset.Charset) *State {
	if cs.IsOther() {
		return NewOtherState(cs)
	}
	s := NewState()
	s.g[g1] = cs
	return s
}

// NewFromBanks builds a State from an explicit initial GL/GR bank pair
// and G0-G3 predesignation, the general form of NewWithCharset used
// when a locale table row populates more than the common G0=ASCII/
// G1=charset pair (eucJP, for instance, also predesignates G2 and
// G3). A nil entry in g leaves that bank at NewState's default.
func NewFromBanks(gl, gr int, g [4]charset.Charset) *State {
	s := NewState()
	for i, cs := range g {
		if cs != nil {
			s.g[bank(i)] = cs
		}
	}
	s.gl = bank(gl)
	s.gr = bank(gr)
	return s
}

// NewOtherState returns a State that does no ISO 2022 parsing at all
// and instead feeds every byte straight through cs's Codec. Used when
// the locale names a T_OTHER charset rather than an ISO 2022 one.
func NewOtherState(cs charset.Charset) *State {
	return &State{singleShift: -1, pend1: -1, otherOnly: cs.NewCodec(), otherCS: cs}
}

// Merge builds the State for the other half of a translation from an
// already-resolved State, the way luit.c's getLocaleState feeds the
// same (gl, gr, g0..g3) result into both the input and output
// ISO2022 structs. It copies only the static bank configuration --
// which charset sits in G0-G3 and which banks GL/GR currently point
// at -- never output's own mutable parse position (pend1, mode,
// singleShift, or its live "other" codec), since spec.md §9 requires
// the two directions to advance through escape sequences and
// multibyte sequences independently once both are in use. Per
// spec.md §4.4, CLI overrides specific to the new direction (-kg0..
// -kg3/-kgl/-kgr for the input side) are applied by the caller to the
// State Merge returns, not to output.
func Merge(output *State) *State {
	if output.otherOnly != nil {
		return NewOtherState(output.otherCS)
	}
	return NewFromBanks(int(output.gl), int(output.gr), output.g)
}

// NewState returns a State designated the way luit.c initializes a
// fresh ISO2022 struct: G0 holds ASCII, GL points at G0, GR points at
// G1, which is unassigned (Unknown96, whose identity Recode makes a GR
// byte come out as its 7-bit GL counterpart until a real charset is
// designated there).
func NewState() *State {
	s := &State{
		singleShift:        -1,
		pend1:              -1,
		acceptSingleShift:  true,
		acceptLockingShift: true,
		acceptSelection:    true,
	}
	ascii, _ := charset.GetByName("ASCII")
	if ascii == nil {
		ascii = charset.Unknown94
	}
	s.g[g0] = ascii
	s.g[g1] = charset.Unknown96
	s.g[g2] = charset.Unknown94
	s.g[g3] = charset.Unknown94
	s.gl = g0
	s.gr = g1
	return s
}

// Designate assigns cs to bank b, matching luit.c's designateCharset.
func (s *State) Designate(b int, cs charset.Charset) {
	s.g[bank(b)] = cs
}

// Charset returns the charset currently designated into bank b (0-3).
func (s *State) Charset(b int) charset.Charset {
	return s.g[bank(b)]
}

// SetGL/SetGR point GL/GR at bank b (0-3), as the -gl/-gr/-kgl/-kgr
// overrides and the +kssgr swap do; Decode's own locking shifts (SI,
// SO, LSn, LSnR) move the pointers directly.
func (s *State) SetGL(b int) { s.gl = bank(b) }
func (s *State) SetGR(b int) { s.gr = bank(b) }

// SetAcceptSingleShift/SetAcceptLockingShift/SetAcceptSelection/
// SetDisableInterpretation implement the "+oss"/"+ols"/"+osl"/"+ot"
// CLI flags: cmd/luit calls these on the output-direction State only,
// since they describe how much of the child's own output luit is
// willing to interpret as ISO 2022.
func (s *State) SetAcceptSingleShift(v bool)     { s.acceptSingleShift = v }
func (s *State) SetAcceptLockingShift(v bool)    { s.acceptLockingShift = v }
func (s *State) SetAcceptSelection(v bool)       { s.acceptSelection = v }
func (s *State) SetDisableInterpretation(v bool) { s.disableInterp = v }

func (s *State) bankCharset(b bank) charset.Charset {
	return s.g[b]
}

// codecFor returns the live Codec for bank b's charset, creating one
// if the bank's charset has changed since the last call -- each
// change of designation starts a fresh multibyte accumulation.
func (s *State) codecFor(b bank) charset.Codec {
	cs := s.g[b]
	if s.codec == nil || s.codecCS != cs {
		s.codec = cs.NewCodec()
		s.codecCS = cs
	}
	return s.codec
}
