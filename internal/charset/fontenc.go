package charset

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

var errNoBackend = errors.New("charset: no table available for this encoding")

// fontencBackend is the external byte<->Unicode map a fontencCharset
// wraps, per spec.md §4.1/§4.2. Each implementation owns the "shift"
// arithmetic appropriate to how its underlying library represents
// bytes on the wire (a plain 8-bit charmap table, an EUC-style 2-byte
// GR pair, or Big5's asymmetric lead/trail byte).
type fontencBackend interface {
	recode(code int) int
	reverse(r rune) int
}

type fontencCharset struct {
	name    string
	tag     Tag
	final   byte
	backend fontencBackend
}

func (c *fontencCharset) Name() string  { return c.name }
func (c *fontencCharset) Tag() Tag      { return c.tag }
func (c *fontencCharset) Final() byte   { return c.final }
func (c *fontencCharset) IsOther() bool { return false }
func (c *fontencCharset) NewCodec() Codec {
	panic("charset: NewCodec on non-other charset " + c.name)
}

func (c *fontencCharset) Recode(code int) int {
	return c.backend.recode(code)
}

func (c *fontencCharset) Reverse(r rune) int {
	n := c.backend.reverse(r)
	if n < 0 {
		return -1
	}
	if !validRange(c.tag, n) {
		return -1
	}
	return n
}

// --- backends -----------------------------------------------------------

// identityBackend passes GL bytes through unchanged: ASCII and ISO
// 646 (1973) are, for luit's purposes, the identity map onto Unicode's
// ASCII range.
type identityBackend struct{}

func (identityBackend) recode(code int) int { return code }
func (identityBackend) reverse(r rune) int {
	if r < 0x80 {
		return int(r)
	}
	return -1
}

// charmap8 wraps a single-byte golang.org/x/text/encoding.Encoding.
// shift is added to the incoming GL/GL-pair code before the byte is
// decoded, and subtracted from the encoded byte before being returned
// as a reverse code, exactly as spec.md §4.2 describes.
type charmap8 struct {
	enc   encoding.Encoding
	shift int
}

func (b charmap8) recode(code int) int {
	dec := b.enc.NewDecoder()
	out, err := dec.Bytes([]byte{byte(code + b.shift)})
	if err != nil || len(out) == 0 {
		return 0
	}
	r, _ := utf8.DecodeRune(out)
	if r == utf8.RuneError {
		return 0
	}
	return int(r)
}

func (b charmap8) reverse(r rune) int {
	enc := b.enc.NewEncoder()
	buf := make([]byte, utf8.RuneLen(r))
	utf8.EncodeRune(buf, r)
	out, err := enc.Bytes(buf)
	if err != nil || len(out) != 1 {
		return -1
	}
	n := int(out[0]) - b.shift
	if n <= 0 {
		return -1
	}
	return n
}

// eucDouble wraps a 2-byte EUC-style golang.org/x/text encoding
// (EUC-JP, EUC-KR, GBK) to back a T_9494/T_9696 charset whose code is
// two GL bytes packed as (b0<<8)|b1. prefix holds the extra lead
// byte(s) some encodings need to select a secondary plane (e.g. EUC-JP
// uses an SS3 0x8F prefix for JIS X 0212).
type eucDouble struct {
	enc    encoding.Encoding
	prefix []byte
}

func (b eucDouble) recode(code int) int {
	hi := byte(code>>8) | 0x80
	lo := byte(code&0xFF) | 0x80
	wire := append(append([]byte{}, b.prefix...), hi, lo)
	dec := b.enc.NewDecoder()
	out, err := dec.Bytes(wire)
	if err != nil || len(out) == 0 {
		return 0
	}
	r, _ := utf8.DecodeRune(out)
	if r == utf8.RuneError {
		return 0
	}
	return int(r)
}

func (b eucDouble) reverse(r rune) int {
	enc := b.enc.NewEncoder()
	buf := make([]byte, utf8.RuneLen(r))
	utf8.EncodeRune(buf, r)
	out, err := enc.Bytes(buf)
	if err != nil || len(out) != len(b.prefix)+2 {
		return -1
	}
	out = out[len(b.prefix):]
	hi := int(out[0]) &^ 0x80
	lo := int(out[1]) &^ 0x80
	return hi<<8 | lo
}

// big5Double backs the T_94192 "Big 5" row: the lead byte carries the
// high bit (GL+0x80), the trail byte is used as-is.
type big5Double struct {
	enc encoding.Encoding
}

func (b big5Double) recode(code int) int {
	hi := byte(code>>8) | 0x80
	lo := byte(code & 0xFF)
	dec := b.enc.NewDecoder()
	out, err := dec.Bytes([]byte{hi, lo})
	if err != nil || len(out) == 0 {
		return 0
	}
	r, _ := utf8.DecodeRune(out)
	if r == utf8.RuneError {
		return 0
	}
	return int(r)
}

func (b big5Double) reverse(r rune) int {
	enc := b.enc.NewEncoder()
	buf := make([]byte, utf8.RuneLen(r))
	utf8.EncodeRune(buf, r)
	out, err := enc.Bytes(buf)
	if err != nil || len(out) != 2 {
		return -1
	}
	hi := int(out[0]) &^ 0x80
	lo := int(out[1])
	return hi<<8 | lo
}

// jisx0201Backend implements the closed-form linear map from JIS X
// 0201's halfwidth-katakana cell numbers onto U+FF61..U+FF9F; no
// library in the example pack ships this narrow a table, so it is
// computed directly.
type jisx0201Backend struct{ gr bool }

func (b jisx0201Backend) recode(code int) int {
	n := code
	if b.gr {
		n &^= 0x80
	}
	if n >= 0x21 && n <= 0x5F {
		return 0xFF61 + (n - 0x21)
	}
	if n >= 0x20 && n < 0x80 {
		return n
	}
	return 0
}

func (b jisx0201Backend) reverse(r rune) int {
	var n int
	switch {
	case r >= 0xFF61 && r <= 0xFF9F:
		n = 0x21 + int(r-0xFF61)
	case r < 0x80:
		n = int(r)
	default:
		return -1
	}
	if b.gr {
		n |= 0x80
	}
	return n
}

// decSpecialGraphics is the fixed VT100 "DEC Special Graphics" table
// (line drawing and a handful of symbols), standard across terminal
// emulators and reproduced here verbatim.
var decSpecialGraphics = map[byte]rune{
	0x5f: 0x00A0, 0x60: 0x25C6, 0x61: 0x2592, 0x62: 0x2409,
	0x63: 0x240C, 0x64: 0x240D, 0x65: 0x240A, 0x66: 0x00B0,
	0x67: 0x00B1, 0x68: 0x2424, 0x69: 0x240B, 0x6a: 0x2518,
	0x6b: 0x2510, 0x6c: 0x250C, 0x6d: 0x2514, 0x6e: 0x253C,
	0x6f: 0x23BA, 0x70: 0x23BB, 0x71: 0x2500, 0x72: 0x23BC,
	0x73: 0x23BD, 0x74: 0x251C, 0x75: 0x2524, 0x76: 0x2534,
	0x77: 0x252C, 0x78: 0x2502, 0x79: 0x2264, 0x7a: 0x2265,
	0x7b: 0x03C0, 0x7c: 0x2260, 0x7d: 0x00A3, 0x7e: 0x00B7,
}

type decSpecialBackend struct{}

func (decSpecialBackend) recode(code int) int {
	if r, ok := decSpecialGraphics[byte(code)]; ok {
		return int(r)
	}
	if code >= 0x20 && code < 0x5f {
		return code
	}
	return 0
}

func (decSpecialBackend) reverse(r rune) int {
	for b, ur := range decSpecialGraphics {
		if ur == r {
			return int(b)
		}
	}
	if r >= 0x20 && r < 0x5f {
		return int(r)
	}
	return -1
}

// unsupportedBackend maps nothing: recode yields 0 and reverse -1 for
// every input. No table row uses it; the rows with no table wired up
// (KOI8-E, KOI8-RU, TCVN, DEC Technical) are built with failBackend
// instead, so they behave like the original luit without its optional
// fontenc files installed -- the row stays in the table but
// instantiation fails and the row is negative-cached (T_FAILED).
type unsupportedBackend struct{}

func (unsupportedBackend) recode(int) int  { return 0 }
func (unsupportedBackend) reverse(rune) int { return -1 }

// fontencRow is one entry of the built-in fontenc table: (name, type,
// final byte, external map, shift), per spec.md §4.1/§6.
type fontencRow struct {
	name  string
	tag   Tag
	final byte
	build func() (fontencBackend, error)

	cs     *fontencCharset
	failed bool
}

func okBackend(b fontencBackend) func() (fontencBackend, error) {
	return func() (fontencBackend, error) { return b, nil }
}

func failBackend() (fontencBackend, error) {
	return nil, errNoBackend
}

// fontencTable reproduces, row for row, the built-in table from
// _examples/original_source/charset.c's fontencCharsets[], adapted so
// the "external-encoding-name" column names a golang.org/x/text wire
// codec instead of an X11 font-encoding file. Rows appearing twice
// (ISO 8859-11 / TIS 620) are intentional aliases, as in the original.
var fontencTable = []fontencRow{
	{name: "ISO 646 (1973)", tag: T94, final: '@', build: okBackend(identityBackend{})},
	{name: "ASCII", tag: T94, final: 'B', build: okBackend(identityBackend{})},
	{name: "JIS X 0201:GL", tag: T94, final: 'J', build: okBackend(jisx0201Backend{gr: false})},
	{name: "JIS X 0201:GR", tag: T94, final: 'I', build: okBackend(jisx0201Backend{gr: true})},
	{name: "DEC Special", tag: T94, final: '0', build: okBackend(decSpecialBackend{})},
	{name: "DEC Technical", tag: T94, final: '>', build: failBackend},

	{name: "ISO 8859-1", tag: T96, final: 'A', build: okBackend(charmap8{charmap.ISO8859_1, 0x80})},
	{name: "ISO 8859-2", tag: T96, final: 'B', build: okBackend(charmap8{charmap.ISO8859_2, 0x80})},
	{name: "ISO 8859-3", tag: T96, final: 'C', build: okBackend(charmap8{charmap.ISO8859_3, 0x80})},
	{name: "ISO 8859-4", tag: T96, final: 'D', build: okBackend(charmap8{charmap.ISO8859_4, 0x80})},
	{name: "ISO 8859-5", tag: T96, final: 'L', build: okBackend(charmap8{charmap.ISO8859_5, 0x80})},
	{name: "ISO 8859-6", tag: T96, final: 'G', build: okBackend(charmap8{charmap.ISO8859_6, 0x80})},
	{name: "ISO 8859-7", tag: T96, final: 'F', build: okBackend(charmap8{charmap.ISO8859_7, 0x80})},
	{name: "ISO 8859-8", tag: T96, final: 'H', build: okBackend(charmap8{charmap.ISO8859_8, 0x80})},
	{name: "ISO 8859-9", tag: T96, final: 'M', build: okBackend(charmap8{charmap.ISO8859_9, 0x80})},
	{name: "ISO 8859-10", tag: T96, final: 'V', build: okBackend(charmap8{charmap.ISO8859_10, 0x80})},
	{name: "ISO 8859-11", tag: T96, final: 'T', build: okBackend(charmap8{charmap.Windows874, 0x80})},
	{name: "TIS 620", tag: T96, final: 'T', build: okBackend(charmap8{charmap.Windows874, 0x80})},
	{name: "ISO 8859-13", tag: T96, final: 'Y', build: okBackend(charmap8{charmap.ISO8859_13, 0x80})},
	{name: "ISO 8859-14", tag: T96, final: '_', build: okBackend(charmap8{charmap.ISO8859_14, 0x80})},
	{name: "ISO 8859-15", tag: T96, final: 'b', build: okBackend(charmap8{charmap.ISO8859_15, 0x80})},
	{name: "ISO 8859-16", tag: T96, final: 'f', build: okBackend(charmap8{charmap.ISO8859_16, 0x80})},
	{name: "KOI8-E", tag: T96, final: '@', build: failBackend},
	{name: "TCVN", tag: T96, final: 'Z', build: failBackend},

	{name: "GB 2312", tag: T9494, final: 'A', build: okBackend(eucDouble{enc: simplifiedchinese.GBK})},
	{name: "JIS X 0208", tag: T9494, final: 'B', build: okBackend(eucDouble{enc: japanese.EUCJP})},
	{name: "KSC 5601", tag: T9494, final: 'C', build: okBackend(eucDouble{enc: korean.EUCKR})},
	{name: "JIS X 0212", tag: T9494, final: 'D', build: okBackend(eucDouble{enc: japanese.EUCJP, prefix: []byte{0x8F}})},

	{name: "GB 2312", tag: T9696, final: 'A', build: okBackend(eucDouble{enc: simplifiedchinese.GBK})},
	{name: "JIS X 0208", tag: T9696, final: 'B', build: okBackend(eucDouble{enc: japanese.EUCJP})},
	{name: "KSC 5601", tag: T9696, final: 'C', build: okBackend(eucDouble{enc: korean.EUCKR})},
	{name: "JIS X 0212", tag: T9696, final: 'D', build: okBackend(eucDouble{enc: japanese.EUCJP, prefix: []byte{0x8F}})},

	{name: "KOI8-R", tag: T128, build: okBackend(charmap8{charmap.KOI8R, 0x80})},
	{name: "KOI8-U", tag: T128, build: okBackend(charmap8{charmap.KOI8U, 0x80})},
	{name: "KOI8-RU", tag: T128, build: failBackend},
	{name: "CP 1252", tag: T128, build: okBackend(charmap8{charmap.Windows1252, 0x80})},
	{name: "CP 1251", tag: T128, build: okBackend(charmap8{charmap.Windows1251, 0x80})},
	{name: "CP 1250", tag: T128, build: okBackend(charmap8{charmap.Windows1250, 0x80})},

	{name: "CP 437", tag: T128, build: okBackend(charmap8{charmap.CodePage437, 0x80})},
	{name: "CP 850", tag: T128, build: okBackend(charmap8{charmap.CodePage850, 0x80})},
	{name: "CP 852", tag: T128, build: okBackend(charmap8{charmap.CodePage852, 0x80})},
	{name: "CP 866", tag: T128, build: okBackend(charmap8{charmap.CodePage866, 0x80})},

	{name: "Big 5", tag: T94192, build: okBackend(big5Double{enc: traditionalchinese.Big5})},
}
