package charset

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// textCodec adapts a golang.org/x/text/encoding.Encoding into the
// byte-at-a-time Codec interface T_OTHER charsets need. It owns its
// own transform.Transformer and input buffer, so a run of partial
// multibyte input is state that belongs to this value -- never to a
// shared package-level variable -- matching the decoder-state design
// note in spec.md §9.
type textCodec struct {
	enc encoding.Encoding
	dec transform.Transformer
	buf []byte
}

func newTextCodec(enc encoding.Encoding) *textCodec {
	return &textCodec{enc: enc, dec: enc.NewDecoder()}
}

func (c *textCodec) Recode(b byte) (rune, bool) {
	c.buf = append(c.buf, b)
	dst := make([]byte, utf8.UTFMax)
	nDst, nSrc, err := c.dec.Transform(dst, c.buf, false)
	switch err {
	case transform.ErrShortSrc:
		return 0, false
	case nil:
		if nDst == 0 {
			c.buf = c.buf[nSrc:]
			return 0, false
		}
		r, _ := utf8.DecodeRune(dst[:nDst])
		c.buf = c.buf[nSrc:]
		return r, true
	default:
		// invalid sequence: emit the replacement character and resync
		// on the next byte, the way luit.c's fromOtherDevice drops a
		// byte it cannot make sense of.
		c.buf = c.buf[:0]
		c.dec.Reset()
		return utf8.RuneError, true
	}
}

func (c *textCodec) Reverse(r rune) []byte {
	enc := c.enc.NewEncoder()
	src := make([]byte, utf8.RuneLen(r))
	utf8.EncodeRune(src, r)
	out, err := enc.Bytes(src)
	if err != nil {
		return nil
	}
	return out
}

// utf8Codec backs the "UTF-8" other-row directly with unicode/utf8
// rather than routing it through golang.org/x/text/encoding.Nop's
// transform.Transformer. Nop's Transform copies bytes through
// untouched and reports nDst>0/err=nil for a single lead byte, so
// feeding it one byte at a time (as Codec requires) made every
// multibyte UTF-8 sequence decode as its own truncated, bogus rune
// instead of waiting for the rest of the sequence. utf8.FullRune
// already knows the exact byte-count rule Recode needs: it reports
// false while buf is a valid-so-far but incomplete lead sequence, and
// true the instant buf is either a complete rune or an encoding that
// can never become one (so DecodeRune's replacement-character/width-1
// result is returned immediately, matching luit.c's fromOtherDevice
// resync-on-garbage behavior).
type utf8Codec struct {
	buf []byte
}

func newUTF8Codec() *utf8Codec { return &utf8Codec{} }

func (c *utf8Codec) Recode(b byte) (rune, bool) {
	c.buf = append(c.buf, b)
	if !utf8.FullRune(c.buf) {
		return 0, false
	}
	r, size := utf8.DecodeRune(c.buf)
	c.buf = c.buf[size:]
	return r, true
}

func (c *utf8Codec) Reverse(r rune) []byte {
	buf := make([]byte, utf8.RuneLen(r))
	n := utf8.EncodeRune(buf, r)
	return buf[:n]
}

type otherCharset struct {
	name     string
	enc      encoding.Encoding
	newCodec func() Codec
}

func (o *otherCharset) Name() string  { return o.name }
func (o *otherCharset) Tag() Tag      { return TOther }
func (o *otherCharset) Final() byte   { return 0 }
func (o *otherCharset) IsOther() bool { return true }
func (o *otherCharset) NewCodec() Codec {
	if o.newCodec != nil {
		return o.newCodec()
	}
	return newTextCodec(o.enc)
}
func (o *otherCharset) Recode(int) int {
	panic("charset: Recode called on an \"other\" charset " + o.name)
}
func (o *otherCharset) Reverse(rune) int {
	panic("charset: Reverse called on an \"other\" charset " + o.name)
}

type otherRow struct {
	name     string
	enc      encoding.Encoding
	newCodec func() Codec
	cs       Charset
	failed   bool
}

func (row *otherRow) build() (Charset, error) {
	return &otherCharset{name: row.name, enc: row.enc, newCodec: row.newCodec}, nil
}

// otherTable reproduces the stateful multibyte charsets luit treats
// specially (locale-named, never ISO 2022 designated): the encodings
// it backs come straight from the rest of the example pack's stack of
// golang.org/x/text/encoding/* packages. UTF-8 is the one row with no
// golang.org/x/text backend at all -- the converter's own internal
// representation already is UTF-8, so "recoding" it is unicode/utf8's
// job, not a table lookup.
var otherTable = []otherRow{
	{name: "UTF-8", newCodec: func() Codec { return newUTF8Codec() }},
	{name: "GBK", enc: simplifiedchinese.GBK},
	{name: "GB18030", enc: simplifiedchinese.GB18030},
	{name: "SJIS", enc: japanese.ShiftJIS},
	// x/text has no HKSCS extension table; Big5-HKSCS falls back to
	// plain Big 5, covering the common subset.
	{name: "Big5-HKSCS", enc: traditionalchinese.Big5},
}
