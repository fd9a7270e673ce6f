// Package locale resolves a POSIX locale name to the initial ISO 2022
// bank configuration luit should use for the child side of the
// translation, following the algorithm in
// _examples/original_source/charset.c's matchLocaleCharset/
// findLocaleCharset and the localeCharsets table it walks.
package locale

import (
	"strings"

	"github.com/dxwzv/luit/internal/charset"
)

// Config is the result of resolving a locale's encoding against the
// locale table: default GL/GR bank indices plus whichever of G0-G3 the
// row predesignates (nil entries are left at NewState's defaults).
// When Other is non-nil, the row names a non-ISO-2022 charset (UTF-8,
// GBK, SJIS, ...) and the bank fields are unused, per spec.md §4.3.
type Config struct {
	GL, GR int
	G      [4]charset.Charset
	Other  charset.Charset
}

// row is one entry of the built-in locale table, mirroring
// LocaleCharsetRec in charset.c: an encoding name plus the GL/GR bank
// indices and the (possibly absent) charset to predesignate into each
// of G0-G3, or a single "other" charset name for non-ISO-2022 locales.
type row struct {
	name           string
	gl, gr         int
	g0, g1, g2, g3 string
	other          string
}

// localeTable reproduces, row for row, charset.c's localeCharsets[].
// Rows naming an unavailable charset (KOI8-RU, TCVN)
// still match by name; the bank they'd populate falls back to an
// Unknown sentinel at resolve time, the same "table row present, entry
// unavailable" gap recorded for the fontenc table in DESIGN.md.
var localeTable = []row{
	{name: "C", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-1"},
	{name: "POSIX", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-1"},
	{name: "US-ASCII", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-1"},

	{name: "ISO8859-1", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-1"},
	{name: "ISO8859-2", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-2"},
	{name: "ISO8859-3", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-3"},
	{name: "ISO8859-4", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-4"},
	{name: "ISO8859-5", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-5"},
	{name: "ISO8859-6", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-6"},
	{name: "ISO8859-7", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-7"},
	{name: "ISO8859-8", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-8"},
	{name: "ISO8859-9", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-9"},
	{name: "ISO8859-10", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-10"},
	{name: "ISO8859-11", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-11"},
	{name: "TIS620", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-11"},
	{name: "ISO8859-13", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-13"},
	{name: "ISO8859-14", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-14"},
	{name: "ISO8859-15", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-15"},
	{name: "ISO8859-16", gl: 0, gr: 2, g0: "ASCII", g2: "ISO 8859-16"},

	{name: "KOI8-R", gl: 0, gr: 2, g0: "ASCII", g2: "KOI8-R"},
	{name: "KOI8-U", gl: 0, gr: 2, g0: "ASCII", g2: "KOI8-U"},
	{name: "KOI8-RU", gl: 0, gr: 2, g0: "ASCII", g2: "KOI8-RU"},
	{name: "CP1250", gl: 0, gr: 2, g0: "ASCII", g2: "CP 1250"},
	{name: "CP1251", gl: 0, gr: 2, g0: "ASCII", g2: "CP 1251"},
	{name: "CP1252", gl: 0, gr: 2, g0: "ASCII", g2: "CP 1252"},
	{name: "CP437", gl: 0, gr: 2, g0: "ASCII", g2: "CP 437"},
	{name: "CP850", gl: 0, gr: 2, g0: "ASCII", g2: "CP 850"},
	{name: "CP852", gl: 0, gr: 2, g0: "ASCII", g2: "CP 852"},
	{name: "CP866", gl: 0, gr: 2, g0: "ASCII", g2: "CP 866"},
	{name: "TCVN", gl: 0, gr: 2, g0: "ASCII", g2: "TCVN"},

	{name: "eucCN", gl: 0, gr: 1, g0: "ASCII", g1: "GB 2312"},
	{name: "GB2312", gl: 0, gr: 1, g0: "ASCII", g1: "GB 2312"},
	{name: "eucJP", gl: 0, gr: 1, g0: "ASCII", g1: "JIS X 0208", g2: "JIS X 0201:GR", g3: "JIS X 0212"},
	{name: "eucKR", gl: 0, gr: 1, g0: "ASCII", g1: "KSC 5601"},
	{name: "Big5", gl: 0, gr: 1, g0: "ASCII", g1: "Big 5"},

	{name: "gbk", other: "GBK"},
	{name: "UTF-8", other: "UTF-8"},
	{name: "SJIS", other: "SJIS"},
	{name: "Big5-HKSCS", other: "Big5-HKSCS"},
	{name: "gb18030", other: "GB18030"},
}

// prefixSubstitutions is tried, in order, against the extracted
// encoding name when a direct locale-table lookup fails, mirroring
// charset.c's matchLocaleCharset fallback for names like glibc's
// "ISO-8859-15" that don't match a table row's name verbatim.
var prefixSubstitutions = []struct{ from, to string }{
	{"ISO-", "ISO "},
	{"IBM", "CP "},
	{"CP-", "CP "},
	{"ANSI", "CP "},
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '-', '_':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}

// Row is the public shape of one locale-table entry, for -list's
// report: the encoding name plus either its GL/GR/G0-G3 labels (an ISO
// 2022 row) or its Other charset name (a non-ISO-2022 row), mirroring
// charset.c's reportCharsets printing localeCharsets[] before
// fontencCharsets[].
type Row struct {
	Name           string
	Other          string // non-empty for a non-ISO-2022 row; GL/GR/G0-3 unused then
	GL, GR         int
	G0, G1, G2, G3 string
}

// Rows returns the built-in locale table in its defined order, for
// report.Charsets to print alongside the fontenc/other charset table.
func Rows() []Row {
	rows := make([]Row, len(localeTable))
	for i, r := range localeTable {
		rows[i] = Row{
			Name: r.name, Other: r.other,
			GL: r.gl, GR: r.gr,
			G0: r.g0, G1: r.g1, G2: r.g2, G3: r.g3,
		}
	}
	return rows
}

func findRow(encoding string) (row, bool) {
	for _, r := range localeTable {
		if normalize(r.name) == normalize(encoding) {
			return r, true
		}
	}
	return row{}, false
}

// Codeset extracts the encoding portion of a POSIX locale string, per
// spec.md §4.3 step 1: the text after the last '.', or the whole
// label when it carries no '.' at all (e.g. "C", "POSIX", "eucJP"
// passed directly rather than as "xx_XX.eucJP").
func Codeset(locale string) string {
	codeset := locale
	if i := strings.LastIndexByte(locale, '.'); i >= 0 {
		codeset = locale[i+1:]
	}
	if j := strings.IndexByte(codeset, '@'); j >= 0 {
		codeset = codeset[:j]
	}
	return codeset
}

func lookup(name string) charset.Charset {
	if name == "" {
		return nil
	}
	cs, ok := charset.GetByName(name)
	if !ok || cs == nil {
		return charset.Unknown96
	}
	return cs
}

func rowConfig(r row) Config {
	if r.other != "" {
		return Config{Other: lookup(r.other)}
	}
	return Config{
		GL: r.gl,
		GR: r.gr,
		G:  [4]charset.Charset{lookup(r.g0), lookup(r.g1), lookup(r.g2), lookup(r.g3)},
	}
}

// Resolve maps a POSIX locale name to the ISO 2022 bank configuration
// its terminal side speaks, trying a direct locale-table match and
// then each of the prefix substitutions. It reports ok=false if the
// locale's encoding matches no table row by either route, mirroring
// matchLocaleCharset returning NULL (the caller then falls back to a
// default charset, as luit.c's getDefaultCharset does).
func Resolve(loc string) (Config, bool) {
	encoding := Codeset(loc)
	if encoding == "" {
		return Config{}, false
	}
	if r, ok := findRow(encoding); ok {
		return rowConfig(r), true
	}
	for _, sub := range prefixSubstitutions {
		upper := strings.ToUpper(encoding)
		if !strings.HasPrefix(upper, sub.from) {
			continue
		}
		candidate := sub.to + encoding[len(sub.from):]
		if r, ok := findRow(candidate); ok {
			return rowConfig(r), true
		}
	}
	return Config{}, false
}

// IsUTF8 reports whether loc names a UTF-8 locale, i.e. whether its
// codeset normalizes to "utf8".
func IsUTF8(loc string) bool {
	return normalize(Codeset(loc)) == "utf8"
}
