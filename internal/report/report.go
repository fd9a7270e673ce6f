// Package report implements the luit -list option's charset table
// dump, grounded on _examples/original_source/charset.c's
// reportCharsets: the locale table first (which encoding names map to
// which GL/GR/G0-G3 configuration, or "non-ISO-2022 encoding" for an
// Other row), then the full fontenc/other charset table.
package report

import (
	"fmt"
	"io"

	"github.com/dxwzv/luit/internal/charset"
	"github.com/dxwzv/luit/internal/locale"
)

// Charsets writes the locale table and the charset table to w, in the
// same two-section layout as charset.c's reportCharsets.
func Charsets(w io.Writer) error {
	if err := locales(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Known charsets (not all may be available):"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return fontencs(w)
}

func locales(w io.Writer) error {
	for _, row := range locale.Rows() {
		if row.Other != "" {
			if _, err := fmt.Fprintf(w, "  %s (non-ISO-2022 encoding)\n", row.Name); err != nil {
				return err
			}
			continue
		}
		line := fmt.Sprintf("  %s: GL -> G%d, GR -> G%d", row.Name, row.GL, row.GR)
		for i, g := range [4]string{row.G0, row.G1, row.G2, row.G3} {
			if g == "" {
				continue
			}
			line += fmt.Sprintf(", G%d: %s", i, g)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func fontencs(w io.Writer) error {
	for _, info := range charset.Infos() {
		final := "-"
		if info.Final != 0 {
			final = string(info.Final)
		}
		suffix := ""
		if info.Final != 0 {
			suffix = " (ISO 2022)"
		}
		if _, err := fmt.Fprintf(w, "%-8s %-3s %s%s\n", info.Tag, final, info.Name, suffix); err != nil {
			return err
		}
	}
	return nil
}

// Fontenc writes only the fontenc charset rows (every row except the
// "other" table's, whether or not it has a designating final byte),
// for -list-fontenc.
func Fontenc(w io.Writer) error {
	for _, info := range charset.Infos() {
		if info.Tag == charset.TOther {
			continue
		}
		final := "-"
		if info.Final != 0 {
			final = string(info.Final)
		}
		if _, err := fmt.Fprintf(w, "%-8s %-3s %s\n", info.Tag, final, info.Name); err != nil {
			return err
		}
	}
	return nil
}

// Iconv writes only the non-ISO-2022 ("other") charset rows, for
// -list-iconv.
func Iconv(w io.Writer) error {
	for _, info := range charset.Infos() {
		if info.Tag != charset.TOther {
			continue
		}
		if _, err := fmt.Fprintf(w, "%-8s %s\n", info.Tag, info.Name); err != nil {
			return err
		}
	}
	return nil
}

// ShowFontenc dumps the code-to-rune table of the named fontenc
// charset, one GL code per line. Multibyte tags (94x94/96x96/94x192)
// aren't dumped cell by cell -- an 8836-or-larger row table isn't
// useful on a terminal -- ShowFontenc reports their shape instead.
// When fill is set (the -fill-fontenc flag), codes the charset leaves
// unmapped are printed as an identity row (code -> code) rather than
// omitted, matching -fill-fontenc's "no gaps" report.
func ShowFontenc(w io.Writer, name string, fill bool) error {
	cs, ok := charset.GetByName(name)
	if !ok || cs == nil {
		return fmt.Errorf("report: unknown fontenc charset %q", name)
	}
	if cs.IsOther() {
		return fmt.Errorf("report: %q is an \"other\" charset; use -show-iconv", name)
	}

	var lo, hi int
	switch cs.Tag() {
	case charset.T94, charset.T96:
		lo, hi = 0x20, 0x7F
	case charset.T128:
		lo, hi = 0x00, 0x7F
	default:
		_, err := fmt.Fprintf(w, "%s: %s charset, cell-by-cell dump omitted\n", name, cs.Tag())
		return err
	}

	for code := lo; code <= hi; code++ {
		r := cs.Recode(code)
		if r <= 0 {
			if !fill {
				continue
			}
			r = code
		}
		if _, err := fmt.Fprintf(w, "0x%02X -> U+%04X\n", code, r); err != nil {
			return err
		}
	}
	return nil
}

// ShowIconv probes the named "other" charset a byte at a time over
// the full 0x00-0xFF range with a fresh Codec, printing the bytes
// that decode to a complete rune on their own and noting the ones
// that only start a longer sequence.
func ShowIconv(w io.Writer, name string) error {
	cs, ok := charset.GetByName(name)
	if !ok || cs == nil {
		return fmt.Errorf("report: unknown charset %q", name)
	}
	if !cs.IsOther() {
		return fmt.Errorf("report: %q is a fontenc charset; use -show-fontenc", name)
	}

	for b := 0; b <= 0xFF; b++ {
		codec := cs.NewCodec()
		r, ok := codec.Recode(byte(b))
		if !ok {
			if _, err := fmt.Fprintf(w, "0x%02X -> (leads a multi-byte sequence)\n", b); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "0x%02X -> U+%04X\n", b, r); err != nil {
			return err
		}
	}
	return nil
}
