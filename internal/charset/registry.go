package charset

import (
	"strings"
	"sync"
)

// registry guards the process-wide cache of resolved charsets. The
// cache itself lives in the table rows: each fontenc or "other" row
// keeps the charset it built, reached by (Tag, final byte) -- for ISO
// 2022 designation sequences -- or by name -- for locale-driven
// lookups and the "other" table. A row whose charset fails to build
// is remembered as failed so repeated lookups
// don't keep retrying a table row that can never succeed; this is the
// Go equivalent of the T_FAILED tag in
// _examples/original_source/charset.c, done by setting a bool on the
// table row rather than mutating its type tag, per spec.md §9.
type registry struct {
	mu sync.Mutex
}

var global registry

// normalize strips whitespace, '-' and '_' and folds case, matching
// charset.c's compare/compare1 so that "ISO-8859-1", "iso_8859_1" and
// "ISO 8859 1" all land on the same row.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '_':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}

func namesEqual(a, b string) bool {
	return normalize(a) == normalize(b)
}

// GetByDesignation resolves the charset designated by an ISO 2022
// escape sequence with the given tag and final byte. It returns the
// Unknown sentinel for tag if no fontenc row matches or the matching
// row has previously failed to build.
func GetByDesignation(tag Tag, final byte) Charset {
	global.mu.Lock()
	defer global.mu.Unlock()

	for i := range fontencTable {
		row := &fontencTable[i]
		if row.tag != tag || row.final != final {
			continue
		}
		if row.failed {
			continue
		}
		if row.cs != nil {
			return row.cs
		}
		backend, err := row.build()
		if err != nil {
			row.failed = true
			continue
		}
		row.cs = &fontencCharset{name: row.name, tag: row.tag, final: row.final, backend: backend}
		return row.cs
	}
	return GetUnknown(tag)
}

// GetByName resolves a charset by its fontenc or "other" table name,
// e.g. "ISO 8859-15" or "UTF-8". It returns (nil, false) if no row
// matches by name, and (nil, true) if a matching row exists but its
// backend failed to build (the T_FAILED case).
func GetByName(name string) (Charset, bool) {
	global.mu.Lock()
	defer global.mu.Unlock()

	for i := range fontencTable {
		row := &fontencTable[i]
		if !namesEqual(row.name, name) {
			continue
		}
		if row.failed {
			return nil, true
		}
		if row.cs != nil {
			return row.cs, true
		}
		backend, err := row.build()
		if err != nil {
			row.failed = true
			return nil, true
		}
		row.cs = &fontencCharset{name: row.name, tag: row.tag, final: row.final, backend: backend}
		return row.cs, true
	}

	for i := range otherTable {
		row := &otherTable[i]
		if !namesEqual(row.name, name) {
			continue
		}
		if row.failed {
			return nil, true
		}
		if row.cs != nil {
			return row.cs, true
		}
		cs, err := row.build()
		if err != nil {
			row.failed = true
			return nil, true
		}
		row.cs = cs
		return row.cs, true
	}

	return nil, false
}

// Names returns the display names of every charset the registry knows
// about, fontenc rows first in table order followed by "other" rows,
// for use by the reporting package.
func Names() []string {
	names := make([]string, 0, len(fontencTable)+len(otherTable))
	for _, row := range fontencTable {
		names = append(names, row.name)
	}
	for _, row := range otherTable {
		names = append(names, row.name)
	}
	return names
}

// Info summarizes one table row for -list-knownEncodings-style
// reporting, without forcing the row's backend to build.
type Info struct {
	Name  string
	Tag   Tag
	Final byte // 0 for T_OTHER, T_128 and Big 5 (T_94192) rows, which aren't ISO 2022 designated
}

// Infos returns the full built-in table, fontenc rows first.
func Infos() []Info {
	infos := make([]Info, 0, len(fontencTable)+len(otherTable))
	for _, row := range fontencTable {
		infos = append(infos, Info{Name: row.name, Tag: row.tag, Final: row.final})
	}
	for _, row := range otherTable {
		infos = append(infos, Info{Name: row.name, Tag: TOther})
	}
	return infos
}
