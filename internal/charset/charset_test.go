package charset

import "testing"

func TestGetByDesignationCachesInstance(t *testing.T) {
	a := GetByDesignation(T96, 'A')
	b := GetByDesignation(T96, 'A')
	if a != b {
		t.Fatalf("expected the same *fontencCharset instance on repeat lookup, got distinct values")
	}
	if a.Name() != "ISO 8859-1" {
		t.Fatalf("got %q, want ISO 8859-1", a.Name())
	}
}

func TestGetByDesignationUnknownFinal(t *testing.T) {
	cs := GetByDesignation(T96, '!')
	if cs != Unknown96 {
		t.Fatalf("expected Unknown96 sentinel for an unassigned final byte")
	}
}

func TestGetByNameIsFuzzy(t *testing.T) {
	names := []string{"ISO 8859-15", "iso-8859-15", "ISO_8859_15", "iso8859 15"}
	var first Charset
	for _, n := range names {
		cs, ok := GetByName(n)
		if !ok || cs == nil {
			t.Fatalf("GetByName(%q) failed to resolve", n)
		}
		if first == nil {
			first = cs
		} else if cs != first {
			t.Fatalf("GetByName(%q) resolved to a different instance than %q", n, names[0])
		}
	}
}

func TestReverseRoundTrip(t *testing.T) {
	cs, ok := GetByName("ISO 8859-1")
	if !ok || cs == nil {
		t.Fatal("ISO 8859-1 not found")
	}
	for code := 0x20; code < 0x7F; code++ {
		r := rune(cs.Recode(code))
		if r == 0 {
			continue
		}
		back := cs.Reverse(r)
		if back != code {
			t.Errorf("Reverse(Recode(%#x)) = %#x, want %#x", code, back, code)
		}
	}
}

func TestCopyrightSign(t *testing.T) {
	cs, ok := GetByName("ISO 8859-1")
	if !ok || cs == nil {
		t.Fatal("ISO 8859-1 not found")
	}
	// GL byte 0x29 + shift 0x80 = GR 0xA9, ISO 8859-1's copyright sign.
	r := rune(cs.Recode(0x29))
	if r != 0x00A9 {
		t.Fatalf("ISO 8859-1 GL 0x29 decoded to %U, want U+00A9", r)
	}
}

func TestEuroSign(t *testing.T) {
	cs, ok := GetByName("ISO 8859-15")
	if !ok || cs == nil {
		t.Fatal("ISO 8859-15 not found")
	}
	r := rune(cs.Recode(0x24))
	if r != 0x20AC {
		t.Fatalf("ISO 8859-15 GL 0x24 decoded to %U, want U+20AC", r)
	}
}

func TestUnsupportedRowFailsConsistently(t *testing.T) {
	cs1, ok1 := GetByName("KOI8-E")
	cs2, ok2 := GetByName("KOI8-E")
	if !ok1 || !ok2 {
		t.Fatal("KOI8-E row should be recognized by name even though it can't be built")
	}
	if cs1 != nil || cs2 != nil {
		t.Fatal("KOI8-E has no backing table and should resolve to nil, not a charset")
	}
}

func TestOtherCodecUTF8RoundTrip(t *testing.T) {
	cs, ok := GetByName("UTF-8")
	if !ok || cs == nil || !cs.IsOther() {
		t.Fatal("UTF-8 should be an \"other\" charset")
	}
	codec := cs.NewCodec()
	snowman := "☃"
	var got []rune
	for _, b := range []byte(snowman) {
		if r, ok := codec.Recode(b); ok {
			got = append(got, r)
		}
	}
	if len(got) != 1 || got[0] != '☃' {
		t.Fatalf("got %v, want [U+2603]", got)
	}
	out := codec.Reverse('☃')
	if string(out) != snowman {
		t.Fatalf("Reverse(U+2603) = %q, want %q", out, snowman)
	}
}
