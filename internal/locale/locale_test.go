package locale

import "testing"

func TestCodeset(t *testing.T) {
	cases := map[string]string{
		"ja_JP.eucJP":            "eucJP",
		"de_DE.ISO-8859-15@euro": "ISO-8859-15",
		"en_US.UTF-8":            "UTF-8",
		"C":                      "C",
		"POSIX":                  "POSIX",
	}
	for in, want := range cases {
		got := Codeset(in)
		if got != want {
			t.Errorf("Codeset(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsUTF8(t *testing.T) {
	if !IsUTF8("en_US.UTF-8") {
		t.Error("en_US.UTF-8 should report as UTF-8")
	}
	if !IsUTF8("en_US.utf8") {
		t.Error("en_US.utf8 should report as UTF-8")
	}
	if IsUTF8("ja_JP.eucJP") {
		t.Error("ja_JP.eucJP should not report as UTF-8")
	}
}

func TestResolveISO8859_15(t *testing.T) {
	cfg, ok := Resolve("de_DE.ISO-8859-15")
	if !ok {
		t.Fatalf("expected de_DE.ISO-8859-15 to resolve")
	}
	if cfg.G[2] == nil || cfg.G[2].Name() != "ISO 8859-15" {
		t.Fatalf("got G2 = %v, want ISO 8859-15", cfg.G[2])
	}
	if cfg.GL != 0 || cfg.GR != 2 {
		t.Fatalf("got gl=%d gr=%d, want gl=0 gr=2", cfg.GL, cfg.GR)
	}
}

func TestResolvePrefixSubstitution(t *testing.T) {
	// "IBM850" matches no locale-table row directly; the IBM->CP
	// substitution rewrites it to "CP850", which does.
	cfg, ok := Resolve("en_US.IBM850")
	if !ok {
		t.Fatalf("expected a match via the IBM -> CP prefix substitution")
	}
	if cfg.G[2] == nil || cfg.G[2].Name() != "CP 850" {
		t.Fatalf("got G2 = %v, want CP 850", cfg.G[2])
	}
}

func TestResolveEucJPPopulatesAllBanks(t *testing.T) {
	cfg, ok := Resolve("ja_JP.eucJP")
	if !ok {
		t.Fatalf("expected eucJP to match the locale table directly")
	}
	if cfg.GL != 0 || cfg.GR != 1 {
		t.Fatalf("got gl=%d gr=%d, want gl=0 gr=1", cfg.GL, cfg.GR)
	}
	if cfg.G[0] == nil || cfg.G[0].Name() != "ASCII" {
		t.Fatalf("got G0 = %v, want ASCII", cfg.G[0])
	}
	if cfg.G[1] == nil || cfg.G[1].Name() != "JIS X 0208" {
		t.Fatalf("got G1 = %v, want JIS X 0208", cfg.G[1])
	}
	if cfg.G[2] == nil || cfg.G[2].Name() != "JIS X 0201:GR" {
		t.Fatalf("got G2 = %v, want JIS X 0201:GR", cfg.G[2])
	}
	if cfg.G[3] == nil || cfg.G[3].Name() != "JIS X 0212" {
		t.Fatalf("got G3 = %v, want JIS X 0212", cfg.G[3])
	}
}

func TestResolveOtherLocale(t *testing.T) {
	cfg, ok := Resolve("zh_CN.gbk")
	if !ok {
		t.Fatalf("expected gbk to match the locale table")
	}
	if cfg.Other == nil || cfg.Other.Name() != "GBK" {
		t.Fatalf("got Other = %v, want GBK", cfg.Other)
	}
}

func TestResolveUnknownLocaleFails(t *testing.T) {
	if _, ok := Resolve("zz_ZZ.NoSuchEncoding"); ok {
		t.Fatalf("expected no match for an unknown encoding")
	}
}
