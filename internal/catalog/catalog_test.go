package catalog

import "testing"

func TestParseSourceKind(t *testing.T) {
	tests := map[string]SourceKind{
		"upload":  SourceUpload,
		" File ":  SourceUpload,
		"youtube": SourceYouTube,
		"LINK":    SourceYouTube,
		"remote":  SourceYouTube,
	}
	for in, want := range tests {
		got, ok := ParseSourceKind(in)
		if !ok || got != want {
			t.Fatalf("ParseSourceKind(%q): got %q ok=%v want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseSourceKind("ftp"); ok {
		t.Fatalf("expected ftp to be rejected")
	}
}

func TestCatalogLookups(t *testing.T) {
	if got := NameOf(SubtitleTemplates, "bold-shadow"); got != "Bold + Shadow" {
		t.Fatalf("got %q want %q", got, "Bold + Shadow")
	}
	if got := NameOf(Languages, "xx"); got != "xx" {
		t.Fatalf("unknown keys should fall back to the key, got %q", got)
	}
	if !IsEffect("color-pop") || IsEffect("sparkle") {
		t.Fatalf("effect membership is wrong")
	}
	if len(Keys(Effects)) != 5 {
		t.Fatalf("got %d effects want 5", len(Keys(Effects)))
	}
}
