package draft

import (
	"testing"

	"shorts-clipper/internal/catalog"
)

func TestNewAppliesDefaults(t *testing.T) {
	p := New().Snapshot()
	if p.SourceKind != catalog.SourceUpload {
		t.Fatalf("source kind: got %q want %q", p.SourceKind, catalog.SourceUpload)
	}
	if p.DurationSeconds != 60 {
		t.Fatalf("duration: got %d want 60", p.DurationSeconds)
	}
	if p.SubtitleMode != catalog.SubtitleAuto || p.Template != "clean" || p.Position != "bottom" {
		t.Fatalf("subtitle defaults mismatch: %+v", p)
	}
	if p.OffsetY != 0 || p.AspectRatio != "9:16" || p.Resolution != "1080p" || p.HardSubtitles {
		t.Fatalf("output defaults mismatch: %+v", p)
	}
	if len(p.Effects) != 0 {
		t.Fatalf("expected no effects, got %v", p.Effects)
	}
}

func TestSourceKindExclusivity(t *testing.T) {
	d := New()
	d.SetFile("/tmp/clip.mp4")
	d.SetRemoteURL("https://www.youtube.com/watch?v=abc")

	p := d.Snapshot()
	if p.SourceKind != catalog.SourceYouTube {
		t.Fatalf("expected youtube after setting a link, got %q", p.SourceKind)
	}
	if p.FilePath != "" {
		t.Fatalf("expected file cleared, got %q", p.FilePath)
	}

	d.SetSourceKind(catalog.SourceUpload)
	p = d.Snapshot()
	if p.RemoteURL != "" {
		t.Fatalf("expected link cleared after switching to upload, got %q", p.RemoteURL)
	}

	d.SetSourceKind("ftp")
	if d.SourceKind() != catalog.SourceUpload {
		t.Fatalf("unknown kind should be ignored, got %q", d.SourceKind())
	}
}

func TestBlankRemoteURLKeepsInactiveSourceEmpty(t *testing.T) {
	d := New()
	d.SetFile("/tmp/a.mp4")
	d.SetRemoteURL("   ")

	if d.SourceKind() != catalog.SourceUpload {
		t.Fatalf("blank link must not switch source, got %q", d.SourceKind())
	}
	if d.RawRemoteURL() != "" {
		t.Fatalf("inactive link should stay empty, got %q", d.RawRemoteURL())
	}
	if d.Snapshot().FilePath != "/tmp/a.mp4" {
		t.Fatalf("file lost: %+v", d.Snapshot())
	}

	d.SetSourceKind(catalog.SourceYouTube)
	d.SetRemoteURL("  ")
	if d.RawRemoteURL() != "  " {
		t.Fatalf("active link should keep typed text, got %q", d.RawRemoteURL())
	}
	if IsSubmittable(d, false) {
		t.Fatalf("blank link must not be submittable")
	}
}

func TestToggleEffectFlipsMembership(t *testing.T) {
	d := New()
	d.ToggleEffect("zoom")
	d.ToggleEffect("flash")
	d.ToggleEffect("zoom")

	got, _ := FormValue(d.Snapshot().FormFields(), "video_effects")
	if got != "flash" {
		t.Fatalf("video_effects: got %q want %q", got, "flash")
	}

	d.ToggleEffect("not-an-effect")
	if effects := d.Snapshot().Effects; len(effects) != 1 {
		t.Fatalf("unknown effect should be ignored, got %v", effects)
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	d := New()
	d.ToggleEffect("shake")
	p := d.Snapshot()
	d.ToggleEffect("bokeh")
	if len(p.Effects) != 1 {
		t.Fatalf("snapshot changed after later toggle: %v", p.Effects)
	}
}

func TestClearTransientKeepsPreferences(t *testing.T) {
	d := New()
	d.SetRemoteURL(" https://youtu.be/x ")
	d.SetSubtitleMode(catalog.SubtitleCustom)
	d.SetCustomText("hello")
	d.SetTemplate("neon")
	d.ToggleEffect("zoom")
	d.SetHardSubtitles(true)

	d.ClearTransient()
	p := d.Snapshot()
	if p.FilePath != "" || p.RemoteURL != "" || p.CustomText != "" {
		t.Fatalf("transient fields not cleared: %+v", p)
	}
	if p.Template != "neon" || !p.HardSubtitles || len(p.Effects) != 1 || p.SubtitleMode != catalog.SubtitleCustom {
		t.Fatalf("preferences lost: %+v", p)
	}
}
