// Package draft holds the in-progress job configuration and the gate that decides
// whether it can be submitted.
package draft

import (
	"path/filepath"
	"strings"

	"shorts-clipper/internal/catalog"
)

// Draft is the user's current, possibly invalid, job configuration.
// The zero value is not useful; start from New.
type Draft struct {
	sourceKind      catalog.SourceKind
	filePath        string
	remoteURL       string
	durationSeconds int
	subtitleMode    string
	customText      string
	language        string
	template        string
	position        string
	offsetY         int
	effects         []string
	aspectRatio     string
	resolution      string
	hardSubtitles   bool
}

// Payload is an immutable copy of a Draft, safe to hand to another goroutine.
type Payload struct {
	SourceKind      catalog.SourceKind `form:"source_type" validate:"source_kind"`
	FilePath        string             `form:"file" validate:"required_if=SourceKind upload"`
	RemoteURL       string             `form:"youtube_url" validate:"required_if=SourceKind youtube"`
	DurationSeconds int                `form:"duration_seconds" validate:"min=5,max=180"`
	SubtitleMode    string             `form:"subtitle_mode" validate:"subtitle_mode"`
	CustomText      string             `form:"custom_subtitle_text"`
	Language        string             `form:"subtitle_language" validate:"omitempty,language"`
	Template        string             `form:"subtitle_template" validate:"template"`
	Position        string             `form:"subtitle_position" validate:"position"`
	OffsetY         int                `form:"subtitle_offset_y"`
	Effects         []string           `form:"video_effects" validate:"unique,dive,effect"`
	AspectRatio     string             `form:"aspect_ratio" validate:"aspect_ratio"`
	Resolution      string             `form:"resolution" validate:"resolution"`
	HardSubtitles   bool               `form:"hard_subtitles"`
}

func New() *Draft {
	d := &Draft{}
	d.Reset()
	return d
}

// Reset restores every field to its default.
func (d *Draft) Reset() {
	*d = Draft{
		sourceKind:      catalog.DefaultSourceKind,
		durationSeconds: catalog.DefaultDurationSeconds,
		subtitleMode:    catalog.DefaultSubtitleMode,
		language:        catalog.DefaultLanguage,
		template:        catalog.DefaultTemplate,
		position:        catalog.DefaultPosition,
		aspectRatio:     catalog.DefaultAspectRatio,
		resolution:      catalog.DefaultResolution,
		effects:         []string{},
	}
}

// ClearTransient drops the source and the custom text. Styling and selection
// fields are kept as user preferences for the next job.
func (d *Draft) ClearTransient() {
	d.filePath = ""
	d.remoteURL = ""
	d.customText = ""
}

// SetSourceKind switches the source and clears the one that is no longer active.
// Unknown kinds are ignored.
func (d *Draft) SetSourceKind(kind catalog.SourceKind) {
	switch kind {
	case catalog.SourceUpload:
		d.remoteURL = ""
	case catalog.SourceYouTube:
		d.filePath = ""
	default:
		return
	}
	d.sourceKind = kind
}

// SetFile binds a local file. A non-empty path selects the upload source.
func (d *Draft) SetFile(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		d.filePath = ""
		return
	}
	d.SetSourceKind(catalog.SourceUpload)
	d.filePath = path
}

// SetRemoteURL stores the link as typed. A non-blank link selects the youtube source;
// a blank one is dropped unless youtube is already the active source.
func (d *Draft) SetRemoteURL(raw string) {
	switch {
	case strings.TrimSpace(raw) != "":
		d.SetSourceKind(catalog.SourceYouTube)
	case d.sourceKind != catalog.SourceYouTube:
		d.remoteURL = ""
		return
	}
	d.remoteURL = raw
}

func (d *Draft) SetDuration(seconds int)     { d.durationSeconds = seconds }
func (d *Draft) SetSubtitleMode(mode string) { d.subtitleMode = normalizeKey(mode) }
func (d *Draft) SetCustomText(text string)   { d.customText = text }
func (d *Draft) SetLanguage(code string)     { d.language = normalizeKey(code) }
func (d *Draft) SetTemplate(key string)      { d.template = normalizeKey(key) }
func (d *Draft) SetPosition(pos string)      { d.position = normalizeKey(pos) }
func (d *Draft) SetOffsetY(px int)           { d.offsetY = px }
func (d *Draft) SetAspectRatio(ratio string) { d.aspectRatio = strings.TrimSpace(ratio) }
func (d *Draft) SetResolution(res string)    { d.resolution = normalizeKey(res) }
func (d *Draft) SetHardSubtitles(on bool)    { d.hardSubtitles = on }

// ToggleEffect flips membership of a catalog effect. Unknown keys are ignored.
func (d *Draft) ToggleEffect(key string) {
	key = normalizeKey(key)
	if !catalog.IsEffect(key) {
		return
	}
	for i, existing := range d.effects {
		if existing == key {
			d.effects = append(d.effects[:i:i], d.effects[i+1:]...)
			return
		}
	}
	d.effects = append(d.effects, key)
}

func (d *Draft) HasEffect(key string) bool {
	key = normalizeKey(key)
	for _, existing := range d.effects {
		if existing == key {
			return true
		}
	}
	return false
}

func (d *Draft) SourceKind() catalog.SourceKind { return d.sourceKind }

// Snapshot copies the draft. The remote link is trimmed, everything else is as set.
func (d *Draft) Snapshot() Payload {
	effects := make([]string, len(d.effects))
	copy(effects, d.effects)
	return Payload{
		SourceKind:      d.sourceKind,
		FilePath:        d.filePath,
		RemoteURL:       strings.TrimSpace(d.remoteURL),
		DurationSeconds: d.durationSeconds,
		SubtitleMode:    d.subtitleMode,
		CustomText:      d.customText,
		Language:        d.language,
		Template:        d.template,
		Position:        d.position,
		OffsetY:         d.offsetY,
		Effects:         effects,
		AspectRatio:     d.aspectRatio,
		Resolution:      d.resolution,
		HardSubtitles:   d.hardSubtitles,
	}
}

// RawRemoteURL returns the link exactly as typed.
func (d *Draft) RawRemoteURL() string { return d.remoteURL }

func (p Payload) FileName() string {
	if strings.TrimSpace(p.FilePath) == "" {
		return ""
	}
	return filepath.Base(p.FilePath)
}

func normalizeKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
