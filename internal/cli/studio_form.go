package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"shorts-clipper/internal/catalog"
	"shorts-clipper/internal/draft"
)

type studioFieldKind int

const (
	studioFieldString studioFieldKind = iota
	studioFieldInt
	studioFieldBool
	studioFieldSelect
)

const effectKeyPrefix = "effect:"

// studioField describes one form row. Values live in the draft; the field only knows
// how to read and write its part of it.
type studioField struct {
	Key     string
	Label   string
	Help    string
	Kind    studioFieldKind
	Options []string
	visible func(d *draft.Draft) bool
}

func studioFields() []studioField {
	fields := []studioField{
		{Key: "source", Label: "Source", Help: "Upload a local file or use a YouTube link", Kind: studioFieldSelect, Options: catalog.SourceKinds},
		{Key: "file", Label: "Video File", Help: "Path to a local video", Kind: studioFieldString, visible: func(d *draft.Draft) bool { return d.SourceKind() == catalog.SourceUpload }},
		{Key: "youtube_url", Label: "YouTube URL", Help: "https://www.youtube.com/watch?v=...", Kind: studioFieldString, visible: func(d *draft.Draft) bool { return d.SourceKind() == catalog.SourceYouTube }},
		{Key: "duration", Label: "Duration (s)", Help: "Clip length, 5 to 180 seconds", Kind: studioFieldInt},
		{Key: "subtitle_mode", Label: "Subtitles", Help: "None, auto-generated or your own text", Kind: studioFieldSelect, Options: catalog.SubtitleModes},
		{Key: "custom_text", Label: "Subtitle Text", Help: "Used only in custom mode", Kind: studioFieldString, visible: func(d *draft.Draft) bool { return d.Snapshot().SubtitleMode == catalog.SubtitleCustom }},
		{Key: "language", Label: "Language", Help: "Subtitle language", Kind: studioFieldSelect, Options: catalog.Keys(catalog.Languages)},
		{Key: "template", Label: "Template", Help: "Subtitle style", Kind: studioFieldSelect, Options: catalog.Keys(catalog.SubtitleTemplates)},
		{Key: "position", Label: "Position", Help: "Where subtitles sit on screen", Kind: studioFieldSelect, Options: catalog.Positions},
		{Key: "offset_y", Label: "Offset Y (px)", Help: "Nudge subtitles up (negative) or down", Kind: studioFieldInt},
	}
	for _, e := range catalog.Effects {
		fields = append(fields, studioField{
			Key:   effectKeyPrefix + e.Key,
			Label: "Effect: " + e.Name,
			Help:  "Toggle with space",
			Kind:  studioFieldBool,
		})
	}
	return append(fields,
		studioField{Key: "aspect", Label: "Aspect Ratio", Help: "Output frame", Kind: studioFieldSelect, Options: catalog.AspectRatios},
		studioField{Key: "resolution", Label: "Resolution", Help: "Output resolution", Kind: studioFieldSelect, Options: catalog.Resolutions},
		studioField{Key: "hard_subs", Label: "Burn Subtitles", Help: "Render subtitles into the video", Kind: studioFieldBool},
	)
}

func (f studioField) isVisible(d *draft.Draft) bool {
	return f.visible == nil || f.visible(d)
}

// value reads the field from the draft in its display form.
func (f studioField) value(d *draft.Draft) string {
	p := d.Snapshot()
	switch f.Key {
	case "source":
		return string(p.SourceKind)
	case "file":
		return p.FilePath
	case "youtube_url":
		return d.RawRemoteURL()
	case "duration":
		return strconv.Itoa(p.DurationSeconds)
	case "subtitle_mode":
		return p.SubtitleMode
	case "custom_text":
		return p.CustomText
	case "language":
		return p.Language
	case "template":
		return p.Template
	case "position":
		return p.Position
	case "offset_y":
		return strconv.Itoa(p.OffsetY)
	case "aspect":
		return p.AspectRatio
	case "resolution":
		return p.Resolution
	case "hard_subs":
		return boolToYN(p.HardSubtitles)
	}
	if key, ok := strings.CutPrefix(f.Key, effectKeyPrefix); ok {
		return boolToYN(d.HasEffect(key))
	}
	return ""
}

// apply writes raw input back to the draft. Unparseable numbers become 0, which the
// gate rejects for duration.
func (f studioField) apply(d *draft.Draft, raw string) {
	switch f.Key {
	case "source":
		if kind, ok := catalog.ParseSourceKind(raw); ok {
			d.SetSourceKind(kind)
		}
	case "file":
		d.SetFile(raw)
	case "youtube_url":
		d.SetRemoteURL(raw)
	case "duration":
		d.SetDuration(atoiOrZero(raw))
	case "subtitle_mode":
		d.SetSubtitleMode(raw)
	case "custom_text":
		d.SetCustomText(raw)
	case "language":
		d.SetLanguage(raw)
	case "template":
		d.SetTemplate(raw)
	case "position":
		d.SetPosition(raw)
	case "offset_y":
		d.SetOffsetY(atoiOrZero(raw))
	case "aspect":
		d.SetAspectRatio(raw)
	case "resolution":
		d.SetResolution(raw)
	case "hard_subs":
		v, _ := parseBool(raw)
		d.SetHardSubtitles(v)
	default:
		if key, ok := strings.CutPrefix(f.Key, effectKeyPrefix); ok {
			want, _ := parseBool(raw)
			if want != d.HasEffect(key) {
				d.ToggleEffect(key)
			}
		}
	}
}

// display is the human label for the current value.
func (f studioField) display(d *draft.Draft) string {
	v := f.value(d)
	switch {
	case f.Kind == studioFieldBool:
		on, _ := parseBool(v)
		return yesNo(on)
	case f.Key == "language":
		return catalog.NameOf(catalog.Languages, v)
	case f.Key == "template":
		return catalog.NameOf(catalog.SubtitleTemplates, v)
	}
	return v
}

func atoiOrZero(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func boolToYN(v bool) string {
	if v {
		return "y"
	}
	return "n"
}

func cycleOption(options []string, current string, step int) string {
	if len(options) == 0 {
		return current
	}
	pos := 0
	for i, opt := range options {
		if strings.EqualFold(opt, strings.TrimSpace(current)) {
			pos = i
			break
		}
	}
	pos = (pos + step + len(options)) % len(options)
	return options[pos]
}

func newStudioInput(width int) textinput.Model {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 2048
	input.Width = clampInt(width-8, 20, 120)
	input.Focus()
	return input
}
