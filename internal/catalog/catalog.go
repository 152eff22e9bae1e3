package catalog

import "strings"

type SourceKind string

const (
	SourceUpload  SourceKind = "upload"
	SourceYouTube SourceKind = "youtube"
)

const (
	SubtitleNone   = "none"
	SubtitleAuto   = "auto"
	SubtitleCustom = "custom"

	PositionTop    = "top"
	PositionMiddle = "middle"
	PositionBottom = "bottom"

	Aspect9x16  = "9:16"
	Aspect1x1   = "1:1"
	Aspect4x5   = "4:5"
	Aspect16x9  = "16:9"
	Res720p     = "720p"
	Res1080p    = "1080p"
	LanguageAny = "auto"
)

const (
	DefaultSourceKind      = SourceUpload
	DefaultDurationSeconds = 60
	MinDurationSeconds     = 5
	MaxDurationSeconds     = 180
	DefaultSubtitleMode    = SubtitleAuto
	DefaultLanguage        = "en"
	DefaultTemplate        = "clean"
	DefaultPosition        = PositionBottom
	DefaultAspectRatio     = Aspect9x16
	DefaultResolution      = Res1080p
)

// Option is one selectable catalog entry: Key goes on the wire, Name is shown to users.
type Option struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

var SubtitleTemplates = []Option{
	{Key: "clean", Name: "Clean Minimal"},
	{Key: "karaoke", Name: "Karaoke Highlight"},
	{Key: "bold-shadow", Name: "Bold + Shadow"},
	{Key: "neon", Name: "Neon Glow"},
}

var Effects = []Option{
	{Key: "zoom", Name: "Auto Zoom/Punch"},
	{Key: "shake", Name: "Camera Shake"},
	{Key: "flash", Name: "Flash Beats"},
	{Key: "color-pop", Name: "Color Pop"},
	{Key: "bokeh", Name: "Bokeh Blur"},
}

var Languages = []Option{
	{Key: LanguageAny, Name: "Auto-detect"},
	{Key: "en", Name: "English"},
	{Key: "id", Name: "Indonesian"},
	{Key: "es", Name: "Spanish"},
	{Key: "hi", Name: "Hindi"},
	{Key: "jp", Name: "Japanese"},
}

var (
	SourceKinds   = []string{string(SourceUpload), string(SourceYouTube)}
	SubtitleModes = []string{SubtitleNone, SubtitleAuto, SubtitleCustom}
	Positions     = []string{PositionTop, PositionMiddle, PositionBottom}
	AspectRatios  = []string{Aspect9x16, Aspect1x1, Aspect4x5, Aspect16x9}
	Resolutions   = []string{Res720p, Res1080p}
)

func Keys(opts []Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Key)
	}
	return out
}

func NameOf(opts []Option, key string) string {
	for _, o := range opts {
		if o.Key == key {
			return o.Name
		}
	}
	return key
}

func IsEffect(key string) bool {
	return containsFold(Keys(Effects), key)
}

// ParseSourceKind accepts the wire values plus the "link"/"remote" aliases used on the command line.
func ParseSourceKind(raw string) (SourceKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "upload", "file":
		return SourceUpload, true
	case "youtube", "link", "remote":
		return SourceYouTube, true
	default:
		return "", false
	}
}

func containsFold(values []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}
