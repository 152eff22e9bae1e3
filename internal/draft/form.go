package draft

import (
	"strconv"
	"strings"

	"shorts-clipper/internal/catalog"
)

// FormField is one multipart part. File parts carry the local path in Value.
type FormField struct {
	Name  string
	Value string
	File  bool
}

// FormFields lays out the POST /api/jobs multipart body in wire order.
func (p Payload) FormFields() []FormField {
	fields := make([]FormField, 0, 14)
	add := func(name, value string) {
		fields = append(fields, FormField{Name: name, Value: value})
	}

	add("source_type", string(p.SourceKind))
	if p.SourceKind == catalog.SourceUpload {
		fields = append(fields, FormField{Name: "file", Value: p.FilePath, File: true})
	} else {
		add("youtube_url", strings.TrimSpace(p.RemoteURL))
	}
	add("duration_seconds", strconv.Itoa(p.DurationSeconds))
	add("subtitle_mode", p.SubtitleMode)
	if p.SubtitleMode == catalog.SubtitleCustom {
		if text := strings.TrimSpace(p.CustomText); text != "" {
			add("custom_subtitle_text", text)
		}
	}
	if p.Language != "" {
		add("subtitle_language", p.Language)
	}

	add("subtitle_template", p.Template)
	add("subtitle_position", p.Position)
	add("subtitle_offset_y", strconv.Itoa(p.OffsetY))
	add("video_effects", strings.Join(p.Effects, ","))
	add("aspect_ratio", p.AspectRatio)
	add("resolution", p.Resolution)
	add("hard_subtitles", strconv.FormatBool(p.HardSubtitles))
	return fields
}

// FormValue returns the first text value for name, if the layout contains it.
func FormValue(fields []FormField, name string) (string, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
