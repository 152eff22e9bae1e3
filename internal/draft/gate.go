package draft

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"shorts-clipper/internal/catalog"
)

// gateFields are the only fields that decide whether a draft can be sent.
var gateFields = []string{"SourceKind", "FilePath", "RemoteURL", "DurationSeconds"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	enums := map[string][]string{
		"source_kind":   catalog.SourceKinds,
		"subtitle_mode": catalog.SubtitleModes,
		"language":      catalog.Keys(catalog.Languages),
		"template":      catalog.Keys(catalog.SubtitleTemplates),
		"position":      catalog.Positions,
		"effect":        catalog.Keys(catalog.Effects),
		"aspect_ratio":  catalog.AspectRatios,
		"resolution":    catalog.Resolutions,
	}
	for tag, values := range enums {
		if err := v.RegisterValidation(tag, oneOf(values)); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
}

func oneOf(values []string) validator.Func {
	allowed := make(map[string]bool, len(values))
	for _, v := range values {
		allowed[v] = true
	}
	return func(fl validator.FieldLevel) bool {
		return allowed[fl.Field().String()]
	}
}

// IsSubmittable reports whether the draft has a source, a duration within bounds,
// and no submission is currently in flight. It has no side effects.
func IsSubmittable(d *Draft, inFlight bool) bool {
	if d == nil || inFlight {
		return false
	}
	return validate.StructPartial(d.Snapshot(), gateFields...) == nil
}

// Problems lists every reason the draft would be rejected, including catalog
// membership of the styling fields. It returns nil for a clean draft.
func Problems(d *Draft) []string {
	if d == nil {
		return []string{"no draft"}
	}
	return d.Snapshot().Problems()
}

// Problems validates a payload on its own, as the backend sees it.
func (p Payload) Problems() []string {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.StructField() {
	case "FilePath":
		return "file is required for upload sources"
	case "RemoteURL":
		return "youtube url is required for youtube sources"
	case "DurationSeconds":
		return fmt.Sprintf("duration_seconds must be between %d and %d (got %v)", catalog.MinDurationSeconds, catalog.MaxDurationSeconds, fe.Value())
	case "Effects":
		if fe.Tag() == "unique" {
			return "video_effects contains duplicates"
		}
	}
	return fmt.Sprintf("%s has invalid value %q", fieldName(fe), fmt.Sprint(fe.Value()))
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.Index(name, "["); i > 0 {
		return name[:i]
	}
	return name
}
