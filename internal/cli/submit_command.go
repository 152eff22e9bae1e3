package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"shorts-clipper/internal/catalog"
	"shorts-clipper/internal/draft"
	"shorts-clipper/internal/studio"
)

type submitFlags struct {
	file       *string
	youtubeURL *string
	duration   *int
	subtitles  *string
	customText *string
	language   *string
	template   *string
	position   *string
	offsetY    *int
	effects    *string
	aspect     *string
	resolution *string
	hardSubs   *bool
}

func bindSubmitFlags(fs *flag.FlagSet) submitFlags {
	return submitFlags{
		file:       fs.String("file", "", "local video to upload"),
		youtubeURL: fs.String("youtube-url", "", "remote video link"),
		duration:   fs.Int("duration", catalog.DefaultDurationSeconds, fmt.Sprintf("clip length in seconds (%d-%d)", catalog.MinDurationSeconds, catalog.MaxDurationSeconds)),
		subtitles:  fs.String("subtitles", catalog.DefaultSubtitleMode, "subtitle mode: "+strings.Join(catalog.SubtitleModes, "|")),
		customText: fs.String("custom-text", "", "subtitle text for --subtitles custom"),
		language:   fs.String("language", catalog.DefaultLanguage, "subtitle language: "+strings.Join(catalog.Keys(catalog.Languages), "|")+" (empty omits it)"),
		template:   fs.String("template", catalog.DefaultTemplate, "subtitle template: "+strings.Join(catalog.Keys(catalog.SubtitleTemplates), "|")),
		position:   fs.String("position", catalog.DefaultPosition, "subtitle position: "+strings.Join(catalog.Positions, "|")),
		offsetY:    fs.Int("offset-y", 0, "vertical subtitle offset in pixels"),
		effects:    fs.String("effects", "", "comma-separated effects: "+strings.Join(catalog.Keys(catalog.Effects), ",")),
		aspect:     fs.String("aspect", catalog.DefaultAspectRatio, "aspect ratio: "+strings.Join(catalog.AspectRatios, "|")),
		resolution: fs.String("resolution", catalog.DefaultResolution, "output resolution: "+strings.Join(catalog.Resolutions, "|")),
		hardSubs:   fs.Bool("hard-subs", false, "burn subtitles into the video"),
	}
}

// apply copies the flags onto d. Catalog values are checked later by draft.Problems.
func (sf submitFlags) apply(d *draft.Draft) error {
	file := strings.TrimSpace(*sf.file)
	link := strings.TrimSpace(*sf.youtubeURL)
	switch {
	case file != "" && link != "":
		return errors.New("use either --file or --youtube-url, not both")
	case file == "" && link == "":
		return errors.New("--file or --youtube-url is required")
	case file != "":
		d.SetFile(file)
	default:
		d.SetRemoteURL(link)
	}

	d.SetDuration(*sf.duration)
	d.SetSubtitleMode(*sf.subtitles)
	d.SetCustomText(*sf.customText)
	d.SetLanguage(*sf.language)
	d.SetTemplate(*sf.template)
	d.SetPosition(*sf.position)
	d.SetOffsetY(*sf.offsetY)
	d.SetAspectRatio(*sf.aspect)
	d.SetResolution(*sf.resolution)
	d.SetHardSubtitles(*sf.hardSubs)

	effects, err := parseEffects(*sf.effects)
	if err != nil {
		return err
	}
	for _, e := range effects {
		d.ToggleEffect(e)
	}
	return nil
}

func parseEffects(raw string) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		key := strings.ToLower(strings.TrimSpace(part))
		if key == "" || seen[key] {
			continue
		}
		if !catalog.IsEffect(key) {
			return nil, fmt.Errorf("unknown effect %q (choose from %s)", key, strings.Join(catalog.Keys(catalog.Effects), ", "))
		}
		seen[key] = true
		out = append(out, key)
	}
	return out, nil
}

func runSubmit(args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	rt := bindRuntimeFlags(fs)
	sf := bindSubmitFlags(fs)
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := rt.load()
	if err != nil {
		return err
	}
	logger, closer, err := commandLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	session := studio.NewSession(newClient(cfg, logger), logger)
	if err := sf.apply(session.Draft()); err != nil {
		return err
	}
	if problems := draft.Problems(session.Draft()); len(problems) > 0 {
		return fmt.Errorf("invalid job:\n  - %s", strings.Join(problems, "\n  - "))
	}

	ctx, cancel := signalContext()
	defer cancel()
	job, err := session.Create(ctx)
	if err != nil {
		return err
	}

	if *jsonOut {
		return printJSON(job)
	}
	fmt.Printf("job created: %s (status: %s)\n", job.ID, defaultIfEmpty(job.Status, "unknown"))
	fmt.Printf("backend: %s\n", cfg.BackendURL)
	fmt.Println("run 'shorts-clipper jobs' to follow progress")
	return nil
}
