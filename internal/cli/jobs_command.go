package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shorts-clipper/internal/artifacts"
	"shorts-clipper/internal/model"
)

const (
	artifactVideo     = "video"
	artifactSubtitles = "subtitles"
)

func runJobs(args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	rt := bindRuntimeFlags(fs)
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

	ctx, cancel := signalContext()
	defer cancel()
	client := newClient(cfg, logger)
	jobs, err := client.ListJobs(ctx)
	if err != nil {
		return err
	}

	if *jsonOut {
		return printJSON(model.JobList{Items: jobs})
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs yet.")
		return nil
	}
	for i, j := range jobs {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("job %s\n", j.ID)
		for _, line := range jobDetailLines(j, client.ArtifactURL) {
			fmt.Printf("  %s\n", line)
		}
	}
	return nil
}

func runDownload(args []string) error {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	rt := bindRuntimeFlags(fs)
	jobID := fs.String("job", "", "job id")
	kind := fs.String("kind", artifactVideo, "artifact kind: video|subtitles")
	out := fs.String("out", "", "output file (default: artifact name in the current directory)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	id := strings.TrimSpace(*jobID)
	if id == "" {
		return errors.New("--job is required")
	}
	artifactKind := strings.ToLower(strings.TrimSpace(*kind))
	if artifactKind != artifactVideo && artifactKind != artifactSubtitles {
		return errors.New("--kind must be video or subtitles")
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

	ctx, cancel := signalContext()
	defer cancel()
	client := newClient(cfg, logger)
	jobs, err := client.ListJobs(ctx)
	if err != nil {
		return err
	}
	job, ok := findJob(jobs, id)
	if !ok {
		return fmt.Errorf("job %s not found", id)
	}
	link, ext := job.DownloadURL, ".mp4"
	if artifactKind == artifactSubtitles {
		link, ext = job.SubtitleURL, ".srt"
	}
	if strings.TrimSpace(link) == "" {
		return fmt.Errorf("job %s has no %s artifact (status: %s)", id, artifactKind, defaultIfEmpty(job.Status, "unknown"))
	}

	dest := strings.TrimSpace(*out)
	if dest == "" {
		dest = artifacts.DefaultName(link, job.ID, ext)
	}
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, artifacts.DefaultName(link, job.ID, ext))
	}

	lock, err := artifacts.AcquireLock(dest)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	body, err := client.OpenArtifact(ctx, link)
	if err != nil {
		return err
	}
	defer body.Close()
	n, err := artifacts.Save(ctx, dest, body)
	if err != nil {
		return err
	}

	if *jsonOut {
		return printJSON(map[string]any{
			"job_id": job.ID,
			"kind":   artifactKind,
			"url":    client.ArtifactURL(link),
			"path":   dest,
			"bytes":  n,
		})
	}
	fmt.Printf("saved %s %s to %s (%s)\n", artifactKind, job.ID, dest, formatBytesIEC(n))
	return nil
}

func findJob(jobs []model.JobRecord, id string) (model.JobRecord, bool) {
	for _, j := range jobs {
		if j.ID == id {
			return j, true
		}
	}
	return model.JobRecord{}, false
}
