package cli

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"shorts-clipper/internal/clipapi"
	"shorts-clipper/internal/devbackend"
	"shorts-clipper/internal/draft"
)

func isolateCommand(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"CLIPPER_BACKEND_URL", "BACKEND_URL", "CLIPPER_LOG_LEVEL", "CLIPPER_LOG_FILE",
		"CLIPPER_HTTP_TIMEOUT", "CLIPPER_DEV_LISTEN", "CLIPPER_DEV_COMPLETE_AFTER",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("CLIPPER_LOG_LEVEL", "error")
}

func startDevBackend(t *testing.T) (*httptest.Server, *devbackend.Store) {
	t.Helper()
	store := devbackend.NewStore(t.TempDir(), 0)
	srv := httptest.NewServer(devbackend.NewRouter(store, slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestRunUnknownCommand(t *testing.T) {
	if err := Run([]string{"bogus"}); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

func TestSubmitCommandCreatesJob(t *testing.T) {
	isolateCommand(t)
	srv, store := startDevBackend(t)

	err := Run([]string{
		"submit",
		"--backend", srv.URL,
		"--youtube-url", "https://youtu.be/abc",
		"--duration", "45",
		"--effects", "zoom, flash",
		"--template", "neon",
		"--json",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	jobs := store.List()
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs want 1", len(jobs))
	}
}

func TestSubmitCommandRejectsInvalidDraftWithoutNetwork(t *testing.T) {
	isolateCommand(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "duration", args: []string{"--youtube-url", "https://youtu.be/abc", "--duration", "3"}, want: "duration_seconds"},
		{name: "template", args: []string{"--youtube-url", "https://youtu.be/abc", "--template", "comic"}, want: "subtitle_template"},
		{name: "effect", args: []string{"--youtube-url", "https://youtu.be/abc", "--effects", "zoom,glitter"}, want: "unknown effect"},
		{name: "no source", args: []string{}, want: "--file or --youtube-url"},
		{name: "both sources", args: []string{"--file", "a.mp4", "--youtube-url", "https://youtu.be/abc"}, want: "not both"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"submit", "--backend", srv.URL}, tc.args...)
			err := Run(args)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q should contain %q", err.Error(), tc.want)
			}
		})
	}
	if hits.Load() != 0 {
		t.Fatalf("invalid drafts must not reach the backend, got %d requests", hits.Load())
	}
}

func TestSubmitCommandReportsBackendStatus(t *testing.T) {
	isolateCommand(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := Run([]string{"submit", "--backend", srv.URL, "--youtube-url", "https://youtu.be/abc"})
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("got %v want error mentioning 503", err)
	}
}

func TestSubmitCommandDoesNotWaitForJobListing(t *testing.T) {
	isolateCommand(t)
	release := make(chan struct{})
	var lists atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			lists.Add(1)
			select {
			case <-release:
			case <-r.Context().Done():
			}
			return
		}
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"j1","status":"queued"}`)
	}))
	defer srv.Close()
	defer close(release)

	done := make(chan error, 1)
	go func() {
		done <- Run([]string{"submit", "--backend", srv.URL, "--youtube-url", "https://youtu.be/x", "--json"})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("submit still running after the job was created")
	}
	if lists.Load() != 0 {
		t.Fatalf("submit should not list jobs, got %d listings", lists.Load())
	}
}

func TestJobsCommand(t *testing.T) {
	isolateCommand(t)
	srv, _ := startDevBackend(t)

	if err := Run([]string{"jobs", "--backend", srv.URL}); err != nil {
		t.Fatalf("jobs on empty backend: %v", err)
	}
	if err := Run([]string{"jobs", "--backend", srv.URL, "--json"}); err != nil {
		t.Fatalf("jobs --json: %v", err)
	}
}

func TestDownloadCommandSavesArtifact(t *testing.T) {
	isolateCommand(t)
	srv, _ := startDevBackend(t)

	video := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(video, []byte("video-bytes"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	d := draft.New()
	d.SetFile(video)
	client := clipapi.New(srv.URL, clipapi.Options{})
	job, err := client.CreateJob(context.Background(), d.Snapshot())
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	outDir := t.TempDir()
	out := filepath.Join(outDir, "clip.mp4")
	if err := Run([]string{"download", "--backend", srv.URL, "--job", job.ID, "--out", out}); err != nil {
		t.Fatalf("download video: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(data) != "video-bytes" {
		t.Fatalf("got %q want video-bytes", string(data))
	}

	if err := Run([]string{"download", "--backend", srv.URL, "--job", job.ID, "--kind", "subtitles", "--out", outDir}); err != nil {
		t.Fatalf("download subtitles: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "subtitles.srt")); err != nil {
		t.Fatalf("subtitles not saved into directory: %v", err)
	}
}

func TestDownloadCommandErrors(t *testing.T) {
	isolateCommand(t)
	srv, _ := startDevBackend(t)

	d := draft.New()
	d.SetRemoteURL("https://youtu.be/abc")
	job, err := clipapi.New(srv.URL, clipapi.Options{}).CreateJob(context.Background(), d.Snapshot())
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	if err := Run([]string{"download", "--backend", srv.URL}); err == nil || !strings.Contains(err.Error(), "--job") {
		t.Fatalf("got %v want --job required", err)
	}
	if err := Run([]string{"download", "--backend", srv.URL, "--job", "missing"}); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("got %v want not found", err)
	}
	err = Run([]string{"download", "--backend", srv.URL, "--job", job.ID, "--kind", "video"})
	if err == nil || !strings.Contains(err.Error(), "has no video artifact") {
		t.Fatalf("got %v want missing artifact", err)
	}
	if err := Run([]string{"download", "--backend", srv.URL, "--job", job.ID, "--kind", "audio"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestConfigCommandRejectsBadBackend(t *testing.T) {
	isolateCommand(t)
	if err := Run([]string{"config", "--backend", "localhost:8000"}); err == nil {
		t.Fatalf("expected invalid backend url error")
	}
	if err := Run([]string{"config", "--json"}); err != nil {
		t.Fatalf("config --json: %v", err)
	}
}

func TestParseEffects(t *testing.T) {
	got, err := parseEffects(" Zoom,flash,,zoom ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.Join(got, ",") != "zoom,flash" {
		t.Fatalf("got %v want [zoom flash]", got)
	}
	if _, err := parseEffects("sparkle"); err == nil {
		t.Fatalf("expected unknown effect error")
	}
}

func TestDoctor(t *testing.T) {
	isolateCommand(t)
	srv, _ := startDevBackend(t)

	if err := Run([]string{"doctor", "--backend", srv.URL, "--out-dir", t.TempDir()}); err != nil {
		t.Fatalf("doctor against live backend: %v", err)
	}

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()
	err := Run([]string{"doctor", "--backend", deadURL, "--json"})
	if err == nil || !strings.Contains(err.Error(), "doctor checks failed") {
		t.Fatalf("got %v want failed checks", err)
	}
}
