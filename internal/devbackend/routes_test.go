package devbackend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shorts-clipper/internal/clipapi"
	"shorts-clipper/internal/draft"
	"shorts-clipper/internal/studio"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBackend(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	store := NewStore(t.TempDir(), 0)
	srv := httptest.NewServer(NewRouter(store, testLogger()))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestClientRoundTripUpload(t *testing.T) {
	srv, _ := newTestBackend(t)
	client := clipapi.New(srv.URL, clipapi.Options{Logger: testLogger()})

	video := filepath.Join(t.TempDir(), "talk.mp4")
	if err := os.WriteFile(video, []byte("video-bytes"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	session := studio.NewSession(client, testLogger())
	session.Draft().SetFile(video)
	session.Draft().ToggleEffect("zoom")

	job, err := session.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if job.Status != StatusQueued {
		t.Fatalf("got status %q want queued", job.Status)
	}

	jobs := session.Jobs()
	if len(jobs) != 1 || jobs[0].ID != job.ID {
		t.Fatalf("listing after submit: %+v", jobs)
	}
	if jobs[0].DownloadURL == "" || jobs[0].SubtitleURL == "" {
		t.Fatalf("completed upload should expose artifacts: %+v", jobs[0])
	}

	body, err := client.OpenArtifact(context.Background(), jobs[0].DownloadURL)
	if err != nil {
		t.Fatalf("download video: %v", err)
	}
	data, _ := io.ReadAll(body)
	body.Close()
	if string(data) != "video-bytes" {
		t.Fatalf("got %q want video-bytes", string(data))
	}

	body, err = client.OpenArtifact(context.Background(), jobs[0].SubtitleURL)
	if err != nil {
		t.Fatalf("download subtitles: %v", err)
	}
	data, _ = io.ReadAll(body)
	body.Close()
	if !strings.Contains(string(data), "-->") {
		t.Fatalf("not an srt file: %q", string(data))
	}
}

func TestClientRoundTripRemote(t *testing.T) {
	srv, store := newTestBackend(t)
	client := clipapi.New(srv.URL, clipapi.Options{Logger: testLogger()})

	d := draft.New()
	d.SetRemoteURL("https://youtu.be/abc")
	rec, err := client.CreateJob(context.Background(), d.Snapshot())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Get(rec.ID); err != nil {
		t.Fatalf("job not stored: %v", err)
	}
}

func TestCreateJobRejectsInvalidForm(t *testing.T) {
	srv, store := newTestBackend(t)

	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("source_type", "youtube")
	_ = mw.WriteField("youtube_url", "https://youtu.be/abc")
	_ = mw.WriteField("duration_seconds", "500")
	_ = mw.WriteField("subtitle_mode", "auto")
	_ = mw.WriteField("subtitle_template", "clean")
	_ = mw.WriteField("subtitle_position", "bottom")
	_ = mw.WriteField("aspect_ratio", "9:16")
	_ = mw.WriteField("resolution", "1080p")
	_ = mw.Close()

	resp, err := http.Post(srv.URL+"/api/jobs", mw.FormDataContentType(), strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("got status %d want 422", resp.StatusCode)
	}
	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Problems) == 0 || !strings.Contains(body.Problems[0], "duration_seconds") {
		t.Fatalf("got problems %v", body.Problems)
	}
	if len(store.List()) != 0 {
		t.Fatalf("invalid request must not create a job")
	}
}

func TestCreateJobDotFileNameStaysInDataDir(t *testing.T) {
	srv, store := newTestBackend(t)

	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("source_type", "upload")
	fw, _ := mw.CreateFormFile("file", "..")
	_, _ = io.WriteString(fw, "video-bytes")
	_ = mw.WriteField("duration_seconds", "30")
	_ = mw.WriteField("subtitle_mode", "none")
	_ = mw.WriteField("subtitle_template", "clean")
	_ = mw.WriteField("subtitle_position", "bottom")
	_ = mw.WriteField("aspect_ratio", "9:16")
	_ = mw.WriteField("resolution", "1080p")
	_ = mw.Close()

	resp, err := http.Post(srv.URL+"/api/jobs", mw.FormDataContentType(), strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d want 200", resp.StatusCode)
	}
	var rec struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	path, err := store.VideoPath(rec.ID)
	if err != nil {
		t.Fatalf("video path: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(store.dataDir, rec.ID) {
		t.Fatalf("upload stored outside its job dir: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "video-bytes" {
		t.Fatalf("got %q err %v", string(data), err)
	}
}

func TestCreateJobRequiresMultipart(t *testing.T) {
	srv, _ := newTestBackend(t)
	client := clipapi.New(srv.URL, clipapi.Options{Logger: testLogger()})

	resp, err := http.Post(srv.URL+"/api/jobs", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("got status %d want 400", resp.StatusCode)
	}

	_, err = client.OpenArtifact(context.Background(), "/api/jobs/nope/video")
	var statusErr *clipapi.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestListJobsEmpty(t *testing.T) {
	srv, _ := newTestBackend(t)
	resp, err := http.Get(srv.URL + "/api/jobs")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(data)) != `{"items":[]}` {
		t.Fatalf("got %s", string(data))
	}
}

func TestRequestIDMiddlewareEchoesCallerID(t *testing.T) {
	h := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestIDFrom(r.Context()) != "abc-123" {
			t.Errorf("request id not in context")
		}
	}))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("got %q want abc-123", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d want 500", rr.Code)
	}
}

func TestServerServeAndShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := NewServer(ServerConfig{Addr: l.Addr().String(), Store: NewStore(t.TempDir(), 0), Logger: testLogger()})

	done := make(chan error, 1)
	go func() {
		done <- server.Serve(l)
	}()

	resp, err := http.Get("http://" + l.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d want 200", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("serve returned %v", err)
	}
}
