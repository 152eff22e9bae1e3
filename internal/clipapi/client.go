// Package clipapi talks to the clipping backend: job creation, job listing and
// artifact downloads.
package clipapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"shorts-clipper/internal/draft"
	"shorts-clipper/internal/model"
)

const (
	JobsPath       = "/api/jobs"
	userAgent      = "shorts-clipper"
	requestIDField = "X-Request-Id"
)

// StatusError is a non-2xx answer from the backend. The body is never inspected.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: %d", e.Op, e.StatusCode)
}

type Options struct {
	// Timeout bounds each request; zero means no timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is bound to one backend origin.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(baseURL string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: hc,
		logger:     logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateJob sends one multipart POST built from the payload and decodes the created job.
func (c *Client) CreateJob(ctx context.Context, p draft.Payload) (model.JobRecord, error) {
	fields := p.FormFields()

	var upload *os.File
	for _, f := range fields {
		if !f.File {
			continue
		}
		file, err := os.Open(f.Value)
		if err != nil {
			return model.JobRecord{}, fmt.Errorf("open upload: %w", err)
		}
		upload = file
		break
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		if upload != nil {
			defer upload.Close()
		}
		pw.CloseWithError(writeForm(mw, fields, upload))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+JobsPath, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return model.JobRecord{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	requestID := c.decorate(req)

	start := time.Now()
	c.logger.Debug("submitting job",
		"request_id", requestID,
		"source_type", string(p.SourceKind),
		"duration_seconds", p.DurationSeconds,
		"file", p.FileName(),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		_ = pr.CloseWithError(err)
		return model.JobRecord{}, fmt.Errorf("submit failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("job submission rejected",
			"request_id", requestID,
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return model.JobRecord{}, &StatusError{Op: "submit", StatusCode: resp.StatusCode}
	}

	var job model.JobRecord
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return model.JobRecord{}, fmt.Errorf("decode job response: %w", err)
	}
	c.logger.Info("job created",
		"request_id", requestID,
		"job_id", job.ID,
		"status", job.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return job, nil
}

// ListJobs returns the jobs in backend order. A body without items is an empty list.
func (c *Client) ListJobs(ctx context.Context) ([]model.JobRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+JobsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Op: "list jobs", StatusCode: resp.StatusCode}
	}

	var list model.JobList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode job list: %w", err)
	}
	if list.Items == nil {
		list.Items = []model.JobRecord{}
	}
	c.logger.Debug("jobs listed", "request_id", requestID, "count", len(list.Items))
	return list.Items, nil
}

// ArtifactURL resolves a backend-relative artifact link against the origin.
// Absolute links are returned unchanged and blank links stay blank.
func (c *Client) ArtifactURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.baseURL + ref
}

// OpenArtifact streams an artifact. The caller closes the returned body.
func (c *Client) OpenArtifact(ctx context.Context, ref string) (io.ReadCloser, error) {
	target := c.ArtifactURL(ref)
	if target == "" {
		return nil, fmt.Errorf("artifact link is empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &StatusError{Op: "download", StatusCode: resp.StatusCode}
	}
	c.logger.Debug("artifact download started", "request_id", requestID, "url", target)
	return resp.Body, nil
}

func (c *Client) decorate(req *http.Request) string {
	id := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(requestIDField, id)
	return id
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeForm(mw *multipart.Writer, fields []draft.FormField, upload *os.File) error {
	for _, f := range fields {
		if !f.File {
			if err := mw.WriteField(f.Name, f.Value); err != nil {
				return err
			}
			continue
		}
		if upload == nil {
			return fmt.Errorf("upload %s not opened", f.Value)
		}
		name := filepath.Base(f.Value)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Name), quoteEscaper.Replace(name)))
		h.Set("Content-Type", uploadContentType(name))
		part, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, upload); err != nil {
			return fmt.Errorf("stream upload: %w", err)
		}
	}
	return mw.Close()
}

func uploadContentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
