// Package devbackend is an in-memory stand-in for the clipping service. It accepts the
// same multipart job requests, lists jobs and serves placeholder artifacts so the client
// can be exercised without the real pipeline.
package devbackend

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shorts-clipper/internal/artifacts"
	"shorts-clipper/internal/catalog"
	"shorts-clipper/internal/draft"
	"shorts-clipper/internal/model"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

var ErrJobNotFound = errors.New("job not found")

type job struct {
	id        string
	createdAt time.Time
	request   draft.Payload
	videoPath string
}

// Store keeps jobs in memory. Uploaded videos are written under dataDir.
type Store struct {
	mu            sync.Mutex
	jobs          map[string]*job
	dataDir       string
	completeAfter time.Duration
	now           func() time.Time
}

func NewStore(dataDir string, completeAfter time.Duration) *Store {
	return &Store{
		jobs:          make(map[string]*job),
		dataDir:       dataDir,
		completeAfter: completeAfter,
		now:           time.Now,
	}
}

// Create records a job. upload is read only for upload sources and may be nil otherwise.
func (s *Store) Create(ctx context.Context, req draft.Payload, upload io.Reader) (model.JobRecord, error) {
	id := uuid.NewString()
	j := &job{id: id, request: req}

	if req.SourceKind == catalog.SourceUpload {
		if upload == nil {
			return model.JobRecord{}, errors.New("upload body is required")
		}
		dest := filepath.Join(s.dataDir, id, uploadName(req.FilePath))
		if _, err := artifacts.Save(ctx, dest, upload); err != nil {
			return model.JobRecord{}, fmt.Errorf("store upload: %w", err)
		}
		j.videoPath = dest
	}

	s.mu.Lock()
	j.createdAt = s.now()
	s.jobs[id] = j
	s.mu.Unlock()

	return model.JobRecord{ID: id, Status: StatusQueued}, nil
}

// uploadName is the stored name of a job's source video. Only the extension of the
// client's file name survives, so the upload always lands inside the job directory.
func uploadName(fileName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))
	if ext == "." || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return "source" + ext
}

// stage writes an incoming upload to a temp file under the data directory.
func (s *Store) stage(ctx context.Context, r io.Reader) (string, error) {
	dest := filepath.Join(s.dataDir, ".incoming", uuid.NewString())
	if _, err := artifacts.Save(ctx, dest, r); err != nil {
		return "", err
	}
	return dest, nil
}

// List returns every job, newest first.
func (s *Store) List() []model.JobRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*job, 0, len(s.jobs))
	for _, j := range s.jobs {
		all = append(all, j)
	}
	sort.Slice(all, func(a, b int) bool {
		if all[a].createdAt.Equal(all[b].createdAt) {
			return all[a].id < all[b].id
		}
		return all[a].createdAt.After(all[b].createdAt)
	})

	now := s.now()
	out := make([]model.JobRecord, 0, len(all))
	for _, j := range all {
		out = append(out, s.record(j, now))
	}
	return out
}

func (s *Store) Get(id string) (model.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return model.JobRecord{}, ErrJobNotFound
	}
	return s.record(j, s.now()), nil
}

// VideoPath returns the stored upload of a completed job.
func (s *Store) VideoPath(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok || j.videoPath == "" || s.status(j, s.now()) != StatusCompleted {
		return "", ErrJobNotFound
	}
	return j.videoPath, nil
}

// Subtitles renders the SubRip file of a completed job with soft subtitles.
func (s *Store) Subtitles(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok || !hasSoftSubtitles(j.request) || s.status(j, s.now()) != StatusCompleted {
		return "", ErrJobNotFound
	}
	return renderSRT(j.request), nil
}

// Close removes stored uploads.
func (s *Store) Close() error {
	if strings.TrimSpace(s.dataDir) == "" {
		return nil
	}
	return os.RemoveAll(s.dataDir)
}

func (s *Store) status(j *job, now time.Time) string {
	age := now.Sub(j.createdAt)
	switch {
	case age >= s.completeAfter:
		return StatusCompleted
	case age >= s.completeAfter/2:
		return StatusProcessing
	default:
		return StatusQueued
	}
}

func (s *Store) record(j *job, now time.Time) model.JobRecord {
	rec := model.JobRecord{ID: j.id, Status: s.status(j, now)}
	if rec.Status != StatusCompleted {
		return rec
	}
	score := viralScore(j)
	rec.ViralScore = &score
	if j.videoPath != "" {
		rec.DownloadURL = "/api/jobs/" + j.id + "/video"
	}
	if hasSoftSubtitles(j.request) {
		rec.SubtitleURL = "/api/jobs/" + j.id + "/subtitles"
	}
	return rec
}

func hasSoftSubtitles(p draft.Payload) bool {
	return p.SubtitleMode != catalog.SubtitleNone && !p.HardSubtitles
}

// viralScore is stable for a job: 40.0 to 99.9, derived from its id and settings.
func viralScore(j *job) float64 {
	h := fnv.New32a()
	_, _ = io.WriteString(h, j.id)
	_, _ = io.WriteString(h, j.request.Template)
	_, _ = io.WriteString(h, strings.Join(j.request.Effects, ","))
	v := 40 + float64(h.Sum32()%600)/10
	return math.Round(v*10) / 10
}

func renderSRT(p draft.Payload) string {
	var lines []string
	if p.SubtitleMode == catalog.SubtitleCustom && strings.TrimSpace(p.CustomText) != "" {
		for _, line := range strings.Split(p.CustomText, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	} else {
		lang := p.Language
		if lang == "" {
			lang = catalog.LanguageAny
		}
		lines = []string{fmt.Sprintf("[auto subtitles: %s]", catalog.NameOf(catalog.Languages, lang))}
	}

	const cue = 2 * time.Second
	var b strings.Builder
	for i, text := range lines {
		start := time.Duration(i) * cue
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, srtTime(start), srtTime(start+cue), text)
	}
	return b.String()
}

func srtTime(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	sec := int(d % time.Minute / time.Second)
	ms := int(d % time.Second / time.Millisecond)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, sec, ms)
}
