// Package studio owns one editing session: the draft, the submission state machine
// and the job listing. A Session is not safe for concurrent use; the TUI drives it from
// its update loop and the commands drive it sequentially.
package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shorts-clipper/internal/draft"
	"shorts-clipper/internal/logging"
	"shorts-clipper/internal/model"
)

var (
	ErrNotSubmittable = errors.New("draft is not ready to submit")
	ErrInFlight       = errors.New("a submission is already in flight")
)

// JobService is the backend as seen by a session.
type JobService interface {
	CreateJob(ctx context.Context, p draft.Payload) (model.JobRecord, error)
	ListJobs(ctx context.Context) ([]model.JobRecord, error)
}

type Session struct {
	svc    JobService
	logger *slog.Logger
	draft  *draft.Draft

	submission model.SubmissionState
	lastErr    error
	lastJob    *model.JobRecord

	listing    model.ListingState
	jobs       []model.JobRecord
	issuedSeq  uint64
	appliedSeq uint64
}

func NewSession(svc JobService, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{
		svc:        svc,
		logger:     logging.WithComponent(logger, "studio"),
		draft:      draft.New(),
		submission: model.SubmissionIdle,
		listing:    model.ListingLoading,
		jobs:       []model.JobRecord{},
	}
}

// Draft is the live draft; edits made through it are seen by the gate immediately.
func (s *Session) Draft() *draft.Draft { return s.draft }

func (s *Session) SubmissionState() model.SubmissionState { return s.submission }
func (s *Session) ListingState() model.ListingState       { return s.listing }

// LastError is the error of the most recent failed submission, cleared by the next attempt.
func (s *Session) LastError() error { return s.lastErr }

// LastJob is the job returned by the most recent successful submission.
func (s *Session) LastJob() (model.JobRecord, bool) {
	if s.lastJob == nil {
		return model.JobRecord{}, false
	}
	return *s.lastJob, true
}

// Jobs returns a copy of the displayed job set in backend order.
func (s *Session) Jobs() []model.JobRecord {
	out := make([]model.JobRecord, len(s.jobs))
	copy(out, s.jobs)
	return out
}

func (s *Session) CanSubmit() bool {
	return draft.IsSubmittable(s.draft, s.submission.InFlight())
}

// BeginSubmit runs the gate and, when it passes, moves to submitting and returns the
// snapshot to send. A rejected draft leaves the session idle.
func (s *Session) BeginSubmit() (draft.Payload, error) {
	if s.submission.InFlight() {
		return draft.Payload{}, ErrInFlight
	}
	if err := model.TransitionSubmission(&s.submission, model.SubmissionValidating); err != nil {
		return draft.Payload{}, err
	}
	s.lastErr = nil
	if !draft.IsSubmittable(s.draft, false) {
		if err := model.TransitionSubmission(&s.submission, model.SubmissionIdle); err != nil {
			return draft.Payload{}, err
		}
		return draft.Payload{}, ErrNotSubmittable
	}
	if err := model.TransitionSubmission(&s.submission, model.SubmissionSubmitting); err != nil {
		return draft.Payload{}, err
	}
	return s.draft.Snapshot(), nil
}

// FinishSubmit applies the backend answer. On success the source and custom text are
// cleared; on failure the draft is left as it was. It reports whether the job was created.
func (s *Session) FinishSubmit(job model.JobRecord, err error) bool {
	if s.submission != model.SubmissionSubmitting {
		s.logger.Warn("submission result without a submission in flight", "state", string(s.submission))
		return false
	}
	if err != nil {
		_ = model.TransitionSubmission(&s.submission, model.SubmissionFailed)
		s.lastErr = err
		s.logger.Warn("submission failed", "error", err)
		return false
	}
	_ = model.TransitionSubmission(&s.submission, model.SubmissionSucceeded)
	s.lastJob = &job
	s.draft.ClearTransient()
	logging.WithJobID(s.logger, job.ID).Info("submission succeeded", "status", job.Status)
	return true
}

// Create sends the draft once without touching the listing. Callers with no job
// list to show use it instead of Submit.
func (s *Session) Create(ctx context.Context) (model.JobRecord, error) {
	payload, err := s.BeginSubmit()
	if err != nil {
		return model.JobRecord{}, err
	}
	job, err := s.svc.CreateJob(ctx, payload)
	if !s.FinishSubmit(job, err) {
		if err == nil {
			err = fmt.Errorf("submission state lost")
		}
		return model.JobRecord{}, err
	}
	return job, nil
}

// Submit sends the draft once and, after a successful submission, reloads the listing.
func (s *Session) Submit(ctx context.Context) (model.JobRecord, error) {
	job, err := s.Create(ctx)
	if err != nil {
		return model.JobRecord{}, err
	}
	s.Refresh(ctx)
	return job, nil
}

// BeginRefresh marks the listing as loading and returns the sequence number the
// response must carry back to FinishRefresh.
func (s *Session) BeginRefresh() uint64 {
	_ = model.TransitionListing(&s.listing, model.ListingLoading)
	s.issuedSeq++
	return s.issuedSeq
}

// FinishRefresh applies a listing response. Responses older than the last applied one
// are dropped. A failed listing keeps the previous jobs and is only logged.
// It reports whether the response was applied.
func (s *Session) FinishRefresh(seq uint64, jobs []model.JobRecord, err error) bool {
	if seq <= s.appliedSeq || seq > s.issuedSeq {
		s.logger.Debug("dropping out of order listing", "seq", seq, "applied", s.appliedSeq)
		return false
	}
	s.appliedSeq = seq
	newer := seq < s.issuedSeq

	if err != nil {
		s.logger.Debug("job listing failed", "error", err, "seq", seq)
		if !newer {
			_ = model.TransitionListing(&s.listing, model.ListingStale)
		}
		return true
	}

	if jobs == nil {
		jobs = []model.JobRecord{}
	}
	s.jobs = make([]model.JobRecord, len(jobs))
	copy(s.jobs, jobs)
	if !newer {
		_ = model.TransitionListing(&s.listing, model.ListingReady)
	}
	return true
}

// Refresh fetches the job list once and applies it.
func (s *Session) Refresh(ctx context.Context) {
	seq := s.BeginRefresh()
	jobs, err := s.svc.ListJobs(ctx)
	s.FinishRefresh(seq, jobs, err)
}

// Service exposes the backend so callers can run requests outside the session.
func (s *Session) Service() JobService { return s.svc }
