package model

import "testing"

func TestCanTransitionSubmission_AllowsExpectedPaths(t *testing.T) {
	cases := []struct {
		from SubmissionState
		to   SubmissionState
	}{
		{SubmissionIdle, SubmissionValidating},
		{SubmissionValidating, SubmissionSubmitting},
		{SubmissionValidating, SubmissionIdle},
		{SubmissionSubmitting, SubmissionSucceeded},
		{SubmissionSubmitting, SubmissionFailed},
		{SubmissionFailed, SubmissionValidating},
		{SubmissionSucceeded, SubmissionValidating},
	}

	for _, tc := range cases {
		if !CanTransitionSubmission(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be allowed", tc.from, tc.to)
		}
	}
}

func TestCanTransitionSubmission_RejectsInvalidPaths(t *testing.T) {
	cases := []struct {
		from SubmissionState
		to   SubmissionState
	}{
		{SubmissionIdle, SubmissionSubmitting},
		{SubmissionSubmitting, SubmissionValidating},
		{SubmissionSubmitting, SubmissionIdle},
		{SubmissionValidating, SubmissionSucceeded},
		{"not_a_state", SubmissionValidating},
	}

	for _, tc := range cases {
		if CanTransitionSubmission(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be rejected", tc.from, tc.to)
		}
	}
}

func TestInFlightStates(t *testing.T) {
	inFlight := map[SubmissionState]bool{
		SubmissionIdle:       false,
		SubmissionValidating: true,
		SubmissionSubmitting: true,
		SubmissionSucceeded:  false,
		SubmissionFailed:     false,
	}
	for state, want := range inFlight {
		if got := state.InFlight(); got != want {
			t.Fatalf("%q in flight: got %v want %v", state, got, want)
		}
	}
}

func TestTransitionListing_BlocksReadyToStale(t *testing.T) {
	state := ListingReady
	if err := TransitionListing(&state, ListingStale); err == nil {
		t.Fatal("expected ready -> stale to be rejected")
	}
	if state != ListingReady {
		t.Fatalf("state changed on rejected transition: %q", state)
	}
	if err := TransitionListing(&state, ListingLoading); err != nil {
		t.Fatalf("ready -> loading: %v", err)
	}
}

func TestRoundedScore(t *testing.T) {
	score := 72.6
	job := JobRecord{ID: "j1", ViralScore: &score}
	got, ok := job.RoundedScore()
	if !ok || got != 73 {
		t.Fatalf("rounded score: got %d (ok=%v) want 73", got, ok)
	}
	if _, ok := (JobRecord{ID: "j2"}).RoundedScore(); ok {
		t.Fatal("expected no score for job without viral_score")
	}
}
