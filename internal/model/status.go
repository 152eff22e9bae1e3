package model

import "fmt"

type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionValidating SubmissionState = "validating"
	SubmissionSubmitting SubmissionState = "submitting"
	SubmissionSucceeded  SubmissionState = "succeeded"
	SubmissionFailed     SubmissionState = "failed"
)

type ListingState string

const (
	ListingLoading ListingState = "loading"
	ListingReady   ListingState = "ready"
	ListingStale   ListingState = "stale"
)

var submissionTransitions = map[SubmissionState]map[SubmissionState]bool{
	SubmissionIdle: {
		SubmissionValidating: true,
	},
	SubmissionValidating: {
		SubmissionIdle:       true, // gate rejected the draft
		SubmissionSubmitting: true,
	},
	SubmissionSubmitting: {
		SubmissionSucceeded: true,
		SubmissionFailed:    true,
	},
	SubmissionSucceeded: {
		SubmissionValidating: true,
	},
	SubmissionFailed: {
		SubmissionValidating: true,
	},
}

var listingTransitions = map[ListingState]map[ListingState]bool{
	ListingLoading: {
		ListingLoading: true, // overlapping refreshes
		ListingReady:   true,
		ListingStale:   true,
	},
	ListingReady: {
		ListingLoading: true,
	},
	ListingStale: {
		ListingLoading: true,
	},
}

func (s SubmissionState) InFlight() bool {
	return s == SubmissionValidating || s == SubmissionSubmitting
}

func CanTransitionSubmission(from, to SubmissionState) bool {
	return submissionTransitions[from][to]
}

func CanTransitionListing(from, to ListingState) bool {
	return listingTransitions[from][to]
}

func TransitionSubmission(state *SubmissionState, to SubmissionState) error {
	from := *state
	if !CanTransitionSubmission(from, to) {
		return fmt.Errorf("invalid submission transition: %q -> %q", from, to)
	}
	*state = to
	return nil
}

func TransitionListing(state *ListingState, to ListingState) error {
	from := *state
	if !CanTransitionListing(from, to) {
		return fmt.Errorf("invalid listing transition: %q -> %q", from, to)
	}
	*state = to
	return nil
}
