package api

import "errors"

// Error taxonomy for the assessment platform. Fetch errors are terminal for
// a session; chat and validation errors degrade gracefully mid-session;
// submission errors are retryable.
var (
	// ErrNotFound means the test code is unknown to the platform (HTTP 404).
	ErrNotFound = errors.New("assessment not found")

	// ErrFetchFailed covers transport errors and non-404 failures while
	// fetching the assessment.
	ErrFetchFailed = errors.New("assessment fetch failed")

	// ErrChatUnavailable means a tutoring call failed. Surfaced as a system
	// line in the transcript, never fatal.
	ErrChatUnavailable = errors.New("tutor unavailable")

	// ErrValidationFailed means an answer-check call failed. Silent: the
	// student simply gets no correctness feedback for that attempt.
	ErrValidationFailed = errors.New("answer validation failed")

	// ErrSubmissionFailed means the finish call failed. The session stays
	// submittable so the student can retry.
	ErrSubmissionFailed = errors.New("submission failed")
)
