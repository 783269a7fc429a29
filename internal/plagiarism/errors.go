package plagiarism

import "errors"

var (
	// ErrIO is returned when a document cannot be loaded. No report is produced.
	ErrIO = errors.New("document unreadable")

	// ErrInsufficientLength marks a report for which one of the documents is
	// shorter than the minimum window. It is attached to the report, never
	// returned from Detect.
	ErrInsufficientLength = errors.New("document shorter than minimum window")

	// ErrInvariantViolation signals a defect in the scanner: an accepted match
	// shorter than the window or two matches claiming the same token.
	ErrInvariantViolation = errors.New("internal invariant violation")

	// ErrCancelled is returned when the context is cancelled mid-scan.
	ErrCancelled = errors.New("scan cancelled")

	// ErrInvalidConfig is returned for non-positive window, worker or hash parameters.
	ErrInvalidConfig = errors.New("invalid detector configuration")
)
