package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a bad detector id, family filter or window
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidDate indicates a start/stop bound that is not a DDMMYYYY date
	ErrInvalidDate = errors.New("invalid date")

	// ErrInconsistentSchema indicates contributing files disagree on channel count
	ErrInconsistentSchema = errors.New("inconsistent schema")

	// ErrEmptyResult indicates the query ran but no file contributed any rows
	ErrEmptyResult = errors.New("empty result")

	// ErrMissingExpectedKey indicates a strict catalog query found no reserved key
	ErrMissingExpectedKey = errors.New("missing expected key")

	// ErrDetectorNotFound indicates a file holds no record for the detector.
	// Extraction recovers from it by skipping the file.
	ErrDetectorNotFound = errors.New("detector not found")

	// ErrMalformedRecord indicates timestamps and spectrum rows disagree
	ErrMalformedRecord = errors.New("malformed detector record")
)

// SkippedFileWarning records a source file that was excluded from a query
// because it could not be read.
type SkippedFileWarning struct {
	Path string
	Err  error
}

func (w SkippedFileWarning) Error() string {
	return fmt.Sprintf("skipped %s: %v", w.Path, w.Err)
}

func (w SkippedFileWarning) Unwrap() error {
	return w.Err
}
