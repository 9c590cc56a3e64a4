// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors. Call sites wrap these with %w and callers classify them
// with errors.Is; the pipeline decides per class whether a failure aborts
// the run or only skips the current record.
var (
	// Capture container errors
	ErrCaptureFormat   = errors.New("tabula: unrecognized capture format")
	ErrTruncatedRecord = errors.New("tabula: truncated packet record")

	// Packet decoding errors
	ErrUnsupportedProto = errors.New("tabula: unsupported protocol")
	ErrMalformedHeader  = errors.New("tabula: malformed header")

	// Pipeline errors
	ErrDesynchronized = errors.New("tabula: summary stream out of sync with capture")

	// Output errors
	ErrOutputExists = errors.New("tabula: output file already exists")
)
