// Package errs defines the sentinel error taxonomy returned by the csfile
// codec. Callers should use errors.Is against these sentinels rather than
// comparing error strings; every function in this module that returns one of
// them wraps it with call-specific detail via fmt.Errorf("...: %w", ...).
package errs

import "errors"

var (
	// ErrUnsupportedVersion is returned when a header's version field is
	// outside the 1..6 range this codec understands.
	ErrUnsupportedVersion = errors.New("unsupported header version")

	// ErrTruncated is returned when the stream ends before a field or row
	// can be fully read.
	ErrTruncated = errors.New("truncated stream")

	// ErrMalformedBlockSection is returned when a v6 tagged-block section's
	// declared size does not match the sum of its blocks, or a block codec
	// consumed a different number of bytes than its declared block_size.
	ErrMalformedBlockSection = errors.New("malformed block section")

	// ErrDuplicateTag is returned at registry construction time when two
	// codecs are registered for the same block tag.
	ErrDuplicateTag = errors.New("duplicate block tag registration")

	// ErrBlockDecodeFailed is returned when a recognized block's inner
	// schema does not match its payload (see BlockDecodeError for detail).
	ErrBlockDecodeFailed = errors.New("block decode failed")

	// ErrInvalidDimensions is returned when num_doppler_cells or
	// num_range_cells is non-positive while reading a spectrum.
	ErrInvalidDimensions = errors.New("invalid spectrum dimensions")
)

// BlockDecodeError carries the tag whose decoder failed, in addition to the
// underlying cause. It unwraps to ErrBlockDecodeFailed so callers can match
// on the sentinel without caring which tag failed.
type BlockDecodeError struct {
	Tag   string
	Cause error
}

func (e *BlockDecodeError) Error() string {
	return "block decode failed for tag " + e.Tag + ": " + e.Cause.Error()
}

func (e *BlockDecodeError) Unwrap() []error {
	return []error{ErrBlockDecodeFailed, e.Cause}
}

// NewBlockDecodeError builds a BlockDecodeError for the given tag and cause.
func NewBlockDecodeError(tag string, cause error) error {
	return &BlockDecodeError{Tag: tag, Cause: cause}
}
